// Package config provides environment-based configuration.
//
// Validates required fields at startup; an empty DATABASE_URL outside
// production selects the in-memory storage mode.
package config
