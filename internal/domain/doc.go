// Package domain holds the model types, repository contracts, and sentinel
// errors shared across the forum core. It has no dependencies on storage or
// transport packages; those implement the interfaces defined here.
package domain
