// Package server exposes the HTTP and WebSocket API on Echo. Handlers stay
// thin: they bind and validate input, call the forum service or the
// notification dispatcher, and map results to JSON. The structured error
// middleware turns returned errors into status codes.
package server
