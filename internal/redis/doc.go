// Package redis wraps the go-redis client used for cross-instance push
// delivery. All pub/sub traffic goes through channels with the "push:"
// prefix; a circuit breaker hook protects every operation against a slow or
// unavailable Redis.
package redis
