// Package broadcast connects the forum core to live delivery. Publishers
// encode push payloads and hand them to either the local hub (single
// instance) or Redis pub/sub (multi instance); the Forwarder pumps Redis
// messages back into the hub on every instance.
package broadcast
