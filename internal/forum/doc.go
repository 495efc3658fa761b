// Package forum implements the core question-and-answer operations: voting,
// answer acceptance, answer and comment posting, and the reputation rules
// tied to them. The Service orchestrates a Store (postgres or in-memory), a
// Notifier for fan-out, and a PushPublisher for live updates.
package forum
