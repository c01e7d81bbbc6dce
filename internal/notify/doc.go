// Package notify publishes compilation batch summaries to NATS so other
// services (cache purgers, chat bots, deploy hooks) can react to site updates.
package notify
