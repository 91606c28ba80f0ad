package service

import "log"

// ChatNotifier is the capability the session uses to tell the messaging
// subsystem when a driver conversation becomes available. The contract is a
// trip identifier, nothing more. Wiring decides whether a real client or the
// no-op implementation is supplied; the session never probes for one.
type ChatNotifier interface {
	Activate(tripID string)
	Deactivate(tripID string)
}

// NoopChatNotifier is the null implementation used when no chat subsystem is
// wired in.
type NoopChatNotifier struct{}

func (NoopChatNotifier) Activate(tripID string)   {}
func (NoopChatNotifier) Deactivate(tripID string) {}

// LogChatNotifier logs chat activation, standing in for a real messaging
// client in the demo wiring.
type LogChatNotifier struct{}

func (LogChatNotifier) Activate(tripID string) {
	log.Printf("[CHAT] activated for trip %s", tripID)
}

func (LogChatNotifier) Deactivate(tripID string) {
	log.Printf("[CHAT] deactivated for trip %s", tripID)
}
