package chathub

import "telecare/backend/internal/models"

// Client is the interface for one live transport session (one device/tab of
// one participant). It abstracts the underlying connection so the relay can
// manage WebSocket clients and test doubles uniformly. A participant may have
// several clients at once; each joined client receives every broadcast to its
// rooms (multi-device fan-out).
type Client interface {
	// GetUserID returns the participant this connection belongs to.
	GetUserID() string

	// GetSendChannel returns the channel the relay writes outbound events to.
	// It is drained by the client's write pump.
	GetSendChannel() chan<- models.RelayEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close gracefully shuts down the client's connection and send channel.
	Close()
}
