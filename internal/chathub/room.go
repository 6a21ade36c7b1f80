package chathub

import (
	"fmt"
	"strings"

	"telecare/backend/internal/config"
)

// ResolveRoomID derives the canonical room identifier for a participant pair.
// Both sides compute the same value independently: the two IDs are sorted
// lexicographically and joined with an underscore, so no lookup table or
// shared state is needed and ResolveRoomID(a, b) == ResolveRoomID(b, a).
func ResolveRoomID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + config.RoomSeparator + b
}

// ValidateRoomPair rejects degenerate pairs before a room is ever resolved.
// Кімната завжди має рівно двох різних учасників; self-chat — помилка виклику.
func ValidateRoomPair(a, b string) error {
	if a == "" || b == "" {
		return fmt.Errorf("room pair: both participant IDs are required")
	}
	if a == b {
		return fmt.Errorf("room pair: participants must differ, got %q twice", a)
	}
	if strings.Contains(a, config.RoomSeparator) || strings.Contains(b, config.RoomSeparator) {
		return fmt.Errorf("room pair: participant IDs must not contain %q", config.RoomSeparator)
	}
	return nil
}
