package notification

import "github.com/google/uuid"

// RealtimePublisher pushes an event to a user's open websocket sessions.
// Satisfied by the realtime hub.
type RealtimePublisher interface {
	PushToUserJSON(userID uuid.UUID, payload any) error
}
