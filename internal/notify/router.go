package notify

import (
	"context"

	"realtyshare/internal/models"
	"realtyshare/internal/observability"
)

// Sessions is the slice of the websocket hub the router needs.
type Sessions interface {
	SendNotification(receiverID int, notif models.NewMessageNotification) int
}

// Router decides whether a stored message should raise a transient
// notification: never for the sender's own messages, never for the room the
// receiver is actively viewing. A copy of every raised notification is
// published to the event exchange for downstream consumers.
type Router struct {
	sessions Sessions
}

// NewRouter constructs a Router.
func NewRouter(sessions Sessions) *Router {
	return &Router{sessions: sessions}
}

// Route inspects a freshly stored message and notifies the receiver's idle
// sessions. It returns the number of sessions notified.
func (r *Router) Route(ctx context.Context, msg models.Message, senderName string) int {
	if msg.ReceiverID == msg.SenderID {
		return 0
	}

	notif := models.NewMessageNotification{
		RoomID:     msg.RoomID,
		SenderID:   msg.SenderID,
		SenderName: senderName,
		Text:       msg.Content,
	}
	sent := r.sessions.SendNotification(msg.ReceiverID, notif)
	if sent == 0 {
		return 0
	}

	observability.IncNotification()
	_ = observability.PublishEvent(ctx, "notifications.messages", observability.EventEnvelope{
		EventType: "notifications",
		EventName: "new_message",
		Payload: map[string]interface{}{
			"room_id":     notif.RoomID,
			"sender_id":   notif.SenderID,
			"sender_name": notif.SenderName,
			"receiver_id": msg.ReceiverID,
			"text":        notif.Text,
		},
	}, nil)
	return sent
}
