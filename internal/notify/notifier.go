package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Event is the envelope published on a channel. Subscribers switch on
// Event and decode Data.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Notifier relays committed state changes to connected clients over
// Redis pub/sub, one channel per entity. Delivery is at-most-once and
// best-effort: a failed publish is logged, never surfaced — the store
// mutation is the source of truth.
type Notifier struct {
	client *redis.Client
	log    *slog.Logger
}

func NewNotifier(client *redis.Client, log *slog.Logger) *Notifier {
	return &Notifier{client: client, log: log}
}

// PostChannel names the channel carrying a post's like and comment events.
func PostChannel(postID uint64) string {
	return fmt.Sprintf("post-%d", postID)
}

// ConversationChannel names the channel carrying a conversation's messages.
func ConversationChannel(conversationID uint64) string {
	return fmt.Sprintf("conversation-%d", conversationID)
}

// Publish sends an event to a channel. Fire-and-forget: errors are logged
// and swallowed.
func (n *Notifier) Publish(ctx context.Context, channel, event string, payload any) {
	body, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		n.log.Error("notify: marshal failed", "channel", channel, "event", event, "err", err)
		return
	}
	if err := n.client.Publish(ctx, channel, body).Err(); err != nil {
		n.log.Warn("notify: publish failed", "channel", channel, "event", event, "err", err)
	}
}
