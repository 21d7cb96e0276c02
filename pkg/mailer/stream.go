package mailer

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is the Redis stream queued mail is written to.
const DefaultStream = "mail:outbound"

// StreamDispatcher queues messages on a Redis stream for a StreamConsumer to
// deliver. Send returns once the entry is appended.
type StreamDispatcher struct {
	Client *redis.Client
	Stream string
}

func (d *StreamDispatcher) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	stream := d.Stream
	if stream == "" {
		stream = DefaultStream
	}

	_, err := d.Client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: encodeMessage(msg),
	}).Result()
	if err != nil {
		return fmt.Errorf("mailer: enqueue on %s: %w", stream, err)
	}
	return nil
}

func encodeMessage(msg Message) map[string]any {
	return map[string]any{
		"kind":    string(msg.Kind),
		"to":      msg.To,
		"subject": msg.Subject,
		"text":    msg.Text,
		"html":    msg.HTML,
	}
}

func decodeMessage(values map[string]any) (Message, error) {
	str := func(k string) string {
		s, _ := values[k].(string)
		return s
	}
	msg := Message{
		Kind:    Kind(str("kind")),
		To:      str("to"),
		Subject: str("subject"),
		Text:    str("text"),
		HTML:    str("html"),
	}
	if err := msg.validate(); err != nil {
		return Message{}, err
	}
	return msg, nil
}
