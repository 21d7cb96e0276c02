package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamConsumer reads queued mail from a Redis stream as part of a consumer
// group and hands each message to Deliver. Messages are acknowledged only
// after a successful delivery; failed ones stay pending and are reclaimed
// once they have been idle for ClaimInterval.
type StreamConsumer struct {
	Client   *redis.Client
	Stream   string
	Group    string
	Consumer string
	Deliver  Dispatcher
	Logger   *slog.Logger

	// ClaimInterval is both the stalled-message check period and the idle
	// time after which a pending message is taken over.
	ClaimInterval time.Duration
	// Block is how long one read waits for new entries.
	Block time.Duration
}

const (
	defaultGroup         = "mailer"
	defaultClaimInterval = time.Minute
	defaultBlock         = 5 * time.Second
	readCount            = 10
)

func (c *StreamConsumer) defaults() {
	if c.Stream == "" {
		c.Stream = DefaultStream
	}
	if c.Group == "" {
		c.Group = defaultGroup
	}
	if c.Consumer == "" {
		c.Consumer = "mailer-1"
	}
	if c.ClaimInterval <= 0 {
		c.ClaimInterval = defaultClaimInterval
	}
	if c.Block <= 0 {
		c.Block = defaultBlock
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// EnsureGroup creates the consumer group (and the stream) if missing.
func (c *StreamConsumer) EnsureGroup(ctx context.Context) error {
	c.defaults()
	err := c.Client.XGroupCreateMkStream(ctx, c.Stream, c.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("mailer: create group %s on %s: %w", c.Group, c.Stream, err)
	}
	return nil
}

// Start runs until ctx is cancelled.
func (c *StreamConsumer) Start(ctx context.Context) error {
	if err := c.EnsureGroup(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(c.ClaimInterval)
	defer ticker.Stop()

	c.Logger.Info("mail consumer started", "stream", c.Stream, "group", c.Group, "consumer", c.Consumer)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := c.ProcessOnce(ctx); err != nil && ctx.Err() == nil {
			c.Logger.Error("stream read error", "err", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.ClaimStalled(ctx); err != nil && ctx.Err() == nil {
				c.Logger.Error("claim stalled messages failed", "err", err)
			}
		default:
		}
	}
}

// ProcessOnce reads one batch of new entries and returns how many were
// delivered and acknowledged.
func (c *StreamConsumer) ProcessOnce(ctx context.Context) (int, error) {
	c.defaults()
	result, err := c.Client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.Group,
		Consumer: c.Consumer,
		Streams:  []string{c.Stream, ">"},
		Count:    readCount,
		Block:    c.Block,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}

	done := 0
	for _, stream := range result {
		for _, msg := range stream.Messages {
			if c.handle(ctx, msg) {
				done++
			}
		}
	}
	return done, nil
}

// ClaimStalled takes over pending entries idle for at least ClaimInterval
// and retries them.
func (c *StreamConsumer) ClaimStalled(ctx context.Context) error {
	c.defaults()
	pending, err := c.Client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: c.Stream,
		Group:  c.Group,
		Start:  "-",
		End:    "+",
		Count:  readCount,
	}).Result()
	if err != nil {
		return err
	}

	for _, entry := range pending {
		if entry.Idle < c.ClaimInterval {
			continue
		}
		msgs, err := c.Client.XClaim(ctx, &redis.XClaimArgs{
			Stream:   c.Stream,
			Group:    c.Group,
			Consumer: c.Consumer,
			MinIdle:  c.ClaimInterval,
			Messages: []string{entry.ID},
		}).Result()
		if err != nil {
			c.Logger.Error("claim error", "message_id", entry.ID, "err", err)
			continue
		}
		for _, msg := range msgs {
			c.handle(ctx, msg)
		}
	}
	return nil
}

func (c *StreamConsumer) handle(ctx context.Context, raw redis.XMessage) bool {
	log := c.Logger.With("message_id", raw.ID)

	msg, err := decodeMessage(raw.Values)
	if err != nil {
		// Nothing will ever make this entry deliverable.
		log.Error("dropping undecodable mail entry", "err", err)
		c.ack(ctx, raw.ID)
		return false
	}

	if err := c.Deliver.Send(ctx, msg); err != nil {
		log.Error("deliver mail failed", "kind", msg.Kind, "err", err)
		return false
	}

	return c.ack(ctx, raw.ID)
}

func (c *StreamConsumer) ack(ctx context.Context, id string) bool {
	if err := c.Client.XAck(ctx, c.Stream, c.Group, id).Err(); err != nil {
		c.Logger.Error("ack failed", "message_id", id, "err", err)
		return false
	}
	return true
}
