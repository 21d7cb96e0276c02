package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/NallyTHEdude/TMS-Server/pkg/mailer"
	"github.com/redis/go-redis/v9"
)

// mailStack is the configured outbound path. With the redis driver, flows
// only enqueue and consumer does the delivery in the background.
type mailStack struct {
	dispatcher mailer.Dispatcher
	redis      *redis.Client
	consumer   *mailer.StreamConsumer
}

func newMailStack(ctx context.Context, cfg MailConfig, logger *slog.Logger) (*mailStack, error) {
	switch cfg.Driver {
	case "log":
		return &mailStack{dispatcher: mailer.LogDispatcher{Logger: logger}}, nil

	case "smtp":
		d, err := newSMTP(cfg)
		if err != nil {
			return nil, err
		}
		return &mailStack{dispatcher: d}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}

		var deliver mailer.Dispatcher = mailer.LogDispatcher{Logger: logger}
		if cfg.SMTPHost != "" {
			d, err := newSMTP(cfg)
			if err != nil {
				_ = client.Close()
				return nil, err
			}
			deliver = d
		}

		hostname, _ := os.Hostname()
		return &mailStack{
			dispatcher: &mailer.StreamDispatcher{Client: client, Stream: cfg.Stream},
			redis:      client,
			consumer: &mailer.StreamConsumer{
				Client:   client,
				Stream:   cfg.Stream,
				Consumer: "mailer-" + hostname,
				Deliver:  deliver,
				Logger:   logger.With("component", "mail_consumer"),
			},
		}, nil
	}

	return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
}

func newSMTP(cfg MailConfig) (*mailer.SMTPDispatcher, error) {
	return mailer.NewSMTPDispatcher(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.From,
	})
}

// redisPinger adapts the go-redis client to the readiness probe.
type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.client.Ping(ctx).Err() }
