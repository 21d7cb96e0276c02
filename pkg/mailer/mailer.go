// Package mailer renders and delivers account emails: verification links,
// login notices and password reset links.
package mailer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Kind labels a message for logs and the queue.
type Kind string

const (
	KindVerification  Kind = "email_verification"
	KindLoginNotice   Kind = "login_notice"
	KindPasswordReset Kind = "password_reset"
)

// Message is a fully rendered email.
type Message struct {
	Kind    Kind
	To      string
	Subject string
	Text    string
	HTML    string
}

// ErrInvalidMessage is returned for a message with no recipient or subject.
var ErrInvalidMessage = errors.New("mailer: invalid message")

func (m Message) validate() error {
	if strings.TrimSpace(m.To) == "" || strings.TrimSpace(m.Subject) == "" {
		return ErrInvalidMessage
	}
	return nil
}

// Dispatcher delivers a message. Callers treat delivery as best effort.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, msg Message) error

func (f DispatcherFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// LogDispatcher writes messages to a logger instead of sending them. It is
// the development default and includes the plain text body, so links can be
// copied out of the log.
type LogDispatcher struct {
	Logger *slog.Logger
}

func (d LogDispatcher) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "email (log driver)",
		"kind", msg.Kind,
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Text,
	)
	return nil
}
