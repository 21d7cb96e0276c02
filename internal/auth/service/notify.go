package service

import (
	"context"

	"github.com/NallyTHEdude/TMS-Server/pkg/mailer"
	"github.com/NallyTHEdude/TMS-Server/pkg/slogx"
)

// notify sends an email without letting a failure reach the caller. The
// state change that triggered it has already been persisted.
func notify(ctx context.Context, d mailer.Dispatcher, msg mailer.Message, renderErr error) {
	log := slogx.FromContext(ctx)
	if renderErr != nil {
		log.Error("render email failed", "err", renderErr)
		return
	}
	if d == nil {
		log.Warn("no mail dispatcher configured, email dropped", "kind", msg.Kind)
		return
	}
	if err := d.Send(ctx, msg); err != nil {
		log.Error("send email failed", "kind", msg.Kind, "err", err)
	}
}
