// Package notify turns domain events into emails. It runs inside the
// careerhub-notifier process.
package notify

import (
	"context"
	"strings"

	"github.com/dalemusser/careerhub/internal/app/system/events"
	"github.com/dalemusser/careerhub/internal/app/system/mailer"
	"go.uber.org/zap"
)

// Notifier maps events to templates and sends them.
type Notifier struct {
	Mail     mailer.Sender
	SiteName string
	BaseURL  string
	Log      *zap.Logger
}

// Handle implements events.Handler. Unknown event types are acknowledged
// and ignored so new producers cannot wedge the queue.
func (n *Notifier) Handle(ctx context.Context, e events.Event) error {
	msg, ok := n.build(e)
	if !ok {
		n.Log.Debug("no template for event", zap.String("type", e.Type))
		return nil
	}
	return n.Mail.Send(ctx, msg)
}

func (n *Notifier) build(e events.Event) (mailer.Email, bool) {
	d := e.Data
	switch e.Type {
	case events.ApplicationStatusChanged:
		return mailer.ApplicationStatusEmail(n.SiteName, n.BaseURL, e.RecipientEmail, e.RecipientName,
			d["institution"], d["status"], splitList(d["courses"])), true
	case events.AdmissionPublished:
		return mailer.AdmissionPublishedEmail(n.SiteName, n.BaseURL, e.RecipientEmail, e.RecipientName,
			d["institution"], splitList(d["courses"])), true
	case events.JobApplicationStatusChanged:
		return mailer.JobApplicationStatusEmail(n.SiteName, n.BaseURL, e.RecipientEmail, e.RecipientName,
			d["job_title"], d["status"]), true
	}
	return mailer.Email{}, false
}

// JoinList and splitList encode course lists in the string-only payload.
func JoinList(items []string) string { return strings.Join(items, "|") }

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}
