package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/careerhub/internal/app/system/events"
	"github.com/dalemusser/careerhub/internal/app/system/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type outbox struct {
	sent []mailer.Email
	err  error
}

func (o *outbox) Send(_ context.Context, e mailer.Email) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, e)
	return nil
}

func newNotifier(o *outbox) *Notifier {
	return &Notifier{Mail: o, SiteName: "CareerHub", BaseURL: "https://careerhub.example.com", Log: zap.NewNop()}
}

func TestHandle_AdmissionPublished(t *testing.T) {
	o := &outbox{}
	n := newNotifier(o)

	e := events.New(events.AdmissionPublished, "ada@example.com", "Ada", map[string]string{
		"institution": "City College",
		"courses":     JoinList([]string{"Art", "Law"}),
	})
	require.NoError(t, n.Handle(context.Background(), e))
	require.Len(t, o.sent, 1)
	assert.Equal(t, "ada@example.com", o.sent[0].To)
	assert.Contains(t, o.sent[0].TextBody, "Courses: Art, Law")
}

func TestHandle_StatusEvents(t *testing.T) {
	o := &outbox{}
	n := newNotifier(o)
	ctx := context.Background()

	require.NoError(t, n.Handle(ctx, events.New(events.ApplicationStatusChanged, "a@b.c", "A",
		map[string]string{"institution": "City College", "status": "Admitted"})))
	require.NoError(t, n.Handle(ctx, events.New(events.JobApplicationStatusChanged, "a@b.c", "A",
		map[string]string{"job_title": "Backend Engineer", "status": "Shortlisted"})))

	require.Len(t, o.sent, 2)
	assert.Equal(t, "CareerHub: application admitted", o.sent[0].Subject)
	assert.Equal(t, "CareerHub: Backend Engineer application shortlisted", o.sent[1].Subject)
}

func TestHandle_UnknownTypeIgnored(t *testing.T) {
	o := &outbox{}
	assert.NoError(t, newNotifier(o).Handle(context.Background(), events.Event{Type: "something.else"}))
	assert.Empty(t, o.sent)
}

func TestHandle_SendFailureSurfaces(t *testing.T) {
	o := &outbox{err: errors.New("smtp down")}
	err := newNotifier(o).Handle(context.Background(), events.New(events.AdmissionPublished, "a@b.c", "A", nil))
	assert.Error(t, err)
}
