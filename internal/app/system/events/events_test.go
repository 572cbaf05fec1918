package events

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	got []Event
	err error
}

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	if p.err != nil {
		return p.err
	}
	p.got = append(p.got, e)
	return nil
}

type fakeAck struct {
	acked, nacked, requeued int
}

func (a *fakeAck) Ack(uint64, bool) error { a.acked++; return nil }
func (a *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	if requeue {
		a.requeued++
	}
	return nil
}
func (a *fakeAck) Reject(uint64, bool) error { return nil }

func TestNew(t *testing.T) {
	e := New(ApplicationStatusChanged, "ada@example.com", "Ada", map[string]string{"status": "Admitted"})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.OccurredAt.IsZero())
	assert.Equal(t, "Admitted", e.Data["status"])
}

func TestEmit(t *testing.T) {
	log := zap.NewNop()
	pub := &recordingPublisher{}

	Emit(context.Background(), pub, log, New(AdmissionPublished, "ada@example.com", "Ada", nil))
	Emit(context.Background(), pub, log, New(AdmissionPublished, "", "Nobody", nil))
	require.Len(t, pub.got, 1, "events without a recipient are skipped")

	pub.err = errors.New("broker down")
	assert.NotPanics(t, func() {
		Emit(context.Background(), pub, log, New(AdmissionPublished, "ada@example.com", "Ada", nil))
	})
	assert.NotPanics(t, func() {
		Emit(context.Background(), nil, log, New(AdmissionPublished, "ada@example.com", "Ada", nil))
	})
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{}))
}

func TestConsumerHandle(t *testing.T) {
	c := &Consumer{log: zap.NewNop()}
	ctx := context.Background()

	var seen []string
	ok := func(_ context.Context, e Event) error { seen = append(seen, e.Type); return nil }
	fail := func(context.Context, Event) error { return errors.New("smtp down") }

	ack := &fakeAck{}
	c.handle(ctx, amqp.Delivery{Acknowledger: ack, Body: []byte(`{"type":"admission.published","recipient_email":"a@b.c"}`)}, ok)
	assert.Equal(t, 1, ack.acked)
	assert.Equal(t, []string{AdmissionPublished}, seen)

	ack = &fakeAck{}
	c.handle(ctx, amqp.Delivery{Acknowledger: ack, Body: []byte(`{not json`)}, ok)
	assert.Equal(t, 1, ack.nacked)
	assert.Zero(t, ack.requeued)

	ack = &fakeAck{}
	c.handle(ctx, amqp.Delivery{Acknowledger: ack, Body: []byte(`{"type":"x"}`)}, fail)
	assert.Equal(t, 1, ack.nacked)
	assert.Equal(t, 1, ack.requeued, "first failure is retried")
	assert.Zero(t, ack.acked)

	ack = &fakeAck{}
	c.handle(ctx, amqp.Delivery{Acknowledger: ack, Redelivered: true, Body: []byte(`{"type":"x"}`)}, fail)
	assert.Equal(t, 1, ack.nacked)
	assert.Zero(t, ack.requeued, "second failure is dead-lettered")
}

func TestDeadLetterArgs(t *testing.T) {
	args := deadLetterArgs("careerhub.events")
	assert.Equal(t, "", args["x-dead-letter-exchange"])
	assert.Equal(t, "careerhub.events.dead", args["x-dead-letter-routing-key"])
	assert.Equal(t, "careerhub.events.dead", DeadLetterQueue("careerhub.events"))
}

func TestNextRedialDelay(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextRedialDelay(time.Second))
	assert.Equal(t, maxRedialDelay, nextRedialDelay(20*time.Second))
	assert.Equal(t, maxRedialDelay, nextRedialDelay(maxRedialDelay))
}

func TestAMQPPublisher_Disconnected(t *testing.T) {
	p := &AMQPPublisher{queue: "q", log: zap.NewNop(), done: make(chan struct{})}

	err := p.Publish(context.Background(), New(AdmissionPublished, "ada@example.com", "Ada", nil))
	assert.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close(), "close is idempotent")

	finished := make(chan struct{})
	go func() {
		p.redial()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("redial kept running after Close")
	}
}
