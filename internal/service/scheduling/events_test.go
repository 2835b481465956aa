package scheduling

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsCarryOrigin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.CreateSlot(ctx, slotReq(1, "09:00", "10:00"))
	require.NoError(t, err)

	require.Len(t, h.events.events, 1)
	ev := h.events.events[0]
	assert.Equal(t, EventSlotCreated, ev.Type)
	assert.Equal(t, "test", ev.Origin)
	assert.False(t, ev.At.IsZero())
}

func TestInvalidationHandler(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.CreateSlot(ctx, slotReq(1, "09:00", "10:00"))
	require.NoError(t, err)
	_, err = h.svc.ResolveSlots(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 1, h.cache.Len())

	handle := InvalidationHandler(h.svc, "test")
	msg := func(origin string) *nats.Msg {
		data, err := json.Marshal(Event{Type: EventSlotUpdated, Origin: origin})
		require.NoError(t, err)
		return &nats.Msg{Subject: "clinic.schedule.slot.updated", Data: data}
	}

	handle(msg("test"))
	assert.Equal(t, 1, h.cache.Len(), "own events keep the cache")

	handle(&nats.Msg{Subject: "clinic.schedule.slot.updated", Data: []byte("{oops")})
	assert.Equal(t, 1, h.cache.Len(), "malformed events are ignored")

	handle(msg("other-host:42"))
	assert.Zero(t, h.cache.Len())
}

func TestNatsPublisherSubject(t *testing.T) {
	p := NewNatsPublisher(nil, "clinic.schedule")
	assert.Equal(t, "clinic.schedule.>", p.Subject())
}
