package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Event types, appended to the configured subject prefix.
const (
	EventSlotCreated = "slot.created"
	EventSlotUpdated = "slot.updated"
	EventSlotDeleted = "slot.deleted"
	EventPurged      = "purged"
	EventSeeded      = "seeded"
)

// Event describes a schedule change. Origin identifies the publishing
// process so it can skip its own events.
type Event struct {
	Type    string     `json:"type"`
	SlotID  *uuid.UUID `json:"slot_id,omitempty"`
	Week    *string    `json:"week,omitempty"`
	Weekday *int       `json:"weekday,omitempty"`
	Count   int64      `json:"count,omitempty"`
	Origin  string     `json:"origin"`
	At      time.Time  `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// NatsPublisher sends events as JSON to <prefix>.<type>.
type NatsPublisher struct {
	nc     *nats.Conn
	prefix string
}

func NewNatsPublisher(nc *nats.Conn, prefix string) *NatsPublisher {
	return &NatsPublisher{nc: nc, prefix: prefix}
}

func (p *NatsPublisher) Publish(_ context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.prefix+"."+ev.Type, data)
}

// Subject returns the wildcard subject covering every schedule event.
func (p *NatsPublisher) Subject() string { return p.prefix + ".>" }

// DecodeEvent parses a message body produced by NatsPublisher.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	err := json.Unmarshal(data, &ev)
	return ev, err
}

// DefaultOrigin identifies this process as host:pid.
func DefaultOrigin() string {
	host, _ := os.Hostname()
	return fmt.Sprintf("%s:%d", host, os.Getpid())
}

// InvalidationHandler drops the read cache whenever another process reports
// a schedule change. Events from self are ignored.
func InvalidationHandler(svc Service, self string) nats.MsgHandler {
	return func(msg *nats.Msg) {
		ev, err := DecodeEvent(msg.Data)
		if err != nil {
			slog.Warn("ignoring malformed schedule event", "subject", msg.Subject, "error", err)
			return
		}
		if ev.Origin == self {
			return
		}
		svc.InvalidateCache()
		slog.Debug("schedule cache invalidated by remote change", "type", ev.Type, "origin", ev.Origin)
	}
}
