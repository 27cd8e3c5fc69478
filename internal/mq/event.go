package mq

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Action names the kind of change a record went through.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event describes one committed change to a record.
type Event struct {
	Kind   string    `json:"kind"`
	Action Action    `json:"action"`
	ID     int       `json:"id"`
	Actor  string    `json:"actor"`
	At     time.Time `json:"at"`
}

const defaultPublishTimeout = 5 * time.Second

// Publisher sends change events to a channel. A nil Publisher, or one
// built over a nil backend, drops every event.
type Publisher struct {
	backend Backend
	channel string
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

func NewPublisher(backend Backend, channel string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		backend: backend,
		channel: channel,
		timeout: defaultPublishTimeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Publish stamps and sends ev. Failures are logged, never returned: a
// committed change must not be reported as failed because the broker is down.
func (p *Publisher) Publish(ctx context.Context, ev Event) {
	if p == nil || p.backend == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = p.now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("encode change event", "kind", ev.Kind, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	attrs := map[string]string{"kind": ev.Kind, "action": string(ev.Action)}
	if _, err := p.backend.Publish(ctx, p.channel, data, attrs); err != nil {
		p.logger.Warn("publish change event",
			"kind", ev.Kind,
			"action", ev.Action,
			"id", ev.ID,
			"error", err,
		)
	}
}

// Subscribe decodes events from channel and passes them to fn until ctx
// ends. Undecodable payloads are logged and acknowledged.
func Subscribe(ctx context.Context, backend Backend, channel string, logger *slog.Logger, fn func(Event) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	return backend.Subscribe(ctx, channel, func(ctx context.Context, msg Message) error {
		var ev Event
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			logger.Warn("discard malformed change event", "message_id", msg.ID, "error", err)
			return nil
		}
		return fn(ev)
	})
}
