package mq

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// memoryBuffer is how many undelivered messages a subscriber may hold.
const memoryBuffer = 64

// Memory is an in-process Backend. Messages published before anyone
// subscribes to a channel are dropped.
type Memory struct {
	mu     sync.Mutex
	subs   map[string][]chan Message
	closed bool
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[string][]chan Message)}
}

// ErrSubscriberFull reports that a subscriber's buffer was full and the
// message was dropped for it.
var ErrSubscriberFull = errors.New("memory subscriber buffer full")

// Publish fans data out to every current subscriber of channel without
// waiting. Subscribers whose buffer is full miss the message; the others
// still receive it and the drop is reported as ErrSubscriberFull.
func (m *Memory) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("memory channel is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", errors.New("memory backend closed")
	}
	subs := slices.Clone(m.subs[channel])
	m.mu.Unlock()

	msg := Message{ID: uuid.NewString(), Data: data, Attributes: attrs}
	dropped := 0
	for _, sub := range subs {
		select {
		case sub <- msg:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		return msg.ID, fmt.Errorf("%w: %d of %d subscribers on %s", ErrSubscriberFull, dropped, len(subs), channel)
	}
	return msg.ID, nil
}

// Subscribe delivers messages to handler until ctx is cancelled.
func (m *Memory) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("memory channel is required")
	}

	sub := make(chan Message, memoryBuffer)
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errors.New("memory backend closed")
	}
	m.subs[channel] = append(m.subs[channel], sub)
	m.mu.Unlock()

	defer m.unsubscribe(channel, sub)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-sub:
			_ = handler(ctx, msg)
		}
	}
}

// Subscribers reports how many subscriptions channel currently has.
func (m *Memory) Subscribers(channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[channel])
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Memory) unsubscribe(channel string, sub chan Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.subs[channel]
	for i, s := range subs {
		if s == sub {
			m.subs[channel] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
}
