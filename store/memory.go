package store

import (
	"context"
	"sync"

	"github.com/TannuGARG/weekcal/model"
)

// Memory keeps the event list in process. The whole list is guarded by one
// mutex; every mutation is atomic relative to the next read.
type Memory struct {
	mu     sync.Mutex
	events []model.Event
	nextID int64
}

// NewMemory returns a store pre-populated with seed. Seed IDs are kept;
// fresh IDs continue above the highest seeded one.
func NewMemory(seed []model.Event) *Memory {
	m := &Memory{
		events: make([]model.Event, len(seed)),
		nextID: 1,
	}
	copy(m.events, seed)
	for _, ev := range seed {
		if ev.ID >= m.nextID {
			m.nextID = ev.ID + 1
		}
	}
	return m
}

func (m *Memory) List(ctx context.Context) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Event, len(m.events))
	copy(out, m.events)
	return out, nil
}

func (m *Memory) Save(ctx context.Context, ev model.Event) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.ID == 0 {
		ev.ID = m.nextID
		m.nextID++
		m.events = append(m.events, ev)
		return ev, nil
	}

	for i := range m.events {
		if m.events[i].ID == ev.ID {
			m.events[i] = ev
			return ev, nil
		}
	}
	if ev.ID >= m.nextID {
		m.nextID = ev.ID + 1
	}
	m.events = append(m.events, ev)
	return ev, nil
}

func (m *Memory) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.events {
		if m.events[i].ID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return nil
}
