package redis

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"github.com/TannuGARG/weekcal/model"
)

// Storage persists the whole event list as one JSON value under a fixed
// key. When the key is absent, the built-in seed list is written and
// returned. IDs come from a Redis counter.
type Storage struct {
	redisClient *redis.Client
	storageKey  string
	idKey       string
	seed        []model.Event
}

func NewStorage(client *redis.Client, seed []model.Event) *Storage {
	return &Storage{
		redisClient: client,
		storageKey:  "calendar:events",
		idKey:       "calendar:events:next_id",
		seed:        seed,
	}
}

func (s *Storage) List(ctx context.Context) ([]model.Event, error) {
	val, err := s.redisClient.Get(ctx, s.storageKey).Result()
	if err == redis.Nil {
		if err := s.writeList(ctx, s.seed); err != nil {
			return nil, err
		}
		if err := s.bumpCounter(ctx, s.seed); err != nil {
			return nil, err
		}
		return append([]model.Event(nil), s.seed...), nil
	} else if err != nil {
		return nil, err
	}

	var events []model.Event
	if err := json.Unmarshal([]byte(val), &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Storage) Save(ctx context.Context, ev model.Event) (model.Event, error) {
	events, err := s.List(ctx)
	if err != nil {
		return model.Event{}, err
	}

	if ev.ID == 0 {
		id, err := s.redisClient.Incr(ctx, s.idKey).Result()
		if err != nil {
			return model.Event{}, err
		}
		ev.ID = id
		events = append(events, ev)
		return ev, s.writeList(ctx, events)
	}

	replaced := false
	for i := range events {
		if events[i].ID == ev.ID {
			events[i] = ev
			replaced = true
			break
		}
	}
	if !replaced {
		events = append(events, ev)
		if err := s.bumpCounter(ctx, events); err != nil {
			return model.Event{}, err
		}
	}
	return ev, s.writeList(ctx, events)
}

func (s *Storage) Delete(ctx context.Context, id int64) error {
	events, err := s.List(ctx)
	if err != nil {
		return err
	}

	for i := range events {
		if events[i].ID == id {
			events = append(events[:i], events[i+1:]...)
			return s.writeList(ctx, events)
		}
	}
	// Absent ID, nothing to rewrite.
	return nil
}

func (s *Storage) writeList(ctx context.Context, events []model.Event) error {
	jsonVal, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return s.redisClient.Set(ctx, s.storageKey, string(jsonVal), 0).Err()
}

// bumpCounter keeps the ID counter above every ID already in the list so
// caller-supplied IDs never collide with generated ones.
func (s *Storage) bumpCounter(ctx context.Context, events []model.Event) error {
	var max int64
	for _, ev := range events {
		if ev.ID > max {
			max = ev.ID
		}
	}
	current, err := s.redisClient.Get(ctx, s.idKey).Int64()
	if err != nil && err != redis.Nil {
		return err
	}
	if current >= max {
		return nil
	}
	return s.redisClient.Set(ctx, s.idKey, max, 0).Err()
}
