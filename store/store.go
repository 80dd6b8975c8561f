// Package store defines the event persistence contract shared by the
// storage backends, plus an in-process implementation used as the default
// backend and as the test double.
package store

import (
	"context"

	"github.com/TannuGARG/weekcal/model"
)

// EventStore is the persistence boundary for the calendar. Save assigns a
// fresh unique ID when the event carries none, otherwise it upserts by ID.
// Deleting an absent ID is a no-op.
type EventStore interface {
	List(ctx context.Context) ([]model.Event, error)
	Save(ctx context.Context, ev model.Event) (model.Event, error)
	Delete(ctx context.Context, id int64) error
}
