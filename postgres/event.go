package postgres

import (
	"context"

	"github.com/TannuGARG/weekcal/model"
)

// EventStore implements event persistence on top of DB.
type EventStore struct {
	DB *DB
}

func (s *EventStore) List(ctx context.Context) ([]model.Event, error) {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT id, name, type, start_ms, end_ms
		FROM events
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]model.Event, 0)
	for rows.Next() {
		var ev model.Event
		var typ string
		if err := rows.Scan(&ev.ID, &ev.Name, &typ, &ev.Start, &ev.End); err != nil {
			return nil, err
		}
		ev.Type = model.EventType(typ)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *EventStore) Save(ctx context.Context, ev model.Event) (model.Event, error) {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return model.Event{}, err
	}
	defer tx.Rollback(ctx)

	if ev.ID == 0 {
		err = tx.QueryRow(ctx, `
			INSERT INTO events (name, type, start_ms, end_ms)
			VALUES ($1, $2, $3, $4)
			RETURNING "id"
		`, ev.Name, string(ev.Type), ev.Start, ev.End).Scan(&ev.ID)
		if err != nil {
			return model.Event{}, err
		}
		return ev, tx.Commit(ctx)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO events (id, name, type, start_ms, end_ms)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    type = EXCLUDED.type,
		    start_ms = EXCLUDED.start_ms,
		    end_ms = EXCLUDED.end_ms
	`, ev.ID, ev.Name, string(ev.Type), ev.Start, ev.End)
	if err != nil {
		return model.Event{}, err
	}

	// Keep the sequence ahead of explicitly-inserted IDs.
	if _, err := tx.Exec(ctx, `SELECT setval('events_id_seq', (SELECT GREATEST(MAX(id), 1) FROM events))`); err != nil {
		return model.Event{}, err
	}

	return ev, tx.Commit(ctx)
}

func (s *EventStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Deleting an absent ID is a no-op, so the affected count is ignored.
	if _, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
