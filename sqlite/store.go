package sqlite

import (
	"context"
	"database/sql"

	"github.com/TannuGARG/weekcal/model"
)

// Store persists events in a local SQLite database, one row per event.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context) ([]model.Event, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT id, name, type, start_ms, end_ms FROM events ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]model.Event, 0)
	for rows.Next() {
		var ev model.Event
		if err := rows.Scan(&ev.ID, &ev.Name, &ev.Type, &ev.Start, &ev.End); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *Store) Save(ctx context.Context, ev model.Event) (model.Event, error) {
	if ev.ID == 0 {
		res, err := s.DB.ExecContext(ctx,
			"INSERT INTO events (name, type, start_ms, end_ms) VALUES (?, ?, ?, ?)",
			ev.Name, ev.Type, ev.Start, ev.End)
		if err != nil {
			return model.Event{}, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return model.Event{}, err
		}
		ev.ID = id
		return ev, nil
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO events (id, name, type, start_ms, end_ms)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE
		SET name = excluded.name,
		    type = excluded.type,
		    start_ms = excluded.start_ms,
		    end_ms = excluded.end_ms
	`, ev.ID, ev.Name, ev.Type, ev.Start, ev.End)
	if err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.DB.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	return err
}
