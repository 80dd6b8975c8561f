// Package scheduler periodically scans the event list and publishes
// notifications for events that are about to start.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/TannuGARG/weekcal/model"
	"github.com/TannuGARG/weekcal/rabbitmq"
)

type EventSource interface {
	List(ctx context.Context) ([]model.Event, error)
}

type Publisher interface {
	Publish(routingKey string, data interface{}) error
}

type Reminder struct {
	source    EventSource
	publisher Publisher
	logger    *zap.Logger

	// horizon is how far ahead a scan looks for upcoming events.
	horizon time.Duration
	workers int

	cron *cron.Cron
	now  func() time.Time
}

func NewReminder(source EventSource, publisher Publisher, logger *zap.Logger, horizon time.Duration, workers int) *Reminder {
	if workers <= 0 {
		workers = 1
	}
	return &Reminder{
		source:    source,
		publisher: publisher,
		logger:    logger,
		horizon:   horizon,
		workers:   workers,
		now:       time.Now,
	}
}

// Start schedules scans on the given cron spec (e.g. "*/15 * * * *").
func (r *Reminder) Start(cronSpec string) error {
	c := cron.New()
	if _, err := c.AddFunc(cronSpec, r.Scan); err != nil {
		return errors.Wrap(err, "error scheduling reminder scan")
	}
	r.cron = c
	c.Start()
	r.logger.Info("reminder scan scheduled", zap.String("cron", cronSpec))
	return nil
}

func (r *Reminder) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

// Scan runs one pass: find events starting within the horizon and publish
// each through the worker pool. Failures are logged, never fatal.
func (r *Reminder) Scan() {
	ctx := context.Background()

	events, err := r.source.List(ctx)
	if err != nil {
		r.logger.Error("error fetching events for reminder scan", zap.Error(err))
		return
	}

	upcoming := Upcoming(events, r.now(), r.horizon)
	r.logger.Info("reminder scan", zap.Int("eventsCount", len(events)), zap.Int("upcomingCount", len(upcoming)))

	if len(upcoming) == 0 {
		return
	}

	pending := make(chan model.Event)
	var wg sync.WaitGroup

	for i := 0; i < r.workers; i++ {
		w := &worker{
			id:        uuid.NewString(),
			logger:    r.logger,
			publisher: r.publisher,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(pending)
		}()
	}

	for _, event := range upcoming {
		pending <- event
	}
	close(pending)

	wg.Wait()
}

// Upcoming returns the events that have not yet started and start within
// horizon of now.
func Upcoming(events []model.Event, now time.Time, horizon time.Duration) []model.Event {
	nowMs := now.UnixMilli()
	maxMs := now.Add(horizon).UnixMilli()

	var out []model.Event
	for _, ev := range events {
		if ev.Start > nowMs && ev.Start <= maxMs {
			out = append(out, ev)
		}
	}
	return out
}

type worker struct {
	id        string
	logger    *zap.Logger
	publisher Publisher
}

func (w *worker) run(in <-chan model.Event) {
	for event := range in {
		err := w.publisher.Publish(rabbitmq.EventUpcoming, event)
		if err != nil {
			w.logger.Error("error publishing upcoming event",
				zap.String("workerId", w.id),
				zap.Int64("eventId", event.ID),
				zap.Error(errors.Wrap(err, "error publishing reminder")))
			continue
		}

		w.logger.Info("published upcoming event",
			zap.String("workerId", w.id),
			zap.Int64("eventId", event.ID))
	}
}
