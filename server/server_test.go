package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TannuGARG/weekcal/model"
	"github.com/TannuGARG/weekcal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	monday = time.Date(2023, 3, 6, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)
)

func newTestServer(seed []model.Event) (*gin.Engine, *store.Memory) {
	mem := store.NewMemory(seed)
	srv := New(mem, nil, zap.NewNop(), time.UTC, time.Sunday)
	return srv.Router(), mem
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func eventCount(t *testing.T, mem *store.Memory) int {
	t.Helper()
	events, err := mem.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	return len(events)
}

func TestSaveCreatesEventAndAssignsID(t *testing.T) {
	router, _ := newTestServer(nil)

	w := do(t, router, http.MethodPost, "/api/events", gin.H{
		"name":  "Planning",
		"type":  "TASK",
		"start": monday.Add(9 * time.Hour).UnixMilli(),
		"end":   monday.Add(10 * time.Hour).UnixMilli(),
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Event model.Event `json:"event"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Event.ID == 0 {
		t.Fatalf("expected an assigned ID")
	}
}

func TestSaveUpsertsByID(t *testing.T) {
	seed := []model.Event{{
		ID:    7,
		Name:  "before",
		Type:  model.TypeTask,
		Start: monday.Add(9 * time.Hour).UnixMilli(),
		End:   monday.Add(10 * time.Hour).UnixMilli(),
	}}
	router, mem := newTestServer(seed)

	w := do(t, router, http.MethodPost, "/api/events", gin.H{
		"id":    7,
		"name":  "after",
		"type":  "TASK",
		"start": monday.Add(11 * time.Hour).UnixMilli(),
		"end":   monday.Add(12 * time.Hour).UnixMilli(),
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	events, _ := mem.List(context.Background())
	if len(events) != 1 {
		t.Fatalf("expected 1 event after upsert, got %d", len(events))
	}
	if events[0].Name != "after" {
		t.Fatalf("expected updated name, got %q", events[0].Name)
	}
}

func TestFindEventByID(t *testing.T) {
	seed := []model.Event{{
		ID:    3,
		Name:  "Standup",
		Type:  model.TypeTask,
		Start: monday.Add(9 * time.Hour).UnixMilli(),
		End:   monday.Add(10 * time.Hour).UnixMilli(),
	}}
	router, _ := newTestServer(seed)

	w := do(t, router, http.MethodGet, "/api/events/3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Event model.Event `json:"event"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Event.ID != 3 || resp.Data.Event.Name != "Standup" {
		t.Fatalf("unexpected event: %+v", resp.Data.Event)
	}
}

func TestFindEventMissingReturns404(t *testing.T) {
	router, _ := newTestServer(nil)

	w := do(t, router, http.MethodGet, "/api/events/99", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSaveRejectsMissingName(t *testing.T) {
	router, mem := newTestServer(nil)

	w := do(t, router, http.MethodPost, "/api/events", gin.H{
		"type":  "TASK",
		"start": monday.Add(9 * time.Hour).UnixMilli(),
		"end":   monday.Add(10 * time.Hour).UnixMilli(),
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if eventCount(t, mem) != 0 {
		t.Fatalf("expected no event persisted")
	}
}

func TestSaveRejectsInvertedRange(t *testing.T) {
	router, mem := newTestServer(nil)

	w := do(t, router, http.MethodPost, "/api/events", gin.H{
		"name":  "Backwards",
		"type":  "TASK",
		"start": monday.Add(10 * time.Hour).UnixMilli(),
		"end":   monday.Add(9 * time.Hour).UnixMilli(),
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if eventCount(t, mem) != 0 {
		t.Fatalf("expected no event persisted")
	}

	// end == start is equally invalid: the range must be strictly positive.
	w = do(t, router, http.MethodPost, "/api/events", gin.H{
		"name":  "Empty",
		"type":  "TASK",
		"start": monday.Add(10 * time.Hour).UnixMilli(),
		"end":   monday.Add(10 * time.Hour).UnixMilli(),
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero-length range, got %d", w.Code)
	}
}

func TestSaveRejectsDisabledWeekday(t *testing.T) {
	router, mem := newTestServer(nil)

	w := do(t, router, http.MethodPost, "/api/events", gin.H{
		"name":  "Sneaky Sunday",
		"type":  "TASK",
		"start": sunday.Add(9 * time.Hour).UnixMilli(),
		"end":   sunday.Add(10 * time.Hour).UnixMilli(),
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if eventCount(t, mem) != 0 {
		t.Fatalf("expected the event list to be unchanged")
	}
}

func TestDeleteMissingIDLeavesListUnchanged(t *testing.T) {
	seed := []model.Event{{
		ID:    1,
		Name:  "keep",
		Type:  model.TypeTask,
		Start: monday.Add(9 * time.Hour).UnixMilli(),
		End:   monday.Add(10 * time.Hour).UnixMilli(),
	}}
	router, mem := newTestServer(seed)

	w := do(t, router, http.MethodDelete, "/api/events/42", nil)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if eventCount(t, mem) != 1 {
		t.Fatalf("expected the event list to be unchanged")
	}
}

func TestDeleteRemovesEvent(t *testing.T) {
	seed := []model.Event{{
		ID:    1,
		Name:  "gone",
		Type:  model.TypeTask,
		Start: monday.Add(9 * time.Hour).UnixMilli(),
		End:   monday.Add(10 * time.Hour).UnixMilli(),
	}}
	router, mem := newTestServer(seed)

	w := do(t, router, http.MethodDelete, "/api/events/1", nil)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if eventCount(t, mem) != 0 {
		t.Fatalf("expected the event to be removed")
	}
}

func TestPrefillReturnsOneHourBlock(t *testing.T) {
	router, _ := newTestServer(nil)

	path := fmt.Sprintf("/api/slots/prefill?day=%d&hour=14", monday.UnixMilli())
	w := do(t, router, http.MethodGet, path, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Event struct {
				ID    *int64 `json:"id"`
				Type  string `json:"type"`
				Start int64  `json:"start"`
				End   int64  `json:"end"`
			} `json:"event"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	ev := resp.Data.Event
	if ev.ID != nil {
		t.Fatalf("expected a null id on the draft, got %d", *ev.ID)
	}
	if ev.Type != "TASK" {
		t.Fatalf("expected a TASK draft, got %q", ev.Type)
	}
	if want := monday.Add(14 * time.Hour).UnixMilli(); ev.Start != want {
		t.Fatalf("expected start %d, got %d", want, ev.Start)
	}
	if ev.End-ev.Start != time.Hour.Milliseconds() {
		t.Fatalf("expected a 1-hour block, got %dms", ev.End-ev.Start)
	}
}

func TestPrefillRejectsDisabledWeekday(t *testing.T) {
	router, _ := newTestServer(nil)

	path := fmt.Sprintf("/api/slots/prefill?day=%d&hour=9", sunday.UnixMilli())
	w := do(t, router, http.MethodGet, path, nil)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestWeekViewComputesColumnsAndBuckets(t *testing.T) {
	seed := []model.Event{
		{ID: 1, Name: "A", Type: model.TypeTask,
			Start: monday.Add(9 * time.Hour).UnixMilli(),
			End:   monday.Add(10 * time.Hour).UnixMilli()},
		{ID: 2, Name: "B", Type: model.TypeTask,
			Start: monday.Add(9*time.Hour + 30*time.Minute).UnixMilli(),
			End:   monday.Add(10*time.Hour + 30*time.Minute).UnixMilli()},
		{ID: 3, Name: "C", Type: model.TypeTask,
			Start: monday.Add(10 * time.Hour).UnixMilli(),
			End:   monday.Add(11 * time.Hour).UnixMilli()},
		{ID: 4, Name: "Holiday", Type: model.TypeHoliday,
			Start: monday.UnixMilli(),
			End:   monday.Add(12 * time.Hour).UnixMilli()},
	}
	router, _ := newTestServer(seed)

	path := fmt.Sprintf("/api/week?start=%d", monday.UnixMilli())
	w := do(t, router, http.MethodGet, path, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			WeekStart int64    `json:"weekStart"`
			Hours     []string `json:"hours"`
			Days      []struct {
				Date     int64         `json:"date"`
				Weekday  string        `json:"weekday"`
				Disabled bool          `json:"disabled"`
				AllDay   []model.Event `json:"allDay"`
				Timed    []struct {
					Event   model.Event `json:"event"`
					Column  int         `json:"column"`
					Columns int         `json:"columns"`
				} `json:"timed"`
			} `json:"days"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if want := sunday.UnixMilli(); resp.Data.WeekStart != want {
		t.Fatalf("expected week start %d, got %d", want, resp.Data.WeekStart)
	}
	if len(resp.Data.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(resp.Data.Days))
	}
	if len(resp.Data.Hours) != 24 || resp.Data.Hours[0] != "12 AM" {
		t.Fatalf("unexpected hour labels: %v", resp.Data.Hours)
	}
	if !resp.Data.Days[0].Disabled {
		t.Fatalf("expected the first day of the week to be the disabled one")
	}

	mondayView := resp.Data.Days[1]
	if mondayView.Weekday != "Monday" {
		t.Fatalf("expected Monday at index 1, got %s", mondayView.Weekday)
	}
	if len(mondayView.AllDay) != 1 || mondayView.AllDay[0].ID != 4 {
		t.Fatalf("expected only the holiday in the all-day row, got %+v", mondayView.AllDay)
	}
	if len(mondayView.Timed) != 3 {
		t.Fatalf("expected 3 timed events, got %d", len(mondayView.Timed))
	}

	colsByID := map[int64]int{}
	for _, block := range mondayView.Timed {
		if block.Columns != 2 {
			t.Fatalf("expected 2 columns on Monday, got %d", block.Columns)
		}
		colsByID[block.Event.ID] = block.Column
	}
	if colsByID[1] != 0 || colsByID[2] != 1 || colsByID[3] != 0 {
		t.Fatalf("unexpected column assignment: %v", colsByID)
	}
}

func TestExportICSListsStoredEvents(t *testing.T) {
	seed := []model.Event{{
		ID:    1,
		Name:  "Team standup",
		Type:  model.TypeTask,
		Start: monday.Add(9 * time.Hour).UnixMilli(),
		End:   monday.Add(10 * time.Hour).UnixMilli(),
	}}
	router, _ := newTestServer(seed)

	w := do(t, router, http.MethodGet, "/api/export.ics", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/calendar; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := w.Body.String()
	if !bytes.Contains([]byte(body), []byte("BEGIN:VCALENDAR")) {
		t.Fatalf("expected an iCalendar document, got %q", body)
	}
	if !bytes.Contains([]byte(body), []byte("Team standup")) {
		t.Fatalf("expected the event summary in the export")
	}
}
