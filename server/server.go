package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/TannuGARG/weekcal/ical"
	"github.com/TannuGARG/weekcal/layout"
	"github.com/TannuGARG/weekcal/model"
	"github.com/TannuGARG/weekcal/rabbitmq"
	"github.com/TannuGARG/weekcal/store"
)

// Publisher sends change notifications. A nil Publisher disables them.
type Publisher interface {
	Publish(routingKey string, data interface{}) error
}

type Server struct {
	store     store.EventStore
	publisher Publisher
	validate  *validator.Validate
	logger    *zap.Logger

	// loc is the display timezone all day boundaries are computed in.
	loc *time.Location

	// disabledDay is the weekday on which no event may start. It is also
	// the first day of the rendered week.
	disabledDay time.Weekday
}

func New(st store.EventStore, pub Publisher, logger *zap.Logger, loc *time.Location, disabledDay time.Weekday) *Server {
	return &Server{
		store:       st,
		publisher:   pub,
		validate:    validator.New(),
		logger:      logger,
		loc:         loc,
		disabledDay: disabledDay,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.health)
	r.GET("/api/events", s.listEvents)
	r.GET("/api/events/:id", s.findEvent)
	r.GET("/api/slots/prefill", s.prefillEvent)
	r.POST("/api/events", s.saveEvent)
	r.DELETE("/api/events/:id", s.deleteEvent)
	r.GET("/api/week", s.weekView)
	r.GET("/api/export.ics", s.exportICS)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listEvents(c *gin.Context) {
	events, err := s.store.List(c.Request.Context())
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"events": events}})
}

// findEvent serves the edit-form boundary: the current fields of one
// stored event.
func (s *Server) findEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	events, err := s.store.List(c.Request.Context())
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	for _, ev := range events {
		if ev.ID == id {
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"event": ev}})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
}

// eventPayload is the wire form of an event on the save path. A nil ID
// means the event has not been persisted yet.
type eventPayload struct {
	ID    *int64          `json:"id"`
	Name  string          `json:"name" binding:"required"`
	Type  model.EventType `json:"type" binding:"required,oneof=TASK HOLIDAY"`
	Start int64           `json:"start" binding:"required"`
	End   int64           `json:"end" binding:"required,gtfield=Start"`
}

// prefillEvent is the slot-click boundary: it hands back an unsaved 1-hour
// block at the requested day and hour. This is the first of the two
// independent gates keeping events off the disabled weekday.
func (s *Server) prefillEvent(c *gin.Context) {
	dayMs, err := strconv.ParseInt(c.Query("day"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be a unix millisecond timestamp"})
		return
	}
	hour, err := strconv.Atoi(c.Query("hour"))
	if err != nil || hour < 0 || hour > 23 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hour must be in [0,23]"})
		return
	}

	day := layout.Midnight(time.UnixMilli(dayMs).In(s.loc))
	if day.Weekday() == s.disabledDay {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": s.disabledDayNotice()})
		return
	}

	start := day.Add(time.Duration(hour) * time.Hour)
	end := start.Add(time.Hour)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"event": eventPayload{
		Type:  model.TypeTask,
		Start: start.UnixMilli(),
		End:   end.UnixMilli(),
	}}})
}

func (s *Server) saveEvent(c *gin.Context) {
	var input eventPayload
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := model.Event{
		Name:  input.Name,
		Type:  input.Type,
		Start: input.Start,
		End:   input.End,
	}
	if input.ID != nil {
		event.ID = *input.ID
	}

	if err := s.validate.Struct(event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Second gate: the save path re-checks the disabled weekday even
	// though the prefill path already refused slots on it.
	if event.StartTime().In(s.loc).Weekday() == s.disabledDay {
		c.JSON(http.StatusBadRequest, gin.H{"error": s.disabledDayNotice()})
		return
	}

	created := event.ID == 0

	saved, err := s.store.Save(c.Request.Context(), event)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	if created {
		s.publish(rabbitmq.EventCreated, saved)
		c.JSON(http.StatusCreated, gin.H{"data": gin.H{"event": saved}})
		return
	}
	s.publish(rabbitmq.EventUpdated, saved)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"event": saved}})
}

func (s *Server) deleteEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		s.errorResponse(c, err)
		return
	}

	s.publish(rabbitmq.EventDeleted, gin.H{"id": id})
	c.Status(http.StatusNoContent)
}

func (s *Server) exportICS(c *gin.Context) {
	events, err := s.store.List(c.Request.Context())
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename=weekcal.ics`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ical.Format(events)))
}

func (s *Server) disabledDayNotice() string {
	return fmt.Sprintf("events on %s are disabled", s.disabledDay)
}

func (s *Server) publish(routingKey string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, data); err != nil {
		s.logger.Error("error publishing notification",
			zap.String("routingKey", routingKey), zap.Error(err))
	}
}

func (s *Server) errorResponse(c *gin.Context, err error) {
	s.logger.Error("error response", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
