package service

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nexplan/nexplan-api/internal/models"
	"github.com/nexplan/nexplan-api/internal/schedule"
	appErrors "github.com/nexplan/nexplan-api/pkg/errors"
)

type eventStore interface {
	List() []models.Event
	Get(id string) (models.Event, bool)
	Upsert(ev models.Event)
	UpsertAll(events []models.Event)
	Remove(id string)
	FindOverlapping(start, end time.Time, excludeID string) bool
	Len() int
}

// EventService owns manual event CRUD, the reschedule transform and the
// conflict probe. Overlap detection is always advisory: a conflicting save
// still goes through, the caller just gets the flag back.
type EventService struct {
	store     eventStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService constructs the service.
func NewEventService(store eventStore, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{store: store, validator: validate, logger: logger}
}

// SaveEventRequest describes a manual create or update.
type SaveEventRequest struct {
	Title       string          `json:"title" validate:"required"`
	Start       time.Time       `json:"start" validate:"required"`
	End         time.Time       `json:"end" validate:"required"`
	Category    models.Category `json:"category"`
	Color       string          `json:"color"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
}

// MoveEventRequest reschedules an event to a new anchor.
type MoveEventRequest struct {
	Anchor      time.Time            `json:"anchor" validate:"required"`
	Granularity schedule.Granularity `json:"granularity"`
}

// List returns every stored event in insertion order.
func (s *EventService) List() []models.Event {
	return s.store.List()
}

// Get fetches a single event.
func (s *EventService) Get(id string) (*models.Event, error) {
	ev, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return &ev, nil
}

// Create validates and stores a new user event. The returned bool is the
// advisory conflict flag.
func (s *EventService) Create(req SaveEventRequest) (*models.Event, bool, error) {
	if err := s.validateSave(&req); err != nil {
		return nil, false, err
	}

	ev := models.Event{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Start:       req.Start,
		End:         req.End,
		Category:    req.Category,
		Color:       req.Color,
		Description: req.Description,
		Location:    req.Location,
		Source:      models.SourceUser,
	}

	conflict := s.store.FindOverlapping(ev.Start, ev.End, "")
	s.store.Upsert(ev)
	s.logger.Info("event created", zap.String("event_id", ev.ID), zap.Bool("conflict", conflict))
	return &ev, conflict, nil
}

// Update replaces an existing event's fields wholesale, keeping its id and
// provenance. Editing an event never conflicts with its own prior instance.
func (s *EventService) Update(id string, req SaveEventRequest) (*models.Event, bool, error) {
	existing, ok := s.store.Get(id)
	if !ok {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	if err := s.validateSave(&req); err != nil {
		return nil, false, err
	}

	ev := models.Event{
		ID:          existing.ID,
		Title:       strings.TrimSpace(req.Title),
		Start:       req.Start,
		End:         req.End,
		Category:    req.Category,
		Color:       req.Color,
		Description: req.Description,
		Location:    req.Location,
		Source:      existing.Source,
	}

	conflict := s.store.FindOverlapping(ev.Start, ev.End, ev.ID)
	s.store.Upsert(ev)
	return &ev, conflict, nil
}

// Delete removes an event by id. Deleting an absent id is a no-op.
func (s *EventService) Delete(id string) {
	s.store.Remove(id)
}

// Move applies the reschedule transform and stores the result. Duration is
// preserved exactly; only start and end change.
func (s *EventService) Move(id string, req MoveEventRequest) (*models.Event, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if req.Granularity == "" {
		req.Granularity = schedule.GranularityDate
	}
	if !req.Granularity.Valid() {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "granularity must be 'date' or 'time'")
	}

	ev, ok := s.store.Get(id)
	if !ok {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}

	ev.Start, ev.End = schedule.Reschedule(ev, req.Anchor, req.Granularity)
	conflict := s.store.FindOverlapping(ev.Start, ev.End, ev.ID)
	s.store.Upsert(ev)
	s.logger.Info("event moved", zap.String("event_id", ev.ID), zap.Time("start", ev.Start), zap.Bool("conflict", conflict))
	return &ev, conflict, nil
}

// CheckConflict reports whether [start, end) overlaps any stored event,
// optionally skipping excludeID.
func (s *EventService) CheckConflict(start, end time.Time, excludeID string) bool {
	return s.store.FindOverlapping(start, end, excludeID)
}

func (s *EventService) validateSave(req *SaveEventRequest) error {
	if err := s.validator.Struct(*req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if strings.TrimSpace(req.Title) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	if !req.End.After(req.Start) {
		return appErrors.Clone(appErrors.ErrValidation, "end must be after start")
	}
	if req.Category == "" {
		req.Category = models.CategoryPersonal
	}
	if !req.Category.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown category")
	}
	if !models.ValidColor(req.Color) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown color")
	}
	return nil
}
