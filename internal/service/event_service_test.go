package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexplan/nexplan-api/internal/models"
	"github.com/nexplan/nexplan-api/internal/repository"
	"github.com/nexplan/nexplan-api/internal/schedule"
	appErrors "github.com/nexplan/nexplan-api/pkg/errors"
)

func at(day, hour, min int) time.Time {
	return time.Date(2024, 6, day, hour, min, 0, 0, time.UTC)
}

func newEventService() (*EventService, *repository.EventRepository) {
	store := repository.NewEventRepository()
	return NewEventService(store, nil, nil), store
}

func TestEventServiceCreate(t *testing.T) {
	svc, store := newEventService()

	ev, conflict, err := svc.Create(SaveEventRequest{
		Title: "  Standup  ",
		Start: at(3, 9, 0),
		End:   at(3, 9, 15),
	})
	require.NoError(t, err)
	assert.False(t, conflict)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "Standup", ev.Title)
	assert.Equal(t, models.SourceUser, ev.Source)
	assert.Equal(t, models.CategoryPersonal, ev.Category, "empty category falls back to Personal")
	assert.Equal(t, 1, store.Len())
}

func TestEventServiceCreateValidation(t *testing.T) {
	svc, store := newEventService()

	tests := []struct {
		name string
		req  SaveEventRequest
	}{
		{"missing title", SaveEventRequest{Title: "   ", Start: at(3, 9, 0), End: at(3, 10, 0)}},
		{"end before start", SaveEventRequest{Title: "A", Start: at(3, 10, 0), End: at(3, 9, 0)}},
		{"end equals start", SaveEventRequest{Title: "A", Start: at(3, 9, 0), End: at(3, 9, 0)}},
		{"unknown category", SaveEventRequest{Title: "A", Start: at(3, 9, 0), End: at(3, 10, 0), Category: "Work"}},
		{"unknown color", SaveEventRequest{Title: "A", Start: at(3, 9, 0), End: at(3, 10, 0), Color: "chartreuse"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Create(tc.req)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
		})
	}
	assert.Equal(t, 0, store.Len(), "rejected requests must not touch the store")
}

func TestEventServiceCreateConflictIsAdvisory(t *testing.T) {
	svc, store := newEventService()

	_, _, err := svc.Create(SaveEventRequest{Title: "First", Start: at(3, 10, 0), End: at(3, 11, 0)})
	require.NoError(t, err)

	ev, conflict, err := svc.Create(SaveEventRequest{Title: "Second", Start: at(3, 10, 30), End: at(3, 11, 30)})
	require.NoError(t, err)
	assert.True(t, conflict)
	assert.Equal(t, 2, store.Len(), "conflicting save still goes through")

	_, ok := store.Get(ev.ID)
	assert.True(t, ok)
}

func TestEventServiceUpdate(t *testing.T) {
	svc, _ := newEventService()

	created, _, err := svc.Create(SaveEventRequest{Title: "Dentist", Start: at(5, 14, 0), End: at(5, 15, 0)})
	require.NoError(t, err)

	updated, conflict, err := svc.Update(created.ID, SaveEventRequest{
		Title:    "Dentist (rescheduled)",
		Start:    at(5, 14, 30),
		End:      at(5, 15, 30),
		Category: models.CategoryPersonal,
	})
	require.NoError(t, err)
	assert.False(t, conflict, "an event never conflicts with its own prior instance")
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.Source, updated.Source)
	assert.Equal(t, "Dentist (rescheduled)", updated.Title)
}

func TestEventServiceUpdateNotFound(t *testing.T) {
	svc, _ := newEventService()

	_, _, err := svc.Update("missing", SaveEventRequest{Title: "A", Start: at(3, 9, 0), End: at(3, 10, 0)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEventServiceDeleteIsIdempotent(t *testing.T) {
	svc, store := newEventService()

	created, _, err := svc.Create(SaveEventRequest{Title: "A", Start: at(3, 9, 0), End: at(3, 10, 0)})
	require.NoError(t, err)

	svc.Delete(created.ID)
	svc.Delete(created.ID)
	svc.Delete("never-existed")
	assert.Equal(t, 0, store.Len())
}

func TestEventServiceMoveDateGranularity(t *testing.T) {
	svc, _ := newEventService()

	created, _, err := svc.Create(SaveEventRequest{Title: "Gym", Start: at(3, 18, 30), End: at(3, 19, 30)})
	require.NoError(t, err)

	moved, conflict, err := svc.Move(created.ID, MoveEventRequest{Anchor: at(10, 0, 0)})
	require.NoError(t, err)
	assert.False(t, conflict)
	assert.Equal(t, at(10, 18, 30), moved.Start, "date granularity keeps the original time of day")
	assert.Equal(t, at(10, 19, 30), moved.End)
}

func TestEventServiceMoveTimeGranularity(t *testing.T) {
	svc, _ := newEventService()

	created, _, err := svc.Create(SaveEventRequest{Title: "Gym", Start: at(3, 18, 30), End: at(3, 19, 30)})
	require.NoError(t, err)

	moved, _, err := svc.Move(created.ID, MoveEventRequest{
		Anchor:      at(4, 7, 0),
		Granularity: schedule.GranularityTime,
	})
	require.NoError(t, err)
	assert.Equal(t, at(4, 7, 0), moved.Start)
	assert.Equal(t, at(4, 8, 0), moved.End, "duration is preserved exactly")
}

func TestEventServiceMoveInvalidGranularity(t *testing.T) {
	svc, _ := newEventService()

	created, _, err := svc.Create(SaveEventRequest{Title: "Gym", Start: at(3, 18, 30), End: at(3, 19, 30)})
	require.NoError(t, err)

	_, _, err = svc.Move(created.ID, MoveEventRequest{Anchor: at(4, 7, 0), Granularity: "week"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEventServiceCheckConflict(t *testing.T) {
	svc, _ := newEventService()

	created, _, err := svc.Create(SaveEventRequest{Title: "Review", Start: at(3, 10, 0), End: at(3, 11, 0)})
	require.NoError(t, err)

	assert.True(t, svc.CheckConflict(at(3, 10, 30), at(3, 10, 45), ""))
	assert.False(t, svc.CheckConflict(at(3, 11, 0), at(3, 12, 0), ""), "back-to-back is not a conflict")
	assert.False(t, svc.CheckConflict(at(3, 10, 30), at(3, 10, 45), created.ID))
}
