package repository

import (
	"sync"
	"time"

	"github.com/nexplan/nexplan-api/internal/models"
	"github.com/nexplan/nexplan-api/internal/schedule"
)

// EventRepository is the in-memory event store. Events are held in
// insertion order; the order carries no semantics beyond display
// stability. The calendar is memory-resident for the lifetime of the
// process, so there is no persistence behind this layer.
//
// The store deliberately does not enforce end > start; validation of
// manual input belongs to the service layer.
type EventRepository struct {
	mu     sync.RWMutex
	events []models.Event
}

// NewEventRepository constructs an empty store.
func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

// List returns a snapshot copy of all events. Callers must not assume the
// slice tracks later mutations.
func (r *EventRepository) List() []models.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Get returns the event with the given id, if present.
func (r *EventRepository) Get(id string) (models.Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ev := range r.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return models.Event{}, false
}

// Upsert replaces the stored event with the same id wholesale, keeping its
// position, or appends when the id is new. Merge semantics belong to the
// caller.
func (r *EventRepository) Upsert(ev models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].ID == ev.ID {
			r.events[i] = ev
			return
		}
	}
	r.events = append(r.events, ev)
}

// UpsertAll commits a batch in one critical section, preserving batch order.
func (r *EventRepository) UpsertAll(events []models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range events {
		replaced := false
		for i := range r.events {
			if r.events[i].ID == ev.ID {
				r.events[i] = ev
				replaced = true
				break
			}
		}
		if !replaced {
			r.events = append(r.events, ev)
		}
	}
}

// Remove deletes the event with the given id. Removing an absent id is a
// no-op, not an error.
func (r *EventRepository) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].ID == id {
			r.events = append(r.events[:i], r.events[i+1:]...)
			return
		}
	}
}

// FindOverlapping reports whether any stored event overlaps [start, end),
// skipping excludeID so an event being edited does not conflict with its
// own prior instance. Linear scan; fine at personal-calendar scale, and
// the first thing to swap for an interval tree if that ever changes.
func (r *EventRepository) FindOverlapping(start, end time.Time, excludeID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ev := range r.events {
		if excludeID != "" && ev.ID == excludeID {
			continue
		}
		if schedule.Overlaps(ev.Start, ev.End, start, end) {
			return true
		}
	}
	return false
}

// Len reports the number of stored events.
func (r *EventRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}
