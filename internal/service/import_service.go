package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nexplan/nexplan-api/internal/models"
	"github.com/nexplan/nexplan-api/pkg/jobs"
)

// ImportService simulates an external classroom data source: a trigger
// enqueues a fixed assignment batch that lands in the store after a
// configured delay. Fire-and-forget; the caller gets an acknowledgement,
// not the events. A real integration would slot in behind the same
// trigger with its own auth and error model.
type ImportService struct {
	store  eventStore
	queue  *jobs.Queue
	delay  time.Duration
	logger *zap.Logger
}

// NewImportService wires the service and its dedicated queue. Start must
// be called before Trigger.
func NewImportService(store eventStore, delay time.Duration, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ImportService{store: store, delay: delay, logger: logger}
	s.queue = jobs.NewQueue("classroom-import", s.deliver, jobs.QueueConfig{Workers: 1, Logger: logger})
	return s
}

// Start launches the delivery worker.
func (s *ImportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop shuts the worker down; pending deliveries are dropped.
func (s *ImportService) Stop() {
	s.queue.Stop()
}

// Trigger schedules one delivery of the classroom batch.
func (s *ImportService) Trigger() (string, error) {
	jobID := uuid.NewString()
	err := s.queue.Enqueue(jobs.Job{ID: jobID, Type: "classroom-batch", Delay: s.delay})
	if err != nil {
		return "", err
	}
	s.logger.Info("classroom import scheduled", zap.String("job_id", jobID), zap.Duration("delay", s.delay))
	return jobID, nil
}

func (s *ImportService) deliver(ctx context.Context, job jobs.Job) error {
	batch := classroomBatch(time.Now())
	s.store.UpsertAll(batch)
	s.logger.Info("classroom import delivered", zap.String("job_id", job.ID), zap.Int("events", len(batch)))
	return nil
}

// classroomBatch is the fixed assignment set the simulated source
// produces, anchored to the delivery day.
func classroomBatch(now time.Time) []models.Event {
	year, month, day := now.Date()
	loc := now.Location()
	return []models.Event{
		{
			ID:          uuid.NewString(),
			Title:       "Calculus Assignment Due",
			Start:       time.Date(year, month, day+2, 23, 59, 0, 0, loc),
			End:         time.Date(year, month, day+3, 0, 0, 0, 0, loc),
			Category:    models.CategoryStudent,
			Color:       models.ColorEmerald,
			Description: "Chapter 5 problem set",
			Source:      models.SourceClassroom,
		},
		{
			ID:          uuid.NewString(),
			Title:       "History Essay Draft",
			Start:       time.Date(year, month, day+5, 17, 0, 0, 0, loc),
			End:         time.Date(year, month, day+5, 18, 0, 0, 0, loc),
			Category:    models.CategoryStudent,
			Color:       models.ColorBlue,
			Description: "Submit draft to Google Classroom",
			Source:      models.SourceClassroom,
		},
	}
}
