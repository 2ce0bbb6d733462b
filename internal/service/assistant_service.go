package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nexplan/nexplan-api/internal/extract"
	"github.com/nexplan/nexplan-api/internal/models"
	appErrors "github.com/nexplan/nexplan-api/pkg/errors"
)

// Defaults filled in when a draft is confirmed with fields still missing.
const (
	defaultDraftTitle = "Untitled Event"
	defaultDraftColor = models.ColorBlue
)

// AssistantOptions bounds what a submission may carry.
type AssistantOptions struct {
	MaxAttachmentBytes int64
	AllowedMIMEs       []string
}

// AssistantService owns the reconciliation session: the lifecycle from a
// user submission through draft review to an atomic commit or a discard.
// The session is an explicit object held by this service and handed out
// only as snapshots; there is exactly one session at a time and at most
// one submission in flight.
type AssistantService struct {
	store     eventStore
	extractor extract.Extractor
	logger    *zap.Logger
	observer  ExtractionObserver

	maxAttachmentBytes int64
	allowedMIMEs       map[string]struct{}

	mu        sync.Mutex
	state     models.SessionState
	drafts    []models.DraftEvent
	judgement *models.Judgement
	lastError string
	// epoch increments on every discard. A submission captures the epoch
	// before it suspends on the extractor; a mismatch when the result
	// lands means the session moved on and the result is dropped instead
	// of applied.
	epoch uint64
}

// ExtractionObserver receives the outcome of collaborator calls. Optional.
type ExtractionObserver interface {
	ObserveExtraction(outcome string, duration time.Duration)
}

// NewAssistantService constructs the engine.
func NewAssistantService(store eventStore, extractor extract.Extractor, logger *zap.Logger, observer ExtractionObserver, opts AssistantOptions) *AssistantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(opts.AllowedMIMEs))
	for _, mime := range opts.AllowedMIMEs {
		allowed[strings.ToLower(strings.TrimSpace(mime))] = struct{}{}
	}
	return &AssistantService{
		store:              store,
		extractor:          extractor,
		logger:             logger,
		observer:           observer,
		maxAttachmentBytes: opts.MaxAttachmentBytes,
		allowedMIMEs:       allowed,
		state:              models.SessionIdle,
	}
}

// SubmitRequest carries one user submission: free text and/or a single
// base64-encoded attachment, plus an optional reference time for relative
// date resolution (defaults to now).
type SubmitRequest struct {
	Text          string             `json:"text"`
	Attachment    *AttachmentPayload `json:"attachment,omitempty"`
	ReferenceTime *time.Time         `json:"reference_time,omitempty"`
}

// AttachmentPayload mirrors the collaborator's attachment contract.
type AttachmentPayload struct {
	MIMEType   string `json:"mime_type"`
	Base64Data string `json:"base64_data"`
}

// DraftPatch edits individual fields of one draft. Nil fields are left
// untouched.
type DraftPatch struct {
	Title       *string          `json:"title,omitempty"`
	Start       *time.Time       `json:"start,omitempty"`
	End         *time.Time       `json:"end,omitempty"`
	Category    *models.Category `json:"category,omitempty"`
	Color       *string          `json:"color,omitempty"`
	Description *string          `json:"description,omitempty"`
	Location    *string          `json:"location,omitempty"`
}

// Submit validates the input, suspends on the extraction collaborator and
// materializes the resulting drafts. This is the only suspension point in
// the engine; a second submission while one is in flight is rejected.
func (s *AssistantService) Submit(ctx context.Context, req SubmitRequest) (models.SessionView, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" && req.Attachment == nil {
		return s.Snapshot(), appErrors.Clone(appErrors.ErrValidation, "provide text or an attachment")
	}
	if req.Attachment != nil {
		if err := s.validateAttachment(req.Attachment); err != nil {
			return s.Snapshot(), err
		}
	}

	reference := time.Now()
	if req.ReferenceTime != nil {
		reference = *req.ReferenceTime
	}

	s.mu.Lock()
	if s.state == models.SessionSubmitting {
		s.mu.Unlock()
		return s.Snapshot(), appErrors.Clone(appErrors.ErrConflict, "a submission is already in progress")
	}
	s.state = models.SessionSubmitting
	s.drafts = nil
	s.judgement = nil
	s.lastError = ""
	epoch := s.epoch
	s.mu.Unlock()

	input := extract.Input{
		Text:          text,
		ReferenceTime: reference,
		TimeZone:      reference.Location().String(),
	}
	if req.Attachment != nil {
		input.Attachment = &extract.Attachment{
			MIMEType:   req.Attachment.MIMEType,
			Base64Data: req.Attachment.Base64Data,
		}
	}

	started := time.Now()
	result, err := s.extractor.Extract(ctx, input)
	elapsed := time.Since(started)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		// The session was discarded while the call was in flight. The
		// late result must not land.
		s.logger.Debug("stale extraction result dropped", zap.Duration("latency", elapsed))
		s.observe("stale", elapsed)
		return s.snapshotLocked(), nil
	}

	if err != nil {
		s.state = models.SessionErrored
		s.lastError = appErrors.ErrExtraction.Message
		s.observe("error", elapsed)
		s.logger.Warn("extraction failed", zap.Error(err), zap.Bool("malformed", errors.Is(err, extract.ErrMalformed)))
		return s.snapshotLocked(), appErrors.Wrap(err, appErrors.ErrExtraction.Code, appErrors.ErrExtraction.Status, appErrors.ErrExtraction.Message)
	}

	s.state = models.SessionDrafted
	s.drafts = result.Events
	judgement := result.Judgement
	s.judgement = &judgement
	s.observe("ok", elapsed)
	s.logger.Info("drafts materialized",
		zap.Int("drafts", len(s.drafts)),
		zap.Int("confidence", judgement.ConfidenceScore),
		zap.Bool("ambiguous", judgement.AmbiguityDetected))
	return s.snapshotLocked(), nil
}

// EditDraft patches fields of one draft. The conflict flag is not stored;
// the next snapshot recomputes it against the live store.
func (s *AssistantService) EditDraft(index int, patch DraftPatch) (models.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionDrafted {
		return s.snapshotLocked(), appErrors.Clone(appErrors.ErrValidation, "no drafts to edit")
	}
	if index < 0 || index >= len(s.drafts) {
		return s.snapshotLocked(), appErrors.Clone(appErrors.ErrNotFound, "draft not found")
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return s.snapshotLocked(), appErrors.Clone(appErrors.ErrValidation, "unknown category")
	}
	if patch.Color != nil && !models.ValidColor(*patch.Color) {
		return s.snapshotLocked(), appErrors.Clone(appErrors.ErrValidation, "unknown color")
	}

	draft := &s.drafts[index]
	if patch.Title != nil {
		draft.Title = *patch.Title
	}
	if patch.Start != nil {
		draft.Start = *patch.Start
	}
	if patch.End != nil {
		draft.End = *patch.End
	}
	if patch.Category != nil {
		draft.Category = *patch.Category
	}
	if patch.Color != nil {
		draft.Color = *patch.Color
	}
	if patch.Description != nil {
		draft.Description = *patch.Description
	}
	if patch.Location != nil {
		draft.Location = *patch.Location
	}
	return s.snapshotLocked(), nil
}

// RemoveDraft prunes one draft. Removing the last one returns the session
// to Idle with no leftover judgement.
func (s *AssistantService) RemoveDraft(index int) (models.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionDrafted {
		return s.snapshotLocked(), appErrors.Clone(appErrors.ErrValidation, "no drafts to remove")
	}
	if index < 0 || index >= len(s.drafts) {
		return s.snapshotLocked(), appErrors.Clone(appErrors.ErrNotFound, "draft not found")
	}

	s.drafts = append(s.drafts[:index], s.drafts[index+1:]...)
	if len(s.drafts) == 0 {
		s.state = models.SessionIdle
		s.judgement = nil
	}
	return s.snapshotLocked(), nil
}

// ConfirmAll converts every remaining draft into a full event and commits
// the batch to the store atomically. Conflict flags never gate the commit.
func (s *AssistantService) ConfirmAll() ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionDrafted {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no drafts to confirm")
	}

	events := make([]models.Event, 0, len(s.drafts))
	for _, draft := range s.drafts {
		events = append(events, materialize(draft))
	}
	s.store.UpsertAll(events)

	s.state = models.SessionIdle
	s.drafts = nil
	s.judgement = nil
	s.lastError = ""
	s.logger.Info("drafts committed", zap.Int("events", len(events)))
	return events, nil
}

// Discard drops the session and bumps the epoch so any in-flight
// extraction result is suppressed rather than applied.
func (s *AssistantService) Discard() models.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.state = models.SessionIdle
	s.drafts = nil
	s.judgement = nil
	s.lastError = ""
	return s.snapshotLocked()
}

// Snapshot returns the externally visible session state with conflict
// flags recomputed live against the event store.
func (s *AssistantService) Snapshot() models.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *AssistantService) snapshotLocked() models.SessionView {
	view := models.SessionView{State: s.state, Error: s.lastError}
	if s.judgement != nil {
		judgement := *s.judgement
		view.Judgement = &judgement
	}
	for i, draft := range s.drafts {
		view.Drafts = append(view.Drafts, models.DraftView{
			Index:    i,
			Draft:    draft,
			Conflict: s.store.FindOverlapping(draft.Start, draft.End, ""),
		})
	}
	return view
}

func (s *AssistantService) validateAttachment(att *AttachmentPayload) error {
	if att.MIMEType == "" || att.Base64Data == "" {
		return appErrors.Clone(appErrors.ErrValidation, "attachment requires mime_type and base64_data")
	}
	if len(s.allowedMIMEs) > 0 {
		if _, ok := s.allowedMIMEs[strings.ToLower(att.MIMEType)]; !ok {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("attachment type %s is not supported", att.MIMEType))
		}
	}
	decoded, err := base64.StdEncoding.DecodeString(att.Base64Data)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "attachment is not valid base64")
	}
	if s.maxAttachmentBytes > 0 && int64(len(decoded)) > s.maxAttachmentBytes {
		return appErrors.Clone(appErrors.ErrValidation, "attachment exceeds the size limit")
	}
	return nil
}

func (s *AssistantService) observe(outcome string, d time.Duration) {
	if s.observer != nil {
		s.observer.ObserveExtraction(outcome, d)
	}
}

func materialize(draft models.DraftEvent) models.Event {
	ev := models.Event{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Start:       draft.Start,
		End:         draft.End,
		Category:    draft.Category,
		Color:       draft.Color,
		Description: draft.Description,
		Location:    draft.Location,
		Source:      models.SourceAI,
	}
	if strings.TrimSpace(ev.Title) == "" {
		ev.Title = defaultDraftTitle
	}
	if !ev.Category.Valid() {
		ev.Category = models.CategoryPersonal
	}
	if ev.Color == "" {
		ev.Color = defaultDraftColor
	}
	return ev
}
