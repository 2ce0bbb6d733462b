package service

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexplan/nexplan-api/internal/extract"
	"github.com/nexplan/nexplan-api/internal/models"
	"github.com/nexplan/nexplan-api/internal/repository"
	appErrors "github.com/nexplan/nexplan-api/pkg/errors"
)

// stubExtractor returns a canned result, optionally blocking until released
// so tests can hold a submission in flight.
type stubExtractor struct {
	mu      sync.Mutex
	calls   int
	result  *extract.Result
	err     error
	started chan struct{}
	release chan struct{}
}

func (s *stubExtractor) Extract(ctx context.Context, in extract.Input) (*extract.Result, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return s.result, s.err
}

func (s *stubExtractor) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func draftsResult(drafts ...models.DraftEvent) *extract.Result {
	return &extract.Result{
		Events: drafts,
		Judgement: models.Judgement{
			ConfidenceScore:   85,
			Reasoning:         "clear input",
			AmbiguityDetected: false,
		},
	}
}

func sampleDraft(title string, day int) models.DraftEvent {
	return models.DraftEvent{
		Title:    title,
		Start:    at(day, 10, 0),
		End:      at(day, 11, 0),
		Category: models.CategoryBusiness,
		Color:    models.ColorBlue,
	}
}

func newAssistant(extractor extract.Extractor) (*AssistantService, *repository.EventRepository) {
	store := repository.NewEventRepository()
	svc := NewAssistantService(store, extractor, nil, nil, AssistantOptions{
		MaxAttachmentBytes: 64,
		AllowedMIMEs:       []string{"image/png", "application/pdf"},
	})
	return svc, store
}

func TestSubmitRejectsEmptyInputBeforeCallingExtractor(t *testing.T) {
	stub := &stubExtractor{result: draftsResult()}
	svc, _ := newAssistant(stub)

	_, err := svc.Submit(context.Background(), SubmitRequest{Text: "   "})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, stub.callCount(), "empty submissions never reach the collaborator")
	assert.Equal(t, models.SessionIdle, svc.Snapshot().State)
}

func TestSubmitAttachmentValidation(t *testing.T) {
	stub := &stubExtractor{result: draftsResult()}
	svc, _ := newAssistant(stub)

	big := base64.StdEncoding.EncodeToString(make([]byte, 128))

	tests := []struct {
		name string
		att  *AttachmentPayload
	}{
		{"missing fields", &AttachmentPayload{}},
		{"mime not allowed", &AttachmentPayload{MIMEType: "image/gif", Base64Data: "aGk="}},
		{"not base64", &AttachmentPayload{MIMEType: "image/png", Base64Data: "!!not-base64!!"}},
		{"over size limit", &AttachmentPayload{MIMEType: "image/png", Base64Data: big}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), SubmitRequest{Attachment: tc.att})
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
	assert.Equal(t, 0, stub.callCount())
}

func TestSubmitMaterializesDrafts(t *testing.T) {
	stub := &stubExtractor{result: draftsResult(sampleDraft("Team sync", 3), sampleDraft("Demo", 4))}
	svc, _ := newAssistant(stub)

	view, err := svc.Submit(context.Background(), SubmitRequest{Text: "sync tomorrow, demo the day after"})
	require.NoError(t, err)
	assert.Equal(t, models.SessionDrafted, view.State)
	require.Len(t, view.Drafts, 2)
	assert.Equal(t, 0, view.Drafts[0].Index)
	assert.Equal(t, "Team sync", view.Drafts[0].Draft.Title)
	require.NotNil(t, view.Judgement)
	assert.Equal(t, 85, view.Judgement.ConfidenceScore)
}

func TestSubmitZeroEventsStillDrafts(t *testing.T) {
	stub := &stubExtractor{result: draftsResult()}
	svc, _ := newAssistant(stub)

	view, err := svc.Submit(context.Background(), SubmitRequest{Text: "nothing schedulable here"})
	require.NoError(t, err)
	assert.Equal(t, models.SessionDrafted, view.State)
	assert.Empty(t, view.Drafts)
	assert.NotNil(t, view.Judgement, "judgement survives even with no drafts")
}

func TestSubmitExtractorFailure(t *testing.T) {
	stub := &stubExtractor{err: extract.ErrMalformed}
	svc, _ := newAssistant(stub)

	view, err := svc.Submit(context.Background(), SubmitRequest{Text: "lunch friday"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrExtraction.Code, appErr.Code)
	assert.Equal(t, models.SessionErrored, view.State)
	assert.Equal(t, appErrors.ErrExtraction.Message, view.Error, "internal failure detail never leaks to the session")
}

func TestSubmitInFlightGuard(t *testing.T) {
	stub := &stubExtractor{
		result:  draftsResult(sampleDraft("Slow one", 3)),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc, _ := newAssistant(stub)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), SubmitRequest{Text: "first"})
		done <- err
	}()
	<-stub.started

	_, err := svc.Submit(context.Background(), SubmitRequest{Text: "second"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	close(stub.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, stub.callCount(), "the second submission never reached the collaborator")
	assert.Equal(t, models.SessionDrafted, svc.Snapshot().State)
}

func TestDiscardDuringFlightDropsStaleResult(t *testing.T) {
	stub := &stubExtractor{
		result:  draftsResult(sampleDraft("Late arrival", 3)),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc, store := newAssistant(stub)

	done := make(chan models.SessionView, 1)
	go func() {
		view, _ := svc.Submit(context.Background(), SubmitRequest{Text: "plan my week"})
		done <- view
	}()
	<-stub.started

	view := svc.Discard()
	assert.Equal(t, models.SessionIdle, view.State)

	close(stub.release)
	final := <-done
	assert.Equal(t, models.SessionIdle, final.State, "late result must not resurrect the session")
	assert.Empty(t, final.Drafts)
	assert.Equal(t, 0, store.Len())
}

func TestEditDraft(t *testing.T) {
	stub := &stubExtractor{result: draftsResult(sampleDraft("Team sync", 3))}
	svc, _ := newAssistant(stub)

	_, err := svc.Submit(context.Background(), SubmitRequest{Text: "sync"})
	require.NoError(t, err)

	title := "Weekly sync"
	color := models.ColorRose
	view, err := svc.EditDraft(0, DraftPatch{Title: &title, Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "Weekly sync", view.Drafts[0].Draft.Title)
	assert.Equal(t, models.ColorRose, view.Drafts[0].Draft.Color)
	assert.Equal(t, models.CategoryBusiness, view.Drafts[0].Draft.Category, "unpatched fields stay put")
}

func TestEditDraftValidation(t *testing.T) {
	stub := &stubExtractor{result: draftsResult(sampleDraft("Team sync", 3))}
	svc, _ := newAssistant(stub)

	_, err := svc.EditDraft(0, DraftPatch{})
	require.Error(t, err, "no session yet")

	_, err = svc.Submit(context.Background(), SubmitRequest{Text: "sync"})
	require.NoError(t, err)

	_, err = svc.EditDraft(5, DraftPatch{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	badColor := "mauve"
	_, err = svc.EditDraft(0, DraftPatch{Color: &badColor})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRemoveLastDraftReturnsToIdle(t *testing.T) {
	stub := &stubExtractor{result: draftsResult(sampleDraft("A", 3), sampleDraft("B", 4))}
	svc, _ := newAssistant(stub)

	_, err := svc.Submit(context.Background(), SubmitRequest{Text: "two things"})
	require.NoError(t, err)

	view, err := svc.RemoveDraft(0)
	require.NoError(t, err)
	assert.Equal(t, models.SessionDrafted, view.State)
	require.Len(t, view.Drafts, 1)
	assert.Equal(t, "B", view.Drafts[0].Draft.Title)

	view, err = svc.RemoveDraft(0)
	require.NoError(t, err)
	assert.Equal(t, models.SessionIdle, view.State)
	assert.Nil(t, view.Judgement)
}

func TestConfirmAllCommitsBatch(t *testing.T) {
	stub := &stubExtractor{result: draftsResult(
		sampleDraft("A", 3),
		models.DraftEvent{Title: "  ", Start: at(4, 9, 0), End: at(4, 10, 0)},
	)}
	svc, store := newAssistant(stub)

	_, err := svc.Submit(context.Background(), SubmitRequest{Text: "two things"})
	require.NoError(t, err)

	events, err := svc.ConfirmAll()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 2, store.Len())

	assert.NotEqual(t, events[0].ID, events[1].ID)
	for _, ev := range events {
		assert.NotEmpty(t, ev.ID)
		assert.Equal(t, models.SourceAI, ev.Source)
	}

	assert.Equal(t, "Untitled Event", events[1].Title)
	assert.Equal(t, models.CategoryPersonal, events[1].Category)
	assert.Equal(t, models.ColorBlue, events[1].Color)

	assert.Equal(t, models.SessionIdle, svc.Snapshot().State)

	_, err = svc.ConfirmAll()
	require.Error(t, err, "nothing left to confirm")
}

func TestSnapshotRecomputesConflictsLive(t *testing.T) {
	stub := &stubExtractor{result: draftsResult(sampleDraft("New meeting", 3))}
	svc, store := newAssistant(stub)

	view, err := svc.Submit(context.Background(), SubmitRequest{Text: "meeting"})
	require.NoError(t, err)
	assert.False(t, view.Drafts[0].Conflict)

	store.Upsert(models.Event{
		ID:    "existing",
		Title: "Blocker",
		Start: at(3, 10, 30),
		End:   at(3, 11, 30),
	})

	view = svc.Snapshot()
	assert.True(t, view.Drafts[0].Conflict, "conflict flag tracks the live store")
}
