// Package extract defines the boundary to the generative extraction
// collaborator: the input/output contract, a strict schema-validated
// decoder for its responses, and a Gemini-backed client.
//
// The core treats the collaborator as an untrusted data source. Anything
// that does not decode into the exact contract shape is rejected as
// malformed rather than patched over with defaults.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nexplan/nexplan-api/internal/models"
)

// ErrMalformed marks a collaborator response that could not be decoded
// into the contract shape. Distinct from a valid response containing zero
// events, which is not an error.
var ErrMalformed = errors.New("extraction response did not match the expected shape")

// Attachment is an optional binary input, already base64 encoded by the
// caller.
type Attachment struct {
	MIMEType   string
	Base64Data string
}

// Input is everything the collaborator needs: the free text, an optional
// attachment, and the temporal reference point used to resolve relative
// dates like "next Friday".
type Input struct {
	Text          string
	Attachment    *Attachment
	ReferenceTime time.Time
	TimeZone      string
}

// Result is the validated output of one extraction call.
type Result struct {
	Events    []models.DraftEvent
	Judgement models.Judgement
}

// Extractor is the opaque collaborator function. Implementations own their
// transport, timeout and retry policy.
type Extractor interface {
	Extract(ctx context.Context, in Input) (*Result, error)
}

type wireEvent struct {
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Category    string `json:"category"`
}

type wireJudgement struct {
	ConfidenceScore   *int     `json:"confidenceScore"`
	Reasoning         string   `json:"reasoning"`
	AmbiguityDetected *bool    `json:"ambiguityDetected"`
	Suggestions       []string `json:"suggestions"`
}

type wireResult struct {
	Events    []wireEvent    `json:"events"`
	Judgement *wireJudgement `json:"judgement"`
}

// DecodeResult parses and validates a raw collaborator payload. Every
// event must carry a non-empty title, parseable start/end timestamps and a
// known category; the judgement block, confidence score and ambiguity flag
// are mandatory. Any violation fails the whole batch; there is no partial
// salvage of a half-parsed response.
func DecodeResult(raw []byte) (*Result, error) {
	trimmed := strings.TrimSpace(string(raw))
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	var wire wireResult
	dec := json.NewDecoder(strings.NewReader(trimmed))
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if wire.Judgement == nil {
		return nil, fmt.Errorf("%w: missing judgement", ErrMalformed)
	}
	if wire.Judgement.ConfidenceScore == nil || wire.Judgement.AmbiguityDetected == nil {
		return nil, fmt.Errorf("%w: incomplete judgement", ErrMalformed)
	}
	score := *wire.Judgement.ConfidenceScore
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: confidence score %d out of range", ErrMalformed, score)
	}

	result := &Result{
		Judgement: models.Judgement{
			ConfidenceScore:   score,
			Reasoning:         wire.Judgement.Reasoning,
			AmbiguityDetected: *wire.Judgement.AmbiguityDetected,
			Suggestions:       wire.Judgement.Suggestions,
		},
	}

	for i, ev := range wire.Events {
		draft, err := decodeEvent(ev)
		if err != nil {
			return nil, fmt.Errorf("%w: event %d: %v", ErrMalformed, i, err)
		}
		result.Events = append(result.Events, draft)
	}
	return result, nil
}

func decodeEvent(ev wireEvent) (models.DraftEvent, error) {
	if strings.TrimSpace(ev.Title) == "" {
		return models.DraftEvent{}, errors.New("empty title")
	}
	start, err := parseTimestamp(ev.Start)
	if err != nil {
		return models.DraftEvent{}, fmt.Errorf("start: %v", err)
	}
	end, err := parseTimestamp(ev.End)
	if err != nil {
		return models.DraftEvent{}, fmt.Errorf("end: %v", err)
	}
	category := models.Category(ev.Category)
	if !category.Valid() {
		return models.DraftEvent{}, fmt.Errorf("unknown category %q", ev.Category)
	}
	return models.DraftEvent{
		Title:       strings.TrimSpace(ev.Title),
		Start:       start,
		End:         end,
		Category:    category,
		Description: ev.Description,
		Location:    ev.Location,
	}, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}
