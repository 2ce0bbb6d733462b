package models

import "time"

// SessionState enumerates the reconciliation session lifecycle.
type SessionState string

const (
	SessionIdle       SessionState = "idle"
	SessionSubmitting SessionState = "submitting"
	SessionDrafted    SessionState = "drafted"
	SessionErrored    SessionState = "errored"
)

// DraftEvent is a candidate event proposed by the extraction collaborator.
// It has no ID until the batch is confirmed; optional fields may be empty.
type DraftEvent struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Category    Category  `json:"category"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
}

// Judgement is the collaborator's self-assessment of its extraction.
// Advisory only: it never gates a commit.
type Judgement struct {
	ConfidenceScore   int      `json:"confidence_score"`
	Reasoning         string   `json:"reasoning"`
	AmbiguityDetected bool     `json:"ambiguity_detected"`
	Suggestions       []string `json:"suggestions,omitempty"`
}

// DraftView is a draft paired with its live conflict annotation. The flag
// is recomputed against the event store on every snapshot, never stored.
type DraftView struct {
	Index    int        `json:"index"`
	Draft    DraftEvent `json:"draft"`
	Conflict bool       `json:"conflict"`
}

// SessionView is the externally visible snapshot of a reconciliation session.
type SessionView struct {
	State     SessionState `json:"state"`
	Judgement *Judgement   `json:"judgement,omitempty"`
	Drafts    []DraftView  `json:"drafts,omitempty"`
	Error     string       `json:"error,omitempty"`
}
