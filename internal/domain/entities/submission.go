package entities

import "time"

// SubmissionKind distinguishes member-submitted quest ideas from general
// suggestions. Both flow through the same intake form on the dashboard.
type SubmissionKind string

const (
	SubmissionQuest      SubmissionKind = "quest"
	SubmissionSuggestion SubmissionKind = "suggestion"
)

// SubmissionStatus tracks moderation state.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Submission is a member-submitted quest idea or suggestion.
type Submission struct {
	ID           string           `json:"id"`
	Kind         SubmissionKind   `json:"kind"`
	AuthorUserID string           `json:"author_user_id"`
	Title        string           `json:"title"`
	Body         string           `json:"body"`
	Status       SubmissionStatus `json:"status"`
	Embedding    []float32        `json:"embedding,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
