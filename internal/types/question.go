package types

import (
	"github.com/go-playground/validator/v10"
)

// Conversation context modes understood by the question service.
// Free-text contexts are also accepted.
const (
	ContextColdCall  = "cold_call"
	ContextFollowUp  = "follow_up"
	ContextScreening = "screening"
)

// GeneratedQuestion is one caller-facing question produced by the
// external question-generation service. Immutable once received.
type GeneratedQuestion struct {
	Question string `json:"question"`
	Field    string `json:"field"`
	Category string `json:"category"`
	Priority int    `json:"priority"` // higher = ask first
	Context  string `json:"context"`
}

// QuestionRequest is the request body sent to the question service.
type QuestionRequest struct {
	CandidateID         string           `json:"candidate_id" validate:"required"`
	MissingFields       []string         `json:"missing_fields" validate:"required,min=1"`
	CandidateData       *CandidateRecord `json:"candidate_data" validate:"required"`
	ConversationContext string           `json:"conversation_context"`
}

// Validate validates the QuestionRequest using the validator.
func (r *QuestionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// QuestionResponse is the success response body from the question
// service.
type QuestionResponse struct {
	Questions      []GeneratedQuestion `json:"questions"`
	GeneratedAt    string              `json:"generated_at"`
	CandidateID    string              `json:"candidate_id"`
	TotalQuestions int                 `json:"total_questions"`
}
