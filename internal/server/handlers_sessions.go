package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/coldcall/internal/session"
	"github.com/jonathan/coldcall/internal/types"
)

// StartSessionRequest is the body for POST /candidates/{id}/verification.
type StartSessionRequest struct {
	Actor               string                 `json:"actor" validate:"required"`
	Record              *types.CandidateRecord `json:"record" validate:"required"`
	ConversationContext string                 `json:"conversation_context,omitempty"`
}

// Validate validates the StartSessionRequest using the validator.
func (r *StartSessionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// StartSessionResponse is the response for a started session.
type StartSessionResponse struct {
	SessionID   string             `json:"session_id"`
	CandidateID string             `json:"candidate_id"`
	EmptyFields []types.EmptyField `json:"empty_fields"`
}

// handleStartSession scans the candidate and opens a cold-call session.
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")

	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sess, err := session.New(session.Config{
		CandidateID:         candidateID,
		Actor:               req.Actor,
		Record:              req.Record,
		Store:               s.store,
		Questions:           s.questions,
		ConversationContext: req.ConversationContext,
	})
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.Start(r.Context()); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	snap := sess.Snapshot()
	fields := make([]types.EmptyField, len(snap.Fields))
	for i, fv := range snap.Fields {
		fields[i] = fv.Field
	}

	s.jsonResponse(w, http.StatusCreated, StartSessionResponse{
		SessionID:   sess.ID().String(),
		CandidateID: candidateID,
		EmptyFields: fields,
	})
}

// handleGetSession returns a session snapshot.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Snapshot())
}

// handleCloseSession discards the session's ephemeral state. The
// verification store keeps everything already written.
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sess.Close()
	s.mu.Lock()
	delete(s.sessions, sess.ID())
	s.mu.Unlock()

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "closed"})
}

// QuestionsRequest is the body for POST /sessions/{id}/questions.
type QuestionsRequest struct {
	ConversationContext string `json:"conversation_context,omitempty"`
}

// handleRequestQuestions triggers question generation for the session's
// fields. Failures keep previously generated questions intact.
func (s *Server) handleRequestQuestions(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req QuestionsRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	if err := sess.RequestQuestions(r.Context(), req.ConversationContext); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Snapshot())
}

// ViewRequest is the body for PUT /sessions/{id}/view.
type ViewRequest struct {
	Mode string `json:"mode" validate:"required,oneof=list focus"`
}

// Validate validates the ViewRequest using the validator.
func (r *ViewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// handleSetViewMode switches between list and focus mode.
func (s *Server) handleSetViewMode(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req ViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := sess.SetViewMode(session.ViewMode(req.Mode)); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Snapshot())
}

// FocusResponse reports the focus cursor after a navigation action.
type FocusResponse struct {
	FocusIndex int `json:"focus_index"`
}

// handleFocusNext advances the focus cursor.
func (s *Server) handleFocusNext(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, FocusResponse{FocusIndex: sess.Next()})
}

// handleFocusPrevious moves the focus cursor back.
func (s *Server) handleFocusPrevious(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, FocusResponse{FocusIndex: sess.Previous()})
}
