package server

import (
	"encoding/json"
	"net/http"
)

// AnswerRequest is the body for a field answer. Value is any JSON value
// and may legitimately be false or zero, so presence is not enforced.
type AnswerRequest struct {
	Value any    `json:"value"`
	Note  string `json:"note,omitempty"`
}

// SkipRequest is the body for a field skip.
type SkipRequest struct {
	Reason string `json:"reason,omitempty"`
}

// handleAnswerField records a verified value for a field.
func (s *Server) handleAnswerField(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	fieldName := r.PathValue("field")

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := sess.Answer(r.Context(), fieldName, req.Value, req.Note); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Snapshot())
}

// handleSkipField marks a field rejected with the skip reason as notes.
func (s *Server) handleSkipField(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	fieldName := r.PathValue("field")

	var req SkipRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	if err := sess.Skip(r.Context(), fieldName, req.Reason); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Snapshot())
}

// handleAskLaterField defers a field without touching the store.
func (s *Server) handleAskLaterField(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	fieldName := r.PathValue("field")

	if err := sess.AskLater(fieldName); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Snapshot())
}

// handleFieldHistory returns the full audit trail for one field of one
// candidate, oldest first.
func (s *Server) handleFieldHistory(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")
	fieldName := r.PathValue("field")

	entries, err := s.store.History(r.Context(), candidateID, fieldName)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"candidate_id": candidateID,
		"field_name":   fieldName,
		"history":      entries,
	})
}
