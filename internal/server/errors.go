package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/coldcall/internal/fieldpath"
	"github.com/jonathan/coldcall/internal/questions"
	"github.com/jonathan/coldcall/internal/session"
	"github.com/jonathan/coldcall/internal/store"
)

// ErrInvalidSessionID indicates a session path value that is not a UUID.
type ErrInvalidSessionID struct {
	Raw string
}

func (e *ErrInvalidSessionID) Error() string {
	return fmt.Sprintf("invalid session ID: %s", e.Raw)
}

// ErrSessionNotFound indicates the session does not exist or was closed.
type ErrSessionNotFound struct {
	ID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Upstream rejections pass the upstream status through so the operator
// sees what the question service actually said.
func HTTPStatus(err error) int {
	var (
		invalidID    *ErrInvalidSessionID
		notFound     *ErrSessionNotFound
		unknownField *session.UnknownFieldError
		transition   *session.InvalidTransitionError
		addressing   *fieldpath.AddressingError
		storeMissing *store.NotFoundError
		badStatus    *store.InvalidStatusError
		transport    *questions.TransportError
		upstream     *questions.UpstreamError
	)

	switch {
	case errors.As(err, &invalidID), errors.As(err, &addressing), errors.As(err, &badStatus):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &unknownField), errors.As(err, &storeMissing):
		return http.StatusNotFound
	case errors.As(err, &transition):
		return http.StatusConflict
	case errors.Is(err, session.ErrClosed):
		return http.StatusGone
	case errors.Is(err, session.ErrNoFields):
		return http.StatusBadRequest
	case errors.As(err, &transport):
		return http.StatusBadGateway
	case errors.As(err, &upstream):
		// Malformed 2xx payloads still arrive as upstream errors; they
		// are not a client mistake.
		if upstream.StatusCode >= 400 {
			return upstream.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
