// Package store provides the durable verification record store: the
// source of truth for what each candidate field's value is and whether
// it has been verified, with a full append-only audit history.
package store

import (
	"context"
	"fmt"

	"github.com/jonathan/coldcall/internal/types"
)

// Store is the verification store contract. All operations are scoped
// to one candidate and one flat field identifier.
//
// Policy: a record is auto-created in the unverified state on first
// write, since initial state is "unverified with no history". Reads of
// absent records are not errors: Get returns (nil, nil) and History
// returns an empty slice.
type Store interface {
	// Get returns the current record for a field, or nil if the field
	// was never written.
	Get(ctx context.Context, candidateID, fieldName string) (*types.VerificationRecord, error)

	// SetStatus transitions the field's status, optionally overwriting
	// notes, stamps the verifying actor and timestamps, and appends one
	// audit entry.
	SetStatus(ctx context.Context, candidateID, fieldName string, status types.VerificationStatus, notes, actor string) (*types.VerificationRecord, error)

	// SetValue overwrites the field's current value and update
	// timestamp without changing its status, and appends one audit
	// entry distinct from a status change.
	SetValue(ctx context.Context, candidateID, fieldName string, value any, actor string) (*types.VerificationRecord, error)

	// History returns all audit entries for a field, oldest first.
	History(ctx context.Context, candidateID, fieldName string) ([]types.AuditEntry, error)

	// Close releases any resources held by the store.
	Close() error
}

// NotFoundError indicates an operation referenced a field with no
// verification record where one was required to exist.
type NotFoundError struct {
	CandidateID string
	FieldName   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no verification record for candidate %s field %s", e.CandidateID, e.FieldName)
}

// InvalidStatusError indicates an unknown verification status value.
type InvalidStatusError struct {
	Status types.VerificationStatus
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid verification status %q", e.Status)
}
