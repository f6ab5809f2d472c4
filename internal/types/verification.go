package types

import (
	"time"

	"github.com/jonathan/coldcall/internal/fieldpath"
)

// VerificationStatus is the durable status of one candidate field.
// Every status is reachable from every other; candidate data can
// always be re-examined.
type VerificationStatus string

// Verification statuses.
const (
	StatusUnverified    VerificationStatus = "unverified"
	StatusVerified      VerificationStatus = "verified"
	StatusRejected      VerificationStatus = "rejected"
	StatusPendingReview VerificationStatus = "pending-review"
)

// Valid reports whether s is a known verification status.
func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusUnverified, StatusVerified, StatusRejected, StatusPendingReview:
		return true
	}
	return false
}

// FieldType describes how a field is captured on a call.
type FieldType string

// Field types.
const (
	FieldTypeText        FieldType = "text"
	FieldTypeNumber      FieldType = "number"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiselect FieldType = "multiselect"
	FieldTypeDate        FieldType = "date"
	FieldTypeBoolean     FieldType = "boolean"
	FieldTypeTextarea    FieldType = "textarea"
	FieldTypeCombobox    FieldType = "combobox"
	FieldTypeBenefits    FieldType = "benefits"
)

// EmptyField describes one field the scanner flagged as missing or
// unverified. Instances are recomputed fresh each time verification
// starts for a candidate and never mutated in place.
type EmptyField struct {
	Path       fieldpath.FieldPath `json:"path"`
	FieldName  string              `json:"field_name"`
	Label      string              `json:"label"`
	Type       FieldType           `json:"type"`
	Section    fieldpath.Section   `json:"section"`
	Context    string              `json:"context,omitempty"`
	Options    []string            `json:"options,omitempty"`
	Value      any                 `json:"value"`
	EntryIndex int                 `json:"entry_index"` // -1 for basic fields
}

// VerificationRecord is the durable status/value record for one field
// of one candidate. Owned by the verification store and mutated only
// through its update operations.
type VerificationRecord struct {
	FieldName  string             `json:"field_name"`
	Value      any                `json:"value"`
	Status     VerificationStatus `json:"status"`
	Notes      string             `json:"notes,omitempty"`
	VerifiedBy string             `json:"verified_by,omitempty"`
	VerifiedAt *time.Time         `json:"verified_at,omitempty"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// AuditKind distinguishes the two mutations a record supports.
type AuditKind string

// Audit entry kinds.
const (
	AuditStatusChange AuditKind = "status_change"
	AuditValueChange  AuditKind = "value_change"
)

// AuditEntry records one verification-record mutation. Entries are
// append-only and ordered by creation time per field.
type AuditEntry struct {
	FieldName string             `json:"field_name"`
	Kind      AuditKind          `json:"kind"`
	OldValue  any                `json:"old_value"`
	NewValue  any                `json:"new_value"`
	OldStatus VerificationStatus `json:"old_status"`
	NewStatus VerificationStatus `json:"new_status"`
	Actor     string             `json:"actor"`
	Timestamp time.Time          `json:"timestamp"`
}
