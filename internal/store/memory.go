package store

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/coldcall/internal/types"
)

// MemoryStore is an in-memory Store. Writes are serialized per store;
// the audit log is append-only so reads are safe alongside writes.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]map[string]*types.VerificationRecord
	audit   map[string]map[string][]types.AuditEntry

	// now is swappable for tests.
	now func() time.Time
}

// NewMemory creates an empty in-memory verification store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]map[string]*types.VerificationRecord),
		audit:   make(map[string]map[string][]types.AuditEntry),
		now:     time.Now,
	}
}

// Get returns the current record for a field, or nil if never written.
func (s *MemoryStore) Get(_ context.Context, candidateID, fieldName string) (*types.VerificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[candidateID][fieldName]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

// SetStatus transitions the field's status and appends one audit entry.
// The record is auto-created as unverified if this is the first write.
func (s *MemoryStore) SetStatus(_ context.Context, candidateID, fieldName string, status types.VerificationStatus, notes, actor string) (*types.VerificationRecord, error) {
	if !status.Valid() {
		return nil, &InvalidStatusError{Status: status}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec := s.ensureRecord(candidateID, fieldName)
	entry := types.AuditEntry{
		FieldName: fieldName,
		Kind:      types.AuditStatusChange,
		OldValue:  rec.Value,
		NewValue:  rec.Value,
		OldStatus: rec.Status,
		NewStatus: status,
		Actor:     actor,
		Timestamp: now,
	}

	rec.Status = status
	if notes != "" {
		rec.Notes = notes
	}
	rec.VerifiedBy = actor
	verifiedAt := now
	rec.VerifiedAt = &verifiedAt
	rec.UpdatedAt = now

	s.appendAudit(candidateID, fieldName, entry)
	cp := *rec
	return &cp, nil
}

// SetValue overwrites the field's value without changing its status and
// appends one audit entry.
func (s *MemoryStore) SetValue(_ context.Context, candidateID, fieldName string, value any, actor string) (*types.VerificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec := s.ensureRecord(candidateID, fieldName)
	entry := types.AuditEntry{
		FieldName: fieldName,
		Kind:      types.AuditValueChange,
		OldValue:  rec.Value,
		NewValue:  value,
		OldStatus: rec.Status,
		NewStatus: rec.Status,
		Actor:     actor,
		Timestamp: now,
	}

	rec.Value = value
	rec.UpdatedAt = now

	s.appendAudit(candidateID, fieldName, entry)
	cp := *rec
	return &cp, nil
}

// History returns all audit entries for a field, oldest first. A field
// with no history yields an empty slice, not an error.
func (s *MemoryStore) History(_ context.Context, candidateID, fieldName string) ([]types.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.audit[candidateID][fieldName]
	out := make([]types.AuditEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// ensureRecord returns the field's record, creating an unverified one
// on first write. Callers must hold the write lock.
func (s *MemoryStore) ensureRecord(candidateID, fieldName string) *types.VerificationRecord {
	fields, ok := s.records[candidateID]
	if !ok {
		fields = make(map[string]*types.VerificationRecord)
		s.records[candidateID] = fields
	}
	rec, ok := fields[fieldName]
	if !ok {
		rec = &types.VerificationRecord{
			FieldName: fieldName,
			Status:    types.StatusUnverified,
			UpdatedAt: s.now(),
		}
		fields[fieldName] = rec
	}
	return rec
}

func (s *MemoryStore) appendAudit(candidateID, fieldName string, entry types.AuditEntry) {
	fields, ok := s.audit[candidateID]
	if !ok {
		fields = make(map[string][]types.AuditEntry)
		s.audit[candidateID] = fields
	}
	fields[fieldName] = append(fields[fieldName], entry)
}
