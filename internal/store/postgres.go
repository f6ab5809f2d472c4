package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/coldcall/internal/types"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies
// it, which keeps the store unit-testable without a database.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore is a Store backed by PostgreSQL.
type PostgresStore struct {
	pool Pool
	now  func() time.Time
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS verification_records (
	candidate_id TEXT NOT NULL,
	field_name   TEXT NOT NULL,
	value        JSONB,
	status       TEXT NOT NULL DEFAULT 'unverified',
	notes        TEXT NOT NULL DEFAULT '',
	verified_by  TEXT NOT NULL DEFAULT '',
	verified_at  TIMESTAMPTZ,
	updated_at   TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (candidate_id, field_name)
);

CREATE TABLE IF NOT EXISTS verification_audit (
	id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	candidate_id TEXT NOT NULL,
	field_name   TEXT NOT NULL,
	kind         TEXT NOT NULL,
	old_value    JSONB,
	new_value    JSONB,
	old_status   TEXT NOT NULL,
	new_status   TEXT NOT NULL,
	actor        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS verification_audit_field_idx
	ON verification_audit (candidate_id, field_name, id);
`

// NewPostgres connects to the database, runs the migration, and returns
// a ready store.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := NewPostgresWithPool(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresWithPool wraps an existing pool without connecting or
// migrating. Used by tests and callers that manage the pool themselves.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

// Migrate creates the verification tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return fmt.Errorf("failed to migrate verification schema: %w", err)
	}
	return nil
}

// Get returns the current record for a field, or nil if never written.
func (s *PostgresStore) Get(ctx context.Context, candidateID, fieldName string) (*types.VerificationRecord, error) {
	rec, err := s.get(ctx, candidateID, fieldName)
	if err != nil {
		return nil, fmt.Errorf("failed to get verification record %s: %w", fieldName, err)
	}
	return rec, nil
}

func (s *PostgresStore) get(ctx context.Context, candidateID, fieldName string) (*types.VerificationRecord, error) {
	var (
		rec        types.VerificationRecord
		valueBytes []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT field_name, value, status, notes, verified_by, verified_at, updated_at
		 FROM verification_records WHERE candidate_id = $1 AND field_name = $2`,
		candidateID, fieldName,
	).Scan(&rec.FieldName, &valueBytes, &rec.Status, &rec.Notes, &rec.VerifiedBy, &rec.VerifiedAt, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if len(valueBytes) > 0 {
		if err := json.Unmarshal(valueBytes, &rec.Value); err != nil {
			return nil, fmt.Errorf("failed to decode stored value: %w", err)
		}
	}
	return &rec, nil
}

// SetStatus transitions the field's status, stamps actor and
// timestamps, and appends one audit entry. The record is auto-created
// as unverified on first write.
func (s *PostgresStore) SetStatus(ctx context.Context, candidateID, fieldName string, status types.VerificationStatus, notes, actor string) (*types.VerificationRecord, error) {
	if !status.Valid() {
		return nil, &InvalidStatusError{Status: status}
	}

	prev, err := s.get(ctx, candidateID, fieldName)
	if err != nil {
		return nil, fmt.Errorf("failed to read verification record %s: %w", fieldName, err)
	}

	oldStatus := types.StatusUnverified
	oldValue := any(nil)
	newNotes := notes
	if prev != nil {
		oldStatus = prev.Status
		oldValue = prev.Value
		if notes == "" {
			newNotes = prev.Notes
		}
	}

	now := s.now()
	oldBytes, err := json.Marshal(oldValue)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO verification_records (candidate_id, field_name, value, status, notes, verified_by, verified_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 ON CONFLICT (candidate_id, field_name) DO UPDATE
		 SET status = $4, notes = $5, verified_by = $6, verified_at = $7, updated_at = $7`,
		candidateID, fieldName, oldBytes, status, newNotes, actor, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update verification status %s: %w", fieldName, err)
	}

	if err := s.appendAudit(ctx, candidateID, fieldName, types.AuditEntry{
		Kind:      types.AuditStatusChange,
		OldValue:  oldValue,
		NewValue:  oldValue,
		OldStatus: oldStatus,
		NewStatus: status,
		Actor:     actor,
		Timestamp: now,
	}); err != nil {
		return nil, err
	}

	verifiedAt := now
	return &types.VerificationRecord{
		FieldName:  fieldName,
		Value:      oldValue,
		Status:     status,
		Notes:      newNotes,
		VerifiedBy: actor,
		VerifiedAt: &verifiedAt,
		UpdatedAt:  now,
	}, nil
}

// SetValue overwrites the field's value and update timestamp without
// changing its status, and appends one audit entry.
func (s *PostgresStore) SetValue(ctx context.Context, candidateID, fieldName string, value any, actor string) (*types.VerificationRecord, error) {
	prev, err := s.get(ctx, candidateID, fieldName)
	if err != nil {
		return nil, fmt.Errorf("failed to read verification record %s: %w", fieldName, err)
	}

	status := types.StatusUnverified
	oldValue := any(nil)
	rec := &types.VerificationRecord{FieldName: fieldName, Status: status}
	if prev != nil {
		rec = prev
		status = prev.Status
		oldValue = prev.Value
	}

	now := s.now()
	valueBytes, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO verification_records (candidate_id, field_name, value, status, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (candidate_id, field_name) DO UPDATE
		 SET value = $3, updated_at = $5`,
		candidateID, fieldName, valueBytes, status, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update verification value %s: %w", fieldName, err)
	}

	if err := s.appendAudit(ctx, candidateID, fieldName, types.AuditEntry{
		Kind:      types.AuditValueChange,
		OldValue:  oldValue,
		NewValue:  value,
		OldStatus: status,
		NewStatus: status,
		Actor:     actor,
		Timestamp: now,
	}); err != nil {
		return nil, err
	}

	rec.Value = value
	rec.UpdatedAt = now
	return rec, nil
}

// History returns all audit entries for a field, oldest first.
func (s *PostgresStore) History(ctx context.Context, candidateID, fieldName string) ([]types.AuditEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT field_name, kind, old_value, new_value, old_status, new_status, actor, created_at
		 FROM verification_audit
		 WHERE candidate_id = $1 AND field_name = $2
		 ORDER BY id ASC`,
		candidateID, fieldName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries %s: %w", fieldName, err)
	}
	defer rows.Close()

	entries := []types.AuditEntry{}
	for rows.Next() {
		var (
			entry    types.AuditEntry
			oldBytes []byte
			newBytes []byte
		)
		if err := rows.Scan(&entry.FieldName, &entry.Kind, &oldBytes, &newBytes,
			&entry.OldStatus, &entry.NewStatus, &entry.Actor, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if len(oldBytes) > 0 {
			if err := json.Unmarshal(oldBytes, &entry.OldValue); err != nil {
				return nil, fmt.Errorf("failed to decode audit value: %w", err)
			}
		}
		if len(newBytes) > 0 {
			if err := json.Unmarshal(newBytes, &entry.NewValue); err != nil {
				return nil, fmt.Errorf("failed to decode audit value: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit entries: %w", err)
	}
	return entries, nil
}

// Close closes the underlying pool.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresStore) appendAudit(ctx context.Context, candidateID, fieldName string, entry types.AuditEntry) error {
	oldBytes, err := json.Marshal(entry.OldValue)
	if err != nil {
		return fmt.Errorf("failed to encode audit value: %w", err)
	}
	newBytes, err := json.Marshal(entry.NewValue)
	if err != nil {
		return fmt.Errorf("failed to encode audit value: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO verification_audit (candidate_id, field_name, kind, old_value, new_value, old_status, new_status, actor, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		candidateID, fieldName, entry.Kind, oldBytes, newBytes, entry.OldStatus, entry.NewStatus, entry.Actor, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry %s: %w", fieldName, err)
	}
	return nil
}
