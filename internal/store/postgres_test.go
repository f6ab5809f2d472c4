package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/coldcall/internal/types"
)

func newTestPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	s := NewPostgresWithPool(mock)
	s.now = func() time.Time {
		return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	}
	return s, mock
}

func TestPostgresMigrate(t *testing.T) {
	s, mock := newTestPostgres(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS verification_records").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet_Found(t *testing.T) {
	s, mock := newTestPostgres(t)

	updated := time.Date(2026, 3, 9, 15, 30, 0, 0, time.UTC)
	verified := updated.Add(time.Minute)
	mock.ExpectQuery("SELECT field_name, value, status, notes, verified_by, verified_at, updated_at").
		WithArgs("cand-1", "posting_title").
		WillReturnRows(pgxmock.NewRows([]string{
			"field_name", "value", "status", "notes", "verified_by", "verified_at", "updated_at",
		}).AddRow("posting_title", []byte(`"Senior Backend Engineer"`), types.StatusVerified,
			"confirmed on call", "recruiter-7", &verified, updated))

	rec, err := s.Get(context.Background(), "cand-1", "posting_title")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "posting_title", rec.FieldName)
	assert.Equal(t, "Senior Backend Engineer", rec.Value)
	assert.Equal(t, types.StatusVerified, rec.Status)
	assert.Equal(t, "recruiter-7", rec.VerifiedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet_NeverWritten(t *testing.T) {
	s, mock := newTestPostgres(t)

	mock.ExpectQuery("SELECT field_name, value, status, notes, verified_by, verified_at, updated_at").
		WithArgs("cand-1", "posting_title").
		WillReturnError(pgx.ErrNoRows)

	rec, err := s.Get(context.Background(), "cand-1", "posting_title")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetStatus_AutoCreates(t *testing.T) {
	s, mock := newTestPostgres(t)

	mock.ExpectQuery("SELECT field_name, value, status, notes, verified_by, verified_at, updated_at").
		WithArgs("cand-1", "posting_title").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec("INSERT INTO verification_records").
		WithArgs("cand-1", "posting_title", pgxmock.AnyArg(), types.StatusRejected,
			"candidate unsure", "recruiter-7", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO verification_audit").
		WithArgs("cand-1", "posting_title", types.AuditStatusChange, pgxmock.AnyArg(), pgxmock.AnyArg(),
			types.StatusUnverified, types.StatusRejected, "recruiter-7", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec, err := s.SetStatus(context.Background(), "cand-1", "posting_title",
		types.StatusRejected, "candidate unsure", "recruiter-7")
	require.NoError(t, err)
	assert.Equal(t, types.StatusRejected, rec.Status)
	assert.Equal(t, "candidate unsure", rec.Notes)
	assert.Equal(t, "recruiter-7", rec.VerifiedBy)
	require.NotNil(t, rec.VerifiedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetStatus_InvalidStatus(t *testing.T) {
	s, mock := newTestPostgres(t)

	_, err := s.SetStatus(context.Background(), "cand-1", "email",
		types.VerificationStatus("bogus"), "", "recruiter-7")
	var invalidErr *InvalidStatusError
	require.ErrorAs(t, err, &invalidErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetValue_KeepsExistingStatus(t *testing.T) {
	s, mock := newTestPostgres(t)

	updated := time.Date(2026, 3, 9, 15, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT field_name, value, status, notes, verified_by, verified_at, updated_at").
		WithArgs("cand-1", "expected_salary").
		WillReturnRows(pgxmock.NewRows([]string{
			"field_name", "value", "status", "notes", "verified_by", "verified_at", "updated_at",
		}).AddRow("expected_salary", []byte(`150000`), types.StatusVerified,
			"", "recruiter-7", (*time.Time)(nil), updated))
	mock.ExpectExec("INSERT INTO verification_records").
		WithArgs("cand-1", "expected_salary", pgxmock.AnyArg(), types.StatusVerified, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO verification_audit").
		WithArgs("cand-1", "expected_salary", types.AuditValueChange, pgxmock.AnyArg(), pgxmock.AnyArg(),
			types.StatusVerified, types.StatusVerified, "recruiter-7", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec, err := s.SetValue(context.Background(), "cand-1", "expected_salary", 165000.0, "recruiter-7")
	require.NoError(t, err)
	assert.Equal(t, types.StatusVerified, rec.Status)
	assert.Equal(t, 165000.0, rec.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresHistory(t *testing.T) {
	s, mock := newTestPostgres(t)

	ts := time.Date(2026, 3, 9, 15, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT field_name, kind, old_value, new_value, old_status, new_status, actor, created_at").
		WithArgs("cand-1", "location").
		WillReturnRows(pgxmock.NewRows([]string{
			"field_name", "kind", "old_value", "new_value", "old_status", "new_status", "actor", "created_at",
		}).AddRow("location", types.AuditValueChange, []byte(`null`), []byte(`"Austin, TX"`),
			types.StatusUnverified, types.StatusUnverified, "recruiter-7", ts).
			AddRow("location", types.AuditStatusChange, []byte(`"Austin, TX"`), []byte(`"Austin, TX"`),
				types.StatusUnverified, types.StatusVerified, "recruiter-7", ts.Add(time.Minute)))

	entries, err := s.History(context.Background(), "cand-1", "location")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, types.AuditValueChange, entries[0].Kind)
	assert.Equal(t, "Austin, TX", entries[0].NewValue)
	assert.Equal(t, types.StatusVerified, entries[1].NewStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresHistory_Empty(t *testing.T) {
	s, mock := newTestPostgres(t)

	mock.ExpectQuery("SELECT field_name, kind, old_value, new_value, old_status, new_status, actor, created_at").
		WithArgs("cand-1", "never_touched").
		WillReturnRows(pgxmock.NewRows([]string{
			"field_name", "kind", "old_value", "new_value", "old_status", "new_status", "actor", "created_at",
		}))

	entries, err := s.History(context.Background(), "cand-1", "never_touched")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
