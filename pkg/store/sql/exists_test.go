package sql

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/instance-atlas/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var existsColumns = []string{
	"id", "tenant", "flavor", "status", "launched_at", "deleted_at",
	"audit_period_beginning", "audit_period_ending", "raw",
}

func TestExistsCollector_GetVerified(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2014, 1, 2, 0, 0, 0, 0, time.UTC)
	launched := start.Add(1 * time.Hour)
	deleted := start.Add(3 * time.Hour)

	rows := sqlmock.NewRows(existsColumns).
		AddRow(int64(1), "tenant-a", "standard-1", store.StatusVerified,
			launched, deleted, start, end, []byte(`["event", {}]`)).
		AddRow(int64(2), "tenant-b", "highmem-2", store.StatusVerified,
			launched, nil, start, end, []byte(`["event", {}]`))

	mock.ExpectQuery("SELECT (.+) FROM billing_exists").
		WithArgs(store.StatusVerified, start, end, start, end).
		WillReturnRows(rows)

	c := NewExistsCollector(db, "billing_exists")

	records, err := c.GetVerified(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "tenant-a", first.TenantID)
	assert.Equal(t, "standard-1", first.FlavorID)
	require.NotNil(t, first.DeletedAt)
	assert.True(t, first.DeletedAt.Equal(deleted))

	// NULL deleted_at maps to a nil pointer.
	assert.Nil(t, records[1].DeletedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsCollector_GetVerified_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM billing_exists").
		WillReturnError(errors.New("connection refused"))

	c := NewExistsCollector(db, "billing_exists")

	_, err = c.GetVerified(context.Background(), time.Now(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verified exists query failed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsCollector_GetVerified_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(existsColumns).
		AddRow("not-an-int", "tenant-a", "standard-1", store.StatusVerified,
			time.Now(), nil, time.Now(), time.Now(), []byte(`[]`)).
		RowError(0, sql.ErrNoRows)

	mock.ExpectQuery("SELECT (.+) FROM billing_exists").
		WillReturnRows(rows)

	c := NewExistsCollector(db, "billing_exists")

	_, err = c.GetVerified(context.Background(), time.Now(), time.Now())
	require.Error(t, err)
}
