package exists

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/instance-atlas/pkg/models/store"
	"github.com/de-tools/instance-atlas/pkg/store/duckdb"
)

// Store supports ingestion (Add) and read (GetVerified) of instance
// existence records in DuckDB.
type Store interface {
	Add(ctx context.Context, records []store.ExistsRecord) error
	GetVerified(ctx context.Context, start, end time.Time) ([]store.ExistsRecord, error)
}

type existsStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &existsStore{db: db}, nil
}

func (e *existsStore) Add(ctx context.Context, records []store.ExistsRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx := duckdb.GetTransaction(ctx)
	query := `
		INSERT INTO instance_exists (
			id, tenant, flavor, status, launched_at, deleted_at,
			audit_period_beginning, audit_period_ending, raw
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?
		)`

	var stmt *sql.Stmt
	var err error
	if tx == nil {
		stmt, err = e.db.PrepareContext(ctx, query)
	} else {
		stmt, err = tx.PrepareContext(ctx, query)
	}

	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		var deletedAt sql.NullTime
		if record.DeletedAt != nil {
			deletedAt = sql.NullTime{Time: *record.DeletedAt, Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			record.ID,
			record.TenantID,
			record.FlavorID,
			record.Status,
			record.LaunchedAt,
			deletedAt,
			record.AuditPeriodBeginning,
			record.AuditPeriodEnding,
			string(record.Raw),
		)

		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	return nil
}

// GetVerified returns verified records whose audit period lies entirely
// within [start, end]. No ordering is guaranteed.
func (e *existsStore) GetVerified(ctx context.Context, start, end time.Time) ([]store.ExistsRecord, error) {
	query := `
		SELECT id, tenant, flavor, status, launched_at, deleted_at,
			audit_period_beginning, audit_period_ending, raw
		FROM instance_exists
		WHERE status = ?
			AND audit_period_beginning >= ? AND audit_period_beginning <= ?
			AND audit_period_ending >= ? AND audit_period_ending <= ?
	`
	rows, err := e.db.QueryContext(ctx, query, store.StatusVerified, start, end, start, end)
	if err != nil {
		return nil, fmt.Errorf("query verified exists: %w", err)
	}
	defer rows.Close()
	return scanExistsRows(rows)
}

func scanExistsRows(rows *sql.Rows) ([]store.ExistsRecord, error) {
	records := make([]store.ExistsRecord, 0)
	for rows.Next() {
		var (
			id                  int64
			tenant, flavor      string
			status              string
			launchedAt          time.Time
			deletedAt           sql.NullTime
			periodStart, period time.Time
			raw                 []byte
		)
		if err := rows.Scan(&id, &tenant, &flavor, &status, &launchedAt, &deletedAt, &periodStart, &period, &raw); err != nil {
			return nil, err
		}

		rec := store.ExistsRecord{
			ID:                   id,
			TenantID:             tenant,
			FlavorID:             flavor,
			Status:               status,
			LaunchedAt:           launchedAt,
			AuditPeriodBeginning: periodStart,
			AuditPeriodEnding:    period,
			Raw:                  raw,
		}
		if deletedAt.Valid {
			t := deletedAt.Time
			rec.DeletedAt = &t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
