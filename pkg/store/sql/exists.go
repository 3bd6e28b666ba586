package sql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/instance-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

// ExistsCollector reads verified instance existence records from an external
// billing database over a plain database/sql handle. It is the drop-in
// alternative to the embedded DuckDB store for deployments that keep audit
// records elsewhere.
type ExistsCollector interface {
	GetVerified(ctx context.Context, start, end time.Time) ([]store.ExistsRecord, error)
}

type collector struct {
	db    *sql.DB
	table string // e.g. "instance_exists"
}

func NewExistsCollector(db *sql.DB, table string) ExistsCollector {
	return &collector{
		db:    db,
		table: table,
	}
}

func (c *collector) GetVerified(ctx context.Context, start, end time.Time) ([]store.ExistsRecord, error) {
	logger := zerolog.Ctx(ctx)
	query := fmt.Sprintf(`
		SELECT id, tenant, flavor, status, launched_at, deleted_at,
			audit_period_beginning, audit_period_ending, raw
		FROM %s
		WHERE status = ?
			AND audit_period_beginning >= ? AND audit_period_beginning <= ?
			AND audit_period_ending >= ? AND audit_period_ending <= ?
	`, c.table)

	rows, err := c.db.QueryContext(ctx, query, store.StatusVerified, start, end, start, end)
	if err != nil {
		return nil, fmt.Errorf("verified exists query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close exists query rows")
		}
	}(rows)

	var records []store.ExistsRecord
	for rows.Next() {
		var (
			rec       store.ExistsRecord
			deletedAt sql.NullTime
			raw       []byte
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.TenantID,
			&rec.FlavorID,
			&rec.Status,
			&rec.LaunchedAt,
			&deletedAt,
			&rec.AuditPeriodBeginning,
			&rec.AuditPeriodEnding,
			&raw,
		); err != nil {
			return nil, err
		}

		if deletedAt.Valid {
			t := deletedAt.Time
			rec.DeletedAt = &t
		}
		rec.Raw = raw
		records = append(records, rec)
	}

	return records, rows.Err()
}
