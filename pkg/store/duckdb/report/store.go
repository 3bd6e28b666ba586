package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/instance-atlas/pkg/models/store"
	"github.com/segmentio/ksuid"
)

// Store persists generated instance-hours reports.
type Store interface {
	Save(ctx context.Context, row store.ReportRow) (string, error)
	List(ctx context.Context, limit int) ([]store.ReportRow, error)
	GetLatest(ctx context.Context) (*store.ReportRow, error)
}

type reportStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &reportStore{db: db}, nil
}

// Save inserts the row and returns its ID. A missing ID is assigned here.
func (r *reportStore) Save(ctx context.Context, row store.ReportRow) (string, error) {
	if row.ID == "" {
		row.ID = ksuid.New().String()
	}

	query := `
		INSERT INTO json_reports (id, name, version, json, created, period_start, period_end)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		row.ID,
		row.Name,
		row.Version,
		string(row.JSON),
		row.Created,
		row.PeriodStart,
		row.PeriodEnd,
	)
	if err != nil {
		return "", fmt.Errorf("insert report: %w", err)
	}
	return row.ID, nil
}

func (r *reportStore) List(ctx context.Context, limit int) ([]store.ReportRow, error) {
	query := `
		SELECT id, name, version, json, created, period_start, period_end
		FROM json_reports
		ORDER BY created DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	reports := make([]store.ReportRow, 0)
	for rows.Next() {
		row, err := scanReportRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		reports = append(reports, row)
	}
	return reports, rows.Err()
}

func (r *reportStore) GetLatest(ctx context.Context) (*store.ReportRow, error) {
	query := `
		SELECT id, name, version, json, created, period_start, period_end
		FROM json_reports
		ORDER BY created DESC
		LIMIT 1`

	row, err := scanReportRow(r.db.QueryRowContext(ctx, query).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest report: %w", err)
	}
	return &row, nil
}

func scanReportRow(scan func(dest ...any) error) (store.ReportRow, error) {
	var (
		row  store.ReportRow
		body []byte
	)
	err := scan(&row.ID, &row.Name, &row.Version, &body, &row.Created, &row.PeriodStart, &row.PeriodEnd)
	if err != nil {
		return store.ReportRow{}, err
	}
	row.JSON = body
	return row, nil
}
