package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const ExistsTableSchema = `
	CREATE TABLE IF NOT EXISTS instance_exists (
		id BIGINT NOT NULL,
		tenant VARCHAR NOT NULL,
		flavor VARCHAR NOT NULL,
		status VARCHAR NOT NULL,
		launched_at TIMESTAMP NOT NULL,
		deleted_at TIMESTAMP NULL,
		audit_period_beginning TIMESTAMP NOT NULL,
		audit_period_ending TIMESTAMP NOT NULL,
		raw JSON,
		PRIMARY KEY (id)
	);
`

const ReportTableSchema = `
	CREATE TABLE IF NOT EXISTS json_reports (
		id VARCHAR NOT NULL,
		name VARCHAR NOT NULL,
		version INTEGER NOT NULL,
		json JSON NOT NULL,
		created TIMESTAMP NOT NULL,
		period_start TIMESTAMP NOT NULL,
		period_end TIMESTAMP NOT NULL,
		PRIMARY KEY (id)
	);
`

var bootQueries = []string{
	ExistsTableSchema,
	ReportTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
