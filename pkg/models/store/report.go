package store

import "time"

type ReportRow struct {
	ID          string
	Name        string
	Version     int
	JSON        []byte
	Created     time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
}
