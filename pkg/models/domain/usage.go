package domain

import "time"

// UsageRecord is a verified instance existence record, read-only to the
// aggregation core.
type UsageRecord struct {
	ID                   int64
	Tenant               string
	FlavorID             string
	LaunchedAt           time.Time
	DeletedAt            *time.Time
	AuditPeriodBeginning time.Time
	AuditPeriodEnding    time.Time
	Raw                  []byte
}

type Period struct {
	Start time.Time
	End   time.Time
}
