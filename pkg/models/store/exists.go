package store

import "time"

// StatusVerified marks exists records whose billing state passed audit
// validation; only those are eligible for reporting.
const StatusVerified = "verified"

// ExistsRecord is one row of the instance existence audit table. Raw holds
// the original notification JSON the record was built from.
type ExistsRecord struct {
	ID                   int64
	TenantID             string
	FlavorID             string
	Status               string
	LaunchedAt           time.Time
	DeletedAt            *time.Time
	AuditPeriodBeginning time.Time
	AuditPeriodEnding    time.Time
	Raw                  []byte
}
