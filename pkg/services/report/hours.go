package report

import (
	"time"

	"github.com/de-tools/instance-atlas/pkg/models/domain"
)

// BillableHours returns the whole hours a record is billed for within its
// audit period. The billable window is clamped to the audit period on both
// ends, any partial hour counts as a full hour, and a non-positive window
// (e.g. deleted before the period started) bills zero hours.
func BillableHours(rec domain.UsageRecord) int64 {
	end := rec.AuditPeriodEnding
	if rec.DeletedAt != nil && !rec.DeletedAt.After(rec.AuditPeriodEnding) {
		end = *rec.DeletedAt
	}

	start := rec.AuditPeriodBeginning
	if rec.LaunchedAt.After(start) {
		start = rec.LaunchedAt
	}

	d := end.Sub(start)
	if d <= 0 {
		return 0
	}

	hours := int64(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}
	return hours
}

// UnitHours is the record's chargeable metric: billable hours weighted by
// the flavor's unit weight.
func UnitHours(rec domain.UsageRecord, flavor domain.FlavorInfo) float64 {
	return float64(BillableHours(rec)) * flavor.UnitWeight
}
