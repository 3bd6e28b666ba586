package adapters

import (
	"github.com/de-tools/instance-atlas/pkg/models/domain"
	"github.com/de-tools/instance-atlas/pkg/models/store"
)

func MapExistsRecordStoreToDomain(rec store.ExistsRecord) domain.UsageRecord {
	return domain.UsageRecord{
		ID:                   rec.ID,
		Tenant:               rec.TenantID,
		FlavorID:             rec.FlavorID,
		LaunchedAt:           rec.LaunchedAt,
		DeletedAt:            rec.DeletedAt,
		AuditPeriodBeginning: rec.AuditPeriodBeginning,
		AuditPeriodEnding:    rec.AuditPeriodEnding,
		Raw:                  rec.Raw,
	}
}
