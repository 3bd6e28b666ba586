package adapters

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/de-tools/instance-atlas/pkg/models/api"
	"github.com/de-tools/instance-atlas/pkg/models/domain"
	"github.com/de-tools/instance-atlas/pkg/models/store"
)

const (
	ReportName    = "instance hours"
	ReportVersion = 1
)

func MapReportDomainToApi(report *domain.Report) api.Report {
	return api.Report{
		TotalInstanceCount:    report.TotalInstanceCount,
		TotalUnitHours:        report.TotalUnitHours,
		Flavor:                mapBucketsDomainToApi(report.Flavor),
		FlavorClass:           mapBucketsDomainToApi(report.FlavorClass),
		AccountType:           mapBucketsDomainToApi(report.AccountType),
		BillingType:           mapBucketsDomainToApi(report.BillingType),
		TopHundredByCount:     mapRankingDomainToApi(report.TopHundredByCount),
		TopHundredByUnitHours: mapRankingDomainToApi(report.TopHundredByUnitHours),
	}
}

func MapBucketDomainToApi(b *domain.Bucket) api.Bucket {
	return api.Bucket{
		Count:            b.Count,
		UnitHours:        b.UnitHours,
		PercentCount:     b.PercentCount,
		PercentUnitHours: b.PercentUnitHours,
		FlavorName:       b.FlavorName,
		Tenant:           b.Tenant,
		AccountType:      b.AccountType,
		BillingType:      b.BillingType,
		AccountName:      b.AccountName,
		Email:            b.Email,
		Phone:            b.Phone,
	}
}

func mapBucketsDomainToApi(buckets map[string]*domain.Bucket) map[string]api.Bucket {
	out := make(map[string]api.Bucket, len(buckets))
	for key, b := range buckets {
		out[key] = MapBucketDomainToApi(b)
	}
	return out
}

func mapRankingDomainToApi(ranking domain.TenantRanking) api.TenantRanking {
	return api.TenantRanking{
		AccountType: mapRankedGroupsDomainToApi(ranking.AccountType),
		BillingType: mapRankedGroupsDomainToApi(ranking.BillingType),
	}
}

func mapRankedGroupsDomainToApi(groups map[string][]*domain.Bucket) map[string][]api.Bucket {
	out := make(map[string][]api.Bucket, len(groups))
	for key, ranked := range groups {
		entries := make([]api.Bucket, 0, len(ranked))
		for _, b := range ranked {
			entries = append(entries, MapBucketDomainToApi(b))
		}
		out[key] = entries
	}
	return out
}

// MapReportDomainToStoreRow serializes a report for persistence together
// with its period boundaries, a creation timestamp and the schema version.
func MapReportDomainToStoreRow(report *domain.Report, period domain.Period, created time.Time) (store.ReportRow, error) {
	body, err := json.Marshal(MapReportDomainToApi(report))
	if err != nil {
		return store.ReportRow{}, fmt.Errorf("marshal report: %w", err)
	}

	return store.ReportRow{
		Name:        ReportName,
		Version:     ReportVersion,
		JSON:        body,
		Created:     created,
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
	}, nil
}

func MapReportRowStoreToApi(row store.ReportRow) api.StoredReport {
	return api.StoredReport{
		ID:          row.ID,
		Name:        row.Name,
		Version:     row.Version,
		Created:     row.Created,
		PeriodStart: row.PeriodStart,
		PeriodEnd:   row.PeriodEnd,
		Report:      json.RawMessage(row.JSON),
	}
}
