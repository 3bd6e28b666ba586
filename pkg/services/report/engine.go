package report

import (
	"github.com/de-tools/instance-atlas/pkg/models/domain"
)

// Engine accumulates one report run. It is fed records sequentially and
// keeps every rollup dimension consistent per record: totals, the four flat
// dimensions and the two nested tenant groupings are all refreshed before
// the next record is seen.
//
// Percentages are recomputed against the running totals on every update,
// matching the established report semantics: mid-pass values are distorted
// by the partial denominators and only the final snapshot is meaningful.
//
// An engine is single-writer and scoped to one run.
type Engine struct {
	count     int64
	unitHours float64

	byFlavor      map[string]*domain.Bucket
	byFlavorClass map[string]*domain.Bucket
	byAccountType map[string]*domain.Bucket
	byBillingType map[string]*domain.Bucket

	byTenantAccountType map[string]map[string]*domain.Bucket
	byTenantBillingType map[string]map[string]*domain.Bucket
}

func NewEngine() *Engine {
	return &Engine{
		byFlavor:            make(map[string]*domain.Bucket),
		byFlavorClass:       make(map[string]*domain.Bucket),
		byAccountType:       make(map[string]*domain.Bucket),
		byBillingType:       make(map[string]*domain.Bucket),
		byTenantAccountType: make(map[string]map[string]*domain.Bucket),
		byTenantBillingType: make(map[string]map[string]*domain.Bucket),
	}
}

// Add folds one record into every rollup dimension.
func (e *Engine) Add(rec domain.UsageRecord, flavor domain.FlavorInfo, tenant domain.TenantInfo) {
	unitHours := UnitHours(rec, flavor)

	e.count++
	e.unitHours += unitHours

	flavorBucket := bucketIn(e.byFlavor, flavor.ID)
	flavorBucket.FlavorName = flavor.Name
	e.bump(flavorBucket, unitHours)

	e.bump(bucketIn(e.byFlavorClass, flavor.Class), unitHours)
	e.bump(bucketIn(e.byAccountType, tenant.AccountType), unitHours)
	e.bump(bucketIn(e.byBillingType, tenant.BillingType), unitHours)

	e.addTenant(tenant, unitHours)
}

// Totals returns the running record count and unit-hour total.
func (e *Engine) Totals() (int64, float64) {
	return e.count, e.unitHours
}

// TenantGroups exposes the nested tenant rollups. Both groupings reference
// the same bucket per tenant.
func (e *Engine) TenantGroups() (byAccountType, byBillingType map[string]map[string]*domain.Bucket) {
	return e.byTenantAccountType, e.byTenantBillingType
}

func bucketIn(dimension map[string]*domain.Bucket, key string) *domain.Bucket {
	b, ok := dimension[key]
	if !ok {
		b = &domain.Bucket{}
		dimension[key] = b
	}
	return b
}

func (e *Engine) bump(b *domain.Bucket, unitHours float64) {
	b.Count++
	b.UnitHours += unitHours
	b.PercentCount = float64(b.Count) / float64(e.count) * 100
	if e.unitHours != 0 {
		b.PercentUnitHours = b.UnitHours / e.unitHours * 100
	}
}

func (e *Engine) addTenant(tenant domain.TenantInfo, unitHours float64) {
	byAccount, ok := e.byTenantAccountType[tenant.AccountType]
	if !ok {
		byAccount = make(map[string]*domain.Bucket)
		e.byTenantAccountType[tenant.AccountType] = byAccount
	}
	byBilling, ok := e.byTenantBillingType[tenant.BillingType]
	if !ok {
		byBilling = make(map[string]*domain.Bucket)
		e.byTenantBillingType[tenant.BillingType] = byBilling
	}

	b, ok := byAccount[tenant.Tenant]
	if !ok {
		b = &domain.Bucket{}
		byAccount[tenant.Tenant] = b
		// A tenant unseen under its account type is unseen under its
		// billing type too; both groupings share one bucket.
		byBilling[tenant.Tenant] = b
	}

	e.bump(b, unitHours)

	b.Tenant = tenant.Tenant
	b.AccountType = tenant.AccountType
	b.BillingType = tenant.BillingType
	b.AccountName = tenant.AccountName
	b.Email = tenant.Email
	b.Phone = tenant.Phone
}

// Snapshot renders the engine state into an immutable report, including the
// top-100 tenant rankings. Buckets are cloned, preserving the shared-bucket
// aliasing between the nested groupings, so later engine updates never leak
// into a taken snapshot.
func (e *Engine) Snapshot() *domain.Report {
	seen := make(map[*domain.Bucket]*domain.Bucket)

	tenantsByAccount := cloneTenantGroups(e.byTenantAccountType, seen)
	tenantsByBilling := cloneTenantGroups(e.byTenantBillingType, seen)

	return &domain.Report{
		TotalInstanceCount:    e.count,
		TotalUnitHours:        e.unitHours,
		Flavor:                cloneDimension(e.byFlavor, seen),
		FlavorClass:           cloneDimension(e.byFlavorClass, seen),
		AccountType:           cloneDimension(e.byAccountType, seen),
		BillingType:           cloneDimension(e.byBillingType, seen),
		TopHundredByCount:     TenantRankings(tenantsByAccount, tenantsByBilling, ByCount),
		TopHundredByUnitHours: TenantRankings(tenantsByAccount, tenantsByBilling, ByUnitHours),
	}
}

func cloneBucket(b *domain.Bucket, seen map[*domain.Bucket]*domain.Bucket) *domain.Bucket {
	if clone, ok := seen[b]; ok {
		return clone
	}
	clone := *b
	seen[b] = &clone
	return &clone
}

func cloneDimension(dimension map[string]*domain.Bucket, seen map[*domain.Bucket]*domain.Bucket) map[string]*domain.Bucket {
	out := make(map[string]*domain.Bucket, len(dimension))
	for key, b := range dimension {
		out[key] = cloneBucket(b, seen)
	}
	return out
}

func cloneTenantGroups(
	groups map[string]map[string]*domain.Bucket,
	seen map[*domain.Bucket]*domain.Bucket,
) map[string]map[string]*domain.Bucket {
	out := make(map[string]map[string]*domain.Bucket, len(groups))
	for key, tenants := range groups {
		out[key] = cloneDimension(tenants, seen)
	}
	return out
}
