package report

import (
	"testing"
	"time"

	"github.com/de-tools/instance-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineRecord(id int64, tenant string, hours int) domain.UsageRecord {
	return domain.UsageRecord{
		ID:                   id,
		Tenant:               tenant,
		LaunchedAt:           periodStart,
		DeletedAt:            timePtr(periodStart.Add(time.Duration(hours) * time.Hour)),
		AuditPeriodBeginning: periodStart,
		AuditPeriodEnding:    periodEnd,
	}
}

func standardFlavor() domain.FlavorInfo {
	return domain.FlavorInfo{ID: "standard-1", Name: "1GB Standard", Class: "standard", UnitWeight: 2.0}
}

func highmemFlavor() domain.FlavorInfo {
	return domain.FlavorInfo{ID: "highmem-2", Name: "4GB Highmem", Class: "highmem", UnitWeight: 4.0}
}

func managedTenant(id string) domain.TenantInfo {
	return domain.TenantInfo{
		Tenant:      id,
		AccountType: "managed",
		BillingType: "internal",
		AccountName: "Example Corp",
		Email:       "billing@example.com",
		Phone:       "1-555-000-0000",
	}
}

func coreTenant(id string) domain.TenantInfo {
	return domain.TenantInfo{
		Tenant:      id,
		AccountType: "core",
		BillingType: "external",
		AccountName: "unknown account",
		Email:       "anonymous@unknown.com",
		Phone:       "1-555-555-1212",
	}
}

func sumDimension(dimension map[string]*domain.Bucket) (int64, float64) {
	var count int64
	var unitHours float64
	for _, b := range dimension {
		count += b.Count
		unitHours += b.UnitHours
	}
	return count, unitHours
}

func TestEngine_PartitionInvariant(t *testing.T) {
	e := NewEngine()

	records := []struct {
		rec    domain.UsageRecord
		flavor domain.FlavorInfo
		tenant domain.TenantInfo
	}{
		{engineRecord(1, "tenant-a", 2), standardFlavor(), managedTenant("tenant-a")},
		{engineRecord(2, "tenant-a", 1), highmemFlavor(), managedTenant("tenant-a")},
		{engineRecord(3, "tenant-b", 3), standardFlavor(), coreTenant("tenant-b")},
	}

	// Every dimension must partition the totals after every single record,
	// not just at the end of the pass.
	for _, r := range records {
		e.Add(r.rec, r.flavor, r.tenant)

		totalCount, totalUnitHours := e.Totals()
		snapshot := e.Snapshot()

		for name, dimension := range map[string]map[string]*domain.Bucket{
			"flavor":       snapshot.Flavor,
			"flavor_class": snapshot.FlavorClass,
			"account_type": snapshot.AccountType,
			"billing_type": snapshot.BillingType,
		} {
			count, unitHours := sumDimension(dimension)
			assert.Equal(t, totalCount, count, "count partition broken for %s", name)
			assert.InDelta(t, totalUnitHours, unitHours, 1e-9, "unit hours partition broken for %s", name)
		}
	}
}

func TestEngine_RunningPercentages(t *testing.T) {
	e := NewEngine()

	e.Add(engineRecord(1, "tenant-a", 2), standardFlavor(), managedTenant("tenant-a"))
	e.Add(engineRecord(2, "tenant-b", 1), highmemFlavor(), coreTenant("tenant-b"))

	snapshot := e.Snapshot()

	// The first flavor bucket was last touched when it was the only record,
	// so its percentages are stale at 100 until another standard-1 record
	// arrives. The second bucket sees the full running totals.
	first := snapshot.Flavor["standard-1"]
	assert.Equal(t, 100.0, first.PercentCount)
	assert.Equal(t, 100.0, first.PercentUnitHours)

	second := snapshot.Flavor["highmem-2"]
	assert.Equal(t, 50.0, second.PercentCount)
	assert.InDelta(t, 50.0, second.PercentUnitHours, 1e-9)
}

func TestEngine_SharedTenantBucket(t *testing.T) {
	e := NewEngine()

	e.Add(engineRecord(1, "tenant-a", 2), standardFlavor(), managedTenant("tenant-a"))
	e.Add(engineRecord(2, "tenant-a", 1), highmemFlavor(), managedTenant("tenant-a"))

	byAccount, byBilling := e.TenantGroups()

	accountBucket := byAccount["managed"]["tenant-a"]
	billingBucket := byBilling["internal"]["tenant-a"]
	require.NotNil(t, accountBucket)

	// Same object, not just equal values.
	assert.Same(t, accountBucket, billingBucket)
	assert.Equal(t, int64(2), accountBucket.Count)
	assert.InDelta(t, 8.0, accountBucket.UnitHours, 1e-9)
	assert.Equal(t, "Example Corp", accountBucket.AccountName)
}

func TestEngine_SnapshotIsImmutable(t *testing.T) {
	e := NewEngine()
	e.Add(engineRecord(1, "tenant-a", 2), standardFlavor(), managedTenant("tenant-a"))

	snapshot := e.Snapshot()
	e.Add(engineRecord(2, "tenant-a", 3), standardFlavor(), managedTenant("tenant-a"))

	assert.Equal(t, int64(1), snapshot.TotalInstanceCount)
	assert.Equal(t, int64(1), snapshot.Flavor["standard-1"].Count)
}

func TestEngine_SnapshotPreservesRankingAliasing(t *testing.T) {
	e := NewEngine()
	e.Add(engineRecord(1, "tenant-a", 2), standardFlavor(), managedTenant("tenant-a"))

	snapshot := e.Snapshot()

	byAccount := snapshot.TopHundredByCount.AccountType["managed"]
	byBilling := snapshot.TopHundredByCount.BillingType["internal"]
	require.Len(t, byAccount, 1)
	require.Len(t, byBilling, 1)
	assert.Same(t, byAccount[0], byBilling[0])
}

func TestEngine_EndToEnd(t *testing.T) {
	e := NewEngine()

	// tenant-a: 2h standard (4 unit hours) + 1h highmem (4 unit hours)
	// tenant-b: 3h standard (6 unit hours)
	e.Add(engineRecord(1, "tenant-a", 2), standardFlavor(), managedTenant("tenant-a"))
	e.Add(engineRecord(2, "tenant-a", 1), highmemFlavor(), managedTenant("tenant-a"))
	e.Add(engineRecord(3, "tenant-b", 3), standardFlavor(), coreTenant("tenant-b"))

	report := e.Snapshot()

	assert.Equal(t, int64(3), report.TotalInstanceCount)
	assert.InDelta(t, 14.0, report.TotalUnitHours, 1e-9)

	standard := report.Flavor["standard-1"]
	require.NotNil(t, standard)
	assert.Equal(t, int64(2), standard.Count)
	assert.InDelta(t, 10.0, standard.UnitHours, 1e-9)
	assert.Equal(t, "1GB Standard", standard.FlavorName)
	// Last touched on record 3 with running totals count=3, unit_hours=14.
	assert.InDelta(t, 100.0*2.0/3.0, standard.PercentCount, 1e-9)
	assert.InDelta(t, 100.0*10.0/14.0, standard.PercentUnitHours, 1e-9)

	highmem := report.Flavor["highmem-2"]
	require.NotNil(t, highmem)
	assert.Equal(t, int64(1), highmem.Count)
	assert.InDelta(t, 4.0, highmem.UnitHours, 1e-9)
	// Last touched on record 2 with running totals count=2, unit_hours=8.
	assert.Equal(t, 50.0, highmem.PercentCount)
	assert.Equal(t, 50.0, highmem.PercentUnitHours)

	assert.Equal(t, int64(2), report.FlavorClass["standard"].Count)
	assert.Equal(t, int64(1), report.FlavorClass["highmem"].Count)

	managed := report.AccountType["managed"]
	require.NotNil(t, managed)
	assert.Equal(t, int64(2), managed.Count)
	assert.InDelta(t, 8.0, managed.UnitHours, 1e-9)

	core := report.AccountType["core"]
	require.NotNil(t, core)
	assert.Equal(t, int64(1), core.Count)
	assert.InDelta(t, 6.0, core.UnitHours, 1e-9)

	assert.Equal(t, int64(2), report.BillingType["internal"].Count)
	assert.Equal(t, int64(1), report.BillingType["external"].Count)

	topManaged := report.TopHundredByCount.AccountType["managed"]
	require.Len(t, topManaged, 1)
	assert.Equal(t, "tenant-a", topManaged[0].Tenant)
	assert.Equal(t, int64(2), topManaged[0].Count)
	assert.InDelta(t, 8.0, topManaged[0].UnitHours, 1e-9)

	topExternal := report.TopHundredByUnitHours.BillingType["external"]
	require.Len(t, topExternal, 1)
	assert.Equal(t, "tenant-b", topExternal[0].Tenant)
	assert.InDelta(t, 6.0, topExternal[0].UnitHours, 1e-9)
}
