package report

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/de-tools/instance-atlas/pkg/models/domain"
	"github.com/de-tools/instance-atlas/pkg/models/store"
	"github.com/de-tools/instance-atlas/pkg/services/directory"
	"github.com/de-tools/instance-atlas/pkg/services/flavor"
	"github.com/de-tools/instance-atlas/pkg/services/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	records []store.ExistsRecord
	err     error

	start, end time.Time
}

func (f *fakeSource) GetVerified(_ context.Context, start, end time.Time) ([]store.ExistsRecord, error) {
	f.start, f.end = start, end
	return f.records, f.err
}

type failingDirectory struct{}

func (failingDirectory) Resolve(_ context.Context, _ string) (domain.TenantInfo, error) {
	return domain.TenantInfo{}, errors.New("directory unavailable")
}

func rawPayload(instanceType string, memoryMB float64) []byte {
	return []byte(fmt.Sprintf(
		`["compute.instance.exists", {"payload": {"instance_type": %q, "memory_mb": %g}}]`,
		instanceType, memoryMB,
	))
}

func verifiedRecord(id int64, tenant, flavorID string, hours int, raw []byte) store.ExistsRecord {
	deleted := periodStart.Add(time.Duration(hours) * time.Hour)
	return store.ExistsRecord{
		ID:                   id,
		TenantID:             tenant,
		FlavorID:             flavorID,
		Status:               store.StatusVerified,
		LaunchedAt:           periodStart,
		DeletedAt:            &deleted,
		AuditPeriodBeginning: periodStart,
		AuditPeriodEnding:    periodEnd,
		Raw:                  raw,
	}
}

func TestController_Compile(t *testing.T) {
	ctx := context.Background()

	source := &fakeSource{
		records: []store.ExistsRecord{
			verifiedRecord(1, "tenant-a", "standard-1", 2, rawPayload("1GB Standard", 512)),
			verifiedRecord(2, "tenant-a", "highmem-2", 1, rawPayload("4GB Highmem", 1024)),
			verifiedRecord(3, "tenant-b", "standard-1", 3, rawPayload("1GB Standard", 512)),
		},
	}

	ctrl := NewController(source, directory.NewDefault(), flavor.DefaultWeightTable())

	ref := time.Date(2014, 1, 3, 9, 30, 0, 0, time.UTC)
	report, p, err := ctrl.Compile(ctx, Options{Granularity: "day", Time: ref})
	require.NoError(t, err)

	// Window passed to the source is the previous full day.
	assert.Equal(t, time.Date(2014, 1, 2, 0, 0, 0, 0, time.UTC), source.start)
	assert.Equal(t, time.Date(2014, 1, 3, 0, 0, 0, 0, time.UTC), source.end)
	assert.Equal(t, source.start, p.Start)
	assert.Equal(t, source.end, p.End)

	assert.Equal(t, int64(3), report.TotalInstanceCount)
	// standard-1 weighs (512/256)*1 = 2, highmem-2 (1024/256)*1 = 4.
	assert.InDelta(t, 14.0, report.TotalUnitHours, 1e-9)

	// Default directory classifies everything core/external.
	assert.Equal(t, int64(3), report.AccountType["core"].Count)
	assert.Equal(t, int64(3), report.BillingType["external"].Count)
	assert.Len(t, report.TopHundredByCount.AccountType["core"], 2)
}

func TestController_Compile_InvalidGranularity(t *testing.T) {
	ctrl := NewController(&fakeSource{}, directory.NewDefault(), flavor.DefaultWeightTable())

	_, _, err := ctrl.Compile(context.Background(), Options{Granularity: "week"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid report options")
}

func TestController_Compile_MissingGranularity(t *testing.T) {
	ctrl := NewController(&fakeSource{}, directory.NewDefault(), flavor.DefaultWeightTable())

	_, _, err := ctrl.Compile(context.Background(), Options{})
	require.Error(t, err)
}

func TestController_Compile_MalformedPayloadAborts(t *testing.T) {
	source := &fakeSource{
		records: []store.ExistsRecord{
			verifiedRecord(1, "tenant-a", "standard-1", 2, rawPayload("1GB Standard", 512)),
			verifiedRecord(7, "tenant-b", "highmem-2", 1, []byte(`{"not": "an envelope"}`)),
		},
	}
	ctrl := NewController(source, directory.NewDefault(), flavor.DefaultWeightTable())

	_, _, err := ctrl.Compile(context.Background(), Options{Granularity: "day", Time: time.Now()})
	require.Error(t, err)

	var payloadErr *flavor.PayloadError
	require.ErrorAs(t, err, &payloadErr)
	assert.Equal(t, int64(7), payloadErr.RecordID)
}

func TestController_Compile_SourceErrorAborts(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	ctrl := NewController(source, directory.NewDefault(), flavor.DefaultWeightTable())

	_, _, err := ctrl.Compile(context.Background(), Options{Granularity: "hour", Time: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch verified exists records")
}

func TestController_Compile_LookupErrorAborts(t *testing.T) {
	source := &fakeSource{
		records: []store.ExistsRecord{
			verifiedRecord(1, "tenant-a", "standard-1", 2, rawPayload("1GB Standard", 512)),
		},
	}
	ctrl := NewController(source, failingDirectory{}, flavor.DefaultWeightTable())

	_, _, err := ctrl.Compile(context.Background(), Options{Granularity: "day", Time: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `resolve tenant "tenant-a"`)
}

func TestController_Compile_GranularityMatchesPeriodResolver(t *testing.T) {
	source := &fakeSource{}
	ctrl := NewController(source, directory.NewDefault(), flavor.DefaultWeightTable())

	ref := time.Date(2014, 1, 3, 9, 30, 0, 0, time.UTC)
	_, p, err := ctrl.Compile(context.Background(), Options{Granularity: "hour", Time: ref})
	require.NoError(t, err)

	expected, err := period.Previous(ref, period.GranularityHour)
	require.NoError(t, err)
	assert.Equal(t, expected, p)
}
