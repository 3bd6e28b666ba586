package report

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/instance-atlas/pkg/adapters"
	"github.com/de-tools/instance-atlas/pkg/models/domain"
	"github.com/de-tools/instance-atlas/pkg/models/store"
	"github.com/de-tools/instance-atlas/pkg/services/directory"
	"github.com/de-tools/instance-atlas/pkg/services/flavor"
	"github.com/de-tools/instance-atlas/pkg/services/period"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// RecordSource yields the verified exists records for a report window.
// No ordering is guaranteed.
type RecordSource interface {
	GetVerified(ctx context.Context, start, end time.Time) ([]store.ExistsRecord, error)
}

// Options select the window a report is computed for. Time overrides the
// reference the previous period is derived from; zero means now.
type Options struct {
	Granularity string `validate:"required,oneof=hour day"`
	Time        time.Time
}

type Controller struct {
	source   RecordSource
	tenants  directory.Directory
	weights  flavor.WeightTable
	validate *validator.Validate
}

func NewController(source RecordSource, tenants directory.Directory, weights flavor.WeightTable) *Controller {
	return &Controller{
		source:   source,
		tenants:  tenants,
		weights:  weights,
		validate: validator.New(),
	}
}

// Compile runs one full report pass: resolve the previous period, stream the
// verified records through the engine and snapshot the result. Any flavor or
// tenant resolution failure aborts the run; a billing report is never
// produced from a partial pass.
func (c *Controller) Compile(ctx context.Context, opts Options) (*domain.Report, domain.Period, error) {
	if err := c.validate.Struct(opts); err != nil {
		return nil, domain.Period{}, fmt.Errorf("invalid report options: %w", err)
	}

	ref := opts.Time
	if ref.IsZero() {
		ref = time.Now().UTC()
	}

	p, err := period.Previous(ref, period.Granularity(opts.Granularity))
	if err != nil {
		return nil, domain.Period{}, err
	}

	records, err := c.source.GetVerified(ctx, p.Start, p.End)
	if err != nil {
		return nil, p, fmt.Errorf("fetch verified exists records: %w", err)
	}

	// Caches are scoped to this run so classifications can never go stale
	// across runs.
	catalog := flavor.NewCatalog(c.weights)
	tenants := directory.Cached(c.tenants)
	engine := NewEngine()

	for _, row := range records {
		rec := adapters.MapExistsRecordStoreToDomain(row)

		flavorInfo, err := catalog.Resolve(rec)
		if err != nil {
			return nil, p, err
		}

		tenantInfo, err := tenants.Resolve(ctx, rec.Tenant)
		if err != nil {
			return nil, p, fmt.Errorf("resolve tenant %q: %w", rec.Tenant, err)
		}

		engine.Add(rec, flavorInfo, tenantInfo)
	}

	count, unitHours := engine.Totals()
	zerolog.Ctx(ctx).Info().
		Time("period_start", p.Start).
		Time("period_end", p.End).
		Int64("records", count).
		Float64("unit_hours", unitHours).
		Msg("instance hours compiled")

	return engine.Snapshot(), p, nil
}
