package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/de-tools/instance-atlas/pkg/adapters"
	"github.com/de-tools/instance-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/instance-atlas/pkg/services/config"
	"github.com/de-tools/instance-atlas/pkg/services/directory"
	"github.com/de-tools/instance-atlas/pkg/services/flavor"
	"github.com/de-tools/instance-atlas/pkg/services/report"
	"github.com/de-tools/instance-atlas/pkg/store/duckdb"
	"github.com/de-tools/instance-atlas/pkg/store/duckdb/exists"
	reportstore "github.com/de-tools/instance-atlas/pkg/store/duckdb/report"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04:05"

type ReportCmd struct {
	granularity string
	utcdatetime string
	storeReport bool
	dbPath      string
	tenantsPath string
	profilePath string
	pretty      bool
	reporter    *export.Reporter
}

func NewReportCmd(reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the instance hours report for the previous period",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.granularity, "granularity", "day", "Period granularity (hour or day)")
	cmd.Flags().StringVar(&rc.utcdatetime, "utcdatetime", "", "Override the end time used to generate the report (YYYY-MM-DD HH:MM:SS, UTC)")
	cmd.Flags().BoolVar(&rc.storeReport, "store", false, "Store the report instead of printing it")
	cmd.Flags().StringVar(&rc.dbPath, "db", "", "Path to the DuckDB database file")
	cmd.Flags().StringVar(&rc.tenantsPath, "tenants", "", "Path to the tenant directory registry file")
	cmd.Flags().StringVar(&rc.profilePath, "profile", "", "Path to the configuration profile")
	cmd.Flags().BoolVar(&rc.pretty, "pretty", false, "Indent the printed report")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	profile := config.DefaultProfile()
	if rc.profilePath != "" {
		loaded, err := config.LoadProfile(rc.profilePath)
		if err != nil {
			return err
		}
		profile = loaded
	}
	if rc.dbPath != "" {
		profile.DBPath = rc.dbPath
	}
	if rc.tenantsPath != "" {
		profile.TenantsPath = rc.tenantsPath
	}

	opts := report.Options{Granularity: rc.granularity}
	if rc.utcdatetime != "" {
		t, err := time.Parse(timeLayout, rc.utcdatetime)
		if err != nil {
			return fmt.Errorf("'%s' is not in YYYY-MM-DD HH:MM:SS format", rc.utcdatetime)
		}
		opts.Time = t.UTC()
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: profile.DBPath})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	existsStore, err := exists.NewStore(db)
	if err != nil {
		return err
	}

	tenants := directory.NewDefault()
	if profile.TenantsPath != "" {
		tenants, err = directory.NewRegistry(profile.TenantsPath)
		if err != nil {
			return fmt.Errorf("failed to load tenant registry: %w", err)
		}
	}

	weights := flavor.DefaultWeightTable()
	for class, weight := range profile.FlavorClassWeights {
		weights[class] = weight
	}

	ctrl := report.NewController(existsStore, tenants, weights)
	rep, p, err := ctrl.Compile(ctx, opts)
	if err != nil {
		return err
	}

	if rc.storeReport {
		row, err := adapters.MapReportDomainToStoreRow(rep, p, time.Now().UTC())
		if err != nil {
			return err
		}
		reports, err := reportstore.NewStore(db)
		if err != nil {
			return err
		}
		id, err := reports.Save(ctx, row)
		if err != nil {
			return fmt.Errorf("failed to store report: %w", err)
		}
		logger.Info().Str("id", id).Msg("report stored")
		return nil
	}

	rc.reporter.SetIndent(rc.pretty)
	return rc.reporter.Handle(adapters.MapReportDomainToApi(rep))
}
