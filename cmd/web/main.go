package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/de-tools/instance-atlas/pkg/server"
	"github.com/de-tools/instance-atlas/pkg/services/config"
	"github.com/de-tools/instance-atlas/pkg/services/directory"
	"github.com/de-tools/instance-atlas/pkg/services/flavor"
	"github.com/de-tools/instance-atlas/pkg/services/report"
	"github.com/de-tools/instance-atlas/pkg/store/duckdb"
	"github.com/de-tools/instance-atlas/pkg/store/duckdb/exists"
	reportstore "github.com/de-tools/instance-atlas/pkg/store/duckdb/report"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var profilePath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the instance hours report server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&profilePath, "profile", "c", "",
		"Path to the configuration profile")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	profile := config.DefaultProfile()
	if profilePath != "" {
		loaded, err := config.LoadProfile(profilePath)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		profile = loaded
		logger.Info().Msgf("Configuration found at `%s` successfully loaded.", profilePath)
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: profile.DBPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	existsStore, err := exists.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create exists store: %w", err)
	}
	reportStore, err := reportstore.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create report store: %w", err)
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

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(server.Config{
		Addr:            net.JoinHostPort(host, port),
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Generator: report.NewController(existsStore, tenants, weights),
			Reports:   reportStore,
			Logger:    logger,
		},
	})

	return api.Start()
}
