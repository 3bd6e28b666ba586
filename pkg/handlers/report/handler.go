package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/instance-atlas/pkg/adapters"
	"github.com/de-tools/instance-atlas/pkg/models/api"
	"github.com/de-tools/instance-atlas/pkg/models/domain"
	"github.com/de-tools/instance-atlas/pkg/services/period"
	reportsvc "github.com/de-tools/instance-atlas/pkg/services/report"
	reportstore "github.com/de-tools/instance-atlas/pkg/store/duckdb/report"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const (
	timeLayout   = "2006-01-02 15:04:05"
	defaultLimit = 20
)

// Generator computes a report for the previous period.
type Generator interface {
	Compile(ctx context.Context, opts reportsvc.Options) (*domain.Report, domain.Period, error)
}

type Handler struct {
	generator Generator
	reports   reportstore.Store
}

func NewHandler(generator Generator, reports reportstore.Store) *Handler {
	return &Handler{
		generator: generator,
		reports:   reports,
	}
}

func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	opts := reportsvc.Options{Granularity: req.Granularity}
	if req.Time != "" {
		t, err := time.Parse(timeLayout, req.Time)
		if err != nil {
			http.Error(w, "invalid 'time' format. Expected format: YYYY-MM-DD HH:MM:SS", http.StatusBadRequest)
			return
		}
		opts.Time = t
	}

	rep, p, err := h.generator.Compile(ctx, opts)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) || errors.Is(err, period.ErrUnsupportedGranularity) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error().Err(err).Msg("failed to compile report")
		http.Error(w, "failed to compile report", http.StatusInternalServerError)
		return
	}

	row, err := adapters.MapReportDomainToStoreRow(rep, p, time.Now().UTC())
	if err != nil {
		logger.Error().Err(err).Msg("failed to serialize report")
		http.Error(w, "failed to serialize report", http.StatusInternalServerError)
		return
	}

	if req.Store {
		id, err := h.reports.Save(ctx, row)
		if err != nil {
			logger.Error().Err(err).Msg("failed to store report")
			http.Error(w, "failed to store report", http.StatusInternalServerError)
			return
		}
		row.ID = id
	}

	if err := json.NewEncoder(w).Encode(adapters.MapReportRowStoreToApi(row)); err != nil {
		logger.Error().Err(err).Msg("failed to encode report")
	}
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid 'limit' value", http.StatusBadRequest)
			return
		}
		limit = n
	}

	rows, err := h.reports.List(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list reports")
		http.Error(w, "failed to list reports", http.StatusInternalServerError)
		return
	}

	response := make([]api.StoredReport, 0, len(rows))
	for _, row := range rows {
		response = append(response, adapters.MapReportRowStoreToApi(row))
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode reports")
	}
}

func (h *Handler) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	row, err := h.reports.GetLatest(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to get latest report")
		http.Error(w, "failed to get latest report", http.StatusInternalServerError)
		return
	}
	if row == nil {
		http.Error(w, "no reports stored", http.StatusNotFound)
		return
	}

	if err := json.NewEncoder(w).Encode(adapters.MapReportRowStoreToApi(*row)); err != nil {
		logger.Error().Err(err).Msg("failed to encode report")
	}
}
