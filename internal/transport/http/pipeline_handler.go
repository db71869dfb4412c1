// Package http contains the chi handlers that expose the reconciliation
// pipeline to the presentation layer.
package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"paylens/internal/analytics"
	apierrors "paylens/internal/errors"
	"paylens/internal/pipeline"
)

// PipelineHandler handles report processing and aggregate queries.
type PipelineHandler struct {
	service      PipelineService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxFileSize  int64
	maxFiles     int
}

// NewPipelineHandler creates a new pipeline handler.
func NewPipelineHandler(service PipelineService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxFileSize int64, maxFiles int) *PipelineHandler {
	return &PipelineHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "pipeline_handler")),
		errorHandler: errorHandler,
		maxFileSize:  maxFileSize,
		maxFiles:     maxFiles,
	}
}

// Routes returns the pipeline routes.
func (h *PipelineHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/reports", h.ProcessReports)
	r.Post("/reset", h.Reset)
	r.Post("/rates/invalidate", h.InvalidateRates)

	r.Get("/records", h.GetRecords)
	r.Get("/metrics", h.GetMetrics)
	r.Get("/aggregations/monthly", h.GetMonthly)
	r.Get("/entities", h.GetEntities)
	r.Get("/distribution", h.GetDistribution)

	return r
}

// ProcessReports handles POST /reports: a multipart upload of CSV/XLSX
// report files that replaces the session's record set.
func (h *PipelineHandler) ProcessReports(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrNoFiles)
		return
	}
	if len(files) > h.maxFiles {
		h.errorHandler.HandleError(w, r, apierrors.ErrTooManyFiles)
		return
	}

	inputs := make([]pipeline.Input, 0, len(files))
	for _, fh := range files {
		if fh.Size > h.maxFileSize {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		f, err := fh.Open()
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrProcessing(err))
			return
		}
		defer f.Close()
		inputs = append(inputs, pipeline.Input{Name: fh.Filename, Reader: f})
	}

	if err := h.service.ProcessFiles(r.Context(), inputs); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrParseFailed(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"records":    len(h.service.Records()),
		"metrics":    h.service.Metrics(),
		"date_range": h.service.DateRange(),
	})
}

// Reset handles POST /reset. The exchange rate cache survives a reset.
func (h *PipelineHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.service.Reset()
	render.JSON(w, r, map[string]interface{}{"status": "reset"})
}

// InvalidateRates handles POST /rates/invalidate, the explicit cache
// clear for the exchange rate table.
func (h *PipelineHandler) InvalidateRates(w http.ResponseWriter, r *http.Request) {
	h.service.InvalidateRates()
	render.JSON(w, r, map[string]interface{}{"status": "invalidated"})
}

// GetRecords handles GET /records.
func (h *PipelineHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	records := h.service.Records()
	render.JSON(w, r, map[string]interface{}{
		"total":   len(records),
		"records": records,
	})
}

// GetMetrics handles GET /metrics: the KPI snapshot plus session state.
func (h *PipelineHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"metrics":    h.service.Metrics(),
		"date_range": h.service.DateRange(),
		"error":      h.service.LastError(),
	})
}

// GetMonthly handles GET /aggregations/monthly.
func (h *PipelineHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Monthly())
}

// GetEntities handles GET /entities?scope=all|merchant|channel&limit=N.
func (h *PipelineHandler) GetEntities(w http.ResponseWriter, r *http.Request) {
	scope := analytics.EntityScope(r.URL.Query().Get("scope"))
	switch scope {
	case "":
		scope = analytics.ScopeAll
	case analytics.ScopeAll, analytics.ScopeMerchant, analytics.ScopeChannel:
	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("scope", "must be one of all, merchant, channel"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	render.JSON(w, r, h.service.TopEntities(scope, limit))
}

// GetDistribution handles GET /distribution?by=currency|country.
func (h *PipelineHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	by := analytics.DistributionBy(r.URL.Query().Get("by"))
	switch by {
	case "":
		by = analytics.ByCurrency
	case analytics.ByCurrency, analytics.ByCountry:
	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("by", "must be currency or country"))
		return
	}
	render.JSON(w, r, h.service.Distribution(by))
}
