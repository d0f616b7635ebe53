// Package api provides HTTP handlers for the parameter validation API.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/artpar/paramcheck/internal/core/domain"
	"github.com/artpar/paramcheck/internal/core/validation"
	"github.com/artpar/paramcheck/internal/shell/api/openapi"
	"github.com/artpar/paramcheck/internal/shell/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 1 << 20

// metricsSource labels validations recorded by this handler.
const metricsSource = "api"

// =============================================================================
// Handler
// =============================================================================

// Handler provides HTTP handlers for the API.
type Handler struct {
	engine  *validation.Engine
	metrics *metrics.Collector
	spec    *openapi.Generator
	logger  *slog.Logger
}

// NewHandler creates a new API handler. The options configure the served
// OpenAPI document.
// A nil engine uses the default rules; a nil collector disables /metrics.
func NewHandler(e *validation.Engine, m *metrics.Collector, l *slog.Logger, opts ...openapi.Option) *Handler {
	if e == nil {
		e = validation.DefaultEngine()
	}
	if l == nil {
		l = slog.Default()
	}
	h := &Handler{
		engine:  e,
		metrics: m,
		spec:    openapi.NewGenerator(opts...),
		logger:  l,
	}
	h.registerEndpoints()
	return h
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.requestIDHeader)

	r.Get("/openapi.json", h.spec.Handler())
	if h.metricsEnabled() {
		r.Handle("/metrics", h.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(h.jsonContentType)

		r.Get("/health", h.handleHealth)

		r.Route("/api/v1/parameters", func(r chi.Router) {
			r.Post("/validate", h.handleValidate)
			r.Post("/validate-one", h.handleValidateOne)
		})
	})

	return r
}

func (h *Handler) metricsEnabled() bool {
	return h.metrics != nil && h.metrics.Enabled()
}

// =============================================================================
// Middleware
// =============================================================================

// jsonContentType sets Content-Type header to application/json.
func (h *Handler) jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Health Handlers
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// =============================================================================
// Validation Handlers
// =============================================================================

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !h.decode(w, r, &req) {
		return
	}
	for i, p := range req.Parameters {
		if !h.checkValues(w, r, i, p) {
			return
		}
	}

	start := time.Now()
	report := h.engine.ValidateParameters(req.Parameters)
	h.record(report, time.Since(start))

	resp := ValidateResponse{
		ID:         newReportID(),
		Valid:      report.Valid(),
		ErrorCount: report.ErrorCount(),
		Results:    report.Results,
	}

	h.logger.Debug("validated parameter set",
		"report_id", resp.ID,
		"request_id", middleware.GetReqID(r.Context()),
		"parameters", len(req.Parameters),
		"errors", resp.ErrorCount,
	)

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleValidateOne(w http.ResponseWriter, r *http.Request) {
	var p domain.Parameter
	if !h.decode(w, r, &p) || !h.checkValues(w, r, 0, p) {
		return
	}

	start := time.Now()
	errs := h.engine.Validate(p)
	h.record(validation.Report{Results: []validation.Result{{Name: p.Name, Type: p.Type, Errors: errs}}}, time.Since(start))

	h.writeJSON(w, http.StatusOK, ValidateOneResponse{
		ID:     newReportID(),
		Valid:  len(errs) == 0,
		Errors: errs,
	})
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads a JSON body into v. On failure it writes a 400 response and
// returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		h.logger.Debug("rejected request body", "path", r.URL.Path, "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return false
	}
	return true
}

// checkValues rejects a parameter whose value or bounds are not scalars.
// On failure it writes a 400 response naming the parameter and returns false.
func (h *Handler) checkValues(w http.ResponseWriter, r *http.Request, i int, p domain.Parameter) bool {
	err := p.CheckValues()
	if err == nil {
		return true
	}
	label := p.Name
	if label == "" {
		label = fmt.Sprintf("#%d", i)
	}
	h.logger.Debug("rejected parameter value", "path", r.URL.Path, "parameter", label, "error", err)
	h.writeError(w, http.StatusBadRequest, fmt.Sprintf("parameter %s: %v", label, err), "validation_error")
	return false
}

func (h *Handler) record(report validation.Report, d time.Duration) {
	if h.metrics != nil {
		h.metrics.RecordReport(metricsSource, report, d)
	}
}

func newReportID() string {
	return "rpt_" + uuid.New().String()[:8]
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// =============================================================================
// OpenAPI
// =============================================================================

func (h *Handler) registerEndpoints() {
	badRequest := openapi.Response{Status: http.StatusBadRequest, Description: "Malformed JSON body or non-scalar value", Model: ErrorResponse{}}

	h.spec.RegisterEndpoint(openapi.Endpoint{
		Method:      http.MethodPost,
		Path:        "/api/v1/parameters/validate",
		OperationID: "validateParameters",
		Summary:     "Validate a parameter set",
		Tag:         "Parameters",
		Request:     ValidateRequest{},
		Responses: []openapi.Response{
			{Status: http.StatusOK, Description: "Validation report", Model: ValidateResponse{}},
			badRequest,
		},
	})
	h.spec.RegisterEndpoint(openapi.Endpoint{
		Method:      http.MethodPost,
		Path:        "/api/v1/parameters/validate-one",
		OperationID: "validateParameter",
		Summary:     "Validate a single parameter",
		Tag:         "Parameters",
		Request:     domain.Parameter{},
		Responses: []openapi.Response{
			{Status: http.StatusOK, Description: "Validation errors", Model: ValidateOneResponse{}},
			badRequest,
		},
	})
	h.spec.RegisterEndpoint(openapi.Endpoint{
		Method:      http.MethodGet,
		Path:        "/health",
		OperationID: "health",
		Summary:     "Liveness check",
		Tag:         "System",
		Responses:   []openapi.Response{{Status: http.StatusOK, Description: "Healthy", Model: HealthResponse{}}},
	})
	if h.metricsEnabled() {
		h.spec.RegisterEndpoint(openapi.Endpoint{
			Method:      http.MethodGet,
			Path:        "/metrics",
			OperationID: "metrics",
			Summary:     "Prometheus metrics",
			Tag:         "System",
			Responses: []openapi.Response{
				{Status: http.StatusOK, Description: "Prometheus exposition", ContentType: "text/plain"},
			},
		})
	}
}
