package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// LedgerService is the write and list side of the API. *services.LedgerService implements it.
type LedgerService interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, f ledger.Filter) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	ListBudgets(ctx context.Context) ([]core.Budget, error)
	UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	DeleteBudget(ctx context.Context, id string) error
}

// SummaryProvider serves the aggregated views. *services.DashboardService implements it.
type SummaryProvider interface {
	Summary(ctx context.Context) (core.Summary, error)
	CategoriesForMonth(ctx context.Context, month string) ([]core.CategoryExpense, error)
}

var (
	_ LedgerService   = (*services.LedgerService)(nil)
	_ SummaryProvider = (*services.DashboardService)(nil)
)

// Options carries the optional collaborators of the server.
type Options struct {
	Logger *applog.Logger

	// Live serves /ws when set.
	Live http.Handler

	// Ready is probed by /readyz, typically the backend ping.
	Ready func(ctx context.Context) error

	// Gauges are extra values exposed on /metrics, read at scrape time.
	Gauges map[string]func() int

	RateLimitPerMinute int

	// TrustedProxies are CIDRs whose X-Forwarded-For header is believed.
	TrustedProxies []string
}

type Server struct {
	http.Server

	ledger    LedgerService
	dashboard SummaryProvider
	parser    *RequestParser
	logger    *applog.StructuredLogger
	opts      Options
	started   time.Time

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, ledgerSvc LedgerService, dashboard SummaryProvider, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(strings.TrimSpace(cidr)); err != nil {
			logger.Warn("Ignoring trusted proxy", applog.FieldError, err)
		}
	}
	s := &Server{
		ledger:    ledgerSvc,
		dashboard: dashboard,
		parser:    NewRequestParser(),
		logger:    applog.NewStructuredLogger(logger),
		opts:      opts,
		started:   time.Now(),
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:  detector,
		tracer:    trace.NewMiddleware(logger, detector.ExtractClientIP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/budget", s.handleListBudgets)
	mux.HandleFunc("POST /api/budget", s.handleCreateBudget)
	mux.HandleFunc("PUT /api/budget", s.handleUpdateBudget)
	mux.HandleFunc("DELETE /api/budget", s.handleDeleteBudget)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/summary/monthly", s.handleMonthlyExpenses)
	mux.HandleFunc("GET /api/summary/categories", s.handleCategoryExpenses)
	mux.HandleFunc("GET /api/summary/budgets", s.handleBudgetComparisons)
	mux.HandleFunc("GET /api/insights", s.handleInsights)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	if opts.Live != nil {
		mux.Handle("GET /ws", opts.Live)
	}

	limited := s.limiter.Middleware(
		detector.ExtractClientIP,
		func(r *http.Request) bool { return ratelimit.IsMutating(r.Method) },
		func(w http.ResponseWriter, r *http.Request) { TooManyRequestsError().Write(w) },
	)(mux)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:              addr,
		Handler:           applog.Middleware(logger)(s.tracer.Middleware(headers.Middleware(detector.Middleware(limited)))),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	SuccessResponse(http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady checks the backend within a short deadline.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"backend": "ok"}
	if s.opts.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.opts.Ready(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", "error", err)
			checks["backend"] = "failed"
			ServiceUnavailableError(checks).Write(w)
			return
		}
	}
	SuccessResponse(http.StatusOK, checks).Write(w)
}

// handleMetrics exposes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	traceMetrics := s.tracer.GetMetrics()
	securityMetrics := s.detector.GetMetrics()
	limitMetrics := s.limiter.GetMetrics()

	writeMetric(w, "http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	writeMetric(w, "http_request_duration_avg_microseconds", "gauge", "Average request duration", traceMetrics.AverageResponseTime.Microseconds())
	writeMetric(w, "suspicious_requests_total", "counter", "Requests flagged as suspicious", securityMetrics.SuspiciousRequests)
	writeMetric(w, "blocked_requests_total", "counter", "Requests rejected by the detector", securityMetrics.BlockedRequests)
	writeMetric(w, "rate_limit_hits_total", "counter", "Requests rejected by the rate limiter", limitMetrics.TotalHits)
	writeMetric(w, "rate_limit_clients", "gauge", "Clients tracked by the rate limiter", limitMetrics.ClientCount)
	writeMetric(w, "uptime_seconds", "gauge", "Seconds since the server started", int64(time.Since(s.started).Seconds()))
	for name, gauge := range s.opts.Gauges {
		writeMetric(w, name, "gauge", "", int64(gauge()))
	}
}

func writeMetric(w http.ResponseWriter, name, kind, help string, value int64) {
	if help != "" {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	}
	fmt.Fprintf(w, "# TYPE %s %s\n%s %d\n", name, kind, name, value)
}

// writeError maps service errors onto the envelope: 400 for unreadable
// input, 422 for rejected values, 404 for unknown ids and 500 otherwise.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		UnprocessableEntityError(verr.Message).Write(w)
	case errors.Is(err, ErrInvalidBody):
		BadRequestError(ErrInvalidBody.Error()).Write(w)
	case errors.Is(err, ErrInvalidQuery):
		BadRequestError(err.Error()).Write(w)
	case errors.Is(err, services.ErrValidation):
		UnprocessableEntityError(err.Error()).Write(w)
	case errors.Is(err, ledger.ErrNotFound):
		NotFoundError(notFound).Write(w)
	default:
		fields := applog.NewFields().WithRequestID(trace.GetRequestID(r.Context()))
		s.logger.LogError(r.Context(), "Request failed", err, applog.ComponentHTTP, r.Method+" "+r.URL.Path, fields)
		InternalServerError().Write(w)
	}
}
