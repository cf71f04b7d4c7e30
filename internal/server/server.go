package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/site-payouts/internal/allocation"
	"github.com/iwvelando/site-payouts/internal/config"
	"github.com/iwvelando/site-payouts/internal/store"
	"github.com/iwvelando/site-payouts/pkg/constants"
	"github.com/iwvelando/site-payouts/pkg/output"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const tenantCookieMaxAge = 365 * 24 * 60 * 60

// Deps carries what the handler needs besides its logger.
type Deps struct {
	Store          store.Store
	Config         *config.Configuration
	Metrics        *Metrics
	MaxUploadSize  int64
	AllowedOrigins []string
	Version        string
}

type handler struct {
	logger        *zap.Logger
	store         store.Store
	conf          *config.Configuration
	engine        allocation.Engine
	metrics       *Metrics
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the payouts API.
func NewHandler(logger *zap.Logger, deps Deps) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Store == nil {
		deps.Store = store.NewMemory()
	}
	if deps.Config == nil {
		deps.Config = config.Builtin()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	if deps.MaxUploadSize <= 0 {
		deps.MaxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(deps.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		store:         deps.Metrics.instrumentStore(deps.Store),
		conf:          deps.Config,
		engine:        deps.Config.Engine(),
		metrics:       deps.Metrics,
		maxUploadSize: deps.MaxUploadSize,
		version:       trimmedVersion,
	}

	mux := http.NewServeMux()

	// Tenant data, read and replaced as a whole
	mux.Handle("/api/data", h.instrument("/api/data", h.handleData))

	// Tenant config only
	mux.Handle("/api/config", h.instrument("/api/config", h.handleConfig))

	// Stateless calculation of the posted data
	mux.Handle("/api/calculate", h.instrument("/api/calculate", h.handleCalculate))

	mux.Handle("/api/export", h.instrument("/api/export", h.handleExport))
	mux.Handle("/api/version", h.instrument("/api/version", h.handleVersion))
	mux.Handle("/healthz", h.instrument("/healthz", h.handleHealth))
	mux.Handle("/metrics", deps.Metrics.Handler())

	if len(deps.AllowedOrigins) == 0 {
		return mux
	}
	return cors.New(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", constants.TenantHeader},
		AllowCredentials: !containsWildcard(deps.AllowedOrigins),
	}).Handler(mux)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// dataResponse is the tenant document plus an optional report.
type dataResponse struct {
	Config       allocation.Config   `json:"config"`
	Members      []allocation.Member `json:"members"`
	Sites        []allocation.Site   `json:"sites"`
	Calculations *allocation.Report  `json:"calculations,omitempty"`
}

type statusResponse struct {
	Status       string             `json:"status"`
	Config       *allocation.Config `json:"config,omitempty"`
	Calculations *allocation.Report `json:"calculations,omitempty"`
}

// requestError carries the status a failed step should answer with.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string {
	return e.msg
}

func (h *handler) instrument(route string, fn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		fn(rec, r)
		h.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

func (h *handler) handleData(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleData"
	switch r.Method {
	case http.MethodGet:
		tenant := h.tenantID(w, r)
		data, err := h.load(r.Context(), tenant)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
		resp := dataResponse{Config: data.Config, Members: data.Members, Sites: data.Sites}
		if data.Config.AutoCalculateEnabled() {
			report, err := h.calculate(data)
			if err != nil {
				h.logger.Warn("stored data failed to calculate",
					zap.String("op", op),
					zap.String("tenant", tenant),
					zap.Error(err),
				)
			} else {
				resp.Calculations = &report
			}
		}
		h.writeJSON(w, http.StatusOK, resp)

	case http.MethodPost:
		tenant := h.tenantID(w, r)
		var posted allocation.Data
		if err := h.decodeBody(w, r, &posted); err != nil {
			h.respondRequestError(w, err, op)
			return
		}
		data := config.MergeDefaults(posted, h.conf.Defaults)
		if err := h.checkLimits(data); err != nil {
			h.respondRequestError(w, err, op)
			return
		}
		if err := allocation.Validate(data.Members, data.Sites); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		if err := h.store.Put(r.Context(), tenant, data); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to save data: %v", err), op)
			return
		}

		resp := statusResponse{Status: "success"}
		if data.Config.AutoCalculateEnabled() {
			report, err := h.calculate(data)
			if err != nil {
				h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
				return
			}
			resp.Calculations = &report
		}
		h.logger.Info("tenant data saved",
			zap.String("op", op),
			zap.String("tenant", tenant),
			zap.Int("members", len(data.Members)),
			zap.Int("sites", len(data.Sites)),
		)
		h.writeJSON(w, http.StatusOK, resp)

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfig"
	switch r.Method {
	case http.MethodGet:
		data, err := h.load(r.Context(), h.tenantID(w, r))
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
		h.writeJSON(w, http.StatusOK, data.Config)

	case http.MethodPost:
		tenant := h.tenantID(w, r)
		var cfg allocation.Config
		if err := h.decodeBody(w, r, &cfg); err != nil {
			h.respondRequestError(w, err, op)
			return
		}
		data, err := h.load(r.Context(), tenant)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
		data.Config = cfg
		data = config.MergeDefaults(data, h.conf.Defaults)
		if err := h.store.Put(r.Context(), tenant, data); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to save config: %v", err), op)
			return
		}
		h.writeJSON(w, http.StatusOK, statusResponse{Status: "success", Config: &data.Config})

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var posted allocation.Data
	if err := h.decodeBody(w, r, &posted); err != nil {
		h.respondRequestError(w, err, op)
		return
	}
	data := config.MergeDefaults(posted, h.conf.Defaults)
	if err := h.checkLimits(data); err != nil {
		h.respondRequestError(w, err, op)
		return
	}

	report, err := h.calculate(data)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	data, err := h.load(r.Context(), h.tenantID(w, r))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	report, err := h.calculate(data)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	format := r.URL.Query().Get("format")
	if strings.EqualFold(format, constants.OutputFormatYAML) {
		body, err := config.EncodeDataYAML(data)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render yaml: %v", err), op)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Header().Set("Content-Disposition", `attachment; filename="data.yaml"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			h.logger.Error("failed to write yaml response", zap.String("op", op), zap.Error(err))
		}
		return
	}
	if strings.EqualFold(format, constants.OutputFormatCSV) {
		var buf bytes.Buffer
		if err := output.CSVFormat(&buf, report); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render csv: %v", err), op)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="payments.csv"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf.Bytes()); err != nil {
			h.logger.Error("failed to write csv response", zap.String("op", op), zap.Error(err))
		}
		return
	}

	h.writeJSON(w, http.StatusOK, dataResponse{
		Config:       data.Config,
		Members:      data.Members,
		Sites:        data.Sites,
		Calculations: &report,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// tenantID resolves the caller from the header, then the cookie, and
// otherwise issues a fresh id in a cookie.
func (h *handler) tenantID(w http.ResponseWriter, r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(constants.TenantHeader)); id != "" {
		return id
	}
	if c, err := r.Cookie(constants.TenantCookie); err == nil {
		if id := strings.TrimSpace(c.Value); id != "" {
			return id
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     constants.TenantCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   tenantCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.Debug("issued tenant id", zap.String("op", "server.tenantID"), zap.String("tenant", id))
	return id
}

// load returns the tenant's data, or the configured defaults when the tenant
// has saved nothing yet.
func (h *handler) load(ctx context.Context, tenant string) (allocation.Data, error) {
	data, err := h.store.Get(ctx, tenant)
	if errors.Is(err, store.ErrNotFound) {
		return h.conf.NewTenantData(), nil
	}
	if err != nil {
		return allocation.Data{}, fmt.Errorf("failed to load data: %w", err)
	}
	return config.MergeDefaults(data, h.conf.Defaults), nil
}

func (h *handler) calculate(data allocation.Data) (allocation.Report, error) {
	start := time.Now()
	report, err := h.engine.Calculate(data)
	h.metrics.observeCalculation(time.Since(start), err)
	return report, err
}

func (h *handler) checkLimits(data allocation.Data) error {
	limits := h.conf.Limits
	if limits.MaxMembers > 0 && len(data.Members) > limits.MaxMembers {
		return &requestError{
			status: http.StatusBadRequest,
			msg:    fmt.Sprintf("too many members: %d exceeds limit of %d", len(data.Members), limits.MaxMembers),
		}
	}
	if limits.MaxSites > 0 && len(data.Sites) > limits.MaxSites {
		return &requestError{
			status: http.StatusBadRequest,
			msg:    fmt.Sprintf("too many sites: %d exceeds limit of %d", len(data.Sites), limits.MaxSites),
		}
	}
	return nil
}

func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return &requestError{
				status: http.StatusRequestEntityTooLarge,
				msg:    fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize),
			}
		}
		return &requestError{
			status: http.StatusBadRequest,
			msg:    fmt.Sprintf("failed to decode request: %v", err),
		}
	}
	return nil
}

func (h *handler) respondRequestError(w http.ResponseWriter, err error, op string) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		h.respondErrorWithOp(w, reqErr.status, reqErr.msg, op)
		return
	}
	h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	} else {
		h.logger.Warn("request rejected",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
