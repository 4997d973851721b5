package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/payment-plans/internal/cache"
	"github.com/iwvelando/payment-plans/internal/config"
	"github.com/iwvelando/payment-plans/internal/plans"
	"github.com/iwvelando/payment-plans/internal/quote"
	"github.com/iwvelando/payment-plans/pkg/constants"
	"github.com/iwvelando/payment-plans/pkg/schedule"
	"github.com/iwvelando/payment-plans/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

// Options configures the handler returned by NewHandler.
type Options struct {
	MaxBodySize int64
	Cache       cache.Cache
	CacheTTL    time.Duration
	Branding    quote.Branding
	Version     string
	// Now is the quote clock; nil means time.Now.
	Now func() time.Time
}

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	cache       cache.Cache
	cacheTTL    time.Duration
	branding    quote.Branding
	version     string
	now         func() time.Time
}

// NewHandler constructs the HTTP handler that serves the web UI and plan API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &handler{
		logger:      logger,
		maxBodySize: opts.MaxBodySize,
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
		branding:    opts.Branding,
		version:     strings.TrimSpace(opts.Version),
		now:         opts.Now,
	}
	if h.maxBodySize <= 0 {
		h.maxBodySize = constants.DefaultMaxBodySizeBytes
	}
	if h.cache == nil {
		h.cache = cache.NewMemoryCache()
	}
	if h.branding.Company == "" {
		h.branding = quote.DefaultBranding()
	}
	if h.version == "" {
		h.version = "dev"
	}
	if h.now == nil {
		h.now = time.Now
	}

	mux := http.NewServeMux()

	// Plan computation for the live form
	mux.HandleFunc("/api/plans", h.handlePlans)

	// PDF quote download
	mux.HandleFunc("/api/quote", h.handleQuote)

	// Unit file serialization for downloads
	mux.HandleFunc("/api/unit/export", h.handleUnitExport)

	mux.HandleFunc("/api/version", h.handleVersion)
	mux.HandleFunc("/healthz", h.handleHealth)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return requestLogger(logger, mux)
}

// priceValue accepts a JSON number or a free-text string such as "1,250,000".
type priceValue string

func (p *priceValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*p = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*p = priceValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("price must be a number or a string")
	}
	*p = priceValue(n.String())
	return nil
}

type unitPayload struct {
	Price          priceValue `json:"price"`
	UnitType       string     `json:"unitType"`
	Rooms          string     `json:"rooms"`
	BUA            float64    `json:"bua"`
	GardenRoofArea float64    `json:"gardenRoofArea"`
	Floor          string     `json:"floor"`
	Building       string     `json:"building"`
}

type planRequest struct {
	Price        priceValue  `json:"price"`
	Unit         unitPayload `json:"unit"`
	Selected     []string    `json:"selected"`
	ContractDate string      `json:"contractDate"`
}

func (req planRequest) unitConfig() config.UnitConfig {
	price := req.Price
	if strings.TrimSpace(string(price)) == "" {
		price = req.Unit.Price
	}
	return config.UnitConfig{
		Price:          string(price),
		UnitType:       req.Unit.UnitType,
		Rooms:          req.Unit.Rooms,
		BUA:            req.Unit.BUA,
		GardenRoofArea: req.Unit.GardenRoofArea,
		Floor:          req.Unit.Floor,
		Building:       req.Unit.Building,
	}
}

func (req planRequest) configuration() *config.Configuration {
	return &config.Configuration{
		Unit:         req.unitConfig(),
		Selection:    validation.ParseSelection(strings.Join(req.Selected, ",")),
		ContractDate: strings.TrimSpace(req.ContractDate),
	}
}

type plansResponse struct {
	Plans    []plans.PaymentPlanResult   `json:"plans"`
	Grouped  map[string][]schedule.Group `json:"grouped"`
	Warnings []string                    `json:"warnings,omitempty"`
	Cached   bool                        `json:"cached"`
	Duration string                      `json:"duration"`
}

func (h *handler) handlePlans(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePlans"
	start := time.Now()

	var req planRequest
	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		req.Price = priceValue(query.Get("price"))
		req.Unit.UnitType = query.Get("unitType")
		req.Unit.Rooms = query.Get("rooms")
	case http.MethodPost:
		if !h.decodeRequest(w, r, &req, op) {
			return
		}
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	cfg := req.configuration()
	unit, err := cfg.UnitInfo()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	results, hit, err := h.computePlans(r, unit)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute plans: %v", err), op)
		return
	}

	grouped := make(map[string][]schedule.Group, len(results))
	for _, plan := range results {
		grouped[plan.ID] = schedule.GroupByTiming(plan.Schedule)
	}
	if results == nil {
		results = []plans.PaymentPlanResult{}
	}

	elapsed := time.Since(start)
	h.logger.Info("plans computed",
		zap.String("op", op),
		zap.Int64("price", unit.TotalPrice),
		zap.Int("plans", len(results)),
		zap.Bool("cached", hit),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, plansResponse{
		Plans:    results,
		Grouped:  grouped,
		Warnings: validation.ValidateUnit(unit),
		Cached:   hit,
		Duration: elapsed.String(),
	})
}

// computePlans serves plan sets from the cache; unpriced units bypass it.
func (h *handler) computePlans(r *http.Request, unit plans.UnitInfo) ([]plans.PaymentPlanResult, bool, error) {
	if unit.TotalPrice <= 0 {
		return nil, false, nil
	}
	return cache.GetOrSet(r.Context(), h.logger, h.cache, cache.Key(unit.TotalPrice), h.cacheTTL,
		func() ([]plans.PaymentPlanResult, error) {
			return plans.ComputeUnit(h.logger, unit), nil
		})
}

func (h *handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQuote"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req planRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	cfg := req.configuration()
	unit, err := cfg.UnitInfo()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := validation.ValidateSelection(cfg.Selection, plans.IDs()); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	now := h.now()
	contract, err := cfg.ContractTime(now)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	results, _, err := h.computePlans(r, unit)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute plans: %v", err), op)
		return
	}

	renderer := quote.NewRenderer(h.logger, h.branding)
	renderer.ContractDate = contract
	renderer.Now = func() time.Time { return now }

	var buf bytes.Buffer
	if err := renderer.Render(&buf, unit, results, cfg.Selection); err != nil {
		if errors.Is(err, quote.ErrNoPlans) {
			h.respondErrorWithOp(w, http.StatusUnprocessableEntity, err.Error(), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render quote: %v", err), op)
		return
	}

	filename := quote.Filename(unit.TotalPrice)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write quote",
			zap.String("op", op),
			zap.Error(err),
		)
		return
	}

	h.logger.Info("quote exported",
		zap.String("op", op),
		zap.String("file", filename),
		zap.Strings("selected", cfg.Selection),
	)
}

func (h *handler) handleUnitExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUnitExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req planRequest
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	cfg := req.configuration()
	price, err := cfg.Price()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	cfg.Unit.Price = strconv.FormatInt(price, 10)

	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode unit: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
		"filename":   constants.DefaultConfigFile,
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
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRequest reads a size-capped JSON body into dest, answering the
// request itself on failure.
func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request, dest interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
