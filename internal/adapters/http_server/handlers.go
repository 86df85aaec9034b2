package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"atlas_tours/internal/adapters/observability"
	"atlas_tours/internal/app"
	"atlas_tours/internal/domain"
)

type Handlers struct {
	Quotes *app.QuoteService
	Advice *app.AdviceService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/v1/quotes", h.quote)
	s.mux.Post("/v1/recommendations", h.recommendations)
	s.mux.Post("/v1/validations", h.validations)
	s.mux.Post("/v1/package-upgrades", h.packageUpgrades)

	s.mux.Get("/v1/services", h.listServices)
	s.mux.Get("/v1/services/{id}", h.getService)

	s.mux.Post("/v1/pricing/rules", h.addRule)
	s.mux.Post("/v1/pricing/combinations", h.addCombination)
}

type quoteRequest struct {
	Services []app.CartLine        `json:"services"`
	Options  domain.PricingOptions `json:"options"`
}

type adviceRequest struct {
	Services []app.CartLine               `json:"services"`
	Options  domain.RecommendationOptions `json:"options"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeEngineErr maps domain sentinels onto problem responses.
func writeEngineErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid cart", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		log.Error().Err(err).Msg("engine call failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return false
	}
	return true
}

func (h *Handlers) quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !decode(w, r, &req) {
		return
	}
	start := time.Now()
	breakdown, err := h.Quotes.Quote(r.Context(), req.Services, req.Options)
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	observability.ObserveEngine("pricing", "quote", time.Since(start))
	writeJSON(w, http.StatusOK, breakdown)
}

func (h *Handlers) recommendations(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if !decode(w, r, &req) {
		return
	}
	start := time.Now()
	recs, err := h.Advice.Recommend(r.Context(), req.Services, req.Options)
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	observability.ObserveEngine("recommend", "recommendations", time.Since(start))
	if recs == nil {
		recs = []domain.Recommendation{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handlers) validations(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if !decode(w, r, &req) {
		return
	}
	start := time.Now()
	violations, err := h.Advice.Validate(r.Context(), req.Services, req.Options)
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	observability.ObserveEngine("recommend", "validations", time.Since(start))
	if violations == nil {
		violations = []domain.RuleViolation{}
	}
	writeJSON(w, http.StatusOK, violations)
}

func (h *Handlers) packageUpgrades(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if !decode(w, r, &req) {
		return
	}
	start := time.Now()
	upgrades, err := h.Advice.PackageUpgrades(r.Context(), req.Services, req.Options)
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	observability.ObserveEngine("recommend", "package_upgrades", time.Since(start))
	if upgrades == nil {
		upgrades = []domain.PackageUpgrade{}
	}
	writeJSON(w, http.StatusOK, upgrades)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) listServices(w http.ResponseWriter, r *http.Request) {
	q := domain.ServicesQuery{}
	if c := r.URL.Query().Get("category"); c != "" {
		cat := domain.Category(c)
		if !cat.Valid() {
			writeProblem(w, http.StatusBadRequest, "Invalid category", "unknown category "+c)
			return
		}
		q.Category = &cat
	}
	if loc := r.URL.Query().Get("location"); loc != "" {
		q.Location = &loc
	}

	services, err := h.Advice.ListServices(r.Context(), q)
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	if services == nil {
		services = []domain.Service{}
	}

	etag, body := calcETagAndBody(services)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listServices body")
	}
}

func (h *Handlers) getService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.Advice.GetService(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeEngineErr(w, err)
		return
	}

	etag, body := calcETagAndBody(svc)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getService body")
	}
}

func (h *Handlers) addRule(w http.ResponseWriter, r *http.Request) {
	var rule domain.PricingRule
	if !decode(w, r, &rule) {
		return
	}
	if rule.ID == "" || rule.Name == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid rule", "id and name are required")
		return
	}
	h.Quotes.AddRule(rule)
	writeJSON(w, http.StatusCreated, rule)
}

func (h *Handlers) addCombination(w http.ResponseWriter, r *http.Request) {
	var combo domain.ServiceCombination
	if !decode(w, r, &combo) {
		return
	}
	if combo.ID == "" || len(combo.ServiceIDs) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid combination", "id and service_ids are required")
		return
	}
	h.Quotes.AddCombination(combo)
	writeJSON(w, http.StatusCreated, combo)
}
