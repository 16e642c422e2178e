package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"tourmode/internal/app"
	"tourmode/internal/dataset"
	"tourmode/internal/domain"
)

type Handlers struct {
	Store *dataset.Store
	P     *app.PredictService
	Q     *app.QueryService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/continents", h.continents)
	s.mux.Get("/v1/countries", h.countries)
	s.mux.Get("/v1/cities", h.cities)
	s.mux.Post("/v1/predict", h.predict)
	s.mux.Get("/v1/cities/attractions", h.cityAttractions)
	s.mux.Get("/v1/attractions/top", h.topAttractions)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
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

func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- selection cascade ----

func (h *Handlers) continents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"continents": h.Store.Continents()})
}

func (h *Handlers) countries(w http.ResponseWriter, r *http.Request) {
	continent := r.URL.Query().Get("continent")
	if continent == "" {
		writeProblem(w, http.StatusBadRequest, "Missing parameter", "continent is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"countries": h.Store.Countries(continent)})
}

func (h *Handlers) cities(w http.ResponseWriter, r *http.Request) {
	continent := r.URL.Query().Get("continent")
	country := r.URL.Query().Get("country")
	if continent == "" || country == "" {
		writeProblem(w, http.StatusBadRequest, "Missing parameter", "continent and country are required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cities": h.Store.Cities(continent, country)})
}

// ---- predict ----

func (h *Handlers) predict(w http.ResponseWriter, r *http.Request) {
	var sel domain.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON with continent, country, city")
		return
	}
	if sel.Continent == "" || sel.Country == "" || sel.City == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "continent, country and city are required")
		return
	}

	res, err := h.P.Predict(r.Context(), sel)
	if err != nil {
		var mf *domain.MissingFieldError
		var oe *domain.OracleError
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeProblem(w, http.StatusNotFound, "Not Found", "no record matches the selection")
		case errors.As(err, &mf):
			writeProblem(w, http.StatusUnprocessableEntity, "Incomplete record", mf.Error())
		case errors.As(err, &oe):
			log.Error().Err(err).Msg("oracle predict failed")
			writeProblem(w, http.StatusBadGateway, "Prediction unavailable", "the model oracle did not answer")
		default:
			log.Error().Err(err).Msg("predict failed")
			writeProblem(w, http.StatusInternalServerError, "Internal error", "")
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ---- recommendations ----

func (h *Handlers) cityAttractions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := domain.Selection{
		Continent: q.Get("continent"),
		Country:   q.Get("country"),
		City:      q.Get("city"),
	}
	if sel.Continent == "" || sel.Country == "" || sel.City == "" {
		writeProblem(w, http.StatusBadRequest, "Missing parameter", "continent, country and city are required")
		return
	}
	writeCacheable(w, r, map[string]any{"attractions": h.Q.TopAttractionsForCity(r.Context(), sel)})
}

func (h *Handlers) topAttractions(w http.ResponseWriter, r *http.Request) {
	n := 10
	if ns := r.URL.Query().Get("n"); ns != "" {
		v, err := strconv.Atoi(ns)
		if err != nil || v <= 0 || v > 100 {
			writeProblem(w, http.StatusBadRequest, "Invalid n", "n must be an integer between 1 and 100")
			return
		}
		n = v
	}
	writeCacheable(w, r, map[string]any{"attractions": h.Q.TopAttractionsOverall(r.Context(), n)})
}
