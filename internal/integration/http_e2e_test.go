//go:build integration || !unit

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "tourmode/internal/adapters/http_server"
	"tourmode/internal/adapters/oracle"
	"tourmode/internal/app"
	"tourmode/internal/dataset"
	"tourmode/internal/domain"
)

// ---------- helpers ----------

type memCache struct{ store map[string][]byte }

func (c *memCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *memCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *memCache) Del(ctx context.Context, key string) error { return nil }

const datasetCSV = `Continent,Country,City,UserId,AttractionId,Rating,Attraction,ContinentId,RegionId,CountryId,AttractionTypeId,VisitMonth
Asia,India,Mumbai,7,100,5,Gateway of India,1,1,1,1,6
Asia,India,Mumbai,8,101,4,Elephanta Caves,1,1,1,2,7
Asia,India,Delhi,9,102,5,Red Fort,1,1,1,1,3
Europe,France,Paris,10,103,5,Louvre,2,5,20,3,9
`

// ---------- the test ----------

// Full in-process wiring: CSV dataset -> store -> services -> chi mux,
// with the model oracle stubbed by an httptest server speaking the real
// wire format.
func TestHTTP_EndToEnd_Predict(t *testing.T) {
	// Oracle stub: checks the vector width, answers a fixed mode.
	oracleSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Features []float64 `json:"features"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Features) != domain.FeatureDim {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"label": "Couples"})
	}))
	defer oracleSrv.Close()

	vs, err := dataset.ReadCSV(strings.NewReader(datasetCSV))
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	st := dataset.New(vs)

	predictor, err := oracle.New(oracleSrv.URL, "", 100)
	if err != nil {
		t.Fatalf("oracle client: %v", err)
	}

	q := app.NewQueryService(st, &memCache{}, time.Minute)
	p := app.NewPredictService(app.NewFeatureService(st), q, predictor)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Store: st, P: p, Q: q})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// Walk the cascade the way the UI would.
	var continents struct {
		Continents []string `json:"continents"`
	}
	mustGet(t, ts.URL+"/v1/continents", &continents)
	if len(continents.Continents) != 2 {
		t.Fatalf("continents: %+v", continents)
	}

	var cities struct {
		Cities []string `json:"cities"`
	}
	mustGet(t, ts.URL+"/v1/cities?continent=Asia&country=India", &cities)
	if len(cities.Cities) != 2 || cities.Cities[0] != "Mumbai" {
		t.Fatalf("cities: %+v", cities)
	}

	// Predict for the selected triple.
	res, err := http.Post(ts.URL+"/v1/predict", "application/json",
		strings.NewReader(`{"continent":"Asia","country":"India","city":"Mumbai"}`))
	if err != nil {
		t.Fatalf("POST predict: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("predict status: %d", res.StatusCode)
	}
	var out domain.PredictionResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode predict: %v", err)
	}
	if out.VisitMode != "Couples" {
		t.Fatalf("visit mode: %s", out.VisitMode)
	}
	if len(out.CityAttractions) != 2 || out.CityAttractions[0].Attraction != "Gateway of India" {
		t.Fatalf("city attractions: %+v", out.CityAttractions)
	}

	// Overall top attractions, dataset-wide.
	var top struct {
		Attractions []domain.AttractionRating `json:"attractions"`
	}
	mustGet(t, ts.URL+"/v1/attractions/top?n=10", &top)
	if len(top.Attractions) != 4 {
		t.Fatalf("top attractions: %+v", top)
	}
	for i := 1; i < len(top.Attractions); i++ {
		if top.Attractions[i-1].Rating < top.Attractions[i].Rating {
			t.Fatalf("not sorted: %+v", top.Attractions)
		}
	}
}

func mustGet(t *testing.T, url string, dst any) {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}
