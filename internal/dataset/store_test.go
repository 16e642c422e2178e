package dataset_test

import (
	"errors"
	"fmt"
	"testing"

	"tourmode/internal/dataset"
	"tourmode/internal/domain"
)

func pi64(v int64) *int64     { return &v }
func pf64(v float64) *float64 { return &v }

func visit(continent, country, city, attraction string, userID, attractionID int64, rating float64) domain.Visit {
	return domain.Visit{
		Continent:    continent,
		Country:      country,
		City:         city,
		Attraction:   attraction,
		UserID:       pi64(userID),
		AttractionID: pi64(attractionID),
		Rating:       pf64(rating),
	}
}

func smallStore() *dataset.Store {
	return dataset.New([]domain.Visit{
		visit("Asia", "India", "Mumbai", "Gateway of India", 1, 100, 4),
		visit("Asia", "India", "Delhi", "Red Fort", 1, 101, 5),
		visit("Asia", "Japan", "Tokyo", "Senso-ji", 2, 102, 3),
		visit("Europe", "France", "Paris", "Louvre", 3, 103, 5),
	})
}

func TestCascade_Distinct(t *testing.T) {
	s := smallStore()

	continents := s.Continents()
	if len(continents) != 2 || continents[0] != "Asia" || continents[1] != "Europe" {
		t.Fatalf("continents: %v", continents)
	}

	countries := s.Countries("Asia")
	if len(countries) != 2 || countries[0] != "India" || countries[1] != "Japan" {
		t.Fatalf("countries: %v", countries)
	}

	cities := s.Cities("Asia", "India")
	if len(cities) != 2 || cities[0] != "Mumbai" || cities[1] != "Delhi" {
		t.Fatalf("cities: %v", cities)
	}
}

func TestCascade_ConstrainedByAncestors(t *testing.T) {
	s := smallStore()

	// Paris only exists under Europe/France; an Asia/France filter must be empty.
	if got := s.Cities("Asia", "France"); len(got) != 0 {
		t.Fatalf("expected empty cities, got %v", got)
	}
	if got := s.Countries("Antarctica"); len(got) != 0 {
		t.Fatalf("expected empty countries, got %v", got)
	}
}

func TestAnchor_FirstMatchInLoadOrder(t *testing.T) {
	s := dataset.New([]domain.Visit{
		visit("Asia", "India", "Mumbai", "First", 1, 100, 4),
		visit("Asia", "India", "Mumbai", "Second", 2, 200, 5),
	})

	a, err := s.Anchor(domain.Selection{Continent: "Asia", Country: "India", City: "Mumbai"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if a.Attraction != "First" || *a.UserID != 1 {
		t.Fatalf("expected first record, got %+v", a)
	}
}

func TestAnchor_NotFound(t *testing.T) {
	s := smallStore()
	_, err := s.Anchor(domain.Selection{Continent: "Asia", Country: "India", City: "Paris"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnchor_NeverFailsForCascadeTriples(t *testing.T) {
	s := smallStore()
	for _, continent := range s.Continents() {
		for _, country := range s.Countries(continent) {
			for _, city := range s.Cities(continent, country) {
				sel := domain.Selection{Continent: continent, Country: country, City: city}
				if _, err := s.Anchor(sel); err != nil {
					t.Fatalf("anchor failed for cascade triple %+v: %v", sel, err)
				}
			}
		}
	}
}

func TestUserAggregate(t *testing.T) {
	s := dataset.New([]domain.Visit{
		visit("Asia", "India", "Mumbai", "A", 1, 100, 4),
		visit("Asia", "India", "Delhi", "B", 1, 101, 5),
		visit("Asia", "India", "Delhi", "C", 2, 102, 3),
	})

	agg := s.UserAggregate(1)
	if agg.Avg != 4.5 || agg.Count != 2 {
		t.Fatalf("user aggregate: %+v", agg)
	}

	// unknown group must not fail, just come back zero
	empty := s.UserAggregate(99)
	if empty.Avg != 0 || empty.Count != 0 {
		t.Fatalf("empty aggregate: %+v", empty)
	}
}

func TestCityAggregate_CountsUnratedRows(t *testing.T) {
	unrated := visit("Asia", "India", "Mumbai", "A", 1, 100, 0)
	unrated.Rating = nil
	s := dataset.New([]domain.Visit{
		unrated,
		visit("Asia", "India", "Mumbai", "B", 2, 101, 4),
	})

	agg := s.CityAggregate("Mumbai")
	if agg.Count != 2 {
		t.Fatalf("count should include unrated rows: %+v", agg)
	}
	if agg.Avg != 4 {
		t.Fatalf("avg should skip unrated rows: %+v", agg)
	}
}

func TestTopAttractionsForCity_DedupAndOrder(t *testing.T) {
	s := dataset.New([]domain.Visit{
		visit("Asia", "India", "Mumbai", "Gateway", 1, 100, 4),
		visit("Asia", "India", "Mumbai", "Gateway", 2, 100, 4), // duplicate pair
		visit("Asia", "India", "Mumbai", "Elephanta", 3, 101, 5),
		visit("Asia", "India", "Mumbai", "Gateway", 4, 100, 3), // same name, new rating
		visit("Asia", "India", "Delhi", "Red Fort", 5, 102, 5), // other city
	})

	got := s.TopAttractionsForCity(domain.Selection{Continent: "Asia", Country: "India", City: "Mumbai"})
	want := []domain.AttractionRating{
		{Attraction: "Elephanta", Rating: 5},
		{Attraction: "Gateway", Rating: 4},
		{Attraction: "Gateway", Rating: 3},
	}
	if len(got) != len(want) {
		t.Fatalf("rows: %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: got %+v want %+v", i, got[i], want[i])
		}
	}

	// no identical (attraction, rating) pair may appear twice
	seen := map[domain.AttractionRating]bool{}
	for _, ar := range got {
		if seen[ar] {
			t.Fatalf("duplicate pair %+v", ar)
		}
		seen[ar] = true
	}
}

func TestTopAttractionsOverall_TruncatesAndSorts(t *testing.T) {
	var vs []domain.Visit
	for i := 0; i < 15; i++ {
		name := fmt.Sprintf("Attraction %02d", i)
		vs = append(vs, visit("Asia", "India", "Mumbai", name, int64(i), int64(i), float64(i%5)+1))
	}
	s := dataset.New(vs)

	got := s.TopAttractionsOverall(10)
	if len(got) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(got))
	}
	names := map[string]bool{}
	for i, ar := range got {
		if i > 0 && got[i-1].Rating < ar.Rating {
			t.Fatalf("not sorted descending at %d: %+v", i, got)
		}
		if names[ar.Attraction] {
			t.Fatalf("duplicate attraction %q", ar.Attraction)
		}
		names[ar.Attraction] = true
	}
}

func TestTopAttractionsOverall_MeanPerGroup(t *testing.T) {
	s := dataset.New([]domain.Visit{
		visit("Asia", "India", "Mumbai", "Gateway", 1, 100, 4),
		visit("Asia", "India", "Mumbai", "Gateway", 2, 100, 2),
		visit("Asia", "India", "Mumbai", "Elephanta", 3, 101, 5),
	})

	got := s.TopAttractionsOverall(10)
	if len(got) != 2 {
		t.Fatalf("rows: %+v", got)
	}
	if got[0].Attraction != "Elephanta" || got[0].Rating != 5 {
		t.Fatalf("first: %+v", got[0])
	}
	if got[1].Attraction != "Gateway" || got[1].Rating != 3 {
		t.Fatalf("second: %+v", got[1])
	}
}

func TestFingerprint_TracksContent(t *testing.T) {
	a := smallStore()
	b := smallStore()
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("same data, different fingerprints")
	}

	c := dataset.New([]domain.Visit{visit("Asia", "India", "Mumbai", "X", 1, 1, 1)})
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("different data, same fingerprint")
	}
}
