package dataset

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"sort"

	"tourmode/internal/domain"
)

// Store holds the full dataset in memory, immutable after construction.
// Records keep their load order, which makes "first matching record"
// deterministic for a fixed input file.
type Store struct {
	visits      []domain.Visit
	fingerprint string
}

func New(vs []domain.Visit) *Store {
	return &Store{visits: vs, fingerprint: fingerprint(vs)}
}

func (s *Store) Len() int { return len(s.visits) }

// Fingerprint identifies the loaded dataset. Cache keys embed it so a
// restart with a different file never reads another dataset's entries
// from a shared Redis.
func (s *Store) Fingerprint() string { return s.fingerprint }

func fingerprint(vs []domain.Visit) string {
	h := sha1.New()
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(vs)))
	h.Write(n[:])
	for _, v := range vs {
		h.Write([]byte(v.Continent))
		h.Write([]byte{0})
		h.Write([]byte(v.Country))
		h.Write([]byte{0})
		h.Write([]byte(v.City))
		h.Write([]byte{0})
		h.Write([]byte(v.Attraction))
		h.Write([]byte{0xff})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// ---- selection cascade ----

// Continents returns distinct continent names in first-seen order.
func (s *Store) Continents() []string {
	return s.distinct(func(v *domain.Visit) (string, bool) {
		return v.Continent, true
	})
}

// Countries returns distinct countries among records in the continent.
func (s *Store) Countries(continent string) []string {
	return s.distinct(func(v *domain.Visit) (string, bool) {
		return v.Country, v.Continent == continent
	})
}

// Cities returns distinct cities among records matching both ancestors.
func (s *Store) Cities(continent, country string) []string {
	return s.distinct(func(v *domain.Visit) (string, bool) {
		return v.City, v.Continent == continent && v.Country == country
	})
}

func (s *Store) distinct(pick func(*domain.Visit) (string, bool)) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for i := range s.visits {
		val, ok := pick(&s.visits[i])
		if !ok || val == "" {
			continue
		}
		if _, dup := seen[val]; dup {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	return out
}

// ---- anchor lookup ----

// Anchor returns the first record matching the triple exactly, in load
// order. ErrNotFound when nothing matches.
func (s *Store) Anchor(sel domain.Selection) (domain.Visit, error) {
	for i := range s.visits {
		v := &s.visits[i]
		if v.Continent == sel.Continent && v.Country == sel.Country && v.City == sel.City {
			return *v, nil
		}
	}
	return domain.Visit{}, domain.ErrNotFound
}

// ---- group aggregates ----

// Aggregate is a group's mean rating and size. Count is the full group
// size; Avg skips records without a rating and is 0 for an empty group.
type Aggregate struct {
	Avg   float64
	Count int
}

func (s *Store) UserAggregate(userID int64) Aggregate {
	return s.aggregate(func(v *domain.Visit) bool {
		return v.UserID != nil && *v.UserID == userID
	})
}

func (s *Store) AttractionAggregate(attractionID int64) Aggregate {
	return s.aggregate(func(v *domain.Visit) bool {
		return v.AttractionID != nil && *v.AttractionID == attractionID
	})
}

func (s *Store) CityAggregate(city string) Aggregate {
	return s.aggregate(func(v *domain.Visit) bool {
		return v.City == city
	})
}

func (s *Store) aggregate(match func(*domain.Visit) bool) Aggregate {
	var agg Aggregate
	var sum float64
	var rated int
	for i := range s.visits {
		v := &s.visits[i]
		if !match(v) {
			continue
		}
		agg.Count++
		if v.Rating != nil {
			sum += *v.Rating
			rated++
		}
	}
	if rated > 0 {
		agg.Avg = sum / float64(rated)
	}
	return agg
}

// ---- recommendation queries ----

// TopAttractionsForCity lists the (attraction, rating) pairs observed for
// the selected city, deduplicated by pair and sorted by rating descending.
// Equal ratings keep dataset order.
func (s *Store) TopAttractionsForCity(sel domain.Selection) []domain.AttractionRating {
	type pair struct {
		name   string
		rating float64
	}
	seen := make(map[pair]struct{})
	out := []domain.AttractionRating{}
	for i := range s.visits {
		v := &s.visits[i]
		if v.Continent != sel.Continent || v.Country != sel.Country || v.City != sel.City {
			continue
		}
		if v.Rating == nil || v.Attraction == "" {
			continue
		}
		p := pair{v.Attraction, *v.Rating}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, domain.AttractionRating{Attraction: p.name, Rating: p.rating})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return out
}

// TopAttractionsOverall groups the whole dataset by attraction, averages
// ratings per group, and returns the n best, mean descending. Ties break
// by attraction name so the output is stable across runs.
func (s *Store) TopAttractionsOverall(n int) []domain.AttractionRating {
	type acc struct {
		sum   float64
		count int
	}
	byName := make(map[string]*acc)
	order := []string{}
	for i := range s.visits {
		v := &s.visits[i]
		if v.Attraction == "" || v.Rating == nil {
			continue
		}
		a, ok := byName[v.Attraction]
		if !ok {
			a = &acc{}
			byName[v.Attraction] = a
			order = append(order, v.Attraction)
		}
		a.sum += *v.Rating
		a.count++
	}
	out := make([]domain.AttractionRating, 0, len(order))
	for _, name := range order {
		a := byName[name]
		out = append(out, domain.AttractionRating{Attraction: name, Rating: a.sum / float64(a.count)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Attraction < out[j].Attraction
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
