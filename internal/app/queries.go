package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tourmode/internal/dataset"
	"tourmode/internal/domain"
)

// QueryService serves the recommendation tables, cache-aside over Redis.
// The dataset is immutable, so entries never need invalidation; keys embed
// the dataset fingerprint instead.
type QueryService struct {
	store    *dataset.Store
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(st *dataset.Store, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: st, cache: c, cacheTTL: ttl}
}

// TopAttractionsForCity lists deduplicated (attraction, rating) pairs for
// the selected city, best rating first.
func (s *QueryService) TopAttractionsForCity(ctx context.Context, sel domain.Selection) []domain.AttractionRating {
	key := fmt.Sprintf("city_attractions:%s:%s:%s:%s", s.store.Fingerprint(), sel.Continent, sel.Country, sel.City)
	var out []domain.AttractionRating
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out
	}

	out = s.store.TopAttractionsForCity(sel)
	s.cacheSet(ctx, key, out)
	return copyRatings(out)
}

// TopAttractionsOverall returns the dataset-wide top n attractions by mean
// rating.
func (s *QueryService) TopAttractionsOverall(ctx context.Context, n int) []domain.AttractionRating {
	key := fmt.Sprintf("top_attractions:%s:%d", s.store.Fingerprint(), n)
	var out []domain.AttractionRating
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out
	}

	out = s.store.TopAttractionsOverall(n)
	s.cacheSet(ctx, key, out)
	return copyRatings(out)
}

func (s *QueryService) cacheSet(ctx context.Context, key string, v []domain.AttractionRating) {
	// size guard; a pathological dataset should not blow up Redis
	if b, _ := json.Marshal(v); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
	}
}

// copy before returning so callers can't mutate what was just cached
func copyRatings(in []domain.AttractionRating) []domain.AttractionRating {
	if len(in) == 0 {
		return in
	}
	out := make([]domain.AttractionRating, len(in))
	copy(out, in)
	return out
}
