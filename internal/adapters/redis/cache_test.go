package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "tourmode/internal/adapters/redis"
	"tourmode/internal/domain"
)

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	in := []domain.AttractionRating{
		{Attraction: "Gateway of India", Rating: 4.5},
		{Attraction: "Elephanta Caves", Rating: 4.2},
	}
	if err := c.Set(ctx, "top_attractions:test:10", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out []domain.AttractionRating
	ok, err := c.Get(ctx, "top_attractions:test:10", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatalf("expected hit")
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestCache_Miss(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)

	var out []domain.AttractionRating
	ok, err := c.Get(context.Background(), "absent", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}
}

func TestCache_Del(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	var s string
	if ok, _ := c.Get(ctx, "k", &s); ok {
		t.Fatalf("expected miss after del")
	}
}
