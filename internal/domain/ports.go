package domain

import "context"

// VisitRepository is the MySQL persistence surface: the ingestor writes
// batches, the API can load the whole table as its dataset source.
// seq is the zero-based position of the first record in the source file;
// reads order by it, so concurrent batch inserts keep dataset order.
type VisitRepository interface {
	InsertVisits(ctx context.Context, seq int, vs []Visit) error
	LoadVisits(ctx context.Context) ([]Visit, error)
}

// Predictor is the model oracle: a fixed-length numeric vector in, a single
// categorical label out. Pure and deterministic for a fixed model artifact.
type Predictor interface {
	Predict(ctx context.Context, fv FeatureVector) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
