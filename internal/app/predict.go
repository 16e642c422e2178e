package app

import (
	"context"
	"errors"

	"tourmode/internal/adapters/observability"
	"tourmode/internal/domain"
)

// PredictService runs the predict trigger: anchor -> features -> oracle.
// Failures come back as typed errors (ErrNotFound, MissingFieldError,
// OracleError), never as panics across the boundary.
type PredictService struct {
	features *FeatureService
	queries  *QueryService
	oracle   domain.Predictor
}

func NewPredictService(f *FeatureService, q *QueryService, o domain.Predictor) *PredictService {
	return &PredictService{features: f, queries: q, oracle: o}
}

func (s *PredictService) Predict(ctx context.Context, sel domain.Selection) (domain.PredictionResult, error) {
	fv, err := s.features.Assemble(sel)
	if err != nil {
		observability.ObservePrediction(predictionStatus(err))
		return domain.PredictionResult{}, err
	}

	label, err := s.oracle.Predict(ctx, fv)
	if err != nil {
		var oe *domain.OracleError
		if !errors.As(err, &oe) {
			err = &domain.OracleError{Err: err}
		}
		observability.ObservePrediction(predictionStatus(err))
		return domain.PredictionResult{}, err
	}

	observability.ObservePrediction("ok")
	return domain.PredictionResult{
		VisitMode:       label,
		CityAttractions: s.queries.TopAttractionsForCity(ctx, sel),
	}, nil
}

func predictionStatus(err error) string {
	var mf *domain.MissingFieldError
	var oe *domain.OracleError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.As(err, &mf):
		return "missing_field"
	case errors.As(err, &oe):
		return "oracle_error"
	default:
		return "error"
	}
}
