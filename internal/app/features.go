package app

import (
	"math"

	"tourmode/internal/dataset"
	"tourmode/internal/domain"
)

// FeatureService derives the model's input vector for a selection triple.
// Pure function of (store, selection): no side effects, identical output
// for identical inputs on an unchanged dataset.
type FeatureService struct {
	store *dataset.Store
}

func NewFeatureService(st *dataset.Store) *FeatureService {
	return &FeatureService{store: st}
}

// Assemble resolves the anchor record for the triple and builds the
// 23-value feature vector: anchor identifiers, user/attraction/city group
// aggregates, cyclical month encoding, and pass-through engineered columns
// defaulting to 0 when absent.
func (s *FeatureService) Assemble(sel domain.Selection) (domain.FeatureVector, error) {
	var fv domain.FeatureVector

	anchor, err := s.store.Anchor(sel)
	if err != nil {
		return fv, err
	}

	continentID, err := required(anchor.ContinentID, "ContinentId")
	if err != nil {
		return fv, err
	}
	regionID, err := required(anchor.RegionID, "RegionId")
	if err != nil {
		return fv, err
	}
	countryID, err := required(anchor.CountryID, "CountryId")
	if err != nil {
		return fv, err
	}
	typeID, err := required(anchor.AttractionTypeID, "AttractionTypeId")
	if err != nil {
		return fv, err
	}
	userID, err := required(anchor.UserID, "UserId")
	if err != nil {
		return fv, err
	}
	attractionID, err := required(anchor.AttractionID, "AttractionId")
	if err != nil {
		return fv, err
	}
	if anchor.City == "" {
		return fv, &domain.MissingFieldError{Field: "City"}
	}
	if anchor.Rating == nil {
		return fv, &domain.MissingFieldError{Field: "Rating"}
	}

	user := s.store.UserAggregate(int64(userID))
	attraction := s.store.AttractionAggregate(int64(attractionID))
	city := s.store.CityAggregate(anchor.City)

	monthSin, monthCos := cyclicalMonth(anchor)

	fv = domain.FeatureVector{
		continentID,
		regionID,
		countryID,
		optF(f64p(anchor.CityID)),
		attractionID,
		typeID,
		optF(anchor.VisitYearMonth),
		user.Avg,
		float64(user.Count),
		attraction.Avg,
		float64(attraction.Count),
		city.Avg,
		float64(city.Count),
		optF(anchor.UserTotalVisits),
		optF(anchor.UserPreferredType),
		monthSin,
		monthCos,
		optF(anchor.AttractionVisitRatio),
		optF(anchor.MonthRatio),
		optF(anchor.MonthCity),
		optF(anchor.RatingRatio),
		optF(anchor.AttractionAvgHist),
		optF(anchor.UserTypeAvgRatingHist),
	}
	return fv, nil
}

// cyclicalMonth encodes the anchor's month on the unit circle so month 12
// and month 1 come out adjacent. Prefers VisitMonth, falls back to the raw
// Visit_YearMonth value (matching the trained model's features), then 1.
func cyclicalMonth(v domain.Visit) (sin, cos float64) {
	month := 1.0
	switch {
	case v.VisitMonth != nil:
		month = float64(*v.VisitMonth)
	case v.VisitYearMonth != nil:
		month = *v.VisitYearMonth
	}
	return math.Sin(2 * math.Pi * month / 12), math.Cos(2 * math.Pi * month / 12)
}

func required(p *int64, field string) (float64, error) {
	if p == nil {
		return 0, &domain.MissingFieldError{Field: field}
	}
	return float64(*p), nil
}

func optF(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func f64p(p *int64) *float64 {
	if p == nil {
		return nil
	}
	f := float64(*p)
	return &f
}
