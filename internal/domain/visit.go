package domain

// Visit is one row of the tourism dataset: one user rating one attraction
// during one trip. Pointer fields are optional columns; a nil optional
// contributes 0 to the feature vector, a nil required field is a
// MissingFieldError at assembly time.
type Visit struct {
	ContinentID      *int64
	RegionID         *int64
	CountryID        *int64
	CityID           *int64
	AttractionID     *int64
	AttractionTypeID *int64
	UserID           *int64
	VisitYearMonth   *float64
	VisitMonth       *int
	Rating           *float64

	Continent  string
	Country    string
	City       string
	Attraction string

	// Precomputed engineered columns; absent in many exports.
	UserTotalVisits       *float64
	UserPreferredType     *float64
	AttractionVisitRatio  *float64
	MonthRatio            *float64
	MonthCity             *float64
	RatingRatio           *float64
	AttractionAvgHist     *float64
	UserTypeAvgRatingHist *float64
}

// Selection is the (continent, country, city) triple chosen through the
// cascade. It identifies at least one Visit when produced by the cascade
// endpoints; the anchor lookup still checks.
type Selection struct {
	Continent string `json:"continent"`
	Country   string `json:"country"`
	City      string `json:"city"`
}
