package domain

// FeatureDim is the input width the model was trained on. The order of
// FeatureVector is a contract with the model artifact: reordering breaks
// predictions silently, since any same-length vector is accepted.
const FeatureDim = 23

// FeatureVector is the fixed-order numeric input to the model oracle.
//
// Index layout:
//
//	 0 ContinentId            12 city_visit_count
//	 1 RegionId               13 user_total_visits
//	 2 CountryId              14 user_preferred_attraction_type
//	 3 CityId                 15 visit_month_sin
//	 4 AttractionId           16 visit_month_cos
//	 5 AttractionTypeId       17 attraction_visit_ratio
//	 6 Visit_YearMonth        18 month_ratio
//	 7 user_avg_rating        19 month_city
//	 8 user_rating_count      20 rating_ratio
//	 9 attraction_avg_rating  21 Attraction_Avg_Rating_Hist
//	10 attraction_visit_count 22 User_Type_Avg_Rating_Hist
//	11 city_avg_rating
type FeatureVector [FeatureDim]float64

// AttractionRating is one row of a recommendation table.
type AttractionRating struct {
	Attraction string  `json:"attraction"`
	Rating     float64 `json:"rating"`
}

// PredictionResult is what a successful predict trigger produces: the
// predicted visit mode plus the recommendation table for the selected city.
type PredictionResult struct {
	VisitMode       string             `json:"visitMode"`
	CityAttractions []AttractionRating `json:"cityAttractions"`
}
