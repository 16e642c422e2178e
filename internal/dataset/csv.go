package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"tourmode/internal/domain"
)

/********** column alias registry (single source of truth) **********/

// Exports of the dataset vary in header casing and separators; each
// canonical column accepts a few spellings. Matching is done on the
// normalized form (lowercase, separators stripped).
var columnAliases = map[string][]string{
	"ContinentId":                    {"ContinentId", "continent_id"},
	"RegionId":                       {"RegionId", "region_id"},
	"CountryId":                      {"CountryId", "country_id"},
	"CityId":                         {"CityId", "city_id"},
	"AttractionId":                   {"AttractionId", "attraction_id"},
	"AttractionTypeId":               {"AttractionTypeId", "attraction_type_id"},
	"UserId":                         {"UserId", "user_id"},
	"VisitMonth":                     {"VisitMonth", "visit_month"},
	"Visit_YearMonth":                {"Visit_YearMonth", "VisitYearMonth", "visit_year_month"},
	"Rating":                         {"Rating", "rating"},
	"Continent":                      {"Continent", "continent"},
	"Country":                        {"Country", "country"},
	"City":                           {"City", "city_name", "CityName"},
	"Attraction":                     {"Attraction", "attraction", "AttractionName"},
	"user_total_visits":              {"user_total_visits", "UserTotalVisits"},
	"user_preferred_attraction_type": {"user_preferred_attraction_type", "UserPreferredAttractionType"},
	"attraction_visit_ratio":         {"attraction_visit_ratio", "AttractionVisitRatio"},
	"month_ratio":                    {"month_ratio", "MonthRatio"},
	"month_city":                     {"month_city", "MonthCity"},
	"rating_ratio":                   {"rating_ratio", "RatingRatio"},
	"Attraction_Avg_Rating_Hist":     {"Attraction_Avg_Rating_Hist", "attraction_avg_rating_hist"},
	"User_Type_Avg_Rating_Hist":      {"User_Type_Avg_Rating_Hist", "user_type_avg_rating_hist"},
}

// Columns every record must carry; the loader refuses a file without them.
var requiredColumns = []string{
	"Continent", "Country", "City", "UserId", "AttractionId", "Rating",
}

var optionalColumns = []string{
	"ContinentId", "RegionId", "CountryId", "CityId", "AttractionTypeId",
	"VisitMonth", "Visit_YearMonth", "Attraction",
	"user_total_visits", "user_preferred_attraction_type",
	"attraction_visit_ratio", "month_ratio", "month_city", "rating_ratio",
	"Attraction_Avg_Rating_Hist", "User_Type_Avg_Rating_Hist",
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", "")
	h = strings.ReplaceAll(h, " ", "")
	return h
}

// columnIndex maps canonical column name -> position in the header row,
// resolved through the alias registry. Absent columns are simply missing
// from the map.
func columnIndex(header []string) map[string]int {
	byNorm := make(map[string]int, len(header))
	for i, h := range header {
		byNorm[normalizeHeader(h)] = i
	}
	idx := make(map[string]int)
	for canon, aliases := range columnAliases {
		for _, a := range aliases {
			if i, ok := byNorm[normalizeHeader(a)]; ok {
				idx[canon] = i
				break
			}
		}
	}
	return idx
}

/********** value coercion **********/

// parseFloat accepts plain numbers and comma-decimal exports ("4,5").
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func cellF64(rec []string, idx map[string]int, col string) *float64 {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return nil
	}
	if f, ok := parseFloat(rec[i]); ok {
		return &f
	}
	return nil
}

func cellInt64(rec []string, idx map[string]int, col string) *int64 {
	if f := cellF64(rec, idx, col); f != nil {
		n := int64(*f)
		return &n
	}
	return nil
}

func cellStr(rec []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

/********** loading **********/

// LoadCSV reads the dataset file and builds the immutable store.
func LoadCSV(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	vs, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return New(vs), nil
}

// ReadCSV parses visit records from r. The first row is the header; rows
// with an empty required field are skipped (counted, logged once).
func ReadCSV(r io.Reader) ([]domain.Visit, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := columnIndex(header)
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, &domain.MissingFieldError{Field: col}
		}
	}

	var missingOptional []string
	for _, col := range optionalColumns {
		if _, ok := idx[col]; !ok {
			missingOptional = append(missingOptional, col)
		}
	}
	if len(missingOptional) > 0 {
		log.Info().Strs("columns", missingOptional).Msg("optional dataset columns absent, features default to 0")
	}

	var out []domain.Visit
	skipped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		v := domain.Visit{
			ContinentID:      cellInt64(rec, idx, "ContinentId"),
			RegionID:         cellInt64(rec, idx, "RegionId"),
			CountryID:        cellInt64(rec, idx, "CountryId"),
			CityID:           cellInt64(rec, idx, "CityId"),
			AttractionID:     cellInt64(rec, idx, "AttractionId"),
			AttractionTypeID: cellInt64(rec, idx, "AttractionTypeId"),
			UserID:           cellInt64(rec, idx, "UserId"),
			VisitYearMonth:   cellF64(rec, idx, "Visit_YearMonth"),
			Rating:           cellF64(rec, idx, "Rating"),

			Continent:  cellStr(rec, idx, "Continent"),
			Country:    cellStr(rec, idx, "Country"),
			City:       cellStr(rec, idx, "City"),
			Attraction: cellStr(rec, idx, "Attraction"),

			UserTotalVisits:       cellF64(rec, idx, "user_total_visits"),
			UserPreferredType:     cellF64(rec, idx, "user_preferred_attraction_type"),
			AttractionVisitRatio:  cellF64(rec, idx, "attraction_visit_ratio"),
			MonthRatio:            cellF64(rec, idx, "month_ratio"),
			MonthCity:             cellF64(rec, idx, "month_city"),
			RatingRatio:           cellF64(rec, idx, "rating_ratio"),
			AttractionAvgHist:     cellF64(rec, idx, "Attraction_Avg_Rating_Hist"),
			UserTypeAvgRatingHist: cellF64(rec, idx, "User_Type_Avg_Rating_Hist"),
		}
		if m := cellInt64(rec, idx, "VisitMonth"); m != nil {
			mi := int(*m)
			v.VisitMonth = &mi
		}

		if v.Continent == "" || v.Country == "" || v.City == "" || v.UserID == nil || v.AttractionID == nil {
			skipped++
			continue
		}
		out = append(out, v)
	}
	if skipped > 0 {
		log.Warn().Int("rows", skipped).Msg("skipped rows with empty required fields")
	}
	return out, nil
}
