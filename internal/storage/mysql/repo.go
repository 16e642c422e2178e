package mysql

import (
	"context"
	"database/sql"
	"strings"

	"tourmode/internal/domain"
)

func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) InsertVisits(ctx context.Context, seq int, vs []domain.Visit) error {
	if len(vs) == 0 {
		return nil
	}
	values := make([]string, 0, len(vs))
	args := make([]any, 0, len(vs)*23) // 23 params per row
	for i, v := range vs {
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			seq+i,
			valInt64(v.ContinentID),
			valInt64(v.RegionID),
			valInt64(v.CountryID),
			valInt64(v.CityID),
			valInt64(v.AttractionID),
			valInt64(v.AttractionTypeID),
			valInt64(v.UserID),
			valF64(v.VisitYearMonth),
			valInt(v.VisitMonth),
			valF64(v.Rating),
			v.Continent,
			v.Country,
			v.City,
			v.Attraction,
			valF64(v.UserTotalVisits),
			valF64(v.UserPreferredType),
			valF64(v.AttractionVisitRatio),
			valF64(v.MonthRatio),
			valF64(v.MonthCity),
			valF64(v.RatingRatio),
			valF64(v.AttractionAvgHist),
			valF64(v.UserTypeAvgRatingHist),
		)
	}
	sqlStr := insertVisitsPrefix + strings.Join(values, ",")
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) LoadVisits(ctx context.Context) ([]domain.Visit, error) {
	rows, err := r.db.QueryContext(ctx, loadVisitsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Visit
	for rows.Next() {
		var v domain.Visit
		var (
			continentID, regionID, countryID, cityID sql.NullInt64
			attractionID, typeID, userID             sql.NullInt64
			yearMonth, rating                        sql.NullFloat64
			visitMonth                               sql.NullInt64
			continent, country, city, attraction     sql.NullString
			totalVisits, prefType, visitRatio        sql.NullFloat64
			monthRatio, monthCity, ratingRatio       sql.NullFloat64
			attractionAvgHist, userTypeAvgHist       sql.NullFloat64
		)
		if err := rows.Scan(
			&continentID, &regionID, &countryID, &cityID, &attractionID, &typeID,
			&userID, &yearMonth, &visitMonth, &rating,
			&continent, &country, &city, &attraction,
			&totalVisits, &prefType, &visitRatio,
			&monthRatio, &monthCity, &ratingRatio, &attractionAvgHist, &userTypeAvgHist,
		); err != nil {
			return nil, err
		}

		v.ContinentID = nullInt64(continentID)
		v.RegionID = nullInt64(regionID)
		v.CountryID = nullInt64(countryID)
		v.CityID = nullInt64(cityID)
		v.AttractionID = nullInt64(attractionID)
		v.AttractionTypeID = nullInt64(typeID)
		v.UserID = nullInt64(userID)
		v.VisitYearMonth = nullF64(yearMonth)
		v.Rating = nullF64(rating)
		if visitMonth.Valid {
			m := int(visitMonth.Int64)
			v.VisitMonth = &m
		}
		v.Continent = continent.String
		v.Country = country.String
		v.City = city.String
		v.Attraction = attraction.String
		v.UserTotalVisits = nullF64(totalVisits)
		v.UserPreferredType = nullF64(prefType)
		v.AttractionVisitRatio = nullF64(visitRatio)
		v.MonthRatio = nullF64(monthRatio)
		v.MonthCity = nullF64(monthCity)
		v.RatingRatio = nullF64(ratingRatio)
		v.AttractionAvgHist = nullF64(attractionAvgHist)
		v.UserTypeAvgRatingHist = nullF64(userTypeAvgHist)

		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullF64(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
