package mysql

// row_seq is the record's position in the source file. Reads order by it,
// which keeps the anchor lookup's "first match" identical to the file
// order even when batches were inserted concurrently.

const insertVisitsPrefix = `INSERT INTO visits
  (row_seq,
   continent_id, region_id, country_id, city_id, attraction_id, attraction_type_id,
   user_id, visit_year_month, visit_month, rating,
   continent, country, city, attraction,
   user_total_visits, user_preferred_type, attraction_visit_ratio,
   month_ratio, month_city, rating_ratio, attraction_avg_hist, user_type_avg_hist)
VALUES `

const loadVisitsSQL = `
SELECT
  continent_id, region_id, country_id, city_id, attraction_id, attraction_type_id,
  user_id, visit_year_month, visit_month, rating,
  continent, country, city, attraction,
  user_total_visits, user_preferred_type, attraction_visit_ratio,
  month_ratio, month_city, rating_ratio, attraction_avg_hist, user_type_avg_hist
FROM visits
ORDER BY row_seq
`
