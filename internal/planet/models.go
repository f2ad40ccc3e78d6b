package planet

import "math"

// Planet is a habitable candidate retained from the Kepler dataset.
type Planet struct {
	KeplerName string `json:"keplerName" db:"kepler_name"`
}

const (
	confirmedDisposition = "CONFIRMED"
	minInsolation        = 0.36
	maxInsolation        = 1.11
	maxRadius            = 1.6
)

// DatasetRow is one record of the Kepler objects of interest table. Numeric columns that
// do not parse are NaN, which never satisfies the habitability bounds.
type DatasetRow struct {
	Line        int
	KeplerName  string
	Disposition string
	Insolation  float64
	Radius      float64
}

// IsHabitable applies the catalog predicate: a confirmed planet receiving between 0.36 and
// 1.11 times Earth's insolation with a radius under 1.6 Earth radii. Bounds are exclusive.
func IsHabitable(row DatasetRow) bool {
	if row.Disposition != confirmedDisposition {
		return false
	}
	if math.IsNaN(row.Insolation) || math.IsNaN(row.Radius) {
		return false
	}
	return row.Insolation > minInsolation &&
		row.Insolation < maxInsolation &&
		row.Radius < maxRadius
}
