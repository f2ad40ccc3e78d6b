package launch

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 0 // no limit
)

// Pagination selects a window of launches ordered by flight number. A zero Limit
// returns everything from the offset onwards.
type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination coerces raw query values: numbers are taken by absolute value and
// truncated, while empty, zero or non-numeric input falls back to the defaults.
func ParsePagination(page, limit string) Pagination {
	return Pagination{
		Page:  coerce(page, DefaultPage),
		Limit: coerce(limit, DefaultLimit),
	}
}

func (p Pagination) Skip() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

func coerce(raw string, fallback int) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}

	f = math.Abs(f)
	if f > math.MaxInt32 {
		f = math.MaxInt32
	}

	n := int(f)
	if n == 0 {
		return fallback
	}
	return n
}
