package launch

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// BaselineFlightNumber is allocated when no launch has been recorded yet.
const BaselineFlightNumber = 100

// Launch is one mission record, keyed by its flight number.
type Launch struct {
	FlightNumber int       `json:"flightNumber"`
	Mission      string    `json:"mission"`
	Rocket       string    `json:"rocket"`
	Target       string    `json:"target,omitempty"`
	LaunchDate   time.Time `json:"launchDate"`
	Customers    []string  `json:"customers"`
	Upcoming     bool      `json:"upcoming"`
	Success      bool      `json:"success"`
}

// NewLaunch is the user supplied part of a launch. Everything else is assigned by the
// scheduler.
type NewLaunch struct {
	Mission    string `json:"mission"`
	Rocket     string `json:"rocket"`
	Target     string `json:"target"`
	LaunchDate string `json:"launchDate"`
}

// seedSentinel is the first historical launch. Its presence means the provider data has
// already been imported.
var seedSentinel = Launch{
	FlightNumber: 1,
	Rocket:       "Falcon 1",
	Mission:      "FalconSat",
}

// ErrFlightNumberTaken is returned by Store.Insert when the key already exists.
var ErrFlightNumberTaken = stderrors.New("flight number already taken")

type AbortOutcome int

const (
	AbortNotFound AbortOutcome = iota
	AbortAlreadyAborted
	Aborted
)

func (o AbortOutcome) String() string {
	switch o {
	case AbortNotFound:
		return "not_found"
	case AbortAlreadyAborted:
		return "already_aborted"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("abort_outcome(%d)", int(o))
	}
}

var launchDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
}

// ParseLaunchDate accepts ISO 8601 timestamps and dates as well as the long and short
// English month forms. The result is in UTC.
func ParseLaunchDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range launchDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised launch date %q", value)
}
