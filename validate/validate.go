// validate/validate.go
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ivonin/evelop-search/models"
	"github.com/ivonin/evelop-search/utils"
)

// Kind classifies a validation failure so callers can react per field.
type Kind string

const (
	InvalidFlightType     Kind = "invalid_flight_type"
	InvalidRoute          Kind = "invalid_route"
	InvalidDate           Kind = "invalid_date"
	InvalidPassengerCount Kind = "invalid_passenger_count"
)

// Error carries the failure class plus a human-readable diagnostic. These
// are always recoverable: the caller reports the reason and may retry with
// corrected input. Nothing here is ever silently corrected.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func errf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// dateRe accepts dd.mm.yyyy, dd-mm-yyyy and dd/mm/yyyy.
var dateRe = regexp.MustCompile(`\b(\d{2})[./-](\d{2})[./-](\d{4})\b`)

// FlightType checks the trip type against the two values the booking site
// understands, case-insensitively.
func FlightType(flightType string) *Error {
	switch strings.ToUpper(strings.TrimSpace(flightType)) {
	case string(models.OneWay), string(models.RoundTrip):
		return nil
	}
	return errf(InvalidFlightType,
		"incorrect flight type %q: must be ONE_WAY or ROUND_TRIP", flightType)
}

// Route checks that both codes exist in the catalog, that the arrival city
// is reachable from the departure city, and that the two differ.
func Route(catalog models.RouteCatalog, depCity, arrCity string) *Error {
	dep := utils.NormalizeCityCode(depCity)
	arr := utils.NormalizeCityCode(arrCity)

	if !catalog.Has(dep) {
		return errf(InvalidRoute, "incorrect departure city %q", depCity)
	}
	if dep == arr {
		return errf(InvalidRoute, "departure city must not be the same as arrival city")
	}
	if !catalog.Reachable(dep, arr) {
		return errf(InvalidRoute, "no route from %s to %s", dep, arr)
	}
	return nil
}

// Dates checks each date in order: it must match a dd.mm.yyyy pattern, be a
// real calendar date, and be strictly later than the previous reference
// point, starting from today. Malformed and out-of-order input get distinct
// diagnostics.
func Dates(dates ...string) *Error {
	return datesFrom(time.Now(), dates...)
}

func datesFrom(now time.Time, dates ...string) *Error {
	reference := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for _, raw := range dates {
		m := dateRe.FindStringSubmatch(raw)
		if m == nil {
			return errf(InvalidDate, "incorrect date %q: expected dd/mm/yyyy", raw)
		}
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])

		parsed, err := time.Parse("2-1-2006", fmt.Sprintf("%d-%d-%d", day, month, year))
		if err != nil {
			return errf(InvalidDate, "the date value %q is invalid", raw)
		}
		if !parsed.After(reference) {
			return errf(InvalidDate,
				"departure date must be later than today and return date later than departure date")
		}
		reference = parsed
	}
	return nil
}

// Passengers coerces the three counts to integers and enforces the cabin
// rules: 1..9 adults, non-negative children with adults+children <= 9, and
// at most min(adults, 5) infants.
func Passengers(adults, children, infants string) *Error {
	a, err := strconv.Atoi(strings.TrimSpace(adults))
	if err != nil {
		return errf(InvalidPassengerCount, "number of adults must be an integer")
	}
	c, err := strconv.Atoi(strings.TrimSpace(children))
	if err != nil {
		return errf(InvalidPassengerCount, "number of children must be an integer")
	}
	i, err := strconv.Atoi(strings.TrimSpace(infants))
	if err != nil {
		return errf(InvalidPassengerCount, "number of infants must be an integer")
	}

	if a <= 0 || a > 9 {
		return errf(InvalidPassengerCount, "number of adults must be between 1 and 9")
	}
	if c < 0 || a+c > 9 {
		return errf(InvalidPassengerCount,
			"number of children must be non-negative and adults plus children must not exceed 9")
	}
	if i < 0 || i > a || i > 5 {
		return errf(InvalidPassengerCount,
			"number of infants must be between 0 and min(number of adults, 5)")
	}
	return nil
}

// SearchParams runs every check in order against a raw request and returns
// the assembled, normalized parameters. One-way requests validate only the
// departure date and mirror it into the return date.
func SearchParams(catalog models.RouteCatalog, req models.SearchRequest) (*models.SearchParams, *Error) {
	if err := FlightType(req.FlightType); err != nil {
		return nil, err
	}
	if err := Route(catalog, req.DepCity, req.ArrCity); err != nil {
		return nil, err
	}

	flightType := models.FlightType(strings.ToUpper(strings.TrimSpace(req.FlightType)))
	if flightType == models.RoundTrip {
		if err := Dates(req.DepDate, req.RetDate); err != nil {
			return nil, err
		}
	} else {
		if err := Dates(req.DepDate); err != nil {
			return nil, err
		}
	}

	if err := Passengers(req.Adults, req.Children, req.Infants); err != nil {
		return nil, err
	}

	a, _ := strconv.Atoi(strings.TrimSpace(req.Adults))
	c, _ := strconv.Atoi(strings.TrimSpace(req.Children))
	i, _ := strconv.Atoi(strings.TrimSpace(req.Infants))

	params := &models.SearchParams{
		FlightType: flightType,
		DepCity:    req.DepCity,
		ArrCity:    req.ArrCity,
		DepDate:    req.DepDate,
		RetDate:    req.RetDate,
		Adults:     a,
		Children:   c,
		Infants:    i,
	}
	params.Normalize()
	return params, nil
}
