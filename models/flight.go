// models/flight.go
package models

import "strings"

// FlightType mirrors the route-type values the booking site expects on the wire.
type FlightType string

const (
	OneWay    FlightType = "ONE_WAY"
	RoundTrip FlightType = "ROUND_TRIP"
)

// SearchParams holds one validated search request. Dates stay textual
// (dd/mm/yyyy style) because they are passed through to the remote form
// verbatim; the validator is responsible for checking them first.
type SearchParams struct {
	FlightType FlightType
	DepCity    string
	ArrCity    string
	DepDate    string
	RetDate    string
	Adults     int
	Children   int
	Infants    int
}

// Normalize uppercases the city codes and flight type and, for one-way
// searches, mirrors the departure date into the return date field the way
// the remote form requires.
func (p *SearchParams) Normalize() {
	p.FlightType = FlightType(strings.ToUpper(string(p.FlightType)))
	p.DepCity = strings.ToUpper(strings.TrimSpace(p.DepCity))
	p.ArrCity = strings.ToUpper(strings.TrimSpace(p.ArrCity))
	if p.FlightType == OneWay {
		p.RetDate = p.DepDate
	}
}

// Selection is the opaque token the remote system assigns to a displayed
// leg. One-way results carry only FlightID; round-trip results also carry a
// direction marker because the remote protocol distinguishes outbound vs
// return selections structurally.
type Selection struct {
	FlightID  string `json:"-"`
	Direction string `json:"-"`
}

// FlightLeg is one scheduled flight segment as extracted from the results
// page. Immutable once built.
type FlightLeg struct {
	DepCity    string    `json:"dep_city"`
	ArrCity    string    `json:"arr_city"`
	DepTime    string    `json:"dep_time"`
	ArrTime    string    `json:"arr_time"`
	Duration   string    `json:"flight_time"`
	CabinClass string    `json:"cabin_class"`
	Date       string    `json:"date"`
	Selection  Selection `json:"-"`
}

// Price keeps amount and currency symbol as strings. The source format
// varies by trip type, so no numeric coercion is safe at this layer.
// An empty Amount means the price could not be resolved for the itinerary.
type Price struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

// Quote is one itinerary: a single outbound leg for one-way searches, an
// outbound/return pair for round trips, plus the resolved price.
type Quote struct {
	Outbound FlightLeg  `json:"outbound"`
	Return   *FlightLeg `json:"return,omitempty"`
	Price    Price      `json:"price"`
}
