// models/api_models.go
package models

// SearchRequest is the expected JSON body for the /api/flights/search endpoint.
// Passenger counts arrive as strings on purpose: the validator owns the
// integer coercion and rejects non-numeric input with a diagnostic.
type SearchRequest struct {
	FlightType string `json:"flight_type"` // "ONE_WAY" or "ROUND_TRIP"
	DepCity    string `json:"dep_city"`    // e.g. "MAD"
	ArrCity    string `json:"arr_city"`    // e.g. "BCN"
	DepDate    string `json:"dep_date"`    // dd/mm/yyyy
	RetDate    string `json:"ret_date"`    // dd/mm/yyyy, round trip only
	Adults     string `json:"adults"`
	Children   string `json:"children"`
	Infants    string `json:"infants"`
}

// ScheduleResponse wraps a schedule lookup so "route not available" is an
// explicit payload rather than an error.
type ScheduleResponse struct {
	Available bool            `json:"available"`
	Schedule  *ScheduleRecord `json:"schedule,omitempty"`
}
