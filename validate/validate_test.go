// validate/validate_test.go
package validate

import (
	"testing"
	"time"

	"github.com/ivonin/evelop-search/models"
)

func TestFlightType(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"ONE_WAY", true},
		{"round_trip", true},
		{"Round_Trip", true},
		{"RETURN", false},
		{"", false},
		{"ONEWAY", false},
	}
	for _, tt := range tests {
		err := FlightType(tt.in)
		if (err == nil) != tt.valid {
			t.Errorf("FlightType(%q): got %v, want valid=%v", tt.in, err, tt.valid)
		}
		if err != nil && err.Kind != InvalidFlightType {
			t.Errorf("FlightType(%q): kind = %s, want %s", tt.in, err.Kind, InvalidFlightType)
		}
	}
}

func TestRoute(t *testing.T) {
	catalog := models.RouteCatalog{
		"MAD": {"BCN", "TFN"},
		"BCN": {"MAD"},
		"TFN": {},
	}

	tests := []struct {
		dep, arr string
		valid    bool
	}{
		{"MAD", "BCN", true},
		{"mad", "bcn", true}, // codes are normalized before lookup
		{"BCN", "MAD", true},
		{"MAD", "MAD", false}, // same city, even though both exist
		{"MAD", "LIS", false}, // unknown destination
		{"LIS", "MAD", false}, // unknown origin
		{"TFN", "BCN", false}, // origin known but arr not reachable
	}
	for _, tt := range tests {
		err := Route(catalog, tt.dep, tt.arr)
		if (err == nil) != tt.valid {
			t.Errorf("Route(%s, %s): got %v, want valid=%v", tt.dep, tt.arr, err, tt.valid)
		}
	}
}

func TestDates(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		dates []string
		valid bool
	}{
		{"future one-way", []string{"05/06/2024"}, true},
		{"dotted separator", []string{"05.06.2024"}, true},
		{"dashed separator", []string{"05-06-2024"}, true},
		{"ordered round trip", []string{"05/06/2024", "12/06/2024"}, true},
		{"today is too early", []string{"01/06/2024"}, false},
		{"past date", []string{"01/01/2024"}, false},
		{"return before departure", []string{"12/06/2024", "05/06/2024"}, false},
		{"return equals departure", []string{"05/06/2024", "05/06/2024"}, false},
		{"malformed", []string{"2024-06-05"}, false},
		{"garbage", []string{"soon"}, false},
		{"impossible day", []string{"31/02/2024"}, false},
		{"empty", []string{""}, false},
	}
	for _, tt := range tests {
		err := datesFrom(now, tt.dates...)
		if (err == nil) != tt.valid {
			t.Errorf("%s: datesFrom(%v) = %v, want valid=%v", tt.name, tt.dates, err, tt.valid)
		}
	}
}

func TestDatesDiagnosticsDiffer(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	malformed := datesFrom(now, "not-a-date")
	outOfOrder := datesFrom(now, "12/06/2024", "05/06/2024")
	if malformed == nil || outOfOrder == nil {
		t.Fatal("expected both inputs to be rejected")
	}
	if malformed.Message == outOfOrder.Message {
		t.Errorf("malformed and out-of-order input share a diagnostic: %q", malformed.Message)
	}
}

func TestPassengers(t *testing.T) {
	tests := []struct {
		adults, children, infants string
		valid                     bool
	}{
		{"2", "1", "2", true},
		{"1", "0", "0", true},
		{"9", "0", "0", true},
		{"4", "5", "4", true},
		{"0", "0", "0", false},  // no adults
		{"10", "0", "0", false}, // too many adults
		{"-1", "0", "0", false},
		{"5", "5", "0", false}, // adults+children over 9
		{"2", "-1", "0", false},
		{"2", "0", "3", false}, // infants over adults
		{"6", "0", "6", false}, // infants over the hard cap of 5
		{"2", "0", "-1", false},
		{"two", "0", "0", false}, // coercion must fail loudly
		{"2", "x", "0", false},
		{"2", "0", "", false},
	}
	for _, tt := range tests {
		err := Passengers(tt.adults, tt.children, tt.infants)
		if (err == nil) != tt.valid {
			t.Errorf("Passengers(%s, %s, %s): got %v, want valid=%v",
				tt.adults, tt.children, tt.infants, err, tt.valid)
		}
	}
}

func TestSearchParamsOneWayMirrorsReturnDate(t *testing.T) {
	catalog := models.RouteCatalog{"MAD": {"BCN"}, "BCN": {"MAD"}}

	depDate := time.Now().AddDate(0, 1, 0).Format("02/01/2006")
	params, err := SearchParams(catalog, models.SearchRequest{
		FlightType: "one_way",
		DepCity:    "mad",
		ArrCity:    "bcn",
		DepDate:    depDate,
		Adults:     "2",
		Children:   "0",
		Infants:    "1",
	})
	if err != nil {
		t.Fatalf("SearchParams: %v", err)
	}
	if params.FlightType != models.OneWay {
		t.Errorf("flight type = %s, want %s", params.FlightType, models.OneWay)
	}
	if params.DepCity != "MAD" || params.ArrCity != "BCN" {
		t.Errorf("cities not normalized: %s-%s", params.DepCity, params.ArrCity)
	}
	if params.RetDate != params.DepDate {
		t.Errorf("one-way return date = %q, want departure date %q", params.RetDate, params.DepDate)
	}
}
