// services/search_service_test.go
package services

import (
	"testing"

	"github.com/ivonin/evelop-search/models"
)

func leg(id, dep, arr string) models.FlightLeg {
	return models.FlightLeg{
		DepCity:   dep,
		ArrCity:   arr,
		Selection: models.Selection{FlightID: id},
	}
}

func TestBuildRoundTripQuotesCrossProduct(t *testing.T) {
	outbound := []models.FlightLeg{
		leg("ob1", "MAD", "TFN"),
		leg("ob2", "MAD", "TFN"),
	}
	inbound := []models.FlightLeg{
		leg("ib1", "TFN", "MAD"),
		leg("ib2", "TFN", "MAD"),
		leg("ib3", "TFN", "MAD"),
	}

	quotes := BuildRoundTripQuotes(outbound, inbound)
	if len(quotes) != 6 {
		t.Fatalf("got %d quotes, want 6", len(quotes))
	}

	// Outbound-major, return-minor, in extraction order.
	wantPairs := [][2]string{
		{"ob1", "ib1"}, {"ob1", "ib2"}, {"ob1", "ib3"},
		{"ob2", "ib1"}, {"ob2", "ib2"}, {"ob2", "ib3"},
	}
	seen := map[[2]string]bool{}
	for i, q := range quotes {
		if q.Return == nil {
			t.Fatalf("quote %d has no return leg", i)
		}
		pair := [2]string{q.Outbound.Selection.FlightID, q.Return.Selection.FlightID}
		if pair != wantPairs[i] {
			t.Errorf("quote %d is %v, want %v", i, pair, wantPairs[i])
		}
		if seen[pair] {
			t.Errorf("pair %v emitted twice", pair)
		}
		seen[pair] = true
	}
}

func TestBuildRoundTripQuotesEmptyInput(t *testing.T) {
	if got := BuildRoundTripQuotes(nil, []models.FlightLeg{leg("ib1", "TFN", "MAD")}); len(got) != 0 {
		t.Errorf("no outbound legs should yield no quotes, got %d", len(got))
	}
	if got := BuildRoundTripQuotes([]models.FlightLeg{leg("ob1", "MAD", "TFN")}, nil); len(got) != 0 {
		t.Errorf("no return legs should yield no quotes, got %d", len(got))
	}
}

func TestBuildRoundTripQuotesReturnLegsAreIndependent(t *testing.T) {
	outbound := []models.FlightLeg{leg("ob1", "MAD", "TFN"), leg("ob2", "MAD", "TFN")}
	inbound := []models.FlightLeg{leg("ib1", "TFN", "MAD")}

	quotes := BuildRoundTripQuotes(outbound, inbound)
	quotes[0].Return.DepTime = "mutated"
	if quotes[1].Return.DepTime == "mutated" {
		t.Error("quotes share a return-leg pointer")
	}
}
