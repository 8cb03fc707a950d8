// scraper/search_test.go
package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/ivonin/evelop-search/config"
	"github.com/ivonin/evelop-search/models"
)

func TestFetchResultsPageSendsTheFixedFieldTable(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		form = r.PostForm
		http.SetCookie(w, &http.Cookie{Name: "IDSESION", Value: "SESS42"})
		w.Write([]byte("<html><body></body></html>"))
	}))
	defer srv.Close()
	config.AppConfig.EvelopURLs.AvailabilitySubmit = srv.URL

	sess, err := NewSession(5 * time.Second)
	if err != nil {
		t.Fatal(err)
	}

	params := &models.SearchParams{
		FlightType: models.RoundTrip,
		DepCity:    "MAD", ArrCity: "TFN",
		DepDate: "05/06/2024", RetDate: "12/06/2024",
		Adults: 2, Children: 1, Infants: 1,
	}
	if _, err := FetchResultsPage(context.Background(), sess, params); err != nil {
		t.Fatalf("FetchResultsPage: %v", err)
	}

	// The field names are the remote system's contract.
	want := map[string]string{
		"buscadorVuelosEsb.tipoTransicion": "S",
		"buscadorVuelosEsb.routeType":      "ROUND_TRIP",
		"buscadorVuelosEsb.origen":         "MAD",
		"buscadorVuelosEsb.destino":        "TFN",
		"buscadorVuelosEsb.fsalida":        "05/06/2024",
		"buscadorVuelosEsb.fregreso":       "12/06/2024",
		"buscadorVuelosEsb.numadultos":     "2",
		"buscadorVuelosEsb.numninos":       "1",
		"buscadorVuelosEsb.numbebes":       "1",
	}
	for field, value := range want {
		if got := form.Get(field); got != value {
			t.Errorf("form field %s = %q, want %q", field, got, value)
		}
	}
	if len(form) != len(want) {
		t.Errorf("form has %d fields, want %d: %v", len(form), len(want), form)
	}

	if sess.ID() != "SESS42" {
		t.Errorf("session ID = %q, want the remote-assigned SESS42", sess.ID())
	}
}

func TestSessionRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	}))
	defer srv.Close()

	sess, err := NewSession(5 * time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := sess.Get(context.Background(), srv.URL, nil); err == nil {
		t.Error("expected an error for a non-200 response")
	}
}
