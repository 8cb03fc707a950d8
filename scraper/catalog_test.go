// scraper/catalog_test.go
package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ivonin/evelop-search/config"
)

const homePage = `<html><head><script>
var routesWebSale = {"MAD": ["BCN", "TFN"], "BCN": ["MAD"]};var routesWebSaleDates = [{"origin": "MAD", "destination": "BCN", "dates": ["05-06-2024", "12-06-2024"]}, {"origin": "BCN", "destination": "MAD", "dates": ["06-06-2024"]}];var other = {};
</script></head><body></body></html>`

func serveHomePage(t *testing.T, body string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	config.AppConfig.EvelopURLs.HomePage = srv.URL
}

func TestLoadRoutes(t *testing.T) {
	serveHomePage(t, homePage)

	catalog, err := LoadRoutes(context.Background())
	if err != nil {
		t.Fatalf("LoadRoutes: %v", err)
	}

	if !catalog.Has("MAD") || !catalog.Has("BCN") {
		t.Errorf("catalog origins missing: %v", catalog)
	}
	if catalog.Has("TFN") {
		t.Error("TFN is a destination only and must not appear as an origin")
	}
	if !catalog.Reachable("MAD", "TFN") {
		t.Error("MAD-TFN should be reachable")
	}
	if catalog.Reachable("BCN", "TFN") {
		t.Error("BCN-TFN should not be reachable")
	}
}

func TestLoadRoutesMissingTableIsFatal(t *testing.T) {
	serveHomePage(t, `<html><body>under maintenance</body></html>`)

	if _, err := LoadRoutes(context.Background()); err == nil {
		t.Fatal("expected an error when the embedded routes table is missing")
	}
}

func TestLoadDatesFeed(t *testing.T) {
	serveHomePage(t, homePage)

	feed, err := LoadDatesFeed(context.Background())
	if err != nil {
		t.Fatalf("LoadDatesFeed: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("got %d feed entries, want 2", len(feed))
	}

	first := feed[0]
	if first.Origin != "MAD" || first.Destination != "BCN" {
		t.Errorf("first entry route = %s-%s, want MAD-BCN", first.Origin, first.Destination)
	}
	if len(first.Dates) != 2 || first.Dates[0] != "05-06-2024" {
		t.Errorf("first entry dates = %v", first.Dates)
	}
}
