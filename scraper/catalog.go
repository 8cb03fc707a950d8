// scraper/catalog.go
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ivonin/evelop-search/config"
	"github.com/ivonin/evelop-search/models"
)

// The home page embeds one script blob with both the sale-routes table and
// the per-route date list, separated by a semicolon:
//
//	routesWebSale = {"MAD": ["BCN", ...], ...};[{"origin": ..., "dates": [...]}, ...]
var (
	routesBlobRe = regexp.MustCompile(`routesWebSale = ({.+});`)
	datesArrayRe = regexp.MustCompile(`\[.+\]`)
)

func fetchHomePage(ctx context.Context) (string, error) {
	pageURL := config.AppConfig.EvelopURLs.HomePage

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", pageURL, err)
	}

	client := http.Client{Timeout: config.AppConfig.HTTP.Timeout}
	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get URL %s: %w", pageURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get URL %s: status code %d", pageURL, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body of %s: %w", pageURL, err)
	}
	return string(body), nil
}

// LoadRoutes fetches the home page once and extracts the embedded
// origin → destinations table. A missing table is an environment
// precondition failure: without the catalog nothing can be validated, so
// the caller is expected to treat this as fatal rather than retry.
func LoadRoutes(ctx context.Context) (models.RouteCatalog, error) {
	body, err := fetchHomePage(ctx)
	if err != nil {
		return nil, err
	}

	blob := routesBlobRe.FindStringSubmatch(body)
	if blob == nil {
		return nil, fmt.Errorf("routesWebSale table not found on %s", config.AppConfig.EvelopURLs.HomePage)
	}

	catalogJSON := strings.SplitN(blob[1], ";", 2)[0]

	var catalog models.RouteCatalog
	if err := json.Unmarshal([]byte(catalogJSON), &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode routesWebSale table: %w", err)
	}

	log.Printf("Loaded route catalog with %d origins.\n", len(catalog))
	return catalog, nil
}

// LoadDatesFeed extracts the live weekly-availability feed from the same
// embedded blob: one entry per route with every operating date.
func LoadDatesFeed(ctx context.Context) ([]models.FeedEntry, error) {
	body, err := fetchHomePage(ctx)
	if err != nil {
		return nil, err
	}

	blob := routesBlobRe.FindStringSubmatch(body)
	if blob == nil {
		return nil, fmt.Errorf("routesWebSale table not found on %s", config.AppConfig.EvelopURLs.HomePage)
	}

	parts := strings.SplitN(blob[1], ";", 2)
	if len(parts) < 2 {
		return nil, fmt.Errorf("dates feed segment missing from routesWebSale blob")
	}

	feedJSON := datesArrayRe.FindString(parts[1])
	if feedJSON == "" {
		return nil, fmt.Errorf("dates feed array not found in routesWebSale blob")
	}

	var feed []models.FeedEntry
	if err := json.Unmarshal([]byte(feedJSON), &feed); err != nil {
		return nil, fmt.Errorf("failed to decode dates feed: %w", err)
	}

	log.Printf("Loaded dates feed with %d route entries.\n", len(feed))
	return feed, nil
}
