// services/search_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ivonin/evelop-search/config"
	"github.com/ivonin/evelop-search/models"
	"github.com/ivonin/evelop-search/scraper"
)

// Scrape runs one full search: fresh session, availability submit, leg
// extraction, combination building and price resolution per itinerary.
// Parameters must already have passed validation. An empty slice means no
// availability for the requested dates; an error means the search as a
// whole failed (network or remote-session trouble) and is reported
// per-search rather than crashing the process.
func Scrape(ctx context.Context, params *models.SearchParams) ([]models.Quote, error) {
	searchID := uuid.NewString()
	log.Printf("Service: search %s: %s %s-%s dep %s ret %s (%d/%d/%d pax)\n",
		searchID, params.FlightType, params.DepCity, params.ArrCity,
		params.DepDate, params.RetDate, params.Adults, params.Children, params.Infants)

	// One session per search. The remote side keeps the selection state in
	// the session, so sharing it across searches corrupts both.
	sess, err := scraper.NewSession(config.AppConfig.HTTP.Timeout)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", searchID, err)
	}

	doc, err := scraper.FetchResultsPage(ctx, sess, params)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", searchID, err)
	}

	var quotes []models.Quote
	if params.FlightType == models.OneWay {
		legs, err := scraper.ExtractOneWay(doc, params)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", searchID, err)
		}
		quotes = make([]models.Quote, 0, len(legs))
		for _, leg := range legs {
			price, err := scraper.ResolveOneWayPrice(ctx, sess, params, leg.Selection)
			if err != nil {
				if !errors.Is(err, scraper.ErrPriceUnavailable) {
					return nil, fmt.Errorf("search %s: %w", searchID, err)
				}
				log.Printf("WARN Service: search %s: no price for leg %s-%s %s\n",
					searchID, leg.DepCity, leg.ArrCity, leg.DepTime)
			}
			quotes = append(quotes, models.Quote{Outbound: leg, Price: price})
		}
	} else {
		outbound, inbound, err := scraper.ExtractRoundTrip(doc, params)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", searchID, err)
		}
		quotes = BuildRoundTripQuotes(outbound, inbound)
		for i := range quotes {
			price, err := scraper.ResolveRoundTripPrice(
				ctx, sess, params, quotes[i].Outbound.Selection, quotes[i].Return.Selection)
			if err != nil {
				if !errors.Is(err, scraper.ErrPriceUnavailable) {
					return nil, fmt.Errorf("search %s: %w", searchID, err)
				}
				log.Printf("WARN Service: search %s: no price for itinerary %d\n", searchID, i)
			}
			quotes[i].Price = price
		}
	}

	log.Printf("Service: search %s produced %d quote(s).\n", searchID, len(quotes))
	return quotes, nil
}

// BuildRoundTripQuotes forms the full cross product of outbound and return
// candidates, outbound-major. No deduplication and no ranking: every
// combination is emitted in extraction order, prices left to be resolved.
func BuildRoundTripQuotes(outbound, inbound []models.FlightLeg) []models.Quote {
	quotes := make([]models.Quote, 0, len(outbound)*len(inbound))
	for _, ob := range outbound {
		for _, ib := range inbound {
			ret := ib
			quotes = append(quotes, models.Quote{Outbound: ob, Return: &ret})
		}
	}
	return quotes
}
