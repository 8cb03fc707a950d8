// scraper/extract.go
package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"github.com/ivonin/evelop-search/models"
)

// The selectors below are the page schema: every structural path into the
// results markup lives here and nowhere else, so a site layout change means
// editing one adapter per trip type. They are a brittle external contract
// coupled to the current page structure, not a stable API.
//
// Note: an empty result set is indistinguishable from a relocated layout.
// Both surface as "no availability"; a missing results container is logged
// as a warning so layout drift at least leaves a trace.

// resultsContainer is shared by both layouts.
const resultsContainer = "div#content form#formularioValoracion div.flexcols section div#tabs2 > div > div"

// onewaySchema describes the flat single-list layout.
type onewaySchema struct {
	rows   string // one result row per candidate leg
	data   string // the data block inside a row
	action string // the element whose inline action carries the token
}

var oneWayPage = onewaySchema{
	rows:   "ol li div.vuelo-wrap.vuelo-wrap3 > div.flexcols",
	data:   "div.flexcol-main.datos > div",
	action: "div.flexcol-right.acciones3.clearfix div a",
}

// roundTripSchema describes the two-parallel-lists layout: the first list
// holds outbound candidates, the second holds return candidates.
type roundTripSchema struct {
	lists       string // exactly two, outbound then return
	data        string // data blocks within a list
	dataExclude string // detail blocks interleaved with the data blocks
	radio       string // the input whose inline action carries the token
}

var roundTripPage = roundTripSchema{
	lists:       "div.wrap-sel-custom.combinado div.grid-cols.clearfix > div",
	data:        "div.datos > div",
	dataExclude: "div.detalles-vuelo-wrap",
	radio:       "div.radio input",
}

// legSchema describes one data block; identical in both layouts.
var legPage = struct {
	route string
	dep   string
	arr   string
	cabin string
}{
	route: "div.aerolinea, div.aerop span",
	dep:   "div.salida span.hora",
	arr:   "div.llegada span.hora",
	cabin: "span.tipo-clase",
}

var oneWayTokenRe = regexp.MustCompile(`idSeleccionado=(\d+)`)

// ExtractOneWay pulls every candidate leg out of a one-way results page.
// Zero matching rows is not an error: it means no availability and yields
// an empty slice.
func ExtractOneWay(doc *goquery.Document, params *models.SearchParams) ([]models.FlightLeg, error) {
	container := doc.Find(resultsContainer).First()
	if container.Length() == 0 {
		log.Printf("WARN Extractor: results container not found for %s-%s; treating as no availability (possible layout change).\n",
			params.DepCity, params.ArrCity)
		return nil, nil
	}

	var legs []models.FlightLeg
	container.Find(oneWayPage.rows).Each(func(i int, row *goquery.Selection) {
		leg, err := parseLeg(row.Find(oneWayPage.data).First())
		if err != nil {
			log.Printf("WARN Extractor: skipping one-way row %d: %v\n", i, err)
			return
		}

		onclick, _ := row.Find(oneWayPage.action).First().Attr("onclick")
		m := oneWayTokenRe.FindStringSubmatch(onclick)
		if m == nil {
			log.Printf("WARN Extractor: skipping one-way row %d: selection token not found\n", i)
			return
		}

		leg.Selection = models.Selection{FlightID: m[1]}
		leg.Date = params.DepDate
		legs = append(legs, *leg)
	})

	return legs, nil
}

// ExtractRoundTrip pulls the outbound and return candidate lists out of a
// round-trip results page. Either list may be empty; that means no
// availability, not a fault.
func ExtractRoundTrip(doc *goquery.Document, params *models.SearchParams) (outbound, inbound []models.FlightLeg, err error) {
	container := doc.Find(resultsContainer).First()
	if container.Length() == 0 {
		log.Printf("WARN Extractor: results container not found for %s-%s; treating as no availability (possible layout change).\n",
			params.DepCity, params.ArrCity)
		return nil, nil, nil
	}

	lists := container.Find(roundTripPage.lists)
	if lists.Length() < 2 {
		return nil, nil, nil
	}

	outbound = parseRoundTripList(lists.Eq(0), params.DepDate)
	inbound = parseRoundTripList(lists.Eq(1), params.RetDate)
	return outbound, inbound, nil
}

func parseRoundTripList(list *goquery.Selection, date string) []models.FlightLeg {
	var legs []models.FlightLeg
	list.Find(roundTripPage.data).Not(roundTripPage.dataExclude).Each(func(i int, dataDiv *goquery.Selection) {
		leg, err := parseLeg(dataDiv)
		if err != nil {
			log.Printf("WARN Extractor: skipping round-trip row %d: %v\n", i, err)
			return
		}

		onclick, _ := dataDiv.Find(roundTripPage.radio).First().Attr("onclick")
		sel, err := parseRoundTripToken(onclick)
		if err != nil {
			log.Printf("WARN Extractor: skipping round-trip row %d: %v\n", i, err)
			return
		}

		leg.Selection = sel
		leg.Date = date
		legs = append(legs, *leg)
	})
	return legs
}

// parseRoundTripToken rebuilds the composite selection token from the
// inline action call: arguments 0, 3 and 4 joined with '#' identify the
// flight, argument 1 is the direction marker the remote protocol uses to
// tell outbound from return selections.
func parseRoundTripToken(onclick string) (models.Selection, error) {
	_, args, found := strings.Cut(onclick, "(")
	if !found {
		return models.Selection{}, fmt.Errorf("selection action attribute not found")
	}
	args = strings.NewReplacer("'", "", "\n", "", ")", "", ";", "").Replace(args)

	parts := strings.Split(args, ",")
	if len(parts) < 5 {
		return models.Selection{}, fmt.Errorf("selection action has %d arguments, want at least 5", len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return models.Selection{
		FlightID:  parts[0] + "#" + parts[3] + "#" + parts[4],
		Direction: parts[1],
	}, nil
}

// parseLeg reads one data block into a FlightLeg without date or token.
func parseLeg(dataDiv *goquery.Selection) (*models.FlightLeg, error) {
	if dataDiv.Length() == 0 {
		return nil, fmt.Errorf("data block not found")
	}

	route := strings.NewReplacer(" ", "", "\n", "", "\t", "").Replace(
		dataDiv.Find(legPage.route).First().Text())
	depCity, arrCity, found := strings.Cut(route, "-")
	if !found {
		return nil, fmt.Errorf("route text %q has no city separator", route)
	}

	depTime := strings.TrimSpace(dataDiv.Find(legPage.dep).First().Text())
	arrTime := strings.TrimSpace(dataDiv.Find(legPage.arr).First().Text())
	cabinClass := strings.TrimSpace(dataDiv.Find(legPage.cabin).First().Text())

	duration, err := flightDuration(depTime, arrTime)
	if err != nil {
		return nil, err
	}

	return &models.FlightLeg{
		DepCity:    depCity,
		ArrCity:    arrCity,
		DepTime:    depTime,
		ArrTime:    arrTime,
		Duration:   duration,
		CabinClass: cabinClass,
	}, nil
}

// flightDuration computes arrival minus departure as H:MM. Legs never cross
// midnight, so an "earlier" arrival only happens on malformed input; the
// wrap keeps the result in 0..24h either way.
func flightDuration(depTime, arrTime string) (string, error) {
	dep, err := clockMinutes(depTime)
	if err != nil {
		return "", fmt.Errorf("bad departure time: %w", err)
	}
	arr, err := clockMinutes(arrTime)
	if err != nil {
		return "", fmt.Errorf("bad arrival time: %w", err)
	}

	diff := (arr - dep + 24*60) % (24 * 60)
	return fmt.Sprintf("%d:%02d", diff/60, diff%60), nil
}

func clockMinutes(clock string) (int, error) {
	h, m, found := strings.Cut(clock, ":")
	if !found {
		return 0, fmt.Errorf("time %q is not HH:MM", clock)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0, fmt.Errorf("time %q is not HH:MM", clock)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return 0, fmt.Errorf("time %q is not HH:MM", clock)
	}
	return hours*60 + minutes, nil
}
