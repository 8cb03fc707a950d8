// scraper/price.go
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/ivonin/evelop-search/config"
	"github.com/ivonin/evelop-search/models"
)

// ErrPriceUnavailable marks a single itinerary whose price node could not
// be found. It never aborts the rest of the batch.
var ErrPriceUnavailable = errors.New("price unavailable")

// priceSelector is the structural path to the total-price node on the
// passenger-reload page; shared by both trip types.
const priceSelector = "aside div.box.box-color2.rounded.ticket-vuelos-precio" +
	" div.subbox.rounded.escalas div.line.separa.total div.unit.lastUnit.t-right.precio"

// roundTripPriceRe splits the round-trip rendering, which interleaves the
// numeric amount and the currency symbol across lines.
var roundTripPriceRe = regexp.MustCompile(`([0-9.,]+)\n\s+.(.)`)

// oneWayPriceRe splits the cleaned one-way rendering into amount and
// currency symbol.
var oneWayPriceRe = regexp.MustCompile(`^([0-9.,]+)\s*(.*)$`)

// protocolState names the stages of the remote price protocol. Every
// transition is a remote call; calls out of order leave the remote session
// in a state where results are silently wrong, so the protocol object
// rejects them instead of relying on caller discipline.
type protocolState int

const (
	stateIdle protocolState = iota
	stateParametersSent
	stateLegsSelected
	stateValued
	statePriceReady
)

func (s protocolState) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateParametersSent:
		return "ParametersSent"
	case stateLegsSelected:
		return "LegsSelected"
	case stateValued:
		return "Valued"
	case statePriceReady:
		return "PriceReady"
	}
	return "unknown"
}

// priceProtocol drives the session-bound call sequence that resolves one
// itinerary's price:
//
//	one way:    Idle -> ParametersSent -> PriceReady
//	round trip: Idle -> ParametersSent -> LegsSelected -> Valued -> PriceReady
type priceProtocol struct {
	sess   *Session
	params *models.SearchParams
	state  protocolState
	doc    *goquery.Document // price-reload page, set on PriceReady
}

func newPriceProtocol(sess *Session, params *models.SearchParams) *priceProtocol {
	return &priceProtocol{sess: sess, params: params, state: stateIdle}
}

func (p *priceProtocol) transitionErr(op string) error {
	return fmt.Errorf("price protocol: cannot %s in state %s", op, p.state)
}

// sendParameters registers the full search parameters with the valuation
// endpoint. For one-way itineraries the chosen leg's token rides along.
func (p *priceProtocol) sendParameters(ctx context.Context, selection *models.Selection) error {
	if p.state != stateIdle {
		return p.transitionErr("send parameters")
	}
	if err := p.sess.Get(ctx, config.AppConfig.EvelopURLs.Valuation, valuationForm(p.params, selection)); err != nil {
		return err
	}
	p.state = stateParametersSent
	return nil
}

// selectLegs registers each leg on the remote session, outbound before
// return. Round trip only.
func (p *priceProtocol) selectLegs(ctx context.Context, selections ...models.Selection) error {
	if p.state != stateParametersSent {
		return p.transitionErr("select legs")
	}
	for _, sel := range selections {
		params := url.Values{
			"flightId":  {sel.FlightID},
			"direction": {sel.Direction},
		}
		if err := p.sess.Get(ctx, config.AppConfig.EvelopURLs.AvailabilitySelect, params); err != nil {
			return err
		}
	}
	p.state = stateLegsSelected
	return nil
}

// revalue re-runs the valuation now that the legs are registered.
func (p *priceProtocol) revalue(ctx context.Context) error {
	if p.state != stateLegsSelected {
		return p.transitionErr("revalue")
	}
	if err := p.sess.Get(ctx, config.AppConfig.EvelopURLs.Valuation, valuationForm(p.params, nil)); err != nil {
		return err
	}
	p.state = stateValued
	return nil
}

// reloadPrice fetches the passenger-reload page that carries the total.
// Legal right after sendParameters (one way) or after revalue (round trip).
func (p *priceProtocol) reloadPrice(ctx context.Context) error {
	if p.state != stateParametersSent && p.state != stateValued {
		return p.transitionErr("reload price")
	}
	if p.sess.ID() == "" {
		return fmt.Errorf("price protocol: remote session identifier was never assigned")
	}

	doc, err := p.sess.GetDocument(ctx, config.AppConfig.EvelopURLs.PriceReload,
		url.Values{"sesion": {p.sess.ID()}})
	if err != nil {
		return err
	}
	p.doc = doc
	p.state = statePriceReady
	return nil
}

// ResolveOneWayPrice runs the one-way branch of the protocol for a single
// leg and extracts its price.
func ResolveOneWayPrice(ctx context.Context, sess *Session, params *models.SearchParams, leg models.Selection) (models.Price, error) {
	p := newPriceProtocol(sess, params)
	if err := p.sendParameters(ctx, &leg); err != nil {
		return models.Price{}, err
	}
	if err := p.reloadPrice(ctx); err != nil {
		return models.Price{}, err
	}
	return p.extractOneWayPrice()
}

// ResolveRoundTripPrice runs the round-trip branch for one outbound/return
// pair: valuation, one availability-select per leg (outbound first),
// re-valuation, then the price reload.
func ResolveRoundTripPrice(ctx context.Context, sess *Session, params *models.SearchParams, outbound, inbound models.Selection) (models.Price, error) {
	p := newPriceProtocol(sess, params)
	if err := p.sendParameters(ctx, nil); err != nil {
		return models.Price{}, err
	}
	if err := p.selectLegs(ctx, outbound, inbound); err != nil {
		return models.Price{}, err
	}
	if err := p.revalue(ctx); err != nil {
		return models.Price{}, err
	}
	if err := p.reloadPrice(ctx); err != nil {
		return models.Price{}, err
	}
	return p.extractRoundTripPrice()
}

func (p *priceProtocol) priceText() (string, error) {
	if p.state != statePriceReady {
		return "", p.transitionErr("extract price")
	}
	sel := p.doc.Find(priceSelector)
	if sel.Length() == 0 {
		return "", ErrPriceUnavailable
	}
	return sel.Text(), nil
}

func (p *priceProtocol) extractOneWayPrice() (models.Price, error) {
	text, err := p.priceText()
	if err != nil {
		return models.Price{}, err
	}

	text = fixDoubleEncoding(text)
	text = strings.ReplaceAll(text, "\n", "")
	text = strings.ReplaceAll(text, "  ", "")
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Price{}, ErrPriceUnavailable
	}

	if m := oneWayPriceRe.FindStringSubmatch(text); m != nil {
		return models.Price{Amount: m[1], Currency: strings.TrimSpace(m[2])}, nil
	}
	// The one-way rendering sometimes interleaves amount and symbol in ways
	// no single pattern covers; keep the cleaned text rather than coerce.
	return models.Price{Amount: text}, nil
}

func (p *priceProtocol) extractRoundTripPrice() (models.Price, error) {
	text, err := p.priceText()
	if err != nil {
		return models.Price{}, err
	}

	m := roundTripPriceRe.FindStringSubmatch(strings.TrimSpace(fixDoubleEncoding(text)))
	if m == nil {
		return models.Price{}, ErrPriceUnavailable
	}
	return models.Price{Amount: m[1], Currency: m[2]}, nil
}

// fixDoubleEncoding undoes the remote side's double encoding: the reload
// pages are UTF-8 served as if they were Latin-1. Normalize to NFKC first,
// then push the text back through Latin-1 and reinterpret as UTF-8. If the
// round trip does not produce valid UTF-8 the input is returned untouched.
func fixDoubleEncoding(s string) string {
	s = norm.NFKC.String(s)
	fixed, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil || !utf8.ValidString(fixed) {
		return s
	}
	return fixed
}
