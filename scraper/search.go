// scraper/search.go
package scraper

import (
	"context"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"github.com/ivonin/evelop-search/config"
	"github.com/ivonin/evelop-search/models"
)

// searchForm serializes SearchParams into the fixed request-field names the
// booking form expects. These names are part of the remote contract and
// must not change.
func searchForm(p *models.SearchParams) url.Values {
	return url.Values{
		"buscadorVuelosEsb.tipoTransicion": {"S"},
		"buscadorVuelosEsb.routeType":      {string(p.FlightType)},
		"buscadorVuelosEsb.origen":         {p.DepCity},
		"buscadorVuelosEsb.destino":        {p.ArrCity},
		"buscadorVuelosEsb.fsalida":        {p.DepDate},
		"buscadorVuelosEsb.fregreso":       {p.RetDate},
		"buscadorVuelosEsb.numadultos":     {strconv.Itoa(p.Adults)},
		"buscadorVuelosEsb.numninos":       {strconv.Itoa(p.Children)},
		"buscadorVuelosEsb.numbebes":       {strconv.Itoa(p.Infants)},
	}
}

// valuationForm builds the parameter set shared by the valuation step of
// both trip types. selection is nil for the round-trip first valuation.
func valuationForm(p *models.SearchParams, selection *models.Selection) url.Values {
	v := url.Values{
		"fechaSalida":   {p.DepDate},
		"fechaRegreso":  {p.RetDate},
		"idOrigen":      {p.DepCity},
		"idDestino":     {p.ArrCity},
		"numeroAdultos": {strconv.Itoa(p.Adults)},
		"numeroNinios":  {strconv.Itoa(p.Children)},
		"numeroBebes":   {strconv.Itoa(p.Infants)},
		"routeType":     {string(p.FlightType)},
	}
	if selection != nil {
		v.Set("idSeleccionado", selection.FlightID)
	}
	return v
}

// FetchResultsPage submits the search form through the session and returns
// the raw results page. This is the first call of the protocol; it leaves
// the remote session holding the "current search" every later call depends
// on, so the same Session must be threaded through the whole invocation.
func FetchResultsPage(ctx context.Context, sess *Session, params *models.SearchParams) (*goquery.Document, error) {
	log.Printf("Submitting availability search %s-%s (%s) for %s.\n",
		params.DepCity, params.ArrCity, params.FlightType, params.DepDate)

	return sess.PostForm(ctx, config.AppConfig.EvelopURLs.AvailabilitySubmit, searchForm(params))
}
