// handlers/search_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ivonin/evelop-search/models"
	"github.com/ivonin/evelop-search/services"
	"github.com/ivonin/evelop-search/validate"
)

// API bundles the process-wide collaborators the handlers need. The route
// catalog is loaded once at startup and read-only afterwards.
type API struct {
	Catalog  models.RouteCatalog
	Schedule *services.ScheduleService
}

func NewAPI(catalog models.RouteCatalog, schedule *services.ScheduleService) *API {
	return &API{Catalog: catalog, Schedule: schedule}
}

// SearchHandler handles flight searches.
// Expects POST to /api/flights/search with a models.SearchRequest body.
// Validation failures come back as 400 with the diagnostic; an empty quotes
// array is a valid "no availability" answer, not an error.
func (a *API) SearchHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	params, verr := validate.SearchParams(a.Catalog, req)
	if verr != nil {
		respondWithJSON(w, http.StatusBadRequest, map[string]string{
			"error": verr.Message,
			"field": string(verr.Kind),
		})
		return
	}

	quotes, err := services.Scrape(r.Context(), params)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, fmt.Sprintf("Search failed: %v", err))
		return
	}

	if quotes == nil { // always return an array, even for no availability
		quotes = []models.Quote{}
	}
	respondWithJSON(w, http.StatusOK, quotes)
}
