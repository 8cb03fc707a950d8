// handlers/schedule_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/ivonin/evelop-search/models"
	"github.com/ivonin/evelop-search/utils"
	"github.com/ivonin/evelop-search/validate"
)

// ScheduleHandler answers weekday-availability lookups.
// Expects GET /api/schedule?dep=MAD&arr=BCN&date=05/06/2024.
// An unknown route or date is a valid {"available": false} payload.
func (a *API) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	dep := r.URL.Query().Get("dep")
	arr := r.URL.Query().Get("arr")
	date := r.URL.Query().Get("date")

	if dep == "" || arr == "" || date == "" {
		respondWithError(w, http.StatusBadRequest, "Missing 'dep', 'arr' or 'date' query parameter")
		return
	}

	if verr := validate.Route(a.Catalog, dep, arr); verr != nil {
		respondWithError(w, http.StatusBadRequest, verr.Message)
		return
	}
	if verr := validate.Dates(date); verr != nil {
		respondWithError(w, http.StatusBadRequest, verr.Message)
		return
	}

	record, err := a.Schedule.GetSchedule(
		r.Context(), utils.NormalizeCityCode(dep), utils.NormalizeCityCode(arr), date)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, fmt.Sprintf("Schedule lookup failed: %v", err))
		return
	}

	if record == nil {
		respondWithJSON(w, http.StatusOK, models.ScheduleResponse{Available: false})
		return
	}
	respondWithJSON(w, http.StatusOK, models.ScheduleResponse{Available: true, Schedule: record})
}
