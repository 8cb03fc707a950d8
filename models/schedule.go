// models/schedule.go
package models

// RouteCatalog maps an origin city code to the destinations reachable from
// it. Loaded once at startup from the booking site's home page and immutable
// afterwards; staleness requires a full reload, never a partial refresh.
type RouteCatalog map[string][]string

// Has reports whether the code appears as an origin in the catalog.
func (c RouteCatalog) Has(code string) bool {
	_, ok := c[code]
	return ok
}

// Reachable reports whether arr is listed as a destination for dep.
func (c RouteCatalog) Reachable(dep, arr string) bool {
	for _, dst := range c[dep] {
		if dst == arr {
			return true
		}
	}
	return false
}

// ScheduleRecord is a per-route weekday-availability bitmap. Schedule is
// exactly 7 characters, Monday..Sunday, '+' for available and '-' for not.
type ScheduleRecord struct {
	ID       int64  `json:"-" db:"id"`
	DepCity  string `json:"dep_city" db:"dep_airport"`
	ArrCity  string `json:"arr_city" db:"arr_airport"`
	Schedule string `json:"schedule" db:"schedule"`
}

// FeedEntry is one route of the live weekly-availability feed embedded in
// the home page: every calendar date (dd-mm-yyyy) the route operates on.
type FeedEntry struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Dates       []string `json:"dates"`
}
