// services/schedule_service.go
package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ivonin/evelop-search/models"
	"github.com/ivonin/evelop-search/scraper"
)

// scheduleStore is the slice of the persistence layer the service needs.
type scheduleStore interface {
	Find(ctx context.Context, depCity, arrCity string) (*models.ScheduleRecord, error)
	Save(ctx context.Context, rec *models.ScheduleRecord) error
}

// datesFeedFunc loads the live weekly-availability feed.
type datesFeedFunc func(ctx context.Context) ([]models.FeedEntry, error)

// ScheduleService answers per-route weekday-availability lookups with a
// local store backed by the live feed.
type ScheduleService struct {
	store    scheduleStore
	loadFeed datesFeedFunc
}

func NewScheduleService(store scheduleStore) *ScheduleService {
	return &ScheduleService{store: store, loadFeed: scraper.LoadDatesFeed}
}

var dateSeparatorRe = regexp.MustCompile(`[./]`)

// feedDateLayout is the dd-mm-yyyy format the live feed uses.
const feedDateLayout = "02-01-2006"

// GetSchedule resolves the weekday schedule for a route. Both sources are
// always consulted: a cached row is trusted only when the live feed still
// carries a matching record for the pair. A live record with no cached row
// is written through. When neither source knows the route (or the requested
// date is not among its operating dates), the result is nil and nothing is
// persisted. Repeated identical calls are idempotent.
func (s *ScheduleService) GetSchedule(ctx context.Context, depCity, arrCity, depDate string) (*models.ScheduleRecord, error) {
	cached, err := s.store.Find(ctx, depCity, arrCity)
	if err != nil {
		return nil, fmt.Errorf("schedule lookup %s-%s: %w", depCity, arrCity, err)
	}

	feed, err := s.loadFeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("schedule lookup %s-%s: %w", depCity, arrCity, err)
	}
	live := liveScheduleRecord(feed, depCity, arrCity, depDate)

	// The cached row only counts when the live feed corroborates it. A
	// stale route with no live entry is unknown, not a hit.
	if cached != nil && live != nil {
		log.Printf("Service: schedule for %s-%s served from the store.\n", depCity, arrCity)
		return cached, nil
	}

	if live == nil {
		log.Printf("Service: no schedule available for %s-%s on %s.\n", depCity, arrCity, depDate)
		return nil, nil
	}

	if err := s.store.Save(ctx, live); err != nil {
		return nil, fmt.Errorf("schedule write-through %s-%s: %w", depCity, arrCity, err)
	}
	return live, nil
}

// liveScheduleRecord builds the Monday-first 7-slot bitmap for the route
// from every feed date, provided the requested departure date is among the
// route's operating dates.
func liveScheduleRecord(feed []models.FeedEntry, depCity, arrCity, depDate string) *models.ScheduleRecord {
	// The feed keeps its dates dash-separated.
	wanted := dateSeparatorRe.ReplaceAllString(depDate, "-")

	for _, entry := range feed {
		if entry.Origin != depCity || entry.Destination != arrCity {
			continue
		}
		if !containsDate(entry.Dates, wanted) {
			return nil
		}

		days := []byte("-------")
		for _, raw := range entry.Dates {
			date, err := time.Parse(feedDateLayout, raw)
			if err != nil {
				log.Printf("WARN Service: skipping malformed feed date %q for %s-%s\n", raw, depCity, arrCity)
				continue
			}
			days[mondayFirstIndex(date.Weekday())] = '+'
		}

		return &models.ScheduleRecord{
			DepCity:  entry.Origin,
			ArrCity:  entry.Destination,
			Schedule: string(days),
		}
	}
	return nil
}

func containsDate(dates []string, wanted string) bool {
	for _, d := range dates {
		if d == wanted {
			return true
		}
	}
	return false
}

// mondayFirstIndex maps time.Weekday (Sunday = 0) onto the Monday..Sunday
// slots of the schedule bitmap.
func mondayFirstIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
