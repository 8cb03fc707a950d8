// database/schedule_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ivonin/evelop-search/models"
)

// ScheduleStore persists one weekday-availability record per route. A
// missing table is "first run", not an error: it is created lazily on first
// access. Records are never versioned; saving an existing route overwrites
// the previous schedule.
type ScheduleStore struct {
	db       *sql.DB
	initOnce sync.Once
	initErr  error
}

func NewScheduleStore(db *sql.DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

func (s *ScheduleStore) ensureTable(ctx context.Context) error {
	s.initOnce.Do(func() {
		_, s.initErr = s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS flight_schedules (
				id INT AUTO_INCREMENT PRIMARY KEY,
				dep_airport VARCHAR(3) NOT NULL,
				arr_airport VARCHAR(3) NOT NULL,
				schedule CHAR(7) NOT NULL,
				UNIQUE KEY uq_route (dep_airport, arr_airport)
			)
		`)
		if s.initErr != nil {
			s.initErr = fmt.Errorf("failed to create flight_schedules table: %w", s.initErr)
		}
	})
	return s.initErr
}

// Find returns the stored schedule for a route, or nil when the route has
// never been cached.
func (s *ScheduleStore) Find(ctx context.Context, depCity, arrCity string) (*models.ScheduleRecord, error) {
	if err := s.ensureTable(ctx); err != nil {
		return nil, err
	}

	var rec models.ScheduleRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, dep_airport, arr_airport, schedule
		FROM flight_schedules
		WHERE dep_airport = ? AND arr_airport = ?
	`, depCity, arrCity).Scan(&rec.ID, &rec.DepCity, &rec.ArrCity, &rec.Schedule)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule for %s-%s: %w", depCity, arrCity, err)
	}
	return &rec, nil
}

// Save writes a schedule record through to the store, replacing any
// previous record for the same route (last write wins).
func (s *ScheduleStore) Save(ctx context.Context, rec *models.ScheduleRecord) error {
	if err := s.ensureTable(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flight_schedules (dep_airport, arr_airport, schedule)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE schedule = VALUES(schedule)
	`, rec.DepCity, rec.ArrCity, rec.Schedule)
	if err != nil {
		return fmt.Errorf("failed to save schedule for %s-%s: %w", rec.DepCity, rec.ArrCity, err)
	}

	log.Printf("Saved schedule %s for route %s-%s.\n", rec.Schedule, rec.DepCity, rec.ArrCity)
	return nil
}
