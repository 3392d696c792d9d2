// Package store opens the configured booking store and loads the catalog and
// calendar snapshots from it.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/salon-booking/config"
	"github.com/jwalitptl/salon-booking/internal/calendar"
	"github.com/jwalitptl/salon-booking/internal/catalog"
	"github.com/jwalitptl/salon-booking/internal/migrate"
	"github.com/jwalitptl/salon-booking/internal/repository"
	"github.com/jwalitptl/salon-booking/internal/repository/memory"
	"github.com/jwalitptl/salon-booking/internal/repository/postgres"
	"github.com/jwalitptl/salon-booking/pkg/logger"
	"github.com/jwalitptl/salon-booking/pkg/metrics"
)

type Store struct {
	Services      repository.ServiceRepository
	BusinessHours repository.BusinessHoursRepository
	Bookings      repository.BookingRepository
	Pinger        repository.Pinger
	// DB is nil for the memory driver.
	DB            *sqlx.DB
}

// Open connects to the store selected by cfg.Store.Driver. The memory store
// is seeded with the default catalog and opening hours.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		s := memory.NewStore(catalog.DefaultServices(), calendar.DefaultHours())
		log.Warn("Using in-memory booking store, bookings are lost on restart")
		return &Store{
			Services:      s.Services(),
			BusinessHours: s.BusinessHours(),
			Bookings:      s.Bookings(),
			Pinger:        s,
		}, nil

	case config.StorePostgres:
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if cfg.Store.AutoMigrate {
			applied, err := migrate.Up(ctx, db)
			if err != nil {
				_ = db.Close()
				return nil, err
			}
			log.Info("Migrations applied", "count", len(applied))
		}
		return &Store{
			Services:      postgres.NewServiceRepository(db, m),
			BusinessHours: postgres.NewBusinessHoursRepository(db, m),
			Bookings:      postgres.NewBookingRepository(db, m),
			Pinger:        postgres.Pinger{DB: db},
			DB:            db,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// Snapshots reads the catalog and opening hours once. Both are immutable for
// the life of the process.
func (s *Store) Snapshots(ctx context.Context, loc *time.Location) (*catalog.Catalog, *calendar.Calendar, error) {
	services, err := s.Services.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load services: %w", err)
	}
	cat, err := catalog.New(services)
	if err != nil {
		return nil, nil, err
	}

	hours, err := s.BusinessHours.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load business hours: %w", err)
	}
	cal, err := calendar.New(hours, loc)
	if err != nil {
		return nil, nil, err
	}

	return cat, cal, nil
}
