package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/salon-booking/internal/repository"
	"github.com/jwalitptl/salon-booking/pkg/metrics"
)

type serviceRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

type businessHoursRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

type bookingRepository struct {
	BaseRepository
	metrics *metrics.Metrics
}

func NewServiceRepository(db *sqlx.DB, m *metrics.Metrics) repository.ServiceRepository {
	return &serviceRepository{db: db, metrics: m}
}

func NewBusinessHoursRepository(db *sqlx.DB, m *metrics.Metrics) repository.BusinessHoursRepository {
	return &businessHoursRepository{db: db, metrics: m}
}

func NewBookingRepository(db *sqlx.DB, m *metrics.Metrics) repository.BookingRepository {
	return &bookingRepository{BaseRepository: NewBaseRepository(db), metrics: m}
}

// Pinger adapts a database handle for readiness checks.
type Pinger struct {
	DB *sqlx.DB
}

func (p Pinger) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}
