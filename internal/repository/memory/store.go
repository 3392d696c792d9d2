package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-booking/internal/model"
	"github.com/jwalitptl/salon-booking/internal/repository"
)

// Store keeps all records in process memory. It is used when no database is
// configured and in tests.
type Store struct {
	mu       sync.RWMutex
	services []model.Service
	hours    []model.DayHours
	bookings map[uuid.UUID]model.Booking
	now      func() time.Time
}

func NewStore(services []model.Service, hours []model.DayHours) *Store {
	return &Store{
		services: append([]model.Service(nil), services...),
		hours:    append([]model.DayHours(nil), hours...),
		bookings: make(map[uuid.UUID]model.Booking),
		now:      time.Now,
	}
}

func (s *Store) Services() repository.ServiceRepository {
	return serviceRepository{s}
}

func (s *Store) BusinessHours() repository.BusinessHoursRepository {
	return hoursRepository{s}
}

func (s *Store) Bookings() repository.BookingRepository {
	return bookingRepository{s}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

type serviceRepository struct{ s *Store }

func (r serviceRepository) List(ctx context.Context) ([]model.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := append([]model.Service(nil), r.s.services...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

type hoursRepository struct{ s *Store }

func (r hoursRepository) List(ctx context.Context) ([]model.DayHours, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := append([]model.DayHours(nil), r.s.hours...)
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

type bookingRepository struct{ s *Store }

// Create checks for overlaps and inserts under the write lock.
func (r bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if booking.Active() {
		for _, existing := range r.s.bookings {
			if existing.Active() && repository.Overlaps(&existing, booking) {
				return repository.ErrSlotTaken
			}
		}
	}

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	now := r.s.now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r bookingRepository) ListActiveByDate(ctx context.Context, date model.Date) ([]model.Booking, error) {
	return r.listActiveBetween(ctx, date, date)
}

func (r bookingRepository) listActiveBetween(ctx context.Context, from, to model.Date) ([]model.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.Booking{}
	for _, b := range r.s.bookings {
		if !b.Active() || b.AppointmentDate.Before(from) || to.Before(b.AppointmentDate) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate.Before(out[j].AppointmentDate)
		}
		return out[i].AppointmentTime < out[j].AppointmentTime
	})
	return out, nil
}
