package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/salon-booking/internal/availability"
	"github.com/jwalitptl/salon-booking/internal/calendar"
	"github.com/jwalitptl/salon-booking/internal/catalog"
	"github.com/jwalitptl/salon-booking/internal/model"
	"github.com/jwalitptl/salon-booking/internal/repository"
	"github.com/jwalitptl/salon-booking/internal/service/notification"
	apperrors "github.com/jwalitptl/salon-booking/pkg/errors"
	"github.com/jwalitptl/salon-booking/pkg/logger"
	"github.com/jwalitptl/salon-booking/pkg/metrics"
	"github.com/jwalitptl/salon-booking/pkg/validator"
)

const (
	DefaultSlotCacheTTL  = 30 * time.Second
	DefaultNotifyTimeout = 10 * time.Second
)

type Config struct {
	// SlotCacheTTL is how long a date's bookings are reused for slot
	// listings. Zero disables the cache.
	SlotCacheTTL  time.Duration
	NotifyTimeout time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Service answers slot queries and writes bookings against immutable catalog
// and calendar snapshots.
type Service struct {
	catalog   *catalog.Catalog
	calendar  *calendar.Calendar
	repo      repository.BookingRepository
	notifier  notification.Notifier
	validator validator.Validator
	cache     *cache.Cache
	metrics   *metrics.Metrics
	logger    *logger.Logger

	now           func() time.Time
	notifyTimeout time.Duration
	inflight      sync.WaitGroup
}

func NewService(
	cat *catalog.Catalog,
	cal *calendar.Calendar,
	repo repository.BookingRepository,
	notifier notification.Notifier,
	cfg Config,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = DefaultNotifyTimeout
	}
	if log == nil {
		log = logger.Nop()
	}

	s := &Service{
		catalog:       cat,
		calendar:      cal,
		repo:          repo,
		notifier:      notifier,
		validator:     validator.New(),
		metrics:       m,
		logger:        log.With("component", "booking"),
		now:           cfg.Clock,
		notifyTimeout: cfg.NotifyTimeout,
	}
	if cfg.SlotCacheTTL > 0 {
		s.cache = cache.New(cfg.SlotCacheTTL, 2*cfg.SlotCacheTTL)
	}
	return s
}

func (s *Service) ListServices() []model.Service {
	return s.catalog.List()
}

func (s *Service) GetService(id string) (*model.Service, error) {
	svc, ok := s.catalog.Lookup(id)
	if !ok {
		return nil, apperrors.NotFound("service", nil)
	}
	return svc, nil
}

func (s *Service) BusinessHours() []model.DayHours {
	return s.calendar.Hours()
}

// IsDateAvailable reports whether date can be selected for a booking.
func (s *Service) IsDateAvailable(date model.Date) bool {
	return s.calendar.IsOpenDay(date, s.now())
}

// GetAvailableSlots lists the day's slots for a service, including the ones
// that cannot be booked. Bookings may be served from a short-lived cache.
func (s *Service) GetAvailableSlots(ctx context.Context, date model.Date, serviceID string) ([]model.Slot, error) {
	svc, err := s.GetService(serviceID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !s.calendar.IsOpenDay(date, now) {
		s.countQuery(model.DayStateClosed)
		return []model.Slot{}, nil
	}

	bookings, err := s.cachedBookings(ctx, date)
	if err != nil {
		return nil, err
	}

	slots := availability.ComputeSlots(s.calendar, date, svc, bookings, now)
	s.countQuery(availability.DayState(slots))
	return slots, nil
}

func (s *Service) cachedBookings(ctx context.Context, date model.Date) ([]model.Booking, error) {
	key := date.String()
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v.([]model.Booking), nil
		}
	}

	bookings, err := s.repo.ListActiveByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if s.cache != nil {
		s.cache.Set(key, bookings, cache.DefaultExpiration)
	}
	return bookings, nil
}

// CreateBooking re-checks the requested slot against the store, persists a
// pending booking and notifies in the background. Notification failures never
// reach the caller.
func (s *Service) CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	normalize(req)
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	date, err := model.ParseDate(req.AppointmentDate)
	if err != nil {
		return nil, apperrors.Validation("appointment_date must be formatted YYYY-MM-DD", err)
	}
	start, err := model.ParseClockTime(req.AppointmentTime)
	if err != nil {
		return nil, apperrors.Validation("appointment_time must be formatted HH:MM", err)
	}

	svc, err := s.GetService(req.ServiceID)
	if err != nil {
		return nil, err
	}

	// The listing the client saw may be stale, so read the store directly.
	existing, err := s.repo.ListActiveByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	slots := availability.ComputeSlots(s.calendar, date, svc, existing, s.now())
	if slot, ok := availability.FindSlot(slots, start); !ok || !slot.Available {
		s.countConflict("recheck")
		return nil, apperrors.SlotUnavailable(nil)
	}

	booking := &model.Booking{
		Base:            model.Base{ID: uuid.New()},
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		ServiceID:       svc.ID,
		AppointmentDate: date,
		AppointmentTime: start,
		DurationMinutes: svc.DurationMinutes,
		Status:          model.BookingStatusPending,
		IsNewClient:     req.IsNewClient,
		Allergies:       optional(req.Allergies),
		Notes:           optional(req.Notes),
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			s.countConflict("store")
			return nil, apperrors.SlotUnavailable(err)
		}
		return nil, apperrors.Storage(err)
	}

	if s.cache != nil {
		s.cache.Delete(date.String())
	}
	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.logger.Info("booking created",
		"booking_id", booking.ID.String(),
		"service_id", svc.ID,
		"date", date.String(),
		"time", start.String(),
	)

	s.notify(ctx, booking, svc)
	return booking, nil
}

// notify runs the notifier detached from the request so that neither request
// cancellation nor a slow or panicking notifier affects the caller.
func (s *Service) notify(ctx context.Context, booking *model.Booking, svc *model.Service) {
	if s.notifier == nil {
		return
	}

	b := *booking
	sv := *svc
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				s.notificationFailed(&b, fmt.Errorf("notifier panic: %v", r))
			}
		}()

		if err := s.notifier.BookingCreated(nctx, &b, &sv); err != nil {
			s.notificationFailed(&b, err)
		}
	}()
}

func (s *Service) notificationFailed(b *model.Booking, err error) {
	if s.metrics != nil {
		s.metrics.NotificationsFailed.Inc()
	}
	s.logger.Error(err, "booking notification failed", "booking_id", b.ID.String())
}

// Wait blocks until in-flight notifications finish.
func (s *Service) Wait() {
	s.inflight.Wait()
}

func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("booking", err)
		}
		return nil, apperrors.Storage(err)
	}
	return booking, nil
}

func (s *Service) countQuery(state model.DayState) {
	if s.metrics != nil {
		s.metrics.SlotQueries.WithLabelValues(string(state)).Inc()
	}
}

func (s *Service) countConflict(stage string) {
	if s.metrics != nil {
		s.metrics.BookingConflicts.WithLabelValues(stage).Inc()
	}
}

func normalize(req *model.CreateBookingRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.AppointmentDate = strings.TrimSpace(req.AppointmentDate)
	req.AppointmentTime = strings.TrimSpace(req.AppointmentTime)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
