package booking

import (
	"context"
	"strconv"
	"time"

	"github.com/Domenick1991/boatbooking/internal/cache"
	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/Domenick1991/boatbooking/internal/repository"
	"github.com/Domenick1991/boatbooking/internal/validation"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	CheckAvailability(ctx context.Context, q AvailabilityQuery) (*domain.Availability, error)
	CreateBooking(ctx context.Context, input CreateBookingInput, actor *uuid.UUID) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, id int64, input UpdateBookingInput) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	Quote(ctx context.Context, input QuoteInput) (domain.Financials, error)
	CompleteFinishedBookings(ctx context.Context) ([]domain.Booking, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, kind cache.Kind, id *int64) error
	AcquireBoatLock(ctx context.Context, boatID int64, ttl time.Duration) (bool, error)
	ReleaseBoatLock(ctx context.Context, boatID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookingService struct {
	bookings repository.BookingRepository
	cache    Cache
	producer Producer
	validate *validation.Validator
	topic    string

	listTTL         time.Duration
	activeTTL       time.Duration
	detailTTL       time.Duration
	availabilityTTL time.Duration
	lockTTL         time.Duration
	lockWait        time.Duration
	now             func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithCacheTTLs(list, active, detail, availability time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.listTTL = list
		s.activeTTL = active
		s.detailTTL = detail
		s.availabilityTTL = availability
	}
}

// WithBoatLock sets how long the per-boat write lock lives and how long a
// writer waits for it before relying on the storage constraint alone.
func WithBoatLock(ttl, wait time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.lockTTL = ttl
		s.lockWait = wait
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

// NewBookingService wires the booking rules. cache and producer may be nil.
func NewBookingService(bookings repository.BookingRepository, bookingCache Cache, producer Producer, topic string, opts ...BookingServiceOption) *BookingService {
	s := &BookingService{
		bookings:        bookings,
		cache:           bookingCache,
		producer:        producer,
		validate:        validation.New(),
		topic:           topic,
		listTTL:         2 * time.Minute,
		activeTTL:       time.Minute,
		detailTTL:       2 * time.Minute,
		availabilityTTL: time.Minute,
		lockTTL:         10 * time.Second,
		lockWait:        2 * time.Second,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BookingService) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	key := cache.QueryKey(cache.KindBookings, filter)
	var cached []domain.Booking
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	bookings, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ttl := s.listTTL
	if filter.Active {
		ttl = s.activeTTL
	}
	s.cacheSet(ctx, key, bookings, ttl)
	return bookings, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	key := cache.Key(cache.KindBooking, id)
	var cached domain.Booking
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, b, s.detailTTL)
	return b, nil
}

// CheckAvailability answers the form's availability question. Results may be
// served from cache; the write paths always query storage.
func (s *BookingService) CheckAvailability(ctx context.Context, q AvailabilityQuery) (*domain.Availability, error) {
	if err := s.validate.Struct(q); err != nil {
		return nil, err
	}

	key := cache.QueryKey(cache.KindAvailability, q)
	var cached domain.Availability
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	conflicts, err := s.findConflicts(ctx, q.BoatID, q.StartAt, q.EndAt, q.ExcludeID)
	if err != nil {
		return nil, err
	}
	availability := domain.NewAvailability(conflicts)
	s.cacheSet(ctx, key, availability, s.availabilityTTL)
	return availability, nil
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput, actor *uuid.UUID) (*domain.Booking, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	unlock := s.lockBoat(ctx, input.BoatID)
	defer unlock()

	if err := s.ensureAvailable(ctx, input.BoatID, input.StartAt, input.EndAt, nil); err != nil {
		return nil, err
	}

	created, err := s.bookings.Create(ctx, input.toBooking(actor))
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, domain.EventBookingCreated, created)
	return created, nil
}

func (s *BookingService) UpdateBooking(ctx context.Context, id int64, input UpdateBookingInput) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := input.mergeOver(current)
	if err := s.validate.Struct(merged); err != nil {
		return nil, err
	}

	if needsAvailabilityCheck(current, merged) {
		unlock := s.lockBoat(ctx, merged.BoatID)
		defer unlock()

		if err := s.ensureAvailable(ctx, merged.BoatID, merged.StartAt, merged.EndAt, &id); err != nil {
			return nil, err
		}
	}

	updated, err := s.bookings.Update(ctx, id, input.patch())
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, domain.EventBookingUpdated, updated)
	return updated, nil
}

// needsAvailabilityCheck reports whether the update moves the booking in time,
// to another boat, or brings a cancelled booking back.
func needsAvailabilityCheck(current *domain.Booking, merged CreateBookingInput) bool {
	if merged.Status == domain.BookingStatusCancelled {
		return false
	}
	return merged.BoatID != current.BoatID ||
		!merged.StartAt.Equal(current.StartAt) ||
		!merged.EndAt.Equal(current.EndAt) ||
		current.Status == domain.BookingStatusCancelled
}

func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	s.afterMutation(ctx, domain.EventBookingDeleted, current)
	return nil
}

func (s *BookingService) Quote(_ context.Context, input QuoteInput) (domain.Financials, error) {
	if err := s.validate.Struct(input); err != nil {
		return domain.Financials{}, err
	}
	currency := input.Currency
	if currency == "" {
		currency = domain.CurrencyEUR
	}
	return domain.ComputeFinancials(input.BasePrice, input.ExtrasTotal, input.DepositReceived, currency), nil
}

// CompleteFinishedBookings moves confirmed bookings whose end has passed to completed.
func (s *BookingService) CompleteFinishedBookings(ctx context.Context) ([]domain.Booking, error) {
	completed, err := s.bookings.CompleteFinishedBefore(ctx, s.now())
	if err != nil {
		return nil, err
	}
	if len(completed) == 0 {
		return completed, nil
	}

	s.invalidate(ctx, nil)
	for i := range completed {
		s.invalidateOne(ctx, cache.KindBooking, &completed[i].ID)
		s.publish(ctx, domain.EventBookingUpdated, &completed[i])
	}
	return completed, nil
}

func (s *BookingService) ensureAvailable(ctx context.Context, boatID int64, start, end time.Time, excludeID *int64) error {
	conflicts, err := s.findConflicts(ctx, boatID, start, end, excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &domain.ConflictError{Conflicts: conflicts}
	}
	return nil
}

// findConflicts keeps only the rows that intersect [start, end) as half-open
// intervals, so a booking ending exactly at start never blocks.
func (s *BookingService) findConflicts(ctx context.Context, boatID int64, start, end time.Time, excludeID *int64) ([]domain.Conflict, error) {
	found, err := s.bookings.FindConflicts(ctx, boatID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	conflicts := make([]domain.Conflict, 0, len(found))
	for _, c := range found {
		if domain.Overlaps(c.StartAt, c.EndAt, start, end) {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts, nil
}

// lockBoat takes the per-boat write lock when a cache is configured. If the
// lock cannot be had within lockWait the write proceeds and the exclusion
// constraint in storage decides.
func (s *BookingService) lockBoat(ctx context.Context, boatID int64) func() {
	noop := func() {}
	if s.cache == nil {
		return noop
	}

	log := logrus.WithField("boat_id", boatID)
	deadline := time.Now().Add(s.lockWait)
	for {
		ok, err := s.cache.AcquireBoatLock(ctx, boatID, s.lockTTL)
		if err != nil {
			log.WithError(err).Warn("boat lock unavailable")
			return noop
		}
		if ok {
			return func() {
				if err := s.cache.ReleaseBoatLock(context.WithoutCancel(ctx), boatID); err != nil {
					log.WithError(err).Warn("release boat lock")
				}
			}
		}
		if time.Now().After(deadline) {
			log.Warn("boat lock busy, relying on storage constraint")
			return noop
		}
		select {
		case <-ctx.Done():
			return noop
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (s *BookingService) afterMutation(ctx context.Context, eventType string, b *domain.Booking) {
	s.invalidate(ctx, &b.ID)
	s.publish(ctx, eventType, b)
}

// invalidate drops every booking list and availability answer, the boat
// browse results (they filter on free dates) and, when id is set, the cached
// detail of that booking.
func (s *BookingService) invalidate(ctx context.Context, id *int64) {
	s.invalidateOne(ctx, cache.KindBookings, nil)
	if id != nil {
		s.invalidateOne(ctx, cache.KindBooking, id)
	}
	s.invalidateOne(ctx, cache.KindAvailability, nil)
	s.invalidateOne(ctx, cache.KindBoats, nil)
}

func (s *BookingService) invalidateOne(ctx context.Context, kind cache.Kind, id *int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, kind, id); err != nil {
		logrus.WithError(err).WithField("kind", kind).Warn("cache invalidation failed")
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := domain.NewBookingEvent(eventType, b)
	if err := s.producer.Publish(ctx, s.topic, strconv.FormatInt(b.ID, 10), event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"booking_id": b.ID,
			"event":      eventType,
		}).Warn("failed to publish booking event")
	}
}

func (s *BookingService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache read failed")
		return false
	}
	return hit
}

func (s *BookingService) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil || ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

var _ BookingUseCase = (*BookingService)(nil)
