package boats

import (
	"context"
	"time"

	"github.com/Domenick1991/boatbooking/internal/cache"
	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/Domenick1991/boatbooking/internal/repository"
	"github.com/Domenick1991/boatbooking/internal/validation"
	"github.com/sirupsen/logrus"
)

type BoatUseCase interface {
	List(ctx context.Context, filter domain.BoatFilter) ([]domain.Boat, error)
	GetByID(ctx context.Context, id int64) (*domain.Boat, error)
	Create(ctx context.Context, input BoatInput) (*domain.Boat, error)
	Update(ctx context.Context, id int64, input BoatInput) (*domain.Boat, error)
	Delete(ctx context.Context, id int64) error
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, kind cache.Kind, id *int64) error
}

type BoatService struct {
	repo     repository.BoatRepository
	cache    Cache
	cacheTTL time.Duration
	validate *validation.Validator
}

func NewBoatService(repo repository.BoatRepository, boatCache Cache, cacheTTL time.Duration) *BoatService {
	return &BoatService{repo: repo, cache: boatCache, cacheTTL: cacheTTL, validate: validation.New()}
}

func (s *BoatService) List(ctx context.Context, filter domain.BoatFilter) ([]domain.Boat, error) {
	key := cache.QueryKey(cache.KindBoats, filter)
	var cached []domain.Boat
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	boats, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, boats)
	return boats, nil
}

func (s *BoatService) GetByID(ctx context.Context, id int64) (*domain.Boat, error) {
	key := cache.Key(cache.KindBoat, id)
	var cached domain.Boat
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	boat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, boat)
	return boat, nil
}

func (s *BoatService) Create(ctx context.Context, input BoatInput) (*domain.Boat, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	boat, err := s.repo.Create(ctx, input.toBoat())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, nil)
	return boat, nil
}

func (s *BoatService) Update(ctx context.Context, id int64, input BoatInput) (*domain.Boat, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}
	boat, err := s.repo.Update(ctx, id, input.toBoat())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, &id)
	return boat, nil
}

func (s *BoatService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, &id)
	return nil
}

// invalidate drops boat listings and, since booking reads embed the boat,
// every cached booking read as well.
func (s *BoatService) invalidate(ctx context.Context, id *int64) {
	if s.cache == nil {
		return
	}
	kinds := []cache.Kind{cache.KindBoats, cache.KindBookings, cache.KindBooking}
	if id != nil {
		if err := s.cache.Invalidate(ctx, cache.KindBoat, id); err != nil {
			logrus.WithError(err).WithField("boat_id", *id).Warn("cache invalidation failed")
		}
	}
	for _, kind := range kinds {
		if err := s.cache.Invalidate(ctx, kind, nil); err != nil {
			logrus.WithError(err).WithField("kind", kind).Warn("cache invalidation failed")
		}
	}
}

func (s *BoatService) cacheGet(ctx context.Context, key string, dest any) bool {
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

func (s *BoatService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

var _ BoatUseCase = (*BoatService)(nil)
