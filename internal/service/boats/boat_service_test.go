package boats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/boatbooking/internal/cache"
	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBoatRepository struct {
	mock.Mock
}

func (m *MockBoatRepository) List(ctx context.Context, filter domain.BoatFilter) ([]domain.Boat, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Boat), args.Error(1)
}

func (m *MockBoatRepository) GetByID(ctx context.Context, id int64) (*domain.Boat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Boat), args.Error(1)
}

func (m *MockBoatRepository) Create(ctx context.Context, boat *domain.Boat) (*domain.Boat, error) {
	args := m.Called(ctx, boat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Boat), args.Error(1)
}

func (m *MockBoatRepository) Update(ctx context.Context, id int64, boat *domain.Boat) (*domain.Boat, error) {
	args := m.Called(ctx, id, boat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Boat), args.Error(1)
}

func (m *MockBoatRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, kind cache.Kind, id *int64) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

func TestBoatService_List_CacheMiss(t *testing.T) {
	mockRepo := &MockBoatRepository{}
	mockCache := &MockCache{}

	service := NewBoatService(mockRepo, mockCache, 5*time.Minute)

	ctx := context.Background()
	filter := domain.BoatFilter{People: 8}
	boats := []domain.Boat{{ID: 1, Name: "Blue Pearl", PersonCapacity: 12}}
	key := cache.QueryKey(cache.KindBoats, filter)

	// Настройка моков
	mockCache.On("Get", ctx, key, mock.Anything).Return(false, nil).Once()
	mockRepo.On("List", ctx, filter).Return(boats, nil).Once()
	mockCache.On("Set", ctx, key, boats, 5*time.Minute).Return(nil).Once()

	// Выполнение
	result, err := service.List(ctx, filter)

	// Проверки
	assert.NoError(t, err)
	assert.Equal(t, boats, result)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestBoatService_List_CacheHit(t *testing.T) {
	mockRepo := &MockBoatRepository{}
	mockCache := &MockCache{}

	service := NewBoatService(mockRepo, mockCache, time.Minute)
	ctx := context.Background()

	mockCache.On("Get", ctx, mock.Anything, mock.AnythingOfType("*[]domain.Boat")).
		Run(func(args mock.Arguments) {
			*args.Get(2).(*[]domain.Boat) = []domain.Boat{{ID: 2, Name: "Sea Breeze"}}
		}).
		Return(true, nil).Once()

	result, err := service.List(ctx, domain.BoatFilter{})

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestBoatService_List_CacheErrorFallsBackToRepo(t *testing.T) {
	mockRepo := &MockBoatRepository{}
	mockCache := &MockCache{}

	service := NewBoatService(mockRepo, mockCache, time.Minute)
	ctx := context.Background()

	hook := logtest.NewGlobal()
	defer hook.Reset()

	mockCache.On("Get", ctx, mock.Anything, mock.Anything).Return(false, errors.New("redis down")).Once()
	mockRepo.On("List", ctx, domain.BoatFilter{}).Return([]domain.Boat{}, nil).Once()
	mockCache.On("Set", ctx, mock.Anything, mock.Anything, time.Minute).Return(errors.New("redis down")).Once()

	result, err := service.List(ctx, domain.BoatFilter{})

	assert.NoError(t, err)
	assert.Empty(t, result)

	var messages []string
	for _, entry := range hook.AllEntries() {
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		messages = append(messages, entry.Message)
	}
	assert.Equal(t, []string{"cache read failed", "cache write failed"}, messages)
	mockCache.AssertExpectations(t)
}

func TestBoatService_GetByID_CacheErrorFallsBackToRepo(t *testing.T) {
	mockRepo := &MockBoatRepository{}
	mockCache := &MockCache{}

	service := NewBoatService(mockRepo, mockCache, time.Minute)
	ctx := context.Background()

	hook := logtest.NewGlobal()
	defer hook.Reset()

	boat := &domain.Boat{ID: 4, Name: "Sea Breeze"}
	mockCache.On("Get", ctx, cache.Key(cache.KindBoat, int64(4)), mock.Anything).Return(false, errors.New("redis down")).Once()
	mockRepo.On("GetByID", ctx, int64(4)).Return(boat, nil).Once()
	mockCache.On("Set", ctx, cache.Key(cache.KindBoat, int64(4)), boat, time.Minute).Return(nil).Once()

	result, err := service.GetByID(ctx, 4)

	require.NoError(t, err)
	assert.Equal(t, boat, result)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "cache read failed", hook.LastEntry().Message)
}

func TestBoatService_GetByID_NotFound(t *testing.T) {
	mockRepo := &MockBoatRepository{}
	service := NewBoatService(mockRepo, nil, time.Minute)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(999)).Return(nil, domain.ErrNotFound).Once()

	boat, err := service.GetByID(ctx, 999)

	assert.Nil(t, boat)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBoatService_Create(t *testing.T) {
	mockRepo := &MockBoatRepository{}
	mockCache := &MockCache{}
	service := NewBoatService(mockRepo, mockCache, time.Minute)
	ctx := context.Background()

	input := BoatInput{Name: "Blue Pearl", PersonCapacity: 12, Price: 1500}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(b *domain.Boat) bool {
		return b.Name == "Blue Pearl" && b.Images != nil && b.AmenityIDs != nil
	})).Return(&domain.Boat{ID: 7, Name: "Blue Pearl"}, nil).Once()
	mockCache.On("Invalidate", ctx, cache.KindBoats, (*int64)(nil)).Return(nil).Once()
	mockCache.On("Invalidate", ctx, cache.KindBookings, (*int64)(nil)).Return(nil).Once()
	mockCache.On("Invalidate", ctx, cache.KindBooking, (*int64)(nil)).Return(nil).Once()

	boat, err := service.Create(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, int64(7), boat.ID)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestBoatService_Create_Invalid(t *testing.T) {
	mockRepo := &MockBoatRepository{}
	service := NewBoatService(mockRepo, nil, time.Minute)

	_, err := service.Create(context.Background(), BoatInput{Name: "X", PersonCapacity: 0, Discount: 150})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBoatService_Update(t *testing.T) {
	mockRepo := &MockBoatRepository{}
	mockCache := &MockCache{}
	service := NewBoatService(mockRepo, mockCache, time.Minute)
	ctx := context.Background()
	id := int64(7)

	mockRepo.On("Update", ctx, id, mock.AnythingOfType("*domain.Boat")).Return(&domain.Boat{ID: id, Name: "Blue Pearl II"}, nil).Once()
	mockCache.On("Invalidate", ctx, cache.KindBoat, &id).Return(nil).Once()
	mockCache.On("Invalidate", ctx, mock.Anything, (*int64)(nil)).Return(nil).Times(3)

	boat, err := service.Update(ctx, id, BoatInput{Name: "Blue Pearl II", PersonCapacity: 10})

	require.NoError(t, err)
	assert.Equal(t, "Blue Pearl II", boat.Name)
	mockCache.AssertExpectations(t)
}

func TestBoatService_Delete(t *testing.T) {
	mockRepo := &MockBoatRepository{}
	service := NewBoatService(mockRepo, nil, time.Minute)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(3)).Return(nil).Once()
	mockRepo.On("Delete", ctx, int64(4)).Return(domain.ErrNotFound).Once()

	assert.NoError(t, service.Delete(ctx, 3))
	assert.True(t, errors.Is(service.Delete(ctx, 4), domain.ErrNotFound))
}
