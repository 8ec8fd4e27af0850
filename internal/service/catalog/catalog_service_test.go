package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLocationStore struct {
	mock.Mock
}

func (m *MockLocationStore) List(ctx context.Context) ([]domain.Location, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Location), args.Error(1)
}

func (m *MockLocationStore) Get(ctx context.Context, id int64) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationStore) Create(ctx context.Context, item *domain.Location) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockLocationStore) Update(ctx context.Context, id int64, item *domain.Location) (*domain.Location, error) {
	args := m.Called(ctx, id, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestService_Create(t *testing.T) {
	store := &MockLocationStore{}
	service := NewService[domain.Location](store)
	ctx := context.Background()

	item := &domain.Location{Name: "Göcek"}
	store.On("Create", ctx, item).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Location).ID = 5
	}).Return(nil).Once()

	created, err := service.Create(ctx, item)

	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
	store.AssertExpectations(t)
}

func TestService_Create_RequiresName(t *testing.T) {
	store := &MockLocationStore{}
	service := NewService[domain.Location](store)

	_, err := service.Create(context.Background(), &domain.Location{})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Fields[0].Field)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Update_InvalidImageURL(t *testing.T) {
	store := &MockLocationStore{}
	service := NewService[domain.Location](store)

	bad := "not a url"
	_, err := service.Update(context.Background(), 1, &domain.Location{Name: "Kaş", ImageURL: &bad})

	assert.True(t, errors.Is(err, domain.ErrValidation))
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_PassThrough(t *testing.T) {
	store := &MockLocationStore{}
	service := NewService[domain.Location](store)
	ctx := context.Background()

	store.On("List", ctx).Return([]domain.Location{{ID: 1, Name: "Fethiye"}}, nil).Once()
	store.On("Get", ctx, int64(9)).Return(nil, domain.ErrNotFound).Once()
	store.On("Delete", ctx, int64(9)).Return(domain.ErrNotFound).Once()

	items, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = service.Get(ctx, 9)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(service.Delete(ctx, 9), domain.ErrNotFound))
}
