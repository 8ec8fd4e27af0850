// Package catalog manages the reference records the boats point at:
// locations, boat types, captains, owners, amenities, add-ons and FAQs.
package catalog

import (
	"context"

	"github.com/Domenick1991/boatbooking/internal/repository"
	"github.com/Domenick1991/boatbooking/internal/validation"
)

type CatalogUseCase[T repository.Record] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, item *T) (*T, error)
	Update(ctx context.Context, id int64, item *T) (*T, error)
	Delete(ctx context.Context, id int64) error
}

type Service[T repository.Record] struct {
	store    repository.CatalogStore[T]
	validate *validation.Validator
}

func NewService[T repository.Record](store repository.CatalogStore[T]) *Service[T] {
	return &Service[T]{store: store, validate: validation.New()}
}

func (s *Service[T]) List(ctx context.Context) ([]T, error) {
	return s.store.List(ctx)
}

func (s *Service[T]) Get(ctx context.Context, id int64) (*T, error) {
	return s.store.Get(ctx, id)
}

func (s *Service[T]) Create(ctx context.Context, item *T) (*T, error) {
	if err := s.validate.Struct(item); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service[T]) Update(ctx context.Context, id int64, item *T) (*T, error) {
	if err := s.validate.Struct(item); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, item)
}

func (s *Service[T]) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
