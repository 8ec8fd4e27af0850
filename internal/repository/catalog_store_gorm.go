package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/boatbooking/internal/domain"
	"gorm.io/gorm"
)

// Record is a reference table row managed through CatalogStore.
type Record interface {
	domain.Location | domain.BoatType | domain.Captain | domain.Owner | domain.Amenity | domain.Addon | domain.FAQ
}

type CatalogStore[T Record] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, id int64, item *T) (*T, error)
	Delete(ctx context.Context, id int64) error
}

type GormCatalogStore[T Record] struct {
	db *gorm.DB
}

func NewCatalogStore[T Record](db *gorm.DB) CatalogStore[T] {
	return &GormCatalogStore[T]{db: db}
}

func (s *GormCatalogStore[T]) List(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", tableOf[T](), err)
	}
	return items, nil
}

func (s *GormCatalogStore[T]) Get(ctx context.Context, id int64) (*T, error) {
	var item T
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("get %s %d: %w", tableOf[T](), id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s %d: %w", tableOf[T](), id, err)
	}
	return &item, nil
}

func (s *GormCatalogStore[T]) Create(ctx context.Context, item *T) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create %s: %w", tableOf[T](), err)
	}
	return nil
}

// Update overwrites every column of the row except its id and creation time.
func (s *GormCatalogStore[T]) Update(ctx context.Context, id int64, item *T) (*T, error) {
	res := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Select("*").Omit("id", "created_at").Updates(item)
	if res.Error != nil {
		return nil, fmt.Errorf("update %s %d: %w", tableOf[T](), id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update %s %d: %w", tableOf[T](), id, domain.ErrNotFound)
	}
	return s.Get(ctx, id)
}

func (s *GormCatalogStore[T]) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return fmt.Errorf("delete %s %d: %w", tableOf[T](), id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %s %d: %w", tableOf[T](), id, domain.ErrNotFound)
	}
	return nil
}

func tableOf[T Record]() string {
	var item T
	if t, ok := any(item).(interface{ TableName() string }); ok {
		return t.TableName()
	}
	return fmt.Sprintf("%T", item)
}

var _ CatalogStore[domain.Location] = (*GormCatalogStore[domain.Location])(nil)
