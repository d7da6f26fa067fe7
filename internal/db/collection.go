package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNilDatabase is returned by collections built without a handle.
var ErrNilDatabase = errors.New("db: database handle is nil")

// Collection is the CRUD surface over one entity table. Update is a partial
// patch, never a full replace.
type Collection[T any] struct {
	db       *gorm.DB
	preloads []string
}

func NewCollection[T any](db *gorm.DB) *Collection[T] {
	return &Collection[T]{db: db}
}

// Preload returns a copy of the collection that eager-loads associations on
// reads.
func (c *Collection[T]) Preload(associations ...string) *Collection[T] {
	next := &Collection[T]{db: c.db}
	next.preloads = append(append(next.preloads, c.preloads...), associations...)
	return next
}

func (c *Collection[T]) query(ctx context.Context) (*gorm.DB, error) {
	if c == nil || c.db == nil {
		return nil, ErrNilDatabase
	}
	tx := c.db.WithContext(ctx)
	for _, association := range c.preloads {
		tx = tx.Preload(association)
	}
	return tx, nil
}

// List returns every row ordered by id.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	tx, err := c.query(ctx)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := tx.Order("id asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return items, nil
}

// Get returns the row with id, or nil without an error when it does not
// exist.
func (c *Collection[T]) Get(ctx context.Context, id uint) (*T, error) {
	tx, err := c.query(ctx)
	if err != nil {
		return nil, err
	}
	var item T
	if err := tx.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %d: %w", id, err)
	}
	return &item, nil
}

// Filter returns rows whose columns equal the given values.
func (c *Collection[T]) Filter(ctx context.Context, where map[string]any) ([]T, error) {
	tx, err := c.query(ctx)
	if err != nil {
		return nil, err
	}
	var items []T
	if len(where) > 0 {
		tx = tx.Where(where)
	}
	if err := tx.Order("id asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	return items, nil
}

func (c *Collection[T]) Create(ctx context.Context, item *T) error {
	tx, err := c.query(ctx)
	if err != nil {
		return err
	}
	if err := tx.Create(item).Error; err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}

// Update applies patch to the row with id and returns the stored result.
// gorm.ErrRecordNotFound is returned when no row matched.
func (c *Collection[T]) Update(ctx context.Context, id uint, patch map[string]any) (*T, error) {
	tx, err := c.query(ctx)
	if err != nil {
		return nil, err
	}
	if len(patch) > 0 {
		result := c.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(patch)
		if result.Error != nil {
			return nil, fmt.Errorf("update %d: %w", id, result.Error)
		}
	}
	var item T
	if err := tx.First(&item, id).Error; err != nil {
		return nil, fmt.Errorf("update %d: %w", id, err)
	}
	return &item, nil
}

// Save writes every field of item.
func (c *Collection[T]) Save(ctx context.Context, item *T) error {
	if c == nil || c.db == nil {
		return ErrNilDatabase
	}
	if err := c.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id uint) error {
	if c == nil || c.db == nil {
		return ErrNilDatabase
	}
	if err := c.db.WithContext(ctx).Delete(new(T), id).Error; err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	return nil
}
