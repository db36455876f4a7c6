// Package gormstore looks up domain objects through gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/jacentio/hydrator/internal/access"
	"github.com/jacentio/hydrator/store"
)

// Config holds configuration for the Store.
type Config struct {
	// Preload loads every association of found objects, so by-value
	// collection strategies see the persisted members.
	// Default: true
	Preload bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Preload: true}
}

// Store implements store.Finder with gorm queries.
type Store struct {
	db      *gorm.DB
	config  Config
	schemas sync.Map
}

var _ store.Finder = (*Store)(nil)

// New creates a new Store instance.
func New(db *gorm.DB, config Config) *Store {
	return &Store{db: db, config: config}
}

// Find implements store.Finder. Identifier keys are record names ("id",
// "createdAt") or Go field names; they are mapped to columns through the
// model schema.
func (s *Store) Find(ctx context.Context, t reflect.Type, id store.Identifier) (any, error) {
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a pointer to struct", store.ErrInvalidIdentifier, t)
	}
	if len(id) == 0 {
		return nil, store.ErrNotFound
	}
	obj := reflect.New(t.Elem()).Interface()
	sch, err := schema.Parse(obj, &s.schemas, s.db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", t.Elem().Name(), err)
	}
	conds, err := columns(sch, id)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Model(obj)
	if s.config.Preload {
		q = q.Preload(clause.Associations)
	}
	if err := q.Where(conds).Take(obj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return obj, nil
}

// columns maps identifier keys to column names.
func columns(sch *schema.Schema, id store.Identifier) (map[string]any, error) {
	conds := make(map[string]any, len(id))
	for _, key := range id.Keys() {
		f := sch.LookUpField(key)
		if f == nil {
			f = sch.LookUpField(access.Classify(key))
		}
		if f == nil || f.DBName == "" {
			return nil, fmt.Errorf("%w: %s has no column for %q", store.ErrInvalidIdentifier, sch.Name, key)
		}
		conds[f.DBName] = id[key]
	}
	return conds, nil
}
