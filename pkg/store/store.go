// Package store defines the persistence session the model views read and
// write through. Sessions are owned by the host application; views only hold
// a reference.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/goliatone/go-modelform/pkg/schema"
)

// ErrNotFound is returned when no record matches a key.
var ErrNotFound = errors.New("store: record not found")

// Record is one model instance keyed by column name.
type Record map[string]any

// Key returns the record's primary key value for m.
func (r Record) Key(m schema.Model) (any, error) {
	pk, err := m.PrimaryKey()
	if err != nil {
		return nil, err
	}
	return r[pk.Name], nil
}

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Session is the persistence capability set required by the model views.
type Session interface {
	List(ctx context.Context, m schema.Model) ([]Record, error)
	Get(ctx context.Context, m schema.Model, key any) (Record, error)
	Insert(ctx context.Context, m schema.Model, record Record) (Record, error)
	Update(ctx context.Context, m schema.Model, key any, record Record) error
	Delete(ctx context.Context, m schema.Model, key any) error
}

// ParseKey converts a textual key (for example a URL segment) into the Go
// type of the model's primary key column. Integer keys are always decimal.
func ParseKey(m schema.Model, raw string) (any, error) {
	pk, err := m.PrimaryKey()
	if err != nil {
		return nil, err
	}
	switch pk.Type {
	case schema.TypeInteger:
		key, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("store: invalid key %q for %s.%s: %w", raw, m.Name, pk.Name, err)
		}
		return key, nil
	default:
		return raw, nil
	}
}
