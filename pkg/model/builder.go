package model

import (
	"github.com/goliatone/go-modelform/internal/model"
	"github.com/goliatone/go-modelform/pkg/schema"
)

// Builder derives forms from model definitions.
type Builder interface {
	Derive(base Form, m schema.Model, fieldNames ...string) (Form, error)
	DeriveAll(base Form, m schema.Model) (Form, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler func(string) string
	strict  bool
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithStrictFieldNames makes Derive fail with ErrUnknownField when a requested
// name matches no column instead of skipping it.
func WithStrictFieldNames() BuilderOption {
	return func(opts *builderOptions) {
		opts.strict = true
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	internalOpts := model.Options{Strict: cfg.strict}
	if cfg.labeler != nil {
		internalOpts.Labeler = cfg.labeler
	}

	return model.New(internalOpts)
}

// ResolveFieldKind maps a column's logical type to its field kind.
func ResolveFieldKind(column schema.Column) (FieldKind, error) {
	return model.ResolveFieldKind(column)
}

// BuildFieldOptions derives the label, validators and kind-specific options
// for a column.
func BuildFieldOptions(column schema.Column) FieldOptions {
	return model.BuildFieldOptions(column)
}

// TranslateColumn converts a single column into a field descriptor.
func TranslateColumn(column schema.Column) (Field, error) {
	return model.TranslateColumn(column)
}

// DefaultLabeler is the label function used when none is configured.
func DefaultLabeler(name string) string {
	return model.DefaultLabeler(name)
}
