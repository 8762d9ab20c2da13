package model

import (
	"fmt"

	"github.com/goliatone/go-modelform/pkg/schema"
)

// Builder derives forms from model definitions.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	opts.Strict = options.Strict
	return &Builder{opts: opts}
}

// Derive walks the model's columns in declared order and appends a field for
// every column named in fieldNames to a copy of base. The base form is never
// modified. Names that match no column are skipped unless the builder runs in
// strict mode.
func (b *Builder) Derive(base Form, m schema.Model, fieldNames ...string) (Form, error) {
	requested := make(map[string]struct{}, len(fieldNames))
	for _, name := range fieldNames {
		requested[name] = struct{}{}
	}

	form := base.Clone()
	if form.Name == "" {
		form.Name = m.Name + "Form"
	}
	form.Model = m.Name

	matched := make(map[string]struct{}, len(requested))
	for _, column := range m.Columns {
		if _, ok := requested[column.Name]; !ok {
			continue
		}
		field, err := translateColumn(column, b.opts.Labeler)
		if err != nil {
			return Form{}, err
		}
		form.Fields = setField(form.Fields, field)
		matched[column.Name] = struct{}{}
	}

	if b.opts.Strict {
		for _, name := range fieldNames {
			if _, ok := matched[name]; !ok {
				return Form{}, fmt.Errorf("%w: %q on model %q", ErrUnknownField, name, m.Name)
			}
		}
	}

	return form, nil
}

// DeriveAll derives a field for every column of the model.
func (b *Builder) DeriveAll(base Form, m schema.Model) (Form, error) {
	return b.Derive(base, m, m.ColumnNames()...)
}

// setField replaces a same-named field inherited from the base form or
// appends a new one.
func setField(fields []Field, field Field) []Field {
	for i := range fields {
		if fields[i].Name == field.Name {
			fields[i] = field
			return fields
		}
	}
	return append(fields, field)
}
