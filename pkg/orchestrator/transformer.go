package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-modelform/pkg/model"
)

// Transformer mutates a derived Form before decorators run. Implementations
// can relabel fields, inject metadata, or reorder fields.
type Transformer interface {
	Transform(ctx context.Context, form *model.Form) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.Form) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.Form) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// PresetTransformer applies declarative overrides loaded from a YAML (or
// JSON) document:
//
//	metadata:
//	  layout: compact
//	order: [title, status]
//	fields:
//	  title:
//	    label: Headline
//	    metadata:
//	      component: textarea
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Metadata map[string]string     `yaml:"metadata"`
	Order    []string              `yaml:"order"`
	Fields   map[string]fieldPatch `yaml:"fields"`
}

type fieldPatch struct {
	Label       string            `yaml:"label"`
	Description string            `yaml:"description"`
	Metadata    map[string]string `yaml:"metadata"`
}

// NewPresetTransformer constructs a transformer from raw YAML or JSON bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the declarative patches onto form. Patches naming a field
// the form does not carry are an error.
func (t *PresetTransformer) Transform(ctx context.Context, form *model.Form) error {
	if form == nil {
		return errors.New("preset transformer: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(t.document.Metadata) > 0 {
		form.Metadata = mergeStringMap(form.Metadata, t.document.Metadata)
	}

	for name, patch := range t.document.Fields {
		field := findField(form.Fields, name)
		if field == nil {
			return fmt.Errorf("preset transformer: field %q not found", name)
		}
		applyFieldPatch(field, patch)
	}

	if len(t.document.Order) > 0 {
		fields, err := reorderFields(form.Fields, t.document.Order)
		if err != nil {
			return err
		}
		form.Fields = fields
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch fieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}
	if len(patch.Metadata) > 0 {
		field.Metadata = mergeStringMap(field.Metadata, patch.Metadata)
	}
}

func findField(fields []model.Field, name string) *model.Field {
	for idx := range fields {
		if fields[idx].Name == name {
			return &fields[idx]
		}
	}
	return nil
}

// reorderFields puts the named fields first, in the given order, and keeps
// the remaining fields in their original order after them.
func reorderFields(fields []model.Field, order []string) ([]model.Field, error) {
	out := make([]model.Field, 0, len(fields))
	placed := make(map[string]struct{}, len(order))
	for _, name := range order {
		if _, dup := placed[name]; dup {
			continue
		}
		field := findField(fields, name)
		if field == nil {
			return nil, fmt.Errorf("preset transformer: order names unknown field %q", name)
		}
		out = append(out, *field)
		placed[name] = struct{}{}
	}
	for _, field := range fields {
		if _, ok := placed[field.Name]; !ok {
			out = append(out, field)
		}
	}
	return out, nil
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
