package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/goliatone/go-modelform/pkg/model"
	"github.com/goliatone/go-modelform/pkg/render"
	"github.com/goliatone/go-modelform/pkg/validation"
)

const noneOption = "(none)"

// Renderer implements render.Renderer for terminal-driven sessions: every
// field becomes a prompt and the collected, validated answers are the output.
type Renderer struct {
	driver            PromptDriver
	validator         *validation.Validator
	outputFormat      OutputFormat
	maxAttempts       int
	submitTransformer SubmitTransformer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		maxAttempts:  defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.validator == nil {
		v, err := validation.New()
		if err != nil {
			return nil, fmt.Errorf("tui: %w", err)
		}
		r.validator = v
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every field in order and serializes the answers.
// Values in opts prefill the prompts; errors in opts are shown before the
// field they belong to.
func (r *Renderer) Render(ctx context.Context, form model.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, message := range opts.FormErrors() {
		if err := r.driver.Info(ctx, message); err != nil {
			return nil, err
		}
	}

	values := make(map[string]any, len(form.Fields))
	for _, field := range form.Fields {
		for _, message := range opts.Errors[field.Name] {
			if err := r.driver.Info(ctx, fmt.Sprintf("%s: %s", displayLabel(field), message)); err != nil {
				return nil, err
			}
		}

		current, ok := opts.Values[field.Name]
		if !ok {
			current = field.Default
		}
		value, err := r.promptField(ctx, field, current)
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}

	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(form, values)
}

// promptField asks until the answer validates or the attempts run out.
func (r *Renderer) promptField(ctx context.Context, field model.Field, current any) (any, error) {
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		raw, err := r.ask(ctx, field, current)
		if err != nil {
			return nil, err
		}

		value, messages := r.validator.Field(field, raw, true)
		if len(messages) == 0 {
			return value, nil
		}
		for _, message := range messages {
			if err := r.driver.Info(ctx, "Invalid answer: "+message); err != nil {
				return nil, err
			}
		}
		current = raw
	}
	return nil, fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
}

func (r *Renderer) ask(ctx context.Context, field model.Field, current any) (string, error) {
	label := displayLabel(field)
	help := displayHelp(field)

	switch field.Kind {
	case model.FieldKindBoolean:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: cast.ToBool(current),
			Help:    help,
		})
		if err != nil {
			return "", err
		}
		if checked {
			return "y", nil
		}
		return "", nil

	case model.FieldKindSelect:
		options := make([]string, 0, len(field.Choices)+1)
		values := make([]string, 0, len(field.Choices)+1)
		if !field.Required() {
			options = append(options, noneOption)
			values = append(values, "")
		}
		for _, choice := range field.Choices {
			options = append(options, choice.Label)
			values = append(values, choice.Value)
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: indexOf(values, defaultText(field, current)),
			Help:         help,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(values) {
			return "", nil
		}
		return values[idx], nil

	case model.FieldKindString:
		if _, bounded := field.Rule(model.ValidationRuleMaxLength); !bounded {
			return r.driver.TextArea(ctx, TextAreaConfig{
				Message: label,
				Default: defaultText(field, current),
				Help:    help,
			})
		}
	}

	return r.driver.Input(ctx, InputConfig{
		Message: label,
		Default: defaultText(field, current),
		Help:    help,
	})
}

func (r *Renderer) serialize(form model.Form, values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		encoded := url.Values{}
		for _, name := range form.FieldNames() {
			field, _ := form.Field(name)
			encoded.Set(name, defaultText(field, values[name]))
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, field := range form.Fields {
			fmt.Fprintf(&b, "%s: %s\n", displayLabel(field), defaultText(field, values[field.Name]))
		}
		return []byte(b.String()), nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(values); err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return buf.Bytes(), nil
	}
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return model.DefaultLabeler(field.Name)
}

func displayHelp(field model.Field) string {
	help := field.Description
	if field.Format != "" {
		format := "Format: " + validation.DisplayFormat(field.Format)
		if help == "" {
			return format
		}
		return help + " (" + format + ")"
	}
	return help
}

// defaultText renders a value as the text a prompt would accept back.
func defaultText(field model.Field, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "y"
		}
		return ""
	case time.Time:
		if field.Format != "" {
			return v.Format(field.Format)
		}
		return v.Format(time.RFC3339)
	default:
		return cast.ToString(v)
	}
}
