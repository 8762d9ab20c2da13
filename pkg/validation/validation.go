// Package validation checks submitted form values against the validators of a
// derived form and coerces them into typed values ready for persistence.
package validation

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/goliatone/go-modelform/pkg/model"
)

const (
	msgRequired = "required"
	msgMax      = "max"
	msgInteger  = "integer"
	msgDatetime = "datetime"
	msgChoice   = "oneof"
)

var defaultMessages = map[string]string{
	msgRequired: "{0} is required",
	msgMax:      "{0} must be at most {1} characters long",
	msgInteger:  "{0} must be a whole number",
	msgDatetime: "{0} must use the format {1}",
	msgChoice:   "{0} must be one of {1}",
}

// Result holds the coerced values and per-field messages of a submission.
// Values of empty optional fields are nil.
type Result struct {
	Values map[string]any
	Errors map[string][]string
}

// Valid reports whether no field produced an error.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Validator applies field validators using go-playground/validator and renders
// messages through a universal-translator catalogue.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// Option customises a Validator.
type Option func(*Validator) error

// WithMessage overrides the message template for a rule. Templates receive
// the field label as {0} and the rule parameter as {1}.
func WithMessage(rule, text string) Option {
	return func(v *Validator) error {
		return v.trans.Add(rule, text, true)
	}
}

// New builds a Validator with the English message catalogue.
func New(options ...Option) (*Validator, error) {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	v := &Validator{
		validate: validator.New(),
		trans:    trans,
	}
	for rule, text := range defaultMessages {
		if err := trans.Add(rule, text, false); err != nil {
			return nil, fmt.Errorf("validation: register message %q: %w", rule, err)
		}
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("validation: apply option: %w", err)
		}
	}
	return v, nil
}

var defaultValidator = func() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}()

// Validate checks values against form using the default English validator.
func Validate(form model.Form, values url.Values) Result {
	return defaultValidator.Validate(form, values)
}

// Validate checks every field of form against the submitted values.
func (v *Validator) Validate(form model.Form, values url.Values) Result {
	result := Result{Values: make(map[string]any, len(form.Fields))}
	for _, field := range form.Fields {
		raw, present := lookup(values, field.Name)
		value, messages := v.Field(field, raw, present)
		if len(messages) > 0 {
			if result.Errors == nil {
				result.Errors = make(map[string][]string)
			}
			result.Errors[field.Name] = messages
			continue
		}
		result.Values[field.Name] = value
	}
	return result
}

// Field validates and coerces a single raw value.
func (v *Validator) Field(field model.Field, raw string, present bool) (any, []string) {
	raw = strings.TrimSpace(raw)
	if field.Kind == model.FieldKindBoolean {
		raw = booleanInput(raw, present)
	}

	for _, rule := range field.Validators {
		switch rule.Kind {
		case model.ValidationRuleOptional:
			if raw == "" {
				if field.Kind == model.FieldKindBoolean {
					return false, nil
				}
				return nil, nil
			}
		case model.ValidationRuleInputRequired:
			if err := v.validate.Var(raw, "required"); err != nil {
				return nil, []string{v.message(msgRequired, field)}
			}
		case model.ValidationRuleMaxLength:
			limit := rule.Params["value"]
			if err := v.validate.Var(raw, "max="+limit); err != nil {
				return nil, []string{v.message(msgMax, field, limit)}
			}
		}
	}

	return v.coerce(field, raw)
}

func (v *Validator) coerce(field model.Field, raw string) (any, []string) {
	switch field.Kind {
	case model.FieldKindBoolean:
		return raw != "", nil
	case model.FieldKindInteger:
		if raw == "" {
			return nil, nil
		}
		if err := v.validate.Var(raw, "numeric"); err != nil {
			return nil, []string{v.message(msgInteger, field)}
		}
		n, err := cast.ToInt64E(decimalInteger(raw))
		if err != nil {
			return nil, []string{v.message(msgInteger, field)}
		}
		return n, nil
	case model.FieldKindDateTime, model.FieldKindDate, model.FieldKindTime:
		if raw == "" {
			return nil, nil
		}
		parsed, ok := v.parseTime(field, raw)
		if !ok {
			return nil, []string{v.message(msgDatetime, field, DisplayFormat(field.Format))}
		}
		return parsed, nil
	case model.FieldKindSelect:
		if raw == "" {
			return nil, nil
		}
		for _, choice := range field.Choices {
			if choice.Value == raw {
				return raw, nil
			}
		}
		return nil, []string{v.message(msgChoice, field, choiceList(field.Choices))}
	default:
		return raw, nil
	}
}

func (v *Validator) parseTime(field model.Field, raw string) (time.Time, bool) {
	layouts := []string{field.Format}
	if field.Kind == model.FieldKindDateTime {
		// Browsers omit seconds from datetime-local values unless step is set.
		layouts = append(layouts, "2006-01-02T15:04")
	}
	for _, layout := range layouts {
		if layout == "" {
			continue
		}
		if err := v.validate.Var(raw, "datetime="+layout); err != nil {
			continue
		}
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func (v *Validator) message(rule string, field model.Field, params ...string) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	msg, err := v.trans.T(rule, append([]string{label}, params...)...)
	if err != nil {
		return fmt.Sprintf("%s is invalid", label)
	}
	return msg
}

var formatReplacer = strings.NewReplacer(
	"2006", "YYYY",
	"01", "MM",
	"02", "DD",
	"15", "HH",
	"04", "MM",
	"05", "SS",
)

// DisplayFormat turns a Go time layout into the YYYY-MM-DD style notation
// shown to users.
func DisplayFormat(layout string) string {
	return formatReplacer.Replace(layout)
}

func choiceList(choices []model.Choice) string {
	values := make([]string, 0, len(choices))
	for _, choice := range choices {
		values = append(values, choice.Value)
	}
	return strings.Join(values, ", ")
}

// decimalInteger drops a plus sign and leading zeros so cast does not read
// the value as octal.
func decimalInteger(raw string) string {
	sign := ""
	switch {
	case strings.HasPrefix(raw, "-"):
		sign, raw = "-", raw[1:]
	case strings.HasPrefix(raw, "+"):
		raw = raw[1:]
	}
	trimmed := strings.TrimLeft(raw, "0")
	if trimmed == "" || strings.HasPrefix(trimmed, ".") {
		trimmed = "0" + trimmed
	}
	return sign + trimmed
}

func lookup(values url.Values, name string) (string, bool) {
	items, ok := values[name]
	if !ok || len(items) == 0 {
		return "", ok
	}
	return items[0], true
}

// booleanInput normalises checkbox semantics: a missing input or a falsy
// literal is unchecked and becomes the empty string.
func booleanInput(raw string, present bool) string {
	if !present {
		return ""
	}
	switch strings.ToLower(raw) {
	case "", "false", "0", "off", "no":
		return ""
	}
	return "y"
}
