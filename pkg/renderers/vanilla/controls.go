package vanilla

import (
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/cast"

	"github.com/goliatone/go-modelform/pkg/model"
	"github.com/goliatone/go-modelform/pkg/render"
	"github.com/goliatone/go-modelform/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-modelform/pkg/widgets"
)

var inputTypes = map[model.FieldKind]string{
	model.FieldKindString:   "text",
	model.FieldKindInteger:  "number",
	model.FieldKindDateTime: "datetime-local",
	model.FieldKindDate:     "date",
	model.FieldKindTime:     "time",
}

// componentFor picks the component for a field through the widget registry,
// falling back to a plain input.
func componentFor(widgetRegistry *widgets.Registry, field model.Field) string {
	if name, ok := widgetRegistry.Resolve(field); ok {
		return name
	}
	return components.NameInput
}

func controlID(name string) string {
	return "field-" + strcase.ToKebab(name)
}

func buildControl(field model.Field, options render.RenderOptions, policy *bluemonday.Policy) components.Control {
	control := components.Control{
		ID:       controlID(field.Name),
		Name:     field.Name,
		Kind:     string(field.Kind),
		Label:    field.Label,
		Type:     inputTypes[field.Kind],
		Required: field.Required(),
		Errors:   options.Errors[field.Name],
	}
	if control.Label == "" {
		control.Label = model.DefaultLabeler(field.Name)
	}
	if field.Description != "" {
		control.Description = strings.TrimSpace(policy.Sanitize(field.Description))
	}
	if rule, ok := field.Rule(model.ValidationRuleMaxLength); ok {
		control.MaxLength = cast.ToInt(rule.Params["value"])
	}
	if field.Kind == model.FieldKindDateTime && strings.HasSuffix(field.Format, ":05") {
		control.Step = "1"
	}

	value, present := options.Values[field.Name]
	if !present {
		value = field.Default
	}

	switch field.Kind {
	case model.FieldKindBoolean:
		control.Checked = isChecked(value)
	case model.FieldKindSelect:
		selected := formatValue(field, value)
		control.Value = selected
		for _, choice := range field.Choices {
			control.Choices = append(control.Choices, components.Option{
				Value:    choice.Value,
				Label:    choice.Label,
				Selected: choice.Value == selected,
			})
		}
	default:
		control.Value = formatValue(field, value)
	}
	return control
}

// formatValue renders a stored or submitted value the way the HTML control
// expects it.
func formatValue(field model.Field, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		if field.Format != "" {
			return v.Format(field.Format)
		}
		return v.Format(time.RFC3339)
	case *time.Time:
		if v == nil {
			return ""
		}
		return formatValue(field, *v)
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return ""
		}
		return s
	}
}

func isChecked(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "y", "yes", "on", "true", "1":
			return true
		}
		return false
	default:
		return cast.ToBool(v)
	}
}
