package render

import (
	"sort"
	"strings"
)

// RenderOptions describe per-request data that renderers use to customise
// their output without touching the derived form, which stays shared across
// requests.
type RenderOptions struct {
	// Action is the URL the form submits to. Empty submits to the current URL.
	Action string
	// Method overrides the submission method (POST by default).
	Method string
	// Values pre-populates controls keyed by field name.
	Values map[string]any
	// Errors surfaces validation feedback keyed by field name. Messages under
	// the empty key are rendered as form-level errors.
	Errors map[string][]string
	// Hidden adds hidden inputs such as CSRF tokens.
	Hidden map[string]string
	// SubmitLabel overrides the submit button caption.
	SubmitLabel string
}

// HiddenField is a single hidden input.
type HiddenField struct {
	Name  string
	Value string
}

// SortedHidden returns the hidden inputs sorted by name so output stays
// deterministic. Blank names are dropped.
func (o RenderOptions) SortedHidden() []HiddenField {
	if len(o.Hidden) == 0 {
		return nil
	}
	fields := make([]HiddenField, 0, len(o.Hidden))
	for name, value := range o.Hidden {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		fields = append(fields, HiddenField{Name: name, Value: value})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields
}

// FormErrors returns the messages not bound to a field.
func (o RenderOptions) FormErrors() []string {
	return o.Errors[""]
}
