package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-modelform/pkg/model"
)

// Built-in widget identifiers. They match the vanilla renderer's component
// names.
const (
	WidgetInput    = "input"
	WidgetTextarea = "textarea"
	WidgetSelect   = "select"
	WidgetBoolean  = "boolean"
)

// MetadataKey is the field metadata entry naming a widget explicitly.
const MetadataKey = "component"

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit metadata or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher with the provided name and priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit metadata entry is
// honoured before matcher evaluation.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if explicit := strings.TrimSpace(field.Metadata[MetadataKey]); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate implements model.Decorator, recording the resolved widget in each
// field's metadata. Existing entries are kept.
func (r *Registry) Decorate(form *model.Form) error {
	if r == nil || form == nil {
		return nil
	}
	for idx := range form.Fields {
		field := &form.Fields[idx]
		widget, ok := r.Resolve(*field)
		if !ok {
			continue
		}
		if field.Metadata == nil {
			field.Metadata = make(map[string]string, 1)
		}
		if field.Metadata[MetadataKey] == "" {
			field.Metadata[MetadataKey] = widget
		}
	}
	return nil
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetBoolean, 90, func(field model.Field) bool {
		return field.Kind == model.FieldKindBoolean
	})
	r.Register(WidgetSelect, 80, func(field model.Field) bool {
		return field.Kind == model.FieldKindSelect
	})
	r.Register(WidgetTextarea, 70, func(field model.Field) bool {
		if field.Kind != model.FieldKindString {
			return false
		}
		_, bounded := field.Rule(model.ValidationRuleMaxLength)
		return !bounded
	})
	r.Register(WidgetInput, 0, func(model.Field) bool {
		return true
	})
}
