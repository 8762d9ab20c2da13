package components

import (
	"bytes"
	"fmt"
)

const (
	templatePrefix = "templates/components/"
)

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// components used by the vanilla renderer.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameInput, Descriptor{
		Renderer: TemplateRenderer(templatePrefix + "input.tmpl"),
	})
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: TemplateRenderer(templatePrefix + "textarea.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: TemplateRenderer(templatePrefix + "select.tmpl"),
	})
	registry.MustRegister(NameBoolean, Descriptor{
		Renderer:    TemplateRenderer(templatePrefix + "boolean.tmpl"),
		InlineLabel: true,
	})

	return registry
}

// TemplateRenderer returns a component renderer that executes templateName
// with the control bound to "control".
func TemplateRenderer(templateName string) Renderer {
	return func(buf *bytes.Buffer, control Control, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		rendered, err := data.Template.RenderTemplate(templateName, map[string]any{
			"control": control,
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
