package template

import (
	"io"
)

// TemplateRenderer is the seam between views/renderers and the template
// engine. Names are resolved by the engine's loaders; data is exposed to the
// template as its context.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
