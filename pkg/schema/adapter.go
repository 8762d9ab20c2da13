package schema

import (
	"bytes"
	"context"

	"gopkg.in/yaml.v3"
)

// FormatAdapter turns a raw model document into a Catalog.
type FormatAdapter interface {
	Name() string
	// Detect reports whether raw looks like a document this adapter reads.
	Detect(raw []byte) bool
	Load(ctx context.Context, raw []byte) (*Catalog, error)
}

// YAMLAdapter reads the native `models:` document.
type YAMLAdapter struct{}

func (YAMLAdapter) Name() string { return "yaml" }

func (YAMLAdapter) Detect(raw []byte) bool {
	return hasTopLevelKey(raw, "models")
}

func (YAMLAdapter) Load(_ context.Context, raw []byte) (*Catalog, error) {
	return LoadYAML(bytes.NewReader(raw))
}

// OpenAPIAdapter reads the component schemas of an OpenAPI 3 document.
type OpenAPIAdapter struct{}

func (OpenAPIAdapter) Name() string { return "openapi" }

func (OpenAPIAdapter) Detect(raw []byte) bool {
	return hasTopLevelKey(raw, "openapi")
}

func (OpenAPIAdapter) Load(ctx context.Context, raw []byte) (*Catalog, error) {
	return FromOpenAPI(ctx, raw)
}

// DefaultAdapters returns the built-in adapters.
func DefaultAdapters() []FormatAdapter {
	return []FormatAdapter{YAMLAdapter{}, OpenAPIAdapter{}}
}

// hasTopLevelKey decodes raw as YAML (a JSON superset) and looks for key in
// the root mapping.
func hasTopLevelKey(raw []byte, key string) bool {
	var root map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return false
	}
	_, ok := root[key]
	return ok
}
