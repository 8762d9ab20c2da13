package render

import (
	"context"

	"github.com/goliatone/go-modelform/pkg/model"
)

// Renderer converts a derived Form into a byte representation (HTML, JSON,
// etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.Form, options RenderOptions) ([]byte, error)
}
