package modelform

import (
	"context"

	"github.com/goliatone/go-modelform/pkg/model"
	"github.com/goliatone/go-modelform/pkg/orchestrator"
	"github.com/goliatone/go-modelform/pkg/render"
	"github.com/goliatone/go-modelform/pkg/schema"
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Request aliases the orchestrator request for callers of the root package.
type Request = orchestrator.Request

var (
	// ErrUnsupportedColumnType is returned when a requested column's logical
	// type has no field mapping.
	ErrUnsupportedColumnType = model.ErrUnsupportedColumnType
	// ErrUnknownField is returned by strict builders for unknown field names.
	ErrUnknownField = model.ErrUnknownField
)

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML derives a form holding fieldNames from m and renders it with
// the named renderer ("vanilla" when empty).
func GenerateHTML(ctx context.Context, m schema.Model, fieldNames []string, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Model:    m,
		Fields:   fieldNames,
		Renderer: rendererName,
	})
}
