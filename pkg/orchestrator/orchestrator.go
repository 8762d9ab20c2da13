package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-modelform/pkg/log"
	"github.com/goliatone/go-modelform/pkg/model"
	"github.com/goliatone/go-modelform/pkg/render"
	"github.com/goliatone/go-modelform/pkg/renderers/vanilla"
	"github.com/goliatone/go-modelform/pkg/schema"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithModelBuilder injects a custom form builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that mutates forms after they are
// derived but before decorators run.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators that run against every derived form
// before rendering.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithAdapters replaces the model document adapters.
func WithAdapters(registry *AdapterRegistry) Option {
	return func(o *Orchestrator) {
		o.adapters = registry
	}
}

// WithCatalog supplies the models requests may refer to by name.
func WithCatalog(catalog *schema.Catalog) Option {
	return func(o *Orchestrator) {
		o.catalog = catalog
	}
}

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the pipeline from model definition to rendered
// form. It applies defaults (vanilla renderer, YAML and OpenAPI adapters)
// while remaining open to dependency injection.
type Orchestrator struct {
	builder         model.Builder
	registry        *render.Registry
	adapters        *AdapterRegistry
	catalog         *schema.Catalog
	defaultRenderer string
	transformer     Transformer
	decorators      []model.Decorator
	logger          log.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to derive and render one form.
type Request struct {
	// Model is used as-is when it has columns. Otherwise ModelName is looked
	// up in the configured catalog.
	Model     schema.Model
	ModelName string

	// Base is the form the derived fields are added to.
	Base model.Form

	// Fields selects the columns to derive, in model order. Empty derives
	// every column.
	Fields []string

	// Renderer names the renderer to use. Empty falls back to the default.
	Renderer string

	// RenderOptions carries per-request action, method, values and errors.
	RenderOptions render.RenderOptions
}

// Catalog returns the configured model catalog, if any.
func (o *Orchestrator) Catalog() *schema.Catalog {
	return o.catalog
}

// Form derives the form for req and runs the transformer and decorators.
func (o *Orchestrator) Form(ctx context.Context, req Request) (model.Form, error) {
	if ctx == nil {
		return model.Form{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.Form{}, err
	}
	if err := o.initialiseErr; err != nil {
		return model.Form{}, err
	}

	m, err := o.resolveModel(req)
	if err != nil {
		return model.Form{}, err
	}

	var form model.Form
	if len(req.Fields) == 0 {
		form, err = o.builder.DeriveAll(req.Base, m)
	} else {
		form, err = o.builder.Derive(req.Base, m, req.Fields...)
	}
	if err != nil {
		return model.Form{}, fmt.Errorf("orchestrator: derive form: %w", err)
	}

	if err := o.applyTransformer(ctx, &form); err != nil {
		return model.Form{}, err
	}
	if err := o.applyDecorators(&form); err != nil {
		return model.Form{}, err
	}

	o.logger.Debug("form derived", "model", m.Name, "form", form.Name, "fields", len(form.Fields))
	return form, nil
}

// Generate derives the form for req and renders it with the selected
// renderer (HTML for the default vanilla renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	form, err := o.Form(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.Renderer(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, form, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Renderer resolves a renderer by name. An empty name selects the default
// renderer, or the first registered one when the default is missing.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) resolveModel(req Request) (schema.Model, error) {
	if len(req.Model.Columns) > 0 {
		return req.Model, nil
	}
	name := req.ModelName
	if name == "" {
		name = req.Model.Name
	}
	if name == "" {
		return schema.Model{}, errors.New("orchestrator: model or model name is required")
	}
	if o.catalog == nil {
		return schema.Model{}, fmt.Errorf("orchestrator: model %q requested without a catalog", name)
	}
	m, err := o.catalog.Get(name)
	if err != nil {
		return schema.Model{}, fmt.Errorf("orchestrator: %w", err)
	}
	return m, nil
}

func (o *Orchestrator) applyDecorators(form *model.Form) error {
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(form); err != nil {
			return fmt.Errorf("orchestrator: decorate form: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, form *model.Form) error {
	if o.transformer == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, form); err != nil {
		return fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	o.logger = log.OrNop(o.logger)
	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.adapters == nil {
		o.adapters = NewAdapterRegistry(schema.DefaultAdapters()...)
	}
	if o.registry == nil {
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		registry, err := render.NewRegistry(renderer)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default registry: %w", err)
			return
		}
		o.registry = registry
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
