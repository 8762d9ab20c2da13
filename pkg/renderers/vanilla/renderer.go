package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-modelform/pkg/model"
	"github.com/goliatone/go-modelform/pkg/render"
	rendertemplate "github.com/goliatone/go-modelform/pkg/render/template"
	gotemplate "github.com/goliatone/go-modelform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-modelform/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-modelform/pkg/widgets"
)

const (
	formTemplate  = "templates/form.tmpl"
	fieldTemplate = "templates/field.tmpl"

	defaultSubmitLabel = "Save"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	widgets          *widgets.Registry
	policy           *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents replaces the component registry used to render controls.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithWidgets replaces the registry that picks a component for each field.
func WithWidgets(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// WithDescriptionPolicy sets the sanitiser applied to field descriptions.
// Defaults to bluemonday's UGC policy.
func WithDescriptionPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// Renderer renders derived forms as plain HTML forms.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	registry  *components.Registry
	widgets   *widgets.Registry
	policy    *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		registry:  cfg.registry,
		widgets:   cfg.widgets,
		policy:    cfg.policy,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form markup. Field order follows the form; values and
// errors come from options.
func (r *Renderer) Render(ctx context.Context, form model.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	fields := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		markup, err := r.renderField(field, options)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		fields = append(fields, markup)
	}

	hidden := make([]map[string]any, 0, len(options.Hidden))
	for _, h := range options.SortedHidden() {
		hidden = append(hidden, map[string]any{"name": h.Name, "value": h.Value})
	}

	method := strings.ToLower(strings.TrimSpace(options.Method))
	if method == "" {
		method = "post"
	}
	submit := options.SubmitLabel
	if submit == "" {
		submit = defaultSubmitLabel
	}

	result, err := r.templates.RenderTemplate(formTemplate, map[string]any{
		"form_name":    form.Name,
		"action":       options.Action,
		"method":       method,
		"hidden":       hidden,
		"form_errors":  options.FormErrors(),
		"fields":       fields,
		"submit_label": submit,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) renderField(field model.Field, options render.RenderOptions) (string, error) {
	name := componentFor(r.widgets, field)
	descriptor, ok := r.registry.Descriptor(name)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", name, field.Name)
	}

	control := buildControl(field, options, r.policy)
	control.InlineLabel = descriptor.InlineLabel

	var buf bytes.Buffer
	if err := descriptor.Renderer(&buf, control, components.ComponentData{Template: r.templates}); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", name, field.Name, err)
	}
	control.HTML = strings.TrimSpace(buf.String())

	markup, err := r.templates.RenderTemplate(fieldTemplate, map[string]any{"control": control})
	if err != nil {
		return "", fmt.Errorf("render field %q: %w", field.Name, err)
	}
	return strings.TrimRight(markup, "\n"), nil
}
