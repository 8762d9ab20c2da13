package views

import (
	"fmt"
	"net/http"

	"github.com/goliatone/go-modelform/pkg/log"
	"github.com/goliatone/go-modelform/pkg/render/template"
)

const htmlContentType = "text/html; charset=utf-8"

// TemplateView renders one template with a context map.
//
// The template name comes from TemplateNameFunc when set, otherwise from
// TemplateName; an empty name answers 404. The context starts as a copy of
// Context and is extended with whatever ContextFunc returns. It is always
// passed to the template, even when empty.
type TemplateView struct {
	Templates        template.TemplateRenderer
	TemplateName     string
	TemplateNameFunc func(*http.Request) string
	Context          map[string]any
	ContextFunc      func(*http.Request) (map[string]any, error)
	Logger           log.Logger
}

// RenderContext resolves the template name and a fresh context for r.
func (v *TemplateView) RenderContext(r *http.Request) (string, map[string]any, error) {
	name := v.TemplateName
	if v.TemplateNameFunc != nil {
		name = v.TemplateNameFunc(r)
	}

	ctx := make(map[string]any, len(v.Context))
	for key, value := range v.Context {
		ctx[key] = value
	}
	if v.ContextFunc != nil {
		extra, err := v.ContextFunc(r)
		if err != nil {
			return name, nil, fmt.Errorf("views: context: %w", err)
		}
		for key, value := range extra {
			ctx[key] = value
		}
	}
	return name, ctx, nil
}

func (v *TemplateView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, ctx, err := v.RenderContext(r)
	if err != nil {
		fail(w, r, v.Logger, http.StatusInternalServerError, err)
		return
	}
	v.render(w, r, name, ctx, http.StatusOK)
}

// render executes name with ctx and writes it with status. An empty name is
// a missing page.
func (v *TemplateView) render(w http.ResponseWriter, r *http.Request, name string, ctx map[string]any, status int) {
	if name == "" {
		http.NotFound(w, r)
		return
	}
	if v.Templates == nil {
		fail(w, r, v.Logger, http.StatusInternalServerError, fmt.Errorf("%w: template renderer", ErrNotImplemented))
		return
	}
	if ctx == nil {
		ctx = map[string]any{}
	}

	out, err := v.Templates.RenderTemplate(name, ctx)
	if err != nil {
		fail(w, r, v.Logger, http.StatusInternalServerError, fmt.Errorf("views: render %q: %w", name, err))
		return
	}
	writeBody(w, htmlContentType, status, out)
}

func (v *TemplateView) logger() log.Logger {
	return log.OrNop(v.Logger)
}

// RedirectView answers every request with a redirect. URLFunc wins over URL;
// Status defaults to 302 Found.
type RedirectView struct {
	URL     string
	URLFunc func(*http.Request) string
	Status  int
}

func (v *RedirectView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := v.URL
	if v.URLFunc != nil {
		target = v.URLFunc(r)
	}
	if target == "" {
		http.NotFound(w, r)
		return
	}
	status := v.Status
	if status == 0 {
		status = http.StatusFound
	}
	http.Redirect(w, r, target, status)
}
