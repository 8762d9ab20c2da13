package views_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-modelform/pkg/log"
	"github.com/goliatone/go-modelform/pkg/views"
)

type recordingTemplates struct {
	calls []recordedCall
	err   error
}

type recordedCall struct {
	name string
	data any
}

func (r *recordingTemplates) RenderTemplate(name string, data any, _ ...io.Writer) (string, error) {
	r.calls = append(r.calls, recordedCall{name: name, data: data})
	if r.err != nil {
		return "", r.err
	}
	return "rendered:" + name, nil
}

func (r *recordingTemplates) RenderString(string, any, ...io.Writer) (string, error) {
	return "", errors.New("not supported")
}

func (r *recordingTemplates) RegisterFilter(string, func(any, any) (any, error)) error {
	return nil
}

func (r *recordingTemplates) GlobalContext(any) error {
	return nil
}

func observedLogger() (log.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return log.NewZapLogger(zap.New(core)), logs
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestTemplateView_EmptyNameIsNotFound(t *testing.T) {
	templates := &recordingTemplates{}
	view := &views.TemplateView{Templates: templates}

	rec := serve(view, http.MethodGet, "/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, templates.calls)

	view.TemplateNameFunc = func(*http.Request) string { return "" }
	view.TemplateName = "ignored"
	rec = serve(view, http.MethodGet, "/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTemplateView_AlwaysPassesContext(t *testing.T) {
	templates := &recordingTemplates{}
	view := &views.TemplateView{Templates: templates, TemplateName: "home"}

	rec := serve(view, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rendered:home", rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	require.Len(t, templates.calls, 1)
	data, ok := templates.calls[0].data.(map[string]any)
	require.True(t, ok, "context should be a map, got %T", templates.calls[0].data)
	assert.NotNil(t, data)
	assert.Empty(t, data)
}

func TestTemplateView_ContextIsBuiltPerRequest(t *testing.T) {
	templates := &recordingTemplates{}
	static := map[string]any{"site": "docs"}
	view := &views.TemplateView{
		Templates: templates,
		TemplateNameFunc: func(r *http.Request) string {
			return "page-" + r.URL.Query().Get("page")
		},
		Context: static,
		ContextFunc: func(r *http.Request) (map[string]any, error) {
			return map[string]any{"query": r.URL.Query().Get("q")}, nil
		},
	}

	serve(view, http.MethodGet, "/?page=a&q=first")
	serve(view, http.MethodGet, "/?page=b&q=second")

	require.Len(t, templates.calls, 2)
	assert.Equal(t, "page-a", templates.calls[0].name)
	assert.Equal(t, "page-b", templates.calls[1].name)
	assert.Equal(t, map[string]any{"site": "docs", "query": "first"}, templates.calls[0].data)
	assert.Equal(t, map[string]any{"site": "docs", "query": "second"}, templates.calls[1].data)
	assert.Equal(t, map[string]any{"site": "docs"}, static)

	name, ctx, err := view.RenderContext(httptest.NewRequest(http.MethodGet, "/?page=c", nil))
	require.NoError(t, err)
	assert.Equal(t, "page-c", name)
	assert.Equal(t, "", ctx["query"])
}

func TestTemplateView_FailuresAnswer500AndLog(t *testing.T) {
	logger, logs := observedLogger()
	view := &views.TemplateView{
		Templates:    &recordingTemplates{err: errors.New("boom")},
		TemplateName: "broken",
		Logger:       logger,
	}

	rec := serve(view, http.MethodGet, "/broken")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := logs.FilterMessage("view failed").All()
	require.Len(t, entries, 1)
	assert.True(t, strings.Contains(entries[0].ContextMap()["error"].(string), "boom"))
	assert.Equal(t, "/broken", entries[0].ContextMap()["path"])

	view.Templates = &recordingTemplates{}
	view.ContextFunc = func(*http.Request) (map[string]any, error) { return nil, errors.New("no context") }
	rec = serve(view, http.MethodGet, "/broken")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestViews_MissingCapabilitiesAreNotImplemented(t *testing.T) {
	logger, logs := observedLogger()
	base := views.TemplateView{Templates: &recordingTemplates{}, TemplateName: "list", Logger: logger}

	handlers := []http.Handler{
		&views.ReadModelView{TemplateView: base},
		&views.ReadOneModelView{TemplateView: base},
		&views.CreateModelView{FormView: views.FormView{TemplateView: base}},
		&views.UpdateModelView{FormView: views.FormView{TemplateView: base}},
		&views.DeleteModelView{TemplateView: base},
		&views.FormView{TemplateView: base},
	}
	for _, h := range handlers {
		rec := serve(h, http.MethodGet, "/")
		assert.Equal(t, http.StatusInternalServerError, rec.Code, "%T", h)
	}

	entries := logs.FilterMessage("view failed").All()
	require.Len(t, entries, len(handlers))
	for _, entry := range entries {
		assert.Contains(t, entry.ContextMap()["error"], views.ErrNotImplemented.Error())
	}
}

func TestRedirectView(t *testing.T) {
	rec := serve(&views.RedirectView{URL: "/next"}, http.MethodGet, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/next", rec.Header().Get("Location"))

	view := &views.RedirectView{
		URLFunc: func(r *http.Request) string { return "/to/" + r.URL.Query().Get("id") },
		Status:  http.StatusMovedPermanently,
	}
	rec = serve(view, http.MethodGet, "/?id=4")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/to/4", rec.Header().Get("Location"))

	rec = serve(&views.RedirectView{}, http.MethodGet, "/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
