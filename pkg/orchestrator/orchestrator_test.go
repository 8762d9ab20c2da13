package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-modelform/pkg/model"
	"github.com/goliatone/go-modelform/pkg/orchestrator"
	"github.com/goliatone/go-modelform/pkg/render"
	"github.com/goliatone/go-modelform/pkg/schema"
	"github.com/goliatone/go-modelform/pkg/testsupport"
)

type stubRenderer struct {
	name  string
	forms []model.Form
	opts  []render.RenderOptions
}

func (s *stubRenderer) Name() string        { return s.name }
func (s *stubRenderer) ContentType() string { return "text/plain" }

func (s *stubRenderer) Render(_ context.Context, form model.Form, opts render.RenderOptions) ([]byte, error) {
	s.forms = append(s.forms, form)
	s.opts = append(s.opts, opts)
	return []byte(s.name + ":" + strings.Join(form.FieldNames(), ",")), nil
}

func newRegistry(t *testing.T, renderers ...render.Renderer) *render.Registry {
	t.Helper()
	registry, err := render.NewRegistry(renderers...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return registry
}

func TestOrchestrator_GenerateByModelName(t *testing.T) {
	stub := &stubRenderer{name: "stub"}
	orch := orchestrator.New(
		orchestrator.WithCatalog(testsupport.MustCatalog(t, testsupport.ArticleYAML)),
		orchestrator.WithRegistry(newRegistry(t, stub)),
		orchestrator.WithDefaultRenderer("stub"),
	)

	out, err := orch.Generate(context.Background(), orchestrator.Request{
		ModelName:     "Article",
		Fields:        []string{"status", "title"},
		RenderOptions: render.RenderOptions{Action: "/articles"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got, want := string(out), "stub:title,status"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	if got := stub.opts[0].Action; got != "/articles" {
		t.Fatalf("render options not forwarded, action = %q", got)
	}
	if got := stub.forms[0].Name; got != "ArticleForm" {
		t.Fatalf("form name = %q", got)
	}
}

func TestOrchestrator_EmptyFieldsDerivesEveryColumn(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithCatalog(testsupport.MustCatalog(t, testsupport.ArticleYAML)))

	form, err := orch.Form(context.Background(), orchestrator.Request{ModelName: "Article"})
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	want := append([]string{"id"}, testsupport.ArticleFields...)
	if diff := testsupport.Diff(want, form.FieldNames()); diff != "" {
		t.Fatalf("field names mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_ExplicitModelWinsOverCatalog(t *testing.T) {
	m := schema.NewModel("Note", schema.Column{Name: "text", Type: schema.TypeString, Length: 20})
	orch := orchestrator.New()

	form, err := orch.Form(context.Background(), orchestrator.Request{Model: m, Fields: []string{"text"}})
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if got := form.FieldNames(); len(got) != 1 || got[0] != "text" {
		t.Fatalf("fields = %v", got)
	}

	if _, err := orch.Form(context.Background(), orchestrator.Request{ModelName: "Note"}); err == nil {
		t.Fatalf("expected error for name lookup without catalog")
	}
	if _, err := orch.Form(context.Background(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected error for empty request")
	}
}

func TestOrchestrator_DefaultVanillaRenderer(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithCatalog(testsupport.MustCatalog(t, testsupport.ArticleYAML)))

	out, err := orch.Generate(context.Background(), orchestrator.Request{ModelName: "Article", Fields: []string{"title"}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `name="title"`) || !strings.Contains(html, `maxlength="100"`) {
		t.Fatalf("unexpected html:\n%s", html)
	}
}

func TestOrchestrator_RendererFallback(t *testing.T) {
	alpha := &stubRenderer{name: "alpha"}
	beta := &stubRenderer{name: "beta"}
	orch := orchestrator.New(orchestrator.WithRegistry(newRegistry(t, beta, alpha)))

	renderer, err := orch.Renderer("")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	if renderer.Name() != "alpha" {
		t.Fatalf("fallback renderer = %q, want alpha", renderer.Name())
	}

	if _, err := orch.Renderer("missing"); err == nil {
		t.Fatalf("expected error for unknown explicit renderer")
	}

	empty := orchestrator.New(orchestrator.WithRegistry(newRegistry(t)))
	if _, err := empty.Renderer(""); err == nil {
		t.Fatalf("expected error for empty registry")
	}
}

func TestOrchestrator_TransformerThenDecorators(t *testing.T) {
	var order []string
	transformer := orchestrator.TransformerFunc(func(_ context.Context, form *model.Form) error {
		order = append(order, "transform")
		form.Fields[0].Label = "Headline"
		return nil
	})
	decorator := model.DecoratorFunc(func(form *model.Form) error {
		order = append(order, "decorate:"+form.Fields[0].Label)
		return nil
	})

	orch := orchestrator.New(
		orchestrator.WithCatalog(testsupport.MustCatalog(t, testsupport.ArticleYAML)),
		orchestrator.WithTransformer(transformer),
		orchestrator.WithDecorators(decorator),
	)
	form, err := orch.Form(context.Background(), orchestrator.Request{ModelName: "Article", Fields: []string{"title"}})
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if diff := testsupport.Diff([]string{"transform", "decorate:Headline"}, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if form.Fields[0].Label != "Headline" {
		t.Fatalf("label = %q", form.Fields[0].Label)
	}
}

func TestOrchestrator_DecoratorErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	orch := orchestrator.New(
		orchestrator.WithCatalog(testsupport.MustCatalog(t, testsupport.ArticleYAML)),
		orchestrator.WithDecorators(model.DecoratorFunc(func(*model.Form) error { return boom })),
	)
	_, err := orch.Form(context.Background(), orchestrator.Request{ModelName: "Article"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped decorator error, got %v", err)
	}
}

func TestOrchestrator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	orch := orchestrator.New(orchestrator.WithCatalog(testsupport.MustCatalog(t, testsupport.ArticleYAML)))
	if _, err := orch.Generate(ctx, orchestrator.Request{ModelName: "Article"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOrchestrator_StrictBuilderRejectsUnknownFields(t *testing.T) {
	orch := orchestrator.New(
		orchestrator.WithCatalog(testsupport.MustCatalog(t, testsupport.ArticleYAML)),
		orchestrator.WithModelBuilder(model.NewBuilder(model.WithStrictFieldNames())),
	)
	_, err := orch.Form(context.Background(), orchestrator.Request{ModelName: "Article", Fields: []string{"nope"}})
	if !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestPresetTransformer(t *testing.T) {
	fsys := fstest.MapFS{
		"preset.yaml": {Data: []byte(`
metadata:
  layout: compact
order: [status]
fields:
  title:
    label: Headline
    description: Keep it short
    metadata:
      component: textarea
`)},
	}
	preset, err := orchestrator.NewPresetTransformerFromFS(fsys, "preset.yaml")
	if err != nil {
		t.Fatalf("preset: %v", err)
	}

	orch := orchestrator.New(
		orchestrator.WithCatalog(testsupport.MustCatalog(t, testsupport.ArticleYAML)),
		orchestrator.WithTransformer(preset),
	)
	form, err := orch.Form(context.Background(), orchestrator.Request{ModelName: "Article", Fields: []string{"title", "body", "status"}})
	if err != nil {
		t.Fatalf("form: %v", err)
	}

	if diff := testsupport.Diff([]string{"status", "title", "body"}, form.FieldNames()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := testsupport.Diff(map[string]string{"layout": "compact"}, form.Metadata); diff != "" {
		t.Fatalf("form metadata mismatch (-want +got):\n%s", diff)
	}
	title, _ := form.Field("title")
	if title.Label != "Headline" || title.Description != "Keep it short" || title.Metadata["component"] != "textarea" {
		t.Fatalf("title not patched: %+v", title)
	}
}

func TestPresetTransformer_Errors(t *testing.T) {
	if _, err := orchestrator.NewPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := orchestrator.NewPresetTransformer([]byte("fields: [")); err == nil {
		t.Fatalf("expected parse error")
	}

	preset, err := orchestrator.NewPresetTransformer([]byte(`{"fields": {"ghost": {"label": "Boo"}}}`))
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	form := model.Form{Fields: []model.Field{{Name: "title"}}}
	if err := preset.Transform(context.Background(), &form); err == nil {
		t.Fatalf("expected error for unknown field")
	}

	reorder, err := orchestrator.NewPresetTransformer([]byte(`order: [ghost]`))
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	if err := reorder.Transform(context.Background(), &form); err == nil {
		t.Fatalf("expected error for unknown order entry")
	}
}
