package gotemplate_test

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-modelform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-modelform/pkg/testsupport"
)

func templatesFS() fstest.MapFS {
	return fstest.MapFS{
		"hello.tmpl":      {Data: []byte("Hello {{ name }}!")},
		"use-global.tmpl": {Data: []byte("env={{ settings.env }}")},
		"use-filter.tmpl": {Data: []byte("{{ name|shout }}")},
		"escape.tmpl":     {Data: []byte("<p>{{ body }}</p>")},
		"record.tmpl":     {Data: []byte("{{ record.title }}/{{ record.count }}")},
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	if result != "Hello Ada!" {
		t.Fatalf("unexpected result %q", result)
	}
	if written != result {
		t.Fatalf("writer mismatch: %q vs %q", written, result)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, err := engine.RenderTemplate("use-global.tmpl", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "env=staging" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatal("expected duplicate filter registration to fail")
	}

	result, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "ADA!" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_EscapesValues(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.RenderTemplate("escape", map[string]any{"body": "<script>x</script>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(result, "<script>") {
		t.Fatalf("expected escaped output, got %q", result)
	}
}

func TestEngine_FlattensStructs(t *testing.T) {
	type record struct {
		Title string `json:"title"`
		Count int    `json:"count"`
	}
	engine := newEngine(t)
	result, err := engine.RenderTemplate("record", map[string]any{"record": record{Title: "Hi", Count: 2}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hi/2" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_RenderString(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.RenderString("{{ a }}-{{ b }}", map[string]any{"a": 1, "b": "two"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "1-two" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatal("expected missing template error")
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatal("expected configuration error")
	}
}
