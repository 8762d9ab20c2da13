// Package testsupport holds fixtures and helpers shared by package tests.
package testsupport

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modelform/pkg/schema"
)

// ArticleYAML declares the models used across package tests.
const ArticleYAML = `
models:
  - name: Article
    table: articles
    columns:
      - {name: id, type: Integer, primary_key: true}
      - {name: title, type: String, length: 100, doc: Shown in listings}
      - {name: body, type: String, nullable: true}
      - {name: status, type: Enum, enums: [draft, published], default: draft}
      - {name: views, type: Integer, nullable: true}
      - {name: featured, type: Boolean, nullable: true}
      - {name: published_on, type: Date, nullable: true}
      - {name: published_at, type: DateTime, nullable: true}
      - {name: reminder, type: Time, nullable: true}
`

// ArticleFields lists the editable article columns in declared order.
var ArticleFields = []string{"title", "body", "status", "views", "featured", "published_on", "published_at", "reminder"}

// MustCatalog decodes YAML model definitions or fails the test.
func MustCatalog(t testing.TB, doc string) *schema.Catalog {
	t.Helper()

	catalog, err := schema.LoadYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return catalog
}

// ArticleModel returns the Article model from ArticleYAML.
func ArticleModel(t testing.TB) schema.Model {
	t.Helper()

	m, err := MustCatalog(t, ArticleYAML).Get("Article")
	if err != nil {
		t.Fatalf("article model: %v", err)
	}
	return m
}

// Diff returns a go-cmp diff, empty when the values are equal.
func Diff(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t testing.TB, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
