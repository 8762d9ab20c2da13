package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-modelform/pkg/model"
	"github.com/goliatone/go-modelform/pkg/orchestrator"
	"github.com/goliatone/go-modelform/pkg/render"
)

const snapshotRendererName = "form-model-snapshot"

// snapshotRenderer writes the derived form itself instead of markup.
type snapshotRenderer struct {
	path string
}

func (r *snapshotRenderer) Name() string {
	return snapshotRendererName
}

func (r *snapshotRenderer) ContentType() string {
	return "application/json"
}

func (r *snapshotRenderer) Render(_ context.Context, form model.Form, _ render.RenderOptions) ([]byte, error) {
	payload, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(r.path, append(payload, '\n'), 0o644); err != nil {
		return nil, err
	}
	return payload, nil
}

func main() {
	var (
		modelsPath = flag.String("models", "examples/fixtures/articles.yaml", "model definitions (YAML or OpenAPI)")
		modelName  = flag.String("model", "Article", "model to snapshot")
		fields     = flag.String("fields", "", "comma separated fields (all when empty)")
		presetPath = flag.String("preset", "", "optional preset applied before the snapshot")
		outputPath = flag.String("output", "form_model.json", "output path for the serialized form")
	)
	flag.Parse()

	ctx := context.Background()

	registry, err := render.NewRegistry(&snapshotRenderer{path: *outputPath})
	if err != nil {
		fail("registry", err)
	}
	options := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(snapshotRendererName),
	}
	if *presetPath != "" {
		preset, err := orchestrator.NewPresetTransformerFromFS(os.DirFS("."), *presetPath)
		if err != nil {
			fail("load preset", err)
		}
		options = append(options, orchestrator.WithTransformer(preset))
	}

	raw, err := os.ReadFile(*modelsPath)
	if err != nil {
		fail("read models", err)
	}
	catalog, err := orchestrator.New().LoadCatalog(ctx, raw, "")
	if err != nil {
		fail("load models", err)
	}
	orch := orchestrator.New(append(options, orchestrator.WithCatalog(catalog))...)

	var names []string
	if *fields != "" {
		names = strings.Split(*fields, ",")
	}
	if _, err := orch.Generate(ctx, orchestrator.Request{ModelName: *modelName, Fields: names}); err != nil {
		fail("snapshot form", err)
	}

	fmt.Printf("✓ Wrote form snapshot to %s\n", *outputPath)
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "failed to %s: %v\n", what, err)
	os.Exit(1)
}
