package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modelform/pkg/model"
	"github.com/goliatone/go-modelform/pkg/render"
	"github.com/goliatone/go-modelform/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputConfigs []InputConfig
	selects      []SelectConfig
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputConfigs = append(s.inputConfigs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func articleForm(t *testing.T, fields ...string) model.Form {
	t.Helper()

	form, err := model.NewBuilder().Derive(model.Form{}, testsupport.ArticleModel(t), fields...)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	return form
}

func TestRenderer_CollectsValidatedAnswers(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "Hello", "abc", "12", "2024-05-01"},
		selectIdx: []int{1},
		confirm:   []bool{true},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	form := articleForm(t, "title", "status", "views", "featured", "published_on")
	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	want := map[string]any{
		"title":        "Hello",
		"status":       "published",
		"views":        float64(12),
		"featured":     true,
		"published_on": "2024-05-01T00:00:00Z",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}

	if len(driver.infoMessages) != 2 {
		t.Fatalf("expected two validation messages, got %v", driver.infoMessages)
	}
	if !strings.Contains(driver.infoMessages[0], "Title is required") {
		t.Fatalf("unexpected first message %q", driver.infoMessages[0])
	}
	if !strings.Contains(driver.infoMessages[1], "Views must be a whole number") {
		t.Fatalf("unexpected second message %q", driver.infoMessages[1])
	}

	if diff := cmp.Diff([]string{"Draft", "Published"}, driver.selects[0].Options); diff != "" {
		t.Fatalf("select options (-want +got):\n%s", diff)
	}
	if driver.selects[0].DefaultIndex != 0 {
		t.Fatalf("expected column default to preselect draft, got %d", driver.selects[0].DefaultIndex)
	}
	if help := driver.inputConfigs[len(driver.inputConfigs)-1].Help; help != "Format: YYYY-MM-DD" {
		t.Fatalf("unexpected date help %q", help)
	}
}

func TestRenderer_OptionalFieldsAndPrefill(t *testing.T) {
	driver := &stubDriver{
		textAreas: []string{""},
		selectIdx: []int{0},
		inputs:    []string{""},
	}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	form := articleForm(t, "body", "views")
	form.Fields = append(form.Fields, model.Field{
		Name:       "tier",
		Kind:       model.FieldKindSelect,
		Label:      "Tier",
		Validators: []model.ValidationRule{{Kind: model.ValidationRuleOptional}},
		Choices:    []model.Choice{{Value: "gold", Label: "Gold"}},
	})
	form.Fields[0], form.Fields[1], form.Fields[2] = form.Fields[0], form.Fields[2], form.Fields[1]

	out, err := r.Render(context.Background(), form, render.RenderOptions{
		Values: map[string]any{"views": int64(4)},
		Errors: map[string][]string{"views": {"Views must be a whole number"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if got, want := string(out), "Body: \nTier: \nViews: \n"; got != want {
		t.Fatalf("unexpected pretty output %q, want %q", got, want)
	}
	if r.ContentType() != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
	if driver.selects[0].Options[0] != noneOption {
		t.Fatalf("optional select should offer %q first, got %v", noneOption, driver.selects[0].Options)
	}
	if driver.inputConfigs[0].Default != "4" {
		t.Fatalf("expected prefilled default 4, got %q", driver.inputConfigs[0].Default)
	}
	if len(driver.infoMessages) != 1 || driver.infoMessages[0] != "Views: Views must be a whole number" {
		t.Fatalf("expected prior error to be shown, got %v", driver.infoMessages)
	}
}

func TestRenderer_FormEncodedOutput(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Hi"}, confirm: []bool{false}}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := r.Render(context.Background(), articleForm(t, "title", "featured"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "featured=&title=Hi" {
		t.Fatalf("unexpected form output %q", got)
	}
}

func TestRenderer_GivesUpAfterMaxAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", "", ""}}
	r, err := New(WithPromptDriver(driver), WithMaxAttempts(2))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = r.Render(context.Background(), articleForm(t, "title"), render.RenderOptions{})
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if driver.inputPos != 2 {
		t.Fatalf("expected two prompts, got %d", driver.inputPos)
	}
}

func TestRenderer_SubmitTransformerAndCancellation(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Hello"}}
	r, err := New(WithPromptDriver(driver), WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
		values["title"] = strings.ToUpper(values["title"].(string))
		return values, nil
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := r.Render(context.Background(), articleForm(t, "title"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `"title": "HELLO"`) {
		t.Fatalf("transformer not applied: %s", out)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, articleForm(t, "title"), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
