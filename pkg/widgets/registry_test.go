package widgets

import (
	"testing"

	"github.com/goliatone/go-modelform/pkg/model"
)

func maxLength(n string) []model.ValidationRule {
	return []model.ValidationRule{{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"max": n}}}
}

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	field := model.Field{
		Kind:     model.FieldKindBoolean,
		Metadata: map[string]string{MetadataKey: "switch"},
	}

	if got, ok := reg.Resolve(field); !ok || got != "switch" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		field  model.Field
		expect string
	}{
		{name: "boolean", field: model.Field{Kind: model.FieldKindBoolean}, expect: WidgetBoolean},
		{name: "select", field: model.Field{Kind: model.FieldKindSelect}, expect: WidgetSelect},
		{name: "unbounded string", field: model.Field{Kind: model.FieldKindString}, expect: WidgetTextarea},
		{name: "bounded string", field: model.Field{Kind: model.FieldKindString, Validators: maxLength("10")}, expect: WidgetInput},
		{name: "integer", field: model.Field{Kind: model.FieldKindInteger}, expect: WidgetInput},
		{name: "date", field: model.Field{Kind: model.FieldKindDate}, expect: WidgetInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := reg.Resolve(tc.field)
			if !ok || got != tc.expect {
				t.Fatalf("expected %q, got %q (ok=%v)", tc.expect, got, ok)
			}
		})
	}
}

func TestRegister_PriorityAndOrder(t *testing.T) {
	reg := NewRegistry()
	isEmail := func(field model.Field) bool { return field.Name == "email" }
	reg.Register("email", 75, isEmail)
	reg.Register("email-late", 75, isEmail)

	got, _ := reg.Resolve(model.Field{Name: "email", Kind: model.FieldKindString})
	if got != "email" {
		t.Fatalf("expected earlier registration to win a tie, got %q", got)
	}

	got, _ = reg.Resolve(model.Field{Name: "email", Kind: model.FieldKindBoolean})
	if got != WidgetBoolean {
		t.Fatalf("expected higher priority boolean matcher, got %q", got)
	}
}

func TestResolve_EmptyRegistry(t *testing.T) {
	var reg Registry
	if got, ok := reg.Resolve(model.Field{Kind: model.FieldKindString}); ok {
		t.Fatalf("expected no widget, got %q", got)
	}
}

func TestDecorate_KeepsExistingMetadata(t *testing.T) {
	reg := NewRegistry()
	form := model.Form{Fields: []model.Field{
		{Name: "featured", Kind: model.FieldKindBoolean},
		{Name: "body", Kind: model.FieldKindString, Metadata: map[string]string{MetadataKey: "markdown"}},
	}}

	if err := reg.Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if got := form.Fields[0].Metadata[MetadataKey]; got != WidgetBoolean {
		t.Fatalf("featured widget = %q", got)
	}
	if got := form.Fields[1].Metadata[MetadataKey]; got != "markdown" {
		t.Fatalf("body widget overwritten: %q", got)
	}
}
