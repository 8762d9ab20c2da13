package model

import (
	"strconv"

	"github.com/goliatone/go-modelform/pkg/schema"
)

var columnFieldKinds = map[schema.LogicalType]FieldKind{
	schema.TypeString:   FieldKindString,
	schema.TypeInteger:  FieldKindInteger,
	schema.TypeDateTime: FieldKindDateTime,
	schema.TypeDate:     FieldKindDate,
	schema.TypeTime:     FieldKindTime,
	schema.TypeBoolean:  FieldKindBoolean,
	schema.TypeEnum:     FieldKindSelect,
}

// FieldOptions carries everything about a field except its kind.
type FieldOptions struct {
	Label       string
	Description string
	Default     any
	Validators  []ValidationRule
	Format      string
	Choices     []Choice
}

// ResolveFieldKind looks the column's logical type up in the fixed mapping
// table.
func ResolveFieldKind(column schema.Column) (FieldKind, error) {
	kind, ok := columnFieldKinds[column.Type]
	if !ok {
		return "", &UnsupportedColumnTypeError{Column: column.Name, Type: column.Type}
	}
	return kind, nil
}

// BuildFieldOptions derives label, description, default, validators and the
// kind-specific options for a column using the default labeler.
func BuildFieldOptions(column schema.Column) FieldOptions {
	return buildFieldOptions(column, DefaultLabeler)
}

// TranslateColumn resolves the field kind and options for a column.
func TranslateColumn(column schema.Column) (Field, error) {
	return translateColumn(column, DefaultLabeler)
}

func translateColumn(column schema.Column, labeler func(string) string) (Field, error) {
	kind, err := ResolveFieldKind(column)
	if err != nil {
		return Field{}, err
	}
	opts := buildFieldOptions(column, labeler)
	return Field{
		Name:        column.Name,
		Kind:        kind,
		Label:       opts.Label,
		Description: opts.Description,
		Default:     opts.Default,
		Validators:  opts.Validators,
		Format:      opts.Format,
		Choices:     opts.Choices,
	}, nil
}

func buildFieldOptions(column schema.Column, labeler func(string) string) FieldOptions {
	if labeler == nil {
		labeler = DefaultLabeler
	}
	opts := FieldOptions{
		Label:       labeler(column.Name),
		Description: column.Doc,
		Default:     column.Default,
		Validators:  make([]ValidationRule, 0, 2),
	}

	if column.Nullable {
		opts.Validators = append(opts.Validators, ValidationRule{Kind: ValidationRuleOptional})
	} else {
		opts.Validators = append(opts.Validators, ValidationRule{Kind: ValidationRuleInputRequired})
	}

	switch column.Type {
	case schema.TypeString:
		if column.Length > 0 {
			opts.Validators = append(opts.Validators, ValidationRule{
				Kind: ValidationRuleMaxLength,
				Params: map[string]string{
					"value": strconv.Itoa(column.Length),
				},
			})
		}
	case schema.TypeDateTime:
		opts.Format = DateTimeLocalFormat
	case schema.TypeDate:
		opts.Format = DateFormat
	case schema.TypeTime:
		opts.Format = TimeFormat
	case schema.TypeEnum:
		opts.Choices = make([]Choice, 0, len(column.Enums))
		for _, value := range column.Enums {
			opts.Choices = append(opts.Choices, Choice{Value: value, Label: TitleCase(value)})
		}
	}

	return opts
}
