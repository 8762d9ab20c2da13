package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// FromOpenAPI lifts every component schema of an OpenAPI 3 document into a
// Model. Properties become columns sorted by name since component property
// maps carry no declaration order.
func FromOpenAPI(ctx context.Context, data []byte) (*Catalog, error) {
	if len(data) == 0 {
		return nil, errors.New("schema: openapi document is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, errors.New("schema: openapi document declares no component schemas")
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	catalog := &Catalog{}
	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		if err := catalog.Add(modelFromSchema(name, ref.Value)); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

func modelFromSchema(name string, src *openapi3.Schema) Model {
	model := Model{Name: name}
	if table, ok := src.Extensions["x-table"].(string); ok {
		model.Table = table
	}

	required := make(map[string]struct{}, len(src.Required))
	for _, item := range src.Required {
		required[item] = struct{}{}
	}

	propNames := make([]string, 0, len(src.Properties))
	for propName := range src.Properties {
		propNames = append(propNames, propName)
	}
	sort.Strings(propNames)

	for _, propName := range propNames {
		prop := src.Properties[propName]
		if prop == nil || prop.Value == nil {
			continue
		}
		_, isRequired := required[propName]
		model.Columns = append(model.Columns, columnFromSchema(propName, prop.Value, isRequired))
	}
	return model
}

func columnFromSchema(name string, src *openapi3.Schema, required bool) Column {
	column := Column{
		Name:     name,
		Type:     logicalTypeFor(src),
		Nullable: src.Nullable || !required,
		Default:  src.Default,
		Doc:      src.Description,
	}
	if src.MaxLength != nil {
		column.Length = int(*src.MaxLength)
	}
	if column.Type == TypeEnum {
		for _, value := range src.Enum {
			column.Enums = append(column.Enums, fmt.Sprint(value))
		}
	}
	if pk, ok := src.Extensions["x-primary-key"].(bool); ok {
		column.PrimaryKey = pk
	}
	return column
}

func logicalTypeFor(src *openapi3.Schema) LogicalType {
	typ := firstSchemaType(src.Type)
	switch typ {
	case "string":
		switch src.Format {
		case "date-time":
			return TypeDateTime
		case "date":
			return TypeDate
		case "time":
			return TypeTime
		}
		if len(src.Enum) > 0 {
			return TypeEnum
		}
		return TypeString
	case "integer":
		return TypeInteger
	case "boolean":
		return TypeBoolean
	case "":
		return LogicalType("Unknown")
	default:
		return LogicalType(strings.ToUpper(typ[:1]) + typ[1:])
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	for _, value := range values {
		if value != "null" {
			return value
		}
	}
	return ""
}
