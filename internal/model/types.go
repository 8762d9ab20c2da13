package model

// FieldKind is the input kind a column translates into.
type FieldKind string

const (
	FieldKindString   FieldKind = "string"
	FieldKindInteger  FieldKind = "integer"
	FieldKindDateTime FieldKind = "datetime-local"
	FieldKindDate     FieldKind = "date"
	FieldKindTime     FieldKind = "time"
	FieldKindBoolean  FieldKind = "boolean"
	FieldKindSelect   FieldKind = "select"
)

const (
	ValidationRuleInputRequired = "inputRequired"
	ValidationRuleOptional      = "optional"
	ValidationRuleMaxLength     = "maxLength"
)

// Layouts attached to temporal fields. They match the value formats of the
// HTML datetime-local, date and time inputs.
const (
	DateTimeLocalFormat = "2006-01-02T15:04:05"
	DateFormat          = "2006-01-02"
	TimeFormat          = "15:04"
)

// ValidationRule represents a single validation constraint applied to a field.
// Every field starts with exactly one presence rule (inputRequired or
// optional). Length limits encode their threshold in Params["value"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Choice is one selectable option of an enum-backed field.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one input of a derived form.
type Field struct {
	Name        string            `json:"name"`
	Kind        FieldKind         `json:"kind"`
	Label       string            `json:"label,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	Validators  []ValidationRule  `json:"validators,omitempty"`
	Format      string            `json:"format,omitempty"`
	Choices     []Choice          `json:"choices,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Required reports whether the field carries the inputRequired rule.
func (f Field) Required() bool {
	for _, rule := range f.Validators {
		if rule.Kind == ValidationRuleInputRequired {
			return true
		}
	}
	return false
}

// Rule returns the first validator of the given kind.
func (f Field) Rule(kind string) (ValidationRule, bool) {
	for _, rule := range f.Validators {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return ValidationRule{}, false
}

func (f Field) clone() Field {
	out := f
	if f.Validators != nil {
		out.Validators = make([]ValidationRule, len(f.Validators))
		for i, rule := range f.Validators {
			out.Validators[i] = ValidationRule{Kind: rule.Kind, Params: cloneStrings(rule.Params)}
		}
	}
	if f.Choices != nil {
		out.Choices = append([]Choice(nil), f.Choices...)
	}
	out.Metadata = cloneStrings(f.Metadata)
	return out
}

// Form is a named, ordered collection of fields derived from a model. A Form
// value is treated as immutable once derived; callers needing changes should
// work on Clone().
type Form struct {
	Name     string            `json:"name"`
	Model    string            `json:"model,omitempty"`
	Fields   []Field           `json:"fields"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Field looks a field up by name.
func (f Form) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names in order.
func (f Form) FieldNames() []string {
	names := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Clone returns a deep copy sharing no slices or maps with f.
func (f Form) Clone() Form {
	out := Form{
		Name:     f.Name,
		Model:    f.Model,
		Metadata: cloneStrings(f.Metadata),
	}
	if f.Fields != nil {
		out.Fields = make([]Field, len(f.Fields))
		for i, field := range f.Fields {
			out.Fields[i] = field.clone()
		}
	}
	return out
}

func cloneStrings(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
