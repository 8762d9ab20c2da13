package schema

// LogicalType is the storage-independent data type of a column.
type LogicalType string

const (
	TypeString   LogicalType = "String"
	TypeInteger  LogicalType = "Integer"
	TypeDateTime LogicalType = "DateTime"
	TypeDate     LogicalType = "Date"
	TypeTime     LogicalType = "Time"
	TypeBoolean  LogicalType = "Boolean"
	TypeEnum     LogicalType = "Enum"
)

// SupportedTypes lists the logical types the form builder can translate, in
// declaration order.
func SupportedTypes() []LogicalType {
	return []LogicalType{
		TypeString,
		TypeInteger,
		TypeDateTime,
		TypeDate,
		TypeTime,
		TypeBoolean,
		TypeEnum,
	}
}

// Column describes one persisted attribute of a model. Length is zero when the
// column has no length bound and Default is nil when no default is declared.
// Unknown logical types are representable on purpose: the translator rejects
// them instead of the loaders.
type Column struct {
	Name       string      `json:"name" yaml:"name"`
	Type       LogicalType `json:"type" yaml:"type"`
	Nullable   bool        `json:"nullable,omitempty" yaml:"nullable"`
	Length     int         `json:"length,omitempty" yaml:"length"`
	Default    any         `json:"default,omitempty" yaml:"default"`
	Enums      []string    `json:"enums,omitempty" yaml:"enums"`
	Doc        string      `json:"doc,omitempty" yaml:"doc"`
	PrimaryKey bool        `json:"primaryKey,omitempty" yaml:"primary_key"`
}

// String returns a column of the String logical type.
func String(name string, length int) Column {
	return Column{Name: name, Type: TypeString, Length: length}
}

// Integer returns a column of the Integer logical type.
func Integer(name string) Column {
	return Column{Name: name, Type: TypeInteger}
}

// Enum returns a column of the Enum logical type with the given values.
func Enum(name string, values ...string) Column {
	return Column{Name: name, Type: TypeEnum, Enums: append([]string(nil), values...)}
}

// Of returns a column with an arbitrary logical type.
func Of(name string, typ LogicalType) Column {
	return Column{Name: name, Type: typ}
}

// Null marks the column nullable.
func (c Column) Null() Column {
	c.Nullable = true
	return c
}

// NotNull marks the column non-nullable.
func (c Column) NotNull() Column {
	c.Nullable = false
	return c
}

// WithDefault sets the column default.
func (c Column) WithDefault(value any) Column {
	c.Default = value
	return c
}

// WithDoc sets the documentation string.
func (c Column) WithDoc(doc string) Column {
	c.Doc = doc
	return c
}

// Key marks the column as the model primary key.
func (c Column) Key() Column {
	c.PrimaryKey = true
	return c
}

func (c Column) clone() Column {
	if c.Enums != nil {
		c.Enums = append([]string(nil), c.Enums...)
	}
	return c
}
