package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPrimaryKey is returned when a model declares no primary key column.
	ErrNoPrimaryKey = errors.New("schema: model has no primary key column")

	errModelNameMissing = errors.New("schema: model name is required")
)

// Model is an ordered collection of columns persisted under a table name.
type Model struct {
	Name    string   `json:"name" yaml:"name"`
	Table   string   `json:"table,omitempty" yaml:"table"`
	Columns []Column `json:"columns" yaml:"columns"`
}

// NewModel builds a model from columns in declared order.
func NewModel(name string, columns ...Column) Model {
	m := Model{Name: name}
	for _, column := range columns {
		m.Columns = append(m.Columns, column.clone())
	}
	return m
}

// TableName returns the explicit table name, falling back to the model name.
func (m Model) TableName() string {
	if table := strings.TrimSpace(m.Table); table != "" {
		return table
	}
	return m.Name
}

// Column looks a column up by name.
func (m Model) Column(name string) (Column, bool) {
	for _, column := range m.Columns {
		if column.Name == name {
			return column, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declared order.
func (m Model) ColumnNames() []string {
	names := make([]string, 0, len(m.Columns))
	for _, column := range m.Columns {
		names = append(names, column.Name)
	}
	return names
}

// PrimaryKey returns the first column flagged as primary key.
func (m Model) PrimaryKey() (Column, error) {
	for _, column := range m.Columns {
		if column.PrimaryKey {
			return column, nil
		}
	}
	return Column{}, fmt.Errorf("%w: %s", ErrNoPrimaryKey, m.Name)
}

// Validate checks structural invariants. Logical types are not checked here;
// the form builder fails on the columns it is asked to translate.
func (m Model) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errModelNameMissing
	}
	seen := make(map[string]struct{}, len(m.Columns))
	for i, column := range m.Columns {
		if strings.TrimSpace(column.Name) == "" {
			return fmt.Errorf("schema: model %q column %d has no name", m.Name, i)
		}
		if _, dup := seen[column.Name]; dup {
			return fmt.Errorf("schema: model %q declares column %q twice", m.Name, column.Name)
		}
		seen[column.Name] = struct{}{}
	}
	return nil
}

// Catalog indexes models by name while remembering declaration order.
type Catalog struct {
	models []Model
	index  map[string]int
}

// NewCatalog validates and indexes the supplied models.
func NewCatalog(models ...Model) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(models))}
	for _, m := range models {
		if err := c.Add(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add registers a model. Duplicate names are rejected.
func (c *Catalog) Add(m Model) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if _, exists := c.index[m.Name]; exists {
		return fmt.Errorf("schema: model %q already registered", m.Name)
	}
	c.index[m.Name] = len(c.models)
	c.models = append(c.models, m)
	return nil
}

// Get retrieves a model by name.
func (c *Catalog) Get(name string) (Model, error) {
	if c == nil {
		return Model{}, fmt.Errorf("schema: model %q not found", name)
	}
	idx, ok := c.index[name]
	if !ok {
		return Model{}, fmt.Errorf("schema: model %q not found", name)
	}
	return c.models[idx], nil
}

// Models returns the registered models in declaration order.
func (c *Catalog) Models() []Model {
	if c == nil {
		return nil
	}
	return append([]Model(nil), c.models...)
}
