package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// definitionsFile is the on-disk layout of a models file:
//
//	models:
//	  - name: Article
//	    table: articles
//	    columns:
//	      - {name: id, type: Integer, primary_key: true}
//	      - {name: title, type: String, length: 100}
type definitionsFile struct {
	Models []Model `yaml:"models"`
}

// LoadYAML decodes model definitions, preserving column order, and returns a
// validated catalog.
func LoadYAML(r io.Reader) (*Catalog, error) {
	if r == nil {
		return nil, errors.New("schema: yaml reader is nil")
	}

	var file definitionsFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("schema: yaml document is empty")
		}
		return nil, fmt.Errorf("schema: decode yaml: %w", err)
	}

	for i := range file.Models {
		for j := range file.Models[i].Columns {
			column := &file.Models[i].Columns[j]
			column.Type = canonicalType(column.Type)
		}
	}
	return NewCatalog(file.Models...)
}

// LoadYAMLFile reads model definitions from disk.
func LoadYAMLFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %q: %w", path, err)
	}
	return LoadYAML(bytes.NewReader(data))
}

// LoadYAMLFS reads model definitions from an fs.FS entry.
func LoadYAMLFS(fsys fs.FS, name string) (*Catalog, error) {
	if fsys == nil {
		return nil, errors.New("schema: fs is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("schema: read %q: %w", name, err)
	}
	return LoadYAML(bytes.NewReader(data))
}

// canonicalType matches supported type names case-insensitively. Unknown
// names are kept verbatim.
func canonicalType(raw LogicalType) LogicalType {
	trimmed := strings.TrimSpace(string(raw))
	for _, typ := range SupportedTypes() {
		if strings.EqualFold(trimmed, string(typ)) {
			return typ
		}
	}
	return LogicalType(trimmed)
}
