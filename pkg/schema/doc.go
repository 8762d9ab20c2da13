// Package schema describes persisted models the way the form builder consumes
// them: an ordered list of columns, each carrying a logical type, nullability,
// an optional length bound, default value, enumerated values and a
// documentation string. Models can be declared in Go, loaded from a YAML
// definitions file, or lifted from the component schemas of an OpenAPI
// document.
package schema
