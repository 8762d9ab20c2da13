// Package template defines the template rendering contract consumed by the
// HTML form renderer and the template views. The gotemplate subpackage
// provides the pongo2-backed implementation.
package template
