// Package model exposes the form descriptors derived from schema models and the
// builder that produces them. Every column translates into a Field whose kind
// comes from a fixed table of seven logical types; anything else fails with
// ErrUnsupportedColumnType. Validators are ordered and always start with one
// presence rule (inputRequired or optional), followed by a maxLength rule for
// bounded strings. Temporal fields carry Go time layouts matching the HTML
// input value formats, and enum fields carry title-cased choices in declared
// order.
package model
