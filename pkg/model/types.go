package model

import internalmodel "github.com/goliatone/go-modelform/internal/model"

// FieldKind re-exports the internal FieldKind enumeration.
type FieldKind = internalmodel.FieldKind

const (
	FieldKindString   = internalmodel.FieldKindString
	FieldKindInteger  = internalmodel.FieldKindInteger
	FieldKindDateTime = internalmodel.FieldKindDateTime
	FieldKindDate     = internalmodel.FieldKindDate
	FieldKindTime     = internalmodel.FieldKindTime
	FieldKindBoolean  = internalmodel.FieldKindBoolean
	FieldKindSelect   = internalmodel.FieldKindSelect
)

const (
	ValidationRuleInputRequired = internalmodel.ValidationRuleInputRequired
	ValidationRuleOptional      = internalmodel.ValidationRuleOptional
	ValidationRuleMaxLength     = internalmodel.ValidationRuleMaxLength
)

const (
	DateTimeLocalFormat = internalmodel.DateTimeLocalFormat
	DateFormat          = internalmodel.DateFormat
	TimeFormat          = internalmodel.TimeFormat
)

type ValidationRule = internalmodel.ValidationRule
type Choice = internalmodel.Choice
type Field = internalmodel.Field
type Form = internalmodel.Form
type FieldOptions = internalmodel.FieldOptions
type UnsupportedColumnTypeError = internalmodel.UnsupportedColumnTypeError

var (
	ErrUnsupportedColumnType = internalmodel.ErrUnsupportedColumnType
	ErrUnknownField          = internalmodel.ErrUnknownField
)
