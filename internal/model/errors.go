package model

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-modelform/pkg/schema"
)

var (
	// ErrUnsupportedColumnType is matched by errors.Is for any column whose
	// logical type has no field mapping.
	ErrUnsupportedColumnType = errors.New("model builder: unsupported column type")
	// ErrUnknownField is returned in strict mode when a requested field name
	// matches no column of the model.
	ErrUnknownField = errors.New("model builder: requested field matches no column")
)

// UnsupportedColumnTypeError reports the column that could not be translated.
type UnsupportedColumnTypeError struct {
	Column string
	Type   schema.LogicalType
}

func (e *UnsupportedColumnTypeError) Error() string {
	return fmt.Sprintf("model builder: columns of type %q cannot be converted into form fields (column %q)", e.Type, e.Column)
}

// Is lets errors.Is match ErrUnsupportedColumnType.
func (e *UnsupportedColumnTypeError) Is(target error) bool {
	return target == ErrUnsupportedColumnType
}
