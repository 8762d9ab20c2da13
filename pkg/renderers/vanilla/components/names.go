package components

import "github.com/goliatone/go-modelform/pkg/widgets"

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameInput    = "input"
	NameTextarea = "textarea"
	NameSelect   = "select"
	NameBoolean  = "boolean"
)

// MetadataKey is the field metadata entry that selects a component by name,
// overriding the kind-based default.
const MetadataKey = widgets.MetadataKey
