package components

// Control is the template view of one field: every value a component needs,
// already formatted for HTML.
type Control struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Label       string   `json:"label"`
	Type        string   `json:"type,omitempty"`
	Value       string   `json:"value"`
	Checked     bool     `json:"checked,omitempty"`
	Required    bool     `json:"required,omitempty"`
	MaxLength   int      `json:"maxlength,omitempty"`
	Step        string   `json:"step,omitempty"`
	Description string   `json:"description,omitempty"`
	Errors      []string `json:"errors,omitempty"`
	Choices     []Option `json:"choices,omitempty"`
	InlineLabel bool     `json:"inline_label,omitempty"`
	HTML        string   `json:"html,omitempty"`
}

// Option is one rendered select choice.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}
