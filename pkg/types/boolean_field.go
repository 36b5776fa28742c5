package types

// BooleanFieldProperties holds the properties of a boolean field.
// Booleans need no validation beyond type, so SetDefault is unconditional.
type BooleanFieldProperties struct {
	PropertiesID string `json:"properties_id"` // UUID v7, generated on creation.
	DefaultValue *bool  `json:"default_value,omitempty"`
}

var _ Validator = (*BooleanFieldProperties)(nil)

// SetDefault stores value as the field's default.
func (p *BooleanFieldProperties) SetDefault(value bool) {
	v := value
	p.DefaultValue = &v
}

// IsValidValue reports whether value is a boolean.
func (p *BooleanFieldProperties) IsValidValue(value any) bool {
	_, ok := value.(bool)
	return ok
}
