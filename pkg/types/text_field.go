package types

// Text field formats. The format is recorded for renderers and collaborating
// validators; this package does not enforce email/URL shape.
const (
	TextFormatText    = "text"
	TextFormatTextBox = "text-box"
	TextFormatEmail   = "email"
	TextFormatURL     = "url"
)

// validTextFormats is the set of recognized text formats.
var validTextFormats = map[string]bool{
	TextFormatText:    true,
	TextFormatTextBox: true,
	TextFormatEmail:   true,
	TextFormatURL:     true,
}

// IsValidTextFormat reports whether the given string is a recognized text format.
func IsValidTextFormat(f string) bool {
	return validTextFormats[f]
}

// TextFieldProperties holds the validation properties of a text field.
// MinLength and MaxLength are optional bounds on the submitted value's
// length in runes; nil means unbounded.
type TextFieldProperties struct {
	PropertiesID string  `json:"properties_id"` // UUID v7, generated on creation.
	Format       string  `json:"format"`        // One of the TextFormat constants.
	MinLength    *int    `json:"min_length,omitempty"`
	MaxLength    *int    `json:"max_length,omitempty"`
	Placeholder  string  `json:"placeholder,omitempty"`
	DefaultValue *string `json:"default_value,omitempty"`
}

var _ Validator = (*TextFieldProperties)(nil)

// SetDefault stores value as the field's default. The value must pass the
// field's own validation; on ErrInvalidDefault the stored default is left
// untouched.
func (p *TextFieldProperties) SetDefault(value string) error {
	if !p.IsValidValue(value) {
		return ErrInvalidDefault
	}
	v := value
	p.DefaultValue = &v
	return nil
}

// IsValidValue reports whether value is an acceptable submission: a string
// whose rune length satisfies MinLength and MaxLength where set. Format is
// not enforced here.
func (p *TextFieldProperties) IsValidValue(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	n := len([]rune(s))
	if p.MinLength != nil && n < *p.MinLength {
		return false
	}
	if p.MaxLength != nil && n > *p.MaxLength {
		return false
	}
	return true
}
