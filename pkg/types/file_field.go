package types

// FileFieldProperties holds the constraints of a file upload field.
// ValidExtensions entries begin with "."; ValidMimeTypes entries are either
// a top-level type ("image") or a type/subtype pair ("image/png"). Both are
// recorded for a collaborating file inspector; this package only enforces
// MaxSizeBytes against the submitted byte length.
type FileFieldProperties struct {
	PropertiesID    string   `json:"properties_id"` // UUID v7, generated on creation.
	MaxSizeBytes    *int64   `json:"max_size_bytes,omitempty"`
	ValidExtensions []string `json:"valid_extensions,omitempty"`
	ValidMimeTypes  []string `json:"valid_mime_types,omitempty"`
}

var _ Validator = (*FileFieldProperties)(nil)

// IsValidValue reports whether value is a byte slice no longer than
// MaxSizeBytes. Any length is acceptable when MaxSizeBytes is unset.
func (p *FileFieldProperties) IsValidValue(value any) bool {
	b, ok := value.([]byte)
	if !ok {
		return false
	}
	if p.MaxSizeBytes == nil {
		return true
	}
	return int64(len(b)) <= *p.MaxSizeBytes
}
