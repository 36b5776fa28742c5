package types

// Field types. Each field on a form carries exactly one of these type tags;
// the tag selects which properties record (and which validation rule)
// applies to the field.
const (
	FieldTypeText    = "text"
	FieldTypeBoolean = "boolean"
	FieldTypeSelect  = "select"
	FieldTypeFile    = "file"
)

// validFieldTypes is the set of recognized field type tags.
var validFieldTypes = map[string]bool{
	FieldTypeText:    true,
	FieldTypeBoolean: true,
	FieldTypeSelect:  true,
	FieldTypeFile:    true,
}

// IsValidFieldType reports whether the given string is a recognized field type.
func IsValidFieldType(ft string) bool {
	return validFieldTypes[ft]
}

// Field is a single question on a form. The struct holds the data shared by
// every field type; type-specific validation properties live in a separate
// record referenced by PropertiesID.
type Field struct {
	FieldID      string     `json:"field_id"`      // UUID v7, generated on creation.
	FormID       string     `json:"form_id"`       // Owning form; stamped by Form.AddField.
	PropertiesID string     `json:"properties_id"` // ID of the type-specific properties record.
	Name         string     `json:"name"`          // Machine name (required, non-empty).
	Label        string     `json:"label"`         // Display label.
	Description  string     `json:"description"`   // Optional help text.
	Type         string     `json:"field_type"`    // One of the FieldType constants.
	Archived     bool       `json:"archived"`      // Soft-delete flag.
	Condition    *Condition `json:"condition"`     // Optional visibility condition; nil when unconditional.
}

// Condition makes a field's visibility depend on another field's submitted
// value. LinkedFieldID always references a live field in the same form at the
// time the condition is set. The rule is all-or-nothing: when a Condition
// exists, at least one of HasValue or a match value is populated, and at most
// one of the three match slots is non-nil.
type Condition struct {
	LinkedFieldID  string  `json:"linked_field_id"`
	HasValue       *bool   `json:"has_value,omitempty"`
	MatchValueStr  *string `json:"match_value_str,omitempty"`
	MatchValueInt  *int64  `json:"match_value_int,omitempty"`
	MatchValueBool *bool   `json:"match_value_bool,omitempty"`
}

// Match value kinds for MatchValue.
const (
	MatchKindNone   = "none"
	MatchKindString = "string"
	MatchKindInt    = "int"
	MatchKindBool   = "bool"
)

// MatchValue is a tagged match rule for SetCondition. The explicit kind tag
// means a legitimate false or empty-string match value is never mistaken for
// "no match value"; callers who want presence-only semantics pass MatchNone
// together with hasValue.
type MatchValue struct {
	Kind string
	Str  string
	Int  int64
	Bool bool
}

// MatchNone returns a MatchValue carrying no match rule.
func MatchNone() MatchValue {
	return MatchValue{Kind: MatchKindNone}
}

// MatchString returns a MatchValue matching the given string.
func MatchString(s string) MatchValue {
	return MatchValue{Kind: MatchKindString, Str: s}
}

// MatchInt returns a MatchValue matching the given integer.
func MatchInt(i int64) MatchValue {
	return MatchValue{Kind: MatchKindInt, Int: i}
}

// MatchBool returns a MatchValue matching the given boolean.
func MatchBool(b bool) MatchValue {
	return MatchValue{Kind: MatchKindBool, Bool: b}
}

// SetArchived soft-deletes the field. Idempotent. Clearing conditions on
// sibling fields that link to this one is the owning Form's responsibility
// (Form.RemoveField); archiving a field directly never cascades.
func (f *Field) SetArchived() {
	f.Archived = true
}

// ClearCondition removes the field's visibility condition, whatever its
// prior state. Idempotent.
func (f *Field) ClearCondition() {
	f.Condition = nil
}

// SetCondition makes this field's visibility depend on the linked field.
// The linked field must belong to the same form, must not be archived, and
// must not be this field itself. At least one of hasValue or a match value
// must be supplied; hasValue and a match value may be combined to express
// "has a value and that value matches". Exactly one match slot is populated,
// chosen by the MatchValue kind. On any error the existing condition is left
// untouched.
func (f *Field) SetCondition(linked *Field, hasValue *bool, match MatchValue) error {
	if linked == nil {
		return ErrFieldNotFound
	}
	if linked.FieldID == f.FieldID {
		return ErrConditionSelfReference
	}
	if linked.FormID != f.FormID {
		return ErrCrossForm
	}
	if linked.Archived {
		return ErrConditionFieldArchived
	}
	if hasValue == nil && match.Kind == MatchKindNone {
		return ErrConditionEmpty
	}

	cond := &Condition{LinkedFieldID: linked.FieldID}
	if hasValue != nil {
		hv := *hasValue
		cond.HasValue = &hv
	}
	switch match.Kind {
	case MatchKindNone:
	case MatchKindString:
		s := match.Str
		cond.MatchValueStr = &s
	case MatchKindInt:
		i := match.Int
		cond.MatchValueInt = &i
	case MatchKindBool:
		b := match.Bool
		cond.MatchValueBool = &b
	default:
		return ErrConditionEmpty
	}

	f.Condition = cond
	return nil
}

// LinksTo reports whether this field's condition references the given field ID.
func (f *Field) LinksTo(fieldID string) bool {
	return f.Condition != nil && f.Condition.LinkedFieldID == fieldID
}

// Validator reports whether a submitted value is acceptable for a field.
// Each properties variant supplies its own rule; dispatch is keyed by the
// field's Type tag. Implementations return false for ill-typed values and
// never panic.
type Validator interface {
	IsValidValue(value any) bool
}
