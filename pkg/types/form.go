package types

// Form owns an ordered collection of fields. Insertion order is semantically
// significant: it defines display order, and GetFields preserves it.
type Form struct {
	FormID      string   `json:"form_id"`     // UUID v7, generated on creation.
	Title       string   `json:"title"`       // Human-readable title (required, non-empty).
	Description string   `json:"description"` // Optional explanation of the form's purpose.
	Archived    bool     `json:"archived"`    // Soft-delete flag.
	Fields      []*Field `json:"fields"`      // Ordered field sequence, including archived members.
}

// SetArchived soft-deletes the form. Idempotent.
func (frm *Form) SetArchived() {
	frm.Archived = true
}

// AddField appends a field to the form's ordered sequence.
// Returns ErrFieldArchived if the field is already archived,
// ErrDuplicateField if a field with the same ID is already a member, and
// ErrCrossForm if the field is stamped with another form's ID. On success
// the field's FormID is stamped with this form's ID.
func (frm *Form) AddField(f *Field) error {
	if f.Archived {
		return ErrFieldArchived
	}
	if f.FormID != "" && f.FormID != frm.FormID {
		return ErrCrossForm
	}
	if frm.fieldIndexByID(f.FieldID) != -1 {
		return ErrDuplicateField
	}
	f.FormID = frm.FormID
	frm.Fields = append(frm.Fields, f)
	return nil
}

// RemoveField soft-deletes a member field and clears the condition of every
// sibling that links to it. Returns ErrFieldNotFound if the field is not a
// member by ID. Removal is idempotent: re-removing an already archived member
// succeeds, and the cascade runs on every call so no dangling condition can
// survive. The cascade is a single synchronous pass in insertion order; only
// siblings whose condition targets the removed field are touched.
func (frm *Form) RemoveField(f *Field) error {
	idx := frm.fieldIndexByID(f.FieldID)
	if idx == -1 {
		return ErrFieldNotFound
	}

	removed := frm.Fields[idx]
	removed.SetArchived()

	for _, sibling := range frm.Fields {
		if sibling.FieldID == removed.FieldID {
			continue
		}
		if sibling.LinksTo(removed.FieldID) {
			sibling.ClearCondition()
		}
	}
	return nil
}

// HasField reports whether the field is a member of this form by ID.
// Archived members still count.
func (frm *Form) HasField(f *Field) bool {
	return frm.fieldIndexByID(f.FieldID) != -1
}

// FieldByID returns the member field with the given ID, or nil if none.
// The scan covers the full sequence, archived members included.
func (frm *Form) FieldByID(id string) *Field {
	idx := frm.fieldIndexByID(id)
	if idx == -1 {
		return nil
	}
	return frm.Fields[idx]
}

// GetFields returns the form's fields in insertion order. When
// includeArchived is false, archived fields are filtered out; the relative
// order of the remainder is unchanged. Returns an empty slice, not nil.
func (frm *Form) GetFields(includeArchived bool) []*Field {
	result := make([]*Field, 0, len(frm.Fields))
	for _, f := range frm.Fields {
		if !includeArchived && f.Archived {
			continue
		}
		result = append(result, f)
	}
	return result
}

// fieldIndexByID is a linear scan by ID over the full field sequence,
// archived members included.
func (frm *Form) fieldIndexByID(id string) int {
	for i, f := range frm.Fields {
		if f.FieldID == id {
			return i
		}
	}
	return -1
}
