package types

// SelectFieldChoice is one selectable option on a select field. Choices are
// soft-deleted, never physically removed, so existing responses that
// reference a retired choice keep resolving.
type SelectFieldChoice struct {
	ChoiceID     string `json:"choice_id"`     // UUID v7, generated on creation.
	PropertiesID string `json:"properties_id"` // Back-reference to the owning select field's properties.
	Label        string `json:"label"`         // Display label.
	Archived     bool   `json:"archived"`      // Soft-delete flag.
}

// SetArchived soft-deletes the choice. Idempotent.
func (c *SelectFieldChoice) SetArchived() {
	c.Archived = true
}

// SelectFieldProperties holds the choice collection of a select field.
// The choice sequence is ordered by insertion and includes archived members.
type SelectFieldProperties struct {
	PropertiesID    string               `json:"properties_id"` // UUID v7, generated on creation.
	DefaultChoiceID *string              `json:"default_choice_id,omitempty"`
	Choices         []*SelectFieldChoice `json:"choices"`
}

var _ Validator = (*SelectFieldProperties)(nil)

// AddChoice appends a choice to the ordered sequence and returns it.
// Returns ErrChoiceArchived if the choice is already archived. The choice's
// PropertiesID is stamped with this field's properties ID.
func (p *SelectFieldProperties) AddChoice(c *SelectFieldChoice) (*SelectFieldChoice, error) {
	if c.Archived {
		return nil, ErrChoiceArchived
	}
	c.PropertiesID = p.PropertiesID
	p.Choices = append(p.Choices, c)
	return c, nil
}

// RemoveChoice soft-deletes a member choice. Returns ErrChoiceNotFound if
// the choice is not a member by ID. Archiving again is a no-op.
func (p *SelectFieldProperties) RemoveChoice(c *SelectFieldChoice) error {
	idx := p.choiceIndexByID(c.ChoiceID)
	if idx == -1 {
		return ErrChoiceNotFound
	}
	p.Choices[idx].SetArchived()
	return nil
}

// HasChoice reports whether the choice is a member by ID, archived or not.
func (p *SelectFieldProperties) HasChoice(c *SelectFieldChoice) bool {
	return p.choiceIndexByID(c.ChoiceID) != -1
}

// SetDefaultChoice records the choice pre-selected when the field renders.
// Returns ErrChoiceNotFound if the choice is not a member and
// ErrDefaultChoiceArchived if the member is archived. Idempotent for a live
// member.
func (p *SelectFieldProperties) SetDefaultChoice(c *SelectFieldChoice) error {
	idx := p.choiceIndexByID(c.ChoiceID)
	if idx == -1 {
		return ErrChoiceNotFound
	}
	if p.Choices[idx].Archived {
		return ErrDefaultChoiceArchived
	}
	id := p.Choices[idx].ChoiceID
	p.DefaultChoiceID = &id
	return nil
}

// GetChoices returns the choices in insertion order. When includeArchived is
// false, archived choices are filtered out. Returns an empty slice, not nil.
func (p *SelectFieldProperties) GetChoices(includeArchived bool) []*SelectFieldChoice {
	result := make([]*SelectFieldChoice, 0, len(p.Choices))
	for _, c := range p.Choices {
		if !includeArchived && c.Archived {
			continue
		}
		result = append(result, c)
	}
	return result
}

// IsValidValue reports whether value is the ID of a live member choice.
// An unknown ID or an archived member is invalid.
func (p *SelectFieldProperties) IsValidValue(value any) bool {
	id, ok := value.(string)
	if !ok {
		return false
	}
	idx := p.choiceIndexByID(id)
	return idx != -1 && !p.Choices[idx].Archived
}

// choiceIndexByID is a linear scan by ID over the full choice sequence,
// archived members included.
func (p *SelectFieldProperties) choiceIndexByID(id string) int {
	for i, c := range p.Choices {
		if c.ChoiceID == id {
			return i
		}
	}
	return -1
}
