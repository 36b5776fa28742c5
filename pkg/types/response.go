// Response records for persisted form submissions. The core never creates
// or validates responses; the types exist so the storage layer can persist
// submissions alongside the definitions they answer.
package types

import "time"

// Response value types for FieldResponse.ValueType.
const (
	ResponseValueText    = "text"
	ResponseValueBoolean = "boolean"
	ResponseValueChoice  = "choice"
	ResponseValueFile    = "file"
)

// validResponseValueTypes is the set of recognized response value types.
var validResponseValueTypes = map[string]bool{
	ResponseValueText:    true,
	ResponseValueBoolean: true,
	ResponseValueChoice:  true,
	ResponseValueFile:    true,
}

// IsValidResponseValueType reports whether vt is a recognized response value type.
func IsValidResponseValueType(vt string) bool {
	return validResponseValueTypes[vt]
}

// FormResponse is one submission instance of a form.
type FormResponse struct {
	ResponseID  string    `json:"response_id"` // UUID v7, generated on creation.
	FormID      string    `json:"form_id"`     // The form this submission answers.
	SubmittedAt time.Time `json:"submitted_at"`
}

// FieldResponse is the value submitted for a single field within a
// FormResponse. Value carries the type-appropriate payload: a string for
// text and choice, a bool for boolean, a storage key for file.
type FieldResponse struct {
	FieldResponseID string `json:"field_response_id"` // UUID v7, generated on creation.
	ResponseID      string `json:"response_id"`       // Owning FormResponse.
	FieldID         string `json:"field_id"`          // The field this value answers.
	ValueType       string `json:"value_type"`        // One of the ResponseValue constants.
	Value           any    `json:"value"`
}
