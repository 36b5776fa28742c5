package types

import "errors"

// Table provides uniform CRUD operations for a single entity type.
// Get and Fetch return any; callers type-assert to the concrete entity struct.
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(id string) (any, error)

	// Set creates or updates an entity. When id is empty a new UUID v7 is
	// generated. Returns the actual ID used (generated or provided).
	Set(id string, data any) (string, error)

	// Delete removes the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(id string) error

	// Fetch returns all entities matching the filter. An empty filter
	// returns every entity in the table.
	Fetch(filter map[string]any) ([]any, error)
}

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidName   = errors.New("invalid name")
	ErrInvalidFilter = errors.New("invalid filter value type")
)

// Membership errors: an operation referenced a field or choice that is not
// part of the target container.
var (
	ErrFieldNotFound  = errors.New("field not found in form")
	ErrChoiceNotFound = errors.New("choice not found in select field")
)

// Archival invariant errors: an archived entity cannot be added to a live
// container, and a field may only join a form once.
var (
	ErrFieldArchived         = errors.New("cannot add an archived field")
	ErrChoiceArchived        = errors.New("cannot add an archived choice")
	ErrDuplicateField        = errors.New("field already added to form")
	ErrDefaultChoiceArchived = errors.New("default choice is archived")
)

// Condition errors: a visibility condition must target a live field in the
// same form and must carry at least one match rule.
var (
	ErrCrossForm              = errors.New("field belongs to a different form")
	ErrConditionFieldArchived = errors.New("linked field is archived")
	ErrConditionSelfReference = errors.New("field cannot condition on itself")
	ErrConditionEmpty         = errors.New("condition has no match rule")
)

// Validation errors.
var (
	ErrInvalidDefault   = errors.New("default value fails field validation")
	ErrInvalidFieldType = errors.New("invalid field type")
)
