// Forms table accessor. A form hydrates as an aggregate: its ordered field
// sequence is loaded and persisted together with the form row.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/fieldwright/formdef/pkg/types"
)

// Compile-time interface check: formsTable must implement Table.
var _ types.Table = (*formsTable)(nil)

type formsTable struct {
	backend *Backend
}

// Get retrieves a form by ID with its fields in insertion order.
// Returns ErrNotFound if no form exists with that ID.
func (ft *formsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := ft.backend.conn()
	if err != nil {
		return nil, err
	}

	row := db.QueryRow(
		"SELECT form_id, title, description, archived FROM forms WHERE form_id = ?", id)
	frm, err := scanForm(row)
	if err != nil {
		return nil, err
	}
	if err := loadFormFields(db, frm); err != nil {
		return nil, fmt.Errorf("loading fields for form %s: %w", id, err)
	}
	return frm, nil
}

// Set persists a form and its member fields. When id is empty a UUID v7 is
// generated. Member fields without an ID are created; every member's FormID
// and ordinal are stamped from its position in the sequence.
func (ft *formsTable) Set(id string, data any) (string, error) {
	frm, ok := data.(*types.Form)
	if !ok {
		return "", types.ErrInvalidData
	}
	if frm.Title == "" {
		return "", types.ErrInvalidName
	}
	db, err := ft.backend.conn()
	if err != nil {
		return "", err
	}

	isCreate := id == "" && frm.FormID == ""
	if isCreate {
		frm.FormID = newUUID()
	} else if id != "" {
		frm.FormID = id
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var desc sql.NullString
	if frm.Description != "" {
		desc = sql.NullString{String: frm.Description, Valid: true}
	}
	_, err = tx.Exec(`
		INSERT INTO forms (form_id, title, description, archived)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(form_id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			archived = excluded.archived`,
		frm.FormID, frm.Title, desc, boolToInt(frm.Archived))
	if err != nil {
		return "", fmt.Errorf("upserting form: %w", err)
	}

	for ordinal, f := range frm.Fields {
		if !types.IsValidFieldType(f.Type) {
			return "", types.ErrInvalidFieldType
		}
		if f.FieldID == "" {
			f.FieldID = newUUID()
		}
		f.FormID = frm.FormID
		if err := upsertField(tx, f, ordinal); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing form: %w", err)
	}

	if err := persistTables(ft.backend, "forms", "fields"); err != nil {
		return "", err
	}
	return frm.FormID, nil
}

// Delete removes a form and cascades to its fields, their property records,
// choices, and any responses. Returns ErrNotFound if no form exists.
func (ft *formsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := ft.backend.conn()
	if err != nil {
		return err
	}

	var exists int
	if err := db.QueryRow(
		"SELECT 1 FROM forms WHERE form_id = ?", id).Scan(&exists); err == sql.ErrNoRows {
		return types.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("checking form: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	propsSub := "SELECT properties_id FROM fields WHERE form_id = ?"
	for _, propsTable := range []string{
		"text_field_properties",
		"boolean_field_properties",
		"file_field_properties",
	} {
		q := fmt.Sprintf("DELETE FROM %s WHERE properties_id IN (%s)", propsTable, propsSub)
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("deleting %s: %w", propsTable, err)
		}
	}
	if _, err := tx.Exec(
		"DELETE FROM select_field_choices WHERE properties_id IN ("+propsSub+")", id); err != nil {
		return fmt.Errorf("deleting select choices: %w", err)
	}
	if _, err := tx.Exec(
		"DELETE FROM select_field_properties WHERE properties_id IN ("+propsSub+")", id); err != nil {
		return fmt.Errorf("deleting select properties: %w", err)
	}
	if _, err := tx.Exec(
		"DELETE FROM field_responses WHERE response_id IN (SELECT response_id FROM form_responses WHERE form_id = ?)", id); err != nil {
		return fmt.Errorf("deleting field responses: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM form_responses WHERE form_id = ?", id); err != nil {
		return fmt.Errorf("deleting form responses: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM fields WHERE form_id = ?", id); err != nil {
		return fmt.Errorf("deleting fields: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM forms WHERE form_id = ?", id); err != nil {
		return fmt.Errorf("deleting form: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing form deletion: %w", err)
	}

	return persistTables(ft.backend,
		"forms", "fields",
		"text_field_properties", "boolean_field_properties",
		"select_field_properties", "select_field_choices", "file_field_properties",
		"form_responses", "field_responses")
}

// Fetch returns forms matching the filter, ordered by title. Supported
// filters: "archived" (bool), "limit" and "offset" (int). An empty filter
// returns every form. Fields are hydrated for each result.
func (ft *formsTable) Fetch(filter map[string]any) ([]any, error) {
	db, err := ft.backend.conn()
	if err != nil {
		return nil, err
	}

	query := "SELECT form_id, title, description, archived FROM forms"
	var conditions []string
	var args []any

	if v, ok := filter["archived"]; ok {
		archived, ok := v.(bool)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "archived = ?")
		args = append(args, boolToInt(archived))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY title"

	if v, ok := filter["limit"]; ok {
		limit, ok := toInt(v)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if limit > 0 {
			query += fmt.Sprintf(" LIMIT %d", limit)
		}
	}
	if v, ok := filter["offset"]; ok {
		offset, ok := toInt(v)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", offset)
		}
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching forms: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		var frm types.Form
		var desc sql.NullString
		var archived int
		if err := rows.Scan(&frm.FormID, &frm.Title, &desc, &archived); err != nil {
			return nil, fmt.Errorf("scanning form: %w", err)
		}
		if desc.Valid {
			frm.Description = desc.String
		}
		frm.Archived = archived != 0
		results = append(results, &frm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating forms: %w", err)
	}

	for _, r := range results {
		frm := r.(*types.Form)
		if err := loadFormFields(db, frm); err != nil {
			return nil, fmt.Errorf("loading fields for form %s: %w", frm.FormID, err)
		}
	}
	if results == nil {
		results = []any{}
	}
	return results, nil
}

// scanForm converts a single forms row into a *types.Form.
func scanForm(row *sql.Row) (*types.Form, error) {
	var frm types.Form
	var desc sql.NullString
	var archived int
	err := row.Scan(&frm.FormID, &frm.Title, &desc, &archived)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning form: %w", err)
	}
	if desc.Valid {
		frm.Description = desc.String
	}
	frm.Archived = archived != 0
	return &frm, nil
}

// loadFormFields hydrates the form's field sequence in ordinal order.
func loadFormFields(db *sql.DB, frm *types.Form) error {
	rows, err := db.Query(
		fieldSelectColumns+" FROM fields WHERE form_id = ? ORDER BY ordinal", frm.FormID)
	if err != nil {
		return fmt.Errorf("querying fields: %w", err)
	}
	defer rows.Close()

	frm.Fields = nil
	for rows.Next() {
		f, err := scanFieldFromRows(rows)
		if err != nil {
			return err
		}
		frm.Fields = append(frm.Fields, f)
	}
	return rows.Err()
}

// boolToInt maps a Go bool to the 0/1 convention used by the schema.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// toInt converts the numeric types a filter value may arrive as.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
