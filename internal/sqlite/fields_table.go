// Fields table accessor, plus the field row hydration shared with the forms
// table.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/fieldwright/formdef/pkg/types"
)

// Compile-time interface check: fieldsTable must implement Table.
var _ types.Table = (*fieldsTable)(nil)

type fieldsTable struct {
	backend *Backend
}

// fieldSelectColumns is the column list every field query selects, in the
// order scanFieldFromRows expects.
const fieldSelectColumns = "SELECT field_id, form_id, properties_id, name, label, description, " +
	"field_type, archived, linked_field_id, has_value, match_value_str, match_value_int, match_value_bool"

// Get retrieves a field by ID. Returns ErrNotFound if no field exists.
func (ft *fieldsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := ft.backend.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(fieldSelectColumns+" FROM fields WHERE field_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying field: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("querying field: %w", err)
		}
		return nil, types.ErrNotFound
	}
	return scanFieldFromRows(rows)
}

// Set persists a field. When id is empty a UUID v7 is generated and the
// field is appended to its form's ordering. The field must carry a FormID
// that references an existing form.
func (ft *fieldsTable) Set(id string, data any) (string, error) {
	f, ok := data.(*types.Field)
	if !ok {
		return "", types.ErrInvalidData
	}
	if f.Name == "" {
		return "", types.ErrInvalidName
	}
	if !types.IsValidFieldType(f.Type) {
		return "", types.ErrInvalidFieldType
	}
	if f.FormID == "" {
		return "", types.ErrInvalidData
	}
	db, err := ft.backend.conn()
	if err != nil {
		return "", err
	}

	var formExists int
	if err := db.QueryRow(
		"SELECT 1 FROM forms WHERE form_id = ?", f.FormID).Scan(&formExists); err == sql.ErrNoRows {
		return "", types.ErrNotFound
	} else if err != nil {
		return "", fmt.Errorf("checking form: %w", err)
	}

	isCreate := id == "" && f.FieldID == ""
	if isCreate {
		f.FieldID = newUUID()
	} else if id != "" {
		f.FieldID = id
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// New fields append to the form's display order; updates keep their slot.
	var ordinal int
	err = tx.QueryRow(
		"SELECT ordinal FROM fields WHERE field_id = ?", f.FieldID).Scan(&ordinal)
	if err == sql.ErrNoRows {
		if err := tx.QueryRow(
			"SELECT COALESCE(MAX(ordinal) + 1, 0) FROM fields WHERE form_id = ?",
			f.FormID).Scan(&ordinal); err != nil {
			return "", fmt.Errorf("computing ordinal: %w", err)
		}
	} else if err != nil {
		return "", fmt.Errorf("checking field ordinal: %w", err)
	}

	if err := upsertField(tx, f, ordinal); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing field: %w", err)
	}

	if err := persistTableJSONL(ft.backend, "fields"); err != nil {
		return "", err
	}
	return f.FieldID, nil
}

// Delete physically removes a field, its properties record and choices, and
// clears the stored condition of any sibling that links to it. Soft-delete
// is a domain concern (Form.RemoveField persisted via Set); Delete is for
// purging a definition outright.
func (ft *fieldsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := ft.backend.conn()
	if err != nil {
		return err
	}

	var propsID sql.NullString
	err = db.QueryRow(
		"SELECT properties_id FROM fields WHERE field_id = ?", id).Scan(&propsID)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking field: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if propsID.Valid {
		for _, propsTable := range []string{
			"text_field_properties",
			"boolean_field_properties",
			"select_field_properties",
			"file_field_properties",
		} {
			q := fmt.Sprintf("DELETE FROM %s WHERE properties_id = ?", propsTable)
			if _, err := tx.Exec(q, propsID.String); err != nil {
				return fmt.Errorf("deleting %s: %w", propsTable, err)
			}
		}
		if _, err := tx.Exec(
			"DELETE FROM select_field_choices WHERE properties_id = ?", propsID.String); err != nil {
			return fmt.Errorf("deleting select choices: %w", err)
		}
	}

	// Same cascade the domain runs on removal: siblings linking to this
	// field lose their condition.
	if _, err := tx.Exec(`
		UPDATE fields SET
			linked_field_id = NULL,
			has_value = NULL,
			match_value_str = NULL,
			match_value_int = NULL,
			match_value_bool = NULL
		WHERE linked_field_id = ?`, id); err != nil {
		return fmt.Errorf("clearing dependent conditions: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM field_responses WHERE field_id = ?", id); err != nil {
		return fmt.Errorf("deleting field responses: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM fields WHERE field_id = ?", id); err != nil {
		return fmt.Errorf("deleting field: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing field deletion: %w", err)
	}

	return persistTables(ft.backend,
		"fields",
		"text_field_properties", "boolean_field_properties",
		"select_field_properties", "select_field_choices", "file_field_properties",
		"field_responses")
}

// Fetch returns fields matching the filter, ordered by form and ordinal.
// Supported filters: "form_id" (string), "field_type" (string),
// "include_archived" (bool, default false).
func (ft *fieldsTable) Fetch(filter map[string]any) ([]any, error) {
	db, err := ft.backend.conn()
	if err != nil {
		return nil, err
	}

	query := fieldSelectColumns + " FROM fields"
	var conditions []string
	var args []any

	if v, ok := filter["form_id"]; ok {
		formID, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "form_id = ?")
		args = append(args, formID)
	}
	if v, ok := filter["field_type"]; ok {
		fieldType, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "field_type = ?")
		args = append(args, fieldType)
	}

	includeArchived := false
	if v, ok := filter["include_archived"]; ok {
		includeArchived, ok = v.(bool)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
	}
	if !includeArchived {
		conditions = append(conditions, "archived = 0")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY form_id, ordinal"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching fields: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		f, err := scanFieldFromRows(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fields: %w", err)
	}
	if results == nil {
		results = []any{}
	}
	return results, nil
}

// upsertField writes a field row, including its condition columns, at the
// given ordinal. Shared by the fields and forms tables.
func upsertField(tx *sql.Tx, f *types.Field, ordinal int) error {
	var propsID, label, desc sql.NullString
	if f.PropertiesID != "" {
		propsID = sql.NullString{String: f.PropertiesID, Valid: true}
	}
	if f.Label != "" {
		label = sql.NullString{String: f.Label, Valid: true}
	}
	if f.Description != "" {
		desc = sql.NullString{String: f.Description, Valid: true}
	}

	var linkedID, matchStr sql.NullString
	var hasValue, matchBool sql.NullInt64
	var matchInt sql.NullInt64
	if c := f.Condition; c != nil {
		linkedID = sql.NullString{String: c.LinkedFieldID, Valid: true}
		if c.HasValue != nil {
			hasValue = sql.NullInt64{Int64: int64(boolToInt(*c.HasValue)), Valid: true}
		}
		if c.MatchValueStr != nil {
			matchStr = sql.NullString{String: *c.MatchValueStr, Valid: true}
		}
		if c.MatchValueInt != nil {
			matchInt = sql.NullInt64{Int64: *c.MatchValueInt, Valid: true}
		}
		if c.MatchValueBool != nil {
			matchBool = sql.NullInt64{Int64: int64(boolToInt(*c.MatchValueBool)), Valid: true}
		}
	}

	_, err := tx.Exec(`
		INSERT INTO fields (field_id, form_id, properties_id, name, label, description,
			field_type, archived, linked_field_id, has_value,
			match_value_str, match_value_int, match_value_bool, ordinal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(field_id) DO UPDATE SET
			form_id = excluded.form_id,
			properties_id = excluded.properties_id,
			name = excluded.name,
			label = excluded.label,
			description = excluded.description,
			field_type = excluded.field_type,
			archived = excluded.archived,
			linked_field_id = excluded.linked_field_id,
			has_value = excluded.has_value,
			match_value_str = excluded.match_value_str,
			match_value_int = excluded.match_value_int,
			match_value_bool = excluded.match_value_bool,
			ordinal = excluded.ordinal`,
		f.FieldID, f.FormID, propsID, f.Name, label, desc,
		f.Type, boolToInt(f.Archived), linkedID, hasValue,
		matchStr, matchInt, matchBool, ordinal)
	if err != nil {
		return fmt.Errorf("upserting field %s: %w", f.FieldID, err)
	}
	return nil
}

// scanFieldFromRows converts the current row of a fieldSelectColumns query
// into a *types.Field, rebuilding the condition from its nullable columns.
func scanFieldFromRows(rows *sql.Rows) (*types.Field, error) {
	var f types.Field
	var propsID, label, desc sql.NullString
	var archived int
	var linkedID, matchStr sql.NullString
	var hasValue, matchInt, matchBool sql.NullInt64

	if err := rows.Scan(&f.FieldID, &f.FormID, &propsID, &f.Name, &label, &desc,
		&f.Type, &archived, &linkedID, &hasValue,
		&matchStr, &matchInt, &matchBool); err != nil {
		return nil, fmt.Errorf("scanning field: %w", err)
	}

	if propsID.Valid {
		f.PropertiesID = propsID.String
	}
	if label.Valid {
		f.Label = label.String
	}
	if desc.Valid {
		f.Description = desc.String
	}
	f.Archived = archived != 0

	if linkedID.Valid {
		c := &types.Condition{LinkedFieldID: linkedID.String}
		if hasValue.Valid {
			hv := hasValue.Int64 != 0
			c.HasValue = &hv
		}
		if matchStr.Valid {
			s := matchStr.String
			c.MatchValueStr = &s
		}
		if matchInt.Valid {
			i := matchInt.Int64
			c.MatchValueInt = &i
		}
		if matchBool.Valid {
			b := matchBool.Int64 != 0
			c.MatchValueBool = &b
		}
		f.Condition = c
	}
	return &f, nil
}
