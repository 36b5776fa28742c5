// Responses table accessor. Form responses and their per-field answers share
// one accessor, dispatching on the entity's Go type.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fieldwright/formdef/pkg/types"
)

// Compile-time interface check: responsesTable must implement Table.
var _ types.Table = (*responsesTable)(nil)

type responsesTable struct {
	backend *Backend
}

// Get retrieves a form response or a field response by ID.
func (rt *responsesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := rt.backend.conn()
	if err != nil {
		return nil, err
	}

	if r, err := getFormResponse(db, id); err == nil {
		return r, nil
	} else if err != types.ErrNotFound {
		return nil, err
	}
	return getFieldResponse(db, id)
}

// Set persists a form response or a field response. Field responses must
// carry a valid value type and an existing parent response.
func (rt *responsesTable) Set(id string, data any) (string, error) {
	db, err := rt.backend.conn()
	if err != nil {
		return "", err
	}

	switch v := data.(type) {
	case *types.FormResponse:
		if v.FormID == "" {
			return "", types.ErrInvalidData
		}
		var formExists int
		if err := db.QueryRow(
			"SELECT 1 FROM forms WHERE form_id = ?", v.FormID).Scan(&formExists); err == sql.ErrNoRows {
			return "", types.ErrNotFound
		} else if err != nil {
			return "", fmt.Errorf("checking form: %w", err)
		}
		v.ResponseID = resolveID(id, v.ResponseID)
		if v.SubmittedAt.IsZero() {
			v.SubmittedAt = time.Now().UTC()
		}
		_, err := db.Exec(`
			INSERT INTO form_responses (response_id, form_id, submitted_at)
			VALUES (?, ?, ?)
			ON CONFLICT(response_id) DO UPDATE SET
				form_id = excluded.form_id,
				submitted_at = excluded.submitted_at`,
			v.ResponseID, v.FormID, v.SubmittedAt.Format(time.RFC3339))
		if err != nil {
			return "", fmt.Errorf("upserting form response: %w", err)
		}
		if err := persistTableJSONL(rt.backend, "form_responses"); err != nil {
			return "", err
		}
		return v.ResponseID, nil

	case *types.FieldResponse:
		if !types.IsValidResponseValueType(v.ValueType) {
			return "", types.ErrInvalidData
		}
		if v.ResponseID == "" || v.FieldID == "" {
			return "", types.ErrInvalidData
		}
		var respExists int
		if err := db.QueryRow(
			"SELECT 1 FROM form_responses WHERE response_id = ?", v.ResponseID).Scan(&respExists); err == sql.ErrNoRows {
			return "", types.ErrNotFound
		} else if err != nil {
			return "", fmt.Errorf("checking form response: %w", err)
		}
		v.FieldResponseID = resolveID(id, v.FieldResponseID)
		value, err := json.Marshal(v.Value)
		if err != nil {
			return "", fmt.Errorf("marshaling field response value: %w", err)
		}
		_, err = db.Exec(`
			INSERT INTO field_responses (field_response_id, response_id, field_id, value_type, value)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(field_response_id) DO UPDATE SET
				response_id = excluded.response_id,
				field_id = excluded.field_id,
				value_type = excluded.value_type,
				value = excluded.value`,
			v.FieldResponseID, v.ResponseID, v.FieldID, v.ValueType, string(value))
		if err != nil {
			return "", fmt.Errorf("upserting field response: %w", err)
		}
		if err := persistTableJSONL(rt.backend, "field_responses"); err != nil {
			return "", err
		}
		return v.FieldResponseID, nil

	default:
		return "", types.ErrInvalidData
	}
}

// Delete removes a form response and its field responses, or a single field
// response, by ID.
func (rt *responsesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := rt.backend.conn()
	if err != nil {
		return err
	}

	var exists int
	err = db.QueryRow(
		"SELECT 1 FROM form_responses WHERE response_id = ?", id).Scan(&exists)
	if err == nil {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.Exec("DELETE FROM field_responses WHERE response_id = ?", id); err != nil {
			return fmt.Errorf("deleting field responses: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM form_responses WHERE response_id = ?", id); err != nil {
			return fmt.Errorf("deleting form response: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing response deletion: %w", err)
		}
		return persistTables(rt.backend, "form_responses", "field_responses")
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking form response: %w", err)
	}

	err = db.QueryRow(
		"SELECT 1 FROM field_responses WHERE field_response_id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking field response: %w", err)
	}
	if _, err := db.Exec("DELETE FROM field_responses WHERE field_response_id = ?", id); err != nil {
		return fmt.Errorf("deleting field response: %w", err)
	}
	return persistTableJSONL(rt.backend, "field_responses")
}

// Fetch returns responses matching the filter. With "form_id" it returns the
// form responses for that form, newest first. With "response_id" it returns
// the field responses for that submission. An empty filter returns every form
// response.
func (rt *responsesTable) Fetch(filter map[string]any) ([]any, error) {
	db, err := rt.backend.conn()
	if err != nil {
		return nil, err
	}

	if v, ok := filter["response_id"]; ok {
		responseID, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		return fetchFieldResponses(db, responseID)
	}

	query := "SELECT response_id, form_id, submitted_at FROM form_responses"
	var args []any
	if v, ok := filter["form_id"]; ok {
		formID, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		query += " WHERE form_id = ?"
		args = append(args, formID)
	}
	query += " ORDER BY submitted_at DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching form responses: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		r, err := scanFormResponse(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating form responses: %w", err)
	}
	if results == nil {
		results = []any{}
	}
	return results, nil
}

func getFormResponse(db *sql.DB, id string) (*types.FormResponse, error) {
	rows, err := db.Query(
		"SELECT response_id, form_id, submitted_at FROM form_responses WHERE response_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying form response: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, types.ErrNotFound
	}
	return scanFormResponse(rows)
}

func scanFormResponse(rows *sql.Rows) (*types.FormResponse, error) {
	var r types.FormResponse
	var submittedAt string
	if err := rows.Scan(&r.ResponseID, &r.FormID, &submittedAt); err != nil {
		return nil, fmt.Errorf("scanning form response: %w", err)
	}
	t, err := time.Parse(time.RFC3339, submittedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing submitted_at: %w", err)
	}
	r.SubmittedAt = t
	return &r, nil
}

func getFieldResponse(db *sql.DB, id string) (*types.FieldResponse, error) {
	var r types.FieldResponse
	var value string
	err := db.QueryRow(
		"SELECT field_response_id, response_id, field_id, value_type, value FROM field_responses WHERE field_response_id = ?", id).
		Scan(&r.FieldResponseID, &r.ResponseID, &r.FieldID, &r.ValueType, &value)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning field response: %w", err)
	}
	if err := json.Unmarshal([]byte(value), &r.Value); err != nil {
		return nil, fmt.Errorf("parsing field response value: %w", err)
	}
	return &r, nil
}

func fetchFieldResponses(db *sql.DB, responseID string) ([]any, error) {
	rows, err := db.Query(
		"SELECT field_response_id, response_id, field_id, value_type, value FROM field_responses WHERE response_id = ? ORDER BY field_response_id", responseID)
	if err != nil {
		return nil, fmt.Errorf("fetching field responses: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		var r types.FieldResponse
		var value string
		if err := rows.Scan(&r.FieldResponseID, &r.ResponseID, &r.FieldID, &r.ValueType, &value); err != nil {
			return nil, fmt.Errorf("scanning field response: %w", err)
		}
		if err := json.Unmarshal([]byte(value), &r.Value); err != nil {
			return nil, fmt.Errorf("parsing field response value: %w", err)
		}
		results = append(results, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating field responses: %w", err)
	}
	return results, nil
}
