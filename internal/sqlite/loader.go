// JSONL startup loading and generic table persistence.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// jsonlTableMapping maps JSONL filenames to their SQLite tables and column
// lists. Order matters: tables with foreign keys load after their referenced
// tables.
var jsonlTableMapping = []struct {
	file    string
	table   string
	columns []string
}{
	{"forms.jsonl", "forms", []string{"form_id", "title", "description", "archived"}},
	{"fields.jsonl", "fields", []string{"field_id", "form_id", "properties_id", "name", "label", "description", "field_type", "archived", "linked_field_id", "has_value", "match_value_str", "match_value_int", "match_value_bool", "ordinal"}},
	{"text_field_properties.jsonl", "text_field_properties", []string{"properties_id", "format", "min_length", "max_length", "placeholder", "default_value"}},
	{"boolean_field_properties.jsonl", "boolean_field_properties", []string{"properties_id", "default_value"}},
	{"select_field_properties.jsonl", "select_field_properties", []string{"properties_id", "default_choice_id"}},
	{"select_field_choices.jsonl", "select_field_choices", []string{"choice_id", "properties_id", "label", "archived", "ordinal"}},
	{"file_field_properties.jsonl", "file_field_properties", []string{"properties_id", "max_size_bytes", "valid_extensions", "valid_mime_types"}},
	{"form_responses.jsonl", "form_responses", []string{"response_id", "form_id", "submitted_at"}},
	{"field_responses.jsonl", "field_responses", []string{"field_response_id", "response_id", "field_id", "value_type", "value"}},
}

// initJSONLFiles creates empty JSONL files for any that do not yet exist,
// so a fresh data directory is fully formed after the first Attach.
func initJSONLFiles(dataDir string) error {
	for _, mapping := range jsonlTableMapping {
		path := filepath.Join(dataDir, mapping.file)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", mapping.file, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("create %s: %w", mapping.file, err)
		}
	}
	return nil
}

// loadAllJSONL reads each JSONL file from dataDir and inserts records into
// the corresponding SQLite tables. Loading is transactional: all files load
// or the database stays empty. Unknown fields in records are ignored, so
// newer generations of the files remain loadable.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disabling foreign keys for load: %w", err)
	}

	for _, mapping := range jsonlTableMapping {
		records, err := readJSONL(filepath.Join(dataDir, mapping.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", mapping.file, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, mapping.table, mapping.columns, records); err != nil {
			return fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}
	}

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("re-enabling foreign keys: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts JSONL records into a table by mapping JSON keys to
// the given column list. Missing keys insert NULL.
func insertRecords(tx *sql.Tx, table string, columns []string, records []json.RawMessage) error {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)

	for _, rec := range records {
		var parsed map[string]any
		if err := json.Unmarshal(rec, &parsed); err != nil {
			// readJSONL already filtered invalid JSON; a non-object line is
			// treated the same way and skipped.
			continue
		}
		args := make([]any, len(columns))
		for i, col := range columns {
			args[i] = parsed[col]
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}
	return nil
}

// persistTableJSONL reads all rows from the given SQLite table and writes
// them as JSONL to the table's file, using the atomic write pattern. Shared
// across all table accessors.
func persistTableJSONL(b *Backend, tableName string) error {
	var fileName string
	for _, mapping := range jsonlTableMapping {
		if mapping.table == tableName {
			fileName = mapping.file
			break
		}
	}
	if fileName == "" {
		return fmt.Errorf("no JSONL mapping for table %s", tableName)
	}

	rows, err := b.db.Query("SELECT * FROM " + tableName)
	if err != nil {
		return fmt.Errorf("querying %s for JSONL: %w", tableName, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("getting columns for %s: %w", tableName, err)
	}

	var records []json.RawMessage
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return fmt.Errorf("scanning %s row: %w", tableName, err)
		}
		rec := make(map[string]any, len(cols))
		for i, col := range cols {
			rec[col] = values[i]
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling %s row: %w", tableName, err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s for JSONL: %w", tableName, err)
	}

	return writeJSONL(filepath.Join(b.dataDir, fileName), records)
}

// persistTables persists several tables' JSONL files in order, stopping at
// the first failure.
func persistTables(b *Backend, tableNames ...string) error {
	for _, name := range tableNames {
		if err := persistTableJSONL(b, name); err != nil {
			return err
		}
	}
	return nil
}
