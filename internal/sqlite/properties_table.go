// Properties table accessor. One accessor routes all four field property
// variants plus select choices, dispatching on the entity's Go type for Set
// and probing each table for Get and Delete.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fieldwright/formdef/pkg/types"
)

// Compile-time interface check: propertiesTable must implement Table.
var _ types.Table = (*propertiesTable)(nil)

type propertiesTable struct {
	backend *Backend
}

// Get retrieves a properties record or a choice by ID, probing each variant
// table in turn. Select properties hydrate with their choice sequence.
func (pt *propertiesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := pt.backend.conn()
	if err != nil {
		return nil, err
	}

	if p, err := getTextProperties(db, id); err == nil {
		return p, nil
	} else if err != types.ErrNotFound {
		return nil, err
	}
	if p, err := getBooleanProperties(db, id); err == nil {
		return p, nil
	} else if err != types.ErrNotFound {
		return nil, err
	}
	if p, err := getSelectProperties(db, id); err == nil {
		return p, nil
	} else if err != types.ErrNotFound {
		return nil, err
	}
	if p, err := getFileProperties(db, id); err == nil {
		return p, nil
	} else if err != types.ErrNotFound {
		return nil, err
	}
	return getChoice(db, id)
}

// Set persists a properties record or a choice, dispatching on the concrete
// type. When id is empty a UUID v7 is generated. Select properties persist
// their member choices as part of the aggregate.
func (pt *propertiesTable) Set(id string, data any) (string, error) {
	db, err := pt.backend.conn()
	if err != nil {
		return "", err
	}

	switch v := data.(type) {
	case *types.TextFieldProperties:
		if v.Format != "" && !types.IsValidTextFormat(v.Format) {
			return "", types.ErrInvalidData
		}
		v.PropertiesID = resolveID(id, v.PropertiesID)
		if v.Format == "" {
			v.Format = types.TextFormatText
		}
		var minLen, maxLen sql.NullInt64
		if v.MinLength != nil {
			minLen = sql.NullInt64{Int64: int64(*v.MinLength), Valid: true}
		}
		if v.MaxLength != nil {
			maxLen = sql.NullInt64{Int64: int64(*v.MaxLength), Valid: true}
		}
		var placeholder, defValue sql.NullString
		if v.Placeholder != "" {
			placeholder = sql.NullString{String: v.Placeholder, Valid: true}
		}
		if v.DefaultValue != nil {
			defValue = sql.NullString{String: *v.DefaultValue, Valid: true}
		}
		_, err := db.Exec(`
			INSERT INTO text_field_properties (properties_id, format, min_length, max_length, placeholder, default_value)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(properties_id) DO UPDATE SET
				format = excluded.format,
				min_length = excluded.min_length,
				max_length = excluded.max_length,
				placeholder = excluded.placeholder,
				default_value = excluded.default_value`,
			v.PropertiesID, v.Format, minLen, maxLen, placeholder, defValue)
		if err != nil {
			return "", fmt.Errorf("upserting text properties: %w", err)
		}
		if err := persistTableJSONL(pt.backend, "text_field_properties"); err != nil {
			return "", err
		}
		return v.PropertiesID, nil

	case *types.BooleanFieldProperties:
		v.PropertiesID = resolveID(id, v.PropertiesID)
		var defValue sql.NullInt64
		if v.DefaultValue != nil {
			defValue = sql.NullInt64{Int64: int64(boolToInt(*v.DefaultValue)), Valid: true}
		}
		_, err := db.Exec(`
			INSERT INTO boolean_field_properties (properties_id, default_value)
			VALUES (?, ?)
			ON CONFLICT(properties_id) DO UPDATE SET
				default_value = excluded.default_value`,
			v.PropertiesID, defValue)
		if err != nil {
			return "", fmt.Errorf("upserting boolean properties: %w", err)
		}
		if err := persistTableJSONL(pt.backend, "boolean_field_properties"); err != nil {
			return "", err
		}
		return v.PropertiesID, nil

	case *types.SelectFieldProperties:
		v.PropertiesID = resolveID(id, v.PropertiesID)
		var defChoice sql.NullString
		if v.DefaultChoiceID != nil {
			defChoice = sql.NullString{String: *v.DefaultChoiceID, Valid: true}
		}
		tx, err := db.Begin()
		if err != nil {
			return "", fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		_, err = tx.Exec(`
			INSERT INTO select_field_properties (properties_id, default_choice_id)
			VALUES (?, ?)
			ON CONFLICT(properties_id) DO UPDATE SET
				default_choice_id = excluded.default_choice_id`,
			v.PropertiesID, defChoice)
		if err != nil {
			return "", fmt.Errorf("upserting select properties: %w", err)
		}
		for ordinal, c := range v.Choices {
			if c.ChoiceID == "" {
				c.ChoiceID = newUUID()
			}
			c.PropertiesID = v.PropertiesID
			if err := upsertChoice(tx, c, ordinal); err != nil {
				return "", err
			}
		}
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("committing select properties: %w", err)
		}
		if err := persistTables(pt.backend, "select_field_properties", "select_field_choices"); err != nil {
			return "", err
		}
		return v.PropertiesID, nil

	case *types.FileFieldProperties:
		v.PropertiesID = resolveID(id, v.PropertiesID)
		var maxSize sql.NullInt64
		if v.MaxSizeBytes != nil {
			maxSize = sql.NullInt64{Int64: *v.MaxSizeBytes, Valid: true}
		}
		extensions, err := marshalStringList(v.ValidExtensions)
		if err != nil {
			return "", fmt.Errorf("marshaling extensions: %w", err)
		}
		mimeTypes, err := marshalStringList(v.ValidMimeTypes)
		if err != nil {
			return "", fmt.Errorf("marshaling MIME types: %w", err)
		}
		_, err = db.Exec(`
			INSERT INTO file_field_properties (properties_id, max_size_bytes, valid_extensions, valid_mime_types)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(properties_id) DO UPDATE SET
				max_size_bytes = excluded.max_size_bytes,
				valid_extensions = excluded.valid_extensions,
				valid_mime_types = excluded.valid_mime_types`,
			v.PropertiesID, maxSize, extensions, mimeTypes)
		if err != nil {
			return "", fmt.Errorf("upserting file properties: %w", err)
		}
		if err := persistTableJSONL(pt.backend, "file_field_properties"); err != nil {
			return "", err
		}
		return v.PropertiesID, nil

	case *types.SelectFieldChoice:
		if v.Label == "" {
			return "", types.ErrInvalidName
		}
		if v.PropertiesID == "" {
			return "", types.ErrInvalidData
		}
		v.ChoiceID = resolveID(id, v.ChoiceID)

		tx, err := db.Begin()
		if err != nil {
			return "", fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		// New choices append to the field's choice ordering.
		var ordinal int
		err = tx.QueryRow(
			"SELECT ordinal FROM select_field_choices WHERE choice_id = ?", v.ChoiceID).Scan(&ordinal)
		if err == sql.ErrNoRows {
			if err := tx.QueryRow(
				"SELECT COALESCE(MAX(ordinal) + 1, 0) FROM select_field_choices WHERE properties_id = ?",
				v.PropertiesID).Scan(&ordinal); err != nil {
				return "", fmt.Errorf("computing choice ordinal: %w", err)
			}
		} else if err != nil {
			return "", fmt.Errorf("checking choice ordinal: %w", err)
		}

		if err := upsertChoice(tx, v, ordinal); err != nil {
			return "", err
		}
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("committing choice: %w", err)
		}
		if err := persistTableJSONL(pt.backend, "select_field_choices"); err != nil {
			return "", err
		}
		return v.ChoiceID, nil

	default:
		return "", types.ErrInvalidData
	}
}

// Delete removes a properties record or a choice by ID, probing each table.
// Deleting select properties removes the choice sequence with it.
func (pt *propertiesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := pt.backend.conn()
	if err != nil {
		return err
	}

	for _, probe := range []struct {
		table   string
		persist []string
	}{
		{"text_field_properties", []string{"text_field_properties"}},
		{"boolean_field_properties", []string{"boolean_field_properties"}},
		{"file_field_properties", []string{"file_field_properties"}},
	} {
		var exists int
		err := db.QueryRow(
			fmt.Sprintf("SELECT 1 FROM %s WHERE properties_id = ?", probe.table), id).Scan(&exists)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return fmt.Errorf("checking %s: %w", probe.table, err)
		}
		if _, err := db.Exec(
			fmt.Sprintf("DELETE FROM %s WHERE properties_id = ?", probe.table), id); err != nil {
			return fmt.Errorf("deleting %s: %w", probe.table, err)
		}
		return persistTables(pt.backend, probe.persist...)
	}

	var exists int
	err = db.QueryRow(
		"SELECT 1 FROM select_field_properties WHERE properties_id = ?", id).Scan(&exists)
	if err == nil {
		if _, err := db.Exec(
			"DELETE FROM select_field_choices WHERE properties_id = ?", id); err != nil {
			return fmt.Errorf("deleting select choices: %w", err)
		}
		if _, err := db.Exec(
			"DELETE FROM select_field_properties WHERE properties_id = ?", id); err != nil {
			return fmt.Errorf("deleting select properties: %w", err)
		}
		return persistTables(pt.backend, "select_field_properties", "select_field_choices")
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking select properties: %w", err)
	}

	err = db.QueryRow(
		"SELECT 1 FROM select_field_choices WHERE choice_id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking choice: %w", err)
	}
	if _, err := db.Exec("DELETE FROM select_field_choices WHERE choice_id = ?", id); err != nil {
		return fmt.Errorf("deleting choice: %w", err)
	}
	return persistTableJSONL(pt.backend, "select_field_choices")
}

// Fetch returns properties records. With a "properties_id" filter it returns
// the choices for that select field in insertion order; otherwise it returns
// all properties records of every variant.
func (pt *propertiesTable) Fetch(filter map[string]any) ([]any, error) {
	db, err := pt.backend.conn()
	if err != nil {
		return nil, err
	}

	if v, ok := filter["properties_id"]; ok {
		propsID, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		return fetchChoices(db, propsID)
	}

	var results []any

	rows, err := db.Query(
		"SELECT properties_id, format, min_length, max_length, placeholder, default_value FROM text_field_properties ORDER BY properties_id")
	if err != nil {
		return nil, fmt.Errorf("fetching text properties: %w", err)
	}
	for rows.Next() {
		p, err := scanTextProperties(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		results = append(results, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.Query(
		"SELECT properties_id, default_value FROM boolean_field_properties ORDER BY properties_id")
	if err != nil {
		return nil, fmt.Errorf("fetching boolean properties: %w", err)
	}
	for rows.Next() {
		var p types.BooleanFieldProperties
		var defValue sql.NullInt64
		if err := rows.Scan(&p.PropertiesID, &defValue); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning boolean properties: %w", err)
		}
		if defValue.Valid {
			b := defValue.Int64 != 0
			p.DefaultValue = &b
		}
		results = append(results, &p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.Query(
		"SELECT properties_id, default_choice_id FROM select_field_properties ORDER BY properties_id")
	if err != nil {
		return nil, fmt.Errorf("fetching select properties: %w", err)
	}
	var selects []*types.SelectFieldProperties
	for rows.Next() {
		p, err := scanSelectProperties(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		selects = append(selects, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range selects {
		if err := loadChoices(db, p); err != nil {
			return nil, err
		}
		results = append(results, p)
	}

	rows, err = db.Query(
		"SELECT properties_id, max_size_bytes, valid_extensions, valid_mime_types FROM file_field_properties ORDER BY properties_id")
	if err != nil {
		return nil, fmt.Errorf("fetching file properties: %w", err)
	}
	for rows.Next() {
		p, err := scanFileProperties(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		results = append(results, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if results == nil {
		results = []any{}
	}
	return results, nil
}

// resolveID picks the explicit id when given, keeps an existing entity id,
// and otherwise generates a new UUID v7.
func resolveID(id, existing string) string {
	if id != "" {
		return id
	}
	if existing != "" {
		return existing
	}
	return newUUID()
}

// marshalStringList encodes a string slice as a JSON column value, or NULL
// for an empty list.
func marshalStringList(list []string) (any, error) {
	if len(list) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func unmarshalStringList(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw.String), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func getTextProperties(db *sql.DB, id string) (*types.TextFieldProperties, error) {
	rows, err := db.Query(
		"SELECT properties_id, format, min_length, max_length, placeholder, default_value FROM text_field_properties WHERE properties_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying text properties: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, types.ErrNotFound
	}
	return scanTextProperties(rows)
}

func scanTextProperties(rows *sql.Rows) (*types.TextFieldProperties, error) {
	var p types.TextFieldProperties
	var minLen, maxLen sql.NullInt64
	var placeholder, defValue sql.NullString
	if err := rows.Scan(&p.PropertiesID, &p.Format, &minLen, &maxLen, &placeholder, &defValue); err != nil {
		return nil, fmt.Errorf("scanning text properties: %w", err)
	}
	if minLen.Valid {
		n := int(minLen.Int64)
		p.MinLength = &n
	}
	if maxLen.Valid {
		n := int(maxLen.Int64)
		p.MaxLength = &n
	}
	if placeholder.Valid {
		p.Placeholder = placeholder.String
	}
	if defValue.Valid {
		s := defValue.String
		p.DefaultValue = &s
	}
	return &p, nil
}

func getBooleanProperties(db *sql.DB, id string) (*types.BooleanFieldProperties, error) {
	var p types.BooleanFieldProperties
	var defValue sql.NullInt64
	err := db.QueryRow(
		"SELECT properties_id, default_value FROM boolean_field_properties WHERE properties_id = ?", id).
		Scan(&p.PropertiesID, &defValue)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning boolean properties: %w", err)
	}
	if defValue.Valid {
		b := defValue.Int64 != 0
		p.DefaultValue = &b
	}
	return &p, nil
}

func getSelectProperties(db *sql.DB, id string) (*types.SelectFieldProperties, error) {
	rows, err := db.Query(
		"SELECT properties_id, default_choice_id FROM select_field_properties WHERE properties_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying select properties: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, types.ErrNotFound
	}
	p, err := scanSelectProperties(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()
	if err := loadChoices(db, p); err != nil {
		return nil, err
	}
	return p, nil
}

func scanSelectProperties(rows *sql.Rows) (*types.SelectFieldProperties, error) {
	var p types.SelectFieldProperties
	var defChoice sql.NullString
	if err := rows.Scan(&p.PropertiesID, &defChoice); err != nil {
		return nil, fmt.Errorf("scanning select properties: %w", err)
	}
	if defChoice.Valid {
		s := defChoice.String
		p.DefaultChoiceID = &s
	}
	return &p, nil
}

func getFileProperties(db *sql.DB, id string) (*types.FileFieldProperties, error) {
	rows, err := db.Query(
		"SELECT properties_id, max_size_bytes, valid_extensions, valid_mime_types FROM file_field_properties WHERE properties_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying file properties: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, types.ErrNotFound
	}
	return scanFileProperties(rows)
}

func scanFileProperties(rows *sql.Rows) (*types.FileFieldProperties, error) {
	var p types.FileFieldProperties
	var maxSize sql.NullInt64
	var extensions, mimeTypes sql.NullString
	if err := rows.Scan(&p.PropertiesID, &maxSize, &extensions, &mimeTypes); err != nil {
		return nil, fmt.Errorf("scanning file properties: %w", err)
	}
	if maxSize.Valid {
		n := maxSize.Int64
		p.MaxSizeBytes = &n
	}
	var err error
	if p.ValidExtensions, err = unmarshalStringList(extensions); err != nil {
		return nil, fmt.Errorf("parsing extensions: %w", err)
	}
	if p.ValidMimeTypes, err = unmarshalStringList(mimeTypes); err != nil {
		return nil, fmt.Errorf("parsing MIME types: %w", err)
	}
	return &p, nil
}

func getChoice(db *sql.DB, id string) (*types.SelectFieldChoice, error) {
	var c types.SelectFieldChoice
	var archived int
	err := db.QueryRow(
		"SELECT choice_id, properties_id, label, archived FROM select_field_choices WHERE choice_id = ?", id).
		Scan(&c.ChoiceID, &c.PropertiesID, &c.Label, &archived)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning choice: %w", err)
	}
	c.Archived = archived != 0
	return &c, nil
}

func upsertChoice(tx *sql.Tx, c *types.SelectFieldChoice, ordinal int) error {
	_, err := tx.Exec(`
		INSERT INTO select_field_choices (choice_id, properties_id, label, archived, ordinal)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(choice_id) DO UPDATE SET
			properties_id = excluded.properties_id,
			label = excluded.label,
			archived = excluded.archived,
			ordinal = excluded.ordinal`,
		c.ChoiceID, c.PropertiesID, c.Label, boolToInt(c.Archived), ordinal)
	if err != nil {
		return fmt.Errorf("upserting choice %s: %w", c.ChoiceID, err)
	}
	return nil
}

func loadChoices(db *sql.DB, p *types.SelectFieldProperties) error {
	rows, err := db.Query(
		"SELECT choice_id, properties_id, label, archived FROM select_field_choices WHERE properties_id = ? ORDER BY ordinal", p.PropertiesID)
	if err != nil {
		return fmt.Errorf("querying choices: %w", err)
	}
	defer rows.Close()

	p.Choices = nil
	for rows.Next() {
		var c types.SelectFieldChoice
		var archived int
		if err := rows.Scan(&c.ChoiceID, &c.PropertiesID, &c.Label, &archived); err != nil {
			return fmt.Errorf("scanning choice: %w", err)
		}
		c.Archived = archived != 0
		p.Choices = append(p.Choices, &c)
	}
	return rows.Err()
}

func fetchChoices(db *sql.DB, propertiesID string) ([]any, error) {
	p := &types.SelectFieldProperties{PropertiesID: propertiesID}
	if err := loadChoices(db, p); err != nil {
		return nil, err
	}
	results := make([]any, 0, len(p.Choices))
	for _, c := range p.Choices {
		results = append(results, c)
	}
	return results, nil
}
