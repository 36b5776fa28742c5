// Package sqlite implements the SQLite storage backend for formdef.
// SQLite is the query engine; JSONL files in the data directory are the
// durable source of truth, loaded on Attach and rewritten after every
// mutation.
package sqlite

// Schema DDL for all tables. The database file is recreated on every Attach
// and repopulated from JSONL, so no migrations are needed.
const (
	createForms = `CREATE TABLE forms (
    form_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    archived INTEGER NOT NULL DEFAULT 0
);`

	createFields = `CREATE TABLE fields (
    field_id TEXT PRIMARY KEY,
    form_id TEXT NOT NULL,
    properties_id TEXT,
    name TEXT NOT NULL,
    label TEXT,
    description TEXT,
    field_type TEXT NOT NULL,
    archived INTEGER NOT NULL DEFAULT 0,
    linked_field_id TEXT,
    has_value INTEGER,
    match_value_str TEXT,
    match_value_int INTEGER,
    match_value_bool INTEGER,
    ordinal INTEGER NOT NULL,
    FOREIGN KEY (form_id) REFERENCES forms(form_id)
);`

	createTextFieldProperties = `CREATE TABLE text_field_properties (
    properties_id TEXT PRIMARY KEY,
    format TEXT NOT NULL,
    min_length INTEGER,
    max_length INTEGER,
    placeholder TEXT,
    default_value TEXT
);`

	createBooleanFieldProperties = `CREATE TABLE boolean_field_properties (
    properties_id TEXT PRIMARY KEY,
    default_value INTEGER
);`

	createSelectFieldProperties = `CREATE TABLE select_field_properties (
    properties_id TEXT PRIMARY KEY,
    default_choice_id TEXT
);`

	createSelectFieldChoices = `CREATE TABLE select_field_choices (
    choice_id TEXT PRIMARY KEY,
    properties_id TEXT NOT NULL,
    label TEXT NOT NULL,
    archived INTEGER NOT NULL DEFAULT 0,
    ordinal INTEGER NOT NULL,
    FOREIGN KEY (properties_id) REFERENCES select_field_properties(properties_id)
);`

	createFileFieldProperties = `CREATE TABLE file_field_properties (
    properties_id TEXT PRIMARY KEY,
    max_size_bytes INTEGER,
    valid_extensions TEXT,
    valid_mime_types TEXT
);`

	createFormResponses = `CREATE TABLE form_responses (
    response_id TEXT PRIMARY KEY,
    form_id TEXT NOT NULL,
    submitted_at TEXT NOT NULL,
    FOREIGN KEY (form_id) REFERENCES forms(form_id)
);`

	createFieldResponses = `CREATE TABLE field_responses (
    field_response_id TEXT PRIMARY KEY,
    response_id TEXT NOT NULL,
    field_id TEXT NOT NULL,
    value_type TEXT NOT NULL,
    value TEXT NOT NULL,
    FOREIGN KEY (response_id) REFERENCES form_responses(response_id)
);`
)

// schemaStatements lists the DDL in dependency order.
var schemaStatements = []string{
	createForms,
	createFields,
	createTextFieldProperties,
	createBooleanFieldProperties,
	createSelectFieldProperties,
	createSelectFieldChoices,
	createFileFieldProperties,
	createFormResponses,
	createFieldResponses,
}
