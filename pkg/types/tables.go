package types

// Standard table names for Store.GetTable.
const (
	TableForms      = "forms"
	TableFields     = "fields"
	TableProperties = "properties"
	TableResponses  = "responses"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	TableForms,
	TableFields,
	TableProperties,
	TableResponses,
}
