package types

// Standard table names for Catalog.GetTable.
const (
	SamplesTable = "samples"
	SchemasTable = "schemas"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	SamplesTable,
	SchemasTable,
}

// Filter keys accepted by Table.Fetch.
const (
	FilterLabel = "label" // samples only; a kind label such as "array"
	FilterName  = "name"
	FilterLimit = "limit"
)
