package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for a store.
	DatabaseBackend string

	// Source identifies the surface that produced an assessment.
	Source string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All assessment sources.
const (
	CLISource   Source = "cli"
	BatchSource Source = "batch"
	MCPSource   Source = "mcp"
	HTTPSource  Source = "http"
)

// Defaults shared by the CLI and the servers.
const (
	DefaultPrecision  = 1
	DefaultWorkers    = 4
	DefaultModelFile  = "model.crm"
	DefaultListenAddr = ":8080"
	DefaultTrees      = 100
	DefaultSeed       = 42
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSources lists all valid assessment sources.
var ValidSources = map[Source]struct{}{
	CLISource:   {},
	BatchSource: {},
	MCPSource:   {},
	HTTPSource:  {},
}
