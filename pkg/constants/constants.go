// Package constants provides shared constants for the site-payouts application.
package constants

// Allocation defaults
const (
	// DefaultSalvagerPercent is the share of a site's value reserved for
	// salvagers when the config does not specify one.
	DefaultSalvagerPercent = 10.0

	// DefaultCurrency is the currency label attached to new tenant configs.
	DefaultCurrency = "ISK"

	// DefaultLevelCount is the number of levels seeded into a new tenant config.
	DefaultLevelCount = 10

	// DefaultLevelStep is the value of level 1; level n is worth n times this.
	DefaultLevelStep = 100000.0

	// DefaultMaxLevelValue is the ceiling above which a level value is
	// treated as zero.
	DefaultMaxLevelValue = 1e15

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Comparison constants
const (
	// DecimalPrecision is the number of decimal places used when presenting amounts
	DecimalPrecision = 2

	// ConservationTolerance is the relative tolerance used when checking that
	// a site's payments add back up to its value.
	ConservationTolerance = 1e-9
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultDataFile is the default tenant data file read by the CLI
	DefaultDataFile = "data.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides of configuration keys
	EnvPrefix = "PAYOUTS"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultMaxMembers caps the roster size accepted from a caller
	DefaultMaxMembers = 500

	// DefaultMaxSites caps the number of sites accepted from a caller
	DefaultMaxSites = 5000

	// TenantHeader carries the caller's tenant id
	TenantHeader = "X-Tenant-ID"

	// TenantCookie carries the caller's tenant id when the header is absent
	TenantCookie = "tenant_id"
)

// Store defaults
const (
	// StoreMemory keeps tenant data in process memory
	StoreMemory = "memory"

	// StoreSQLite keeps tenant data in a SQLite database file
	StoreSQLite = "sqlite"

	// StorePostgres keeps tenant data in PostgreSQL
	StorePostgres = "postgres"

	// StoreRedis keeps tenant data in Redis
	StoreRedis = "redis"

	// DefaultSQLiteDSN is the database file used when none is configured
	DefaultSQLiteDSN = "payouts.db"

	// RedisKeyPrefix namespaces tenant keys in Redis
	RedisKeyPrefix = "payouts:tenant:"
)
