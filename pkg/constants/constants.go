// Package constants provides shared constants for the payment-plans application.
package constants

// DateLayout is the format expected for contract dates in config files.
const DateLayout = "2006-01-02"

// DueDateLayout is the format used when printing installment due dates.
const DueDateLayout = "02 Jan 2006"

// Schedule constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// QuartersPerYear is the number of quarterly installments in a year
	QuartersPerYear = 4

	// MonthsPerQuarter is the spacing between quarterly installments
	MonthsPerQuarter = 3

	// DefaultStartMonth is the month offset of the first quarterly installment
	DefaultStartMonth = 3

	// DefaultStartIndex is the ordinal of the first generated installment
	DefaultStartIndex = 1

	// PercentagePlaces is the number of decimal places kept on schedule percentages
	PercentagePlaces = 3

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100
)

// Currency constants
const (
	// CurrencyCode prefixes every formatted amount
	CurrencyCode = "EGP"
)

// Output format constants
const (
	// OutputFormatPretty renders one card per plan
	OutputFormatPretty = "pretty"

	// OutputFormatComparison renders the side-by-side comparison table
	OutputFormatComparison = "comparison"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the raw plan list as JSON
	OutputFormatJSON = "json"

	// OutputFormatPDF writes the printable quote
	OutputFormatPDF = "pdf"
)

// OutputFormats lists every supported output format.
var OutputFormats = []string{
	OutputFormatPretty,
	OutputFormatComparison,
	OutputFormatCSV,
	OutputFormatJSON,
	OutputFormatPDF,
}

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "unit.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix namespaces environment overrides of the unit configuration
	EnvPrefix = "PAYMENT_PLANS"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes caps JSON request bodies (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultCacheTTL is how long computed plan sets stay cached
	DefaultCacheTTL = "10m"

	// DefaultCacheMaxEntries caps the in-process plan cache
	DefaultCacheMaxEntries = 10000

	// CacheKeyPrefix namespaces cached plan sets
	CacheKeyPrefix = "payment-plans:price:"
)

// Quote branding defaults
const (
	DefaultCompany = "PLDG DEVELOPMENT"
	DefaultProject = "ETLALA"
	DefaultTagline = "THE PROMISE LIVES HERE"
	DefaultFooter1 = "All rights reserved for Bassem Salama"
	DefaultFooter2 = "01116850111"

	// QuoteFilePrefix starts every exported quote file name
	QuoteFilePrefix = "PLDG_Quote_"

	// QuoteRefPrefix starts every quote document reference
	QuoteRefPrefix = "QUOTE-"
)
