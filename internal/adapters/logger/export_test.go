package logger

// Exported for the black-box tests in logger_test.
var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)
