// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion, including no-op operations
	// on unknown task ids.
	Success = 0

	// UserError indicates a rejected title.
	UserError = 1

	// Usage indicates bad arguments or flags.
	Usage = 2

	// ConfigError indicates invalid configuration or storage that could not be opened.
	ConfigError = 3
)
