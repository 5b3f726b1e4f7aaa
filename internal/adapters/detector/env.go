// Package detector inspects the process environment to pick output and
// notification behaviour.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the log format of the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModePretty forces styled human readable logs.
	ModePretty
	// ModeJSON forces one JSON record per log line.
	ModeJSON
)

// Environment describes the terminal the process runs in.
type Environment struct {
	// TTY is true when stderr is a terminal.
	TTY bool
	// CI is true when a CI environment variable is set.
	CI bool
}

// Interactive reports whether a person is likely watching the output, which
// is when desktop notifications make sense.
func (e Environment) Interactive() bool {
	return e.TTY && !e.CI
}

// DetectEnvironment checks whether stderr is a TTY and whether CI
// environment variables are set.
func DetectEnvironment() Environment {
	ci := os.Getenv("CI")
	return Environment{
		TTY: term.IsTerminal(int(os.Stderr.Fd())),
		CI:  ci == "true" || ci == "1",
	}
}

// ResolveMode applies the user override flag to auto-detection.
// userFlag should be one of: "auto", "pretty", "json", or empty.
// Auto selects JSON in CI without a terminal and pretty output otherwise.
func ResolveMode(env Environment, userFlag string) OutputMode {
	switch userFlag {
	case "pretty":
		return ModePretty
	case "json":
		return ModeJSON
	case "auto", "":
		if env.CI && !env.TTY {
			return ModeJSON
		}
		return ModePretty
	default:
		return ModePretty
	}
}
