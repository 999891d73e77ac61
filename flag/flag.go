// Package flag holds the shared command-line globals of the bump tool.
//
// Packages read process-wide settings from here instead of having them
// threaded through every call: apperror consults Debug to decide whether
// to render stack traces, logging uses it to pick the log level, and the
// commands resolve the bumpfile path from File.
//
// The flags themselves are registered on a pflag.FlagSet via Bind, so the
// cobra root command owns parsing while this package owns the values.
package flag

import (
	"github.com/spf13/pflag"
)

var (
	// Debug enables debug mode: stack traces on errors and debug-level logs
	Debug bool
	// File is the path to the bumpfile the current invocation operates on
	File string
)

// DefaultFile is the bumpfile path used when --file is not given
const DefaultFile = "bump.toml"

// Bind registers the global flags on the given flag set.
// It should be called once with the root command's persistent flags.
func Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&File, "file", "f", DefaultFile, "Path to the bumpfile to read the version from")
	fs.BoolVar(&Debug, "debug", false, "Enables debug mode")
}

// Reset restores the globals to their defaults. Intended for tests.
func Reset() {
	Debug = false
	File = DefaultFile
}
