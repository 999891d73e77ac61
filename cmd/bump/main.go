// Package main provides the bump binary entry point.
// The exit code encodes the error kind so scripts can tell failure
// classes apart without parsing messages.
package main

import (
	"fmt"
	"os"

	"github.com/valentin-kaiser/go-bump/apperror"
	"github.com/valentin-kaiser/go-bump/commands"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := commands.NewRoot().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bump error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps an error kind to a stable process exit code
func exitCode(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindIO:
		return 2
	case apperror.KindParse:
		return 3
	case apperror.KindSchema:
		return 4
	case apperror.KindInvalidState:
		return 5
	case apperror.KindUnsupportedScheme:
		return 6
	case apperror.KindNotACandidate:
		return 7
	case apperror.KindOverflow:
		return 8
	case apperror.KindGit:
		return 9
	case apperror.KindUsage:
		return 10
	default:
		return 1
	}
}
