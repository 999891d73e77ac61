// Package commands wires the bump CLI together. Each command loads the
// bumpfile, runs a transition from the version package, and persists the
// resulting bytes; all version semantics live in the core packages.
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/valentin-kaiser/go-bump/apperror"
	"github.com/valentin-kaiser/go-bump/bumpfile"
	"github.com/valentin-kaiser/go-bump/flag"
	"github.com/valentin-kaiser/go-bump/git"
	"github.com/valentin-kaiser/go-bump/logging"
	"github.com/valentin-kaiser/go-bump/version"
)

var (
	bumpMajor     bool
	bumpMinor     bool
	bumpPatch     bool
	bumpCandidate bool
	bumpRelease   bool
	bumpCalendar  bool
	newPrefix     string

	printVersion   bool
	printBase      bool
	printTimestamp bool
)

// NewRoot builds the bump command tree
func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bump",
		Short:         "Automatic version bumping with sane defaults",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.Setup()
		},
		RunE: runRoot,
	}

	flag.Bind(cmd.PersistentFlags())
	bindOperationFlags(cmd.Flags())

	// any two of these together are ambiguous
	cmd.MarkFlagsMutuallyExclusive(
		"major", "minor", "patch", "candidate", "release", "calendar", "prefix",
		"print", "print-base", "print-with-timestamp",
	)

	cmd.AddCommand(newInit(), newGen(), newTag(), newUpdate())
	return cmd
}

func bindOperationFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&bumpMajor, "major", false, "Bump the major version")
	fs.BoolVar(&bumpMinor, "minor", false, "Bump the minor version")
	fs.BoolVar(&bumpPatch, "patch", false, "Bump the patch version")
	fs.BoolVar(&bumpCandidate, "candidate", false, "Promote to a candidate, or increment the active one")
	fs.BoolVar(&bumpRelease, "release", false, "Drop candidacy and promote to release")
	fs.BoolVar(&bumpCalendar, "calendar", false, "Update to the current date (CalVer only)")
	fs.StringVar(&newPrefix, "prefix", "", "Store a new prefix for version tags (e.g. 'v', 'release-', or empty)")

	fs.BoolVarP(&printVersion, "print", "p", false, "Print the version from the bumpfile, without a newline")
	fs.BoolVarP(&printBase, "print-base", "b", false, "Print the base version (no candidate suffix), without a newline")
	fs.BoolVar(&printTimestamp, "print-with-timestamp", false, "Print the version with its timestamp, without a newline")
}

func runRoot(cmd *cobra.Command, _ []string) error {
	switch {
	case printVersion, printBase, printTimestamp:
		return runPrint()
	case bumpMajor, bumpMinor, bumpPatch, bumpCandidate, bumpRelease, bumpCalendar,
		cmd.Flags().Changed("prefix"):
		return runBump(cmd)
	default:
		return cmd.Help()
	}
}

func runPrint() error {
	f, err := loadFile()
	if err != nil {
		return err
	}

	v := f.Version()
	render := f.Render()

	switch {
	case printBase:
		fmt.Print(v.Base(render))
	case printTimestamp:
		ts, err := f.Timestamp(time.Now())
		if err != nil {
			return err
		}
		if ts != "" {
			fmt.Printf("%s (built on %s)", v.String(render), ts)
			return nil
		}
		fmt.Print(v.String(render))
	default:
		fmt.Print(v.String(render))
	}
	return nil
}

func runBump(cmd *cobra.Command) error {
	f, err := loadFile()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("prefix") {
		if err := f.SetPrefix(newPrefix); err != nil {
			return err
		}
		if err := saveFile(f); err != nil {
			return err
		}
		fmt.Printf("Updated prefix of '%s' to '%s'\n", flag.File, newPrefix)
		return nil
	}

	var next version.Version
	switch {
	case bumpMajor:
		next, err = version.BumpMajor(f.Version())
	case bumpMinor:
		next, err = version.BumpMinor(f.Version())
	case bumpPatch:
		next, err = version.BumpPatch(f.Version())
	case bumpCandidate:
		next, err = version.Promote(f.Version(), f.Promotion())
	case bumpRelease:
		next, err = version.Release(f.Version())
	default:
		next, err = version.BumpCalendar(f.Version(), f.Format(), f.Resolution(), time.Now())
	}
	if err != nil {
		return err
	}

	if err := f.SetVersion(next); err != nil {
		return err
	}
	if err := saveFile(f); err != nil {
		return err
	}

	rendered := next.String(f.Render())
	switch {
	case bumpCandidate:
		fmt.Printf("Bumped '%s' to new candidate %s\n", flag.File, rendered)
	case bumpRelease:
		fmt.Printf("Bumped '%s' drop candidacy to release! %s\n", flag.File, rendered)
	case bumpCalendar:
		fmt.Printf("Bumped '%s' to calendar version %s\n", flag.File, rendered)
	default:
		fmt.Printf("Bumped '%s' to point release %s\n", flag.File, rendered)
	}
	return nil
}

// loadFile reads and parses the bumpfile named by the --file flag
func loadFile() (*bumpfile.File, error) {
	data, err := os.ReadFile(flag.File)
	if err != nil {
		return nil, apperror.WrapKind(apperror.KindIO, err, "reading bumpfile failed").
			AddDetail("path", flag.File)
	}
	return bumpfile.Load(data)
}

// saveFile persists the serialized bumpfile back to disk
func saveFile(f *bumpfile.File) error {
	if err := os.WriteFile(flag.File, f.Bytes(), 0644); err != nil {
		return apperror.WrapKind(apperror.KindIO, err, "writing bumpfile failed").
			AddDetail("path", flag.File)
	}
	return nil
}

// fullVersion renders the version with git context: the plain string when
// HEAD is tagged or no repository is present, otherwise with the
// configured development suffix appended
func fullVersion(f *bumpfile.File) (string, error) {
	v := f.Version()
	render := f.Render()

	r := git.Runner{}
	if v.Scheme == version.SchemeCalVer || !r.IsRepository() {
		return v.String(render), nil
	}
	if _, err := r.Tag(); err == nil {
		return v.String(render), nil
	}

	dev, err := r.Suffix(f.Development())
	if err != nil {
		return "", err
	}
	return v.Full(render, dev), nil
}
