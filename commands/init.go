package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/valentin-kaiser/go-bump/apperror"
	"github.com/valentin-kaiser/go-bump/bumpfile"
	"github.com/valentin-kaiser/go-bump/flag"
	"github.com/valentin-kaiser/go-bump/git"
	"github.com/valentin-kaiser/go-bump/logging"
	"github.com/valentin-kaiser/go-bump/version"
)

var logger = logging.GetPackageLogger("commands")

func newInit() *cobra.Command {
	var (
		prefix string
		calver bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new version file with default values",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(prefix, calver)
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "v", "Prefix for version tags (e.g. 'v', 'release-', or empty string)")
	cmd.Flags().BoolVar(&calver, "calver", false, "Initialize with Calendar Versioning instead of Semantic Versioning")
	return cmd
}

func runInit(prefix string, calver bool) error {
	if dir := filepath.Dir(flag.File); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return apperror.WrapKind(apperror.KindIO, err, "creating bumpfile directory failed")
		}
	}

	scheme := version.SchemeSemVer
	if calver {
		scheme = version.SchemeCalVer
	}

	f, err := bumpfile.Init(scheme, prefix, time.Now())
	if err != nil {
		return err
	}

	// SemVer projects usually already have tags; seed the file from the
	// latest one when a repository is present
	if !calver {
		if tag, ok := detectTag(); ok {
			if err := f.SetVersion(tag); err != nil {
				return err
			}
		}
	}

	if err := saveFile(f); err != nil {
		return err
	}

	switch scheme {
	case version.SchemeCalVer:
		fmt.Printf("Initialized new CalVer version file at '%s'\n", flag.File)
	default:
		fmt.Printf("Initialized new SemVer version file at '%s'\n", flag.File)
	}
	return nil
}

// detectTag parses the most recent reachable git tag as a semver value
func detectTag() (version.Version, bool) {
	r := git.Runner{}
	if !r.IsRepository() {
		return version.Version{}, false
	}

	tag, err := r.LastTag()
	if err != nil {
		return version.Version{}, false
	}

	v, _, err := version.FromString(tag)
	if err != nil {
		logger.Warn().Err(err).Str("tag", tag).Msg("ignoring unparsable git tag")
		return version.Version{}, false
	}

	fmt.Printf("Found git tag: %s\n", tag)
	return v, true
}
