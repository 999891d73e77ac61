package commands

import (
	"github.com/spf13/cobra"
	"github.com/valentin-kaiser/go-bump/update"
)

func newUpdate() *cobra.Command {
	return &cobra.Command{
		Use:   "update PATH",
		Short: "Update the version in known file types (e.g. Cargo.toml)",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runUpdate(args[0])
		},
	}
}

func runUpdate(path string) error {
	f, err := loadFile()
	if err != nil {
		return err
	}

	return update.Apply(path, f.Version().Base(f.Render()))
}
