package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valentin-kaiser/go-bump/git"
)

func newTag() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Create a conventional git tag from the current bumpfile version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTag(message)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Custom tag message (defaults to conventional commit format)")
	return cmd
}

func runTag(message string) error {
	f, err := loadFile()
	if err != nil {
		return err
	}

	name := f.Version().String(f.Render())
	if err := (git.Runner{}).CreateTag(name, message); err != nil {
		return err
	}

	fmt.Printf("Created git tag: %s\n", name)
	return nil
}
