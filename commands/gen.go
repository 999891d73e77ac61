package commands

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/valentin-kaiser/go-bump/codegen"
)

func newGen() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "gen --lang LANG OUTPUT...",
		Short: "Generate version constants as source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runGen(lang, args)
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Programming language for output files (c, go, java, csharp, python)")
	_ = cmd.MarkFlagRequired("lang")
	return cmd
}

func runGen(lang string, outputs []string) error {
	language, err := codegen.ParseLanguage(lang)
	if err != nil {
		return err
	}

	f, err := loadFile()
	if err != nil {
		return err
	}

	full, err := fullVersion(f)
	if err != nil {
		return err
	}
	timestamp, err := f.Timestamp(time.Now())
	if err != nil {
		return err
	}

	v := f.Version()
	info := codegen.Info{
		Major:     v.SemVer.Major,
		Minor:     v.SemVer.Minor,
		Patch:     v.SemVer.Patch,
		Candidate: v.SemVer.Candidate,
		Version:   full,
		Base:      v.Base(f.Render()),
		Timestamp: timestamp,
	}

	for _, output := range outputs {
		if err := codegen.WriteFile(language, info, output); err != nil {
			return err
		}
	}
	return nil
}
