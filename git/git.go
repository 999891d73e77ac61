// Package git shells out to the git binary for the few facts the bump
// tool needs: whether a repository is present, the tag situation, the
// short commit hash and the branch name. The results are handed to the
// rendering layer as opaque strings; no git state is ever interpreted
// beyond that.
//
// Commands run in a configurable directory so tests can point the
// package at a scratch repository without changing the working directory.
package git

import (
	"os/exec"
	"strings"

	"github.com/valentin-kaiser/go-bump/apperror"
	"github.com/valentin-kaiser/go-bump/logging"
	"github.com/valentin-kaiser/go-bump/version"
)

var logger = logging.GetPackageLogger("git")

// Runner executes git commands in a fixed directory.
// The zero value runs them in the current working directory.
type Runner struct {
	// Dir is the directory the commands run in; empty means the
	// process working directory
	Dir string
}

// run executes git with the given arguments and returns trimmed stdout
func (r Runner) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir

	out, err := cmd.Output()
	if err != nil {
		detail := err.Error()
		if exit, ok := err.(*exec.ExitError); ok && len(exit.Stderr) > 0 {
			detail = strings.TrimSpace(string(exit.Stderr))
		}
		return "", apperror.NewKindf(apperror.KindGit, "git %s failed", strings.Join(args, " ")).
			AddDetail("output", detail)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepository reports whether the directory is inside a git work tree
func (r Runner) IsRepository() bool {
	_, err := r.run("rev-parse", "--git-dir")
	return err == nil
}

// Tag returns the tag pointing exactly at HEAD.
// It fails when HEAD is not tagged.
func (r Runner) Tag() (string, error) {
	return r.run("describe", "--exact-match", "--tags", "HEAD")
}

// LastTag returns the most recent reachable tag
func (r Runner) LastTag() (string, error) {
	return r.run("describe", "--tags", "--abbrev=0")
}

// ShortSHA returns the abbreviated hash of the current commit
func (r Runner) ShortSHA() (string, error) {
	return r.run("rev-parse", "--short", "HEAD")
}

// Branch returns the name of the current branch
func (r Runner) Branch() (string, error) {
	return r.run("rev-parse", "--abbrev-ref", "HEAD")
}

// Tags returns all tag names in the repository
func (r Runner) Tags() ([]string, error) {
	out, err := r.run("tag")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// Suffix assembles the development suffix for the given strategy:
// the short commit hash, the branch name, or branch_hash
func (r Runner) Suffix(dev version.Development) (string, error) {
	switch dev {
	case version.DevBranch:
		return r.Branch()
	case version.DevFull:
		branch, err := r.Branch()
		if err != nil {
			return "", err
		}
		sha, err := r.ShortSHA()
		if err != nil {
			return "", err
		}
		return branch + "_" + sha, nil
	default:
		return r.ShortSHA()
	}
}

// CreateTag creates an annotated tag with the given name. An empty
// message falls back to the conventional release message. Existing tags
// are never overwritten.
func (r Runner) CreateTag(name string, message string) error {
	if !r.IsRepository() {
		return apperror.NewKind(apperror.KindGit, "not in a git repository")
	}

	existing, err := r.run("tag", "-l", name)
	if err != nil {
		return err
	}
	if existing != "" {
		return apperror.NewKindf(apperror.KindGit, "tag %q already exists", name)
	}

	if message == "" {
		message = "chore(release): bump version to " + name
	}

	if _, err := r.run("tag", "-a", name, "-m", message); err != nil {
		return err
	}
	logger.Debug().Str("tag", name).Msg("created git tag")
	return nil
}
