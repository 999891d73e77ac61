package git_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/valentin-kaiser/go-bump/apperror"
	"github.com/valentin-kaiser/go-bump/git"
	"github.com/valentin-kaiser/go-bump/version"
)

// scratchRepo initializes a throwaway repository with a single commit
// and returns a runner pointed at it
func scratchRepo(t *testing.T) git.Runner {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@localhost",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@localhost",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}

	run("init", "-b", "main")
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("scratch\n"), 0644); err != nil {
		t.Fatal(err)
	}
	run("add", "README")
	run("commit", "-m", "initial")

	return git.Runner{Dir: dir}
}

func TestIsRepository(t *testing.T) {
	r := scratchRepo(t)
	if !r.IsRepository() {
		t.Error("scratch repository not recognized")
	}

	outside := git.Runner{Dir: t.TempDir()}
	if outside.IsRepository() {
		t.Error("empty directory reported as repository")
	}
}

func TestTagging(t *testing.T) {
	r := scratchRepo(t)

	if _, err := r.Tag(); !apperror.IsKind(err, apperror.KindGit) {
		t.Errorf("untagged HEAD: kind = %v, want git", apperror.KindOf(err))
	}

	if err := r.CreateTag("v1.0.0", ""); err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}

	tag, err := r.Tag()
	if err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if tag != "v1.0.0" {
		t.Errorf("Tag() = %q, want v1.0.0", tag)
	}

	last, err := r.LastTag()
	if err != nil {
		t.Fatalf("LastTag failed: %v", err)
	}
	if last != "v1.0.0" {
		t.Errorf("LastTag() = %q, want v1.0.0", last)
	}

	tags, err := r.Tags()
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	if len(tags) != 1 || tags[0] != "v1.0.0" {
		t.Errorf("Tags() = %v, want [v1.0.0]", tags)
	}

	// duplicates are refused
	if err := r.CreateTag("v1.0.0", "again"); !apperror.IsKind(err, apperror.KindGit) {
		t.Errorf("duplicate tag: kind = %v, want git", apperror.KindOf(err))
	}
}

func TestSuffix(t *testing.T) {
	r := scratchRepo(t)

	sha, err := r.ShortSHA()
	if err != nil {
		t.Fatalf("ShortSHA failed: %v", err)
	}
	if sha == "" {
		t.Fatal("ShortSHA returned empty hash")
	}

	branch, err := r.Branch()
	if err != nil {
		t.Fatalf("Branch failed: %v", err)
	}
	if branch != "main" {
		t.Errorf("Branch() = %q, want main", branch)
	}

	tests := []struct {
		dev  version.Development
		want string
	}{
		{version.DevGitSHA, sha},
		{version.DevBranch, "main"},
		{version.DevFull, "main_" + sha},
	}
	for _, tt := range tests {
		got, err := r.Suffix(tt.dev)
		if err != nil {
			t.Errorf("Suffix(%v) failed: %v", tt.dev, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Suffix(%v) = %q, want %q", tt.dev, got, tt.want)
		}
	}
}

func TestRunOutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	r := git.Runner{Dir: t.TempDir()}
	_, err := r.ShortSHA()
	if !apperror.IsKind(err, apperror.KindGit) {
		t.Errorf("kind = %v, want git", apperror.KindOf(err))
	}
}
