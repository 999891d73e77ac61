package bumpfile_test

import (
	"strings"
	"testing"
	"time"

	"github.com/valentin-kaiser/go-bump/apperror"
	"github.com/valentin-kaiser/go-bump/bumpfile"
	"github.com/valentin-kaiser/go-bump/version"
)

const semverFixture = `# project version, managed by bump
[semver]
prefix = "v"
timestamp = "%Y-%m-%d"

# NOTE: This section is modified by the bump command
[semver.version]
major = 1
minor = 0
patch = 0
candidate = 0

[semver.candidate]
promotion = "minor"  # ["minor", "major", "patch"]
delimiter = "-rc"

[semver.development]
promotion = "git_sha"
delimiter = "+"
`

const calverFixture = `[calver.format]
prefix = ""
delimiter = "."
year = "%Y"
month = "%m"
day = "%d"

[calver.version]
year = "2026"
month = "02"
day = "25"

[calver.conflict]
resolution = "suffix"  # overwrite | suffix
revision = 0
delimiter = "-"
`

func TestLoadSemVer(t *testing.T) {
	f, err := bumpfile.Load([]byte(semverFixture))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if f.Scheme() != version.SchemeSemVer {
		t.Errorf("Scheme() = %v, want semver", f.Scheme())
	}

	sv, err := f.SemVer()
	if err != nil {
		t.Fatalf("SemVer() failed: %v", err)
	}
	if sv != (version.SemVer{Major: 1}) {
		t.Errorf("SemVer() = %+v, want 1.0.0", sv)
	}

	if _, err := f.CalVer(); !apperror.IsKind(err, apperror.KindSchema) {
		t.Errorf("CalVer() on semver file: kind = %v, want schema", apperror.KindOf(err))
	}

	if f.Promotion() != version.PromoteMinor {
		t.Errorf("Promotion() = %v, want minor", f.Promotion())
	}
	if f.Development() != version.DevGitSHA {
		t.Errorf("Development() = %v, want git_sha", f.Development())
	}

	render := f.Render()
	if got := f.Version().String(render); got != "v1.0.0" {
		t.Errorf("rendered version = %q, want v1.0.0", got)
	}
}

func TestLoadCalVer(t *testing.T) {
	f, err := bumpfile.Load([]byte(calverFixture))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cv, err := f.CalVer()
	if err != nil {
		t.Fatalf("CalVer() failed: %v", err)
	}
	if cv != (version.CalVer{Year: "2026", Month: "02", Day: "25"}) {
		t.Errorf("CalVer() = %+v", cv)
	}

	if f.Resolution() != version.ResolutionSuffix {
		t.Errorf("Resolution() = %v, want suffix", f.Resolution())
	}
	if f.Format() != (version.Format{Year: "%Y", Month: "%m", Day: "%d"}) {
		t.Errorf("Format() = %+v", f.Format())
	}

	if got := f.Version().String(f.Render()); got != "2026.02.25" {
		t.Errorf("rendered version = %q, want 2026.02.25", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind apperror.Kind
	}{
		{"malformed toml", "[semver\nprefix=", apperror.KindParse},
		{"neither scheme", "[other]\nkey = 1\n", apperror.KindSchema},
		{"both schemes", semverFixture + "\n[calver]\n", apperror.KindSchema},
		{"missing patch", strings.Replace(semverFixture, "patch = 0\n", "", 1), apperror.KindSchema},
		{"missing candidate section", strings.Replace(semverFixture, "[semver.candidate]", "[semver.candidates]", 1), apperror.KindSchema},
		{"mistyped major", strings.Replace(semverFixture, "major = 1", `major = "one"`, 1), apperror.KindSchema},
		{"calver missing year", strings.Replace(calverFixture, "year = \"2026\"\n", "", 1), apperror.KindSchema},
		{"calver day without month pattern", strings.Replace(calverFixture, "month = \"%m\"\n", "", 1), apperror.KindSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bumpfile.Load([]byte(tt.data))
			if err == nil {
				t.Fatal("Load should fail")
			}
			if !apperror.IsKind(err, tt.kind) {
				t.Errorf("kind = %v, want %v (err: %v)", apperror.KindOf(err), tt.kind, err)
			}
		})
	}
}

func TestParseErrorCarriesLocation(t *testing.T) {
	_, err := bumpfile.Load([]byte("[semver]\nprefix = \"v\"\nbroken ="))
	if err == nil {
		t.Fatal("Load should fail")
	}

	aerr, ok := err.(apperror.Error)
	if !ok {
		t.Fatalf("error type %T, want apperror.Error", err)
	}
	if aerr.GetDetail("line") == nil {
		t.Error("parse error should carry a line detail")
	}
}

func TestUnmutatedSerializeIsIdentity(t *testing.T) {
	for _, fixture := range []string{semverFixture, calverFixture} {
		f, err := bumpfile.Load([]byte(fixture))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got := string(f.Bytes()); got != fixture {
			t.Errorf("serialize mismatch\n got: %q\nwant: %q", got, fixture)
		}
	}
}

func TestSetVersionDiffUpdates(t *testing.T) {
	f, err := bumpfile.Load([]byte(semverFixture))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	next, err := version.BumpMinor(f.Version())
	if err != nil {
		t.Fatalf("BumpMinor failed: %v", err)
	}
	if err := f.SetVersion(next); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	got := string(f.Bytes())
	want := strings.Replace(semverFixture, "minor = 0", "minor = 1", 1)
	if got != want {
		t.Errorf("only the minor token should change\n got: %q\nwant: %q", got, want)
	}

	if f.Version().SemVer.Minor != 1 {
		t.Errorf("Version() not updated after SetVersion: %+v", f.Version().SemVer)
	}
}

func TestSetVersionCalVer(t *testing.T) {
	f, err := bumpfile.Load([]byte(calverFixture))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	now := time.Date(2026, time.February, 25, 8, 0, 0, 0, time.UTC)
	next, err := version.BumpCalendar(f.Version(), f.Format(), f.Resolution(), now)
	if err != nil {
		t.Fatalf("BumpCalendar failed: %v", err)
	}
	if err := f.SetVersion(next); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	// same date: only the revision token changes
	got := string(f.Bytes())
	want := strings.Replace(calverFixture, "revision = 0", "revision = 1", 1)
	if got != want {
		t.Errorf("only the revision token should change\n got: %q\nwant: %q", got, want)
	}
}

func TestSetVersionSchemeMismatch(t *testing.T) {
	f, err := bumpfile.Load([]byte(semverFixture))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	err = f.SetVersion(version.Version{
		Scheme: version.SchemeCalVer,
		CalVer: version.CalVer{Year: "2026"},
	})
	if !apperror.IsKind(err, apperror.KindInvalidState) {
		t.Errorf("kind = %v, want invalid-state", apperror.KindOf(err))
	}
}

func TestSetPrefix(t *testing.T) {
	f, err := bumpfile.Load([]byte(semverFixture))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := f.SetPrefix("release-"); err != nil {
		t.Fatalf("SetPrefix failed: %v", err)
	}
	if !strings.Contains(string(f.Bytes()), `prefix = "release-"`) {
		t.Error("prefix token not updated")
	}
	if f.Render().Prefix != "release-" {
		t.Errorf("Render().Prefix = %q", f.Render().Prefix)
	}

	c, err := bumpfile.Load([]byte(calverFixture))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := c.SetPrefix("v"); !apperror.IsKind(err, apperror.KindUnsupportedScheme) {
		t.Errorf("kind = %v, want unsupported-scheme", apperror.KindOf(err))
	}
}

func TestTimestamp(t *testing.T) {
	f, err := bumpfile.Load([]byte(semverFixture))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	now := time.Date(2026, time.February, 25, 8, 0, 0, 0, time.UTC)
	ts, err := f.Timestamp(now)
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if ts != "2026-02-25" {
		t.Errorf("Timestamp = %q, want 2026-02-25", ts)
	}

	bare, err := bumpfile.Load([]byte(strings.Replace(semverFixture, "timestamp = \"%Y-%m-%d\"\n", "", 1)))
	if err != nil {
		t.Fatalf("Load without timestamp failed: %v", err)
	}
	if ts, err := bare.Timestamp(now); err != nil || ts != "" {
		t.Errorf("Timestamp without pattern = %q, %v", ts, err)
	}
}

func TestInitSemVer(t *testing.T) {
	f, err := bumpfile.Init(version.SchemeSemVer, "v", time.Now())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if got := f.Version().String(f.Render()); got != "v0.1.0" {
		t.Errorf("fresh semver = %q, want v0.1.0", got)
	}

	content := string(f.Bytes())
	for _, fragment := range []string{
		"[semver.version]",
		"[semver.candidate]",
		"[semver.development]",
		"NOTE: This section is modified by the bump command",
	} {
		if !strings.Contains(content, fragment) {
			t.Errorf("fresh file misses %q", fragment)
		}
	}

	// a fresh file must load back cleanly
	if _, err := bumpfile.Load(f.Bytes()); err != nil {
		t.Errorf("reloading fresh file failed: %v", err)
	}
}

func TestInitCalVer(t *testing.T) {
	now := time.Date(2026, time.February, 25, 8, 0, 0, 0, time.UTC)
	f, err := bumpfile.Init(version.SchemeCalVer, "", now)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if got := f.Version().String(f.Render()); got != "2026.02.25" {
		t.Errorf("fresh calver = %q, want 2026.02.25", got)
	}

	reloaded, err := bumpfile.Load(f.Bytes())
	if err != nil {
		t.Fatalf("reloading fresh file failed: %v", err)
	}
	if cv, _ := reloaded.CalVer(); cv.Revision != 0 {
		t.Errorf("fresh calver revision = %d, want 0", cv.Revision)
	}
}
