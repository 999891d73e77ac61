// Package bumpfile loads, edits and serializes the bumpfile: the TOML
// document that holds the authoritative version of a project.
//
// The package keeps two views of the same bytes. A typed view (decoded
// with BurntSushi/toml) validates the schema of the declared scheme and
// yields the version value and its policies. A span view (Document)
// remembers where each owned value token sits in the original text, so
// writing a new version back changes exactly those tokens and nothing
// else: comments, key order, unknown keys and whitespace survive every
// rewrite byte for byte.
//
// The package does no file I/O. Callers hand it bytes and persist the
// bytes it returns, which keeps serialization all-or-nothing: either a
// complete valid buffer is produced or the caller's file stays untouched.
//
// Usage:
//
//	f, err := bumpfile.Load(data)
//	next, err := version.BumpMinor(f.Version())
//	err = f.SetVersion(next)
//	os.WriteFile(path, f.Bytes(), 0644)
package bumpfile

import (
	"fmt"
	"time"

	"github.com/valentin-kaiser/go-bump/apperror"
	"github.com/valentin-kaiser/go-bump/logging"
	"github.com/valentin-kaiser/go-bump/ptr"
	"github.com/valentin-kaiser/go-bump/version"
)

var logger = logging.GetPackageLogger("bumpfile")

// File is a loaded bumpfile: the current version value, the configured
// policies, and the comment-preserving document they came from.
type File struct {
	doc     *Document
	scheme  version.Scheme
	current version.Version

	semver *semverConfig
	calver *calverConfig
}

// semverConfig is the resolved semver policy configuration
type semverConfig struct {
	prefix               string
	timestamp            string
	promotion            version.Promotion
	candidateDelimiter   string
	development          version.Development
	developmentDelimiter string
}

// calverConfig is the resolved calver policy configuration
type calverConfig struct {
	prefix            string
	delimiter         string
	format            version.Format
	resolution        version.Resolution
	conflictDelimiter string
}

// Load parses bumpfile bytes. It fails with a parse error on malformed
// TOML and with a schema error when required keys for the declared scheme
// are missing or mistyped. Invalid policy spellings fall back to their
// defaults with a warning, matching the tool's forgiving posture towards
// hand-edited files.
func Load(data []byte) (*File, error) {
	sem, cal, err := decode(data)
	if err != nil {
		return nil, err
	}

	f := &File{doc: ParseDocument(data)}

	if sem != nil {
		f.scheme = version.SchemeSemVer
		f.current = sem.value()
		f.semver = &semverConfig{
			prefix:               ptr.Deref(sem.Prefix),
			timestamp:            ptr.Deref(sem.Timestamp),
			candidateDelimiter:   ptr.Deref(sem.Candidate.Delimiter),
			developmentDelimiter: ptr.Deref(sem.Development.Delimiter),
		}

		f.semver.promotion, err = version.ParsePromotion(ptr.Deref(sem.Candidate.Promotion))
		if err != nil {
			logger.Warn().Err(err).Msg("defaulting candidate promotion to minor")
		}
		f.semver.development, err = version.ParseDevelopment(ptr.Deref(sem.Development.Promotion))
		if err != nil {
			logger.Warn().Err(err).Msg("defaulting development promotion to git_sha")
		}
		return f, nil
	}

	f.scheme = version.SchemeCalVer
	f.current = cal.value()
	f.calver = &calverConfig{
		prefix:    ptr.Deref(cal.Format.Prefix),
		delimiter: ptr.Deref(cal.Format.Delimiter),
		format: version.Format{
			Year:  ptr.Deref(cal.Format.Year),
			Month: ptr.Deref(cal.Format.Month),
			Day:   ptr.Deref(cal.Format.Day),
		},
		conflictDelimiter: ptr.Deref(cal.Conflict.Delimiter),
	}

	f.calver.resolution, err = version.ParseResolution(ptr.Deref(cal.Conflict.Resolution))
	if err != nil {
		logger.Warn().Err(err).Msg("defaulting conflict resolution to suffix")
	}

	if err := f.current.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Scheme returns the scheme the bumpfile is committed to
func (f *File) Scheme() version.Scheme {
	return f.scheme
}

// Version returns the current version value
func (f *File) Version() version.Version {
	return f.current
}

// SemVer returns the semver value, or a schema error when the bumpfile
// declares a different scheme
func (f *File) SemVer() (version.SemVer, error) {
	if f.scheme != version.SchemeSemVer {
		return version.SemVer{}, apperror.NewKind(apperror.KindSchema, "bumpfile does not declare a [semver] scheme")
	}
	return f.current.SemVer, nil
}

// CalVer returns the calver value, or a schema error when the bumpfile
// declares a different scheme
func (f *File) CalVer() (version.CalVer, error) {
	if f.scheme != version.SchemeCalVer {
		return version.CalVer{}, apperror.NewKind(apperror.KindSchema, "bumpfile does not declare a [calver] scheme")
	}
	return f.current.CalVer, nil
}

// SetVersion writes a new version value back into the document.
// Only the scalar tokens whose values actually changed are touched.
func (f *File) SetVersion(v version.Version) error {
	if v.Scheme != f.scheme {
		return apperror.NewKindf(apperror.KindInvalidState, "cannot store a %s value in a %s bumpfile", v.Scheme, f.scheme)
	}
	if err := v.Validate(); err != nil {
		return err
	}

	switch f.scheme {
	case version.SchemeCalVer:
		if err := f.setCalVer(v.CalVer); err != nil {
			return err
		}
	default:
		if err := f.setSemVer(v.SemVer); err != nil {
			return err
		}
	}

	f.current = v
	return nil
}

func (f *File) setSemVer(next version.SemVer) error {
	cur := f.current.SemVer
	updates := []struct {
		path     string
		from, to uint64
	}{
		{"semver.version.major", cur.Major, next.Major},
		{"semver.version.minor", cur.Minor, next.Minor},
		{"semver.version.patch", cur.Patch, next.Patch},
		{"semver.version.candidate", cur.Candidate, next.Candidate},
	}

	for _, u := range updates {
		if u.from == u.to {
			continue
		}
		if err := f.doc.SetInt(u.path, u.to); err != nil {
			return err
		}
		logger.Debug().Str("key", u.path).Uint64("value", u.to).Msg("updated")
	}
	return nil
}

func (f *File) setCalVer(next version.CalVer) error {
	cur := f.current.CalVer
	updates := []struct {
		path     string
		from, to string
	}{
		{"calver.version.year", cur.Year, next.Year},
		{"calver.version.month", cur.Month, next.Month},
		{"calver.version.day", cur.Day, next.Day},
	}

	for _, u := range updates {
		if u.from == u.to {
			continue
		}
		if err := f.doc.SetString(u.path, u.to); err != nil {
			return err
		}
		logger.Debug().Str("key", u.path).Str("value", u.to).Msg("updated")
	}

	if cur.Revision != next.Revision {
		if err := f.doc.SetInt("calver.conflict.revision", next.Revision); err != nil {
			return err
		}
		logger.Debug().Uint64("revision", next.Revision).Msg("updated")
	}
	return nil
}

// SetPrefix persists a new version prefix. CalVer bumpfiles commit to
// their prefix at initialization time.
func (f *File) SetPrefix(prefix string) error {
	if f.scheme != version.SchemeSemVer {
		return apperror.NewKindf(apperror.KindUnsupportedScheme, "%s does not support prefix changes after initialization", f.scheme)
	}

	if err := f.doc.SetString("semver.prefix", prefix); err != nil {
		return err
	}
	f.semver.prefix = prefix
	return nil
}

// Render returns the formatting configuration for the stored scheme
func (f *File) Render() version.Render {
	if f.scheme == version.SchemeCalVer {
		return version.Render{
			Prefix:            f.calver.prefix,
			Delimiter:         f.calver.delimiter,
			ConflictDelimiter: f.calver.conflictDelimiter,
		}
	}
	return version.Render{
		Prefix:               f.semver.prefix,
		CandidateDelimiter:   f.semver.candidateDelimiter,
		DevelopmentDelimiter: f.semver.developmentDelimiter,
	}
}

// Promotion returns the candidate promotion policy (semver only)
func (f *File) Promotion() version.Promotion {
	if f.semver == nil {
		return version.PromoteMinor
	}
	return f.semver.promotion
}

// Development returns the development suffix strategy (semver only)
func (f *File) Development() version.Development {
	if f.semver == nil {
		return version.DevGitSHA
	}
	return f.semver.development
}

// Resolution returns the calendar conflict resolution policy (calver only)
func (f *File) Resolution() version.Resolution {
	if f.calver == nil {
		return version.ResolutionSuffix
	}
	return f.calver.resolution
}

// Format returns the calendar date format (calver only)
func (f *File) Format() version.Format {
	if f.calver == nil {
		return version.Format{}
	}
	return f.calver.format
}

// Timestamp renders the optional semver timestamp pattern for the given
// instant. It returns the empty string when no pattern is configured.
func (f *File) Timestamp(now time.Time) (string, error) {
	if f.semver == nil || f.semver.timestamp == "" {
		return "", nil
	}
	return version.FormatTime(f.semver.timestamp, now)
}

// Bytes serializes the document, reproducing everything but the mutated
// value tokens byte for byte
func (f *File) Bytes() []byte {
	return f.doc.Bytes()
}

// header is the banner written on top of fresh bumpfiles
const header = `#  ____  __  __  __  __  ____
# (  _ \(  )(  )(  \/  )(  _ \
#  ) _ < )(__)(  )    (  )___/
# (____/(______)(_/\/\_)(__)
#
# https://github.com/valentin-kaiser/go-bump

`

// Init builds a fresh bumpfile for the given scheme with default policies
// and a commented template. SemVer documents start at 0.1.0; CalVer
// documents are stamped with the date of now.
func Init(scheme version.Scheme, prefix string, now time.Time) (*File, error) {
	switch scheme {
	case version.SchemeSemVer:
		return Load([]byte(header + fmt.Sprintf(`[semver]
prefix = %s
timestamp = "%%Y-%%m-%%d %%H:%%M:%%S %%Z"   # strftime syntax

# NOTE: This section is modified by the bump command
[semver.version]
major = 0
minor = 1
patch = 0
candidate = 0

[semver.candidate]
promotion = "minor"  # ["minor", "major", "patch"]
delimiter = "-rc"

# promotion strategies:
#  - git_sha ( 7 char sha1 of the current commit )
#  - branch ( append branch name )
#  - full ( <branch>_<sha1> )
[semver.development]
promotion = "git_sha"
delimiter = "+"
`, quoteBasic(prefix))))
	case version.SchemeCalVer:
		components, err := version.Format{Year: "%Y", Month: "%m", Day: "%d"}.Components(now)
		if err != nil {
			return nil, err
		}
		return Load([]byte(header + fmt.Sprintf(`[calver.format]
prefix = %s
delimiter = "."
year = "%%Y"    # strftime syntax
month = "%%m"
day = "%%d"

# NOTE: This section is modified by the bump command
[calver.version]
year = %s
month = %s
day = %s

[calver.conflict]
resolution = "suffix"  # overwrite | suffix
revision = 0
delimiter = "-"
`, quoteBasic(prefix), quoteBasic(components.Year), quoteBasic(components.Month), quoteBasic(components.Day))))
	default:
		return nil, apperror.NewKind(apperror.KindInvalidState, "cannot initialize a bumpfile without a scheme")
	}
}
