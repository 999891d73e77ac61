// Package version implements the version value model and the transitions
// that advance it.
//
// A Version is a closed tagged union over two schemes:
//
//   - Semantic Versioning (SemVer): major.minor.patch with an optional
//     release-candidate counter. Candidate 0 means a final release;
//     candidate N > 0 is the Nth release candidate of the stored triple.
//   - Calendar Versioning (CalVer): date-derived components (year, and
//     optionally month and day, rendered through strftime patterns) with a
//     same-day revision counter. Revision 0 is omitted from rendering.
//
// Values are immutable: every transition takes a Version and returns a new
// one, so identical inputs always produce identical outputs and rendering
// has no hidden state. Policies (candidate promotion, development suffix,
// calendar conflict resolution) are plain enums supplied by the caller,
// typically read from the bumpfile.
//
// Rendering is driven by a Render value carrying the prefix and the
// delimiters. Development suffixes (git sha, branch) are appended at
// render time only and never become part of the stored value.
package version

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/valentin-kaiser/go-bump/apperror"
	"golang.org/x/mod/semver"
)

// Scheme identifies the versioning scheme a value belongs to.
// A document commits to exactly one scheme at creation time.
type Scheme uint8

// The supported schemes
const (
	SchemeUnknown Scheme = iota
	SchemeSemVer
	SchemeCalVer
)

// String returns the scheme name as it appears in the bumpfile
func (s Scheme) String() string {
	switch s {
	case SchemeSemVer:
		return "semver"
	case SchemeCalVer:
		return "calver"
	default:
		return "unknown"
	}
}

// Promotion selects which component is incremented the first time a
// candidate is created from a release
type Promotion uint8

// The candidate promotion policies
const (
	PromoteMinor Promotion = iota
	PromoteMajor
	PromotePatch
)

// ParsePromotion parses a promotion policy as spelled in the bumpfile
func ParsePromotion(s string) (Promotion, error) {
	switch s {
	case "minor":
		return PromoteMinor, nil
	case "major":
		return PromoteMajor, nil
	case "patch":
		return PromotePatch, nil
	default:
		return PromoteMinor, apperror.NewKindf(apperror.KindSchema, "invalid candidate promotion strategy %q", s)
	}
}

// String returns the policy name as it appears in the bumpfile
func (p Promotion) String() string {
	switch p {
	case PromoteMajor:
		return "major"
	case PromotePatch:
		return "patch"
	default:
		return "minor"
	}
}

// Development selects how an untagged build is distinguished from a
// tagged release at render time
type Development uint8

// The development suffix strategies
const (
	DevGitSHA Development = iota
	DevBranch
	DevFull
)

// ParseDevelopment parses a development strategy as spelled in the bumpfile
func ParseDevelopment(s string) (Development, error) {
	switch s {
	case "git_sha":
		return DevGitSHA, nil
	case "branch":
		return DevBranch, nil
	case "full":
		return DevFull, nil
	default:
		return DevGitSHA, apperror.NewKindf(apperror.KindSchema, "invalid development promotion strategy %q", s)
	}
}

// String returns the strategy name as it appears in the bumpfile
func (d Development) String() string {
	switch d {
	case DevBranch:
		return "branch"
	case DevFull:
		return "full"
	default:
		return "git_sha"
	}
}

// Resolution is the CalVer policy for two bumps landing on the same date
type Resolution uint8

// The conflict resolution policies
const (
	ResolutionSuffix Resolution = iota
	ResolutionOverwrite
)

// ParseResolution parses a conflict resolution policy as spelled in the bumpfile
func ParseResolution(s string) (Resolution, error) {
	switch s {
	case "suffix":
		return ResolutionSuffix, nil
	case "overwrite":
		return ResolutionOverwrite, nil
	default:
		return ResolutionSuffix, apperror.NewKindf(apperror.KindSchema, "invalid conflict resolution strategy %q", s)
	}
}

// String returns the policy name as it appears in the bumpfile
func (r Resolution) String() string {
	if r == ResolutionOverwrite {
		return "overwrite"
	}
	return "suffix"
}

// SemVer is a semantic version value. Candidate 0 is a final release.
type SemVer struct {
	Major     uint64
	Minor     uint64
	Patch     uint64
	Candidate uint64
}

// CalVer is a calendar version value. Month and Day are empty when the
// configured format omits them; Revision disambiguates same-day bumps.
type CalVer struct {
	Year     string
	Month    string
	Day      string
	Revision uint64
}

// date returns the components without the revision, for same-day comparison
func (c CalVer) date() [3]string {
	return [3]string{c.Year, c.Month, c.Day}
}

// components returns the non-empty date components in order
func (c CalVer) components() []string {
	parts := []string{c.Year}
	if c.Month != "" {
		parts = append(parts, c.Month)
	}
	if c.Day != "" {
		parts = append(parts, c.Day)
	}
	return parts
}

// Version is the tagged union over the two schemes. Exactly the value
// matching Scheme is meaningful; the other stays at its zero value.
type Version struct {
	Scheme Scheme
	SemVer SemVer
	CalVer CalVer
}

// Render carries the formatting configuration for turning a Version into
// a string. All fields are caller-supplied and never influence stored state.
type Render struct {
	// Prefix is prepended to every rendered version (e.g. "v")
	Prefix string
	// Delimiter joins CalVer date components (e.g. ".")
	Delimiter string
	// CandidateDelimiter joins the base triple and the candidate counter (e.g. "-rc")
	CandidateDelimiter string
	// ConflictDelimiter joins the date and the CalVer revision (e.g. "-")
	ConflictDelimiter string
	// DevelopmentDelimiter joins the version and the development suffix (e.g. "+")
	DevelopmentDelimiter string
}

// Format holds the strftime patterns that derive CalVer components from a
// date. Month and Day are optional; an empty pattern omits the component.
type Format struct {
	Year  string
	Month string
	Day   string
}

// Components renders the date components for the given instant
func (f Format) Components(now time.Time) (CalVer, error) {
	if f.Year == "" {
		return CalVer{}, apperror.NewKind(apperror.KindSchema, "calver format requires a year pattern")
	}

	year, err := FormatTime(f.Year, now)
	if err != nil {
		return CalVer{}, err
	}

	c := CalVer{Year: year}
	if f.Month != "" {
		c.Month, err = FormatTime(f.Month, now)
		if err != nil {
			return CalVer{}, err
		}
	}
	if f.Day != "" {
		if f.Month == "" {
			return CalVer{}, apperror.NewKind(apperror.KindInvalidState, "calver format has a day pattern without a month pattern")
		}
		c.Day, err = FormatTime(f.Day, now)
		if err != nil {
			return CalVer{}, err
		}
	}
	return c, nil
}

// FormatTime renders a strftime pattern for the given instant.
// It is also used for the optional semver timestamp and for generated
// file headers.
func FormatTime(pattern string, now time.Time) (string, error) {
	out, err := strftime.Format(pattern, now)
	if err != nil {
		return "", apperror.WrapKind(apperror.KindSchema, err, fmt.Sprintf("invalid date pattern %q", pattern))
	}
	return out, nil
}

// Validate checks the internal invariants of the value.
// It returns an invalid-state error when they are violated.
func (v Version) Validate() error {
	switch v.Scheme {
	case SchemeSemVer:
		return nil
	case SchemeCalVer:
		if v.CalVer.Year == "" {
			return apperror.NewKind(apperror.KindInvalidState, "calver version without a year component")
		}
		if v.CalVer.Month == "" && v.CalVer.Day != "" {
			return apperror.NewKind(apperror.KindInvalidState, "calver version has a day component without a month")
		}
		return nil
	default:
		return apperror.NewKind(apperror.KindInvalidState, "version has no scheme")
	}
}

// String renders the canonical display form: prefix, components, and the
// candidate or revision suffix when one is active.
func (v Version) String(r Render) string {
	switch v.Scheme {
	case SchemeCalVer:
		date := strings.Join(v.CalVer.components(), r.Delimiter)
		if v.CalVer.Revision > 0 {
			return fmt.Sprintf("%s%s%s%d", r.Prefix, date, r.ConflictDelimiter, v.CalVer.Revision)
		}
		return r.Prefix + date
	default:
		base := fmt.Sprintf("%s%d.%d.%d", r.Prefix, v.SemVer.Major, v.SemVer.Minor, v.SemVer.Patch)
		if v.SemVer.Candidate > 0 {
			return fmt.Sprintf("%s%s%d", base, r.CandidateDelimiter, v.SemVer.Candidate)
		}
		return base
	}
}

// Base renders the bare components: no prefix, no candidate, no revision,
// no development suffix. Useful for embedding into build systems and
// third-party manifests.
func (v Version) Base(r Render) string {
	switch v.Scheme {
	case SchemeCalVer:
		return strings.Join(v.CalVer.components(), r.Delimiter)
	default:
		return fmt.Sprintf("%d.%d.%d", v.SemVer.Major, v.SemVer.Minor, v.SemVer.Patch)
	}
}

// Full renders the display form with a development suffix appended.
// An empty suffix yields the same result as String. The suffix is an
// opaque string supplied by the source-control collaborator; CalVer
// versions do not carry development suffixes.
func (v Version) Full(r Render, dev string) string {
	s := v.String(r)
	if v.Scheme == SchemeSemVer && dev != "" {
		return s + r.DevelopmentDelimiter + dev
	}
	return s
}

var tagPattern = regexp.MustCompile(`^(?P<prefix>[a-zA-Z]*)(?P<major>\d+)\.(?P<minor>\d+)\.(?P<patch>\d+)(?:-rc(?P<candidate>\d+))?$`)

// FromString parses a SemVer version string such as a git tag
// ("v1.2.3", "v1.2.3-rc2"). It returns the parsed value and the detected
// prefix. The numeric shape is validated against the semver specification
// before the components are extracted.
func FromString(s string) (Version, string, error) {
	caps := tagPattern.FindStringSubmatch(s)
	if caps == nil {
		return Version{}, "", apperror.NewKindf(apperror.KindParse, "invalid version format %q", s)
	}

	prefix := caps[1]
	if !semver.IsValid("v" + strings.TrimPrefix(s, prefix)) {
		return Version{}, "", apperror.NewKindf(apperror.KindParse, "invalid semantic version %q", s)
	}

	major, err := strconv.ParseUint(caps[2], 10, 64)
	if err != nil {
		return Version{}, "", apperror.NewKind(apperror.KindParse, "invalid major value").AddError(err)
	}
	minor, err := strconv.ParseUint(caps[3], 10, 64)
	if err != nil {
		return Version{}, "", apperror.NewKind(apperror.KindParse, "invalid minor value").AddError(err)
	}
	patch, err := strconv.ParseUint(caps[4], 10, 64)
	if err != nil {
		return Version{}, "", apperror.NewKind(apperror.KindParse, "invalid patch value").AddError(err)
	}

	var candidate uint64
	if caps[5] != "" {
		candidate, err = strconv.ParseUint(caps[5], 10, 64)
		if err != nil {
			return Version{}, "", apperror.NewKind(apperror.KindParse, "invalid candidate value").AddError(err)
		}
	}

	return Version{
		Scheme: SchemeSemVer,
		SemVer: SemVer{Major: major, Minor: minor, Patch: patch, Candidate: candidate},
	}, prefix, nil
}

// increment returns n+1 or an overflow error
func increment(n uint64, component string) (uint64, error) {
	if n == math.MaxUint64 {
		return 0, apperror.NewKindf(apperror.KindOverflow, "%s would overflow", component)
	}
	return n + 1, nil
}
