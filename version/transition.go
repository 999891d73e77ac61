package version

import (
	"time"

	"github.com/valentin-kaiser/go-bump/apperror"
)

// BumpMajor increments the major component, zeroes minor and patch, and
// drops an active candidate
func BumpMajor(v Version) (Version, error) {
	if v.Scheme != SchemeSemVer {
		return Version{}, apperror.NewKindf(apperror.KindUnsupportedScheme, "%s does not support major bumps", v.Scheme)
	}

	major, err := increment(v.SemVer.Major, "major")
	if err != nil {
		return Version{}, err
	}

	v.SemVer = SemVer{Major: major}
	return v, nil
}

// BumpMinor increments the minor component, zeroes patch, and drops an
// active candidate
func BumpMinor(v Version) (Version, error) {
	if v.Scheme != SchemeSemVer {
		return Version{}, apperror.NewKindf(apperror.KindUnsupportedScheme, "%s does not support minor bumps", v.Scheme)
	}

	minor, err := increment(v.SemVer.Minor, "minor")
	if err != nil {
		return Version{}, err
	}

	v.SemVer = SemVer{Major: v.SemVer.Major, Minor: minor}
	return v, nil
}

// BumpPatch increments the patch component and drops an active candidate
func BumpPatch(v Version) (Version, error) {
	if v.Scheme != SchemeSemVer {
		return Version{}, apperror.NewKindf(apperror.KindUnsupportedScheme, "%s does not support patch bumps", v.Scheme)
	}

	patch, err := increment(v.SemVer.Patch, "patch")
	if err != nil {
		return Version{}, err
	}

	v.SemVer = SemVer{Major: v.SemVer.Major, Minor: v.SemVer.Minor, Patch: patch}
	return v, nil
}

// Promote advances a release to its first candidate, or increments an
// already active candidate.
//
// From a release (candidate 0) the promotion policy decides which base
// component is incremented, lower-order components are zeroed, and the
// candidate counter starts at 1. From an active candidate the base triple
// stays untouched and only the counter advances.
func Promote(v Version, policy Promotion) (Version, error) {
	if v.Scheme != SchemeSemVer {
		return Version{}, apperror.NewKindf(apperror.KindUnsupportedScheme, "%s does not support candidate promotion", v.Scheme)
	}

	if v.SemVer.Candidate > 0 {
		candidate, err := increment(v.SemVer.Candidate, "candidate")
		if err != nil {
			return Version{}, err
		}
		v.SemVer.Candidate = candidate
		return v, nil
	}

	next := v.SemVer
	var err error
	switch policy {
	case PromoteMajor:
		next.Major, err = increment(next.Major, "major")
		next.Minor = 0
		next.Patch = 0
	case PromotePatch:
		next.Patch, err = increment(next.Patch, "patch")
	default:
		next.Minor, err = increment(next.Minor, "minor")
		next.Patch = 0
	}
	if err != nil {
		return Version{}, err
	}

	next.Candidate = 1
	v.SemVer = next
	return v, nil
}

// Release finalizes an active candidate: the candidate counter drops to
// zero and the base triple is left unchanged
func Release(v Version) (Version, error) {
	if v.Scheme != SchemeSemVer {
		return Version{}, apperror.NewKindf(apperror.KindUnsupportedScheme, "%s does not support releases", v.Scheme)
	}
	if v.SemVer.Candidate == 0 {
		return Version{}, apperror.NewKind(apperror.KindNotACandidate, "cannot release without an active candidate")
	}

	v.SemVer.Candidate = 0
	return v, nil
}

// BumpCalendar advances a CalVer value to the date of now, rendered
// through the configured format.
//
// A date change replaces the components and resets the revision to zero.
// When the rendered date equals the stored one, the conflict resolution
// decides: suffix increments the revision, overwrite leaves the value
// untouched. The comparison is over stored components only; prefixes
// never participate.
func BumpCalendar(v Version, f Format, res Resolution, now time.Time) (Version, error) {
	if v.Scheme != SchemeCalVer {
		return Version{}, apperror.NewKindf(apperror.KindUnsupportedScheme, "%s does not support calendar bumps", v.Scheme)
	}

	next, err := f.Components(now)
	if err != nil {
		return Version{}, err
	}

	if next.date() != v.CalVer.date() {
		v.CalVer = next
		return v, nil
	}

	if res == ResolutionOverwrite {
		return v, nil
	}

	revision, err := increment(v.CalVer.Revision, "revision")
	if err != nil {
		return Version{}, err
	}
	v.CalVer.Revision = revision
	return v, nil
}
