package bumpfile

import (
	"errors"

	"github.com/BurntSushi/toml"
	"github.com/valentin-kaiser/go-bump/apperror"
	"github.com/valentin-kaiser/go-bump/ptr"
	"github.com/valentin-kaiser/go-bump/version"
)

// The schema structs mirror the bumpfile sections. Every field is a
// pointer so a missing key can be told apart from a zero value; required
// keys are checked after decoding.

type semverSection struct {
	Prefix      *string             `toml:"prefix"`
	Timestamp   *string             `toml:"timestamp"`
	Version     *semverVersion      `toml:"version"`
	Candidate   *candidateSection   `toml:"candidate"`
	Development *developmentSection `toml:"development"`
}

type semverVersion struct {
	Major     *uint64 `toml:"major"`
	Minor     *uint64 `toml:"minor"`
	Patch     *uint64 `toml:"patch"`
	Candidate *uint64 `toml:"candidate"`
}

type candidateSection struct {
	Promotion *string `toml:"promotion"`
	Delimiter *string `toml:"delimiter"`
}

type developmentSection struct {
	Promotion *string `toml:"promotion"`
	Delimiter *string `toml:"delimiter"`
}

type calverSection struct {
	Format   *calverFormat    `toml:"format"`
	Version  *calverVersion   `toml:"version"`
	Conflict *conflictSection `toml:"conflict"`
}

type calverFormat struct {
	Prefix    *string `toml:"prefix"`
	Delimiter *string `toml:"delimiter"`
	Year      *string `toml:"year"`
	Month     *string `toml:"month"`
	Day       *string `toml:"day"`
}

type calverVersion struct {
	Year  *string `toml:"year"`
	Month *string `toml:"month"`
	Day   *string `toml:"day"`
}

type conflictSection struct {
	Resolution *string `toml:"resolution"`
	Revision   *uint64 `toml:"revision"`
	Delimiter  *string `toml:"delimiter"`
}

// decode runs the two-stage parse: a syntax decode of the whole file into
// primitives, then a typed decode of the scheme section that is present.
// Syntax failures are parse errors with a line location; typed failures
// and missing keys are schema errors.
func decode(data []byte) (*semverSection, *calverSection, error) {
	var raw map[string]toml.Primitive
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, nil, apperror.WrapKind(apperror.KindParse, err, "malformed bumpfile").
				AddDetail("line", perr.Position.Line)
		}
		return nil, nil, apperror.WrapKind(apperror.KindParse, err, "malformed bumpfile")
	}

	sem, hasSemver := raw["semver"]
	cal, hasCalver := raw["calver"]
	if hasSemver && hasCalver {
		return nil, nil, apperror.NewKind(apperror.KindSchema, "bumpfile declares both [semver] and [calver]")
	}
	if !hasSemver && !hasCalver {
		return nil, nil, apperror.NewKind(apperror.KindSchema, "bumpfile declares neither [semver] nor [calver]")
	}

	if hasSemver {
		var section semverSection
		if err := md.PrimitiveDecode(sem, &section); err != nil {
			return nil, nil, apperror.WrapKind(apperror.KindSchema, err, "invalid [semver] section")
		}
		if err := section.check(); err != nil {
			return nil, nil, err
		}
		return &section, nil, nil
	}

	var section calverSection
	if err := md.PrimitiveDecode(cal, &section); err != nil {
		return nil, nil, apperror.WrapKind(apperror.KindSchema, err, "invalid [calver] section")
	}
	if err := section.check(); err != nil {
		return nil, nil, err
	}
	return nil, &section, nil
}

// check verifies that every key the semver scheme requires is present
func (s *semverSection) check() error {
	if !ptr.Has(s.Prefix) {
		return missing("semver.prefix")
	}
	if !ptr.Has(s.Version) {
		return missing("semver.version")
	}
	if !ptr.Has(s.Version.Major) {
		return missing("semver.version.major")
	}
	if !ptr.Has(s.Version.Minor) {
		return missing("semver.version.minor")
	}
	if !ptr.Has(s.Version.Patch) {
		return missing("semver.version.patch")
	}
	if !ptr.Has(s.Version.Candidate) {
		return missing("semver.version.candidate")
	}
	if !ptr.Has(s.Candidate) || !ptr.Has(s.Candidate.Promotion) || !ptr.Has(s.Candidate.Delimiter) {
		return missing("semver.candidate")
	}
	if !ptr.Has(s.Development) || !ptr.Has(s.Development.Promotion) || !ptr.Has(s.Development.Delimiter) {
		return missing("semver.development")
	}
	return nil
}

// check verifies the calver schema, including that the stored components
// line up with the configured format patterns
func (s *calverSection) check() error {
	if !ptr.Has(s.Format) {
		return missing("calver.format")
	}
	if !ptr.Has(s.Format.Prefix) {
		return missing("calver.format.prefix")
	}
	if !ptr.Has(s.Format.Delimiter) {
		return missing("calver.format.delimiter")
	}
	if !ptr.Has(s.Format.Year) {
		return missing("calver.format.year")
	}
	if !ptr.Has(s.Version) {
		return missing("calver.version")
	}
	if !ptr.Has(s.Version.Year) {
		return missing("calver.version.year")
	}
	if !ptr.Has(s.Conflict) || !ptr.Has(s.Conflict.Resolution) || !ptr.Has(s.Conflict.Revision) || !ptr.Has(s.Conflict.Delimiter) {
		return missing("calver.conflict")
	}

	if ptr.Has(s.Format.Day) && !ptr.Has(s.Format.Month) {
		return apperror.NewKind(apperror.KindSchema, "calver.format.day requires calver.format.month")
	}
	if ptr.Has(s.Format.Month) != ptr.Has(s.Version.Month) {
		return apperror.NewKind(apperror.KindSchema, "calver.version.month must match calver.format.month")
	}
	if ptr.Has(s.Format.Day) != ptr.Has(s.Version.Day) {
		return apperror.NewKind(apperror.KindSchema, "calver.version.day must match calver.format.day")
	}
	return nil
}

func missing(key string) error {
	return apperror.NewKindf(apperror.KindSchema, "required key %s is missing", key).
		AddDetail("key", key)
}

// value converts the decoded semver section into a version value
func (s *semverSection) value() version.Version {
	return version.Version{
		Scheme: version.SchemeSemVer,
		SemVer: version.SemVer{
			Major:     ptr.Deref(s.Version.Major),
			Minor:     ptr.Deref(s.Version.Minor),
			Patch:     ptr.Deref(s.Version.Patch),
			Candidate: ptr.Deref(s.Version.Candidate),
		},
	}
}

// value converts the decoded calver section into a version value
func (s *calverSection) value() version.Version {
	return version.Version{
		Scheme: version.SchemeCalVer,
		CalVer: version.CalVer{
			Year:     ptr.Deref(s.Version.Year),
			Month:    ptr.Deref(s.Version.Month),
			Day:      ptr.Deref(s.Version.Day),
			Revision: ptr.Deref(s.Conflict.Revision),
		},
	}
}
