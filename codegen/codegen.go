// Package codegen emits version constants as source text for a handful
// of target languages. It consumes a fully rendered version (every
// numeric component plus the final string) and knows nothing about where
// the numbers came from.
package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/valentin-kaiser/go-bump/apperror"
	"github.com/valentin-kaiser/go-bump/logging"
)

var logger = logging.GetPackageLogger("codegen")

// Language is a supported code generation target
type Language string

// The supported languages
const (
	LanguageC      Language = "c"
	LanguageGo     Language = "go"
	LanguageJava   Language = "java"
	LanguageCSharp Language = "csharp"
	LanguagePython Language = "python"
)

// ParseLanguage parses a language tag as given on the command line
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(s)) {
	case LanguageC:
		return LanguageC, nil
	case LanguageGo:
		return LanguageGo, nil
	case LanguageJava:
		return LanguageJava, nil
	case LanguageCSharp:
		return LanguageCSharp, nil
	case LanguagePython:
		return LanguagePython, nil
	default:
		return "", apperror.NewKindf(apperror.KindUsage, "invalid language %q", s)
	}
}

// Info is the rendered version handed to the templates
type Info struct {
	// Major, Minor, Patch and Candidate are the numeric components;
	// they are zero for calendar versions
	Major     uint64
	Minor     uint64
	Patch     uint64
	Candidate uint64
	// Version is the fully qualified version string including prefix,
	// candidate and development suffixes
	Version string
	// Base is the bare component string without prefix or suffixes
	Base string
	// Timestamp is the optional build timestamp, empty when unset
	Timestamp string
}

const cTemplate = `/* Code generated by bump. DO NOT EDIT. */
#ifndef BUMP_VERSION_H
#define BUMP_VERSION_H

#define VERSION_MAJOR {{.Major}}
#define VERSION_MINOR {{.Minor}}
#define VERSION_PATCH {{.Patch}}
#define VERSION_CANDIDATE {{.Candidate}}
#define VERSION_STRING "{{.Version}}"
#define VERSION_BASE "{{.Base}}"
{{- if .Timestamp}}
#define VERSION_TIMESTAMP "{{.Timestamp}}"
{{- end}}

#endif /* BUMP_VERSION_H */
`

const goTemplate = `// Code generated by bump. DO NOT EDIT.
package version

const (
	Major     = {{.Major}}
	Minor     = {{.Minor}}
	Patch     = {{.Patch}}
	Candidate = {{.Candidate}}
	Version   = "{{.Version}}"
	Base      = "{{.Base}}"
{{- if .Timestamp}}
	Timestamp = "{{.Timestamp}}"
{{- end}}
)
`

const javaTemplate = `// Code generated by bump. DO NOT EDIT.
public final class Version {
    public static final int MAJOR = {{.Major}};
    public static final int MINOR = {{.Minor}};
    public static final int PATCH = {{.Patch}};
    public static final int CANDIDATE = {{.Candidate}};
    public static final String VERSION = "{{.Version}}";
    public static final String BASE = "{{.Base}}";
{{- if .Timestamp}}
    public static final String TIMESTAMP = "{{.Timestamp}}";
{{- end}}

    private Version() {
    }
}
`

const csharpTemplate = `// Code generated by bump. DO NOT EDIT.
public static class Version
{
    public const int Major = {{.Major}};
    public const int Minor = {{.Minor}};
    public const int Patch = {{.Patch}};
    public const int Candidate = {{.Candidate}};
    public const string String = "{{.Version}}";
    public const string Base = "{{.Base}}";
{{- if .Timestamp}}
    public const string Timestamp = "{{.Timestamp}}";
{{- end}}
}
`

const pythonTemplate = `# Code generated by bump. DO NOT EDIT.
MAJOR = {{.Major}}
MINOR = {{.Minor}}
PATCH = {{.Patch}}
CANDIDATE = {{.Candidate}}
VERSION = "{{.Version}}"
BASE = "{{.Base}}"
{{- if .Timestamp}}
TIMESTAMP = "{{.Timestamp}}"
{{- end}}
`

var templates = map[Language]*template.Template{
	LanguageC:      template.Must(template.New("c").Parse(cTemplate)),
	LanguageGo:     template.Must(template.New("go").Parse(goTemplate)),
	LanguageJava:   template.Must(template.New("java").Parse(javaTemplate)),
	LanguageCSharp: template.Must(template.New("csharp").Parse(csharpTemplate)),
	LanguagePython: template.Must(template.New("python").Parse(pythonTemplate)),
}

// Render produces the source text for the given language
func Render(lang Language, info Info) ([]byte, error) {
	tmpl, ok := templates[lang]
	if !ok {
		return nil, apperror.NewKindf(apperror.KindUsage, "invalid language %q", lang)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, info); err != nil {
		return nil, apperror.WrapKind(apperror.KindUsage, err, "rendering version constants failed")
	}
	return []byte(sb.String()), nil
}

// WriteFile renders the source text and writes it to path, creating
// missing parent directories
func WriteFile(lang Language, info Info, path string) error {
	out, err := Render(lang, info)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return apperror.WrapKind(apperror.KindIO, err, "creating output directory failed")
		}
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return apperror.WrapKind(apperror.KindIO, err, "writing output file failed")
	}
	logger.Debug().Str("path", path).Str("language", string(lang)).Msg("generated version constants")
	return nil
}
