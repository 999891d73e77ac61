package bumpfile

import (
	"strconv"
	"strings"

	"github.com/valentin-kaiser/go-bump/apperror"
)

// Document is a comment-preserving view of a TOML file.
//
// It is deliberately not a general TOML editor. The file is kept as an
// ordered list of lines; simple `key = value` lines under plain `[section]`
// headers get the byte span of their value token recorded and are indexed
// by dotted path, everything else (comments, blank lines, array tables,
// inline tables, multi-line values) stays an opaque verbatim block.
// Mutations replace only the value token of an owned key, so serializing
// reproduces all surrounding text byte for byte.
type Document struct {
	lines           []docLine
	index           map[string]int
	trailingNewline bool
}

// docLine is one line of the file. Non-key lines keep key == "".
type docLine struct {
	raw      string
	section  string
	key      string
	valStart int
	valEnd   int
}

// ParseDocument builds a Document from raw file bytes. It never fails on
// content it does not recognize; unrecognized lines simply stay opaque.
// Structural validation of the bumpfile schema happens separately.
func ParseDocument(data []byte) *Document {
	text := string(data)
	trailing := strings.HasSuffix(text, "\n")
	if trailing {
		text = text[:len(text)-1]
	}

	doc := &Document{
		index:           make(map[string]int),
		trailingNewline: trailing || len(data) == 0,
	}

	section := ""
	known := true
	for _, raw := range strings.Split(text, "\n") {
		line := docLine{raw: raw, section: section}
		trimmed := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(trimmed, "[["):
			// Array tables are carried through untouched; keys under
			// them are never indexed.
			known = false
			section = ""
		case strings.HasPrefix(trimmed, "["):
			if end := strings.Index(trimmed, "]"); end > 1 {
				section = strings.TrimSpace(trimmed[1:end])
				known = isBareDottedKey(section)
				line.section = section
			}
		default:
			if known {
				doc.recognize(&line)
			}
		}

		doc.lines = append(doc.lines, line)
		if line.key != "" {
			doc.index[path(line.section, line.key)] = len(doc.lines) - 1
		}
	}

	return doc
}

// recognize records the value span of a simple key/value line.
// Lines whose value is not a single scalar token are left opaque.
func (d *Document) recognize(line *docLine) {
	raw := line.raw
	eq := strings.Index(raw, "=")
	if eq < 0 {
		return
	}

	key := strings.TrimSpace(raw[:eq])
	if !isBareKey(key) {
		return
	}

	rest := raw[eq+1:]
	offset := eq + 1 + (len(rest) - len(strings.TrimLeft(rest, " \t")))
	value := raw[offset:]
	if value == "" {
		return
	}

	var length int
	switch value[0] {
	case '"':
		length = quotedLength(value, '"')
	case '\'':
		length = quotedLength(value, '\'')
	case '[', '{':
		// arrays and inline tables stay opaque
		return
	default:
		length = bareLength(value)
	}
	if length <= 0 {
		return
	}

	// anything after the token must be whitespace or a comment
	tail := strings.TrimSpace(value[length:])
	if tail != "" && !strings.HasPrefix(tail, "#") {
		return
	}

	line.key = key
	line.valStart = offset
	line.valEnd = offset + length
}

// quotedLength returns the length of a quoted token including quotes,
// or -1 when the closing quote is missing on this line
func quotedLength(s string, quote byte) int {
	escaped := false
	for i := 1; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case quote == '"' && s[i] == '\\':
			escaped = true
		case s[i] == quote:
			return i + 1
		}
	}
	return -1
}

// bareLength returns the length of an unquoted token, which ends at the
// first whitespace, comment, or carriage return of a CRLF line ending
func bareLength(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\t' || s[i] == '#' || s[i] == '\r' {
			return i
		}
	}
	return len(s)
}

func isBareKey(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

func isBareDottedKey(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if !isBareKey(part) {
			return false
		}
	}
	return true
}

func path(section, key string) string {
	if section == "" {
		return key
	}
	return section + "." + key
}

// Has reports whether the document owns a scalar value at the given
// dotted path
func (d *Document) Has(path string) bool {
	_, ok := d.index[path]
	return ok
}

// GetString returns the string value at the given dotted path
func (d *Document) GetString(path string) (string, bool) {
	line, ok := d.line(path)
	if !ok {
		return "", false
	}

	token := line.raw[line.valStart:line.valEnd]
	return unquote(token), true
}

// GetInt returns the unsigned integer value at the given dotted path
func (d *Document) GetInt(path string) (uint64, bool) {
	line, ok := d.line(path)
	if !ok {
		return 0, false
	}

	n, err := strconv.ParseUint(line.raw[line.valStart:line.valEnd], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetString replaces the value token at the given dotted path with a
// string, preserving the original quoting style where possible
func (d *Document) SetString(path string, value string) error {
	i, ok := d.index[path]
	if !ok {
		return apperror.NewKindf(apperror.KindSchema, "key %q not present in document", path)
	}

	line := &d.lines[i]
	token := quoteBasic(value)
	if line.raw[line.valStart] == '\'' && !strings.Contains(value, "'") {
		token = "'" + value + "'"
	}
	d.replace(line, token)
	return nil
}

// SetInt replaces the value token at the given dotted path with an
// unsigned integer
func (d *Document) SetInt(path string, value uint64) error {
	i, ok := d.index[path]
	if !ok {
		return apperror.NewKindf(apperror.KindSchema, "key %q not present in document", path)
	}

	line := &d.lines[i]
	d.replace(line, strconv.FormatUint(value, 10))
	return nil
}

// replace swaps the value token in place, keeping everything around it
func (d *Document) replace(line *docLine, token string) {
	line.raw = line.raw[:line.valStart] + token + line.raw[line.valEnd:]
	line.valEnd = line.valStart + len(token)
}

// Bytes serializes the document. A document that was not mutated
// reproduces its input byte for byte.
func (d *Document) Bytes() []byte {
	var sb strings.Builder
	for i, line := range d.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line.raw)
	}
	if d.trailingNewline && sb.Len() > 0 {
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

// unquote strips TOML string quoting from a scalar token
func unquote(token string) string {
	if len(token) >= 2 && token[0] == '\'' && token[len(token)-1] == '\'' {
		return token[1 : len(token)-1]
	}
	if len(token) < 2 || token[0] != '"' || token[len(token)-1] != '"' {
		return token
	}

	var sb strings.Builder
	escaped := false
	for _, r := range token[1 : len(token)-1] {
		if !escaped {
			if r == '\\' {
				escaped = true
				continue
			}
			sb.WriteRune(r)
			continue
		}
		escaped = false
		switch r {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// quoteBasic renders a TOML basic string token
func quoteBasic(value string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range value {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func (d *Document) line(path string) (docLine, bool) {
	i, ok := d.index[path]
	if !ok {
		return docLine{}, false
	}
	return d.lines[i], true
}
