// Package parser compiles path patterns into matchers that extract named
// key parts from file paths.
//
// A pattern mixes literal text, placeholders and native regular expression
// syntax:
//
//	{name}    captures the shortest run of characters (may cross "/")
//	{name!g}  captures the longest run of characters
//	*         as a whole path segment, matches exactly one segment
//	\{ \}     literal brace characters
//
// Everything else is handed to the regular expression engine unmodified,
// so patterns can embed alternations like "(mp3|aac|wav)" or generic
// wildcards like ".*". The compiled expression is anchored: it must match
// the entire path, not a substring. Leading directories the pattern does
// not describe are consumed by an implicit prefix, so "{id}.jpg" matches
// "a/1.jpg" with id "1".
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/harrison/grob/internal/keys"
)

// CompileError reports a malformed pattern detected at compile time.
type CompileError struct {
	Pattern string
	Pos     int
	Reason  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid pattern %q at offset %d: %s", e.Pattern, e.Pos, e.Reason)
}

// PathParser matches whole path strings against one compiled pattern and
// extracts the pattern's key parts. A PathParser is immutable and safe for
// concurrent use.
type PathParser struct {
	pattern  string
	re       *regexp.Regexp
	keyParts []string
}

// New compiles a pattern. Compilation is pure: it performs no I/O and a
// given pattern always compiles to the same matcher.
func New(pattern string) (*PathParser, error) {
	expr, parts, err := translate(pattern)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Reason: err.Error()}
	}
	return &PathParser{pattern: pattern, re: re, keyParts: parts}, nil
}

// Pattern returns the pattern the parser was compiled from.
func (p *PathParser) Pattern() string { return p.pattern }

// KeyParts returns the part names declared by the pattern's placeholders,
// in left-to-right order of appearance. It is defined even for patterns
// that never match anything.
func (p *PathParser) KeyParts() []string {
	out := make([]string, len(p.keyParts))
	copy(out, p.keyParts)
	return out
}

// Match runs the compiled pattern against path. It returns the captured
// key and true when the whole path matches, or the zero Key and false
// otherwise. Captured values are raw substrings.
func (p *PathParser) Match(path string) (keys.Key, bool) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return keys.Key{}, false
	}
	parts := make(map[string]string, len(p.keyParts))
	for i, name := range p.keyParts {
		parts[name] = m[i+1]
	}
	return keys.New(parts), true
}

// translate converts a pattern into an anchored regular expression and the
// ordered list of placeholder names. Placeholders compile to positional
// capture groups; pass-through group syntax is rewritten as non-capturing
// so group indices stay aligned with placeholders. This also keeps
// duplicate placeholder names compilable: the last capture for a repeated
// name wins.
func translate(pattern string) (string, []string, error) {
	var sb strings.Builder
	var parts []string
	// The greedy optional prefix consumes leading directories the pattern
	// does not describe; the expression still spans the whole path.
	sb.WriteString(`\A(?:.*/)?`)
	for i := 0; i < len(pattern); {
		switch c := pattern[i]; c {
		case '\\':
			if i+1 < len(pattern) && (pattern[i+1] == '{' || pattern[i+1] == '}') {
				// Escaped brace: a literal character, never placeholder syntax.
				sb.WriteByte('\\')
				sb.WriteByte(pattern[i+1])
				i += 2
				continue
			}
			// Any other escape passes through to the regexp engine.
			sb.WriteByte('\\')
			i++
			if i < len(pattern) {
				sb.WriteByte(pattern[i])
				i++
			}
		case '{':
			end := strings.IndexByte(pattern[i:], '}')
			if end < 0 {
				return "", nil, &CompileError{Pattern: pattern, Pos: i, Reason: "unclosed placeholder"}
			}
			name := pattern[i+1 : i+end]
			greedy := strings.HasSuffix(name, "!g")
			if greedy {
				name = strings.TrimSuffix(name, "!g")
			}
			if name == "" {
				return "", nil, &CompileError{Pattern: pattern, Pos: i, Reason: "empty placeholder name"}
			}
			if !validName(name) {
				return "", nil, &CompileError{
					Pattern: pattern,
					Pos:     i,
					Reason:  fmt.Sprintf("invalid placeholder name %q", name),
				}
			}
			parts = append(parts, name)
			if greedy {
				sb.WriteString(`(.+)`)
			} else {
				sb.WriteString(`(.+?)`)
			}
			i += end + 1
		case '}':
			return "", nil, &CompileError{Pattern: pattern, Pos: i, Reason: "unmatched '}'"}
		case '*':
			if standaloneSegment(pattern, i) {
				// A whole-segment wildcard matches exactly one path
				// component and never crosses a directory boundary.
				sb.WriteString(`[^/]+`)
			} else {
				// Elsewhere "*" is an ordinary regexp quantifier, so ".*"
				// keeps its native meaning.
				sb.WriteByte('*')
			}
			i++
		case '(':
			rest := pattern[i:]
			switch {
			case strings.HasPrefix(rest, "(?P<"):
				// Embedded named-group syntax is not a placeholder; strip
				// the name and keep the group non-capturing.
				gt := strings.IndexByte(rest, '>')
				if gt < 0 {
					return "", nil, &CompileError{Pattern: pattern, Pos: i, Reason: "unterminated group name"}
				}
				sb.WriteString(`(?:`)
				i += gt + 1
			case strings.HasPrefix(rest, "(?"):
				sb.WriteString("(?")
				i += 2
			default:
				sb.WriteString(`(?:`)
				i++
			}
		default:
			sb.WriteByte(c)
			i++
		}
	}
	sb.WriteString(`\z`)
	return sb.String(), parts, nil
}

// standaloneSegment reports whether the "*" at index i forms a whole path
// segment, bounded by separators or the pattern's edges.
func standaloneSegment(pattern string, i int) bool {
	before := i == 0 || pattern[i-1] == '/'
	after := i+1 == len(pattern) || pattern[i+1] == '/'
	return before && after
}

// validName accepts identifier-shaped placeholder names.
func validName(name string) bool {
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
