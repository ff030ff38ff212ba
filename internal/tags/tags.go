// Package tags defines the named patterns that drive file routing and
// grouping.
package tags

import (
	"fmt"

	"github.com/harrison/grob/internal/parser"
)

// Kind discriminates the three tag variants the grouping engine handles.
type Kind int

const (
	// MultiPart tags capture one or more key parts; their keys establish
	// the primary set of groups.
	MultiPart Kind = iota
	// Distributable tags deliberately omit key parts present in other
	// tags' keys; each of their matches is broadcast into every group that
	// agrees on the reduced key.
	Distributable
	// SinglePart tags capture no key parts; the matched path itself is the
	// group key.
	SinglePart
)

// String returns the kind name for logs and error messages.
func (k Kind) String() string {
	switch k {
	case MultiPart:
		return "multi-part"
	case Distributable:
		return "distributable"
	case SinglePart:
		return "single-part"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Tag pairs a name with a compiled path pattern and its collection
// semantics. Tag names are unique within one invocation; the order of a
// tag list is the routing order.
type Tag struct {
	// Name identifies the tag in grouped records and error messages.
	Name string
	// Parser is the compiled pattern matched against candidate paths.
	Parser *parser.PathParser
	// AllowMultiple collects a list of paths per key instead of exactly
	// one; without it a second file on an occupied key is a hard error.
	AllowMultiple bool
	// DistributeOver names the key parts deliberately absent from this
	// tag's own key. Non-empty only for distributable tags.
	DistributeOver []string
}

// New compiles pattern and returns a tag with default collection
// semantics. Compile failures are *parser.CompileError wrapped with the
// tag name.
func New(name, pattern string) (Tag, error) {
	p, err := parser.New(pattern)
	if err != nil {
		return Tag{}, fmt.Errorf("tag %q: %w", name, err)
	}
	return Tag{Name: name, Parser: p}, nil
}

// Kind classifies the tag for the grouping engine.
func (t Tag) Kind() Kind {
	switch {
	case len(t.DistributeOver) > 0:
		return Distributable
	case len(t.Parser.KeyParts()) == 0:
		return SinglePart
	default:
		return MultiPart
	}
}
