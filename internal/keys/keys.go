// Package keys defines the multi-part keys extracted from matched paths.
//
// A Key is the identity shared by all files belonging to one logical
// record: the set of named values a path pattern captured from a file
// path. Keys compare structurally, regardless of the order their parts
// were captured in.
package keys

import (
	"fmt"
	"sort"
	"strings"
)

// sep separates encoded name=value pairs in a key's canonical ID. The unit
// separator never appears in part names and is not expected in paths.
const sep = "\x1f"

// Key is an immutable set of named part values captured from one matched
// path. Two keys are equal iff they hold the same part names with equal
// values. The zero value is the empty key.
type Key struct {
	names  []string
	values map[string]string
	id     string
}

// New builds a Key from part name/value pairs. The input map is copied.
func New(parts map[string]string) Key {
	names := make([]string, 0, len(parts))
	values := make(map[string]string, len(parts))
	for name, value := range parts {
		names = append(names, name)
		values[name] = value
	}
	sort.Strings(names)
	return Key{names: names, values: values, id: encode(names, values)}
}

func encode(names []string, values map[string]string) string {
	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = name + "=" + values[name]
	}
	return strings.Join(pairs, sep)
}

// ID returns the canonical encoding of the key. IDs are stable across
// construction order and usable as Go map keys.
func (k Key) ID() string { return k.id }

// Len returns the number of parts in the key.
func (k Key) Len() int { return len(k.names) }

// Names returns the part names in sorted order.
func (k Key) Names() []string {
	out := make([]string, len(k.names))
	copy(out, k.names)
	return out
}

// Value returns the captured value for a part name.
func (k Key) Value(name string) (string, bool) {
	value, ok := k.values[name]
	return value, ok
}

// Without returns a copy of the key with the named parts removed. Names
// not present in the key are ignored.
func (k Key) Without(names ...string) Key {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}
	parts := make(map[string]string, len(k.names))
	for name, value := range k.values {
		if !drop[name] {
			parts[name] = value
		}
	}
	return New(parts)
}

// Equal reports whether two keys hold the same parts with equal values.
func (k Key) Equal(other Key) bool { return k.id == other.id }

// String renders the key for error messages, e.g. {crop: "0", id: "1"}.
func (k Key) String() string {
	pairs := make([]string, len(k.names))
	for i, name := range k.names {
		pairs[i] = fmt.Sprintf("%s: %q", name, k.values[name])
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
