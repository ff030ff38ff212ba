package group

import (
	"sort"
	"strings"

	"github.com/harrison/grob/internal/keys"
	"github.com/harrison/grob/internal/tags"
)

// Member holds the path or paths one tag contributed to a group. Multiple
// mirrors the tag's allow_multiple flag and tells formatters whether to
// render a single path or a list.
type Member struct {
	Paths    []string
	Multiple bool
}

// Single returns the sole path of a non-multiple member.
func (m Member) Single() string { return m.Paths[0] }

// Group maps tag names to the path(s) matched for one logical record.
type Group map[string]Member

// Grouped is the join result: groups keyed by their formatted group key.
// Keys preserves insertion order so row-oriented formats stay
// deterministic.
type Grouped struct {
	Keys   []string
	Groups map[string]Group
}

// KeyFormatter renders a raw multi-part key as the externally visible
// group key.
type KeyFormatter func(keys.Key) string

// ByKey joins the collections into grouped records.
//
// Multi-part collections establish the primary groups. Distributable
// collections are then broadcast into every group sharing their reduced
// key, in ascending order of their own key-part count so broader
// distributions are resolved before narrower ones; on overlap the last
// write wins. Keys are then formatted, and single-part collections merge
// last under their native keys, creating groups where none exist.
//
// Groups are not validated for completeness: a group may lack entries for
// tags that never matched a file with its key.
func ByKey(collections []*Collection, formatter KeyFormatter) *Grouped {
	var multiPart, distributable, singlePart []*Collection
	for _, c := range collections {
		switch c.Tag.Kind() {
		case tags.Distributable:
			distributable = append(distributable, c)
		case tags.SinglePart:
			singlePart = append(singlePart, c)
		case tags.MultiPart:
			multiPart = append(multiPart, c)
		}
	}
	sort.SliceStable(distributable, func(i, j int) bool {
		return len(distributable[i].Tag.Parser.KeyParts()) < len(distributable[j].Tag.Parser.KeyParts())
	})

	rawKeys := make(map[string]keys.Key)
	groups := make(map[string]Group)
	var order []string
	for _, c := range multiPart {
		for _, id := range c.order {
			e := c.entries[id]
			g, ok := groups[id]
			if !ok {
				g = make(Group)
				groups[id] = g
				rawKeys[id] = e.key
				order = append(order, id)
			}
			g[c.Tag.Name] = Member{Paths: e.paths, Multiple: c.Tag.AllowMultiple}
		}
	}

	for _, c := range distributable {
		for _, id := range order {
			joinKey := rawKeys[id].Without(c.Tag.DistributeOver...)
			if e, ok := c.entries[joinKey.ID()]; ok {
				groups[id][c.Tag.Name] = Member{Paths: e.paths, Multiple: c.Tag.AllowMultiple}
			}
		}
	}

	out := &Grouped{Groups: make(map[string]Group, len(groups))}
	for _, id := range order {
		key := formatter(rawKeys[id])
		if _, exists := out.Groups[key]; !exists {
			out.Keys = append(out.Keys, key)
		}
		out.Groups[key] = groups[id]
	}

	for _, c := range singlePart {
		for _, id := range c.order {
			e := c.entries[id]
			g, ok := out.Groups[e.native]
			if !ok {
				g = make(Group)
				out.Groups[e.native] = g
				out.Keys = append(out.Keys, e.native)
			}
			g[c.Tag.Name] = Member{Paths: e.paths, Multiple: c.Tag.AllowMultiple}
		}
	}
	return out
}

// DefaultFormatter builds the standard key formatter for a tag list: the
// captured values joined with "_", ordered by first appearance of their
// part names across the tags' patterns.
func DefaultFormatter(tagList []tags.Tag) KeyFormatter {
	var partOrder []string
	seen := make(map[string]bool)
	for _, tag := range tagList {
		for _, part := range tag.Parser.KeyParts() {
			if !seen[part] {
				seen[part] = true
				partOrder = append(partOrder, part)
			}
		}
	}
	return func(key keys.Key) string {
		values := make([]string, 0, key.Len())
		for _, part := range partOrder {
			if v, ok := key.Value(part); ok {
				values = append(values, v)
			}
		}
		return strings.Join(values, "_")
	}
}
