// Package format serializes grouped records to an output stream.
//
// The supported formats mirror the grouping tool's output surface: one
// JSON object keyed by group key, JSON lines, and comma- or tab-separated
// tables. The "human" format is recognized but not supported.
package format

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/harrison/grob/internal/group"
)

// Options configures how grouped records are rendered.
type Options struct {
	// TagNames orders columns and fields, and drives squeezing.
	TagNames []string
	// RelativeTo, when set, rewrites every path relative to this base
	// before formatting.
	RelativeTo string
	// Squeeze collapses each group to the single requested tag's value
	// when exactly one tag name is given.
	Squeeze bool
	// WithKeys includes the group key in each record.
	WithKeys bool
}

// Formatter writes grouped records in one concrete output format.
type Formatter interface {
	Format(w io.Writer, grouped *group.Grouped, opts Options) error
}

// New returns the formatter registered under name. The registry is an
// explicit mapping built per call, not package state.
func New(name string) (Formatter, error) {
	formatters := map[string]Formatter{
		"json":  jsonFormatter{},
		"jsonl": jsonlFormatter{},
		"csv":   tableFormatter{delimiter: ','},
		"tsv":   tableFormatter{delimiter: '\t'},
	}
	if f, ok := formatters[name]; ok {
		return f, nil
	}
	if name == "human" {
		return nil, fmt.Errorf(`output format "human" is not supported`)
	}
	return nil, fmt.Errorf("unknown output format %q (want json, jsonl, csv or tsv)", name)
}

// record is one group prepared for rendering: relativized and, when
// requested, squeezed down to a single tag's member.
type record struct {
	key      string
	group    group.Group
	squeezed *group.Member // nil member pointer when the tag is absent
}

// prepare relativizes paths and applies squeezing, returning the records
// in group order along with whether squeezing happened.
func prepare(grouped *group.Grouped, opts Options) ([]record, bool, error) {
	squeeze := opts.Squeeze && len(opts.TagNames) == 1
	records := make([]record, 0, len(grouped.Keys))
	for _, key := range grouped.Keys {
		g := restrict(grouped.Groups[key], opts.TagNames)
		if opts.RelativeTo != "" {
			rebased, err := relativize(g, opts.RelativeTo)
			if err != nil {
				return nil, false, err
			}
			g = rebased
		}
		rec := record{key: key, group: g}
		if squeeze {
			if m, ok := g[opts.TagNames[0]]; ok {
				rec.squeezed = &m
			}
		}
		records = append(records, rec)
	}
	return records, squeeze, nil
}

// restrict drops group members whose tag was not requested, so all
// formats honor the same tag selection.
func restrict(g group.Group, tagNames []string) group.Group {
	if len(tagNames) == 0 {
		return g
	}
	out := make(group.Group, len(tagNames))
	for _, tag := range tagNames {
		if m, ok := g[tag]; ok {
			out[tag] = m
		}
	}
	return out
}

// relativize rebases every path in the group, returning a copy.
func relativize(g group.Group, base string) (group.Group, error) {
	out := make(group.Group, len(g))
	for tag, m := range g {
		paths := make([]string, len(m.Paths))
		for i, p := range m.Paths {
			rel, err := filepath.Rel(base, p)
			if err != nil {
				return nil, fmt.Errorf("cannot make %q relative to %q: %w", p, base, err)
			}
			paths[i] = filepath.ToSlash(rel)
		}
		out[tag] = group.Member{Paths: paths, Multiple: m.Multiple}
	}
	return out, nil
}

// memberValue renders a member as a JSON-friendly value: a single string
// for non-multiple tags, a list of strings otherwise.
func memberValue(m group.Member) any {
	if m.Multiple {
		return m.Paths
	}
	return m.Paths[0]
}

// groupValue renders a whole group as tag name to path value(s).
func groupValue(g group.Group) map[string]any {
	out := make(map[string]any, len(g))
	for tag, m := range g {
		out[tag] = memberValue(m)
	}
	return out
}

// squeezedValue renders a squeezed record, nil when the tag is absent.
func squeezedValue(rec record) any {
	if rec.squeezed == nil {
		return nil
	}
	return memberValue(*rec.squeezed)
}
