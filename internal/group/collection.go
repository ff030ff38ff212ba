// Package group routes files into per-tag collections and joins the
// collections into grouped records.
package group

import (
	"fmt"

	"github.com/harrison/grob/internal/keys"
	"github.com/harrison/grob/internal/tags"
)

// DuplicateKeyError reports a second file mapping to an occupied key under
// a tag that does not allow multiple matches. It identifies the tag, the
// key and both paths so the caller can relax the pattern or switch the tag
// to allow_multiple.
type DuplicateKeyError struct {
	Tag      string
	Key      keys.Key
	Existing string
	Incoming string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("tag %q: key %s already holds %q, cannot add %q (mark the tag allow_multiple to collect both)",
		e.Tag, e.Key, e.Existing, e.Incoming)
}

// entry holds the file(s) collected for one key.
type entry struct {
	key keys.Key
	// native is the group key for single-part tags, whose match itself
	// identifies the group.
	native string
	paths  []string
}

// Collection accumulates the files matching one tag, keyed by the key each
// match produced. Insertion order is preserved so grouping stays
// deterministic for a given file order. Collections are built once per
// invocation and never merged.
type Collection struct {
	Tag     tags.Tag
	entries map[string]*entry
	order   []string
}

// NewCollection returns an empty collection for tag.
func NewCollection(tag tags.Tag) *Collection {
	return &Collection{Tag: tag, entries: make(map[string]*entry)}
}

// AddIfMatches matches file against the collection's tag. It reports false
// and leaves the collection unchanged when the file does not match. A
// second match on an occupied key under a non-multiple tag fails with
// *DuplicateKeyError.
func (c *Collection) AddIfMatches(file string) (bool, error) {
	key, ok := c.Tag.Parser.Match(file)
	if !ok {
		return false, nil
	}
	id := key.ID()
	native := ""
	if c.Tag.Kind() == tags.SinglePart {
		// With no key parts the matched path is the group identity.
		native = file
		id = file
	}
	e, exists := c.entries[id]
	if !exists {
		c.entries[id] = &entry{key: key, native: native, paths: []string{file}}
		c.order = append(c.order, id)
		return true, nil
	}
	if !c.Tag.AllowMultiple {
		return false, &DuplicateKeyError{Tag: c.Tag.Name, Key: key, Existing: e.paths[0], Incoming: file}
	}
	e.paths = append(e.paths, file)
	return true, nil
}

// Len returns the number of distinct keys in the collection.
func (c *Collection) Len() int { return len(c.entries) }

// Files returns the total number of collected paths.
func (c *Collection) Files() int {
	n := 0
	for _, e := range c.entries {
		n += len(e.paths)
	}
	return n
}

// FindByTag routes each file into the collection of the first tag whose
// pattern matches it. Tag order is the caller's contract: a general
// pattern placed early shadows more specific patterns after it, so tags
// must be ordered from most to least specific. Files matching no tag are
// silently dropped.
func FindByTag(files []string, tagList []tags.Tag) ([]*Collection, error) {
	collections := make([]*Collection, len(tagList))
	for i, tag := range tagList {
		collections[i] = NewCollection(tag)
	}
	for _, file := range files {
		for _, c := range collections {
			added, err := c.AddIfMatches(file)
			if err != nil {
				return nil, err
			}
			if added {
				break
			}
		}
	}
	return collections, nil
}
