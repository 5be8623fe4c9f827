// Package catalog describes the browsable sections: their display names,
// asset locations and ordered image lists.
package catalog

import (
	"errors"
	"fmt"

	"github.com/example/galleria/internal/arrow"
)

// ErrUnknownSection is returned when a key is not present in the catalog.
var ErrUnknownSection = errors.New("unknown section")

// Section is one gallery: an ordered list of images under a common path.
type Section struct {
	Key    string
	Name   string
	Path   string
	Images []string
	// Arrow, when set, positions the floating next control per image.
	Arrow *arrow.Table
}

// Len returns the number of images in the section.
func (s *Section) Len() int { return len(s.Images) }

// AssetPath returns the address of image i: the section path followed by
// the file name.
func (s *Section) AssetPath(i int) string { return s.Path + s.Images[i] }

// HasArrow reports whether the section uses the floating next control.
func (s *Section) HasArrow() bool { return s.Arrow.Len() > 0 }

// Entry is a key/name pair for populating a section selector.
type Entry struct {
	Key  string
	Name string
}

// Catalog is a read-only, ordered set of sections.
type Catalog struct {
	order    []string
	sections map[string]*Section
}

// New builds a catalog, keeping the given order. Keys must be non-empty and
// unique.
func New(sections ...*Section) (*Catalog, error) {
	c := &Catalog{sections: make(map[string]*Section, len(sections))}
	for _, s := range sections {
		if s == nil {
			continue
		}
		if s.Key == "" {
			return nil, fmt.Errorf("section %q: empty key", s.Name)
		}
		if _, dup := c.sections[s.Key]; dup {
			return nil, fmt.Errorf("section %q: duplicate key", s.Key)
		}
		c.sections[s.Key] = s
		c.order = append(c.order, s.Key)
	}
	return c, nil
}

// Lookup returns the section for key.
func (c *Catalog) Lookup(key string) (*Section, bool) {
	s, ok := c.sections[key]
	return s, ok
}

// Get is Lookup returning ErrUnknownSection for missing keys.
func (c *Catalog) Get(key string) (*Section, error) {
	if s, ok := c.sections[key]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSection, key)
}

// Keys lists section keys in declaration order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Entries lists (key, name) pairs in declaration order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, Entry{Key: k, Name: c.sections[k].Name})
	}
	return out
}

// Len returns the number of sections.
func (c *Catalog) Len() int { return len(c.order) }

// Default returns the first declared section, or nil for an empty catalog.
func (c *Catalog) Default() *Section {
	if len(c.order) == 0 {
		return nil
	}
	return c.sections[c.order[0]]
}

// IndexOf returns the declaration position of key, or -1.
func (c *Catalog) IndexOf(key string) int {
	for i, k := range c.order {
		if k == key {
			return i
		}
	}
	return -1
}
