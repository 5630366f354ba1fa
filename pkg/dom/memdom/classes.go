package memdom

import (
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// Classes is an ordered class list.
type Classes struct {
	names []string
}

var _ dom.ClassList = (*Classes)(nil)

// Add appends names that are not already present. Blank names are ignored.
func (c *Classes) Add(names ...string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || c.Contains(name) {
			continue
		}
		c.names = append(c.names, name)
	}
}

// Remove drops names from the list.
func (c *Classes) Remove(names ...string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		for i, existing := range c.names {
			if existing == name {
				c.names = append(c.names[:i], c.names[i+1:]...)
				break
			}
		}
	}
}

// Toggle adds name when force is true and removes it otherwise.
func (c *Classes) Toggle(name string, force bool) {
	if force {
		c.Add(name)
		return
	}
	c.Remove(name)
}

// Contains reports whether name is present.
func (c *Classes) Contains(name string) bool {
	for _, existing := range c.names {
		if existing == name {
			return true
		}
	}
	return false
}

// String renders the list the way the class attribute would.
func (c *Classes) String() string {
	return strings.Join(c.names, " ")
}

// Node is a plain element with a class list (body, overlay).
type Node struct {
	id      string
	classes Classes
}

// ID returns the element id.
func (n *Node) ID() string { return n.id }

// ClassList implements dom.Element.
func (n *Node) ClassList() dom.ClassList { return &n.classes }

// Region is an error display area.
type Region struct {
	Node
	markup string
}

var _ dom.Region = (*Region)(nil)

// SetInnerHTML replaces the rendered markup.
func (r *Region) SetInnerHTML(markup string) { r.markup = markup }

// InnerHTML returns the current markup.
func (r *Region) InnerHTML() string { return r.markup }

// Container groups a control with its error region.
type Container struct {
	regions map[string]*Region
}

var _ dom.Container = (*Container)(nil)

// Query returns the region registered under selector. A missing region
// returns a nil interface so callers can compare against nil.
func (c *Container) Query(selector string) dom.Region {
	if c == nil {
		return nil
	}
	region, ok := c.regions[strings.TrimSpace(selector)]
	if !ok || region == nil {
		return nil
	}
	return region
}
