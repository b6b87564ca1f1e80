// Package nav derives an ordered, positioned navigation hierarchy from a flat
// list of documents with relative paths.
package nav

import (
	"sort"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/document"
	"git.home.luguber.info/inful/docsite/internal/util/titles"
)

// ItemType discriminates navigation items.
type ItemType string

const (
	TypeLink     ItemType = "link"
	TypeCategory ItemType = "category"
)

// Item is one node of the navigation output: either a link to a document or a
// category containing an ordered child sequence.
type Item struct {
	Type        ItemType `json:"type"`
	Label       string   `json:"label"`
	Target      string   `json:"target,omitempty"`   // links only
	Position    *int     `json:"position,omitempty"` // links only, explicit sidebar position
	Items       []Item   `json:"items,omitempty"`    // categories only
	Collapsed   bool     `json:"collapsed,omitempty"`
	Collapsible bool     `json:"collapsible,omitempty"`
}

// node is the transient in-memory tree used during construction: leaf entries
// placed directly under the node plus a name-keyed child map.
type node struct {
	leaves   []*document.Document
	children map[string]*node
	order    []string
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

func (n *node) child(name string) *node {
	if c, ok := n.children[name]; ok {
		return c
	}
	c := newNode()
	n.children[name] = c
	n.order = append(n.order, name)
	return c
}

// Build converts the document list into the navigation output sequence. Each
// document is inserted by walking one tree node per path segment except the
// final filename segment.
func Build(docs []*document.Document) []Item {
	root := newNode()
	for _, d := range docs {
		segments := strings.Split(strings.ReplaceAll(d.RelativePath, "\\", "/"), "/")
		n := root
		for _, seg := range segments[:len(segments)-1] {
			n = n.child(seg)
		}
		n.leaves = append(n.leaves, d)
	}
	return convert(root)
}

// convert emits links for leaf entries, then one default-collapsed category
// per child node, then applies the sibling sort rule.
func convert(n *node) []Item {
	items := make([]Item, 0, len(n.leaves)+len(n.children))

	for _, d := range n.leaves {
		items = append(items, Item{
			Type:     TypeLink,
			Label:    d.Title,
			Target:   d.Permalink,
			Position: positionOf(d.Metadata),
		})
	}

	for _, name := range n.order {
		items = append(items, Item{
			Type:        TypeCategory,
			Label:       titles.Humanize(name),
			Items:       convert(n.children[name]),
			Collapsed:   true,
			Collapsible: true,
		})
	}

	sortSiblings(items)
	return items
}

// sortSiblings orders one sibling list: explicitly positioned items ascending
// by position, then unpositioned items alphabetically by label. A positioned
// item always precedes an unpositioned one.
func sortSiblings(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := items[i].Position, items[j].Position
		switch {
		case pi != nil && pj != nil:
			return *pi < *pj
		case pi != nil:
			return true
		case pj != nil:
			return false
		default:
			return items[i].Label < items[j].Label
		}
	})
}

// positionOf extracts an explicit sidebar position from document metadata.
// Numeric values are used as-is, numeric strings are parsed as integers,
// anything else yields no position.
func positionOf(meta map[string]any) *int {
	v, ok := meta["sidebarPosition"]
	if !ok {
		v, ok = meta["sidebar_position"]
	}
	if !ok {
		return nil
	}

	switch p := v.(type) {
	case int:
		return &p
	case float64:
		n := int(p)
		return &n
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			return &n
		}
	}
	return nil
}
