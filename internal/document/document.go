// Package document defines the shared data model for the content pipeline:
// documents, their table of contents, cross-document references, and the
// read-only index used for reference validation.
package document

import "strings"

// TOCEntry is one heading in a document's table of contents.
type TOCEntry struct {
	Text   string `json:"text"`
	Anchor string `json:"anchor"`
	Level  int    `json:"level"`
}

// Document is one successfully processed source file, now a navigable unit.
//
// Content is frozen once the index phase begins; only Body is rewritten (once)
// by reference resolution.
type Document struct {
	ID           string         // unique, derived from RelativePath
	RelativePath string         // slash-separated path relative to the source root
	Title        string
	RawBody      string         // body after metadata extraction, before rendering
	Body         string         // rendered body, rewritten once by reference resolution
	Metadata     map[string]any
	Permalink    string
	TOC          []TOCEntry
}

// CrossReference records one detected mention of another document. Duplicates
// are permitted: the same literal reference appearing twice yields two records.
type CrossReference struct {
	Reference string // original reference text as matched
	Resolved  string // resolved target (best-effort permalink even when invalid)
	IsValid   bool
}

// Index is a read-only registry of documents keyed by normalized relative
// path. It is built once, after all documents are produced, and never mutated
// afterwards.
type Index struct {
	byPath map[string]*Document
	paths  []string
}

// NewIndex builds an index over the given documents. Each document is
// registered under its relative path both with and without a leading "./"
// so lookups do not depend on how the reference was written.
func NewIndex(docs []*Document) *Index {
	ix := &Index{byPath: make(map[string]*Document, len(docs)*2)}
	for _, d := range docs {
		rel := normalizePath(d.RelativePath)
		if rel == "" {
			continue
		}
		if _, dup := ix.byPath[rel]; !dup {
			ix.paths = append(ix.paths, rel)
		}
		ix.byPath[rel] = d
		ix.byPath["./"+rel] = d
	}
	return ix
}

// Lookup resolves a relative path to a document. Both "p" and "./p" spellings
// are registered, so callers may pass either; backslash separators are
// normalized.
func (ix *Index) Lookup(rel string) (*Document, bool) {
	d, ok := ix.byPath[strings.ReplaceAll(rel, "\\", "/")]
	return d, ok
}

// Paths returns the known relative paths (without "./" prefix) in insertion
// order.
func (ix *Index) Paths() []string { return ix.paths }

// Len reports the number of indexed documents.
func (ix *Index) Len() int { return len(ix.paths) }

func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimPrefix(p, "./")
}
