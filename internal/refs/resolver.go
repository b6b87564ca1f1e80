// Package refs detects cross-document references inside a rendered body,
// resolves them to navigable targets, validates them against the document
// index, rewrites the body and produces diagnostics for broken references.
package refs

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/document"
)

// Config holds the reference syntax configuration.
type Config struct {
	SourceRoot string // source-root path segment, e.g. "docs"
	Scheme     string // scheme token without the colon, e.g. "doc"
	Extension  string // source file extension including the dot, e.g. ".md"
	BasePath   string // permalink base path, e.g. "/docs"
}

// Resolver recognizes three textual reference forms, all ending in the
// configured extension:
//
//	./relative/path.EXT
//	[./]sourceRoot/relative/path.EXT
//	scheme:relative/path.EXT
//
// Each form may appear as the destination of an HTML hyperlink or as bare
// text. A single combined pattern is scanned once over the body; the
// hyperlink alternative takes priority so a link destination is never
// re-matched as a bare reference.
type Resolver struct {
	cfg     Config
	pattern *regexp.Regexp
}

// NewResolver compiles the combined reference pattern for the given config.
func NewResolver(cfg Config) *Resolver {
	ref := fmt.Sprintf(`(?:%s:|(?:\./)?%s/|\./)[^\s"'<>)]+%s`,
		regexp.QuoteMeta(cfg.Scheme),
		regexp.QuoteMeta(cfg.SourceRoot),
		regexp.QuoteMeta(cfg.Extension))

	// Hyperlink alternative first: at the position of href=" it consumes the
	// whole destination, so the bare alternative cannot match inside it.
	pattern := regexp.MustCompile(`(href=")(` + ref + `)(")|(` + ref + `)`)

	return &Resolver{cfg: cfg, pattern: pattern}
}

// Resolve rewrites every recognized reference in body and returns the
// rewritten body plus one CrossReference record per match, in match order.
// Hyperlink matches have only their destination replaced; bare matches are
// replaced by the resolved target string.
//
// Invalid references are still resolved to their would-be permalink.
func (r *Resolver) Resolve(body string, idx *document.Index) (string, []document.CrossReference) {
	refs := make([]document.CrossReference, 0)

	rewritten := r.pattern.ReplaceAllStringFunc(body, func(match string) string {
		sub := r.pattern.FindStringSubmatch(match)
		if sub[2] != "" {
			cr := r.resolveOne(sub[2], idx)
			refs = append(refs, cr)
			return sub[1] + cr.Resolved + sub[3]
		}
		cr := r.resolveOne(sub[4], idx)
		refs = append(refs, cr)
		return cr.Resolved
	})

	return rewritten, refs
}

func (r *Resolver) resolveOne(ref string, idx *document.Index) document.CrossReference {
	rel := strings.ReplaceAll(r.stripPrefix(ref), "\\", "/")

	_, valid := idx.Lookup(rel)

	target := strings.TrimSuffix(r.cfg.BasePath, "/") + "/" + strings.TrimSuffix(rel, r.cfg.Extension)

	return document.CrossReference{
		Reference: ref,
		Resolved:  target,
		IsValid:   valid,
	}
}

// stripPrefix removes, in order of precedence, the scheme prefix, the
// source-root segment (with or without a leading "./"), or a leading "./",
// yielding a path relative to the source root.
func (r *Resolver) stripPrefix(ref string) string {
	if scheme := r.cfg.Scheme + ":"; strings.HasPrefix(ref, scheme) {
		return ref[len(scheme):]
	}
	root := r.cfg.SourceRoot + "/"
	if strings.HasPrefix(ref, "./"+root) {
		return ref[2+len(root):]
	}
	if strings.HasPrefix(ref, root) {
		return ref[len(root):]
	}
	return strings.TrimPrefix(ref, "./")
}
