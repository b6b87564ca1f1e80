package refs

import (
	"fmt"
	"path"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/document"
)

const (
	maxSuggestions = 3
	maxKnownPaths  = 5
)

// Diagnostics emits one warning message per invalid reference, containing the
// source document id and the original reference text, up to three fuzzy
// suggestions, and a sample of known document paths.
func (r *Resolver) Diagnostics(refs []document.CrossReference, sourceID string, idx *document.Index) []string {
	msgs := make([]string, 0)
	for _, cr := range refs {
		if cr.IsValid {
			continue
		}
		msgs = append(msgs, r.diagnose(cr, sourceID, idx))
	}
	return msgs
}

func (r *Resolver) diagnose(cr document.CrossReference, sourceID string, idx *document.Index) string {
	var b strings.Builder
	fmt.Fprintf(&b, "document %s has a broken reference %q", sourceID, cr.Reference)

	if suggestions := r.Suggest(cr.Reference, idx); len(suggestions) > 0 {
		fmt.Fprintf(&b, "; did you mean %s", strings.Join(suggestions, ", "))
	}

	known := idx.Paths()
	shown := known
	if len(shown) > maxKnownPaths {
		shown = shown[:maxKnownPaths]
	}
	prefixed := make([]string, len(shown))
	for i, p := range shown {
		prefixed[i] = "./" + p
	}
	fmt.Fprintf(&b, "; known documents: %s", strings.Join(prefixed, ", "))
	if extra := len(known) - maxKnownPaths; extra > 0 {
		fmt.Fprintf(&b, " (and %d more)", extra)
	}

	return b.String()
}

// Suggest returns up to three known paths whose basename (case-insensitive,
// extension stripped) equals the broken reference's basename or contains it
// as a substring either way. All qualifying suggestions rank equally; the
// first three in index order win.
func (r *Resolver) Suggest(ref string, idx *document.Index) []string {
	want := r.basename(ref)
	if want == "" {
		return nil
	}

	suggestions := make([]string, 0, maxSuggestions)
	for _, known := range idx.Paths() {
		have := r.basename(known)
		if have == want || strings.Contains(have, want) || strings.Contains(want, have) {
			suggestions = append(suggestions, "./"+known)
			if len(suggestions) == maxSuggestions {
				break
			}
		}
	}
	return suggestions
}

func (r *Resolver) basename(ref string) string {
	rel := strings.ReplaceAll(r.stripPrefix(ref), "\\", "/")
	base := path.Base(strings.TrimSuffix(rel, r.cfg.Extension))
	if base == "." || base == "/" {
		return ""
	}
	return strings.ToLower(base)
}
