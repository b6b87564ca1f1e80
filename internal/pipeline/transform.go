package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/document"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metadata"
	"git.home.luguber.info/inful/docsite/internal/render"
	"git.home.luguber.info/inful/docsite/internal/util/titles"
)

var h1Pattern = regexp.MustCompile(`(?m)^# (.+)$`)

// transformOne turns one source file into a Document: metadata extraction,
// title selection, permalink computation, rendering and TOC extraction.
// Panics are converted to errors so one bad document cannot take down the
// batch.
func (o *Orchestrator) transformOne(ctx context.Context, rel string) (doc *document.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transform panic: %v", r)
		}
	}()

	full := filepath.Join(o.cfg.SourceRoot, filepath.FromSlash(rel))
	raw, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	meta, body := metadata.ParseWithNormalization(string(raw))

	relSlash := strings.ReplaceAll(filepath.ToSlash(rel), "\\", "/")
	id := strings.TrimSuffix(relSlash, o.cfg.Extension)
	permalink := strings.TrimSuffix(o.cfg.BasePath, "/") + "/" + id

	rendered, rerr := o.renderer.Render(ctx, relSlash, body)
	if rerr != nil {
		// Rendering failures degrade to a literal wrapper; the document survives.
		slog.Warn("renderer failed, using fallback",
			logfields.Document(id), logfields.Error(rerr))
		rendered = render.Fallback(body)
	}

	return &document.Document{
		ID:           id,
		RelativePath: relSlash,
		Title:        o.titleFor(meta, body, relSlash),
		RawBody:      body,
		Body:         rendered,
		Metadata:     meta,
		Permalink:    permalink,
		TOC:          render.ExtractTOC(rendered),
	}, nil
}

// titleFor selects a document title by priority: explicit metadata title,
// explicit metadata description, first level-1 heading in the raw body,
// humanized file base name.
func (o *Orchestrator) titleFor(meta map[string]any, body, rel string) string {
	if t, ok := meta["title"].(string); ok && t != "" {
		return t
	}
	if d, ok := meta["description"].(string); ok && d != "" {
		return d
	}
	if m := h1Pattern.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	base := strings.TrimSuffix(path.Base(rel), o.cfg.Extension)
	return titles.Humanize(base)
}
