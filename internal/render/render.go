// Package render converts document bodies to HTML. The Renderer interface is
// the pipeline's rendering collaborator boundary; GoldmarkRenderer is the
// default implementation and assigns stable anchor ids to headings.
package render

import (
	"bytes"
	"context"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
)

// Renderer abstracts how a document body is rendered. This allows swapping
// the in-process goldmark renderer with alternative strategies (no-op for
// tests, remote render service) without changing pipeline orchestration.
type Renderer interface {
	Render(ctx context.Context, name string, raw string) (string, error)
}

// GoldmarkRenderer renders Markdown to HTML with auto-generated heading ids.
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewGoldmarkRenderer constructs the default renderer. Heading anchor ids are
// derived from heading text, so they are stable across runs.
func NewGoldmarkRenderer() *GoldmarkRenderer {
	return &GoldmarkRenderer{
		md: goldmark.New(
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

func (g *GoldmarkRenderer) Render(_ context.Context, _ string, raw string) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(raw), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Fallback returns a literal, content-preserving wrapper for a body whose
// rendering failed. The document survives with its raw content visible.
func Fallback(raw string) string {
	return "<pre>" + html.EscapeString(raw) + "</pre>"
}
