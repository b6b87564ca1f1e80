package render

import (
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docsite/internal/document"
)

// ExtractTOC scans rendered HTML for heading elements carrying an anchor id
// and returns them in document order. Headings without an id are discarded.
func ExtractTOC(rendered string) []document.TOCEntry {
	root, err := html.Parse(strings.NewReader(rendered))
	if err != nil {
		return nil
	}

	var toc []document.TOCEntry
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				if id := getAttr(n, "id"); id != "" {
					toc = append(toc, document.TOCEntry{
						Text:   strings.TrimSpace(textContent(n)),
						Anchor: id,
						Level:  level,
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return toc
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
