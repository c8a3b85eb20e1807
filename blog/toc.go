package blog

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TocItem is one heading of a rendered post.
type TocItem struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// firstH1 matches the first top-level heading. The page header renders
// the post title, so the body copy is dropped.
var firstH1 = regexp.MustCompile(`(?is)<h1[^>]*>.*?</h1>`)

var (
	nonWord      = regexp.MustCompile(`[^\w\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	repeatedDash = regexp.MustCompile(`-+`)
)

// StripFirstHeading removes exactly the first <h1>...</h1> element.
func StripFirstHeading(content string) string {
	loc := firstH1.FindStringIndex(content)
	if loc == nil {
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(content[:loc[0]] + content[loc[1]:])
}

// HeadingID derives an anchor id from heading text.
func HeadingID(text string) string {
	id := strings.ToLower(text)
	id = nonWord.ReplaceAllString(id, "")
	id = whitespace.ReplaceAllString(id, "-")
	id = repeatedDash.ReplaceAllString(id, "-")
	return strings.TrimSpace(id)
}

// TableOfContents scans h1–h6 in document order. Headings without an id
// get one derived from their text; the returned HTML carries those ids so
// the entries link to real anchors. Content whose headings all have ids
// is returned unchanged.
func TableOfContents(content string) ([]TocItem, string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(content), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse post html: %w", err)
	}

	items := []TocItem{}
	rewritten := false
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if level := headingLevel(n); level > 0 {
			text := textContent(n)
			id := getAttr(n, "id")
			if id == "" {
				id = HeadingID(text)
				n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: id})
				rewritten = true
			}
			items = append(items, TocItem{ID: id, Text: text, Level: level})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	if !rewritten {
		return items, content, nil
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return nil, "", fmt.Errorf("failed to render post html: %w", err)
		}
	}
	return items, buf.String(), nil
}

func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
