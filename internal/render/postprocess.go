package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var codeBlocks = cascadia.MustCompile("pre > code")

// PostProcess annotates rendered HTML for client-side highlighting and
// math typesetting. Code blocks gain the hljs class and a data-lang
// attribute. $$…$$ and $…$ in text outside code become math spans.
func PostProcess(fragment string) (string, error) {
	parent := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), parent)
	if err != nil {
		return "", fmt.Errorf("parse rendered html: %w", err)
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	for _, code := range codeBlocks.MatchAll(root) {
		annotateCode(code)
	}
	wrapMath(root)

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return buf.String(), nil
}

func annotateCode(n *html.Node) {
	class := attr(n, "class")
	lang := ""
	for _, c := range strings.Fields(class) {
		if l, ok := strings.CutPrefix(c, "language-"); ok {
			lang = l
			break
		}
	}
	if !strings.Contains(" "+class+" ", " hljs ") {
		class = strings.TrimSpace(class + " hljs")
	}
	setAttr(n, "class", class)
	if lang != "" {
		setAttr(n, "data-lang", lang)
	}
}

// skipMath lists elements whose text is never scanned for math.
var skipMath = map[atom.Atom]bool{
	atom.Pre: true, atom.Code: true, atom.Script: true, atom.Style: true, atom.Textarea: true,
}

func wrapMath(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.ElementNode:
			if !skipMath[c.DataAtom] && !hasClass(c, "math") {
				wrapMath(c)
			}
		case html.TextNode:
			if strings.Contains(c.Data, "$") {
				for _, repl := range splitMath(c.Data) {
					n.InsertBefore(repl, c)
				}
				n.RemoveChild(c)
			}
		}
		c = next
	}
}

// splitMath breaks text into plain text nodes and math span nodes.
func splitMath(s string) []*html.Node {
	var nodes []*html.Node
	text := func(t string) {
		if t != "" {
			nodes = append(nodes, &html.Node{Type: html.TextNode, Data: t})
		}
	}

	for {
		start, end, display := nextMath(s)
		if start < 0 {
			text(s)
			return nodes
		}
		text(s[:start])
		delim := 1
		class := "math math-inline"
		if display {
			delim = 2
			class = "math math-display"
		}
		span := &html.Node{
			Type:     html.ElementNode,
			Data:     "span",
			DataAtom: atom.Span,
			Attr:     []html.Attribute{{Key: "class", Val: class}},
		}
		span.AppendChild(&html.Node{Type: html.TextNode, Data: s[start+delim : end-delim]})
		nodes = append(nodes, span)
		s = s[end:]
	}
}

// nextMath finds the next math run in s. end is exclusive and includes
// the closing delimiter. Inline math must not start or end with a space,
// so prices like "$5 and $10" stay text.
func nextMath(s string) (start, end int, display bool) {
	for i := 0; i < len(s); i++ {
		if s[i] != '$' || (i > 0 && s[i-1] == '\\') {
			continue
		}
		if strings.HasPrefix(s[i:], "$$") {
			if j := strings.Index(s[i+2:], "$$"); j > 0 {
				return i, i + 2 + j + 2, true
			}
			i++
			continue
		}
		j := strings.IndexByte(s[i+1:], '$')
		if j <= 0 {
			continue
		}
		body := s[i+1 : i+1+j]
		if body[0] == ' ' || body[len(body)-1] == ' ' || strings.Contains(body, "\n") {
			continue
		}
		return i, i + 1 + j + 1, false
	}
	return -1, -1, false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
