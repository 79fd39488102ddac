package render

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Basic renders a small Markdown subset without a full engine.
//
// Lines are first grouped into blocks (fenced code, labeled lines,
// headings, lists, blockquotes, paragraphs); the text of each block is
// then scanned once for inline spans. Every piece of source text is
// escaped exactly once, so markup never matches twice.
type Basic struct {
	// HardWraps joins paragraph lines with <br>.
	HardWraps bool
}

var (
	basicFence     = regexp.MustCompile("^[ ]{0,3}```\\s*(\\w*)")
	basicLabeled   = regexp.MustCompile(`^\*\*([^*:]+):\*\*\s+(.+)$`)
	basicHeading   = regexp.MustCompile(`^(#{3,5})\s+(.+)$`)
	basicListItem  = regexp.MustCompile(`^\s*[-*+]\s+(.+)$`)
	basicQuoteLine = regexp.MustCompile(`^>\s?(.+)$`)
)

// Render implements Engine.
func (b Basic) Render(markdown string) (string, error) {
	var out strings.Builder
	var para []string

	flush := func() {
		if len(para) == 0 {
			return
		}
		sep := "\n"
		if b.HardWraps {
			sep = "<br>\n"
		}
		parts := make([]string, len(para))
		for i, l := range para {
			parts[i] = renderInline(strings.TrimSpace(l))
		}
		out.WriteString("<p>" + strings.Join(parts, sep) + "</p>\n")
		para = nil
	}

	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := basicFence.FindStringSubmatch(line); m != nil {
			if end := closingFence(lines, i+1); end >= 0 {
				flush()
				writeCode(&out, m[1], lines[i+1:end])
				i = end
				continue
			}
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if m := basicLabeled.FindStringSubmatch(line); m != nil {
			flush()
			label := strings.TrimSpace(m[1])
			out.WriteString(`<div class="` + labelClass(label) + `"><strong>` +
				html.EscapeString(label) + ":</strong> " + renderInline(m[2]) + "</div>\n")
			continue
		}

		if m := basicHeading.FindStringSubmatch(line); m != nil {
			flush()
			tag := "h" + string(rune('0'+len(m[1])))
			out.WriteString("<" + tag + ">" + renderInline(strings.TrimSpace(m[2])) + "</" + tag + ">\n")
			continue
		}

		if basicListItem.MatchString(line) {
			flush()
			out.WriteString("<ul>")
			for ; i < len(lines); i++ {
				m := basicListItem.FindStringSubmatch(lines[i])
				if m == nil {
					break
				}
				out.WriteString("<li>" + renderInline(strings.TrimSpace(m[1])) + "</li>")
			}
			out.WriteString("</ul>\n")
			i--
			continue
		}

		if m := basicQuoteLine.FindStringSubmatch(line); m != nil {
			flush()
			out.WriteString("<blockquote>" + renderInline(strings.TrimSpace(m[1])) + "</blockquote>\n")
			continue
		}

		para = append(para, line)
	}
	flush()

	return out.String(), nil
}

// closingFence returns the index of the first ``` line at or after from, or -1.
func closingFence(lines []string, from int) int {
	for j := from; j < len(lines); j++ {
		if strings.HasPrefix(strings.TrimSpace(lines[j]), "```") {
			return j
		}
	}
	return -1
}

func writeCode(out *strings.Builder, lang string, body []string) {
	code := strings.TrimSpace(strings.Join(body, "\n"))
	out.WriteString("<pre><code")
	if lang != "" {
		out.WriteString(` class="language-` + html.EscapeString(lang) + `"`)
	}
	out.WriteString(">" + html.EscapeString(code) + "</code></pre>\n")
}

// labelClass classifies a labeled line by its label.
func labelClass(label string) string {
	switch {
	case strings.Contains(label, "Theorem"):
		return "theorem"
	case strings.Contains(label, "Proof"):
		return "proof"
	default:
		return "def"
	}
}

// renderInline scans s once, emitting code, strong, em and link spans.
// Unterminated markers are emitted as literal text.
func renderInline(s string) string {
	var out strings.Builder
	text := 0 // start of pending literal text

	emitText := func(end int) {
		if end > text {
			out.WriteString(html.EscapeString(s[text:end]))
		}
	}

	for i := 0; i < len(s); {
		switch {
		case s[i] == '`':
			if j := strings.IndexByte(s[i+1:], '`'); j > 0 {
				emitText(i)
				out.WriteString("<code>" + html.EscapeString(s[i+1:i+1+j]) + "</code>")
				i += j + 2
				text = i
				continue
			}
		case strings.HasPrefix(s[i:], "**"):
			if j := strings.Index(s[i+2:], "**"); j > 0 {
				emitText(i)
				out.WriteString("<strong>" + renderInline(s[i+2:i+2+j]) + "</strong>")
				i += j + 4
				text = i
				continue
			}
			// Unterminated "**": skip both so the second is not read as italic
			i += 2
			continue
		case s[i] == '*':
			if j := strings.IndexByte(s[i+1:], '*'); j > 0 && s[i+1] != ' ' {
				emitText(i)
				out.WriteString("<em>" + renderInline(s[i+1:i+1+j]) + "</em>")
				i += j + 2
				text = i
				continue
			}
		case s[i] == '[':
			if label, href, n, ok := scanLink(s[i:]); ok {
				emitText(i)
				if safeHref(href) {
					out.WriteString(`<a href="` + html.EscapeString(href) + `">` + renderInline(label) + "</a>")
				} else {
					out.WriteString(renderInline(label))
				}
				i += n
				text = i
				continue
			}
		}
		i++
	}
	emitText(len(s))
	return out.String()
}

// scanLink parses "[label](href)" at the start of s and returns its length.
func scanLink(s string) (label, href string, n int, ok bool) {
	closeLabel := strings.Index(s, "](")
	if closeLabel <= 1 {
		return "", "", 0, false
	}
	if strings.ContainsRune(s[1:closeLabel], ']') {
		return "", "", 0, false
	}
	rest := s[closeLabel+2:]
	closeHref := strings.IndexByte(rest, ')')
	if closeHref <= 0 {
		return "", "", 0, false
	}
	return s[1:closeLabel], strings.TrimSpace(rest[:closeHref]), closeLabel + 2 + closeHref + 1, true
}

// safeHref rejects script-bearing URL schemes.
func safeHref(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	for _, scheme := range []string{"javascript:", "vbscript:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	return true
}
