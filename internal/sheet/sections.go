package sheet

import (
	"regexp"
	"strings"
)

// IntroductionTitle names the implicit section holding lines before the
// first heading.
const IntroductionTitle = "Introduction"

// headingPrefix starts a new section when found at the beginning of a line.
const headingPrefix = "## "

// Section is a titled slice of a sheet body.
type Section struct {
	Title string   `json:"title"`
	Lines []string `json:"-"`
}

// Content returns the section body lines joined by newlines.
func (s Section) Content() string {
	return strings.Join(s.Lines, "\n")
}

// fencePattern matches fenced code block delimiters (``` or ~~~) at the start of a line,
// allowing 0-3 spaces of indentation. Captures the fence characters separately.
var fencePattern = regexp.MustCompile("^[ ]{0,3}(`{3,}|~{3,})")

// fenceTracker follows open/close state of fenced code blocks line by line.
// A closing fence must use the same character and be at least as long as the opener.
type fenceTracker struct {
	open     bool
	openChar byte
	openLen  int
}

// feed consumes one line and reports whether that line is inside a fence
// (delimiters included).
func (f *fenceTracker) feed(line string) bool {
	m := fencePattern.FindStringSubmatch(line)
	if m == nil {
		return f.open
	}
	chars := m[1]
	if !f.open {
		f.open = true
		f.openChar = chars[0]
		f.openLen = len(chars)
		return true
	}
	if chars[0] == f.openChar && len(chars) >= f.openLen {
		f.open = false
	}
	return true
}

// Split divides text into ordered sections on level-2 headings.
//
// Lines before the first heading are collected into a leading
// "Introduction" section, created only if such a line exists. Headings
// inside fenced code blocks are treated as body lines.
func Split(text string) []Section {
	var sections []Section
	var fences fenceTracker
	current := -1

	for _, line := range strings.Split(text, "\n") {
		inFence := fences.feed(line)
		if !inFence && strings.HasPrefix(line, headingPrefix) {
			sections = append(sections, Section{
				Title: strings.TrimSpace(line[len(headingPrefix):]),
				Lines: []string{},
			})
			current = len(sections) - 1
			continue
		}
		if current < 0 {
			sections = append(sections, Section{Title: IntroductionTitle})
			current = 0
		}
		sections[current].Lines = append(sections[current].Lines, line)
	}

	return sections
}

// SectionTitles returns the titles of sections in order.
func SectionTitles(sections []Section) []string {
	titles := make([]string, len(sections))
	for i, s := range sections {
		titles[i] = s.Title
	}
	return titles
}

// FindSection returns the first section whose title matches name
// (case-insensitive, trimmed), or nil.
func FindSection(sections []Section, name string) *Section {
	want := strings.ToLower(strings.TrimSpace(name))
	for i := range sections {
		if strings.ToLower(sections[i].Title) == want {
			return &sections[i]
		}
	}
	return nil
}
