package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/crib/internal/errors"
	"github.com/hpungsan/crib/internal/ops"
	"github.com/hpungsan/crib/internal/sheet"
	"github.com/hpungsan/crib/internal/style"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "sheets", "new", "search", "styles"
}

// ListPageData is the template data for the cheatsheet list page.
type ListPageData struct {
	PageData
	Items      []sheet.Summary
	Pagination ops.Pagination
}

// EditPageData is the template data for the create/edit form.
type EditPageData struct {
	PageData
	ID      string // empty when creating
	Title   string
	Content string
	Source  string // imported file name, if any
	Error   string
}

// ViewPageData is the template data for the cheatsheet viewer.
type ViewPageData struct {
	PageData
	Sheet    *ops.FetchOutput
	Sections []SectionView
	NotFound bool
}

// SectionView is one rendered section card.
type SectionView struct {
	Title string
	HTML  template.HTML
}

// SearchPageData is the template data for the search page.
type SearchPageData struct {
	PageData
	Query      string
	Items      []ops.SearchResultItem
	Pagination ops.Pagination
	HasQuery   bool
}

// ConfirmPageData is the template data for the delete confirmation page.
type ConfirmPageData struct {
	PageData
	ID         string
	SheetTitle string
}

// StylesPageData is the template data for the style configurator.
type StylesPageData struct {
	PageData
	Groups  []StyleGroup
	Presets []string
	Active  string
	Error   string
	Saved   bool
}

// StyleGroup is a titled set of configurator fields.
type StyleGroup struct {
	Name   string
	Fields []StyleField
}

// StyleField is one configurator input.
type StyleField struct {
	style.Key
	Value string
	Error string
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	log       logrus.FieldLogger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string, log logrus.FieldLogger) *Renderer {
	funcMap := template.FuncMap{
		"add":         func(a, b int) int { return a + b },
		"sub":         func(a, b int) int { return a - b },
		"formatDate":  formatDate,
		"formatChars": formatChars,
		"safeHTML":    func(s string) template.HTML { return template.HTML(s) },
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"list":    "list.html",
		"edit":    "edit.html",
		"view":    "view.html",
		"search":  "search.html",
		"confirm": "confirm.html",
		"styles":  "styles.html",
		"error":   "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		log:       log,
	}
}

// page returns PageData for a page with the renderer's version.
func (r *Renderer) page(title, nav string) PageData {
	return PageData{Title: title, Version: r.version, Nav: nav}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
// For HTMX requests, only the "content" block is rendered to avoid duplicating the layout.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	block := "layout"
	if req != nil && req.Header.Get("HX-Request") == "true" {
		block = "content"
	}
	r.renderBlock(w, status, name, block, data)
}

// renderBlock renders a specific named block from a page template.
func (r *Renderer) renderBlock(w http.ResponseWriter, status int, page, block string, data any) {
	t, ok := r.templates[page]
	if !ok {
		r.log.WithField("template", page).Error("template not found")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{"template": page, "block": block}).Error("template execution failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	cErr := asCribError(err)
	status := cErr.Status
	message := cErr.Message

	if status >= http.StatusInternalServerError {
		r.log.WithError(err).WithField("path", req.URL.Path).Error("request failed")
	}

	// HTMX request: return HTML fragment
	if req.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(message))
		return
	}

	// JSON request
	if wantsJSON(req) {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    string(cErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	// Full error page
	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData:   r.page(fmt.Sprintf("Error %d", status), ""),
		StatusCode: status,
		Message:    message,
	})
}

// asCribError unwraps err into a CribError, wrapping unknown errors as internal.
func asCribError(err error) *errors.CribError {
	var cErr *errors.CribError
	if !stderrors.As(err, &cErr) {
		cErr = errors.NewInternal(err)
	}
	return cErr
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// formatDate formats a timestamp as a UTC calendar date.
func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// formatChars formats an integer with comma thousands separators.
func formatChars(n int) string {
	if n < 0 {
		return "-" + formatChars(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
