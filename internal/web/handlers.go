package web

import (
	stderrors "errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"

	"github.com/hpungsan/crib/internal/config"
	"github.com/hpungsan/crib/internal/errors"
	"github.com/hpungsan/crib/internal/ops"
	"github.com/hpungsan/crib/internal/render"
	"github.com/hpungsan/crib/internal/store"
	"github.com/hpungsan/crib/internal/style"
)

// maxUploadBytes bounds multipart uploads (imports).
const maxUploadBytes = 8 << 20

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	sheets   *store.Collection
	styles   *store.Styles
	cfg      *config.Config
	markdown *render.Renderer
	renderer *Renderer
	log      logrus.FieldLogger
}

// HandleList handles GET /sheets: all cheatsheets in stored order.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	if !h.refresh(w, r) {
		return
	}
	result, err := ops.List(h.sheets, ops.ListInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData:   h.renderer.page("Cheatsheets", "sheets"),
		Items:      result.Items,
		Pagination: result.Pagination,
	})
}

// HandleSearch handles GET /sheets/search: title and content search.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if !h.refresh(w, r) {
		return
	}
	query := r.URL.Query().Get("q")
	data := SearchPageData{
		PageData: h.renderer.page("Search", "search"),
		Query:    query,
		HasQuery: query != "",
	}

	if query != "" {
		result, err := ops.Search(h.sheets, ops.SearchInput{
			Query:  query,
			Limit:  parseIntParam(r, "limit", 20),
			Offset: parseIntParam(r, "offset", 0),
		})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Items = result.Items
		data.Pagination = result.Pagination
	}

	// If htmx targets #results, render only the results fragment
	if r.Header.Get("HX-Target") == "results" {
		h.renderer.renderBlock(w, http.StatusOK, "search", "search-results", data)
		return
	}

	h.renderer.renderPage(w, r, "search", data)
}

// HandleNew handles GET /sheets/new: empty editor.
func (h *Handlers) HandleNew(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "edit", EditPageData{
		PageData: h.renderer.page("New cheatsheet", "new"),
	})
}

// HandleCreate handles POST /sheets: save a new cheatsheet and open it.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "")
}

// HandleEdit handles GET /sheets/{id}/edit: editor prefilled with a sheet.
func (h *Handlers) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if !h.refresh(w, r) {
		return
	}
	s, err := ops.Fetch(h.sheets, ops.FetchInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "edit", EditPageData{
		PageData: h.renderer.page("Edit "+s.Title, "sheets"),
		ID:       s.ID,
		Title:    s.Title,
		Content:  s.Content,
	})
}

// HandleUpdate handles POST /sheets/{id}: save changes to a sheet.
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, r.PathValue("id"))
}

// save creates (id == "") or updates a sheet from the submitted form.
// Validation failures re-render the form with the submitted values.
func (h *Handlers) save(w http.ResponseWriter, r *http.Request, id string) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	title := r.PostFormValue("title")
	content := r.PostFormValue("content")

	result, err := ops.Save(r.Context(), h.sheets, h.cfg, ops.SaveInput{ID: id, Title: title, Content: content})
	if err != nil {
		if errors.Is(err, errors.ErrInvalidRequest) || errors.Is(err, errors.ErrContentTooLarge) {
			if wantsJSON(r) {
				h.renderer.renderError(w, r, err)
				return
			}
			cErr := asCribError(err)
			pageTitle, nav := "New cheatsheet", "new"
			if id != "" {
				pageTitle, nav = "Edit "+title, "sheets"
			}
			h.renderer.renderPageStatus(w, r, cErr.Status, "edit", EditPageData{
				PageData: h.renderer.page(pageTitle, nav),
				ID:       id,
				Title:    title,
				Content:  content,
				Source:   r.PostFormValue("source"),
				Error:    cErr.Message,
			})
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	h.log.WithFields(logrus.Fields{"id": result.ID, "new": result.New}).Info("cheatsheet saved")

	if wantsJSON(r) {
		status := http.StatusOK
		if result.New {
			status = http.StatusCreated
		}
		renderJSON(w, status, result)
		return
	}

	// New sheets open in the viewer; edits return to the list
	target := "/sheets"
	if result.New {
		target = "/sheets/" + url.PathEscape(result.ID)
	}
	redirect(w, r, target)
}

// HandleView handles GET /sheets/{id}: rendered section cards.
func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request) {
	if !h.refresh(w, r) {
		return
	}
	s, err := ops.Fetch(h.sheets, ops.FetchInput{ID: r.PathValue("id")})
	if errors.Is(err, errors.ErrNotFound) && !wantsJSON(r) {
		h.renderer.renderPageStatus(w, r, http.StatusNotFound, "view", ViewPageData{
			PageData: h.renderer.page("Cheatsheet not found", "sheets"),
			NotFound: true,
		})
		return
	}
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, s)
		return
	}

	sections, err := h.markdown.Sections(s.Content)
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}
	views := make([]SectionView, len(sections))
	for i, sec := range sections {
		// Renderer output is escaped or sanitized markup
		views[i] = SectionView{Title: sec.Title, HTML: template.HTML(sec.HTML)}
	}

	h.renderer.renderPage(w, r, "view", ViewPageData{
		PageData: h.renderer.page(s.Title, "sheets"),
		Sheet:    s,
		Sections: views,
	})
}

// HandleConfirmDelete handles GET /sheets/{id}/delete: confirmation page.
func (h *Handlers) HandleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	if !h.refresh(w, r) {
		return
	}
	s, err := ops.Fetch(h.sheets, ops.FetchInput{ID: r.PathValue("id"), IncludeText: boolPtr(false)})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "confirm", ConfirmPageData{
		PageData:   h.renderer.page("Delete "+s.Title, "sheets"),
		ID:         s.ID,
		SheetTitle: s.Title,
	})
}

// HandleDelete handles POST /sheets/{id}/delete and DELETE /sheets/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Delete(r.Context(), h.sheets, ops.DeleteInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if result.Deleted {
		h.log.WithField("id", result.ID).Info("cheatsheet deleted")
	}

	// HTMX request: redirect via HX-Redirect header
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/sheets")
		w.WriteHeader(http.StatusOK)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	redirect(w, r, "/sheets")
}

// HandleExport handles GET /sheets/{id}/export: download as markdown.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	if !h.refresh(w, r) {
		return
	}
	s, err := ops.Fetch(h.sheets, ops.FetchInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	attachment(w, ops.ExportFileName(s.Title), "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, s.Content)
}

// HandleImport handles POST /sheets/import: load a file into the editor
// for review. Nothing is saved until the form is submitted.
func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	name, data, err := readUpload(w, r, "file")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	draft, err := ops.ParseImport(ops.ImportDataInput{Name: name, Data: data})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "edit", EditPageData{
		PageData: h.renderer.page("Import "+draft.Source, "new"),
		Title:    draft.Title,
		Content:  draft.Content,
		Source:   draft.Source,
	})
}

// HandleStyles handles GET /styles: the style configurator.
func (h *Handlers) HandleStyles(w http.ResponseWriter, r *http.Request) {
	out, err := ops.GetStyles(r.Context(), h.styles)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	h.renderStyles(w, r, http.StatusOK, out.Config, nil, "", r.URL.Query().Get("saved") == "1")
}

// HandleSaveStyles handles POST /styles: validate and store submitted values.
func (h *Handlers) HandleSaveStyles(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	partial, err := style.Bind(r.PostForm)
	if err != nil {
		current, loadErr := h.styles.Load(r.Context())
		if loadErr != nil {
			h.renderer.renderError(w, r, loadErr)
			return
		}
		// Show the submitted values so they can be corrected
		for k, v := range partial {
			current[k] = v
		}
		errs := fieldErrors(err)
		for k := range errs {
			current[k] = r.PostForm.Get(k)
		}
		h.renderStyles(w, r, http.StatusUnprocessableEntity, current, errs, "Some values are invalid", false)
		return
	}
	if len(partial) == 0 {
		redirect(w, r, "/styles")
		return
	}

	if _, err := ops.SetStyles(r.Context(), h.styles, partial); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	redirect(w, r, "/styles?saved=1")
}

// HandleResetStyles handles POST /styles/reset.
func (h *Handlers) HandleResetStyles(w http.ResponseWriter, r *http.Request) {
	if _, err := ops.ResetStyles(r.Context(), h.styles); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	redirect(w, r, "/styles?saved=1")
}

// HandlePreset handles POST /styles/preset/{name}.
func (h *Handlers) HandlePreset(w http.ResponseWriter, r *http.Request) {
	if _, err := ops.ApplyPreset(r.Context(), h.styles, r.PathValue("name")); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	redirect(w, r, "/styles?saved=1")
}

// HandleExportStyles handles GET /styles/export: download the resolved configuration.
func (h *Handlers) HandleExportStyles(w http.ResponseWriter, r *http.Request) {
	data, err := ops.EncodeStyles(r.Context(), h.styles)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	attachment(w, ops.StylesFileName, "application/json")
	_, _ = w.Write(data)
}

// HandleImportStyles handles POST /styles/import. A rejected file leaves
// the stored configuration unchanged and is reported on the styles page.
func (h *Handlers) HandleImportStyles(w http.ResponseWriter, r *http.Request) {
	_, data, err := readUpload(w, r, "file")
	if err == nil {
		_, err = ops.ImportStyles(r.Context(), h.styles, data)
	}
	if err != nil {
		if wantsJSON(r) || !errors.Is(err, errors.ErrInvalidConfig) {
			h.renderer.renderError(w, r, err)
			return
		}
		current, loadErr := h.styles.Load(r.Context())
		if loadErr != nil {
			h.renderer.renderError(w, r, loadErr)
			return
		}
		h.renderStyles(w, r, http.StatusUnprocessableEntity, current, nil, asCribError(err).Message, false)
		return
	}
	redirect(w, r, "/styles?saved=1")
}

// HandleTheme handles GET /theme.css: the resolved CSS variables.
func (h *Handlers) HandleTheme(w http.ResponseWriter, r *http.Request) {
	c, err := h.styles.Load(r.Context())
	if err != nil {
		h.log.WithError(err).Warn("style load failed, serving defaults")
		c = style.Defaults()
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.WriteString(w, c.Stylesheet())
}

// refresh reloads the collection so sheets written by other processes
// (the CLI, the MCP server) are visible. It reports false after rendering
// an error.
func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) bool {
	if err := h.sheets.Refresh(r.Context()); err != nil {
		h.renderer.renderError(w, r, err)
		return false
	}
	return true
}

// renderStyles renders the configurator for c.
func (h *Handlers) renderStyles(w http.ResponseWriter, r *http.Request, status int, c style.Config, errs map[string]string, message string, saved bool) {
	var groups []StyleGroup
	for _, g := range style.Groups() {
		group := StyleGroup{Name: g.Name}
		for _, k := range g.Keys {
			group.Fields = append(group.Fields, StyleField{Key: k, Value: c[k.Name], Error: errs[k.Name]})
		}
		groups = append(groups, group)
	}

	h.renderer.renderPageStatus(w, r, status, "styles", StylesPageData{
		PageData: h.renderer.page("Styles", "styles"),
		Groups:   groups,
		Presets:  style.PresetNames(),
		Active:   style.MatchPreset(c),
		Error:    message,
		Saved:    saved,
	})
}

// fieldErrors flattens validation errors into messages keyed by field.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validation.Errors
	if stderrors.As(err, &verrs) {
		for k, v := range verrs {
			out[k] = v.Error()
		}
	}
	return out
}

// readUpload reads one multipart file field.
func readUpload(w http.ResponseWriter, r *http.Request, field string) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, errors.NewInvalidRequest(fmt.Sprintf("a file upload named %q is required", field))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, errors.NewInvalidRequest("failed to read upload")
	}
	return header.Filename, data, nil
}

// attachment sets download headers for filename.
func attachment(w http.ResponseWriter, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

// redirect sends a 303 so the browser follows with GET.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func boolPtr(b bool) *bool { return &b }
