package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/crib/internal/config"
	"github.com/hpungsan/crib/internal/db"
	"github.com/hpungsan/crib/internal/ops"
	"github.com/hpungsan/crib/internal/store"
	"github.com/hpungsan/crib/internal/style"
)

const testSheet = `Handy shortcuts.

## Motion
**Def:** w jumps a word

## Code
` + "```go\nfmt.Println(\"$x$\")\n```" + `
Inline math $a+b$ here.
`

type testApp struct {
	handler http.Handler
	sheets  *store.Collection
	styles  *store.Styles
	cfg     *config.Config
	backend db.KV
}

func setupTest(t *testing.T) *testApp {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	backend := db.KV{DB: database}
	sheets, err := store.Open(context.Background(), backend, store.WithLogger(log))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	styles := store.NewStyles(backend, store.WithLogger(log))
	cfg := config.DefaultConfig()

	return &testApp{
		handler: NewHandler(sheets, styles, cfg, log, "test"),
		sheets:  sheets,
		styles:  styles,
		cfg:     cfg,
		backend: backend,
	}
}

// seedSheet saves a sheet and returns its ID.
func seedSheet(t *testing.T, app *testApp, title, content string) string {
	t.Helper()
	out, err := ops.Save(context.Background(), app.sheets, app.cfg, ops.SaveInput{Title: title, Content: content})
	if err != nil {
		t.Fatalf("seed sheet %q: %v", title, err)
	}
	return out.ID
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest("GET", path, nil))
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) upload(path, filename, content string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", filename)
	_, _ = io.WriteString(part, content)
	mw.Close()

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(req)
}

// --- Routing & headers ---

func TestRoot_RedirectsToSheets(t *testing.T) {
	app := setupTest(t)

	rec := app.get("/")
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/sheets" {
		t.Errorf("Location = %q, want /sheets", loc)
	}
}

func TestSecurityHeaders(t *testing.T) {
	app := setupTest(t)

	rec := app.get("/sheets")
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
	if !strings.Contains(rec.Header().Get("Content-Security-Policy"), "default-src 'self'") {
		t.Error("missing Content-Security-Policy")
	}
}

func TestStatic_AppCSS(t *testing.T) {
	app := setupTest(t)

	rec := app.get("/static/app.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "var(--primary-color)") {
		t.Error("app.css does not use theme variables")
	}
}

// --- List ---

func TestHandleList_Empty(t *testing.T) {
	app := setupTest(t)

	rec := app.get("/sheets")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No cheatsheets yet") {
		t.Error("expected empty state")
	}
}

func TestHandleList_Cards(t *testing.T) {
	app := setupTest(t)
	id := seedSheet(t, app, "Vim <basics>", testSheet)

	rec := app.get("/sheets")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Vim &lt;basics&gt;") {
		t.Error("expected escaped title")
	}
	if !strings.Contains(body, "Handy shortcuts....") {
		t.Error("expected first-line preview")
	}
	if !strings.Contains(body, "/sheets/"+id+"/edit") {
		t.Error("expected edit link")
	}
	if strings.Contains(body, "Modified:") {
		t.Error("unexpected Modified line for an unedited sheet")
	}
}

func TestHandleList_JSON(t *testing.T) {
	app := setupTest(t)
	seedSheet(t, app, "One", "a")

	req := httptest.NewRequest("GET", "/sheets", nil)
	req.Header.Set("Accept", "application/json")
	rec := app.do(req)

	var out ops.ListOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].Title != "One" {
		t.Errorf("Items = %+v", out.Items)
	}
}

// --- Create / edit ---

func TestHandleNew(t *testing.T) {
	app := setupTest(t)

	rec := app.get("/sheets/new")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/sheets"`) {
		t.Error("expected create form")
	}
}

func TestHandleCreate_RedirectsToViewer(t *testing.T) {
	app := setupTest(t)

	rec := app.postForm("/sheets", url.Values{"title": {" Git "}, "content": {"## A\nb"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	items := app.sheets.List()
	if len(items) != 1 || items[0].Title != "Git" {
		t.Fatalf("stored = %+v", items)
	}
	if loc := rec.Header().Get("Location"); loc != "/sheets/"+items[0].ID {
		t.Errorf("Location = %q", loc)
	}
}

func TestHandleCreate_KeepsSheetsFromOtherProcesses(t *testing.T) {
	app := setupTest(t)
	ctx := context.Background()

	// A second handle on the same database, as the CLI would open
	cli, err := store.Open(ctx, app.backend)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	if _, err := cli.Create(ctx, "From CLI", "## A\nb"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if body := app.get("/sheets").Body.String(); !strings.Contains(body, "From CLI") {
		t.Error("list does not show the sheet saved elsewhere")
	}

	rec := app.postForm("/sheets", url.Values{"title": {"From web"}, "content": {"## C\nd"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	reopened, err := store.Open(ctx, app.backend)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	var titles []string
	for _, s := range reopened.List() {
		titles = append(titles, s.Title)
	}
	if strings.Join(titles, ",") != "From CLI,From web" {
		t.Errorf("stored titles = %v", titles)
	}
}

func TestHandleCreate_MissingFieldsRerendersForm(t *testing.T) {
	app := setupTest(t)

	rec := app.postForm("/sheets", url.Values{"title": {"Only title"}, "content": {"   "}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "please provide both title and content") {
		t.Error("expected validation message")
	}
	if !strings.Contains(body, `value="Only title"`) {
		t.Error("expected submitted title kept")
	}
	if app.sheets.Len() != 0 {
		t.Error("sheet saved despite validation error")
	}
}

func TestHandleEditAndUpdate(t *testing.T) {
	app := setupTest(t)
	id := seedSheet(t, app, "Git", "old")

	rec := app.get("/sheets/" + id + "/edit")
	if rec.Code != http.StatusOK {
		t.Fatalf("edit status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/sheets/`+id+`"`) {
		t.Error("expected update form action")
	}

	rec = app.postForm("/sheets/"+id, url.Values{"title": {"Git"}, "content": {"new"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("update status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/sheets" {
		t.Errorf("Location = %q, want /sheets", loc)
	}
	s, _ := app.sheets.Get(id)
	if s.Content != "new" {
		t.Errorf("Content = %q, want new", s.Content)
	}
}

func TestHandleUpdate_UnknownID(t *testing.T) {
	app := setupTest(t)

	rec := app.postForm("/sheets/cs_missing", url.Values{"title": {"t"}, "content": {"c"}})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// --- View ---

func TestHandleView_RendersSections(t *testing.T) {
	app := setupTest(t)
	id := seedSheet(t, app, "Vim", testSheet)

	rec := app.get("/sheets/" + id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>Vim - crib</title>",
		"<h2>Introduction</h2>",
		"<h2>Motion</h2>",
		"<h2>Code</h2>",
		`data-lang="go"`,
		`class="math math-inline"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	// Math markers inside code stay literal
	if strings.Contains(body, `<span class="math math-inline">x</span>`) {
		t.Error("math wrapped inside code block")
	}
}

func TestHandleView_NotFound(t *testing.T) {
	app := setupTest(t)

	rec := app.get("/sheets/cs_missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Cheatsheet not found") || !strings.Contains(body, "Go Home") {
		t.Error("expected not-found state with Go Home action")
	}
}

func TestHandleView_NotFoundJSON(t *testing.T) {
	app := setupTest(t)

	req := httptest.NewRequest("GET", "/sheets/cs_missing", nil)
	req.Header.Set("Accept", "application/json")
	rec := app.do(req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body map[string]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["error"]["code"] != "NOT_FOUND" {
		t.Errorf("code = %v, want NOT_FOUND", body["error"]["code"])
	}
}

// --- Delete ---

func TestHandleDelete_ConfirmThenDelete(t *testing.T) {
	app := setupTest(t)
	id := seedSheet(t, app, "Doomed", "x")

	rec := app.get("/sheets/" + id + "/delete")
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Delete this cheatsheet?") {
		t.Error("expected confirmation prompt")
	}
	if app.sheets.Len() != 1 {
		t.Fatal("GET deleted the sheet")
	}

	rec = app.postForm("/sheets/"+id+"/delete", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete status = %d, want 303", rec.Code)
	}
	if app.sheets.Len() != 0 {
		t.Error("sheet not deleted")
	}
}

func TestHandleDelete_HTMX(t *testing.T) {
	app := setupTest(t)
	id := seedSheet(t, app, "Doomed", "x")

	req := httptest.NewRequest("DELETE", "/sheets/"+id, nil)
	req.Header.Set("HX-Request", "true")
	rec := app.do(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("HX-Redirect") != "/sheets" {
		t.Errorf("HX-Redirect = %q", rec.Header().Get("HX-Redirect"))
	}
}

// --- Import / export ---

func TestHandleExport(t *testing.T) {
	app := setupTest(t)
	id := seedSheet(t, app, "Git: basics", "## A\nbody")

	rec := app.get("/sheets/" + id + "/export")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "## A\nbody" {
		t.Errorf("body = %q, want content verbatim", got)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="Git- basics.md"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestHandleImport_PrefillsEditor(t *testing.T) {
	app := setupTest(t)

	rec := app.upload("/sheets/import", "docker.md", "## Run\ndocker run -it")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `value="docker"`) {
		t.Error("expected title derived from filename")
	}
	if !strings.Contains(body, "docker run -it") {
		t.Error("expected file content in editor")
	}
	if app.sheets.Len() != 0 {
		t.Error("import saved before review")
	}
}

func TestHandleImport_RejectsExtension(t *testing.T) {
	app := setupTest(t)

	rec := app.upload("/sheets/import", "image.png", "x")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// --- Search ---

func TestHandleSearch(t *testing.T) {
	app := setupTest(t)
	seedSheet(t, app, "Vim", testSheet)

	rec := app.get("/sheets/search?q=jumps")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<b>jumps</b>") {
		t.Error("expected highlighted snippet")
	}

	req := httptest.NewRequest("GET", "/sheets/search?q=zzz", nil)
	req.Header.Set("HX-Target", "results")
	rec = app.do(req)
	body := rec.Body.String()
	if strings.Contains(body, "<html") {
		t.Error("expected results fragment only")
	}
	if !strings.Contains(body, "No cheatsheets match") {
		t.Error("expected no-match message")
	}
}

// --- Styles ---

func TestHandleStyles_Page(t *testing.T) {
	app := setupTest(t)

	rec := app.get("/styles")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"--primary-color", `value="#667eea"`, `preset-btn active`, "Colors"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestHandleSaveStyles(t *testing.T) {
	app := setupTest(t)

	rec := app.postForm("/styles", url.Values{"primary": {"#123456"}, "radius": {"4"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	c, _ := app.styles.Load(context.Background())
	if c["primary"] != "#123456" || c["radius"] != "4" {
		t.Errorf("config = %v", c)
	}

	css := app.get("/theme.css").Body.String()
	if !strings.Contains(css, "--primary-color: #123456") || !strings.Contains(css, "--radius: 4px") {
		t.Errorf("theme.css = %q", css)
	}
}

func TestHandleSaveStyles_FullForm(t *testing.T) {
	app := setupTest(t)

	form := url.Values{}
	for k, v := range style.Defaults() {
		form.Set(k, v)
	}
	form.Set("primary", "#123456")

	rec := app.postForm("/styles", form)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	c, _ := app.styles.Load(context.Background())
	if c["primary"] != "#123456" {
		t.Errorf("primary = %q", c["primary"])
	}
	if c["fontFamily"] != style.Defaults()["fontFamily"] {
		t.Errorf("fontFamily = %q", c["fontFamily"])
	}
}

func TestHandleSaveStyles_InvalidKeepsState(t *testing.T) {
	app := setupTest(t)

	rec := app.postForm("/styles", url.Values{"primary": {"#123456"}, "radius": {"999"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "must be between 0 and 32") {
		t.Error("expected range message")
	}
	partial, _ := app.styles.Partial(context.Background())
	if len(partial) != 0 {
		t.Errorf("partial = %v, want nothing stored", partial)
	}
}

func TestHandlePresetAndReset(t *testing.T) {
	app := setupTest(t)
	ctx := context.Background()

	rec := app.postForm("/styles/preset/dark", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("preset status = %d, want 303", rec.Code)
	}
	c, _ := app.styles.Load(ctx)
	if style.MatchPreset(c) != "dark" {
		t.Errorf("preset = %q, want dark", style.MatchPreset(c))
	}

	if rec := app.postForm("/styles/preset/neon", url.Values{}); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown preset status = %d, want 400", rec.Code)
	}

	app.postForm("/styles/reset", url.Values{})
	c, _ = app.styles.Load(ctx)
	if c["bg"] != style.Defaults()["bg"] {
		t.Errorf("bg = %q, want default after reset", c["bg"])
	}
}

func TestHandleExportImportStyles(t *testing.T) {
	app := setupTest(t)
	app.postForm("/styles/preset/green", url.Values{})

	rec := app.get("/styles/export")
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "cheatsheet-config.json") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	exported := rec.Body.String()
	if !strings.Contains(exported, "\n  \"primary\": \"#38a169\"") {
		t.Errorf("export = %q, want 2-space indented JSON", exported)
	}

	app.postForm("/styles/reset", url.Values{})
	rec = app.upload("/styles/import", "cheatsheet-config.json", exported)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("import status = %d, want 303", rec.Code)
	}
	c, _ := app.styles.Load(context.Background())
	if c["primary"] != "#38a169" {
		t.Errorf("primary = %q after import", c["primary"])
	}
}

func TestHandleImportStyles_Invalid(t *testing.T) {
	app := setupTest(t)
	app.postForm("/styles/preset/orange", url.Values{})

	rec := app.upload("/styles/import", "bad.json", "{not json")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid configuration file") {
		t.Error("expected error message on styles page")
	}
	c, _ := app.styles.Load(context.Background())
	if style.MatchPreset(c) != "orange" {
		t.Error("configuration changed by rejected import")
	}
}

func TestFormatChars(t *testing.T) {
	tests := map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -1500: "-1,500"}
	for n, want := range tests {
		if got := formatChars(n); got != want {
			t.Errorf("formatChars(%d) = %q, want %q", n, got, want)
		}
	}
}
