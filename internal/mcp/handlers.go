package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/crib/internal/config"
	"github.com/hpungsan/crib/internal/errors"
	"github.com/hpungsan/crib/internal/ops"
	"github.com/hpungsan/crib/internal/render"
	"github.com/hpungsan/crib/internal/store"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	sheets   *store.Collection
	styles   *store.Styles
	cfg      *config.Config
	markdown *render.Renderer
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sheets *store.Collection, styles *store.Styles, cfg *config.Config) *Handlers {
	return &Handlers{
		sheets:   sheets,
		styles:   styles,
		cfg:      cfg,
		markdown: render.New(cfg),
	}
}

// Request types for each tool

// ListRequest represents the arguments for sheet_list.
type ListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// SearchRequest represents the arguments for sheet_search.
type SearchRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// FetchRequest represents the arguments for sheet_fetch.
type FetchRequest struct {
	ID          string `json:"id"`
	IncludeText *bool  `json:"include_text,omitempty"`
}

// SectionRequest represents the arguments for sheet_sections and sheet_render.
type SectionRequest struct {
	ID      string `json:"id"`
	Section string `json:"section,omitempty"`
}

// SaveRequest represents the arguments for sheet_save.
type SaveRequest struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DeleteRequest represents the arguments for sheet_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// ImportRequest represents the arguments for sheet_import.
type ImportRequest struct {
	Path  string `json:"path"`
	Title string `json:"title,omitempty"`
}

// ExportRequest represents the arguments for sheet_export.
type ExportRequest struct {
	ID   string `json:"id"`
	Path string `json:"path,omitempty"`
}

// StyleSetRequest represents the arguments for style_set. Values may be
// strings or numbers.
type StyleSetRequest struct {
	Values map[string]any `json:"values"`
}

// StylePresetRequest represents the arguments for style_preset.
type StylePresetRequest struct {
	Name string `json:"name"`
}

// Handler implementations

// refresh reloads the collection so writes from other processes sharing
// the database are visible.
func (h *Handlers) refresh(ctx context.Context) error {
	if err := h.sheets.Refresh(ctx); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// HandleList handles the sheet_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.refresh(ctx); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.List(h.sheets, ops.ListInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSearch handles the sheet_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.refresh(ctx); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Search(h.sheets, ops.SearchInput{
		Query:  input.Query,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFetch handles the sheet_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.refresh(ctx); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Fetch(h.sheets, ops.FetchInput{
		ID:          input.ID,
		IncludeText: input.IncludeText,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSections handles the sheet_sections tool call.
func (h *Handlers) HandleSections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SectionRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.refresh(ctx); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Sections(h.sheets, ops.SectionsInput{
		ID:      input.ID,
		Section: input.Section,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleRender handles the sheet_render tool call.
func (h *Handlers) HandleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SectionRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.refresh(ctx); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Render(h.sheets, h.markdown, ops.RenderInput{
		ID:      input.ID,
		Section: input.Section,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSave handles the sheet_save tool call.
func (h *Handlers) HandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.refresh(ctx); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Save(ctx, h.sheets, h.cfg, ops.SaveInput{
		ID:      input.ID,
		Title:   input.Title,
		Content: input.Content,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDelete handles the sheet_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.refresh(ctx); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Delete(ctx, h.sheets, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleImport handles the sheet_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.refresh(ctx); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Import(ctx, h.sheets, h.cfg, ops.ImportInput{
		Path:  input.Path,
		Title: input.Title,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleExport handles the sheet_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if err := h.refresh(ctx); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Export(h.sheets, ops.ExportInput{
		ID:   input.ID,
		Path: input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStyleGet handles the style_get tool call.
func (h *Handlers) HandleStyleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.GetStyles(ctx, h.styles)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStyleSet handles the style_set tool call.
func (h *Handlers) HandleStyleSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StyleSetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	values := make(map[string]string, len(input.Values))
	for name, v := range input.Values {
		switch v := v.(type) {
		case string:
			values[name] = v
		case float64:
			values[name] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return errorResult(errors.NewInvalidRequest(fmt.Sprintf("values.%s must be a string or number", name))), nil
		}
	}

	result, err := ops.SetStyles(ctx, h.styles, values)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStyleReset handles the style_reset tool call.
func (h *Handlers) HandleStyleReset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ResetStyles(ctx, h.styles)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStylePreset handles the style_preset tool call.
func (h *Handlers) HandleStylePreset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StylePresetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ApplyPreset(ctx, h.styles, input.Name)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var cErr *errors.CribError
	if stderrors.As(err, &cErr) {
		msg := cErr.Message
		// Keep context added by wrapping
		if err != error(cErr) {
			msg = err.Error()
		}
		if cErr.Code == errors.ErrInternal {
			msg = "an internal error occurred"
		}
		errorObj := map[string]any{
			"code":    cErr.Code,
			"message": msg,
			"status":  cErr.Status,
		}
		if cErr.Code != errors.ErrInternal && cErr.Details != nil {
			errorObj["details"] = cErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
