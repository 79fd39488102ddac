package mcp

import (
	"context"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/crib/internal/config"
	"github.com/hpungsan/crib/internal/store"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"sheet_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"sheet_search": {
		def:     searchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch },
	},
	"sheet_fetch": {
		def:     fetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch },
	},
	"sheet_sections": {
		def:     sectionsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSections },
	},
	"sheet_render": {
		def:     renderToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRender },
	},
	"sheet_save": {
		def:     saveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSave },
	},
	"sheet_delete": {
		def:     deleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"sheet_import": {
		def:     importToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleImport },
	},
	"sheet_export": {
		def:     exportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"style_get": {
		def:     styleGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStyleGet },
	},
	"style_set": {
		def:     styleSetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStyleSet },
	},
	"style_reset": {
		def:     styleResetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStyleReset },
	},
	"style_preset": {
		def:     stylePresetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStylePreset },
	},
}

// AllToolNames returns every valid tool name in sorted order.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with Crib tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(sheets *store.Collection, styles *store.Styles, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"crib",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(sheets, styles, cfg)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(sheets *store.Collection, styles *store.Styles, cfg *config.Config, version string) error {
	s := NewServer(sheets, styles, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
