package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/crib/internal/style"
)

var listToolDef = mcp.NewTool("sheet_list",
	mcp.WithDescription("List cheatsheets in stored order. Returns summaries without content."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithNumber("limit", mcp.Description("Maximum items to return (default 50, max 500)"), mcp.Min(0)),
	mcp.WithNumber("offset", mcp.Description("Items to skip"), mcp.Min(0)),
)

var searchToolDef = mcp.NewTool("sheet_search",
	mcp.WithDescription("Search cheatsheet titles and content. Case-insensitive. Title matches rank first."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for")),
	mcp.WithNumber("limit", mcp.Description("Maximum items to return (default 50, max 500)"), mcp.Min(0)),
	mcp.WithNumber("offset", mcp.Description("Items to skip"), mcp.Min(0)),
)

var fetchToolDef = mcp.NewTool("sheet_fetch",
	mcp.WithDescription("Fetch one cheatsheet by id, with its section titles."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("id", mcp.Required(), mcp.Description("Cheatsheet id")),
	mcp.WithBoolean("include_text", mcp.Description("Include the Markdown body (default true)")),
)

var sectionsToolDef = mcp.NewTool("sheet_sections",
	mcp.WithDescription("Split a cheatsheet into its sections. Each section starts at a level-2 heading."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("id", mcp.Required(), mcp.Description("Cheatsheet id")),
	mcp.WithString("section", mcp.Description("Return only the section with this title (case-insensitive)")),
)

var renderToolDef = mcp.NewTool("sheet_render",
	mcp.WithDescription("Render a cheatsheet to HTML section cards."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("id", mcp.Required(), mcp.Description("Cheatsheet id")),
	mcp.WithString("section", mcp.Description("Render only the section with this title (case-insensitive)")),
)

var saveToolDef = mcp.NewTool("sheet_save",
	mcp.WithDescription("Create a cheatsheet, or update one when id is given. Title and content are trimmed and must not be empty."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithString("id", mcp.Description("Existing cheatsheet id; omit to create")),
	mcp.WithString("title", mcp.Required(), mcp.Description("Cheatsheet title")),
	mcp.WithString("content", mcp.Required(), mcp.Description("Markdown body; '## ' headings start sections")),
)

var deleteToolDef = mcp.NewTool("sheet_delete",
	mcp.WithDescription("Delete a cheatsheet. Deleting an unknown id reports deleted=false."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithIdempotentHintAnnotation(true),
	mcp.WithString("id", mcp.Required(), mcp.Description("Cheatsheet id")),
)

var importToolDef = mcp.NewTool("sheet_import",
	mcp.WithDescription("Import a .md, .markdown or .txt file as a new cheatsheet. The title comes from front matter or the file name."),
	mcp.WithString("path", mcp.Required(), mcp.Description("File to read")),
	mcp.WithString("title", mcp.Description("Title override")),
)

var exportToolDef = mcp.NewTool("sheet_export",
	mcp.WithDescription("Write a cheatsheet's Markdown to a file. Defaults to ~/.crib/exports/<title>.md."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Cheatsheet id")),
	mcp.WithString("path", mcp.Description("Destination file (.md, .markdown or .txt)")),
)

var styleGetToolDef = mcp.NewTool("style_get",
	mcp.WithDescription("Get the effective style configuration and the CSS variables it produces."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var styleSetToolDef = mcp.NewTool("style_set",
	mcp.WithDescription("Change style keys. Values are validated; other keys keep their values."),
	mcp.WithObject("values",
		mcp.Required(),
		mcp.Description("Key to value, e.g. {\"primary\": \"#336699\", \"fontSizeBase\": \"18\"}"),
		mcp.AdditionalProperties(map[string]any{"type": "string"}),
	),
)

var styleResetToolDef = mcp.NewTool("style_reset",
	mcp.WithDescription("Reset every style key to its default."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithIdempotentHintAnnotation(true),
)

var stylePresetToolDef = mcp.NewTool("style_preset",
	mcp.WithDescription("Replace the style configuration with a named preset."),
	mcp.WithIdempotentHintAnnotation(true),
	mcp.WithString("name", mcp.Required(), mcp.Description("Preset name"), mcp.Enum(style.PresetNames()...)),
)
