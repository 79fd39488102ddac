package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/crib/internal/config"
	"github.com/hpungsan/crib/internal/editor"
	"github.com/hpungsan/crib/internal/errors"
	"github.com/hpungsan/crib/internal/mcp"
	"github.com/hpungsan/crib/internal/ops"
	"github.com/hpungsan/crib/internal/render"
	"github.com/hpungsan/crib/internal/store"
	"github.com/hpungsan/crib/internal/style"
	"github.com/hpungsan/crib/internal/web"
)

// app holds the state shared by every command.
type app struct {
	sheets *store.Collection
	styles *store.Styles
	cfg    *config.Config
	log    logrus.FieldLogger
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(a *app) *cli.App {
	cliApp := &cli.App{
		Name:    "crib",
		Usage:   "Local cheatsheet store",
		Version: Version,
		Commands: []*cli.Command{
			listCmd(a),
			searchCmd(a),
			showCmd(a),
			renderCmd(a),
			saveCmd(a),
			editCmd(a),
			deleteCmd(a),
			importCmd(a),
			exportCmd(a),
			styleCmd(a),
			serveCmd(a),
			mcpCmd(a),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	cliApp.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return cliApp
}

// listCmd creates the list command.
func listCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List cheatsheets in stored order",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum items (default 50, max 500)"},
			&cli.IntFlag{Name: "offset", Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(a.sheets, ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search titles and content (case-insensitive)",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum items (default 50, max 500)"},
			&cli.IntFlag{Name: "offset", Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Search(a.sheets, ops.SearchInput{
				Query:  strings.Join(c.Args().Slice(), " "),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// showCmd creates the show command.
func showCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a cheatsheet",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-text", Usage: "Exclude content from output"},
			&cli.BoolFlag{Name: "sections", Aliases: []string{"s"}, Usage: "Show the content split into sections"},
			&cli.StringFlag{Name: "section", Usage: "Show only the named section"},
			&cli.BoolFlag{Name: "raw", Usage: "Print the Markdown body instead of JSON"},
		},
		Action: func(c *cli.Context) error {
			id := c.Args().First()

			if c.Bool("sections") || c.IsSet("section") {
				output, err := ops.Sections(a.sheets, ops.SectionsInput{ID: id, Section: c.String("section")})
				if err != nil {
					return outputError(err)
				}
				if c.Bool("raw") {
					for _, s := range output.Sections {
						fmt.Fprintln(c.App.Writer, s.Content)
					}
					return nil
				}
				return outputJSON(c, output)
			}

			input := ops.FetchInput{ID: id}
			if c.Bool("no-text") {
				input.IncludeText = boolPtr(false)
			}
			output, err := ops.Fetch(a.sheets, input)
			if err != nil {
				return outputError(err)
			}
			if c.Bool("raw") {
				fmt.Fprintln(c.App.Writer, output.Content)
				return nil
			}
			return outputJSON(c, output)
		},
	}
}

// renderCmd creates the render command.
func renderCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render a cheatsheet to HTML section cards",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "section", Usage: "Render only the named section"},
			&cli.BoolFlag{Name: "html", Usage: "Print the HTML instead of JSON"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Render(a.sheets, render.New(a.cfg), ops.RenderInput{
				ID:      c.Args().First(),
				Section: c.String("section"),
			})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("html") {
				_, err := io.WriteString(c.App.Writer, output.HTML)
				return err
			}
			return outputJSON(c, output)
		},
	}
}

// saveCmd creates the save command.
func saveCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Create or update a cheatsheet (reads content from stdin or --file)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Cheatsheet title", Required: true},
			&cli.StringFlag{Name: "id", Usage: "Update this cheatsheet instead of creating one"},
			&cli.PathFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read content from this file"},
		},
		Action: func(c *cli.Context) error {
			var content string
			if path := c.Path("file"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					if os.IsNotExist(err) {
						return outputError(errors.NewFileNotFound(path))
					}
					return outputError(errors.NewInternal(err))
				}
				content = string(data)
			} else {
				text, ok, err := readInput(c)
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if !ok {
					return outputError(errors.NewInvalidRequest("content must be piped via stdin or given with --file"))
				}
				content = text
			}

			output, err := ops.Save(c.Context, a.sheets, a.cfg, ops.SaveInput{
				ID:      c.String("id"),
				Title:   c.String("title"),
				Content: content,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// editCmd creates the edit command.
func editCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit a cheatsheet in $EDITOR, or write a new one when no id is given",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title (required for a new cheatsheet)"},
		},
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			title := c.String("title")
			initial := ""

			if id != "" {
				current, err := ops.Fetch(a.sheets, ops.FetchInput{ID: id})
				if err != nil {
					return outputError(err)
				}
				initial = current.Content
				if title == "" {
					title = current.Title
				}
			} else if strings.TrimSpace(title) == "" {
				return outputError(errors.NewInvalidRequest("--title is required for a new cheatsheet"))
			}

			edited, err := editor.Edit(c.Context, initial)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if id != "" && strings.TrimSpace(edited) == strings.TrimSpace(initial) && !c.IsSet("title") {
				fmt.Fprintln(c.App.ErrWriter, "no changes")
				return nil
			}

			output, err := ops.Save(c.Context, a.sheets, a.cfg, ops.SaveInput{
				ID:      id,
				Title:   title,
				Content: edited,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a cheatsheet",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(c.Context, a.sheets, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import a .md, .markdown or .txt file as a new cheatsheet",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title (defaults to front matter title or file name)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, a.sheets, a.cfg, ops.ImportInput{
				Path:  c.Args().First(),
				Title: c.String("title"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a cheatsheet to a Markdown file (default: ~/.crib/exports/<title>.md)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Destination file"},
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Destination directory (file named after the title)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(a.sheets, ops.ExportInput{
				ID:   c.Args().First(),
				Path: c.String("path"),
				Dir:  c.String("dir"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, output)
		},
	}
}

// styleCmd creates the style command and its subcommands.
func styleCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "style",
		Usage: "Show and change the style configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the effective configuration",
				Action: func(c *cli.Context) error {
					output, err := ops.GetStyles(c.Context, a.styles)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:  "vars",
				Usage: "Print the CSS variables, one per line",
				Action: func(c *cli.Context) error {
					output, err := ops.GetStyles(c.Context, a.styles)
					if err != nil {
						return outputError(err)
					}
					for _, v := range output.Variables {
						fmt.Fprintf(c.App.Writer, "%s: %s;\n", v.Name, v.Value)
					}
					return nil
				},
			},
			{
				Name:  "css",
				Usage: "Print the :root stylesheet",
				Action: func(c *cli.Context) error {
					output, err := ops.GetStyles(c.Context, a.styles)
					if err != nil {
						return outputError(err)
					}
					_, err = io.WriteString(c.App.Writer, output.Config.Stylesheet())
					return err
				},
			},
			{
				Name:      "set",
				Usage:     "Change keys, e.g. crib style set primary=#336699 fontSizeBase=18",
				ArgsUsage: "<key=value>...",
				Action: func(c *cli.Context) error {
					values, err := parseAssignments(c.Args().Slice())
					if err != nil {
						return outputError(err)
					}
					output, err := ops.SetStyles(c.Context, a.styles, values)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:  "reset",
				Usage: "Reset every key to its default",
				Action: func(c *cli.Context) error {
					output, err := ops.ResetStyles(c.Context, a.styles)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:      "preset",
				Usage:     "Apply a preset (" + strings.Join(style.PresetNames(), ", ") + ")",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					output, err := ops.ApplyPreset(c.Context, a.styles, c.Args().First())
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:  "export",
				Usage: "Write the configuration to " + ops.StylesFileName,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Destination file"},
					&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Destination directory"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ExportStyles(c.Context, a.styles, ops.ExportStylesInput{
						Path: c.String("path"),
						Dir:  c.String("dir"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
			{
				Name:      "import",
				Usage:     "Load a configuration file (.json, .yaml or .yml)",
				ArgsUsage: "<path>",
				Action: func(c *cli.Context) error {
					output, err := ops.ImportStylesFile(c.Context, a.styles, c.Args().First())
					if err != nil {
						return outputError(err)
					}
					return outputJSON(c, output)
				},
			},
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Interface to listen on (default from config, 127.0.0.1)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port to listen on (default from config, 8017)"},
		},
		Action: func(c *cli.Context) error {
			cfg := *a.cfg
			if c.IsSet("bind") {
				cfg.WebBind = c.String("bind")
			}
			if c.IsSet("port") {
				cfg.WebPort = c.Int("port")
			}
			srv := web.NewServer(a.sheets, a.styles, &cfg, a.log, Version)
			return web.Run(srv, a.log)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Action: func(c *cli.Context) error {
			return mcp.Run(a.sheets, a.styles, a.cfg, Version)
		},
	}
}

// Helper functions

// outputJSON writes result to the app's writer as indented JSON.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var cErr *errors.CribError
	if stderrors.As(err, &cErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", cErr.Code, cErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// readInput reads all of the app's input. ok is false when input is an
// interactive terminal.
func readInput(c *cli.Context) (text string, ok bool, err error) {
	r := c.App.Reader
	if f, isFile := r.(*os.File); isFile {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", false, nil
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// parseAssignments splits key=value arguments.
func parseAssignments(args []string) (map[string]string, error) {
	if len(args) == 0 {
		return nil, errors.NewInvalidRequest("at least one key=value is required")
	}
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || strings.TrimSpace(key) == "" {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("expected key=value, got %q", arg))
		}
		values[strings.TrimSpace(key)] = value
	}
	return values, nil
}

func boolPtr(b bool) *bool { return &b }
