package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Markdown engines selectable via MarkdownEngine.
const (
	EngineGoldmark = "goldmark"
	EngineBasic    = "basic"
)

// Config holds application configuration.
type Config struct {
	// SheetMaxChars is the maximum character count for cheatsheet content
	SheetMaxChars int `json:"sheet_max_chars"`

	// MarkdownEngine selects the renderer: "goldmark" (default) or "basic".
	// "basic" uses the built-in transformer that only understands a small Markdown subset.
	MarkdownEngine string `json:"markdown_engine,omitempty"`

	// PostProcess enables the math/code annotation pass over rendered HTML.
	// Nil means enabled.
	PostProcess *bool `json:"post_process,omitempty"`

	// HardWraps renders single newlines as <br>. Nil means enabled.
	HardWraps *bool `json:"hard_wraps,omitempty"`

	// AllowHTML passes raw HTML in cheatsheet content through goldmark unescaped.
	AllowHTML bool `json:"allow_html,omitempty"`

	// WebBind is the interface the web UI listens on.
	WebBind string `json:"web_bind,omitempty"`

	// WebPort is the port the web UI listens on.
	WebPort int `json:"web_port,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	enabled := true
	wraps := true
	return &Config{
		SheetMaxChars:  200000,
		MarkdownEngine: EngineGoldmark,
		PostProcess:    &enabled,
		HardWraps:      &wraps,
		WebBind:        "127.0.0.1",
		WebPort:        8017,
	}
}

// PostProcessEnabled reports whether the HTML post-processor should run.
func (c *Config) PostProcessEnabled() bool {
	return c.PostProcess == nil || *c.PostProcess
}

// HardWrapsEnabled reports whether single newlines render as line breaks.
func (c *Config) HardWrapsEnabled() bool {
	return c.HardWraps == nil || *c.HardWraps
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.crib.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.crib) and repo (.crib) directories.
// Repo config is found by walking upward from startDir to find the nearest .crib/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .crib/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".crib", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.SheetMaxChars = overlay.SheetMaxChars
	if result.SheetMaxChars == 0 {
		result.SheetMaxChars = base.SheetMaxChars
	}

	result.MarkdownEngine = strings.ToLower(strings.TrimSpace(overlay.MarkdownEngine))
	if result.MarkdownEngine == "" {
		result.MarkdownEngine = base.MarkdownEngine
	}

	result.WebBind = strings.TrimSpace(overlay.WebBind)
	if result.WebBind == "" {
		result.WebBind = base.WebBind
	}

	result.WebPort = overlay.WebPort
	if result.WebPort == 0 {
		result.WebPort = base.WebPort
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Tri-state booleans: overlay wins when explicitly set
	result.PostProcess = overlay.PostProcess
	if result.PostProcess == nil {
		result.PostProcess = base.PostProcess
	}
	result.HardWraps = overlay.HardWraps
	if result.HardWraps == nil {
		result.HardWraps = base.HardWraps
	}

	result.AllowHTML = base.AllowHTML || overlay.AllowHTML

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
