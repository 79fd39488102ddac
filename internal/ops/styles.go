package ops

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hpungsan/crib/internal/errors"
	"github.com/hpungsan/crib/internal/store"
	"github.com/hpungsan/crib/internal/style"
)

// StylesFileName is the default name of an exported style configuration.
const StylesFileName = "cheatsheet-config.json"

// maxStylesFileBytes bounds style configuration imports.
const maxStylesFileBytes = 1 << 20

// StylesOutput describes the effective style configuration.
type StylesOutput struct {
	Config    style.Config     `json:"config"`
	Variables []style.Variable `json:"variables"`
	Preset    string           `json:"preset,omitempty"`
	Unknown   []string         `json:"unknown,omitempty"`
}

func stylesOutput(c style.Config) *StylesOutput {
	return &StylesOutput{
		Config:    c,
		Variables: c.Variables(),
		Preset:    style.MatchPreset(c),
		Unknown:   c.Unknown(),
	}
}

// GetStyles returns the stored configuration resolved over the defaults.
func GetStyles(ctx context.Context, styles *store.Styles) (*StylesOutput, error) {
	c, err := styles.Load(ctx)
	if err != nil {
		return nil, err
	}
	return stylesOutput(c), nil
}

// SetStyles validates values and merges them into the stored configuration.
// Nothing is written when any value is rejected.
func SetStyles(ctx context.Context, styles *store.Styles, values map[string]string) (*StylesOutput, error) {
	if len(values) == 0 {
		return nil, errors.NewInvalidRequest("at least one style value is required")
	}

	changes := style.Config{}
	var unknown []string
	for name, value := range values {
		name = strings.TrimSpace(name)
		if _, ok := style.LookupKey(name); !ok {
			unknown = append(unknown, name)
			continue
		}
		changes[name] = strings.TrimSpace(value)
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown style key(s): %s", strings.Join(unknown, ", ")))
	}

	if err := style.ValidateConfig(changes); err != nil {
		return nil, invalidConfig("invalid style value", err)
	}

	c, err := styles.Merge(ctx, changes)
	if err != nil {
		return nil, err
	}
	return stylesOutput(c), nil
}

// ResetStyles restores and persists the default configuration.
func ResetStyles(ctx context.Context, styles *store.Styles) (*StylesOutput, error) {
	c, err := styles.Reset(ctx)
	if err != nil {
		return nil, err
	}
	return stylesOutput(c), nil
}

// ApplyPreset replaces the stored configuration with the named preset.
func ApplyPreset(ctx context.Context, styles *store.Styles, name string) (*StylesOutput, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	p, ok := style.Preset(name)
	if !ok {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown preset %q: expected one of %s",
			name, strings.Join(style.PresetNames(), ", ")))
	}
	if err := styles.Save(ctx, p); err != nil {
		return nil, err
	}
	return stylesOutput(style.Resolve(p)), nil
}

// EncodeStyles returns the resolved configuration as indented JSON.
func EncodeStyles(ctx context.Context, styles *store.Styles) ([]byte, error) {
	c, err := styles.Load(ctx)
	if err != nil {
		return nil, err
	}
	data, err := c.Encode()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return data, nil
}

// ExportStylesInput contains parameters for ExportStyles.
type ExportStylesInput struct {
	Path string // optional; full destination path
	Dir  string // optional; destination directory when Path is empty
}

// ExportStylesOutput contains the result of ExportStyles.
type ExportStylesOutput struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// ExportStyles writes the resolved configuration to a JSON file.
func ExportStyles(ctx context.Context, styles *store.Styles, input ExportStylesInput) (*ExportStylesOutput, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" {
		dir := strings.TrimSpace(input.Dir)
		if dir == "" {
			var err error
			if dir, err = DefaultExportsDir(); err != nil {
				return nil, err
			}
		}
		path = filepath.Join(dir, StylesFileName)
	}
	if err := ValidatePath(path, PathCheckWrite, []string{".json"}); err != nil {
		return nil, err
	}

	data, err := EncodeStyles(ctx, styles)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return nil, err
	}
	return &ExportStylesOutput{Path: path, Bytes: len(data)}, nil
}

// ImportStyles parses a JSON or YAML configuration, validates it and saves
// it resolved over the defaults. The stored configuration is unchanged on
// any error.
func ImportStyles(ctx context.Context, styles *store.Styles, data []byte) (*StylesOutput, error) {
	imported, err := style.Decode(data)
	if err != nil {
		return nil, errors.NewInvalidConfig(fmt.Sprintf("invalid configuration file: %v", err))
	}
	if err := style.ValidateConfig(imported); err != nil {
		return nil, invalidConfig("invalid configuration file", err)
	}

	c := style.Resolve(imported)
	if err := styles.Save(ctx, c); err != nil {
		return nil, err
	}
	return stylesOutput(c), nil
}

// ImportStylesFile reads a configuration file and imports it.
func ImportStylesFile(ctx context.Context, styles *store.Styles, path string) (*StylesOutput, error) {
	if err := ValidatePath(path, PathCheckRead, []string{".json", ".yaml", ".yml"}); err != nil {
		return nil, err
	}
	data, tooLarge, err := readFileLimited(path, maxStylesFileBytes)
	if err != nil {
		return nil, err
	}
	if tooLarge {
		return nil, errors.NewInvalidConfig("invalid configuration file: file too large")
	}
	return ImportStyles(ctx, styles, data)
}

// invalidConfig wraps a validation failure, listing each rejected key in Details.
func invalidConfig(msg string, err error) *errors.CribError {
	cErr := errors.NewInvalidConfig(fmt.Sprintf("%s: %v", msg, err))
	var verrs validation.Errors
	if stderrors.As(err, &verrs) {
		fields := make(map[string]any, len(verrs))
		for k, v := range verrs {
			fields[k] = v.Error()
		}
		cErr.Details = map[string]any{"fields": fields}
	}
	return cErr
}
