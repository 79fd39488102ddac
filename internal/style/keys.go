package style

// Kind is the value kind of a configuration key.
type Kind string

const (
	KindColor     Kind = "color"
	KindDimension Kind = "dimension" // pixel count, emitted with a px suffix
	KindNumber    Kind = "number"    // unitless number
	KindText      Kind = "text"      // free CSS value
)

// Key describes one configuration key and how it is presented and validated.
type Key struct {
	Name    string
	Var     string
	Kind    Kind
	Default string
	Min     float64
	Max     float64
	Step    string
	Group   string
	Label   string
}

// Groups in display order.
const (
	GroupColors     = "Colors"
	GroupText       = "Text"
	GroupBlocks     = "Blocks"
	GroupTypography = "Typography"
	GroupSpacing    = "Spacing"
	GroupLayout     = "Layout"
)

// Keys is the declarative table of every known configuration key.
var Keys = []Key{
	{Name: "primary", Var: "--primary-color", Kind: KindColor, Default: "#667eea", Group: GroupColors, Label: "Primary"},
	{Name: "secondary", Var: "--secondary-color", Kind: KindColor, Default: "#764ba2", Group: GroupColors, Label: "Secondary"},
	{Name: "bg", Var: "--background-color", Kind: KindColor, Default: "#f8f9fa", Group: GroupColors, Label: "Background"},
	{Name: "card", Var: "--card-background", Kind: KindColor, Default: "#ffffff", Group: GroupColors, Label: "Card"},

	{Name: "textPrimary", Var: "--text-primary", Kind: KindColor, Default: "#1a202c", Group: GroupText, Label: "Primary text"},
	{Name: "textSecondary", Var: "--text-secondary", Kind: KindColor, Default: "#4a5568", Group: GroupText, Label: "Secondary text"},
	{Name: "textMuted", Var: "--text-muted", Kind: KindColor, Default: "#718096", Group: GroupText, Label: "Muted text"},
	{Name: "textInverse", Var: "--text-inverse", Kind: KindColor, Default: "#ffffff", Group: GroupText, Label: "Inverse text"},
	{Name: "border", Var: "--border", Kind: KindColor, Default: "#e2e8f0", Group: GroupText, Label: "Border"},
	{Name: "borderLight", Var: "--border-light", Kind: KindColor, Default: "#edf2f7", Group: GroupText, Label: "Light border"},

	{Name: "defBg", Var: "--def-bg", Kind: KindColor, Default: "#f8f9ff", Group: GroupBlocks, Label: "Definition background"},
	{Name: "defBorder", Var: "--def-border", Kind: KindColor, Default: "#667eea", Group: GroupBlocks, Label: "Definition border"},
	{Name: "theoremBg", Var: "--theorem-bg", Kind: KindColor, Default: "#fff5f5", Group: GroupBlocks, Label: "Theorem background"},
	{Name: "theoremBorder", Var: "--theorem-border", Kind: KindColor, Default: "#feb2b2", Group: GroupBlocks, Label: "Theorem border"},
	{Name: "proofBg", Var: "--proof-bg", Kind: KindColor, Default: "#f0fff4", Group: GroupBlocks, Label: "Proof background"},
	{Name: "proofBorder", Var: "--proof-border", Kind: KindColor, Default: "#9ae6b4", Group: GroupBlocks, Label: "Proof border"},
	{Name: "highlightBg", Var: "--highlight-bg", Kind: KindColor, Default: "#fffbeb", Group: GroupBlocks, Label: "Highlight background"},
	{Name: "highlightBorder", Var: "--highlight-border", Kind: KindColor, Default: "#f6e05e", Group: GroupBlocks, Label: "Highlight border"},
	{Name: "codeBg", Var: "--code-bg", Kind: KindColor, Default: "#f6f8fa", Group: GroupBlocks, Label: "Code background"},

	{Name: "fontFamily", Var: "--font-family", Kind: KindText, Default: `-apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif`, Group: GroupTypography, Label: "Font family"},
	{Name: "fontMono", Var: "--font-mono", Kind: KindText, Default: `Monaco, Consolas, "Courier New", monospace`, Group: GroupTypography, Label: "Monospace font"},
	{Name: "fontSizeBase", Var: "--font-size-base", Kind: KindDimension, Default: "16", Min: 8, Max: 48, Step: "1", Group: GroupTypography, Label: "Base size"},
	{Name: "fontSizeSmall", Var: "--font-size-small", Kind: KindDimension, Default: "14", Min: 8, Max: 48, Step: "1", Group: GroupTypography, Label: "Small size"},
	{Name: "fontSizeH1", Var: "--font-size-h1", Kind: KindDimension, Default: "24", Min: 8, Max: 72, Step: "1", Group: GroupTypography, Label: "H1 size"},
	{Name: "fontSizeH2", Var: "--font-size-h2", Kind: KindDimension, Default: "18", Min: 8, Max: 72, Step: "1", Group: GroupTypography, Label: "H2 size"},
	{Name: "fontSizeH3", Var: "--font-size-h3", Kind: KindDimension, Default: "16", Min: 8, Max: 72, Step: "1", Group: GroupTypography, Label: "H3 size"},
	{Name: "fontWeightNormal", Var: "--font-weight-normal", Kind: KindNumber, Default: "400", Min: 100, Max: 900, Step: "100", Group: GroupTypography, Label: "Normal weight"},
	{Name: "fontWeightMedium", Var: "--font-weight-medium", Kind: KindNumber, Default: "500", Min: 100, Max: 900, Step: "100", Group: GroupTypography, Label: "Medium weight"},
	{Name: "fontWeightBold", Var: "--font-weight-bold", Kind: KindNumber, Default: "600", Min: 100, Max: 900, Step: "100", Group: GroupTypography, Label: "Bold weight"},
	{Name: "lineHeight", Var: "--line-height", Kind: KindNumber, Default: "1.6", Min: 0.8, Max: 3, Step: "0.1", Group: GroupTypography, Label: "Line height"},

	{Name: "spaceXs", Var: "--space-xs", Kind: KindDimension, Default: "4", Min: 0, Max: 64, Step: "1", Group: GroupSpacing, Label: "XS"},
	{Name: "spaceSm", Var: "--space-sm", Kind: KindDimension, Default: "8", Min: 0, Max: 64, Step: "1", Group: GroupSpacing, Label: "SM"},
	{Name: "spaceMd", Var: "--space-md", Kind: KindDimension, Default: "12", Min: 0, Max: 64, Step: "1", Group: GroupSpacing, Label: "MD"},
	{Name: "spaceLg", Var: "--space-lg", Kind: KindDimension, Default: "16", Min: 0, Max: 64, Step: "1", Group: GroupSpacing, Label: "LG"},
	{Name: "spaceXl", Var: "--space-xl", Kind: KindDimension, Default: "20", Min: 0, Max: 96, Step: "1", Group: GroupSpacing, Label: "XL"},
	{Name: "space2xl", Var: "--space-2xl", Kind: KindDimension, Default: "24", Min: 0, Max: 96, Step: "1", Group: GroupSpacing, Label: "2XL"},
	{Name: "space3xl", Var: "--space-3xl", Kind: KindDimension, Default: "32", Min: 0, Max: 128, Step: "1", Group: GroupSpacing, Label: "3XL"},

	{Name: "radius", Var: "--radius", Kind: KindDimension, Default: "8", Min: 0, Max: 32, Step: "1", Group: GroupLayout, Label: "Corner radius"},
	{Name: "shadow", Var: "--shadow", Kind: KindText, Default: "0 2px 4px rgba(0, 0, 0, 0.1)", Group: GroupLayout, Label: "Card shadow"},
	{Name: "gap", Var: "--gap", Kind: KindDimension, Default: "20", Min: 0, Max: 96, Step: "1", Group: GroupLayout, Label: "Grid gap"},
	{Name: "contentMaxWidth", Var: "--content-max-width", Kind: KindDimension, Default: "1200", Min: 320, Max: 3840, Step: "10", Group: GroupLayout, Label: "Content max width"},
	{Name: "sectionMinWidth", Var: "--section-min-width", Kind: KindDimension, Default: "350", Min: 120, Max: 1200, Step: "10", Group: GroupLayout, Label: "Section min width"},
	{Name: "borderWidth", Var: "--border-width", Kind: KindDimension, Default: "1", Min: 0, Max: 10, Step: "1", Group: GroupLayout, Label: "Border width"},
	{Name: "defBorderWidth", Var: "--def-border-width", Kind: KindDimension, Default: "4", Min: 0, Max: 20, Step: "1", Group: GroupLayout, Label: "Block border width"},
}

// aliases are extra variables emitted for stylesheets written against
// older variable names. Each maps to the key whose value it mirrors.
var aliases = []struct {
	Var string
	Key string
}{
	{"--primary", "primary"},
	{"--bg", "bg"},
	{"--card", "card"},
	{"--border-radius", "radius"},
}

var keyIndex = func() map[string]int {
	m := make(map[string]int, len(Keys))
	for i, k := range Keys {
		m[k.Name] = i
	}
	return m
}()

// LookupKey returns the table entry for name.
func LookupKey(name string) (Key, bool) {
	i, ok := keyIndex[name]
	if !ok {
		return Key{}, false
	}
	return Keys[i], true
}

// KeyGroup is a named run of keys for display.
type KeyGroup struct {
	Name string
	Keys []Key
}

// Groups returns Keys grouped in table order.
func Groups() []KeyGroup {
	var groups []KeyGroup
	for _, k := range Keys {
		if n := len(groups); n > 0 && groups[n-1].Name == k.Group {
			groups[n-1].Keys = append(groups[n-1].Keys, k)
			continue
		}
		groups = append(groups, KeyGroup{Name: k.Group, Keys: []Key{k}})
	}
	return groups
}
