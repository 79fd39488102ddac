package style

import (
	"slices"
	"strings"

	"github.com/aymerick/douceur/css"
)

// Config maps configuration key names to string values. A partial
// config holds only the keys a user set; a resolved config holds every
// table key. Unknown keys are carried along but never projected.
type Config map[string]string

// Defaults returns a fresh config holding the default of every key.
func Defaults() Config {
	c := make(Config, len(Keys))
	for _, k := range Keys {
		c[k.Name] = k.Default
	}
	return c
}

// Resolve overlays partial on the defaults. Values in partial win.
func Resolve(partial Config) Config {
	c := Defaults()
	for k, v := range partial {
		c[k] = v
	}
	return c
}

// Clone returns a copy of c.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Unknown returns the sorted names of keys not in the table.
func (c Config) Unknown() []string {
	var names []string
	for k := range c {
		if _, ok := keyIndex[k]; !ok {
			names = append(names, k)
		}
	}
	slices.Sort(names)
	return names
}

// Variable is a CSS custom property and its value.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variables projects c onto CSS custom properties in table order,
// followed by the alias variables. Missing keys fall back to defaults.
func (c Config) Variables() []Variable {
	r := Resolve(c)
	vars := make([]Variable, 0, len(Keys)+len(aliases))
	for _, k := range Keys {
		vars = append(vars, Variable{Name: k.Var, Value: project(k, r[k.Name])})
	}
	for _, a := range aliases {
		k := Keys[keyIndex[a.Key]]
		vars = append(vars, Variable{Name: a.Var, Value: project(k, r[k.Name])})
	}
	return vars
}

// VariableMap returns Variables as a map keyed by property name.
func (c Config) VariableMap() map[string]string {
	vars := c.Variables()
	m := make(map[string]string, len(vars))
	for _, v := range vars {
		m[v.Name] = v.Value
	}
	return m
}

func project(k Key, value string) string {
	if k.Kind == KindDimension {
		return px(value)
	}
	return value
}

// px appends the pixel unit. Empty becomes 0px; an existing px suffix is kept.
func px(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return "0px"
	}
	if strings.HasSuffix(strings.ToLower(v), "px") {
		return v
	}
	return v + "px"
}

// Stylesheet renders the variables as a :root rule.
func (c Config) Stylesheet() string {
	rule := css.NewRule(css.QualifiedRule)
	rule.Selectors = []string{":root"}
	for _, v := range c.Variables() {
		rule.Declarations = append(rule.Declarations, &css.Declaration{
			Property: v.Name,
			Value:    v.Value,
		})
	}
	return rule.String() + "\n"
}
