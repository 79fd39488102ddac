package style

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// functionalColor matches rgb(), rgba(), hsl() and hsla() notations.
var functionalColor = regexp.MustCompile(`^(?i)(rgb|rgba|hsl|hsla)\(\s*[-0-9.%]+\s*(,\s*[-0-9.%]+\s*){2,3}\)$`)

// namedColors is the subset of CSS color keywords accepted without a hex value.
var namedColors = map[string]bool{
	"transparent": true, "currentcolor": true,
	"black": true, "white": true, "gray": true, "grey": true, "silver": true,
	"red": true, "maroon": true, "orange": true, "yellow": true, "olive": true,
	"lime": true, "green": true, "teal": true, "aqua": true, "cyan": true,
	"blue": true, "navy": true, "fuchsia": true, "magenta": true, "purple": true,
	"pink": true, "brown": true, "gold": true, "indigo": true, "violet": true,
	"coral": true, "salmon": true, "crimson": true, "tomato": true, "khaki": true,
	"beige": true, "ivory": true, "lavender": true, "plum": true, "orchid": true,
	"tan": true, "wheat": true, "whitesmoke": true, "gainsboro": true,
	"lightgray": true, "lightgrey": true, "darkgray": true, "darkgrey": true,
	"dimgray": true, "slategray": true, "steelblue": true, "skyblue": true,
	"royalblue": true, "midnightblue": true, "seagreen": true, "forestgreen": true,
	"darkgreen": true, "darkblue": true, "darkred": true, "darkorange": true,
	"mintcream": true, "honeydew": true, "aliceblue": true, "ghostwhite": true,
	"snow": true, "linen": true, "seashell": true, "floralwhite": true,
}

var errColor = validation.NewError("validation_is_color", "must be a hex, rgb(), hsl() or named color")

func colorRule(value any) error {
	s, _ := value.(string)
	switch {
	case strings.HasPrefix(s, "#"):
		return validation.Validate(s, is.HexColor)
	case functionalColor.MatchString(s), namedColors[strings.ToLower(s)]:
		return nil
	default:
		return errColor
	}
}

func rangeRule(k Key) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if k.Kind == KindDimension {
			s = strings.TrimSuffix(strings.ToLower(s), "px")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return validation.NewError("validation_is_number", "must be a number")
		}
		if f < k.Min || f > k.Max {
			return validation.NewError("validation_out_of_range",
				fmt.Sprintf("must be between %s and %s", formatFloat(k.Min), formatFloat(k.Max)))
		}
		return nil
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// declarationRule accepts a value only if it forms exactly one CSS declaration.
// The terminator matters: without it the parser drops the last value.
func declarationRule(value any) error {
	s, _ := value.(string)
	decls, err := parser.ParseDeclarations("v: " + s + ";")
	if err != nil || len(decls) != 1 || strings.TrimSpace(decls[0].Value) == "" {
		return validation.NewError("validation_is_css_value", "must be a single CSS value")
	}
	return nil
}

// rules returns the validation rules for a key kind.
func rules(k Key) []validation.Rule {
	switch k.Kind {
	case KindColor:
		return []validation.Rule{validation.Required, validation.By(colorRule)}
	case KindDimension, KindNumber:
		return []validation.Rule{validation.Required, validation.By(rangeRule(k))}
	default:
		return []validation.Rule{validation.Required, validation.Length(1, 200), validation.By(declarationRule)}
	}
}

// Validate checks value against the kind of the named key.
func Validate(name, value string) error {
	k, ok := LookupKey(name)
	if !ok {
		return fmt.Errorf("unknown style key %q", name)
	}
	return validation.Validate(strings.TrimSpace(value), rules(k)...)
}

// ValidateConfig validates every known key in c. Unknown keys are ignored.
// The returned error, if any, is a validation.Errors keyed by name.
func ValidateConfig(c Config) error {
	errs := validation.Errors{}
	for name, value := range c {
		if _, ok := LookupKey(name); !ok {
			continue
		}
		errs[name] = Validate(name, value)
	}
	return errs.Filter()
}
