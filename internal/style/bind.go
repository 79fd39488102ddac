package style

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FormValues is the read side of a submitted form. url.Values satisfies it.
type FormValues interface {
	Get(key string) string
	Has(key string) bool
}

// Bind maps submitted form fields onto a partial config using the key
// table. Fields absent from the form are left unset. Every bound value is
// validated for its kind; failures are returned as validation.Errors and
// the partial holds only the valid values.
func Bind(form FormValues) (Config, error) {
	partial := Config{}
	errs := validation.Errors{}
	for _, k := range Keys {
		if !form.Has(k.Name) {
			continue
		}
		value := strings.TrimSpace(form.Get(k.Name))
		if err := validation.Validate(value, rules(k)...); err != nil {
			errs[k.Name] = err
			continue
		}
		partial[k.Name] = value
	}
	return partial, errs.Filter()
}
