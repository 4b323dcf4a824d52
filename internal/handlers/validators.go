package handlers

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// restrictedCurrencyCodes mirrors the service-level exclusion set so the
// binding layer can reject forbidden codes before any work happens.
var restrictedCurrencyCodes = map[string]struct{}{
	"TRY": {},
	"PLN": {},
	"THB": {},
	"MXN": {},
}

// RegisterValidators installs the custom binding validators on gin's
// validator engine. Call once at startup before serving.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("fxcurrency", validCurrencyCode)
	}
}

// validCurrencyCode accepts a 3-letter alphabetic code outside the
// restricted set. Case normalization happens in the service; the check here
// is case-insensitive.
func validCurrencyCode(fl validator.FieldLevel) bool {
	code := strings.ToUpper(fl.Field().String())
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	_, restricted := restrictedCurrencyCodes[code]
	return !restricted
}
