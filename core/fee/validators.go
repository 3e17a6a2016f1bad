package fee

import (
	"github.com/go-playground/validator/v10"

	"github.com/blacklytning/alc/core"
)

var (
	payMethodTag  = "paymethod"
	payMethodText = "must be one of CASH, CARD, UPI, BANK_TRANSFER, CHEQUE"
)

func init() {
	_ = core.Validate.RegisterValidation(payMethodTag, payMethodValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, payMethodTag, payMethodText)
}

func payMethodValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, m := range Methods {
		if val == m {
			return true
		}
	}
	return false
}
