package attendance

import (
	"github.com/go-playground/validator/v10"

	"github.com/blacklytning/alc/core"
)

var (
	attStatusTag  = "attstatus"
	attStatusText = "must be one of PRESENT, ABSENT"
)

func init() {
	_ = core.Validate.RegisterValidation(attStatusTag, attStatusValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, attStatusTag, attStatusText)
}

func attStatusValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val == StatusPresent || val == StatusAbsent
}
