package student

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/blacklytning/alc/core"
)

var (
	mobileTag   = "mobile"
	mobileText  = "must be a valid 10-digit mobile number"
	mobileRegex = regexp.MustCompile(`^[6-9]\d{9}$`)

	aadhaarTag   = "aadhaar"
	aadhaarText  = "must be a valid 12-digit Aadhaar number"
	aadhaarRegex = regexp.MustCompile(`^\d{12}$`)

	examResultTag  = "examresult"
	examResultText = "must be one of pass, fail"
)

const (
	ResultPass = "pass"
	ResultFail = "fail"
)

func init() {
	_ = core.Validate.RegisterValidation(mobileTag, mobileValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, mobileTag, mobileText)

	_ = core.Validate.RegisterValidation(aadhaarTag, aadhaarValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, aadhaarTag, aadhaarText)

	_ = core.Validate.RegisterValidation(examResultTag, examResultValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, examResultTag, examResultText)
}

func mobileValidation(fl validator.FieldLevel) bool {
	return mobileRegex.MatchString(fl.Field().String())
}

func aadhaarValidation(fl validator.FieldLevel) bool {
	return aadhaarRegex.MatchString(fl.Field().String())
}

func examResultValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val == ResultPass || val == ResultFail
}
