package user

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/pkg/errors"

	"github.com/blacklytning/alc/core"
)

const (
	pwdMinLength        = 8
	pwdMaxSimilarity    = 0.7
	pwdSimilarityFields = "name, username or email"
)

var (
	staffRoleTag  = "staffrole"
	staffRoleText = "must be one of admin, clerk"
)

var (
	isDigitsRegex = regexp.MustCompile(`^\d+$`)

	// short list of passwords seen too often in breach dumps; a staff
	// account guards payment records so we refuse the obvious ones.
	commonPasswords = map[string]struct{}{
		"password": {}, "password1": {}, "password123": {},
		"12345678": {}, "123456789": {}, "1234567890": {},
		"qwerty123": {}, "letmein123": {}, "iloveyou1": {},
		"admin123": {}, "welcome1": {}, "abc12345": {},
	}
)

func init() {
	_ = core.Validate.RegisterValidation(staffRoleTag, isValidRole)
	core.RegisterCustomTranslation(core.Validate, core.Translator, staffRoleTag, staffRoleText)
}

func isValidRole(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, role := range AllRoles {
		if val == role {
			return true
		}
	}
	return false
}

// validatePassword enforces the password policy: a minimum length, not
// entirely numeric, not a common password and not too similar to the
// account's own attributes.
func validatePassword(pwd string, attrs ...string) error {
	if len(pwd) < pwdMinLength {
		return core.NewValidationError(
			errors.New("password too short"),
			core.FieldError{Field: "password", Error: fmt.Sprintf("password must contain at least %d characters", pwdMinLength)},
		)
	}
	if isDigitsRegex.MatchString(pwd) {
		return core.NewValidationError(
			errors.New("password entirely numeric"),
			core.FieldError{Field: "password", Error: "password cannot be entirely numeric"},
		)
	}
	if _, found := commonPasswords[strings.ToLower(pwd)]; found {
		return core.NewValidationError(
			errors.New("password too common"),
			core.FieldError{Field: "password", Error: "password is too common"},
		)
	}
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		matcher := difflib.NewMatcher(
			strings.Split(strings.ToLower(pwd), ""),
			strings.Split(strings.ToLower(attr), ""),
		)
		if matcher.QuickRatio() > pwdMaxSimilarity {
			return core.NewValidationError(
				errors.New("password too similar to account attribute"),
				core.FieldError{Field: "password", Error: fmt.Sprintf("password is too similar to the %s", pwdSimilarityFields)},
			)
		}
	}
	return nil
}
