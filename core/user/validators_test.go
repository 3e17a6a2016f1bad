package user

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/blacklytning/alc/core"
)

func fieldError(t *testing.T, err error) string {
	t.Helper()

	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("expected *core.ValidationError, got %T: %v", err, err)
	}
	if len(vErr.Fields) == 0 {
		t.Fatal("expected field errors")
	}
	return vErr.Fields[0].Error
}

func Test_validatePassword(t *testing.T) {
	tests := []struct {
		name    string
		pwd     string
		attrs   []string
		wantErr string
	}{
		{name: "too short", pwd: "ab1%", wantErr: "password must contain at least 8 characters"},
		{name: "entirely numeric", pwd: "83479308258", wantErr: "password cannot be entirely numeric"},
		{name: "too common", pwd: "Password123", wantErr: "password is too common"},
		{
			name:    "too similar to username",
			pwd:     "asha.pawar1",
			attrs:   []string{"Asha Pawar", "asha.pawar", "asha@test.in"},
			wantErr: "password is too similar to the name, username or email",
		},
		{name: "acceptable", pwd: "t0psecret#42", attrs: []string{"Asha Pawar", "asha", "asha@test.in"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePassword(tt.pwd, tt.attrs...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantErr, fieldError(t, err))
			}
		})
	}
}

func Test_User_SetCheckPassword(t *testing.T) {
	usr := User{Name: "Asha Pawar", Username: "asha", Email: "asha@test.in"}

	assert.NoError(t, usr.SetPassword("t0psecret#42"))
	assert.NotEmpty(t, usr.PasswordHash)
	assert.NoError(t, usr.CheckPassword("t0psecret#42"))
	assert.Error(t, usr.CheckPassword("wrong"))
}

func Test_NewUser_roleValidation(t *testing.T) {
	nu := NewUser{
		Name:            "Asha Pawar",
		Username:        "asha",
		Password:        "t0psecret#42",
		PasswordConfirm: "t0psecret#42",
		Role:            "superuser",
	}

	err := core.Validate.Struct(&nu)
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("expected validator.ValidationErrors, got %T: %v", err, err)
	}
	assert.Equal(t, staffRoleTag, vErrs[0].Tag())
	assert.Equal(t, staffRoleText, vErrs[0].Translate(core.Translator))

	for _, role := range AllRoles {
		nu.Role = role
		assert.NoError(t, core.Validate.Struct(&nu))
	}
}

func Test_User_IsAdmin(t *testing.T) {
	assert.True(t, User{Role: RoleAdmin}.IsAdmin())
	assert.False(t, User{Role: RoleClerk}.IsAdmin())
}
