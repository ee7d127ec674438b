package validator_test

import (
	"testing"

	"veggieapp/internal/usecase"
	"veggieapp/internal/validator"

	"github.com/stretchr/testify/assert"
)

func TestAuthValidator_ValidateRegister(t *testing.T) {
	v := validator.NewAuthValidator()

	cases := []struct {
		name     string
		inName   string
		phone    string
		password string
		wantMsg  string
	}{
		{"ok", "Taro", "09012345678", "secret", ""},
		{"ok formatted phone", "Taro", "+81 90-1234-5678", "secret", ""},
		{"name required", "   ", "09012345678", "secret", "Name is required"},
		{"phone too short", "Taro", "090123", "secret", "Phone number must be at least 10 digits"},
		{"phone letters only", "Taro", "not-a-number", "secret", "Phone number must be at least 10 digits"},
		{"password too short", "Taro", "09012345678", "12345", "Password must be at least 6 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateRegister(tc.inName, tc.phone, tc.password)
			if tc.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			httpErr, ok := usecase.AsHTTPError(err)
			assert.True(t, ok)
			assert.Equal(t, 400, httpErr.Status)
			assert.Equal(t, tc.wantMsg, httpErr.Message)
		})
	}
}

func TestAuthValidator_ValidateLogin(t *testing.T) {
	v := validator.NewAuthValidator()

	assert.NoError(t, v.ValidateLogin("09012345678", "secret"))

	for _, tc := range []struct{ phone, password string }{
		{"", "secret"},
		{"09012345678", ""},
		{"   ", "secret"},
	} {
		err := v.ValidateLogin(tc.phone, tc.password)
		httpErr, ok := usecase.AsHTTPError(err)
		assert.True(t, ok)
		assert.Equal(t, 400, httpErr.Status)
		assert.Equal(t, "Phone and password are required", httpErr.Message)
	}
}
