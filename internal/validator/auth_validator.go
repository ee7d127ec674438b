package validator

import (
	"net/http"
	"strings"
	"unicode"

	"veggieapp/internal/usecase"
)

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{}
}

// サインアップの入力を検証。
// エラーはそのままレスポンスに使えるHTTPErrorで返す
func (v *authValidator) ValidateRegister(name, phone, password string) error {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)

	// 必須チェック
	if name == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	// 電話番号は数字10桁以上
	if countDigits(phone) < 10 {
		return usecase.NewHTTPError(http.StatusBadRequest, "Phone number must be at least 10 digits")
	}

	// パスワード最低文字数（MVP: 6）
	if len(password) < 6 {
		return usecase.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(phone, password string) error {
	phone = strings.TrimSpace(phone)

	// 必須チェック
	if phone == "" || password == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "Phone and password are required")
	}

	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
