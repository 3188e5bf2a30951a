package pkg

import (
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLen = 8
	// 允许的特殊字符，其余符号一律拒绝
	PasswordSymbols = "@$!%*#?&"
)

// IsValidPassword 至少 8 位，同时包含字母和数字，只允许字母、数字和 PasswordSymbols
func IsValidPassword(p string) bool {
	if len(p) < MinPasswordLen {
		return false
	}
	var hasLetter, hasDigit bool
	for i := 0; i < len(p); i++ {
		ch := p[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
			hasLetter = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		case isPasswordSymbol(ch):
		default:
			return false
		}
	}
	return hasLetter && hasDigit
}

func isPasswordSymbol(ch byte) bool {
	for i := 0; i < len(PasswordSymbols); i++ {
		if PasswordSymbols[i] == ch {
			return true
		}
	}
	return false
}

// HashPassword bcrypt 自带随机盐
func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
