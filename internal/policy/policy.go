// Package policy 写操作前的输入校验：邮箱格式、密码强度、昵称与标题长度
package policy

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"listify/internal/domain"
)

const (
	PasswordMinLen = 6
	PasswordMaxLen = 30
	NicknameMaxLen = 30
	TitleMaxLen    = 255

	// 允许的特殊字符集合
	passwordSymbols = `!@#$%^&*(),.?":{}|<>`
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Error 指出失败的字段与原因，Unwrap 为 domain.ErrValidation
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string { return e.Field + ": " + e.Reason }
func (e *Error) Unwrap() error { return domain.ErrValidation }

func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// CheckEmail 同 ValidateEmail，失败时返回 *Error
func CheckEmail(s string) error {
	if !ValidateEmail(s) {
		return &Error{Field: "email", Reason: "is not a valid address"}
	}
	return nil
}

// ValidatePassword 长度 6..30，且字母、数字、符号至少占两类
func ValidatePassword(s string) error {
	n := utf8.RuneCountInString(s)
	if n < PasswordMinLen {
		return &Error{Field: "password", Reason: "must be at least 6 characters"}
	}
	if n > PasswordMaxLen {
		return &Error{Field: "password", Reason: "must be at most 30 characters"}
	}

	var alpha, digit, symbol bool
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf && ('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'):
			alpha = true
		case '0' <= r && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	if count(alpha, digit, symbol) < 2 {
		return &Error{Field: "password", Reason: "must contain at least two of letters, digits and symbols"}
	}
	return nil
}

func ValidateNickname(s string) error {
	if strings.TrimSpace(s) == "" {
		return &Error{Field: "nickname", Reason: "is required"}
	}
	if utf8.RuneCountInString(s) > NicknameMaxLen {
		return &Error{Field: "nickname", Reason: "must be at most 30 characters"}
	}
	return nil
}

func count(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

// ValidateTitle 歌单标题：必填，不超过 255 个字符
func ValidateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return &Error{Field: "title", Reason: "is required"}
	}
	if utf8.RuneCountInString(s) > TitleMaxLen {
		return &Error{Field: "title", Reason: "must be at most 255 characters"}
	}
	return nil
}
