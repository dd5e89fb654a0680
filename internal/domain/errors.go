package domain

import "errors"

// 错误分类：调用方用 errors.Is 判断大类，再按具体 sentinel 细分
var (
	ErrValidation = errors.New("validation failed")
	ErrAuthFailed = errors.New("authentication failed")
	ErrToken      = errors.New("token rejected")
	ErrAuthz      = errors.New("not authorized")
)

var (
	ErrDuplicateEmail = &KindError{Kind: ErrValidation, Msg: "email already registered"}

	ErrUnknownUser   = &KindError{Kind: ErrAuthFailed, Msg: "unknown user"}
	ErrBadCredential = &KindError{Kind: ErrAuthFailed, Msg: "bad credential"}

	ErrMissingToken     = &KindError{Kind: ErrToken, Msg: "missing token"}
	ErrMalformedToken   = &KindError{Kind: ErrToken, Msg: "malformed token"}
	ErrExpiredToken     = &KindError{Kind: ErrToken, Msg: "expired token"}
	ErrInvalidSignature = &KindError{Kind: ErrToken, Msg: "invalid signature"}
	ErrRevokedToken     = &KindError{Kind: ErrToken, Msg: "revoked token"}

	ErrResourceNotFound = &KindError{Kind: ErrAuthz, Msg: "resource not found"}
	ErrNotOwner         = &KindError{Kind: ErrAuthz, Msg: "not owner"}
	ErrInactiveUser     = &KindError{Kind: ErrAuthz, Msg: "user not found or inactive"}
	ErrForbiddenRole    = &KindError{Kind: ErrAuthz, Msg: "role not permitted"}

	ErrAlreadyInPlaylist = &KindError{Kind: ErrValidation, Msg: "music already in playlist"}
	ErrNotInPlaylist     = &KindError{Kind: ErrValidation, Msg: "music not in playlist"}
	ErrUserNotFound      = errors.New("user not found")
)

// KindError 具体失败原因，Unwrap 到所属大类
type KindError struct {
	Kind error
	Msg  string
}

func (e *KindError) Error() string { return e.Msg }
func (e *KindError) Unwrap() error { return e.Kind }
