package auth

import "errors"

// 认证相关错误定义
var (
	ErrMissingToken         = errors.New("missing authorization token")
	ErrInvalidTokenFormat   = errors.New("invalid token format")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenRevoked         = errors.New("token revoked")
	ErrInvalidSigningMethod = errors.New("invalid signing method")
	ErrForbidden            = errors.New("forbidden")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaMismatch    = errors.New("captcha mismatch")
)
