package service

import (
	"context"
	"strings"
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/common/logger"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/auth"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/clock"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/config"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"

	"go.uber.org/zap"
)

// 模拟登录的固定账号（按配置的 mock_login 模式放行）
const (
	mockAdminCredential  = "admin"
	mockPlayerCredential = "user"
	mockAdminID          = "mock-admin"
	mockPlayerID         = "mock-player"
)

// LoginInput 登录入参；验证码仅在配置开启时校验
type LoginInput struct {
	Email        string
	Password     string
	CaptchaID    string
	CaptchaValue string
	TraceID      string
}

// LoginOutput 登录结果
type LoginOutput struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsMock    bool   `json:"is_mock,omitempty"`
}

// AuthService 登录与注销
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*LoginOutput, error)
	Logout(ctx context.Context, tokenString string, expiresAt time.Time) error
}

type authService struct {
	st  store.Store
	clk clock.Clock
}

// NewAuthService 构造认证服务
func NewAuthService(st store.Store, clk clock.Clock) AuthService {
	return &authService{st: st, clk: clk}
}

// Login 顺序：验证码（可选）-> 模拟登录 -> 管理员目录 -> 玩家目录
// 账号不存在与口令不符统一返回 ErrInvalidCredentials，避免泄露目录信息
func (s *authService) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	cfg := config.Get()

	if cfg != nil && cfg.Auth.CaptchaEnabled {
		if in.CaptchaID == "" || in.CaptchaValue == "" {
			return nil, auth.ErrCaptchaRequired
		}
		if !auth.VerifyCaptcha(in.CaptchaID, in.CaptchaValue) {
			return nil, auth.ErrCaptchaMismatch
		}
	}

	mockMode := config.MockLoginOff
	if cfg != nil {
		mockMode = cfg.Auth.MockLogin
	}

	if mockMode.AllowsAdmin() && in.Email == mockAdminCredential && in.Password == mockAdminCredential {
		return s.issue(in.TraceID, mockAdminID, "Mock Admin", mockAdminCredential, auth.RoleAdmin, true)
	}
	if mockMode.AllowsPlayer() && in.Email == mockPlayerCredential && in.Password == mockPlayerCredential {
		return s.issue(in.TraceID, mockPlayerID, "Mock Player", mockPlayerCredential, auth.RolePlayer, true)
	}

	email := strings.TrimSpace(in.Email)

	admin, err := s.st.GetAdminByEmail(ctx, email)
	switch {
	case err == nil:
		if admin.Deleted() || !auth.VerifyPassword(admin.PasswordHash, in.Password) {
			return nil, auth.ErrInvalidCredentials
		}
		return s.issue(in.TraceID, admin.ID, admin.Name, admin.Email, auth.RoleAdmin, false)
	case isNotFound(err):
		// 继续查玩家目录
	default:
		return nil, err
	}

	player, err := s.st.GetPlayerByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	if player.Deleted() || !auth.VerifyPassword(player.PasswordHash, in.Password) {
		return nil, auth.ErrInvalidCredentials
	}
	return s.issue(in.TraceID, player.ID, player.Name, player.Email, auth.RolePlayer, false)
}

func (s *authService) issue(traceID, accountID, name, email, role string, isMock bool) (*LoginOutput, error) {
	token, err := auth.GenerateAccessToken(accountID, email, role, isMock)
	if err != nil {
		return nil, err
	}
	logger.Info("login succeeded",
		zap.String("trace_id", traceID),
		zap.String("account_id", accountID),
		zap.String("role", role),
		zap.Bool("is_mock", isMock))
	return &LoginOutput{
		Token:     token,
		AccountID: accountID,
		Name:      name,
		Email:     email,
		Role:      role,
		IsMock:    isMock,
	}, nil
}

// Logout 将令牌加入黑名单，TTL 对齐剩余有效期
func (s *authService) Logout(ctx context.Context, tokenString string, expiresAt time.Time) error {
	return auth.RevokeToken(ctx, tokenString, expiresAt)
}
