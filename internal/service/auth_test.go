package service

import (
	"context"
	"testing"
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/internal/auth"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/config"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setMockMode 切换 mock_login 模式，测试结束后还原
func setMockMode(t *testing.T, mode config.MockLoginMode) {
	t.Helper()
	old := config.Get()
	cfg := *old
	cfg.Auth.MockLogin = mode
	config.Set(&cfg)
	t.Cleanup(func() { config.Set(old) })
}

func seedCredentialPlayer(t *testing.T, st *memstore.Store, id, name, email, password string) {
	t.Helper()
	ctx := context.Background()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
		return tx.InsertPlayer(ctx, &model.Player{ID: id, Name: name, Email: email, PasswordHash: hash})
	}))
}

func seedCredentialAdmin(t *testing.T, st *memstore.Store, id, name, email, password string) {
	t.Helper()
	ctx := context.Background()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
		return tx.InsertAdmin(ctx, &model.Admin{ID: id, Name: name, Email: email, PasswordHash: hash})
	}))
}

func TestLoginPlayer(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewAuthService(st, newTestClock())

	seedCredentialPlayer(t, st, "p1", "Alice", "alice@example.com", "secret1")

	out, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "p1", out.AccountID)
	assert.Equal(t, auth.RolePlayer, out.Role)
	assert.False(t, out.IsMock)

	_, err = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong"})
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginAdmin(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewAuthService(st, newTestClock())

	seedCredentialAdmin(t, st, "a1", "Ops", "ops@example.com", "opspass")

	out, err := svc.Login(ctx, LoginInput{Email: "ops@example.com", Password: "opspass"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, out.Role)
	assert.Equal(t, "a1", out.AccountID)
}

func TestLoginDeletedAccountRejected(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewAuthService(st, newTestClock())

	seedCredentialPlayer(t, st, "p1", "Alice", "alice@example.com", "secret1")
	require.NoError(t, NewPlayerService(st, newTestClock()).SoftDelete(ctx, "p1", ""))

	_, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "secret1"})
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestMockLoginModes(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(memstore.New(), newTestClock())

	adminLogin := LoginInput{Email: "admin", Password: "admin"}
	playerLogin := LoginInput{Email: "user", Password: "user"}

	// off：固定账号不放行
	setMockMode(t, config.MockLoginOff)
	_, err := svc.Login(ctx, adminLogin)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = svc.Login(ctx, playerLogin)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	// admin：仅放行管理员
	setMockMode(t, config.MockLoginAdmin)
	out, err := svc.Login(ctx, adminLogin)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, out.Role)
	assert.True(t, out.IsMock)
	_, err = svc.Login(ctx, playerLogin)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	// player：仅放行玩家
	setMockMode(t, config.MockLoginPlayer)
	out, err = svc.Login(ctx, playerLogin)
	require.NoError(t, err)
	assert.Equal(t, auth.RolePlayer, out.Role)
	assert.True(t, out.IsMock)
	_, err = svc.Login(ctx, adminLogin)
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	// all：两者都放行
	setMockMode(t, config.MockLoginAll)
	_, err = svc.Login(ctx, adminLogin)
	require.NoError(t, err)
	_, err = svc.Login(ctx, playerLogin)
	require.NoError(t, err)
}

func TestMockLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(memstore.New(), newTestClock())

	setMockMode(t, config.MockLoginAll)
	_, err := svc.Login(ctx, LoginInput{Email: "admin", Password: "user"})
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLoginCaptchaRequired(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewAuthService(st, newTestClock())

	old := config.Get()
	cfg := *old
	cfg.Auth.CaptchaEnabled = true
	config.Set(&cfg)
	t.Cleanup(func() { config.Set(old) })

	seedCredentialPlayer(t, st, "p1", "Alice", "alice@example.com", "secret1")

	_, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "secret1"})
	require.ErrorIs(t, err, auth.ErrCaptchaRequired)

	_, err = svc.Login(ctx, LoginInput{
		Email: "alice@example.com", Password: "secret1",
		CaptchaID: "nope", CaptchaValue: "0000",
	})
	require.ErrorIs(t, err, auth.ErrCaptchaMismatch)
}

func TestLogoutWithoutRedisIsNoop(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(memstore.New(), newTestClock())

	// Redis 未初始化时注销降级为空操作
	err := svc.Logout(ctx, "some-token", time.Now().Add(time.Hour))
	require.NoError(t, err)
}
