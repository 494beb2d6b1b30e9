package api

import (
	"errors"
	"strings"
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/internal/auth"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/clock"
	helper "github.com/MortenBoHub/ThirdSemesterExam/internal/common/helper"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/common/response"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/middleware"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/service"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"

	beego "github.com/beego/beego/v2/server/web"
)

var newAuthService = func() service.AuthService {
	return service.NewAuthService(store.Default(), clock.System)
}

type AuthController struct{ beego.Controller }

// Login 处理登录：POST /api/auth/login
func (c *AuthController) Login() {
	traceID := helper.GetTraceID(c.Ctx)
	lp, ok, msg := helper.ParseAndValidateLogin(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	out, err := newAuthService().Login(c.Ctx.Request.Context(), service.LoginInput{
		Email:        lp.Email,
		Password:     lp.Password,
		CaptchaID:    lp.CaptchaID,
		CaptchaValue: lp.CaptchaValue,
		TraceID:      traceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			response.Unauthorized(&c.Controller, err.Error(), traceID)
		case errors.Is(err, auth.ErrCaptchaRequired), errors.Is(err, auth.ErrCaptchaMismatch):
			response.BadRequest(&c.Controller, err.Error(), traceID)
		default:
			writeDomainError(&c.Controller, err, traceID)
		}
		return
	}

	response.Success(&c.Controller, out, traceID)
}

// Logout 撤销当前令牌：POST /api/auth/logout（需登录）
func (c *AuthController) Logout() {
	traceID := helper.GetTraceID(c.Ctx)
	claims := middleware.ClaimsFromContext(c.Ctx)
	if claims == nil {
		response.Unauthorized(&c.Controller, "not authenticated", traceID)
		return
	}

	authHeader := strings.TrimSpace(c.Ctx.Input.Header("Authorization"))
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 {
		response.Unauthorized(&c.Controller, "invalid token format", traceID)
		return
	}

	expiresAt := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := newAuthService().Logout(c.Ctx.Request.Context(), parts[1], expiresAt); err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}

	response.Success(&c.Controller, nil, traceID)
}

// Captcha 生成验证码：GET /api/auth/captcha
func (c *AuthController) Captcha() {
	traceID := helper.GetTraceID(c.Ctx)
	id, b64, err := auth.CreateCaptcha()
	if err != nil {
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, map[string]interface{}{
		"captcha_id": id,
		"image":      b64,
	}, traceID)
}
