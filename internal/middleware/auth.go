package middleware

import (
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/common/logger"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/auth"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/common/helper"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/common/response"

	beegocontext "github.com/beego/beego/v2/server/web/context"
	"go.uber.org/zap"
)

// 注入到请求数据里的键名，控制器通过 ctx.Input.GetData 读取
const (
	DataClaims    = "claims"
	DataAccountID = "account_id"
	DataRole      = "role"
)

func writeAuthError(ctx *beegocontext.Context, httpStatus, code int, message, traceID string) {
	ctx.Output.SetStatus(httpStatus)
	ctx.Output.JSON(response.APIResponse{
		Code:      code,
		Message:   message,
		Data:      nil,
		TraceID:   traceID,
		Timestamp: time.Now().UnixMilli(),
	}, false, false)
}

// verifyAndStash 校验 JWT 并把 Claims 注入请求数据；失败时已写响应并返回 nil
func verifyAndStash(ctx *beegocontext.Context) *auth.Claims {
	traceID := helper.GetTraceID(ctx)

	claims, err := auth.VerifyJWTToken(ctx)
	if err != nil {
		code := response.CodeInvalidToken
		switch err {
		case auth.ErrMissingToken:
			code = response.CodeUnauthorized
		case auth.ErrTokenRevoked:
			code = response.CodeTokenRevoked
		}
		logger.Warn("authentication failed",
			zap.String("trace_id", traceID),
			zap.Error(err))
		writeAuthError(ctx, 401, code, err.Error(), traceID)
		return nil
	}

	ctx.Input.SetData(DataClaims, claims)
	ctx.Input.SetData(DataAccountID, claims.AccountID)
	ctx.Input.SetData(DataRole, claims.Role)
	return claims
}

// ClaimsFromContext 读取过滤器注入的 Claims（未认证路由返回 nil）
func ClaimsFromContext(ctx *beegocontext.Context) *auth.Claims {
	if v := ctx.Input.GetData(DataClaims); v != nil {
		if c, ok := v.(*auth.Claims); ok {
			return c
		}
	}
	return nil
}

// UserAuthFilter 登录认证过滤器：任何有效令牌（玩家或管理员）均放行
func UserAuthFilter(ctx *beegocontext.Context) {
	verifyAndStash(ctx)
}

// AdminAuthFilter 管理员认证过滤器：要求令牌角色为 admin
// 用于保护管理接口（开奖、回合管理、资金审批等）
func AdminAuthFilter(ctx *beegocontext.Context) {
	claims := verifyAndStash(ctx)
	if claims == nil {
		return
	}
	if !claims.IsAdmin() {
		traceID := helper.GetTraceID(ctx)
		logger.Warn("admin access denied",
			zap.String("trace_id", traceID),
			zap.String("account_id", claims.AccountID),
			zap.String("role", claims.Role))
		writeAuthError(ctx, 403, response.CodeForbidden, "admin role required", traceID)
	}
}
