package routers

import (
	"github.com/MortenBoHub/ThirdSemesterExam/internal/config"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/controller/api"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/metrics"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/middleware"

	beego "github.com/beego/beego/v2/server/web"
)

// Register 注册 HTTP 路由与全局过滤器
// 在配置加载完成后由 main 调用（而非 init，过滤器依赖配置）
func Register() {
	cfg := config.Get()

	// 全局过滤器（按执行顺序）
	// 1. Panic Recovery（最先执行，捕获所有 panic）
	beego.InsertFilter("/*", beego.BeforeRouter, middleware.RecoveryFilter)

	// 2. 请求ID注入
	beego.InsertFilter("/*", beego.BeforeRouter, middleware.RequestIDFilter)

	// 3. CORS 处理（如果启用）
	if cfg != nil && cfg.CORS.Enabled {
		beego.InsertFilter("/*", beego.BeforeExec, middleware.CORSFilter)
	}

	// 4. HTTP 指标收集
	beego.InsertFilter("/*", beego.BeforeExec, metrics.HTTPMetricsFilter)
	beego.InsertFilter("/*", beego.FinishRouter, metrics.HTTPMetricsAfter)

	// 健康检查（无需认证）
	beego.Router("/healthz", &api.HealthController{}, "get:Healthz")
	beego.Router("/readyz", &api.HealthController{}, "get:Readyz")

	// ========== 认证 ==========
	beego.Router("/api/auth/login", &api.AuthController{}, "post:Login")
	beego.Router("/api/auth/captcha", &api.AuthController{}, "get:Captcha")
	beego.InsertFilter("/api/auth/logout", beego.BeforeExec, middleware.UserAuthFilter)
	beego.Router("/api/auth/logout", &api.AuthController{}, "post:Logout")

	// ========== 玩家接口（需登录） ==========
	beego.InsertFilter("/api/entries", beego.BeforeExec, middleware.UserAuthFilter)
	beego.InsertFilter("/api/entries/*", beego.BeforeExec, middleware.UserAuthFilter)
	if cfg != nil && cfg.RateLimit.Enabled {
		// 认证之后限流，按账户维度才拿得到 account_id
		beego.InsertFilter("/api/entries", beego.BeforeExec, middleware.RateLimitFilter)
	}
	beego.Router("/api/entries", &api.EntryController{}, "post:Create")
	beego.Router("/api/entries/mine", &api.EntryController{}, "get:Mine")

	beego.InsertFilter("/api/game/history", beego.BeforeExec, middleware.UserAuthFilter)
	beego.Router("/api/game/active", &api.RoundController{}, "get:Active")
	beego.Router("/api/game/history", &api.GameController{}, "get:History")
	beego.Router("/api/rounds/recent", &api.RoundController{}, "get:Recent")

	beego.InsertFilter("/api/fund-requests", beego.BeforeExec, middleware.UserAuthFilter)
	beego.InsertFilter("/api/fund-requests/mine", beego.BeforeExec, middleware.UserAuthFilter)
	beego.Router("/api/fund-requests", &api.FundRequestController{}, "post:Create;get:List")
	beego.Router("/api/fund-requests/mine", &api.FundRequestController{}, "get:Mine")

	// 玩家目录：整体需登录，管理员专属操作在控制器内校验角色
	beego.InsertFilter("/api/players", beego.BeforeExec, middleware.UserAuthFilter)
	beego.InsertFilter("/api/players/*", beego.BeforeExec, middleware.UserAuthFilter)
	beego.Router("/api/players", &api.PlayerController{}, "post:Create;get:List")
	beego.Router("/api/players/:id", &api.PlayerController{}, "get:Get;put:Update;delete:Delete")
	beego.Router("/api/players/:id/password", &api.PlayerController{}, "post:ChangePassword")
	beego.Router("/api/players/:id/restore", &api.PlayerController{}, "post:Restore")

	// ========== 管理接口（需管理员） ==========
	beego.InsertFilter("/api/rounds", beego.BeforeExec, middleware.AdminAuthFilter)
	beego.InsertFilter("/api/rounds/draw", beego.BeforeExec, middleware.AdminAuthFilter)
	beego.InsertFilter("/api/rounds/:id/activate", beego.BeforeExec, middleware.AdminAuthFilter)
	beego.InsertFilter("/api/rounds/:id/deactivate", beego.BeforeExec, middleware.AdminAuthFilter)
	beego.Router("/api/rounds", &api.RoundController{}, "post:Create")
	beego.Router("/api/rounds/draw", &api.RoundController{}, "post:Draw")
	beego.Router("/api/rounds/:id/activate", &api.RoundController{}, "post:Activate")
	beego.Router("/api/rounds/:id/deactivate", &api.RoundController{}, "post:Deactivate")

	beego.InsertFilter("/api/admins", beego.BeforeExec, middleware.AdminAuthFilter)
	beego.InsertFilter("/api/admins/*", beego.BeforeExec, middleware.AdminAuthFilter)
	beego.Router("/api/admins", &api.AdminController{}, "post:Create;get:List")
	beego.Router("/api/admins/:id", &api.AdminController{}, "delete:Delete")
	beego.Router("/api/admins/:id/restore", &api.AdminController{}, "post:Restore")

	beego.InsertFilter("/api/game/participants", beego.BeforeExec, middleware.AdminAuthFilter)
	beego.Router("/api/game/participants", &api.GameController{}, "get:Participants")

	beego.InsertFilter("/api/fund-requests/:id/approve", beego.BeforeExec, middleware.AdminAuthFilter)
	beego.InsertFilter("/api/fund-requests/:id/deny", beego.BeforeExec, middleware.AdminAuthFilter)
	beego.Router("/api/fund-requests/:id/approve", &api.FundRequestController{}, "post:Approve")
	beego.Router("/api/fund-requests/:id/deny", &api.FundRequestController{}, "post:Deny")
}
