package api

import (
	"github.com/MortenBoHub/ThirdSemesterExam/internal/auth"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/clock"
	helper "github.com/MortenBoHub/ThirdSemesterExam/internal/common/helper"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/common/response"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/middleware"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/service"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"

	beego "github.com/beego/beego/v2/server/web"
)

var newPlayerService = func() service.PlayerService {
	return service.NewPlayerService(store.Default(), clock.System)
}

type PlayerController struct{ beego.Controller }

// canAccessPlayer 管理员或玩家本人可操作
func canAccessPlayer(claims *auth.Claims, playerID string) bool {
	if claims == nil {
		return false
	}
	return claims.IsAdmin() || claims.AccountID == playerID
}

// requireAdmin 校验管理员角色；未通过时已写响应
func (c *PlayerController) requireAdmin(traceID string) bool {
	claims := middleware.ClaimsFromContext(c.Ctx)
	if claims == nil || !claims.IsAdmin() {
		response.Forbidden(&c.Controller, traceID)
		return false
	}
	return true
}

// Create 注册玩家：POST /api/players（管理员）
func (c *PlayerController) Create() {
	traceID := helper.GetTraceID(c.Ctx)
	if !c.requireAdmin(traceID) {
		return
	}
	pp, ok, msg := helper.ParseAndValidateAccountCreate(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	out, err := newPlayerService().Create(c.Ctx.Request.Context(), service.CreatePlayerInput{
		Name:     pp.Name,
		Email:    pp.Email,
		Phone:    pp.Phone,
		Password: pp.Password,
		TraceID:  traceID,
	})
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// List 玩家列表：GET /api/players（管理员）
func (c *PlayerController) List() {
	traceID := helper.GetTraceID(c.Ctx)
	if !c.requireAdmin(traceID) {
		return
	}
	out, err := newPlayerService().List(c.Ctx.Request.Context())
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Get 玩家详情（含参与记录）：GET /api/players/:id（管理员或本人）
func (c *PlayerController) Get() {
	traceID := helper.GetTraceID(c.Ctx)
	playerID := c.Ctx.Input.Param(":id")
	if playerID == "" {
		response.BadRequest(&c.Controller, "player id required", traceID)
		return
	}
	if !canAccessPlayer(middleware.ClaimsFromContext(c.Ctx), playerID) {
		response.Forbidden(&c.Controller, traceID)
		return
	}

	out, err := newPlayerService().Get(c.Ctx.Request.Context(), playerID)
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Update 部分更新：PUT /api/players/:id（管理员或本人）
func (c *PlayerController) Update() {
	traceID := helper.GetTraceID(c.Ctx)
	playerID := c.Ctx.Input.Param(":id")
	if playerID == "" {
		response.BadRequest(&c.Controller, "player id required", traceID)
		return
	}
	if !canAccessPlayer(middleware.ClaimsFromContext(c.Ctx), playerID) {
		response.Forbidden(&c.Controller, traceID)
		return
	}

	up, ok, msg := helper.ParseAndValidatePlayerUpdate(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	out, err := newPlayerService().Update(c.Ctx.Request.Context(), service.UpdatePlayerInput{
		PlayerID: playerID,
		Name:     up.Name,
		Email:    up.Email,
		Phone:    up.Phone,
		TraceID:  traceID,
	})
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// ChangePassword 改密：POST /api/players/:id/password（本人）
func (c *PlayerController) ChangePassword() {
	traceID := helper.GetTraceID(c.Ctx)
	playerID := c.Ctx.Input.Param(":id")
	if playerID == "" {
		response.BadRequest(&c.Controller, "player id required", traceID)
		return
	}

	claims := middleware.ClaimsFromContext(c.Ctx)
	if claims == nil || claims.AccountID != playerID {
		// 改密需要当前口令，管理员也不能代改
		response.Forbidden(&c.Controller, traceID)
		return
	}

	cp, ok, msg := helper.ParseAndValidatePasswordChange(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	err := newPlayerService().ChangePassword(c.Ctx.Request.Context(), service.ChangePasswordInput{
		PlayerID:        playerID,
		CurrentPassword: cp.CurrentPassword,
		NewPassword:     cp.NewPassword,
		TraceID:         traceID,
	})
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, nil, traceID)
}

// Delete 软删除：DELETE /api/players/:id（管理员）
func (c *PlayerController) Delete() {
	traceID := helper.GetTraceID(c.Ctx)
	if !c.requireAdmin(traceID) {
		return
	}
	playerID := c.Ctx.Input.Param(":id")
	if playerID == "" {
		response.BadRequest(&c.Controller, "player id required", traceID)
		return
	}

	if err := newPlayerService().SoftDelete(c.Ctx.Request.Context(), playerID, traceID); err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, nil, traceID)
}

// Restore 恢复软删除：POST /api/players/:id/restore（管理员）
func (c *PlayerController) Restore() {
	traceID := helper.GetTraceID(c.Ctx)
	if !c.requireAdmin(traceID) {
		return
	}
	playerID := c.Ctx.Input.Param(":id")
	if playerID == "" {
		response.BadRequest(&c.Controller, "player id required", traceID)
		return
	}

	if err := newPlayerService().Restore(c.Ctx.Request.Context(), playerID, traceID); err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, nil, traceID)
}
