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

var newEntryService = func() service.EntryService {
	return service.NewEntryService(store.Default(), clock.System)
}

type EntryController struct{ beego.Controller }

// Create 购买参与：POST /api/entries（玩家）
// 号码集与 repeat_weeks 来自请求体，玩家身份取自令牌
func (c *EntryController) Create() {
	traceID := helper.GetTraceID(c.Ctx)
	ep, ok, msg := helper.ParseAndValidateEntry(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	claims := middleware.ClaimsFromContext(c.Ctx)
	if claims == nil {
		response.Unauthorized(&c.Controller, "not authenticated", traceID)
		return
	}
	if claims.Role != auth.RolePlayer {
		response.Forbidden(&c.Controller, traceID)
		return
	}

	out, err := newEntryService().CreateEntries(c.Ctx.Request.Context(), service.CreateEntriesInput{
		PlayerID:    claims.AccountID,
		Numbers:     ep.Numbers,
		RepeatWeeks: ep.RepeatWeeks,
		TraceID:     traceID,
	})
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Mine 我的参与记录：GET /api/entries/mine（玩家）
func (c *EntryController) Mine() {
	traceID := helper.GetTraceID(c.Ctx)
	claims := middleware.ClaimsFromContext(c.Ctx)
	if claims == nil {
		response.Unauthorized(&c.Controller, "not authenticated", traceID)
		return
	}

	out, err := newEntryService().ListByPlayer(c.Ctx.Request.Context(), claims.AccountID)
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}
