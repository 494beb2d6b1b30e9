package api

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/common/logger"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/clock"
	helper "github.com/MortenBoHub/ThirdSemesterExam/internal/common/helper"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/common/response"
	infrds "github.com/MortenBoHub/ThirdSemesterExam/internal/infra/redis"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/middleware"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/service"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"

	beego "github.com/beego/beego/v2/server/web"
	"go.uber.org/zap"
)

var newRoundService = func() service.RoundService {
	return service.NewRoundService(store.Default(), clock.System)
}

// 活动回合快照的缓存时长
const activeRoundCacheTTL = 30 * time.Second

type RoundController struct{ beego.Controller }

// Create 排期回合：POST /api/rounds（管理员）
func (c *RoundController) Create() {
	traceID := helper.GetTraceID(c.Ctx)
	rp, ok, msg := helper.ParseAndValidateRoundCreate(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	out, err := newRoundService().Create(c.Ctx.Request.Context(), service.CreateRoundInput{
		Year:       rp.Year,
		WeekNumber: rp.WeekNumber,
		TraceID:    traceID,
	})
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Activate 激活回合：POST /api/rounds/:id/activate（管理员）
func (c *RoundController) Activate() {
	traceID := helper.GetTraceID(c.Ctx)
	roundID := c.Ctx.Input.Param(":id")
	if roundID == "" {
		response.BadRequest(&c.Controller, "round id required", traceID)
		return
	}

	out, err := newRoundService().Activate(c.Ctx.Request.Context(), roundID, traceID)
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Deactivate 停用回合：POST /api/rounds/:id/deactivate（管理员）
func (c *RoundController) Deactivate() {
	traceID := helper.GetTraceID(c.Ctx)
	roundID := c.Ctx.Input.Param(":id")
	if roundID == "" {
		response.BadRequest(&c.Controller, "round id required", traceID)
		return
	}

	out, err := newRoundService().Deactivate(c.Ctx.Request.Context(), roundID, traceID)
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Draw 开奖并推进：POST /api/rounds/draw（管理员）
func (c *RoundController) Draw() {
	traceID := helper.GetTraceID(c.Ctx)
	dp, ok, msg := helper.ParseAndValidateDraw(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	claims := middleware.ClaimsFromContext(c.Ctx)
	if claims == nil {
		response.Unauthorized(&c.Controller, "not authenticated", traceID)
		return
	}

	out, err := newRoundService().Draw(c.Ctx.Request.Context(), service.DrawInput{
		OperatorID: claims.AccountID,
		Numbers:    dp.Numbers,
		TraceID:    traceID,
	})
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Active 当前激活回合：GET /api/game/active
// Redis 读穿透缓存：命中直接返回，未命中查库后回填
func (c *RoundController) Active() {
	traceID := helper.GetTraceID(c.Ctx)
	reqCtx := c.Ctx.Request.Context()

	if rdb := infrds.Client(); rdb != nil {
		if raw, err := rdb.Get(reqCtx, infrds.ActiveRoundKey()).Result(); err == nil && raw != "" {
			var view service.RoundView
			if err := json.Unmarshal([]byte(raw), &view); err == nil {
				response.Success(&c.Controller, &view, traceID)
				return
			}
		}
	}

	out, err := newRoundService().Active(reqCtx)
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}

	if rdb := infrds.Client(); rdb != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := rdb.Set(reqCtx, infrds.ActiveRoundKey(), raw, activeRoundCacheTTL).Err(); err != nil {
				logger.Warn("cache active round failed", zap.Error(err))
			}
		}
	}
	response.Success(&c.Controller, out, traceID)
}

// Recent 近期已开奖回合：GET /api/rounds/recent?take=10
func (c *RoundController) Recent() {
	traceID := helper.GetTraceID(c.Ctx)
	take := 0
	if ts := c.Ctx.Input.Query("take"); ts != "" {
		n, err := strconv.Atoi(ts)
		if err != nil {
			response.BadRequest(&c.Controller, "take must be integer", traceID)
			return
		}
		take = n
	}

	out, err := newRoundService().Recent(c.Ctx.Request.Context(), take)
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}
