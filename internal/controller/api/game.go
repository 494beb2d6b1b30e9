package api

import (
	"strconv"

	"github.com/MortenBoHub/ThirdSemesterExam/internal/clock"
	helper "github.com/MortenBoHub/ThirdSemesterExam/internal/common/helper"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/common/response"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/middleware"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/service"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"

	beego "github.com/beego/beego/v2/server/web"
)

var newGameService = func() service.GameService {
	return service.NewGameService(store.Default(), clock.System)
}

type GameController struct{ beego.Controller }

// Participants 激活回合参与者：GET /api/game/participants（管理员）
func (c *GameController) Participants() {
	traceID := helper.GetTraceID(c.Ctx)
	out, err := newGameService().ActiveParticipants(c.Ctx.Request.Context())
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// History 历史回合：GET /api/game/history?take=10（需登录）
// 管理员可见中奖者详情，玩家附带本人参与记录
func (c *GameController) History() {
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

	claims := middleware.ClaimsFromContext(c.Ctx)
	if claims == nil {
		response.Unauthorized(&c.Controller, "not authenticated", traceID)
		return
	}

	out, err := newGameService().History(c.Ctx.Request.Context(), service.HistoryInput{
		Take:       take,
		ViewerRole: claims.Role,
		ViewerID:   claims.AccountID,
	})
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}
