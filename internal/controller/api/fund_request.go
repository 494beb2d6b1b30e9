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

var newFundRequestService = func() service.FundRequestService {
	return service.NewFundRequestService(store.Default(), clock.System)
}

type FundRequestController struct{ beego.Controller }

// Create 提交充值申请：POST /api/fund-requests（玩家）
func (c *FundRequestController) Create() {
	traceID := helper.GetTraceID(c.Ctx)
	fp, ok, msg := helper.ParseAndValidateFundRequest(c.Ctx)
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

	out, err := newFundRequestService().Create(c.Ctx.Request.Context(), service.CreateFundRequestInput{
		PlayerID:       claims.AccountID,
		Amount:         fp.Amount,
		TransactionRef: fp.TransactionRef,
		TraceID:        traceID,
	})
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// List 申请列表：GET /api/fund-requests?status=pending（管理员）
func (c *FundRequestController) List() {
	traceID := helper.GetTraceID(c.Ctx)
	claims := middleware.ClaimsFromContext(c.Ctx)
	if claims == nil || !claims.IsAdmin() {
		response.Forbidden(&c.Controller, traceID)
		return
	}
	out, err := newFundRequestService().List(c.Ctx.Request.Context(), c.Ctx.Input.Query("status"))
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Mine 我的申请：GET /api/fund-requests/mine（玩家）
func (c *FundRequestController) Mine() {
	traceID := helper.GetTraceID(c.Ctx)
	claims := middleware.ClaimsFromContext(c.Ctx)
	if claims == nil {
		response.Unauthorized(&c.Controller, "not authenticated", traceID)
		return
	}

	out, err := newFundRequestService().ListByPlayer(c.Ctx.Request.Context(), claims.AccountID)
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Approve 批准：POST /api/fund-requests/:id/approve（管理员）
func (c *FundRequestController) Approve() {
	c.decide(true)
}

// Deny 拒绝：POST /api/fund-requests/:id/deny（管理员）
func (c *FundRequestController) Deny() {
	c.decide(false)
}

func (c *FundRequestController) decide(approve bool) {
	traceID := helper.GetTraceID(c.Ctx)
	requestID := c.Ctx.Input.Param(":id")
	if requestID == "" {
		response.BadRequest(&c.Controller, "request id required", traceID)
		return
	}

	claims := middleware.ClaimsFromContext(c.Ctx)
	if claims == nil {
		response.Unauthorized(&c.Controller, "not authenticated", traceID)
		return
	}

	in := service.DecideFundRequestInput{
		RequestID: requestID,
		AdminID:   claims.AccountID,
		TraceID:   traceID,
	}

	svc := newFundRequestService()
	var (
		out *service.FundRequestView
		err error
	)
	if approve {
		out, err = svc.Approve(c.Ctx.Request.Context(), in)
	} else {
		out, err = svc.Deny(c.Ctx.Request.Context(), in)
	}
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}
