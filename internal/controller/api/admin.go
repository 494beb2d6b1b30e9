package api

import (
	"github.com/MortenBoHub/ThirdSemesterExam/internal/clock"
	helper "github.com/MortenBoHub/ThirdSemesterExam/internal/common/helper"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/common/response"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/service"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"

	beego "github.com/beego/beego/v2/server/web"
)

var newAdminService = func() service.AdminService {
	return service.NewAdminService(store.Default(), clock.System)
}

// AdminController 管理员目录（整组路由走管理员过滤器）
type AdminController struct{ beego.Controller }

// Create 新增管理员：POST /api/admins
func (c *AdminController) Create() {
	traceID := helper.GetTraceID(c.Ctx)
	ap, ok, msg := helper.ParseAndValidateAccountCreate(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	out, err := newAdminService().Create(c.Ctx.Request.Context(), service.CreateAdminInput{
		Name:     ap.Name,
		Email:    ap.Email,
		Phone:    ap.Phone,
		Password: ap.Password,
		TraceID:  traceID,
	})
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// List 管理员列表：GET /api/admins
func (c *AdminController) List() {
	traceID := helper.GetTraceID(c.Ctx)
	out, err := newAdminService().List(c.Ctx.Request.Context())
	if err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Delete 软删除：DELETE /api/admins/:id
func (c *AdminController) Delete() {
	traceID := helper.GetTraceID(c.Ctx)
	adminID := c.Ctx.Input.Param(":id")
	if adminID == "" {
		response.BadRequest(&c.Controller, "admin id required", traceID)
		return
	}
	if err := newAdminService().SoftDelete(c.Ctx.Request.Context(), adminID, traceID); err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, nil, traceID)
}

// Restore 恢复软删除：POST /api/admins/:id/restore
func (c *AdminController) Restore() {
	traceID := helper.GetTraceID(c.Ctx)
	adminID := c.Ctx.Input.Param(":id")
	if adminID == "" {
		response.BadRequest(&c.Controller, "admin id required", traceID)
		return
	}
	if err := newAdminService().Restore(c.Ctx.Request.Context(), adminID, traceID); err != nil {
		writeDomainError(&c.Controller, err, traceID)
		return
	}
	response.Success(&c.Controller, nil, traceID)
}
