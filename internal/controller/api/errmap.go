package api

import (
	"errors"

	"github.com/MortenBoHub/ThirdSemesterExam/common/logger"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/common/response"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"

	beego "github.com/beego/beego/v2/server/web"
	"go.uber.org/zap"
)

// writeDomainError 将服务层领域错误统一映射为 HTTP 状态码与业务码
// 未识别的错误一律按系统错误处理（细节只进日志，不出响应）
func writeDomainError(c *beego.Controller, err error, traceID string) {
	var (
		ve *model.ValidationError
		nf *model.NotFoundError
		ce *model.ConflictError
		fe *model.InsufficientFundsError
		se *model.InvalidStateError
		pe *model.CapacityError
	)
	switch {
	case errors.As(err, &ve):
		response.BadRequest(c, ve.Error(), traceID)
	case errors.As(err, &nf):
		response.NotFound(c, nf.Error(), traceID)
	case errors.As(err, &ce):
		response.Conflict(c, response.CodeConflict, ce.Error(), traceID)
	case errors.As(err, &fe):
		response.ErrorWithMessage(c, 400, response.CodeInsufficientFunds, fe.Error(), traceID)
	case errors.As(err, &se):
		response.Conflict(c, response.CodeInvalidState, se.Error(), traceID)
	case errors.As(err, &pe):
		response.ErrorWithMessage(c, 409, response.CodeCapacityExceeded, pe.Error(), traceID)
	default:
		logger.Error("unhandled service error", zap.String("trace_id", traceID), zap.Error(err))
		response.InternalError(c, traceID)
	}
}
