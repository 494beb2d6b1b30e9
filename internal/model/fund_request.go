package model

import (
	"context"
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/common"

	g "github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
)

// 充值申请状态
const (
	FundStatusPending  = "pending"
	FundStatusApproved = "approved"
	FundStatusDenied   = "denied"
)

// FundRequest 对应 fund_requests 表
// 申请创建后进入 pending，管理员审批后一次性进入 approved/denied
// processed_at/processed_by 在审批时写入，之后不再变化
type FundRequest struct {
	ID             string  `db:"id"`
	PlayerID       string  `db:"player_id"`
	Amount         float64 `db:"amount"`
	TransactionRef string  `db:"transaction_ref"`
	Status         string  `db:"status"`
	ProcessedAt    int64   `db:"processed_at"`
	ProcessedBy    string  `db:"processed_by"`
	TraceID        string  `db:"trace_id"`
	CreatedAt      int64   `db:"created_at"`
	UpdatedAt      int64   `db:"updated_at"`
}

// Insert 新增充值申请（状态固定 pending）
func (f *FundRequest) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	if f.Status == "" {
		f.Status = FundStatusPending
	}
	if f.CreatedAt == 0 {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	_, err := common.InsertCtx(ctx, exec, "fund_requests", f)
	return err
}

// GetFundRequestForUpdate 按 ID 查询申请并加锁（审批事务入口）
func GetFundRequestForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*FundRequest, error) {
	var f FundRequest
	if err := common.SelectOneCtx(ctx, exec, &f, "fund_requests", common.EnumFields(FundRequest{}), true, g.C("id").Eq(id)); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFundRequests 按创建时间升序列出申请；status 为空时返回全部
func ListFundRequests(ctx context.Context, exec sqlx.ExtContext, status string) ([]FundRequest, error) {
	arg := common.QueryArg{
		Exec:   exec,
		Table:  "fund_requests",
		Fields: common.EnumFields(FundRequest{}),
		Order:  []exp.OrderedExpression{g.C("created_at").Asc()},
	}
	if status != "" {
		arg.Ex = []exp.Expression{g.C("status").Eq(status)}
	}
	var list []FundRequest
	if err := common.SelectAllCtx(ctx, &list, arg); err != nil {
		return nil, err
	}
	return list, nil
}

// ListFundRequestsByPlayer 返回指定玩家的申请（创建时间倒序）
func ListFundRequestsByPlayer(ctx context.Context, exec sqlx.ExtContext, playerID string) ([]FundRequest, error) {
	var list []FundRequest
	err := common.SelectAllCtx(ctx, &list, common.QueryArg{
		Exec:   exec,
		Table:  "fund_requests",
		Fields: common.EnumFields(FundRequest{}),
		Ex:     []exp.Expression{g.C("player_id").Eq(playerID)},
		Order:  []exp.OrderedExpression{g.C("created_at").Desc()},
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateFundRequestDecision 写入审批结果（仅允许从 pending 出发，由服务层保证）
func UpdateFundRequestDecision(ctx context.Context, exec sqlx.ExtContext, id, status string, processedAtMs int64, processedBy string) error {
	_, err := common.UpdateCtx(ctx, exec, "fund_requests", g.Record{
		"status":       status,
		"processed_at": processedAtMs,
		"processed_by": processedBy,
		"updated_at":   time.Now().UnixMilli(),
	}, g.C("id").Eq(id))
	return err
}
