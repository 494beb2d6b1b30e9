package model

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// DrawAudit 对应 draw_audit 表（开奖操作审计）
// 记录操作人、号码与回合状态迁移，追加式只写不改
type DrawAudit struct {
	ID        int64  `db:"id"`
	RoundID   string `db:"round_id"`
	Numbers   string `db:"numbers"`
	Operator  string `db:"operator"`
	PrevState string `db:"prev_state"`
	NextState string `db:"next_state"`
	TraceID   string `db:"trace_id"`
	CreatedAt int64  `db:"created_at"`
}

// Insert 新增一条审计记录
func (a *DrawAudit) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	sqlStr := "INSERT INTO draw_audit (round_id, numbers, operator, prev_state, next_state, trace_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	args := []interface{}{a.RoundID, a.Numbers, a.Operator, a.PrevState, a.NextState, a.TraceID, now}
	_, err := exec.ExecContext(ctx, sqlStr, args...)
	return err
}
