package model

import (
	"context"
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/common"

	g "github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
)

// Round 对应 rounds 表
// 说明：时间字段为毫秒时间戳，0 表示未设置
// is_active: 0=未激活 1=激活（全表至多一行为 1）
// drawn_at: 开奖时间，>0 表示已开奖
type Round struct {
	ID         string `db:"id"`
	Year       int    `db:"year"`
	WeekNumber int    `db:"week_number"`
	IsActive   int8   `db:"is_active"`
	StartAt    int64  `db:"start_at"`
	EndAt      int64  `db:"end_at"`
	DrawnAt    int64  `db:"drawn_at"`
	TraceID    string `db:"trace_id"`
	CreatedAt  int64  `db:"created_at"`
	UpdatedAt  int64  `db:"updated_at"`
}

// Drawn 是否已开奖
func (r *Round) Drawn() bool { return r.DrawnAt > 0 }

const roundFields = `id, year, week_number, is_active, start_at, end_at, drawn_at, trace_id, created_at, updated_at`

// Insert 新增一个回合
func (r *Round) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	if r.CreatedAt == 0 {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	sqlStr := "INSERT INTO rounds (id, year, week_number, is_active, start_at, end_at, drawn_at, trace_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	args := []interface{}{r.ID, r.Year, r.WeekNumber, r.IsActive, r.StartAt, r.EndAt, r.DrawnAt, r.TraceID, r.CreatedAt, r.UpdatedAt}
	_, err := exec.ExecContext(ctx, sqlStr, args...)
	return err
}

// GetRound 按 ID 查询回合（不加锁）
func GetRound(ctx context.Context, exec sqlx.ExtContext, id string) (*Round, error) {
	sqlStr := "SELECT " + roundFields + " FROM rounds WHERE id = ?"
	var r Round
	if err := sqlx.GetContext(ctx, exec, &r, sqlStr, id); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRoundForUpdate 按 ID 查询回合并加锁
func GetRoundForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*Round, error) {
	sqlStr := "SELECT " + roundFields + " FROM rounds WHERE id = ? FOR UPDATE"
	var r Round
	if err := sqlx.GetContext(ctx, exec, &r, sqlStr, id); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetActiveRound 查询当前激活回合（不加锁）
func GetActiveRound(ctx context.Context, exec sqlx.ExtContext) (*Round, error) {
	sqlStr := "SELECT " + roundFields + " FROM rounds WHERE is_active = 1 LIMIT 1"
	var r Round
	if err := sqlx.GetContext(ctx, exec, &r, sqlStr); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetActiveRoundForUpdate 查询当前激活回合并加锁（开奖事务入口）
func GetActiveRoundForUpdate(ctx context.Context, exec sqlx.ExtContext) (*Round, error) {
	sqlStr := "SELECT " + roundFields + " FROM rounds WHERE is_active = 1 LIMIT 1 FOR UPDATE"
	var r Round
	if err := sqlx.GetContext(ctx, exec, &r, sqlStr); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRoundsFromWeek 按 (year, week) 升序列出不早于给定周且未开奖的回合
// 用于参与时挑选可覆盖的连续回合；已开奖的回合（含本周补开的）不参与覆盖
func ListRoundsFromWeek(ctx context.Context, exec sqlx.ExtContext, year, week, limit int) ([]Round, error) {
	var list []Round
	err := common.SelectAllCtx(ctx, &list, common.QueryArg{
		Exec:   exec,
		Table:  "rounds",
		Fields: common.EnumFields(Round{}),
		Ex: []exp.Expression{
			g.C("drawn_at").Eq(0),
			g.Or(
				g.C("year").Gt(year),
				g.And(g.C("year").Eq(year), g.C("week_number").Gte(week)),
			),
		},
		Order: []exp.OrderedExpression{g.C("year").Asc(), g.C("week_number").Asc()},
		Limit: uint(limit),
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// NextRoundAfter 查询严格晚于 (year, week) 的第一个回合
func NextRoundAfter(ctx context.Context, exec sqlx.ExtContext, year, week int) (*Round, error) {
	sqlStr := "SELECT " + roundFields + ` FROM rounds
		WHERE year > ? OR (year = ? AND week_number > ?)
		ORDER BY year ASC, week_number ASC LIMIT 1`
	var r Round
	if err := sqlx.GetContext(ctx, exec, &r, sqlStr, year, year, week); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListDrawnRounds 按周倒序列出已开奖的回合（历史视图）
func ListDrawnRounds(ctx context.Context, exec sqlx.ExtContext, limit int) ([]Round, error) {
	var list []Round
	err := common.SelectAllCtx(ctx, &list, common.QueryArg{
		Exec:   exec,
		Table:  "rounds",
		Fields: common.EnumFields(Round{}),
		Ex:     []exp.Expression{g.C("drawn_at").Gt(0)},
		Order:  []exp.OrderedExpression{g.C("year").Desc(), g.C("week_number").Desc()},
		Limit:  uint(limit),
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// SetRoundActive 更新激活标记；started 为 true 时同时补记 start_at（仅当尚未设置）
func SetRoundActive(ctx context.Context, exec sqlx.ExtContext, id string, active bool, startAtMs int64) error {
	now := time.Now().UnixMilli()
	flag := int8(0)
	if active {
		flag = 1
	}
	if active && startAtMs > 0 {
		sqlStr := "UPDATE rounds SET is_active = ?, start_at = CASE WHEN start_at = 0 THEN ? ELSE start_at END, updated_at = ? WHERE id = ?"
		_, err := exec.ExecContext(ctx, sqlStr, flag, startAtMs, now, id)
		return err
	}
	sqlStr := "UPDATE rounds SET is_active = ?, updated_at = ? WHERE id = ?"
	_, err := exec.ExecContext(ctx, sqlStr, flag, now, id)
	return err
}

// DeactivateRoundsExcept 清除除指定回合外的所有激活标记（保持全表单激活不变量）
func DeactivateRoundsExcept(ctx context.Context, exec sqlx.ExtContext, keepID string) error {
	now := time.Now().UnixMilli()
	sqlStr := "UPDATE rounds SET is_active = 0, updated_at = ? WHERE is_active = 1 AND id <> ?"
	_, err := exec.ExecContext(ctx, sqlStr, now, keepID)
	return err
}

// MarkRoundDrawn 记录开奖：停用回合并写入开奖/结束时间
func MarkRoundDrawn(ctx context.Context, exec sqlx.ExtContext, id string, drawnAtMs int64) error {
	now := time.Now().UnixMilli()
	sqlStr := "UPDATE rounds SET is_active = 0, drawn_at = ?, end_at = ?, updated_at = ? WHERE id = ?"
	_, err := exec.ExecContext(ctx, sqlStr, drawnAtMs, drawnAtMs, now, id)
	return err
}
