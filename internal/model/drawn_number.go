package model

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// DrawnNumber 对应 drawn_numbers 表
// 每次开奖固定写入 3 行，(round_id, number) 唯一
type DrawnNumber struct {
	ID        int64  `db:"id"`
	RoundID   string `db:"round_id"`
	Number    int    `db:"number"`
	DrawnBy   string `db:"drawn_by"`
	TraceID   string `db:"trace_id"`
	CreatedAt int64  `db:"created_at"`
}

// InsertDrawnNumbers 批量写入开奖号码
func InsertDrawnNumbers(ctx context.Context, exec sqlx.ExtContext, rows []DrawnNumber) error {
	now := time.Now().UnixMilli()
	sqlStr := "INSERT INTO drawn_numbers (round_id, number, drawn_by, trace_id, created_at) VALUES (?, ?, ?, ?, ?)"
	for i := range rows {
		if rows[i].CreatedAt == 0 {
			rows[i].CreatedAt = now
		}
		if _, err := exec.ExecContext(ctx, sqlStr, rows[i].RoundID, rows[i].Number, rows[i].DrawnBy, rows[i].TraceID, rows[i].CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

// ListDrawnNumbers 按号码升序返回回合的开奖号码
func ListDrawnNumbers(ctx context.Context, exec sqlx.ExtContext, roundID string) ([]DrawnNumber, error) {
	sqlStr := "SELECT id, round_id, number, drawn_by, trace_id, created_at FROM drawn_numbers WHERE round_id = ? ORDER BY number ASC"
	var list []DrawnNumber
	if err := sqlx.SelectContext(ctx, exec, &list, sqlStr, roundID); err != nil {
		return nil, err
	}
	return list, nil
}
