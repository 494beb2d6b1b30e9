package model

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// WalletLedger 对应 wallet_ledger 表（追加式账本）
// 金额非负；方向由 before_amount/after_amount 与 biz_type 推导
// biz_type: 1=entry 参与扣款 2=deposit 充值入账 3=adjust 后台调整
// 同时冗余 biz_type_str 便于查询
type WalletLedger struct {
	ID           int64   `db:"id"`
	PlayerID     string  `db:"player_id"`
	BizType      int     `db:"biz_type"`
	BizTypeStr   string  `db:"biz_type_str"`
	Amount       float64 `db:"amount"`
	BeforeAmount float64 `db:"before_amount"`
	AfterAmount  float64 `db:"after_amount"`
	Currency     string  `db:"currency"`
	RefID        string  `db:"ref_id"`
	RoundID      string  `db:"round_id"`
	Remark       string  `db:"remark"`
	TraceID      string  `db:"trace_id"`
	CreatedAt    int64   `db:"created_at"`
}

// 账本业务类型
const (
	BizTypeEntry   = 1
	BizTypeDeposit = 2
	BizTypeAdjust  = 3
)

// Insert 新增一条账本记录（biz_type 数值码与字符串双写）
func (l *WalletLedger) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	code := l.BizType
	str := l.BizTypeStr
	if code == 0 && str != "" {
		switch strings.ToLower(str) {
		case "entry":
			code = BizTypeEntry
		case "deposit":
			code = BizTypeDeposit
		case "adjust":
			code = BizTypeAdjust
		}
	}
	if str == "" && code != 0 {
		switch code {
		case BizTypeEntry:
			str = "entry"
		case BizTypeDeposit:
			str = "deposit"
		case BizTypeAdjust:
			str = "adjust"
		}
	}
	if l.Currency == "" {
		l.Currency = "DKK"
	}
	sqlStr := "INSERT INTO wallet_ledger (player_id, biz_type, biz_type_str, amount, before_amount, after_amount, currency, ref_id, round_id, remark, trace_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	args := []interface{}{l.PlayerID, code, str, l.Amount, l.BeforeAmount, l.AfterAmount, l.Currency, l.RefID, l.RoundID, l.Remark, l.TraceID, now}

	_, err := exec.ExecContext(ctx, sqlStr, args...)
	return err
}
