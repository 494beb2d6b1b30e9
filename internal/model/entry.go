package model

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// 号码规则常量
const (
	NumberMin      = 1
	NumberMax      = 16
	PickCountMin   = 5
	PickCountMax   = 8
	DrawCount      = 3
	WinMatchCount  = 3
	MaxRepeatWeeks = 52
)

// entryPrices 按所选号码个数定价（DKK）
var entryPrices = map[int]int64{
	5: 20,
	6: 40,
	7: 80,
	8: 160,
}

// PriceForCount 返回号码个数对应的单周价格
func PriceForCount(n int) (decimal.Decimal, bool) {
	p, ok := entryPrices[n]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromInt(p), true
}

// NormalizeNumbers 校验并归一化所选号码：个数 5-8、范围 [1,16]、不允许重复
// 返回升序副本
func NormalizeNumbers(nums []int) ([]int, error) {
	if len(nums) < PickCountMin || len(nums) > PickCountMax {
		return nil, NewValidation("number count must be between %d and %d, got %d", PickCountMin, PickCountMax, len(nums))
	}
	seen := make(map[int]struct{}, len(nums))
	out := make([]int, 0, len(nums))
	for _, n := range nums {
		if n < NumberMin || n > NumberMax {
			return nil, NewValidation("number out of range [%d,%d]: %d", NumberMin, NumberMax, n)
		}
		if _, dup := seen[n]; dup {
			return nil, NewValidation("duplicate number: %d", n)
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

// JoinNumbers 将号码序列化为 CSV（入库格式，如 "1,5,9,12,16"）
func JoinNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// ParseNumbers 解析 CSV 号码串；非法片段直接跳过（防御脏数据）
func ParseNumbers(s string) []int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// Entry 对应 entries 表
// numbers 为归一化（升序去重）后的 CSV；(round_id, player_id) 唯一
// is_winner: 0=否 1=是（开奖后回填，只会从 0 翻为 1）
type Entry struct {
	ID          string  `db:"id"`
	RoundID     string  `db:"round_id"`
	PlayerID    string  `db:"player_id"`
	Numbers     string  `db:"numbers"`
	NumberCount int     `db:"number_count"`
	Amount      float64 `db:"amount"`
	IsWinner    int8    `db:"is_winner"`
	TraceID     string  `db:"trace_id"`
	CreatedAt   int64   `db:"created_at"`
	UpdatedAt   int64   `db:"updated_at"`
}

const entryFields = `id, round_id, player_id, numbers, number_count, amount, is_winner, trace_id, created_at, updated_at`

// Insert 新增参与记录
func (e *Entry) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	if e.CreatedAt == 0 {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	sqlStr := "INSERT INTO entries (id, round_id, player_id, numbers, number_count, amount, is_winner, trace_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	args := []interface{}{e.ID, e.RoundID, e.PlayerID, e.Numbers, e.NumberCount, e.Amount, e.IsWinner, e.TraceID, e.CreatedAt, e.UpdatedAt}
	_, err := exec.ExecContext(ctx, sqlStr, args...)
	return err
}

// ListEntriesByRound 返回回合内全部参与记录（创建时间升序）
func ListEntriesByRound(ctx context.Context, exec sqlx.ExtContext, roundID string) ([]Entry, error) {
	sqlStr := "SELECT " + entryFields + " FROM entries WHERE round_id = ? ORDER BY created_at ASC"
	var list []Entry
	if err := sqlx.SelectContext(ctx, exec, &list, sqlStr, roundID); err != nil {
		return nil, err
	}
	return list, nil
}

// ListEntriesByPlayer 返回玩家的全部参与记录（创建时间倒序）
func ListEntriesByPlayer(ctx context.Context, exec sqlx.ExtContext, playerID string) ([]Entry, error) {
	sqlStr := "SELECT " + entryFields + " FROM entries WHERE player_id = ? ORDER BY created_at DESC"
	var list []Entry
	if err := sqlx.SelectContext(ctx, exec, &list, sqlStr, playerID); err != nil {
		return nil, err
	}
	return list, nil
}

// EntryExists 判断玩家在回合内是否已有参与记录
func EntryExists(ctx context.Context, exec sqlx.ExtContext, roundID, playerID string) (bool, error) {
	sqlStr := "SELECT COUNT(1) FROM entries WHERE round_id = ? AND player_id = ?"
	var cnt int
	if err := sqlx.GetContext(ctx, exec, &cnt, sqlStr, roundID, playerID); err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// MarkEntryWinner 将中奖标记从 0 翻为 1（幂等回填）
func MarkEntryWinner(ctx context.Context, exec sqlx.ExtContext, entryID string) error {
	now := time.Now().UnixMilli()
	sqlStr := "UPDATE entries SET is_winner = 1, updated_at = ? WHERE id = ? AND is_winner = 0"
	_, err := exec.ExecContext(ctx, sqlStr, now, entryID)
	return err
}
