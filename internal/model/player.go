package model

import (
	"context"
	"strings"
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/common"

	g "github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
)

// 账户状态
const (
	StatusNormal  = int8(1)
	StatusDeleted = int8(2)
)

// Player 对应 players 表
// balance 为 DKK 两位小数；email 全局唯一（含管理员，大小写不敏感）
// status: 1=正常 2=已删除（软删除，可恢复）
type Player struct {
	ID           string  `db:"id"`
	Name         string  `db:"name"`
	Email        string  `db:"email"`
	Phone        string  `db:"phone"`
	PasswordHash string  `db:"password_hash"`
	Balance      float64 `db:"balance"`
	Status       int8    `db:"status"`
	CreatedAt    int64   `db:"created_at"`
	UpdatedAt    int64   `db:"updated_at"`
}

// Deleted 是否已被软删除
func (p *Player) Deleted() bool { return p.Status == StatusDeleted }

const playerFields = `id, name, email, phone, password_hash, balance, status, created_at, updated_at`

// Insert 新增玩家
func (p *Player) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	if p.Status == 0 {
		p.Status = StatusNormal
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	sqlStr := "INSERT INTO players (id, name, email, phone, password_hash, balance, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
	args := []interface{}{p.ID, p.Name, p.Email, p.Phone, p.PasswordHash, p.Balance, p.Status, p.CreatedAt, p.UpdatedAt}
	_, err := exec.ExecContext(ctx, sqlStr, args...)
	return err
}

// GetPlayer 按 ID 查询玩家（不加锁）
func GetPlayer(ctx context.Context, exec sqlx.ExtContext, id string) (*Player, error) {
	sqlStr := "SELECT " + playerFields + " FROM players WHERE id = ?"
	var p Player
	if err := sqlx.GetContext(ctx, exec, &p, sqlStr, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPlayerForUpdate 按 ID 查询玩家并加锁（余额变更入口）
func GetPlayerForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*Player, error) {
	sqlStr := "SELECT " + playerFields + " FROM players WHERE id = ? FOR UPDATE"
	var p Player
	if err := sqlx.GetContext(ctx, exec, &p, sqlStr, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPlayerByEmail 按邮箱查询玩家（大小写不敏感）
func GetPlayerByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*Player, error) {
	sqlStr := "SELECT " + playerFields + " FROM players WHERE LOWER(email) = LOWER(?)"
	var p Player
	if err := sqlx.GetContext(ctx, exec, &p, sqlStr, email); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlayers 返回全部玩家（创建时间升序，含软删除）
func ListPlayers(ctx context.Context, exec sqlx.ExtContext) ([]Player, error) {
	sqlStr := "SELECT " + playerFields + " FROM players ORDER BY created_at ASC"
	var list []Player
	if err := sqlx.SelectContext(ctx, exec, &list, sqlStr); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdatePlayerProfile 更新资料字段（服务层已决定最终值，整体覆盖）
func UpdatePlayerProfile(ctx context.Context, exec sqlx.ExtContext, p *Player) error {
	now := time.Now().UnixMilli()
	sqlStr := "UPDATE players SET name = ?, email = ?, phone = ?, updated_at = ? WHERE id = ?"
	_, err := exec.ExecContext(ctx, sqlStr, p.Name, p.Email, p.Phone, now, p.ID)
	return err
}

// UpdatePlayerBalance 覆盖余额（两位小数）
func UpdatePlayerBalance(ctx context.Context, exec sqlx.ExtContext, id string, balance float64) error {
	now := time.Now().UnixMilli()
	sqlStr := "UPDATE players SET balance = ?, updated_at = ? WHERE id = ?"
	_, err := exec.ExecContext(ctx, sqlStr, balance, now, id)
	return err
}

// UpdatePlayerPassword 更新口令哈希
func UpdatePlayerPassword(ctx context.Context, exec sqlx.ExtContext, id, hash string) error {
	now := time.Now().UnixMilli()
	sqlStr := "UPDATE players SET password_hash = ?, updated_at = ? WHERE id = ?"
	_, err := exec.ExecContext(ctx, sqlStr, hash, now, id)
	return err
}

// SetPlayerStatus 设置账户状态（软删除/恢复）
func SetPlayerStatus(ctx context.Context, exec sqlx.ExtContext, id string, status int8) error {
	now := time.Now().UnixMilli()
	sqlStr := "UPDATE players SET status = ?, updated_at = ? WHERE id = ?"
	_, err := exec.ExecContext(ctx, sqlStr, status, now, id)
	return err
}

// EmailInUse 检查邮箱是否已被任意玩家或管理员占用（排除指定玩家自身）
func EmailInUse(ctx context.Context, exec sqlx.ExtContext, email, excludePlayerID string) (bool, error) {
	lower := strings.ToLower(email)
	cnt, err := common.CountCtx(ctx, exec, "players",
		g.Func("LOWER", g.C("email")).Eq(lower),
		g.C("id").Neq(excludePlayerID))
	if err != nil {
		return false, err
	}
	if cnt > 0 {
		return true, nil
	}
	cnt, err = common.CountCtx(ctx, exec, "admins", g.Func("LOWER", g.C("email")).Eq(lower))
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}
