package model

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// Admin 对应 admins 表
// status 语义与 players 一致：1=正常 2=已删除
type Admin struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	Phone        string `db:"phone"`
	PasswordHash string `db:"password_hash"`
	Status       int8   `db:"status"`
	CreatedAt    int64  `db:"created_at"`
	UpdatedAt    int64  `db:"updated_at"`
}

func (a *Admin) Deleted() bool { return a.Status == StatusDeleted }

const adminFields = `id, name, email, phone, password_hash, status, created_at, updated_at`

// Insert 新增管理员
func (a *Admin) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	if a.Status == 0 {
		a.Status = StatusNormal
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	sqlStr := "INSERT INTO admins (id, name, email, phone, password_hash, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	args := []interface{}{a.ID, a.Name, a.Email, a.Phone, a.PasswordHash, a.Status, a.CreatedAt, a.UpdatedAt}
	_, err := exec.ExecContext(ctx, sqlStr, args...)
	return err
}

// GetAdmin 按 ID 查询管理员
func GetAdmin(ctx context.Context, exec sqlx.ExtContext, id string) (*Admin, error) {
	sqlStr := "SELECT " + adminFields + " FROM admins WHERE id = ?"
	var a Admin
	if err := sqlx.GetContext(ctx, exec, &a, sqlStr, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAdminByEmail 按邮箱查询管理员（大小写不敏感）
func GetAdminByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*Admin, error) {
	sqlStr := "SELECT " + adminFields + " FROM admins WHERE LOWER(email) = LOWER(?)"
	var a Admin
	if err := sqlx.GetContext(ctx, exec, &a, sqlStr, email); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAdmins 返回全部管理员
func ListAdmins(ctx context.Context, exec sqlx.ExtContext) ([]Admin, error) {
	sqlStr := "SELECT " + adminFields + " FROM admins ORDER BY created_at ASC"
	var list []Admin
	if err := sqlx.SelectContext(ctx, exec, &list, sqlStr); err != nil {
		return nil, err
	}
	return list, nil
}

// SetAdminStatus 设置管理员状态（软删除/恢复）
func SetAdminStatus(ctx context.Context, exec sqlx.ExtContext, id string, status int8) error {
	now := time.Now().UnixMilli()
	sqlStr := "UPDATE admins SET status = ?, updated_at = ? WHERE id = ?"
	_, err := exec.ExecContext(ctx, sqlStr, status, now, id)
	return err
}
