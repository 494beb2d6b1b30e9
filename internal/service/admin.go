package service

import (
	"context"
	"strings"

	"github.com/MortenBoHub/ThirdSemesterExam/common/logger"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/auth"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/clock"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateAdminInput 新增管理员
type CreateAdminInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	TraceID  string
}

// AdminView 管理员视图（不含口令哈希）
type AdminView struct {
	AdminID   string `json:"admin_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Deleted   bool   `json:"deleted"`
	CreatedAt int64  `json:"created_at"`
}

// AdminService 管理员目录
type AdminService interface {
	Create(ctx context.Context, in CreateAdminInput) (*AdminView, error)
	List(ctx context.Context) ([]AdminView, error)
	SoftDelete(ctx context.Context, adminID, traceID string) error
	Restore(ctx context.Context, adminID, traceID string) error
}

type adminService struct {
	st  store.Store
	clk clock.Clock
}

// NewAdminService 构造管理员服务
func NewAdminService(st store.Store, clk clock.Clock) AdminService {
	return &adminService{st: st, clk: clk}
}

func adminView(a *model.Admin) *AdminView {
	return &AdminView{
		AdminID:   a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Deleted:   a.Deleted(),
		CreatedAt: a.CreatedAt,
	}
}

func (s *adminService) Create(ctx context.Context, in CreateAdminInput) (*AdminView, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" {
		return nil, model.NewValidation("name required")
	}
	if email == "" {
		return nil, model.NewValidation("email required")
	}
	if len(in.Password) < auth.MinPasswordLength {
		return nil, model.NewValidation("password must be at least %d characters", auth.MinPasswordLength)
	}

	var out *AdminView
	err := s.st.Atomically(ctx, func(tx store.Store) error {
		// 邮箱唯一性覆盖玩家与管理员两个目录
		inUse, err := tx.EmailInUse(ctx, email, "")
		if err != nil {
			return err
		}
		if inUse {
			return model.NewConflict("email already in use: %s", email)
		}

		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return err
		}
		a := &model.Admin{
			ID:           uuid.NewString(),
			Name:         name,
			Email:        email,
			Phone:        strings.TrimSpace(in.Phone),
			PasswordHash: hash,
			Status:       model.StatusNormal,
			CreatedAt:    s.clk.Now().UnixMilli(),
		}
		if err := tx.InsertAdmin(ctx, a); err != nil {
			if isDuplicate(err) {
				return model.NewConflict("email already in use: %s", email)
			}
			return err
		}
		out = adminView(a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("admin created",
		zap.String("trace_id", in.TraceID),
		zap.String("admin_id", out.AdminID),
		zap.String("email", email))
	return out, nil
}

func (s *adminService) List(ctx context.Context) ([]AdminView, error) {
	admins, err := s.st.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AdminView, 0, len(admins))
	for i := range admins {
		out = append(out, *adminView(&admins[i]))
	}
	return out, nil
}

// SoftDelete 软删除（幂等）；被删管理员不能再开奖或审批
func (s *adminService) SoftDelete(ctx context.Context, adminID, traceID string) error {
	if _, err := s.st.GetAdmin(ctx, adminID); err != nil {
		return mapNotFound(err, "admin", adminID)
	}
	if err := s.st.SetAdminStatus(ctx, adminID, model.StatusDeleted); err != nil {
		return err
	}
	logger.Info("admin soft-deleted", zap.String("trace_id", traceID), zap.String("admin_id", adminID))
	return nil
}

// Restore 恢复软删除（幂等）
func (s *adminService) Restore(ctx context.Context, adminID, traceID string) error {
	if _, err := s.st.GetAdmin(ctx, adminID); err != nil {
		return mapNotFound(err, "admin", adminID)
	}
	if err := s.st.SetAdminStatus(ctx, adminID, model.StatusNormal); err != nil {
		return err
	}
	logger.Info("admin restored", zap.String("trace_id", traceID), zap.String("admin_id", adminID))
	return nil
}
