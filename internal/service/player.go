package service

import (
	"context"
	"strings"

	"github.com/MortenBoHub/ThirdSemesterExam/common/helper"
	"github.com/MortenBoHub/ThirdSemesterExam/common/logger"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/auth"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/clock"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreatePlayerInput 注册玩家
type CreatePlayerInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	TraceID  string
}

// UpdatePlayerInput 部分更新：nil 字段保持不变
type UpdatePlayerInput struct {
	PlayerID string
	Name     *string
	Email    *string
	Phone    *string
	TraceID  string
}

// ChangePasswordInput 改密：校验当前口令
type ChangePasswordInput struct {
	PlayerID        string
	CurrentPassword string
	NewPassword     string
	TraceID         string
}

// PlayerView 玩家视图（不含口令哈希）
type PlayerView struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Balance   string `json:"balance"`
	Deleted   bool   `json:"deleted"`
	CreatedAt int64  `json:"created_at"`
}

// PlayerDetail 玩家详情：含参与记录
type PlayerDetail struct {
	PlayerView
	Entries []PlayerEntryView `json:"entries"`
}

// PlayerService 玩家目录
type PlayerService interface {
	Create(ctx context.Context, in CreatePlayerInput) (*PlayerView, error)
	Get(ctx context.Context, playerID string) (*PlayerDetail, error)
	List(ctx context.Context) ([]PlayerView, error)
	Update(ctx context.Context, in UpdatePlayerInput) (*PlayerView, error)
	ChangePassword(ctx context.Context, in ChangePasswordInput) error
	SoftDelete(ctx context.Context, playerID, traceID string) error
	Restore(ctx context.Context, playerID, traceID string) error
}

type playerService struct {
	st  store.Store
	clk clock.Clock
}

// NewPlayerService 构造玩家服务
func NewPlayerService(st store.Store, clk clock.Clock) PlayerService {
	return &playerService{st: st, clk: clk}
}

func playerView(p *model.Player) *PlayerView {
	return &PlayerView{
		PlayerID:  p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Balance:   helper.TrimDecimal(helper.MoneyFromFloat(p.Balance)),
		Deleted:   p.Deleted(),
		CreatedAt: p.CreatedAt,
	}
}

func (s *playerService) Create(ctx context.Context, in CreatePlayerInput) (*PlayerView, error) {
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

	var out *PlayerView
	err := s.st.Atomically(ctx, func(tx store.Store) error {
		// 邮箱在玩家与管理员目录内全局唯一（不区分大小写）
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
		p := &model.Player{
			ID:           uuid.NewString(),
			Name:         name,
			Email:        email,
			Phone:        strings.TrimSpace(in.Phone),
			PasswordHash: hash,
			Status:       model.StatusNormal,
			CreatedAt:    s.clk.Now().UnixMilli(),
		}
		if err := tx.InsertPlayer(ctx, p); err != nil {
			if isDuplicate(err) {
				return model.NewConflict("email already in use: %s", email)
			}
			return err
		}
		out = playerView(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("player created",
		zap.String("trace_id", in.TraceID),
		zap.String("player_id", out.PlayerID),
		zap.String("email", email))
	return out, nil
}

func (s *playerService) Get(ctx context.Context, playerID string) (*PlayerDetail, error) {
	p, err := s.st.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, mapNotFound(err, "player", playerID)
	}
	entries, err := s.st.ListEntriesByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	detail := &PlayerDetail{PlayerView: *playerView(p), Entries: make([]PlayerEntryView, 0, len(entries))}
	for i := range entries {
		detail.Entries = append(detail.Entries, entryView(&entries[i]))
	}
	return detail, nil
}

func (s *playerService) List(ctx context.Context) ([]PlayerView, error) {
	players, err := s.st.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PlayerView, 0, len(players))
	for i := range players {
		out = append(out, *playerView(&players[i]))
	}
	return out, nil
}

func (s *playerService) Update(ctx context.Context, in UpdatePlayerInput) (*PlayerView, error) {
	if in.Name == nil && in.Email == nil && in.Phone == nil {
		return nil, model.NewValidation("nothing to update")
	}

	var out *PlayerView
	err := s.st.Atomically(ctx, func(tx store.Store) error {
		p, err := tx.GetPlayerForUpdate(ctx, in.PlayerID)
		if err != nil {
			return mapNotFound(err, "player", in.PlayerID)
		}
		if p.Deleted() {
			return model.NewNotFound("player", in.PlayerID)
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return model.NewValidation("name cannot be empty")
			}
			p.Name = name
		}
		if in.Email != nil {
			email := strings.TrimSpace(*in.Email)
			if email == "" {
				return model.NewValidation("email cannot be empty")
			}
			if !strings.EqualFold(email, p.Email) {
				inUse, err := tx.EmailInUse(ctx, email, p.ID)
				if err != nil {
					return err
				}
				if inUse {
					return model.NewConflict("email already in use: %s", email)
				}
			}
			p.Email = email
		}
		if in.Phone != nil {
			p.Phone = strings.TrimSpace(*in.Phone)
		}

		if err := tx.UpdatePlayerProfile(ctx, p); err != nil {
			if isDuplicate(err) {
				return model.NewConflict("email already in use: %s", p.Email)
			}
			return err
		}
		out = playerView(p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("player updated", zap.String("trace_id", in.TraceID), zap.String("player_id", in.PlayerID))
	return out, nil
}

func (s *playerService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if len(in.NewPassword) < auth.MinPasswordLength {
		return model.NewValidation("password must be at least %d characters", auth.MinPasswordLength)
	}

	err := s.st.Atomically(ctx, func(tx store.Store) error {
		p, err := tx.GetPlayerForUpdate(ctx, in.PlayerID)
		if err != nil {
			return mapNotFound(err, "player", in.PlayerID)
		}
		if p.Deleted() {
			return model.NewNotFound("player", in.PlayerID)
		}
		if !auth.VerifyPassword(p.PasswordHash, in.CurrentPassword) {
			return model.NewValidation("current password is incorrect")
		}
		hash, err := auth.HashPassword(in.NewPassword)
		if err != nil {
			return err
		}
		return tx.UpdatePlayerPassword(ctx, p.ID, hash)
	})
	if err != nil {
		return err
	}

	logger.Info("player password changed", zap.String("trace_id", in.TraceID), zap.String("player_id", in.PlayerID))
	return nil
}

// SoftDelete 软删除（幂等：重复删除直接成功）
func (s *playerService) SoftDelete(ctx context.Context, playerID, traceID string) error {
	if _, err := s.st.GetPlayer(ctx, playerID); err != nil {
		return mapNotFound(err, "player", playerID)
	}
	if err := s.st.SetPlayerStatus(ctx, playerID, model.StatusDeleted); err != nil {
		return err
	}
	logger.Info("player soft-deleted", zap.String("trace_id", traceID), zap.String("player_id", playerID))
	return nil
}

// Restore 恢复软删除（幂等）
func (s *playerService) Restore(ctx context.Context, playerID, traceID string) error {
	if _, err := s.st.GetPlayer(ctx, playerID); err != nil {
		return mapNotFound(err, "player", playerID)
	}
	if err := s.st.SetPlayerStatus(ctx, playerID, model.StatusNormal); err != nil {
		return err
	}
	logger.Info("player restored", zap.String("trace_id", traceID), zap.String("player_id", playerID))
	return nil
}
