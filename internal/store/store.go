package store

import (
	"context"
	"errors"

	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
)

// 数据访问层统一错误；服务层用 errors.Is 判别后映射为领域错误
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Store 聚合全部持久化操作
// MySQL 实现用于生产（FOR UPDATE 行锁 + 事务），内存实现用于测试
// Atomically 内拿到的 tx 视图共享同一事务，回调返回错误则整体回滚
type Store interface {
	Atomically(ctx context.Context, fn func(tx Store) error) error

	// 回合
	InsertRound(ctx context.Context, r *model.Round) error
	GetRound(ctx context.Context, id string) (*model.Round, error)
	GetRoundForUpdate(ctx context.Context, id string) (*model.Round, error)
	GetActiveRound(ctx context.Context) (*model.Round, error)
	GetActiveRoundForUpdate(ctx context.Context) (*model.Round, error)
	ListRoundsFromWeek(ctx context.Context, year, week, limit int) ([]model.Round, error)
	NextRoundAfter(ctx context.Context, year, week int) (*model.Round, error)
	ListDrawnRounds(ctx context.Context, limit int) ([]model.Round, error)
	SetRoundActive(ctx context.Context, id string, active bool, startAtMs int64) error
	DeactivateRoundsExcept(ctx context.Context, keepID string) error
	MarkRoundDrawn(ctx context.Context, id string, drawnAtMs int64) error

	// 开奖号码
	InsertDrawnNumbers(ctx context.Context, rows []model.DrawnNumber) error
	ListDrawnNumbers(ctx context.Context, roundID string) ([]model.DrawnNumber, error)

	// 参与记录
	InsertEntry(ctx context.Context, e *model.Entry) error
	ListEntriesByRound(ctx context.Context, roundID string) ([]model.Entry, error)
	ListEntriesByPlayer(ctx context.Context, playerID string) ([]model.Entry, error)
	EntryExists(ctx context.Context, roundID, playerID string) (bool, error)
	MarkEntryWinner(ctx context.Context, entryID string) error

	// 玩家
	InsertPlayer(ctx context.Context, p *model.Player) error
	GetPlayer(ctx context.Context, id string) (*model.Player, error)
	GetPlayerForUpdate(ctx context.Context, id string) (*model.Player, error)
	GetPlayerByEmail(ctx context.Context, email string) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]model.Player, error)
	UpdatePlayerProfile(ctx context.Context, p *model.Player) error
	UpdatePlayerBalance(ctx context.Context, id string, balance float64) error
	UpdatePlayerPassword(ctx context.Context, id, hash string) error
	SetPlayerStatus(ctx context.Context, id string, status int8) error
	EmailInUse(ctx context.Context, email, excludePlayerID string) (bool, error)

	// 管理员
	InsertAdmin(ctx context.Context, a *model.Admin) error
	GetAdmin(ctx context.Context, id string) (*model.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	ListAdmins(ctx context.Context) ([]model.Admin, error)
	SetAdminStatus(ctx context.Context, id string, status int8) error

	// 充值申请
	InsertFundRequest(ctx context.Context, f *model.FundRequest) error
	GetFundRequestForUpdate(ctx context.Context, id string) (*model.FundRequest, error)
	ListFundRequests(ctx context.Context, status string) ([]model.FundRequest, error)
	ListFundRequestsByPlayer(ctx context.Context, playerID string) ([]model.FundRequest, error)
	UpdateFundRequestDecision(ctx context.Context, id, status string, processedAtMs int64, processedBy string) error

	// 账本 / 事务消息 / 审计
	InsertLedger(ctx context.Context, l *model.WalletLedger) error
	CreateOutbox(ctx context.Context, topic, bizKey string, payload any) error
	InsertDrawAudit(ctx context.Context, a *model.DrawAudit) error
}

// 进程级默认 Store（main 启动时注入 MySQL 实现）
var defaultStore Store

// SetDefault 注入默认 Store
func SetDefault(s Store) { defaultStore = s }

// Default 返回默认 Store（未初始化时为 nil）
func Default() Store { return defaultStore }
