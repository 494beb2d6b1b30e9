package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"

	mysqlerr "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// 默认事务超时时间，防止长事务占用行锁影响并发（若上游已有 deadline，则沿用上游）
const defaultTxTimeout = 3 * time.Second

// sqlStore 基于 sqlx 的 Store 实现
// exec 在事务外为 *sqlx.DB，事务内为 *sqlx.Tx；模型层统一走 sqlx.ExtContext
type sqlStore struct {
	db   *sqlx.DB
	exec sqlx.ExtContext
	inTx bool
}

// NewMySQL 构造 MySQL Store
func NewMySQL(db *sqlx.DB) Store {
	return &sqlStore{db: db, exec: db}
}

func (s *sqlStore) Atomically(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		// 嵌套调用复用当前事务
		return fn(s)
	}
	txCtx := ctx
	if _, has := ctx.Deadline(); !has {
		c, cancel := context.WithTimeout(ctx, defaultTxTimeout)
		txCtx = c
		defer cancel()
	}
	tx, err := s.db.BeginTxx(txCtx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	child := &sqlStore{db: s.db, exec: tx, inTx: true}
	if err := fn(child); err != nil {
		return err
	}
	return tx.Commit()
}

// wrapDB 将驱动层错误归一化为 Store 错误
func wrapDB(err error, what string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(ErrNotFound, what)
	}
	var me *mysqlerr.MySQLError
	if stderrors.As(err, &me) && me.Number == 1062 {
		return errors.Wrap(ErrDuplicate, what)
	}
	return errors.Wrap(err, what)
}

// ---- 回合 ----

func (s *sqlStore) InsertRound(ctx context.Context, r *model.Round) error {
	return wrapDB(r.Insert(ctx, s.exec), "insert round")
}

func (s *sqlStore) GetRound(ctx context.Context, id string) (*model.Round, error) {
	r, err := model.GetRound(ctx, s.exec, id)
	return r, wrapDB(err, "round "+id)
}

func (s *sqlStore) GetRoundForUpdate(ctx context.Context, id string) (*model.Round, error) {
	r, err := model.GetRoundForUpdate(ctx, s.exec, id)
	return r, wrapDB(err, "round "+id)
}

func (s *sqlStore) GetActiveRound(ctx context.Context) (*model.Round, error) {
	r, err := model.GetActiveRound(ctx, s.exec)
	return r, wrapDB(err, "active round")
}

func (s *sqlStore) GetActiveRoundForUpdate(ctx context.Context) (*model.Round, error) {
	r, err := model.GetActiveRoundForUpdate(ctx, s.exec)
	return r, wrapDB(err, "active round")
}

func (s *sqlStore) ListRoundsFromWeek(ctx context.Context, year, week, limit int) ([]model.Round, error) {
	list, err := model.ListRoundsFromWeek(ctx, s.exec, year, week, limit)
	return list, wrapDB(err, "list rounds")
}

func (s *sqlStore) NextRoundAfter(ctx context.Context, year, week int) (*model.Round, error) {
	r, err := model.NextRoundAfter(ctx, s.exec, year, week)
	return r, wrapDB(err, "next round")
}

func (s *sqlStore) ListDrawnRounds(ctx context.Context, limit int) ([]model.Round, error) {
	list, err := model.ListDrawnRounds(ctx, s.exec, limit)
	return list, wrapDB(err, "list drawn rounds")
}

func (s *sqlStore) SetRoundActive(ctx context.Context, id string, active bool, startAtMs int64) error {
	return wrapDB(model.SetRoundActive(ctx, s.exec, id, active, startAtMs), "set round active")
}

func (s *sqlStore) DeactivateRoundsExcept(ctx context.Context, keepID string) error {
	return wrapDB(model.DeactivateRoundsExcept(ctx, s.exec, keepID), "deactivate rounds")
}

func (s *sqlStore) MarkRoundDrawn(ctx context.Context, id string, drawnAtMs int64) error {
	return wrapDB(model.MarkRoundDrawn(ctx, s.exec, id, drawnAtMs), "mark round drawn")
}

// ---- 开奖号码 ----

func (s *sqlStore) InsertDrawnNumbers(ctx context.Context, rows []model.DrawnNumber) error {
	return wrapDB(model.InsertDrawnNumbers(ctx, s.exec, rows), "insert drawn numbers")
}

func (s *sqlStore) ListDrawnNumbers(ctx context.Context, roundID string) ([]model.DrawnNumber, error) {
	list, err := model.ListDrawnNumbers(ctx, s.exec, roundID)
	return list, wrapDB(err, "list drawn numbers")
}

// ---- 参与记录 ----

func (s *sqlStore) InsertEntry(ctx context.Context, e *model.Entry) error {
	return wrapDB(e.Insert(ctx, s.exec), "insert entry")
}

func (s *sqlStore) ListEntriesByRound(ctx context.Context, roundID string) ([]model.Entry, error) {
	list, err := model.ListEntriesByRound(ctx, s.exec, roundID)
	return list, wrapDB(err, "list entries by round")
}

func (s *sqlStore) ListEntriesByPlayer(ctx context.Context, playerID string) ([]model.Entry, error) {
	list, err := model.ListEntriesByPlayer(ctx, s.exec, playerID)
	return list, wrapDB(err, "list entries by player")
}

func (s *sqlStore) EntryExists(ctx context.Context, roundID, playerID string) (bool, error) {
	ok, err := model.EntryExists(ctx, s.exec, roundID, playerID)
	return ok, wrapDB(err, "entry exists")
}

func (s *sqlStore) MarkEntryWinner(ctx context.Context, entryID string) error {
	return wrapDB(model.MarkEntryWinner(ctx, s.exec, entryID), "mark entry winner")
}

// ---- 玩家 ----

func (s *sqlStore) InsertPlayer(ctx context.Context, p *model.Player) error {
	return wrapDB(p.Insert(ctx, s.exec), "insert player")
}

func (s *sqlStore) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	p, err := model.GetPlayer(ctx, s.exec, id)
	return p, wrapDB(err, "player "+id)
}

func (s *sqlStore) GetPlayerForUpdate(ctx context.Context, id string) (*model.Player, error) {
	p, err := model.GetPlayerForUpdate(ctx, s.exec, id)
	return p, wrapDB(err, "player "+id)
}

func (s *sqlStore) GetPlayerByEmail(ctx context.Context, email string) (*model.Player, error) {
	p, err := model.GetPlayerByEmail(ctx, s.exec, email)
	return p, wrapDB(err, "player by email")
}

func (s *sqlStore) ListPlayers(ctx context.Context) ([]model.Player, error) {
	list, err := model.ListPlayers(ctx, s.exec)
	return list, wrapDB(err, "list players")
}

func (s *sqlStore) UpdatePlayerProfile(ctx context.Context, p *model.Player) error {
	return wrapDB(model.UpdatePlayerProfile(ctx, s.exec, p), "update player profile")
}

func (s *sqlStore) UpdatePlayerBalance(ctx context.Context, id string, balance float64) error {
	return wrapDB(model.UpdatePlayerBalance(ctx, s.exec, id, balance), "update player balance")
}

func (s *sqlStore) UpdatePlayerPassword(ctx context.Context, id, hash string) error {
	return wrapDB(model.UpdatePlayerPassword(ctx, s.exec, id, hash), "update player password")
}

func (s *sqlStore) SetPlayerStatus(ctx context.Context, id string, status int8) error {
	return wrapDB(model.SetPlayerStatus(ctx, s.exec, id, status), "set player status")
}

func (s *sqlStore) EmailInUse(ctx context.Context, email, excludePlayerID string) (bool, error) {
	ok, err := model.EmailInUse(ctx, s.exec, email, excludePlayerID)
	return ok, wrapDB(err, "email in use")
}

// ---- 管理员 ----

func (s *sqlStore) InsertAdmin(ctx context.Context, a *model.Admin) error {
	return wrapDB(a.Insert(ctx, s.exec), "insert admin")
}

func (s *sqlStore) GetAdmin(ctx context.Context, id string) (*model.Admin, error) {
	a, err := model.GetAdmin(ctx, s.exec, id)
	return a, wrapDB(err, "admin "+id)
}

func (s *sqlStore) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	a, err := model.GetAdminByEmail(ctx, s.exec, email)
	return a, wrapDB(err, "admin by email")
}

func (s *sqlStore) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	list, err := model.ListAdmins(ctx, s.exec)
	return list, wrapDB(err, "list admins")
}

func (s *sqlStore) SetAdminStatus(ctx context.Context, id string, status int8) error {
	return wrapDB(model.SetAdminStatus(ctx, s.exec, id, status), "set admin status")
}

// ---- 充值申请 ----

func (s *sqlStore) InsertFundRequest(ctx context.Context, f *model.FundRequest) error {
	return wrapDB(f.Insert(ctx, s.exec), "insert fund request")
}

func (s *sqlStore) GetFundRequestForUpdate(ctx context.Context, id string) (*model.FundRequest, error) {
	f, err := model.GetFundRequestForUpdate(ctx, s.exec, id)
	return f, wrapDB(err, "fund request "+id)
}

func (s *sqlStore) ListFundRequests(ctx context.Context, status string) ([]model.FundRequest, error) {
	list, err := model.ListFundRequests(ctx, s.exec, status)
	return list, wrapDB(err, "list fund requests")
}

func (s *sqlStore) ListFundRequestsByPlayer(ctx context.Context, playerID string) ([]model.FundRequest, error) {
	list, err := model.ListFundRequestsByPlayer(ctx, s.exec, playerID)
	return list, wrapDB(err, "list fund requests by player")
}

func (s *sqlStore) UpdateFundRequestDecision(ctx context.Context, id, status string, processedAtMs int64, processedBy string) error {
	return wrapDB(model.UpdateFundRequestDecision(ctx, s.exec, id, status, processedAtMs, processedBy), "update fund request decision")
}

// ---- 账本 / 事务消息 / 审计 ----

func (s *sqlStore) InsertLedger(ctx context.Context, l *model.WalletLedger) error {
	return wrapDB(l.Insert(ctx, s.exec), "insert ledger")
}

func (s *sqlStore) CreateOutbox(ctx context.Context, topic, bizKey string, payload any) error {
	return wrapDB(model.CreateOutbox(ctx, s.exec, topic, bizKey, payload), "create outbox")
}

func (s *sqlStore) InsertDrawAudit(ctx context.Context, a *model.DrawAudit) error {
	return wrapDB(a.Insert(ctx, s.exec), "insert draw audit")
}
