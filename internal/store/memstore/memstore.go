// Package memstore 提供 store.Store 的内存实现，服务层测试无需 MySQL
// Atomically 通过快照/恢复模拟事务回滚；不模拟行锁，ForUpdate 读等价于普通读
package memstore

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"
)

type data struct {
	rounds  map[string]*model.Round
	drawn   map[string][]model.DrawnNumber
	entries []*model.Entry
	players map[string]*model.Player
	admins  map[string]*model.Admin
	funds   map[string]*model.FundRequest
	ledger  []model.WalletLedger
	outbox  []model.Outbox
	audits  []model.DrawAudit
}

func newData() *data {
	return &data{
		rounds:  map[string]*model.Round{},
		drawn:   map[string][]model.DrawnNumber{},
		players: map[string]*model.Player{},
		admins:  map[string]*model.Admin{},
		funds:   map[string]*model.FundRequest{},
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.rounds {
		cp := *v
		c.rounds[k] = &cp
	}
	for k, v := range d.drawn {
		c.drawn[k] = append([]model.DrawnNumber(nil), v...)
	}
	for _, e := range d.entries {
		cp := *e
		c.entries = append(c.entries, &cp)
	}
	for k, v := range d.players {
		cp := *v
		c.players[k] = &cp
	}
	for k, v := range d.admins {
		cp := *v
		c.admins[k] = &cp
	}
	for k, v := range d.funds {
		cp := *v
		c.funds[k] = &cp
	}
	c.ledger = append([]model.WalletLedger(nil), d.ledger...)
	c.outbox = append([]model.Outbox(nil), d.outbox...)
	c.audits = append([]model.DrawAudit(nil), d.audits...)
	return c
}

// Store 内存实现（单互斥锁保护）
type Store struct {
	mu sync.Mutex
	d  *data
}

// New 创建空的内存 Store
func New() *Store { return &Store{d: newData()} }

// Ledger 返回账本快照（测试断言用）
func (s *Store) Ledger() []model.WalletLedger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.WalletLedger(nil), s.d.ledger...)
}

// Outbox 返回事务消息快照（测试断言用）
func (s *Store) Outbox() []model.Outbox {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Outbox(nil), s.d.outbox...)
}

// Audits 返回开奖审计快照（测试断言用）
func (s *Store) Audits() []model.DrawAudit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.DrawAudit(nil), s.d.audits...)
}

func (s *Store) Atomically(ctx context.Context, fn func(tx store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.d.clone()
	if err := fn(&txStore{d: s.d}); err != nil {
		s.d = snap
		return err
	}
	return nil
}

// txStore 持锁期间的事务视图，直接操作底层数据
type txStore struct{ d *data }

func (t *txStore) Atomically(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(t)
}

func nowMs() int64 { return time.Now().UnixMilli() }

func sameEmail(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }

// ---- 回合 ----

func (t *txStore) InsertRound(ctx context.Context, r *model.Round) error {
	if _, ok := t.d.rounds[r.ID]; ok {
		return store.ErrDuplicate
	}
	for _, ex := range t.d.rounds {
		if ex.Year == r.Year && ex.WeekNumber == r.WeekNumber {
			return store.ErrDuplicate
		}
	}
	now := nowMs()
	if r.CreatedAt == 0 {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	cp := *r
	t.d.rounds[r.ID] = &cp
	return nil
}

func (t *txStore) GetRound(ctx context.Context, id string) (*model.Round, error) {
	r, ok := t.d.rounds[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (t *txStore) GetRoundForUpdate(ctx context.Context, id string) (*model.Round, error) {
	return t.GetRound(ctx, id)
}

func (t *txStore) GetActiveRound(ctx context.Context) (*model.Round, error) {
	for _, r := range t.d.rounds {
		if r.IsActive == 1 {
			cp := *r
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (t *txStore) GetActiveRoundForUpdate(ctx context.Context) (*model.Round, error) {
	return t.GetActiveRound(ctx)
}

func ordinal(r *model.Round) int { return r.Year*100 + r.WeekNumber }

func (t *txStore) ListRoundsFromWeek(ctx context.Context, year, week, limit int) ([]model.Round, error) {
	from := year*100 + week
	var list []model.Round
	for _, r := range t.d.rounds {
		if ordinal(r) >= from && r.DrawnAt == 0 {
			list = append(list, *r)
		}
	}
	sort.Slice(list, func(i, j int) bool { return ordinal(&list[i]) < ordinal(&list[j]) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (t *txStore) NextRoundAfter(ctx context.Context, year, week int) (*model.Round, error) {
	after := year*100 + week
	var best *model.Round
	for _, r := range t.d.rounds {
		if ordinal(r) > after && (best == nil || ordinal(r) < ordinal(best)) {
			best = r
		}
	}
	if best == nil {
		return nil, store.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (t *txStore) ListDrawnRounds(ctx context.Context, limit int) ([]model.Round, error) {
	var list []model.Round
	for _, r := range t.d.rounds {
		if r.DrawnAt > 0 {
			list = append(list, *r)
		}
	}
	sort.Slice(list, func(i, j int) bool { return ordinal(&list[i]) > ordinal(&list[j]) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (t *txStore) SetRoundActive(ctx context.Context, id string, active bool, startAtMs int64) error {
	r, ok := t.d.rounds[id]
	if !ok {
		return store.ErrNotFound
	}
	if active {
		r.IsActive = 1
		if startAtMs > 0 && r.StartAt == 0 {
			r.StartAt = startAtMs
		}
	} else {
		r.IsActive = 0
	}
	r.UpdatedAt = nowMs()
	return nil
}

func (t *txStore) DeactivateRoundsExcept(ctx context.Context, keepID string) error {
	for _, r := range t.d.rounds {
		if r.IsActive == 1 && r.ID != keepID {
			r.IsActive = 0
			r.UpdatedAt = nowMs()
		}
	}
	return nil
}

func (t *txStore) MarkRoundDrawn(ctx context.Context, id string, drawnAtMs int64) error {
	r, ok := t.d.rounds[id]
	if !ok {
		return store.ErrNotFound
	}
	r.IsActive = 0
	r.DrawnAt = drawnAtMs
	r.EndAt = drawnAtMs
	r.UpdatedAt = nowMs()
	return nil
}

// ---- 开奖号码 ----

func (t *txStore) InsertDrawnNumbers(ctx context.Context, rows []model.DrawnNumber) error {
	for _, row := range rows {
		if row.CreatedAt == 0 {
			row.CreatedAt = nowMs()
		}
		t.d.drawn[row.RoundID] = append(t.d.drawn[row.RoundID], row)
	}
	return nil
}

func (t *txStore) ListDrawnNumbers(ctx context.Context, roundID string) ([]model.DrawnNumber, error) {
	list := append([]model.DrawnNumber(nil), t.d.drawn[roundID]...)
	sort.Slice(list, func(i, j int) bool { return list[i].Number < list[j].Number })
	return list, nil
}

// ---- 参与记录 ----

func (t *txStore) InsertEntry(ctx context.Context, e *model.Entry) error {
	for _, ex := range t.d.entries {
		if ex.RoundID == e.RoundID && ex.PlayerID == e.PlayerID {
			return store.ErrDuplicate
		}
	}
	now := nowMs()
	if e.CreatedAt == 0 {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	cp := *e
	t.d.entries = append(t.d.entries, &cp)
	return nil
}

func (t *txStore) ListEntriesByRound(ctx context.Context, roundID string) ([]model.Entry, error) {
	var list []model.Entry
	for _, e := range t.d.entries {
		if e.RoundID == roundID {
			list = append(list, *e)
		}
	}
	return list, nil
}

func (t *txStore) ListEntriesByPlayer(ctx context.Context, playerID string) ([]model.Entry, error) {
	var list []model.Entry
	for i := len(t.d.entries) - 1; i >= 0; i-- {
		if t.d.entries[i].PlayerID == playerID {
			list = append(list, *t.d.entries[i])
		}
	}
	return list, nil
}

func (t *txStore) EntryExists(ctx context.Context, roundID, playerID string) (bool, error) {
	for _, e := range t.d.entries {
		if e.RoundID == roundID && e.PlayerID == playerID {
			return true, nil
		}
	}
	return false, nil
}

func (t *txStore) MarkEntryWinner(ctx context.Context, entryID string) error {
	for _, e := range t.d.entries {
		if e.ID == entryID {
			if e.IsWinner == 0 {
				e.IsWinner = 1
				e.UpdatedAt = nowMs()
			}
			return nil
		}
	}
	return store.ErrNotFound
}

// ---- 玩家 ----

func (t *txStore) InsertPlayer(ctx context.Context, p *model.Player) error {
	if _, ok := t.d.players[p.ID]; ok {
		return store.ErrDuplicate
	}
	for _, ex := range t.d.players {
		if sameEmail(ex.Email, p.Email) {
			return store.ErrDuplicate
		}
	}
	now := nowMs()
	if p.Status == 0 {
		p.Status = model.StatusNormal
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	t.d.players[p.ID] = &cp
	return nil
}

func (t *txStore) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	p, ok := t.d.players[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (t *txStore) GetPlayerForUpdate(ctx context.Context, id string) (*model.Player, error) {
	return t.GetPlayer(ctx, id)
}

func (t *txStore) GetPlayerByEmail(ctx context.Context, email string) (*model.Player, error) {
	for _, p := range t.d.players {
		if sameEmail(p.Email, email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (t *txStore) ListPlayers(ctx context.Context) ([]model.Player, error) {
	var list []model.Player
	for _, p := range t.d.players {
		list = append(list, *p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt != list[j].CreatedAt {
			return list[i].CreatedAt < list[j].CreatedAt
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (t *txStore) UpdatePlayerProfile(ctx context.Context, p *model.Player) error {
	ex, ok := t.d.players[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	ex.Name = p.Name
	ex.Email = p.Email
	ex.Phone = p.Phone
	ex.UpdatedAt = nowMs()
	return nil
}

func (t *txStore) UpdatePlayerBalance(ctx context.Context, id string, balance float64) error {
	p, ok := t.d.players[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Balance = balance
	p.UpdatedAt = nowMs()
	return nil
}

func (t *txStore) UpdatePlayerPassword(ctx context.Context, id, hash string) error {
	p, ok := t.d.players[id]
	if !ok {
		return store.ErrNotFound
	}
	p.PasswordHash = hash
	p.UpdatedAt = nowMs()
	return nil
}

func (t *txStore) SetPlayerStatus(ctx context.Context, id string, status int8) error {
	p, ok := t.d.players[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = nowMs()
	return nil
}

func (t *txStore) EmailInUse(ctx context.Context, email, excludePlayerID string) (bool, error) {
	for _, p := range t.d.players {
		if p.ID != excludePlayerID && sameEmail(p.Email, email) {
			return true, nil
		}
	}
	for _, a := range t.d.admins {
		if sameEmail(a.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// ---- 管理员 ----

func (t *txStore) InsertAdmin(ctx context.Context, a *model.Admin) error {
	if _, ok := t.d.admins[a.ID]; ok {
		return store.ErrDuplicate
	}
	for _, ex := range t.d.admins {
		if sameEmail(ex.Email, a.Email) {
			return store.ErrDuplicate
		}
	}
	now := nowMs()
	if a.Status == 0 {
		a.Status = model.StatusNormal
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	cp := *a
	t.d.admins[a.ID] = &cp
	return nil
}

func (t *txStore) GetAdmin(ctx context.Context, id string) (*model.Admin, error) {
	a, ok := t.d.admins[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (t *txStore) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	for _, a := range t.d.admins {
		if sameEmail(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (t *txStore) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	var list []model.Admin
	for _, a := range t.d.admins {
		list = append(list, *a)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt != list[j].CreatedAt {
			return list[i].CreatedAt < list[j].CreatedAt
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (t *txStore) SetAdminStatus(ctx context.Context, id string, status int8) error {
	a, ok := t.d.admins[id]
	if !ok {
		return store.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = nowMs()
	return nil
}

// ---- 充值申请 ----

func (t *txStore) InsertFundRequest(ctx context.Context, f *model.FundRequest) error {
	if _, ok := t.d.funds[f.ID]; ok {
		return store.ErrDuplicate
	}
	now := nowMs()
	if f.Status == "" {
		f.Status = model.FundStatusPending
	}
	if f.CreatedAt == 0 {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	cp := *f
	t.d.funds[f.ID] = &cp
	return nil
}

func (t *txStore) GetFundRequestForUpdate(ctx context.Context, id string) (*model.FundRequest, error) {
	f, ok := t.d.funds[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (t *txStore) ListFundRequests(ctx context.Context, status string) ([]model.FundRequest, error) {
	var list []model.FundRequest
	for _, f := range t.d.funds {
		if status == "" || f.Status == status {
			list = append(list, *f)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt != list[j].CreatedAt {
			return list[i].CreatedAt < list[j].CreatedAt
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (t *txStore) ListFundRequestsByPlayer(ctx context.Context, playerID string) ([]model.FundRequest, error) {
	var list []model.FundRequest
	for _, f := range t.d.funds {
		if f.PlayerID == playerID {
			list = append(list, *f)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt > list[j].CreatedAt })
	return list, nil
}

func (t *txStore) UpdateFundRequestDecision(ctx context.Context, id, status string, processedAtMs int64, processedBy string) error {
	f, ok := t.d.funds[id]
	if !ok {
		return store.ErrNotFound
	}
	f.Status = status
	f.ProcessedAt = processedAtMs
	f.ProcessedBy = processedBy
	f.UpdatedAt = nowMs()
	return nil
}

// ---- 账本 / 事务消息 / 审计 ----

func (t *txStore) InsertLedger(ctx context.Context, l *model.WalletLedger) error {
	cp := *l
	cp.ID = int64(len(t.d.ledger) + 1)
	if cp.CreatedAt == 0 {
		cp.CreatedAt = nowMs()
	}
	t.d.ledger = append(t.d.ledger, cp)
	return nil
}

func (t *txStore) CreateOutbox(ctx context.Context, topic, bizKey string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	now := nowMs()
	t.d.outbox = append(t.d.outbox, model.Outbox{
		ID:        int64(len(t.d.outbox) + 1),
		Topic:     topic,
		BizKey:    bizKey,
		Payload:   string(b),
		Status:    model.OutboxPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return nil
}

func (t *txStore) InsertDrawAudit(ctx context.Context, a *model.DrawAudit) error {
	cp := *a
	cp.ID = int64(len(t.d.audits) + 1)
	if cp.CreatedAt == 0 {
		cp.CreatedAt = nowMs()
	}
	t.d.audits = append(t.d.audits, cp)
	return nil
}
