package memstore

import (
	"context"

	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
)

// 互斥锁外壳：每个方法持锁后委托给事务视图

func (s *Store) InsertRound(ctx context.Context, r *model.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).InsertRound(ctx, r)
}

func (s *Store) GetRound(ctx context.Context, id string) (*model.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).GetRound(ctx, id)
}

func (s *Store) GetRoundForUpdate(ctx context.Context, id string) (*model.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).GetRoundForUpdate(ctx, id)
}

func (s *Store) GetActiveRound(ctx context.Context) (*model.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).GetActiveRound(ctx)
}

func (s *Store) GetActiveRoundForUpdate(ctx context.Context) (*model.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).GetActiveRoundForUpdate(ctx)
}

func (s *Store) ListRoundsFromWeek(ctx context.Context, year, week, limit int) ([]model.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).ListRoundsFromWeek(ctx, year, week, limit)
}

func (s *Store) NextRoundAfter(ctx context.Context, year, week int) (*model.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).NextRoundAfter(ctx, year, week)
}

func (s *Store) ListDrawnRounds(ctx context.Context, limit int) ([]model.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).ListDrawnRounds(ctx, limit)
}

func (s *Store) SetRoundActive(ctx context.Context, id string, active bool, startAtMs int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).SetRoundActive(ctx, id, active, startAtMs)
}

func (s *Store) DeactivateRoundsExcept(ctx context.Context, keepID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).DeactivateRoundsExcept(ctx, keepID)
}

func (s *Store) MarkRoundDrawn(ctx context.Context, id string, drawnAtMs int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).MarkRoundDrawn(ctx, id, drawnAtMs)
}

func (s *Store) InsertDrawnNumbers(ctx context.Context, rows []model.DrawnNumber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).InsertDrawnNumbers(ctx, rows)
}

func (s *Store) ListDrawnNumbers(ctx context.Context, roundID string) ([]model.DrawnNumber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).ListDrawnNumbers(ctx, roundID)
}

func (s *Store) InsertEntry(ctx context.Context, e *model.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).InsertEntry(ctx, e)
}

func (s *Store) ListEntriesByRound(ctx context.Context, roundID string) ([]model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).ListEntriesByRound(ctx, roundID)
}

func (s *Store) ListEntriesByPlayer(ctx context.Context, playerID string) ([]model.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).ListEntriesByPlayer(ctx, playerID)
}

func (s *Store) EntryExists(ctx context.Context, roundID, playerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).EntryExists(ctx, roundID, playerID)
}

func (s *Store) MarkEntryWinner(ctx context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).MarkEntryWinner(ctx, entryID)
}

func (s *Store) InsertPlayer(ctx context.Context, p *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).InsertPlayer(ctx, p)
}

func (s *Store) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).GetPlayer(ctx, id)
}

func (s *Store) GetPlayerForUpdate(ctx context.Context, id string) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).GetPlayerForUpdate(ctx, id)
}

func (s *Store) GetPlayerByEmail(ctx context.Context, email string) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).GetPlayerByEmail(ctx, email)
}

func (s *Store) ListPlayers(ctx context.Context) ([]model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).ListPlayers(ctx)
}

func (s *Store) UpdatePlayerProfile(ctx context.Context, p *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).UpdatePlayerProfile(ctx, p)
}

func (s *Store) UpdatePlayerBalance(ctx context.Context, id string, balance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).UpdatePlayerBalance(ctx, id, balance)
}

func (s *Store) UpdatePlayerPassword(ctx context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).UpdatePlayerPassword(ctx, id, hash)
}

func (s *Store) SetPlayerStatus(ctx context.Context, id string, status int8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).SetPlayerStatus(ctx, id, status)
}

func (s *Store) EmailInUse(ctx context.Context, email, excludePlayerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).EmailInUse(ctx, email, excludePlayerID)
}

func (s *Store) InsertAdmin(ctx context.Context, a *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).InsertAdmin(ctx, a)
}

func (s *Store) GetAdmin(ctx context.Context, id string) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).GetAdmin(ctx, id)
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).GetAdminByEmail(ctx, email)
}

func (s *Store) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).ListAdmins(ctx)
}

func (s *Store) SetAdminStatus(ctx context.Context, id string, status int8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).SetAdminStatus(ctx, id, status)
}

func (s *Store) InsertFundRequest(ctx context.Context, f *model.FundRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).InsertFundRequest(ctx, f)
}

func (s *Store) GetFundRequestForUpdate(ctx context.Context, id string) (*model.FundRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).GetFundRequestForUpdate(ctx, id)
}

func (s *Store) ListFundRequests(ctx context.Context, status string) ([]model.FundRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).ListFundRequests(ctx, status)
}

func (s *Store) ListFundRequestsByPlayer(ctx context.Context, playerID string) ([]model.FundRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).ListFundRequestsByPlayer(ctx, playerID)
}

func (s *Store) UpdateFundRequestDecision(ctx context.Context, id, status string, processedAtMs int64, processedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).UpdateFundRequestDecision(ctx, id, status, processedAtMs, processedBy)
}

func (s *Store) InsertLedger(ctx context.Context, l *model.WalletLedger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).InsertLedger(ctx, l)
}

func (s *Store) CreateOutbox(ctx context.Context, topic, bizKey string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).CreateOutbox(ctx, topic, bizKey, payload)
}

func (s *Store) InsertDrawAudit(ctx context.Context, a *model.DrawAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&txStore{d: s.d}).InsertDrawAudit(ctx, a)
}
