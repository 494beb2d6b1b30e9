package service

import (
	"context"
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/common"
	"github.com/MortenBoHub/ThirdSemesterExam/common/helper"
	"github.com/MortenBoHub/ThirdSemesterExam/common/logger"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/clock"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/metrics"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateEntriesInput 购买入参：一组号码覆盖 repeat_weeks 个回合
type CreateEntriesInput struct {
	PlayerID    string
	Numbers     []int
	RepeatWeeks int
	TraceID     string
}

// EntryRef 单回合的参与记录引用
type EntryRef struct {
	EntryID    string `json:"entry_id"`
	RoundID    string `json:"round_id"`
	Year       int    `json:"year"`
	WeekNumber int    `json:"week_number"`
}

// CreateEntriesOutput 购买结果
type CreateEntriesOutput struct {
	Entries       []EntryRef `json:"entries"`
	Numbers       []int      `json:"numbers"`
	PricePerWeek  string     `json:"price_per_week"`
	TotalPrice    string     `json:"total_price"`
	RemainBalance string     `json:"remain_balance"`
}

// PlayerEntryView 玩家视角的参与记录
type PlayerEntryView struct {
	EntryID   string `json:"entry_id"`
	RoundID   string `json:"round_id"`
	Numbers   []int  `json:"numbers"`
	Amount    string `json:"amount"`
	IsWinner  bool   `json:"is_winner"`
	CreatedAt int64  `json:"created_at"`
}

// EntryService 参与购买
type EntryService interface {
	CreateEntries(ctx context.Context, in CreateEntriesInput) (*CreateEntriesOutput, error)
	ListByPlayer(ctx context.Context, playerID string) ([]PlayerEntryView, error)
}

type entryService struct {
	st  store.Store
	clk clock.Clock
}

// NewEntryService 构造参与服务
func NewEntryService(st store.Store, clk clock.Clock) EntryService {
	return &entryService{st: st, clk: clk}
}

// CreateEntries 原子完成：校验号码与定价 -> 锁定玩家 -> 挑选可覆盖回合 ->
// 查重 -> 扣款 -> 逐回合落参与记录与账本 -> outbox
func (s *entryService) CreateEntries(ctx context.Context, in CreateEntriesInput) (*CreateEntriesOutput, error) {
	started := time.Now()
	out, err := s.createEntries(ctx, in)
	if err != nil {
		metrics.RecordEntry("fail", len(in.Numbers), started)
		return nil, err
	}
	metrics.RecordEntry("success", len(out.Numbers), started)
	return out, nil
}

func (s *entryService) createEntries(ctx context.Context, in CreateEntriesInput) (*CreateEntriesOutput, error) {
	nums, err := model.NormalizeNumbers(in.Numbers)
	if err != nil {
		return nil, err
	}
	price, ok := model.PriceForCount(len(nums))
	if !ok {
		return nil, model.NewValidation("no price for %d numbers", len(nums))
	}
	if in.RepeatWeeks < 1 || in.RepeatWeeks > model.MaxRepeatWeeks {
		return nil, model.NewValidation("repeat_weeks must be 1..%d, got %d", model.MaxRepeatWeeks, in.RepeatWeeks)
	}

	now := s.clk.Now()
	nowMs := now.UnixMilli()
	year, week := common.ISOWeek(now)
	total := price.Mul(decimal.NewFromInt(int64(in.RepeatWeeks)))

	var out CreateEntriesOutput
	err = s.st.Atomically(ctx, func(tx store.Store) error {
		player, err := tx.GetPlayerForUpdate(ctx, in.PlayerID)
		if err != nil {
			return mapNotFound(err, "player", in.PlayerID)
		}
		if player.Deleted() {
			return model.NewNotFound("player", in.PlayerID)
		}

		// 从本周起挑选可覆盖回合；已开奖的回合在查询层过滤，覆盖自动顺延到后续周
		rounds, err := tx.ListRoundsFromWeek(ctx, year, week, in.RepeatWeeks)
		if err != nil {
			return err
		}
		if len(rounds) < in.RepeatWeeks {
			return model.NewCapacity("only %d upcoming rounds available, need %d", len(rounds), in.RepeatWeeks)
		}

		for _, r := range rounds {
			exists, err := tx.EntryExists(ctx, r.ID, in.PlayerID)
			if err != nil {
				return err
			}
			if exists {
				return model.NewConflict("player already has an entry in round %d/%d", r.Year, r.WeekNumber)
			}
		}

		balance := helper.MoneyFromFloat(player.Balance)
		if balance.LessThan(total) {
			return &model.InsufficientFundsError{
				Need: helper.TrimDecimal(total),
				Have: helper.TrimDecimal(balance),
			}
		}

		remain := balance.Sub(total)
		if err := tx.UpdatePlayerBalance(ctx, player.ID, remain.InexactFloat64()); err != nil {
			return err
		}

		running := balance
		entryIDs := make([]string, 0, len(rounds))
		refs := make([]EntryRef, 0, len(rounds))
		for _, r := range rounds {
			e := &model.Entry{
				ID:          uuid.NewString(),
				RoundID:     r.ID,
				PlayerID:    player.ID,
				Numbers:     model.JoinNumbers(nums),
				NumberCount: len(nums),
				Amount:      price.InexactFloat64(),
				TraceID:     in.TraceID,
				CreatedAt:   nowMs,
			}
			if err := tx.InsertEntry(ctx, e); err != nil {
				if isDuplicate(err) {
					return model.NewConflict("player already has an entry in round %d/%d", r.Year, r.WeekNumber)
				}
				return err
			}

			after := running.Sub(price)
			if err := tx.InsertLedger(ctx, &model.WalletLedger{
				PlayerID:     player.ID,
				BizType:      model.BizTypeEntry,
				Amount:       price.InexactFloat64(),
				BeforeAmount: running.InexactFloat64(),
				AfterAmount:  after.InexactFloat64(),
				RefID:        e.ID,
				RoundID:      r.ID,
				Remark:       "entry purchase",
				TraceID:      in.TraceID,
				CreatedAt:    nowMs,
			}); err != nil {
				return err
			}
			running = after

			entryIDs = append(entryIDs, e.ID)
			refs = append(refs, EntryRef{EntryID: e.ID, RoundID: r.ID, Year: r.Year, WeekNumber: r.WeekNumber})
		}

		out = CreateEntriesOutput{
			Entries:       refs,
			Numbers:       nums,
			PricePerWeek:  helper.TrimDecimal(price),
			TotalPrice:    helper.TrimDecimal(total),
			RemainBalance: helper.TrimDecimal(remain),
		}

		return tx.CreateOutbox(ctx, "entries_created", in.PlayerID, map[string]interface{}{
			"player_id":   in.PlayerID,
			"entry_ids":   entryIDs,
			"numbers":     nums,
			"total_price": helper.TrimDecimal(total),
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info("entries created",
		zap.String("trace_id", in.TraceID),
		zap.String("player_id", in.PlayerID),
		zap.Int("rounds", len(out.Entries)),
		zap.String("total_price", out.TotalPrice))
	return &out, nil
}

func (s *entryService) ListByPlayer(ctx context.Context, playerID string) ([]PlayerEntryView, error) {
	if _, err := s.st.GetPlayer(ctx, playerID); err != nil {
		return nil, mapNotFound(err, "player", playerID)
	}
	entries, err := s.st.ListEntriesByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	out := make([]PlayerEntryView, 0, len(entries))
	for i := range entries {
		out = append(out, entryView(&entries[i]))
	}
	return out, nil
}

func entryView(e *model.Entry) PlayerEntryView {
	return PlayerEntryView{
		EntryID:   e.ID,
		RoundID:   e.RoundID,
		Numbers:   model.ParseNumbers(e.Numbers),
		Amount:    helper.TrimDecimal(helper.MoneyFromFloat(e.Amount)),
		IsWinner:  e.IsWinner == 1,
		CreatedAt: e.CreatedAt,
	}
}
