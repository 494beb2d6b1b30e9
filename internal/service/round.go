package service

import (
	"context"
	"sort"
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/common/logger"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/clock"
	infrds "github.com/MortenBoHub/ThirdSemesterExam/internal/infra/redis"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/metrics"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/state"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateRoundInput 排期一个新回合
type CreateRoundInput struct {
	Year       int
	WeekNumber int
	TraceID    string
}

// DrawInput 开奖入参：操作者 + 3 个互异号码
type DrawInput struct {
	OperatorID string
	Numbers    []int
	TraceID    string
}

// DrawOutput 开奖结果
type DrawOutput struct {
	RoundID     string `json:"round_id"`
	Year        int    `json:"year"`
	WeekNumber  int    `json:"week_number"`
	Numbers     []int  `json:"numbers"`
	NextRoundID string `json:"next_round_id,omitempty"`
}

// RoundView 回合对外视图
type RoundView struct {
	RoundID    string `json:"round_id"`
	Year       int    `json:"year"`
	WeekNumber int    `json:"week_number"`
	State      string `json:"state"`
	StartAt    int64  `json:"start_at,omitempty"`
	EndAt      int64  `json:"end_at,omitempty"`
	DrawnAt    int64  `json:"drawn_at,omitempty"`
	Numbers    []int  `json:"numbers,omitempty"`
}

// RoundService 回合排期、激活与开奖
type RoundService interface {
	Create(ctx context.Context, in CreateRoundInput) (*RoundView, error)
	Activate(ctx context.Context, roundID, traceID string) (*RoundView, error)
	Deactivate(ctx context.Context, roundID, traceID string) (*RoundView, error)
	Draw(ctx context.Context, in DrawInput) (*DrawOutput, error)
	Active(ctx context.Context) (*RoundView, error)
	Recent(ctx context.Context, take int) ([]RoundView, error)
}

type roundService struct {
	st  store.Store
	clk clock.Clock
}

// NewRoundService 构造回合服务
func NewRoundService(st store.Store, clk clock.Clock) RoundService {
	return &roundService{st: st, clk: clk}
}

// roundState 由持久化字段推导状态机状态
func roundState(r *model.Round) string {
	switch {
	case r.Drawn():
		return state.StateDrawn
	case r.IsActive == 1:
		return state.StateActive
	default:
		return state.StatePending
	}
}

func roundView(r *model.Round, numbers []int) *RoundView {
	return &RoundView{
		RoundID:    r.ID,
		Year:       r.Year,
		WeekNumber: r.WeekNumber,
		State:      roundState(r),
		StartAt:    r.StartAt,
		EndAt:      r.EndAt,
		DrawnAt:    r.DrawnAt,
		Numbers:    numbers,
	}
}

func (s *roundService) Create(ctx context.Context, in CreateRoundInput) (*RoundView, error) {
	if in.WeekNumber < 1 || in.WeekNumber > 53 {
		return nil, model.NewValidation("week_number must be 1..53, got %d", in.WeekNumber)
	}
	if in.Year < 2000 || in.Year > 2200 {
		return nil, model.NewValidation("year out of range: %d", in.Year)
	}

	r := &model.Round{
		ID:         uuid.NewString(),
		Year:       in.Year,
		WeekNumber: in.WeekNumber,
		TraceID:    in.TraceID,
		CreatedAt:  s.clk.Now().UnixMilli(),
	}
	if err := s.st.InsertRound(ctx, r); err != nil {
		if isDuplicate(err) {
			return nil, model.NewConflict("round for week %d/%d already exists", in.Year, in.WeekNumber)
		}
		return nil, err
	}

	logger.Info("round created",
		zap.String("trace_id", in.TraceID),
		zap.String("round_id", r.ID),
		zap.Int("year", r.Year),
		zap.Int("week", r.WeekNumber))
	return roundView(r, nil), nil
}

func (s *roundService) Activate(ctx context.Context, roundID, traceID string) (*RoundView, error) {
	var out *RoundView
	err := s.st.Atomically(ctx, func(tx store.Store) error {
		r, err := tx.GetRoundForUpdate(ctx, roundID)
		if err != nil {
			return mapNotFound(err, "round", roundID)
		}
		cur := roundState(r)
		if cur == state.StateActive {
			out = roundView(r, nil)
			return nil // 幂等：重复激活不报错
		}
		if _, err := state.NextState(cur, state.EvtActivate); err != nil {
			return model.NewInvalidState("round %s cannot be activated from state %s", roundID, cur)
		}

		startAt := s.clk.Now().UnixMilli()
		// 全表至多一行激活
		if err := tx.DeactivateRoundsExcept(ctx, roundID); err != nil {
			return err
		}
		if err := tx.SetRoundActive(ctx, roundID, true, startAt); err != nil {
			return err
		}
		r.IsActive = 1
		if r.StartAt == 0 {
			r.StartAt = startAt
		}
		out = roundView(r, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("round activated", zap.String("trace_id", traceID), zap.String("round_id", roundID))
	s.invalidateActiveCache(ctx)
	return out, nil
}

func (s *roundService) Deactivate(ctx context.Context, roundID, traceID string) (*RoundView, error) {
	var out *RoundView
	err := s.st.Atomically(ctx, func(tx store.Store) error {
		r, err := tx.GetRoundForUpdate(ctx, roundID)
		if err != nil {
			return mapNotFound(err, "round", roundID)
		}
		if roundState(r) != state.StateActive {
			// 幂等：pending 和已开奖的回合本就处于停用态
			out = roundView(r, nil)
			return nil
		}
		if err := tx.SetRoundActive(ctx, roundID, false, 0); err != nil {
			return err
		}
		r.IsActive = 0
		out = roundView(r, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("round deactivated", zap.String("trace_id", traceID), zap.String("round_id", roundID))
	s.invalidateActiveCache(ctx)
	return out, nil
}

// Draw 开奖并推进：
//  1. 校验 3 个互异号码与操作者
//  2. 锁定激活回合，写入中奖号码，停用并盖上开奖/结束时间
//  3. 激活按 (year, week) 排序的下一个回合（若存在），补记其开始时间
//  4. 同事务写审计与 outbox；提交后写结果缓存
func (s *roundService) Draw(ctx context.Context, in DrawInput) (*DrawOutput, error) {
	started := time.Now()
	out, err := s.draw(ctx, in)
	if err != nil {
		metrics.RecordDraw("fail", started)
		return nil, err
	}
	metrics.RecordDraw("success", started)
	return out, nil
}

func (s *roundService) draw(ctx context.Context, in DrawInput) (*DrawOutput, error) {
	nums, err := validateDrawNumbers(in.Numbers)
	if err != nil {
		return nil, err
	}

	admin, err := s.st.GetAdmin(ctx, in.OperatorID)
	if err != nil {
		return nil, mapNotFound(err, "admin", in.OperatorID)
	}
	if admin.Deleted() {
		return nil, model.NewNotFound("admin", in.OperatorID)
	}

	now := s.clk.Now().UnixMilli()
	var out DrawOutput
	err = s.st.Atomically(ctx, func(tx store.Store) error {
		r, err := tx.GetActiveRoundForUpdate(ctx)
		if err != nil {
			if isNotFound(err) {
				return model.NewInvalidState("no active round to draw")
			}
			return err
		}

		prev := roundState(r)
		next, err := state.NextState(prev, state.EvtDraw)
		if err != nil {
			return model.NewInvalidState("round %s cannot be drawn from state %s", r.ID, prev)
		}

		rows := make([]model.DrawnNumber, 0, len(nums))
		for _, n := range nums {
			rows = append(rows, model.DrawnNumber{
				RoundID:   r.ID,
				Number:    n,
				DrawnBy:   in.OperatorID,
				TraceID:   in.TraceID,
				CreatedAt: now,
			})
		}
		if err := tx.InsertDrawnNumbers(ctx, rows); err != nil {
			return err
		}
		if err := tx.MarkRoundDrawn(ctx, r.ID, now); err != nil {
			return err
		}

		out = DrawOutput{RoundID: r.ID, Year: r.Year, WeekNumber: r.WeekNumber, Numbers: nums}

		// 推进到下一个排期回合
		nr, err := tx.NextRoundAfter(ctx, r.Year, r.WeekNumber)
		switch {
		case err == nil:
			if err := tx.SetRoundActive(ctx, nr.ID, true, now); err != nil {
				return err
			}
			out.NextRoundID = nr.ID
		case isNotFound(err):
			// 没有后续回合：开奖后暂无激活回合
		default:
			return err
		}

		if err := tx.InsertDrawAudit(ctx, &model.DrawAudit{
			RoundID:   r.ID,
			Numbers:   model.JoinNumbers(nums),
			Operator:  in.OperatorID,
			PrevState: prev,
			NextState: next,
			TraceID:   in.TraceID,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		return tx.CreateOutbox(ctx, "round_drawn", r.ID, map[string]interface{}{
			"round_id":      r.ID,
			"year":          r.Year,
			"week_number":   r.WeekNumber,
			"numbers":       nums,
			"operator":      in.OperatorID,
			"next_round_id": out.NextRoundID,
			"drawn_at":      now,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info("round drawn",
		zap.String("trace_id", in.TraceID),
		zap.String("round_id", out.RoundID),
		zap.Ints("numbers", out.Numbers),
		zap.String("next_round_id", out.NextRoundID))

	s.cacheDrawResult(ctx, out.RoundID, nums)
	s.invalidateActiveCache(ctx)
	return &out, nil
}

func (s *roundService) Active(ctx context.Context) (*RoundView, error) {
	r, err := s.st.GetActiveRound(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFound("active round", "")
		}
		return nil, err
	}
	return roundView(r, nil), nil
}

func (s *roundService) Recent(ctx context.Context, take int) ([]RoundView, error) {
	take = clampTake(take)
	rounds, err := s.st.ListDrawnRounds(ctx, take)
	if err != nil {
		return nil, err
	}
	out := make([]RoundView, 0, len(rounds))
	for i := range rounds {
		r := &rounds[i]
		rows, err := s.st.ListDrawnNumbers(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		nums := make([]int, 0, len(rows))
		for _, row := range rows {
			nums = append(nums, row.Number)
		}
		out = append(out, *roundView(r, nums))
	}
	return out, nil
}

// validateDrawNumbers 要求恰好 3 个互异号码且都在 [1,16]
func validateDrawNumbers(nums []int) ([]int, error) {
	if len(nums) != model.DrawCount {
		return nil, model.NewValidation("exactly %d numbers required, got %d", model.DrawCount, len(nums))
	}
	seen := make(map[int]struct{}, len(nums))
	out := make([]int, 0, len(nums))
	for _, n := range nums {
		if n < model.NumberMin || n > model.NumberMax {
			return nil, model.NewValidation("number out of range [%d,%d]: %d", model.NumberMin, model.NumberMax, n)
		}
		if _, dup := seen[n]; dup {
			return nil, model.NewValidation("duplicate number: %d", n)
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

// clampTake 历史条数限制在 [1,100]，默认 10
func clampTake(take int) int {
	if take <= 0 {
		return 10
	}
	if take > 100 {
		return 100
	}
	return take
}

// cacheDrawResult 结果缓存（尽力而为，失败只记日志）
func (s *roundService) cacheDrawResult(ctx context.Context, roundID string, nums []int) {
	rdb := infrds.Client()
	if rdb == nil {
		return
	}
	key := infrds.RoundResultKey(roundID)
	val := model.JoinNumbers(nums)
	if err := rdb.Set(ctx, key, val, 24*time.Hour).Err(); err != nil {
		logger.Warn("cache draw result failed", zap.String("round_id", roundID), zap.Error(err))
	}
}

// invalidateActiveCache 激活状态变化后清掉活动回合快照
func (s *roundService) invalidateActiveCache(ctx context.Context) {
	rdb := infrds.Client()
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, infrds.ActiveRoundKey()).Err(); err != nil {
		logger.Warn("invalidate active round cache failed", zap.Error(err))
	}
}
