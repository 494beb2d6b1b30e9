package service

import (
	"context"
	"testing"

	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/state"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRound(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewRoundService(st, newTestClock())

	out, err := svc.Create(ctx, CreateRoundInput{Year: 2025, WeekNumber: 10})
	require.NoError(t, err)
	assert.Equal(t, 2025, out.Year)
	assert.Equal(t, 10, out.WeekNumber)
	assert.Equal(t, state.StatePending, out.State)

	// 同一周只能排期一次
	_, err = svc.Create(ctx, CreateRoundInput{Year: 2025, WeekNumber: 10})
	var conflict *model.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestCreateRoundValidatesWeek(t *testing.T) {
	ctx := context.Background()
	svc := NewRoundService(memstore.New(), newTestClock())

	var verr *model.ValidationError
	_, err := svc.Create(ctx, CreateRoundInput{Year: 2025, WeekNumber: 0})
	require.ErrorAs(t, err, &verr)
	_, err = svc.Create(ctx, CreateRoundInput{Year: 2025, WeekNumber: 54})
	require.ErrorAs(t, err, &verr)
	// 53 合法（部分 ISO 年有 53 周）
	_, err = svc.Create(ctx, CreateRoundInput{Year: 2026, WeekNumber: 53})
	require.NoError(t, err)
}

func TestActivateKeepsSingleActiveRound(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewRoundService(st, newTestClock())

	seedRound(t, st, "r10", 2025, 10, true)
	seedRound(t, st, "r11", 2025, 11, false)

	out, err := svc.Activate(ctx, "r11", "")
	require.NoError(t, err)
	assert.Equal(t, state.StateActive, out.State)
	assert.Equal(t, testNow.UnixMilli(), out.StartAt)

	// 激活新回合时旧回合被停用
	assert.Equal(t, int8(0), getRound(t, st, "r10").IsActive)
	assert.Equal(t, int8(1), getRound(t, st, "r11").IsActive)

	// 重复激活幂等
	_, err = svc.Activate(ctx, "r11", "")
	require.NoError(t, err)
}

func TestActivateDrawnRoundRejected(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	clk := newTestClock()
	svc := NewRoundService(st, clk)

	seedAdmin(t, st, "a1", "ops@example.com")
	seedRound(t, st, "r10", 2025, 10, true)
	_, err := svc.Draw(ctx, DrawInput{OperatorID: "a1", Numbers: []int{1, 2, 3}})
	require.NoError(t, err)

	var ise *model.InvalidStateError
	_, err = svc.Activate(ctx, "r10", "")
	require.ErrorAs(t, err, &ise)
}

func TestDeactivateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewRoundService(st, newTestClock())

	seedRound(t, st, "r10", 2025, 10, true)

	out, err := svc.Deactivate(ctx, "r10", "")
	require.NoError(t, err)
	assert.Equal(t, state.StatePending, out.State)

	out, err = svc.Deactivate(ctx, "r10", "")
	require.NoError(t, err)
	assert.Equal(t, state.StatePending, out.State)
}

func TestDeactivateDrawnRoundIsNoop(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewRoundService(st, newTestClock())

	seedAdmin(t, st, "a1", "ops@example.com")
	seedRound(t, st, "r10", 2025, 10, true)
	_, err := svc.Draw(ctx, DrawInput{OperatorID: "a1", Numbers: []int{1, 2, 3}})
	require.NoError(t, err)

	// 已开奖回合本就处于停用态，停用是无害的空操作
	out, err := svc.Deactivate(ctx, "r10", "")
	require.NoError(t, err)
	assert.Equal(t, state.StateDrawn, out.State)
	assert.Equal(t, testNow.UnixMilli(), getRound(t, st, "r10").DrawnAt)
}

func TestDrawAdvancesToNextScheduledRound(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewRoundService(st, newTestClock())

	seedAdmin(t, st, "a1", "ops@example.com")
	seedRound(t, st, "r52", 2025, 52, true)
	seedRound(t, st, "r1", 2026, 1, false)
	seedRound(t, st, "r2", 2026, 2, false)

	out, err := svc.Draw(ctx, DrawInput{OperatorID: "a1", Numbers: []int{7, 3, 11}, TraceID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, "r52", out.RoundID)
	assert.Equal(t, []int{3, 7, 11}, out.Numbers) // 升序入库
	assert.Equal(t, "r1", out.NextRoundID)        // 跨年也按 (year, week) 推进

	drawn := getRound(t, st, "r52")
	assert.Equal(t, int8(0), drawn.IsActive)
	assert.Equal(t, testNow.UnixMilli(), drawn.DrawnAt)
	assert.Equal(t, testNow.UnixMilli(), drawn.EndAt)

	next := getRound(t, st, "r1")
	assert.Equal(t, int8(1), next.IsActive)
	assert.Equal(t, testNow.UnixMilli(), next.StartAt)

	// 同事务落审计与 outbox
	audits := st.Audits()
	require.Len(t, audits, 1)
	assert.Equal(t, "r52", audits[0].RoundID)
	assert.Equal(t, "3,7,11", audits[0].Numbers)
	assert.Equal(t, state.StateActive, audits[0].PrevState)
	assert.Equal(t, state.StateDrawn, audits[0].NextState)

	outbox := st.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, "round_drawn", outbox[0].Topic)
}

func TestDrawWithoutActiveRound(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewRoundService(st, newTestClock())

	seedAdmin(t, st, "a1", "ops@example.com")
	seedRound(t, st, "r10", 2025, 10, false)

	var ise *model.InvalidStateError
	_, err := svc.Draw(ctx, DrawInput{OperatorID: "a1", Numbers: []int{1, 2, 3}})
	require.ErrorAs(t, err, &ise)
}

func TestDrawWithoutSuccessorLeavesNoActiveRound(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewRoundService(st, newTestClock())

	seedAdmin(t, st, "a1", "ops@example.com")
	seedRound(t, st, "r10", 2025, 10, true)

	out, err := svc.Draw(ctx, DrawInput{OperatorID: "a1", Numbers: []int{1, 2, 3}})
	require.NoError(t, err)
	assert.Empty(t, out.NextRoundID)

	var nf *model.NotFoundError
	_, err = svc.Active(ctx)
	require.ErrorAs(t, err, &nf)
}

func TestDrawValidatesNumbers(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewRoundService(st, newTestClock())
	seedAdmin(t, st, "a1", "ops@example.com")
	seedRound(t, st, "r10", 2025, 10, true)

	var verr *model.ValidationError
	for _, nums := range [][]int{
		{1, 2},          // 少了
		{1, 2, 3, 4},    // 多了
		{1, 2, 2},       // 重复
		{0, 2, 3},       // 越界
		{1, 2, 17},      // 越界
		nil,             // 空
	} {
		_, err := svc.Draw(ctx, DrawInput{OperatorID: "a1", Numbers: nums})
		require.ErrorAs(t, err, &verr, "numbers %v", nums)
	}
}

func TestDrawRequiresExistingAdmin(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewRoundService(st, newTestClock())
	seedRound(t, st, "r10", 2025, 10, true)

	var nf *model.NotFoundError
	_, err := svc.Draw(ctx, DrawInput{OperatorID: "ghost", Numbers: []int{1, 2, 3}})
	require.ErrorAs(t, err, &nf)
}

func TestRecentListsDrawnRoundsWithNumbers(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewRoundService(st, newTestClock())

	seedAdmin(t, st, "a1", "ops@example.com")
	seedRound(t, st, "r10", 2025, 10, true)
	seedRound(t, st, "r11", 2025, 11, false)

	_, err := svc.Draw(ctx, DrawInput{OperatorID: "a1", Numbers: []int{4, 8, 15}})
	require.NoError(t, err)
	_, err = svc.Draw(ctx, DrawInput{OperatorID: "a1", Numbers: []int{1, 2, 3}})
	require.NoError(t, err)

	out, err := svc.Recent(ctx, 0) // 默认 take
	require.NoError(t, err)
	require.Len(t, out, 2)
	// 最近的在前
	assert.Equal(t, 11, out[0].WeekNumber)
	assert.Equal(t, []int{1, 2, 3}, out[0].Numbers)
	assert.Equal(t, 10, out[1].WeekNumber)
	assert.Equal(t, []int{4, 8, 15}, out[1].Numbers)

	one, err := svc.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, 11, one[0].WeekNumber)
}
