package service

import (
	"context"
	"testing"

	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEntriesSingleWeek(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewEntryService(st, newTestClock())

	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 100)
	seedRound(t, st, "r10", 2025, 10, true)

	out, err := svc.CreateEntries(ctx, CreateEntriesInput{
		PlayerID:    "p1",
		Numbers:     []int{16, 3, 9, 1, 7},
		RepeatWeeks: 1,
	})
	require.NoError(t, err)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "r10", out.Entries[0].RoundID)
	assert.Equal(t, []int{1, 3, 7, 9, 16}, out.Numbers)
	assert.Equal(t, "20.00", out.PricePerWeek)
	assert.Equal(t, "20.00", out.TotalPrice)
	assert.Equal(t, "80.00", out.RemainBalance)

	assert.Equal(t, float64(80), getPlayer(t, st, "p1").Balance)

	ledger := st.Ledger()
	require.Len(t, ledger, 1)
	assert.Equal(t, model.BizTypeEntry, ledger[0].BizType)
	assert.Equal(t, float64(100), ledger[0].BeforeAmount)
	assert.Equal(t, float64(80), ledger[0].AfterAmount)

	outbox := st.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, "entries_created", outbox[0].Topic)
}

func TestCreateEntriesPricing(t *testing.T) {
	cases := []struct {
		numbers []int
		weeks   int
		total   string
	}{
		{[]int{1, 2, 3, 4, 5}, 1, "20.00"},
		{[]int{1, 2, 3, 4, 5, 6}, 1, "40.00"},
		{[]int{1, 2, 3, 4, 5, 6, 7}, 1, "80.00"},
		{[]int{1, 2, 3, 4, 5, 6, 7, 8}, 1, "160.00"},
		{[]int{1, 2, 3, 4, 5}, 3, "60.00"},
		{[]int{1, 2, 3, 4, 5, 6, 7, 8}, 2, "320.00"},
	}
	for _, c := range cases {
		ctx := context.Background()
		st := memstore.New()
		svc := NewEntryService(st, newTestClock())
		seedPlayer(t, st, "p1", "Alice", "alice@example.com", 1000)
		seedRound(t, st, "r10", 2025, 10, true)
		seedRound(t, st, "r11", 2025, 11, false)
		seedRound(t, st, "r12", 2025, 12, false)

		out, err := svc.CreateEntries(ctx, CreateEntriesInput{
			PlayerID:    "p1",
			Numbers:     c.numbers,
			RepeatWeeks: c.weeks,
		})
		require.NoError(t, err, "%d numbers x %d weeks", len(c.numbers), c.weeks)
		assert.Equal(t, c.total, out.TotalPrice)
		assert.Len(t, out.Entries, c.weeks)
	}
}

func TestCreateEntriesCoversConsecutiveWeeks(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewEntryService(st, newTestClock())

	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 100)
	seedRound(t, st, "r10", 2025, 10, true)
	seedRound(t, st, "r11", 2025, 11, false)
	seedRound(t, st, "r12", 2025, 12, false)

	out, err := svc.CreateEntries(ctx, CreateEntriesInput{
		PlayerID:    "p1",
		Numbers:     []int{1, 2, 3, 4, 5},
		RepeatWeeks: 3,
	})
	require.NoError(t, err)
	require.Len(t, out.Entries, 3)
	assert.Equal(t, []int{10, 11, 12}, []int{
		out.Entries[0].WeekNumber, out.Entries[1].WeekNumber, out.Entries[2].WeekNumber,
	})

	// 账本逐回合链式记账
	ledger := st.Ledger()
	require.Len(t, ledger, 3)
	assert.Equal(t, float64(100), ledger[0].BeforeAmount)
	assert.Equal(t, float64(80), ledger[0].AfterAmount)
	assert.Equal(t, float64(80), ledger[1].BeforeAmount)
	assert.Equal(t, float64(60), ledger[1].AfterAmount)
	assert.Equal(t, float64(60), ledger[2].BeforeAmount)
	assert.Equal(t, float64(40), ledger[2].AfterAmount)
	assert.Equal(t, float64(40), getPlayer(t, st, "p1").Balance)
}

func TestCreateEntriesSkipsDrawnCurrentWeek(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	clk := newTestClock()

	seedAdmin(t, st, "a1", "ops@example.com")
	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 100)
	seedRound(t, st, "r10", 2025, 10, true)
	seedRound(t, st, "r11", 2025, 11, false)

	// 本周回合已开奖并推进到下一周
	_, err := NewRoundService(st, clk).Draw(ctx, DrawInput{OperatorID: "a1", Numbers: []int{1, 2, 3}})
	require.NoError(t, err)

	out, err := NewEntryService(st, clk).CreateEntries(ctx, CreateEntriesInput{
		PlayerID:    "p1",
		Numbers:     []int{1, 2, 3, 4, 5},
		RepeatWeeks: 1,
	})
	require.NoError(t, err)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "r11", out.Entries[0].RoundID)
}

func TestCreateEntriesAfterTwoDrawsInSameWeek(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	clk := newTestClock()

	seedAdmin(t, st, "a1", "ops@example.com")
	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 100)
	seedRound(t, st, "r10", 2025, 10, true)
	seedRound(t, st, "r11", 2025, 11, false)
	seedRound(t, st, "r12", 2025, 12, false)

	// 运营补开：同一个自然周内连开两期，窗口头部出现两个已开奖回合
	rs := NewRoundService(st, clk)
	_, err := rs.Draw(ctx, DrawInput{OperatorID: "a1", Numbers: []int{1, 2, 3}})
	require.NoError(t, err)
	_, err = rs.Draw(ctx, DrawInput{OperatorID: "a1", Numbers: []int{4, 5, 6}})
	require.NoError(t, err)

	out, err := NewEntryService(st, clk).CreateEntries(ctx, CreateEntriesInput{
		PlayerID:    "p1",
		Numbers:     []int{1, 2, 3, 4, 5},
		RepeatWeeks: 1,
	})
	require.NoError(t, err)
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "r12", out.Entries[0].RoundID)
}

func TestCreateEntriesCapacity(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewEntryService(st, newTestClock())

	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 1000)
	seedRound(t, st, "r10", 2025, 10, true)
	seedRound(t, st, "r11", 2025, 11, false)

	var capErr *model.CapacityError
	_, err := svc.CreateEntries(ctx, CreateEntriesInput{
		PlayerID:    "p1",
		Numbers:     []int{1, 2, 3, 4, 5},
		RepeatWeeks: 3,
	})
	require.ErrorAs(t, err, &capErr)

	// 失败后不得留下任何扣款痕迹
	assert.Equal(t, float64(1000), getPlayer(t, st, "p1").Balance)
	assert.Empty(t, st.Ledger())
	assert.Empty(t, st.Outbox())
}

func TestCreateEntriesInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewEntryService(st, newTestClock())

	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 19.5)
	seedRound(t, st, "r10", 2025, 10, true)

	var ife *model.InsufficientFundsError
	_, err := svc.CreateEntries(ctx, CreateEntriesInput{
		PlayerID:    "p1",
		Numbers:     []int{1, 2, 3, 4, 5},
		RepeatWeeks: 1,
	})
	require.ErrorAs(t, err, &ife)
	assert.Equal(t, "20.00", ife.Need)
	assert.Equal(t, "19.50", ife.Have)

	assert.Equal(t, 19.5, getPlayer(t, st, "p1").Balance)
	assert.Empty(t, st.Ledger())
}

func TestCreateEntriesDuplicateInRound(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewEntryService(st, newTestClock())

	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 1000)
	seedRound(t, st, "r10", 2025, 10, true)

	_, err := svc.CreateEntries(ctx, CreateEntriesInput{
		PlayerID:    "p1",
		Numbers:     []int{1, 2, 3, 4, 5},
		RepeatWeeks: 1,
	})
	require.NoError(t, err)

	// 同回合第二次购买冲突，换号码也不行
	var conflict *model.ConflictError
	_, err = svc.CreateEntries(ctx, CreateEntriesInput{
		PlayerID:    "p1",
		Numbers:     []int{6, 7, 8, 9, 10},
		RepeatWeeks: 1,
	})
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, float64(980), getPlayer(t, st, "p1").Balance)
}

func TestCreateEntriesValidation(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewEntryService(st, newTestClock())
	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 1000)
	seedRound(t, st, "r10", 2025, 10, true)

	var verr *model.ValidationError
	cases := []CreateEntriesInput{
		{PlayerID: "p1", Numbers: []int{1, 2, 3, 4}, RepeatWeeks: 1},       // 号码太少
		{PlayerID: "p1", Numbers: []int{1, 2, 3, 4, 4}, RepeatWeeks: 1},    // 重复号码
		{PlayerID: "p1", Numbers: []int{1, 2, 3, 4, 17}, RepeatWeeks: 1},   // 越界
		{PlayerID: "p1", Numbers: []int{1, 2, 3, 4, 5}, RepeatWeeks: 0},    // 周数下限
		{PlayerID: "p1", Numbers: []int{1, 2, 3, 4, 5}, RepeatWeeks: 53},   // 周数上限
	}
	for _, in := range cases {
		_, err := svc.CreateEntries(ctx, in)
		require.ErrorAs(t, err, &verr, "numbers=%v weeks=%d", in.Numbers, in.RepeatWeeks)
	}
}

func TestCreateEntriesDeletedPlayer(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewEntryService(st, newTestClock())

	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 1000)
	seedRound(t, st, "r10", 2025, 10, true)
	require.NoError(t, NewPlayerService(st, newTestClock()).SoftDelete(ctx, "p1", ""))

	var nf *model.NotFoundError
	_, err := svc.CreateEntries(ctx, CreateEntriesInput{
		PlayerID:    "p1",
		Numbers:     []int{1, 2, 3, 4, 5},
		RepeatWeeks: 1,
	})
	require.ErrorAs(t, err, &nf)
}

func TestListByPlayer(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewEntryService(st, newTestClock())

	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 1000)
	seedRound(t, st, "r10", 2025, 10, true)
	seedRound(t, st, "r11", 2025, 11, false)

	_, err := svc.CreateEntries(ctx, CreateEntriesInput{
		PlayerID:    "p1",
		Numbers:     []int{1, 2, 3, 4, 5, 6},
		RepeatWeeks: 2,
	})
	require.NoError(t, err)

	list, err := svc.ListByPlayer(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, list[0].Numbers)
	assert.Equal(t, "40.00", list[0].Amount)

	var nf *model.NotFoundError
	_, err = svc.ListByPlayer(ctx, "ghost")
	require.ErrorAs(t, err, &nf)
}
