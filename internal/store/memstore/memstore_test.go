package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicallyRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := New()

	require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
		return tx.InsertPlayer(ctx, &model.Player{ID: "p1", Name: "Alice", Email: "alice@example.com", Balance: 100})
	}))

	boom := errors.New("boom")
	err := st.Atomically(ctx, func(tx store.Store) error {
		require.NoError(t, tx.UpdatePlayerBalance(ctx, "p1", 0))
		require.NoError(t, tx.InsertLedger(ctx, &model.WalletLedger{PlayerID: "p1", Amount: 100}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	// 回滚后余额与账本都要回到事务前
	var p *model.Player
	require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
		var err error
		p, err = tx.GetPlayer(ctx, "p1")
		return err
	}))
	assert.Equal(t, float64(100), p.Balance)
	assert.Empty(t, st.Ledger())
}

func TestRoundWeekUniqueness(t *testing.T) {
	ctx := context.Background()
	st := New()

	require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
		return tx.InsertRound(ctx, &model.Round{ID: "r1", Year: 2025, WeekNumber: 10})
	}))
	err := st.Atomically(ctx, func(tx store.Store) error {
		return tx.InsertRound(ctx, &model.Round{ID: "r2", Year: 2025, WeekNumber: 10})
	})
	require.ErrorIs(t, err, store.ErrDuplicate)
}

func TestEntryUniquePerRoundAndPlayer(t *testing.T) {
	ctx := context.Background()
	st := New()

	require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
		if err := tx.InsertEntry(ctx, &model.Entry{ID: "e1", RoundID: "r1", PlayerID: "p1"}); err != nil {
			return err
		}
		// 同玩家换回合可以
		return tx.InsertEntry(ctx, &model.Entry{ID: "e2", RoundID: "r2", PlayerID: "p1"})
	}))

	err := st.Atomically(ctx, func(tx store.Store) error {
		return tx.InsertEntry(ctx, &model.Entry{ID: "e3", RoundID: "r1", PlayerID: "p1"})
	})
	require.ErrorIs(t, err, store.ErrDuplicate)
}

func TestEmailInUseSpansAdmins(t *testing.T) {
	ctx := context.Background()
	st := New()

	require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
		if err := tx.InsertAdmin(ctx, &model.Admin{ID: "a1", Email: "ops@example.com"}); err != nil {
			return err
		}
		return tx.InsertPlayer(ctx, &model.Player{ID: "p1", Email: "alice@example.com"})
	}))

	cases := []struct {
		email   string
		exclude string
		want    bool
	}{
		{"ops@example.com", "", true},
		{"OPS@Example.COM", "", true}, // 大小写不敏感
		{"alice@example.com", "", true},
		{"alice@example.com", "p1", false}, // 排除本人
		{"bob@example.com", "", false},
	}

	for _, c := range cases {
		var inUse bool
		require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
			var err error
			inUse, err = tx.EmailInUse(ctx, c.email, c.exclude)
			return err
		}))
		assert.Equal(t, c.want, inUse, "EmailInUse(%q, %q)", c.email, c.exclude)
	}
}

func TestNextRoundAfterOrdersByYearWeek(t *testing.T) {
	ctx := context.Background()
	st := New()

	require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
		for _, r := range []*model.Round{
			{ID: "r52", Year: 2025, WeekNumber: 52},
			{ID: "r1", Year: 2026, WeekNumber: 1},
			{ID: "r10", Year: 2025, WeekNumber: 10},
		} {
			if err := tx.InsertRound(ctx, r); err != nil {
				return err
			}
		}
		return nil
	}))

	var next *model.Round
	require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
		var err error
		next, err = tx.NextRoundAfter(ctx, 2025, 52)
		return err
	}))
	// 跨年推进到 2026 W1
	assert.Equal(t, "r1", next.ID)

	err := st.Atomically(ctx, func(tx store.Store) error {
		_, err := tx.NextRoundAfter(ctx, 2026, 1)
		return err
	})
	require.ErrorIs(t, err, store.ErrNotFound)
}
