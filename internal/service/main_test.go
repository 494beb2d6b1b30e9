package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/common/logger"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/clock"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/config"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store/memstore"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger()

	cfg := &config.Config{}
	cfg.Auth.JWT.Secret = "test-secret"
	cfg.Auth.JWT.AccessTokenTTL = 3600
	cfg.Auth.JWT.Issuer = "test"
	config.Set(cfg)

	os.Exit(m.Run())
}

// testNow 固定在 2025-03-05（ISO 2025 年第 10 周的周三）
var testNow = time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)

func newTestClock() *clock.Mock { return clock.NewMock(testNow) }

func seedRound(t *testing.T, st *memstore.Store, id string, year, week int, active bool) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
		r := &model.Round{ID: id, Year: year, WeekNumber: week}
		if active {
			r.IsActive = 1
			r.StartAt = testNow.UnixMilli()
		}
		return tx.InsertRound(ctx, r)
	}))
}

func seedPlayer(t *testing.T, st *memstore.Store, id, name, email string, balance float64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
		return tx.InsertPlayer(ctx, &model.Player{
			ID:      id,
			Name:    name,
			Email:   email,
			Balance: balance,
		})
	}))
}

func seedAdmin(t *testing.T, st *memstore.Store, id, email string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
		return tx.InsertAdmin(ctx, &model.Admin{ID: id, Name: "Admin " + id, Email: email})
	}))
}

func getRound(t *testing.T, st *memstore.Store, id string) *model.Round {
	t.Helper()
	ctx := context.Background()
	var r *model.Round
	require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
		var err error
		r, err = tx.GetRound(ctx, id)
		return err
	}))
	return r
}

func getPlayer(t *testing.T, st *memstore.Store, id string) *model.Player {
	t.Helper()
	ctx := context.Background()
	var p *model.Player
	require.NoError(t, st.Atomically(ctx, func(tx store.Store) error {
		var err error
		p, err = tx.GetPlayer(ctx, id)
		return err
	}))
	return p
}
