package service

import (
	"context"
	"testing"

	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlayer(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewPlayerService(st, newTestClock())

	out, err := svc.Create(ctx, CreatePlayerInput{
		Name:     "  Alice  ",
		Email:    " alice@example.com ",
		Phone:    "12345678",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", out.Name)
	assert.Equal(t, "alice@example.com", out.Email)
	assert.Equal(t, "0.00", out.Balance)
	assert.False(t, out.Deleted)

	// 口令以 bcrypt 哈希存储
	p := getPlayer(t, st, out.PlayerID)
	assert.NotEqual(t, "secret1", p.PasswordHash)
	assert.NotEmpty(t, p.PasswordHash)
}

func TestCreatePlayerValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewPlayerService(memstore.New(), newTestClock())

	var verr *model.ValidationError
	_, err := svc.Create(ctx, CreatePlayerInput{Name: "", Email: "a@b.c", Password: "secret1"})
	require.ErrorAs(t, err, &verr)
	_, err = svc.Create(ctx, CreatePlayerInput{Name: "Alice", Email: "", Password: "secret1"})
	require.ErrorAs(t, err, &verr)
	_, err = svc.Create(ctx, CreatePlayerInput{Name: "Alice", Email: "a@b.c", Password: "short"})
	require.ErrorAs(t, err, &verr)
}

func TestCreatePlayerEmailConflict(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewPlayerService(st, newTestClock())

	seedAdmin(t, st, "a1", "ops@example.com")
	_, err := svc.Create(ctx, CreatePlayerInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	var conflict *model.ConflictError
	// 与玩家目录冲突（大小写不敏感）
	_, err = svc.Create(ctx, CreatePlayerInput{Name: "Alice 2", Email: "ALICE@Example.com", Password: "secret1"})
	require.ErrorAs(t, err, &conflict)
	// 与管理员目录冲突
	_, err = svc.Create(ctx, CreatePlayerInput{Name: "Ops", Email: "ops@example.com", Password: "secret1"})
	require.ErrorAs(t, err, &conflict)
}

func TestUpdatePlayerPartial(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewPlayerService(st, newTestClock())

	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 0)

	name := "Alice B"
	out, err := svc.Update(ctx, UpdatePlayerInput{PlayerID: "p1", Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", out.Name)
	assert.Equal(t, "alice@example.com", out.Email) // 未提供的字段不变

	// 改成自己邮箱的另一种大小写不算冲突
	sameEmail := "Alice@Example.com"
	_, err = svc.Update(ctx, UpdatePlayerInput{PlayerID: "p1", Email: &sameEmail})
	require.NoError(t, err)

	var verr *model.ValidationError
	_, err = svc.Update(ctx, UpdatePlayerInput{PlayerID: "p1"})
	require.ErrorAs(t, err, &verr)
	empty := ""
	_, err = svc.Update(ctx, UpdatePlayerInput{PlayerID: "p1", Name: &empty})
	require.ErrorAs(t, err, &verr)
}

func TestUpdatePlayerEmailConflict(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewPlayerService(st, newTestClock())

	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 0)
	seedPlayer(t, st, "p2", "Bob", "bob@example.com", 0)

	taken := "bob@example.com"
	var conflict *model.ConflictError
	_, err := svc.Update(ctx, UpdatePlayerInput{PlayerID: "p1", Email: &taken})
	require.ErrorAs(t, err, &conflict)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewPlayerService(st, newTestClock())

	created, err := svc.Create(ctx, CreatePlayerInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	var verr *model.ValidationError
	// 当前口令不符
	err = svc.ChangePassword(ctx, ChangePasswordInput{
		PlayerID: created.PlayerID, CurrentPassword: "wrong", NewPassword: "newsecret",
	})
	require.ErrorAs(t, err, &verr)

	// 新口令太短
	err = svc.ChangePassword(ctx, ChangePasswordInput{
		PlayerID: created.PlayerID, CurrentPassword: "secret1", NewPassword: "abc",
	})
	require.ErrorAs(t, err, &verr)

	err = svc.ChangePassword(ctx, ChangePasswordInput{
		PlayerID: created.PlayerID, CurrentPassword: "secret1", NewPassword: "newsecret",
	})
	require.NoError(t, err)

	// 新口令立即生效
	err = svc.ChangePassword(ctx, ChangePasswordInput{
		PlayerID: created.PlayerID, CurrentPassword: "newsecret", NewPassword: "another1",
	})
	require.NoError(t, err)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewPlayerService(st, newTestClock())

	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 0)

	require.NoError(t, svc.SoftDelete(ctx, "p1", ""))
	require.NoError(t, svc.SoftDelete(ctx, "p1", "")) // 幂等

	detail, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, detail.Deleted)

	// 软删后更新被拒（按不存在处理）
	name := "x"
	var nf *model.NotFoundError
	_, err = svc.Update(ctx, UpdatePlayerInput{PlayerID: "p1", Name: &name})
	require.ErrorAs(t, err, &nf)

	require.NoError(t, svc.Restore(ctx, "p1", ""))
	require.NoError(t, svc.Restore(ctx, "p1", "")) // 幂等
	detail, err = svc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, detail.Deleted)

	err = svc.SoftDelete(ctx, "ghost", "")
	require.ErrorAs(t, err, &nf)
}

func TestGetPlayerIncludesEntries(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewPlayerService(st, newTestClock())

	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 100)
	seedRound(t, st, "r10", 2025, 10, true)

	_, err := NewEntryService(st, newTestClock()).CreateEntries(ctx, CreateEntriesInput{
		PlayerID:    "p1",
		Numbers:     []int{1, 2, 3, 4, 5},
		RepeatWeeks: 1,
	})
	require.NoError(t, err)

	detail, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "80.00", detail.Balance)
	require.Len(t, detail.Entries, 1)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, detail.Entries[0].Numbers)
}

func TestListPlayers(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewPlayerService(st, newTestClock())

	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 0)
	seedPlayer(t, st, "p2", "Bob", "bob@example.com", 0)
	require.NoError(t, svc.SoftDelete(ctx, "p2", ""))

	// 列表包含软删玩家并标记状态
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	deleted := 0
	for _, p := range list {
		if p.Deleted {
			deleted++
		}
	}
	assert.Equal(t, 1, deleted)
}
