package service

import (
	"context"
	"testing"

	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFundRequest(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewFundRequestService(st, newTestClock())

	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 0)

	out, err := svc.Create(ctx, CreateFundRequestInput{
		PlayerID:       "p1",
		Amount:         "250.00",
		TransactionRef: "MP-12345",
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", out.PlayerID)
	assert.Equal(t, "250.00", out.Amount)
	assert.Equal(t, model.FundStatusPending, out.Status)
	assert.Zero(t, out.ProcessedAt)

	// 申请本身不动余额
	assert.Equal(t, float64(0), getPlayer(t, st, "p1").Balance)
}

func TestCreateFundRequestValidation(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewFundRequestService(st, newTestClock())
	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 0)

	var verr *model.ValidationError
	cases := []CreateFundRequestInput{
		{PlayerID: "p1", Amount: "abc", TransactionRef: "MP-1"},
		{PlayerID: "p1", Amount: "0", TransactionRef: "MP-1"},
		{PlayerID: "p1", Amount: "-5", TransactionRef: "MP-1"},
		{PlayerID: "p1", Amount: "100", TransactionRef: ""},
	}
	for _, in := range cases {
		_, err := svc.Create(ctx, in)
		require.ErrorAs(t, err, &verr, "amount=%q ref=%q", in.Amount, in.TransactionRef)
	}

	var nf *model.NotFoundError
	_, err := svc.Create(ctx, CreateFundRequestInput{PlayerID: "ghost", Amount: "100", TransactionRef: "MP-1"})
	require.ErrorAs(t, err, &nf)
}

func TestApproveFundRequestCreditsOnce(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewFundRequestService(st, newTestClock())

	seedAdmin(t, st, "a1", "ops@example.com")
	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 50)

	created, err := svc.Create(ctx, CreateFundRequestInput{
		PlayerID: "p1", Amount: "250.00", TransactionRef: "MP-1",
	})
	require.NoError(t, err)

	out, err := svc.Approve(ctx, DecideFundRequestInput{RequestID: created.RequestID, AdminID: "a1"})
	require.NoError(t, err)
	assert.Equal(t, model.FundStatusApproved, out.Status)
	assert.Equal(t, "a1", out.ProcessedBy)
	assert.Equal(t, testNow.UnixMilli(), out.ProcessedAt)

	assert.Equal(t, float64(300), getPlayer(t, st, "p1").Balance)

	ledger := st.Ledger()
	require.Len(t, ledger, 1)
	assert.Equal(t, model.BizTypeDeposit, ledger[0].BizType)
	assert.Equal(t, float64(50), ledger[0].BeforeAmount)
	assert.Equal(t, float64(300), ledger[0].AfterAmount)

	outbox := st.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, "fund_request_approved", outbox[0].Topic)

	// 重复审批拒绝，余额不再变化
	var ise *model.InvalidStateError
	_, err = svc.Approve(ctx, DecideFundRequestInput{RequestID: created.RequestID, AdminID: "a1"})
	require.ErrorAs(t, err, &ise)
	_, err = svc.Deny(ctx, DecideFundRequestInput{RequestID: created.RequestID, AdminID: "a1"})
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, float64(300), getPlayer(t, st, "p1").Balance)
	assert.Len(t, st.Ledger(), 1)
}

func TestDenyFundRequestDoesNotCredit(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewFundRequestService(st, newTestClock())

	seedAdmin(t, st, "a1", "ops@example.com")
	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 50)

	created, err := svc.Create(ctx, CreateFundRequestInput{
		PlayerID: "p1", Amount: "250.00", TransactionRef: "MP-1",
	})
	require.NoError(t, err)

	out, err := svc.Deny(ctx, DecideFundRequestInput{RequestID: created.RequestID, AdminID: "a1"})
	require.NoError(t, err)
	assert.Equal(t, model.FundStatusDenied, out.Status)

	assert.Equal(t, float64(50), getPlayer(t, st, "p1").Balance)
	assert.Empty(t, st.Ledger())

	outbox := st.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, "fund_request_denied", outbox[0].Topic)

	// denied 同样是终态
	var ise *model.InvalidStateError
	_, err = svc.Approve(ctx, DecideFundRequestInput{RequestID: created.RequestID, AdminID: "a1"})
	require.ErrorAs(t, err, &ise)
}

func TestDecideFundRequestRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewFundRequestService(st, newTestClock())
	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 0)

	created, err := svc.Create(ctx, CreateFundRequestInput{
		PlayerID: "p1", Amount: "10", TransactionRef: "MP-1",
	})
	require.NoError(t, err)

	var nf *model.NotFoundError
	_, err = svc.Approve(ctx, DecideFundRequestInput{RequestID: created.RequestID, AdminID: "ghost"})
	require.ErrorAs(t, err, &nf)
}

func TestListFundRequests(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewFundRequestService(st, newTestClock())

	seedAdmin(t, st, "a1", "ops@example.com")
	seedPlayer(t, st, "p1", "Alice", "alice@example.com", 0)
	seedPlayer(t, st, "p2", "Bob", "bob@example.com", 0)

	r1, err := svc.Create(ctx, CreateFundRequestInput{PlayerID: "p1", Amount: "10", TransactionRef: "MP-1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateFundRequestInput{PlayerID: "p2", Amount: "20", TransactionRef: "MP-2"})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, DecideFundRequestInput{RequestID: r1.RequestID, AdminID: "a1"})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := svc.List(ctx, model.FundStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "p2", pending[0].PlayerID)

	var verr *model.ValidationError
	_, err = svc.List(ctx, "bogus")
	require.ErrorAs(t, err, &verr)

	mine, err := svc.ListByPlayer(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, model.FundStatusApproved, mine[0].Status)
}
