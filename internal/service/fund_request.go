package service

import (
	"context"
	"time"

	"github.com/MortenBoHub/ThirdSemesterExam/common/helper"
	"github.com/MortenBoHub/ThirdSemesterExam/common/logger"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/clock"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/metrics"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/state"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateFundRequestInput 充值申请入参；Amount 为两位小数金额串
type CreateFundRequestInput struct {
	PlayerID       string
	Amount         string
	TransactionRef string
	TraceID        string
}

// FundRequestView 充值申请视图
type FundRequestView struct {
	RequestID      string `json:"request_id"`
	PlayerID       string `json:"player_id"`
	Amount         string `json:"amount"`
	TransactionRef string `json:"transaction_ref"`
	Status         string `json:"status"`
	ProcessedAt    int64  `json:"processed_at,omitempty"`
	ProcessedBy    string `json:"processed_by,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}

// DecideFundRequestInput 审批入参
type DecideFundRequestInput struct {
	RequestID string
	AdminID   string
	TraceID   string
}

// FundRequestService 充值申请工作流
type FundRequestService interface {
	Create(ctx context.Context, in CreateFundRequestInput) (*FundRequestView, error)
	List(ctx context.Context, status string) ([]FundRequestView, error)
	ListByPlayer(ctx context.Context, playerID string) ([]FundRequestView, error)
	Approve(ctx context.Context, in DecideFundRequestInput) (*FundRequestView, error)
	Deny(ctx context.Context, in DecideFundRequestInput) (*FundRequestView, error)
}

type fundRequestService struct {
	st  store.Store
	clk clock.Clock
}

// NewFundRequestService 构造充值申请服务
func NewFundRequestService(st store.Store, clk clock.Clock) FundRequestService {
	return &fundRequestService{st: st, clk: clk}
}

func fundView(f *model.FundRequest) *FundRequestView {
	return &FundRequestView{
		RequestID:      f.ID,
		PlayerID:       f.PlayerID,
		Amount:         helper.TrimDecimal(helper.MoneyFromFloat(f.Amount)),
		TransactionRef: f.TransactionRef,
		Status:         f.Status,
		ProcessedAt:    f.ProcessedAt,
		ProcessedBy:    f.ProcessedBy,
		CreatedAt:      f.CreatedAt,
	}
}

func (s *fundRequestService) Create(ctx context.Context, in CreateFundRequestInput) (*FundRequestView, error) {
	started := time.Now()
	out, err := s.create(ctx, in)
	result := "success"
	if err != nil {
		result = "fail"
	}
	metrics.RecordFund("create", result, started)
	return out, err
}

func (s *fundRequestService) create(ctx context.Context, in CreateFundRequestInput) (*FundRequestView, error) {
	amount, err := decimal.NewFromString(in.Amount)
	if err != nil {
		return nil, model.NewValidation("invalid amount: %s", in.Amount)
	}
	if !amount.IsPositive() {
		return nil, model.NewValidation("amount must be positive, got %s", in.Amount)
	}
	if in.TransactionRef == "" {
		return nil, model.NewValidation("transaction_ref required")
	}

	player, err := s.st.GetPlayer(ctx, in.PlayerID)
	if err != nil {
		return nil, mapNotFound(err, "player", in.PlayerID)
	}
	if player.Deleted() {
		return nil, model.NewNotFound("player", in.PlayerID)
	}

	f := &model.FundRequest{
		ID:             uuid.NewString(),
		PlayerID:       in.PlayerID,
		Amount:         amount.Round(2).InexactFloat64(),
		TransactionRef: in.TransactionRef,
		Status:         model.FundStatusPending,
		TraceID:        in.TraceID,
		CreatedAt:      s.clk.Now().UnixMilli(),
	}
	if err := s.st.InsertFundRequest(ctx, f); err != nil {
		return nil, err
	}

	logger.Info("fund request created",
		zap.String("trace_id", in.TraceID),
		zap.String("request_id", f.ID),
		zap.String("player_id", in.PlayerID),
		zap.String("amount", helper.TrimDecimal(amount)))
	return fundView(f), nil
}

func (s *fundRequestService) List(ctx context.Context, status string) ([]FundRequestView, error) {
	switch status {
	case "", model.FundStatusPending, model.FundStatusApproved, model.FundStatusDenied:
	default:
		return nil, model.NewValidation("invalid status filter: %s", status)
	}
	list, err := s.st.ListFundRequests(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]FundRequestView, 0, len(list))
	for i := range list {
		out = append(out, *fundView(&list[i]))
	}
	return out, nil
}

func (s *fundRequestService) ListByPlayer(ctx context.Context, playerID string) ([]FundRequestView, error) {
	if _, err := s.st.GetPlayer(ctx, playerID); err != nil {
		return nil, mapNotFound(err, "player", playerID)
	}
	list, err := s.st.ListFundRequestsByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	out := make([]FundRequestView, 0, len(list))
	for i := range list {
		out = append(out, *fundView(&list[i]))
	}
	return out, nil
}

func (s *fundRequestService) Approve(ctx context.Context, in DecideFundRequestInput) (*FundRequestView, error) {
	started := time.Now()
	out, err := s.decide(ctx, in, state.EvtApprove)
	result := "success"
	if err != nil {
		result = "fail"
	}
	metrics.RecordFund("approve", result, started)
	return out, err
}

func (s *fundRequestService) Deny(ctx context.Context, in DecideFundRequestInput) (*FundRequestView, error) {
	started := time.Now()
	out, err := s.decide(ctx, in, state.EvtDeny)
	result := "success"
	if err != nil {
		result = "fail"
	}
	metrics.RecordFund("deny", result, started)
	return out, err
}

// decide 审批：pending 单向进入 approved/denied；批准时入账一次并写账本
func (s *fundRequestService) decide(ctx context.Context, in DecideFundRequestInput, evt string) (*FundRequestView, error) {
	admin, err := s.st.GetAdmin(ctx, in.AdminID)
	if err != nil {
		return nil, mapNotFound(err, "admin", in.AdminID)
	}
	if admin.Deleted() {
		return nil, model.NewNotFound("admin", in.AdminID)
	}

	now := s.clk.Now().UnixMilli()
	var out *FundRequestView
	err = s.st.Atomically(ctx, func(tx store.Store) error {
		f, err := tx.GetFundRequestForUpdate(ctx, in.RequestID)
		if err != nil {
			return mapNotFound(err, "fund request", in.RequestID)
		}
		next, err := state.NextFundState(f.Status, evt)
		if err != nil {
			return model.NewInvalidState("fund request %s already %s", f.ID, f.Status)
		}

		if next == model.FundStatusApproved {
			player, err := tx.GetPlayerForUpdate(ctx, f.PlayerID)
			if err != nil {
				return mapNotFound(err, "player", f.PlayerID)
			}
			amount := helper.MoneyFromFloat(f.Amount)
			before := helper.MoneyFromFloat(player.Balance)
			after := before.Add(amount)
			if err := tx.UpdatePlayerBalance(ctx, player.ID, after.InexactFloat64()); err != nil {
				return err
			}
			if err := tx.InsertLedger(ctx, &model.WalletLedger{
				PlayerID:     player.ID,
				BizType:      model.BizTypeDeposit,
				Amount:       amount.InexactFloat64(),
				BeforeAmount: before.InexactFloat64(),
				AfterAmount:  after.InexactFloat64(),
				RefID:        f.ID,
				Remark:       "fund request approved",
				TraceID:      in.TraceID,
				CreatedAt:    now,
			}); err != nil {
				return err
			}
		}

		if err := tx.UpdateFundRequestDecision(ctx, f.ID, next, now, in.AdminID); err != nil {
			return err
		}
		f.Status = next
		f.ProcessedAt = now
		f.ProcessedBy = in.AdminID
		out = fundView(f)

		return tx.CreateOutbox(ctx, "fund_request_"+next, f.ID, map[string]interface{}{
			"request_id":   f.ID,
			"player_id":    f.PlayerID,
			"amount":       helper.TrimDecimal(helper.MoneyFromFloat(f.Amount)),
			"status":       next,
			"processed_by": in.AdminID,
			"processed_at": now,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info("fund request decided",
		zap.String("trace_id", in.TraceID),
		zap.String("request_id", in.RequestID),
		zap.String("status", out.Status),
		zap.String("processed_by", in.AdminID))
	return out, nil
}
