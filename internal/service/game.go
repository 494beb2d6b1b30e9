package service

import (
	"context"
	"sort"

	"github.com/MortenBoHub/ThirdSemesterExam/internal/auth"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/clock"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/model"
	"github.com/MortenBoHub/ThirdSemesterExam/internal/store"
)

// Evaluate 计算命中数与中奖判定：三个开奖号码全部被覆盖即中奖
func Evaluate(drawn, selected []int) (matches int, isWinner bool) {
	set := make(map[int]struct{}, len(selected))
	for _, n := range selected {
		set[n] = struct{}{}
	}
	for _, n := range drawn {
		if _, ok := set[n]; ok {
			matches++
		}
	}
	return matches, len(drawn) == model.DrawCount && matches == model.WinMatchCount
}

// Participant 激活回合的参与者视图
type Participant struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Numbers  []int  `json:"numbers"`
	Matches  int    `json:"matches"`
}

// ParticipantsOutput 参与者列表（命中数倒序，姓名升序）
type ParticipantsOutput struct {
	RoundID      string        `json:"round_id"`
	Year         int           `json:"year"`
	WeekNumber   int           `json:"week_number"`
	DrawnNumbers []int         `json:"drawn_numbers"`
	Participants []Participant `json:"participants"`
}

// WinnerDetail 管理员可见的中奖者信息
type WinnerDetail struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Numbers  []int  `json:"numbers"`
}

// HistoryRound 历史回合视图；角色决定附加字段
type HistoryRound struct {
	RoundID       string            `json:"round_id"`
	Year          int               `json:"year"`
	WeekNumber    int               `json:"week_number"`
	StartAt       int64             `json:"start_at,omitempty"`
	EndAt         int64             `json:"end_at,omitempty"`
	DrawnNumbers  []int             `json:"drawn_numbers"`
	Participants  int               `json:"participants"`
	Winners       int               `json:"winners"`
	WinnerDetails []WinnerDetail    `json:"winner_details,omitempty"` // 仅管理员
	MyEntries     []PlayerEntryView `json:"my_entries,omitempty"`     // 仅查询玩家本人
}

// HistoryInput take 限制在 [1,100]；Viewer 决定可见范围
type HistoryInput struct {
	Take       int
	ViewerRole string
	ViewerID   string
}

// GameService 中奖判定与查询视图
type GameService interface {
	ActiveParticipants(ctx context.Context) (*ParticipantsOutput, error)
	History(ctx context.Context, in HistoryInput) ([]HistoryRound, error)
}

type gameService struct {
	st  store.Store
	clk clock.Clock
}

// NewGameService 构造查询服务
func NewGameService(st store.Store, clk clock.Clock) GameService {
	return &gameService{st: st, clk: clk}
}

// ActiveParticipants 激活回合的参与者，命中数按已开号码计算（未开奖时全为 0）
func (s *gameService) ActiveParticipants(ctx context.Context) (*ParticipantsOutput, error) {
	round, err := s.st.GetActiveRound(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, model.NewNotFound("active round", "")
		}
		return nil, err
	}

	drawnRows, err := s.st.ListDrawnNumbers(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	drawn := make([]int, 0, len(drawnRows))
	for _, r := range drawnRows {
		drawn = append(drawn, r.Number)
	}

	entries, err := s.st.ListEntriesByRound(ctx, round.ID)
	if err != nil {
		return nil, err
	}

	participants := make([]Participant, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		p, err := s.st.GetPlayer(ctx, e.PlayerID)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		if p.Deleted() {
			// 软删除玩家不出现在参与者列表
			continue
		}
		selected := model.ParseNumbers(e.Numbers)
		matches, _ := Evaluate(drawn, selected)
		participants = append(participants, Participant{
			PlayerID: e.PlayerID,
			Name:     p.Name,
			Numbers:  selected,
			Matches:  matches,
		})
	}
	sort.SliceStable(participants, func(i, j int) bool {
		if participants[i].Matches != participants[j].Matches {
			return participants[i].Matches > participants[j].Matches
		}
		return participants[i].Name < participants[j].Name
	})

	return &ParticipantsOutput{
		RoundID:      round.ID,
		Year:         round.Year,
		WeekNumber:   round.WeekNumber,
		DrawnNumbers: drawn,
		Participants: participants,
	}, nil
}

// History 已开奖回合的历史视图
// 同一事务内完成读取与历史 is_winner 回填（只从 0 翻为 1，幂等）
func (s *gameService) History(ctx context.Context, in HistoryInput) ([]HistoryRound, error) {
	take := clampTake(in.Take)

	var out []HistoryRound
	err := s.st.Atomically(ctx, func(tx store.Store) error {
		rounds, err := tx.ListDrawnRounds(ctx, take)
		if err != nil {
			return err
		}

		out = make([]HistoryRound, 0, len(rounds))
		players := map[string]*model.Player{}
		for i := range rounds {
			r := &rounds[i]
			drawnRows, err := tx.ListDrawnNumbers(ctx, r.ID)
			if err != nil {
				return err
			}
			drawn := make([]int, 0, len(drawnRows))
			for _, row := range drawnRows {
				drawn = append(drawn, row.Number)
			}

			entries, err := tx.ListEntriesByRound(ctx, r.ID)
			if err != nil {
				return err
			}

			hr := HistoryRound{
				RoundID:      r.ID,
				Year:         r.Year,
				WeekNumber:   r.WeekNumber,
				StartAt:      r.StartAt,
				EndAt:        r.EndAt,
				DrawnNumbers: drawn,
				Participants: len(entries),
			}

			for j := range entries {
				e := &entries[j]
				selected := model.ParseNumbers(e.Numbers)
				_, win := Evaluate(drawn, selected)
				if win && e.IsWinner == 0 {
					// 历史数据回填
					if err := tx.MarkEntryWinner(ctx, e.ID); err != nil {
						return err
					}
					e.IsWinner = 1
				}
				if e.IsWinner == 1 {
					hr.Winners++
					if in.ViewerRole == auth.RoleAdmin {
						p := players[e.PlayerID]
						if p == nil {
							p, err = tx.GetPlayer(ctx, e.PlayerID)
							if err != nil {
								if isNotFound(err) {
									continue
								}
								return err
							}
							players[e.PlayerID] = p
						}
						hr.WinnerDetails = append(hr.WinnerDetails, WinnerDetail{
							PlayerID: p.ID,
							Name:     p.Name,
							Email:    p.Email,
							Phone:    p.Phone,
							Numbers:  selected,
						})
					}
				}
				if in.ViewerRole == auth.RolePlayer && e.PlayerID == in.ViewerID {
					hr.MyEntries = append(hr.MyEntries, entryView(e))
				}
			}

			out = append(out, hr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
