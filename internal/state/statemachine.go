package state

import "fmt"

// 回合状态
const (
	StatePending = "pending" // 已排期未激活
	StateActive  = "active"  // 接受参与
	StateDrawn   = "drawn"   // 已开奖（终态）
)

// 回合事件
const (
	EvtActivate   = "activate"
	EvtDeactivate = "deactivate"
	EvtDraw       = "draw"
)

// NextState 根据当前回合状态与事件计算下一个状态，非法转换报错
// drawn 为终态，任何事件都不可离开
func NextState(cur, evt string) (string, error) {
	switch cur {
	case StatePending:
		if evt == EvtActivate {
			return StateActive, nil
		}
	case StateActive:
		switch evt {
		case EvtDeactivate:
			return StatePending, nil
		case EvtDraw:
			return StateDrawn, nil
		}
	}
	return cur, fmt.Errorf("invalid transition: %s --%s--> ?", cur, evt)
}

// 充值申请事件
const (
	EvtApprove = "approve"
	EvtDeny    = "deny"
)

// NextFundState 充值申请状态机：pending 单向进入 approved/denied
func NextFundState(cur, evt string) (string, error) {
	if cur == "pending" {
		switch evt {
		case EvtApprove:
			return "approved", nil
		case EvtDeny:
			return "denied", nil
		}
	}
	return cur, fmt.Errorf("invalid transition: %s --%s--> ?", cur, evt)
}
