package state

import "testing"

func TestNextState(t *testing.T) {
	cases := []struct {
		cur, evt string
		next     string
		wantErr  bool
	}{
		{StatePending, EvtActivate, StateActive, false},
		{StateActive, EvtDeactivate, StatePending, false},
		{StateActive, EvtDraw, StateDrawn, false},

		{StatePending, EvtDraw, "", true},
		{StatePending, EvtDeactivate, "", true},
		{StateActive, EvtActivate, "", true},
		// drawn 为终态
		{StateDrawn, EvtActivate, "", true},
		{StateDrawn, EvtDeactivate, "", true},
		{StateDrawn, EvtDraw, "", true},
	}
	for _, c := range cases {
		next, err := NextState(c.cur, c.evt)
		if c.wantErr {
			if err == nil {
				t.Fatalf("NextState(%s, %s) expected error, got %s", c.cur, c.evt, next)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NextState(%s, %s): %v", c.cur, c.evt, err)
		}
		if next != c.next {
			t.Fatalf("NextState(%s, %s) = %s, want %s", c.cur, c.evt, next, c.next)
		}
	}
}

func TestNextFundState(t *testing.T) {
	cases := []struct {
		cur, evt string
		next     string
		wantErr  bool
	}{
		{"pending", EvtApprove, "approved", false},
		{"pending", EvtDeny, "denied", false},
		// 审批是单向的，已决的申请不可再变
		{"approved", EvtApprove, "", true},
		{"approved", EvtDeny, "", true},
		{"denied", EvtApprove, "", true},
		{"denied", EvtDeny, "", true},
		{"pending", EvtActivate, "", true},
	}
	for _, c := range cases {
		next, err := NextFundState(c.cur, c.evt)
		if c.wantErr {
			if err == nil {
				t.Fatalf("NextFundState(%s, %s) expected error, got %s", c.cur, c.evt, next)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NextFundState(%s, %s): %v", c.cur, c.evt, err)
		}
		if next != c.next {
			t.Fatalf("NextFundState(%s, %s) = %s, want %s", c.cur, c.evt, next, c.next)
		}
	}
}
