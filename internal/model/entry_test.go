package model

import (
	"reflect"
	"testing"
)

func TestNormalizeNumbers(t *testing.T) {
	cases := []struct {
		name    string
		in      []int
		want    []int
		wantErr bool
	}{
		{"五个号码升序返回", []int{16, 3, 9, 1, 7}, []int{1, 3, 7, 9, 16}, false},
		{"八个号码合法", []int{1, 2, 3, 4, 5, 6, 7, 8}, []int{1, 2, 3, 4, 5, 6, 7, 8}, false},
		{"少于五个", []int{1, 2, 3, 4}, nil, true},
		{"多于八个", []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, nil, true},
		{"号码越界下限", []int{0, 2, 3, 4, 5}, nil, true},
		{"号码越界上限", []int{1, 2, 3, 4, 17}, nil, true},
		{"重复号码拒绝", []int{1, 2, 3, 4, 4}, nil, true},
	}
	for _, c := range cases {
		got, err := NormalizeNumbers(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("%s: NormalizeNumbers(%v) expected error", c.name, c.in)
			}
			if _, ok := err.(*ValidationError); !ok {
				t.Fatalf("%s: error type = %T, want *ValidationError", c.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: NormalizeNumbers(%v): %v", c.name, c.in, err)
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("%s: NormalizeNumbers(%v) = %v, want %v", c.name, c.in, got, c.want)
		}
	}
}

func TestNormalizeNumbersDoesNotMutateInput(t *testing.T) {
	in := []int{8, 5, 6, 7, 9}
	if _, err := NormalizeNumbers(in); err != nil {
		t.Fatalf("NormalizeNumbers: %v", err)
	}
	if !reflect.DeepEqual(in, []int{8, 5, 6, 7, 9}) {
		t.Fatalf("input slice mutated: %v", in)
	}
}

func TestPriceForCount(t *testing.T) {
	cases := []struct {
		count int
		price int64
		ok    bool
	}{
		{5, 20, true},
		{6, 40, true},
		{7, 80, true},
		{8, 160, true},
		{4, 0, false},
		{9, 0, false},
		{0, 0, false},
	}
	for _, c := range cases {
		p, ok := PriceForCount(c.count)
		if ok != c.ok {
			t.Fatalf("PriceForCount(%d) ok = %v, want %v", c.count, ok, c.ok)
		}
		if ok && !p.Equal(p.Truncate(0)) {
			t.Fatalf("PriceForCount(%d) = %s, expected whole DKK", c.count, p)
		}
		if ok && p.IntPart() != c.price {
			t.Fatalf("PriceForCount(%d) = %s, want %d", c.count, p, c.price)
		}
	}
}

func TestJoinAndParseNumbers(t *testing.T) {
	if got := JoinNumbers([]int{1, 5, 9, 12, 16}); got != "1,5,9,12,16" {
		t.Fatalf("JoinNumbers = %q", got)
	}
	if got := ParseNumbers("1,5,9,12,16"); !reflect.DeepEqual(got, []int{1, 5, 9, 12, 16}) {
		t.Fatalf("ParseNumbers = %v", got)
	}
	// 脏片段跳过、空串为空
	if got := ParseNumbers("1, x ,3"); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("ParseNumbers with dirty segment = %v", got)
	}
	if got := ParseNumbers("  "); got != nil {
		t.Fatalf("ParseNumbers(blank) = %v, want nil", got)
	}
}
