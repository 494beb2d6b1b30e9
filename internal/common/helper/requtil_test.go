package helper

import (
	"strings"
	"testing"
)

func TestIsMoneyFormat(t *testing.T) {
	valid := []string{"0", "1", "100", "20.5", "160.00", " 250.00 "}
	for _, s := range valid {
		if !IsMoneyFormat(s) {
			t.Fatalf("IsMoneyFormat(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "-5", "1.234", "01", "1,00", "abc", "1."}
	for _, s := range invalid {
		if IsMoneyFormat(s) {
			t.Fatalf("IsMoneyFormat(%q) = true, want false", s)
		}
	}
}

func TestIsEmailFormat(t *testing.T) {
	valid := []string{"alice@example.com", "a.b+c@sub.example.dk", " ops@example.com "}
	for _, s := range valid {
		if !IsEmailFormat(s) {
			t.Fatalf("IsEmailFormat(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "alice", "alice@", "@example.com", "a b@example.com", "alice@example"}
	for _, s := range invalid {
		if IsEmailFormat(s) {
			t.Fatalf("IsEmailFormat(%q) = true, want false", s)
		}
	}
	// 超长邮箱拒绝
	long := strings.Repeat("a", 250) + "@b.com"
	if IsEmailFormat(long) {
		t.Fatalf("IsEmailFormat(overlong) = true, want false")
	}
}

func TestIsJSONContentType(t *testing.T) {
	cases := []struct {
		ct   string
		want bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"APPLICATION/JSON", true},
		{"application/x-www-form-urlencoded", false},
		{"text/plain", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsJSONContentType(c.ct); got != c.want {
			t.Fatalf("IsJSONContentType(%q) = %v, want %v", c.ct, got, c.want)
		}
	}
}

func TestParseIntList(t *testing.T) {
	if got, ok := parseIntList("3, 7 ,12"); !ok || len(got) != 3 || got[0] != 3 || got[2] != 12 {
		t.Fatalf("parseIntList = %v, %v", got, ok)
	}
	for _, s := range []string{"", "1,x,3", "1,,3"} {
		if _, ok := parseIntList(s); ok {
			t.Fatalf("parseIntList(%q) ok = true, want false", s)
		}
	}
}

func TestValidateEntryDefaultsRepeatWeeks(t *testing.T) {
	in := EntryParsed{Numbers: []int{1, 2, 3, 4, 5}}
	if ok, msg := ValidateEntry(&in); !ok {
		t.Fatalf("ValidateEntry: %s", msg)
	}
	if in.RepeatWeeks != 1 {
		t.Fatalf("RepeatWeeks default = %d, want 1", in.RepeatWeeks)
	}

	bad := EntryParsed{}
	if ok, _ := ValidateEntry(&bad); ok {
		t.Fatalf("ValidateEntry with no numbers must fail")
	}
}
