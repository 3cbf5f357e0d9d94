package tasks

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusIdle, StatusProcessing, true},
		{StatusIdle, StatusFailed, true},
		{StatusIdle, StatusFinished, false},
		{StatusProcessing, StatusFinished, true},
		{StatusProcessing, StatusFailed, true},
		{StatusProcessing, StatusUnknown, true},
		{StatusProcessing, StatusIdle, false},
		{StatusFinished, StatusProcessing, false},
		{StatusFailed, StatusIdle, false},
		{StatusUnknown, StatusFinished, false},
		{StatusIdle, StatusIdle, false},
		{Status("bogus"), StatusProcessing, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusIdle.Terminal() || StatusProcessing.Terminal() {
		t.Fatalf("idle/processing must not be terminal")
	}
	for _, s := range []Status{StatusFinished, StatusFailed, StatusUnknown} {
		if !s.Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
}
