package logger

import "testing"

func TestRatioSamplerAllowsConfiguredShare(t *testing.T) {
	s := newRatioSampler(1, 4)
	allowed := 0
	for i := 0; i < 40; i++ {
		if s.Allow() {
			allowed++
		}
	}
	if allowed != 10 {
		t.Fatalf("allowed = %d, want 10", allowed)
	}
}

func TestRatioSamplerDisabledPassesAll(t *testing.T) {
	s := newRatioSampler(0, 0)
	for i := 0; i < 5; i++ {
		if !s.Allow() {
			t.Fatal("disabled sampler blocked an event")
		}
	}
}

func TestRatioSamplerClampsNumerator(t *testing.T) {
	s := newRatioSampler(10, 2)
	for i := 0; i < 6; i++ {
		if !s.Allow() {
			t.Fatal("clamped sampler should allow all")
		}
	}
}

func TestParseRatioSpec(t *testing.T) {
	cases := []struct {
		in       string
		num, den int
	}{
		{"", 0, 0},
		{"50", 1, 50},
		{"1/50", 1, 50},
		{" 2 / 5 ", 2, 5},
		{"0", 0, 0},
		{"-3", 0, 0},
		{"abc", 0, 0},
	}
	for _, c := range cases {
		num, den := parseRatioSpec(c.in)
		if num != c.num || den != c.den {
			t.Fatalf("parseRatioSpec(%q) = %d/%d, want %d/%d", c.in, num, den, c.num, c.den)
		}
	}
}
