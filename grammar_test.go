package cton

import (
	"math"
	"testing"
)

func TestIsSafeToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		s    string
		safe bool
	}{
		{"ana", true},
		{"spring_2025", true},
		{"a.b:c-d", true},
		{"", false},
		{"true", false},
		{"false", false},
		{"null", false},
		{"007", false},
		{"1e6", false},
		{"-5", false},
		{"-5.5", false},
		{"Blue Lake Trail", false},
		{"hello world", false},
		{"a(b)", false},
	}
	for _, tc := range cases {
		if got := isSafeToken(tc.s); got != tc.safe {
			t.Errorf("isSafeToken(%q) = %v, want %v", tc.s, got, tc.safe)
		}
	}
}

func TestIsValidKey(t *testing.T) {
	t.Parallel()

	for _, k := range []string{"a", "a_b", "a.b", "a:b", "a-b", "A1"} {
		if !isValidKey(k) {
			t.Errorf("isValidKey(%q) = false, want true", k)
		}
	}
	for _, k := range []string{"", "a b", "a=b", "a(b", "a\"b"} {
		if isValidKey(k) {
			t.Errorf("isValidKey(%q) = true, want false", k)
		}
	}
}

func TestFormatFloatFast(t *testing.T) {
	t.Parallel()

	cases := []struct {
		f    float64
		want string
	}{
		{1.0, "1"},
		{0.5, "0.5"},
		{math.Copysign(0, -1), "0"},
		{0.0, "0"},
		{320, "320"},
		{7.5, "7.5"},
		{1200000, "1200000"},
		{-1.5, "-1.5"},
	}
	for _, tc := range cases {
		got, err := formatFloat(tc.f, DecimalFast)
		if err != nil {
			t.Fatalf("formatFloat(%v) error: %v", tc.f, err)
		}
		if got != tc.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tc.f, got, tc.want)
		}
		if containsAny(got, "eE") {
			t.Errorf("formatFloat(%v) = %q, contains scientific notation", tc.f, got)
		}
		if len(got) > 0 && got[0] == '+' {
			t.Errorf("formatFloat(%v) = %q, has leading +", tc.f, got)
		}
	}
}

func TestFormatFloatPrecise(t *testing.T) {
	t.Parallel()

	got, err := formatFloat(1.2e6, DecimalPrecise)
	if err != nil {
		t.Fatal(err)
	}
	if got != "1200000" {
		t.Errorf("precise 1.2e6 = %q, want 1200000", got)
	}

	got, err = formatFloat(math.Copysign(0, -1), DecimalPrecise)
	if err != nil {
		t.Fatal(err)
	}
	if got != "0" {
		t.Errorf("precise -0.0 = %q, want 0", got)
	}
}

func containsAny(s, chars string) bool {
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(chars); j++ {
			if s[i] == chars[j] {
				return true
			}
		}
	}
	return false
}

func TestNormalizeDecimalText(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"+1.50":  "1.5",
		"-0.00":  "0",
		"0.0":    "0",
		"10.000": "10",
		"10.":    "10",
		"-3.250": "-3.25",
	}
	for in, want := range cases {
		if got := normalizeDecimalText(in); got != want {
			t.Errorf("normalizeDecimalText(%q) = %q, want %q", in, got, want)
		}
	}
}
