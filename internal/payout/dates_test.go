package payout

import "testing"

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"slash short", "2/7/2025", "2/7/2025", true},
		{"slash padded", "02/07/2025", "2/7/2025", true},
		{"iso", "2025-02-07", "2/7/2025", true},
		{"iso december", "2025-12-31", "12/31/2025", true},
		{"long form", "March 5, 2025", "3/5/2025", true},
		{"dotted", "07.02.2025", "2/7/2025", true},
		{"with spaces", "  2/7/2025  ", "2/7/2025", true},
		{"day overflow", "2/30/2025", "", false},
		{"iso day overflow", "2025-02-30", "", false},
		{"month overflow", "13/1/2025", "", false},
		{"zero day", "1/0/2025", "", false},
		{"garbage", "hello", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeDate(tc.input)
			if ok != tc.ok {
				t.Fatalf("NormalizeDate(%q): expected ok=%v got %v", tc.input, tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("NormalizeDate(%q): expected %q got %q", tc.input, tc.want, got)
			}
		})
	}
}

func TestNormalizeDateFixedPoint(t *testing.T) {
	inputs := []string{"2/7/2025", "02/07/2025", "2025-02-07", "12/31/2025", "1/1/2000"}

	for _, input := range inputs {
		first, ok := NormalizeDate(input)
		if !ok {
			t.Fatalf("expected %q to normalize", input)
		}

		second, ok := NormalizeDate(first)
		if !ok || second != first {
			t.Fatalf("normalization of %q is not a fixed point: %q -> %q", input, first, second)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"100", 100, true},
		{" 42 ", 42, true},
		{"1", 1, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
		{"3.5", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseAmount(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseAmount(%q): expected (%d, %v) got (%d, %v)", tc.input, tc.want, tc.ok, got, ok)
		}
	}
}
