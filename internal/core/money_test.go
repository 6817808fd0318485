package core_test

import (
	"testing"

	"pdv/internal/core"
)

func TestCents_String(t *testing.T) {
	tests := []struct {
		in   core.Cents
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1050, "10.50"},
		{-250, "-2.50"},
		{123456789, "1234567.89"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Cents(%d).String() = %q, want %q", int64(tt.in), got, tt.want)
		}
	}
}

func TestSumCents(t *testing.T) {
	if got := core.SumCents(); got != 0 {
		t.Errorf("empty sum: got %d", got)
	}
	if got := core.SumCents(100, 250, -50); got != 300 {
		t.Errorf("got %d", got)
	}
}

func TestAverageCents(t *testing.T) {
	tests := []struct {
		sum   core.Cents
		count int
		want  string
	}{
		{0, 0, "0"},
		{1000, 0, "0"},
		{1000, 4, "250"},
		{1000, 3, "333.33"},
		{2000, 3, "666.67"},
	}
	for _, tt := range tests {
		if got := core.AverageCents(tt.sum, tt.count).String(); got != tt.want {
			t.Errorf("AverageCents(%d, %d) = %s, want %s", tt.sum, tt.count, got, tt.want)
		}
	}
}

func TestParseCents(t *testing.T) {
	tests := []struct {
		in        string
		want      core.Cents
		expectErr bool
	}{
		{"12.50", 1250, false},
		{"12,50", 1250, false},
		{" 7 ", 700, false},
		{"0.05", 5, false},
		{"-3.10", -310, false},
		{"1.005", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := core.ParseCents(tt.in)
		if tt.expectErr {
			if err == nil {
				t.Errorf("ParseCents(%q): expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseCents(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}
