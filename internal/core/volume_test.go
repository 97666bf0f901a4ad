package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseVolume(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"120", "120"},
		{"120.5", "120.5"},
		{"1234,5", "1234.5"},
		{"1.234,5", "1234.5"},
		{" 42 ", "42"},
		{"", "0"},
		{"n/a", "0"},
		{"-", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			want, _ := decimal.NewFromString(tc.want)
			if got := ParseVolume(tc.in); !got.Equal(want) {
				t.Fatalf("ParseVolume(%q) = %s, want %s", tc.in, got, want)
			}
		})
	}
}

func TestRoundVolume(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"0.4", 0},
		{"0.5", 1},
		{"149.9", 150},
		{"150.1", 150},
	}
	for _, tc := range cases {
		d, _ := decimal.NewFromString(tc.in)
		if got := RoundVolume(d); got != tc.want {
			t.Fatalf("RoundVolume(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatVolume(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1.000"},
		{1234567, "1.234.567"},
		{-1500, "-1.500"},
	}
	for _, tc := range cases {
		if got := FormatVolume(tc.in); got != tc.want {
			t.Fatalf("FormatVolume(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
