package numfmt

import (
	"math"
	"testing"

	"golang.org/x/text/language"
)

func TestResult(t *testing.T) {
	tests := []struct {
		in   float64
		tag  language.Tag
		want string
	}{
		{1234567, language.AmericanEnglish, "1,234,567"},
		{1234.56789, language.AmericanEnglish, "1,234.568"},
		{1.5e10, language.AmericanEnglish, "1.500e+10"},
		{0.0001, language.AmericanEnglish, "1.000e-4"},
		{0, language.AmericanEnglish, "0"},
		{-2500.5, language.AmericanEnglish, "-2,500.5"},
		{15, language.AmericanEnglish, "15"},
		{999999999, language.AmericanEnglish, "999,999,999"},
		{1234.5, language.German, "1.234,5"},
	}
	for _, tt := range tests {
		if got := Result(tt.in, tt.tag); got != tt.want {
			t.Errorf("Result(%v, %s) = %q, want %q", tt.in, tt.tag, got, tt.want)
		}
	}
}

func TestDisplay(t *testing.T) {
	a, b := 0.1, 0.2
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{15, "15"},
		{a + b, "0.30000000000000004"},
		{-2.5, "-2.5"},
		{1e21, "1e+21"},
		{123456789012, "123456789012"},
		{1e-7, "1e-7"},
		{0.000001, "0.000001"},
		{math.Inf(1), "Infinity"},
	}
	for _, tt := range tests {
		if got := Display(tt.in); got != tt.want {
			t.Errorf("Display(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExponential(t *testing.T) {
	tests := []struct {
		in     float64
		digits int
		want   string
	}{
		{1234567890123, 6, "1.234568e+12"},
		{0, 3, "0.000e+0"},
		{-0.00042, 3, "-4.200e-4"},
	}
	for _, tt := range tests {
		if got := Exponential(tt.in, tt.digits); got != tt.want {
			t.Errorf("Exponential(%v, %d) = %q, want %q", tt.in, tt.digits, got, tt.want)
		}
	}
}
