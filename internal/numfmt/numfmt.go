// Package numfmt renders calculator numbers the way the display and the
// revealed card show them.
package numfmt

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Display returns the shortest decimal form of v, switching to exponent
// notation at 1e21 and below 1e-6.
func Display(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	a := math.Abs(v)
	if a >= 1e21 || a < 1e-6 {
		return trimExponent(strconv.FormatFloat(v, 'e', -1, 64))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Exponential formats v with digits fraction digits and an unpadded exponent,
// as in 1.500e+10 or 1.000e-4.
func Exponential(v float64, digits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Display(v)
	}
	if digits < 0 {
		digits = 0
	}
	return trimExponent(strconv.FormatFloat(v, 'e', digits, 64))
}

// Result formats a revealed result: exponent notation for very large or very
// small magnitudes, locale grouping with up to three fraction digits
// otherwise.
func Result(v float64, tag language.Tag) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Display(v)
	}
	a := math.Abs(v)
	if a > 999999999 || (a > 0 && a < 0.001) {
		return Exponential(v, 3)
	}
	r := math.Round(v*1e8) / 1e8
	if r == 0 {
		r = 0
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("%v", number.Decimal(r, number.MaxFractionDigits(3)))
}

func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	mant, sign, exp := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + string(sign) + exp
}
