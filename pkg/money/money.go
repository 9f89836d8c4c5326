// Package money handles monetary amounts as int64 cents.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid_amount")

// Round converts a fractional cent value to whole cents,
// rounding halves away from zero.
func Round(v float64) int64 {
	return int64(math.Round(v))
}

// Percent applies pct (0-100) to an amount in cents and rounds.
func Percent(amount int64, pct float64) int64 {
	return Round(float64(amount) * pct / 100.0)
}

// ApplyRate applies a fractional rate (e.g. 0.18) to an amount in cents and rounds.
func ApplyRate(amount int64, rate float64) int64 {
	return Round(float64(amount) * rate)
}

// Parse converts a decimal string such as "4.50" into cents without
// going through floating point. At most two fraction digits are accepted.
func Parse(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" {
		return 0, ErrInvalidAmount
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, ErrInvalidAmount
	}
	if len(frac) > 2 {
		return 0, ErrInvalidAmount
	}

	var cents int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
		cents = cents*10 + int64(r-'0')
	}
	cents *= 100

	frac = frac + strings.Repeat("0", 2-len(frac))
	for i, r := range frac {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
		if i == 0 {
			cents += int64(r-'0') * 10
		} else {
			cents += int64(r - '0')
		}
	}

	if negative {
		cents = -cents
	}
	return cents, nil
}

// Format renders cents as a plain two-decimal string, e.g. 1280 -> "12.80".
func Format(amount int64) string {
	return fmt.Sprintf("%.2f", float64(amount)/100.0)
}
