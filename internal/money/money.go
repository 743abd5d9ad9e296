// Package money enforces the integer-paise convention: all monetary
// values are int64 minor units, and anything fractional, non-finite or
// outside safe bounds is a data-integrity error rather than a rounding
// event.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paisawise/transaction-intelligence/internal/models"
)

var ErrInvalidAmount = errors.New("invalid monetary amount")

// MaxSafePaise bounds amounts to values that survive a round-trip through
// a float64 mantissa, since upstream producers exchange amounts as JSON
// numbers.
const MaxSafePaise = int64(1)<<53 - 1

// Validate checks a raw inbound amount before any arithmetic is trusted.
// The id is included in the error so callers can report which record
// breached the contract.
func Validate(id string, amount float64) error {
	if math.IsNaN(amount) {
		return fmt.Errorf("transaction %s: amount is NaN: %w", orUnknown(id), ErrInvalidAmount)
	}
	if math.IsInf(amount, 0) {
		return fmt.Errorf("transaction %s: amount is not finite: %w", orUnknown(id), ErrInvalidAmount)
	}
	if amount != math.Trunc(amount) {
		return fmt.Errorf("transaction %s: amount %v has fractional paise: %w", orUnknown(id), amount, ErrInvalidAmount)
	}
	if math.Abs(amount) > float64(MaxSafePaise) {
		return fmt.Errorf("transaction %s: amount %v exceeds safe integer bounds: %w", orUnknown(id), amount, ErrInvalidAmount)
	}
	return nil
}

// ValidateTransaction applies the integrity contract to a stored record.
func ValidateTransaction(t models.Transaction) error {
	if t.Amount < 0 {
		return fmt.Errorf("transaction %s: amount %d is negative, direction belongs in type: %w", orUnknown(t.ID), t.Amount, ErrInvalidAmount)
	}
	if t.Amount > MaxSafePaise {
		return fmt.Errorf("transaction %s: amount %d exceeds safe integer bounds: %w", orUnknown(t.ID), t.Amount, ErrInvalidAmount)
	}
	return nil
}

// Round converts a possibly fractional paise value to an integer, rounding
// half away from zero. A half-paise rounds up.
func Round(amount float64) int64 {
	return int64(math.Round(amount))
}

// SafeAdd combines two paise values with round-then-add semantics, so
// float drift from upstream never accumulates into totals.
func SafeAdd(a, b float64) int64 {
	return Round(a) + Round(b)
}

// SafeSubtract combines two paise values with round-then-subtract semantics.
func SafeSubtract(a, b float64) int64 {
	return Round(a) - Round(b)
}

// ParsePaise converts a 2-decimal monetary string like "1,234.50" to exact
// integer paise. The conversion is pure integer arithmetic; no float is
// involved, so there is no rounding drift.
func ParsePaise(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, fmt.Errorf("ParsePaise: empty amount: %w", ErrInvalidAmount)
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac, ok := strings.Cut(s, ".")
	if !ok || len(frac) != 2 {
		return 0, fmt.Errorf("ParsePaise: %q is not a 2-decimal amount: %w", s, ErrInvalidAmount)
	}

	rupees, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ParsePaise: bad whole part %q: %w", whole, ErrInvalidAmount)
	}
	paise, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ParsePaise: bad fractional part %q: %w", frac, ErrInvalidAmount)
	}

	// Bound before multiplying, or rupees*100 wraps int64 and a garbage
	// token comes back as a plausible in-range value with a nil error.
	if rupees > MaxSafePaise/100 || rupees*100 > MaxSafePaise-paise {
		return 0, fmt.Errorf("ParsePaise: %q exceeds safe integer bounds: %w", s, ErrInvalidAmount)
	}

	total := rupees*100 + paise
	if neg {
		total = -total
	}
	return total, nil
}

func orUnknown(id string) string {
	if id == "" {
		return "(unsaved)"
	}
	return id
}
