// Package roman converts between roman numerals and integers.
package roman

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/commedia/core/errors"
)

var values = map[rune]int{
	'I': 1,
	'V': 5,
	'X': 10,
	'L': 50,
	'C': 100,
	'D': 500,
	'M': 1000,
}

// ToInt converts a roman numeral to its integer value.
//
// Characters are scanned left to right. When a value exceeds the one before
// it, the previous value was already added once, so current - 2*previous is
// added instead of current. This handles subtractive pairs such as IV and
// CM without lookahead.
func ToInt(s string) (int, error) {
	if s == "" {
		return 0, &errors.ValidationError{
			Field:   "roman numeral",
			Message: "empty numeral",
			Err:     errors.ErrInvalidNumeral,
		}
	}

	sum, prev := 0, 0
	for _, c := range s {
		cur, ok := values[c]
		if !ok {
			return 0, &errors.ValidationError{
				Field:   "roman numeral",
				Value:   s,
				Message: fmt.Sprintf("unrecognized character %q in %q", c, s),
				Err:     errors.ErrInvalidNumeral,
			}
		}
		if cur > prev {
			sum += cur - 2*prev
		} else {
			sum += cur
		}
		prev = cur
	}

	if sum <= 0 {
		return 0, &errors.ValidationError{
			Field:   "roman numeral",
			Value:   s,
			Message: fmt.Sprintf("%q does not denote a positive integer", s),
			Err:     errors.ErrInvalidNumeral,
		}
	}
	return sum, nil
}

var symbols = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// FromInt renders n in canonical subtractive notation. n must be in 1..3999.
func FromInt(n int) (string, error) {
	if n < 1 || n > 3999 {
		return "", errors.NewValidation("roman numeral", fmt.Sprintf("%d is outside 1..3999", n))
	}
	var sb strings.Builder
	for _, s := range symbols {
		for n >= s.value {
			sb.WriteString(s.symbol)
			n -= s.value
		}
	}
	return sb.String(), nil
}
