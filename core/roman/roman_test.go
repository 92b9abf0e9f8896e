package roman

import (
	"errors"
	"testing"

	cerrors "github.com/FocuswithJustin/commedia/core/errors"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"I", 1},
		{"III", 3},
		{"IV", 4},
		{"IX", 9},
		{"XIV", 14},
		{"XIX", 19},
		{"XXXIV", 34},
		{"XL", 40},
		{"XC", 90},
		{"CD", 400},
		{"CM", 900},
		{"MCMXCIX", 1999},
		{"MMMCMXCIX", 3999},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ToInt(tt.input)
			if err != nil {
				t.Fatalf("ToInt(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ToInt(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestToIntInvalid(t *testing.T) {
	for _, input := range []string{"", "XIQ", "xiv", "X I", "12"} {
		t.Run(input, func(t *testing.T) {
			_, err := ToInt(input)
			if err == nil {
				t.Fatalf("ToInt(%q) should fail", input)
			}
			if !errors.Is(err, cerrors.ErrInvalidNumeral) {
				t.Errorf("ToInt(%q) error = %v, want ErrInvalidNumeral", input, err)
			}
		})
	}
}

func TestRoundTripAllCanonical(t *testing.T) {
	for n := 1; n <= 3999; n++ {
		numeral, err := FromInt(n)
		if err != nil {
			t.Fatalf("FromInt(%d) error: %v", n, err)
		}
		got, err := ToInt(numeral)
		if err != nil {
			t.Fatalf("ToInt(%q) error: %v", numeral, err)
		}
		if got != n {
			t.Fatalf("ToInt(FromInt(%d)) = %d (numeral %q)", n, got, numeral)
		}
	}
}

func TestFromIntOutOfRange(t *testing.T) {
	for _, n := range []int{0, -1, 4000} {
		if _, err := FromInt(n); err == nil {
			t.Errorf("FromInt(%d) should fail", n)
		}
	}
}
