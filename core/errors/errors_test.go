package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "canto", ID: "inferno.35"},
			wantMsg:  "canto not found: inferno.35",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "canticle"},
			wantMsg:  "canticle not found",
			wantBase: ErrNotFound,
		},
		{
			name:     "missing reference",
			err:      NewMissingReference("word text", "inferno.1.1.3"),
			wantMsg:  "word text not found: inferno.1.1.3",
			wantBase: ErrMissingReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ValidationError
		wantMsg string
	}{
		{
			name:    "with field",
			err:     &ValidationError{Field: "canticles", Message: "must not be empty"},
			wantMsg: "validation failed for canticles: must not be empty",
		},
		{
			name:    "without field",
			err:     &ValidationError{Message: "invalid format"},
			wantMsg: "validation failed: invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrInvalidInput) {
				t.Errorf("expected %v to wrap ErrInvalidInput", tt.err)
			}
		})
	}
}

func TestIOError(t *testing.T) {
	base := fmt.Errorf("no such file")
	err := NewIO("open", "../text/inferno_syllnew.txt", base)
	if got, want := err.Error(), "failed to open ../text/inferno_syllnew.txt: no such file"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if err.Unwrap() != base {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), base)
	}

	noPath := &IOError{Operation: "write", Err: base}
	if got, want := noPath.Error(), "failed to write: no such file"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ParseError
		wantMsg string
	}{
		{
			name:    "path and line",
			err:     &ParseError{Format: "canticle", Path: "inferno.txt", Line: 12, Message: "no digits"},
			wantMsg: "failed to parse canticle at inferno.txt:12: no digits",
		},
		{
			name:    "path only",
			err:     &ParseError{Format: "JSON", Path: "rhymes.json", Message: "unexpected EOF"},
			wantMsg: "failed to parse JSON at rhymes.json: unexpected EOF",
		},
		{
			name:    "line only",
			err:     &ParseError{Format: "heading", Line: 3, Message: "bad token"},
			wantMsg: "failed to parse heading at line 3: bad token",
		},
		{
			name:    "neither",
			err:     NewParse("reference", "", "empty"),
			wantMsg: "failed to parse reference: empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrInvalidInput) {
				t.Errorf("expected %v to wrap ErrInvalidInput", tt.err)
			}
		})
	}
}

func TestDomainSentinels(t *testing.T) {
	tests := []struct {
		err  error
		base error
	}{
		{ErrInvalidNumeral, ErrInvalidInput},
		{ErrMalformedLine, ErrInvalidInput},
		{ErrMissingReference, ErrNotFound},
		{ErrMissingInput, ErrNotFound},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.base) {
			t.Errorf("%v should wrap %v", tt.err, tt.base)
		}
	}

	err := &ParseError{Format: "canticle", Message: "no digits", Err: ErrMalformedLine}
	if !Is(err, ErrMalformedLine) || !Is(err, ErrInvalidInput) {
		t.Errorf("ParseError should match both ErrMalformedLine and ErrInvalidInput")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	base := errors.New("boom")
	err := Wrap(base, "parsing inferno")
	if got, want := err.Error(), "parsing inferno: boom"; got != want {
		t.Errorf("Wrap() = %q, want %q", got, want)
	}
	if !errors.Is(err, base) {
		t.Error("Wrap should preserve the chain")
	}
}

func TestWrapf(t *testing.T) {
	if Wrapf(nil, "canto %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}
	base := errors.New("boom")
	err := Wrapf(base, "canto %d", 7)
	if got, want := err.Error(), "canto 7: boom"; got != want {
		t.Errorf("Wrapf() = %q, want %q", got, want)
	}
}

func TestAs(t *testing.T) {
	err := Wrap(NewNotFound("line", "inferno.1.200"), "lookup")
	var nf *NotFoundError
	if !As(err, &nf) {
		t.Fatal("As should find the NotFoundError")
	}
	if nf.ID != "inferno.1.200" {
		t.Errorf("ID = %q, want %q", nf.ID, "inferno.1.200")
	}
}
