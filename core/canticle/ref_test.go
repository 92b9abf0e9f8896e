package canticle

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	cerrors "github.com/FocuswithJustin/commedia/core/errors"
)

func TestParseHeading(t *testing.T) {
	tests := []struct {
		input string
		want  *Heading
	}{
		{"Inferno • Canto I", &Heading{Canticle: "Inferno", Numeral: "I", Canto: 1}},
		{"Purgatorio • Canto XXXIII  ", &Heading{Canticle: "Purgatorio", Numeral: "XXXIII", Canto: 33}},
		{"Paradiso • Canto XIV", &Heading{Canticle: "Paradiso", Numeral: "XIV", Canto: 14}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHeading(tt.input)
			if err != nil {
				t.Fatalf("ParseHeading(%q) error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseHeading mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseHeadingErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr error
	}{
		{"Inferno • Canto", cerrors.ErrMalformedLine},
		{"Inferno Canto IV", cerrors.ErrMalformedLine},
		{"Inferno • Canto 4", cerrors.ErrMalformedLine},
		{"Inferno • Canto IIJ", cerrors.ErrInvalidNumeral},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseHeading(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseHeading(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		input string
		want  *Ref
	}{
		{"Inferno", &Ref{Canticle: Inferno}},
		{"inferno.1", &Ref{Canticle: Inferno, Canto: 1}},
		{"Inferno.XXXIV.139", &Ref{Canticle: Inferno, Canto: 34, Line: 139}},
		{"Purgatorio.I.1", &Ref{Canticle: Purgatorio, Canto: 1, Line: 1}},
		{"Paradiso.33.145.2", &Ref{Canticle: Paradiso, Canto: 33, Line: 145, Word: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRef(tt.input)
			if err != nil {
				t.Fatalf("ParseRef(%q) error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseRef mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRefErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr error
	}{
		{"", cerrors.ErrInvalidInput},
		{"Limbo.1", cerrors.ErrNotFound},
		{"Inferno..1", cerrors.ErrInvalidInput},
		{"Inferno.1.x", cerrors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseRef(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseRef(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestRefString(t *testing.T) {
	tests := []struct {
		ref  *Ref
		want string
	}{
		{&Ref{Canticle: Inferno}, "Inferno"},
		{&Ref{Canticle: Inferno, Canto: 3}, "Inferno.3"},
		{&Ref{Canticle: Paradiso, Canto: 33, Line: 145, Word: 2}, "Paradiso.33.145.2"},
	}
	for _, tt := range tests {
		if got := tt.ref.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFind(t *testing.T) {
	c, err := Parse(Inferno, strings.NewReader(sampleInferno))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	canticles := []*Canticle{c}

	m, err := Find(canticles, &Ref{Canticle: Inferno, Canto: 2, Line: 10, Word: 1})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if m.Canto.Number != 2 || m.Line.Number != 10 || m.Word != 1 {
		t.Errorf("Find returned canto %d line %d word %d", m.Canto.Number, m.Line.Number, m.Word)
	}

	m, err = Find(canticles, &Ref{Canticle: Inferno, Canto: 1})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if m.Line != nil {
		t.Error("canto-level match should not carry a line")
	}

	misses := []*Ref{
		{Canticle: Paradiso},
		{Canticle: Inferno, Canto: 9},
		{Canticle: Inferno, Canto: 1, Line: 4},
		{Canticle: Inferno, Canto: 1, Line: 1, Word: 8},
	}
	for _, ref := range misses {
		if _, err := Find(canticles, ref); !errors.Is(err, cerrors.ErrNotFound) {
			t.Errorf("Find(%s) error = %v, want ErrNotFound", ref, err)
		}
	}
}
