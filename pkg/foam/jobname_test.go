package foam

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestTrimZeros(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0, want: 0},
		{in: 1, want: 1},
		{in: 2, want: 2},
		{in: 0.5, want: 5},
		{in: 0.25, want: 2.5},
		{in: 0.0012345, want: 1.2345},
		{in: 123.45, want: 1.2345},
	}
	for _, tt := range tests {
		got := trimZeros(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("trimZeros(%g) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

func TestStringifyTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0000"},
		{in: 1, want: "1000"},
		{in: 0.5, want: "5000"},
		{in: 0.25, want: "2500"},
		{in: 12.5, want: "1250"},
		{in: 0.0012345, want: "1234"},
	}
	for _, tt := range tests {
		if got := stringifyTime(tt.in); got != tt.want {
			t.Errorf("stringifyTime(%g) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJobName(t *testing.T) {
	uid := uuid.MustParse("00010203-0405-0607-0809-0a0b0c0d0e0f")
	got := JobName(2, 0.25, 0.5, uid, 7)
	want := "2-2500-5000-7-000102030405060708090a0b0c0d0e0f"
	if got != want {
		t.Errorf("JobName() = %q, want %q", got, want)
	}
}

func TestJobNameDistinctPerUUID(t *testing.T) {
	a := JobName(1, 0, 0.5, uuid.New(), 3)
	b := JobName(1, 0, 0.5, uuid.New(), 3)
	if a == b {
		t.Errorf("identical windows produced identical names: %q", a)
	}
}
