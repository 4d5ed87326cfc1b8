package pcm

import (
	"errors"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		code LineCode
		in   []float64
		want []float64
	}{
		{"unipolar", Unipolar, []float64{-1, 0, 1, 0.5}, []float64{0, 0.5, 1, 0.75}},
		{"polar nrz", PolarNRZ, []float64{-1, 0, 1, 0.5}, []float64{-1, 0, 1, 0.5}},
		{"bipolar rz runs", BipolarRZ, []float64{0.5, 0.5, -0.5, -0.5}, []float64{1, -1, -1, 1}},
		{"bipolar rz zero", BipolarRZ, []float64{0, 0.2, 0, -0.2, 0}, []float64{0, -1, 0, 1, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Encode(tc.in, tc.code)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("len=%d, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestEncode_PureAndRepeatable(t *testing.T) {
	in := []float64{0.5, -0.5, 0.5}
	a, _ := Encode(in, BipolarRZ)
	b, _ := Encode(in, BipolarRZ)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic output at %d", i)
		}
	}
	if in[0] != 0.5 || in[1] != -0.5 {
		t.Fatalf("input modified: %v", in)
	}

	polar, _ := Encode(in, PolarNRZ)
	polar[0] = 99
	if in[0] != 0.5 {
		t.Fatal("PolarNRZ output aliases input")
	}
}

func TestEncode_UnknownCode(t *testing.T) {
	if _, err := Encode([]float64{1}, LineCode(7)); !errors.Is(err, ErrUnknownLineCode) {
		t.Fatalf("expected ErrUnknownLineCode, got %v", err)
	}
}

func TestParseLineCode(t *testing.T) {
	tests := map[string]LineCode{
		"unipolar":   Unipolar,
		"Unipolar":   Unipolar,
		"polar-nrz":  PolarNRZ,
		"Polar NRZ":  PolarNRZ,
		"bipolar_rz": BipolarRZ,
		"Bipolar RZ": BipolarRZ,
	}

	for in, want := range tests {
		got, err := ParseLineCode(in)
		if err != nil || got != want {
			t.Errorf("ParseLineCode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	for _, c := range []LineCode{Unipolar, PolarNRZ, BipolarRZ} {
		if got, _ := ParseLineCode(c.String()); got != c {
			t.Errorf("round trip failed for %v", c)
		}
	}

	if _, err := ParseLineCode("manchester"); !errors.Is(err, ErrUnknownLineCode) {
		t.Fatalf("expected ErrUnknownLineCode, got %v", err)
	}
}
