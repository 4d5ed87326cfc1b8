package pass

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"lowpass", ModeLowpass},
		{"LP", ModeLowpass},
		{"highpass", ModeHighpass},
		{" bandpass ", ModeBandpass},
		{"bp", ModeBandpass},
	}

	for _, tc := range tests {
		got, err := ParseMode(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if back, _ := ParseMode(got.String()); back != got {
			t.Errorf("String round trip failed for %v", got)
		}
	}

	if _, err := ParseMode("notch"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestButterworth_Validation(t *testing.T) {
	for _, cutoff := range []float64{0, -0.1, 1, 1.5, math.NaN()} {
		if _, err := Butterworth(ModeLowpass, cutoff, 4); !errors.Is(err, ErrInvalidCutoff) {
			t.Errorf("cutoff %v: expected ErrInvalidCutoff, got %v", cutoff, err)
		}
	}

	for _, order := range []int{0, -1, MaxOrder + 1} {
		if _, err := Butterworth(ModeLowpass, 0.3, order); !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("order %d: expected ErrInvalidOrder, got %v", order, err)
		}
	}

	if _, err := Butterworth(Mode(42), 0.3, 4); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestButterworth_Modes(t *testing.T) {
	const cutoff = 0.4

	lp, err := Butterworth(ModeLowpass, cutoff, DefaultOrder)
	if err != nil {
		t.Fatalf("lowpass: %v", err)
	}
	if lp.Order() != 4 {
		t.Fatalf("lowpass order=%d", lp.Order())
	}
	if got := cmplx.Abs(lp.ResponseAt(0)); !almostEqual(got, 1, 1e-12) {
		t.Errorf("lowpass DC gain=%v", got)
	}
	if got := cmplx.Abs(lp.ResponseAt(math.Pi * cutoff)); !almostEqual(got, 1/math.Sqrt2, 1e-9) {
		t.Errorf("lowpass corner gain=%v", got)
	}

	hp, err := Butterworth(ModeHighpass, cutoff, DefaultOrder)
	if err != nil {
		t.Fatalf("highpass: %v", err)
	}
	if got := cmplx.Abs(hp.ResponseAt(math.Pi)); !almostEqual(got, 1, 1e-12) {
		t.Errorf("highpass Nyquist gain=%v", got)
	}

	bp, err := Butterworth(ModeBandpass, cutoff, DefaultOrder)
	if err != nil {
		t.Fatalf("bandpass: %v", err)
	}
	if bp.NumSections() != DefaultOrder {
		t.Fatalf("bandpass sections=%d", bp.NumSections())
	}
	if got := cmplx.Abs(bp.ResponseAt(math.Pi * cutoff / 2)); !almostEqual(got, 1/math.Sqrt2, 1e-9) {
		t.Errorf("bandpass lower edge gain=%v", got)
	}
	center := 2 * math.Atan(math.Sqrt(math.Tan(math.Pi*cutoff/4)*math.Tan(math.Pi*cutoff/2)))
	if got := cmplx.Abs(bp.ResponseAt(center)); !almostEqual(got, 1, 1e-12) {
		t.Errorf("bandpass center gain=%v", got)
	}
}

func TestButterworth_LowpassFiltFiltRemovesHighTone(t *testing.T) {
	chain, err := Butterworth(ModeLowpass, 0.1, DefaultOrder)
	if err != nil {
		t.Fatal(err)
	}

	const n = 1000
	x := make([]float64, n)
	want := make([]float64, n)
	for i := range x {
		slow := math.Sin(2 * math.Pi * 0.005 * float64(i))
		fast := 0.5 * math.Sin(2*math.Pi*0.4*float64(i))
		x[i] = slow + fast
		want[i] = slow
	}

	y := chain.FiltFilt(x)
	for i := 200; i < 800; i++ {
		if math.Abs(y[i]-want[i]) > 1e-3 {
			t.Fatalf("sample %d: got %v, want %v", i, y[i], want[i])
		}
	}
}
