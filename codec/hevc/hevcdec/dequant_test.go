package hevcdec

import "testing"

func TestDequantScaleShiftNeverNegativeShift(t *testing.T) {
	for qp := 0; qp <= 51; qp++ {
		for _, bd := range []int{8, 10} {
			for _, log2 := range []int{2, 3, 4, 5} {
				_, shift := dequantScaleShift(qp, bd, log2)
				if shift < 0 {
					t.Errorf("dequantScaleShift(%d, %d, %d) shift = %d, want >= 0", qp, bd, log2, shift)
				}
			}
		}
	}
}

// TestBypassDequantIsIdentity checks that the (scale, shift) pair used for
// cu_transquant_bypass_flag blocks, paired with flatScaleMatrix1, reduces
// dequantCoeff to the identity transform for a range of levels.
func TestBypassDequantIsIdentity(t *testing.T) {
	scale, shift := bypassScaleShift()
	for _, level := range []int{-1000, -1, 0, 1, 255, 1000} {
		got := dequantCoeff(level, scale, flatScaleMatrix1, shift)
		if int(got) != level {
			t.Errorf("dequantCoeff(%d, bypass) = %d, want %d (identity)", level, got, level)
		}
	}
}

// TestDequantCoeffSingleDCMatchesReference checks the worked single-DC-
// coefficient example: level=1, qp=12 gives scale=level_scale[12%6]=40,
// and dequantScaleShift(12, 8, 2) gives shift=2; with the default flat
// scaling matrix value 16, dequantCoeff should yield 80.
func TestDequantCoeffSingleDCMatchesReference(t *testing.T) {
	scale, shift := dequantScaleShift(12, 8, 2)
	if scale != 40 || shift != 2 {
		t.Fatalf("dequantScaleShift(12, 8, 2) = (%d, %d), want (40, 2)", scale, shift)
	}
	if got := dequantCoeff(1, scale, flatScaleMatrix16, shift); got != 80 {
		t.Errorf("dequantCoeff(1, 40, 16, 2) = %d, want 80", got)
	}
}

func TestDequantCoeffSaturates(t *testing.T) {
	got := dequantCoeff(1<<20, 72, flatScaleMatrix16, 0)
	if got != 32767 {
		t.Errorf("dequantCoeff overflow = %d, want saturated to 32767", got)
	}
	got = dequantCoeff(-(1 << 20), 72, flatScaleMatrix16, 0)
	if got != -32768 {
		t.Errorf("dequantCoeff underflow = %d, want saturated to -32768", got)
	}
}

func TestChromaQPClampsAndOffsets(t *testing.T) {
	// Below the 4:2:0 remapping range: qpC tracks qpi directly.
	if got := chromaQP(10, 0, 0, 0, 1, 0); got != 10 {
		t.Errorf("chromaQP(low) = %d, want 10", got)
	}
	// Above the remapping range: qpC = qpi - 6.
	if got := chromaQP(50, 0, 0, 0, 1, 0); got != 44 {
		t.Errorf("chromaQP(high) = %d, want 44", got)
	}
	// qpBDOffsetC is added to the mapped QP (and lowers the clip floor to
	// -qpBDOffsetC).
	if got := chromaQP(10, 0, 0, 0, 1, 6); got != 16 {
		t.Errorf("chromaQP(bd offset) = %d, want 16", got)
	}
	// 4:4:4 clips to 51 rather than remapping through the table.
	if got := chromaQP(60, 0, 0, 0, 3, 0); got != 51 {
		t.Errorf("chromaQP(444 clip) = %d, want 51", got)
	}
}

func TestScalingMatrixValueDefaultsFlat(t *testing.T) {
	if got := scalingMatrixValue(nil, 0, 0, 5); got != flatScaleMatrix16 {
		t.Errorf("scalingMatrixValue(nil) = %d, want %d", got, flatScaleMatrix16)
	}
}
