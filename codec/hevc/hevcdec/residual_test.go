package hevcdec

import "testing"

// TestDecodeResidual4x4Luma smoke-tests a single 4x4 luma residual_coding()
// call end to end against an all-zero bitstream: decoding must complete
// without error and return exactly n*n coefficients.
func TestDecodeResidual4x4Luma(t *testing.T) {
	s := newTestSliceState(t, zeroPayload(64))
	info := ResidualBlockInfo{
		Log2Size:      2,
		CIdx:          0,
		PredModeIntra: true,
		IntraPredMode: 1,
		QPY:           26,
	}
	coeffs, err := s.DecodeResidual(info)
	if err != nil {
		t.Fatalf("DecodeResidual: %v", err)
	}
	if len(coeffs) != 16 {
		t.Fatalf("len(coeffs) = %d, want 16", len(coeffs))
	}
}

// TestDecodeResidual8x8Chroma smoke-tests an 8x8 chroma block, which
// exercises the subblock (CG) loop absent from the 4x4 case.
func TestDecodeResidual8x8Chroma(t *testing.T) {
	s := newTestSliceState(t, zeroPayload(128))
	info := ResidualBlockInfo{
		Log2Size: 3,
		CIdx:     1,
		QPY:      26,
	}
	coeffs, err := s.DecodeResidual(info)
	if err != nil {
		t.Fatalf("DecodeResidual: %v", err)
	}
	if len(coeffs) != 64 {
		t.Fatalf("len(coeffs) = %d, want 64", len(coeffs))
	}
}

// TestDecodeResidualBypassIdentityScale smoke-tests a transquant-bypass 4x4
// block end to end through DecodeResidual's bypass branch (scale=2,
// shift=0, flatScaleMatrix1); it checks only that decoding succeeds, while
// TestBypassDequantIsIdentity checks the identity arithmetic itself.
func TestDecodeResidualBypassIdentityScale(t *testing.T) {
	s := newTestSliceState(t, zeroPayload(64))
	info := ResidualBlockInfo{
		Log2Size:           2,
		CIdx:               0,
		CuTransquantBypass: true,
		QPY:                26,
	}
	if _, err := s.DecodeResidual(info); err != nil {
		t.Fatalf("DecodeResidual(bypass): %v", err)
	}
}

func TestPrevCsbfNeighborBits(t *testing.T) {
	var g [8][8]bool
	g[1][0] = true // right neighbor of (0,0)
	g[0][1] = true // below neighbor of (0,0)
	if got := prevCsbf(&g, 0, 0, 4); got != 3 {
		t.Errorf("prevCsbf = %d, want 3 (both neighbors coded)", got)
	}
	if got := prevCsbf(&g, 3, 3, 4); got != 0 {
		t.Errorf("prevCsbf at grid edge = %d, want 0 (no neighbors exist)", got)
	}
}

func TestRiceStatIndexSelectsFourSlots(t *testing.T) {
	cases := []struct {
		cIdx       int
		tsOrBypass bool
		want       int
	}{
		{0, false, 0},
		{1, false, 1},
		{0, true, 2},
		{2, true, 3},
	}
	for _, c := range cases {
		if got := riceStatIndex(c.cIdx, c.tsOrBypass); got != c.want {
			t.Errorf("riceStatIndex(%d, %v) = %d, want %d", c.cIdx, c.tsOrBypass, got, c.want)
		}
	}
}

// TestUpdateRiceStatThreeBlockSequence reproduces the documented
// persistent-Rice-adaptation scenario: three successive blocks each
// emitting remainder=32 against a starting stat_coeff of 0 read Rice
// parameter 0 at every block's start (since stat_coeff>>2 stays 0 for
// stat_coeff in {0, 1, 2}) and leave stat_coeff=3 after the third.
func TestUpdateRiceStatThreeBlockSequence(t *testing.T) {
	s := newTestSliceState(t, zeroPayload(4))
	var gotK []int
	for i := 0; i < 3; i++ {
		k := int(s.StatCoeff[0]) / 4
		gotK = append(gotK, k)
		s.updateRiceStat(0, 32, k)
	}
	for i, k := range gotK {
		if k != 0 {
			t.Errorf("block %d: Rice k = %d, want 0", i, k)
		}
	}
	if s.StatCoeff[0] != 3 {
		t.Errorf("StatCoeff[0] after three blocks = %d, want 3", s.StatCoeff[0])
	}
}

func TestUpdateRiceStatIncrementsAndDecrements(t *testing.T) {
	s := newTestSliceState(t, zeroPayload(4))
	s.updateRiceStat(0, 24, 0) // remaining>>0 = 24 >= 3: increment
	if s.StatCoeff[0] != 1 {
		t.Errorf("StatCoeff[0] = %d, want 1 after increment", s.StatCoeff[0])
	}
	s.updateRiceStat(0, 0, 0) // remaining>>0 = 0: decrement
	if s.StatCoeff[0] != 0 {
		t.Errorf("StatCoeff[0] = %d, want 0 after decrement", s.StatCoeff[0])
	}
}
