package hevcdec

import "testing"

// TestDecodeMVDZeroStream smoke-tests mvd_coding() end to end: decoding
// must complete without error.
func TestDecodeMVDZeroStream(t *testing.T) {
	s := newTestSliceState(t, zeroPayload(32))
	mvd, err := s.DecodeMVD()
	if err != nil {
		t.Fatalf("DecodeMVD: %v", err)
	}
	_ = mvd // value is bitstream-dependent; only absence of error is asserted
}

// TestDecodeMvdComponentGreater1UsesEG1 exercises the greater1 branch on an
// all-zero stream, where the EG1 prefix ends at its first bin; the result
// must be a nonzero magnitude decoded without error.
func TestDecodeMvdComponentGreater1UsesEG1(t *testing.T) {
	s := newTestSliceState(t, zeroPayload(8))
	v, err := s.decodeMvdComponent(true, true)
	if err != nil {
		t.Fatalf("decodeMvdComponent: %v", err)
	}
	if v == 0 {
		t.Errorf("decodeMvdComponent = 0, want a nonzero magnitude")
	}
	if v < -(1<<20) || v > (1<<20) {
		t.Errorf("decodeMvdComponent = %d, implausibly large", v)
	}
}
