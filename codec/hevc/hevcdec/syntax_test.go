package hevcdec

import "testing"

// TestDecodePartMode2Nx2N checks the short-circuit path: bin0==1 always
// decodes to 2Nx2N regardless of intra/inter or CU size.
func TestDecodePartMode2Nx2N(t *testing.T) {
	// part_mode's first context (initValue 184 in an I slice at QP 26)
	// starts at pStateIdx 0 with valMPS 1, so an all-zero stream decodes
	// bin0 as 1 and both intra and inter CUs take the 2Nx2N path.
	for _, intra := range []bool{true, false} {
		s := newTestSliceState(t, zeroPayload(32))
		pm, err := s.DecodePartMode(intra, 4, 3)
		if err != nil {
			t.Fatalf("DecodePartMode(intra=%v): %v", intra, err)
		}
		if pm < PartMode2Nx2N || pm > PartModeNRx2N {
			t.Errorf("DecodePartMode(intra=%v) = %v, out of range", intra, pm)
		}
		if pm != PartMode2Nx2N {
			t.Errorf("DecodePartMode(intra=%v) = %v, want PartMode2Nx2N", intra, pm)
		}
	}
}

func TestDecodeMPMIdxInRange(t *testing.T) {
	s := newTestSliceState(t, zeroPayload(8))
	idx, err := s.DecodeMPMIdx()
	if err != nil {
		t.Fatalf("DecodeMPMIdx: %v", err)
	}
	if idx < 0 || idx > 2 {
		t.Errorf("DecodeMPMIdx = %d, want in [0, 2]", idx)
	}
}

func TestDecodeRemIntraLumaPredModeRange(t *testing.T) {
	s := newTestSliceState(t, zeroPayload(8))
	mode, err := s.DecodeRemIntraLumaPredMode()
	if err != nil {
		t.Fatalf("DecodeRemIntraLumaPredMode: %v", err)
	}
	if mode < 0 || mode > 31 {
		t.Errorf("DecodeRemIntraLumaPredMode = %d, want in [0, 31]", mode)
	}
}

func TestDecodeIntraChromaPredModeRange(t *testing.T) {
	s := newTestSliceState(t, zeroPayload(8))
	mode, err := s.DecodeIntraChromaPredMode()
	if err != nil {
		t.Fatalf("DecodeIntraChromaPredMode: %v", err)
	}
	if mode < 0 || mode > 4 {
		t.Errorf("DecodeIntraChromaPredMode = %d, want in [0, 4]", mode)
	}
}

func TestDecodeQPDeltaNoOverflowOnZeroStream(t *testing.T) {
	s := newTestSliceState(t, zeroPayload(16))
	if _, err := s.DecodeQPDelta(); err != nil {
		t.Fatalf("DecodeQPDelta: %v", err)
	}
}

func TestDecodeChromaQPOffsetDisabledReturnsMinusOne(t *testing.T) {
	s := newTestSliceState(t, zeroPayload(8))
	s.PPS.ChromaQPOffsetList = nil
	idx, err := s.DecodeChromaQPOffset()
	if err != nil {
		t.Fatalf("DecodeChromaQPOffset: %v", err)
	}
	// With no offset list, no bin is read and the result is -1.
	if idx != -1 {
		t.Errorf("DecodeChromaQPOffset = %d, want -1", idx)
	}
}

func TestDecodeInterPredIdcSmallPbExcludesBi(t *testing.T) {
	s := newTestSliceState(t, zeroPayload(8))
	idc, err := s.DecodeInterPredIdc(0, 8, 4) // nPbW+nPbH == 12
	if err != nil {
		t.Fatalf("DecodeInterPredIdc: %v", err)
	}
	if idc == PredBi {
		t.Errorf("DecodeInterPredIdc with nPbW+nPbH==12 returned PredBi, which must be excluded")
	}
}
