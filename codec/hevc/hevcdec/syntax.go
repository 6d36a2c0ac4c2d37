package hevcdec

// Syntax-element decoders: one function per CABAC-coded element named in
// spec.md §4.3 and the supplemented set of SPEC_FULL.md §7. Context
// increments follow the neighbor-availability rules of spec.md §4.3;
// NeighborState supplies the left/above lookups.

// DecodeSplitCodingUnitFlag decodes split_cu_flag at (x, y) with context
// increment from the neighboring coding-tree depths (spec.md §4.3).
func (s *SliceState) DecodeSplitCodingUnitFlag(x, y, ctDepth int) (bool, error) {
	inc := 0
	if s.Neighbors.Available(x-1, y) && int(s.Neighbors.neighborCtDepth(x-1, y)) > ctDepth {
		inc++
	}
	if s.Neighbors.Available(x, y-1) && int(s.Neighbors.neighborCtDepth(x, y-1)) > ctDepth {
		inc++
	}
	return s.decodeFlag(seSplitCodingUnitFlag, inc)
}

// DecodeCuTransquantBypassFlag decodes cu_transquant_bypass_flag, a single
// fixed context (spec.md §4.3).
func (s *SliceState) DecodeCuTransquantBypassFlag() (bool, error) {
	return s.decodeFlag(seCuTransquantBypassFlag, 0)
}

// DecodeSkipFlag decodes skip_flag at (x, y), context incremented by
// neighboring skip flags.
func (s *SliceState) DecodeSkipFlag(x, y int) (bool, error) {
	inc := 0
	if s.Neighbors.Available(x-1, y) && s.Neighbors.neighborSkipFlag(x-1, y) {
		inc++
	}
	if s.Neighbors.Available(x, y-1) && s.Neighbors.neighborSkipFlag(x, y-1) {
		inc++
	}
	return s.decodeFlag(seSkipFlag, inc)
}

// DecodePredModeFlag decodes pred_mode_flag (1 = INTRA), supplemented per
// SPEC_FULL.md §7 so the residual decoder's RDPCM/QP preamble has a real
// prediction-mode input.
func (s *SliceState) DecodePredModeFlag() (bool, error) {
	return s.decodeFlag(sePredMode, 0)
}

// PartMode identifies the coding-unit partition shape (spec.md §4.3,
// extended with the AMP branch per SPEC_FULL.md §7).
type PartMode int

const (
	PartMode2Nx2N PartMode = iota
	PartMode2NxN
	PartModeNx2N
	PartModeNxN
	PartMode2NxnU
	PartMode2NxnD
	PartModeNLx2N
	PartModeNRx2N
)

// DecodePartMode decodes part_mode for an intra or inter coding unit. log2CbSize
// is the CU's log2 size and minCbLog2SizeY the SPS minimum, needed to gate
// whether NxN and the AMP branch are reachable (spec.md §4.3, AMP branch
// per SPEC_FULL.md §7, grounded on the reference decoder's part_mode
// binarization tree).
func (s *SliceState) DecodePartMode(intra bool, log2CbSize, minCbLog2SizeY int) (PartMode, error) {
	bin0, err := s.decodeFlag(sePartMode, 0)
	if err != nil {
		return 0, err
	}
	if bin0 {
		return PartMode2Nx2N, nil
	}

	if intra {
		// Intra CUs only ever split NxN at the smallest CU size, and
		// bin0==0 in that case is decoded with no further bins.
		return PartModeNxN, nil
	}

	bin1, err := s.decodeFlag(sePartMode, 1)
	if err != nil {
		return 0, err
	}

	if log2CbSize == minCbLog2SizeY {
		if log2CbSize == 3 {
			if bin1 {
				return PartMode2NxN, nil
			}
			return PartModeNx2N, nil
		}
		if bin1 {
			return PartMode2NxN, nil
		}
		bin3, err := s.decodeFlag(sePartMode, 2)
		if err != nil {
			return 0, err
		}
		if bin3 {
			return PartModeNx2N, nil
		}
		return PartModeNxN, nil
	}

	if !s.SPS.AMPEnabled {
		if bin1 {
			return PartMode2NxN, nil
		}
		return PartModeNx2N, nil
	}

	bin2, err := s.decodeFlag(sePartMode, 3)
	if err != nil {
		return 0, err
	}
	if bin2 {
		if bin1 {
			return PartMode2NxN, nil
		}
		return PartModeNx2N, nil
	}

	bin3, err := s.decodeBypassFlag()
	if err != nil {
		return 0, err
	}
	switch {
	case bin1 && bin3:
		return PartMode2NxnD, nil
	case bin1:
		return PartMode2NxnU, nil
	case bin3:
		return PartModeNRx2N, nil
	default:
		return PartModeNLx2N, nil
	}
}

// DecodePCMFlag decodes pcm_flag using the terminate path (the reference
// decoder treats pcm_flag as a special decode_terminate-style bin, spec.md
// §4.3).
func (s *SliceState) DecodePCMFlag() (bool, error) {
	b, err := s.Engine.DecodeTerminate()
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

// DecodePrevIntraLumaPredFlag decodes prev_intra_luma_pred_flag (single
// fixed context; SPEC_FULL.md §7).
func (s *SliceState) DecodePrevIntraLumaPredFlag() (bool, error) {
	return s.decodeFlag(sePrevIntraLumaPredFlag, 0)
}

// DecodeMPMIdx decodes mpm_idx: truncated unary, cMax=2, bypass bins
// throughout (SPEC_FULL.md §7).
func (s *SliceState) DecodeMPMIdx() (int, error) {
	return s.decodeTruncatedUnary(seMPMIdx, 2, nil)
}

// DecodeRemIntraLumaPredMode decodes rem_intra_luma_pred_mode: 5-bit fixed
// length, bypass (SPEC_FULL.md §7).
func (s *SliceState) DecodeRemIntraLumaPredMode() (int, error) {
	return s.Engine.DecodeBypassBits(5)
}

// DecodeIntraChromaPredMode decodes intra_chroma_pred_mode (spec.md §4.3):
// one context-coded flag selecting "4" vs an explicit 2-bit bypass index.
func (s *SliceState) DecodeIntraChromaPredMode() (int, error) {
	useFour, err := s.decodeFlag(seIntraChromaPredMode, 0)
	if err != nil {
		return 0, err
	}
	if !useFour {
		return 4, nil
	}
	return s.Engine.DecodeBypassBits(2)
}

// DecodeMergeFlag decodes merge_flag (SPEC_FULL.md §7).
func (s *SliceState) DecodeMergeFlag() (bool, error) {
	return s.decodeFlag(seMergeFlag, 0)
}

// DecodeMergeIdx decodes merge_idx: truncated unary, bypass bins, capped by
// MaxNumMergeCand-1 (SPEC_FULL.md §7).
func (s *SliceState) DecodeMergeIdx() (int, error) {
	return s.decodeTruncatedUnary(seMergeIdx, s.Header.MaxNumMergeCand-1, nil)
}

// DecodeMvpLXFlag decodes mvp_l0_flag/mvp_l1_flag (SPEC_FULL.md §7).
func (s *SliceState) DecodeMvpLXFlag() (bool, error) {
	return s.decodeFlag(seMvpLXFlag, 0)
}

// InterPredIdc enumerates inter_pred_idc's decoded value (spec.md §4.3).
type InterPredIdc int

const (
	PredL0 InterPredIdc = iota
	PredL1
	PredBi
)

// DecodeInterPredIdc decodes inter_pred_idc; nPbW+nPbH==12 disables the Bi
// option and removes a context (spec.md §4.3).
func (s *SliceState) DecodeInterPredIdc(ctDepth, nPbW, nPbH int) (InterPredIdc, error) {
	if nPbW+nPbH != 12 {
		bi, err := s.decodeFlag(seInterPredIdc, ctDepth)
		if err != nil {
			return 0, err
		}
		if bi {
			return PredBi, nil
		}
	}
	l1, err := s.decodeFlag(seInterPredIdc, 4)
	if err != nil {
		return 0, err
	}
	if l1 {
		return PredL1, nil
	}
	return PredL0, nil
}

// DecodeRefIdx decodes ref_idx_l0/ref_idx_l1: truncated unary up to
// numRefIdx-1, first two bins context-coded then bypass (spec.md §4.3).
func (s *SliceState) DecodeRefIdx(l1 bool, numRefIdx int) (int, error) {
	se := seRefIdxL0
	if l1 {
		se = seRefIdxL1
	}
	cMax := numRefIdx - 1
	v, err := s.decodeTruncatedUnary(se, mini(cMax, 2), func(i int) int { return i })
	if err != nil || v < 2 || cMax <= 2 {
		return v, err
	}
	tail, err := s.decodeTruncatedUnary(se, cMax-2, nil)
	return v + tail, err
}

// DecodeAbsMvdGreater0Flag/1Flag and the EG1 remainder implement the MVD
// component decoder of spec.md §4.5; see mvd.go.

// DecodeNoResidualDataFlag decodes rqt_root_cbf's inverse, the
// no_residual_data_flag helper used when a CU has no residual at all
// (SPEC_FULL.md §7).
func (s *SliceState) DecodeNoResidualDataFlag() (bool, error) {
	return s.decodeFlag(seNoResidualDataFlag, 0)
}

// DecodeSplitTransformFlag decodes split_transform_flag, context
// incremented by (5 - log2TrafoSize) per the reference decoder
// (SPEC_FULL.md §7).
func (s *SliceState) DecodeSplitTransformFlag(log2TrafoSize int) (bool, error) {
	return s.decodeFlag(seSplitTransformFlag, 5-log2TrafoSize)
}

// DecodeCbfLuma decodes cbf_luma, context incremented when trafoDepth==0
// (spec.md §4.3).
func (s *SliceState) DecodeCbfLuma(trafoDepth int) (bool, error) {
	inc := 1
	if trafoDepth != 0 {
		inc = 0
	}
	return s.decodeFlag(seCbfLuma, inc)
}

// DecodeCbfChroma decodes cbf_cb or cbf_cr, context incremented by
// trafoDepth (spec.md §4.3).
func (s *SliceState) DecodeCbfChroma(trafoDepth int) (bool, error) {
	return s.decodeFlag(seCbfCbCr, trafoDepth)
}

// DecodeCbfChroma422 decodes the second cbf_cb/cbf_cr bin used only for
// 4:2:2 chroma sampling (SPEC_FULL.md §7, "cbf_cb/cbf_cr two-bin variant"):
// the reference decoder reuses the same context table with a fixed
// increment of 4 for this second bin.
func (s *SliceState) DecodeCbfChroma422() (bool, error) {
	return s.decodeFlag(seCbfCbCr, 4)
}

// DecodeTransformSkipFlag decodes transform_skip_flag: luma uses context
// increment 0 and chroma increment 1 (spec.md §4.3).
func (s *SliceState) DecodeTransformSkipFlag(chroma bool) (bool, error) {
	inc := 0
	if chroma {
		inc = 1
	}
	return s.decodeFlag(seTransformSkipFlag, inc)
}

// DecodeExplicitRDPCMFlag/Dir decode the explicit RDPCM signaling used by
// transquant-bypass transform-skip blocks (spec.md §4.4.1 item 5).
func (s *SliceState) DecodeExplicitRDPCMFlag(chroma bool) (bool, error) {
	inc := 0
	if chroma {
		inc = 1
	}
	return s.decodeFlag(seExplicitRDPCMFlag, inc)
}

func (s *SliceState) DecodeExplicitRDPCMDirFlag(chroma bool) (bool, error) {
	inc := 0
	if chroma {
		inc = 1
	}
	return s.decodeFlag(seExplicitRDPCMDirFlag, inc)
}

// DecodeQPDelta decodes cu_qp_delta_abs/cu_qp_delta_sign_flag
// (SPEC_FULL.md §7): abs is truncated-Rice(k=0,cMax=5) context-coded then
// an EG0 bypass tail, sign is a single bypass bin.
func (s *SliceState) DecodeQPDelta() (int, error) {
	prefix, err := s.decodeTruncatedUnary(seCuQPDelta, 5, func(i int) int {
		if i == 0 {
			return 0
		}
		return 1
	})
	if err != nil {
		return 0, err
	}
	abs := prefix
	if prefix == 5 {
		suffix, err := s.decodeEGk(0)
		if err != nil {
			return 0, err
		}
		abs += suffix
	}
	if abs == 0 {
		return 0, nil
	}
	neg, err := s.decodeBypassFlag()
	if err != nil {
		return 0, err
	}
	if neg {
		return -abs, nil
	}
	return abs, nil
}

// DecodeChromaQPOffset decodes cu_chroma_qp_offset_flag and, if set,
// cu_chroma_qp_offset_idx (SPEC_FULL.md §7), returning the selected index
// into PPS.ChromaQPOffsetList, or -1 if the flag was false. With an empty
// list no bin is read and the result is -1.
func (s *SliceState) DecodeChromaQPOffset() (int, error) {
	if len(s.PPS.ChromaQPOffsetList) == 0 {
		return -1, nil
	}
	flag, err := s.decodeFlag(seCuChromaQPOffsetFlag, 0)
	if err != nil {
		return -1, err
	}
	if !flag {
		return -1, nil
	}
	n := len(s.PPS.ChromaQPOffsetList)
	if n <= 1 {
		return 0, nil
	}
	return s.decodeTruncatedUnary(seCuChromaQPOffsetIdx, n-1, func(int) int { return 0 })
}
