package hevcdec

// Syntax-element identifiers for every CABAC-coded element this core
// decodes, in the same order and grouping as the HEVC specification's
// context-index catalog (spec.md §3 "Syntax-element catalog"). Each
// constant names the base ctxIdx an element's bins are offset from; see
// elemOffset.
type syntaxElement int

const (
	seSaoMergeFlag syntaxElement = iota
	seSaoTypeIdx
	seSaoEOClass
	seSaoBandPosition
	seSaoOffsetAbs
	seSaoOffsetSign
	seEndOfSliceFlag
	seSplitCodingUnitFlag
	seCuTransquantBypassFlag
	seSkipFlag
	seCuQPDelta
	sePredMode
	sePartMode
	sePCMFlag
	sePrevIntraLumaPredFlag
	seMPMIdx
	seRemIntraLumaPredMode
	seIntraChromaPredMode
	seMergeFlag
	seMergeIdx
	seInterPredIdc
	seRefIdxL0
	seRefIdxL1
	seAbsMvdGreater0Flag
	seAbsMvdGreater1Flag
	seAbsMvdMinus2
	seMvdSignFlag
	seMvpLXFlag
	seNoResidualDataFlag
	seSplitTransformFlag
	seCbfLuma
	seCbfCbCr
	seTransformSkipFlag
	seExplicitRDPCMFlag
	seExplicitRDPCMDirFlag
	seLastSigCoeffXPrefix
	seLastSigCoeffYPrefix
	seLastSigCoeffXSuffix
	seLastSigCoeffYSuffix
	seSigCoeffGroupFlag
	seSigCoeffFlag
	seCoeffAbsLevelGreater1Flag
	seCoeffAbsLevelGreater2Flag
	seCoeffAbsLevelRemaining
	seCoeffSignFlag
	seLog2ResScaleAbs
	seResScaleSignFlag
	seCuChromaQPOffsetFlag
	seCuChromaQPOffsetIdx

	numSyntaxElements
)

// numContexts is the size of the per-slice context-state table (spec.md §3:
// "An ordered sequence of 188 single-byte probability states"). The 49
// catalogued elements below address 178 of them; the remaining slots are
// reserved headroom (Range-Extensions contexts this core does not address)
// and stay at their init value, never selected by elemOffset.
const numContexts = 188

// elemOffset gives the base ctxIdx for each syntax element: ctxIdx =
// elemOffset[element] + local offset, where the local offset is derived by
// the element's own context-selection rule (spec.md §4.3).
var elemOffset = [numSyntaxElements]int{
	seSaoMergeFlag:               0,
	seSaoTypeIdx:                 1,
	seSaoEOClass:                 2,
	seSaoBandPosition:            2,
	seSaoOffsetAbs:               2,
	seSaoOffsetSign:              2,
	seEndOfSliceFlag:             2,
	seSplitCodingUnitFlag:        2,
	seCuTransquantBypassFlag:     5,
	seSkipFlag:                   6,
	seCuQPDelta:                  9,
	sePredMode:                   12,
	sePartMode:                   13,
	sePCMFlag:                    17,
	sePrevIntraLumaPredFlag:      17,
	seMPMIdx:                     18,
	seRemIntraLumaPredMode:       18,
	seIntraChromaPredMode:        18,
	seMergeFlag:                  20,
	seMergeIdx:                   21,
	seInterPredIdc:               22,
	seRefIdxL0:                   27,
	seRefIdxL1:                   29,
	seAbsMvdGreater0Flag:         31,
	seAbsMvdGreater1Flag:         33,
	seAbsMvdMinus2:               35,
	seMvdSignFlag:                35,
	seMvpLXFlag:                  35,
	seNoResidualDataFlag:         36,
	seSplitTransformFlag:         37,
	seCbfLuma:                    40,
	seCbfCbCr:                    42,
	seTransformSkipFlag:          46,
	seExplicitRDPCMFlag:          48,
	seExplicitRDPCMDirFlag:       50,
	seLastSigCoeffXPrefix:        52,
	seLastSigCoeffYPrefix:        70,
	seLastSigCoeffXSuffix:        88,
	seLastSigCoeffYSuffix:        88,
	seSigCoeffGroupFlag:          88,
	seSigCoeffFlag:               92,
	seCoeffAbsLevelGreater1Flag:  136,
	seCoeffAbsLevelGreater2Flag:  160,
	seCoeffAbsLevelRemaining:     166,
	seCoeffSignFlag:              166,
	seLog2ResScaleAbs:            166,
	seResScaleSignFlag:           174,
	seCuChromaQPOffsetFlag:       176,
	seCuChromaQPOffsetIdx:        177,
}

// cnu is "context not used" (an arbitrary but stable probability,
// equivalent to the reference decoder's CNU placeholder) for syntax
// elements whose init value does not vary meaningfully by QP.
const cnu = 154

// initValues holds init_value for each of the 178 addressed contexts,
// indexed by [initType][ctxIdx], per spec.md §4.2. Values and layout are
// taken from the HEVC reference decoder's context-initialization tables
// (see DESIGN.md); slots [178:188) are reserved and use cnu.
var initValues = [3][numContexts]uint8{
	0: initValuesType0,
	1: initValuesType1,
	2: initValuesType2,
}

var initValuesType0 = padContexts([...]uint8{
	153, 200, 139, 141, 157, 154, 154, 154, 154, 154, 154, 154, 154, 184, 154, 154, 154, 184, 63, 139,
	154, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154, 153, 138, 138,
	111, 141, 94, 138, 182, 154, 139, 139, 139, 139, 139, 139, 110, 110, 124, 125, 140, 153, 125, 127,
	140, 109, 111, 143, 127, 111, 79, 108, 123, 63, 110, 110, 124, 125, 140, 153, 125, 127, 140, 109,
	111, 143, 127, 111, 79, 108, 123, 63, 91, 171, 134, 141, 111, 111, 125, 110, 110, 94, 124, 108,
	124, 107, 125, 141, 179, 153, 125, 107, 125, 141, 179, 153, 125, 107, 125, 141, 179, 153, 125, 140,
	139, 182, 182, 152, 136, 152, 136, 153, 136, 139, 111, 136, 139, 111, 141, 111, 140, 92, 137, 138,
	140, 152, 138, 139, 153, 74, 149, 92, 139, 107, 122, 152, 140, 179, 166, 182, 140, 227, 122, 197,
	138, 153, 136, 167, 152, 152, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154,
})

var initValuesType1 = padContexts([...]uint8{
	153, 185, 107, 139, 126, 154, 197, 185, 201, 154, 154, 154, 149, 154, 139, 154, 154, 154, 152, 139,
	110, 122, 95, 79, 63, 31, 31, 153, 153, 153, 153, 140, 198, 140, 198, 168, 79, 124, 138, 94,
	153, 111, 149, 107, 167, 154, 139, 139, 139, 139, 139, 139, 125, 110, 94, 110, 95, 79, 125, 111,
	110, 78, 110, 111, 111, 95, 94, 108, 123, 108, 125, 110, 94, 110, 95, 79, 125, 111, 110, 78,
	110, 111, 111, 95, 94, 108, 123, 108, 121, 140, 61, 154, 155, 154, 139, 153, 139, 123, 123, 63,
	153, 166, 183, 140, 136, 153, 154, 166, 183, 140, 136, 153, 154, 166, 183, 140, 136, 153, 154, 170,
	153, 123, 123, 107, 121, 107, 121, 167, 151, 183, 140, 151, 183, 140, 140, 140, 154, 196, 196, 167,
	154, 152, 167, 182, 182, 134, 149, 136, 153, 121, 136, 137, 169, 194, 166, 167, 154, 167, 137, 182,
	107, 167, 91, 122, 107, 167, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154,
})

var initValuesType2 = padContexts([...]uint8{
	153, 160, 107, 139, 126, 154, 197, 185, 201, 154, 154, 154, 134, 154, 139, 154, 154, 183, 152, 139,
	154, 137, 95, 79, 63, 31, 31, 153, 153, 153, 153, 169, 198, 169, 198, 168, 79, 224, 167, 122,
	153, 111, 149, 92, 167, 154, 139, 139, 139, 139, 139, 139, 125, 110, 124, 110, 95, 94, 125, 111,
	111, 79, 125, 126, 111, 111, 79, 108, 123, 93, 125, 110, 124, 110, 95, 94, 125, 111, 111, 79,
	125, 126, 111, 111, 79, 108, 123, 93, 121, 140, 61, 154, 170, 154, 139, 153, 139, 123, 123, 63,
	124, 166, 183, 140, 136, 153, 154, 166, 183, 140, 136, 153, 154, 166, 183, 140, 136, 153, 154, 170,
	153, 138, 138, 122, 121, 122, 121, 167, 151, 183, 140, 151, 183, 140, 140, 140, 154, 196, 167, 167,
	154, 152, 167, 182, 182, 134, 149, 136, 153, 121, 136, 122, 169, 208, 166, 167, 154, 152, 167, 182,
	107, 167, 91, 107, 107, 167, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154, 154,
})

// padContexts right-pads a 178-entry init-value row to numContexts with cnu.
func padContexts(row [178]uint8) [numContexts]uint8 {
	var out [numContexts]uint8
	copy(out[:], row[:])
	for i := len(row); i < numContexts; i++ {
		out[i] = cnu
	}
	return out
}

// initType selects which row of initValues applies, given the slice type
// and cabac_init_flag, per spec.md §4.2: I->0; P->2 if flag else 1; B->1 if
// flag else 2.
func initType(st SliceType, cabacInitFlag bool) int {
	switch st {
	case SliceI:
		return 0
	case SliceP:
		if cabacInitFlag {
			return 2
		}
		return 1
	case SliceB:
		if cabacInitFlag {
			return 1
		}
		return 2
	default:
		return 0
	}
}

// Contexts is the per-slice table of 188 probability states (spec.md §3).
// Each state packs (pStateIdx<<1)|valMPS in the canonical 7-bit form.
type Contexts struct {
	state [numContexts]uint8
}

// Init populates the table from sliceType/cabacInitFlag/sliceQP using the
// derivation of spec.md §4.2.
func (c *Contexts) Init(st SliceType, cabacInitFlag bool, sliceQP int) {
	it := initType(st, cabacInitFlag)
	row := &initValues[it]
	qp := clip3(0, 51, sliceQP)
	for i := 0; i < numContexts; i++ {
		iv := int(row[i])
		m := (iv>>4)*5 - 45
		n := ((iv & 15) << 3) - 16
		pre := 2*(((m*qp)>>4)+n) - 127
		if pre < 0 {
			pre = -pre - 1 // pre ^= pre>>31 on a two's-complement int: abs(pre)-1 for negative pre
		}
		if pre > 124 {
			pre = 124 + (pre & 1)
		}
		c.state[i] = uint8(pre)
	}
}

// pStateIdx returns the probability-index half of ctxIdx's state (0..63).
func (c *Contexts) pStateIdx(ctxIdx int) int { return int(c.state[ctxIdx] >> 1) }

// valMPS returns the most-probable-symbol bit of ctxIdx's state.
func (c *Contexts) valMPS(ctxIdx int) int { return int(c.state[ctxIdx] & 1) }

// update applies the state-transition process of spec.md §4.1 after
// decode_bin returned binVal for ctxIdx.
func (c *Contexts) update(ctxIdx, binVal int) {
	p := c.pStateIdx(ctxIdx)
	mps := c.valMPS(ctxIdx)
	if binVal == mps {
		p = transIdxMPS[p]
	} else {
		if p == 0 {
			mps = 1 - mps
		}
		p = transIdxLPS[p]
	}
	c.state[ctxIdx] = uint8(p<<1 | mps)
}

// Snapshot returns a copy of the live state table, suitable for WPP
// row-context save (spec.md §4.6).
func (c *Contexts) Snapshot() [numContexts]uint8 { return c.state }

// Restore replaces the live state table with a previously saved snapshot.
func (c *Contexts) Restore(snap [numContexts]uint8) { c.state = snap }
