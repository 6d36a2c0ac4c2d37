package hevcdec

import (
	"github.com/pkg/errors"
)

// ResidualBlockInfo carries everything DecodeResidual needs to know about
// the transform block it is about to decode that the caller (the
// transform-tree walker this core does not own) has already resolved:
// position, size, component, prediction mode and the flags that steer
// scan-order and RDPCM handling (spec.md §4.4.1).
type ResidualBlockInfo struct {
	X, Y          int
	Log2Size      int // 2..5
	CIdx          int // 0 = luma, 1 = Cb, 2 = Cr
	PredModeIntra bool
	IntraPredMode int // only meaningful when PredModeIntra

	CuTransquantBypass bool
	// ImplicitRDPCMCandidate reports whether this block is eligible for
	// implicit RDPCM: an intra block predicted with the pure horizontal or
	// vertical angular mode (spec.md §4.4.1 item 3).
	ImplicitRDPCMCandidate bool

	QPY int
}

// sigEntry is one significant coefficient found while scanning a subblock,
// carrying its raster position and its within-subblock scan index n (used
// for the sign-hiding distance test).
type sigEntry struct {
	x, y, n int
	level   int
}

// DecodeResidual decodes one transform block's residual_coding syntax
// (spec.md §4.4) and returns the dequantized, saturated coefficients in
// raster order (row-major, length 1<<(2*info.Log2Size)).
func (s *SliceState) DecodeResidual(info ResidualBlockInfo) ([]int16, error) {
	n := 1 << uint(info.Log2Size)
	coeffs := make([]int16, n*n)

	transformSkip := false
	if s.PPS.TransformSkipEnabled && !info.CuTransquantBypass && info.Log2Size <= s.PPS.Log2MaxTransformSkipSize {
		ts, err := s.DecodeTransformSkipFlag(info.CIdx > 0)
		if err != nil {
			return nil, err
		}
		transformSkip = ts
	}

	explicitRDPCM := false
	explicitRDPCMVertical := false
	if !info.PredModeIntra && s.SPS.ExplicitRDPCMEnabled && (transformSkip || info.CuTransquantBypass) {
		f, err := s.DecodeExplicitRDPCMFlag(info.CIdx > 0)
		if err != nil {
			return nil, err
		}
		explicitRDPCM = f
		if f {
			d, err := s.DecodeExplicitRDPCMDirFlag(info.CIdx > 0)
			if err != nil {
				return nil, err
			}
			explicitRDPCMVertical = d
		}
	}
	implicitRDPCM := info.ImplicitRDPCMCandidate && (transformSkip || info.CuTransquantBypass)

	scanIdx := ScanDiag
	if info.PredModeIntra && (info.Log2Size == 2 || (info.Log2Size == 3 && info.CIdx == 0)) {
		scanIdx = scanIdxFromIntraMode(n, info.IntraPredMode, info.CIdx > 0)
	}

	lastX, lastY, err := s.decodeLastSigCoeff(info.Log2Size, info.CIdx, scanIdx)
	if err != nil {
		return nil, err
	}

	coeffScan, subblockScanOrder := scanOrder(n, scanIdx)
	const subblockLen = 16
	lastScanPos := scanIndexOf(n, scanIdx, lastX, lastY)
	lastSubblock := lastScanPos / subblockLen
	lastPosInSubblock := lastScanPos % subblockLen

	numCGSide := n / 4
	var sigGroup [8][8]bool

	qp := info.QPY + s.SPS.QPBDOffsetY
	if info.CIdx > 0 {
		var ppsOff, sliceOff int
		if info.CIdx == 1 {
			ppsOff, sliceOff = s.PPS.CbQPOffset, s.Header.SliceCbQPOffset
		} else {
			ppsOff, sliceOff = s.PPS.CrQPOffset, s.Header.SliceCrQPOffset
		}
		qp = chromaQP(info.QPY, ppsOff, sliceOff, 0, s.SPS.ChromaFormatIDC, s.SPS.QPBDOffsetC)
	}
	bitDepth := s.SPS.BitDepthLuma
	if info.CIdx > 0 {
		bitDepth = s.SPS.BitDepthChroma
	}

	var scale, shift, flatScale int
	if info.CuTransquantBypass {
		scale, shift = bypassScaleShift()
		flatScale = flatScaleMatrix1
	} else {
		scale, shift = dequantScaleShift(qp, bitDepth, info.Log2Size)
		flatScale = flatScaleMatrix16
	}

	statIdx := riceStatIndex(info.CIdx, transformSkip || info.CuTransquantBypass)
	prevGreater1Ctx := 1

	for subIdx := lastSubblock; subIdx >= 0; subIdx-- {
		cg := subblockScanOrder[subIdx]
		xCG, yCG := cg.x, cg.y

		codedSubBlockFlag := true
		inferSigCoeffFlag := false
		if subIdx != lastSubblock && subIdx != 0 {
			prev := prevCsbf(&sigGroup, xCG, yCG, numCGSide)
			inc := mini(prev, 1)
			if info.CIdx > 0 {
				inc += 2
			}
			b, err := s.decodeFlag(seSigCoeffGroupFlag, inc)
			if err != nil {
				return nil, err
			}
			codedSubBlockFlag = b
			inferSigCoeffFlag = true
		}
		sigGroup[xCG][yCG] = codedSubBlockFlag
		if !codedSubBlockFlag {
			continue
		}

		prevCsbfVal := prevCsbf(&sigGroup, xCG, yCG, numCGSide)
		var sig []sigEntry
		if subIdx == lastSubblock {
			p := coeffScan[lastScanPos]
			sig = append(sig, sigEntry{p.x, p.y, lastPosInSubblock, 0})
		}

		startN := subblockLen - 1
		if subIdx == lastSubblock {
			startN = lastPosInSubblock - 1
		}
		for nn := startN; nn >= 0; nn-- {
			p := coeffScan[subIdx*subblockLen+nn]

			inferred := inferSigCoeffFlag && nn == 0 && len(sig) == 0
			isSig := inferred
			if !inferred {
				ctxInc := s.sigCoeffContext(info, scanIdx, nn, xCG, yCG, prevCsbfVal)
				b, err := s.decodeFlag(seSigCoeffFlag, ctxInc)
				if err != nil {
					return nil, err
				}
				isSig = b
			}
			if isSig {
				sig = append(sig, sigEntry{p.x, p.y, nn, 0})
			}
		}
		if len(sig) == 0 {
			continue
		}

		ctxSet := 0
		if xCG != 0 || yCG != 0 {
			if info.CIdx == 0 {
				ctxSet = 2
			}
		}
		if prevGreater1Ctx == 0 {
			ctxSet++
		}
		greater1Ctx := 1
		firstGreater1Pos := -1
		greater1 := make([]bool, len(sig))
		for i := 0; i < len(sig) && i < 8; i++ {
			inc := ctxSet*4 + greater1Ctx
			if info.CIdx > 0 {
				inc = 16 + ctxSet*4 + greater1Ctx
			}
			b, err := s.decodeFlag(seCoeffAbsLevelGreater1Flag, inc)
			if err != nil {
				return nil, err
			}
			greater1[i] = b
			if b {
				greater1Ctx = 0
				if firstGreater1Pos < 0 {
					firstGreater1Pos = i
				}
			} else if greater1Ctx > 0 && greater1Ctx < 3 {
				greater1Ctx++
			}
		}
		prevGreater1Ctx = greater1Ctx

		greater2 := false
		if firstGreater1Pos >= 0 {
			inc := ctxSet
			if info.CIdx > 0 {
				inc = 4 + ctxSet
			}
			b, err := s.decodeFlag(seCoeffAbsLevelGreater2Flag, inc)
			if err != nil {
				return nil, err
			}
			greater2 = b
		}

		nHigh, nLow := sig[0].n, sig[len(sig)-1].n
		signHidden := s.PPS.SignDataHidingEnabled && !info.CuTransquantBypass && !explicitRDPCM &&
			!implicitRDPCM && (nHigh-nLow) > 3

		numSignsToRead := len(sig)
		if signHidden {
			numSignsToRead--
		}
		signs := make([]bool, len(sig))
		for i := 0; i < numSignsToRead; i++ {
			b, err := s.decodeBypassFlag()
			if err != nil {
				return nil, err
			}
			signs[i] = b
		}

		riceParam := 0
		if s.SPS.PersistentRiceAdaptationEnabled {
			riceParam = int(s.StatCoeff[statIdx]) / 4
		}
		updatedRiceOnce := false

		levels := make([]int, len(sig))
		sumAbsLevel := 0
		for i := range sig {
			base := 1
			if i < 8 && greater1[i] {
				base = 2
			}
			if i == firstGreater1Pos && greater2 {
				base = 3
			}
			threshold := 1
			if i < 8 {
				if i == firstGreater1Pos {
					threshold = 3
				} else {
					threshold = 2
				}
			}
			level := base
			if base == threshold {
				remaining, err := s.decodeCoeffAbsLevelRemaining(riceParam)
				if err != nil {
					return nil, err
				}
				level = base + remaining
				if !updatedRiceOnce && s.SPS.PersistentRiceAdaptationEnabled {
					s.updateRiceStat(statIdx, remaining, riceParam)
					updatedRiceOnce = true
				}
				if level > 3<<uint(riceParam) {
					if s.SPS.PersistentRiceAdaptationEnabled {
						riceParam++
					} else {
						riceParam = mini(riceParam+1, 4)
					}
				}
			}
			levels[i] = level
			sumAbsLevel += level
		}

		for i, se := range sig {
			level := levels[i]
			signedLevel := level
			if i < numSignsToRead && signs[i] {
				signedLevel = -level
			}
			if signHidden && i == len(sig)-1 && sumAbsLevel%2 == 1 {
				signedLevel = -signedLevel
			}

			if implicitRDPCM || explicitRDPCM {
				signedLevel = applyRDPCMAccumulate(coeffs, n, se.x, se.y, signedLevel, explicitRDPCM, explicitRDPCMVertical, info.IntraPredMode)
			}

			scaleMatrixVal := flatScale
			if !info.CuTransquantBypass && s.SPS.ScalingListEnabled && !transformSkip {
				sizeIdx := info.Log2Size - 2
				smPos := se.y*n + se.x
				if info.Log2Size >= 4 {
					shr := uint(info.Log2Size - 3)
					smPos = (se.y>>shr)*8 + (se.x >> shr)
				}
				scaleMatrixVal = scalingMatrixValue(s.PPS.ScalingList, sizeIdx, matrixIDFor(info.CIdx, info.PredModeIntra), smPos)
			}

			coeffs[se.y*n+se.x] = dequantCoeff(signedLevel, scale, scaleMatrixVal, shift)
		}
	}

	return coeffs, nil
}

// sigCoeffContext resolves the ctxInc for sig_coeff_flag at within-subblock
// scan position n, per spec.md §4.4.3.
func (s *SliceState) sigCoeffContext(info ResidualBlockInfo, scanIdx ScanIdx, n, xCG, yCG, prevCsbfVal int) int {
	if info.Log2Size == 2 {
		ctx := sigCtxMapsTS2[scanIdx][n]
		if info.CIdx > 0 {
			ctx += 27
		}
		return ctx
	}
	if n == 0 && xCG == 0 && yCG == 0 {
		if info.CIdx == 0 {
			return 0
		}
		return 27
	}

	sigCtx := sigCtxMaps[scanIdx][prevCsbfVal][n]
	if info.CIdx == 0 {
		if xCG != 0 || yCG != 0 {
			sigCtx += 3
		}
		if info.Log2Size == 3 {
			if scanIdx == ScanDiag {
				sigCtx += 9
			} else {
				sigCtx += 15
			}
		} else {
			sigCtx += 21
		}
	} else {
		if info.Log2Size == 3 {
			sigCtx += 9
		} else {
			sigCtx += 12
		}
		sigCtx += 27
	}
	return sigCtx
}

// decodeLastSigCoeff decodes last_sig_coeff_{x,y}_prefix/suffix and returns
// the last significant coefficient's raster position within the scan
// (spec.md §4.4.2). A vertical scan swaps x/y, matching the reference
// decoder's xy-swap step.
func (s *SliceState) decodeLastSigCoeff(log2Size, cIdx int, scanIdx ScanIdx) (int, int, error) {
	cMax := (log2Size << 1) - 1
	ctxOffset, ctxShift := lastSigCtxParams(log2Size, cIdx)

	xPrefix, err := s.decodeTruncatedUnary(seLastSigCoeffXPrefix, cMax, func(i int) int {
		return ctxOffset + (i >> uint(ctxShift))
	})
	if err != nil {
		return 0, 0, err
	}
	yPrefix, err := s.decodeTruncatedUnary(seLastSigCoeffYPrefix, cMax, func(i int) int {
		return ctxOffset + (i >> uint(ctxShift))
	})
	if err != nil {
		return 0, 0, err
	}

	lastX, err := s.decodeLastSigSuffix(xPrefix)
	if err != nil {
		return 0, 0, err
	}
	lastY, err := s.decodeLastSigSuffix(yPrefix)
	if err != nil {
		return 0, 0, err
	}

	if scanIdx == ScanVert {
		lastX, lastY = lastY, lastX
	}
	return lastX, lastY, nil
}

// lastSigCtxParams gives the (ctxOffset, ctxShift) pair used to map a
// last_sig_coeff prefix bin index to a context increment, per spec.md
// §4.4.2: luma uses 3*(log2Size-2) + ((log2Size-1)>>2), chroma always uses
// offset 15, shift log2Size-2.
func lastSigCtxParams(log2Size, cIdx int) (offset, shift int) {
	if cIdx == 0 {
		return 3*(log2Size-2) + ((log2Size - 1) >> 2), (log2Size + 1) >> 2
	}
	return 15, log2Size - 2
}

// decodeLastSigSuffix expands a last_sig_coeff prefix value into the full
// coordinate, reading a fixed-length suffix via bypass bins when prefix >=
// 4 (spec.md §4.4.2).
func (s *SliceState) decodeLastSigSuffix(prefix int) (int, error) {
	if prefix < 4 {
		return prefix, nil
	}
	suffixBits := (prefix >> 1) - 1
	suffix, err := s.Engine.DecodeBypassBits(suffixBits)
	if err != nil {
		return 0, err
	}
	return (1<<uint(suffixBits))*(2+prefix&1) + suffix, nil
}

// decodeCoeffAbsLevelRemaining decodes the Golomb-Rice-coded remainder
// value with parameter riceParam, capped at CabacMaxBin prefix bins (spec.md
// §4.4.5 item 3).
func (s *SliceState) decodeCoeffAbsLevelRemaining(riceParam int) (int, error) {
	prefix := 0
	for {
		b, err := s.decodeBypassFlag()
		if err != nil {
			return 0, err
		}
		if !b {
			break
		}
		prefix++
		if prefix >= CabacMaxBin {
			return 0, errors.WithStack(ErrBinaryOverflow)
		}
	}
	if prefix <= 3 {
		suffix := 0
		if riceParam > 0 {
			v, err := s.Engine.DecodeBypassBits(riceParam)
			if err != nil {
				return 0, err
			}
			suffix = v
		}
		return prefix<<uint(riceParam) + suffix, nil
	}
	suffixBits := prefix - 3 + riceParam
	suffix, err := s.Engine.DecodeBypassBits(suffixBits)
	if err != nil {
		return 0, err
	}
	return ((1<<uint(prefix-3))+2)<<uint(riceParam) + suffix, nil
}

// riceStatIndex selects the StatCoeff slot for persistent Rice adaptation:
// 0/1 for luma/chroma transform coefficients, 2/3 for the transform-skip or
// transquant-bypass variant (spec.md §4.4.5 item 4).
func riceStatIndex(cIdx int, tsOrBypass bool) int {
	idx := 0
	if cIdx > 0 {
		idx = 1
	}
	if tsOrBypass {
		idx += 2
	}
	return idx
}

// updateRiceStat applies the reference decoder's update_rice adjustment to
// StatCoeff[statIdx]: incremented when the remainder implies the current
// Rice parameter undershoots, decremented when it overshoots.
func (s *SliceState) updateRiceStat(statIdx, remaining, riceParam int) {
	c := &s.StatCoeff[statIdx]
	switch {
	case remaining>>uint(riceParam) >= 3:
		*c++
	case *c > 0 && remaining>>uint(riceParam) == 0:
		*c--
	}
}

// matrixIDFor derives the scaling-list matrixID for a component and
// prediction mode, per spec.md §4.4.1 item 2: luma/chroma 0..2 for intra,
// offset by 3 for inter.
func matrixIDFor(cIdx int, intra bool) int {
	id := cIdx
	if !intra {
		id += 3
	}
	return id
}

// applyRDPCMAccumulate applies implicit or explicit RDPCM reconstruction to
// a decoded residual value before dequantization, per spec.md §4.4.1 item
// 3: each coefficient accumulates the one immediately before it along the
// active direction. coeffs holds the running (pre-dequant) accumulated
// levels at already-visited positions, which is why this must run before
// dequantCoeff overwrites the slot.
func applyRDPCMAccumulate(coeffs []int16, n, x, y, level int, explicit, explicitVertical bool, intraPredMode int) int {
	vertical := explicitVertical
	if !explicit {
		vertical = intraPredMode == 26 // INTRA_ANGULAR26, the pure vertical mode
	}
	if vertical {
		if y > 0 {
			level += int(coeffs[(y-1)*n+x])
		}
	} else if x > 0 {
		level += int(coeffs[y*n+x-1])
	}
	return level
}
