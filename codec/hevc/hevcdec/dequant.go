package hevcdec

// Dequantization constants and derivation, grounded on
// original_source/libavcodec/hevc_cabac.c's inline QP/scale computation in
// its residual-coding function (spec.md §4.4.4).

// levelScale is indexed by qp%6 (spec.md §4.4.4 "level_scale[]").
var levelScale = [6]int{40, 45, 51, 57, 64, 72}

// qpCTable maps a clipped chroma qp_i in [30,43] to the chroma QP for 4:2:0
// content, per Table 8-10.
var qpCTable = [14]int{29, 30, 31, 32, 33, 33, 34, 34, 35, 35, 36, 36, 37, 37}

// chromaQP derives the chroma QP from the luma QP, the PPS/slice chroma QP
// offsets, a cu_chroma_qp_offset (or 0 if none applies), the chroma format,
// and the SPS's QP bit-depth offset (spec.md §4.4.1 item 2).
func chromaQP(qpY, ppsOffset, sliceOffset, cuOffset, chromaFormatIDC, qpBDOffsetC int) int {
	qpi := clip3(-qpBDOffsetC, 57, qpY+ppsOffset+sliceOffset+cuOffset)
	var qp int
	switch {
	case chromaFormatIDC == 1: // 4:2:0
		switch {
		case qpi < 30:
			qp = qpi
		case qpi > 43:
			qp = qpi - 6
		default:
			qp = qpCTable[qpi-30]
		}
	default: // 4:2:2, 4:4:4
		qp = mini(qpi, 51)
	}
	return qp + qpBDOffsetC
}

// dequantScaleShift derives the (scale, shift) pair applied to every
// coefficient in a transform block, per spec.md §4.4.4: scale comes from
// level_scale[qp%6] left-shifted by qp/6 beyond what shift already accounts
// for, folded together so shift never goes negative.
func dequantScaleShift(qp, bitDepth, log2TrafoSize int) (scale, shift int) {
	shift = bitDepth + log2TrafoSize - 6
	scale = levelScale[qp%6]
	div6 := qp / 6
	if div6 >= shift {
		scale <<= uint(div6 - shift)
		shift = 0
	} else {
		shift -= div6
	}
	return scale, shift
}

// dequantCoeff applies the scale/shift/scaling-matrix factor to a decoded
// transform_coeff_level and saturates to int16, per the reference
// decoder's trans_scale_sat: ((level*scale*scale_m)>>shift + 1) >> 1,
// saturated (spec.md §4.4.4). For cu_transquant_bypass blocks the caller
// passes scale=2, scaleMatrixVal=1, shift=0, which reduces this to the
// identity (the unconditional final >>1 exactly undoes the factor of 2).
func dequantCoeff(level, scale, scaleMatrixVal, shift int) int16 {
	v := level * scale * scaleMatrixVal
	if shift > 0 {
		v >>= uint(shift)
	}
	v = (v + 1) >> 1
	return sat16(v)
}

// flatScaleMatrix16 is the default (no scaling-list) 8x8 matrix value used
// when SPS.ScalingListEnabled is false, or for transform-skip blocks where
// scaling lists never apply; bypass blocks use flatScaleMatrix1 instead.
const flatScaleMatrix16 = 16

// flatScaleMatrix1 is the per-coefficient factor for cu_transquant_bypass
// blocks, which skip quantization entirely: with bypassScaleShift's
// (scale=2, shift=0), dequantCoeff computes (level*2+1)>>1 = level, so no
// scaling is applied.
const flatScaleMatrix1 = 1

// bypassScaleShift returns the (scale, shift) pair for
// cu_transquant_bypass_flag blocks: paired with flatScaleMatrix1 in
// dequantCoeff, this reduces to the identity transform.
func bypassScaleShift() (scale, shift int) { return 2, 0 }

// scalingMatrixValue looks up the scaling-list factor for a coefficient at
// raster position pos (0..63 for the 8x8-downsampled grid used by 16x16
// and 32x32) within sizeIdx (0:4x4,1:8x8,2:16x16,3:32x32), matrixID, or
// returns the flat default when sl is nil.
func scalingMatrixValue(sl *ScalingList, sizeIdx, matrixID, pos int) int {
	if sl == nil {
		return flatScaleMatrix16
	}
	if pos == 0 && sizeIdx >= 2 {
		return int(sl.DCCoeff[sizeIdx-2][matrixID])
	}
	row := sl.Lists[sizeIdx][matrixID]
	if pos >= len(row) {
		return flatScaleMatrix16
	}
	return int(row[pos])
}
