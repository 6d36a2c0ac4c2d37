package hevcdec

// Significance-map context tables, transcribed from the reference
// decoder's D4x4/H4x4/V4x4-expanded ctx_idx_maps and ctx_idx_maps_ts2
// (original_source/libavcodec/hevc_cabac.c). Each 16-entry map is indexed
// by the within-subblock scan position n under its scan index; for
// ScanHoriz that order is raster order (n = yP*4+xP).
//
// sigCtxMaps[scanIdx][prevCsbf] is the 16-entry map used for log2TrafoSize
// > 2 subblocks; sigCtxMapsTS2[scanIdx] is the dedicated map used when
// log2TrafoSize == 2 (the whole transform block is a single subblock).
var sigCtxMaps = [3][4][16]int{
	ScanDiag: {
		{1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{2, 1, 2, 0, 1, 2, 0, 0, 1, 2, 0, 0, 1, 0, 0, 0},
		{2, 2, 1, 2, 1, 0, 2, 1, 0, 0, 1, 0, 0, 0, 0, 0},
		{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
	},
	ScanHoriz: {
		{1, 1, 1, 0, 1, 1, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0},
		{2, 2, 2, 2, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0},
		{2, 1, 0, 0, 2, 1, 0, 0, 2, 1, 0, 0, 2, 1, 0, 0},
		{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
	},
	ScanVert: {
		{1, 1, 1, 0, 1, 1, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0},
		{2, 1, 0, 0, 2, 1, 0, 0, 2, 1, 0, 0, 2, 1, 0, 0},
		{2, 2, 2, 2, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0},
		{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
	},
}

var sigCtxMapsTS2 = [3][16]int{
	ScanDiag:  {0, 2, 1, 6, 3, 4, 7, 6, 4, 5, 7, 8, 5, 8, 8, 8},
	ScanHoriz: {0, 1, 4, 5, 2, 3, 4, 5, 6, 6, 8, 8, 7, 7, 8, 8},
	ScanVert:  {0, 2, 6, 7, 1, 3, 6, 7, 4, 4, 8, 8, 5, 5, 8, 8},
}

// prevCsbf derives the 2-bit "previous coded subblock flag" pattern from
// the right and below subblocks' sig_coeff_group_flag, per spec.md §4.4.3
// item 1: bit 0 from the right neighbor, bit 1 from the below neighbor.
func prevCsbf(sigGroup *[8][8]bool, xCG, yCG, numCG int) int {
	v := 0
	if xCG < numCG-1 && sigGroup[xCG+1][yCG] {
		v |= 1
	}
	if yCG < numCG-1 && sigGroup[xCG][yCG+1] {
		v |= 2
	}
	return v
}
