package hevcdec

// ScanIdx selects the coefficient scan order for a transform block. Only
// 4x4 and 8x8 luma intra blocks ever use anything but diagonal (spec.md
// §4.4.2, §4.6 Glossary "Subblock / CG").
type ScanIdx int

const (
	ScanDiag ScanIdx = iota
	ScanHoriz
	ScanVert
)

// scanPos is one (x, y) coefficient position within a transform block or
// subblock grid.
type scanPos struct{ x, y int }

// diagonalScan builds the up-right diagonal scan order for an n x n grid,
// matching the reference decoder's diag_scan4x4_inv/diag_scan2x2_inv
// tables (original_source/libavcodec/hevc_cabac.c) for n=4/n=2.
func diagonalScan(n int) []scanPos {
	out := make([]scanPos, 0, n*n)
	x, y := 0, 0
	for len(out) < n*n {
		for y >= 0 {
			if x < n && y < n {
				out = append(out, scanPos{x, y})
			}
			y--
			x++
		}
		y = x
		x = 0
	}
	return out
}

// horizontalScan builds the row-major scan order for an n x n grid (the
// reference decoder's horiz_scan4x4_x/y / horiz_scan2x2_x/y).
func horizontalScan(n int) []scanPos {
	out := make([]scanPos, 0, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			out = append(out, scanPos{x, y})
		}
	}
	return out
}

// verticalScan builds the column-major scan order for an n x n grid: the
// transpose of horizontalScan, used when the luma intra prediction mode
// favors vertical scanning (spec.md §4.4.2).
func verticalScan(n int) []scanPos {
	out := make([]scanPos, 0, n*n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			out = append(out, scanPos{x, y})
		}
	}
	return out
}

// scanAtGranularity returns the base scan order for an n x n grid under
// idx, with n typically 2 or 4 (a subblock or the grid of subblocks for a
// small transform).
func scanAtGranularity(n int, idx ScanIdx) []scanPos {
	switch idx {
	case ScanHoriz:
		return horizontalScan(n)
	case ScanVert:
		return verticalScan(n)
	default:
		return diagonalScan(n)
	}
}

// nestedScan builds the coefficient scan order for an n x n transform
// block (n = 4, 8, 16 or 32) by scanning a grid of 4x4 subblocks in scan
// order idx, and scanning each subblock's 16 positions in that same order
// (SPEC_FULL.md §6). This is grounded directly on the reference decoder's
// horiz_scan8x8_inv table, which shows the same nesting for the
// horizontal scan at size 8 (each row of 4 values repeats within a
// subblock before jumping to the next subblock's base offset) and on its
// explicit per-size selection of diag_scan2x2/diag_scan4x4/diag_scan8x8 as
// the "scan_x_cg" subblock-grid scan for sizes 8/16/32 respectively. Here
// both the subblock grid and the positions within each subblock follow
// idx. A 4x4 block is the degenerate case of a single subblock.
func nestedScan(n int, idx ScanIdx) []scanPos {
	if n <= 4 {
		return scanAtGranularity(n, idx)
	}
	groups := n / 4
	groupOrder := scanAtGranularity(groups, idx)
	within := scanAtGranularity(4, idx)

	out := make([]scanPos, 0, n*n)
	for _, g := range groupOrder {
		for _, p := range within {
			out = append(out, scanPos{g.x*4 + p.x, g.y*4 + p.y})
		}
	}
	return out
}

// subblockScan returns the CG (4x4 subblock) scan order for a transform
// block of size n: scanAtGranularity applied to the (n/4) x (n/4) grid of
// subblock indices.
func subblockScan(n int, idx ScanIdx) []scanPos {
	groups := n / 4
	if groups <= 1 {
		return []scanPos{{0, 0}}
	}
	return scanAtGranularity(groups, idx)
}

// scanTables caches the per-(size, scanIdx) flattened coefficient and
// subblock scan orders, built once at package init.
type scanTable struct {
	coeff    []scanPos
	subblock []scanPos
	// coeffIndex maps a raster position (y*n+x) to its index in coeff.
	coeffIndex []int
}

var scanTables = buildScanTables()

func buildScanTables() map[[2]int]scanTable {
	sizes := []int{4, 8, 16, 32}
	idxs := []ScanIdx{ScanDiag, ScanHoriz, ScanVert}
	m := make(map[[2]int]scanTable, len(sizes)*len(idxs))
	for _, n := range sizes {
		for _, idx := range idxs {
			coeff := nestedScan(n, idx)
			index := make([]int, n*n)
			for i, p := range coeff {
				index[p.y*n+p.x] = i
			}
			m[[2]int{n, int(idx)}] = scanTable{
				coeff:      coeff,
				subblock:   subblockScan(n, idx),
				coeffIndex: index,
			}
		}
	}
	return m
}

// scanOrder returns the cached coefficient scan and subblock scan for a
// transform block of size n under scan index idx.
func scanOrder(n int, idx ScanIdx) ([]scanPos, []scanPos) {
	t := scanTables[[2]int{n, int(idx)}]
	return t.coeff, t.subblock
}

// scanIndexOf returns the flat scan-order index of raster position (x, y)
// within an n x n grid scanned under idx.
func scanIndexOf(n int, idx ScanIdx, x, y int) int {
	return scanTables[[2]int{n, int(idx)}].coeffIndex[y*n+x]
}

// scanIdxFromIntraMode selects the scan order for 4x4/8x8 luma intra
// blocks from the intra prediction mode, per SPEC_FULL.md §7: modes 6..14
// favor vertical scan, 22..30 favor horizontal, everything else (including
// all chroma and inter blocks) uses diagonal.
func scanIdxFromIntraMode(size int, intraPredMode int, chroma bool) ScanIdx {
	if chroma || (size != 4 && size != 8) {
		return ScanDiag
	}
	switch {
	case intraPredMode >= 6 && intraPredMode <= 14:
		return ScanVert
	case intraPredMode >= 22 && intraPredMode <= 30:
		return ScanHoriz
	default:
		return ScanDiag
	}
}
