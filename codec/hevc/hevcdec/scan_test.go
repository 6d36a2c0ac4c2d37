package hevcdec

import "testing"

// TestDiagonalScan4x4 checks the up-right diagonal scan against the
// reference decoder's diag_scan4x4_inv table (original_source).
func TestDiagonalScan4x4(t *testing.T) {
	want := []scanPos{
		{0, 0},
		{0, 1}, {1, 0},
		{0, 2}, {1, 1}, {2, 0},
		{0, 3}, {1, 2}, {2, 1}, {3, 0},
		{1, 3}, {2, 2}, {3, 1},
		{2, 3}, {3, 2},
		{3, 3},
	}
	got := diagonalScan(4)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pos[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// TestVerticalScanIsHorizontalTranspose checks verticalScan(n) visits the
// transpose of horizontalScan(n) in the same order.
func TestVerticalScanIsHorizontalTranspose(t *testing.T) {
	for _, n := range []int{2, 4} {
		h := horizontalScan(n)
		v := verticalScan(n)
		for i := range h {
			if v[i].x != h[i].y || v[i].y != h[i].x {
				t.Errorf("n=%d: vertical[%d] = %+v, want transpose of horizontal[%d] = %+v", n, i, v[i], i, h[i])
			}
		}
	}
}

// TestNestedScanCoversEveryPosition checks that nestedScan visits every
// (x, y) position in an n x n grid exactly once, for every supported size
// and scan order.
func TestNestedScanCoversEveryPosition(t *testing.T) {
	for _, n := range []int{4, 8, 16, 32} {
		for _, idx := range []ScanIdx{ScanDiag, ScanHoriz, ScanVert} {
			seen := make(map[scanPos]bool, n*n)
			for _, p := range nestedScan(n, idx) {
				if seen[p] {
					t.Fatalf("n=%d idx=%v: position %+v visited twice", n, idx, p)
				}
				seen[p] = true
			}
			if len(seen) != n*n {
				t.Fatalf("n=%d idx=%v: visited %d positions, want %d", n, idx, len(seen), n*n)
			}
		}
	}
}

// TestNestedScan8x8MatchesSubblockNesting checks that the first 16 entries
// of the size-8 horizontal scan stay within the first 4x4 subblock, and the
// next 16 move to the subblock to its right - the nesting behavior
// grounded on horiz_scan8x8_inv (original_source).
func TestNestedScan8x8MatchesSubblockNesting(t *testing.T) {
	got := nestedScan(8, ScanHoriz)
	for i := 0; i < 16; i++ {
		if got[i].x >= 4 || got[i].y >= 4 {
			t.Fatalf("position %d = %+v, want within first 4x4 subblock", i, got[i])
		}
	}
	for i := 16; i < 32; i++ {
		if got[i].x < 4 || got[i].y >= 4 {
			t.Fatalf("position %d = %+v, want within the subblock to the right", i, got[i])
		}
	}
}

// TestScanIndexOfRoundTrips checks that scanIndexOf inverts the coeff scan
// built by scanOrder for every position.
func TestScanIndexOfRoundTrips(t *testing.T) {
	n := 8
	coeff, _ := scanOrder(n, ScanDiag)
	for i, p := range coeff {
		if got := scanIndexOf(n, ScanDiag, p.x, p.y); got != i {
			t.Errorf("scanIndexOf(%d, diag, %d, %d) = %d, want %d", n, p.x, p.y, got, i)
		}
	}
}

// TestSubblockScanSingleForSmallBlocks checks that 4x4 transforms (which
// have no subblock concept) report a single subblock at the origin.
func TestSubblockScanSingleForSmallBlocks(t *testing.T) {
	_, sub := scanOrder(4, ScanDiag)
	if len(sub) != 1 || sub[0] != (scanPos{0, 0}) {
		t.Fatalf("subblock scan for 4x4 = %+v, want single origin subblock", sub)
	}
}

func TestScanIdxFromIntraMode(t *testing.T) {
	cases := []struct {
		size, mode int
		chroma     bool
		want       ScanIdx
	}{
		{4, 10, false, ScanVert},
		{8, 26, false, ScanHoriz},
		{4, 1, false, ScanDiag},
		{16, 10, false, ScanDiag}, // only 4x4/8x8 luma special-case
		{4, 10, true, ScanDiag},   // chroma always diagonal
	}
	for _, c := range cases {
		if got := scanIdxFromIntraMode(c.size, c.mode, c.chroma); got != c.want {
			t.Errorf("scanIdxFromIntraMode(%d, %d, %v) = %v, want %v", c.size, c.mode, c.chroma, got, c.want)
		}
	}
}
