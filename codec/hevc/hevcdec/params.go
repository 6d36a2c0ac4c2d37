package hevcdec

// SliceType identifies the slice coding type, carried in the slice header
// and used to select the context-initialization row (spec.md §4.2).
type SliceType int

const (
	SliceB SliceType = iota
	SliceP
	SliceI
)

// ScalingList carries the per-size, per-matrix-id quantization scaling
// factors selected by the PPS/SPS (spec.md §4.4.1 item 2, "scaling matrix
// selection"). A nil *ScalingList means the flat (default) matrix applies.
type ScalingList struct {
	// Sizes 0..3 correspond to 4x4, 8x8, 16x16, 32x32. MatrixID indexes
	// the up-to-6 matrices defined for a given size (fewer for 32x32).
	Lists [4][][]uint8

	// DCCoeff carries the separately-signaled DC value for 16x16/32x32
	// matrices (the scan omits position 0 for those sizes).
	DCCoeff [2][]uint8
}

// SPS carries the subset of sequence parameter set fields this core's
// residual and context-selection logic consumes (spec.md §6).
type SPS struct {
	BitDepthLuma, BitDepthChroma int
	ChromaFormatIDC              int
	Log2CTBSize, Log2MinCBSize   int

	AMPEnabled                      bool
	ScalingListEnabled              bool
	TransformSkipContextEnabled     bool
	ExplicitRDPCMEnabled            bool
	ImplicitRDPCMEnabled            bool
	TransformSkipRotationEnabled    bool
	PersistentRiceAdaptationEnabled bool

	QPBDOffsetY, QPBDOffsetC int
}

// PPS carries the subset of picture parameter set fields this core
// consumes (spec.md §6).
type PPS struct {
	EntropyCodingSyncEnabled bool
	TilesEnabled             bool
	// TileID maps a raster CTB address to its tile index; nil when
	// TilesEnabled is false.
	TileID func(ctbAddr int) int

	TransformSkipEnabled     bool
	Log2MaxTransformSkipSize int

	SignDataHidingEnabled bool

	CbQPOffset, CrQPOffset int
	ChromaQPOffsetList     []int

	ScalingList *ScalingList
}

// SliceHeader carries the subset of slice-segment-header fields this core
// consumes (spec.md §6).
type SliceHeader struct {
	SliceType     SliceType
	CabacInitFlag bool
	SliceQPY      int

	SliceCbQPOffset, SliceCrQPOffset int

	DependentSliceSegment bool
	FirstSliceInPic       bool

	MaxNumMergeCand int
}

// NeighborState carries the availability flags and per-min-CB bookkeeping
// arrays a caller must supply so context-offset derivation (spec.md §4.3)
// can consult left/above neighbors without this core owning a full picture
// buffer.
type NeighborState struct {
	// MinCBLog2SizeY is the log2 minimum coding-block size, used to scale
	// a pixel position down to an index into the per-min-CB arrays below.
	MinCBLog2SizeY int

	// PicWidthInMinCBs is the stride used to address the per-min-CB
	// arrays by (x, y) in min-CB units.
	PicWidthInMinCBs int

	SkipFlag []bool
	CtDepth  []uint8

	// Available reports whether the min-CB at (x, y) in luma-sample
	// coordinates has already been decoded and lies within the same
	// slice segment and tile as the current block.
	Available func(x, y int) bool
}

// minCBIndex converts luma-sample coordinates to an index into
// NeighborState's per-min-CB arrays.
func (n *NeighborState) minCBIndex(x, y int) int {
	s := n.MinCBLog2SizeY
	return (y>>uint(s))*n.PicWidthInMinCBs + (x >> uint(s))
}

// neighborSkipFlag returns skip_flag at (x, y) if available, else false.
func (n *NeighborState) neighborSkipFlag(x, y int) bool {
	if n.Available == nil || !n.Available(x, y) {
		return false
	}
	return n.SkipFlag[n.minCBIndex(x, y)]
}

// neighborCtDepth returns CtDepth at (x, y) if available, else 0.
func (n *NeighborState) neighborCtDepth(x, y int) uint8 {
	if n.Available == nil || !n.Available(x, y) {
		return 0
	}
	return n.CtDepth[n.minCBIndex(x, y)]
}
