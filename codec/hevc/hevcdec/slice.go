package hevcdec

import (
	"github.com/pkg/errors"

	"github.com/seaglass/hevc/codec/hevc/hevcdec/bits"
)

// SliceState is the per-slice decoder object (spec.md §3): it owns the
// context table, the arithmetic engine, the persistent Rice-adaptation
// statistics, and the read-only parameter structs a caller supplies.
type SliceState struct {
	Contexts  Contexts
	Engine    *Engine
	StatCoeff [4]uint8

	SPS         *SPS
	PPS         *PPS
	Header      *SliceHeader
	Neighbors   *NeighborState

	// savedContexts holds the WPP row-context snapshot (spec.md §4.6),
	// nil until the first save.
	savedContexts *[numContexts]uint8
}

// NewSliceState builds a SliceState for a fresh slice segment: it
// initializes the context table from the slice header and constructs the
// arithmetic engine from br (spec.md §4.1, §4.2).
func NewSliceState(sps *SPS, pps *PPS, sh *SliceHeader, nb *NeighborState, br *bits.BitReader) (*SliceState, error) {
	s := &SliceState{SPS: sps, PPS: pps, Header: sh, Neighbors: nb}
	s.Contexts.Init(sh.SliceType, sh.CabacInitFlag, sh.SliceQPY)
	e, err := NewEngine(br)
	if err != nil {
		return nil, errors.Wrap(err, "init arithmetic engine")
	}
	s.Engine = e
	return s, nil
}

// ctxIdx resolves a syntax element's base offset plus a local increment
// into an absolute context index.
func ctxIdx(se syntaxElement, inc int) int {
	return elemOffset[se] + inc
}

// decodeFlag decodes a single regular (context-coded) bin as a bool.
func (s *SliceState) decodeFlag(se syntaxElement, inc int) (bool, error) {
	b, err := s.Engine.DecodeBin(&s.Contexts, ctxIdx(se, inc))
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

// decodeBypassFlag decodes a single bypass bin as a bool.
func (s *SliceState) decodeBypassFlag() (bool, error) {
	b, err := s.Engine.DecodeBypass()
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

// decodeTruncatedUnary decodes a truncated-unary-binarized value up to and
// including cMax, using context se with per-bin increment given by ctxInc
// (or, if ctxInc is nil, bypass bins throughout). Terminates early if a 0
// bin is seen or cMax is reached.
func (s *SliceState) decodeTruncatedUnary(se syntaxElement, cMax int, ctxInc func(binIdx int) int) (int, error) {
	for i := 0; i < cMax; i++ {
		var bin int
		var err error
		if ctxInc == nil {
			bin, err = s.Engine.DecodeBypass()
		} else {
			bin, err = s.Engine.DecodeBin(&s.Contexts, ctxIdx(se, ctxInc(i)))
		}
		if err != nil {
			return 0, err
		}
		if bin == 0 {
			return i, nil
		}
		if i == CabacMaxBin-1 {
			return 0, errors.WithStack(ErrBinaryOverflow)
		}
	}
	return cMax, nil
}

// CabacMaxBin is the overflow cap on unary-style binarizations (spec.md
// §4.3's CABAC_MAX_BIN): a prefix that reaches this many bins without
// terminating is a bitstream-illegal condition.
const CabacMaxBin = 31

// decodeEGk decodes an Exp-Golomb order-k value using bypass bins
// throughout (spec.md §4.3): a prefix of 1 bins ended by a 0 bin, then
// prefix+k suffix bits. Used for the MVD remainder and the cu_qp_delta_abs
// tail.
func (s *SliceState) decodeEGk(k int) (int, error) {
	prefix := 0
	for {
		b, err := s.Engine.DecodeBypass()
		if err != nil {
			return 0, err
		}
		if b == 0 {
			break
		}
		prefix++
		if prefix >= CabacMaxBin {
			return 0, errors.WithStack(ErrBinaryOverflow)
		}
	}
	suffixBits := prefix + k
	suffix := 0
	if suffixBits > 0 {
		v, err := s.Engine.DecodeBypassBits(suffixBits)
		if err != nil {
			return 0, err
		}
		suffix = v
	}
	return (((1 << uint(prefix)) - 1) << uint(k)) + suffix, nil
}

// SaveContexts snapshots the live context table for WPP row propagation
// (spec.md §4.6): called after the second CTB of a row has been decoded
// when entropy_coding_sync is enabled.
func (s *SliceState) SaveContexts() {
	snap := s.Contexts.Snapshot()
	s.savedContexts = &snap
	logger.Debugw("saved wpp row context snapshot")
}

// LoadContexts restores the previously saved row-context snapshot at the
// start of a new CTB row (spec.md §4.6). It is an error to call this
// before a snapshot exists.
func (s *SliceState) LoadContexts() error {
	if s.savedContexts == nil {
		return errors.WithStack(ErrInvariantViolation)
	}
	s.Contexts.Restore(*s.savedContexts)
	logger.Debugw("restored wpp row context snapshot")
	return nil
}

// ReinitTile hard-reinitializes both the context table and the arithmetic
// engine at a tile boundary (spec.md §4.6): tile crossings never carry WPP
// row context forward.
func (s *SliceState) ReinitTile(br *bits.BitReader) error {
	s.Contexts.Init(s.Header.SliceType, s.Header.CabacInitFlag, s.Header.SliceQPY)
	if err := s.Engine.ReinitHard(br); err != nil {
		return errors.Wrap(err, "reinit engine at tile boundary")
	}
	logger.Debugw("tile boundary hard reinit")
	return nil
}
