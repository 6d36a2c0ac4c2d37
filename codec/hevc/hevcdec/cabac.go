package hevcdec

import (
	"github.com/pkg/errors"

	"github.com/seaglass/hevc/codec/hevc/hevcdec/bits"
)

// Engine is the renormalized binary arithmetic decoding engine of spec.md
// §4.1: a current range, a current value ("offset") register, and a
// byte-bounded bit cursor. It is stateful and must not be shared across
// concurrent decodes (spec.md §5).
type Engine struct {
	br         *bits.BitReader
	codIRange  int
	codIOffset int
}

// NewEngine constructs an Engine and performs the hard initialization of
// spec.md §4.1: skip the alignment marker bit, byte-align, then preload
// the value register from the next 9 bits.
func NewEngine(br *bits.BitReader) (*Engine, error) {
	e := &Engine{}
	if err := e.ReinitHard(br); err != nil {
		return nil, err
	}
	return e, nil
}

// ReinitHard points the engine at a fresh byte cursor and reloads range and
// value from it; used at slice-segment start and at a tile boundary.
func (e *Engine) ReinitHard(br *bits.BitReader) error {
	if _, err := br.ReadBit(); err != nil {
		return errors.Wrap(ErrTruncatedBitstream, "skip cabac alignment bit")
	}
	br.Align()
	v, err := br.ReadBits(9)
	if err != nil {
		return errors.Wrap(ErrTruncatedBitstream, "preload codIOffset")
	}
	e.br = br
	e.codIRange = 510
	e.codIOffset = int(v)
	return nil
}

// ReinitSoft resets only the range, keeping the value register and byte
// cursor as they are; used when a WPP substream boundary is crossed but the
// same engine instance continues decoding.
func (e *Engine) ReinitSoft() {
	e.codIRange = 510
}

// DecodeBin decodes one bin under context ctxIdx, updating ctx's state via
// the table 9-47 transition rule.
func (e *Engine) DecodeBin(ctx *Contexts, ctxIdx int) (int, error) {
	qRangeIdx := (e.codIRange >> 6) & 3
	pState := ctx.pStateIdx(ctxIdx)
	rangeLPS := codIRangeLPS(pState, qRangeIdx)

	e.codIRange -= rangeLPS

	var bin int
	if e.codIOffset >= e.codIRange {
		bin = 1 - ctx.valMPS(ctxIdx)
		e.codIOffset -= e.codIRange
		e.codIRange = rangeLPS
	} else {
		bin = ctx.valMPS(ctxIdx)
	}
	ctx.update(ctxIdx, bin)

	if err := e.renorm(); err != nil {
		return 0, err
	}
	return bin, nil
}

// DecodeBypass decodes one equiprobable bin.
func (e *Engine) DecodeBypass() (int, error) {
	e.codIOffset <<= 1
	bit, err := e.br.ReadBit()
	if err != nil {
		return 0, errors.Wrap(ErrTruncatedBitstream, "decode bypass bin")
	}
	e.codIOffset |= bit

	if e.codIOffset >= e.codIRange {
		e.codIOffset -= e.codIRange
		return 1, nil
	}
	return 0, nil
}

// DecodeBypassBits decodes n bypass bins MSB-first into a single integer,
// for the fixed-length and EGk-suffix binarizations of spec.md §4.3.
func (e *Engine) DecodeBypassBits(n int) (int, error) {
	v := 0
	for i := 0; i < n; i++ {
		b, err := e.DecodeBypass()
		if err != nil {
			return 0, err
		}
		v = (v << 1) | b
	}
	return v, nil
}

// DecodeTerminate decodes the special terminating bin. A return of 1 means
// end of slice/substream; the engine must not be used again without a
// reinit.
func (e *Engine) DecodeTerminate() (int, error) {
	e.codIRange -= 2
	if e.codIOffset >= e.codIRange {
		return 1, nil
	}
	if err := e.renorm(); err != nil {
		return 0, err
	}
	return 0, nil
}

// renorm doubles range and shifts in fresh bits until range is back in
// [256, 510].
func (e *Engine) renorm() error {
	for e.codIRange < 256 {
		e.codIRange <<= 1
		e.codIOffset <<= 1
		bit, err := e.br.ReadBit()
		if err != nil {
			return errors.Wrap(ErrTruncatedBitstream, "renormalize engine")
		}
		e.codIOffset |= bit
	}
	return nil
}
