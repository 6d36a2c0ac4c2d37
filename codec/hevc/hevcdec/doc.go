// Package hevcdec implements the CABAC entropy-decoding core of an HEVC
// (H.265) video decoder: the binary arithmetic engine, the 188-context
// probability-state table, the per-syntax-element decoders, and the
// residual (transform-coefficient) decoder, including sign-data-hiding and
// persistent Rice-parameter adaptation.
//
// Bitstream parsing (NAL units, SPS/PPS/slice headers), inverse
// transforms, prediction, in-loop filtering, frame-buffer management and
// encoding are out of scope; callers supply SPS/PPS/SliceHeader/
// NeighborState as plain data and consume decoded syntax values and
// dequantized coefficients.
package hevcdec
