package cbor

import "math"

// head.go assembles the big-endian multi-byte heads that follow a sub-mask
// of 24-27: lengths, integer magnitudes, tag numbers, and IEEE-754 float
// bit patterns. The teacher's bitbuffer.Codec.Read has a fast path that
// loads an aligned field in one shot via encoding/binary.BigEndian; CBOR
// heads are always byte-aligned already, so the fast path collapses to
// plain shift-and-accumulate, one byte at a time, which is also exactly
// what resumability across Feed calls needs. Go has no use for the
// spec's host-endianness write-cursor trick (a C-ism for writing into a
// native integer via type punning); accumulating big-endian bytes with
// ordinary shifts produces the same native uint64 without it.
func (ctx *Context) collectHeadByte(f *frame, b byte) error {
	f.headValue = f.headValue<<8 | uint64(b)
	f.headGot++
	if f.headGot < f.headNeed {
		return nil
	}
	switch f.headKind {
	case headUnsigned:
		return ctx.emitIntLiteral(0, f.headValue)
	case headNegative:
		return ctx.emitIntLiteral(1, f.headValue)
	case headTagNumber:
		return ctx.enterTag(f.headValue)
	case headArrayLen:
		return ctx.enterArray(f.headSaveLen, f.headValue, false)
	case headMapPairLen:
		return ctx.enterMap(f.headSaveLen, f.headValue, false)
	case headStringLen:
		return ctx.enterCollating(f, f.headValue)
	case headFloat16:
		return ctx.fireScalar(Value{Code: EventFloat16, Uint: f.headValue & 0xffff})
	case headFloat32:
		return ctx.fireScalar(Value{Code: EventFloat32, Float32: math.Float32frombits(uint32(f.headValue))})
	case headFloat64:
		return ctx.fireScalar(Value{Code: EventFloat64, Float64: math.Float64frombits(f.headValue)})
	case headSimpleExt:
		v := byte(f.headValue)
		if v <= 31 {
			// RFC 8949 §3.3 forbids re-encoding implicit simple values
			// (0-19), and the reserved/break range (24-31) has no
			// meaning here either (spec.md §9(b)).
			return ctx.fail(ErrCodeBadCoding)
		}
		return ctx.fireScalar(Value{Code: EventSimple, Simple: v})
	default:
		return ctx.fail(ErrCodeBadCoding)
	}
}

// emitIntLiteral fires an unsigned or negative integer event. Negative
// values use the two's-complement identity -1-n == ^n (mod 2^64), which
// Go's unsigned wraparound computes exactly without an overflow check.
func (ctx *Context) emitIntLiteral(major byte, n uint64) error {
	if major == 0 {
		return ctx.fireScalar(Value{Code: EventUint, Uint: n})
	}
	return ctx.fireScalar(Value{Code: EventInt, Int: int64(^n)})
}

// fireScalar fires a self-contained scalar event (no container state to
// update beyond the usual completion bubble).
func (ctx *Context) fireScalar(v Value) error {
	if err := ctx.fireEvent(v); err != nil {
		return err
	}
	return ctx.completeItem()
}
