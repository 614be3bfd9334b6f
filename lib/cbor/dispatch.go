package cbor

// dispatch.go is the byte dispatcher of spec.md §4.1: one call per input
// byte, routing on the active frame's sub-state, with no Go-level
// recursion: every piece of state needed to resume after a split Feed
// call lives in the frame stack or the Context itself.

func (ctx *Context) step(b byte) error {
	f := ctx.top()
	ctx.trace("byte", "step", "state", f.state, "b", b)
	switch f.state {
	case stateAwaitingOpcode:
		return ctx.dispatchOpcode(f, b)
	case stateCollectingHead:
		return ctx.collectHeadByte(f, b)
	case stateCollating:
		return ctx.collateByte(f, b)
	default:
		return ctx.fail(ErrCodeBadCoding)
	}
}

func (ctx *Context) dispatchOpcode(f *frame, b byte) error {
	major := b >> 5
	sm := b & 0x1f

	// Inside an open indefinite string only fragment heads of the same
	// major type and the closing break are legal.
	if f.kind == frameIndefiniteString && major != f.stringMajor && b != 0xff {
		return ctx.fail(ErrCodeBadCoding)
	}

	switch major {
	case 0, 1:
		return ctx.dispatchInt(f, major, sm)
	case 2, 3:
		return ctx.dispatchString(f, major, sm)
	case 4:
		return ctx.dispatchArray(f, sm)
	case 5:
		return ctx.dispatchMap(f, sm)
	case 6:
		return ctx.dispatchTag(f, sm)
	case 7:
		return ctx.dispatchSimple(f, sm)
	}
	return ctx.fail(ErrCodeBadCoding)
}

// dispatchInt handles major types 0 (unsigned) and 1 (negative). Sub-masks
// 28-31 are reserved for both: there is no length-28..31 encoding and no
// indefinite form for an integer.
func (ctx *Context) dispatchInt(f *frame, major, sm byte) error {
	if sm >= 28 {
		return ctx.fail(ErrCodeBadCoding)
	}
	if sm < 24 {
		return ctx.emitIntLiteral(major, uint64(sm))
	}
	kind := headUnsigned
	if major == 1 {
		kind = headNegative
	}
	f.beginHead(kind, 1<<(sm-24), 0)
	return nil
}

// dispatchString handles major types 2 (byte string) and 3 (text string).
// When the active frame is already an open indefinite string, this byte is
// a fragment head, not a fresh string: the major type must match the one
// that opened it, and the start event has already fired once and does not
// fire again.
func (ctx *Context) dispatchString(f *frame, major, sm byte) error {
	fragment := f.kind == frameIndefiniteString
	if fragment && major != f.stringMajor {
		return ctx.fail(ErrCodeBadCoding)
	}
	if sm >= 28 && sm != 31 {
		return ctx.fail(ErrCodeBadCoding)
	}
	if sm == 31 && fragment {
		// A fragment of an indefinite string must not itself be indefinite.
		return ctx.fail(ErrCodeBadCoding)
	}

	if !fragment {
		if err := ctx.beginString(f, major); err != nil {
			return err
		}
	}

	switch {
	case sm < 24:
		f.stringMajor = major
		return ctx.enterCollating(f, uint64(sm))
	case sm == 31:
		// New indefinite string: push its own frame so fragment heads can
		// be told apart from whatever follows once it closes. issueOnPop
		// is intentionally EventNone: the terminal event fires from the
		// break-triggered flush instead, carrying the trailing bytes.
		if err := ctx.push(frameIndefiniteString, true, 0, ctx.pathLen, EventNone); err != nil {
			return err
		}
		ctx.top().stringMajor = major
		return nil
	default: // 24..27
		f.stringMajor = major
		f.beginHead(headStringLen, 1<<(sm-24), 0)
		return nil
	}
}

func (ctx *Context) dispatchArray(f *frame, sm byte) error {
	if sm == 28 || sm == 29 || sm == 30 {
		return ctx.fail(ErrCodeBadCoding)
	}
	saveLen := ctx.pathLen
	if err := ctx.appendPath("[]"); err != nil {
		return err
	}
	if err := ctx.fireSimple(EventArrayStart); err != nil {
		return err
	}
	switch {
	case sm < 24:
		return ctx.enterArray(saveLen, uint64(sm), false)
	case sm == 31:
		return ctx.enterArray(saveLen, 0, true)
	default:
		f.beginHead(headArrayLen, 1<<(sm-24), saveLen)
		return nil
	}
}

// dispatchMap handles major type 5. The "." map keys splice into is only
// a *separator*: a map entered with an already-nonempty path (nested
// inside another map, array, or tag) gets one so its first key reads
// "<parent>.<key>", but a map at the very top of the path gets none, so
// its keys read as bare "<key>" (spec.md §8 Scenario 5: path "a.b", not
// ".a.b").
func (ctx *Context) dispatchMap(f *frame, sm byte) error {
	if sm == 28 || sm == 29 || sm == 30 {
		return ctx.fail(ErrCodeBadCoding)
	}
	saveLen := ctx.pathLen
	if saveLen > 0 {
		if err := ctx.appendPath("."); err != nil {
			return err
		}
	}
	if err := ctx.fireSimple(EventObjectStart); err != nil {
		return err
	}
	switch {
	case sm < 24:
		return ctx.enterMap(saveLen, uint64(sm), false)
	case sm == 31:
		return ctx.enterMap(saveLen, 0, true)
	default:
		f.beginHead(headMapPairLen, 1<<(sm-24), saveLen)
		return nil
	}
}

func (ctx *Context) dispatchTag(f *frame, sm byte) error {
	if sm >= 28 {
		return ctx.fail(ErrCodeBadCoding)
	}
	if sm < 24 {
		return ctx.enterTag(uint64(sm))
	}
	f.beginHead(headTagNumber, 1<<(sm-24), 0)
	return nil
}

// dispatchSimple handles major type 7: booleans, null, undefined, the
// simple-value extension byte, IEEE-754 floats, break, and (per spec.md
// §4.1's literal table) every other sub-mask value as an anonymous simple
// value.
func (ctx *Context) dispatchSimple(f *frame, sm byte) error {
	switch sm {
	case 20:
		return ctx.fireScalar(Value{Code: EventFalse})
	case 21:
		return ctx.fireScalar(Value{Code: EventTrue})
	case 22:
		return ctx.fireScalar(Value{Code: EventNull})
	case 23:
		return ctx.fireScalar(Value{Code: EventUndefined})
	case 24:
		f.beginHead(headSimpleExt, 1, 0)
		return nil
	case 25:
		f.beginHead(headFloat16, 2, 0)
		return nil
	case 26:
		f.beginHead(headFloat32, 4, 0)
		return nil
	case 27:
		f.beginHead(headFloat64, 8, 0)
		return nil
	case 31:
		return ctx.handleBreak()
	default:
		return ctx.fireScalar(Value{Code: EventSimple, Simple: sm})
	}
}

func (ctx *Context) enterArray(saveLen int, n uint64, indefinite bool) error {
	if n == 0 && !indefinite {
		return ctx.closeEmptyContainer(saveLen, EventArrayEnd)
	}
	return ctx.push(frameArray, indefinite, n, saveLen, EventArrayEnd)
}

// enterMap pushes the frame a map's key/value pairs are tracked in.
// keyBase is captured from ctx.pathLen here rather than threaded through
// as a parameter: for the short-form and indefinite cases that's the
// path length dispatchMap just left it at, and for the long-form case
// (length collected over several Feed calls via beginHead/headSaveLen)
// nothing touches the path between dispatch and here, so the value is
// identical either way.
func (ctx *Context) enterMap(saveLen int, pairs uint64, indefinite bool) error {
	remaining := pairs * 2
	if remaining == 0 && !indefinite {
		return ctx.closeEmptyContainer(saveLen, EventObjectEnd)
	}
	keyBase := ctx.pathLen
	if err := ctx.push(frameMap, indefinite, remaining, saveLen, EventObjectEnd); err != nil {
		return err
	}
	ctx.top().keyBase = keyBase
	return nil
}

// closeEmptyContainer handles the empty-array/empty-map shortcut: no frame
// is pushed (there are no children to track), but the path must still be
// restored to what it was before "[]"/"." was appended, exactly as a
// push-then-immediately-pop would have done.
func (ctx *Context) closeEmptyContainer(saveLen int, ev EventCode) error {
	ctx.rewindPath(saveLen)
	ctx.rematch()
	if err := ctx.fireSimple(ev); err != nil {
		return err
	}
	return ctx.completeItem()
}

func (ctx *Context) enterTag(tagNum uint64) error {
	if err := ctx.fireEvent(Value{Code: EventTagStart, Tag: tagNum}); err != nil {
		return err
	}
	return ctx.push(frameTag, false, 1, ctx.pathLen, EventTagEnd)
}

// handleBreak closes an indefinite-length array, map, or string. A break
// byte is legal only when the active frame is itself indefinite and
// sitting in stateAwaitingOpcode (no partial item pending).
func (ctx *Context) handleBreak() error {
	f := ctx.top()
	if !f.indefinite || f.state != stateAwaitingOpcode {
		return ctx.fail(ErrCodeBadCoding)
	}
	switch f.kind {
	case frameArray, frameMap:
		if err := ctx.popAndFire(f); err != nil {
			return err
		}
		return ctx.completeItem()
	case frameIndefiniteString:
		if err := ctx.flush(f, true); err != nil {
			return err
		}
		ctx.popSilent(f)
		return ctx.completeItem()
	default:
		return ctx.fail(ErrCodeBadCoding)
	}
}
