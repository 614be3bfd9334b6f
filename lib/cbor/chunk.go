package cbor

// chunk.go implements spec.md §4.4: string bytes are collated into a fixed
// scratch buffer and flushed to the callback either when the buffer fills
// to capacity-1 or when the current fragment's byte budget reaches zero.
// Map keys are spliced into the path buffer as they stream in, not only
// once the key finishes, so a key longer than the scratch buffer still
// ends up in full in the path.

// beginString fires the one str_start/blob_start event for a new logical
// string (never called again for subsequent fragments of an indefinite
// string already open). If this string is an even-ordinal child of a map
// frame, it is a key: the path is rewound to the map's key slot right
// away, before the start event fires, so the callback already sees the
// map's path with the stale key cleared. The match for that rewound path
// is recorded but not locked, so the key bytes spliced in next are
// matched afresh.
func (ctx *Context) beginString(f *frame, major byte) error {
	isKey := f.kind == frameMap && f.ordinal%2 == 0
	ctx.curStrIsKey = isKey
	if isKey {
		ctx.curKeyOffset = f.keyBase
		ctx.rewindPath(ctx.curKeyOffset)
		ctx.rematch()
		ctx.matchLocked = false
	}
	code := EventStrStart
	if major == 2 {
		code = EventBlobStart
	}
	return ctx.fireSimple(code)
}

// enterCollating sets the active frame's fragment byte budget and, if that
// budget is already zero (an empty string or empty fragment), flushes
// immediately rather than waiting for a byte that will never arrive.
func (ctx *Context) enterCollating(f *frame, n uint64) error {
	f.strRemaining = n
	f.state = stateCollating
	if n == 0 {
		return ctx.flush(f, false)
	}
	return nil
}

// collateByte appends one fragment byte to the scratch buffer, flushing
// when it fills to capacity-1 or the fragment's budget is exhausted.
func (ctx *Context) collateByte(f *frame, b byte) error {
	ctx.scratch[ctx.scratchLen] = b
	ctx.scratchLen++
	f.strRemaining--
	if ctx.scratchLen == len(ctx.scratch)-1 || f.strRemaining == 0 {
		return ctx.flush(f, false)
	}
	return nil
}

// flush delivers whatever is currently buffered. isFinalBreak is set only
// by the break handler closing an indefinite string, forcing an end event
// with (possibly zero) trailing bytes even though the frame itself is of
// kind frameIndefiniteString. Otherwise a flush is a body event if either
// more bytes remain in the current fragment, or the active frame is an
// indefinite string's fragment frame (more fragments may still arrive);
// it is an end event otherwise.
func (ctx *Context) flush(f *frame, isFinalBreak bool) error {
	isEnd := isFinalBreak || !(f.strRemaining > 0 || f.kind == frameIndefiniteString)

	major := f.stringMajor
	code := bodyEvent(major)
	if isEnd {
		code = endEvent(major)
	}

	chunk := ctx.scratch[:ctx.scratchLen]
	if ctx.curStrIsKey {
		if err := ctx.appendPathBytes(chunk); err != nil {
			return err
		}
	}

	f.intermediate = !isEnd
	ctx.scratchLen = 0
	if f.strRemaining == 0 {
		// This fragment (the whole string, for a definite one) is
		// exhausted: return the frame to awaiting-opcode so the next byte
		// is read as a fresh head rather than more string data.
		f.state = stateAwaitingOpcode
	}

	if err := ctx.fireEvent(Value{Code: code, Bytes: chunk}); err != nil {
		return err
	}

	if !isEnd {
		return nil
	}
	ctx.curStrIsKey = false
	if isFinalBreak {
		// The frame is still on the stack; the break handler pops it
		// (no pop event; this flush already delivered the terminal one)
		// and bubbles completion itself.
		return nil
	}
	return ctx.completeItem()
}

func bodyEvent(major byte) EventCode {
	if major == 2 {
		return EventBlobChunk
	}
	return EventStrChunk
}

func endEvent(major byte) EventCode {
	if major == 2 {
		return EventBlobEnd
	}
	return EventStrEnd
}
