package cbor

// swap.go implements spec.md §4.6: a small, fixed-capacity stack of
// {callback, pattern list} pairs, so a caller can temporarily hand off
// event delivery to a different callback (commonly, to run a dedicated
// parser over a tag's body) and restore the original afterward. It reuses
// the frame stack's shape (bounded, LIFO, push/pop with saved-state
// restore, lifecycle events fired on the transition), generalized from the
// teacher's per.Encoder recursive whole-number routines, which save and
// restore encoder state across a nested call the same way.
type parsingStack struct {
	cb       Callback
	patterns []string
}

// SwapCallback installs a new callback/pattern pair, saving the current
// one to be restored by RestoreCallback. It fires Destructed on the
// outgoing callback and Constructed on the incoming one, matching the
// normal Context lifecycle.
func (ctx *Context) SwapCallback(cb Callback, patterns []string) error {
	if ctx.swapTop >= ctx.maxSwaps {
		return ctx.fail(ErrCodeStackOverflow)
	}
	ctx.swaps[ctx.swapTop] = parsingStack{cb: ctx.cb, patterns: ctx.patterns}
	ctx.swapTop++

	ctx.lifecycle(EventDestructed)
	ctx.cb = cb
	ctx.patterns = patterns
	ctx.matchLocked = false
	ctx.pathMatch = 0
	ctx.lifecycle(EventConstructed)
	return nil
}

// RestoreCallback pops the most recently saved callback/pattern pair. It
// is a no-op error (ErrCodeBadCoding) to call it with nothing saved.
func (ctx *Context) RestoreCallback() error {
	if ctx.swapTop == 0 {
		return ctx.fail(ErrCodeBadCoding)
	}
	ctx.lifecycle(EventDestructed)
	ctx.swapTop--
	saved := ctx.swaps[ctx.swapTop]
	ctx.cb = saved.cb
	ctx.patterns = saved.patterns
	ctx.matchLocked = false
	ctx.pathMatch = 0
	ctx.lifecycle(EventConstructed)
	return nil
}
