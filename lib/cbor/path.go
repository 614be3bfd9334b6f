package cbor

// path.go implements the dotted path buffer and the wildcard pattern
// matcher described in spec.md §4.3. The path buffer is a fixed-capacity
// byte slice sized at New; Go's length-prefixed slices make the spec's
// null-termination concern moot, so pathLen alone is the source of truth
// for the current path's extent.

// appendPath grows the path buffer by s, failing with ErrCodeStackOverflow
// if that would exceed the fixed capacity allocated at New.
func (ctx *Context) appendPath(s string) error {
	if ctx.pathLen+len(s) > len(ctx.path) {
		return ctx.fail(ErrCodeStackOverflow)
	}
	copy(ctx.path[ctx.pathLen:], s)
	ctx.pathLen += len(s)
	ctx.maybeMatch()
	return nil
}

// appendPathBytes appends raw key bytes (streamed in as a map key string
// assembles, possibly across several flushes) to the path buffer.
func (ctx *Context) appendPathBytes(b []byte) error {
	if ctx.pathLen+len(b) > len(ctx.path) {
		return ctx.fail(ErrCodeStackOverflow)
	}
	copy(ctx.path[ctx.pathLen:], b)
	ctx.pathLen += len(b)
	ctx.maybeMatch()
	return nil
}

// rewindPath truncates the path buffer back to n without triggering a
// match attempt by itself: callers run rematch themselves right after.
func (ctx *Context) rewindPath(n int) {
	ctx.pathLen = n
}

// pathBytes returns the current dotted path aliasing the Context's own
// path buffer, the way Bytes and Wildcards already alias scratch/wildcard
// storage. Callers (fireEvent, lifecycle, fail) must not retain it past
// the callback invocation it is handed to.
func (ctx *Context) pathBytes() []byte {
	return ctx.path[:ctx.pathLen]
}

// Path returns the current dotted path as a freshly copied string. Unlike
// pathBytes, the result is safe to retain; it is meant for callers outside
// the per-byte hot path (tests, tracing, introspection between Feed
// calls), not for use inside the event-firing loop.
func (ctx *Context) Path() string {
	return string(ctx.pathBytes())
}

// Depth reports how many containers/tags/indefinite strings are currently
// open (0 at the top level, between items).
func (ctx *Context) Depth() int {
	return ctx.depth
}

// Idle reports whether the Context is at the top level awaiting a fresh
// item: the state it reaches after every complete top-level value, per
// spec.md §8 invariant 3.
func (ctx *Context) Idle() bool {
	return ctx.depth == 0 && ctx.frames[0].state == stateAwaitingOpcode
}

// PathMatch returns the 1-based index of the pattern that currently
// matches the path (0 if none).
func (ctx *Context) PathMatch() int {
	return ctx.pathMatch
}

// PathMatchLen returns the path length at the moment the current match
// was recorded.
func (ctx *Context) PathMatchLen() int {
	return ctx.pathMatchLen
}

// Wildcards returns the start offsets (into the path string) of each
// wildcard segment in the current match, truncated silently if there were
// more wildcards than the fixed slot count allocated at New (spec.md
// §9(a)). The returned slice aliases Context-owned storage; copy it if it
// must outlive the current callback.
func (ctx *Context) Wildcards() []int {
	return ctx.wildcards[:ctx.wildcardCount]
}

// maybeMatch attempts a match only if none is currently locked in: once a
// pattern matches, it stays authoritative until a pop or the start of the
// next map key invalidates it.
func (ctx *Context) maybeMatch() {
	if ctx.matchLocked {
		return
	}
	ctx.runMatch()
}

// rematch is the unconditional form used after every pop.
func (ctx *Context) rematch() {
	ctx.matchLocked = false
	ctx.runMatch()
}

func (ctx *Context) runMatch() {
	path := ctx.path[:ctx.pathLen]
	for i, pattern := range ctx.patterns {
		n, ok := matchPattern(pattern, path, ctx.wildcards)
		if ok {
			ctx.pathMatch = i + 1
			ctx.pathMatchLen = ctx.pathLen
			ctx.wildcardCount = n
			ctx.matchLocked = true
			return
		}
	}
	ctx.pathMatch = 0
	ctx.pathMatchLen = 0
	ctx.wildcardCount = 0
}

// matchPattern matches pattern against path. '*' in the pattern consumes
// path bytes up to the next '.' (or the end of the path); the offset each
// wildcard segment started at is written into offsets (a fixed-capacity
// slice sized at New), returning how many were recorded. Once offsets
// fills up, further wildcard starts are silently dropped; the match
// itself is unaffected, only the reported positions truncate (spec.md
// §9(a)).
func matchPattern(pattern string, path []byte, offsets []int) (int, bool) {
	pi, ppos, n := 0, 0, 0
	for pi < len(pattern) {
		c := pattern[pi]
		if c == '*' {
			start := ppos
			for ppos < len(path) && path[ppos] != '.' {
				ppos++
			}
			if n < len(offsets) {
				offsets[n] = start
				n++
			}
			pi++
			continue
		}
		if ppos >= len(path) || path[ppos] != c {
			return 0, false
		}
		pi++
		ppos++
	}
	if ppos != len(path) {
		return 0, false
	}
	return n, true
}
