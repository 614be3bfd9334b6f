package cbor

// frameKind identifies what a stack frame represents.
type frameKind uint8

const (
	frameRoot frameKind = iota
	frameArray
	frameMap
	frameTag
	frameIndefiniteString
)

// subState is the position a frame occupies in the byte-level state
// machine. Only the top-of-stack frame is ever in collectingHead or
// collating; every other frame is implicitly parked at awaitingOpcode,
// resumed there the moment its own child frame pops back to it.
type subState uint8

const (
	stateAwaitingOpcode subState = iota
	stateCollectingHead
	stateCollating
)

// headKind discriminates what collectHeadByte is assembling once a
// multi-byte head finishes. The teacher's bitbuffer.Codec.Read fast path
// loads a whole aligned field in one shot via encoding/binary; the frame
// stack version collects the same big-endian bytes one at a time so a
// head split across Feed calls resumes exactly where it left off.
type headKind uint8

const (
	headNone headKind = iota
	headUnsigned
	headNegative
	headTagNumber
	headArrayLen
	headMapPairLen
	headStringLen
	headFloat16
	headFloat32
	headFloat64
	headSimpleExt
)

// frame is one entry in the frame stack. It is reused in place (push
// overwrites, pop just decrements the stack pointer) so no allocation
// happens past Context construction.
type frame struct {
	kind       frameKind
	state      subState
	indefinite bool

	remaining uint64 // items (arrays), 2*pairs (maps), 1 (tag), or unused (root/string)
	ordinal   uint64 // children completed so far; doubles as array index and map key/value parity

	pathSaveLen int       // path length to restore when this frame pops
	issueOnPop  EventCode // event fired on pop; EventNone means the caller fires it explicitly

	// keyBase is, for a frameMap frame only, the path offset a key
	// string splices into: the path length right after this map's own
	// separator (if any) was appended, before any key has been written.
	keyBase int

	// Head-collection bookkeeping. Valid only while state == stateCollectingHead,
	// and only for the frame currently on top of the stack.
	headKind    headKind
	headNeed    int
	headGot     int
	headValue   uint64
	headSaveLen int // path length saved before an array/map head started collecting

	// String-collation bookkeeping. Valid only while state == stateCollating,
	// or between fragments of an indefinite string (kind == frameIndefiniteString).
	strRemaining uint64
	stringMajor  byte // 2 (byte string) or 3 (text string)
	intermediate bool // true once at least one body flush has fired without a matching end
}

func (f *frame) beginHead(kind headKind, need int, saveLen int) {
	f.headKind = kind
	f.headNeed = need
	f.headGot = 0
	f.headValue = 0
	f.headSaveLen = saveLen
	f.state = stateCollectingHead
}

// top returns the active frame: the one currently being decoded.
func (ctx *Context) top() *frame {
	return &ctx.frames[ctx.depth]
}

// push installs a new frame above the current top. It fails with
// ErrCodeStackOverflow once the fixed-capacity frame slice (sized at New)
// is exhausted: the frame stack never grows after construction.
func (ctx *Context) push(kind frameKind, indefinite bool, remaining uint64, pathSaveLen int, issueOnPop EventCode) error {
	if ctx.depth+1 >= len(ctx.frames) {
		return ctx.fail(ErrCodeStackOverflow)
	}
	ctx.depth++
	f := &ctx.frames[ctx.depth]
	*f = frame{
		kind:        kind,
		state:       stateAwaitingOpcode,
		indefinite:  indefinite,
		remaining:   remaining,
		pathSaveLen: pathSaveLen,
		issueOnPop:  issueOnPop,
	}
	return nil
}

// popAndFire restores the path to what it was before this frame's
// container was entered, drops the frame, re-runs path matching
// unconditionally (a pop, like the start of a new map key, invalidates a
// locked match), then fires the frame's pop event, if any.
func (ctx *Context) popAndFire(f *frame) error {
	ev := f.issueOnPop
	ctx.pathLen = f.pathSaveLen
	ctx.depth--
	ctx.rematch()
	if ev == EventNone {
		return nil
	}
	return ctx.fireSimple(ev)
}

// popSilent is popAndFire without a pop event, used when the caller (the
// break handler) has already fired the terminal event itself via a flush.
func (ctx *Context) popSilent(f *frame) {
	ctx.pathLen = f.pathSaveLen
	ctx.depth--
	ctx.rematch()
}

// completeItem bubbles a just-finished item up through ancestor frames:
// each ancestor's ordinal advances by one (doubling as the array index or
// the map key/value parity counter); a determinate ancestor whose
// remaining count reaches zero pops and the bubble continues into its own
// parent, since closing it is itself the completion of one item one level
// up. An indefinite ancestor absorbs the completion and stops: it only
// closes on an explicit break.
func (ctx *Context) completeItem() error {
	for {
		f := ctx.top()
		f.ordinal++
		if f.indefinite {
			return nil
		}
		if f.remaining > 0 {
			f.remaining--
		}
		if f.remaining != 0 {
			return nil
		}
		if err := ctx.popAndFire(f); err != nil {
			return err
		}
	}
}
