package cbor

// Context is a single streaming CBOR parser. Every buffer it owns
// (the frame stack, the path buffer, the scratch buffer, the wildcard
// offset slots, the parser-swap stack) is sized once at New and never
// grows again: spec.md §5 forbids dynamic allocation past construction,
// the one invariant the teacher's bitbuffer.Codec does not share (its
// grow is exponential and can run at any time; here it can only run once,
// before the first Feed).
type Context struct {
	cb       Callback
	patterns []string

	frames []frame
	depth  int

	path    []byte
	pathLen int

	scratch    []byte
	scratchLen int

	pathMatch     int
	pathMatchLen  int
	matchLocked   bool
	wildcards     []int
	wildcardCount int

	curStrIsKey  bool
	curKeyOffset int

	swaps    []parsingStack
	swapTop  int
	maxSwaps int

	offset uint64

	// UserData is not touched by the engine; callers may stash whatever
	// correlates a Context with its caller-side bookkeeping here (the
	// teacher's lib/bitbuffer has no equivalent; this generalizes the
	// "user pointer" spec.md §3.1 lists on the Context type).
	UserData any
}

type contextConfig struct {
	maxDepth     int
	scratchCap   int
	pathCap      int
	maxWildcards int
	maxSwaps     int
}

// Option configures a Context at construction time. The shape follows
// yaninyzwitty-hyperpb-go's UnmarshalOption functional-option pattern, the
// one pack member that parameterizes a decoder this way.
type Option func(*contextConfig)

// MaxDepth sizes the frame stack, root frame included, so at most n-1
// arrays/maps/tags/indefinite strings may be open at once. The default
// is 32.
func MaxDepth(n int) Option { return func(c *contextConfig) { c.maxDepth = n } }

// ScratchSize bounds the chunk buffer used to collate string bytes before
// flushing. The default is 4096.
func ScratchSize(n int) Option { return func(c *contextConfig) { c.scratchCap = n } }

// PathCapacity bounds the dotted path buffer. The default is 1024.
func PathCapacity(n int) Option { return func(c *contextConfig) { c.pathCap = n } }

// MaxWildcards bounds how many wildcard start offsets a single match
// records (spec.md §9(a): beyond this, starts are silently dropped). The
// default is 8.
func MaxWildcards(n int) Option { return func(c *contextConfig) { c.maxWildcards = n } }

// MaxSwaps bounds the parser-swap stack (spec.md §4.6). The default is 8.
func MaxSwaps(n int) Option { return func(c *contextConfig) { c.maxSwaps = n } }

// New constructs a Context. cb receives every event fired while parsing;
// patterns are matched against the dotted path on every mutation, first
// match wins. All internal buffers are allocated here and never again.
func New(cb Callback, patterns []string, opts ...Option) *Context {
	cfg := contextConfig{maxDepth: 32, scratchCap: 4096, pathCap: 1024, maxWildcards: 8, maxSwaps: 8}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx := &Context{
		cb:        cb,
		patterns:  patterns,
		frames:    make([]frame, cfg.maxDepth),
		path:      make([]byte, cfg.pathCap),
		scratch:   make([]byte, cfg.scratchCap),
		wildcards: make([]int, cfg.maxWildcards),
		swaps:     make([]parsingStack, cfg.maxSwaps),
		maxSwaps:  cfg.maxSwaps,
	}
	ctx.frames[0] = frame{kind: frameRoot, state: stateAwaitingOpcode, indefinite: true}
	ctx.lifecycle(EventConstructed)
	return ctx
}

// Close fires the destructed lifecycle event. A Context does not hold any
// resource besides its own buffers, so Close exists purely to give the
// lifecycle symmetry spec.md §6 describes, not to release anything.
func (ctx *Context) Close() {
	ctx.lifecycle(EventDestructed)
}

// Feed processes data one byte at a time, firing events as items complete.
// It returns nil both when the Context drains to an idle top-level state
// (invariant 3 of spec.md §8: Idle() reports true) and when it suspends
// mid-item for lack of more bytes (Idle() reports false): splitting the
// same input across any sequence of Feed calls produces an identical
// callback sequence either way (spec.md §8 invariant 1). It returns a
// non-nil *ParseError only on a genuine parse failure, at which point the
// Context must not be fed further.
func (ctx *Context) Feed(data []byte) error {
	for _, b := range data {
		if err := ctx.step(b); err != nil {
			return err
		}
		ctx.offset++
	}
	return nil
}

// fail builds a *ParseError at the current offset, fires one EventFailed
// notification (ignoring its return value, the parse is already over),
// and returns the error for Feed to propagate.
func (ctx *Context) fail(code ErrorCode) error {
	err := &ParseError{Code: code, Offset: ctx.offset}
	ctx.cb(ctx, &Value{Code: EventFailed, Path: ctx.pathBytes()})
	return err
}

// lifecycle fires a Constructed/Destructed notification; its return value
// is ignored, matching spec.md §6 (lifecycle events are not rejectable).
func (ctx *Context) lifecycle(code EventCode) {
	if ctx.cb == nil {
		return
	}
	ctx.cb(ctx, &Value{Code: code, Path: ctx.pathBytes()})
}

// fireSimple fires an event with only the Code field set beyond the
// common Path/PathMatch fields fireEvent fills in.
func (ctx *Context) fireSimple(code EventCode) error {
	return ctx.fireEvent(Value{Code: code})
}

// fireEvent fills in the path/match fields common to every event and
// invokes the callback. A non-zero return aborts the parse. v.Path is
// aliased straight from the Context's own path buffer, the same way
// Bytes and Wildcards already are: spec.md §5 forbids allocation past
// construction, so this must not build a new string per event.
func (ctx *Context) fireEvent(v Value) error {
	v.Path = ctx.pathBytes()
	v.PathMatch = ctx.pathMatch
	v.PathMatchLen = ctx.pathMatchLen
	if ctx.pathMatch != 0 {
		v.Wildcards = ctx.Wildcards()
	}
	if ret := ctx.cb(ctx, &v); ret != 0 {
		return ctx.fail(ErrCodeCallbackRejected)
	}
	return nil
}
