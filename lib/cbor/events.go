package cbor

// EventCode identifies the kind of callback invocation a Context fires while
// walking a CBOR item stream. The set mirrors spec.md §6's event table:
// lifecycle events (Constructed/Destructed/Failed), scalar events, and the
// paired start/body/end events for containers and chunked strings.
type EventCode int

const (
	EventNone EventCode = iota
	EventConstructed
	EventDestructed
	EventFailed

	EventUint
	EventInt
	EventFloat16
	EventFloat32
	EventFloat64
	EventTrue
	EventFalse
	EventNull
	EventUndefined
	EventSimple

	EventStrStart
	EventStrChunk
	EventStrEnd

	EventBlobStart
	EventBlobChunk
	EventBlobEnd

	EventArrayStart
	EventArrayEnd

	EventObjectStart
	EventObjectEnd

	EventTagStart
	EventTagEnd
)

func (c EventCode) String() string {
	switch c {
	case EventConstructed:
		return "constructed"
	case EventDestructed:
		return "destructed"
	case EventFailed:
		return "failed"
	case EventUint:
		return "uint"
	case EventInt:
		return "int"
	case EventFloat16:
		return "float16"
	case EventFloat32:
		return "float32"
	case EventFloat64:
		return "float64"
	case EventTrue:
		return "true"
	case EventFalse:
		return "false"
	case EventNull:
		return "null"
	case EventUndefined:
		return "undefined"
	case EventSimple:
		return "simple"
	case EventStrStart:
		return "str_start"
	case EventStrChunk:
		return "str_chunk"
	case EventStrEnd:
		return "str_end"
	case EventBlobStart:
		return "blob_start"
	case EventBlobChunk:
		return "blob_chunk"
	case EventBlobEnd:
		return "blob_end"
	case EventArrayStart:
		return "array_start"
	case EventArrayEnd:
		return "array_end"
	case EventObjectStart:
		return "object_start"
	case EventObjectEnd:
		return "object_end"
	case EventTagStart:
		return "tag_start"
	case EventTagEnd:
		return "tag_end"
	default:
		return "none"
	}
}

// Value is the payload a Context hands to a Callback. Only the fields
// relevant to Code are meaningful; the rest carry their zero value. Bytes,
// Path, and Wildcards alias internal buffers owned by the Context and are
// valid only for the duration of the callback invocation: copy them if
// the callback needs to retain the data.
type Value struct {
	Code EventCode

	Uint    uint64
	Int     int64
	Float32 float32
	Float64 float64
	Simple  byte
	Tag     uint64
	Bytes   []byte

	Path         []byte
	PathMatch    int
	PathMatchLen int
	Wildcards    []int
}

// Callback receives every event a Context fires while parsing. Returning a
// non-zero value aborts the parse: Feed returns a *ParseError wrapping
// ErrCodeCallbackRejected after one final EventFailed notification.
type Callback func(ctx *Context, v *Value) int
