// Package cbor implements a streaming, push-style decoder for the CBOR
// binary encoding (RFC 8949). A Context walks a byte stream major type by
// major type, firing callback events as scalars complete and as containers
// open and close, without ever buffering more than one item's worth of
// state.
//
// Key features:
//   - Byte-chunk agnostic: splitting the input anywhere produces an
//     identical event sequence (spec.md §8 invariant 1).
//   - No allocation after construction: the frame stack, path buffer,
//     scratch buffer, and wildcard slots are all sized once at New.
//   - Dotted-path tracking with first-match-wins wildcard patterns, so a
//     callback can cheaply ask "am I inside a path I care about" without
//     building a tree.
//
// Scope: decode only. Encoding CBOR is out of scope; see
// github.com/fxamacker/cbor/v2 (used only in this package's tests, as a
// differential oracle) if encoding is needed.
//
// Thread safety: a Context is not safe for concurrent use. Each goroutine
// parsing a stream needs its own Context.
package cbor

import "fmt"

// EnableTrace turns on verbose per-byte tracing, printed via the trace
// method. Unlike the teacher's bitbuffer.ENABLE_TRACE (a compile-time
// const), this is a mutable package variable: a long-lived streaming
// parser may need tracing flipped on mid-process without a rebuild.
var EnableTrace = false

// trace prints a single diagnostic line when EnableTrace is set,
// following the teacher's Codec.Trace shape (event/function/state, with a
// "-->" separated arguments string) with the frame depth and current path
// folded in as this package's equivalent of bit offset and buffer length.
// args is a flat key/value list, e.g. trace("byte", "step", "state", f.state,
// "b", b).
func (ctx *Context) trace(event, function string, args ...any) {
	if !EnableTrace {
		return
	}
	state := fmt.Sprintf("[%s %s] depth=%d path=%q", event, function, ctx.depth, ctx.Path())
	if arguments := formatTraceArgs(args); arguments != "" {
		state += " --> " + arguments
	}
	println(state)
}

// formatTraceArgs renders a flat key/value list ("state", f.state, "b", b)
// as "state=... b=...", the Go analogue of the teacher's Trace method
// taking an already-formatted arguments string.
func formatTraceArgs(args []any) string {
	var b []byte
	for i := 0; i+1 < len(args); i += 2 {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, fmt.Sprintf("%v=%v", args[i], args[i+1])...)
	}
	return string(b)
}
