package cbor

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fixture mirrors the hex-in/expected-out shape of lib/per's testing/*.json
// tables: one RFC 8949 Appendix A vector per entry, the event it must fire,
// and whichever of the value fields applies to that event.
type fixture struct {
	Name        string  `json:"name"`
	Hex         string  `json:"hex"`
	Event       string  `json:"event"`
	Uint        *uint64 `json:"uint"`
	Int         *int64  `json:"int"`
	Float32     *float32 `json:"float32"`
	Float32Inf  *int     `json:"float32inf"`
	Float32NaN  *bool    `json:"float32nan"`
	Float64     *float64 `json:"float64"`
	Float64Inf  *int     `json:"float64inf"`
	Float64NaN  *bool    `json:"float64nan"`
	Simple      *byte    `json:"simple"`
}

var fixtureEventByName = map[string]EventCode{
	"uint":      EventUint,
	"int":       EventInt,
	"float16":   EventFloat16,
	"float32":   EventFloat32,
	"float64":   EventFloat64,
	"true":      EventTrue,
	"false":     EventFalse,
	"null":      EventNull,
	"undefined": EventUndefined,
	"simple":    EventSimple,
}

// TestRFC8949AppendixAScalars feeds each Appendix A scalar vector whole and
// byte-by-byte, checking both deliver the single expected scalar event with
// the right payload (spec.md §8 invariant 1 exercised per-vector).
func TestRFC8949AppendixAScalars(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "scalars.json"))
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}
	var cases []fixture
	if err := json.Unmarshal(data, &cases); err != nil {
		t.Fatalf("parsing fixtures: %v", err)
	}

	for _, tc := range cases {
		tc := tc
		t.Run(strings.ToUpper(tc.Name), func(t *testing.T) {
			input, err := hex.DecodeString(tc.Hex)
			if err != nil {
				t.Fatalf("bad hex %q: %v", tc.Hex, err)
			}
			wantCode, ok := fixtureEventByName[tc.Event]
			if !ok {
				t.Fatalf("unknown event name %q", tc.Event)
			}

			checkOne := func(t *testing.T, rec *recorder) {
				t.Helper()
				if len(rec.events) != 2 {
					t.Fatalf("event count: got %d (%v), want 2", len(rec.events), codesOf(rec.events))
				}
				got := rec.events[1]
				if got.Code != wantCode {
					t.Fatalf("event: got %s, want %s", got.Code, wantCode)
				}
				switch {
				case tc.Uint != nil:
					if got.Uint != *tc.Uint {
						t.Errorf("uint: got %d, want %d", got.Uint, *tc.Uint)
					}
				case tc.Int != nil:
					if got.Int != *tc.Int {
						t.Errorf("int: got %d, want %d", got.Int, *tc.Int)
					}
				case tc.Float32 != nil:
					if got.Float32 != *tc.Float32 {
						t.Errorf("float32: got %v, want %v", got.Float32, *tc.Float32)
					}
				case tc.Float32Inf != nil:
					want := math.Inf(*tc.Float32Inf)
					if float64(got.Float32) != want {
						t.Errorf("float32: got %v, want inf(%d)", got.Float32, *tc.Float32Inf)
					}
				case tc.Float32NaN != nil && *tc.Float32NaN:
					if !math.IsNaN(float64(got.Float32)) {
						t.Errorf("float32: got %v, want NaN", got.Float32)
					}
				case tc.Float64 != nil:
					if got.Float64 != *tc.Float64 {
						t.Errorf("float64: got %v, want %v", got.Float64, *tc.Float64)
					}
				case tc.Float64Inf != nil:
					want := math.Inf(*tc.Float64Inf)
					if got.Float64 != want {
						t.Errorf("float64: got %v, want inf(%d)", got.Float64, *tc.Float64Inf)
					}
				case tc.Float64NaN != nil && *tc.Float64NaN:
					if !math.IsNaN(got.Float64) {
						t.Errorf("float64: got %v, want NaN", got.Float64)
					}
				case tc.Simple != nil:
					if got.Simple != *tc.Simple {
						t.Errorf("simple: got %d, want %d", got.Simple, *tc.Simple)
					}
				}
			}

			whole := &recorder{}
			ctx := New(whole.record, nil)
			if err := ctx.Feed(input); err != nil {
				t.Fatalf("Feed (whole): %v", err)
			}
			checkOne(t, whole)

			piecewise := &recorder{}
			pctx := New(piecewise.record, nil)
			for _, b := range input {
				if err := pctx.Feed([]byte{b}); err != nil {
					t.Fatalf("Feed (byte-at-a-time): %v", err)
				}
			}
			checkOne(t, piecewise)
		})
	}
}
