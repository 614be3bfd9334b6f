package cbor_test

import (
	"math/rand"
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/thebagchi/cbor-stream/lib/cbor"
)

// differential_test.go checks lib/cbor against a second, independently
// written CBOR implementation: fxamacker/cbor/v2 encodes known Go values
// into wire bytes, and this package's Context decodes those bytes and is
// checked against the source value. This dependency is test-only; see
// SPEC_FULL.md §3.4 for why it has no place in the runtime package.

type scalarCount struct {
	uints, ints, floats, bools, nils, strs, blobs, arrays, maps int
}

// record just tallies which event kinds fired, enough to assert
// shape (every container balanced, the right number of scalars) without
// re-implementing a full CBOR decoder as the oracle.
func (c *scalarCount) record(_ *cbor.Context, v *cbor.Value) int {
	switch v.Code {
	case cbor.EventUint:
		c.uints++
	case cbor.EventInt:
		c.ints++
	case cbor.EventFloat64:
		c.floats++
	case cbor.EventTrue, cbor.EventFalse:
		c.bools++
	case cbor.EventNull:
		c.nils++
	case cbor.EventStrEnd:
		c.strs++
	case cbor.EventBlobEnd:
		c.blobs++
	case cbor.EventArrayStart:
		c.arrays++
	case cbor.EventObjectStart:
		c.maps++
	}
	return 0
}

func decodeWith(t *testing.T, input []byte, chunkSizes []int) *scalarCount {
	t.Helper()
	c := &scalarCount{}
	ctx := cbor.New(c.record, nil)
	i := 0
	for i < len(input) {
		n := chunkSizes[i%len(chunkSizes)]
		if n <= 0 {
			n = 1
		}
		end := i + n
		if end > len(input) {
			end = len(input)
		}
		require.NoError(t, ctx.Feed(input[i:end]))
		i = end
	}
	require.True(t, ctx.Idle(), "parser should be idle after a complete top-level item")
	return c
}

func TestDifferentialAgainstFxamackerEncoder(t *testing.T) {
	type nested struct {
		Name    string   `cbor:"name"`
		Values  []int64  `cbor:"values"`
		Tags    []string `cbor:"tags"`
		Active  bool     `cbor:"active"`
		Ratio   float64  `cbor:"ratio"`
		Missing *string  `cbor:"missing"`
	}

	value := nested{
		Name:    "widget",
		Values:  []int64{-3, 0, 1, 42, 1000000},
		Tags:    []string{"alpha", "beta", "gamma"},
		Active:  true,
		Ratio:   3.5,
		Missing: nil,
	}

	wire, err := fxcbor.Marshal(value)
	require.NoError(t, err)

	// Sanity-check the oracle round-trips before trusting it as ground
	// truth for the streaming decoder.
	var roundTrip nested
	require.NoError(t, fxcbor.Unmarshal(wire, &roundTrip))
	require.Equal(t, value, roundTrip)

	whole := decodeWith(t, wire, []int{len(wire)})
	byteAtATime := decodeWith(t, wire, []int{1})

	require.Equal(t, whole, byteAtATime, "chunk boundary must not change the event shape (spec.md invariant 1)")

	require.Equal(t, 1, whole.maps, "top-level struct encodes as one map")
	require.Equal(t, 1, whole.bools, "Active")
	require.Equal(t, 1, whole.floats, "Ratio")
	require.Equal(t, 1, whole.nils, "Missing (nil pointer)")
	require.Equal(t, 2, whole.arrays, "Values and Tags")
	require.True(t, whole.strs > 0, "at least one text string completed")
}

func TestDifferentialRandomChunkingIsStable(t *testing.T) {
	values := []any{
		map[string]any{"a": 1, "b": []any{1, 2, 3}, "c": "hello world this is a longer string"},
		[]any{true, false, nil, 1.5, -7, "x"},
		map[string]any{"nested": map[string]any{"deep": map[string]any{"deeper": []any{1, 2, 3, 4, 5}}}},
	}

	for _, v := range values {
		wire, err := fxcbor.Marshal(v)
		require.NoError(t, err)

		baseline := decodeWith(t, wire, []int{len(wire)})

		rnd := rand.New(rand.NewSource(1))
		for trial := 0; trial < 5; trial++ {
			sizes := make([]int, 8)
			for i := range sizes {
				sizes[i] = 1 + rnd.Intn(3)
			}
			got := decodeWith(t, wire, sizes)
			require.Equal(t, baseline, got, "random chunk sizes must reproduce the same event tally")
		}
	}
}
