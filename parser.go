// Package cborstream wires a cbor.Context up to a file or stream. It plays
// the same role the teacher's root package (a single Parse(filename)
// helper calling into bufio) played for asn1c-go, generalized from
// line-scanning to fixed-size chunk reads since CBOR is binary, not
// line-oriented.
package cborstream

import (
	"fmt"
	"io"
	"os"

	"github.com/thebagchi/cbor-stream/lib/cbor"
)

// ParseFile opens filename and feeds it to ctx in chunkSize-byte reads.
func ParseFile(filename string, chunkSize int, ctx *cbor.Context) error {
	file, err := os.Open(filename)
	if nil != err {
		return err
	}
	defer file.Close()
	return Stream(file, chunkSize, ctx)
}

// Stream reads r in chunkSize-byte pieces and feeds each one to ctx,
// stopping at the first parse error or the first error from r itself
// (io.EOF is treated as a clean stop, not an error).
func Stream(r io.Reader, chunkSize int, ctx *cbor.Context) error {
	if chunkSize <= 0 {
		chunkSize = 4096
	}
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if ferr := ctx.Feed(buf[:n]); ferr != nil {
				return fmt.Errorf("parse: %w", ferr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
