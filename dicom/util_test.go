package dicom

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/b71729/bin"
)

type devNull int

// devNull implements `io.Reader` and `io.Writer` to remove reader-specific impact on benchmarks
var blackHole = devNull(0)

func (devNull) Read(p []byte) (int, error) {
	return len(p), nil
}

func (devNull) Write(p []byte) (int, error) {
	return len(p), nil
}

var errInjected = errors.New("injected failure")

// failAfterN accepts `failAfter` bytes, then fails every call
type failAfterN struct {
	pos       int
	failAfter int
}

func (w *failAfterN) Write(p []byte) (int, error) {
	if w.pos+len(p) > w.failAfter {
		return 0, errInjected
	}
	w.pos += len(p)
	return len(p), nil
}

// newReaderBytes returns an ElementReader over `buf` decoding with `e`.
func newReaderBytes(buf []byte, e Encoding) ElementReader {
	r := NewElementReader(bin.NewReader(bytes.NewReader(buf), binary.LittleEndian))
	r.SetEncoding(e)
	return r
}

// transcodeBytes transcodes `src` from `from` to `to`, returning the output.
func transcodeBytes(src []byte, from, to Encoding, bufferSize int) ([]byte, error) {
	var out bytes.Buffer
	err := TranscodeStream(bytes.NewReader(src), from, &out, to, bufferSize)
	return out.Bytes(), err
}

// concat joins byte fixtures.
func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// withTagLE returns a copy of the little endian element fixture `fixture` retagged as `tag`.
func withTagLE(fixture []byte, tag uint32) []byte {
	out := append([]byte{}, fixture...)
	binary.LittleEndian.PutUint16(out[0:2], uint16(tag>>16))
	binary.LittleEndian.PutUint16(out[2:4], uint16(tag))
	return out
}

var _ io.Writer = (*failAfterN)(nil)
