package dicom

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
===============================================================================
    Transcoder
===============================================================================
*/

func TestNewTranscoder(t *testing.T) {
	t.Parallel()
	r := newReaderBytes(nil, ImplicitVRLittleEndian)
	_, w := newWriterBuffer(ExplicitVRLittleEndian)

	for size, expected := range map[int]int{1: 8, 5: 8, 8: 8, 9: 16, 1024: 1024, 1025: 1032} {
		tc, err := NewTranscoder(&r, &w, size)
		assert.NoError(t, err)
		assert.Equal(t, expected, tc.BufferSize())
	}
	for _, size := range []int{0, -1} {
		_, err := NewTranscoder(&r, &w, size)
		assert.Error(t, err)
	}
}

func TestTranscodeHeaderRewrite(t *testing.T) {
	t.Parallel()
	out, err := transcodeBytes(bitsAllocatedImplicitLE, ImplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.NoError(t, err)
	assert.Equal(t, bitsAllocatedExplicitBE, out)

	out, err = transcodeBytes(bitsAllocatedExplicitBE, ExplicitVRBigEndian, ImplicitVRLittleEndian, DefaultBufferSize)
	assert.NoError(t, err)
	assert.Equal(t, bitsAllocatedImplicitLE, out)
}

func TestTranscodeSequence(t *testing.T) {
	t.Parallel()
	out, err := transcodeBytes(procedureCodeUndefinedLE, ExplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.NoError(t, err)
	assert.Equal(t, procedureCodeUndefinedBE, out)

	out, err = transcodeBytes(procedureCodeUndefinedBE, ExplicitVRBigEndian, ExplicitVRLittleEndian, DefaultBufferSize)
	assert.NoError(t, err)
	assert.Equal(t, procedureCodeUndefinedLE, out)
}

func TestTranscodeDefinedLengthSequence(t *testing.T) {
	t.Parallel()
	// output always uses undefined lengths and explicit delimiters
	out, err := transcodeBytes(procedureCodeDefinedLE, ExplicitVRLittleEndian, ExplicitVRLittleEndian, DefaultBufferSize)
	assert.NoError(t, err)
	assert.Equal(t, procedureCodeDefinedAsUndefinedLE, out)
}

func TestTranscodeFragments(t *testing.T) {
	t.Parallel()
	out, err := transcodeBytes(pixelDataEncapsulatedLE, ExplicitVRLittleEndian, ExplicitVRLittleEndian, DefaultBufferSize)
	assert.NoError(t, err)
	assert.Equal(t, pixelDataEncapsulatedLE, out)

	// OB fragments are copied without toggling; only headers change
	out, err = transcodeBytes(pixelDataEncapsulatedLE, ExplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.NoError(t, err)
	expected := []byte{
		0x7F, 0xE0, 0x00, 0x10, // (7FE0,0010) Tag
		'O', 'B', 0x00, 0x00, // VR, reserved
		0xFF, 0xFF, 0xFF, 0xFF, // Length: undefined
		0xFF, 0xFE, 0xE0, 0x00, // StartItem Tag
		0x00, 0x00, 0x00, 0x00, // Basic offset table: empty
		0xFF, 0xFE, 0xE0, 0x00, // StartItem Tag
		0x00, 0x00, 0x00, 0x04, // Fragment length: 4 bytes
		0x01, 0x02, 0x03, 0x04, // Fragment
		0xFF, 0xFE, 0xE0, 0xDD, // SequenceDelimItem
		0x00, 0x00, 0x00, 0x00, // Length: 0
	}
	assert.Equal(t, expected, out)
}

func TestTranscodeUnknownSequence(t *testing.T) {
	t.Parallel()
	out, err := transcodeBytes(privateUnknownSequenceLE, ExplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.NoError(t, err)
	// header in the output encoding, content (delimiter included) in implicit VR little endian
	expected := concat(
		[]byte{0x00, 0x19, 0x10, 0x01, 'U', 'N', 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF},
		privateUnknownSequenceLE[12:],
	)
	assert.Equal(t, expected, out)

	// and the output encoding is restored for what follows
	out, err = transcodeBytes(concat(privateUnknownSequenceLE, bitsAllocatedExplicitLE()), ExplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.NoError(t, err)
	assert.Equal(t, bitsAllocatedExplicitBE, out[len(out)-len(bitsAllocatedExplicitBE):])
}

func TestTranscodeImplicitUnknownTag(t *testing.T) {
	t.Parallel()
	in := []byte{
		0x19, 0x00, 0x01, 0x10, // (0019,1001) Tag
		0x04, 0x00, 0x00, 0x00, // Length: 4 bytes
		'a', 'b', 'c', 'd', // Data
	}
	out, err := transcodeBytes(in, ImplicitVRLittleEndian, ExplicitVRLittleEndian, DefaultBufferSize)
	assert.NoError(t, err)
	expected := []byte{
		0x19, 0x00, 0x01, 0x10, // (0019,1001) Tag
		'U', 'N', 0x00, 0x00, // VR, reserved
		0x04, 0x00, 0x00, 0x00, // Length: 4 bytes
		'a', 'b', 'c', 'd', // Data
	}
	assert.Equal(t, expected, out)
}

func TestTranscodeImplicitStandardTag(t *testing.T) {
	t.Parallel()
	in := []byte{
		0x28, 0x00, 0x01, 0x11, // (0028,1101) Tag
		0x06, 0x00, 0x00, 0x00, // Length: 6 bytes
		0x00, 0x01, 0x00, 0x00, 0x10, 0x00, // Data: 256, 0, 16
	}
	out, err := transcodeBytes(in, ImplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.NoError(t, err)
	expected := []byte{
		0x00, 0x28, 0x11, 0x01, // (0028,1101) Tag
		'U', 'S', 0x00, 0x06, // VR, Length: 6 bytes
		0x01, 0x00, 0x00, 0x00, 0x00, 0x10, // Data: 256, 0, 16
	}
	assert.Equal(t, expected, out)
}

func TestTranscodeDropsMetaAndGroupLengths(t *testing.T) {
	t.Parallel()
	in := concat(
		[]byte{0x02, 0x00, 0x10, 0x00, 'U', 'I', 0x04, 0x00, '1', '.', '2', 0x00}, // (0002,0010)
		[]byte{0x08, 0x00, 0x00, 0x00, 'U', 'L', 0x04, 0x00, 0x0A, 0x00, 0x00, 0x00}, // (0008,0000)
		[]byte{0x08, 0x00, 0x60, 0x00, 'C', 'S', 0x02, 0x00, 'M', 'R'}, // (0008,0060)
	)
	out, err := transcodeBytes(in, ExplicitVRLittleEndian, ImplicitVRLittleEndian, DefaultBufferSize)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0x00, 0x60, 0x00, 0x02, 0x00, 0x00, 0x00, 'M', 'R'}, out)
}

func TestTranscodeSmallBuffer(t *testing.T) {
	t.Parallel()
	// three doubles relayed through an eight byte buffer: words never straddle chunks
	in := []byte{
		0x18, 0x00, 0x88, 0x00, // (0018,0088) Tag
		'F', 'D', 0x18, 0x00, // VR, Length: 24 bytes
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18,
		0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27, 0x28,
	}
	out, err := transcodeBytes(in, ExplicitVRLittleEndian, ExplicitVRBigEndian, 3)
	assert.NoError(t, err)
	expected := []byte{
		0x00, 0x18, 0x00, 0x88, // (0018,0088) Tag
		'F', 'D', 0x00, 0x18, // VR, Length: 24 bytes
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
		0x18, 0x17, 0x16, 0x15, 0x14, 0x13, 0x12, 0x11,
		0x28, 0x27, 0x26, 0x25, 0x24, 0x23, 0x22, 0x21,
	}
	assert.Equal(t, expected, out)
}

func TestTranscodeRoundTrip(t *testing.T) {
	t.Parallel()
	in := concat(procedureCodeUndefinedLE, pixelDataEncapsulatedLE, bitsAllocatedExplicitLE())
	for _, via := range []Encoding{ExplicitVRBigEndian, ExplicitVRLittleEndian} {
		mid, err := transcodeBytes(in, ExplicitVRLittleEndian, via, 16)
		assert.NoError(t, err, via.String())
		out, err := transcodeBytes(mid, via, ExplicitVRLittleEndian, 16)
		assert.NoError(t, err, via.String())
		assert.Equal(t, in, out, via.String())
	}

	// implicit VR loses the VR of the encapsulated pixel data (the dictionary says OW),
	// so that leg runs without it
	in = concat(procedureCodeUndefinedLE, bitsAllocatedExplicitLE())
	mid, err := transcodeBytes(in, ExplicitVRLittleEndian, ImplicitVRLittleEndian, 16)
	assert.NoError(t, err)
	out, err := transcodeBytes(mid, ImplicitVRLittleEndian, ExplicitVRLittleEndian, 16)
	assert.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestTranscodeDelimiterBalance(t *testing.T) {
	t.Parallel()
	// four distinct sequences, so none collapses into another in the data set
	in := concat(
		withTagLE(procedureCodeDefinedLE, 0x00081110),
		procedureCodeUndefinedLE,
		privateUnknownSequenceLE,
		pixelDataEncapsulatedLE,
	)
	out, err := transcodeBytes(in, ExplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.NoError(t, err)

	// walk the output counting open structures
	r := newReaderBytes(out, ExplicitVRBigEndian)
	ds := NewDataSet()
	assert.NoError(t, r.ReadDataSet(ds))
	assert.Equal(t, 4, ds.Len())
	items, itemEnds, seqEnds := 0, 0, 0
	for i := 0; i+4 <= len(out); i++ {
		switch {
		case bytes.Equal(out[i:i+4], []byte{0xFF, 0xFE, 0xE0, 0x0D}):
			itemEnds++
		case bytes.Equal(out[i:i+4], []byte{0xFF, 0xFE, 0xE0, 0xDD}):
			seqEnds++
		case bytes.Equal(out[i:i+4], []byte{0xFE, 0xFF, 0x0D, 0xE0}):
			// item delimiter inside the UN sequence (little endian)
			itemEnds++
		case bytes.Equal(out[i:i+4], []byte{0xFE, 0xFF, 0xDD, 0xE0}):
			seqEnds++
		case bytes.Equal(out[i:i+4], []byte{0xFF, 0xFE, 0xE0, 0x00}), bytes.Equal(out[i:i+4], []byte{0xFE, 0xFF, 0x00, 0xE0}):
			items++
		}
	}
	// three parsed items get delimiters; the two fragments do not
	assert.Equal(t, 5, items)
	assert.Equal(t, 3, itemEnds)
	assert.Equal(t, 4, seqEnds)
}

func TestTranscodeRetainsCharacterSet(t *testing.T) {
	t.Parallel()
	in := concat(
		[]byte{0x08, 0x00, 0x05, 0x00, 'C', 'S', 0x0A, 0x00}, []byte("ISO_IR 100"), // (0008,0005)
		[]byte{0x09, 0x00, 0x10, 0x00, 'L', 'O', 0x04, 0x00}, []byte("ACME"), // (0009,0010)
		bitsAllocatedExplicitLE(),
	)
	r := newReaderBytes(in, ExplicitVRLittleEndian)
	var out bytes.Buffer
	w := NewElementWriterWithEncoding(&out, ExplicitVRBigEndian)
	tc, err := NewTranscoder(&r, &w, DefaultBufferSize)
	assert.NoError(t, err)
	assert.NoError(t, tc.Transcode())

	assert.Equal(t, "ISO_IR 100", r.DataSet().GetCharacterSet().Name)
	creator, found := r.DataSet().GetString(0x00090010)
	assert.True(t, found)
	assert.Equal(t, "ACME", creator)
	// ordinary elements are relayed, not retained
	assert.False(t, r.DataSet().HasElement(uint32(BitsAllocatedTag)))
	assert.Equal(t, bitsAllocatedExplicitBE, out.Bytes()[out.Len()-len(bitsAllocatedExplicitBE):])
}

func TestTranscodeEmptyInput(t *testing.T) {
	t.Parallel()
	out, err := transcodeBytes(nil, ExplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.NoError(t, err)
	assert.Len(t, out, 0)
}

func TestTranscodeDelimiterPayload(t *testing.T) {
	t.Parallel()
	// item delimiter carrying four junk bytes
	in := append([]byte{}, procedureCodeUndefinedLE[:len(procedureCodeUndefinedLE)-16]...)
	in = append(in, 0xFE, 0xFF, 0x0D, 0xE0, 0x04, 0x00, 0x00, 0x00, 0xAA, 0xBB, 0xCC, 0xDD)
	in = append(in, procedureCodeUndefinedLE[len(procedureCodeUndefinedLE)-8:]...)

	// lenient: skipped, output is well formed
	out, err := transcodeBytes(in, ExplicitVRLittleEndian, ExplicitVRLittleEndian, DefaultBufferSize)
	assert.NoError(t, err)
	assert.Equal(t, procedureCodeUndefinedLE, out)

	// strict: rejected
	r := newReaderBytes(in, ExplicitVRLittleEndian)
	r.SetStrictMode(true)
	_, w := newWriterBuffer(ExplicitVRLittleEndian)
	tc, err := NewTranscoder(&r, &w, DefaultBufferSize)
	assert.NoError(t, err)
	var corrupt *CorruptElement
	err = tc.Transcode()
	assert.True(t, errors.As(err, &corrupt), "%v", err)
}

func TestTranscodeErrors(t *testing.T) {
	t.Parallel()
	var stream *CorruptElementStream
	var corrupt *CorruptElement
	var short *InsufficientBytes

	// unclosed sequence
	_, err := transcodeBytes(procedureCodeUndefinedLE[:len(procedureCodeUndefinedLE)-8], ExplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.True(t, errors.As(err, &stream), "%v", err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	// delimiter at top level
	_, err = transcodeBytes([]byte{0xFE, 0xFF, 0x0D, 0xE0, 0x00, 0x00, 0x00, 0x00}, ImplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.True(t, errors.As(err, &stream), "%v", err)

	// item at top level
	_, err = transcodeBytes([]byte{0xFE, 0xFF, 0x00, 0xE0, 0x00, 0x00, 0x00, 0x00}, ImplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.True(t, errors.As(err, &stream), "%v", err)

	// sequence delimiter closing an item
	mismatched := append([]byte{}, procedureCodeUndefinedLE...)
	mismatched[len(mismatched)-14] = 0xDD
	_, err = transcodeBytes(mismatched, ExplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.True(t, errors.As(err, &stream), "%v", err)

	// delimiter inside an item of defined length: nothing of the item may leak into the sequence
	var out []byte
	out, err = transcodeBytes(delimiterInDefinedItemLE, ExplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.True(t, errors.As(err, &stream), "%v", err)
	assert.False(t, bytes.Contains(out, []byte{0x00, 0x08, 0x01, 0x00}))

	// sequence delimiter inside a sequence of defined length
	seqEnd := concat(
		[]byte{0x08, 0x00, 0x32, 0x10, 'S', 'Q', 0x00, 0x00, 0x08, 0x00, 0x00, 0x00}, // (0008,1032), 8 bytes
		[]byte{0xFE, 0xFF, 0xDD, 0xE0, 0x00, 0x00, 0x00, 0x00},
	)
	_, err = transcodeBytes(seqEnd, ExplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.True(t, errors.As(err, &stream), "%v", err)

	// element directly inside a sequence
	_, err = transcodeBytes(elementInSequenceLE, ExplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.True(t, errors.As(err, &stream), "%v", err)

	// truncated header
	_, err = transcodeBytes(bitsAllocatedImplicitLE[:6], ImplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.True(t, errors.As(err, &corrupt), "%v", err)

	// truncated value
	_, err = transcodeBytes(bitsAllocatedImplicitLE[:9], ImplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.True(t, errors.As(err, &short), "%v", err)

	// defined length item overrunning its sequence
	overrun := append([]byte{}, procedureCodeDefinedLE...)
	overrun[8] = 0x10 // sequence length 16, item needs 18
	_, err = transcodeBytes(overrun, ExplicitVRLittleEndian, ExplicitVRBigEndian, DefaultBufferSize)
	assert.True(t, errors.As(err, &stream), "%v", err)

	// value too long for the output length field
	in := concat([]byte{0x10, 0x00, 0x10, 0x00, 0x00, 0x00, 0x01, 0x00}, make([]byte, 0x10000)) // PN, 65536 bytes
	_, err = transcodeBytes(in, ImplicitVRLittleEndian, ExplicitVRLittleEndian, DefaultBufferSize)
	assert.True(t, errors.As(err, &corrupt), "%v", err)
}

func TestTranscodeWriteFailure(t *testing.T) {
	t.Parallel()
	err := TranscodeStream(bytes.NewReader(procedureCodeUndefinedLE), ExplicitVRLittleEndian, &failAfterN{failAfter: 20}, ExplicitVRBigEndian, DefaultBufferSize)
	assert.Error(t, err)
}

func BenchmarkTranscode(b *testing.B) {
	in := bytes.Repeat(concat(procedureCodeUndefinedLE, pixelDataEncapsulatedLE, bitsAllocatedExplicitLE()), 64)
	for i := 0; i < b.N; i++ {
		if err := TranscodeStream(bytes.NewReader(in), ExplicitVRLittleEndian, blackHole, ExplicitVRBigEndian, DefaultBufferSize); err != nil {
			b.Fatal(err)
		}
	}
}
