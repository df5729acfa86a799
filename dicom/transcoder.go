package dicom

import (
	"fmt"
	"io"
)

/*
===============================================================================
    Transcoder
===============================================================================
*/

// DefaultBufferSize is the size of the scratch buffer used to relay values.
const DefaultBufferSize = 1024

// RoundBufferSize rounds `size` up to the next multiple of eight, so that a
// chunk never splits a value word of a byte order sensitive VR.
func RoundBufferSize(size int) int {
	return (size + 7) &^ 7
}

// Transcoder relays a stream of data elements from an ElementReader to an
// ElementWriter element by element, re-encoding headers and byte order as it goes.
// Only the Specific Character Set and private creator values are retained in memory;
// everything else is copied through a fixed scratch buffer.
//
// A Transcoder is not safe for concurrent use.
type Transcoder struct {
	r   *ElementReader
	w   *ElementWriter
	buf []byte

	// VRs of the currently open sequences, innermost last
	sequences []string
}

// NewTranscoder returns a Transcoder reading from `r` and writing to `w`,
// relaying values through a scratch buffer of (at least) `bufferSize` bytes.
func NewTranscoder(r *ElementReader, w *ElementWriter, bufferSize int) (*Transcoder, error) {
	if bufferSize <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d: must be positive", bufferSize)
	}
	return &Transcoder{
		r:   r,
		w:   w,
		buf: make([]byte, RoundBufferSize(bufferSize)),
	}, nil
}

// BufferSize returns the size of the scratch buffer.
func (t *Transcoder) BufferSize() int {
	return len(t.buf)
}

// Transcode relays every element until the input is exhausted.
// File meta information and group length elements are consumed but not written.
func (t *Transcoder) Transcode() error {
	log.Debugf("transcoding %s -> %s", t.r.GetEncoding(), t.w.GetEncoding())
	return t.transcodeDataSet(UndefinedLength, 0)
}

// transcodeDataSet relays elements until `endTag` is read, the defined `length`
// is consumed, or (at the top level, where `endTag` is 0) the input ends.
func (t *Transcoder) transcodeDataSet(length uint32, endTag Tag) error {
	open := Header{Tag: uint32(endTag), Length: length, Offset: t.r.Position()}
	end := int64(-1)
	if length != UndefinedLength {
		end = t.r.Position() + int64(length)
	}
	for end < 0 || t.r.Position() < end {
		var h Header
		if err := t.r.ReadHeader(&h); err != nil {
			if err == io.EOF {
				if endTag == 0 {
					return nil
				}
				return unbalanced(&open, end)
			}
			return err
		}
		done, err := t.transcodeElement(&h, endTag, end >= 0)
		if err != nil || done {
			return err
		}
	}
	return checkEnd(t.r.Position(), end, &open)
}

// transcodeElement dispatches on the tag of `h`. `done` reports that the
// delimiter closing the current level was consumed. `defined` is set when the
// current level ends by position, in which case no delimiter may close it.
func (t *Transcoder) transcodeElement(h *Header, endTag Tag, defined bool) (done bool, err error) {
	switch {
	case Tag(h.Tag) == ItemTag:
		if endTag != SequenceDelimitationTag {
			return false, CorruptElementStreamError("unexpected item at offset %d outside of a sequence", h.Offset)
		}
		return false, t.transcodeItem(h)
	case IsDelimitation(h.Tag):
		if defined {
			return false, CorruptElementStreamError("%s at offset %d inside a structure of defined length", Tag(h.Tag), h.Offset)
		}
		if err = t.r.SkipDelimiterPayload(h); err != nil {
			return false, err
		}
		if Tag(h.Tag) != endTag {
			return false, CorruptElementStreamError("unexpected %s at offset %d", Tag(h.Tag), h.Offset)
		}
		return true, nil
	case endTag == SequenceDelimitationTag:
		// a sequence holds nothing but items
		return false, CorruptElementStreamError("expected item in sequence but found %s at offset %d", Tag(h.Tag), h.Offset)
	case IsFileMetaInfoElement(h.Tag) || IsGroupLengthElement(h.Tag):
		log.Debugf("dropping %s at offset %d", Tag(h.Tag), h.Offset)
		if h.IsUndefinedLength() {
			return false, CorruptElementError("%s at offset %d has undefined length", Tag(h.Tag), h.Offset)
		}
		return false, t.r.Skip(h.Length)
	}
	return false, t.transcodeAttribute(h)
}

// transcodeItem relays one item of the innermost open sequence.
// Items of SQ sequences, and items of undefined length, are re-encoded element by element
// with undefined length. Other items (fragments, items of UN sequences) are copied as one value.
func (t *Transcoder) transcodeItem(h *Header) error {
	sqvr := t.sequences[len(t.sequences)-1]
	if h.IsUndefinedLength() || sqvr == "SQ" {
		if err := t.w.WriteHeader(uint32(ItemTag), "", UndefinedLength); err != nil {
			return err
		}
		item := NewDataSet()
		if cs, found := t.r.DataSet()[uint32(SpecificCharacterSetTag)]; found {
			// items inherit the character set of the enclosing data set
			item.AddElement(cs)
		}
		parent := t.r.SetDataSet(item)
		err := t.transcodeDataSet(h.Length, ItemDelimitationTag)
		t.r.SetDataSet(parent)
		if err != nil {
			return err
		}
		return t.w.WriteHeader(uint32(ItemDelimitationTag), "", 0)
	}
	if err := t.w.WriteHeader(uint32(ItemTag), "", h.Length); err != nil {
		return err
	}
	return t.copyValue(h.Length, LookupVR(sqvr))
}

// transcodeAttribute relays a data element that is neither an item nor a delimiter.
func (t *Transcoder) transcodeAttribute(h *Header) error {
	kind := LookupVR(h.VR)
	if h.IsUndefinedLength() || kind.IsSequence() {
		return t.transcodeSequence(h)
	}
	if err := t.w.WriteHeader(h.Tag, h.VR, h.Length); err != nil {
		return err
	}
	if Tag(h.Tag) == SpecificCharacterSetTag || IsPrivateCreatorDataElement(h.Tag) {
		val, err := t.r.readValue(h.Length)
		if err != nil {
			return err
		}
		t.r.DataSet().PutBytes(h.Tag, h.VR, val, !t.r.IsLittleEndian())
		return t.w.WriteBytes(val)
	}
	return t.copyValue(h.Length, kind)
}

// transcodeSequence relays a sequence, or an encapsulated value, writing it with undefined length.
// A sequence of VR UN is written in Implicit VR Little Endian, as its content is read.
func (t *Transcoder) transcodeSequence(h *Header) error {
	if err := t.w.WriteHeader(h.Tag, h.VR, UndefinedLength); err != nil {
		return err
	}
	if h.VR == "UN" {
		log.Debugf("%s at offset %d is a sequence of unknown VR: relaying as %s", Tag(h.Tag), h.Offset, ImplicitVRLittleEndian)
		t.w.PushEncoding(ImplicitVRLittleEndian)
		defer t.w.PopEncoding()
		t.r.PushEncoding(ImplicitVRLittleEndian)
		defer t.r.PopEncoding()
	}
	t.sequences = append(t.sequences, h.VR)
	err := t.transcodeDataSet(h.Length, SequenceDelimitationTag)
	t.sequences = t.sequences[:len(t.sequences)-1]
	if err != nil {
		return err
	}
	if err = t.w.WriteHeader(uint32(SequenceDelimitationTag), "", 0); err != nil {
		return err
	}
	t.r.DataSet().RemoveElement(h.Tag)
	return nil
}

// copyValue streams `length` bytes from input to output through the scratch buffer,
// toggling byte order when the encodings disagree and the VR requires it.
func (t *Transcoder) copyValue(length uint32, kind VRSpecification) error {
	toggle := kind.IsByteOrderSensitive() && t.r.IsLittleEndian() != t.w.IsLittleEndian()
	for length > 0 {
		n := uint32(len(t.buf))
		if length < n {
			n = length
		}
		chunk := t.buf[:n]
		if err := t.r.ReadBytes(chunk); err != nil {
			return err
		}
		if toggle {
			ToggleEndian(chunk, kind.SwapWidth)
		}
		if err := t.w.WriteBytes(chunk); err != nil {
			return err
		}
		length -= n
	}
	return nil
}

// TranscodeStream relays the data element stream `src`, encoded as `from`,
// to `dst` encoded as `to`.
func TranscodeStream(src io.Reader, from Encoding, dst io.Writer, to Encoding, bufferSize int) error {
	elr := NewElementReaderWithEncoding(src, from)
	elw := NewElementWriterWithEncoding(dst, to)
	t, err := NewTranscoder(&elr, &elw, bufferSize)
	if err != nil {
		return err
	}
	return t.Transcode()
}
