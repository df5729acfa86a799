package dicom

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/b71729/bin"
)

/*
===============================================================================
    ElementReader
===============================================================================
*/

// Header describes an element as announced by its tag, VR and length fields,
// before any of its value has been consumed.
type Header struct {
	Tag uint32
	// VR is empty for items and delimiters. Under implicit VR it is taken from the dictionary.
	VR     string
	Length uint32
	// Offset is the stream position of the first byte of the tag.
	Offset int64
}

// IsUndefinedLength returns whether the value is bounded by a delimiter rather than a byte count.
func (h *Header) IsUndefinedLength() bool {
	return h.Length == UndefinedLength
}

// tmpBuffers provides an assortment of temporary variables used internally
// to reduce allocation overhead.
//
// These variables are **not** safe for concurrent use.
type tmpBuffers struct {
	_8b  [8]byte
	err  error
	ui16 uint16
	ui32 uint32
}

// maxInitialAllocation bounds the first allocation made for a value, so that a
// corrupt length field cannot force a huge allocation before any byte is read.
const maxInitialAllocation = 1 << 20

// ElementReader extends `bin.Reader` to export methods to assist in
// decoding DICOM Elements, i.e. "ReadHeader" and "ReadElement".
type ElementReader struct {
	br        bin.Reader
	implicit  bool
	pos       int64
	strict    bool
	encodings []Encoding
	dataset   DataSet
	tmpBuffers
}

// NewElementReader returns a fresh ElementReader set up to use `source`
// for its data.
//
// For futureproofing, it is suggested to use these constructors rather than
// manually creating an instance (i.e. `elr := ElementReader{}`)
func NewElementReader(source bin.Reader) (er ElementReader) {
	er = ElementReader{
		br:      source,
		dataset: NewDataSet(),
	}
	// ElementReader defaults to Implicit VR Little Endian: Default Transfer Syntax for DICOM
	er.SetImplicitVR(true)
	er.SetLittleEndian(true)
	return er
}

// NewElementReaderWithEncoding returns an ElementReader over `source` decoding with `e`.
func NewElementReaderWithEncoding(source io.Reader, e Encoding) ElementReader {
	er := NewElementReader(bin.NewReader(source, e.ByteOrder()))
	er.SetEncoding(e)
	return er
}

// IsLittleEndian returns whether this ElementReader is set to parse
// data according to Little Endian byte ordering.
func (elr *ElementReader) IsLittleEndian() bool {
	return elr.br.GetByteOrder() == binary.LittleEndian
}

// SetLittleEndian sets whether this ElementReader should parse
// data according to Little Endian byte ordering.
func (elr *ElementReader) SetLittleEndian(isLittleEndian bool) {
	if isLittleEndian {
		elr.br.SetByteOrder(binary.LittleEndian)
	} else {
		elr.br.SetByteOrder(binary.BigEndian)
	}
}

// IsImplicitVR returns whether this ElementReader is set to parse
// data according to the VR component being implicitly defined
func (elr *ElementReader) IsImplicitVR() bool {
	return elr.implicit
}

// SetImplicitVR sets whether this ElementReader should parse
// data according to the VR component being implicitly defined
func (elr *ElementReader) SetImplicitVR(isImplicitVR bool) {
	elr.implicit = isImplicitVR
}

// GetEncoding returns the encoding currently in effect.
func (elr *ElementReader) GetEncoding() Encoding {
	return Encoding{ImplicitVR: elr.IsImplicitVR(), LittleEndian: elr.IsLittleEndian()}
}

// SetEncoding switches the encoding used for subsequent reads.
func (elr *ElementReader) SetEncoding(e Encoding) {
	elr.SetImplicitVR(e.ImplicitVR)
	elr.SetLittleEndian(e.LittleEndian)
}

// PushEncoding temporarily switches to `e`; PopEncoding restores the previous encoding.
func (elr *ElementReader) PushEncoding(e Encoding) {
	elr.encodings = append(elr.encodings, elr.GetEncoding())
	elr.SetEncoding(e)
}

// PopEncoding restores the encoding saved by the matching PushEncoding.
func (elr *ElementReader) PopEncoding() {
	n := len(elr.encodings)
	if n == 0 {
		return
	}
	elr.SetEncoding(elr.encodings[n-1])
	elr.encodings = elr.encodings[:n-1]
}

// SetStrictMode selects whether delimiters carrying a non-zero length are
// rejected (strict) or skipped with a warning.
func (elr *ElementReader) SetStrictMode(strict bool) {
	elr.strict = strict
}

// Position returns the number of bytes consumed so far.
func (elr *ElementReader) Position() int64 {
	return elr.pos
}

// DataSet returns the data set accumulated while reading.
func (elr *ElementReader) DataSet() DataSet {
	return elr.dataset
}

// SetDataSet replaces the accumulating data set, returning the previous one.
func (elr *ElementReader) SetDataSet(ds DataSet) DataSet {
	prev := elr.dataset
	elr.dataset = ds
	return prev
}

// readTag attempts to read/decode a dicom "Tag" from the reader into `dst`.
// A clean end of stream before the first byte is reported as `io.EOF`.
func (elr *ElementReader) readTag(dst *uint32) error {
	if elr.err = elr.br.ReadBytes(elr._8b[:4]); elr.err != nil {
		return elr.err
	}
	elr.pos += 4
	_ = elr._8b[3] // bounds check hint to compiler; see golang.org/issue/14808
	if elr.IsLittleEndian() {
		*dst = uint32(elr._8b[2]) |
			uint32(elr._8b[3])<<8 |
			uint32(elr._8b[0])<<16 |
			uint32(elr._8b[1])<<24
	} else {
		*dst = uint32(elr._8b[3]) |
			uint32(elr._8b[2])<<8 |
			uint32(elr._8b[1])<<16 |
			uint32(elr._8b[0])<<24
	}
	return nil
}

// readUint32 reads a 32-bit length field.
func (elr *ElementReader) readUint32(dst *uint32) error {
	if elr.err = elr.br.ReadUint32(dst); elr.err != nil {
		return elr.err
	}
	elr.pos += 4
	return nil
}

// readHeaderVR reads the two VR bytes of an explicit VR header.
func (elr *ElementReader) readHeaderVR(dst *Header) error {
	if elr.err = elr.br.ReadBytes(elr._8b[:2]); elr.err != nil {
		return elr.err
	}
	elr.pos += 2
	dst.VR = string(elr._8b[:2])
	return nil
}

// readHeaderLength reads the length field following an explicit VR.
// issue #6: use *source* VR as basis for deciding whether to skip / size of length integer.
func (elr *ElementReader) readHeaderLength(dst *Header) error {
	if LookupVR(dst.VR).LongLength {
		// skip 2 reserved bytes, then length is 32 bits
		if elr.err = elr.br.Discard(2); elr.err != nil {
			return elr.err
		}
		elr.pos += 2
		return elr.readUint32(&dst.Length)
	}
	if elr.err = elr.br.ReadUint16(&elr.ui16); elr.err != nil {
		return elr.err
	}
	elr.pos += 2
	dst.Length = uint32(elr.ui16)
	return nil
}

// ReadHeader reads one element, item or delimiter header under the current encoding.
// It returns `io.EOF` only when the stream ends cleanly before a new header;
// a header cut short yields a `CorruptElement` error.
func (elr *ElementReader) ReadHeader(dst *Header) error {
	*dst = Header{Offset: elr.pos}
	if err := elr.readTag(&dst.Tag); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return CorruptElementError("truncated tag at offset %d: %w", dst.Offset, unexpectedEOF(err))
	}
	var err error
	switch {
	case !HasVR(dst.Tag):
		// items and delimiters: tag followed by a 32-bit length in every encoding
		err = elr.readUint32(&dst.Length)
	case elr.IsImplicitVR():
		dst.VR = VROf(dst.Tag)
		err = elr.readUint32(&dst.Length)
	default:
		if err = elr.readHeaderVR(dst); err == nil {
			err = elr.readHeaderLength(dst)
		}
	}
	if err != nil {
		return CorruptElementError("truncated header of %s at offset %d: %w", Tag(dst.Tag), dst.Offset, unexpectedEOF(err))
	}
	return nil
}

// unexpectedEOF maps an end of stream inside a structure onto `io.ErrUnexpectedEOF`.
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// ReadBytes fills `dst` from the stream. Running out of input is reported as `InsufficientBytes`.
func (elr *ElementReader) ReadBytes(dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	if elr.err = elr.br.ReadBytes(dst); elr.err != nil {
		if elr.err == io.EOF || elr.err == io.ErrUnexpectedEOF {
			return InsufficientBytesError("need %d bytes at offset %d: %w", len(dst), elr.pos, io.ErrUnexpectedEOF)
		}
		return elr.err
	}
	elr.pos += int64(len(dst))
	return nil
}

// Skip discards `n` bytes of value.
func (elr *ElementReader) Skip(n uint32) error {
	for n > 0 {
		chunk := n
		if chunk > uint32(len(elr._8b)) {
			chunk = uint32(len(elr._8b))
		}
		if err := elr.ReadBytes(elr._8b[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// readValue reads a value of `length` bytes, growing the destination as input arrives.
func (elr *ElementReader) readValue(length uint32) ([]byte, error) {
	alloc := length
	if alloc > maxInitialAllocation {
		alloc = maxInitialAllocation
	}
	buf := make([]byte, alloc)
	if err := elr.ReadBytes(buf); err != nil {
		return nil, err
	}
	for uint32(len(buf)) < length {
		grown := uint64(len(buf)) * 2
		if grown > uint64(length) {
			grown = uint64(length)
		}
		next := make([]byte, grown)
		copy(next, buf)
		if err := elr.ReadBytes(next[len(buf):]); err != nil {
			return nil, err
		}
		buf = next
	}
	return buf, nil
}

// SkipDelimiterPayload consumes the (normally empty) value of an item or sequence delimiter.
func (elr *ElementReader) SkipDelimiterPayload(h *Header) error {
	if h.Length == 0 {
		return nil
	}
	if elr.strict {
		return CorruptElementError("%s with non-zero length %d at offset %d", Tag(h.Tag), h.Length, h.Offset)
	}
	log.Warnf("%s with non-zero length %d at offset %d - try to skip length", Tag(h.Tag), h.Length, h.Offset)
	return elr.Skip(h.Length)
}

// ReadElement attempts to completely read an element into `dst`,
// including any nested items.
//
// All types of elements are expected to be compatible.
func (elr *ElementReader) ReadElement(dst *Element) error {
	var h Header
	if err := elr.ReadHeader(&h); err != nil {
		return err
	}
	return elr.readElementData(&h, dst)
}

// readElementData attempts to read/decode the "Data" component of the element announced by `h`.
// In the event that the length is 0xFFFFFFFF (undefined) or the VR is SQ, embedded contents will
// be decoded, as per: http://dicom.nema.org/dicom/2013/output/chtml/part05/sect_7.5.html
func (elr *ElementReader) readElementData(h *Header, dst *Element) error {
	*dst = Element{tag: h.Tag, vr: h.VR, datalen: h.Length, bigEndian: !elr.IsLittleEndian()}
	if IsDelimitation(h.Tag) {
		return elr.SkipDelimiterPayload(h)
	}
	if Tag(h.Tag) == ItemTag {
		return CorruptElementStreamError("unexpected item at offset %d outside of a sequence", h.Offset)
	}
	if h.IsUndefinedLength() || LookupVR(h.VR).IsSequence() {
		return elr.readItems(h, dst)
	}
	var err error
	dst.data, err = elr.readValue(h.Length)
	return err
}

// readItems reads the items nested in the element announced by `h`.
//
// If the element is a sequence (SQ, or UN of undefined length), each item is decoded
// into a DataSet. Otherwise (encapsulated OB/OW) each item is kept as an unparsed fragment.
func (elr *ElementReader) readItems(h *Header, dst *Element) error {
	parse := LookupVR(h.VR).IsSequence()
	if h.VR == "UN" && h.IsUndefinedLength() {
		// Data sets in items of sequences encoded with VR=UN are
		// themselves encoded in Implicit VR Little Endian.
		parse = true
		elr.PushEncoding(ImplicitVRLittleEndian)
		defer elr.PopEncoding()
	}
	end := int64(-1)
	if !h.IsUndefinedLength() {
		end = elr.pos + int64(h.Length)
	}
	for end < 0 || elr.pos < end {
		var ih Header
		if err := elr.ReadHeader(&ih); err != nil {
			if err == io.EOF {
				return unbalanced(h, end)
			}
			return err
		}
		switch Tag(ih.Tag) {
		case SequenceDelimitationTag:
			if end >= 0 {
				return CorruptElementStreamError("sequence delimiter at offset %d inside %s of defined length", ih.Offset, Tag(h.Tag))
			}
			return elr.SkipDelimiterPayload(&ih)
		case ItemTag:
			item, err := elr.readItem(&ih, parse)
			if err != nil {
				return err
			}
			dst.items = append(dst.items, item)
		default:
			return CorruptElementStreamError("expected item in %s but found %s at offset %d", Tag(h.Tag), Tag(ih.Tag), ih.Offset)
		}
	}
	return checkEnd(elr.pos, end, h)
}

// readItem reads the content of the item announced by `h`.
func (elr *ElementReader) readItem(h *Header, parse bool) (Item, error) {
	if !parse {
		if h.IsUndefinedLength() {
			return Item{}, CorruptElementError("fragment with undefined length at offset %d", h.Offset)
		}
		data, err := elr.readValue(h.Length)
		return NewFragment(data), err
	}
	item := NewItem()
	err := elr.readDataSet(item.dataset, h.Length, true)
	return item, err
}

// ReadDataSet reads elements into `ds` until the end of the stream.
func (elr *ElementReader) ReadDataSet(ds DataSet) error {
	return elr.readDataSet(ds, UndefinedLength, false)
}

// readDataSet reads elements into `ds`. A defined `length` ends the data set by position;
// otherwise a nested data set ends at an Item Delimitation Item and a top-level one at end of stream.
func (elr *ElementReader) readDataSet(ds DataSet, length uint32, nested bool) error {
	h := Header{Tag: uint32(ItemTag), Length: length, Offset: elr.pos}
	end := int64(-1)
	if length != UndefinedLength {
		end = elr.pos + int64(length)
	}
	for end < 0 || elr.pos < end {
		var eh Header
		if err := elr.ReadHeader(&eh); err != nil {
			if err == io.EOF {
				if !nested {
					return nil
				}
				return unbalanced(&h, end)
			}
			return err
		}
		if IsDelimitation(eh.Tag) {
			if end >= 0 {
				return CorruptElementStreamError("%s at offset %d inside an item of defined length", Tag(eh.Tag), eh.Offset)
			}
			if err := elr.SkipDelimiterPayload(&eh); err != nil {
				return err
			}
			if nested && Tag(eh.Tag) == ItemDelimitationTag {
				return nil
			}
			return CorruptElementStreamError("unexpected %s at offset %d", Tag(eh.Tag), eh.Offset)
		}
		e := Element{}
		if err := elr.readElementData(&eh, &e); err != nil {
			return err
		}
		ds.AddElement(e)
	}
	return checkEnd(elr.pos, end, &h)
}

// unbalanced reports a stream that ended inside the structure announced by `h`.
func unbalanced(h *Header, end int64) error {
	if end >= 0 {
		return InsufficientBytesError("%s at offset %d declares %d bytes: %w", Tag(h.Tag), h.Offset, h.Length, io.ErrUnexpectedEOF)
	}
	return CorruptElementStreamError("end of stream inside %s opened at offset %d: %w", Tag(h.Tag), h.Offset, io.ErrUnexpectedEOF)
}

// checkEnd verifies that a structure of defined length was consumed exactly.
func checkEnd(pos, end int64, h *Header) error {
	if end >= 0 && pos != end {
		return CorruptElementStreamError("%s at offset %d overran its length %d by %d bytes", Tag(h.Tag), h.Offset, h.Length, pos-end)
	}
	return nil
}

// determineEncoding attempts to determine the current encoding
// (Implicit/Explicit VR, Big/Little Endian)
// `buf` should be of length six.
func (elr *ElementReader) determineEncoding(buf []byte) error {
	if len(buf) != 6 {
		return errors.New("determineEncoding(buf): need six bytes")
	}
	// here we need six bytes: four for tag, and two for VR
	// the first group of a data set is small; pick the byte order that decodes it so
	elr.ui16 = binary.LittleEndian.Uint16(buf[0:2])
	elr.SetLittleEndian(elr.ui16 <= binary.BigEndian.Uint16(buf[0:2]))
	elr.SetImplicitVR(!IsRecognisedVR(string(buf[4:6])))
	log.Debugf("determined encoding: %s", elr.GetEncoding())
	return nil
}
