package dicom

import (
	"encoding/binary"
	"io"

	"github.com/b71729/bin"
)

/*
===============================================================================
    ElementWriter
===============================================================================
*/

// ElementWriter extends `bin.Writer` to export methods to assist in
// encoding DICOM Elements, i.e. "WriteHeader" and "WriteElement".
type ElementWriter struct {
	bw        bin.Writer
	implicit  bool
	encodings []Encoding
	err       error
}

// NewElementWriter returns a fresh ElementWriter set up to write to `dst`.
// It defaults to Implicit VR Little Endian.
func NewElementWriter(dst bin.Writer) (ew ElementWriter) {
	ew = ElementWriter{bw: dst}
	ew.SetImplicitVR(true)
	ew.SetLittleEndian(true)
	return ew
}

// NewElementWriterWithEncoding returns an ElementWriter over `dst` encoding with `e`.
func NewElementWriterWithEncoding(dst io.Writer, e Encoding) ElementWriter {
	ew := NewElementWriter(bin.NewWriter(dst, e.ByteOrder()))
	ew.SetEncoding(e)
	return ew
}

// IsLittleEndian returns whether this ElementWriter is set to encode
// data according to Little Endian byte ordering.
func (elw *ElementWriter) IsLittleEndian() bool {
	return elw.bw.GetByteOrder() == binary.LittleEndian
}

// SetLittleEndian sets whether this ElementWriter should encode
// data according to Little Endian byte ordering.
func (elw *ElementWriter) SetLittleEndian(isLittleEndian bool) {
	if isLittleEndian {
		elw.bw.SetByteOrder(binary.LittleEndian)
	} else {
		elw.bw.SetByteOrder(binary.BigEndian)
	}
}

// IsImplicitVR returns whether headers are written without a VR.
func (elw *ElementWriter) IsImplicitVR() bool {
	return elw.implicit
}

// SetImplicitVR sets whether headers are written without a VR.
func (elw *ElementWriter) SetImplicitVR(isImplicitVR bool) {
	elw.implicit = isImplicitVR
}

// GetEncoding returns the encoding currently in effect.
func (elw *ElementWriter) GetEncoding() Encoding {
	return Encoding{ImplicitVR: elw.IsImplicitVR(), LittleEndian: elw.IsLittleEndian()}
}

// SetEncoding switches the encoding used for subsequent writes.
func (elw *ElementWriter) SetEncoding(e Encoding) {
	elw.SetImplicitVR(e.ImplicitVR)
	elw.SetLittleEndian(e.LittleEndian)
}

// PushEncoding temporarily switches to `e`; PopEncoding restores the previous encoding.
func (elw *ElementWriter) PushEncoding(e Encoding) {
	elw.encodings = append(elw.encodings, elw.GetEncoding())
	elw.SetEncoding(e)
}

// PopEncoding restores the encoding saved by the matching PushEncoding.
func (elw *ElementWriter) PopEncoding() {
	n := len(elw.encodings)
	if n == 0 {
		return
	}
	elw.SetEncoding(elw.encodings[n-1])
	elw.encodings = elw.encodings[:n-1]
}

// writeTag writes group then element, each in the current byte order.
func (elw *ElementWriter) writeTag(tag uint32) error {
	if elw.err = elw.bw.WriteUint16(uint16(tag >> 16)); elw.err != nil {
		return elw.err
	}
	return elw.bw.WriteUint16(uint16(tag))
}

// WriteHeader writes the tag, VR (explicit encodings only) and length fields of an element.
// Items and delimiters are written with a 32-bit length and no VR in every encoding.
func (elw *ElementWriter) WriteHeader(tag uint32, vr string, length uint32) error {
	if err := elw.writeTag(tag); err != nil {
		return err
	}
	if !HasVR(tag) || elw.IsImplicitVR() {
		return elw.bw.WriteUint32(length)
	}
	if len(vr) != 2 {
		return CorruptElementError("cannot write VR %q of %s", vr, Tag(tag))
	}
	if elw.err = elw.bw.WriteBytes([]byte(vr)); elw.err != nil {
		return elw.err
	}
	if LookupVR(vr).LongLength {
		if elw.err = elw.bw.ZeroFill(2); elw.err != nil {
			return elw.err
		}
		return elw.bw.WriteUint32(length)
	}
	if length > 0xFFFF {
		return CorruptElementError("length %d of %s [%s] does not fit a 16-bit length field", length, Tag(tag), vr)
	}
	return elw.bw.WriteUint16(uint16(length))
}

// WriteBytes writes raw value bytes.
func (elw *ElementWriter) WriteBytes(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return elw.bw.WriteBytes(b)
}

// WriteElement writes a complete element, including nested items.
// Byte order sensitive values are toggled when they were stored in the other byte order.
func (elw *ElementWriter) WriteElement(e Element) error {
	if e.HasItems() || e.datalen == UndefinedLength || LookupVR(e.vr).IsSequence() && e.data == nil {
		return elw.writeElementItems(e)
	}
	if err := elw.WriteHeader(e.tag, e.vr, uint32(len(e.data))); err != nil {
		return err
	}
	return elw.writeValue(e.vr, e.data, e.bigEndian)
}

// writeValue writes `data`, converting from the byte order it was stored in.
func (elw *ElementWriter) writeValue(vr string, data []byte, bigEndian bool) error {
	kind := LookupVR(vr)
	if kind.IsByteOrderSensitive() && bigEndian == elw.IsLittleEndian() {
		toggled := make([]byte, len(data))
		copy(toggled, data)
		ToggleEndian(toggled, kind.SwapWidth)
		data = toggled
	}
	return elw.WriteBytes(data)
}

// writeElementItems writes a sequence or encapsulated element with undefined length.
// Sequences written as UN are encoded in Implicit VR Little Endian.
func (elw *ElementWriter) writeElementItems(e Element) error {
	if err := elw.WriteHeader(e.tag, e.vr, UndefinedLength); err != nil {
		return err
	}
	if e.vr == "UN" {
		elw.PushEncoding(ImplicitVRLittleEndian)
		defer elw.PopEncoding()
	}
	for _, item := range e.items {
		if item.IsFragment() {
			if err := elw.WriteHeader(uint32(ItemTag), "", uint32(len(item.unparsed))); err != nil {
				return err
			}
			if err := elw.writeValue(e.vr, item.unparsed, e.bigEndian); err != nil {
				return err
			}
			continue
		}
		if err := elw.WriteHeader(uint32(ItemTag), "", UndefinedLength); err != nil {
			return err
		}
		if err := elw.WriteDataSet(item.dataset); err != nil {
			return err
		}
		if err := elw.WriteHeader(uint32(ItemDelimitationTag), "", 0); err != nil {
			return err
		}
	}
	return elw.WriteHeader(uint32(SequenceDelimitationTag), "", 0)
}

// WriteDataSet writes every element of `ds` in ascending tag order.
// Group length elements are left out since the values they hold would no longer be accurate.
func (elw *ElementWriter) WriteDataSet(ds DataSet) error {
	for _, e := range ds.GetElements() {
		if IsGroupLengthElement(e.tag) {
			continue
		}
		if err := elw.WriteElement(e); err != nil {
			return err
		}
	}
	return nil
}
