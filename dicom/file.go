package dicom

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/b71729/bin"
	"github.com/cpboyd/simply-dicom-sub002/common"
)

/*
===============================================================================
    Dicom
===============================================================================
*/

// Dicom represents a file containing one SOP Instance
// as per http://dicom.nema.org/dicom/2013/output/chtml/part10/chapter_7.html
type Dicom struct {
	preamble       [128]byte
	hasPreamble    bool
	meta           DataSet
	dataset        DataSet
	transferSyntax TransferSyntax
	_2b            [2]byte
	_6b            [6]byte
	err            error
}

// NewDicom returns a fresh Dicom suitable for parsing
// dicom data.
func NewDicom() Dicom {
	return Dicom{
		meta:           NewDataSet(),
		dataset:        NewDataSet(),
		transferSyntax: TransferSyntaxMap[ImplicitVRLittleEndianUID],
	}
}

// GetPreamble returns the "preamble" component
func (dcm *Dicom) GetPreamble() [128]byte {
	return dcm.preamble
}

// HasPreamble returns whether the source carried the preamble and "DICM" magic.
func (dcm *Dicom) HasPreamble() bool {
	return dcm.hasPreamble
}

// GetMeta returns the file meta information group (0002,xxxx)
func (dcm *Dicom) GetMeta() DataSet {
	return dcm.meta
}

// GetDataSet returns the parsed DataSet (elements)
func (dcm *Dicom) GetDataSet() DataSet {
	return dcm.dataset
}

// GetTransferSyntax returns the transfer syntax the data set was encoded with.
func (dcm *Dicom) GetTransferSyntax() TransferSyntax {
	return dcm.transferSyntax
}

// dicmTestString contains the dicom magic value
var dicmTestString = []byte("DICM")

// attemptReadPreamble attempts to decode the "preamble"
func (dcm *Dicom) attemptReadPreamble(elr *ElementReader) (bool, error) {
	preamble := make([]byte, 132)
	if dcm.err = elr.br.Peek(preamble); dcm.err != nil {
		if dcm.err == io.EOF || dcm.err == io.ErrUnexpectedEOF {
			// too short to carry a preamble
			return false, nil
		}
		return false, dcm.err
	}
	if !bytes.Equal(preamble[128:132], dicmTestString) {
		return false, nil
	}

	// dicm magic has a match. save preamble and discard bytes from stream
	copy(dcm.preamble[:], preamble[:128])
	if dcm.err = elr.br.Discard(132); dcm.err != nil {
		return false, dcm.err
	}
	elr.pos += 132
	return true, nil
}

// readHead consumes the preamble (if any) and the file meta group, leaving `elr`
// positioned on the first data set element and set to the data set encoding.
func (dcm *Dicom) readHead(elr *ElementReader) error {
	if dcm.hasPreamble, dcm.err = dcm.attemptReadPreamble(elr); dcm.err != nil {
		return dcm.err
	}
	if !dcm.hasPreamble {
		log.Debug("file is missing preamble/magic (bytes 0-132)")
	}

	// meta elements are always explicit vr, little endian
	elr.SetEncoding(ExplicitVRLittleEndian)
	e := NewElement()
	for {
		// read the first two bytes (group of the tag) to determine
		// whether we have reached the boundary of the meta section
		if dcm.err = elr.br.Peek(dcm._2b[:]); dcm.err != nil {
			if dcm.err == io.EOF || dcm.err == io.ErrUnexpectedEOF {
				break
			}
			return dcm.err
		}
		if binary.LittleEndian.Uint16(dcm._2b[:]) != 0x0002 {
			break
		}
		if dcm.err = elr.ReadElement(&e); dcm.err != nil {
			return dcm.err
		}
		dcm.meta.AddElement(e)
	}

	if tsuid, found := dcm.meta.GetString(uint32(TransferSyntaxUIDTag)); found {
		var known bool
		if dcm.transferSyntax, known = LookupTransferSyntax(tsuid); !known {
			log.Warnf("unknown transfer syntax %q: assuming %s", tsuid, dcm.transferSyntax.Encoding)
		}
		if dcm.transferSyntax.Deflated {
			return UnsupportedDicomError("%s is not supported", dcm.transferSyntax)
		}
		elr.SetEncoding(dcm.transferSyntax.Encoding)
		log.Debugf("data set transfer syntax: %s", dcm.transferSyntax)
		return nil
	}

	// no transfer syntax announced: peek at the first element to determine its encoding
	if dcm.err = elr.br.Peek(dcm._6b[:]); dcm.err != nil {
		if dcm.err != io.EOF && dcm.err != io.ErrUnexpectedEOF {
			return dcm.err
		}
		if !dcm.hasPreamble && dcm.meta.Len() == 0 {
			return NotADicomError("input is empty or too short to hold an element")
		}
		return nil
	}
	if dcm.err = elr.determineEncoding(dcm._6b[:]); dcm.err != nil {
		return dcm.err
	}
	dcm.transferSyntax = TransferSyntaxForEncoding(elr.GetEncoding())
	return nil
}

// FromReader decodes a dicom file from `source`, returning an error
// if something went wrong during the process.
// This takes ownership of `source`; do not use it after passing through.
func (dcm *Dicom) FromReader(source io.Reader) error {
	elr := NewElementReader(bin.NewReader(source, binary.LittleEndian))
	elr.SetStrictMode(common.GetConfig().StrictMode)
	if dcm.err = dcm.readHead(&elr); dcm.err != nil {
		return dcm.err
	}
	return elr.ReadDataSet(dcm.dataset)
}

// FromFile decodes a dicom file from the given file path
// See: FromReader for more information
func (dcm *Dicom) FromFile(path string) error {
	var f *os.File
	if f, dcm.err = os.Open(path); dcm.err != nil {
		return dcm.err
	}
	defer f.Close()
	return dcm.FromReader(f)
}

// Write serialises the file with a fresh meta group, encoding the data set as `ts`.
func (dcm *Dicom) Write(dst io.Writer, ts TransferSyntax) error {
	if err := checkTarget(dcm.transferSyntax, ts); err != nil {
		return err
	}
	meta, err := NewFileMeta(dcm.meta, dcm.dataset, ts)
	if err != nil {
		return err
	}
	if err = WriteFileMeta(dst, dcm.preamble, meta); err != nil {
		return err
	}
	elw := NewElementWriterWithEncoding(dst, ts.Encoding)
	return elw.WriteDataSet(dcm.dataset)
}

// checkTarget rejects conversions that would need a codec: deflate and pixel data compression.
func checkTarget(from, to TransferSyntax) error {
	if to.Deflated {
		return UnsupportedDicomError("cannot write %s", to)
	}
	if (from.Encapsulated || to.Encapsulated) && from.UID != to.UID {
		return UnsupportedDicomError("cannot convert %s to %s: pixel data would need re-encoding", from, to)
	}
	return nil
}

/*
===============================================================================
    File Meta Information
===============================================================================
*/

// NewFileMeta builds the file meta group announcing `ts`. SOP class and instance are taken
// from `source` if present, otherwise from the data set.
func NewFileMeta(source, dataset DataSet, ts TransferSyntax) (DataSet, error) {
	if ts.UID == "" {
		return nil, UnsupportedDicomError("transfer syntax %s has no UID to announce", ts.Encoding)
	}
	meta := NewDataSet()
	for _, e := range source.GetElements() {
		if IsFileMetaInfoElement(e.tag) && !IsGroupLengthElement(e.tag) {
			meta.AddElement(e)
		}
	}
	if !meta.HasElement(uint32(FileMetaInformationVersionTag)) {
		meta.PutBytes(uint32(FileMetaInformationVersionTag), "OB", []byte{0x00, 0x01}, false)
	}
	copyUID := func(metaTag, datasetTag Tag) error {
		if meta.HasElement(uint32(metaTag)) {
			return nil
		}
		if uid, found := dataset.GetString(uint32(datasetTag)); found {
			return meta.PutString(uint32(metaTag), "UI", uid)
		}
		return nil
	}
	if err := copyUID(MediaStorageSOPClassUIDTag, SOPClassUIDTag); err != nil {
		return nil, err
	}
	if err := copyUID(MediaStorageSOPInstanceUIDTag, SOPInstanceUIDTag); err != nil {
		return nil, err
	}
	if err := meta.PutString(uint32(TransferSyntaxUIDTag), "UI", ts.UID); err != nil {
		return nil, err
	}
	if err := meta.PutString(uint32(ImplementationClassUIDTag), "UI", common.GetImplementationUID(false)); err != nil {
		return nil, err
	}
	if err := meta.PutString(uint32(ImplementationVersionNameTag), "SH", common.ImplementationVersionName); err != nil {
		return nil, err
	}
	return meta, nil
}

// WriteFileMeta writes the preamble, the "DICM" magic and `meta` preceded by a
// freshly computed File Meta Information Group Length (0002,0000).
// The meta group is always Explicit VR Little Endian.
func WriteFileMeta(dst io.Writer, preamble [128]byte, meta DataSet) error {
	elw := NewElementWriterWithEncoding(dst, ExplicitVRLittleEndian)
	if err := elw.WriteBytes(preamble[:]); err != nil {
		return err
	}
	if err := elw.WriteBytes(dicmTestString); err != nil {
		return err
	}
	elements := make([]Element, 0, meta.Len())
	var groupLength uint32
	for _, e := range meta.GetElements() {
		if !IsFileMetaInfoElement(e.tag) || IsGroupLengthElement(e.tag) {
			continue
		}
		e.data = padValue(e.vr, e.data)
		groupLength += uint32(LookupVR(e.vr).HeaderLength(false) + len(e.data))
		elements = append(elements, e)
	}
	length := make([]byte, 4)
	binary.LittleEndian.PutUint32(length, groupLength)
	if err := elw.WriteElement(NewElementWithBytes(uint32(FileMetaInformationGroupLengthTag), "UL", length, false)); err != nil {
		return err
	}
	for _, e := range elements {
		if err := elw.WriteElement(e); err != nil {
			return err
		}
	}
	return nil
}

// TranscodeFile reads the Part 10 file `src` and streams it to `dst` re-encoded as `ts`.
// Only the meta group is held in memory; the data set is relayed element by element
// with the buffer size and strictness taken from `common.GetConfig()`.
func TranscodeFile(src io.Reader, dst io.Writer, ts TransferSyntax) error {
	config := common.GetConfig()
	dcm := NewDicom()
	elr := NewElementReader(bin.NewReader(src, binary.LittleEndian))
	elr.SetStrictMode(config.StrictMode)
	if err := dcm.readHead(&elr); err != nil {
		return err
	}
	if err := checkTarget(dcm.transferSyntax, ts); err != nil {
		return err
	}
	if !dcm.meta.HasElement(uint32(MediaStorageSOPInstanceUIDTag)) {
		log.Debug("source has no meta group: output meta will lack SOP class / instance")
	}
	meta, err := NewFileMeta(dcm.meta, NewDataSet(), ts)
	if err != nil {
		return err
	}
	if err = WriteFileMeta(dst, dcm.preamble, meta); err != nil {
		return err
	}
	elw := NewElementWriterWithEncoding(dst, ts.Encoding)
	t, err := NewTranscoder(&elr, &elw, config.BufferSize)
	if err != nil {
		return err
	}
	return t.Transcode()
}
