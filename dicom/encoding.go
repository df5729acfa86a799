// Package dicom implements streaming reading, writing and transcoding of DICOM data elements
package dicom

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Encoding represents the expected encoding of dicom attributes: the
// explicit/implicit VR and byte order pair of a transfer syntax.
type Encoding struct {
	ImplicitVR   bool
	LittleEndian bool
}

// The three uncompressed encodings defined by PS3.5.
var (
	ImplicitVRLittleEndian = Encoding{ImplicitVR: true, LittleEndian: true}
	ExplicitVRLittleEndian = Encoding{ImplicitVR: false, LittleEndian: true}
	ExplicitVRBigEndian    = Encoding{ImplicitVR: false, LittleEndian: false}
)

func (e Encoding) String() string {
	var implicitness = "ImplicitVR"
	var endian = "LittleEndian"
	if !e.ImplicitVR {
		implicitness = "ExplicitVR"
	}
	if !e.LittleEndian {
		endian = "BigEndian"
	}
	return fmt.Sprintf("%s + %s", implicitness, endian)
}

// ByteOrder returns the `binary.ByteOrder` matching the encoding.
func (e Encoding) ByteOrder() binary.ByteOrder {
	if e.LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// ParseEncoding accepts the short names used on command lines:
// "implicit", "explicit" and "big".
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "implicit", "implicitvrlittleendian":
		return ImplicitVRLittleEndian, nil
	case "explicit", "explicitvrlittleendian":
		return ExplicitVRLittleEndian, nil
	case "big", "explicitvrbigendian":
		return ExplicitVRBigEndian, nil
	}
	return Encoding{}, fmt.Errorf("unknown encoding %q", name)
}

// Transfer syntax UIDs, from PS3.6 Annex A.
const (
	ImplicitVRLittleEndianUID         = "1.2.840.10008.1.2"
	ExplicitVRLittleEndianUID         = "1.2.840.10008.1.2.1"
	DeflatedExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1.99"
	ExplicitVRBigEndianUID            = "1.2.840.10008.1.2.2"
)

// TransferSyntax provides a link between a transfer syntax UID and its encoding
type TransferSyntax struct {
	UID          string
	Name         string
	Encoding     Encoding
	Deflated     bool
	Encapsulated bool
}

func (ts TransferSyntax) String() string {
	return fmt.Sprintf("%s [%s]", ts.Name, ts.UID)
}

// TransferSyntaxMap provides a mapping between transfer syntax UID and transfer syntax.
// Encapsulated syntaxes share Explicit VR Little Endian for everything but the pixel data fragments.
var TransferSyntaxMap = map[string]TransferSyntax{
	ImplicitVRLittleEndianUID:         {UID: ImplicitVRLittleEndianUID, Name: "Implicit VR Little Endian", Encoding: ImplicitVRLittleEndian},
	ExplicitVRLittleEndianUID:         {UID: ExplicitVRLittleEndianUID, Name: "Explicit VR Little Endian", Encoding: ExplicitVRLittleEndian},
	DeflatedExplicitVRLittleEndianUID: {UID: DeflatedExplicitVRLittleEndianUID, Name: "Deflated Explicit VR Little Endian", Encoding: ExplicitVRLittleEndian, Deflated: true},
	ExplicitVRBigEndianUID:            {UID: ExplicitVRBigEndianUID, Name: "Explicit VR Big Endian", Encoding: ExplicitVRBigEndian},
	"1.2.840.10008.1.2.4.50":          {UID: "1.2.840.10008.1.2.4.50", Name: "JPEG Baseline (Process 1)", Encoding: ExplicitVRLittleEndian, Encapsulated: true},
	"1.2.840.10008.1.2.4.51":          {UID: "1.2.840.10008.1.2.4.51", Name: "JPEG Extended (Process 2 & 4)", Encoding: ExplicitVRLittleEndian, Encapsulated: true},
	"1.2.840.10008.1.2.4.57":          {UID: "1.2.840.10008.1.2.4.57", Name: "JPEG Lossless, Non-Hierarchical (Process 14)", Encoding: ExplicitVRLittleEndian, Encapsulated: true},
	"1.2.840.10008.1.2.4.70":          {UID: "1.2.840.10008.1.2.4.70", Name: "JPEG Lossless, Non-Hierarchical, First-Order Prediction", Encoding: ExplicitVRLittleEndian, Encapsulated: true},
	"1.2.840.10008.1.2.4.80":          {UID: "1.2.840.10008.1.2.4.80", Name: "JPEG-LS Lossless Image Compression", Encoding: ExplicitVRLittleEndian, Encapsulated: true},
	"1.2.840.10008.1.2.4.81":          {UID: "1.2.840.10008.1.2.4.81", Name: "JPEG-LS Lossy (Near-Lossless) Image Compression", Encoding: ExplicitVRLittleEndian, Encapsulated: true},
	"1.2.840.10008.1.2.4.90":          {UID: "1.2.840.10008.1.2.4.90", Name: "JPEG 2000 Image Compression (Lossless Only)", Encoding: ExplicitVRLittleEndian, Encapsulated: true},
	"1.2.840.10008.1.2.4.91":          {UID: "1.2.840.10008.1.2.4.91", Name: "JPEG 2000 Image Compression", Encoding: ExplicitVRLittleEndian, Encapsulated: true},
	"1.2.840.10008.1.2.5":             {UID: "1.2.840.10008.1.2.5", Name: "RLE Lossless", Encoding: ExplicitVRLittleEndian, Encapsulated: true},
}

// LookupTransferSyntax returns the transfer syntax registered for `uid`.
// Any other syntax should be explicit VR little endian according to PS3.5 A.4,
// so that is returned (with `found` false) for unknown UIDs.
func LookupTransferSyntax(uid string) (ts TransferSyntax, found bool) {
	uid = strings.TrimRight(uid, "\x00 ")
	if ts, found = TransferSyntaxMap[uid]; found {
		return ts, true
	}
	return TransferSyntax{UID: uid, Name: "Unknown", Encoding: ExplicitVRLittleEndian}, false
}

// TransferSyntaxForEncoding returns the uncompressed transfer syntax carrying `e`.
func TransferSyntaxForEncoding(e Encoding) TransferSyntax {
	switch e {
	case ImplicitVRLittleEndian:
		return TransferSyntaxMap[ImplicitVRLittleEndianUID]
	case ExplicitVRBigEndian:
		return TransferSyntaxMap[ExplicitVRBigEndianUID]
	default:
		return TransferSyntaxMap[ExplicitVRLittleEndianUID]
	}
}
