package dicom

// vrKind groups VRs by how their value bytes behave on the wire.
type vrKind int

const (
	// byteStreamVR values are opaque bytes; byte order never applies.
	byteStreamVR vrKind = iota

	// textVR values are character strings.
	textVR

	// numberBinaryVR values are arrays of fixed-width binary numbers.
	numberBinaryVR

	// sequenceVR is for VR: SQ
	sequenceVR
)

// VRSpecification holds the encoding rules of a value representation.
type VRSpecification struct {
	VR string

	// LongLength is set for VRs whose explicit VR header carries two reserved
	// bytes followed by a 32-bit length.
	LongLength bool

	// SwapWidth is the byte width of each value word that must be reversed
	// when byte order changes; 0 for VRs that are not byte order sensitive.
	SwapWidth int

	kind vrKind
}

// IsByteOrderSensitive returns whether values of this VR change with byte order.
func (s VRSpecification) IsByteOrderSensitive() bool {
	return s.SwapWidth > 0
}

// IsSequence returns whether this VR denotes a sequence of items.
func (s VRSpecification) IsSequence() bool {
	return s.kind == sequenceVR
}

// IsText returns whether values of this VR are character strings.
func (s VRSpecification) IsText() bool {
	return s.kind == textVR
}

// LengthFieldWidth returns the width in bytes of the value length field
// under explicit VR encoding. Implicit VR always uses 4.
func (s VRSpecification) LengthFieldWidth() int {
	if s.LongLength {
		return 4
	}
	return 2
}

// HeaderLength returns the total header size of an element of this VR.
func (s VRSpecification) HeaderLength(implicit bool) int {
	switch {
	case implicit:
		return 8
	case s.LongLength:
		return 12
	default:
		return 8
	}
}

// vrTable lists all recognised VRs.
// See ``6.2 Value Representation (VR)`` for more information
var vrTable = map[string]VRSpecification{
	"AE": {VR: "AE", kind: textVR},
	"AS": {VR: "AS", kind: textVR},
	"AT": {VR: "AT", SwapWidth: 2, kind: numberBinaryVR},
	"CS": {VR: "CS", kind: textVR},
	"DA": {VR: "DA", kind: textVR},
	"DS": {VR: "DS", kind: textVR},
	"DT": {VR: "DT", kind: textVR},
	"FL": {VR: "FL", SwapWidth: 4, kind: numberBinaryVR},
	"FD": {VR: "FD", SwapWidth: 8, kind: numberBinaryVR},
	"IS": {VR: "IS", kind: textVR},
	"LO": {VR: "LO", kind: textVR},
	"LT": {VR: "LT", kind: textVR},
	"OB": {VR: "OB", LongLength: true},
	"OD": {VR: "OD", LongLength: true, SwapWidth: 8, kind: numberBinaryVR},
	"OF": {VR: "OF", LongLength: true, SwapWidth: 4, kind: numberBinaryVR},
	"OL": {VR: "OL", LongLength: true, SwapWidth: 4, kind: numberBinaryVR},
	"OV": {VR: "OV", LongLength: true, SwapWidth: 8, kind: numberBinaryVR},
	"OW": {VR: "OW", LongLength: true, SwapWidth: 2, kind: numberBinaryVR},
	"PN": {VR: "PN", kind: textVR},
	"SH": {VR: "SH", kind: textVR},
	"SL": {VR: "SL", SwapWidth: 4, kind: numberBinaryVR},
	"SQ": {VR: "SQ", LongLength: true, kind: sequenceVR},
	"SS": {VR: "SS", SwapWidth: 2, kind: numberBinaryVR},
	"ST": {VR: "ST", kind: textVR},
	"SV": {VR: "SV", LongLength: true, SwapWidth: 8, kind: numberBinaryVR},
	"TM": {VR: "TM", kind: textVR},
	"UC": {VR: "UC", LongLength: true, kind: textVR},
	"UI": {VR: "UI", kind: textVR},
	"UL": {VR: "UL", SwapWidth: 4, kind: numberBinaryVR},
	"UN": {VR: "UN", LongLength: true},
	"UR": {VR: "UR", LongLength: true, kind: textVR},
	"US": {VR: "US", SwapWidth: 2, kind: numberBinaryVR},
	"UT": {VR: "UT", LongLength: true, kind: textVR},
	"UV": {VR: "UV", LongLength: true, SwapWidth: 8, kind: numberBinaryVR},
}

// LookupVR returns the specification of `vr`.
// Unrecognised codes degrade to a generic byte stream with a 16-bit length field.
func LookupVR(vr string) VRSpecification {
	if kind, found := vrTable[vr]; found {
		return kind
	}
	return VRSpecification{VR: vr}
}

// IsRecognisedVR returns whether `vr` is a known value representation code.
func IsRecognisedVR(vr string) bool {
	_, found := vrTable[vr]
	return found
}

// ToggleEndian reverses the byte order of every complete `width`-byte word in `buf`, in place.
// Trailing bytes that do not form a complete word are left untouched.
func ToggleEndian(buf []byte, width int) {
	if width < 2 {
		return
	}
	for off := 0; off+width <= len(buf); off += width {
		word := buf[off : off+width]
		for i, j := 0, width-1; i < j; i, j = i+1, j-1 {
			word[i], word[j] = word[j], word[i]
		}
	}
}
