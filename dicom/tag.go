package dicom

import "fmt"

// Tag is a DICOM data element tag: the high 16 bits hold the group number
// and the low 16 bits the element number.
type Tag uint32

// Structural and special tags referenced by the codec.
const (
	ItemTag                 Tag = 0xFFFEE000
	ItemDelimitationTag     Tag = 0xFFFEE00D
	SequenceDelimitationTag Tag = 0xFFFEE0DD

	FileMetaInformationGroupLengthTag Tag = 0x00020000
	TransferSyntaxUIDTag              Tag = 0x00020010
	SpecificCharacterSetTag           Tag = 0x00080005
	PixelDataTag                      Tag = 0x7FE00010
)

// Group returns the group number.
func (t Tag) Group() uint16 {
	return uint16(t >> 16)
}

// Element returns the element number.
func (t Tag) Element() uint16 {
	return uint16(t)
}

// String formats the tag as "(GGGG,EEEE)".
func (t Tag) String() string {
	return fmt.Sprintf("(%04X,%04X)", t.Group(), t.Element())
}

// HasVR returns whether an element with tag `t` carries a VR in explicit VR encodings.
// Items and delimiters never do.
func HasVR(t uint32) bool {
	switch Tag(t) {
	case ItemTag, ItemDelimitationTag, SequenceDelimitationTag:
		return false
	}
	return true
}

// IsDelimitation returns whether `t` closes an item or a sequence.
func IsDelimitation(t uint32) bool {
	return Tag(t) == ItemDelimitationTag || Tag(t) == SequenceDelimitationTag
}

// IsCommandElement returns whether `t` belongs to the command group (0000).
func IsCommandElement(t uint32) bool {
	return t&0xFFFF0000 == 0
}

// IsFileMetaInfoElement returns whether `t` belongs to the file meta information group (0002).
func IsFileMetaInfoElement(t uint32) bool {
	return t&0xFFFF0000 == 0x00020000
}

// IsGroupLengthElement returns whether `t` is a group length element (gggg,0000).
func IsGroupLengthElement(t uint32) bool {
	return t&0x0000FFFF == 0
}

// IsPrivateDataElement returns whether `t` lies in an odd (private) group.
func IsPrivateDataElement(t uint32) bool {
	return t&0x00010000 != 0
}

// IsPrivateCreatorDataElement returns whether `t` reserves a block of a private group,
// i.e. an odd group with element in 0010-00FF.
func IsPrivateCreatorDataElement(t uint32) bool {
	element := t & 0x0000FFFF
	return IsPrivateDataElement(t) && element >= 0x0010 && element <= 0x00FF
}
