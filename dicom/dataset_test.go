package dicom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

/*
===============================================================================
    DataSet
===============================================================================
*/

func TestGetElement(t *testing.T) {
	t.Parallel()
	ds := NewDataSet()
	ds.AddElement(NewElementWithTag(0x00010001))
	e := Element{}
	assert.True(t, ds.GetElement(0x00010001, &e))
	assert.Equal(t, uint32(0x00010001), e.GetTag())

	// get one that's not in the dataset
	assert.False(t, ds.GetElement(0x10001000, &e))
}

func TestHasRemoveElement(t *testing.T) {
	t.Parallel()
	ds := NewDataSet()
	ds.AddElement(NewElementWithTag(0x00010001))
	assert.True(t, ds.HasElement(0x00010001))
	assert.Equal(t, 1, ds.Len())
	ds.RemoveElement(0x00010001)
	assert.False(t, ds.HasElement(0x00010001))
	assert.Equal(t, 0, ds.Len())
	// removing an absent tag is a no-op
	ds.RemoveElement(0x00010001)
}

func TestGetElementsSorted(t *testing.T) {
	t.Parallel()
	ds := NewDataSet()
	for _, tag := range []uint32{0x7FE00010, 0x00080005, 0x00100010, 0x00020010} {
		ds.AddElement(NewElementWithTag(tag))
	}
	elements := ds.GetElements()
	assert.Len(t, elements, 4)
	for i := 1; i < len(elements); i++ {
		assert.True(t, elements[i-1].GetTag() < elements[i].GetTag())
	}
}

func TestGetCharacterSet(t *testing.T) {
	t.Parallel()
	ds := NewDataSet()
	// default
	assert.Equal(t, "Default", ds.GetCharacterSet().Name)
	ds.PutBytes(uint32(SpecificCharacterSetTag), "CS", []byte("ISO_IR 192"), false)
	assert.Equal(t, "ISO_IR 192", ds.GetCharacterSet().Name)
}

func TestPutGetString(t *testing.T) {
	t.Parallel()
	ds := NewDataSet()
	ds.PutBytes(uint32(SpecificCharacterSetTag), "CS", []byte("ISO_IR 100"), false)

	assert.NoError(t, ds.PutString(uint32(PatientNameTag), "", "Björn"))
	e := Element{}
	assert.True(t, ds.GetElement(uint32(PatientNameTag), &e))
	assert.Equal(t, "PN", e.GetVR())
	// Latin-1 encoded and padded to even length with a space
	assert.Equal(t, []byte{'B', 'j', 0xF6, 'r', 'n', ' '}, e.GetDataBytes())

	s, found := ds.GetString(uint32(PatientNameTag))
	assert.True(t, found)
	assert.Equal(t, "Björn", s)

	_, found = ds.GetString(uint32(PatientIDTag))
	assert.False(t, found)
}

func TestPutStringPadsUIDsWithNull(t *testing.T) {
	t.Parallel()
	ds := NewDataSet()
	assert.NoError(t, ds.PutString(uint32(SOPInstanceUIDTag), "UI", "1.2.3"))
	e := Element{}
	ds.GetElement(uint32(SOPInstanceUIDTag), &e)
	assert.Equal(t, []byte("1.2.3\x00"), e.GetDataBytes())
	assert.Equal(t, uint32(6), e.GetValueLength())
}

func TestPutDate(t *testing.T) {
	t.Parallel()
	ds := NewDataSet()
	assert.NoError(t, ds.PutDate(uint32(StudyDateTag), time.Date(1999, time.March, 7, 12, 0, 0, 0, time.UTC)))
	s, found := ds.GetString(uint32(StudyDateTag))
	assert.True(t, found)
	assert.Equal(t, "19990307", s)
}

/*
===============================================================================
    Element
===============================================================================
*/

func TestElementGetters(t *testing.T) {
	t.Parallel()
	e := NewElementWithBytes(uint32(SpecificCharacterSetTag), "CS", []byte("ISO_IR 192"), false)
	assert.Equal(t, uint32(0x00080005), e.GetTag())
	assert.Equal(t, "CS", e.GetVR())
	assert.Equal(t, "SpecificCharacterSet", e.GetName())
	assert.Equal(t, uint32(10), e.GetValueLength())
	assert.False(t, e.HasItems())
	assert.Len(t, e.GetItems(), 0)
	assert.False(t, e.IsBigEndian())
}

func TestNewElementWithTag(t *testing.T) {
	t.Parallel()
	// ensure that, when `NewElementWithTag` is called,
	// the VR is pre-populated from the dictionary.
	e := NewElementWithTag(0x00080005)
	assert.Equal(t, "CS", e.GetVR())
	assert.Equal(t, "SpecificCharacterSet", e.GetName())
}

func TestGetStrings(t *testing.T) {
	t.Parallel()
	e := NewElementWithBytes(uint32(ImageTypeTag), "CS", []byte(`ORIGINAL\PRIMARY\AXIAL `), false)
	values, err := e.GetStrings(DefaultCharacterSet)
	assert.NoError(t, err)
	assert.Equal(t, []string{"ORIGINAL", "PRIMARY", "AXIAL"}, values)
}

func TestGetUint32(t *testing.T) {
	t.Parallel()
	e := NewElementWithBytes(uint32(BitsAllocatedTag), "US", []byte{0x10, 0x00}, false)
	v, ok := e.GetUint32()
	assert.True(t, ok)
	assert.Equal(t, uint32(16), v)

	e = NewElementWithBytes(uint32(BitsAllocatedTag), "US", []byte{0x00, 0x10}, true)
	v, ok = e.GetUint32()
	assert.True(t, ok)
	assert.Equal(t, uint32(16), v)

	e = NewElementWithBytes(0x00280000, "UL", []byte{0x04, 0x03, 0x02, 0x01}, false)
	v, ok = e.GetUint32()
	assert.True(t, ok)
	assert.Equal(t, uint32(0x01020304), v)

	e = NewElementWithBytes(uint32(PatientNameTag), "PN", []byte("Doe^John"), false)
	_, ok = e.GetUint32()
	assert.False(t, ok)
}

func TestItems(t *testing.T) {
	t.Parallel()
	item := NewItem()
	assert.False(t, item.IsFragment())
	assert.NotNil(t, item.GetDataSet())

	fragment := NewFragment([]byte{0x01, 0x02})
	assert.True(t, fragment.IsFragment())
	assert.Equal(t, []byte{0x01, 0x02}, fragment.GetUnparsed())

	sq := NewSequenceElement(uint32(ProcedureCodeSequenceTag), "SQ", []Item{item})
	assert.True(t, sq.HasItems())
	assert.Equal(t, UndefinedLength, sq.GetValueLength())
}
