package dicom

import (
	"encoding/binary"
	"sort"
	"strings"
	"time"
)

/*
===============================================================================
    DataSet
===============================================================================
*/

// DataSet represents a single Data Set (the "Dicom Object"),
// as per: http://dicom.nema.org/dicom/2013/output/chtml/part10/sect_7.2.html
type DataSet map[uint32]Element

// NewDataSet returns a fresh DataSet
func NewDataSet() DataSet {
	return make(DataSet, 0)
}

// GetElement attempts to write the element indexed by `tag` into `dst`
// its return value indicates whether the DataSet contains said `tag`.
func (ds DataSet) GetElement(tag uint32, dst *Element) bool {
	if e, found := ds[tag]; found {
		*dst = e
		return true
	}
	return false
}

// AddElement adds Element `e`, replacing any element with the same tag.
func (ds DataSet) AddElement(e Element) {
	ds[e.GetTag()] = e
}

// HasElement returns whether the element indexed by `tag` exists.
func (ds DataSet) HasElement(tag uint32) bool {
	_, found := ds[tag]
	return found
}

// RemoveElement deletes the element indexed by `tag`, if present.
func (ds DataSet) RemoveElement(tag uint32) {
	delete(ds, tag)
}

// Len returns the number of elements.
func (ds DataSet) Len() int {
	return len(ds)
}

// GetElements returns all elements in the data set, in ascending tag order.
//
// Note: this is quite an expensive operation and may incur many allocations
func (ds DataSet) GetElements() []Element {
	elements := make([]Element, 0, len(ds))
	for _, e := range ds {
		elements = append(elements, e)
	}
	sort.Sort(ByTag(elements))
	return elements
}

// GetCharacterSet returns the character set declared by Specific Character Set (0008,0005),
// or `DefaultCharacterSet`.
func (ds DataSet) GetCharacterSet() *CharacterSet {
	e, found := ds[uint32(SpecificCharacterSetTag)]
	if !found {
		return DefaultCharacterSet
	}
	cs, _ := LookupCharacterSet(string(e.GetDataBytes()))
	return cs
}

// GetString returns the decoded, unpadded value of the element indexed by `tag`.
func (ds DataSet) GetString(tag uint32) (string, bool) {
	e, found := ds[tag]
	if !found {
		return "", false
	}
	s, err := e.GetString(ds.GetCharacterSet())
	if err != nil {
		return "", false
	}
	return s, true
}

// PutBytes stores raw value bytes for `tag`. `bigEndian` records the byte order of `data`.
func (ds DataSet) PutBytes(tag uint32, vr string, data []byte, bigEndian bool) {
	ds.AddElement(NewElementWithBytes(tag, vr, data, bigEndian))
}

// PutString encodes `value` with the data set's character set and stores it for `tag`.
// An empty `vr` selects the VR registered in the dictionary.
func (ds DataSet) PutString(tag uint32, vr string, value string) error {
	if vr == "" {
		vr = VROf(tag)
	}
	data, err := ds.GetCharacterSet().Encode(value)
	if err != nil {
		return err
	}
	ds.PutBytes(tag, vr, padValue(vr, data), false)
	return nil
}

// PutDate stores `t` as a DA value ("YYYYMMDD").
func (ds DataSet) PutDate(tag uint32, t time.Time) error {
	return ds.PutString(tag, "DA", t.Format("20060102"))
}

// padValue pads `data` to even length: UI values with NUL, everything else with a space.
func padValue(vr string, data []byte) []byte {
	if len(data)%2 == 0 {
		return data
	}
	if vr == "UI" || !LookupVR(vr).IsText() {
		return append(data, 0x00)
	}
	return append(data, ' ')
}

/*
===============================================================================
    Item
===============================================================================
*/

// Item represents an Item, as may be found within nested data sequences,
// as per http://dicom.nema.org/dicom/2013/output/chtml/part05/sect_7.5.html
type Item struct {
	dataset  DataSet
	unparsed []byte
}

// NewItem returns a fresh Item with a blank data set.
func NewItem() Item {
	return Item{
		dataset: NewDataSet(),
	}
}

// NewFragment returns an Item holding raw bytes, as found in encapsulated pixel data.
func NewFragment(data []byte) Item {
	return Item{unparsed: data}
}

// GetDataSet returns the elements nested in the Item.
func (i *Item) GetDataSet() DataSet {
	return i.dataset
}

// GetUnparsed returns the "unparsed" data within an Item.
//
// An item may be unparsed if for instance its source VR was not SQ.
// Main example being PixelData: This could for instance be of OB VR,
// but have undefined length, and as such, have "Items".
func (i *Item) GetUnparsed() []byte {
	return i.unparsed
}

// IsFragment returns whether the Item holds raw bytes rather than elements.
func (i *Item) IsFragment() bool {
	return i.dataset == nil
}

/*
===============================================================================
    Element
===============================================================================
*/

// UndefinedLength is the value length sentinel of items and sequences bounded by a delimiter
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.1
const UndefinedLength uint32 = 0xFFFFFFFF

// Element represents a Data Element,
// as per http://dicom.nema.org/dicom/2013/output/chtml/part05/chapter_7.html#sect_7.1
type Element struct {
	tag       uint32
	vr        string
	data      []byte
	datalen   uint32
	bigEndian bool
	items     []Item
}

// NewElement returns a fresh Element
func NewElement() Element {
	return Element{}
}

// NewElementWithTag returns a fresh Element with tag `tag` and its dictionary VR.
func NewElementWithTag(tag uint32) Element {
	return Element{tag: tag, vr: VROf(tag)}
}

// NewElementWithBytes returns an Element holding `data` stored in the given byte order.
func NewElementWithBytes(tag uint32, vr string, data []byte, bigEndian bool) Element {
	return Element{tag: tag, vr: vr, data: data, datalen: uint32(len(data)), bigEndian: bigEndian}
}

// NewSequenceElement returns an SQ (or encapsulated, for other VRs) Element holding `items`.
func NewSequenceElement(tag uint32, vr string, items []Item) Element {
	return Element{tag: tag, vr: vr, datalen: UndefinedLength, items: items}
}

// GetTag returns the Element's "Tag" component
func (e *Element) GetTag() uint32 {
	return e.tag
}

// GetVR returns the Element's "VR" component
func (e *Element) GetVR() string {
	return e.vr
}

// GetName returns the dictionary keyword of the Element's tag
func (e *Element) GetName() string {
	entry, _ := LookupTag(e.tag)
	return entry.Name
}

// GetValueLength returns the value length as found in the header, which may be `UndefinedLength`.
func (e *Element) GetValueLength() uint32 {
	return e.datalen
}

// IsBigEndian returns whether the value bytes are stored big endian.
func (e *Element) IsBigEndian() bool {
	return e.bigEndian
}

// HasItems returns whether the element contains nested items
func (e *Element) HasItems() bool {
	return len(e.items) > 0
}

// GetItems returns nested items within this element
func (e *Element) GetItems() []Item {
	return e.items
}

// GetDataBytes returns the raw value bytes.
func (e *Element) GetDataBytes() []byte {
	return e.data
}

// GetString decodes the value with `cs` and strips trailing padding.
func (e *Element) GetString(cs *CharacterSet) (string, error) {
	s, err := cs.Decode(e.data)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, "\x00 "), nil
}

// GetStrings splits a multi-valued string value on the backslash delimiter.
func (e *Element) GetStrings(cs *CharacterSet) ([]string, error) {
	s, err := e.GetString(cs)
	if err != nil {
		return nil, err
	}
	return strings.Split(s, `\`), nil
}

// GetUint32 returns the first value of a US or UL element.
func (e *Element) GetUint32() (uint32, bool) {
	order := binary.ByteOrder(binary.LittleEndian)
	if e.bigEndian {
		order = binary.BigEndian
	}
	switch {
	case e.vr == "UL" && len(e.data) >= 4:
		return order.Uint32(e.data), true
	case e.vr == "US" && len(e.data) >= 2:
		return uint32(order.Uint16(e.data)), true
	}
	return 0, false
}

// ByTag implements a sort interface
type ByTag []Element

func (a ByTag) Len() int           { return len(a) }
func (a ByTag) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ByTag) Less(i, j int) bool { return a[i].tag < a[j].tag }
