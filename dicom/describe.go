package dicom

import (
	"fmt"
	"strings"
)

// maxDescribedValue is the longest value printed verbatim by `Describe`.
const maxDescribedValue = 256

// Describe returns a human-readable description of the element, one line per element,
// with nested items indented below their sequence. Text values are decoded with `cs`.
func (e *Element) Describe(cs *CharacterSet, indentLevel int) []string {
	indentStr := strings.Repeat(" ", indentLevel)
	prefix := fmt.Sprintf("%s[%s] %s %s:", indentStr, e.vr, Tag(e.tag), e.GetName())
	if e.HasItems() {
		description := []string{prefix}
		for i := range e.items {
			item := &e.items[i]
			if item.IsFragment() {
				description = append(description, fmt.Sprintf("%s    (%d bytes)", indentStr, len(item.GetUnparsed())))
				continue
			}
			ds := item.GetDataSet()
			itemCS := ds.GetCharacterSet()
			if !ds.HasElement(uint32(SpecificCharacterSetTag)) {
				itemCS = cs
			}
			for _, nested := range ds.GetElements() {
				description = append(description, nested.Describe(itemCS, indentLevel+4)...)
			}
		}
		return description
	}
	switch {
	case len(e.data) == 0:
		return []string{prefix + " (empty)"}
	case len(e.data) > maxDescribedValue:
		return []string{fmt.Sprintf("%s (%d bytes)", prefix, len(e.data))}
	}
	return []string{prefix + " " + e.describeValue(cs)}
}

func (e *Element) describeValue(cs *CharacterSet) string {
	if LookupVR(e.vr).IsText() {
		if s, err := e.GetString(cs); err == nil {
			return s
		}
	}
	if v, ok := e.GetUint32(); ok {
		return fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("(%d bytes)", len(e.data))
}
