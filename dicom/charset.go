package dicom

import (
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// CharacterSet provides a link between character encoding, description, and decode + encode functions.
type CharacterSet struct {
	Name        string
	Description string
	Encoding    encoding.Encoding
}

// DefaultCharacterSet is used when a data set carries no Specific Character Set (0008,0005).
var DefaultCharacterSet = &CharacterSet{Name: "Default", Description: "Default Character Repertoire", Encoding: unicode.UTF8}

// CharacterSetMap provides a mapping between character set name, and character set characteristics.
var CharacterSetMap = map[string]*CharacterSet{
	"Default":         DefaultCharacterSet,
	"ISO_IR 6":        {Name: "ISO_IR 6", Description: "ASCII", Encoding: unicode.UTF8},
	"ISO_IR 13":       {Name: "ISO_IR 13", Description: "Japanese", Encoding: japanese.ShiftJIS},
	"ISO_IR 100":      {Name: "ISO_IR 100", Description: "Latin alphabet No. 1", Encoding: charmap.ISO8859_1},
	"ISO_IR 101":      {Name: "ISO_IR 101", Description: "Latin alphabet No. 2", Encoding: charmap.ISO8859_2},
	"ISO_IR 109":      {Name: "ISO_IR 109", Description: "Latin alphabet No. 3", Encoding: charmap.ISO8859_3},
	"ISO_IR 110":      {Name: "ISO_IR 110", Description: "Latin alphabet No. 4", Encoding: charmap.ISO8859_4},
	"ISO_IR 126":      {Name: "ISO_IR 126", Description: "Greek", Encoding: charmap.ISO8859_7},
	"ISO_IR 127":      {Name: "ISO_IR 127", Description: "Arabic", Encoding: charmap.ISO8859_6},
	"ISO_IR 138":      {Name: "ISO_IR 138", Description: "Hebrew", Encoding: charmap.ISO8859_8},
	"ISO_IR 144":      {Name: "ISO_IR 144", Description: "Cyrillic", Encoding: charmap.ISO8859_5},
	"ISO_IR 148":      {Name: "ISO_IR 148", Description: "Latin alphabet No. 5", Encoding: charmap.ISO8859_9},
	"ISO_IR 166":      {Name: "ISO_IR 166", Description: "Thai", Encoding: charmap.Windows874},
	"ISO_IR 192":      {Name: "ISO_IR 192", Description: "Unicode (UTF-8)", Encoding: unicode.UTF8},
	"ISO 2022 IR 6":   {Name: "ISO 2022 IR 6", Description: "ASCII", Encoding: unicode.UTF8},
	"ISO 2022 IR 13":  {Name: "ISO 2022 IR 13", Description: "Japanese (Shift JIS)", Encoding: japanese.ShiftJIS},
	"ISO 2022 IR 87":  {Name: "ISO 2022 IR 87", Description: "Japanese (Kanji)", Encoding: japanese.ISO2022JP},
	"ISO 2022 IR 100": {Name: "ISO 2022 IR 100", Description: "Latin alphabet No. 1", Encoding: charmap.ISO8859_1},
	"ISO 2022 IR 101": {Name: "ISO 2022 IR 101", Description: "Latin alphabet No. 2", Encoding: charmap.ISO8859_2},
	"ISO 2022 IR 109": {Name: "ISO 2022 IR 109", Description: "Latin alphabet No. 3", Encoding: charmap.ISO8859_3},
	"ISO 2022 IR 110": {Name: "ISO 2022 IR 110", Description: "Latin alphabet No. 4", Encoding: charmap.ISO8859_4},
	"ISO 2022 IR 126": {Name: "ISO 2022 IR 126", Description: "Greek", Encoding: charmap.ISO8859_7},
	"ISO 2022 IR 127": {Name: "ISO 2022 IR 127", Description: "Arabic", Encoding: charmap.ISO8859_6},
	"ISO 2022 IR 138": {Name: "ISO 2022 IR 138", Description: "Hebrew", Encoding: charmap.ISO8859_8},
	"ISO 2022 IR 144": {Name: "ISO 2022 IR 144", Description: "Cyrillic", Encoding: charmap.ISO8859_5},
	"ISO 2022 IR 148": {Name: "ISO 2022 IR 148", Description: "Latin alphabet No. 5", Encoding: charmap.ISO8859_9},
	"ISO 2022 IR 149": {Name: "ISO 2022 IR 149", Description: "Korean", Encoding: korean.EUCKR},
	"ISO 2022 IR 159": {Name: "ISO 2022 IR 159", Description: "Japanese (Supplementary Kanji)", Encoding: japanese.ISO2022JP},
	"ISO 2022 IR 166": {Name: "ISO 2022 IR 166", Description: "Thai", Encoding: charmap.Windows874},
	"GB18030":         {Name: "GB18030", Description: "Chinese (Simplified)", Encoding: simplifiedchinese.GB18030},
}

// fallbackLabels maps defined terms missing from `CharacterSetMap` onto
// WHATWG encoding labels understood by `charset.Lookup`.
var fallbackLabels = map[string]string{
	"GBK":        "gbk",
	"ISO_IR 58":  "gb2312",
	"ISO_IR 149": "euc-kr",
}

// LookupCharacterSet resolves a Specific Character Set value. Only the first
// non-empty defined term is considered; code extensions are not switched.
// Unknown terms yield `DefaultCharacterSet` and `found` false.
func LookupCharacterSet(value string) (cs *CharacterSet, found bool) {
	term := ""
	for _, t := range strings.Split(value, `\`) {
		if t = strings.TrimSpace(t); t != "" {
			term = t
			break
		}
	}
	if term == "" {
		return DefaultCharacterSet, true
	}
	if cs, found = CharacterSetMap[term]; found {
		return cs, true
	}
	if label, ok := fallbackLabels[term]; ok {
		if enc, name := charset.Lookup(label); enc != nil {
			return &CharacterSet{Name: term, Description: name, Encoding: enc}, true
		}
	}
	return DefaultCharacterSet, false
}

// Decode converts `src` from the character set into a UTF-8 string.
// Invalid sequences are replaced rather than reported.
func (cs *CharacterSet) Decode(src []byte) (string, error) {
	if cs == nil || cs.Encoding == nil {
		return string(src), nil
	}
	decoded, err := cs.Encoding.NewDecoder().Bytes(src)
	return string(decoded), err
}

// Encode converts the UTF-8 string `src` into the character set.
func (cs *CharacterSet) Encode(src string) ([]byte, error) {
	if cs == nil || cs.Encoding == nil {
		return []byte(src), nil
	}
	return encoding.ReplaceUnsupported(cs.Encoding.NewEncoder()).Bytes([]byte(src))
}
