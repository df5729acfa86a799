package dicom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupCharacterSet(t *testing.T) {
	t.Parallel()
	cs, found := LookupCharacterSet("ISO_IR 100 ")
	assert.True(t, found)
	assert.Equal(t, "ISO_IR 100", cs.Name)

	// first non-empty term wins
	cs, found = LookupCharacterSet(`\ISO 2022 IR 87`)
	assert.True(t, found)
	assert.Equal(t, "ISO 2022 IR 87", cs.Name)

	cs, found = LookupCharacterSet("")
	assert.True(t, found)
	assert.Equal(t, DefaultCharacterSet, cs)

	// resolved through the WHATWG labels
	cs, found = LookupCharacterSet("GBK")
	assert.True(t, found)
	assert.Equal(t, "GBK", cs.Name)
	assert.NotNil(t, cs.Encoding)

	cs, found = LookupCharacterSet("ISO_IR 999")
	assert.False(t, found)
	assert.Equal(t, DefaultCharacterSet, cs)
}

func TestCharacterSetRoundTrip(t *testing.T) {
	t.Parallel()
	cs, _ := LookupCharacterSet("ISO_IR 100")
	encoded, err := cs.Encode("Björn")
	assert.NoError(t, err)
	assert.Equal(t, []byte{'B', 'j', 0xF6, 'r', 'n'}, encoded)
	decoded, err := cs.Decode(encoded)
	assert.NoError(t, err)
	assert.Equal(t, "Björn", decoded)
}

func TestCharacterSetUnsupportedRune(t *testing.T) {
	t.Parallel()
	cs, _ := LookupCharacterSet("ISO_IR 100")
	// runes outside the repertoire are replaced rather than reported
	encoded, err := cs.Encode("a中b")
	assert.NoError(t, err)
	assert.Equal(t, byte('a'), encoded[0])
	assert.Equal(t, byte('b'), encoded[len(encoded)-1])
}
