package printer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lines extracts the printable text lines from an ESC/POS stream,
// skipping command sequences (ESC/GS plus their parameter bytes).
func lines(data []byte) []string {
	var text []byte
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case ESC:
			i += 2 // command byte + one parameter
			if i < len(data) && data[i-1] == '@' {
				i-- // ESC @ has no parameter
			}
		case GS:
			i += 2
		default:
			text = append(text, data[i])
		}
	}
	var out []string
	for _, l := range strings.Split(string(text), "\n") {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func TestKeyValueRightAlignsValue(t *testing.T) {
	doc := NewDocument(32)
	doc.KeyValue("Subtotal", "100.00")

	ls := lines(doc.Bytes())
	require.Len(t, ls, 1)
	assert.Len(t, ls[0], 32)
	assert.True(t, strings.HasPrefix(ls[0], "Subtotal"))
	assert.True(t, strings.HasSuffix(ls[0], "100.00"))
}

func TestKeyValueTruncatesLongKey(t *testing.T) {
	doc := NewDocument(32)
	doc.KeyValue(strings.Repeat("x", 40), "99.00")

	ls := lines(doc.Bytes())
	require.Len(t, ls, 1)
	assert.True(t, strings.HasSuffix(ls[0], "99.00"))
	assert.LessOrEqual(t, len(ls[0]), 32)
}

func TestItemLineFitsOneLine(t *testing.T) {
	doc := NewDocument(32)
	doc.ItemLine(2, "Chai", "100.00")

	ls := lines(doc.Bytes())
	require.Len(t, ls, 1)
	assert.Len(t, ls[0], 32)
	assert.True(t, strings.HasPrefix(ls[0], "2x Chai"))
	assert.True(t, strings.HasSuffix(ls[0], "100.00"))
}

func TestItemLineWrapsLongName(t *testing.T) {
	doc := NewDocument(32)
	doc.ItemLine(1, "Extra Long Artisanal Product Name", "1250.00")

	ls := lines(doc.Bytes())
	require.Len(t, ls, 2)
	assert.Equal(t, "1x Extra Long Artisanal Product Name", ls[0])
	assert.Len(t, ls[1], 32)
	assert.True(t, strings.HasSuffix(ls[1], "1250.00"))
}
