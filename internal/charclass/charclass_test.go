package charclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		r        rune
		expected Class
	}{
		{' ', Separator},
		{'\t', Separator},
		{' ', Separator}, // no-break space
		{'-', Separator},
		{'_', Separator},
		{':', Separator},
		{'.', Separator},
		{'/', Separator},
		{'\\', Separator},
		{'0', Numeric},
		{'7', Numeric},
		{'٣', Numeric}, // Arabic-Indic digit three
		{'Ⅷ', Numeric}, // Roman numeral eight
		{'a', Alphabetic},
		{'Z', Alphabetic},
		{'é', Alphabetic},
		{'中', Alphabetic},
		{'\u093f', Alphabetic}, // Devanagari vowel sign i
		{'\u0345', Alphabetic}, // combining ypogegrammeni
		{'\u05b0', Alphabetic}, // Hebrew point sheva
		{'\u0301', Other},      // combining acute accent is not alphabetic
		{'+', Other},
		{'(', Other},
		{'@', Other},
		{',', Other},
	}

	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.r), "Classify(%q)", tt.r)
		})
	}
}

func TestClassifyNeverReturnsFirst(t *testing.T) {
	for r := rune(0); r < 0x3000; r++ {
		if Classify(r) == First {
			t.Fatalf("Classify(%U) returned First", r)
		}
	}
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "first", First.String())
	assert.Equal(t, "separator", Separator.String())
	assert.Equal(t, "numeric", Numeric.String())
	assert.Equal(t, "alphabetic", Alphabetic.String())
	assert.Equal(t, "other", Other.String())
	assert.Equal(t, "unknown", Class(42).String())
}
