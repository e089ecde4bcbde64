package numtext

import "strings"

const (
	maxSpell  int64 = 1_000_000_000_000_000_000
	hundred   int64 = 100
	growSpell       = 64 // estimated bytes for a full cardinal
)

var onesWords = [20]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

// tensWords is indexed by tens digit (2–9); indexes 0 and 1 are unused.
var tensWords = [10]string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

type magnitude struct {
	value int64
	word  string
}

// magnitudes lists named powers of ten from largest to smallest.
// hundred is handled within group conversion and is not listed here.
var magnitudes = []magnitude{
	{value: 1_000_000_000_000_000_000, word: "quintillion"},
	{value: 1_000_000_000_000_000, word: "quadrillion"},
	{value: 1_000_000_000_000, word: "trillion"},
	{value: 1_000_000_000, word: "billion"},
	{value: 1_000_000, word: "million"},
	{value: 1_000, word: "thousand"},
}

// Spell returns the English cardinal words for n, with hyphenated tens
// ("forty-two") and "minus" for negatives. It returns "" when |n| > 10^18.
func Spell(n int64) string {
	if n > maxSpell || n < -maxSpell {
		return ""
	}
	if n == 0 {
		return onesWords[0]
	}

	var b strings.Builder
	b.Grow(growSpell)

	if n < 0 {
		b.WriteString("minus")
		n = -n
	}

	for _, mag := range magnitudes {
		if count := n / mag.value; count > 0 {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			writeGroup(&b, count)
			b.WriteByte(' ')
			b.WriteString(mag.word)
			n %= mag.value
		}
	}

	if n > 0 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		writeGroup(&b, n)
	}

	return b.String()
}

// writeGroup writes a number in [1, 999] into b.
func writeGroup(b *strings.Builder, n int64) {
	if h := n / hundred; h > 0 {
		b.WriteString(onesWords[h])
		b.WriteString(" hundred")
		if n%hundred > 0 {
			b.WriteByte(' ')
		}
	}

	r := n % hundred
	switch {
	case r == 0:
	case r < 20:
		b.WriteString(onesWords[r])
	default:
		b.WriteString(tensWords[r/10])
		if o := r % 10; o > 0 {
			b.WriteByte('-')
			b.WriteString(onesWords[o])
		}
	}
}
