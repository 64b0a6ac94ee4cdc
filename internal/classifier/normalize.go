package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// leetMap folds common leetspeak substitutions back to their letter, so L2/L3
// pattern matching sees "h3llo" as "hello".
var leetMap = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'@': 'a',
	'$': 's',
}

// Normalize is the L1 layer: a pure function producing the text every
// subsequent layer operates on. Unicode-normalizes, folds leetspeak, strips
// emoji/variation selectors, lowercases, and collapses whitespace.
func Normalize(text string) string {
	nfkc := norm.NFKC.String(text)

	var b strings.Builder
	b.Grow(len(nfkc))
	for _, r := range nfkc {
		if isEmojiOrVariation(r) {
			continue
		}
		if folded, ok := leetMap[r]; ok {
			r = folded
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func isEmojiOrVariation(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // misc symbols, emoji blocks
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	case r == 0xFE0E || r == 0xFE0F: // variation selectors (emoji "skins")
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flag emoji)
		return true
	default:
		return false
	}
}
