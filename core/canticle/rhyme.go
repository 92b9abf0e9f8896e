package canticle

import "strings"

// Marker separates syllables inside a word.
const Marker = "|"

// rhymeTrim is stripped from both ends of the joined tail segments.
const rhymeTrim = "|\\,.!;:?»\n"

// vowels is case-sensitive on purpose: capitals never start a rhyme nucleus.
const vowels = "aeiouàáâäæãåāèéêëēėęîïíīįìôöòóœøōõûüùúūÿ"

func isVowel(r rune) bool {
	return strings.ContainsRune(vowels, r)
}

// SyllableCount returns the number of boundary markers in word.
func SyllableCount(word string) int {
	return strings.Count(word, Marker)
}

// WordText strips the boundary markers from word.
func WordText(word string) string {
	return strings.ReplaceAll(word, Marker, "")
}

// RhymeFragment derives the rhyme-relevant tail of a line's final word.
//
// The last two marker-separated segments are joined, surrounding punctuation
// is trimmed, and everything before the first vowel that is not followed by
// another vowel is dropped. "|vi|ta." yields "ita"; "|bu|io" yields "o".
func RhymeFragment(word string) string {
	segments := strings.Split(word, Marker)
	if len(segments) > 2 {
		segments = segments[len(segments)-2:]
	}
	tail := strings.Trim(strings.Join(segments, ""), rhymeTrim)
	return trimToNucleus(tail)
}

func trimToNucleus(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if !isVowel(r) {
			continue
		}
		if i+1 < len(runes) && isVowel(runes[i+1]) {
			continue
		}
		return string(runes[i:])
	}
	return s
}
