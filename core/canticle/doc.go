// Package canticle parses the syllable-annotated edition of the Commedia.
//
// Each canticle is a plain-text file. Canto headings look like
//
//	Inferno • Canto XIV
//
// and every verse line carries a right-aligned line number in a fixed
// 4-character prefix, followed by words whose syllables are separated by the
// '|' marker:
//
//	  1 |Nel |mez|zo |del |cam|min |di |no|stra |vi|ta
//
// # Records
//
// Parsing yields explicit records rather than nested maps:
//
//   - Canticle: one of Inferno, Purgatorio, Paradiso
//   - Canto: numbered from the roman numeral in its heading
//   - Line: line number, first letter, rhyme fragment, and per-word data
//
// # Per-line data
//
// A word's syllable count is the number of '|' markers it carries, so a word
// without any marker counts 0. The rhyme fragment is the tail of the final
// word's last two syllables, starting at the first vowel that closes a vowel
// cluster. The first letter is the
// character immediately after the leading marker of the first word.
package canticle
