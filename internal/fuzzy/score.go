package fuzzy

import "unicode"

// Tier weights. Each tier's ceiling sits below the one above it.
const (
	exactWeight       = 1.0
	substringWeight   = 0.8
	subsequenceWeight = 0.6
)

// Score returns how well query matches text, in [0, 1].
//
// It returns 0 if either string is empty. Comparison ignores case and lengths
// are counted in runes.
func Score(query, text string) float64 {
	return scoreFolded(fold(query), fold(text))
}

func scoreFolded(q, t []rune) float64 {
	if len(q) == 0 || len(t) == 0 {
		return 0
	}
	if equalRunes(q, t) {
		return exactWeight
	}
	if indexRunes(t, q, 0) >= 0 {
		return substringWeight * float64(len(q)) / float64(len(t))
	}

	matched := subsequenceMatched(q, t)
	if matched == 0 {
		return 0
	}
	completion := float64(matched) / float64(len(q))
	lengthRatio := float64(len(q)) / float64(len(t))
	return completion * lengthRatio * subsequenceWeight
}

// subsequenceMatched walks t once, advancing through q on every equal rune.
func subsequenceMatched(q, t []rune) int {
	qi := 0
	for _, r := range t {
		if qi == len(q) {
			break
		}
		if r == q[qi] {
			qi++
		}
	}
	return qi
}

// fold lowercases s rune by rune. The result has exactly one rune per rune
// of s, so indexes into it are valid indexes into []rune(s).
func fold(s string) []rune {
	return foldRunes([]rune(s))
}

func foldRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// indexRunes returns the first index >= from where needle occurs in hay, or -1.
func indexRunes(hay, needle []rune, from int) int {
	if len(needle) == 0 {
		return -1
	}
	last := len(hay) - len(needle)
	for i := from; i <= last; i++ {
		if hay[i] != needle[0] {
			continue
		}
		j := 1
		for j < len(needle) && hay[i+j] == needle[j] {
			j++
		}
		if j == len(needle) {
			return i
		}
	}
	return -1
}

// occurrences returns the start of every non-overlapping occurrence of needle.
func occurrences(hay, needle []rune) []int {
	var starts []int
	for i := indexRunes(hay, needle, 0); i >= 0; i = indexRunes(hay, needle, i+len(needle)) {
		starts = append(starts, i)
	}
	return starts
}
