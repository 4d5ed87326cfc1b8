package pcm

import (
	"math"
	"strconv"
	"strings"
)

// CodeWords converts encoded samples back into level indices in [0, L-1]
// with round((d+1)*(L-1)/2), rounding half to even. Indices outside the
// range are clamped.
func CodeWords(encoded []float64, bits int) ([]int, error) {
	levels, err := Levels(bits)
	if err != nil {
		return nil, err
	}

	top := levels - 1
	half := float64(top) / 2

	words := make([]int, len(encoded))
	for i, d := range encoded {
		w := int(math.RoundToEven((d + 1) * half))
		words[i] = min(max(w, 0), top)
	}

	return words, nil
}

// FormatCodeWords renders up to limit words as zero-padded binary strings of
// width bits. A non-positive limit renders every word.
func FormatCodeWords(words []int, bits, limit int) []string {
	if limit <= 0 || limit > len(words) {
		limit = len(words)
	}

	out := make([]string, limit)
	for i, w := range words[:limit] {
		s := strconv.FormatInt(int64(w), 2)
		if pad := bits - len(s); pad > 0 {
			s = strings.Repeat("0", pad) + s
		}
		out[i] = s
	}

	return out
}
