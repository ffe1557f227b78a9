package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// wholeInt matches whole integers only; word boundaries keep it from pulling
// "10" or "5" out of "105", so an out-of-range answer is rejected to 0
// rather than partially matched.
var wholeInt = regexp.MustCompile(`\b\d+\b`)

// ExtractScore mines free text for the first whole integer in [0,100].
// No candidate means 0. Model output is untrusted; this never fails.
func ExtractScore(text string) int {
	for _, match := range wholeInt.FindAllString(text, -1) {
		n, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		if n >= 0 && n <= 100 {
			return n
		}
	}
	return 0
}

// ParseResponse splits a "SCORE | REASON" reply on the first pipe. The score
// is mined from the head; the rationale is the trimmed tail. Without a pipe
// the whole text serves as both rationale and score source.
func ParseResponse(raw string) (int, string) {
	head, tail, found := strings.Cut(raw, "|")
	if found {
		return ExtractScore(head), strings.TrimSpace(tail)
	}
	return ExtractScore(raw), strings.TrimSpace(raw)
}
