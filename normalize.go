package veganify

import (
	"regexp"
	"strings"
)

var (
	percentRe = regexp.MustCompile(`\s*\d+(\.\d+)?%`)
	numberRe  = regexp.MustCompile(`\b\d+(\.\d+)?\b`)
	parenRe   = regexp.MustCompile(`^(.*?)\s*\((.*?)\)$`)
)

func isListSeparator(r rune) bool {
	switch r {
	case ',', ':', ';', '|', '\n', '\r', '\t':
		return true
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Normalize turns a free-text ingredient list into distinct ingredient tokens
// in first-seen order. Quantities ("100%", "2.5") are dropped and
// "main (detail)" yields both "main" and "detail". The result is never nil.
//
// Whitespace is collapsed again after quantities are removed, so
// "sugar 100 cane" yields "sugar cane" rather than a token with a double
// space. The service therefore receives the collapsed form.
//
// Joining the result with commas and normalizing again yields the same
// tokens, except for parentheticals that themselves contain parentheses.
func Normalize(input string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	add := func(tok string) {
		if tok == "" {
			return
		}
		if _, dup := seen[tok]; dup {
			return
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}

	for _, part := range strings.FieldsFunc(input, isListSeparator) {
		part = collapseSpace(part)
		if part == "" {
			continue
		}
		cleaned := percentRe.ReplaceAllString(part, "")
		cleaned = numberRe.ReplaceAllString(cleaned, "")
		cleaned = collapseSpace(cleaned)

		if m := parenRe.FindStringSubmatch(cleaned); m != nil {
			add(strings.TrimSpace(m[1]))
			add(strings.TrimSpace(m[2]))
			continue
		}
		add(cleaned)
	}
	return out
}

// SplitRaw is the no-preprocessing path: split on commas, trim, drop empties.
func SplitRaw(input string) []string {
	out := []string{}
	for _, part := range strings.Split(input, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
