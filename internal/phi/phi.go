// Package phi detects personal health information in free text.
//
// Every path that stores user or generated free text calls
// ContainsSensitiveInfo at the surface that accepts the text and again at the
// store boundary. Both calls share the pattern set below.
package phi

import "regexp"

// Pattern names the kind of sensitive detail that matched.
type Pattern string

const (
	PatternEmail Pattern = "email"
	PatternPhone Pattern = "phone"
	PatternSSN   Pattern = "ssn"
	PatternMRN   Pattern = "mrn"
	PatternDOB   Pattern = "dob"
	PatternDate  Pattern = "date"
)

// RejectionMessage is returned verbatim to callers whose text matched.
const RejectionMessage = "Text contains potential personal health information. Please remove it."

type rule struct {
	pattern Pattern
	re      *regexp.Regexp
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{PatternEmail, regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)},
	{PatternPhone, regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)},
	{PatternSSN, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{PatternMRN, regexp.MustCompile(`(?i)\bMRN\s*[:#]?\s*\d+`)},
	{PatternDOB, regexp.MustCompile(`(?i)\bDOB\s*[:#]?\s*\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}`)},
	{PatternDate, regexp.MustCompile(`\b(0[1-9]|1[0-2])[/\-](0[1-9]|[12]\d|3[01])[/\-](\d{4}|\d{2})\b`)},
}

// Match returns the first pattern found in text.
func Match(text string) (Pattern, bool) {
	if text == "" {
		return "", false
	}
	for _, r := range rules {
		if r.re.MatchString(text) {
			return r.pattern, true
		}
	}
	return "", false
}

// ContainsSensitiveInfo reports whether text contains anything shaped like PHI.
func ContainsSensitiveInfo(text string) bool {
	_, found := Match(text)
	return found
}

// MatchAny returns the first pattern found in any of texts.
func MatchAny(texts ...string) (Pattern, bool) {
	for _, text := range texts {
		if pattern, found := Match(text); found {
			return pattern, true
		}
	}
	return "", false
}

// Patterns lists the checks in evaluation order.
func Patterns() []Pattern {
	out := make([]Pattern, len(rules))
	for i, r := range rules {
		out[i] = r.pattern
	}
	return out
}
