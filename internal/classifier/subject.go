package classifier

import (
	"regexp"
	"strings"
	"unicode"
)

// SubjectNotFound is the placeholder subject when no candidate line exists.
// It is a valid value, not an error; downstream consumers must accept it.
const SubjectNotFound = "Subject not found"

var (
	subjectKeyword = regexp.MustCompile(`(?i)\b(subject|sub|regarding|re)\b`)
	subjectStrip   = regexp.MustCompile(`(?i)\b(subject|sub|regarding|re)\b\s*[:\-–]?\s*`)
	// OCR noise: anything outside the allowed character set.
	subjectNoise = regexp.MustCompile(`[^a-zA-Z0-9 ,.:;'"@()\-\n]`)
	headerLine   = regexp.MustCompile(`(?i)(dear|sir|madam|to:|from:|date)`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Acronyms that title-casing would mangle, restored to canonical form.
var acronyms = []string{"VC", "AI", "IoT", "HR", "PhD", "MBA", "UGC", "UG", "PG"}

// ExtractSubject scans OCR text for a subject line. It matches keyword
// variants ("Subject", "Sub:", "Re:", "Regarding"), tolerates OCR noise,
// and greedily appends up to two continuation lines for subjects that wrap.
// Falls back to the first long non-header line, then to SubjectNotFound.
func ExtractSubject(raw string) string {
	lines := make([]string, 0)
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	var subject string

	for i, line := range lines {
		if !subjectKeyword.MatchString(line) {
			continue
		}

		line = subjectNoise.ReplaceAllString(line, " ")
		subject = strings.TrimSpace(subjectStrip.ReplaceAllString(line, ""))

		// Wrapped subjects: look ahead two lines, stopping at anything
		// that reads like a letter header.
		for j := i + 1; j < min(i+3, len(lines)); j++ {
			next := lines[j]
			if headerLine.MatchString(next) {
				break
			}
			if len(strings.Fields(next)) > 2 {
				subject += " " + next
			}
		}
		break
	}

	if subject == "" {
		for _, line := range lines {
			if len(strings.Fields(line)) > 5 && !headerLine.MatchString(line) {
				subject = line
				break
			}
		}
	}

	subject = strings.TrimSpace(whitespace.ReplaceAllString(subject, " "))
	if subject == "" {
		return SubjectNotFound
	}

	subject = titleCase(subject)
	for _, ac := range acronyms {
		re := regexp.MustCompile(`\b` + titleCase(ac) + `\b`)
		subject = re.ReplaceAllString(subject, ac)
	}

	return subject
}

// titleCase upper-cases the first letter of every alphabetic run and
// lower-cases the rest, mirroring the casing the training data used.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}

	return b.String()
}
