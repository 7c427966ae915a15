package core

import (
	"regexp"
	"strconv"
	"strings"
)

// maxBackReference is the highest group a substitution can reference; the
// \N syntax takes a single digit.
const maxBackReference = 9

// WildcardRuleToDNR converts a wildcard source pattern into an anchored
// regular expression, and a wildcard target into the matching substitution
// template.
//
// Each '*' in source becomes a (.+) capture group; every other character is
// matched literally. The Nth '*' in target becomes \N, referring to the Nth
// '*' of source. A target '*' with no corresponding source group (or past \9)
// is kept as a literal '*'. Backslashes in target are escaped as \\.
//
// Callers that only need the regex pass source as target.
func WildcardRuleToDNR(source, target string) (regex, substitution string) {
	parts := strings.Split(source, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	regex = "^" + strings.Join(parts, "(.+)") + "$"

	groups := len(parts) - 1
	if groups > maxBackReference {
		groups = maxBackReference
	}

	var b strings.Builder
	group := 0
	for _, ch := range target {
		switch ch {
		case '*':
			group++
			if group <= groups {
				b.WriteByte('\\')
				b.WriteString(strconv.Itoa(group))
			} else {
				b.WriteByte('*')
			}
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(ch)
		}
	}
	return regex, b.String()
}

// ExpandSubstitution fills a substitution template with the submatches of a
// regex match. \0 is the whole match, \1..\9 the capture groups and \\ a
// literal backslash. References to groups that did not participate expand to
// the empty string.
func ExpandSubstitution(template string, submatches []string) string {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '\\' || i+1 >= len(template) {
			b.WriteByte(c)
			continue
		}
		next := template[i+1]
		switch {
		case next >= '0' && next <= '9':
			n := int(next - '0')
			if n < len(submatches) {
				b.WriteString(submatches[n])
			}
			i++
		case next == '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
