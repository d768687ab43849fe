// Package sanitize post-processes assistant output: it validates cited
// reference domains against a fixed allow-list and strips trailing reference
// blocks. Both operations are pure text transforms with no side effects, so
// callers decide independently which to apply to a given turn.
package sanitize

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TrustedDomains is the fixed allow-list of official sources the assistant is
// expected to cite. Matching is case-insensitive, exact or on a dot boundary
// (static.anaf.ro is covered by anaf.ro; notanaf.ro is not).
var TrustedDomains = []string{
	"anaf.ro",
	"mfinante.gov.ro",
	"just.ro",
	"monitoruloficial.ro",
	"ceccar.ro",
}

var (
	// urlPattern matches absolute URLs. Parentheses and brackets are excluded
	// so Markdown link syntax around a URL is not swallowed into it.
	urlPattern = regexp.MustCompile(`https?://[^\s<>()\[\]]+`)

	// markdownLinkPattern matches [label](url), optionally wrapped in one
	// extra pair of parentheses.
	markdownLinkPattern = regexp.MustCompile(`\(?\[[^\]]*\]\(\s*https?://[^\s)]+\s*\)\)?`)

	// referenceHeadingPattern is applied to a lowercased, diacritic-folded
	// line: optional markdown heading/emphasis/quote markers, a references
	// label, optional colon, arbitrary trailing text.
	referenceHeadingPattern = regexp.MustCompile(`^[#*>\-\s]*(referinte|references|surse|bibliografie)\b\s*:?.*$`)
)

// CheckReferenceDomains extracts every absolute URL from text and returns the
// hosts that match none of the trusted domains. It never modifies the text;
// the caller decides what to do with the offending hosts (the pipeline only
// logs them).
func CheckReferenceDomains(text string) []string {
	var invalid []string
	for _, raw := range urlPattern.FindAllString(text, -1) {
		u, err := url.Parse(strings.TrimRight(raw, ".,;:!?"))
		if err != nil {
			continue
		}
		host := strings.ToLower(u.Hostname())
		if host == "" {
			continue
		}
		if !hostAllowed(host) {
			invalid = append(invalid, host)
		}
	}
	return invalid
}

func hostAllowed(host string) bool {
	for _, domain := range TrustedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// StripReferences removes every URL occurrence from text (bare URLs,
// [label](url) links and the ([label](url)) variant), trims trailing blank
// lines and drops any remaining trailing references heading. The operation is
// idempotent: once URLs and headings are gone, a second pass is a no-op.
func StripReferences(text string) string {
	stripped := markdownLinkPattern.ReplaceAllString(text, "")
	stripped = urlPattern.ReplaceAllString(stripped, "")

	lines := strings.Split(stripped, "\n")

	// Trim trailing blank lines and trailing reference headings. Headings are
	// consumed in a loop so stacked "Referințe:" lines cannot survive a pass.
	// Lines reduced to bullet/punctuation residue by the URL removal count as
	// blank here.
	for len(lines) > 0 {
		last := strings.TrimSpace(lines[len(lines)-1])
		if isResidue(last) || isReferenceHeading(last) {
			lines = lines[:len(lines)-1]
			continue
		}
		break
	}

	return strings.TrimRight(strings.Join(lines, "\n"), " \t\n")
}

func isResidue(line string) bool {
	for _, r := range line {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isReferenceHeading(line string) bool {
	return referenceHeadingPattern.MatchString(foldDiacritics(strings.ToLower(line)))
}

// foldDiacritics removes combining marks so "Referințe" matches "referinte".
// The transformer chain carries internal buffers, so it is built per call
// rather than shared across concurrent requests.
func foldDiacritics(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, s)
	if err != nil {
		return s
	}
	return folded
}
