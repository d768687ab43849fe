package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// CheckReferenceDomains
// ---------------------------------------------------------------------------

func TestCheckReferenceDomains_FlagsUntrustedHost(t *testing.T) {
	invalid := CheckReferenceDomains("Detalii: https://evil.example.com/page")
	require.Equal(t, []string{"evil.example.com"}, invalid)
}

func TestCheckReferenceDomains_AcceptsSubdomainOfTrustedDomain(t *testing.T) {
	invalid := CheckReferenceDomains("Vezi https://static.anaf.ro/doc pentru formular.")
	require.Empty(t, invalid)
}

func TestCheckReferenceDomains_ExactMatchCaseInsensitive(t *testing.T) {
	invalid := CheckReferenceDomains("https://ANAF.ro/x si https://Mfinante.GOV.ro/y")
	require.Empty(t, invalid)
}

func TestCheckReferenceDomains_SuffixRequiresDotBoundary(t *testing.T) {
	invalid := CheckReferenceDomains("https://notanaf.ro/x")
	require.Equal(t, []string{"notanaf.ro"}, invalid)
}

func TestCheckReferenceDomains_MultipleURLs(t *testing.T) {
	text := "https://anaf.ro/a apoi https://bad.site/b si https://ceccar.ro/c si https://alt.bad.site/d"
	invalid := CheckReferenceDomains(text)
	require.Equal(t, []string{"bad.site", "alt.bad.site"}, invalid)
}

func TestCheckReferenceDomains_NoURLs(t *testing.T) {
	require.Empty(t, CheckReferenceDomains("Niciun link aici."))
}

func TestCheckReferenceDomains_MarkdownLink(t *testing.T) {
	invalid := CheckReferenceDomains("Vezi [sursa](https://evil.example.com/x).")
	require.Equal(t, []string{"evil.example.com"}, invalid)
}

// ---------------------------------------------------------------------------
// StripReferences
// ---------------------------------------------------------------------------

func TestStripReferences_BareURL(t *testing.T) {
	got := StripReferences("6920 activități de contabilitate.\nhttps://anaf.ro/coduri")
	require.Equal(t, "6920 activități de contabilitate.", got)
}

func TestStripReferences_MarkdownLink(t *testing.T) {
	got := StripReferences("Formularul este pe site.\n[anaf.ro](https://anaf.ro/x)")
	require.Equal(t, "Formularul este pe site.", got)
}

func TestStripReferences_ParenthesizedMarkdownLink(t *testing.T) {
	got := StripReferences("Plafonul este 72 de salarii.\n([anaf.ro](https://anaf.ro/x))")
	require.Equal(t, "Plafonul este 72 de salarii.", got)
}

func TestStripReferences_TrailingReferenceHeading(t *testing.T) {
	text := "Cota CASS este 10%.\n\nReferințe:\n- [ANAF](https://anaf.ro/a)\nhttps://mfinante.gov.ro/b"
	require.Equal(t, "Cota CASS este 10%.", StripReferences(text))
}

func TestStripReferences_HeadingWithoutDiacritics(t *testing.T) {
	text := "Termenul este 25 ale lunii.\n\nreferinte: legislatie consultata\nhttps://anaf.ro/x"
	require.Equal(t, "Termenul este 25 ale lunii.", StripReferences(text))
}

func TestStripReferences_MarkdownHeadingMarker(t *testing.T) {
	text := "Răspuns final.\n\n### Surse\nhttps://just.ro/lege"
	require.Equal(t, "Răspuns final.", StripReferences(text))
}

func TestStripReferences_HeadingMidTextIsKept(t *testing.T) {
	text := "Referințe utile găsești mai jos.\nAcesta este răspunsul."
	require.Equal(t, text, StripReferences(text))
}

func TestStripReferences_PreservesPrecedingProse(t *testing.T) {
	text := "Primul paragraf.\n\nAl doilea paragraf.\nhttps://anaf.ro/x"
	require.Equal(t, "Primul paragraf.\n\nAl doilea paragraf.", StripReferences(text))
}

func TestStripReferences_StackedHeadings(t *testing.T) {
	text := "Răspuns.\n\nSurse:\nReferințe:\nhttps://anaf.ro/x"
	require.Equal(t, "Răspuns.", StripReferences(text))
}

func TestStripReferences_NoURLsNoHeading(t *testing.T) {
	require.Equal(t, "Doar text simplu.", StripReferences("Doar text simplu.\n\n"))
}

func TestStripReferences_Idempotent(t *testing.T) {
	cases := []string{
		"6920 activități de contabilitate.\nhttps://anaf.ro/coduri",
		"Text.\n\nReferințe:\n- [a](https://anaf.ro/a)\n- ([b](https://anaf.ro/b))",
		"Fără linkuri.",
		"",
		"Referințe:\nhttps://anaf.ro/x",
		"Text cu [link](https://anaf.ro/inline) în mijloc.",
	}
	for _, text := range cases {
		once := StripReferences(text)
		require.Equal(t, once, StripReferences(once), "input=%q", text)
	}
}

func TestStripReferences_Empty(t *testing.T) {
	require.Equal(t, "", StripReferences(""))
}
