package chunking

import (
	"regexp"
	"strings"
)

var (
	reWhitespace       = regexp.MustCompile(`\s+`)
	reSpaceBeforePunct = regexp.MustCompile(`\s+([.,;:!?])`)
	reMissingSpace     = regexp.MustCompile(`([.!?])([A-Z])`)
	reCitationBracket  = regexp.MustCompile(`\[\s*(\d+)\s*\]`)
	reCitationParen    = regexp.MustCompile(`\(\s*(\d+)\s*\)`)
	reHyphenBreak      = regexp.MustCompile(`([a-z]{2,})-\s+([a-z]{2,})`)
	reFigureRef        = regexp.MustCompile(`(?i)\bfig(?:ure)?\.?\s*(\d+)`)
	reTableRef         = regexp.MustCompile(`(?i)\btab(?:le)?\.?\s*(\d+)`)
	reExempliGratia    = regexp.MustCompile(`(?i)\be\.?g\.,?`)
	reIdEst            = regexp.MustCompile(`(?i)\bi\.?e\.,?`)
)

// CleanText normalizes text recovered from PDFs: collapsed whitespace,
// punctuation spacing, citation brackets, hyphenation breaks, figure/table
// references and common abbreviations. Order matters: hyphen repair must see
// the single-space form the whitespace collapse produces.
func CleanText(text string) string {
	text = reWhitespace.ReplaceAllString(text, " ")
	text = reHyphenBreak.ReplaceAllString(text, "$1$2")
	text = reSpaceBeforePunct.ReplaceAllString(text, "$1")
	text = reMissingSpace.ReplaceAllString(text, "$1 $2")
	text = reCitationBracket.ReplaceAllString(text, "[$1]")
	text = reCitationParen.ReplaceAllString(text, "($1)")
	text = reFigureRef.ReplaceAllString(text, "Figure $1")
	text = reTableRef.ReplaceAllString(text, "Table $1")
	text = reExempliGratia.ReplaceAllString(text, "e.g.,")
	text = reIdEst.ReplaceAllString(text, "i.e.,")
	return strings.TrimSpace(text)
}

var reSentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// splitSentences breaks cleaned text at sentence-ending punctuation. The
// split is deliberately naive; abbreviations that survive cleaning may cost
// an extra boundary, never lost text.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	locs := reSentenceEnd.FindAllStringIndex(text, -1)
	out := make([]string, 0, len(locs)+1)
	start := 0
	for _, loc := range locs {
		// loc[0]+1 keeps the punctuation with the sentence.
		sentence := strings.TrimSpace(text[start : loc[0]+1])
		if sentence != "" {
			out = append(out, sentence)
		}
		start = loc[1]
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func countWords(s string) int {
	return len(strings.Fields(s))
}
