package ollama

import (
	"fmt"
	"strings"
)

func chunkPrompt(section, text string) string {
	if section == "" {
		section = "body"
	}
	return fmt.Sprintf(`You are summarizing one part of a research paper.
Write 3-5 sentences covering the main claims, methods and findings of this part.
Plain prose. No headings, no bullet points, no preamble.

Part (%s):
%s`, section, text)
}

func reducePrompt(minWords, maxWords int, partials []string) string {
	var sb strings.Builder
	for i, partial := range partials {
		fmt.Fprintf(&sb, "[%d] %s\n\n", i+1, partial)
	}

	return fmt.Sprintf(`The numbered notes below each summarize part of the same research paper.
Merge them into one coherent summary of the whole paper, %d to %d words.
Plain prose. No headings, no bullet points, no numbering, no preamble.

Notes:
%s`, minWords, maxWords, sb.String())
}

func directPrompt(minWords, maxWords int, text string) string {
	return fmt.Sprintf(`Summarize this research paper in %d to %d words.
Cover the problem it addresses, the approach and the key findings.
Plain prose. No headings, no bullet points, no preamble.

Paper text:
%s`, minWords, maxWords, text)
}
