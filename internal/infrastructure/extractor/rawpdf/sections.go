package rawpdf

import (
	"regexp"
	"strings"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
)

// Canonical research-paper headings the segmentation recognizes.
var sectionHeadings = map[string]struct{}{
	"abstract":        {},
	"introduction":    {},
	"background":      {},
	"related work":    {},
	"methodology":     {},
	"methods":         {},
	"approach":        {},
	"experiments":     {},
	"evaluation":      {},
	"results":         {},
	"discussion":      {},
	"conclusion":      {},
	"conclusions":     {},
	"references":      {},
	"acknowledgments": {},
	"acknowledgements": {},
}

// Heading sections collected but excluded from the summarizable output.
var droppedSections = map[string]struct{}{
	"references":       {},
	"acknowledgments":  {},
	"acknowledgements": {},
}

var (
	reHeadingNumber = regexp.MustCompile(`^\d+(\.\d+)*\.?\s*`)
	rePageNumber    = regexp.MustCompile(`^\d{1,4}$`)
	rePageOfLine    = regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`)
)

// matchHeading reports the canonical heading a line denotes, or "".
func matchHeading(line string) string {
	if len(line) == 0 || len(line) >= 80 {
		return ""
	}
	h := strings.ToLower(strings.TrimSpace(line))
	h = reHeadingNumber.ReplaceAllString(h, "")
	h = strings.TrimRight(h, ".:;")
	h = strings.TrimSpace(h)
	if _, ok := sectionHeadings[h]; ok {
		return h
	}
	return ""
}

func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "journal"),
		strings.Contains(lower, "copyright"),
		strings.Contains(lower, "©"),
		strings.Contains(lower, "arxiv:"),
		strings.Contains(lower, "doi:"),
		strings.Contains(lower, "volume") && strings.Contains(lower, "issue"),
		strings.Contains(lower, "preprint"),
		strings.Contains(lower, "proceedings of"):
		return true
	}
	return false
}

// repeatedLines counts on how many pages each short line occurs. Lines on 3+
// pages are running headers or footers.
func repeatedLines(pages [][]string) map[string]int {
	counts := make(map[string]int)
	for _, lines := range pages {
		seen := make(map[string]struct{}, len(lines))
		for _, line := range lines {
			if len(line) == 0 || len(line) > 80 {
				continue
			}
			if _, dup := seen[line]; dup {
				continue
			}
			seen[line] = struct{}{}
			counts[line]++
		}
	}
	return counts
}

const boilerplatePageThreshold = 3

// assemble turns raw page texts into a tagged extraction result. Boilerplate
// is filtered, a title is guessed from the first page and the remaining
// lines are folded into heading-delimited sections ("body" before the first
// recognized heading).
func assemble(pages []string) *domain.ExtractionResult {
	pageLines := make([][]string, len(pages))
	for i, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				pageLines[i] = append(pageLines[i], line)
			}
		}
	}
	repeats := repeatedLines(pageLines)

	keep := func(line string) bool {
		if len(line) < 2 {
			return false
		}
		if rePageNumber.MatchString(line) || rePageOfLine.MatchString(line) {
			return false
		}
		if repeats[line] >= boilerplatePageThreshold {
			return false
		}
		return true
	}

	title := ""
	if len(pageLines) > 0 {
		title = guessTitle(pageLines[0])
	}

	order := make([]string, 0, 8)
	texts := make(map[string]*strings.Builder)
	current := "body"
	appendLine := func(heading, line string) {
		b, ok := texts[heading]
		if !ok {
			b = &strings.Builder{}
			texts[heading] = b
			order = append(order, heading)
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(line)
	}

	for _, lines := range pageLines {
		for _, line := range lines {
			if !keep(line) {
				continue
			}
			if h := matchHeading(line); h != "" {
				current = h
				continue
			}
			appendLine(current, line)
		}
	}

	res := &domain.ExtractionResult{
		Method:  domain.MethodRaw,
		Success: true,
		Title:   title,
	}
	for _, heading := range order {
		if _, drop := droppedSections[heading]; drop {
			continue
		}
		text := strings.TrimSpace(texts[heading].String())
		if text == "" {
			continue
		}
		if heading == "abstract" {
			res.Abstract = text
		}
		res.Sections = append(res.Sections, domain.Section{Heading: heading, Text: text})
		res.Stats.Characters += len(text)
	}
	res.Stats.Sections = len(res.Sections)

	if len(res.Sections) == 0 {
		return domain.FailedExtraction(domain.MethodRaw,
			"pages readable but no text survived filtering")
	}
	return res
}

// guessTitle picks the first substantial line of the first page.
func guessTitle(lines []string) string {
	for _, line := range lines {
		if len(line) < 10 || len(line) > 200 {
			continue
		}
		if len(strings.Fields(line)) < 2 {
			continue
		}
		if isHeaderLine(line) || matchHeading(line) != "" {
			continue
		}
		if rePageNumber.MatchString(line) {
			continue
		}
		return line
	}
	return ""
}
