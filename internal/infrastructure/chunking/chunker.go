package chunking

import (
	"strings"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
)

const (
	DefaultQuickWindowWords = 512
	DefaultDeepWindowWords  = 2048

	// A chunk below this fraction of its window keeps absorbing the next
	// section instead of closing at the section boundary.
	fillFloorPercent = 25
)

// Chunker cleans extracted sections and windows them once per model.
// Sentences are never split; a sentence longer than the window becomes its
// own oversized chunk.
type Chunker struct {
	quickWords int
	deepWords  int
}

func NewChunker(quickWords, deepWords int) *Chunker {
	if quickWords <= 0 {
		quickWords = DefaultQuickWindowWords
	}
	if deepWords <= 0 {
		deepWords = DefaultDeepWindowWords
	}
	return &Chunker{quickWords: quickWords, deepWords: deepWords}
}

// Prepare implements ports.Preprocessor.
func (c *Chunker) Prepare(res *domain.ExtractionResult) *domain.ChunkSet {
	if res == nil {
		return &domain.ChunkSet{}
	}
	cleaned := make([]domain.Section, 0, len(res.Sections))
	for _, s := range res.Sections {
		text := CleanText(s.Text)
		if text == "" {
			continue
		}
		cleaned = append(cleaned, domain.Section{Heading: s.Heading, Text: text})
	}
	return &domain.ChunkSet{
		Quick: windowSections(cleaned, c.quickWords),
		Deep:  windowSections(cleaned, c.deepWords),
	}
}

func windowSections(sections []domain.Section, window int) []domain.Chunk {
	var out []domain.Chunk

	var buf strings.Builder
	bufWords := 0
	bufSection := ""

	flush := func() {
		if bufWords == 0 {
			return
		}
		out = append(out, domain.Chunk{
			Section: bufSection,
			Text:    buf.String(),
			Words:   bufWords,
		})
		buf.Reset()
		bufWords = 0
		bufSection = ""
	}

	floor := window * fillFloorPercent / 100

	for _, sec := range sections {
		if bufWords >= floor {
			flush()
		}
		for _, sentence := range splitSentences(sec.Text) {
			w := countWords(sentence)
			if bufWords > 0 && bufWords+w > window {
				flush()
			}
			if bufWords == 0 {
				bufSection = sec.Heading
			} else {
				buf.WriteString(" ")
			}
			buf.WriteString(sentence)
			bufWords += w
			if bufWords >= window {
				flush()
			}
		}
	}
	flush()
	return out
}
