package domain

import "time"

type SummarySource string

const (
	SummarySourceLLM      SummarySource = "llm"
	SummarySourceFallback SummarySource = "fallback_first_sentence"
)

// Stage names used as diagnostics keys. An absent key means the stage
// completed without complaint.
const (
	StageStructuredExtraction = "structured_extraction"
	StageRawExtraction        = "raw_extraction"
	StagePreprocess           = "preprocess"
	StageQuickSummary         = "quick_summary"
	StageDeepSummary          = "deep_summary"
)

// SummaryRecord is the terminal artifact of one pipeline run. Exactly one is
// produced for every readable document, including degraded runs where
// extraction or both summarizers failed.
type SummaryRecord struct {
	DocumentID       string            `json:"document_id"`
	Filename         string            `json:"filename"`
	Title            string            `json:"title"`
	Authors          []string          `json:"authors,omitempty"`
	QuickSummary     string            `json:"quick_summary"`
	DeepSummary      string            `json:"deep_summary"`
	SummarySource    SummarySource     `json:"summary_source,omitempty"`
	ExtractionMethod ExtractionMethod  `json:"extraction_method"`
	SectionsFound    []string          `json:"sections_found"`
	AIEnhanced       bool              `json:"ai_enhanced"`
	Stats            ExtractionStats   `json:"extraction_stats"`
	Diagnostics      map[string]string `json:"diagnostics,omitempty"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// AddDiagnostic retains a stage failure message without failing the run.
func (r *SummaryRecord) AddDiagnostic(stage, message string) {
	if message == "" {
		return
	}
	if r.Diagnostics == nil {
		r.Diagnostics = make(map[string]string)
	}
	r.Diagnostics[stage] = message
}
