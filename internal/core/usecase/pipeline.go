package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
	"github.com/paperlab/paper-summarizer/internal/core/ports"
)

type pipelineState string

const (
	stateNotStarted          pipelineState = "not_started"
	stateStructuredAttempted pipelineState = "structured_attempted"
	stateRawAttempted        pipelineState = "raw_attempted"
	statePreprocessed        pipelineState = "preprocessed"
	stateSummarized          pipelineState = "summarized"
	stateDone                pipelineState = "done"
)

// HybridPipelineUseCase turns one stored document into one summary record.
//
// Structured extraction runs first, exactly once; the raw fallback runs iff
// it fails, exactly once. Every stage failure past that point degrades the
// record instead of aborting: the only error Run returns is the
// unreadable-document kind, when neither extractor could read any text. The
// use case holds no per-run state, so one instance serves concurrent runs.
type HybridPipelineUseCase struct {
	structured ports.SectionExtractor
	raw        ports.SectionExtractor
	prep       ports.Preprocessor
	engine     ports.SummaryEngine
	metrics    ports.PipelineMetrics
	logger     *slog.Logger
}

func NewHybridPipelineUseCase(
	structured ports.SectionExtractor,
	raw ports.SectionExtractor,
	prep ports.Preprocessor,
	engine ports.SummaryEngine,
	metrics ports.PipelineMetrics,
	logger *slog.Logger,
) *HybridPipelineUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &HybridPipelineUseCase{
		structured: structured,
		raw:        raw,
		prep:       prep,
		engine:     engine,
		metrics:    metrics,
		logger:     logger,
	}
}

func (uc *HybridPipelineUseCase) Run(ctx context.Context, doc *domain.Document) (*domain.SummaryRecord, error) {
	rec := &domain.SummaryRecord{
		DocumentID:       doc.ID,
		Filename:         doc.Filename,
		ExtractionMethod: domain.MethodNone,
		SectionsFound:    []string{},
		GeneratedAt:      time.Now().UTC(),
	}
	state := uc.transition(doc, stateNotStarted, stateNotStarted)

	res := uc.attemptStructured(ctx, doc, rec)
	state = uc.transition(doc, state, stateStructuredAttempted)

	if !res.Usable() {
		var err error
		res, err = uc.attemptRaw(ctx, doc, rec)
		if err != nil {
			return nil, err
		}
		state = uc.transition(doc, state, stateRawAttempted)
		if !res.Usable() {
			// Readable but empty either way: the record itself is the
			// outcome, carrying both extraction diagnostics.
			uc.transition(doc, state, stateDone)
			return rec, nil
		}
	}
	applyExtraction(rec, res)

	chunks := uc.prep.Prepare(res)
	state = uc.transition(doc, state, statePreprocessed)
	if chunks.Empty() {
		rec.AddDiagnostic(domain.StagePreprocess,
			domain.ErrEmptyInput.Error()+": no text survived cleaning")
		uc.fillFallbackSummary(rec, res)
		uc.transition(doc, state, stateDone)
		return rec, nil
	}

	uc.summarizeInto(ctx, rec, chunks)
	state = uc.transition(doc, state, stateSummarized)

	rec.AIEnhanced = rec.QuickSummary != "" || rec.DeepSummary != ""
	if rec.AIEnhanced {
		rec.SummarySource = domain.SummarySourceLLM
	} else {
		uc.fillFallbackSummary(rec, res)
	}
	uc.transition(doc, state, stateDone)
	return rec, nil
}

// attemptStructured never propagates an error: any structured failure is a
// diagnostic plus a fall-through to the raw extractor.
func (uc *HybridPipelineUseCase) attemptStructured(ctx context.Context, doc *domain.Document, rec *domain.SummaryRecord) *domain.ExtractionResult {
	res, err := uc.structured.Extract(ctx, doc)
	if err != nil {
		res = domain.FailedExtraction(domain.MethodStructured, err.Error())
	}
	if res.Usable() {
		uc.countExtraction(domain.MethodStructured, true)
		return res
	}

	diagnostic := res.Diagnostic
	if diagnostic == "" {
		diagnostic = "structured extraction produced no sections"
	}
	rec.AddDiagnostic(domain.StageStructuredExtraction, diagnostic)
	uc.countExtraction(domain.MethodStructured, false)
	uc.logger.Warn("structured extraction failed, falling back to raw",
		"document_id", doc.ID, "diagnostic", diagnostic)
	return res
}

func (uc *HybridPipelineUseCase) attemptRaw(ctx context.Context, doc *domain.Document, rec *domain.SummaryRecord) (*domain.ExtractionResult, error) {
	res, err := uc.raw.Extract(ctx, doc)
	if err != nil {
		uc.countExtraction(domain.MethodRaw, false)
		return nil, err
	}
	if res.Usable() {
		uc.countExtraction(domain.MethodRaw, true)
		return res, nil
	}

	diagnostic := res.Diagnostic
	if diagnostic == "" {
		diagnostic = "raw extraction produced no text"
	}
	rec.AddDiagnostic(domain.StageRawExtraction, diagnostic)
	uc.countExtraction(domain.MethodRaw, false)
	return res, nil
}

// summarizeInto runs both backends; each failure lands in the record as a
// diagnostic and never touches the other backend.
func (uc *HybridPipelineUseCase) summarizeInto(ctx context.Context, rec *domain.SummaryRecord, chunks *domain.ChunkSet) {
	quick, err := uc.engine.SummarizeQuick(ctx, chunks.Quick)
	if err != nil {
		rec.AddDiagnostic(domain.StageQuickSummary, err.Error())
		uc.countSummary("quick", false)
	} else {
		rec.QuickSummary = quick
		uc.countSummary("quick", true)
	}

	deep, err := uc.engine.SummarizeDeep(ctx, chunks.Deep)
	if err != nil {
		rec.AddDiagnostic(domain.StageDeepSummary, err.Error())
		uc.countSummary("deep", false)
	} else {
		rec.DeepSummary = deep
		uc.countSummary("deep", true)
	}
}

// fillFallbackSummary puts the naive extractive sentence into the quick slot
// when no model produced anything. AIEnhanced stays false.
func (uc *HybridPipelineUseCase) fillFallbackSummary(rec *domain.SummaryRecord, res *domain.ExtractionResult) {
	sentence := naiveFirstSentence(res)
	if sentence == "" {
		return
	}
	rec.QuickSummary = sentence
	rec.SummarySource = domain.SummarySourceFallback
}

func (uc *HybridPipelineUseCase) transition(doc *domain.Document, from, to pipelineState) pipelineState {
	if from != to {
		uc.logger.Debug("pipeline transition",
			"document_id", doc.ID, "from", string(from), "to", string(to))
	}
	return to
}

func (uc *HybridPipelineUseCase) countExtraction(method domain.ExtractionMethod, ok bool) {
	if uc.metrics != nil {
		uc.metrics.ExtractionAttempted(method, ok)
	}
}

func (uc *HybridPipelineUseCase) countSummary(backend string, ok bool) {
	if uc.metrics != nil {
		uc.metrics.SummaryProduced(backend, ok)
	}
}

func applyExtraction(rec *domain.SummaryRecord, res *domain.ExtractionResult) {
	rec.ExtractionMethod = res.Method
	rec.Title = res.Title
	rec.Authors = res.Authors
	rec.Stats = res.Stats
	rec.SectionsFound = make([]string, 0, len(res.Sections))
	for _, sec := range res.Sections {
		rec.SectionsFound = append(rec.SectionsFound, sec.Heading)
	}
}

// naiveFirstSentence takes the first sentence of the abstract, or of the
// first non-empty section, capped at 60 words.
func naiveFirstSentence(res *domain.ExtractionResult) string {
	if res == nil {
		return ""
	}
	source := strings.TrimSpace(res.Abstract)
	if source == "" {
		for _, sec := range res.Sections {
			if text := strings.TrimSpace(sec.Text); text != "" {
				source = text
				break
			}
		}
	}
	if source == "" {
		return ""
	}

	sentence := source
	if idx := strings.IndexAny(source, ".!?"); idx >= 0 {
		sentence = source[:idx+1]
	}
	words := strings.Fields(sentence)
	if len(words) > 60 {
		sentence = strings.Join(words[:60], " ")
	}
	return strings.TrimSpace(sentence)
}
