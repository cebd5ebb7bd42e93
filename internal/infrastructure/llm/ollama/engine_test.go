package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/paperlab/paper-summarizer/internal/core/domain"
	"github.com/paperlab/paper-summarizer/internal/infrastructure/resilience"
)

type generateCall struct {
	Model  string
	Prompt string
}

// fakeOllama records generate calls and answers from a per-model canned
// response.
type fakeOllama struct {
	mu        sync.Mutex
	calls     []generateCall
	responses map[string]string
	failModel string
}

func (f *fakeOllama) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}

		f.mu.Lock()
		f.calls = append(f.calls, generateCall{Model: payload.Model, Prompt: payload.Prompt})
		fail := payload.Model == f.failModel
		response := f.responses[payload.Model]
		f.mu.Unlock()

		if fail {
			http.Error(w, "model exploded", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": response})
	}
}

func (f *fakeOllama) callsFor(model string) []generateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []generateCall
	for _, c := range f.calls {
		if c.Model == model {
			out = append(out, c)
		}
	}
	return out
}

func newTestEngine(serverURL string) *Engine {
	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    1,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	})
	return NewEngine(NewClient(serverURL, 0), executor, EngineConfig{
		QuickModel: "quick-model",
		DeepModel:  "deep-model",
	}, nil)
}

func chunk(section, text string) domain.Chunk {
	return domain.Chunk{Section: section, Text: text, Words: len(strings.Fields(text))}
}

func TestSummarizeQuickSingleChunkIsDirect(t *testing.T) {
	fake := &fakeOllama{responses: map[string]string{"quick-model": "the summary."}}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	out, err := newTestEngine(server.URL).SummarizeQuick(context.Background(),
		[]domain.Chunk{chunk("abstract", "one small paper.")})
	if err != nil {
		t.Fatalf("SummarizeQuick() error = %v", err)
	}
	if out != "the summary." {
		t.Fatalf("summary = %q", out)
	}

	calls := fake.callsFor("quick-model")
	if len(calls) != 1 {
		t.Fatalf("generate calls = %d, want 1", len(calls))
	}
	if !strings.Contains(calls[0].Prompt, "30 to 100 words") {
		t.Fatalf("direct prompt missing word target: %s", calls[0].Prompt)
	}
}

func TestSummarizeDeepMapReduces(t *testing.T) {
	fake := &fakeOllama{responses: map[string]string{"deep-model": "partial note."}}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	chunks := []domain.Chunk{
		chunk("introduction", "first part."),
		chunk("methods", "second part."),
		chunk("results", "third part."),
	}
	out, err := newTestEngine(server.URL).SummarizeDeep(context.Background(), chunks)
	if err != nil {
		t.Fatalf("SummarizeDeep() error = %v", err)
	}
	if out == "" {
		t.Fatalf("expected non-empty summary")
	}

	calls := fake.callsFor("deep-model")
	if len(calls) != 4 {
		t.Fatalf("generate calls = %d, want 3 map + 1 reduce", len(calls))
	}
	reduce := calls[3].Prompt
	if !strings.Contains(reduce, "200 to 400 words") {
		t.Fatalf("reduce prompt missing word target: %s", reduce)
	}
	if !strings.Contains(reduce, "[3] partial note.") {
		t.Fatalf("reduce prompt missing numbered partials: %s", reduce)
	}
	if !strings.Contains(calls[0].Prompt, "(introduction)") {
		t.Fatalf("chunk prompt missing section name: %s", calls[0].Prompt)
	}
}

func TestSummarizeBackendsFailIndependently(t *testing.T) {
	fake := &fakeOllama{
		responses: map[string]string{"quick-model": "quick out."},
		failModel: "deep-model",
	}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	engine := newTestEngine(server.URL)
	chunks := []domain.Chunk{chunk("body", "text.")}

	quick, err := engine.SummarizeQuick(context.Background(), chunks)
	if err != nil || quick == "" {
		t.Fatalf("quick backend must be unaffected: %q, %v", quick, err)
	}

	deep, err := engine.SummarizeDeep(context.Background(), chunks)
	if err == nil {
		t.Fatalf("expected deep backend error")
	}
	if deep != "" {
		t.Fatalf("failed backend must return empty summary, got %q", deep)
	}
	if !domain.IsKind(err, domain.ErrSummarization) {
		t.Fatalf("expected summarization kind, got %v", err)
	}
}

func TestSummarizeEmptyChunksIsEmptyInput(t *testing.T) {
	engine := newTestEngine("http://127.0.0.1:1")
	_, err := engine.SummarizeQuick(context.Background(), nil)
	if !domain.IsKind(err, domain.ErrEmptyInput) {
		t.Fatalf("expected empty-input kind, got %v", err)
	}
}

func TestClampWords(t *testing.T) {
	short := "one two three."
	if got := clampWords(short, 10); got != short {
		t.Fatalf("short text must pass through, got %q", got)
	}

	long := "First sentence here. Second sentence goes on and on with many words trailing behind it"
	got := clampWords(long, 6)
	if got != "First sentence here." {
		t.Fatalf("expected cut at sentence boundary, got %q", got)
	}

	noBoundary := "words without any terminal punctuation at all in sight"
	got = clampWords(noBoundary, 4)
	if got != "words without any terminal" {
		t.Fatalf("expected hard cut, got %q", got)
	}
}
