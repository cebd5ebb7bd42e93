package domain

type ExtractionMethod string

const (
	MethodStructured ExtractionMethod = "structured"
	MethodRaw        ExtractionMethod = "raw"
	MethodNone       ExtractionMethod = "none"
)

// Section is one titled span of document text, in reading order.
type Section struct {
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

// ExtractionResult is the tagged outcome of a single extraction attempt.
// A failed attempt carries a diagnostic instead of an error so callers can
// fall through to the next extractor without unwinding.
type ExtractionResult struct {
	Method     ExtractionMethod
	Success    bool
	Title      string
	Authors    []string
	Abstract   string
	Sections   []Section
	Stats      ExtractionStats
	Diagnostic string
}

type ExtractionStats struct {
	Pages      int `json:"pages,omitempty"`
	Characters int `json:"characters"`
	Sections   int `json:"sections"`
}

// Usable reports whether the attempt yielded text worth summarizing.
func (r *ExtractionResult) Usable() bool {
	return r != nil && r.Success && len(r.Sections) > 0
}

// FailedExtraction builds the failure variant for the given method.
func FailedExtraction(method ExtractionMethod, diagnostic string) *ExtractionResult {
	return &ExtractionResult{Method: method, Diagnostic: diagnostic}
}

// Chunk is a model-sized span of cleaned text with its source section.
type Chunk struct {
	Section string `json:"section"`
	Text    string `json:"text"`
	Words   int    `json:"words"`
}

// ChunkSet carries the same cleaned text windowed once per model.
type ChunkSet struct {
	Quick []Chunk
	Deep  []Chunk
}

func (c *ChunkSet) Empty() bool {
	return c == nil || (len(c.Quick) == 0 && len(c.Deep) == 0)
}
