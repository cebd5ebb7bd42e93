package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client talks to one Ollama server hosting both summary models. It carries
// no per-request state and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, requestTimeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if requestTimeout <= 0 {
		requestTimeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

// Generate runs one non-streaming completion against the named model.
// maxTokens caps the generation length; zero leaves the model default.
func (c *Client) Generate(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	req := generateRequest{Model: model, Prompt: prompt}
	if maxTokens > 0 {
		req.Options = map[string]any{
			"num_predict": maxTokens,
			"temperature": 0.2,
		}
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", req, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

// Models lists the model tags installed on the server.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	var response struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := c.getJSON(ctx, "/api/tags", &response, "tags"); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(response.Models))
	for _, m := range response.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

// HasModel reports whether the named model appears in the server's tag list.
// An unqualified name matches its ":latest" tag.
func HasModel(models []string, name string) bool {
	for _, m := range models {
		if m == name || m == name+":latest" {
			return true
		}
	}
	return false
}
