// Package extract turns raw dashboard text into structured fields, first
// through the Gemini text-generation service and, when that fails or is
// not configured, through deterministic regex patterns.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ArtOfDelight/ONfinal/internal/types"
)

// MaxPromptChars bounds the raw text embedded in a prompt, respecting the
// upstream request-size limit.
const MaxPromptChars = 6000

// GeminiConfig configures the text-extraction service.
type GeminiConfig struct {
	Endpoint    string // default https://generativelanguage.googleapis.com
	Model       string // e.g. "gemini-1.5-flash"
	APIKey      string
	Temperature float64
}

// GeminiClient calls the generateContent endpoint.
type GeminiClient struct {
	cfg    GeminiConfig
	client *http.Client
	logger *slog.Logger
}

// NewGeminiClient creates a Gemini client. An empty API key produces a
// client whose Available() is false; callers then use the regex fallback
// directly.
func NewGeminiClient(cfg GeminiConfig, logger *slog.Logger) *GeminiClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://generativelanguage.googleapis.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	return &GeminiClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger.With("component", "gemini_client"),
	}
}

// Available reports whether the service is configured.
func (c *GeminiClient) Available() bool { return c != nil && c.cfg.APIKey != "" }

// Generate sends a prompt and returns the raw response text. The response
// is untrusted; callers strip code fences before parsing JSON.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Available() {
		return "", &types.ExtractionError{Err: fmt.Errorf("gemini not configured")}
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature": c.cfg.Temperature,
		},
	}

	body, _ := json.Marshal(payload)
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.cfg.Endpoint, c.cfg.Model, c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &types.ExtractionError{Err: fmt.Errorf("gemini request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &types.ExtractionError{Err: fmt.Errorf("gemini status %d", resp.StatusCode)}
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &types.ExtractionError{Err: fmt.Errorf("decode gemini response: %w", err)}
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", &types.ExtractionError{Err: fmt.Errorf("no candidates in gemini response")}
	}
	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}

// GenerateJSON sends a prompt expected to yield a JSON object and decodes
// it into a string map. List values are joined with ", "; everything else
// is stringified.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (map[string]string, error) {
	raw, err := c.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(CleanJSON(raw)), &decoded); err != nil {
		return nil, &types.ExtractionError{Err: fmt.Errorf("unparsable gemini JSON: %w", err)}
	}

	out := make(map[string]string, len(decoded))
	for k, v := range decoded {
		out[k] = flatten(v)
	}
	return out, nil
}

func flatten(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = flatten(item)
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	case float64:
		b, _ := json.Marshal(val)
		return string(b)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

// CleanJSON strips optional markdown code fences and isolates the first
// balanced JSON object from an LLM response.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	if start < 0 {
		return "{}"
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return "{}"
}

// Truncate caps text at MaxPromptChars.
func Truncate(text string) string {
	if len(text) > MaxPromptChars {
		return text[:MaxPromptChars]
	}
	return text
}
