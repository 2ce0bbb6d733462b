package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nexplan/nexplan-api/internal/models"
)

// DefaultModel is the multimodal model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// GeminiClient calls the Gemini generateContent endpoint with a structured
// response schema and decodes the reply through the strict contract
// decoder.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// GeminiOption customises the client.
type GeminiOption func(*GeminiClient)

// WithModel overrides the model name.
func WithModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at a different endpoint, mainly for tests.
func WithBaseURL(url string) GeminiOption {
	return func(c *GeminiClient) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithTimeout sets the HTTP client timeout. The collaborator owns its own
// timeout policy; the engine never layers another one on top.
func WithTimeout(d time.Duration) GeminiOption {
	return func(c *GeminiClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) GeminiOption {
	return func(c *GeminiClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewGeminiClient constructs a client. The API key is required.
func NewGeminiClient(apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key not configured")
	}
	c := &GeminiClient{
		apiKey:  apiKey,
		model:   DefaultModel,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  map[string]interface{} `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Extract implements Extractor against the Gemini REST API.
func (c *GeminiClient) Extract(ctx context.Context, in Input) (*Result, error) {
	var parts []geminiPart
	if in.Attachment != nil {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MIMEType: in.Attachment.MIMEType,
			Data:     in.Attachment.Base64Data,
		}})
	}
	if in.Text != "" {
		parts = append(parts, geminiPart{Text: in.Text})
	}
	if len(parts) == 0 {
		return nil, errors.New("no content provided")
	}

	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemInstruction(in)}}},
		Contents:          []geminiContent{{Parts: parts}},
		GenerationConfig: map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema":   responseSchema,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, truncate(body, 512))
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("api error: %s", apiResp.Error.Message)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty candidate list", ErrMalformed)
	}

	text := apiResp.Candidates[0].Content.Parts[0].Text
	result, err := DecodeResult([]byte(text))
	if err != nil {
		return nil, err
	}

	c.logger.Debug("extraction completed",
		zap.Int("events", len(result.Events)),
		zap.Int("confidence", result.Judgement.ConfidenceScore),
		zap.Duration("latency", time.Since(started)))
	return result, nil
}

func systemInstruction(in Input) string {
	return fmt.Sprintf(`You are a calendar assistant. Extract calendar events from the user's input (free text and/or attached images or PDFs such as syllabi or schedules).

Current reference date/time: %s
User timezone: %s

Rules:
1. Identify title, start time, end time, location and description for each event.
2. Return a LIST of events; if the attachment contains a schedule, extract every event in it.
3. Categorize each event as 'Business', 'Student', 'Personal' or 'Other'.
4. Assume a duration of 1 hour when none is given.
5. Resolve relative dates ("Tuesday", "next Friday") against the reference date and emit exact ISO 8601 timestamps.
6. Judge your own extraction: report a confidence score, reasoning, whether the input was ambiguous, and remediation suggestions.`,
		in.ReferenceTime.Format(time.RFC3339), in.TimeZone)
}

// responseSchema constrains the model output to the collaborator contract.
var responseSchema = map[string]interface{}{
	"type": "OBJECT",
	"properties": map[string]interface{}{
		"events": map[string]interface{}{
			"type": "ARRAY",
			"items": map[string]interface{}{
				"type": "OBJECT",
				"properties": map[string]interface{}{
					"title":       map[string]interface{}{"type": "STRING"},
					"start":       map[string]interface{}{"type": "STRING", "description": "ISO 8601 timestamp"},
					"end":         map[string]interface{}{"type": "STRING", "description": "ISO 8601 timestamp"},
					"description": map[string]interface{}{"type": "STRING"},
					"location":    map[string]interface{}{"type": "STRING"},
					"category": map[string]interface{}{
						"type": "STRING",
						"enum": []string{
							string(models.CategoryBusiness),
							string(models.CategoryStudent),
							string(models.CategoryPersonal),
							string(models.CategoryOther),
						},
					},
				},
				"required": []string{"title", "start", "end", "category"},
			},
		},
		"judgement": map[string]interface{}{
			"type": "OBJECT",
			"properties": map[string]interface{}{
				"confidenceScore":   map[string]interface{}{"type": "INTEGER"},
				"reasoning":         map[string]interface{}{"type": "STRING"},
				"ambiguityDetected": map[string]interface{}{"type": "BOOLEAN"},
				"suggestions": map[string]interface{}{
					"type":  "ARRAY",
					"items": map[string]interface{}{"type": "STRING"},
				},
			},
			"required": []string{"confidenceScore", "reasoning", "ambiguityDetected"},
		},
	},
	"required": []string{"events", "judgement"},
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
