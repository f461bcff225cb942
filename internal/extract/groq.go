package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultAPIURL      = "https://api.groq.com/openai/v1/chat/completions"
	defaultTextModel   = "llama-3.3-70b-versatile"
	defaultVisionModel = "meta-llama/llama-4-scout-17b-16e-instruct"

	// maxTextBytes caps how much of a text document goes into the prompt.
	maxTextBytes = 4000
)

const extractionPrompt = `Extract line items and key fields from this invoice as JSON. Categorize items accurately:

{"items":[{"label":"item name","category":"Food/Travel/Utility/Office Supplies/Alcohol/Entertainment/Jewelry/Others","amount":0.0}],"key_fields":{"invoice_number":"","vendor_name":"","amount":0.0,"date":""},"total_amount":0.0}

IMPORTANT: If you see any alcoholic beverages (wine, beer, whiskey, vodka, etc.), categorize as 'Alcohol'. If you see entertainment items (spa, massage, casino, etc.), categorize as 'Entertainment'. If you see luxury items (jewelry, designer brands, etc.), categorize as 'Jewelry'. Return ONLY valid JSON, no markdown, no commentary.`

// GroqExtractor calls an OpenAI-compatible chat-completions endpoint to turn
// document bytes into a typed Extraction. Images go to the vision model as a
// base64 data URL; everything else is sent as text.
type GroqExtractor struct {
	APIURL      string
	APIKey      string
	TextModel   string
	VisionModel string
	Client      *http.Client
}

// NewGroqExtractor creates an extractor with the default Groq endpoint and
// models.
func NewGroqExtractor(apiKey string) *GroqExtractor {
	return &GroqExtractor{
		APIURL:      defaultAPIURL,
		APIKey:      apiKey,
		TextModel:   defaultTextModel,
		VisionModel: defaultVisionModel,
		Client:      &http.Client{Timeout: 30 * time.Second},
	}
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".tiff": true,
}

// Extract implements Extractor.
func (g *GroqExtractor) Extract(ctx context.Context, content []byte, filename string) (*Extraction, error) {
	var model string
	var userContent any

	if imageExtensions[strings.ToLower(filepath.Ext(filename))] {
		model = g.VisionModel
		encoded := base64.StdEncoding.EncodeToString(content)
		userContent = []map[string]any{
			{"type": "text", "text": extractionPrompt},
			{"type": "image_url", "image_url": map[string]string{
				"url": "data:image/jpeg;base64," + encoded,
			}},
		}
	} else {
		model = g.TextModel
		text := string(content)
		if len(text) > maxTextBytes {
			text = text[:maxTextBytes]
		}
		userContent = extractionPrompt + "\n\nDocument:\n" + text
	}

	raw, err := g.ask(ctx, model, userContent)
	if err != nil {
		return nil, err
	}
	return ParseExtraction(raw)
}

func (g *GroqExtractor) ask(ctx context.Context, model string, userContent any) (string, error) {
	body, _ := json.Marshal(map[string]any{
		"model": model,
		"messages": []map[string]any{
			{"role": "user", "content": userContent},
		},
		"max_tokens":  1000,
		"temperature": 0,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("extract: create request: %w", err)
	}
	if g.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("extract: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("extract: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil || len(result.Choices) == 0 {
		return "", fmt.Errorf("extract: empty response")
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
