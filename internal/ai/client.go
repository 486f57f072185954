// Package ai wraps the OpenAI API as the optional high-quality
// structuring and entity-extraction delegate. Every failure is returned
// as an error so the caller can take the deterministic fallback branch
// explicitly; nothing in this package ever falls back on its own.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cloo-solutions/vigilai/internal/domain"
)

// DefaultChatModel is the model used for briefing structuring and NER.
const DefaultChatModel = openai.GPT4oMini

var (
	// ErrEmptyResponse is returned when the API yields no choices
	ErrEmptyResponse = errors.New("no completion choices returned")
)

// ChatAPI defines the narrow chat-completion surface used by the client
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client is the AI delegate for briefing structuring and entity
// extraction.
type Client struct {
	api   ChatAPI
	model string
}

// NewClient creates a delegate backed by the OpenAI API
func NewClient(apiKey string) *Client {
	return &Client{
		api:   openai.NewClient(apiKey),
		model: DefaultChatModel,
	}
}

// NewClientWithAPI creates a delegate with an explicit API implementation (for testing)
func NewClientWithAPI(api ChatAPI, model string) *Client {
	if model == "" {
		model = DefaultChatModel
	}
	return &Client{api: api, model: model}
}

const structurePrompt = `You are a manufacturing shift handoff analyst. Parse this raw shift briefing into structured JSON.

Raw briefing:
"""%s"""

Return valid JSON with this exact structure:
{
  "summary": "1-2 sentence overview of the entire briefing",
  "items": [
    {
      "id": 1,
      "machine_id": "Machine or line name mentioned",
      "category": "safety|maintenance|quality|production|general",
      "severity": "critical|warning|info",
      "title": "Short descriptive title",
      "details": "Full details of this item",
      "action_required": "What the incoming shift needs to do"
    }
  ],
  "machines_mentioned": ["list of all machine/line IDs"],
  "recurring_patterns": ["any patterns suggesting recurring issues"]
}

Rules:
- Every distinct issue gets its own item
- Use "critical" for safety hazards and dangerous conditions
- Use "warning" for equipment problems and quality issues
- Use "info" for production updates and general notes
- Extract specific machine IDs from the text
- Return ONLY valid JSON, no markdown`

const extractPrompt = `You are a manufacturing Named Entity Recognition (NER) system. Extract entities from this shift briefing text.

Text:
"""%s"""

Extract three types of entities:
1. **machines** - Equipment, machines, production lines, stations (e.g. "Line 3 Conveyor", "Machine 7", "QA Station", "Pump A-12")
2. **parts** - Components, parts, subsystems (e.g. "bearing", "conveyor belt", "feed mechanism", "packaging station")
3. **failure_modes** - Problems, symptoms, defects, hazards (e.g. "grinding noise", "temperature spike", "oil slick", "jam", "vibration")

Return valid JSON:
{
  "machines": [
    { "text": "Machine 7", "type": "machine" }
  ],
  "parts": [
    { "text": "bearing", "type": "part" }
  ],
  "failure_modes": [
    { "text": "grinding noise", "type": "failure_mode" }
  ]
}

Rules:
- Extract the exact text as it appears (or normalized to a clean form)
- Deduplicate - each unique entity only once
- Include ALL entities, even minor ones
- Return ONLY valid JSON, no markdown`

// Structure asks the model to parse a raw briefing into a structured
// document. Any API failure or malformed response is returned as an
// error for the caller to handle.
func (c *Client) Structure(ctx context.Context, rawText string) (*domain.StructuredBriefing, error) {
	content, err := c.complete(ctx, fmt.Sprintf(structurePrompt, rawText))
	if err != nil {
		return nil, fmt.Errorf("structure briefing: %w", err)
	}

	var structured domain.StructuredBriefing
	if err := json.Unmarshal([]byte(stripFences(content)), &structured); err != nil {
		return nil, fmt.Errorf("structure briefing: invalid JSON response: %w", err)
	}
	return &structured, nil
}

// ExtractEntities asks the model for machine, part and failure-mode
// entities in the raw briefing text.
func (c *Client) ExtractEntities(ctx context.Context, rawText string) (*domain.EntitySet, error) {
	content, err := c.complete(ctx, fmt.Sprintf(extractPrompt, rawText))
	if err != nil {
		return nil, fmt.Errorf("extract entities: %w", err)
	}

	var entities domain.EntitySet
	if err := json.Unmarshal([]byte(stripFences(content)), &entities); err != nil {
		return nil, fmt.Errorf("extract entities: invalid JSON response: %w", err)
	}
	return &entities, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// stripFences removes a surrounding markdown code fence if the model
// wrapped its JSON despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if _, rest, found := strings.Cut(s, "\n"); found {
			s = rest
		}
	}
	if strings.HasSuffix(s, "```") {
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
