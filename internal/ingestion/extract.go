package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ErrMalformedResponse indicates the model returned output that could not be
// parsed as a JSON array of FAQ pairs. The caller may retry, models often
// produce valid output on a second attempt.
var ErrMalformedResponse = errors.New("ingestion: model response is not a valid FAQ array")

// extractionPrompt instructs the model to produce strict JSON. The page text
// is appended after the prompt.
const extractionPrompt = `You are building a university FAQ knowledge base.
Read the following web page text and extract every useful question-answer
pair a student or parent might ask about. Focus on admissions, courses, fees,
hostels, facilities, placements, contacts, and administration.

Respond with ONLY a valid JSON array. Each element must be an object with
exactly two string keys: "question" and "answer". Do not include any prose,
markdown, or explanation outside the JSON array. If the page contains no
useful information, respond with an empty array: []

Page text:
`

// QA is a question-answer pair as extracted from a page.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Extractor turns raw page text into FAQ pairs using a chat model.
type Extractor struct {
	// chatModel is the LLM backend constructed by the provider factory.
	chatModel model.BaseChatModel
}

// NewExtractor constructs an Extractor around the given chat model.
func NewExtractor(chatModel model.BaseChatModel) (*Extractor, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("ingestion: chat model must not be nil")
	}
	return &Extractor{chatModel: chatModel}, nil
}

// Extract sends the page text to the model and parses the returned FAQ
// array. A response that cannot be parsed yields ErrMalformedResponse.
func (e *Extractor) Extract(ctx context.Context, pageText string) ([]QA, error) {
	if strings.TrimSpace(pageText) == "" {
		return nil, nil
	}

	messages := []*schema.Message{
		schema.UserMessage(extractionPrompt + pageText),
	}

	resp, err := e.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("ingestion: extraction request failed: %w", err)
	}

	pairs, err := ParseFAQArray(resp.Content)
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

// ParseFAQArray parses a model response into FAQ pairs. Models often wrap
// JSON in markdown code fences, so those are stripped first. Pairs with an
// empty question or answer are dropped.
func ParseFAQArray(raw string) ([]QA, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	var pairs []QA
	if err := json.Unmarshal([]byte(cleaned), &pairs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	out := pairs[:0]
	for _, p := range pairs {
		p.Question = strings.TrimSpace(p.Question)
		p.Answer = strings.TrimSpace(p.Answer)
		if p.Question == "" || p.Answer == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// stripCodeFence removes a surrounding markdown code fence (``` or ```json)
// from the response, if present, and trims whitespace.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// rateLimitFragments are substrings that identify quota or rate-limit errors
// across the supported providers.
var rateLimitFragments = []string{
	"429",
	"rate limit",
	"ratelimit",
	"quota",
	"resource exhausted",
	"resource_exhausted",
	"too many requests",
	"overloaded",
}

// IsRetryable reports whether an extraction failure is worth retrying.
// Rate-limit and quota errors clear after a backoff wait, and malformed
// responses are usually corrected on a fresh generation.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMalformedResponse) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range rateLimitFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
