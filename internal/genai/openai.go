package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/conorfennell/hipo/internal/domain"
)

// ErrNoAPIKey is returned when generation is attempted without credentials.
var ErrNoAPIKey = errors.New("openai api key is not set")

// maxInsightSummaries bounds how many note summaries one insight prompt
// carries.
const maxInsightSummaries = 20

const cardSystemPrompt = `You turn a pasted note into flashcard metadata.
Respond with a JSON object holding exactly these fields:
"title": a very short, punchy title for the note (max 5 words).
"summary": a single sentence summary of the core concept.
"keywords": an array of 3 key tags or concepts related to the text.
"question": an active recall question testing understanding of the core concept. Never a yes/no question.`

const insightSystemPrompt = `You summarize a week of saved notes.
Respond with a JSON object holding exactly these fields:
"highlight": one short, memorable sentence worth remembering from the notes.
"suggestion": a one-sentence action item for next week based on the notes.`

// OpenAIGenerator implements Generator against the OpenAI chat API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	apiKey string
}

// NewOpenAI builds a generator for the given model. An empty API key is
// allowed at construction time; calls will fail with ErrNoAPIKey so the rest
// of the tool (reviewing existing cards) keeps working without credentials.
func NewOpenAI(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
		apiKey: apiKey,
	}
}

// CardMetadata distills raw note text into flashcard metadata.
func (g *OpenAIGenerator) CardMetadata(ctx context.Context, text string) (domain.CardMetadata, error) {
	raw, err := g.complete(ctx, cardSystemPrompt,
		fmt.Sprintf("Analyze the following text and extract metadata for a flashcard:\n\n%q", text), 0.3)
	if err != nil {
		return domain.CardMetadata{}, err
	}
	return parseCardMetadata(raw)
}

// WeeklyInsights produces a highlight and a suggestion from the week's note
// summaries.
func (g *OpenAIGenerator) WeeklyInsights(ctx context.Context, summaries []string) (domain.Insights, error) {
	if len(summaries) > maxInsightSummaries {
		summaries = summaries[:maxInsightSummaries]
	}
	combined := strings.Join(summaries, "\n---\n")

	raw, err := g.complete(ctx, insightSystemPrompt,
		fmt.Sprintf("Here are the notes I saved this week. Generate a weekly summary insight:\n\n%s", combined), 0)
	if err != nil {
		return domain.Insights{}, err
	}
	return parseInsights(raw)
}

// complete runs one JSON-mode chat completion and returns the raw content.
func (g *OpenAIGenerator) complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	if g.apiKey == "" {
		return "", ErrNoAPIKey
	}

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("no response content generated")
	}
	return resp.Choices[0].Message.Content, nil
}

// parseCardMetadata decodes and validates a metadata response.
func parseCardMetadata(raw string) (domain.CardMetadata, error) {
	var meta domain.CardMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return domain.CardMetadata{}, fmt.Errorf("failed to decode card metadata: %w", err)
	}
	if meta.Title == "" || meta.Question == "" {
		return domain.CardMetadata{}, errors.New("card metadata is missing a title or question")
	}
	if meta.Keywords == nil {
		meta.Keywords = []string{}
	}
	return meta, nil
}

// parseInsights decodes and validates an insight response.
func parseInsights(raw string) (domain.Insights, error) {
	var ins domain.Insights
	if err := json.Unmarshal([]byte(raw), &ins); err != nil {
		return domain.Insights{}, fmt.Errorf("failed to decode insights: %w", err)
	}
	if ins.Highlight == "" || ins.Suggestion == "" {
		return domain.Insights{}, errors.New("insights are missing a highlight or suggestion")
	}
	return ins, nil
}
