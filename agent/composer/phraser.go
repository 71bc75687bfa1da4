package composer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
)

// OpenAIPhraser asks a chat completion endpoint for a short reply.
type OpenAIPhraser struct {
	client      *openaisdk.Client
	model       string
	instruction string
	maxTokens   int64
	temperature float64
}

var _ contractx.Phraser = (*OpenAIPhraser)(nil)

type PhraserConfig struct {
	Model       string
	Instruction string
	MaxTokens   int
	Temperature float32
}

func NewOpenAIPhraser(client *openaisdk.Client, cfg PhraserConfig) (*OpenAIPhraser, error) {
	if client == nil {
		return nil, errors.New("phraser client is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("%w: phraser model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(cfg.Instruction) == "" {
		return nil, fmt.Errorf("%w: composer", contractx.ErrPromptMissing)
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 200
	}
	return &OpenAIPhraser{
		client:      client,
		model:       strings.TrimSpace(cfg.Model),
		instruction: strings.TrimSpace(cfg.Instruction),
		maxTokens:   int64(maxTokens),
		temperature: float64(cfg.Temperature),
	}, nil
}

func (p *OpenAIPhraser) Phrase(ctx context.Context, req contractx.PhraseRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: marshal phrase request: %v", contractx.ErrValidation, err)
	}

	resp, err := p.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(p.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(p.instruction),
			openaisdk.UserMessage(string(payload)),
		},
		MaxCompletionTokens: openaisdk.Int(p.maxTokens),
		Temperature:         openaisdk.Float(p.temperature),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("%w: phraser: %v", contractx.ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: phraser: %v", contractx.ErrModelInvoke, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: phraser returned no choices", contractx.ErrSchemaViolation)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: phraser returned empty text", contractx.ErrSchemaViolation)
	}
	return text, nil
}
