package classifier

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/intent.json
var intentSchema []byte

type intentOutput struct {
	Operation string                `json:"operation"`
	ItemID    *string               `json:"itemId"`
	ItemName  *string               `json:"itemName"`
	Fields    *contractx.ItemFields `json:"fields"`
	Filters   *filtersOutput        `json:"filters"`
}

type filtersOutput struct {
	NameContains   *string `json:"nameContains"`
	NameStartsWith *string `json:"nameStartsWith"`
	NameEndsWith   *string `json:"nameEndsWith"`
	Status         *string `json:"status"`
	Limit          *int    `json:"limit"`
}

// LLMClassifier asks a chat model for a JSON intent and rejects any reply
// that does not match the embedded schema.
type LLMClassifier struct {
	runner compose.Runnable[map[string]any, intentOutput]
	schema *gojsonschema.Schema
}

var _ contractx.Classifier = (*LLMClassifier)(nil)

func New(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*LLMClassifier, error) {
	if chatModel == nil {
		return nil, errors.New("classifier chat model is required")
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: classifier", contractx.ErrPromptMissing)
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(intentSchema))
	if err != nil {
		return nil, fmt.Errorf("compile intent schema: %w", err)
	}

	c := &LLMClassifier{schema: compiled}
	runner, err := compileClassifierGraph(ctx, chatModel, systemPrompt, c.validateMessage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	c.runner = runner
	return c, nil
}

func (c *LLMClassifier) Classify(ctx context.Context, text string) (contractx.Intent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return contractx.Intent{}, contractx.ErrInvalidMessage
	}

	out, err := c.runner.Invoke(ctx, map[string]any{"input": text})
	if err != nil {
		switch {
		case errors.Is(err, contractx.ErrSchemaViolation):
			return contractx.Intent{}, err
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			return contractx.Intent{}, fmt.Errorf("%w: classifier: %v", contractx.ErrTimeout, err)
		}
		return contractx.Intent{}, fmt.Errorf("%w: classifier invoke: %v", contractx.ErrModelInvoke, err)
	}

	return toIntent(out), nil
}

// validateMessage strips an optional markdown fence and checks the content
// against the intent schema.
func (c *LLMClassifier) validateMessage(msg *schema.Message) (*schema.Message, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: empty classifier response", contractx.ErrSchemaViolation)
	}

	content := stripFence(msg.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty classifier response", contractx.ErrSchemaViolation)
	}

	result, err := c.schema.Validate(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: classifier response is not JSON: %v", contractx.ErrSchemaViolation, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, fmt.Errorf("%w: %s", contractx.ErrSchemaViolation, strings.Join(problems, "; "))
	}

	cleaned := *msg
	cleaned.Content = content
	return &cleaned, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func toIntent(out intentOutput) contractx.Intent {
	intent := contractx.Intent{
		Operation: contractx.OperationKind(strings.TrimSpace(out.Operation)),
		ItemID:    deref(out.ItemID),
		ItemName:  deref(out.ItemName),
	}
	if !intent.Operation.Valid() {
		intent.Operation = contractx.OperationUnknown
	}
	if out.Fields != nil {
		intent.Fields = *out.Fields
	}
	if f := out.Filters; f != nil {
		intent.Filters = contractx.ListFilters{
			NameContains:   deref(f.NameContains),
			NameStartsWith: deref(f.NameStartsWith),
			NameEndsWith:   deref(f.NameEndsWith),
			Status:         deref(f.Status),
			Limit:          f.Limit,
		}
	}
	return intent
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
