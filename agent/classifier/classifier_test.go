package classifier

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
)

type fakeChatModel struct {
	content string
	err     error
	inputs  [][]*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.content}, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func newTestClassifier(t *testing.T, fake *fakeChatModel) *LLMClassifier {
	t.Helper()

	c, err := New(context.Background(), fake, "classify inventory messages")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestClassifyUpdateByName(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{content: `{"operation":"update","itemName":"Blue Widget","fields":{"salesPrice":19.99,"quantityOnHand":40}}`}
	c := newTestClassifier(t, fake)

	intent, err := c.Classify(context.Background(), "set blue widget price to 19.99 and we have 40 now")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if intent.Operation != contractx.OperationUpdate {
		t.Fatalf("operation = %q, want update", intent.Operation)
	}
	if intent.ItemName != "Blue Widget" {
		t.Fatalf("itemName = %q", intent.ItemName)
	}
	if intent.Fields.SalesPrice == nil || *intent.Fields.SalesPrice != 19.99 {
		t.Fatalf("salesPrice = %v", intent.Fields.SalesPrice)
	}
	if intent.Fields.QuantityOnHand == nil || *intent.Fields.QuantityOnHand != 40 {
		t.Fatalf("quantityOnHand = %v", intent.Fields.QuantityOnHand)
	}

	last := fake.inputs[0][len(fake.inputs[0])-1]
	if last.Content != "set blue widget price to 19.99 and we have 40 now" {
		t.Fatalf("user message = %q", last.Content)
	}
}

func TestClassifyListFiltersInsideFence(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{content: "```json\n{\"operation\":\"list\",\"filters\":{\"nameStartsWith\":\"bolt\",\"status\":\"active\",\"limit\":5}}\n```"}
	c := newTestClassifier(t, fake)

	intent, err := c.Classify(context.Background(), "first five active items starting with bolt")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if intent.Operation != contractx.OperationList {
		t.Fatalf("operation = %q, want list", intent.Operation)
	}
	if intent.Filters.NameStartsWith != "bolt" || intent.Filters.Status != "active" {
		t.Fatalf("unexpected filters: %#v", intent.Filters)
	}
	if intent.Filters.Limit == nil || *intent.Filters.Limit != 5 {
		t.Fatalf("limit = %v, want 5", intent.Filters.Limit)
	}
}

func TestClassifySchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown operation", content: `{"operation":"delete"}`},
		{name: "extra top-level key", content: `{"operation":"read","confidence":0.3}`},
		{name: "missing references key", content: `{"operation":"create","missingReferences":["cogsAccountId"]}`},
		{name: "undeclared field", content: `{"operation":"update","fields":{"color":"blue"}}`},
		{name: "string price", content: `{"operation":"create","fields":{"salesPrice":"cheap"}}`},
		{name: "not json", content: `sure, I can help with that`},
		{name: "empty", content: ``},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClassifier(t, &fakeChatModel{content: tc.content})
			_, err := c.Classify(context.Background(), "do something")
			if !errors.Is(err, contractx.ErrSchemaViolation) {
				t.Fatalf("Classify() error = %v, want ErrSchemaViolation", err)
			}
			if errors.Is(err, contractx.ErrModelInvoke) {
				t.Fatalf("Classify() error = %v, schema violation reported as model failure", err)
			}
		})
	}
}

func TestClassifyModelFailure(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, &fakeChatModel{err: errors.New("502 from provider")})
	_, err := c.Classify(context.Background(), "list items")
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("Classify() error = %v, want ErrModelInvoke", err)
	}
}

func TestClassifyEmptyText(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{content: `{"operation":"unknown"}`}
	c := newTestClassifier(t, fake)

	_, err := c.Classify(context.Background(), "   ")
	if !errors.Is(err, contractx.ErrInvalidMessage) {
		t.Fatalf("Classify() error = %v, want ErrInvalidMessage", err)
	}
	if len(fake.inputs) != 0 {
		t.Fatalf("model called %d times, want 0", len(fake.inputs))
	}
}

func TestClassifyTextWithBraces(t *testing.T) {
	t.Parallel()

	c := newTestClassifier(t, &fakeChatModel{content: `{"operation":"unknown"}`})
	intent, err := c.Classify(context.Background(), "what does {name} mean?")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if intent.Operation != contractx.OperationUnknown {
		t.Fatalf("operation = %q, want unknown", intent.Operation)
	}
}
