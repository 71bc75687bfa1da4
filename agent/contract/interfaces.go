package contract

import (
	"context"

	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
)

// Classifier turns free text into an Intent. Low-confidence input must
// come back as OperationUnknown rather than a guess.
type Classifier interface {
	Classify(ctx context.Context, text string) (Intent, error)
}

type Phraser interface {
	Phrase(ctx context.Context, req PhraseRequest) (string, error)
}

type Composer interface {
	Compose(ctx context.Context, out Outcome) Reply
}

type Inventory interface {
	FindByName(ctx context.Context, name string, limit int) ([]conductorx.InventoryItem, error)
	Retrieve(ctx context.Context, id string) (*conductorx.InventoryItem, error)
	List(ctx context.Context, filters ListFilters) ([]conductorx.InventoryItem, error)
	Create(ctx context.Context, fields ItemFields) (*conductorx.InventoryItem, error)
	Update(ctx context.Context, id string, fields ItemFields, memo string) (UpdateResult, error)
	// CanAdjustQuantity reports whether quantity changes are configured.
	CanAdjustQuantity() bool
}
