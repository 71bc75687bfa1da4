package contract

import (
	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
)

type OperationKind string

const (
	OperationCreate  OperationKind = "create"
	OperationRead    OperationKind = "read"
	OperationUpdate  OperationKind = "update"
	OperationList    OperationKind = "list"
	OperationUnknown OperationKind = "unknown"
)

func (k OperationKind) Valid() bool {
	switch k {
	case OperationCreate, OperationRead, OperationUpdate, OperationList, OperationUnknown:
		return true
	}
	return false
}

// Field names as they appear on the wire and in user-facing prompts.
const (
	FieldName            = "name"
	FieldIncomeAccountID = "incomeAccountId"
	FieldCOGSAccountID   = "cogsAccountId"
	FieldAssetAccountID  = "assetAccountId"
	FieldQuantityOnHand  = "quantityOnHand"

	FieldItemReference = "itemId or itemName"
)

// ItemFields is a sparse partial inventory item. A nil member means the
// field was not supplied.
type ItemFields struct {
	Name                *string  `json:"name,omitempty" validate:"omitempty,min=1,max=31"`
	SKU                 *string  `json:"sku,omitempty" validate:"omitempty,max=31"`
	SalesPrice          *float64 `json:"salesPrice,omitempty" validate:"omitempty,gte=0"`
	PurchaseCost        *float64 `json:"purchaseCost,omitempty" validate:"omitempty,gte=0"`
	SalesDescription    *string  `json:"salesDescription,omitempty" validate:"omitempty,max=4095"`
	PurchaseDescription *string  `json:"purchaseDescription,omitempty" validate:"omitempty,max=4095"`
	IncomeAccountID     *string  `json:"incomeAccountId,omitempty" validate:"omitempty,min=1,max=64"`
	COGSAccountID       *string  `json:"cogsAccountId,omitempty" validate:"omitempty,min=1,max=64"`
	AssetAccountID      *string  `json:"assetAccountId,omitempty" validate:"omitempty,min=1,max=64"`
	QuantityOnHand      *float64 `json:"quantityOnHand,omitempty" validate:"omitempty,gte=0"`
	ReorderPoint        *float64 `json:"reorderPoint,omitempty" validate:"omitempty,gte=0"`
	IsActive            *bool    `json:"isActive,omitempty"`
}

// WithoutQuantity returns a copy with QuantityOnHand cleared.
func (f ItemFields) WithoutQuantity() ItemFields {
	f.QuantityOnHand = nil
	return f
}

func (f ItemFields) IsEmpty() bool {
	return f == ItemFields{}
}

type ListFilters struct {
	NameContains   string `json:"nameContains,omitempty" validate:"omitempty,max=100"`
	NameStartsWith string `json:"nameStartsWith,omitempty" validate:"omitempty,max=100"`
	NameEndsWith   string `json:"nameEndsWith,omitempty" validate:"omitempty,max=100"`
	Status         string `json:"status,omitempty" validate:"omitempty,oneof=active inactive all"`
	Limit          *int   `json:"limit,omitempty" validate:"omitempty,min=1,max=150"`
}

type Intent struct {
	Operation OperationKind `json:"operation"`
	ItemID    string        `json:"itemId,omitempty"`
	ItemName  string        `json:"itemName,omitempty"`
	Fields    ItemFields    `json:"fields"`
	Filters   ListFilters   `json:"filters"`
}

type OutcomeKind string

const (
	OutcomeSuccess        OutcomeKind = "success"
	OutcomeList           OutcomeKind = "list"
	OutcomeDisambiguation OutcomeKind = "disambiguation"
	OutcomeNotFound       OutcomeKind = "not_found"
	OutcomeMissingFields  OutcomeKind = "missing_fields"
	OutcomeConfigMissing  OutcomeKind = "config_missing"
	OutcomeUnknown        OutcomeKind = "unknown"
	OutcomeError          OutcomeKind = "error"
)

// Candidate is one entry of a disambiguation prompt. Index is 1-based.
type Candidate struct {
	Index      int     `json:"index"`
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	SalesPrice *string `json:"salesPrice,omitempty"`
}

type UpdateResult struct {
	Item       *conductorx.InventoryItem       `json:"item,omitempty"`
	Adjustment *conductorx.InventoryAdjustment `json:"adjustment,omitempty"`
}

// Outcome is what the resolver hands to the composer.
type Outcome struct {
	Kind       OutcomeKind
	Operation  OperationKind
	SearchTerm string
	Item       *conductorx.InventoryItem
	Items      []conductorx.InventoryItem
	Update     *UpdateResult
	Candidates []Candidate
	Missing    []string
	Setting    string
	Err        error
}

type Reply struct {
	Operation  OperationKind `json:"operation"`
	Outcome    OutcomeKind   `json:"outcome"`
	Message    string        `json:"message"`
	Data       any           `json:"data,omitempty"`
	Candidates []Candidate   `json:"candidates,omitempty"`
	Missing    []string      `json:"missing,omitempty"`
	Error      string        `json:"error,omitempty"`
}

type PhraseRequest struct {
	Operation string `json:"operation"`
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
}
