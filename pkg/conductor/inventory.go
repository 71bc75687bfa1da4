package conductor

import "context"

const (
	resourceInventoryItems       = "inventory-items"
	resourceInventoryAdjustments = "inventory-adjustments"
)

// AccountRef is a reference to a QuickBooks account or other list object.
type AccountRef struct {
	ID       string `json:"id"`
	FullName string `json:"fullName,omitempty"`
}

// InventoryItem mirrors the API record. Decimal amounts are strings as
// returned by QuickBooks.
type InventoryItem struct {
	ID                  string      `json:"id"`
	ObjectType          string      `json:"objectType,omitempty"`
	CreatedAt           string      `json:"createdAt,omitempty"`
	UpdatedAt           string      `json:"updatedAt,omitempty"`
	RevisionNumber      string      `json:"revisionNumber"`
	Name                string      `json:"name"`
	FullName            string      `json:"fullName,omitempty"`
	IsActive            bool        `json:"isActive"`
	SKU                 *string     `json:"sku,omitempty"`
	SalesDescription    *string     `json:"salesDescription,omitempty"`
	SalesPrice          *string     `json:"salesPrice,omitempty"`
	PurchaseDescription *string     `json:"purchaseDescription,omitempty"`
	PurchaseCost        *string     `json:"purchaseCost,omitempty"`
	IncomeAccount       *AccountRef `json:"incomeAccount,omitempty"`
	COGSAccount         *AccountRef `json:"cogsAccount,omitempty"`
	AssetAccount        *AccountRef `json:"assetAccount,omitempty"`
	ReorderPoint        *float64    `json:"reorderPoint,omitempty"`
	QuantityOnHand      *float64    `json:"quantityOnHand,omitempty"`
	AverageCost         *string     `json:"averageCost,omitempty"`
}

type InventoryItemCreateParams struct {
	Name                string   `json:"name" validate:"required,max=31"`
	IsActive            *bool    `json:"isActive,omitempty"`
	SKU                 *string  `json:"sku,omitempty" validate:"omitempty,max=31"`
	SalesDescription    *string  `json:"salesDescription,omitempty" validate:"omitempty,max=4095"`
	SalesPrice          *string  `json:"salesPrice,omitempty" validate:"omitempty,numeric"`
	PurchaseDescription *string  `json:"purchaseDescription,omitempty" validate:"omitempty,max=4095"`
	PurchaseCost        *string  `json:"purchaseCost,omitempty" validate:"omitempty,numeric"`
	IncomeAccountID     string   `json:"incomeAccountId" validate:"required,max=64"`
	COGSAccountID       string   `json:"cogsAccountId" validate:"required,max=64"`
	AssetAccountID      string   `json:"assetAccountId" validate:"required,max=64"`
	ReorderPoint        *float64 `json:"reorderPoint,omitempty" validate:"omitempty,gte=0"`
	QuantityOnHand      *float64 `json:"quantityOnHand,omitempty" validate:"omitempty,gte=0"`
}

// InventoryItemUpdateParams carries the revision observed at the most recent
// read. Quantity on hand cannot be changed here; use an inventory adjustment.
type InventoryItemUpdateParams struct {
	RevisionNumber      string   `json:"revisionNumber" validate:"required"`
	Name                *string  `json:"name,omitempty" validate:"omitempty,min=1,max=31"`
	IsActive            *bool    `json:"isActive,omitempty"`
	SKU                 *string  `json:"sku,omitempty" validate:"omitempty,max=31"`
	SalesDescription    *string  `json:"salesDescription,omitempty" validate:"omitempty,max=4095"`
	SalesPrice          *string  `json:"salesPrice,omitempty" validate:"omitempty,numeric"`
	PurchaseDescription *string  `json:"purchaseDescription,omitempty" validate:"omitempty,max=4095"`
	PurchaseCost        *string  `json:"purchaseCost,omitempty" validate:"omitempty,numeric"`
	IncomeAccountID     *string  `json:"incomeAccountId,omitempty" validate:"omitempty,max=64"`
	COGSAccountID       *string  `json:"cogsAccountId,omitempty" validate:"omitempty,max=64"`
	AssetAccountID      *string  `json:"assetAccountId,omitempty" validate:"omitempty,max=64"`
	ReorderPoint        *float64 `json:"reorderPoint,omitempty" validate:"omitempty,gte=0"`
}

// AdjustQuantity sets either the absolute new quantity or a delta.
type AdjustQuantity struct {
	NewQuantity        *float64 `json:"newQuantity,omitempty"`
	QuantityDifference *float64 `json:"quantityDifference,omitempty"`
}

type InventoryAdjustmentLineParams struct {
	ItemID         string          `json:"itemId" validate:"required"`
	AdjustQuantity *AdjustQuantity `json:"adjustQuantity,omitempty"`
}

type InventoryAdjustmentCreateParams struct {
	AccountID       string                          `json:"accountId" validate:"required"`
	TransactionDate string                          `json:"transactionDate" validate:"required,datetime=2006-01-02"`
	Memo            string                          `json:"memo,omitempty" validate:"omitempty,max=4095"`
	Lines           []InventoryAdjustmentLineParams `json:"lines" validate:"required,min=1,dive"`
}

type InventoryAdjustmentLine struct {
	ID                 string      `json:"id"`
	Item               *AccountRef `json:"item,omitempty"`
	QuantityDifference *float64    `json:"quantityDifference,omitempty"`
}

type InventoryAdjustment struct {
	ID              string                    `json:"id"`
	ObjectType      string                    `json:"objectType,omitempty"`
	RevisionNumber  string                    `json:"revisionNumber,omitempty"`
	TransactionDate string                    `json:"transactionDate"`
	RefNumber       *string                   `json:"refNumber,omitempty"`
	Memo            *string                   `json:"memo,omitempty"`
	Account         *AccountRef               `json:"account,omitempty"`
	Lines           []InventoryAdjustmentLine `json:"lines,omitempty"`
}

func (c *Client) ListInventoryItems(ctx context.Context, params ListParams) (*ListResponse[InventoryItem], error) {
	return listPage[InventoryItem](ctx, c, resourceInventoryItems, params)
}

func (c *Client) ListAllInventoryItems(ctx context.Context, params ListParams) ([]InventoryItem, error) {
	return listAll[InventoryItem](ctx, c, resourceInventoryItems, params)
}

func (c *Client) RetrieveInventoryItem(ctx context.Context, id string) (*InventoryItem, error) {
	return retrieve[InventoryItem](ctx, c, resourceInventoryItems, id)
}

func (c *Client) CreateInventoryItem(ctx context.Context, params InventoryItemCreateParams) (*InventoryItem, error) {
	return create[InventoryItem](ctx, c, resourceInventoryItems, params)
}

func (c *Client) UpdateInventoryItem(ctx context.Context, id string, params InventoryItemUpdateParams) (*InventoryItem, error) {
	return update[InventoryItem](ctx, c, resourceInventoryItems, id, params)
}

func (c *Client) CreateInventoryAdjustment(ctx context.Context, params InventoryAdjustmentCreateParams) (*InventoryAdjustment, error) {
	return create[InventoryAdjustment](ctx, c, resourceInventoryAdjustments, params)
}
