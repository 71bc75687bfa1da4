package inventory

import (
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
)

// MissingForCreate returns the absent members of the create-required set,
// in a fixed order: name, incomeAccountId, cogsAccountId, assetAccountId.
func MissingForCreate(f contractx.ItemFields) []string {
	var missing []string
	if blank(f.Name) {
		missing = append(missing, contractx.FieldName)
	}
	if blank(f.IncomeAccountID) {
		missing = append(missing, contractx.FieldIncomeAccountID)
	}
	if blank(f.COGSAccountID) {
		missing = append(missing, contractx.FieldCOGSAccountID)
	}
	if blank(f.AssetAccountID) {
		missing = append(missing, contractx.FieldAssetAccountID)
	}
	return missing
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// decimal renders an amount the way QuickBooks expects it.
func decimal(v *float64) *string {
	if v == nil {
		return nil
	}
	s := strconv.FormatFloat(*v, 'f', 2, 64)
	return &s
}

func toCreateParams(f contractx.ItemFields) conductorx.InventoryItemCreateParams {
	return conductorx.InventoryItemCreateParams{
		Name:                value(f.Name),
		IsActive:            f.IsActive,
		SKU:                 trimmed(f.SKU),
		SalesDescription:    f.SalesDescription,
		SalesPrice:          decimal(f.SalesPrice),
		PurchaseDescription: f.PurchaseDescription,
		PurchaseCost:        decimal(f.PurchaseCost),
		IncomeAccountID:     value(f.IncomeAccountID),
		COGSAccountID:       value(f.COGSAccountID),
		AssetAccountID:      value(f.AssetAccountID),
		ReorderPoint:        f.ReorderPoint,
		QuantityOnHand:      f.QuantityOnHand,
	}
}

// toUpdateParams never carries quantityOnHand; that goes through an
// inventory adjustment.
func toUpdateParams(f contractx.ItemFields, revision string) conductorx.InventoryItemUpdateParams {
	return conductorx.InventoryItemUpdateParams{
		RevisionNumber:      revision,
		Name:                trimmed(f.Name),
		IsActive:            f.IsActive,
		SKU:                 trimmed(f.SKU),
		SalesDescription:    f.SalesDescription,
		SalesPrice:          decimal(f.SalesPrice),
		PurchaseDescription: f.PurchaseDescription,
		PurchaseCost:        decimal(f.PurchaseCost),
		IncomeAccountID:     trimmed(f.IncomeAccountID),
		COGSAccountID:       trimmed(f.COGSAccountID),
		AssetAccountID:      trimmed(f.AssetAccountID),
		ReorderPoint:        f.ReorderPoint,
	}
}

func toListParams(f contractx.ListFilters) conductorx.ListParams {
	p := conductorx.ListParams{
		NameContains:   f.NameContains,
		NameStartsWith: f.NameStartsWith,
		NameEndsWith:   f.NameEndsWith,
		Status:         f.Status,
	}
	if f.Limit != nil {
		p.Limit = *f.Limit
	}
	return p
}
