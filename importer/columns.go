package importer

import (
	"strings"
)

type column int

const (
	colAction column = iota
	colItemID
	colName
	colSKU
	colSalesPrice
	colPurchaseCost
	colSalesDescription
	colPurchaseDescription
	colIncomeAccountID
	colCOGSAccountID
	colAssetAccountID
	colQuantityOnHand
	colReorderPoint
	colIsActive
)

// aliases are normalised header names, most specific first.
var aliases = map[column][]string{
	colAction:              {"action", "operation"},
	colItemID:              {"itemid", "id", "listid"},
	colName:                {"name", "itemname", "fullname"},
	colSKU:                 {"sku", "partnumber"},
	colSalesPrice:          {"salesprice", "price", "rate"},
	colPurchaseCost:        {"purchasecost", "cost"},
	colSalesDescription:    {"salesdescription", "description"},
	colPurchaseDescription: {"purchasedescription"},
	colIncomeAccountID:     {"incomeaccountid", "incomeaccount"},
	colCOGSAccountID:       {"cogsaccountid", "cogsaccount", "expenseaccountid"},
	colAssetAccountID:      {"assetaccountid", "assetaccount"},
	colQuantityOnHand:      {"quantityonhand", "quantity", "qty", "qtyonhand"},
	colReorderPoint:        {"reorderpoint"},
	colIsActive:            {"isactive", "active"},
}

// normalizeHeader lower-cases and drops spaces, underscores, hyphens and
// dots, so "Quantity On Hand" and "quantity_on_hand" compare equal.
func normalizeHeader(h string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '.', '\t', '\ufeff':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(h)))
}

// headerIndex maps normalised header text to its column positions.
type headerIndex map[string][]int

func indexHeader(headers []string) headerIndex {
	idx := headerIndex{}
	for i, h := range headers {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		idx[key] = append(idx[key], i)
	}
	return idx
}

// text returns the first non-empty cell among the column's aliases.
func (h headerIndex) text(rec []string, col column) string {
	for _, alias := range aliases[col] {
		for _, i := range h[alias] {
			if i < len(rec) {
				if v := strings.TrimSpace(rec[i]); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

func (h headerIndex) str(rec []string, col column) *string {
	v := h.text(rec, col)
	if v == "" {
		return nil
	}
	return &v
}

func (h headerIndex) number(rec []string, col column) *float64 {
	v, ok := parseNumber(h.text(rec, col))
	if !ok {
		return nil
	}
	return &v
}

func (h headerIndex) boolean(rec []string, col column) *bool {
	v, ok := parseBool(h.text(rec, col))
	if !ok {
		return nil
	}
	return &v
}
