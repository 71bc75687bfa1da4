package composer

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
)

const helpText = `I can help with QuickBooks inventory items. Try:
- "show Blue Widget" or "show item 80000001-1234567890"
- "list active items starting with bolt"
- "set Blue Widget price to 19.99" or "we now have 40 Blue Widgets"
- "add item Widget with income account A, COGS account B and asset account C"`

func renderList(items []conductorx.InventoryItem) string {
	if len(items) == 0 {
		return "No inventory items matched your filters."
	}

	var b strings.Builder
	noun := "items"
	if len(items) == 1 {
		noun = "item"
	}
	fmt.Fprintf(&b, "Found %d %s:", len(items), noun)
	for i, it := range items {
		fmt.Fprintf(&b, "\n%d. %s", i+1, displayName(it))
		if it.SKU != nil && strings.TrimSpace(*it.SKU) != "" {
			fmt.Fprintf(&b, " (SKU: %s)", strings.TrimSpace(*it.SKU))
		}
		if it.SalesPrice != nil && strings.TrimSpace(*it.SalesPrice) != "" {
			fmt.Fprintf(&b, " - $%s", strings.TrimSpace(*it.SalesPrice))
		}
		if it.QuantityOnHand != nil {
			fmt.Fprintf(&b, " - qty %s", formatQuantity(*it.QuantityOnHand))
		}
		fmt.Fprintf(&b, " [ID: %s]", it.ID)
	}
	return b.String()
}

func renderDisambiguation(op contractx.OperationKind, term string, candidates []contractx.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d items matching %q. Which one did you mean?", len(candidates), term)
	for _, c := range candidates {
		fmt.Fprintf(&b, "\n%d. %s (ID: %s)", c.Index, c.Name, c.ID)
		if op == contractx.OperationRead && c.SalesPrice != nil && strings.TrimSpace(*c.SalesPrice) != "" {
			fmt.Fprintf(&b, " - $%s", strings.TrimSpace(*c.SalesPrice))
		}
	}
	b.WriteString("\nPlease send your request again with the exact item ID.")
	return b.String()
}

func renderNotFound(term string) string {
	return fmt.Sprintf("I couldn't find any inventory item matching %q.", term)
}

func renderMissing(op contractx.OperationKind, missing []string) string {
	switch {
	case op == contractx.OperationCreate:
		return fmt.Sprintf("To create an inventory item I still need: %s. Please include them in your message.", strings.Join(missing, ", "))
	case slices.Contains(missing, contractx.FieldItemReference):
		return "Please tell me which item you mean by giving its ID or exact name."
	}
	return fmt.Sprintf("I still need %s to continue.", strings.Join(missing, ", "))
}

func renderConfigMissing(setting string) string {
	if setting == "" {
		return "The assistant is missing required configuration. Please ask your administrator to check its settings."
	}
	return fmt.Sprintf("This change needs the %s setting, which is not configured. Please ask your administrator to set it.", setting)
}

// Fallbacks used only when the phrasing call fails.
func fallbackSuccess(op string) string {
	return fmt.Sprintf("Successfully performed %s.", op)
}

func fallbackFailure(op, errText string) string {
	return fmt.Sprintf("Failed to perform %s: %s.", op, strings.TrimSuffix(errText, "."))
}

func displayName(it conductorx.InventoryItem) string {
	if v := strings.TrimSpace(it.FullName); v != "" {
		return v
	}
	return it.Name
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
