package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/tanpawarit/qbd-assistant/inventory"
	"github.com/tanpawarit/qbd-assistant/inventory/inventorytest"
	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
)

func newTestProcessor(t *testing.T, gw *inventorytest.Gateway) *Processor {
	t.Helper()

	svc, err := inventory.New(gw, inventory.Config{AdjustmentAccountID: "ADJ-ACC"})
	if err != nil {
		t.Fatalf("inventory.New() error = %v", err)
	}
	p, err := NewProcessor(svc, 0)
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}
	return p
}

func parseCSV(t *testing.T, lines ...string) *ParseResult {
	t.Helper()

	res, err := Parse(csvFile(lines...), "batch.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return res
}

func TestProcessIsolatesInvalidRow(t *testing.T) {
	t.Parallel()

	gw := inventorytest.New(conductorx.InventoryItem{ID: "80-1", RevisionNumber: "2", Name: "Widget"})
	p := newTestProcessor(t, gw)

	parsed := parseCSV(t,
		"Action,ItemId,Name,IncomeAccountId,CogsAccountId,AssetAccountId,Price",
		"create,,Bolt,A,B,C,1.5",
		"create,,Nut,A,,C,0.5",
		"update,80-1,,,,,9.99",
		"create,,Washer,A,B,C,0.1",
		"update,,widget,,,,10",
	)

	res := p.Process(context.Background(), parsed)
	if res.Total != 5 || res.Successful != 4 || res.Failed != 1 {
		t.Fatalf("total/successful/failed = %d/%d/%d, want 5/4/1", res.Total, res.Successful, res.Failed)
	}
	if res.Created != 2 || res.Updated != 2 {
		t.Fatalf("created/updated = %d/%d, want 2/2", res.Created, res.Updated)
	}

	count := 0
	for _, e := range res.Errors {
		if e.Row == 3 {
			count++
		}
	}
	if count != 1 || len(res.Errors) != 1 {
		t.Fatalf("errors = %+v, want row 3 exactly once", res.Errors)
	}
	if !strings.Contains(res.Errors[0].Error, "cogsAccountId") {
		t.Fatalf("error should name the missing field: %q", res.Errors[0].Error)
	}
}

func TestProcessUpdateByNameNeedsOneExactMatch(t *testing.T) {
	t.Parallel()

	gw := inventorytest.New(
		conductorx.InventoryItem{ID: "80-1", RevisionNumber: "1", Name: "Widget"},
		conductorx.InventoryItem{ID: "80-2", RevisionNumber: "1", Name: "Widget Large"},
		conductorx.InventoryItem{ID: "80-3", RevisionNumber: "1", Name: "Bolt"},
		conductorx.InventoryItem{ID: "80-4", RevisionNumber: "1", Name: "BOLT"},
	)
	p := newTestProcessor(t, gw)

	parsed := parseCSV(t,
		"Action,Name,Price",
		"update,WIDGET,5",
		"update,bolt,5",
		"update,Sprocket,5",
	)

	res := p.Process(context.Background(), parsed)
	if res.Successful != 1 || res.Successes[0].ItemID != "80-1" {
		t.Fatalf("successes = %+v, want only 80-1", res.Successes)
	}
	if res.Failed != 2 || res.Errors[0].Row != 3 || res.Errors[1].Row != 4 {
		t.Fatalf("errors = %+v", res.Errors)
	}

	for _, c := range gw.Calls {
		if c.Method != "UpdateInventoryItem" {
			continue
		}
		params := c.Params.(conductorx.InventoryItemUpdateParams)
		if params.Name != nil {
			t.Fatalf("lookup name must not be sent as a rename: %q", *params.Name)
		}
	}
}

func TestProcessUpdateByNameLooksPastSearchWindow(t *testing.T) {
	t.Parallel()

	var items []conductorx.InventoryItem
	for i := 0; i < 12; i++ {
		items = append(items, conductorx.InventoryItem{
			ID:             fmt.Sprintf("80-%d", i),
			RevisionNumber: "1",
			Name:           fmt.Sprintf("Bolt M%d", i),
		})
	}
	items = append(items, conductorx.InventoryItem{ID: "80-99", RevisionNumber: "1", Name: "Bolt"})
	gw := inventorytest.New(items...)
	p := newTestProcessor(t, gw)

	res := p.Process(context.Background(), parseCSV(t, "Action,Name,Price", "update,Bolt,5"))
	if res.Successful != 1 || res.Successes[0].ItemID != "80-99" {
		t.Fatalf("successes = %+v errors = %+v, want 80-99", res.Successes, res.Errors)
	}

	for _, c := range gw.Calls {
		if c.Method == "ListInventoryItems" {
			t.Fatalf("lookup must read every page, got a single-page search: %+v", c.Params)
		}
		if c.Method == "ListAllInventoryItems" {
			params := c.Params.(conductorx.ListParams)
			if params.NameContains != "Bolt" || params.Status != "all" {
				t.Fatalf("list params = %+v", params)
			}
		}
	}
}

func TestProcessQuantityGoesThroughAdjustment(t *testing.T) {
	t.Parallel()

	gw := inventorytest.New(conductorx.InventoryItem{ID: "80-1", RevisionNumber: "1", Name: "Widget"})
	p := newTestProcessor(t, gw)

	res := p.Process(context.Background(), parseCSV(t, "Action,ItemId,Quantity", "update,80-1,25"))
	if res.Successful != 1 {
		t.Fatalf("errors = %+v", res.Errors)
	}
	if gw.Count("CreateInventoryAdjustment") != 1 || gw.Count("UpdateInventoryItem") != 0 {
		t.Fatalf("unexpected calls: %+v", gw.Calls)
	}

	var memo string
	for _, c := range gw.Calls {
		if c.Method == "CreateInventoryAdjustment" {
			memo = c.Params.(conductorx.InventoryAdjustmentCreateParams).Memo
		}
	}
	if memo != "Bulk import row 2" {
		t.Fatalf("memo = %q", memo)
	}
}

func TestProcessRemoteFailureIsPerRow(t *testing.T) {
	t.Parallel()

	gw := inventorytest.New()
	gw.ErrOn = map[string]error{
		"CreateInventoryItem": &conductorx.APIError{
			HTTPStatusCode:    400,
			Type:              conductorx.ErrorTypeIntegration,
			Message:           "There is an invalid reference to QuickBooks Account",
			UserFacingMessage: "The account you chose does not exist.",
		},
	}
	p := newTestProcessor(t, gw)

	res := p.Process(context.Background(), parseCSV(t,
		"Action,Name,IncomeAccountId,CogsAccountId,AssetAccountId",
		"create,Bolt,A,B,C",
		"create,Nut,A,B,C",
	))
	if res.Failed != 2 || res.Successful != 0 {
		t.Fatalf("failed/successful = %d/%d", res.Failed, res.Successful)
	}
	if res.Errors[0].Error != "The account you chose does not exist." {
		t.Fatalf("error = %q", res.Errors[0].Error)
	}
	if gw.Count("CreateInventoryItem") != 2 {
		t.Fatalf("each row must be attempted")
	}
}

func TestProcessCancelledContext(t *testing.T) {
	t.Parallel()

	gw := inventorytest.New()
	p := newTestProcessor(t, gw)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := p.Process(ctx, parseCSV(t,
		"Action,Name,IncomeAccountId,CogsAccountId,AssetAccountId",
		"create,Bolt,A,B,C",
	))
	if res.Failed != 1 || gw.Total() != 0 {
		t.Fatalf("failed = %d calls = %d", res.Failed, gw.Total())
	}
}
