package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tanpawarit/qbd-assistant/agent/composer"
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	"github.com/tanpawarit/qbd-assistant/inventory"
	"github.com/tanpawarit/qbd-assistant/inventory/inventorytest"
	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
)

type fakeClassifier struct {
	intent contractx.Intent
	err    error
	block  bool
	calls  int
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (contractx.Intent, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return contractx.Intent{}, fmt.Errorf("%w: %v", contractx.ErrTimeout, ctx.Err())
	}
	return f.intent, f.err
}

type fakePhraser struct {
	calls []contractx.PhraseRequest
}

func (f *fakePhraser) Phrase(ctx context.Context, req contractx.PhraseRequest) (string, error) {
	f.calls = append(f.calls, req)
	if req.Success {
		return "Done: " + req.Operation, nil
	}
	return "Sorry: " + req.Error, nil
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

type fixture struct {
	resolver   *Resolver
	classifier *fakeClassifier
	gateway    *inventorytest.Gateway
	phraser    *fakePhraser
}

func newFixture(t *testing.T, intent contractx.Intent, adjustmentAccount string, items ...conductorx.InventoryItem) *fixture {
	t.Helper()

	gw := inventorytest.New(items...)
	svc, err := inventory.New(gw, inventory.Config{AdjustmentAccountID: adjustmentAccount})
	if err != nil {
		t.Fatalf("inventory.New() error = %v", err)
	}
	classifier := &fakeClassifier{intent: intent}
	phraser := &fakePhraser{}

	r, err := New(classifier, svc, composer.New(phraser), Config{SearchLimit: 10, CallTimeout: time.Second})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	r.newRef = func() string { return "ref-1" }

	return &fixture{resolver: r, classifier: classifier, gateway: gw, phraser: phraser}
}

func catalog() []conductorx.InventoryItem {
	return []conductorx.InventoryItem{
		{ID: "80-1", RevisionNumber: "3", Name: "Widget", SalesPrice: strPtr("12.00")},
		{ID: "80-2", RevisionNumber: "7", Name: "Widget Large", SalesPrice: strPtr("19.50")},
		{ID: "80-3", RevisionNumber: "1", Name: "Gadget"},
	}
}

func TestHandleMessageInvalidInput(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{}, "")

	_, err := f.resolver.HandleMessage(context.Background(), "   ")
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
	if f.classifier.calls != 0 {
		t.Fatalf("classifier called %d times, want 0", f.classifier.calls)
	}
}

func TestCreateMissingAccountsNamesExactlyTheMissing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{
		Operation: contractx.OperationCreate,
		Fields:    contractx.ItemFields{Name: strPtr("Widget"), IncomeAccountID: strPtr("A")},
	}, "")

	reply, err := f.resolver.HandleMessage(context.Background(), "add Widget with income account A")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeMissingFields {
		t.Fatalf("outcome = %s, want missing_fields", reply.Outcome)
	}
	want := []string{"cogsAccountId", "assetAccountId"}
	if strings.Join(reply.Missing, ",") != strings.Join(want, ",") {
		t.Fatalf("missing = %v, want %v", reply.Missing, want)
	}
	if f.gateway.Total() != 0 {
		t.Fatalf("gateway calls = %d, want 0", f.gateway.Total())
	}
	if len(f.phraser.calls) != 0 {
		t.Fatalf("phraser called for a local prompt")
	}
}

func TestCreateComplete(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{
		Operation: contractx.OperationCreate,
		Fields: contractx.ItemFields{
			Name:            strPtr("Widget"),
			IncomeAccountID: strPtr("A"),
			COGSAccountID:   strPtr("B"),
			AssetAccountID:  strPtr("C"),
		},
	}, "")

	reply, err := f.resolver.HandleMessage(context.Background(), "add Widget")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeSuccess || reply.Operation != contractx.OperationCreate {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if reply.Message != "Done: create" {
		t.Fatalf("message = %q", reply.Message)
	}
	if f.gateway.Count("CreateInventoryItem") != 1 {
		t.Fatalf("expected one create call, got %d", f.gateway.Count("CreateInventoryItem"))
	}
}

func TestReadByNameSingleMatchUsesItsID(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{Operation: contractx.OperationRead, ItemName: "gadget"}, "", catalog()...)

	reply, err := f.resolver.HandleMessage(context.Background(), "show gadget")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeSuccess {
		t.Fatalf("outcome = %s, want success", reply.Outcome)
	}

	var retrieved []string
	for _, c := range f.gateway.Calls {
		if c.Method == "RetrieveInventoryItem" {
			retrieved = append(retrieved, c.ID)
		}
	}
	if len(retrieved) != 1 || retrieved[0] != "80-3" {
		t.Fatalf("retrieved ids = %v, want [80-3]", retrieved)
	}
	search := f.gateway.Calls[0].Params.(conductorx.ListParams)
	if search.NameContains != "gadget" || search.Limit != 10 {
		t.Fatalf("unexpected search params: %+v", search)
	}
}

func TestReadByNameMultipleMatchesAsksForID(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{Operation: contractx.OperationRead, ItemName: "widget"}, "", catalog()...)

	reply, err := f.resolver.HandleMessage(context.Background(), "show widget")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeDisambiguation {
		t.Fatalf("outcome = %s, want disambiguation", reply.Outcome)
	}
	if len(reply.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(reply.Candidates))
	}
	for i, c := range reply.Candidates {
		if c.Index != i+1 {
			t.Fatalf("candidate %d index = %d", i, c.Index)
		}
	}
	if !strings.Contains(reply.Message, "1. Widget (ID: 80-1) - $12.00") {
		t.Fatalf("message missing first candidate: %q", reply.Message)
	}
	if f.gateway.Count("RetrieveInventoryItem") != 0 {
		t.Fatalf("retrieve must not run after an ambiguous search")
	}
}

func TestUpdateByNameMultipleMatchesOmitsPrice(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{
		Operation: contractx.OperationUpdate,
		ItemName:  "widget",
		Fields:    contractx.ItemFields{SalesPrice: floatPtr(20)},
	}, "", catalog()...)

	reply, err := f.resolver.HandleMessage(context.Background(), "set widget price to 20")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeDisambiguation {
		t.Fatalf("outcome = %s, want disambiguation", reply.Outcome)
	}
	if strings.Contains(reply.Message, "$") {
		t.Fatalf("update prompt should not show prices: %q", reply.Message)
	}
	if f.gateway.Count("UpdateInventoryItem") != 0 {
		t.Fatalf("update must not run after an ambiguous search")
	}
}

func TestReadByNameNotFoundEchoesTerm(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{Operation: contractx.OperationRead, ItemName: "Sprocket 9"}, "", catalog()...)

	reply, err := f.resolver.HandleMessage(context.Background(), "show Sprocket 9")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeNotFound {
		t.Fatalf("outcome = %s, want not_found", reply.Outcome)
	}
	if !strings.Contains(reply.Message, "Sprocket 9") {
		t.Fatalf("message does not contain search term: %q", reply.Message)
	}
}

func TestReadWithoutReferenceAsksForOne(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{Operation: contractx.OperationRead}, "", catalog()...)

	reply, err := f.resolver.HandleMessage(context.Background(), "show it")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeMissingFields || f.gateway.Total() != 0 {
		t.Fatalf("unexpected reply %+v with %d calls", reply, f.gateway.Total())
	}
}

func TestUpdateQuantityOnlyWithAccount(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{
		Operation: contractx.OperationUpdate,
		ItemID:    "80-3",
		Fields:    contractx.ItemFields{QuantityOnHand: floatPtr(40)},
	}, "ACC-9", catalog()...)

	reply, err := f.resolver.HandleMessage(context.Background(), "we now have 40 gadgets")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeSuccess {
		t.Fatalf("outcome = %s, want success", reply.Outcome)
	}
	if got := f.gateway.Count("CreateInventoryAdjustment"); got != 1 {
		t.Fatalf("adjustment calls = %d, want 1", got)
	}
	if got := f.gateway.Count("UpdateInventoryItem"); got != 0 {
		t.Fatalf("update calls = %d, want 0", got)
	}

	last := f.gateway.Calls[len(f.gateway.Calls)-1]
	params := last.Params.(conductorx.InventoryAdjustmentCreateParams)
	if params.AccountID != "ACC-9" {
		t.Fatalf("account = %q, want ACC-9", params.AccountID)
	}
	if !strings.Contains(params.Memo, "ref-1") || !strings.Contains(params.Memo, "40 gadgets") {
		t.Fatalf("memo does not reference the chat: %q", params.Memo)
	}
	if _, err := time.Parse("2006-01-02", params.TransactionDate); err != nil {
		t.Fatalf("transaction date %q: %v", params.TransactionDate, err)
	}
}

func TestUpdateQuantityOnlyWithoutAccountMakesNoCalls(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{
		Operation: contractx.OperationUpdate,
		ItemName:  "gadget",
		Fields:    contractx.ItemFields{QuantityOnHand: floatPtr(40)},
	}, "", catalog()...)

	reply, err := f.resolver.HandleMessage(context.Background(), "we now have 40 gadgets")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeConfigMissing {
		t.Fatalf("outcome = %s, want config_missing", reply.Outcome)
	}
	if len(reply.Missing) != 1 || reply.Missing[0] != inventory.AdjustmentAccountSetting {
		t.Fatalf("missing = %v", reply.Missing)
	}
	if f.gateway.Total() != 0 {
		t.Fatalf("gateway calls = %d, want 0", f.gateway.Total())
	}
}

func TestUpdateByNameUsesFreshRevision(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{
		Operation: contractx.OperationUpdate,
		ItemName:  "Widget Large",
		Fields:    contractx.ItemFields{SalesPrice: floatPtr(21)},
	}, "", catalog()...)

	reply, err := f.resolver.HandleMessage(context.Background(), "set Widget Large price to 21")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeSuccess {
		t.Fatalf("outcome = %s, want success", reply.Outcome)
	}

	var update conductorx.InventoryItemUpdateParams
	for _, c := range f.gateway.Calls {
		if c.Method == "UpdateInventoryItem" {
			if c.ID != "80-2" {
				t.Fatalf("updated %q, want 80-2", c.ID)
			}
			update = c.Params.(conductorx.InventoryItemUpdateParams)
		}
	}
	if update.RevisionNumber != "7" {
		t.Fatalf("revision = %q, want 7", update.RevisionNumber)
	}
	if update.SalesPrice == nil || *update.SalesPrice != "21.00" {
		t.Fatalf("sales price = %v", update.SalesPrice)
	}
}

func TestUpdateWithoutChangesReturnsCurrentRecord(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{Operation: contractx.OperationUpdate, ItemID: "80-1"}, "", catalog()...)

	reply, err := f.resolver.HandleMessage(context.Background(), "update 80-1")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeSuccess {
		t.Fatalf("outcome = %s, want success", reply.Outcome)
	}
	if got := f.gateway.Count("RetrieveInventoryItem"); got != 1 {
		t.Fatalf("retrieve calls = %d, want 1", got)
	}
	if f.gateway.Count("UpdateInventoryItem") != 0 || f.gateway.Count("CreateInventoryAdjustment") != 0 {
		t.Fatalf("unexpected writes: %+v", f.gateway.Calls)
	}
	update, ok := reply.Data.(*contractx.UpdateResult)
	if !ok || update.Item == nil || update.Item.ID != "80-1" || update.Item.RevisionNumber != "3" {
		t.Fatalf("data = %+v, want the current 80-1 record", reply.Data)
	}
}

func TestGatewayFailureBecomesUnknownError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{Operation: contractx.OperationRead, ItemID: "80-1"}, "", catalog()...)
	f.gateway.Err = &conductorx.APIError{
		HTTPStatusCode:    502,
		Type:              conductorx.ErrorTypeIntegrationConnection,
		Message:           "QBD connection lost",
		UserFacingMessage: "QuickBooks Desktop is not running.",
	}

	reply, err := f.resolver.HandleMessage(context.Background(), "show 80-1")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Operation != contractx.OperationUnknown || reply.Outcome != contractx.OutcomeError {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if reply.Error != "QuickBooks Desktop is not running." {
		t.Fatalf("error = %q", reply.Error)
	}
	if len(f.phraser.calls) != 1 || f.phraser.calls[0].Success {
		t.Fatalf("expected one failure phrasing, got %+v", f.phraser.calls)
	}
}

func TestConflictIsNotRetried(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{
		Operation: contractx.OperationUpdate,
		ItemID:    "80-1",
		Fields:    contractx.ItemFields{Name: strPtr("Widget Small")},
	}, "", catalog()...)
	f.gateway.ErrOn = map[string]error{
		"UpdateInventoryItem": &conductorx.APIError{HTTPStatusCode: 409, Code: "QBD_REVISION_MISMATCH"},
	}

	reply, err := f.resolver.HandleMessage(context.Background(), "rename 80-1 to Widget Small")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeError {
		t.Fatalf("outcome = %s, want error", reply.Outcome)
	}
	if got := f.gateway.Count("UpdateInventoryItem"); got != 1 {
		t.Fatalf("update calls = %d, want 1", got)
	}
}

func TestClassifierFailureSkipsGateway(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{}, "", catalog()...)
	f.classifier.err = fmt.Errorf("%w: missing operation", contractx.ErrSchemaViolation)

	reply, err := f.resolver.HandleMessage(context.Background(), "do the thing")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeError || reply.Operation != contractx.OperationUnknown {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if f.gateway.Total() != 0 {
		t.Fatalf("gateway calls = %d, want 0", f.gateway.Total())
	}
}

func TestClassifierTimeout(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{}, "", catalog()...)
	f.classifier.block = true
	f.resolver.opts.CallTimeout = 20 * time.Millisecond

	reply, err := f.resolver.HandleMessage(context.Background(), "show widget")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeError {
		t.Fatalf("outcome = %s, want error", reply.Outcome)
	}
	if reply.Error != conductorx.UserFacingMessage(contractx.ErrTimeout) {
		t.Fatalf("error = %q", reply.Error)
	}
}

func TestListWithLimitIsOnePage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{
		Operation: contractx.OperationList,
		Filters:   contractx.ListFilters{NameStartsWith: "wid", Status: "active", Limit: intPtr(5)},
	}, "", catalog()...)

	reply, err := f.resolver.HandleMessage(context.Background(), "list 5 active items starting with wid")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeList {
		t.Fatalf("outcome = %s, want list", reply.Outcome)
	}
	if f.gateway.Count("ListInventoryItems") != 1 || f.gateway.Count("ListAllInventoryItems") != 0 {
		t.Fatalf("unexpected calls: %+v", f.gateway.Calls)
	}
	if !strings.HasPrefix(reply.Message, "Found 2 items:") {
		t.Fatalf("message = %q", reply.Message)
	}
	if len(f.phraser.calls) != 0 {
		t.Fatalf("list replies must not be phrased")
	}
}

func TestUnknownReturnsHelp(t *testing.T) {
	t.Parallel()

	f := newFixture(t, contractx.Intent{Operation: contractx.OperationUnknown}, "", catalog()...)

	reply, err := f.resolver.HandleMessage(context.Background(), "what's the weather")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Outcome != contractx.OutcomeUnknown || reply.Message == "" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if f.gateway.Total() != 0 {
		t.Fatalf("gateway calls = %d, want 0", f.gateway.Total())
	}
}

func TestNewCapsSearchLimit(t *testing.T) {
	t.Parallel()

	r, err := New(&fakeClassifier{}, &inventory.Service{}, composer.New(nil), Config{SearchLimit: 50})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if r.opts.SearchLimit != inventory.MaxSearchWindow {
		t.Fatalf("search limit = %d, want %d", r.opts.SearchLimit, inventory.MaxSearchWindow)
	}
}
