package resolvernode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	"github.com/tanpawarit/qbd-assistant/inventory"
)

// HandleUpdate applies the classified changes to one item. A quantity
// change without a configured adjustment account stops before any remote
// call, including the name search. With nothing to change the freshly
// read record is the result.
func HandleUpdate(
	ctx context.Context,
	in *GraphState,
	inv contractx.Inventory,
	opts Options,
) (*GraphState, error) {
	if err := checkState(in); err != nil {
		return nil, err
	}

	fields := in.Intent.Fields
	if fields.QuantityOnHand != nil && !inv.CanAdjustQuantity() {
		return in.finish(contractx.Outcome{
			Kind:    contractx.OutcomeConfigMissing,
			Setting: inventory.AdjustmentAccountSetting,
		}), nil
	}

	id, ok := resolveTarget(ctx, in, inv, opts)
	if !ok {
		return in, nil
	}

	callCtx, cancel := withTimeout(ctx, opts.CallTimeout)
	defer cancel()
	result, err := inv.Update(callCtx, id, fields, adjustmentMemo(in))
	if err != nil {
		return in.fail(opts, err, "update inventory item failed"), nil
	}
	return in.finish(contractx.Outcome{
		Kind:   contractx.OutcomeSuccess,
		Item:   result.Item,
		Update: &result,
	}), nil
}

func adjustmentMemo(in *GraphState) string {
	return fmt.Sprintf("Chat request %s: %s", in.Ref, in.Text)
}
