package resolvernode

import (
	"context"

	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	"github.com/tanpawarit/qbd-assistant/inventory"
)

// HandleCreate asks for the missing required fields instead of calling out
// when any of them are absent.
func HandleCreate(
	ctx context.Context,
	in *GraphState,
	inv contractx.Inventory,
	opts Options,
) (*GraphState, error) {
	if err := checkState(in); err != nil {
		return nil, err
	}

	fields := in.Intent.Fields
	if missing := inventory.MissingForCreate(fields); len(missing) > 0 {
		return in.finish(contractx.Outcome{
			Kind:    contractx.OutcomeMissingFields,
			Missing: missing,
		}), nil
	}

	callCtx, cancel := withTimeout(ctx, opts.CallTimeout)
	defer cancel()
	item, err := inv.Create(callCtx, fields)
	if err != nil {
		return in.fail(opts, err, "create inventory item failed"), nil
	}
	return in.finish(contractx.Outcome{Kind: contractx.OutcomeSuccess, Item: item}), nil
}
