package resolvernode

import (
	"context"

	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
)

func HandleList(
	ctx context.Context,
	in *GraphState,
	inv contractx.Inventory,
	opts Options,
) (*GraphState, error) {
	if err := checkState(in); err != nil {
		return nil, err
	}

	callCtx, cancel := withTimeout(ctx, opts.CallTimeout)
	defer cancel()
	items, err := inv.List(callCtx, in.Intent.Filters)
	if err != nil {
		return in.fail(opts, err, "list inventory items failed"), nil
	}
	return in.finish(contractx.Outcome{Kind: contractx.OutcomeList, Items: items}), nil
}
