package resolvernode

import (
	"context"

	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
)

func HandleRead(
	ctx context.Context,
	in *GraphState,
	inv contractx.Inventory,
	opts Options,
) (*GraphState, error) {
	if err := checkState(in); err != nil {
		return nil, err
	}

	id, ok := resolveTarget(ctx, in, inv, opts)
	if !ok {
		return in, nil
	}

	callCtx, cancel := withTimeout(ctx, opts.CallTimeout)
	defer cancel()
	item, err := inv.Retrieve(callCtx, id)
	if err != nil {
		return in.fail(opts, err, "retrieve inventory item failed"), nil
	}
	return in.finish(contractx.Outcome{Kind: contractx.OutcomeSuccess, Item: item}), nil
}
