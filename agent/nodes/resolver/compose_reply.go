package resolvernode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
)

func ComposeReply(
	ctx context.Context,
	in *GraphState,
	composer contractx.Composer,
	opts Options,
) (GraphOutput, error) {
	if err := checkState(in); err != nil {
		return GraphOutput{}, err
	}
	if in.Outcome == nil {
		return GraphOutput{}, fmt.Errorf("%w: no outcome to compose", contractx.ErrValidation)
	}

	callCtx, cancel := withTimeout(ctx, opts.CallTimeout)
	defer cancel()
	return GraphOutput{Reply: composer.Compose(callCtx, *in.Outcome)}, nil
}
