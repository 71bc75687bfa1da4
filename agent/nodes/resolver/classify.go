package resolvernode

import (
	"context"
	"errors"

	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
)

// Classify fills in.Intent. A classifier failure is a hard failure for the
// message: it becomes an error outcome and no handler runs.
func Classify(
	ctx context.Context,
	in *GraphState,
	classifier contractx.Classifier,
	opts Options,
) (*GraphState, error) {
	if err := checkState(in); err != nil {
		return nil, err
	}

	callCtx, cancel := withTimeout(ctx, opts.CallTimeout)
	defer cancel()

	intent, err := classifier.Classify(callCtx, in.Text)
	if err != nil {
		if errors.Is(err, contractx.ErrInvalidMessage) {
			return nil, err
		}
		in.Intent = contractx.Intent{Operation: contractx.OperationUnknown}
		return in.fail(opts, err, "intent classification failed"), nil
	}

	in.Intent = intent
	opts.Log.Debug().
		Str("ref", in.Ref).
		Str("operation", string(intent.Operation)).
		Bool("by_id", intent.ItemID != "").
		Msg("intent classified")
	return in, nil
}

// Route picks the handler for the classified operation. A state that
// already carries an outcome goes straight to the composer.
func Route(ctx context.Context, in *GraphState) (string, error) {
	if err := checkState(in); err != nil {
		return "", err
	}
	if in.Outcome != nil {
		return NodeComposeReply, nil
	}

	switch in.Intent.Operation {
	case contractx.OperationCreate:
		return NodeHandleCreate, nil
	case contractx.OperationRead:
		return NodeHandleRead, nil
	case contractx.OperationUpdate:
		return NodeHandleUpdate, nil
	case contractx.OperationList:
		return NodeHandleList, nil
	}
	return NodeHandleUnknown, nil
}

// RouteTargets lists every node Route can return.
func RouteTargets() map[string]bool {
	return map[string]bool{
		NodeHandleCreate:  true,
		NodeHandleRead:    true,
		NodeHandleUpdate:  true,
		NodeHandleList:    true,
		NodeHandleUnknown: true,
		NodeComposeReply:  true,
	}
}
