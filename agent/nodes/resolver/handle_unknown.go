package resolvernode

import (
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
)

func HandleUnknown(in *GraphState) (*GraphState, error) {
	if err := checkState(in); err != nil {
		return nil, err
	}
	return in.finish(contractx.Outcome{
		Kind:      contractx.OutcomeUnknown,
		Operation: contractx.OperationUnknown,
	}), nil
}
