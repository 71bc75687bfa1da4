package resolvernode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
)

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func checkState(in *GraphState) error {
	if in == nil {
		return fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	return nil
}

// finish records the outcome; the operation defaults to the classified one.
func (s *GraphState) finish(out contractx.Outcome) *GraphState {
	if out.Operation == "" {
		out.Operation = s.Intent.Operation
	}
	s.Outcome = &out
	return s
}

// fail logs err once, here, and records it as an error outcome.
func (s *GraphState) fail(opts Options, err error, msg string) *GraphState {
	event := opts.Log.Error().
		Err(err).
		Str("ref", s.Ref).
		Str("operation", string(s.Intent.Operation))
	var apiErr *conductorx.APIError
	if errors.As(err, &apiErr) {
		event = event.
			Int("status", apiErr.HTTPStatusCode).
			Str("error_type", apiErr.Type).
			Str("error_code", apiErr.Code).
			Str("remote_request_id", apiErr.RequestID)
	}
	event.Msg(msg)

	if errors.Is(err, contractx.ErrConfigMissing) {
		return s.finish(contractx.Outcome{Kind: contractx.OutcomeConfigMissing, Err: err})
	}
	return s.finish(contractx.Outcome{Kind: contractx.OutcomeError, Err: err})
}

// resolveTarget turns the intent's item reference into an ID. An explicit
// ID is used as given. A name is searched with nameContains: one match is
// used, none or several end the request with a not-found or
// disambiguation outcome. ok is false whenever an outcome was recorded.
func resolveTarget(ctx context.Context, in *GraphState, inv contractx.Inventory, opts Options) (string, bool) {
	if id := strings.TrimSpace(in.Intent.ItemID); id != "" {
		return id, true
	}

	name := strings.TrimSpace(in.Intent.ItemName)
	if name == "" {
		in.finish(contractx.Outcome{
			Kind:    contractx.OutcomeMissingFields,
			Missing: []string{contractx.FieldItemReference},
		})
		return "", false
	}

	callCtx, cancel := withTimeout(ctx, opts.CallTimeout)
	defer cancel()
	matches, err := inv.FindByName(callCtx, name, opts.SearchLimit)
	if err != nil {
		in.fail(opts, err, "item search failed")
		return "", false
	}

	switch len(matches) {
	case 0:
		in.finish(contractx.Outcome{Kind: contractx.OutcomeNotFound, SearchTerm: name})
		return "", false
	case 1:
		return matches[0].ID, true
	}

	candidates := make([]contractx.Candidate, 0, len(matches))
	for i, m := range matches {
		candidates = append(candidates, contractx.Candidate{
			Index:      i + 1,
			ID:         m.ID,
			Name:       candidateName(m),
			SalesPrice: m.SalesPrice,
		})
	}
	in.finish(contractx.Outcome{
		Kind:       contractx.OutcomeDisambiguation,
		SearchTerm: name,
		Candidates: candidates,
	})
	return "", false
}

func candidateName(it conductorx.InventoryItem) string {
	if v := strings.TrimSpace(it.FullName); v != "" {
		return v
	}
	return it.Name
}
