package composer

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
	logx "github.com/tanpawarit/qbd-assistant/pkg/logger"
)

// Composer turns outcomes into replies. Lists, prompts and help are
// rendered locally; success and failure go through the phraser.
type Composer struct {
	phraser contractx.Phraser
	log     zerolog.Logger
}

var _ contractx.Composer = (*Composer)(nil)

func New(phraser contractx.Phraser) *Composer {
	return &Composer{
		phraser: phraser,
		log:     logx.Component("composer"),
	}
}

func (c *Composer) Compose(ctx context.Context, out contractx.Outcome) contractx.Reply {
	reply := contractx.Reply{
		Operation: out.Operation,
		Outcome:   out.Kind,
	}

	switch out.Kind {
	case contractx.OutcomeList:
		items := out.Items
		if items == nil {
			items = []conductorx.InventoryItem{}
		}
		reply.Message = renderList(items)
		reply.Data = items
	case contractx.OutcomeDisambiguation:
		reply.Message = renderDisambiguation(out.Operation, out.SearchTerm, out.Candidates)
		reply.Candidates = out.Candidates
	case contractx.OutcomeNotFound:
		reply.Message = renderNotFound(out.SearchTerm)
	case contractx.OutcomeMissingFields:
		reply.Message = renderMissing(out.Operation, out.Missing)
		reply.Missing = out.Missing
	case contractx.OutcomeConfigMissing:
		reply.Message = renderConfigMissing(out.Setting)
		reply.Missing = nonEmpty(out.Setting)
	case contractx.OutcomeSuccess:
		reply.Data = successData(out)
		reply.Message = c.phrase(ctx, contractx.PhraseRequest{
			Operation: string(out.Operation),
			Success:   true,
			Data:      reply.Data,
		})
	case contractx.OutcomeError:
		// Failures are reported to the user as an unknown operation.
		reply.Operation = contractx.OperationUnknown
		reply.Error = userFacing(out.Err)
		reply.Message = c.phrase(ctx, contractx.PhraseRequest{
			Operation: string(contractx.OperationUnknown),
			Success:   false,
			Error:     reply.Error,
		})
	default:
		reply.Operation = contractx.OperationUnknown
		reply.Outcome = contractx.OutcomeUnknown
		reply.Message = helpText
	}

	return reply
}

func (c *Composer) phrase(ctx context.Context, req contractx.PhraseRequest) string {
	if c.phraser != nil {
		text, err := c.phraser.Phrase(ctx, req)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		if err != nil {
			c.log.Warn().Err(err).Str("operation", req.Operation).Msg("phrasing failed, using fallback")
		}
	}
	if req.Success {
		return fallbackSuccess(req.Operation)
	}
	return fallbackFailure(req.Operation, req.Error)
}

func successData(out contractx.Outcome) any {
	switch {
	case out.Update != nil:
		return out.Update
	case out.Item != nil:
		return out.Item
	}
	return nil
}

// userFacing keeps local validation messages, which name the offending
// field, and translates everything else.
func userFacing(err error) string {
	if errors.Is(err, contractx.ErrValidation) {
		return err.Error()
	}
	return conductorx.UserFacingMessage(err)
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
