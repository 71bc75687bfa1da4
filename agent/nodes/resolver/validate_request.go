package resolvernode

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
)

// Node names. Route returns one of the handler names or NodeComposeReply.
const (
	NodeValidateRequest = "validate_request"
	NodeClassify        = "classify"
	NodeHandleCreate    = "handle_create"
	NodeHandleRead      = "handle_read"
	NodeHandleUpdate    = "handle_update"
	NodeHandleList      = "handle_list"
	NodeHandleUnknown   = "handle_unknown"
	NodeComposeReply    = "compose_reply"
)

var ErrInvalidMessage = contractx.ErrInvalidMessage

type GraphInput struct {
	Text string
}

type GraphOutput struct {
	Reply contractx.Reply
}

type GraphState struct {
	Text string
	// Ref tags this message in logs and adjustment memos.
	Ref string

	Intent  contractx.Intent
	Outcome *contractx.Outcome
}

// Options carries the per-call limits shared by the handler nodes.
type Options struct {
	SearchLimit int
	CallTimeout time.Duration
	Log         zerolog.Logger
}

func ValidateRequest(in GraphInput, newRef func() string) (*GraphState, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		Text: text,
		Ref:  newRef(),
	}, nil
}
