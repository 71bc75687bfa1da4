package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	nodex "github.com/tanpawarit/qbd-assistant/agent/nodes/resolver"
	"github.com/tanpawarit/qbd-assistant/inventory"
	logx "github.com/tanpawarit/qbd-assistant/pkg/logger"
)

var ErrInvalidMessage = nodex.ErrInvalidMessage

// Config is loaded with the ASSISTANT prefix.
type Config struct {
	SearchLimit int           `envconfig:"SEARCH_LIMIT" default:"10"`
	CallTimeout time.Duration `envconfig:"CALL_TIMEOUT" default:"30s"`
}

// Resolver runs one chat message through classify, resolve and compose.
type Resolver struct {
	classifier contractx.Classifier
	inventory  contractx.Inventory
	composer   contractx.Composer

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	opts   nodex.Options
	newRef func() string
}

func New(
	classifier contractx.Classifier,
	inv contractx.Inventory,
	composer contractx.Composer,
	cfg Config,
) (*Resolver, error) {
	if classifier == nil {
		return nil, errors.New("intent classifier is required")
	}
	if inv == nil {
		return nil, errors.New("inventory service is required")
	}
	if composer == nil {
		return nil, errors.New("response composer is required")
	}

	searchLimit := cfg.SearchLimit
	if searchLimit <= 0 || searchLimit > inventory.MaxSearchWindow {
		searchLimit = inventory.MaxSearchWindow
	}

	r := &Resolver{
		classifier: classifier,
		inventory:  inv,
		composer:   composer,
		opts: nodex.Options{
			SearchLimit: searchLimit,
			CallTimeout: cfg.CallTimeout,
			Log:         logx.Component("resolver"),
		},
		newRef: func() string { return uuid.NewString() },
	}

	graphRunner, err := r.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	r.graphRunner = graphRunner

	return r, nil
}

// HandleMessage returns an error only for an empty message or a broken
// graph; every other failure comes back as a reply.
func (r *Resolver) HandleMessage(ctx context.Context, text string) (contractx.Reply, error) {
	out, err := r.graphRunner.Invoke(ctx, nodex.GraphInput{Text: text})
	if err != nil {
		if errors.Is(err, ErrInvalidMessage) {
			return contractx.Reply{}, ErrInvalidMessage
		}
		return contractx.Reply{}, err
	}
	return out.Reply, nil
}
