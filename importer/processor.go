package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
	logx "github.com/tanpawarit/qbd-assistant/pkg/logger"
)

const statusAll = "all"

type RowSuccess struct {
	Row    int    `json:"row"`
	Action Action `json:"action"`
	ItemID string `json:"itemId"`
	Name   string `json:"name,omitempty"`
}

// BatchResult reports one entry per non-blank data row, in either
// Successes or Errors.
type BatchResult struct {
	Total      int          `json:"total"`
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	Created    int          `json:"created"`
	Updated    int          `json:"updated"`
	Successes  []RowSuccess `json:"successes"`
	Errors     []RowError   `json:"errors"`
}

// Processor runs parsed rows one at a time; a failed row never stops the
// batch.
type Processor struct {
	inv         contractx.Inventory
	callTimeout time.Duration
	log         zerolog.Logger
}

func NewProcessor(inv contractx.Inventory, callTimeout time.Duration) (*Processor, error) {
	if inv == nil {
		return nil, errors.New("inventory service is required")
	}
	return &Processor{
		inv:         inv,
		callTimeout: callTimeout,
		log:         logx.Component("importer"),
	}, nil
}

func (p *Processor) Process(ctx context.Context, parsed *ParseResult) BatchResult {
	res := BatchResult{Successes: []RowSuccess{}, Errors: []RowError{}}
	if parsed == nil {
		return res
	}
	res.Total = parsed.Total
	res.Errors = append(res.Errors, parsed.Errors...)

	for _, row := range parsed.Rows {
		if err := ctx.Err(); err != nil {
			res.Errors = append(res.Errors, RowError{Row: row.Number, Error: "import cancelled before this row ran"})
			continue
		}

		item, err := p.processRow(ctx, row)
		if err != nil {
			p.log.Error().
				Err(err).
				Int("row", row.Number).
				Str("action", string(row.Action)).
				Msg("import row failed")
			res.Errors = append(res.Errors, RowError{Row: row.Number, Error: rowMessage(err)})
			continue
		}

		res.Successes = append(res.Successes, RowSuccess{
			Row:    row.Number,
			Action: row.Action,
			ItemID: item.ID,
			Name:   item.Name,
		})
		if row.Action == ActionCreate {
			res.Created++
		} else {
			res.Updated++
		}
	}

	res.Successful = len(res.Successes)
	res.Failed = len(res.Errors)
	p.log.Info().
		Int("total", res.Total).
		Int("successful", res.Successful).
		Int("failed", res.Failed).
		Msg("import finished")
	return res
}

func (p *Processor) processRow(ctx context.Context, row Row) (*conductorx.InventoryItem, error) {
	callCtx, cancel := p.withTimeout(ctx)
	defer cancel()

	if row.Action == ActionCreate {
		return p.inv.Create(callCtx, row.Fields)
	}

	id := row.ItemID
	fields := row.Fields
	if id == "" {
		found, err := p.findExact(callCtx, *fields.Name)
		if err != nil {
			return nil, err
		}
		id = found
		// The name was the lookup key, not a rename.
		fields.Name = nil
	}
	if fields.IsEmpty() {
		return nil, fmt.Errorf("%w: row has no fields to update", contractx.ErrValidation)
	}

	result, err := p.inv.Update(callCtx, id, fields, fmt.Sprintf("Bulk import row %d", row.Number))
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return &conductorx.InventoryItem{ID: id}, nil
	}
	return result.Item, nil
}

// findExact requires exactly one case-insensitive exact name match. Every
// page of the nameContains search is read, active or not.
func (p *Processor) findExact(ctx context.Context, name string) (string, error) {
	matches, err := p.inv.List(ctx, contractx.ListFilters{NameContains: name, Status: statusAll})
	if err != nil {
		return "", err
	}

	var ids []string
	for _, m := range matches {
		if strings.EqualFold(m.Name, name) || strings.EqualFold(m.FullName, name) {
			ids = append(ids, m.ID)
		}
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: no inventory item named %q", contractx.ErrValidation, name)
	case 1:
		return ids[0], nil
	}
	return "", fmt.Errorf("%w: %d inventory items are named %q, use the item id instead", contractx.ErrValidation, len(ids), name)
}

func (p *Processor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.callTimeout)
}

func rowMessage(err error) string {
	if errors.Is(err, contractx.ErrValidation) {
		return err.Error()
	}
	return conductorx.UserFacingMessage(err)
}
