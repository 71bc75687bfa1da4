package inventory

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
	"github.com/tanpawarit/qbd-assistant/pkg/validation"
)

const (
	AdjustmentAccountSetting = "ASSISTANT_ADJUSTMENT_ACCOUNT_ID"
	MaxSearchWindow          = 10
	defaultMemo              = "Quantity adjusted by QuickBooks assistant"
	transactionDateLayout    = "2006-01-02"
)

// Config is loaded with the ASSISTANT prefix.
type Config struct {
	AdjustmentAccountID string `envconfig:"ADJUSTMENT_ACCOUNT_ID" split_words:"true"`
}

// Gateway is the subset of the Conductor client the service drives.
type Gateway interface {
	ListInventoryItems(ctx context.Context, params conductorx.ListParams) (*conductorx.ListResponse[conductorx.InventoryItem], error)
	ListAllInventoryItems(ctx context.Context, params conductorx.ListParams) ([]conductorx.InventoryItem, error)
	RetrieveInventoryItem(ctx context.Context, id string) (*conductorx.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, params conductorx.InventoryItemCreateParams) (*conductorx.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, id string, params conductorx.InventoryItemUpdateParams) (*conductorx.InventoryItem, error)
	CreateInventoryAdjustment(ctx context.Context, params conductorx.InventoryAdjustmentCreateParams) (*conductorx.InventoryAdjustment, error)
}

var _ Gateway = (*conductorx.Client)(nil)

// Service holds the inventory item rules shared by chat and bulk import.
type Service struct {
	gw                  Gateway
	adjustmentAccountID string
	now                 func() time.Time
	log                 zerolog.Logger
}

var _ contractx.Inventory = (*Service)(nil)

func New(gw Gateway, cfg Config) (*Service, error) {
	if gw == nil {
		return nil, errors.New("inventory gateway is required")
	}
	return &Service{
		gw:                  gw,
		adjustmentAccountID: strings.TrimSpace(cfg.AdjustmentAccountID),
		now:                 time.Now,
		log:                 logx.Component("inventory"),
	}, nil
}

func (s *Service) CanAdjustQuantity() bool {
	return s.adjustmentAccountID != ""
}

// FindByName runs a nameContains search capped at MaxSearchWindow records.
func (s *Service) FindByName(ctx context.Context, name string, limit int) ([]conductorx.InventoryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: item name is required", contractx.ErrValidation)
	}
	if limit <= 0 || limit > MaxSearchWindow {
		limit = MaxSearchWindow
	}

	page, err := s.gw.ListInventoryItems(ctx, conductorx.ListParams{
		NameContains: name,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

func (s *Service) Retrieve(ctx context.Context, id string) (*conductorx.InventoryItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: item id is required", contractx.ErrValidation)
	}
	return s.gw.RetrieveInventoryItem(ctx, id)
}

// List forwards filters untouched. An explicit limit fetches one page of
// that size; otherwise every page is fetched.
func (s *Service) List(ctx context.Context, filters contractx.ListFilters) ([]conductorx.InventoryItem, error) {
	if err := validation.Validate(filters); err != nil {
		return nil, err
	}

	params := toListParams(filters)
	if filters.Limit != nil {
		page, err := s.gw.ListInventoryItems(ctx, params)
		if err != nil {
			return nil, err
		}
		return page.Data, nil
	}
	return s.gw.ListAllInventoryItems(ctx, params)
}

func (s *Service) Create(ctx context.Context, fields contractx.ItemFields) (*conductorx.InventoryItem, error) {
	if missing := MissingForCreate(fields); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", contractx.ErrValidation, strings.Join(missing, ", "))
	}
	if err := validation.Validate(fields); err != nil {
		return nil, err
	}

	params := toCreateParams(fields)
	if err := validation.Validate(params); err != nil {
		return nil, err
	}
	return s.gw.CreateInventoryItem(ctx, params)
}

// Update re-reads the item for a fresh revisionNumber and applies fields.
// A quantity change becomes a single-line inventory adjustment dated today;
// when nothing else changes no item update is sent.
func (s *Service) Update(ctx context.Context, id string, fields contractx.ItemFields, memo string) (contractx.UpdateResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return contractx.UpdateResult{}, fmt.Errorf("%w: item id is required", contractx.ErrValidation)
	}
	if err := validation.Validate(fields); err != nil {
		return contractx.UpdateResult{}, err
	}

	quantity := fields.QuantityOnHand
	if quantity != nil && s.adjustmentAccountID == "" {
		return contractx.UpdateResult{}, fmt.Errorf("%w: %s is required to change quantity on hand", contractx.ErrConfigMissing, AdjustmentAccountSetting)
	}

	current, err := s.gw.RetrieveInventoryItem(ctx, id)
	if err != nil {
		return contractx.UpdateResult{}, err
	}
	result := contractx.UpdateResult{Item: current}

	if rest := fields.WithoutQuantity(); !rest.IsEmpty() {
		params := toUpdateParams(rest, current.RevisionNumber)
		if err := validation.Validate(params); err != nil {
			return contractx.UpdateResult{}, err
		}
		updated, err := s.gw.UpdateInventoryItem(ctx, id, params)
		if err != nil {
			return contractx.UpdateResult{}, err
		}
		result.Item = updated
	}

	if quantity != nil {
		if strings.TrimSpace(memo) == "" {
			memo = defaultMemo
		}
		params := conductorx.InventoryAdjustmentCreateParams{
			AccountID:       s.adjustmentAccountID,
			TransactionDate: s.now().Format(transactionDateLayout),
			Memo:            truncate(memo, 4095),
			Lines: []conductorx.InventoryAdjustmentLineParams{
				{ItemID: id, AdjustQuantity: &conductorx.AdjustQuantity{NewQuantity: quantity}},
			},
		}
		adj, err := s.gw.CreateInventoryAdjustment(ctx, params)
		if err != nil {
			return contractx.UpdateResult{}, err
		}
		result.Adjustment = adj

		s.log.Debug().
			Str("item_id", id).
			Float64("new_quantity", *quantity).
			Str("adjustment_id", adj.ID).
			Msg("quantity changed via inventory adjustment")
	}

	return result, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
