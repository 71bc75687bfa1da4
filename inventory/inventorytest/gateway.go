// Package inventorytest provides an in-memory inventory gateway that
// records every call, for tests of code built on inventory.Service.
package inventorytest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
)

type Call struct {
	Method string
	ID     string
	Params any
}

// Gateway serves Items from memory. Err, when set, is returned by every
// call; ErrOn fails only the named method.
type Gateway struct {
	mu    sync.Mutex
	Items []conductorx.InventoryItem
	Err   error
	ErrOn map[string]error
	Calls []Call

	nextID int
}

func New(items ...conductorx.InventoryItem) *Gateway {
	return &Gateway{Items: items}
}

func (g *Gateway) record(method, id string, params any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls = append(g.Calls, Call{Method: method, ID: id, Params: params})
	if g.Err != nil {
		return g.Err
	}
	return g.ErrOn[method]
}

// Count returns how many times method was called.
func (g *Gateway) Count(method string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Total returns the number of calls of any kind.
func (g *Gateway) Total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Calls)
}

func (g *Gateway) ListInventoryItems(ctx context.Context, params conductorx.ListParams) (*conductorx.ListResponse[conductorx.InventoryItem], error) {
	if err := g.record("ListInventoryItems", "", params); err != nil {
		return nil, err
	}
	data := g.filter(params)
	if params.Limit > 0 && len(data) > params.Limit {
		data = data[:params.Limit]
	}
	return &conductorx.ListResponse[conductorx.InventoryItem]{ObjectType: "list", Data: data}, nil
}

func (g *Gateway) ListAllInventoryItems(ctx context.Context, params conductorx.ListParams) ([]conductorx.InventoryItem, error) {
	if err := g.record("ListAllInventoryItems", "", params); err != nil {
		return nil, err
	}
	return g.filter(params), nil
}

func (g *Gateway) RetrieveInventoryItem(ctx context.Context, id string) (*conductorx.InventoryItem, error) {
	if err := g.record("RetrieveInventoryItem", id, nil); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, it := range g.Items {
		if it.ID == id {
			item := it
			return &item, nil
		}
	}
	return nil, &conductorx.APIError{
		HTTPStatusCode:    404,
		Type:              conductorx.ErrorTypeInvalidRequest,
		Code:              "RESOURCE_MISSING",
		Message:           fmt.Sprintf("no inventory item with id %q", id),
		UserFacingMessage: "That item does not exist in QuickBooks Desktop.",
	}
}

func (g *Gateway) CreateInventoryItem(ctx context.Context, params conductorx.InventoryItemCreateParams) (*conductorx.InventoryItem, error) {
	if err := g.record("CreateInventoryItem", "", params); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	item := conductorx.InventoryItem{
		ID:             fmt.Sprintf("NEW-%d", g.nextID),
		RevisionNumber: "1",
		Name:           params.Name,
		FullName:       params.Name,
		IsActive:       true,
		SKU:            params.SKU,
		SalesPrice:     params.SalesPrice,
		PurchaseCost:   params.PurchaseCost,
		QuantityOnHand: params.QuantityOnHand,
	}
	g.Items = append(g.Items, item)
	return &item, nil
}

func (g *Gateway) UpdateInventoryItem(ctx context.Context, id string, params conductorx.InventoryItemUpdateParams) (*conductorx.InventoryItem, error) {
	if err := g.record("UpdateInventoryItem", id, params); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, it := range g.Items {
		if it.ID != id {
			continue
		}
		if it.RevisionNumber != params.RevisionNumber {
			return nil, &conductorx.APIError{
				HTTPStatusCode: 409,
				Type:           conductorx.ErrorTypeIntegration,
				Code:           "QBD_REVISION_MISMATCH",
				Message:        "revision number out of date",
			}
		}
		if params.Name != nil {
			it.Name = *params.Name
		}
		if params.SKU != nil {
			it.SKU = params.SKU
		}
		if params.SalesPrice != nil {
			it.SalesPrice = params.SalesPrice
		}
		if params.PurchaseCost != nil {
			it.PurchaseCost = params.PurchaseCost
		}
		if params.IsActive != nil {
			it.IsActive = *params.IsActive
		}
		rev, _ := strconv.Atoi(it.RevisionNumber)
		it.RevisionNumber = strconv.Itoa(rev + 1)
		g.Items[i] = it
		return &it, nil
	}
	return nil, &conductorx.APIError{HTTPStatusCode: 404, Type: conductorx.ErrorTypeInvalidRequest, Code: "RESOURCE_MISSING"}
}

func (g *Gateway) CreateInventoryAdjustment(ctx context.Context, params conductorx.InventoryAdjustmentCreateParams) (*conductorx.InventoryAdjustment, error) {
	if err := g.record("CreateInventoryAdjustment", "", params); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	memo := params.Memo
	return &conductorx.InventoryAdjustment{
		ID:              fmt.Sprintf("ADJ-%d", g.nextID),
		TransactionDate: params.TransactionDate,
		Memo:            &memo,
		Account:         &conductorx.AccountRef{ID: params.AccountID},
	}, nil
}

func (g *Gateway) filter(params conductorx.ListParams) []conductorx.InventoryItem {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []conductorx.InventoryItem{}
	for _, it := range g.Items {
		name := strings.ToLower(it.Name)
		if v := strings.ToLower(params.NameContains); v != "" && !strings.Contains(name, v) {
			continue
		}
		if v := strings.ToLower(params.NameStartsWith); v != "" && !strings.HasPrefix(name, v) {
			continue
		}
		if v := strings.ToLower(params.NameEndsWith); v != "" && !strings.HasSuffix(name, v) {
			continue
		}
		out = append(out, it)
	}
	return out
}
