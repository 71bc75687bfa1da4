package conductor

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusAll      = "all"
)

// ListParams are forwarded as query parameters without local filtering.
type ListParams struct {
	Limit          int    `json:"limit,omitempty" validate:"omitempty,min=1,max=150"`
	Cursor         string `json:"cursor,omitempty" validate:"omitempty,max=256"`
	NameContains   string `json:"nameContains,omitempty" validate:"omitempty,max=100"`
	NameStartsWith string `json:"nameStartsWith,omitempty" validate:"omitempty,max=100"`
	NameEndsWith   string `json:"nameEndsWith,omitempty" validate:"omitempty,max=100"`
	Status         string `json:"status,omitempty" validate:"omitempty,oneof=active inactive all"`
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if v := strings.TrimSpace(p.Cursor); v != "" {
		q.Set("cursor", v)
	}
	if v := strings.TrimSpace(p.NameContains); v != "" {
		q.Set("nameContains", v)
	}
	if v := strings.TrimSpace(p.NameStartsWith); v != "" {
		q.Set("nameStartsWith", v)
	}
	if v := strings.TrimSpace(p.NameEndsWith); v != "" {
		q.Set("nameEndsWith", v)
	}
	if v := strings.TrimSpace(p.Status); v != "" {
		q.Set("status", v)
	}
	return q
}

// ListResponse is one page of a cursor-paginated collection.
type ListResponse[T any] struct {
	ObjectType     string  `json:"objectType"`
	URL            string  `json:"url"`
	Data           []T     `json:"data"`
	NextCursor     *string `json:"nextCursor"`
	RemainingCount *int    `json:"remainingCount,omitempty"`
	HasMore        bool    `json:"hasMore"`
}

// Next returns the cursor of the following page, or "" when exhausted.
func (r *ListResponse[T]) Next() string {
	if r == nil || r.NextCursor == nil {
		return ""
	}
	return strings.TrimSpace(*r.NextCursor)
}

func listPage[T any](ctx context.Context, c *Client, resource string, params ListParams) (*ListResponse[T], error) {
	var out ListResponse[T]
	if err := c.exec(ctx, http.MethodGet, resourcePath(resource), params.values(), nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []T{}
	}
	return &out, nil
}

// listAll follows nextCursor until the API reports none. An error on any
// page fails the whole traversal and nothing accumulated so far is returned.
func listAll[T any](ctx context.Context, c *Client, resource string, params ListParams) ([]T, error) {
	params.Cursor = ""
	all := []T{}
	for {
		page, err := listPage[T](ctx, c, resource, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)

		next := page.Next()
		if next == "" {
			return all, nil
		}
		params.Cursor = next
	}
}

func retrieve[T any](ctx context.Context, c *Client, resource, id string) (*T, error) {
	var out T
	if err := c.exec(ctx, http.MethodGet, resourcePath(resource, id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func create[T any](ctx context.Context, c *Client, resource string, body any) (*T, error) {
	var out T
	if err := c.exec(ctx, http.MethodPost, resourcePath(resource), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func update[T any](ctx context.Context, c *Client, resource, id string, body any) (*T, error) {
	var out T
	if err := c.exec(ctx, http.MethodPost, resourcePath(resource, id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
