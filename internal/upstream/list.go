package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ListPage is the paged envelope some list endpoints answer with.
type ListPage[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// GetList fetches a list endpoint that answers either a bare array or a ListPage.
func GetList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, path, query, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw)
}

func decodeList[T any](raw []byte) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}
	var items []T
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
	case '{':
		var p ListPage[T]
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode page: %w", err)
		}
		items = p.Items
	default:
		return nil, fmt.Errorf("decode list: unexpected %q", raw[0])
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
