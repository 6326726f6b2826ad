package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// rawItem accepts both payload variants the upstream has been observed to
// return: a flat snake_case object and a nested camelCase object where the
// display data lives under "attributes".
type rawItem struct {
	ID          json.RawMessage `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Active      *bool           `json:"active"`

	DisplayName string          `json:"display_name"`
	IsActive    *bool           `json:"is_active"`
	CategoryKey string          `json:"category_key"`
	Attributes  *rawAttributes  `json:"attributes"`
}

type rawAttributes struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Active      *bool  `json:"active"`
}

type rawEnvelope struct {
	Data  []rawItem `json:"data"`
	Items []rawItem `json:"items"`
}

// DecodeItems normalizes an upstream response body into []Item. The upstream
// wraps the list in either {"data": [...]} or {"items": [...]}, or returns a
// bare array.
func DecodeItems(body []byte) ([]Item, error) {
	var list []rawItem
	if err := json.Unmarshal(body, &list); err != nil {
		var env rawEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode catalog payload: %w", err)
		}
		list = env.Data
		if len(list) == 0 {
			list = env.Items
		}
	}

	items := make([]Item, 0, len(list))
	for i, raw := range list {
		item, err := raw.normalize()
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (r rawItem) normalize() (Item, error) {
	id, err := decodeID(r.ID)
	if err != nil {
		return Item{}, err
	}

	item := Item{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Active:      true,
	}
	if r.DisplayName != "" {
		item.Name = r.DisplayName
	}
	if r.CategoryKey != "" {
		item.Category = r.CategoryKey
	}
	if r.Attributes != nil {
		if r.Attributes.Name != "" {
			item.Name = r.Attributes.Name
		}
		if r.Attributes.Description != "" {
			item.Description = r.Attributes.Description
		}
		if r.Attributes.Category != "" {
			item.Category = r.Attributes.Category
		}
		if r.Attributes.Active != nil {
			item.Active = *r.Attributes.Active
		}
	}
	if r.Active != nil {
		item.Active = *r.Active
	}
	if r.IsActive != nil {
		item.Active = *r.IsActive
	}
	if item.Name == "" {
		return Item{}, fmt.Errorf("entry %q has no name", id)
	}
	return item, nil
}

// decodeID accepts both string and numeric identifiers.
func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("entry has no id")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", fmt.Errorf("entry has empty id")
		}
		return s, nil
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10), nil
	}
	return "", fmt.Errorf("entry id %s is neither string nor number", raw)
}
