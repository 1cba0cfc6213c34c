// Package product defines the Product record exchanged with the products API.
package product

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
)

// Product is the only resource managed by the console.
// Fields the server stores beyond the four known ones are kept in Extra and written back
// unchanged, so a replace never drops data the console does not know about.
type Product struct {
	ID          string
	Name        string
	Price       *float64
	Description string
	Extra       map[string]json.RawMessage
}

// PriceOf returns a pointer to v, for building products in code and tests.
func PriceOf(v float64) *float64 {
	return &v
}

// MarshalJSON writes id, name and description, price when set, and every extra field.
func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+4)
	for k, v := range p.Extra {
		out[k] = v
	}
	if p.ID != "" {
		out["id"] = p.ID
	}
	out["name"] = p.Name
	if p.Price != nil {
		out["price"] = *p.Price
	}
	out["description"] = p.Description
	return json.Marshal(out)
}

// UnmarshalJSON accepts ids as JSON strings or numbers and a null or missing price.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var decoded Product

	if v, ok := raw["id"]; ok {
		id, err := decodeID(v)
		if err != nil {
			return err
		}
		decoded.ID = id
		delete(raw, "id")
	}
	if v, ok := raw["name"]; ok {
		if err := decodeOptionalString(v, &decoded.Name); err != nil {
			return fmt.Errorf("invalid name: %w", err)
		}
		delete(raw, "name")
	}
	if v, ok := raw["description"]; ok {
		if err := decodeOptionalString(v, &decoded.Description); err != nil {
			return fmt.Errorf("invalid description: %w", err)
		}
		delete(raw, "description")
	}
	if v, ok := raw["price"]; ok {
		if !isNull(v) {
			var price float64
			if err := json.Unmarshal(v, &price); err != nil {
				return fmt.Errorf("invalid price: %w", err)
			}
			decoded.Price = &price
		}
		delete(raw, "price")
	}
	if len(raw) > 0 {
		decoded.Extra = raw
	}
	*p = decoded
	return nil
}

// Clone returns a deep copy, so merged records never share Extra with their source.
func (p Product) Clone() Product {
	c := p
	if p.Price != nil {
		c.Price = PriceOf(*p.Price)
	}
	if p.Extra != nil {
		c.Extra = maps.Clone(p.Extra)
	}
	return c
}

func decodeID(v json.RawMessage) (string, error) {
	if isNull(v) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("invalid id %s: %w", string(v), err)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

func decodeOptionalString(v json.RawMessage, dst *string) error {
	if isNull(v) {
		return nil
	}
	return json.Unmarshal(v, dst)
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}
