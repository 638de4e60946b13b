package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ProductID accepts both numeric and string identifiers from the catalog API.
type ProductID string

// UnmarshalJSON decodes a JSON string or number into a ProductID
func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	*id = ProductID(n.String())
	return nil
}

// Rating is the aggregate review score of a product
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Review is a single customer review
type Review struct {
	Name    string  `json:"name"`
	Date    string  `json:"date"`
	Comment string  `json:"comment"`
	Rating  float64 `json:"rating"`
}

// Product is a catalog record as served by the remote catalog. It is read-only
// once decoded.
type Product struct {
	ID          ProductID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	Stock       int       `json:"stock"`
	Rating      Rating    `json:"rating"`
	Tags        []string  `json:"tags"`
	Reviews     []Review  `json:"reviews"`
}

// InStock reports whether any units are available
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// Normalize drops duplicate tags while keeping their first-seen order
func (p *Product) Normalize() {
	if len(p.Tags) < 2 {
		return
	}
	seen := make(map[string]struct{}, len(p.Tags))
	tags := p.Tags[:0]
	for _, tag := range p.Tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	p.Tags = tags
}

// ProductPage is one page of products returned by a list query. Total is only
// meaningful when TotalReported is set.
type ProductPage struct {
	Products      []Product
	Total         int
	TotalReported bool
}
