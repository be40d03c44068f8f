// Package inventory indexes scraped products for lookup by id or name.
package inventory

import (
	"errors"

	"github.com/aluiziolira/selectm/models"
)

// ErrNotFound is returned by callers that require a product to exist.
var ErrNotFound = errors.New("inventory: product not found")

// InvalidQueryError is a lookup that names both keys or neither.
type InvalidQueryError struct {
	Query Query
}

func (e *InvalidQueryError) Error() string {
	if e.Query.ItemID == "" && e.Query.DisplayName == "" {
		return "inventory: lookup needs an item id or a display name"
	}
	return "inventory: lookup takes an item id or a display name, not both"
}

// Query selects a product by exactly one key.
type Query struct {
	ItemID      string
	DisplayName string
}

// ByID queries by item id.
func ByID(id string) Query {
	return Query{ItemID: id}
}

// ByName queries by display name.
func ByName(name string) Query {
	return Query{DisplayName: name}
}

// Index maps item ids and display names to products. When the scrape holds
// duplicates the last one seen wins.
type Index struct {
	order  []string
	byID   map[string]models.Product
	byName map[string]models.Product
}

// NewIndex builds an index over products.
func NewIndex(products []models.Product) *Index {
	idx := &Index{
		byID:   make(map[string]models.Product, len(products)),
		byName: make(map[string]models.Product, len(products)),
	}
	for _, p := range products {
		if _, seen := idx.byID[p.ItemID]; !seen {
			idx.order = append(idx.order, p.ItemID)
		}
		idx.byID[p.ItemID] = p
		idx.byName[p.DisplayName] = p
	}
	return idx
}

// Lookup finds the product matching q.
func (idx *Index) Lookup(q Query) (models.Product, bool, error) {
	if (q.ItemID == "") == (q.DisplayName == "") {
		return models.Product{}, false, &InvalidQueryError{Query: q}
	}
	var (
		p  models.Product
		ok bool
	)
	if q.ItemID != "" {
		p, ok = idx.byID[q.ItemID]
	} else {
		p, ok = idx.byName[q.DisplayName]
	}
	return p, ok, nil
}

// MustFind is Lookup that treats a missing product as ErrNotFound.
func (idx *Index) MustFind(q Query) (models.Product, error) {
	p, ok, err := idx.Lookup(q)
	if err != nil {
		return models.Product{}, err
	}
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return p, nil
}

// IsAvailable reports whether itemID exists and is available. Unknown ids
// are unavailable.
func (idx *Index) IsAvailable(itemID string) bool {
	p, ok := idx.byID[itemID]
	return ok && p.Available
}

// Len returns the number of distinct item ids.
func (idx *Index) Len() int {
	return len(idx.byID)
}

// Products returns one product per distinct item id, ordered by first
// sighting and carrying the last seen values.
func (idx *Index) Products() []models.Product {
	out := make([]models.Product, 0, len(idx.order))
	for _, id := range idx.order {
		out = append(out, idx.byID[id])
	}
	return out
}
