// Package parser extracts products from the vendor's order listing markup.
package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/selectm/models"
)

const (
	containerSelector = "div.brands div.row > div"
	headingSelector   = "h1, h2, h3, h4, h5, h6"
	itemIDSelector    = "input[type=hidden]"
	soldOutSelector   = "button.disabled, button[disabled]"
)

// ParseProducts returns one product per listing container, in document order.
func ParseProducts(r io.Reader) ([]models.Product, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	containers := doc.Find(containerSelector)
	products := make([]models.Product, 0, containers.Length())
	containers.Each(func(_ int, s *goquery.Selection) {
		products = append(products, extractProduct(s))
	})
	return products, nil
}

func extractProduct(s *goquery.Selection) models.Product {
	return models.Product{
		ItemID:      strings.TrimSpace(s.Find(itemIDSelector).First().AttrOr("value", "")),
		FamilyID:    FamilyIDFromClass(s.AttrOr("class", "")),
		DisplayName: NormalizeName(s.Find(headingSelector).First().Text()),
		Available:   availableFromMarkup(s),
	}
}

// availableFromMarkup treats a product as available unless the sold-out
// button is actually located. Missing or reshaped markup therefore reads
// as available.
func availableFromMarkup(s *goquery.Selection) bool {
	return s.Find(soldOutSelector).Length() == 0
}

// FamilyIDFromClass returns the trailing "-" segment of the last class in
// a class attribute, e.g. "col-md-4 brand family-12" gives "12".
func FamilyIDFromClass(class string) string {
	fields := strings.Fields(class)
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	if i := strings.LastIndex(last, "-"); i >= 0 {
		return last[i+1:]
	}
	return last
}

// NormalizeName collapses whitespace in a display name.
func NormalizeName(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ValidateProduct reports fields the listing markup failed to provide.
func ValidateProduct(p models.Product) error {
	if strings.TrimSpace(p.ItemID) == "" {
		return fmt.Errorf("product %q missing item id", p.DisplayName)
	}
	if strings.TrimSpace(p.FamilyID) == "" {
		return fmt.Errorf("product %s missing family id", p.ItemID)
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		return fmt.Errorf("product %s missing display name", p.ItemID)
	}
	return nil
}
