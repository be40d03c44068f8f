// Package scraper fetches the order listing and turns it into products.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/selectm/models"
	"github.com/aluiziolira/selectm/parser"
	"github.com/aluiziolira/selectm/session"
)

// ListingPath is the page that lists every orderable brand.
const ListingPath = "/orders/create-order"

// WarnNoProducts is reported when the listing holds no product containers,
// which usually means the page markup changed.
const WarnNoProducts = "no product containers found"

// Error is a listing fetch answered with a non-success status.
type Error struct {
	Status int
}

func (e *Error) Error() string {
	return fmt.Sprintf("inventory fetch returned status %d", e.Status)
}

// Scraper fetches inventory through an authenticated session.
type Scraper struct {
	Metrics *session.Metrics
}

// New builds a scraper. metrics may be nil.
func New(metrics *session.Metrics) *Scraper {
	return &Scraper{Metrics: metrics}
}

// FetchInventory is a convenience wrapper without metrics.
func FetchInventory(ctx context.Context, sess session.Sender) (*models.ScrapeResult, error) {
	return New(nil).Fetch(ctx, sess)
}

// Fetch loads the listing and parses every product on it.
func (s *Scraper) Fetch(ctx context.Context, sess session.Sender) (*models.ScrapeResult, error) {
	if err := session.RequireAuth(sess); err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}

	resp, err := session.Get(ctx, sess, ListingPath, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	if !session.IsSuccess(resp.StatusCode) {
		return nil, &Error{Status: resp.StatusCode}
	}

	products, err := parser.ParseProducts(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}

	result := &models.ScrapeResult{
		Products:  products,
		FetchedAt: time.Now(),
	}
	if len(products) == 0 {
		result.Warnings = append(result.Warnings, WarnNoProducts)
		slog.Warn("inventory listing is empty, markup may have changed",
			slog.String("url", resp.URL),
			slog.Int("bytes", len(resp.Body)),
		)
	}
	for _, p := range products {
		if err := parser.ValidateProduct(p); err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			slog.Warn("incomplete product markup", slog.Any("error", err))
		}
	}

	s.Metrics.AddProducts(len(products))
	slog.Info("inventory fetched",
		slog.Int("products", len(products)),
		slog.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}
