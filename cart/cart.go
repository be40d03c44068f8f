// Package cart adds a selected product to the vendor cart.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aluiziolira/selectm/models"
	"github.com/aluiziolira/selectm/session"
)

// SelectPath is the endpoint that records a brand selection.
const SelectPath = "/orders/selected-brands"

// ErrCart matches every cart failure.
var ErrCart = errors.New("cart: add failed")

// HTTPFailure is a cart request answered with a non-success status.
type HTTPFailure struct {
	Status int
}

func (e *HTTPFailure) Error() string {
	return fmt.Sprintf("cart: http status %d", e.Status)
}

func (e *HTTPFailure) Is(target error) bool {
	return target == ErrCart
}

// ApplicationFailure is a cart request the site accepted at the HTTP level
// but did not confirm.
type ApplicationFailure struct {
	Reason string
	Err    error
}

func (e *ApplicationFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cart: %s: %v", e.Reason, e.Err)
	}
	return "cart: " + e.Reason
}

func (e *ApplicationFailure) Unwrap() error {
	return e.Err
}

func (e *ApplicationFailure) Is(target error) bool {
	return target == ErrCart
}

type envelope struct {
	SuccessMessages []string `json:"successMessages"`
}

// Form builds the selection form for p.
func Form(p models.Product, barrels int) url.Values {
	form := url.Values{}
	form.Set("brandId", p.ItemID)
	form.Set("brandFamilyId", p.FamilyID)
	form.Set("numBarrels", strconv.Itoa(barrels))
	return form
}

// AddToCart selects barrels of p and validates the site's JSON envelope.
func AddToCart(ctx context.Context, sess session.Sender, p models.Product, barrels int) error {
	if err := session.RequireAuth(sess); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}

	header := http.Header{}
	header.Set("X-Requested-With", "XMLHttpRequest")
	header.Set("Accept", "application/json, text/javascript, */*; q=0.01")

	resp, err := session.PostForm(ctx, sess, SelectPath, header, Form(p, barrels))
	if err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	if !session.IsSuccess(resp.StatusCode) {
		return &HTTPFailure{Status: resp.StatusCode}
	}

	var body envelope
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &ApplicationFailure{Reason: "successMessages is not a list of strings", Err: err}
		}
		return &ApplicationFailure{Reason: "response is not json", Err: err}
	}
	if len(body.SuccessMessages) == 0 {
		return &ApplicationFailure{Reason: "no success messages in response"}
	}

	slog.Info("added to cart",
		slog.String("item_id", p.ItemID),
		slog.String("name", p.DisplayName),
		slog.Int("barrels", barrels),
		slog.String("message", body.SuccessMessages[0]),
	)
	return nil
}
