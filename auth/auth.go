// Package auth performs the vendor login exchange.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/aluiziolira/selectm/config"
	"github.com/aluiziolira/selectm/session"
)

// LoginPath is the vendor login endpoint.
const LoginPath = "/app_users/login"

// Session is a session whose login state can be recorded.
type Session interface {
	session.Sender
	SetAuthenticated(bool)
}

// Error is a login exchange answered with a non-success status.
type Error struct {
	Status int
}

func (e *Error) Error() string {
	return fmt.Sprintf("login rejected with status %d", e.Status)
}

// LoginForm builds the vendor login form. Field names follow the site's
// framework naming and must not change.
func LoginForm(creds config.Credentials) url.Values {
	form := url.Values{}
	form.Set("_method", "POST")
	form.Set("data[AppUser][email]", creds.Username)
	form.Set("data[AppUser][password]", creds.Password)
	form.Set("data[AppUser][remember_me]", "0")
	return form
}

// Login posts credentials and marks sess authenticated on success.
func Login(ctx context.Context, sess Session, creds config.Credentials) error {
	sess.SetAuthenticated(false)

	resp, err := session.PostForm(ctx, sess, LoginPath, nil, LoginForm(creds))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if !session.IsSuccess(resp.StatusCode) {
		return &Error{Status: resp.StatusCode}
	}

	sess.SetAuthenticated(true)
	slog.Info("logged in", slog.String("user", creds.Username), slog.Int("status", resp.StatusCode))
	return nil
}
