package client

import (
	"context"
	"net/http"
	"time"
)

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	var resp authResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users/register", body: req}, &resp); err != nil {
		return nil, err
	}
	return c.signedIn(EventSignedIn, resp)
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var resp authResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users/login", body: body}, &resp); err != nil {
		return nil, err
	}
	return c.signedIn(EventSignedIn, resp)
}

// Refresh exchanges the stored refresh token for a new pair. A rejected
// refresh token ends the session.
func (c *Client) Refresh(ctx context.Context) (*Session, error) {
	session := c.currentSession()
	if session == nil || session.RefreshToken == "" {
		return nil, ErrNotSignedIn
	}

	body := map[string]string{"refresh_token": session.RefreshToken}

	var resp authResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users/refresh", body: body}, &resp); err != nil {
		if IsUnauthorized(err) {
			_ = c.setSession(nil)
			c.emit(EventSignedOut, nil)
		}
		return nil, err
	}
	return c.signedIn(EventTokenRefreshed, resp)
}

// Logout always clears the local session; the server call is best effort
func (c *Client) Logout(ctx context.Context) error {
	session := c.currentSession()

	var serverErr error
	if session != nil {
		body := map[string]string{"refresh_token": session.RefreshToken}
		serverErr = c.do(ctx, request{method: http.MethodPost, path: "/users/logout", body: body}, nil)
	}

	if err := c.setSession(nil); err != nil {
		return err
	}
	c.emit(EventSignedOut, nil)
	return serverErr
}

// Me fetches the signed-in user from the server
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/me", auth: true}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) signedIn(eventType AuthEventType, resp authResponse) (*Session, error) {
	session := &Session{
		User:         resp.User,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if resp.ExpiresIn > 0 {
		session.ExpiresAt = c.now().Add(time.Duration(resp.ExpiresIn) * time.Second).UTC()
	}

	if err := c.setSession(session); err != nil {
		return nil, err
	}
	c.emit(eventType, session)
	return c.currentSession(), nil
}
