package client

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/" + url.PathEscape(userID), auth: true}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile saves the changes. Updating your own profile refreshes the
// cached user and emits EventUserUpdated.
func (c *Client) UpdateProfile(ctx context.Context, userID string, req ProfileUpdate) (*Profile, error) {
	var profile Profile
	path := "/users/" + url.PathEscape(userID)
	if err := c.do(ctx, request{method: http.MethodPut, path: path, body: req, auth: true}, &profile); err != nil {
		return nil, err
	}

	if session := c.currentSession(); session != nil && session.User.ID == profile.UserID {
		session.User.FirstName = profile.FirstName
		session.User.LastName = profile.LastName
		session.User.Role = profile.Role
		if err := c.setSession(session); err != nil {
			return nil, err
		}
		c.emit(EventUserUpdated, session)
	}
	return &profile, nil
}
