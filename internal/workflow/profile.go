package workflow

import (
	"context"
	"strings"

	"skybook/pkg/client"
)

type ProfileAPI interface {
	GetProfile(ctx context.Context, userID string) (*client.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req client.ProfileUpdate) (*client.Profile, error)
}

// ProfilePage shows and edits the signed-in user's name
type ProfilePage struct {
	api     ProfileAPI
	session SessionState
	Profile *client.Profile
}

func NewProfilePage(api ProfileAPI, session SessionState) *ProfilePage {
	return &ProfilePage{api: api, session: session}
}

func (p *ProfilePage) Load(ctx context.Context) Outcome {
	state := p.session.Snapshot()
	if !state.IsAuthenticated() {
		return Outcome{Redirect: RouteLogin}
	}

	profile, err := p.api.GetProfile(ctx, state.User.ID)
	if err != nil {
		return failure("Error", "Failed to load profile. Please try again.")
	}
	p.Profile = profile
	return Outcome{}
}

// Update saves a new first and last name; blank values are left unchanged
func (p *ProfilePage) Update(ctx context.Context, firstName, lastName string) Outcome {
	state := p.session.Snapshot()
	if !state.IsAuthenticated() {
		return Outcome{Redirect: RouteLogin}
	}

	var req client.ProfileUpdate
	if v := strings.TrimSpace(firstName); v != "" {
		req.FirstName = &v
	}
	if v := strings.TrimSpace(lastName); v != "" {
		req.LastName = &v
	}
	if req.FirstName == nil && req.LastName == nil {
		return failure("Error", "Enter a first or last name to update.")
	}

	profile, err := p.api.UpdateProfile(ctx, state.User.ID, req)
	if err != nil {
		return failure("Error", "Failed to update profile. Please try again.")
	}
	p.Profile = profile
	return notice("Profile Updated", "Your profile has been updated successfully.")
}
