package workflow

import "skybook/internal/session"

type NavItem struct {
	Label string
	Route string
}

// LogoutLabel marks the item that signs the user out before going home
const LogoutLabel = "Logout"

// Navigation returns the header items for the given session state
func Navigation(state session.State) []NavItem {
	items := []NavItem{{Label: "Home", Route: RouteHome}}

	if !state.IsAuthenticated() {
		return append(items,
			NavItem{Label: "Login", Route: RouteLogin},
			NavItem{Label: "Register", Route: RouteRegister},
		)
	}

	if state.IsAdmin() {
		items = append(items, NavItem{Label: "Admin", Route: RouteAdmin})
	}
	return append(items,
		NavItem{Label: "My Bookings", Route: RouteBookings},
		NavItem{Label: "Profile", Route: RouteProfile},
		NavItem{Label: LogoutLabel, Route: RouteHome},
	)
}
