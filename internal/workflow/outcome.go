package workflow

import (
	"skybook/internal/session"
)

// Screens a workflow can send the user to
const (
	RouteHome     = "/"
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteBooking  = "/booking"
	RouteBookings = "/bookings"
	RouteProfile  = "/profile"
	RouteAdmin    = "/admin"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a transient message shown to the user
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Outcome is what a user action produced: at most one notification and an
// optional screen change
type Outcome struct {
	Notification *Notification
	Redirect     string
	AccessDenied bool
}

func notice(title, description string) Outcome {
	return Outcome{Notification: &Notification{Title: title, Description: description, Variant: VariantDefault}}
}

func failure(title, description string) Outcome {
	return Outcome{Notification: &Notification{Title: title, Description: description, Variant: VariantDestructive}}
}

// SessionState is the read side of the session provider
type SessionState interface {
	Snapshot() session.State
}
