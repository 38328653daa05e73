package client

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) CreateBooking(ctx context.Context, req NewBooking) (*Booking, error) {
	var booking Booking
	if err := c.do(ctx, request{method: http.MethodPost, path: "/bookings", body: req, auth: true}, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (*Booking, error) {
	var booking Booking
	if err := c.do(ctx, request{method: http.MethodGet, path: "/bookings/" + url.PathEscape(id), auth: true}, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListUserBookings returns the user's bookings newest first, each with its flight
func (c *Client) ListUserBookings(ctx context.Context, userID string) ([]Booking, error) {
	var bookings []Booking
	path := "/users/" + url.PathEscape(userID) + "/bookings"
	if err := c.do(ctx, request{method: http.MethodGet, path: path, auth: true}, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) ListAllBookings(ctx context.Context) ([]Booking, error) {
	var bookings []Booking
	if err := c.do(ctx, request{method: http.MethodGet, path: "/bookings", auth: true}, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) UpdateBooking(ctx context.Context, id string, req BookingUpdate) (*Booking, error) {
	var booking Booking
	path := "/bookings/" + url.PathEscape(id)
	if err := c.do(ctx, request{method: http.MethodPut, path: path, body: req, auth: true}, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// DeleteBooking cancels the booking; the row is removed
func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/bookings/" + url.PathEscape(id), auth: true}, nil)
}
