package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

func (c *Client) ListFlights(ctx context.Context) ([]Flight, error) {
	var flights []Flight
	if err := c.do(ctx, request{method: http.MethodGet, path: "/flights"}, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// SearchFlights sends only the non-empty filters
func (c *Client) SearchFlights(ctx context.Context, params SearchParams) ([]Flight, error) {
	query := url.Values{}
	if v := strings.TrimSpace(params.Origin); v != "" {
		query.Set("origin", v)
	}
	if v := strings.TrimSpace(params.Destination); v != "" {
		query.Set("destination", v)
	}
	if v := strings.TrimSpace(params.Date); v != "" {
		query.Set("date", v)
	}

	var flights []Flight
	if err := c.do(ctx, request{method: http.MethodGet, path: "/flights/search", query: query}, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// GetFlight accepts an id or a flight number
func (c *Client) GetFlight(ctx context.Context, ref string) (*Flight, error) {
	var flight Flight
	if err := c.do(ctx, request{method: http.MethodGet, path: "/flights/" + url.PathEscape(ref)}, &flight); err != nil {
		return nil, err
	}
	return &flight, nil
}

func (c *Client) CreateFlight(ctx context.Context, req NewFlight) (*Flight, error) {
	var flight Flight
	if err := c.do(ctx, request{method: http.MethodPost, path: "/flights", body: req, auth: true}, &flight); err != nil {
		return nil, err
	}
	return &flight, nil
}

func (c *Client) UpdateFlight(ctx context.Context, id string, req FlightUpdate) (*Flight, error) {
	var flight Flight
	path := "/flights/" + url.PathEscape(id)
	if err := c.do(ctx, request{method: http.MethodPut, path: path, body: req, auth: true}, &flight); err != nil {
		return nil, err
	}
	return &flight, nil
}

func (c *Client) DeleteFlight(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/flights/" + url.PathEscape(id), auth: true}, nil)
}

func (c *Client) CalculatePrice(ctx context.Context, req PriceRequest) (*PriceQuote, error) {
	var quote PriceQuote
	if err := c.do(ctx, request{method: http.MethodPost, path: "/pricing/calculate", body: req}, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// AdminStats returns server-side dashboard figures; admin only
func (c *Client) AdminStats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/stats", auth: true}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
