// Package routing wraps the routing provider. Section geometry comes back
// as flexible polylines which internal/polyline decodes.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/teja-rm/weather-route-map/internal/common"
	t "github.com/teja-rm/weather-route-map/internal/types"
)

type Response struct {
	Routes []Route `json:"routes"`
}

type Route struct {
	Sections []Section `json:"sections"`
}

type Section struct {
	Polyline  string    `json:"polyline"`
	Summary   Summary   `json:"summary"`
	Transport Transport `json:"transport"`
}

type Summary struct {
	Duration float64 `json:"duration"`
	Length   float64 `json:"length"`
}

type Transport struct {
	Mode string `json:"mode"`
}

type ClientOption func(*Client)

type Client struct {
	apiKey  string
	baseUrl string
}

func ApiKeyOption(apiKey string) ClientOption {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

func BaseUrlOption(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

func New(opts ...ClientOption) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseUrl == "" {
		panic("Missing baseUrl in routing client")
	}
	return c
}

// Route requests a route between the trip endpoints. The first returned
// route is used; its sections keep their per-mode geometry.
func (c *Client) Route(ctx context.Context, trip *t.Trip, mode string) (*t.Route, error) {
	req, err := url.Parse(c.baseUrl + "/routes")
	if err != nil {
		return nil, fmt.Errorf("failed to parse routing url %s: %w", c.baseUrl, err)
	}

	q := req.Query()
	if c.apiKey != "" {
		q.Add("apiKey", c.apiKey)
	}
	q.Add("transportMode", mode)
	q.Add("origin", fmt.Sprintf("%f,%f", trip.From.Latitude, trip.From.Longitude))
	q.Add("destination", fmt.Sprintf("%f,%f", trip.To.Latitude, trip.To.Longitude))
	q.Add("return", "polyline,summary")
	req.RawQuery = q.Encode()

	ctxReq, _ := http.NewRequestWithContext(ctx, "GET", req.String(), nil)
	resp, err := common.GetWithRetry(ctxReq, "routing")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading routing response body: %w", err)
	}

	var respObj Response
	if err := json.Unmarshal(body, &respObj); err != nil {
		return nil, fmt.Errorf("error unmarshalling response from routing: %w", err)
	}
	if len(respObj.Routes) == 0 {
		return nil, fmt.Errorf("no route found between (%v,%v) and (%v,%v)",
			trip.From.Latitude, trip.From.Longitude, trip.To.Latitude, trip.To.Longitude)
	}

	return routeFromSections(respObj.Routes[0].Sections), nil
}

func routeFromSections(sections []Section) *t.Route {
	route := &t.Route{}
	for _, s := range sections {
		route.Sections = append(route.Sections, t.Section{
			Geometry: s.Polyline,
			Duration: s.Summary.Duration,
			Distance: s.Summary.Length,
			Mode:     s.Transport.Mode,
		})
		route.Duration += s.Summary.Duration
		route.Distance += s.Summary.Length
	}
	return route
}
