// Package geocode wraps the forward/reverse geocoding provider used for
// endpoint resolution and waypoint location names.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/teja-rm/weather-route-map/internal/common"
	t "github.com/teja-rm/weather-route-map/internal/types"
)

type Response struct {
	Data []*t.Coordinates `json:"data"`
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

	if c.apiKey == "" {
		panic("Missing apiKey in geocode client")
	}
	if c.baseUrl == "" {
		panic("Missing baseUrl in geocode client")
	}
	return c
}

// GeoCode resolves a free-form address to coordinates, nil when the
// provider has no match.
func (c *Client) GeoCode(ctx context.Context, address string) (*t.Coordinates, error) {
	return c.query(ctx, "/forward", url.Values{"query": {address}})
}

// ReverseGeoCode resolves coordinates to the nearest named location.
func (c *Client) ReverseGeoCode(ctx context.Context, lat, lng float64) (*t.Coordinates, error) {
	query := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
	return c.query(ctx, "/reverse", url.Values{"query": {query}})
}

func (c *Client) query(ctx context.Context, path string, params url.Values) (*t.Coordinates, error) {
	req, err := url.Parse(c.baseUrl + path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geocode url %s: %w", c.baseUrl, err)
	}

	q := req.Query()
	q.Add("access_key", c.apiKey)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	req.RawQuery = q.Encode()

	ctxReq, _ := http.NewRequestWithContext(ctx, "GET", req.String(), nil)
	resp, err := common.GetWithRetry(ctxReq, "geocode")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading geocode response body: %w", err)
	}

	var respObj Response
	if err := json.Unmarshal(body, &respObj); err != nil {
		return nil, fmt.Errorf("error unmarshalling response from geocode: %w", err)
	}
	if len(respObj.Data) == 0 {
		return nil, nil
	}
	return respObj.Data[0], nil
}
