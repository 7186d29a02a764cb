// Package openweather fetches the multi-resolution forecast payload that
// internal/forecast resolves against.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/teja-rm/weather-route-map/internal/common"
	"github.com/teja-rm/weather-route-map/internal/forecast"
)

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
		panic("Missing apiKey in openweather client")
	}
	if c.baseUrl == "" {
		panic("Missing baseUrl in openweather client")
	}
	return c
}

// GetForecast fetches the full payload for a position: current conditions
// plus the minutely, hourly and daily bands, metric units.
func (c *Client) GetForecast(ctx context.Context, lat, lng float64) (*forecast.Payload, error) {
	req, err := url.Parse(c.baseUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openweather url %s: %w", c.baseUrl, err)
	}

	q := req.Query()
	q.Add("appid", c.apiKey)
	q.Add("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Add("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Add("units", "metric")
	q.Add("exclude", "alerts")
	req.RawQuery = q.Encode()

	ctxReq, _ := http.NewRequestWithContext(ctx, "GET", req.String(), nil)
	resp, err := common.GetWithRetry(ctxReq, "openweather")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading openweather response body: %w", err)
	}

	var payload forecast.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("error unmarshalling response from openweather: %w", err)
	}
	return &payload, nil
}
