// Package network provides the shared HTTP client used for release checks
// and remote media probes.
package network

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/reelroom/reelroom/constant"
)

// Client is the HTTP client shared across the application.
var Client = &http.Client{
	Timeout:   30 * time.Second,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 15 * time.Second
	return t
}

// Get issues a GET request carrying the application user agent.
func Get(ctx context.Context, url string) (*http.Response, error) {
	return do(ctx, http.MethodGet, url)
}

// Probe checks that a remote media URL answers with a success status.
func Probe(ctx context.Context, url string) error {
	resp, err := do(ctx, http.MethodHead, url)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: %s", url, resp.Status)
	}
	return nil
}

func do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.App+"/"+constant.Version)
	return Client.Do(req)
}
