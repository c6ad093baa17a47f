package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// fetchRemote downloads an input file over HTTP(S) via resty, with bounded
// idle connections and no automatic retries beyond the caller's own.
func fetchRemote(url string) ([]byte, error) {
	client := resty.New().
		SetTransport(&http.Transport{
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}).
		SetHeader("Accept", "*/*")

	resp, err := client.R().Get(url)
	if err != nil {
		return nil, fmt.Errorf("remote fetch failed: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("remote fetch failed: status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
