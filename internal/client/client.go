package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	defaultServerURL = "http://127.0.0.1:37717"
	httpTimeout      = 5 * time.Second
)

// Client talks to a running cadence server.
type Client struct {
	http      *http.Client
	serverURL string
}

// New creates a new HTTP client.
// Respects CADENCE_URL env var, falls back to http://127.0.0.1:37717.
func New() *Client {
	url := os.Getenv("CADENCE_URL")
	if url == "" {
		url = defaultServerURL
	}
	return &Client{
		http:      &http.Client{Timeout: httpTimeout},
		serverURL: url,
	}
}

// Post sends a POST request with JSON body. Returns response body.
func (c *Client) Post(path string, body []byte) ([]byte, error) {
	resp, err := c.http.Post(c.serverURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		return data, fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, data)
	}
	return data, nil
}

// Get sends a GET request. Returns response body.
func (c *Client) Get(path string) ([]byte, error) {
	resp, err := c.http.Get(c.serverURL + path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		return data, fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, data)
	}
	return data, nil
}

// Delete sends a DELETE request. Returns response body.
func (c *Client) Delete(path string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodDelete, c.serverURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("DELETE %s: %w", path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("DELETE %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		return data, fmt.Errorf("DELETE %s: status %d: %s", path, resp.StatusCode, data)
	}
	return data, nil
}

// Healthy checks if the server is reachable.
func (c *Client) Healthy() bool {
	resp, err := c.http.Get(c.serverURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
