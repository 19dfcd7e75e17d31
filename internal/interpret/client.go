// Package interpret rewrites free-form queries into command suggestions via
// a local Ollama-compatible model. The launcher works fine without it: every
// failure path echoes the input back unchanged.
package interpret

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// maxSuggestionTokens bounds the completion; a command suggestion is short.
const maxSuggestionTokens = 32

// Client talks to an Ollama-compatible /api/generate endpoint.
type Client struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

var (
	sharedHTTPClient *http.Client
	sharedClientOnce sync.Once
)

// sharedClient returns a pooled HTTP client shared by all interpreters.
func sharedClient() *http.Client {
	sharedClientOnce.Do(func() {
		transport := &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		}

		sharedHTTPClient = &http.Client{
			Transport: transport,
			Timeout:   15 * time.Second,
		}
	})
	return sharedHTTPClient
}

// GenerateRequest is the Ollama generate API request body.
type GenerateRequest struct {
	Model      string `json:"model"`
	Prompt     string `json:"prompt"`
	Stream     bool   `json:"stream"`
	NumPredict int    `json:"num_predict,omitempty"`
}

// GenerateResponse is the subset of the generate API response we read.
type GenerateResponse struct {
	Response string `json:"response"`
}

// NewClient creates an interpreter client. An empty endpoint or model yields
// a disabled client whose Interpret echoes its input.
func NewClient(endpoint, model string) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		model:      model,
		httpClient: sharedClient(),
	}
}

// Enabled reports whether the client is configured to call a model.
func (c *Client) Enabled() bool {
	return c != nil && c.endpoint != "" && c.model != ""
}

// Interpret rewrites the query into a command suggestion. When the client is
// not configured, or the model cannot be reached, or the response cannot be
// decoded, the input comes back unchanged.
func (c *Client) Interpret(ctx context.Context, text string) string {
	if !c.Enabled() {
		return text
	}

	suggestion, err := c.generate(ctx, text)
	if err != nil || suggestion == "" {
		return text
	}
	return suggestion
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := GenerateRequest{
		Model:      c.model,
		Prompt:     prompt,
		Stream:     false,
		NumPredict: maxSuggestionTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return cleanSuggestion(prompt, genResp.Response), nil
}

// cleanSuggestion trims whitespace and drops a leading echo of the prompt,
// which small models tend to produce.
func cleanSuggestion(prompt, response string) string {
	s := strings.TrimSpace(response)
	if rest, ok := strings.CutPrefix(s, prompt); ok {
		s = strings.TrimSpace(rest)
	}
	return s
}
