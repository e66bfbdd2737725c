package images

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/errors"
)

const defaultAPIBase = "https://api.openai.com/v1"

// Generator issues one image-generation request per prompt and returns a
// fetchable image URL.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient is a minimal client for the images/generations endpoint.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	size       string
	quality    string
	httpClient *http.Client
}

// NewOpenAIClient constructs a client with the configured generation parameters.
func NewOpenAIClient(apiKey, model, size, quality string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:     apiKey,
		baseURL:    defaultAPIBase,
		model:      model,
		size:       size,
		quality:    quality,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// WithBaseURL overrides the API endpoint (tests point this at a local server).
func (c *OpenAIClient) WithBaseURL(base string) *OpenAIClient {
	c.baseURL = base
	return c
}

type generateRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type generateResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Generate issues exactly one request. A 429-class response maps to a
// retryable rate-limit error; the caller's policy decides how often to retry.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:          c.model,
		Prompt:         prompt,
		N:              1,
		Size:           c.size,
		Quality:        c.quality,
		ResponseFormat: "url",
	})
	if err != nil {
		return "", fmt.Errorf("encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.FetchError(err, "image generation request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", errors.RateLimited("image API throttled the request")
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errors.New(errors.CategoryFetch, errors.SeverityError,
			fmt.Sprintf("image API returned %d: %s", resp.StatusCode, payload))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.FetchError(err, "decode generation response")
	}
	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return "", errors.New(errors.CategoryFetch, errors.SeverityError, "no image in generation response")
	}
	return out.Data[0].URL, nil
}
