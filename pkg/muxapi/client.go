// Package muxapi is a minimal client for the video provider's direct upload
// and asset APIs. Only the calls the ingestion workflow needs are covered.
package muxapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.mux.com"

// ErrNotFound is returned when the provider does not know the upload or asset.
var ErrNotFound = errors.New("muxapi: not found")

type Client struct {
	baseURL     string
	tokenId     string
	tokenSecret string
	httpClient  *http.Client
}

func NewClient(baseURL, tokenId, tokenSecret string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		tokenId:     tokenId,
		tokenSecret: tokenSecret,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

type DirectUpload struct {
	Id      string `json:"id"`
	Url     string `json:"url"`
	Status  string `json:"status"`
	AssetId string `json:"asset_id"`
}

type PlaybackId struct {
	Id     string `json:"id"`
	Policy string `json:"policy"`
}

type Asset struct {
	Id          string       `json:"id"`
	Status      string       `json:"status"`
	PlaybackIds []PlaybackId `json:"playback_ids"`
}

type directUploadResponse struct {
	Data DirectUpload `json:"data"`
}

type assetResponse struct {
	Data Asset `json:"data"`
}

type errorResponse struct {
	Error struct {
		Type     string   `json:"type"`
		Messages []string `json:"messages"`
	} `json:"error"`
}

// CreateDirectUpload mints a single-use upload target. The caller transfers
// the media bytes to the returned URL directly; this backend never sees them.
func (c *Client) CreateDirectUpload(ctx context.Context) (*DirectUpload, error) {
	payload := map[string]interface{}{
		"cors_origin": "*",
		"new_asset_settings": map[string]interface{}{
			"playback_policy": []string{"public"},
		},
	}

	var out directUploadResponse
	if err := c.do(ctx, http.MethodPost, "/video/v1/uploads", payload, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) GetDirectUpload(ctx context.Context, uploadId string) (*DirectUpload, error) {
	var out directUploadResponse
	if err := c.do(ctx, http.MethodGet, "/video/v1/uploads/"+uploadId, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) GetAsset(ctx context.Context, assetId string) (*Asset, error) {
	var out assetResponse
	if err := c.do(ctx, http.MethodGet, "/video/v1/assets/"+assetId, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.tokenId, c.tokenSecret)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("muxapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode >= 400 {
		var parsed errorResponse
		_ = json.Unmarshal(raw, &parsed)
		if len(parsed.Error.Messages) > 0 {
			return fmt.Errorf("muxapi: http %d: %s", resp.StatusCode, parsed.Error.Messages[0])
		}
		return fmt.Errorf("muxapi: http %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("muxapi: decode response: %w", err)
		}
	}
	return nil
}
