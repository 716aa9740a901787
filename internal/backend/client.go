// Package backend はAPIティアへのサーバー間クライアントを提供する。
package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// apiKeyHeaderName はAPIティアの認可ゲートが要求するヘッダー名。
const apiKeyHeaderName = "x-api-key"

// Client はAPIティアの管理データAPIを呼び出すHTTPクライアント。
// Webティアが保持する共有シークレットを全リクエストに付与する。
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient はClientを生成する。
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Do はバックエンドAPIへリクエストを送る。
// pathは"/"始まりのバックエンド側パスを指定する。
// レスポンスのBodyは呼び出し側でCloseすること。
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build backend request: %w", err)
	}

	req.Header.Set(apiKeyHeaderName, c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	return resp, nil
}
