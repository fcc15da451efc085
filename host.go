package postgate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// NewPost is the normalized payload handed to the content host.
type NewPost struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
	Author  int64  `json:"author"`
}

// PostRef identifies a post created on the content host. Permalink and
// edit link come from the host, never computed locally.
type PostRef struct {
	ID        int64  `json:"id"`
	Permalink string `json:"permalink"`
	EditLink  string `json:"edit_link"`
}

// ContentHost is the remote system that owns durable post storage and
// business logic. The gateway consumes it only through this interface.
type ContentHost interface {
	CreatePost(ctx context.Context, p NewPost) (PostRef, error)
}

// HostClient talks to a content host over HTTP.
type HostClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewHostClient creates a client for the host at baseURL. token, when
// non-empty, is sent as a bearer credential on every call.
func NewHostClient(baseURL, token string, timeout time.Duration) *HostClient {
	return &HostClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// CreatePost submits a post to the host and returns its id and links.
// Host-level failures come back as errors carrying the host's own
// detail; nothing is retried.
func (c *HostClient) CreatePost(ctx context.Context, p NewPost) (PostRef, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return PostRef{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/posts", bytes.NewReader(body))
	if err != nil {
		return PostRef{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return PostRef{}, fmt.Errorf("content host: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PostRef{}, fmt.Errorf("content host: %s: %s", resp.Status, hostErrorDetail(resp.Body))
	}

	var ref PostRef
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return PostRef{}, fmt.Errorf("content host: decode response: %w", err)
	}
	if ref.ID == 0 {
		return PostRef{}, fmt.Errorf("content host: response missing post id")
	}
	return ref, nil
}

// hostErrorDetail pulls a human-readable message out of an error body.
func hostErrorDetail(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	detail := strings.TrimSpace(string(raw))
	if detail == "" {
		return "no detail"
	}
	return detail
}
