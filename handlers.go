package postgate

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// createPostRequest is the JSON payload for POST /api/v1/posts. Status
// is a pointer so an absent field and an empty one stay distinguishable;
// Author stays raw so both numbers and numeric strings coerce.
type createPostRequest struct {
	Title   string          `json:"title"`
	Content string          `json:"content"`
	Status  *string         `json:"status"`
	Author  json.RawMessage `json:"author"`
}

type createPostResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    postRefData `json:"data"`
}

type postRefData struct {
	PostID    int64  `json:"post_id"`
	Permalink string `json:"permalink"`
	EditLink  string `json:"edit_link"`
}

type validateResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Brand     string `json:"brand"`
	Timestamp string `json:"timestamp"`
}

// handleCreatePost sanitizes the payload and delegates to the content
// host. The handler performs no status validation beyond plain-text
// sanitization; the host owns the status enum.
func (a *App) handleCreatePost(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return apiErr(c, http.StatusBadRequest, "invalid_request", "request body must be valid JSON.")
	}

	title := SanitizeText(req.Title)
	if title == "" {
		return apiErr(c, http.StatusBadRequest, "missing_title", "post title is required.")
	}

	status := a.Config.DefaultStatus
	if req.Status != nil {
		status = SanitizeText(*req.Status)
	}

	post := NewPost{
		Title:   title,
		Content: SanitizePostContent(req.Content),
		Status:  status,
		Author:  coerceAuthor(req.Author, a.Config.DefaultAuthor),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), a.Config.HostTimeout)
	defer cancel()

	ref, err := a.Host.CreatePost(ctx, post)
	if err != nil {
		return apiErr(c, http.StatusInternalServerError, "creation_failed", err.Error())
	}

	return c.JSON(http.StatusOK, createPostResponse{
		Success: true,
		Message: "post created",
		Data: postRefData{
			PostID:    ref.ID,
			Permalink: ref.Permalink,
			EditLink:  ref.EditLink,
		},
	})
}

// handleValidate is reachable only behind the authenticator, so it
// returns a static success payload.
func (a *App) handleValidate(c echo.Context) error {
	return c.JSON(http.StatusOK, validateResponse{
		Success:   true,
		Message:   "token is valid",
		Brand:     a.Config.Name,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// coerceAuthor turns a raw JSON number or numeric string into a
// non-negative author id, falling back to def when the field is absent
// or non-numeric.
func coerceAuthor(raw json.RawMessage, def int64) int64 {
	if len(raw) == 0 {
		return def
	}
	s := strings.TrimSpace(strings.Trim(string(raw), `"`))
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return def
		}
		n = int64(f)
	}
	if n < 0 {
		n = -n
	}
	return n
}
