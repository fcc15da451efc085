package postgate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// fakeHost is a ContentHost that records the last payload it received.
type fakeHost struct {
	lastPost NewPost
	ref      PostRef
	err      error
}

func (f *fakeHost) CreatePost(_ context.Context, p NewPost) (PostRef, error) {
	f.lastPost = p
	if f.err != nil {
		return PostRef{}, f.err
	}
	return f.ref, nil
}

func newTestApp(t *testing.T, host ContentHost) *App {
	t.Helper()
	a := New(Config{
		DatabasePath:  filepath.Join(t.TempDir(), "gate.db"),
		AdminPassword: "letmein",
		SessionSecret: "test-session-secret",
	}, WithContentHost(host))
	if err := a.bootstrap(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

// apiRequest performs a JSON API request with an optional raw
// Authorization header value.
func apiRequest(a *App, method, path, authHeader, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// browser carries cookies between requests, enough to exercise the
// session + CSRF protected console flows.
type browser struct {
	app     *App
	cookies map[string]*http.Cookie
}

func newBrowser(a *App) *browser {
	return &browser{app: a, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	b.app.Echo.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck
	}
	return rec
}

func (b *browser) csrf() string {
	if ck, ok := b.cookies["_csrf"]; ok {
		return ck.Value
	}
	return ""
}
