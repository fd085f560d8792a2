package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mbenson/tracker/internal/constants"
	"github.com/mbenson/tracker/internal/storage"
)

// HTTPRemote talks to the tracker REST server for one resource kind. Every
// request carries the user scope header; the server rejects requests without
// it.
type HTTPRemote[T Resource] struct {
	base   string
	kind   string
	userID string
	client *http.Client
}

// NewHTTPRemote creates a remote for one kind ("tasks", "habits", "finance",
// "planner") rooted at base, e.g. "http://localhost:3001".
func NewHTTPRemote[T Resource](base, kind, userID string) *HTTPRemote[T] {
	return &HTTPRemote[T]{
		base:   strings.TrimRight(base, "/"),
		kind:   kind,
		userID: userID,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *HTTPRemote[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.do(ctx, http.MethodGet, r.url(""), nil, http.StatusOK, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (r *HTTPRemote[T]) Create(ctx context.Context, item T) error {
	return r.do(ctx, http.MethodPost, r.url(""), item, http.StatusCreated, nil)
}

func (r *HTTPRemote[T]) Update(ctx context.Context, item T) error {
	return r.do(ctx, http.MethodPut, r.url(item.RecordID()), item, http.StatusOK, nil)
}

func (r *HTTPRemote[T]) Delete(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, r.url(id), nil, http.StatusOK, nil)
}

func (r *HTTPRemote[T]) url(id string) string {
	u := fmt.Sprintf("%s/api/%s", r.base, r.kind)
	if id != "" {
		u += "/" + id
	}
	return u
}

func (r *HTTPRemote[T]) do(ctx context.Context, method, url string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(constants.HeaderUserID, r.userID)

	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != want {
		return remoteError(res)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// remoteError maps a non-success response to an error, preserving the
// not-found sentinel so callers can branch on it.
func remoteError(res *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	msg := res.Status
	if err := json.NewDecoder(res.Body).Decode(&payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", msg, storage.ErrNotFound)
	}
	return fmt.Errorf("server: %s (status %d)", msg, res.StatusCode)
}
