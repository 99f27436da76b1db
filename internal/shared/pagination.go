package shared

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/sportportal/portal/internal/platform/httpx"
)

const (
	// DefaultLimit is used when the request does not set limit.
	DefaultLimit = 10
	// MaxLimit caps page sizes.
	MaxLimit = 100
)

// Window is the skip/limit pair every list endpoint accepts.
type Window struct {
	Skip  int
	Limit int
}

// ParseWindow reads skip and limit from the query string. skip must be >= 0
// and limit within 1..MaxLimit.
func ParseWindow(r *http.Request) (Window, error) {
	w := Window{Limit: DefaultLimit}
	q := r.URL.Query()
	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return Window{}, fmt.Errorf("%w: skip must be a non-negative integer", httpx.ErrValidation)
		}
		w.Skip = skip
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxLimit {
			return Window{}, fmt.Errorf("%w: limit must be between 1 and %d", httpx.ErrValidation, MaxLimit)
		}
		w.Limit = limit
	}
	return w, nil
}

// Page is the list response envelope.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// NewPage wraps items, never encoding a null list.
func NewPage[T any](items []T, total int, w Window) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Skip: w.Skip, Limit: w.Limit}
}
