package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/example/movie-catalog/internal/platform/api"
)

const maxRequestBodyBytes = 1 << 20 // 1 MiB

// decodeJSON reads up to maxRequestBodyBytes from r.Body and decodes JSON into dst.
// On failure it writes a 400 response and returns false.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request, rid string, dst *T) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(dst); err != nil {
		api.BadRequest(w, "INVALID_JSON", "Invalid JSON", rid, nil)
		return false
	}
	return true
}

// requireUUID validates an id path or query parameter, writing a 400 on failure.
func requireUUID(w http.ResponseWriter, rid, field, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if _, err := uuid.Parse(value); err != nil {
		api.BadRequest(w, "INVALID_ID", "Invalid "+field, rid, map[string]any{"field": field})
		return "", false
	}
	return value, true
}

func parseInt(v string, def, min, max int) int {
	if strings.TrimSpace(v) == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	if i < min {
		return min
	}
	if i > max {
		return max
	}
	return i
}

// parseFloat returns def for an absent value and ok=false for a malformed
// one, so handlers can reject garbage instead of silently defaulting.
func parseFloat(v string, def float64) (float64, bool) {
	if strings.TrimSpace(v) == "" {
		return def, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// pageParams extracts page/limit query parameters with the given default limit.
func pageParams(r *http.Request, defLimit int) (page, limit int) {
	page = parseInt(r.URL.Query().Get("page"), 1, 1, 100000)
	limit = parseInt(r.URL.Query().Get("limit"), defLimit, 1, 100)
	return page, limit
}

// pagination is the envelope every paged listing carries.
type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func newPagination(page, limit, total int) pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
