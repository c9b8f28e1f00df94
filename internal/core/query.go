package core

import (
	"net/url"
	"strconv"
	"strings"
)

// Sortable fields. Anything else falls back to the default so raw request
// input can never reach an ORDER BY clause verbatim.
var sortFields = map[string]bool{
	"id":       true,
	"date":     true,
	"amount":   true,
	"category": true,
	"status":   true,
	"user_id":  true,
}

const (
	DefaultSortField = "date"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Filter is the normalized query specification derived from raw request
// parameters. Zero-valued fields impose no constraint.
type Filter struct {
	Category string
	Status   string
	UserID   string

	// Amount range in cents, active only when both bounds were supplied and
	// parsed. A single valid bound disables range filtering entirely.
	MinAmount   int64
	MaxAmount   int64
	RangeActive bool

	// Case-insensitive substring search over user_id, category and status.
	Search string

	SortBy string
	Order  string
}

// FilterFromValues builds a Filter from flat request parameters. Malformed
// numeric bounds are treated as absent rather than failing the request.
func FilterFromValues(q url.Values) Filter {
	f := Filter{
		Category: strings.TrimSpace(q.Get("category")),
		Status:   strings.TrimSpace(q.Get("status")),
		UserID:   strings.TrimSpace(q.Get("user_id")),
		Search:   strings.TrimSpace(q.Get("search")),
		SortBy:   DefaultSortField,
		Order:    OrderDesc,
	}

	minRaw := strings.TrimSpace(q.Get("minAmount"))
	maxRaw := strings.TrimSpace(q.Get("maxAmount"))
	if minRaw != "" && maxRaw != "" {
		minCents, minErr := ParseAmountToCents(minRaw)
		maxCents, maxErr := ParseAmountToCents(maxRaw)
		if minErr == nil && maxErr == nil {
			f.MinAmount = minCents
			f.MaxAmount = maxCents
			f.RangeActive = true
		}
	}

	if v := strings.ToLower(strings.TrimSpace(q.Get("sortBy"))); sortFields[v] {
		f.SortBy = v
	}
	if strings.ToLower(strings.TrimSpace(q.Get("order"))) == OrderAsc {
		f.Order = OrderAsc
	}

	return f
}

// Matches reports whether t passes every active constraint. All filters
// combine as a logical AND.
func (f Filter) Matches(t Transaction) bool {
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.UserID != "" && t.UserID != f.UserID {
		return false
	}
	if f.RangeActive && (t.Amount.Cents < f.MinAmount || t.Amount.Cents > f.MaxAmount) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.UserID), needle) &&
			!strings.Contains(strings.ToLower(t.Category), needle) &&
			!strings.Contains(strings.ToLower(t.Status), needle) {
			return false
		}
	}
	return true
}

// Less orders a before b according to the sort specification. Equal keys
// report false both ways so a stable sort preserves store-native order.
func (f Filter) Less(a, b Transaction) bool {
	var less, equal bool
	switch f.SortBy {
	case "amount":
		less, equal = a.Amount.Cents < b.Amount.Cents, a.Amount.Cents == b.Amount.Cents
	case "category":
		less, equal = a.Category < b.Category, a.Category == b.Category
	case "status":
		less, equal = a.Status < b.Status, a.Status == b.Status
	case "user_id":
		less, equal = a.UserID < b.UserID, a.UserID == b.UserID
	case "id":
		less, equal = a.ID < b.ID, a.ID == b.ID
	default:
		// Raw date strings compare lexicographically: chronological
		// within one layout, by format across mixed layouts.
		less, equal = a.Date < b.Date, a.Date == b.Date
	}
	if equal {
		return false
	}
	if f.Order == OrderAsc {
		return less
	}
	return !less
}

// CacheKey returns a canonical string for the filter, used to key dashboard
// response caches. Each part is query-escaped so a separator inside a filter
// value cannot make two distinct filters share a key.
func (f Filter) CacheKey() string {
	parts := []string{
		f.Category, f.Status, f.UserID, f.Search, f.SortBy, f.Order,
	}
	if f.RangeActive {
		parts = append(parts,
			strconv.FormatInt(f.MinAmount, 10),
			strconv.FormatInt(f.MaxAmount, 10))
	}
	for i, p := range parts {
		parts[i] = url.QueryEscape(p)
	}
	return strings.Join(parts, "|")
}
