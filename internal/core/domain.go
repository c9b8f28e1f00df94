package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryRevenue = "Revenue"
	CategoryExpense = "Expense"
)

// CategoryKind is the closed classification of a transaction category.
// Storage accepts arbitrary category strings, but aggregation arithmetic
// only ever sees Revenue, Expense or Other.
type CategoryKind int

const (
	KindRevenue CategoryKind = iota
	KindExpense
	KindOther
)

type (
	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string `json:"_id"`
		Date        string `json:"date"`
		Amount      Money  `json:"amount"`
		Category    string `json:"category"`
		Status      string `json:"status"`
		UserID      string `json:"user_id"`
		UserProfile string `json:"user_profile,omitempty"`
	}

	// TransactionPatch carries a partial update; nil fields are left untouched.
	TransactionPatch struct {
		Date        *string `json:"date"`
		Amount      *Money  `json:"amount"`
		Category    *string `json:"category"`
		Status      *string `json:"status"`
		UserID      *string `json:"user_id"`
		UserProfile *string `json:"user_profile"`
	}
)

var (
	ErrNotFound       = errors.New("transaction not found")
	ErrInvalidPayload = errors.New("invalid transaction payload")
	ErrInvalidAmount  = errors.New("invalid amount")
)

// Kind classifies a raw category value into the closed enumeration.
func Kind(category string) CategoryKind {
	switch category {
	case CategoryRevenue:
		return KindRevenue
	case CategoryExpense:
		return KindExpense
	default:
		return KindOther
	}
}

// Validate enforces the mandatory fields of a new transaction. Date must be
// present but is deliberately not required to parse; unparsable dates land
// in the "Invalid" aggregation bucket instead of being rejected.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Date) == "" {
		return ErrInvalidPayload
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(t.Status) == "" {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(t.UserID) == "" {
		return ErrInvalidPayload
	}
	return nil
}

// Apply returns a copy of t with the non-nil patch fields replaced.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.UserID != nil {
		t.UserID = *p.UserID
	}
	if p.UserProfile != nil {
		t.UserProfile = *p.UserProfile
	}
	return t
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// ParseDate attempts to parse a stored date string. The bool reports whether
// any known layout matched; callers treat a failure as an invalid date
// rather than an error.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
