package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmountToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"100", 10000, false},
		{"0", 0, false},
		{"0.5", 50, false},
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{".75", 75, false},
		{" 7.50 ", 750, false},
		{"", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
		{"12a.00", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmountToCents(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{1234, "12.34"},
		{5, "0.05"},
		{0, "0.00"},
		{10000, "100.00"},
		{-1250, "-12.50"},
	}
	for _, tc := range cases {
		if got := FormatCents(tc.in); got != tc.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(Money{Cents: 1234})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "12.34" {
		t.Fatalf("marshal = %s, want 12.34", out)
	}

	var m Money
	if err := json.Unmarshal([]byte("100.5"), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Cents != 10050 {
		t.Fatalf("unmarshal cents = %d, want 10050", m.Cents)
	}

	if err := json.Unmarshal([]byte(`"-3"`), &m); err == nil {
		t.Fatal("negative amount must be rejected")
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := tx("2024-01-15", 100, CategoryRevenue, "Paid", "u1")
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	// An unparsable date is tolerated at creation time.
	odd := tx("soonish", 100, CategoryRevenue, "Paid", "u1")
	if err := odd.Validate(); err != nil {
		t.Fatalf("unparsable date must not be rejected: %v", err)
	}

	broken := []Transaction{
		tx("", 100, CategoryRevenue, "Paid", "u1"),
		tx("2024-01-15", -1, CategoryRevenue, "Paid", "u1"),
		tx("2024-01-15", 100, "", "Paid", "u1"),
		tx("2024-01-15", 100, CategoryRevenue, "", "u1"),
		tx("2024-01-15", 100, CategoryRevenue, "Paid", ""),
	}
	for i, b := range broken {
		if err := b.Validate(); err != ErrInvalidPayload {
			t.Errorf("case %d: got %v, want ErrInvalidPayload", i, err)
		}
	}
}

func TestPatchApply(t *testing.T) {
	base := tx("2024-01-15", 100, CategoryRevenue, "Paid", "u1")

	status := "Pending"
	amount := Money{Cents: 999}
	patched := TransactionPatch{Status: &status, Amount: &amount}.Apply(base)

	if patched.Status != "Pending" || patched.Amount.Cents != 999 {
		t.Fatalf("patch not applied: %+v", patched)
	}
	if patched.Date != base.Date || patched.Category != base.Category || patched.UserID != base.UserID {
		t.Fatalf("nil patch fields must not change: %+v", patched)
	}
}

func TestParseDate(t *testing.T) {
	if _, ok := ParseDate("2024-01-15"); !ok {
		t.Error("plain date should parse")
	}
	if _, ok := ParseDate("2024-01-15T10:30:00Z"); !ok {
		t.Error("RFC3339 should parse")
	}
	if _, ok := ParseDate("someday"); ok {
		t.Error("garbage should not parse")
	}
	if _, ok := ParseDate(""); ok {
		t.Error("empty string should not parse")
	}
}
