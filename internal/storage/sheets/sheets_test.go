package sheets

import (
	"testing"
	"time"
)

func TestParseTransactionRow(t *testing.T) {
	cases := []struct {
		name   string
		cols   []string
		wantOK bool
	}{
		{"valid expense", []string{"2024-06-10", "alice", "expense", "Food", "12.50", "Card"}, true},
		{"valid income no payment mode", []string{"2024-06-01", "alice", "income", "Salary", "1000"}, true},
		{"mixed-case type", []string{"2024-06-10", "alice", "Expense", "Food", "5"}, true},
		{"header row", []string{"Date", "Owner", "Type", "Category", "Amount", "PaymentMode"}, false},
		{"too few columns", []string{"2024-06-10", "alice", "expense"}, false},
		{"bad date", []string{"10/06/2024", "alice", "expense", "Food", "5"}, false},
		{"bad amount", []string{"2024-06-10", "alice", "expense", "Food", "abc"}, false},
		{"negative amount", []string{"2024-06-10", "alice", "expense", "Food", "-5"}, false},
		{"unknown type", []string{"2024-06-10", "alice", "transfer", "Food", "5"}, false},
		{"empty owner", []string{"2024-06-10", "", "expense", "Food", "5"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx, ok := parseTransactionRow(tc.cols, 2)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if tx.ID != "sheet:2" {
				t.Errorf("ID = %q, want sheet:2", tx.ID)
			}
			if tx.Owner != "alice" {
				t.Errorf("Owner = %q", tx.Owner)
			}
			if tx.Date.Location() != time.UTC {
				t.Errorf("Date location = %v, want UTC", tx.Date.Location())
			}
		})
	}
}

func TestParseTransactionRowAmounts(t *testing.T) {
	cases := []struct {
		amount    string
		wantCents int64
	}{
		{"12.50", 1250},
		{"12,50", 1250},
		{"1000", 100000},
		{"0.01", 1},
	}
	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			tx, ok := parseTransactionRow([]string{"2024-06-10", "alice", "expense", "Food", tc.amount}, 3)
			if !ok {
				t.Fatalf("row with amount %q rejected", tc.amount)
			}
			if tx.Amount.Cents != tc.wantCents {
				t.Errorf("cents = %d, want %d", tx.Amount.Cents, tc.wantCents)
			}
		})
	}
}
