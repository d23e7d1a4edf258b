// Package sheets reads transactions and budgets from a Google
// spreadsheet. The store is read-only: households that keep their
// ledger in Sheets can point the analytics API at it without
// migrating, but writes must go to a database backend.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/akashreddykandula/spendWise/internal/core"
	"github.com/akashreddykandula/spendWise/internal/storage"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Sheet tab names.
	transactionsSheet string
	budgetsSheet      string
}

// Ensure interface conformance
var (
	_ storage.TransactionStore  = (*Client)(nil)
	_ storage.TransactionWriter = (*Client)(nil)
	_ storage.BudgetStore       = (*Client)(nil)
	_ storage.BudgetWriter      = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional tab names: GOOGLE_TRANSACTIONS_SHEET_NAME (default
// "Transactions"), GOOGLE_BUDGETS_SHEET_NAME (default "Budgets").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	transactionsSheet := strings.TrimSpace(os.Getenv("GOOGLE_TRANSACTIONS_SHEET_NAME"))
	if transactionsSheet == "" {
		transactionsSheet = "Transactions"
	}
	budgetsSheet := strings.TrimSpace(os.Getenv("GOOGLE_BUDGETS_SHEET_NAME"))
	if budgetsSheet == "" {
		budgetsSheet = "Budgets"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     spreadsheetID,
		transactionsSheet: transactionsSheet,
		budgetsSheet:      budgetsSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// Find scans the transactions tab. Expected columns:
// A=Date (2006-01-02), B=Owner, C=Type, D=Category, E=Amount,
// F=PaymentMode. Row 1 is treated as a header when its date column does
// not parse. Rows that fail to parse are skipped; listing is
// best-effort like any spreadsheet-backed source.
func (c *Client) Find(ctx context.Context, q storage.Query) ([]core.Transaction, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:F", c.transactionsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	var out []core.Transaction
	for i, row := range resp.Values {
		tx, ok := parseTransactionRow(toStrings(row), i+1)
		if !ok {
			if i > 0 {
				slog.DebugContext(ctx, "skipping unparseable row", "sheet", c.transactionsSheet, "row", i+1)
			}
			continue
		}
		if q.Matches(tx) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// parseTransactionRow converts one spreadsheet row into a transaction.
// rowNumber is the 1-based sheet row, used for the synthetic ID.
func parseTransactionRow(cols []string, rowNumber int) (core.Transaction, bool) {
	if len(cols) < 5 {
		return core.Transaction{}, false
	}
	date, err := time.ParseInLocation("2006-01-02", cols[0], time.UTC)
	if err != nil {
		return core.Transaction{}, false
	}
	cents, err := core.ParseDecimalToCents(cols[4])
	if err != nil {
		return core.Transaction{}, false
	}
	tx := core.Transaction{
		ID:       fmt.Sprintf("sheet:%d", rowNumber),
		Owner:    cols[1],
		Amount:   core.Money{Cents: cents},
		Type:     core.TxType(strings.ToLower(cols[2])),
		Category: cols[3],
		Date:     date,
	}
	if len(cols) >= 6 {
		tx.PaymentMode = cols[5]
	}
	if !tx.Type.Valid() || tx.Owner == "" {
		return core.Transaction{}, false
	}
	return tx, true
}

func (c *Client) ListOwners(ctx context.Context) ([]string, error) {
	txs, err := c.Find(ctx, storage.Query{})
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var owners []string
	for _, tx := range txs {
		if _, ok := seen[tx.Owner]; ok {
			continue
		}
		seen[tx.Owner] = struct{}{}
		owners = append(owners, tx.Owner)
	}
	return owners, nil
}

// GetBudget scans the budgets tab. Expected columns: A=Owner,
// B=Category, C=Limit. An empty category sets the overall monthly
// limit.
func (c *Client) GetBudget(ctx context.Context, owner string) (core.Budget, error) {
	if c.svc == nil {
		return core.Budget{}, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:C", c.budgetsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return core.Budget{}, fmt.Errorf("read %s: %w", rng, err)
	}

	b := core.Budget{Owner: owner}
	found := false
	for _, row := range resp.Values {
		cols := toStrings(row)
		if len(cols) < 3 || !strings.EqualFold(strings.TrimSpace(cols[0]), owner) {
			continue
		}
		cents, err := core.ParseDecimalToCents(cols[2])
		if err != nil {
			continue
		}
		category := strings.TrimSpace(cols[1])
		if category == "" {
			b.Monthly = core.Money{Cents: cents}
		} else {
			if b.Categories == nil {
				b.Categories = make(map[string]core.Money)
			}
			b.Categories[category] = core.Money{Cents: cents}
		}
		found = true
	}
	if !found {
		return core.Budget{}, storage.ErrBudgetNotFound
	}
	return b, nil
}

func (c *Client) Create(context.Context, core.Transaction) (string, error) {
	return "", storage.ErrReadOnly
}

func (c *Client) Delete(context.Context, string, string) error {
	return storage.ErrReadOnly
}

func (c *Client) UpsertBudget(context.Context, core.Budget) error {
	return storage.ErrReadOnly
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
