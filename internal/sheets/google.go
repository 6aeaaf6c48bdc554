package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"ledgerbot/core/logger"
	"ledgerbot/internal/ledger"
)

// Client wraps the Google Sheets API and opens per-spreadsheet gateways.
type Client struct {
	svc *gsheets.Service
	now func() time.Time
}

// NewClient builds a Sheets API client authenticated with a service
// account key file.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &Client{svc: svc, now: time.Now}, nil
}

// Open returns a Gateway bound to one spreadsheet.
func (c *Client) Open(spreadsheetID string) Gateway {
	return &googleGateway{svc: c.svc, spreadsheetID: spreadsheetID, now: c.now}
}

// Validate checks that the spreadsheet exists and is readable with the
// configured credentials.
func (c *Client) Validate(ctx context.Context, spreadsheetID string) error {
	start := time.Now()
	_, err := c.svc.Spreadsheets.Get(spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	logger.SHEETS.Log(ctx, levelFor(err), "validate",
		slog.String("event", "sheet.validate"),
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.Took(start)),
	)
	if err != nil {
		return fmt.Errorf("validate spreadsheet: %w", err)
	}
	return nil
}

type googleGateway struct {
	svc           *gsheets.Service
	spreadsheetID string
	now           func() time.Time
}

func (g *googleGateway) Categories(ctx context.Context) ([]string, error) {
	return g.readColumn(ctx, categoriesRange)
}

func (g *googleGateway) Wallets(ctx context.Context) ([]string, error) {
	return g.readColumn(ctx, walletsRange)
}

func (g *googleGateway) AppendExpense(ctx context.Context, rec ledger.Expense) error {
	row := []interface{}{
		rec.Title,
		rec.Amount.String(),
		rec.Day,
		rec.Category,
		rec.Wallet,
		rec.Notes,
	}
	return g.appendRow(ctx, expenseFirstCol, expenseLastCol, row)
}

func (g *googleGateway) AppendIncome(ctx context.Context, rec ledger.Income) error {
	row := []interface{}{
		rec.Title,
		rec.Amount.String(),
		rec.Day,
	}
	return g.appendRow(ctx, incomeFirstCol, incomeLastCol, row)
}

// readColumn fetches a single-column reference list, skipping blanks.
func (g *googleGateway) readColumn(ctx context.Context, rng string) ([]string, error) {
	start := time.Now()
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		MajorDimension("COLUMNS").
		Context(ctx).Do()
	logger.SHEETS.Log(ctx, levelFor(err), "read column",
		slog.String("event", "sheet.read"),
		slog.String("range", rng),
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.Took(start)),
	)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	var out []string
	if len(resp.Values) > 0 {
		for _, v := range resp.Values[0] {
			s := fmt.Sprint(v)
			if s == "" {
				continue
			}
			out = append(out, s)
		}
	}
	return out, nil
}

// nextFreeRow finds the first unoccupied row of a record region in the
// current month tab.
func (g *googleGateway) nextFreeRow(ctx context.Context, firstCol string) (int, error) {
	rng := scanRange(g.now(), firstCol)
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		MajorDimension("COLUMNS").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", rng, err)
	}
	if len(resp.Values) == 0 {
		return dataStartRow, nil
	}
	return dataStartRow + len(resp.Values[0]), nil
}

func (g *googleGateway) appendRow(ctx context.Context, firstCol, lastCol string, row []interface{}) error {
	start := time.Now()
	freeRow, err := g.nextFreeRow(ctx, firstCol)
	if err != nil {
		return err
	}

	rng := rowRange(g.now(), firstCol, lastCol, freeRow)
	vr := &gsheets.ValueRange{Values: [][]interface{}{row}}
	_, err = g.svc.Spreadsheets.Values.Update(g.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	logger.SHEETS.Log(ctx, levelFor(err), "append row",
		slog.String("event", "sheet.append"),
		slog.String("range", rng),
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.Took(start)),
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", rng, err)
	}
	return nil
}

func levelFor(err error) slog.Level {
	if err != nil {
		return slog.LevelError
	}
	return slog.LevelDebug
}
