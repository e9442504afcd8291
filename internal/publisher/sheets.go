package publisher

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/groundworkusa/trust-events/internal/event"
	"github.com/groundworkusa/trust-events/internal/logger"
)

// clearRange covers every data row below the header.
const clearRange = "A2:Z"

// Sheets publishes snapshots to a Google Sheets spreadsheet using a
// service-account credential.
type Sheets struct {
	service *sheets.Service
	sheetID string
}

// NewSheets builds an authenticated Sheets publisher. The credential JSON
// is a service-account key; authentication failures surface here rather
// than on first use.
func NewSheets(ctx context.Context, credentialsJSON []byte, sheetID string) (*Sheets, error) {
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("google credentials are empty")
	}
	if sheetID == "" {
		return nil, fmt.Errorf("sheet ID is empty")
	}

	jwt, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Sheets{service: service, sheetID: sheetID}, nil
}

// Publish clears every data row and rewrites the sheet from the snapshot,
// header included. Clearing first makes a rerun with the same snapshot a
// no-op in effect: the sheet ends up identical.
func (p *Sheets) Publish(ctx context.Context, snap *event.Snapshot) error {
	if _, err := p.service.Spreadsheets.Values.Clear(p.sheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clearing sheet %s: %w", p.sheetID, err)
	}

	values := append([][]interface{}{header}, snapshotRows(snap)...)
	body := &sheets.ValueRange{Values: values}

	if _, err := p.service.Spreadsheets.Values.Update(p.sheetID, "A1", body).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("updating sheet %s: %w", p.sheetID, err)
	}

	logger.Info("Updated spreadsheet", logger.Fields{
		"sheet_id": p.sheetID,
		"rows":     len(snap.Events),
	})
	return nil
}
