package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finboard/finboard/internal/config"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Publisher writes tabular report output into one tab of a spreadsheet.
type Publisher struct {
	svc           *gsheet.Service
	spreadsheetId string
}

// NewPublisher authenticates with the service account credentials named in cfg.
func NewPublisher(ctx context.Context, cfg config.Sheets) (*Publisher, error) {
	if strings.TrimSpace(cfg.SpreadsheetId) == "" {
		return nil, errors.New("missing sheets.spreadsheetid")
	}
	opts := []option.ClientOption{option.WithScopes(gsheet.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return NewPublisherWithService(svc, cfg.SpreadsheetId), nil
}

func NewPublisherWithService(svc *gsheet.Service, spreadsheetId string) *Publisher {
	return &Publisher{svc: svc, spreadsheetId: spreadsheetId}
}

// Publish replaces the content of the tab named title with rows, starting at A1.
func (p *Publisher) Publish(ctx context.Context, title string, rows [][]string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("sheet title must not be empty")
	}
	sheetRange := quoteTitle(title)

	_, err := p.svc.Spreadsheets.Values.Clear(p.spreadsheetId, sheetRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		err := fmt.Errorf("unable to clear sheet %s: %w", title, err)
		log.Error(err)
		return err
	}

	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		values = append(values, cells)
	}

	_, err = p.svc.Spreadsheets.Values.Update(p.spreadsheetId, sheetRange+"!A1", &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		err := fmt.Errorf("unable to write sheet %s: %w", title, err)
		log.Error(err)
		return err
	}
	log.Infof("published %d rows to sheet %s", len(rows), title)
	return nil
}

// quoteTitle quotes tab names in A1 notation. Embedded quotes are doubled.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
