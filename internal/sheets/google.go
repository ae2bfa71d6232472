package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// GoogleConfig selects the spreadsheet and how to authenticate against it.
// A credentials file (service account) is required for appends; an API key
// only allows reads of shared spreadsheets.
type GoogleConfig struct {
	SpreadsheetID   string
	APIKey          string
	CredentialsFile string
}

// GoogleStore talks to the Google Sheets values API.
type GoogleStore struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	log           *zap.Logger
}

// NewGoogleStore builds a store for cfg. Extra client options are applied
// after the credential options.
func NewGoogleStore(ctx context.Context, cfg GoogleConfig, log *zap.Logger, extra ...option.ClientOption) (*GoogleStore, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("sheets: spreadsheet id required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts,
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(sheetsapi.SpreadsheetsScope),
		)
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	case len(extra) == 0:
		return nil, errors.New("sheets: api key or credentials file required")
	}
	opts = append(opts, extra...)

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &GoogleStore{svc: svc, spreadsheetID: cfg.SpreadsheetID, log: log}, nil
}

func (g *GoogleStore) Read(ctx context.Context, table string) (Table, error) {
	start := time.Now()
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, table).Context(ctx).Do()
	if err != nil {
		return Table{}, g.wrap("read", table, err)
	}
	g.log.Debug("sheet read",
		zap.String("table", table),
		zap.Int("rows", len(resp.Values)),
		zap.Duration("took", time.Since(start)),
	)
	return split(table, cellStrings(resp.Values)), nil
}

func (g *GoogleStore) Append(ctx context.Context, table string, row []string) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{toInterfaces(row)}}
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, table, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return g.wrap("append", table, err)
	}
	g.log.Info("sheet append", zap.String("table", table), zap.Int("cells", len(row)))
	return nil
}

func (g *GoogleStore) EnsureHeaders(ctx context.Context, table string, headers []string) error {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, table+"!1:1").Context(ctx).Do()
	if err != nil {
		werr := g.wrap("headers", table, err)
		if !errors.Is(werr, ErrUnknownTable) {
			return werr
		}
		if err := g.addSheet(ctx, table); err != nil {
			return err
		}
		resp = &sheetsapi.ValueRange{}
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{toInterfaces(headers)}}
	_, err = g.svc.Spreadsheets.Values.Update(g.spreadsheetID, table+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return g.wrap("headers", table, err)
	}
	g.log.Info("sheet headers written", zap.String("table", table))
	return nil
}

func (g *GoogleStore) addSheet(ctx context.Context, table string) error {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: table},
			},
		}},
	}
	if _, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return g.wrap("add sheet", table, err)
	}
	g.log.Info("sheet created", zap.String("table", table))
	return nil
}

// wrap maps a missing range onto ErrUnknownTable and names the table.
func (g *GoogleStore) wrap(op, table string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest &&
		strings.Contains(apiErr.Message, "Unable to parse range") {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	g.log.Warn("sheets api error", zap.String("op", op), zap.String("table", table), zap.Error(err))
	return fmt.Errorf("%s %s: %w", op, table, err)
}

func cellStrings(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		out[i] = cells
	}
	return out
}

func toInterfaces(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, c := range row {
		out[i] = c
	}
	return out
}
