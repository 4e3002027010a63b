package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aadykin95/telegram-food-bot-render/models"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type SheetsConfig struct {
	CredentialsJSON []byte
	SpreadsheetID   string // wins over SpreadsheetName
	SpreadsheetName string
	SheetName       string
}

// SheetsLogStore appends rows to a Google Sheets worksheet.
type SheetsLogStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheet         string
}

// NewSheetsLogStore opens the spreadsheet, looking it up by name on Drive
// when no id is configured, and writes the header into an empty sheet.
// Extra options are appended after the credentials (tests point the
// client at a fake endpoint this way).
func NewSheetsLogStore(ctx context.Context, cfg SheetsConfig, opts ...option.ClientOption) (*SheetsLogStore, error) {
	base := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope, drive.DriveMetadataReadonlyScope)}
	if len(cfg.CredentialsJSON) > 0 {
		base = append(base, option.WithCredentialsJSON(cfg.CredentialsJSON))
	}
	opts = append(base, opts...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}

	id := cfg.SpreadsheetID
	if id == "" {
		id, err = findSpreadsheet(ctx, cfg.SpreadsheetName, opts)
		if err != nil {
			return nil, err
		}
	}

	s := &SheetsLogStore{svc: svc, spreadsheetID: id, sheet: cfg.SheetName}
	if err := s.ensureHeader(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func findSpreadsheet(ctx context.Context, name string, opts []option.ClientOption) (string, error) {
	if name == "" {
		return "", errors.New("spreadsheet id or name is required")
	}
	dsvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("drive client: %w", err)
	}
	q := fmt.Sprintf("name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`))
	res, err := dsvc.Files.List().Q(q).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("find spreadsheet %q: %w", name, err)
	}
	if len(res.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found or not shared with the service account", name)
	}
	return res.Files[0].Id, nil
}

func (s *SheetsLogStore) ensureHeader(ctx context.Context) error {
	rng := s.a1() + "!A1:L1"
	got, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", s.sheet, err)
	}
	if len(got.Values) > 0 {
		return nil
	}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, &sheets.ValueRange{
		Values: [][]interface{}{toCells(models.LogHeader)},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

func (s *SheetsLogStore) Append(ctx context.Context, rec *models.LogRecord) error {
	// RAW: cells must read back exactly as Row() wrote them
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.a1(), &sheets.ValueRange{
		Values: [][]interface{}{toCells(rec.Row())},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// ReadRows returns every row below the header, padded to the full width.
func (s *SheetsLogStore) ReadRows(ctx context.Context) ([][]string, error) {
	got, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.a1()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", s.sheet, err)
	}
	if len(got.Values) <= 1 {
		return nil, nil
	}

	rows := make([][]string, 0, len(got.Values)-1)
	for _, vals := range got.Values[1:] {
		row := make([]string, max(models.ColumnCount, len(vals)))
		for i, v := range vals {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// a1 quotes the sheet name for use in A1 ranges: food log -> 'food log'.
func (s *SheetsLogStore) a1() string {
	return "'" + strings.ReplaceAll(s.sheet, "'", "''") + "'"
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
