// Package sheets implements persistence.TabularStore on a Google Sheets workbook.
// Each table is a worksheet of the same name.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/club-attendance/internal/persistence"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// valuesAPI is the subset of the Sheets values API used by the store.
type valuesAPI interface {
	Get(ctx context.Context, spreadsheetID, a1Range string) ([][]any, error)
	Append(ctx context.Context, spreadsheetID, a1Range string, values [][]any) error
	Update(ctx context.Context, spreadsheetID, a1Range string, values [][]any) error
	Clear(ctx context.Context, spreadsheetID, a1Range string) error
}

// Store talks to a single spreadsheet.
type Store struct {
	spreadsheetID string
	values        valuesAPI
}

// Open authenticates with the service-account credentials file and returns a
// store bound to the spreadsheet. The resulting client is reused for the
// lifetime of the process.
func Open(ctx context.Context, spreadsheetID, credentialsFile string) (*Store, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("sheets: spreadsheet id is required")
	}
	if strings.TrimSpace(credentialsFile) == "" {
		return nil, errors.New("sheets: credentials file is required")
	}

	service, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	return newStore(spreadsheetID, &serviceValues{service: service.Spreadsheets.Values}), nil
}

func newStore(spreadsheetID string, values valuesAPI) *Store {
	return &Store{spreadsheetID: spreadsheetID, values: values}
}

// ReadRows returns every populated row of the worksheet.
func (s *Store) ReadRows(ctx context.Context, table string) ([][]string, error) {
	raw, err := s.values.Get(ctx, s.spreadsheetID, sheetRange(table))
	if err != nil {
		return nil, mapError(table, "read rows", err)
	}
	rows := make([][]string, len(raw))
	for i, row := range raw {
		converted := make([]string, len(row))
		for j, cell := range row {
			converted[j] = cellString(cell)
		}
		rows[i] = converted
	}
	return rows, nil
}

// AppendRow inserts the row after the last populated row of the worksheet.
func (s *Store) AppendRow(ctx context.Context, table string, row []string) error {
	if err := s.values.Append(ctx, s.spreadsheetID, sheetRange(table), [][]any{toInterfaces(row)}); err != nil {
		return mapError(table, "append row", err)
	}
	return nil
}

// UpdateCell writes a single cell addressed by 1-based row and column.
func (s *Store) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("sheets: %s R%dC%d: %w", table, row, col, persistence.ErrInvalidCell)
	}
	a1 := fmt.Sprintf("%s!%s%d", quoteSheet(table), ColumnLetters(col), row)
	if err := s.values.Update(ctx, s.spreadsheetID, a1, [][]any{{value}}); err != nil {
		return mapError(table, "update cell", err)
	}
	return nil
}

// ReplaceRows clears the worksheet and writes rows starting at A1.
func (s *Store) ReplaceRows(ctx context.Context, table string, rows [][]string) error {
	if err := s.values.Clear(ctx, s.spreadsheetID, sheetRange(table)); err != nil {
		return mapError(table, "clear", err)
	}
	if len(rows) == 0 {
		return nil
	}
	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = toInterfaces(row)
	}
	if err := s.values.Update(ctx, s.spreadsheetID, quoteSheet(table)+"!A1", values); err != nil {
		return mapError(table, "write rows", err)
	}
	return nil
}

// ColumnLetters converts a 1-based column index to A1 notation letters.
func ColumnLetters(col int) string {
	if col < 1 {
		return ""
	}
	var letters []byte
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return string(letters)
}

func sheetRange(table string) string {
	return quoteSheet(table)
}

func quoteSheet(table string) string {
	return "'" + strings.ReplaceAll(table, "'", "''") + "'"
}

func toInterfaces(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func mapError(table, operation string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range") {
			return fmt.Errorf("sheets: %s: %w", table, persistence.ErrTableNotFound)
		}
	}
	return fmt.Errorf("sheets: %s %s: %w: %v", operation, table, persistence.ErrUnavailable, err)
}

type serviceValues struct {
	service *sheetsapi.SpreadsheetsValuesService
}

func (v *serviceValues) Get(ctx context.Context, spreadsheetID, a1Range string) ([][]any, error) {
	resp, err := v.service.Get(spreadsheetID, a1Range).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (v *serviceValues) Append(ctx context.Context, spreadsheetID, a1Range string, values [][]any) error {
	_, err := v.service.Append(spreadsheetID, a1Range, &sheetsapi.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (v *serviceValues) Update(ctx context.Context, spreadsheetID, a1Range string, values [][]any) error {
	_, err := v.service.Update(spreadsheetID, a1Range, &sheetsapi.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (v *serviceValues) Clear(ctx context.Context, spreadsheetID, a1Range string) error {
	_, err := v.service.Clear(spreadsheetID, a1Range, &sheetsapi.ClearValuesRequest{}).Context(ctx).Do()
	return err
}
