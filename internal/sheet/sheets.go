package sheet

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2/google"

	"github.com/ArtOfDelight/ONfinal/internal/types"
)

const (
	sheetsBaseURL = "https://sheets.googleapis.com/v4"
	driveFilesURL = "https://www.googleapis.com/drive/v3/files"

	scopeSpreadsheets  = "https://www.googleapis.com/auth/spreadsheets"
	scopeDriveReadonly = "https://www.googleapis.com/auth/drive.readonly"
)

// SheetsClient talks to the Google Sheets v4 REST API with a service
// account. One client serves every worksheet of one spreadsheet.
type SheetsClient struct {
	http          *resty.Client
	spreadsheetID string
	logger        *slog.Logger
}

// NewSheetsClient authenticates with the service-account credentials file
// and resolves the spreadsheet. If spreadsheetID is empty the spreadsheet
// is looked up by title through the Drive API, matching how the sheet has
// always been addressed operationally.
func NewSheetsClient(ctx context.Context, credentialsFile, spreadsheetID, title string, logger *slog.Logger) (*SheetsClient, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, &types.StoreError{Op: "open", Name: title, Err: fmt.Errorf("read credentials: %w", err)}
	}

	jwt, err := google.JWTConfigFromJSON(data, scopeSpreadsheets, scopeDriveReadonly)
	if err != nil {
		return nil, &types.StoreError{Op: "open", Name: title, Err: fmt.Errorf("parse credentials: %w", err)}
	}

	c := &SheetsClient{
		http: resty.NewWithClient(jwt.Client(ctx)).
			SetTimeout(30 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(2 * time.Second),
		spreadsheetID: spreadsheetID,
		logger:        logger.With("component", "sheets_client"),
	}

	if c.spreadsheetID == "" {
		id, err := c.lookupByTitle(ctx, title)
		if err != nil {
			return nil, err
		}
		c.spreadsheetID = id
	}

	c.logger.Info("google sheets connected", "spreadsheet_id", c.spreadsheetID)
	return c, nil
}

// lookupByTitle resolves a spreadsheet ID from its Drive file name.
func (c *SheetsClient) lookupByTitle(ctx context.Context, title string) (string, error) {
	var result struct {
		Files []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"files"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", fmt.Sprintf("name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet'", title)).
		SetQueryParam("fields", "files(id,name)").
		SetResult(&result).
		Get(driveFilesURL)
	if err != nil {
		return "", &types.StoreError{Op: "open", Name: title, Err: err}
	}
	if resp.IsError() {
		return "", &types.StoreError{Op: "open", Name: title, Err: fmt.Errorf("drive lookup: %s", resp.Status())}
	}
	if len(result.Files) == 0 {
		return "", &types.StoreError{Op: "open", Name: title, Err: fmt.Errorf("spreadsheet %q not found", title)}
	}
	return result.Files[0].ID, nil
}

// Worksheet returns a Store bound to one worksheet of the spreadsheet.
func (c *SheetsClient) Worksheet(name string) Store {
	return &worksheet{client: c, name: name}
}

type worksheet struct {
	client *SheetsClient
	name   string
}

func (w *worksheet) Name() string { return w.name }

func (w *worksheet) ReadAllRows(ctx context.Context) ([][]string, error) {
	var result struct {
		Values [][]any `json:"values"`
	}

	rangeRef := url.PathEscape(w.name)
	resp, err := w.client.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("%s/spreadsheets/%s/values/%s", sheetsBaseURL, w.client.spreadsheetID, rangeRef))
	if err != nil {
		return nil, &types.StoreError{Op: "read", Name: w.name, Err: err}
	}
	if resp.IsError() {
		return nil, &types.StoreError{Op: "read", Name: w.name, Err: fmt.Errorf("values.get: %s", resp.Status())}
	}

	rows := make([][]string, len(result.Values))
	for i, raw := range result.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = fmt.Sprint(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

func (w *worksheet) AppendRow(ctx context.Context, row []string) error {
	cells := make([]any, len(row))
	for i, v := range row {
		cells[i] = v
	}

	rangeRef := url.PathEscape(w.name)
	resp, err := w.client.http.R().
		SetContext(ctx).
		SetQueryParam("valueInputOption", "USER_ENTERED").
		SetQueryParam("insertDataOption", "INSERT_ROWS").
		SetBody(map[string]any{"values": []any{cells}}).
		Post(fmt.Sprintf("%s/spreadsheets/%s/values/%s:append", sheetsBaseURL, w.client.spreadsheetID, rangeRef))
	if err != nil {
		return &types.StoreError{Op: "append", Name: w.name, Err: err}
	}
	if resp.IsError() {
		return &types.StoreError{Op: "append", Name: w.name, Err: fmt.Errorf("values.append: %s", resp.Status())}
	}
	return nil
}

func (w *worksheet) Close() error { return nil }
