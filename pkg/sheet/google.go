package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ethanbaker/hq-console/pkg/record"
	"github.com/ethanbaker/hq-console/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const sheetsAPISource = "sheets_api"

// tokenSavingSource wraps an oauth2.TokenSource and writes refreshed tokens back to disk
type tokenSavingSource struct {
	source    oauth2.TokenSource
	tokenPath string
	lastToken *oauth2.Token
}

// Token returns a valid token, refreshing if necessary and saving to disk
func (t *tokenSavingSource) Token() (*oauth2.Token, error) {
	token, err := t.source.Token()
	if err != nil {
		return nil, err
	}

	if t.lastToken == nil || t.lastToken.AccessToken != token.AccessToken {
		if saveErr := saveToken(t.tokenPath, token); saveErr != nil {
			log.Printf("[SHEET]: Warning, failed to save refreshed token: %v", saveErr)
		}
		t.lastToken = token
	}

	return token, nil
}

// SheetsClient reads and appends rows directly through the Google Sheets API.
// Unlike the Apps Script endpoint every append is confirmed
type SheetsClient struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsClient builds a Sheets API client from the configured credentials.
// With GOOGLE_SHEETS_TOKEN_JSON set the credentials file is an OAuth client and
// the token is refreshed and saved; otherwise it is a service account key
func NewSheetsClient(ctx context.Context, cfg *utils.Config) (*SheetsClient, error) {
	if err := cfg.Require("GOOGLE_SHEETS_CREDENTIALS_JSON", "GOOGLE_SHEETS_SPREADSHEET_ID"); err != nil {
		return nil, err
	}

	credentialsJSON, err := os.ReadFile(cfg.Get("GOOGLE_SHEETS_CREDENTIALS_JSON"))
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var opt option.ClientOption
	if tokenPath := cfg.Get("GOOGLE_SHEETS_TOKEN_JSON"); tokenPath != "" {
		tokenJSON, err := os.ReadFile(tokenPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read token file: %w", err)
		}

		var token oauth2.Token
		if err := json.Unmarshal(tokenJSON, &token); err != nil {
			return nil, fmt.Errorf("failed to parse token JSON: %w", err)
		}

		config, err := google.ConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse credentials: %w", err)
		}

		source := &tokenSavingSource{
			source:    config.TokenSource(ctx, &token),
			tokenPath: tokenPath,
			lastToken: &token,
		}
		opt = option.WithHTTPClient(oauth2.NewClient(ctx, source))
	} else {
		creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
		}
		opt = option.WithCredentials(creds)
	}

	service, err := sheets.NewService(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewSheetsClientWithService(service, cfg.Get("GOOGLE_SHEETS_SPREADSHEET_ID")), nil
}

// NewSheetsClientWithService wraps an existing Sheets service
func NewSheetsClientWithService(service *sheets.Service, spreadsheetID string) *SheetsClient {
	return &SheetsClient{service: service, spreadsheetID: spreadsheetID}
}

// Configured reports whether the client has a spreadsheet to talk to
func (c *SheetsClient) Configured() bool {
	return c.service != nil && c.spreadsheetID != ""
}

// Query reads every data row of the collection's tab and applies the coarse
// filters locally, mirroring the endpoint's server side filtering
func (c *SheetsClient) Query(ctx context.Context, q Query) *QueryResult {
	if !c.Configured() {
		return failedQuery(q, sheetsAPISource, FailureConfigMissing, "spreadsheet is not configured")
	}

	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, sheetRange(q.Collection, "A2:K")).Context(ctx).Do()
	if err != nil {
		log.Printf("[SHEET]: Sheets query of '%s' failed: %v", q.Collection, err)
		return failedQuery(q, sheetsAPISource, FailureTransport, err.Error())
	}

	rows := stringRows(resp.Values)
	filter := record.Filter{Brand: q.Brand, Domain: q.Domain, Text: q.Input}

	var records []*record.Record
	for _, r := range recordsFromRows(rows, q.Kind) {
		if filter.Matches(r) {
			records = append(records, r)
		}
	}
	if records == nil {
		records = []*record.Record{}
	}

	return &QueryResult{
		Records: records,
		Evidence: Evidence{
			Source:       sheetsAPISource,
			Tab:          q.Collection,
			RowsReturned: len(rows),
			QueryUsed:    q.Input,
			Timestamp:    time.Now(),
		},
	}
}

// Append writes one row at the end of the collection's tab
func (c *SheetsClient) Append(ctx context.Context, req AppendRequest) Outcome {
	if !c.Configured() {
		return failedOutcome(FailureConfigMissing, "spreadsheet is not configured")
	}
	if req.Record == nil {
		return failedOutcome(FailureRejected, "no record to append")
	}

	values := &sheets.ValueRange{Values: [][]any{rowFromAppend(req)}}

	resp, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, sheetRange(req.Collection, "A:K"), values).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		log.Printf("[SHEET]: Sheets append of '%s' failed: %v", req.Record.ID, err)
		return failedOutcome(FailureTransport, err.Error())
	}

	if resp.Updates != nil && resp.Updates.UpdatedRows == 0 {
		return failedOutcome(FailureRejected, "no rows were written")
	}

	return Outcome{Success: true, Confirmed: true}
}

// saveToken writes an OAuth2 token to path
func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to save token: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(token)
}

// sheetRange builds an A1 range on tab, quoting the tab name so spaces and
// punctuation survive
func sheetRange(tab, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(tab, "'", "''"), cells)
}
