// Package sheets appends consumed advisories to a Google Spreadsheet, giving
// the household a browsable audit trail outside the app.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"kharcha/internal/alerts"
	"kharcha/internal/log"
)

// Credentials locates the OAuth client and token, inline JSON taking
// precedence over files.
type Credentials struct {
	ClientFile string
	TokenFile  string
	ClientJSON string
	TokenJSON  string
}

// Appender writes advisory rows to one sheet of one spreadsheet.
type Appender struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

// NewAppender builds a Sheets service from user OAuth credentials. The token
// file is produced by cmd/oauth-init.
func NewAppender(ctx context.Context, spreadsheetID, sheetName string, creds Credentials, logger *log.Logger) (*Appender, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if sheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	clientJSON, err := loadJSON(creds.ClientJSON, creds.ClientFile)
	if err != nil {
		return nil, fmt.Errorf("load OAuth client: %w", err)
	}
	tokenJSON, err := loadJSON(creds.TokenJSON, creds.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("load OAuth token: %w", err)
	}

	cfg, err := google.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse OAuth client: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("parse OAuth token: %w", err)
	}

	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(cfg.Client(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Appender{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger.WithComponent(log.ComponentSheets),
	}, nil
}

// Append adds one advisory row: timestamp, severity, category, message.
func (a *Appender) Append(ctx context.Context, msg *alerts.AdvisoryMessage) error {
	vr := &gsheet.ValueRange{
		Values: [][]any{{
			msg.Timestamp.Format(time.RFC3339),
			string(msg.Severity),
			string(msg.Category),
			msg.Message,
		}},
	}
	rng := fmt.Sprintf("%s!A:D", a.sheetName)

	_, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append advisory to %s: %w", a.sheetName, err)
	}

	a.logger.InfoContext(ctx, "advisory appended",
		log.FieldSeverity, string(msg.Severity),
		log.FieldCategory, string(msg.Category))
	return nil
}

func loadJSON(inline, file string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}
	if file != "" {
		return os.ReadFile(file)
	}
	return nil, errors.New("no inline JSON or file path provided")
}
