package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/gigboard/internal/config"
)

// Repository is the row-append / range-read contract every booking store implements.
type Repository interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	maxRetries    uint64
	retryInterval time.Duration
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
// Authentication uses the service-account credentials file from the config.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		maxRetries:    cfg.MaxRetries,
		retryInterval: 500 * time.Millisecond,
		logger:        logger,
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range. Values are
// stored as given so dates stay ISO strings whatever the sheet locale.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	err := r.withRetry(ctx, "append", func() error {
		_, err := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
			ValueInputOption("RAW").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// ReadRange fetches a rectangular data range from the spreadsheet. Numbers come
// back as float64 and dates typed into the sheet as serial day numbers.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}

	var values [][]interface{}
	err := r.withRetry(ctx, "read", func() error {
		resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).
			ValueRenderOption("UNFORMATTED_VALUE").
			DateTimeRenderOption("SERIAL_NUMBER").
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		values = resp.Values
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	return values, nil
}

// withRetry retries quota and server errors with exponential backoff. Anything
// else is returned on the first attempt.
func (r *GoogleSheetRepository) withRetry(ctx context.Context, op string, fn func() error) error {
	policy := backoff.NewExponentialBackOff()
	if r.retryInterval > 0 {
		policy.InitialInterval = r.retryInterval
	}
	policy.MaxElapsedTime = 30 * time.Second

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		r.logger.Warn("sheets call failed, retrying", zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, r.maxRetries), ctx))
}

func retryable(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
}
