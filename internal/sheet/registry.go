// Package sheet reads the tracking sheet and filters rows to ready-to-publish
// items.
package sheet

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogsmith/internal/logfields"
)

// ValuesFetcher retrieves the full tabular snapshot for a sheet range.
// Implemented by the Google Sheets adapter in google.go and by test fakes.
type ValuesFetcher interface {
	Values(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)
}

// Registry turns sheet rows into publishable Items.
type Registry struct {
	fetcher         ValuesFetcher
	spreadsheetID   string
	sheetName       string
	requireApproval bool
	now             func() time.Time
}

// Option adjusts registry construction.
type Option func(*Registry)

// WithClock overrides the readiness clock; tests pin "today" with it.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithoutApproval disables the approval gate (forced runs).
func WithoutApproval() Option {
	return func(r *Registry) { r.requireApproval = false }
}

// NewRegistry creates a registry over the given snapshot source.
func NewRegistry(fetcher ValuesFetcher, spreadsheetID, sheetName string, opts ...Option) *Registry {
	r := &Registry{
		fetcher:         fetcher,
		spreadsheetID:   spreadsheetID,
		sheetName:       sheetName,
		requireApproval: true,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadyItems fetches the snapshot and returns the ordered items that satisfy
// the readiness predicate: approved AND valid reference AND date reached.
// Rows with unparseable dates are excluded, never fatal.
func (r *Registry) ReadyItems(ctx context.Context) ([]Item, error) {
	rows, err := r.fetcher.Values(ctx, r.spreadsheetID, r.sheetName+"!A:Z")
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		slog.Info("No data rows in tracking sheet", slog.Int("rows", len(rows)))
		return nil, nil
	}

	s, err := resolveSchema(rows[0])
	if err != nil {
		return nil, err
	}

	var ready []Item
	for i, row := range rows[1:] {
		item := Item{
			RowIndex:    i + 2, // +2 for the header row and 1-based numbering
			PostURL:     cell(row, s.url),
			Approved:    strings.EqualFold(cell(row, s.approval), "YES"),
			PublishDate: cell(row, s.date),
			Title:       cell(row, titleColumn),
			Client:      cell(row, clientColumn),
			Keywords:    cell(row, keywordsColumn),
			Raw:         row,
		}
		if r.isReady(item) {
			ready = append(ready, item)
		}
	}

	slog.Info("Tracking sheet scanned",
		slog.Int("rows", len(rows)-1),
		slog.Int("ready", len(ready)))
	return ready, nil
}

func (r *Registry) isReady(item Item) bool {
	// Skip rows that are entirely blank without logging noise.
	if item.PostURL == "" && item.PublishDate == "" && !item.Approved {
		return false
	}

	approved := item.Approved || !r.requireApproval
	validURL := item.hasValidURL()
	dateOK := r.dateReady(item)

	slog.Debug("Row readiness",
		logfields.Row(item.RowIndex),
		logfields.Title(item.Title),
		slog.Bool("approved", approved),
		slog.Bool("valid_url", validURL),
		slog.Bool("date_ready", dateOK))

	switch {
	case approved && validURL && dateOK:
		slog.Info("Row ready for publishing", logfields.Row(item.RowIndex), logfields.Title(item.Title))
		return true
	case approved && validURL:
		slog.Info("Row approved but scheduled for the future",
			logfields.Row(item.RowIndex), slog.String("publish_date", item.PublishDate))
	case approved && !validURL:
		slog.Warn("Approved row missing a valid document URL", logfields.Row(item.RowIndex))
	case !approved && validURL && dateOK:
		slog.Info("Row ready but not approved", logfields.Row(item.RowIndex))
	}
	return false
}

func (r *Registry) dateReady(item Item) bool {
	if item.PublishDate == "" {
		return false
	}
	d, err := ParseDate(item.PublishDate)
	if err != nil {
		slog.Warn("Invalid publish date, excluding row",
			logfields.Row(item.RowIndex),
			slog.String("publish_date", item.PublishDate),
			logfields.Error(err))
		return false
	}
	return dateReached(d, r.now())
}
