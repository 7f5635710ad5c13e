package search

import (
	"context"
	"fmt"
	"time"

	"github.com/jmylchreest/surrogate/internal/browser"
	"github.com/jmylchreest/surrogate/internal/extract"
	"github.com/jmylchreest/surrogate/internal/logger"
	"github.com/jmylchreest/surrogate/internal/portal"
	"github.com/jmylchreest/surrogate/internal/record"
)

// Form control identifiers.
const (
	fileCourtSelect      = "CourtSelect"
	fileProceedingSelect = "SelectedProceeding"
	fileSubmitPrimary    = "FileSearchSubmit"
	fileSubmitSecondary  = "FileSearchSubmit2"
	nameCourtSelect      = "CourtId"
)

// Navigator loads a page, recovering the session if it has regressed.
type Navigator interface {
	Navigate(ctx context.Context, url string) (string, error)
}

// Config holds the form pacing budgets.
type Config struct {
	CourtSettle  time.Duration // After choosing a court
	ListAttempts int           // Polls for the proceeding list to populate
	ListInterval time.Duration
	FieldSettle  time.Duration // After the last field, before submitting
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		CourtSettle:  500 * time.Millisecond,
		ListAttempts: 10,
		ListInterval: time.Second,
		FieldSettle:  300 * time.Millisecond,
	}
}

// Dispatcher submits searches on the session's active tab.
type Dispatcher struct {
	config Config
	state  *portal.State
	nav    Navigator
}

// NewDispatcher creates a dispatcher that drives state.Tab.
func NewDispatcher(state *portal.State, nav Navigator, cfg Config) *Dispatcher {
	return &Dispatcher{config: cfg, state: state, nav: nav}
}

// Search runs q and returns the listing rows, each stamped with q's
// jurisdiction. A listing without a results table yields no rows.
func (d *Dispatcher) Search(ctx context.Context, q Query) ([]record.SearchRow, error) {
	court, code, err := q.Validate()
	if err != nil {
		return nil, err
	}
	q.Jurisdiction = court

	d.state.Phase = portal.Searching
	defer func() { d.state.Phase = portal.Ready }()

	logger.Info("search",
		"kind", q.Kind,
		"jurisdiction", q.Jurisdiction,
		"proceeding", q.Proceeding,
		"from", q.FromDate,
		"to", q.ToDate,
		"file_number", q.FileNumber,
		"last_name", q.LastName,
		"organization", q.Organization)

	var markup string
	switch q.Kind {
	case FileInfo, FileNumber:
		markup, err = d.submitFile(ctx, code, q)
	default:
		markup, err = d.submitName(ctx, code, q)
	}
	if err != nil {
		return nil, fmt.Errorf("%s search in %s: %w", q.Kind, q.Jurisdiction, err)
	}

	rows := extract.SearchRows(markup)
	for i := range rows {
		rows[i].Jurisdiction = q.Jurisdiction
	}
	logger.Info("search results", "jurisdiction", q.Jurisdiction, "rows", len(rows))
	return rows, nil
}

func (d *Dispatcher) submitFile(ctx context.Context, code string, q Query) (string, error) {
	if _, err := d.nav.Navigate(ctx, portal.FileSearchURL); err != nil {
		return "", err
	}
	tab := d.state.Tab

	// Choosing a court makes the server repopulate the proceeding list.
	d.setSelect(ctx, tab, fileCourtSelect, code)

	if q.Kind == FileNumber {
		if err := browser.Sleep(ctx, d.config.CourtSettle); err != nil {
			return "", err
		}
		d.setInput(ctx, tab, "FileNumber", q.FileNumber)
	} else {
		populated := browser.Poll(ctx, d.config.ListAttempts, d.config.ListInterval, func(int) bool {
			markup, err := tab.HTML(ctx)
			return err == nil && len(extract.SelectOptions(markup, fileProceedingSelect)) > 1
		})
		if !populated {
			logger.Warn("proceeding list did not populate, selecting anyway", "jurisdiction", q.Jurisdiction)
		}
		d.setSelect(ctx, tab, fileProceedingSelect, q.Proceeding)
		d.setDate(ctx, tab, "FromDateString", q.FromDate)
		d.setDate(ctx, tab, "ToDateString", q.ToDate)
	}

	return d.submit(ctx, tab, fileSubmitPrimary, fileSubmitSecondary)
}

func (d *Dispatcher) submitName(ctx context.Context, code string, q Query) (string, error) {
	if _, err := d.nav.Navigate(ctx, portal.NameSearchURL); err != nil {
		return "", err
	}
	tab := d.state.Tab

	d.setSelect(ctx, tab, nameCourtSelect, code)
	if err := browser.Sleep(ctx, d.config.CourtSettle); err != nil {
		return "", err
	}

	d.setInput(ctx, tab, "LastName", q.LastName)
	d.setInput(ctx, tab, "FirstName", q.FirstName)
	d.setInput(ctx, tab, "Organization", q.Organization)
	d.setDate(ctx, tab, "DeathFromDate", q.DeathFromDate)
	d.setDate(ctx, tab, "DeathToDate", q.DeathToDate)
	d.setDate(ctx, tab, "FileFromDate", q.FileFromDate)
	d.setDate(ctx, tab, "FileToDate", q.FileToDate)

	// The name form has no stable submit id.
	return d.submit(ctx, tab)
}

func (d *Dispatcher) submit(ctx context.Context, tab browser.Session, ids ...string) (string, error) {
	if err := browser.Sleep(ctx, d.config.FieldSettle); err != nil {
		return "", err
	}
	ok, err := tab.Submit(ctx, ids...)
	if err != nil {
		return "", fmt.Errorf("submit: %w", err)
	}
	if !ok {
		logger.Warn("no submit control found", "ids", ids)
	}
	return tab.WaitReady(ctx)
}

func (d *Dispatcher) setSelect(ctx context.Context, tab browser.Session, id, value string) {
	if value == "" {
		return
	}
	if ok, err := tab.SetSelect(ctx, id, value); err != nil || !ok {
		logger.Warn("select control not set", "id", id, "value", value, "error", err)
	}
}

func (d *Dispatcher) setInput(ctx context.Context, tab browser.Session, name, value string) {
	if value == "" {
		return
	}
	if ok, err := tab.SetInput(ctx, name, value); err != nil || !ok {
		logger.Warn("input not set", "name", name, "error", err)
	}
}

// setDate enters an already validated date in form format.
func (d *Dispatcher) setDate(ctx context.Context, tab browser.Session, name, value string) {
	formatted, _ := FormDate(value)
	d.setInput(ctx, tab, name, formatted)
}
