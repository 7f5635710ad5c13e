// Package acquire runs one acquisition: bootstrap the session, submit every
// planned search and, in deep mode, harvest each listing.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jmylchreest/surrogate/internal/bootstrap"
	"github.com/jmylchreest/surrogate/internal/harvest"
	"github.com/jmylchreest/surrogate/internal/logger"
	"github.com/jmylchreest/surrogate/internal/portal"
	"github.com/jmylchreest/surrogate/internal/record"
	"github.com/jmylchreest/surrogate/internal/search"
)

// Bootstrapper brings a fresh session to a search form.
type Bootstrapper interface {
	Run(ctx context.Context, entry portal.Entry) (bootstrap.Stage, error)
}

// Searcher submits one search and returns its listing.
type Searcher interface {
	Search(ctx context.Context, q search.Query) ([]record.SearchRow, error)
}

// Harvester follows a listing's rows into their case details.
type Harvester interface {
	Harvest(ctx context.Context, rows []record.SearchRow, sink harvest.Sink) (int, error)
}

// Request describes a run. Template carries the search kind and fields;
// its Jurisdiction is replaced by each entry of Jurisdictions.
type Request struct {
	Template      search.Query
	Jurisdictions []string

	// ChunkDays splits a file_info date range into windows of this many
	// days. Zero searches the whole range at once.
	ChunkDays int

	Deep bool
}

// Plan expands r into the searches it will submit, in order. A file_info
// request with a missing to-date searches the from-date alone.
func (r Request) Plan() ([]search.Query, error) {
	if len(r.Jurisdictions) == 0 {
		return nil, fmt.Errorf("%w: no jurisdiction given", search.ErrInvalidQuery)
	}

	var windows []search.Window
	if r.Template.Kind == search.FileInfo {
		var err error
		windows, err = search.Chunks(r.Template.FromDate, r.Template.ToDate, r.ChunkDays)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", search.ErrInvalidQuery, err)
		}
	}

	var plan []search.Query
	for _, j := range r.Jurisdictions {
		q := r.Template
		q.Jurisdiction = strings.TrimSpace(j)
		if court, _, ok := portal.CourtCode(q.Jurisdiction); ok {
			q.Jurisdiction = court
		}
		if windows == nil {
			plan = append(plan, q)
			continue
		}
		for _, w := range windows {
			q.FromDate, q.ToDate = w.FormFrom(), w.FormTo()
			plan = append(plan, q)
		}
	}
	return plan, nil
}

// Entry returns the search form the session should open first.
func (r Request) Entry() portal.Entry {
	if slices.Contains([]search.Kind{search.NamePerson, search.NameOrg}, r.Template.Kind) {
		return portal.NameEntry
	}
	return portal.FileEntry
}

// Runner drives the pipeline stages in sequence.
type Runner struct {
	boot     Bootstrapper
	searcher Searcher
	harvest  Harvester
}

// NewRunner creates a runner. harvester may be nil for shallow runs.
func NewRunner(boot Bootstrapper, searcher Searcher, harvester Harvester) *Runner {
	return &Runner{boot: boot, searcher: searcher, harvest: harvester}
}

// Run executes req and records everything into c. A failed search is
// logged and the next one proceeds. Run returns an error only if nothing
// could be searched or ctx ends.
func (r *Runner) Run(ctx context.Context, req Request, c *Collector) error {
	plan, err := req.Plan()
	if err != nil {
		return err
	}
	if req.Deep && r.harvest == nil {
		return errors.New("deep harvest requested without a harvester")
	}

	stage, err := r.boot.Run(ctx, req.Entry())
	if err != nil {
		return err
	}
	if stage == bootstrap.Degraded {
		logger.Warn("session is degraded, searching anyway")
	}

	for i, q := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Info("search request", "n", i+1, "of", len(plan), "jurisdiction", q.Jurisdiction)

		rows, err := r.searcher.Search(ctx, q)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			logger.Error("search failed", "jurisdiction", q.Jurisdiction, "from", q.FromDate, "to", q.ToDate, "error", err)
			c.Fail(q.Jurisdiction)
			continue
		}
		c.AddRows(rows)

		if !req.Deep || len(rows) == 0 {
			continue
		}
		n, err := r.harvest.Harvest(ctx, rows, c)
		logger.Info("harvest complete", "jurisdiction", q.Jurisdiction, "cases", n)
		if err != nil {
			return err
		}
	}
	return nil
}
