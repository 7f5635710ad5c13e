// Package harvest follows search result rows into their file history pages
// and optionally downloads each case's documents.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/jmylchreest/surrogate/internal/browser"
	"github.com/jmylchreest/surrogate/internal/extract"
	"github.com/jmylchreest/surrogate/internal/logger"
	"github.com/jmylchreest/surrogate/internal/portal"
	"github.com/jmylchreest/surrogate/internal/record"
)

// Config holds deep harvest settings.
type Config struct {
	// MaxRows caps the rows followed per listing. Zero means no cap.
	MaxRows int

	Download    bool
	DownloadDir string
	// DownloadPause separates one retrieval's end from the next one's start.
	DownloadPause time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DownloadDir:   "downloads",
		DownloadPause: 500 * time.Millisecond,
	}
}

// errListingLost means the session fell back to a gatekeeping page while
// returning to the result listing.
var errListingLost = errors.New("result listing lost")

// Retriever saves one document at path and returns its size.
type Retriever interface {
	Retrieve(ctx context.Context, documentID, path string) (int, error)
}

// Sink receives finished cases.
type Sink interface {
	AddCase(c record.CaseDetail)
}

// Harvester walks a result listing row by row on the session's active tab.
type Harvester struct {
	config    Config
	state     *portal.State
	retriever Retriever
	limiter   *rate.Limiter
	log       *slog.Logger
}

// New creates a harvester. retriever may be nil when downloads are off.
func New(state *portal.State, retriever Retriever, cfg Config) *Harvester {
	limit := rate.Inf
	if cfg.DownloadPause > 0 {
		limit = rate.Every(cfg.DownloadPause)
	}
	return &Harvester{
		config:    cfg,
		state:     state,
		retriever: retriever,
		limiter:   rate.NewLimiter(limit, 1),
		log:       logger.Component("harvest"),
	}
}

// Harvest visits every followable row of the listing currently shown and
// hands each case to sink. It returns the number of cases emitted. Rows
// that fail are logged and skipped; only cancellation stops the walk early.
func (h *Harvester) Harvest(ctx context.Context, rows []record.SearchRow, sink Sink) (int, error) {
	if h.config.MaxRows > 0 && len(rows) > h.config.MaxRows {
		h.log.Info("limiting rows", "rows", len(rows), "limit", h.config.MaxRows)
		rows = rows[:h.config.MaxRows]
	}

	q := NewRowQueue()
	for _, row := range rows {
		switch {
		case !row.Followable():
			h.log.Warn("row has no detail token, skipping", "file", row.FileNumber)
		case q.IsVisited(row.RowToken):
			h.log.Debug("duplicate row token, skipping", "file", row.FileNumber)
		default:
			q.Add(row)
		}
	}

	total := q.Len()
	emitted := 0
	defer func() { h.state.Phase = portal.Ready }()

	for i := 1; ; i++ {
		row, ok := q.Pop()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return emitted, err
		}

		h.log.Info("processing case", "n", i, "of", total, "file", row.FileNumber)
		c, left, ok := h.visit(ctx, row)
		if ok {
			sink.AddCase(c)
			emitted++
		}

		if left && q.Len() > 0 {
			if err := h.restore(ctx); err != nil {
				h.log.Error("cannot return to results, skipping the rest of the listing",
					"remaining", q.Len(), "error", err)
				return emitted, ctx.Err()
			}
		}
	}

	return emitted, nil
}

// visit opens row's detail page and builds its case. left reports whether
// the listing was navigated away from.
func (h *Harvester) visit(ctx context.Context, row record.SearchRow) (c record.CaseDetail, left, ok bool) {
	tab := h.state.Tab
	h.state.Phase = portal.ViewingDetail

	clicked, err := tab.ClickValue(ctx, row.RowToken)
	if err != nil || !clicked {
		h.log.Warn("detail control not found", "file", row.FileNumber, "error", err)
		return c, false, false
	}

	markup, err := tab.WaitReady(ctx)
	if err != nil || markup == "" {
		h.log.Warn("detail page produced no markup", "file", row.FileNumber, "error", err)
		return c, true, false
	}
	location, err := tab.Location(ctx)
	if err != nil {
		h.log.Debug("detail location unavailable", "file", row.FileNumber, "error", err)
	}

	c = extract.CaseDetail(markup)
	c.MergeRow(row)
	c.DetailPageURL = location
	for i := range c.Documents {
		if c.Documents[i].Retrievable() {
			c.Documents[i].ViewerURL = portal.ViewerURL(c.Documents[i].DocumentID)
		}
	}

	if h.config.Download && h.retriever != nil {
		h.download(ctx, &c, row)
	}

	h.log.Info("case extracted",
		"file", c.FileNumber,
		"parties", len(c.Parties),
		"documents", len(c.Documents),
		"related", len(c.RelatedFiles),
		"downloaded", c.DownloadedCount())
	return c, true, true
}

// download retrieves the case's documents in table order. Each outcome is
// written back onto its document.
func (h *Harvester) download(ctx context.Context, c *record.CaseDetail, row record.SearchRow) {
	folder := Sanitize(row.FileName)
	if folder == "" {
		folder = Sanitize(row.FileNumber)
	}
	dir := filepath.Join(h.config.DownloadDir, folder)
	names := NewNamer()

	for i := range c.Documents {
		doc := &c.Documents[i]
		if !doc.Retrievable() {
			continue
		}
		path := filepath.Join(dir, names.Name(doc.Label, doc.FiledDate))

		if err := h.limiter.Wait(ctx); err != nil {
			h.resolve(doc, "", err)
			continue
		}
		_, err := h.retriever.Retrieve(ctx, doc.DocumentID, path)
		h.resolve(doc, path, err)
		_ = browser.Sleep(ctx, h.config.DownloadPause)
	}
}

func (h *Harvester) resolve(doc *record.DocumentRef, path string, err error) {
	var markErr error
	if err != nil {
		h.log.Warn("document download failed", "document", doc.DocumentID, "label", doc.Label, "error", err)
		markErr = doc.MarkFailed(err)
	} else {
		markErr = doc.MarkDownloaded(path)
	}
	if markErr != nil {
		h.log.Error("recording download outcome", "error", markErr)
	}
}

// restore returns to the result listing. It fails only when the session
// has regressed to a page no row control can be found on.
func (h *Harvester) restore(ctx context.Context) error {
	tab := h.state.Tab
	if err := tab.Back(ctx); err != nil {
		h.log.Warn("returning to results failed", "error", err)
		return nil
	}
	markup, err := tab.WaitReady(ctx)
	if err != nil {
		h.log.Warn("results page not ready", "error", err)
		return nil
	}
	switch page := portal.Classify(markup); page {
	case portal.PageEdgeChallenge, portal.PageWelcome, portal.PageHumanChallenge, portal.PageSearchOptions:
		return fmt.Errorf("%w: session is at %s", errListingLost, page)
	}
	h.state.Phase = portal.Searching
	return nil
}
