// Package document retrieves a case document through the portal's viewer.
//
// The viewer only opens in a new tab from a form post, sits behind its own
// edge challenge, and serves the PDF inline. Retrieval therefore happens
// inside the browser: open the viewer tab, wait until its location serves
// a PDF, fetch it from within the tab and hand the bytes back.
package document

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/jmylchreest/surrogate/internal/browser"
	"github.com/jmylchreest/surrogate/internal/logger"
	"github.com/jmylchreest/surrogate/internal/portal"
)

// Retrieval failures.
var (
	ErrNoViewer        = errors.New("no viewer tab opened")
	ErrViewerTimeout   = errors.New("viewer did not serve a document in time")
	ErrFetchFailed     = errors.New("document fetch failed")
	ErrPayloadTooSmall = errors.New("document payload too small")
)

// Config holds the retrieval budgets.
type Config struct {
	TabAttempts int
	TabInterval time.Duration

	// The viewer's challenge clears once per session; the first document
	// gets the longer budget.
	FirstClearAttempts int
	ClearAttempts      int
	ClearInterval      time.Duration

	MinBytes int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TabAttempts:        15,
		TabInterval:        time.Second,
		FirstClearAttempts: 60,
		ClearAttempts:      15,
		ClearInterval:      time.Second,
		MinBytes:           100,
	}
}

// Posts the file history form into a new tab with the document id.
const jsOpenViewer = `function(id) {
	var form = document.getElementById('FHForm');
	if (!form) return false;
	var inp = document.createElement('input');
	inp.type = 'hidden';
	inp.name = 'UUIDValue';
	inp.value = id;
	form.appendChild(inp);
	var target = form.target;
	form.target = '_blank';
	form.submit();
	form.removeChild(inp);
	form.target = target;
	return true;
}`

const jsContentType = `fetch(window.location.href)
	.then(function(r) { return r.headers.get('content-type') || ''; })
	.catch(function() { return 'error'; })`

const jsFetchPayload = `(async function() {
	try {
		var resp = await fetch(window.location.href);
		var blob = await resp.blob();
		return await new Promise(function(resolve) {
			var reader = new FileReader();
			reader.onload = function() { resolve({ok: true, size: blob.size, data: reader.result}); };
			reader.onerror = function() { resolve({ok: false, error: 'read failed'}); };
			reader.readAsDataURL(blob);
		});
	} catch (e) {
		return {ok: false, error: e.toString()};
	}
})()`

type payload struct {
	OK    bool   `json:"ok"`
	Size  int    `json:"size"`
	Data  string `json:"data"`
	Error string `json:"error"`
}

// Retriever downloads documents through viewer tabs opened from the
// session's active tab, one at a time.
type Retriever struct {
	config Config
	state  *portal.State
	fs     afero.Fs
}

// NewRetriever creates a retriever that writes into fs.
func NewRetriever(state *portal.State, fs afero.Fs, cfg Config) *Retriever {
	return &Retriever{config: cfg, state: state, fs: fs}
}

// Retrieve saves the document with documentID at path and returns its size.
// The active tab must be showing the case's file history. Every tab the
// attempt opened is closed before Retrieve returns.
func (r *Retriever) Retrieve(ctx context.Context, documentID, path string) (int, error) {
	tab := r.state.Tab
	before, err := tab.Tabs(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoViewer, err)
	}
	defer r.closeNewTabs(context.WithoutCancel(ctx), before)

	id, _ := json.Marshal(documentID)
	var posted bool
	if err := tab.Evaluate(ctx, "("+jsOpenViewer+")("+string(id)+")", &posted); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoViewer, err)
	}
	if !posted {
		return 0, fmt.Errorf("%w: file history form not on page", ErrNoViewer)
	}

	viewer, err := r.awaitViewer(ctx, before)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := viewer.Release(); err != nil {
			logger.Debug("failed to release viewer tab", "tab", viewer.ID(), "error", err)
		}
	}()
	if err := r.awaitDocument(ctx, viewer, documentID); err != nil {
		return 0, err
	}

	data, err := r.fetch(ctx, viewer)
	if err != nil {
		return 0, err
	}
	if len(data) < r.config.MinBytes {
		return 0, fmt.Errorf("%w: %d bytes", ErrPayloadTooSmall, len(data))
	}

	if err := r.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(r.fs, path, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Info("document saved", "path", path, "size", humanize.Bytes(uint64(len(data))))
	return len(data), nil
}

func (r *Retriever) awaitViewer(ctx context.Context, before []browser.TabInfo) (browser.Session, error) {
	tab := r.state.Tab
	var opened string
	browser.Poll(ctx, r.config.TabAttempts, r.config.TabInterval, func(int) bool {
		after, err := tab.Tabs(ctx)
		if err != nil {
			return false
		}
		if fresh := browser.NewTabs(before, after); len(fresh) > 0 {
			opened = fresh[0].ID
			return true
		}
		return false
	})
	if opened == "" {
		return nil, ErrNoViewer
	}

	viewer, err := tab.Attach(ctx, opened)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoViewer, err)
	}
	return viewer, nil
}

// awaitDocument waits for the viewer's location to serve a PDF.
func (r *Retriever) awaitDocument(ctx context.Context, viewer browser.Session, documentID string) error {
	attempts := r.config.FirstClearAttempts
	if r.state.ViewerCleared {
		attempts = r.config.ClearAttempts
	}

	ok := browser.Poll(ctx, attempts, r.config.ClearInterval, func(attempt int) bool {
		var contentType string
		if err := viewer.EvaluatePromise(ctx, jsContentType, &contentType); err != nil {
			return false
		}
		if !strings.Contains(strings.ToLower(contentType), "pdf") {
			return false
		}
		if !r.state.ViewerCleared {
			logger.Info("viewer challenge cleared", "after", r.config.ClearInterval*time.Duration(attempt+1))
			r.state.ViewerCleared = true
		}
		return true
	})
	if !ok {
		return fmt.Errorf("%w: document %s after %d attempts", ErrViewerTimeout, documentID, attempts)
	}
	return nil
}

func (r *Retriever) fetch(ctx context.Context, viewer browser.Session) ([]byte, error) {
	var p payload
	if err := viewer.EvaluatePromise(ctx, jsFetchPayload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if !p.OK || p.Data == "" {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, p.Error)
	}

	_, encoded, found := strings.Cut(p.Data, ",")
	if !found {
		return nil, fmt.Errorf("%w: payload is not a data URL", ErrFetchFailed)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return data, nil
}

func (r *Retriever) closeNewTabs(ctx context.Context, before []browser.TabInfo) {
	tab := r.state.Tab
	after, err := tab.Tabs(ctx)
	if err != nil {
		logger.Debug("could not list tabs for cleanup", "error", err)
		return
	}
	for _, t := range browser.NewTabs(before, after) {
		if err := tab.CloseTab(ctx, t.ID); err != nil {
			logger.Debug("failed to close viewer tab", "tab", t.ID, "error", err)
		}
	}
}
