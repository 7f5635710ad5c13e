// Package browser is the capability surface every pipeline stage drives:
// one tab of a real browser that can navigate, evaluate script, fill and
// submit forms, synthesise pointer input and enumerate sibling tabs.
//
// Operations against a Session are issued one at a time. Nothing in this
// package locks; callers hand the session from stage to stage sequentially.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrNoTab is returned when a tab id does not name an open page.
var ErrNoTab = errors.New("no such tab")

// TabInfo describes one open page target.
type TabInfo struct {
	ID  string
	URL string
}

// Session is one browser tab.
type Session interface {
	// ID returns the tab's target id.
	ID() string

	Navigate(ctx context.Context, url string) error
	Back(ctx context.Context) error

	// Location returns window.location.href.
	Location(ctx context.Context) (string, error)
	// Text returns document.body.innerText.
	Text(ctx context.Context) (string, error)
	// HTML returns the outer markup of the document element.
	HTML(ctx context.Context) (string, error)

	// Evaluate runs a script expression and decodes its value into out.
	Evaluate(ctx context.Context, expr string, out any) error
	// EvaluatePromise is Evaluate for expressions that yield a promise.
	EvaluatePromise(ctx context.Context, expr string, out any) error

	// WaitReady waits for navigation to settle and returns the markup.
	// Running out of attempts is not an error: the last known markup is
	// returned.
	WaitReady(ctx context.Context) (string, error)

	// SetInput sets a field located by name (or id) and dispatches input
	// and change events. It reports whether the field was found.
	SetInput(ctx context.Context, name, value string) (bool, error)
	// SetSelect sets a select control located by id and dispatches change.
	SetSelect(ctx context.Context, id, value string) (bool, error)
	// Submit clicks the first of ids that exists, falling back to the first
	// submit-shaped control on the page.
	Submit(ctx context.Context, ids ...string) (bool, error)
	// ClickID clicks the element with the given id.
	ClickID(ctx context.Context, id string) (bool, error)
	// ClickText clicks the first clickable element whose text is text.
	ClickText(ctx context.Context, text string) (bool, error)
	// ClickValue clicks the row action button carrying value.
	ClickValue(ctx context.Context, value string) (bool, error)
	// MouseClick synthesises a move, press and release at viewport
	// coordinates. Unlike the Click methods this reaches into frames.
	MouseClick(ctx context.Context, x, y float64) error

	// Tabs lists the open page targets of the browser.
	Tabs(ctx context.Context) ([]TabInfo, error)
	// Attach returns a Session driving the tab with the given id.
	Attach(ctx context.Context, id string) (Session, error)
	// Active returns a Session for the browser's foreground page.
	Active(ctx context.Context) (Session, error)
	// CloseTab closes the tab with the given id.
	CloseTab(ctx context.Context, id string) error
	// Release ends this session's hold on its tab. Any tab but the launch
	// tab is closed with it; releasing the launch tab does nothing.
	Release() error
}

// Poll calls check up to attempts times, sleeping interval before each call,
// and reports whether check succeeded. It stops early if ctx is done.
func Poll(ctx context.Context, attempts int, interval time.Duration, check func(attempt int) bool) bool {
	for i := 0; i < attempts; i++ {
		if err := Sleep(ctx, interval); err != nil {
			return false
		}
		if check(i) {
			return true
		}
	}
	return false
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NewTabs returns the tabs in after that are not in before.
func NewTabs(before, after []TabInfo) []TabInfo {
	seen := make(map[string]bool, len(before))
	for _, t := range before {
		seen[t.ID] = true
	}
	var fresh []TabInfo
	for _, t := range after {
		if !seen[t.ID] {
			fresh = append(fresh, t)
		}
	}
	return fresh
}
