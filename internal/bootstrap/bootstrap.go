// Package bootstrap walks a fresh browser session past the portal's edge
// challenge, Welcome page and human-verification challenge to a search
// form, and brings a session that has regressed mid-run back to where it
// was headed.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmylchreest/surrogate/internal/browser"
	"github.com/jmylchreest/surrogate/internal/logger"
	"github.com/jmylchreest/surrogate/internal/portal"
)

// Stage is a bootstrap state.
type Stage int

const (
	Launching Stage = iota
	AwaitingEdgeChallenge
	AtWelcome
	AwaitingHumanChallenge
	AtSearchOptions
	Ready
	Degraded
)

func (s Stage) String() string {
	switch s {
	case Launching:
		return "launching"
	case AwaitingEdgeChallenge:
		return "awaiting_edge_challenge"
	case AtWelcome:
		return "at_welcome"
	case AwaitingHumanChallenge:
		return "awaiting_human_challenge"
	case AtSearchOptions:
		return "at_search_options"
	case Ready:
		return "ready"
	case Degraded:
		return "degraded"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

const (
	jsFramePresent = `!!document.querySelector('iframe[src*="hcaptcha"]')`

	// Checkbox sits 28px in from the frame's left edge, vertically centred.
	jsCheckboxTarget = `(function() {
	var f = document.querySelector('iframe[src*="hcaptcha"]');
	if (!f) return null;
	var r = f.getBoundingClientRect();
	if (r.width === 0) return null;
	return {x: Math.round(r.left + 28), y: Math.round(r.top + r.height / 2)};
})()`
)

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bootstrapper drives the session through the portal's gatekeeping pages.
// It owns state.Tab while one of its methods runs and may replace it.
type Bootstrapper struct {
	config Config
	state  *portal.State
	stage  Stage
}

// New creates a bootstrapper for state.
func New(state *portal.State, cfg Config) *Bootstrapper {
	return &Bootstrapper{config: cfg, state: state, stage: Launching}
}

// Stage returns the stage the last Run ended in.
func (b *Bootstrapper) Stage() Stage {
	return b.stage
}

func (b *Bootstrapper) enter(s Stage) {
	logger.Debug("bootstrap stage", "from", b.stage, "to", s)
	b.stage = s
}

// Run loads the portal and works through every stage until the search page
// for entry is open. Stages that time out are passed best-effort; the
// result is Degraded if the human challenge was never cleared. The only
// error is a failure to load the portal at all.
func (b *Bootstrapper) Run(ctx context.Context, entry portal.Entry) (Stage, error) {
	b.state.Phase = portal.Bootstrapping
	b.enter(Launching)
	if err := b.state.Tab.Navigate(ctx, portal.Base); err != nil {
		return b.stage, fmt.Errorf("failed to load portal: %w", err)
	}

	b.enter(AwaitingEdgeChallenge)
	b.awaitEdge(ctx)

	b.enter(AtWelcome)
	b.passWelcome(ctx)

	b.enter(AwaitingHumanChallenge)
	solved := b.passHumanChallenge(ctx)

	b.enter(AtSearchOptions)
	b.openEntry(ctx, entry)

	if err := ctx.Err(); err != nil {
		return b.stage, err
	}
	if solved {
		b.enter(Ready)
	} else {
		b.enter(Degraded)
	}
	b.state.Phase = portal.Ready
	logger.Info("session bootstrapped", "stage", b.stage, "entry", entry.Key)
	return b.stage, nil
}

func (b *Bootstrapper) awaitEdge(ctx context.Context) {
	cfg := b.config
	cleared := browser.Poll(ctx, cfg.EdgeAttempts, cfg.EdgeInterval, func(attempt int) bool {
		text, err := b.state.Tab.Text(ctx)
		if err != nil {
			return false
		}
		if portal.EdgeCleared(text) {
			logger.Info("edge challenge cleared", "after", cfg.EdgeInterval*time.Duration(attempt+1))
			return true
		}
		if portal.Verifying(text) {
			logger.Debug("edge challenge still verifying", "attempt", attempt+1)
		}
		return false
	})
	if !cleared {
		logger.Warn("edge challenge may not have cleared, continuing",
			"waited", cfg.EdgeInterval*time.Duration(cfg.EdgeAttempts))
	}
}

func (b *Bootstrapper) passWelcome(ctx context.Context) {
	tab := b.state.Tab
	text, err := tab.Text(ctx)
	if err != nil || !portal.AtWelcome(text) {
		return
	}

	logger.Info("welcome page detected, starting search")
	clicked, err := tab.ClickText(ctx, portal.StartSearchLabel)
	if err != nil || !clicked {
		clicked, err = tab.ClickID(ctx, portal.StartSearchID)
	}
	if err != nil || !clicked {
		logger.Warn("start search control not found", "error", err)
	}

	_ = browser.Sleep(ctx, b.config.WelcomeSettle)
	b.followActiveTab(ctx)
}

// followActiveTab re-resolves the foreground tab, which a click may have
// replaced.
func (b *Bootstrapper) followActiveTab(ctx context.Context) {
	active, err := b.state.Tab.Active(ctx)
	if err != nil {
		logger.Debug("active tab lookup failed, keeping current", "error", err)
		return
	}
	if active.ID() != b.state.Tab.ID() {
		logger.Debug("following new active tab", "from", b.state.Tab.ID(), "to", active.ID())
	}
	b.state.Tab = active
}

// passHumanChallenge reports whether the challenge is absent or cleared.
func (b *Bootstrapper) passHumanChallenge(ctx context.Context) bool {
	cfg := b.config
	tab := b.state.Tab

	text, err := tab.Text(ctx)
	if err != nil {
		return true
	}
	location, _ := tab.Location(ctx)
	if !portal.HumanChallengePresent(text, location) {
		logger.Debug("no human challenge")
		return true
	}

	logger.Info("human challenge detected, waiting for frame")
	loaded := browser.Poll(ctx, cfg.FrameAttempts, cfg.FrameInterval, func(int) bool {
		var present bool
		return tab.Evaluate(ctx, jsFramePresent, &present) == nil && present
	})
	if !loaded {
		logger.Warn("challenge frame did not load")
	}
	_ = browser.Sleep(ctx, cfg.FrameSettle)

	if b.clickCheckbox(ctx) {
		return true
	}

	logger.Info("waiting for the human challenge to be solved in the browser",
		"timeout", cfg.PassiveInterval*time.Duration(cfg.PassiveAttempts))
	solved := browser.Poll(ctx, cfg.PassiveAttempts, cfg.PassiveInterval, func(int) bool {
		text, err := tab.Text(ctx)
		if err != nil {
			return false
		}
		location, err := tab.Location(ctx)
		if err != nil {
			return false
		}
		return portal.HumanChallengeSolved(text, location)
	})
	if !solved {
		logger.Warn("human challenge timed out, continuing degraded")
	}
	return solved
}

// clickCheckbox synthesises pointer input on the challenge checkbox.
// It reports true once a full move/press/release sequence was delivered.
func (b *Bootstrapper) clickCheckbox(ctx context.Context) bool {
	cfg := b.config
	tab := b.state.Tab

	for attempt := 1; attempt <= cfg.CheckboxAttempts; attempt++ {
		var target *point
		if err := tab.Evaluate(ctx, jsCheckboxTarget, &target); err != nil || target == nil {
			logger.Debug("checkbox geometry unavailable", "attempt", attempt, "error", err)
			if browser.Sleep(ctx, cfg.CheckboxBackoff) != nil {
				return false
			}
			continue
		}

		logger.Debug("clicking challenge checkbox", "x", target.X, "y", target.Y, "attempt", attempt)
		if err := tab.MouseClick(ctx, target.X, target.Y); err != nil {
			logger.Debug("pointer synthesis failed", "attempt", attempt, "error", err)
			if browser.Sleep(ctx, cfg.CheckboxBackoff) != nil {
				return false
			}
			continue
		}

		_ = browser.Sleep(ctx, cfg.CheckboxSettle)
		logger.Info("challenge checkbox clicked", "attempt", attempt)
		return true
	}
	return false
}

// openEntry invokes entry's control on the Search Options page: by id, then
// by label, then by loading its URL directly.
func (b *Bootstrapper) openEntry(ctx context.Context, entry portal.Entry) {
	tab := b.state.Tab

	if ok, err := tab.ClickID(ctx, entry.ControlID); err == nil && ok {
		logger.Debug("search option clicked", "id", entry.ControlID)
		_ = browser.Sleep(ctx, b.config.OptionSettle)
		b.followActiveTab(ctx)
		return
	}

	if ok, err := tab.ClickText(ctx, entry.Label); err == nil && ok {
		logger.Debug("search option clicked by label", "label", entry.Label)
		_ = browser.Sleep(ctx, b.config.OptionSettle)
		return
	}

	logger.Debug("search option not found, navigating directly", "url", entry.URL)
	if err := tab.Navigate(ctx, entry.URL); err != nil {
		logger.Warn("direct navigation failed", "url", entry.URL, "error", err)
		return
	}
	_ = browser.Sleep(ctx, b.config.DirectSettle)
}

// Navigate loads url and, if the session has regressed to the edge
// challenge, the Welcome page, the human challenge or the bare Search
// Options page, re-runs the stages needed to reach url's search form. It
// returns the resulting markup.
func (b *Bootstrapper) Navigate(ctx context.Context, url string) (string, error) {
	if err := b.state.Tab.Navigate(ctx, url); err != nil {
		return "", err
	}
	markup, err := b.state.Tab.HTML(ctx)
	if err != nil {
		return "", err
	}

	page := portal.Classify(markup)
	if page == portal.PageEdgeChallenge {
		logger.Info("edge challenge on navigation, waiting", "url", url)
		b.awaitEdge(ctx)
		if markup, err = b.state.Tab.HTML(ctx); err != nil {
			return "", err
		}
		page = portal.Classify(markup)
	}

	switch page {
	case portal.PageWelcome:
		logger.Info("redirected to welcome page, re-entering", "url", url)
		b.passWelcome(ctx)
		b.passHumanChallenge(ctx)
	case portal.PageHumanChallenge:
		logger.Info("redirected to human challenge, re-solving", "url", url)
		b.passHumanChallenge(ctx)
	case portal.PageSearchOptions:
		logger.Info("landed on search options, clicking through", "url", url)
	case portal.PageEdgeChallenge:
		logger.Warn("edge challenge still showing, continuing", "url", url)
		return markup, nil
	default:
		return markup, nil
	}

	if entry, ok := portal.EntryFor(url); ok {
		b.openEntry(ctx, entry)
	}
	return b.state.Tab.HTML(ctx)
}
