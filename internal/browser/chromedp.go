package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/surrogate/internal/logger"
)

// Chrome owns a browser process, the tab it was launched with and every
// other tab a session has been attached to.
type Chrome struct {
	config      Config
	cancelAlloc context.CancelFunc
	cancelRoot  context.CancelFunc
	root        *tab

	mu       sync.Mutex
	attached map[string]*tab
}

// Launch starts Chrome and opens its first tab.
func Launch(ctx context.Context, cfg Config) (*Chrome, error) {
	cfg = cfg.withDefaults()

	opts := append(chromedp.DefaultExecAllocatorOptions[:], allocatorOptions(cfg)...)

	execPath := cfg.ExecPath
	if execPath == "" {
		execPath = FindChromePath()
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	rootCtx, cancelRoot := chromedp.NewContext(allocCtx)

	// The first Run starts the browser process.
	if err := chromedp.Run(rootCtx, tabSetup(cfg)...); err != nil {
		cancelRoot()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	c := &Chrome{
		config:      cfg,
		cancelAlloc: cancelAlloc,
		cancelRoot:  cancelRoot,
		attached:    make(map[string]*tab),
	}
	c.root = &tab{
		chrome: c,
		ctx:    rootCtx,
		cancel: func() {},
		id:     string(chromedp.FromContext(rootCtx).Target.TargetID),
	}

	logger.Debug("browser launched",
		"headless", cfg.Headless,
		"stealth", cfg.Stealth,
		"exec_path", execPath,
		"tab", c.root.id)
	return c, nil
}

// Session returns the tab the browser was launched with.
func (c *Chrome) Session() Session {
	return c.root
}

// Close shuts the browser down.
func (c *Chrome) Close() error {
	c.cancelRoot()
	c.cancelAlloc()
	return nil
}

// tab is a Session bound to one chromedp target context.
type tab struct {
	chrome *Chrome
	ctx    context.Context
	cancel context.CancelFunc
	id     string
}

func (t *tab) ID() string { return t.id }

// run executes actions on the tab, cancelled by either the tab or ctx.
func (t *tab) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(t.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (t *tab) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, t.chrome.config.NavigateTimeout)
	defer cancel()

	err := t.run(navCtx, chromedp.Navigate(url))
	// A challenge interstitial can hold the load event open; the page is
	// still usable, so a timeout here is not fatal.
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		logger.Warn("navigation did not finish loading", "url", url, "timeout", t.chrome.config.NavigateTimeout)
		err = nil
	}
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return Sleep(ctx, t.chrome.config.Delay)
}

func (t *tab) Back(ctx context.Context) error {
	var ok bool
	return t.Evaluate(ctx, jsBack, &ok)
}

func (t *tab) Location(ctx context.Context) (string, error) {
	var s string
	err := t.Evaluate(ctx, jsLocation, &s)
	return s, err
}

func (t *tab) Text(ctx context.Context) (string, error) {
	var s string
	err := t.Evaluate(ctx, jsText, &s)
	return s, err
}

func (t *tab) HTML(ctx context.Context) (string, error) {
	var s string
	err := t.Evaluate(ctx, jsHTML, &s)
	return s, err
}

func (t *tab) Evaluate(ctx context.Context, expr string, out any) error {
	return t.run(ctx, chromedp.Evaluate(expr, out))
}

func (t *tab) EvaluatePromise(ctx context.Context, expr string, out any) error {
	return t.run(ctx, chromedp.Evaluate(expr, out, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true)
	}))
}

func (t *tab) WaitReady(ctx context.Context) (string, error) {
	cfg := t.chrome.config
	if err := Sleep(ctx, cfg.Delay+time.Second); err != nil {
		return "", err
	}

	var ready bool
	for i := 0; i < cfg.ReadyAttempts; i++ {
		var state string
		if err := t.Evaluate(ctx, jsReadyState, &state); err == nil && state == "complete" {
			ready = true
			break
		}
		if err := Sleep(ctx, cfg.ReadyInterval); err != nil {
			return "", err
		}
	}
	if !ready {
		logger.Debug("page not ready, using current markup", "tab", t.id, "attempts", cfg.ReadyAttempts)
	}
	return t.HTML(ctx)
}

func (t *tab) evalBool(ctx context.Context, expr string) (bool, error) {
	var ok bool
	if err := t.Evaluate(ctx, expr, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (t *tab) SetInput(ctx context.Context, name, value string) (bool, error) {
	return t.evalBool(ctx, call(jsSetInput, name, value))
}

func (t *tab) SetSelect(ctx context.Context, id, value string) (bool, error) {
	return t.evalBool(ctx, call(jsSetSelect, id, value))
}

func (t *tab) Submit(ctx context.Context, ids ...string) (bool, error) {
	return t.evalBool(ctx, call(jsSubmit, ids...))
}

func (t *tab) ClickID(ctx context.Context, id string) (bool, error) {
	return t.evalBool(ctx, call(jsClickID, id))
}

func (t *tab) ClickText(ctx context.Context, text string) (bool, error) {
	return t.evalBool(ctx, call(jsClickText, text))
}

func (t *tab) ClickValue(ctx context.Context, value string) (bool, error) {
	return t.evalBool(ctx, call(jsClickValue, value))
}

func (t *tab) MouseClick(ctx context.Context, x, y float64) error {
	return t.run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx)
		}),
		chromedp.Sleep(150*time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return input.DispatchMouseEvent(input.MousePressed, x, y).
				WithButton(input.Left).WithClickCount(1).Do(ctx)
		}),
		chromedp.Sleep(50*time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return input.DispatchMouseEvent(input.MouseReleased, x, y).
				WithButton(input.Left).WithClickCount(1).Do(ctx)
		}),
	)
}

func (t *tab) Tabs(ctx context.Context) ([]TabInfo, error) {
	var infos []*target.Info
	err := t.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		infos, err = chromedp.Targets(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("list tabs: %w", err)
	}

	var tabs []TabInfo
	for _, info := range infos {
		if info.Type != "page" {
			continue
		}
		tabs = append(tabs, TabInfo{ID: string(info.TargetID), URL: info.URL})
	}
	return tabs, nil
}

func (t *tab) Attach(ctx context.Context, id string) (Session, error) {
	attached, err := t.chrome.attach(ctx, t, id)
	if err != nil {
		return nil, err
	}
	return attached, nil
}

// attach returns the session already driving id, or creates one. Each open
// tab has at most one chromedp context.
func (c *Chrome) attach(ctx context.Context, via *tab, id string) (*tab, error) {
	if id == c.root.id {
		return c.root, nil
	}
	c.mu.Lock()
	cached, ok := c.attached[id]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	tabs, err := via.Tabs(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for _, ti := range tabs {
		found = found || ti.ID == id
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNoTab, id)
	}

	tabCtx, cancel := chromedp.NewContext(c.root.ctx, chromedp.WithTargetID(target.ID(id)))
	if err := chromedp.Run(tabCtx, tabSetup(c.config)...); err != nil {
		cancel()
		return nil, fmt.Errorf("attach tab %s: %w", id, err)
	}
	t := &tab{chrome: c, ctx: tabCtx, cancel: cancel, id: id}

	c.mu.Lock()
	c.attached[id] = t
	c.mu.Unlock()
	return t, nil
}

// release forgets t and cancels its context, which closes the tab.
func (c *Chrome) release(t *tab) error {
	c.mu.Lock()
	if c.attached[t.id] != t {
		c.mu.Unlock()
		return nil
	}
	delete(c.attached, t.id)
	c.mu.Unlock()

	err := chromedp.Cancel(t.ctx)
	t.cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("release tab %s: %w", t.id, err)
	}
	return nil
}

func (t *tab) Release() error {
	if t == t.chrome.root {
		return nil
	}
	return t.chrome.release(t)
}

func (t *tab) Active(ctx context.Context) (Session, error) {
	tabs, err := t.Tabs(ctx)
	if err != nil {
		return nil, err
	}
	if len(tabs) == 0 {
		return nil, ErrNoTab
	}
	for _, ti := range tabs {
		if ti.ID == t.chrome.root.id {
			return t.chrome.root, nil
		}
	}
	// The launch tab was replaced; follow the first remaining page.
	logger.Debug("launch tab gone, following first page", "tab", tabs[0].ID, "url", tabs[0].URL)
	return t.Attach(ctx, tabs[0].ID)
}

func (t *tab) CloseTab(ctx context.Context, id string) error {
	if id == t.chrome.root.id {
		return fmt.Errorf("refusing to close the launch tab %s", id)
	}

	t.chrome.mu.Lock()
	cached, ok := t.chrome.attached[id]
	t.chrome.mu.Unlock()
	if ok {
		return t.chrome.release(cached)
	}

	// Never attached: close it at the browser level.
	err := t.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return target.CloseTarget(target.ID(id)).Do(cdp.WithExecutor(ctx, chromedp.FromContext(ctx).Browser))
	}))
	if err != nil {
		return fmt.Errorf("close tab %s: %w", id, err)
	}
	return nil
}
