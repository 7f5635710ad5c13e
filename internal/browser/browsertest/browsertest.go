// Package browsertest provides a scriptable in-memory browser.Session.
//
// A Session holds the current URL, markup and visible text of one fake tab.
// Tests install a Route hook to change that state in response to navigation,
// clicks and submissions, and an Eval hook to answer script evaluation.
package browsertest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmylchreest/surrogate/internal/browser"
)

// Action kinds recorded by a Session.
const (
	Navigate   = "navigate"
	Back       = "back"
	SetInput   = "set_input"
	SetSelect  = "set_select"
	Submit     = "submit"
	ClickID    = "click_id"
	ClickText  = "click_text"
	ClickValue = "click_value"
	Mouse      = "mouse"
	CloseTab   = "close_tab"
	Release    = "release"
)

// ErrNoEval is returned by Evaluate when no Eval hook is installed.
var ErrNoEval = errors.New("browsertest: no evaluator installed")

// Action is one recorded call.
type Action struct {
	Kind  string
	Arg   string
	Value string
}

// Session is a fake tab. The zero value is not usable; use New.
type Session struct {
	TabID  string
	URL    string
	Markup string
	Body   string

	// Absent names ids, names, texts or values that the page lacks; setters
	// and clicks targeting them report false and do not route.
	Absent map[string]bool

	// Eval answers Evaluate and EvaluatePromise. The returned value is
	// JSON round-tripped into the caller's destination.
	Eval func(expr string) (any, error)

	// Route runs after every navigating action and may rewrite the tab.
	Route func(s *Session, a Action)

	// OnRead runs before every Location, Text and HTML read, for pages that
	// change without an action.
	OnRead func(s *Session)

	// Fail makes the named action kind return this error.
	Fail map[string]error

	Actions []Action

	browser *fakeBrowser
}

type fakeBrowser struct {
	tabs   []*Session
	active string
}

// New returns a fake tab that is the only tab of its browser.
func New(id, url string) *Session {
	s := &Session{TabID: id, URL: url, Absent: map[string]bool{}, Fail: map[string]error{}}
	s.browser = &fakeBrowser{tabs: []*Session{s}}
	return s
}

// OpenTab adds a sibling tab to s's browser and returns it.
func (s *Session) OpenTab(id, url string) *Session {
	t := &Session{TabID: id, URL: url, Absent: map[string]bool{}, Fail: map[string]error{}, browser: s.browser}
	s.browser.tabs = append(s.browser.tabs, t)
	return t
}

// SetActive makes the tab with id the foreground page.
func (s *Session) SetActive(id string) {
	s.browser.active = id
}

// OpenTabIDs lists the ids of tabs still open.
func (s *Session) OpenTabIDs() []string {
	ids := make([]string, 0, len(s.browser.tabs))
	for _, t := range s.browser.tabs {
		ids = append(ids, t.TabID)
	}
	return ids
}

// Count returns how many actions of kind were recorded.
func (s *Session) Count(kind string) int {
	n := 0
	for _, a := range s.Actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// Args returns the Arg of every recorded action of kind, in order.
func (s *Session) Args(kind string) []string {
	var out []string
	for _, a := range s.Actions {
		if a.Kind == kind {
			out = append(out, a.Arg)
		}
	}
	return out
}

func (s *Session) record(a Action) error {
	s.Actions = append(s.Actions, a)
	if err := s.Fail[a.Kind]; err != nil {
		return err
	}
	return nil
}

func (s *Session) route(a Action) {
	if s.Route != nil {
		s.Route(s, a)
	}
}

// act records a and routes it unless target is absent.
func (s *Session) act(a Action, target string) (bool, error) {
	if err := s.record(a); err != nil {
		return false, err
	}
	if s.Absent[target] {
		return false, nil
	}
	s.route(a)
	return true, nil
}

func (s *Session) ID() string { return s.TabID }

func (s *Session) Navigate(_ context.Context, url string) error {
	if err := s.record(Action{Kind: Navigate, Arg: url}); err != nil {
		return err
	}
	s.URL = url
	s.route(Action{Kind: Navigate, Arg: url})
	return nil
}

func (s *Session) Back(_ context.Context) error {
	a := Action{Kind: Back}
	if err := s.record(a); err != nil {
		return err
	}
	s.route(a)
	return nil
}

func (s *Session) read() {
	if s.OnRead != nil {
		s.OnRead(s)
	}
}

func (s *Session) Location(_ context.Context) (string, error) { s.read(); return s.URL, nil }
func (s *Session) Text(_ context.Context) (string, error)     { s.read(); return s.Body, nil }
func (s *Session) HTML(_ context.Context) (string, error)     { s.read(); return s.Markup, nil }

func (s *Session) WaitReady(_ context.Context) (string, error) {
	return s.Markup, nil
}

func (s *Session) Evaluate(_ context.Context, expr string, out any) error {
	if s.Eval == nil {
		return ErrNoEval
	}
	v, err := s.Eval(expr)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("browsertest: encode eval result: %w", err)
	}
	return json.Unmarshal(b, out)
}

func (s *Session) EvaluatePromise(ctx context.Context, expr string, out any) error {
	return s.Evaluate(ctx, expr, out)
}

func (s *Session) SetInput(_ context.Context, name, value string) (bool, error) {
	return s.act(Action{Kind: SetInput, Arg: name, Value: value}, name)
}

func (s *Session) SetSelect(_ context.Context, id, value string) (bool, error) {
	return s.act(Action{Kind: SetSelect, Arg: id, Value: value}, id)
}

// Submit clicks the first id not marked Absent; with none, the generic
// submit control is used and recorded with an empty Arg.
func (s *Session) Submit(_ context.Context, ids ...string) (bool, error) {
	used := ""
	for _, id := range ids {
		if !s.Absent[id] {
			used = id
			break
		}
	}
	return s.act(Action{Kind: Submit, Arg: used}, used)
}

func (s *Session) ClickID(_ context.Context, id string) (bool, error) {
	return s.act(Action{Kind: ClickID, Arg: id}, id)
}

func (s *Session) ClickText(_ context.Context, text string) (bool, error) {
	return s.act(Action{Kind: ClickText, Arg: text}, text)
}

func (s *Session) ClickValue(_ context.Context, value string) (bool, error) {
	return s.act(Action{Kind: ClickValue, Arg: value}, value)
}

func (s *Session) MouseClick(_ context.Context, x, y float64) error {
	a := Action{Kind: Mouse, Arg: fmt.Sprintf("%.0f,%.0f", x, y)}
	if err := s.record(a); err != nil {
		return err
	}
	s.route(a)
	return nil
}

func (s *Session) Tabs(_ context.Context) ([]browser.TabInfo, error) {
	tabs := make([]browser.TabInfo, 0, len(s.browser.tabs))
	for _, t := range s.browser.tabs {
		tabs = append(tabs, browser.TabInfo{ID: t.TabID, URL: t.URL})
	}
	return tabs, nil
}

func (s *Session) find(id string) *Session {
	for _, t := range s.browser.tabs {
		if t.TabID == id {
			return t
		}
	}
	return nil
}

func (s *Session) Attach(_ context.Context, id string) (browser.Session, error) {
	if t := s.find(id); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", browser.ErrNoTab, id)
}

func (s *Session) Active(ctx context.Context) (browser.Session, error) {
	if s.browser.active != "" {
		return s.Attach(ctx, s.browser.active)
	}
	if len(s.browser.tabs) == 0 {
		return nil, browser.ErrNoTab
	}
	return s.browser.tabs[0], nil
}

func (s *Session) CloseTab(_ context.Context, id string) error {
	if err := s.record(Action{Kind: CloseTab, Arg: id}); err != nil {
		return err
	}
	for i, t := range s.browser.tabs {
		if t.TabID == id {
			s.browser.tabs = append(s.browser.tabs[:i], s.browser.tabs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", browser.ErrNoTab, id)
}

// Release is recorded and otherwise does nothing; tabs stay open until
// CloseTab.
func (s *Session) Release() error {
	return s.record(Action{Kind: Release})
}

var _ browser.Session = (*Session)(nil)
