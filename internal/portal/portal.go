// Package portal describes the WebSurrogate site as it is observed to
// behave: its URLs, its search entry controls, its reference tables and the
// text markers that tell which page a tab is showing.
package portal

import (
	"net/url"
	"strings"

	"github.com/jmylchreest/surrogate/internal/browser"
)

// Base is the portal origin.
const Base = "https://websurrogates.nycourts.gov"

// Page URLs.
const (
	NameSearchURL  = Base + "/Names/NameSearch"
	FileSearchURL  = Base + "/File/FileSearch"
	FileHistoryURL = Base + "/File/FileHistory"
	OldIndexURL    = Base + "/OldIndex/OldIndexSearch"
	IndexBookURL   = Base + "/IndexBook/IndexBookSearch"
	WillSearchURL  = Base + "/Wills/WillsSearch"
)

// The Welcome page's start control.
const (
	StartSearchID    = "StartSearchButton"
	StartSearchLabel = "Start Search"
)

// Entry is one button on the Search Options page.
type Entry struct {
	Key       string
	ControlID string
	Label     string
	URL       string
}

// Entries on the Search Options page.
var (
	FileEntry      = Entry{Key: "file", ControlID: "FileSearch", Label: "File Search", URL: FileSearchURL}
	NameEntry      = Entry{Key: "name", ControlID: "NameSearch", Label: "Name Search", URL: NameSearchURL}
	OldIndexEntry  = Entry{Key: "old_index", ControlID: "OldIndexSearch", Label: "Old Index Search", URL: OldIndexURL}
	IndexBookEntry = Entry{Key: "index_book", ControlID: "IndexBookPages", Label: "Index Book Pages", URL: IndexBookURL}
	WillEntry      = Entry{Key: "will", ControlID: "WillSearch", Label: "Will Search", URL: WillSearchURL}
)

// EntryFor returns the entry whose URL is u, if any.
func EntryFor(u string) (Entry, bool) {
	for _, e := range []Entry{FileEntry, NameEntry, OldIndexEntry, IndexBookEntry, WillEntry} {
		if e.URL == u {
			return e, true
		}
	}
	return Entry{}, false
}

// ViewerURL is the deterministic address of a document's viewer.
func ViewerURL(documentID string) string {
	return FileHistoryURL + "?UUIDValue=" + url.QueryEscape(documentID)
}

// Page is a classification of what a tab is showing.
type Page int

const (
	PageUnknown Page = iota
	PageEdgeChallenge
	PageWelcome
	PageHumanChallenge
	PageSearchOptions
	PageSearch
)

func (p Page) String() string {
	switch p {
	case PageEdgeChallenge:
		return "edge_challenge"
	case PageWelcome:
		return "welcome"
	case PageHumanChallenge:
		return "human_challenge"
	case PageSearchOptions:
		return "search_options"
	case PageSearch:
		return "search"
	default:
		return "unknown"
	}
}

// Text markers.
const (
	markerWelcome        = "Welcome to WebSurrogate"
	markerHuman          = "I am human"
	markerCaptcha        = "CAPTCHA"
	markerCaptchaNeeded  = "CAPTCHA is required"
	markerSearchOptions  = "Select one of the following search options"
	markerSearchOptions2 = "Search Options"
	markerFileSearch     = "File Search"
	markerVerifying      = "Verifying"
	fragmentAuthenticate = "Authenticate"
)

var edgeReadyMarkers = []string{StartSearchLabel, markerWelcome, markerHuman, markerSearchOptions2, markerFileSearch}

// EdgeCleared reports whether the edge challenge has let the page through.
func EdgeCleared(text string) bool {
	for _, m := range edgeReadyMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// Verifying reports whether the edge challenge is still running.
func Verifying(text string) bool {
	return strings.Contains(text, markerVerifying) || strings.Contains(strings.ToLower(text), "moment")
}

// AtWelcome reports whether the Start Search control is on the page.
func AtWelcome(text string) bool {
	return strings.Contains(text, StartSearchLabel)
}

// HumanChallengePresent reports whether the human-verification page is shown.
func HumanChallengePresent(text, location string) bool {
	return strings.Contains(text, markerHuman) ||
		strings.Contains(text, markerCaptcha) ||
		strings.Contains(location, fragmentAuthenticate)
}

// HumanChallengeSolved reports whether the tab has moved past verification.
func HumanChallengeSolved(text, location string) bool {
	switch {
	case !strings.Contains(location, fragmentAuthenticate) && !strings.Contains(text, markerCaptcha):
		return true
	case strings.Contains(location, "/File/") || strings.Contains(location, "/Names/"):
		return true
	case strings.Contains(text, markerFileSearch) && !strings.Contains(text, markerCaptchaNeeded):
		return true
	}
	return false
}

// Classify decides which page markup shows after arriving at a URL.
// The checks run in the order regressions are handled.
func Classify(markup string) Page {
	switch {
	case strings.Contains(markup, StartSearchLabel) && strings.Contains(markup, markerWelcome):
		return PageWelcome
	case strings.Contains(markup, markerCaptchaNeeded) || strings.Contains(markup, markerHuman):
		return PageHumanChallenge
	case strings.Contains(markup, markerSearchOptions):
		return PageSearchOptions
	case markup == "" || (Verifying(markup) && !EdgeCleared(markup)):
		return PageEdgeChallenge
	case EdgeCleared(markup):
		return PageSearch
	default:
		return PageUnknown
	}
}

// Phase is the coarse state of the shared session.
type Phase int

const (
	Bootstrapping Phase = iota
	Ready
	Searching
	ViewingDetail
)

func (p Phase) String() string {
	switch p {
	case Ready:
		return "ready"
	case Searching:
		return "searching"
	case ViewingDetail:
		return "viewing_detail"
	default:
		return "bootstrapping"
	}
}

// State is the process-wide session state. It lives for one run and is
// handed between stages by direct call; exactly one stage drives Tab at a
// time.
type State struct {
	Phase Phase
	Tab   browser.Session

	// ViewerCleared is set once the document viewer's own challenge has
	// passed; later documents get a shorter wait.
	ViewerCleared bool
}

// NewState returns a bootstrapping state driving tab.
func NewState(tab browser.Session) *State {
	return &State{Phase: Bootstrapping, Tab: tab}
}
