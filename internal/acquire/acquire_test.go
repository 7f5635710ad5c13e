package acquire

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jmylchreest/surrogate/internal/bootstrap"
	"github.com/jmylchreest/surrogate/internal/browser/browsertest"
	"github.com/jmylchreest/surrogate/internal/harvest"
	"github.com/jmylchreest/surrogate/internal/portal"
	"github.com/jmylchreest/surrogate/internal/record"
	"github.com/jmylchreest/surrogate/internal/search"
)

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read testdata %s: %v", name, err)
	}
	return string(data)
}

// fakeBoot lands the session straight on the chosen search form.
type fakeBoot struct {
	state *portal.State
	stage bootstrap.Stage
	err   error
	entry portal.Entry
}

func (b *fakeBoot) Run(ctx context.Context, entry portal.Entry) (bootstrap.Stage, error) {
	b.entry = entry
	if b.err != nil {
		return bootstrap.Launching, b.err
	}
	b.state.Phase = portal.Ready
	return b.stage, b.state.Tab.Navigate(ctx, entry.URL)
}

func (b *fakeBoot) Navigate(ctx context.Context, url string) (string, error) {
	if err := b.state.Tab.Navigate(ctx, url); err != nil {
		return "", err
	}
	return b.state.Tab.HTML(ctx)
}

// rig is a fake portal whose searches list results.html and whose rows
// open file_history.html.
type rig struct {
	tab    *browsertest.Session
	boot   *fakeBoot
	runner *Runner
}

func newRig(t *testing.T, deep bool) *rig {
	t.Helper()
	listing := readTestdata(t, "results.html")
	detail := readTestdata(t, "file_history.html")

	tab := browsertest.New("main", "about:blank")
	tab.Route = func(s *browsertest.Session, a browsertest.Action) {
		switch a.Kind {
		case browsertest.Navigate:
			s.Markup = "<html><body>search form</body></html>"
		case browsertest.Submit, browsertest.Back:
			s.URL = portal.FileSearchURL
			s.Markup = listing
		case browsertest.ClickValue:
			s.URL = portal.FileHistoryURL
			s.Markup = detail
		}
	}

	state := portal.NewState(tab)
	boot := &fakeBoot{state: state, stage: bootstrap.Ready}
	dispatcher := search.NewDispatcher(state, boot, search.Config{ListAttempts: 1, ListInterval: time.Millisecond})

	var h Harvester
	if deep {
		h = harvest.New(state, nil, harvest.Config{})
	}
	return &rig{tab: tab, boot: boot, runner: NewRunner(boot, dispatcher, h)}
}

func kingsProbate() Request {
	return Request{
		Template: search.Query{
			Kind:       search.FileInfo,
			Proceeding: "PROBATE PETITION",
			FromDate:   "2025-01-01",
			ToDate:     "2025-01-31",
		},
		Jurisdictions: []string{"Kings"},
		ChunkDays:     31,
	}
}

// --- Plan Tests ---

func TestPlan_BulkChunks(t *testing.T) {
	req := Request{
		Template:      search.Query{Kind: search.FileInfo, Proceeding: "PROBATE PETITION", FromDate: "2025-01-01", ToDate: "2025-03-01"},
		Jurisdictions: []string{"Kings", " queens "},
		ChunkDays:     30,
	}
	plan, err := req.Plan()
	if err != nil {
		t.Fatal(err)
	}

	type window struct{ j, from, to string }
	var got []window
	for _, q := range plan {
		got = append(got, window{q.Jurisdiction, q.FromDate, q.ToDate})
	}
	want := []window{
		{"Kings", "01/01/2025", "01/30/2025"},
		{"Kings", "01/31/2025", "03/01/2025"},
		{"Queens", "01/01/2025", "01/30/2025"},
		{"Queens", "01/31/2025", "03/01/2025"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("plan = %v, want %v", got, want)
	}
}

func TestPlan_MissingToDate(t *testing.T) {
	req := Request{
		Template:      search.Query{Kind: search.FileInfo, Proceeding: "PROBATE PETITION", FromDate: "2025-02-03"},
		Jurisdictions: []string{"Bronx"},
		ChunkDays:     30,
	}
	plan, err := req.Plan()
	if err != nil {
		t.Fatal(err)
	}
	if len(plan) != 1 || plan[0].FromDate != "02/03/2025" || plan[0].ToDate != "02/03/2025" {
		t.Errorf("plan = %+v", plan)
	}
}

func TestPlan_NameSearchNotChunked(t *testing.T) {
	req := Request{
		Template:      search.Query{Kind: search.NamePerson, LastName: "SMITH", FileFromDate: "2025-01-01"},
		Jurisdictions: []string{"Kings", "Erie"},
		ChunkDays:     1,
	}
	plan, err := req.Plan()
	if err != nil {
		t.Fatal(err)
	}
	if len(plan) != 2 || plan[1].Jurisdiction != "Erie" || plan[1].FileFromDate != "2025-01-01" {
		t.Errorf("plan = %+v", plan)
	}
	if req.Entry() != portal.NameEntry {
		t.Errorf("Entry() = %v, want name entry", req.Entry().Key)
	}
}

func TestPlan_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"no jurisdictions", Request{Template: search.Query{Kind: search.FileNumber, FileNumber: "2025-1"}}},
		{"bad date", Request{Template: search.Query{Kind: search.FileInfo, FromDate: "01-2025"}, Jurisdictions: []string{"Kings"}}},
		{"reversed range", Request{Template: search.Query{Kind: search.FileInfo, FromDate: "2025-02-01", ToDate: "2025-01-01"}, Jurisdictions: []string{"Kings"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.req.Plan(); !errors.Is(err, search.ErrInvalidQuery) {
				t.Errorf("err = %v, want ErrInvalidQuery", err)
			}
		})
	}
}

// --- Runner Tests ---

func TestRun_ShallowProducesOnlyRows(t *testing.T) {
	r := newRig(t, false)
	c := NewCollector()

	if err := r.runner.Run(context.Background(), kingsProbate(), c); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := len(c.Rows()); got != 3 {
		t.Errorf("rows = %d, want 3", got)
	}
	if got := len(c.Cases()); got != 0 {
		t.Errorf("cases = %d, want 0", got)
	}
	for _, row := range c.Rows() {
		if row.Jurisdiction != "Kings" {
			t.Errorf("row jurisdiction = %q", row.Jurisdiction)
		}
	}
	if r.tab.Count(browsertest.ClickValue) != 0 {
		t.Error("shallow run followed a row")
	}
	if r.boot.entry != portal.FileEntry {
		t.Errorf("bootstrapped into %q", r.boot.entry.Key)
	}
}

func TestRun_DeepWithoutDownload(t *testing.T) {
	r := newRig(t, true)
	c := NewCollector()
	req := kingsProbate()
	req.Deep = true

	if err := r.runner.Run(context.Background(), req, c); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	cases := c.Cases()
	if len(cases) != 2 {
		t.Fatalf("cases = %d, want 2 (one listing row has no token)", len(cases))
	}
	for _, cd := range cases {
		if len(cd.Documents) == 0 {
			t.Errorf("%s: no documents extracted", cd.FileNumber)
		}
		for _, d := range cd.Documents {
			if d.Retrieval.Status != record.NotAttempted {
				t.Errorf("%s %s: status = %s", cd.FileNumber, d.Label, d.Retrieval.Status)
			}
		}
	}
	if got := r.tab.Count(browsertest.Back); got != 1 {
		t.Errorf("restores = %d, want 1", got)
	}
}

func TestRun_BulkSubmissionsPerJurisdiction(t *testing.T) {
	r := newRig(t, false)
	c := NewCollector()
	req := Request{
		Template:      search.Query{Kind: search.FileInfo, Proceeding: "PROBATE PETITION", FromDate: "2025-01-01", ToDate: "2025-03-01"},
		Jurisdictions: []string{"Kings", "Queens"},
		ChunkDays:     30,
	}

	if err := r.runner.Run(context.Background(), req, c); err != nil {
		t.Fatal(err)
	}
	if got := r.tab.Count(browsertest.Submit); got != 4 {
		t.Errorf("submissions = %d, want 4", got)
	}

	var courts []string
	for _, a := range r.tab.Actions {
		if a.Kind == browsertest.SetSelect && a.Arg == "CourtSelect" {
			courts = append(courts, a.Value)
		}
	}
	if !slices.Equal(courts, []string{"24", "24", "41", "41"}) {
		t.Errorf("court codes = %v", courts)
	}
}

func TestRun_UnknownJurisdictionDoesNotAbort(t *testing.T) {
	r := newRig(t, false)
	c := NewCollector()
	req := kingsProbate()
	req.Jurisdictions = []string{"Atlantis", "Kings"}

	if err := r.runner.Run(context.Background(), req, c); err != nil {
		t.Fatal(err)
	}
	if got := len(c.Rows()); got != 3 {
		t.Errorf("rows = %d, want 3", got)
	}
	if got := c.Failures()["Atlantis"]; got != 1 {
		t.Errorf("failures = %v", c.Failures())
	}
	if got := r.tab.Count(browsertest.Submit); got != 1 {
		t.Errorf("submissions = %d, want 1", got)
	}
}

func TestRun_DegradedStillSearches(t *testing.T) {
	r := newRig(t, false)
	r.boot.stage = bootstrap.Degraded
	c := NewCollector()

	if err := r.runner.Run(context.Background(), kingsProbate(), c); err != nil {
		t.Fatal(err)
	}
	if len(c.Rows()) == 0 {
		t.Error("degraded session produced no rows")
	}
}

func TestRun_BootstrapFailure(t *testing.T) {
	r := newRig(t, false)
	r.boot.err = errors.New("failed to load portal")

	if err := r.runner.Run(context.Background(), kingsProbate(), NewCollector()); err == nil {
		t.Fatal("expected error")
	}
	if r.tab.Count(browsertest.Submit) != 0 {
		t.Error("searched without a session")
	}
}

func TestRun_DeepNeedsHarvester(t *testing.T) {
	r := newRig(t, false)
	req := kingsProbate()
	req.Deep = true
	if err := r.runner.Run(context.Background(), req, NewCollector()); err == nil {
		t.Error("expected error")
	}
}

// --- Collector Tests ---

func TestCollector(t *testing.T) {
	c := NewCollector()
	if _, err := uuid.Parse(c.RunID); err != nil {
		t.Errorf("RunID %q is not a uuid: %v", c.RunID, err)
	}

	c.AddRows([]record.SearchRow{{FileNumber: "1"}, {FileNumber: "2"}})
	c.AddCase(record.CaseDetail{FileNumber: "1"})
	c.Fail("Kings")
	c.Fail("Kings")

	rows := c.Rows()
	rows[0].FileNumber = "changed"
	if c.Rows()[0].FileNumber != "1" {
		t.Error("Rows() exposed internal slice")
	}
	if len(c.Cases()) != 1 {
		t.Errorf("cases = %d", len(c.Cases()))
	}
	if c.Failures()["Kings"] != 2 {
		t.Errorf("failures = %v", c.Failures())
	}
}
