package output

import (
	"io"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jmylchreest/surrogate/internal/record"
)

// Tally counts one jurisdiction's records.
type Tally struct {
	Jurisdiction   string
	Rows           int
	Cases          int
	Documents      int
	Downloaded     int
	Failed         int
	FailedSearches int
}

// Tallies groups rows and cases by jurisdiction, in order of first
// appearance. failures counts failed searches per jurisdiction.
func Tallies(rows []record.SearchRow, cases []record.CaseDetail, failures map[string]int) []Tally {
	var order []string
	byName := map[string]*Tally{}
	get := func(j string) *Tally {
		t, ok := byName[j]
		if !ok {
			t = &Tally{Jurisdiction: j}
			byName[j] = t
			order = append(order, j)
		}
		return t
	}

	for _, r := range rows {
		get(r.Jurisdiction).Rows++
	}
	for _, c := range cases {
		t := get(c.Jurisdiction)
		t.Cases++
		t.Documents += len(c.Documents)
		for _, d := range c.Documents {
			switch d.Retrieval.Status {
			case record.Downloaded:
				t.Downloaded++
			case record.Failed:
				t.Failed++
			}
		}
	}
	failed := make([]string, 0, len(failures))
	for j := range failures {
		failed = append(failed, j)
	}
	slices.Sort(failed)
	for _, j := range failed {
		get(j).FailedSearches = failures[j]
	}

	out := make([]Tally, 0, len(order))
	for _, j := range order {
		out = append(out, *byName[j])
	}
	return out
}

// WriteSummary renders tallies as a table with a totals footer.
func WriteSummary(w io.Writer, tallies []Tally) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Court", "Rows", "Cases", "Documents", "Downloaded", "Failed", "Failed searches"})

	var total Tally
	for _, t := range tallies {
		tw.AppendRow(table.Row{
			t.Jurisdiction,
			humanize.Comma(int64(t.Rows)),
			humanize.Comma(int64(t.Cases)),
			humanize.Comma(int64(t.Documents)),
			humanize.Comma(int64(t.Downloaded)),
			humanize.Comma(int64(t.Failed)),
			t.FailedSearches,
		})
		total.Rows += t.Rows
		total.Cases += t.Cases
		total.Documents += t.Documents
		total.Downloaded += t.Downloaded
		total.Failed += t.Failed
		total.FailedSearches += t.FailedSearches
	}
	tw.AppendFooter(table.Row{
		"Total",
		humanize.Comma(int64(total.Rows)),
		humanize.Comma(int64(total.Cases)),
		humanize.Comma(int64(total.Documents)),
		humanize.Comma(int64(total.Downloaded)),
		humanize.Comma(int64(total.Failed)),
		total.FailedSearches,
	})

	right := text.AlignRight
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: right, AlignFooter: right},
		{Number: 3, Align: right, AlignFooter: right},
		{Number: 4, Align: right, AlignFooter: right},
		{Number: 5, Align: right, AlignFooter: right},
		{Number: 6, Align: right, AlignFooter: right},
		{Number: 7, Align: right, AlignFooter: right},
	})
	tw.Render()
}
