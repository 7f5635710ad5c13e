package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/surrogate/internal/record"
)

func sampleDump() Dump {
	doc := record.NewDocumentRef()
	doc.Label = "PETITION"
	doc.DocumentID = "uuid-1"
	doc.HasLink = true
	doc.FiledDate = "01/02/2025"

	return Dump{
		Run: RunInfo{
			ID:            "run-1",
			Version:       "dev",
			Started:       time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
			Finished:      time.Date(2025, 2, 1, 10, 5, 0, 0, time.UTC),
			SearchKind:    "file_info",
			Jurisdictions: []string{"Kings"},
			Deep:          true,
		},
		SearchResults: []record.SearchRow{
			{RowToken: "tok-1", FileNumber: "2025-0001", FileDate: "01/02/2025", FileName: "SMITH, JOHN", ProceedingType: "PROBATE PETITION", Jurisdiction: "Kings"},
			{RowToken: "tok-2", FileNumber: "2025-0002", FileName: "DOE, JANE", Jurisdiction: "Kings"},
		},
		Cases: []record.CaseDetail{
			{
				FileNumber:     "2025-0001",
				Jurisdiction:   "Kings",
				DetailPageURL:  "https://websurrogates.nycourts.gov/File/FileHistory",
				FileName:       "SMITH, JOHN",
				ProceedingType: "PROBATE PETITION",
				JudgeName:      "HON. M. GREEN",
				Parties:        []record.Party{{Name: "SMITH, JOHN", Role: "DECEDENT"}},
				Documents:      []record.DocumentRef{doc},
				RelatedFiles:   []string{"2019-1234/A"},
			},
		},
	}
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	return records
}

// --- Format Tests ---

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("csv"); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

// --- Dump Tests ---

func TestWriteDump_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteDump(buf, FormatJSON, sampleDump()); err != nil {
		t.Fatalf("WriteDump() error = %v", err)
	}

	var got Dump
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if diff := cmp.Diff(sampleDump(), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), `"search_results"`) || !strings.Contains(buf.String(), `"cases"`) {
		t.Errorf("missing top-level keys: %s", buf.String())
	}
}

func TestWriteDump_JSON_Compact(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteDump(buf, FormatJSON, sampleDump(), WithPretty(false)); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(buf.String()), "\n"); len(lines) != 1 {
		t.Errorf("expected single line in compact output, got %d lines", len(lines))
	}
}

func TestWriteDump_JSON_CustomIndent(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteDump(buf, FormatJSON, sampleDump(), WithIndent("\t")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n\t\"run\"") {
		t.Errorf("expected tab indentation, got %q", buf.String()[:40])
	}
}

func TestWriteDump_EmptyCollections(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteDump(buf, FormatJSON, Dump{Run: RunInfo{ID: "r"}}, WithPretty(false)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"search_results":[]`) || !strings.Contains(out, `"cases":[]`) {
		t.Errorf("empty collections should be lists: %s", out)
	}
}

func TestWriteDump_JSONL(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteDump(buf, FormatJSONL, sampleDump()); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}

	var types []string
	for i, l := range lines {
		var rec struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal([]byte(l), &rec); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		types = append(types, rec.Type)
	}
	want := []string{"run", "search_result", "search_result", "case"}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("line types (-want +got):\n%s", diff)
	}
}

func TestWriteDump_YAML(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteDump(buf, FormatYAML, sampleDump()); err != nil {
		t.Fatal(err)
	}

	var got Dump
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(got.SearchResults) != 2 || len(got.Cases) != 1 {
		t.Errorf("unexpected result: %d rows, %d cases", len(got.SearchResults), len(got.Cases))
	}
	if got.Cases[0].Documents[0].Retrieval.Status != record.NotAttempted {
		t.Errorf("retrieval status = %q", got.Cases[0].Documents[0].Retrieval.Status)
	}
	if !strings.Contains(buf.String(), "\n  id: run-1") {
		t.Errorf("expected 2-space indentation, got %q", buf.String())
	}
}

func TestWriteDump_UnsupportedFormat(t *testing.T) {
	err := WriteDump(&bytes.Buffer{}, Format("xml"), sampleDump())
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

// --- CSV Tests ---

func TestWriteSearchCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteSearchCSV(buf, sampleDump().SearchResults); err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"court", "file_number", "file_date", "file_name", "proceeding", "dod"},
		{"Kings", "2025-0001", "01/02/2025", "SMITH, JOHN", "PROBATE PETITION", ""},
		{"Kings", "2025-0002", "", "DOE, JANE", "", ""},
	}
	if diff := cmp.Diff(want, readCSV(t, buf.Bytes())); diff != "" {
		t.Errorf("CSV mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(buf.String(), "tok-1") {
		t.Error("row token written to CSV")
	}
}

func TestWriteDeepCSV(t *testing.T) {
	cases := sampleDump().Cases
	cases = append(cases, record.CaseDetail{FileNumber: "2025-0009", Jurisdiction: "Queens"})

	buf := &bytes.Buffer{}
	if err := WriteDeepCSV(buf, cases); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, buf.Bytes())
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(records))
	}
	if diff := cmp.Diff(deepColumns, records[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	col := func(row []string, name string) string {
		for i, c := range deepColumns {
			if c == name {
				return row[i]
			}
		}
		t.Fatalf("no column %s", name)
		return ""
	}

	first := records[1]
	if got := col(first, "judge"); got != "HON. M. GREEN" {
		t.Errorf("judge = %q", got)
	}
	if got := col(first, "document_count"); got != "1" {
		t.Errorf("document_count = %q", got)
	}
	var parties []record.Party
	if err := json.Unmarshal([]byte(col(first, "parties")), &parties); err != nil || len(parties) != 1 || parties[0].Role != "DECEDENT" {
		t.Errorf("parties = %q (%v)", col(first, "parties"), err)
	}
	var docs []record.DocumentRef
	if err := json.Unmarshal([]byte(col(first, "documents")), &docs); err != nil || docs[0].DocumentID != "uuid-1" {
		t.Errorf("documents = %q (%v)", col(first, "documents"), err)
	}
	if got := col(first, "related_files"); got != `["2019-1234/A"]` {
		t.Errorf("related_files = %q", got)
	}

	empty := records[2]
	for _, name := range []string{"parties", "documents", "related_files"} {
		if got := col(empty, name); got != "[]" {
			t.Errorf("%s = %q, want []", name, got)
		}
	}
	if got := col(empty, "document_count"); got != "0" {
		t.Errorf("document_count = %q", got)
	}
}

// --- Summary Tests ---

func TestTallies(t *testing.T) {
	d := sampleDump()
	d.Cases[0].Documents[0].Retrieval = record.Outcome{Status: record.Downloaded, Path: "x.pdf"}
	failed := record.NewDocumentRef()
	failed.Retrieval = record.Outcome{Status: record.Failed, Reason: "timeout"}
	d.Cases[0].Documents = append(d.Cases[0].Documents, failed)
	d.SearchResults = append(d.SearchResults, record.SearchRow{FileNumber: "1", Jurisdiction: "Queens"})

	got := Tallies(d.SearchResults, d.Cases, map[string]int{"Erie": 2})
	want := []Tally{
		{Jurisdiction: "Kings", Rows: 2, Cases: 1, Documents: 2, Downloaded: 1, Failed: 1},
		{Jurisdiction: "Queens", Rows: 1},
		{Jurisdiction: "Erie", FailedSearches: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tallies mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	WriteSummary(buf, []Tally{
		{Jurisdiction: "Kings", Rows: 1200, Cases: 3, Documents: 10, Downloaded: 9, Failed: 1},
		{Jurisdiction: "Queens", Rows: 5},
	})

	// Header and footer text is upper-cased by the table style.
	out := strings.ToUpper(buf.String())
	for _, want := range []string{"KINGS", "QUEENS", "1,200", "1,205", "TOTAL"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

// --- Files Tests ---

func TestFiles_Save(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := Files{Dir: "out", Base: "results", Format: FormatYAML}

	written, err := f.Save(fs, sampleDump())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	want := []string{"out/results_search.csv", "out/results_deep.csv", "out/results.yaml"}
	if diff := cmp.Diff(want, written); diff != "" {
		t.Errorf("written (-want +got):\n%s", diff)
	}
	for _, p := range want {
		if ok, _ := afero.Exists(fs, p); !ok {
			t.Errorf("%s not written", p)
		}
	}
}

func TestFiles_Save_ShallowSkipsDeepCSV(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := sampleDump()
	d.Cases = nil

	written, err := Files{Dir: "out", Base: "r", Format: FormatJSON}.Save(fs, d)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"out/r_search.csv", "out/r.json"}, written); diff != "" {
		t.Errorf("written (-want +got):\n%s", diff)
	}
}

func TestFiles_Save_ReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	if _, err := (Files{Dir: "out", Base: "r", Format: FormatJSON}).Save(fs, sampleDump()); err == nil {
		t.Error("expected error on read-only filesystem")
	}
}
