package extract

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/surrogate/internal/record"
)

// --- CaseDetail Tests ---

func TestCaseDetail_HeaderFields(t *testing.T) {
	c := CaseDetail(readTestdata(t, "file_history.html"))

	tests := []struct {
		field string
		got   string
		want  string
	}{
		{"ProceedingType", c.ProceedingType, "PROBATE PETITION"},
		{"LettersStatus", c.LettersStatus, "TESTAMENTARY"},
		{"LettersIssuedDate", c.LettersIssuedDate, "02/10/2025"},
		{"AttorneyName", c.AttorneyName, "ROBERT LAW"},
		{"AttorneyFirm", c.AttorneyFirm, "LAW & PARTNERS LLP"},
		{"EstateClosed", c.EstateClosed, "No"},
		{"FileDate", c.FileDate, "01/02/2025"},
		{"DisposedDate", c.DisposedDate, "03/01/2025"},
		{"JudgeName", c.JudgeName, "HON. MARGARET GREEN"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.field, tt.got, tt.want)
			}
		})
	}
}

func TestCaseDetail_IgnoresScriptText(t *testing.T) {
	c := CaseDetail(readTestdata(t, "file_history.html"))
	if strings.Contains(c.JudgeName, "SHOULD NOT APPEAR") {
		t.Errorf("script content leaked into judge name: %q", c.JudgeName)
	}
}

func TestCaseDetail_LeavesListingFieldsEmpty(t *testing.T) {
	c := CaseDetail(readTestdata(t, "file_history.html"))
	if c.FileNumber != "" || c.Jurisdiction != "" || c.DetailPageURL != "" {
		t.Errorf("listing fields should be unset, got %q %q %q", c.FileNumber, c.Jurisdiction, c.DetailPageURL)
	}
}

func TestCaseDetail_TableParties(t *testing.T) {
	c := CaseDetail(readTestdata(t, "file_history.html"))

	want := []record.Party{
		{Name: "SMITH, JOHN", Role: "DECEDENT", DateOfDeath: "12/01/2024"},
		{Name: "SMITH, MARY", Role: "EXECUTOR", AppointedDate: "02/10/2025", Active: "Y"},
	}
	if diff := cmp.Diff(want, c.Parties); diff != "" {
		t.Errorf("Parties mismatch (-want +got):\n%s", diff)
	}
}

func TestCaseDetail_TableParties_TDHeaders(t *testing.T) {
	c := CaseDetail(readTestdata(t, "file_history_td_headers.html"))

	want := []record.Party{
		{Name: "BROWN, ALICE", Role: "DECEDENT", DateOfDeath: "05/05/2024"},
		{Name: "BROWN, TOM", Role: "ADMINISTRATOR"},
	}
	if diff := cmp.Diff(want, c.Parties); diff != "" {
		t.Errorf("Parties mismatch (-want +got):\n%s", diff)
	}
	if c.JudgeName != "HON. A. B. CEE" {
		t.Errorf("JudgeName = %q", c.JudgeName)
	}
	if c.LettersStatus != "ADMINISTRATION" {
		t.Errorf("LettersStatus = %q", c.LettersStatus)
	}
}

func TestCaseDetail_TextParties(t *testing.T) {
	c := CaseDetail(readTestdata(t, "file_history_text_parties.html"))

	want := []record.Party{
		{Name: "GRAY, WILLIAM", Role: "TESTATOR", DateOfDeath: "07/07/2024"},
		{Name: "GRAY, EDNA", Role: "BENEFICIARY"},
	}
	if diff := cmp.Diff(want, c.Parties); diff != "" {
		t.Errorf("Parties mismatch (-want +got):\n%s", diff)
	}
	if c.ProceedingType != "WILL FILED NOT FOR PROBATE" {
		t.Errorf("ProceedingType = %q", c.ProceedingType)
	}
	if len(c.Documents) != 0 {
		t.Errorf("expected no documents, got %d", len(c.Documents))
	}
}

func TestCaseDetail_Documents(t *testing.T) {
	c := CaseDetail(readTestdata(t, "file_history.html"))

	want := []record.DocumentRef{
		{
			Label:      "PETITION FOR PROBATE",
			Comment:    "ORIGINAL",
			Quantity:   "1",
			FiledDate:  "01/02/2025",
			SignedDate: "01/01/2025",
			DocumentID: "uuid-aaa",
			HasLink:    true,
			Retrieval:  record.Outcome{Status: record.NotAttempted},
		},
		{
			Label:     "DEATH CERTIFICATE",
			Quantity:  "1",
			FiledDate: "01/02/2025",
			Retrieval: record.Outcome{Status: record.NotAttempted},
		},
		{
			Label:      "AFFIDAVIT",
			Comment:    "SERVICE",
			Quantity:   "2",
			DocumentID: "uuid-bbb",
			HasLink:    true,
			Retrieval:  record.Outcome{Status: record.NotAttempted},
		},
	}
	if diff := cmp.Diff(want, c.Documents); diff != "" {
		t.Errorf("Documents mismatch (-want +got):\n%s", diff)
	}
}

func TestCaseDetail_RelatedFiles(t *testing.T) {
	tests := []struct {
		fixture string
		want    []string
	}{
		{"file_history.html", []string{"2019-1234/A", "2020-55"}},
		{"file_history_td_headers.html", nil},
		{"file_history_text_parties.html", nil},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			c := CaseDetail(readTestdata(t, tt.fixture))
			if diff := cmp.Diff(tt.want, c.RelatedFiles); diff != "" {
				t.Errorf("RelatedFiles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCaseDetail_Idempotent(t *testing.T) {
	for _, fixture := range []string{"file_history.html", "file_history_td_headers.html", "file_history_text_parties.html"} {
		markup := readTestdata(t, fixture)
		if diff := cmp.Diff(CaseDetail(markup), CaseDetail(markup)); diff != "" {
			t.Errorf("%s: repeated extraction differs:\n%s", fixture, diff)
		}
	}
}

func TestCaseDetail_EmptyMarkup(t *testing.T) {
	c := CaseDetail("")
	if diff := cmp.Diff(record.CaseDetail{}, c); diff != "" {
		t.Errorf("expected zero detail, got:\n%s", diff)
	}
}

// --- scanLabels Tests ---

func TestScanLabels_AnyOrderAnyWhitespace(t *testing.T) {
	values := map[string]string{
		"Proceeding:":           "PROBATE PETITION",
		"Letters:":              "TESTAMENTARY",
		"Estate Attorney Firm:": "DOE & ROE LLP",
		"Estate Attorney:":      "JANE ROE",
		"Estate Closed:":        "Yes",
		"File Date:":            "01/02/2025",
		"Disposed:":             "04/04/2025",
		"Letters Issued:":       "02/02/2025",
		"Judge:":                "HON. X. WHY",
	}
	spacers := []string{" ", "  ", "\n", "\t", "\n   \n", " \t "}

	r := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 50; trial++ {
		tokens := make([]string, 0, len(values))
		for tok := range values {
			tokens = append(tokens, tok)
		}
		r.Shuffle(len(tokens), func(i, j int) { tokens[i], tokens[j] = tokens[j], tokens[i] })

		var b strings.Builder
		for _, tok := range tokens {
			b.WriteString(tok)
			for _, word := range strings.Fields(values[tok]) {
				b.WriteString(spacers[r.IntN(len(spacers))])
				b.WriteString(word)
			}
			b.WriteString(spacers[r.IntN(len(spacers))])
		}

		got := scanLabels(b.String())
		if diff := cmp.Diff(values, got); diff != "" {
			t.Fatalf("trial %d: scanLabels mismatch (-want +got):\n%s\ntext: %q", trial, diff, b.String())
		}
	}
}

func TestScanLabels_FirstNonEmptyWins(t *testing.T) {
	got := scanLabels("Judge:   Proceeding: FIRST Judge: HON. A Proceeding: SECOND")

	want := map[string]string{
		"Proceeding:": "FIRST",
		"Judge:":      "HON. A",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scanLabels mismatch (-want +got):\n%s", diff)
	}
}

func TestScanLabels_SectionHeadingEndsValue(t *testing.T) {
	got := scanLabels("Judge: HON. B Parties SMITH")
	if got["Judge:"] != "HON. B" {
		t.Errorf("Judge: = %q, want %q", got["Judge:"], "HON. B")
	}
	if _, ok := got["Parties"]; ok {
		t.Error("section headings should not be reported as labels")
	}
}

// --- section Tests ---

func TestSection(t *testing.T) {
	text := "intro Parties a b Related Files c Documents d"

	tests := []struct {
		name        string
		heading     string
		terminators []string
		want        string
		wantOK      bool
	}{
		{"earliest terminator", "Parties", []string{"Documents", "Related Files"}, "Parties a b ", true},
		{"runs to end", "Documents", nil, "Documents d", true},
		{"missing heading", "Judge", nil, "", false},
		{"terminator before heading ignored", "Related Files", []string{"Parties"}, "Related Files c Documents d", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := section(text, tt.heading, tt.terminators...)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("section() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
