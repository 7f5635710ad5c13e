package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jmylchreest/surrogate/internal/record"
)

// headerLabel maps a label in the case header block to the field it fills.
type headerLabel struct {
	token string
	set   func(*record.CaseDetail, string)
}

var headerLabels = []headerLabel{
	{"Proceeding:", func(c *record.CaseDetail, v string) { c.ProceedingType = v }},
	{"Letters:", func(c *record.CaseDetail, v string) { c.LettersStatus = v }},
	{"Estate Attorney Firm:", func(c *record.CaseDetail, v string) { c.AttorneyFirm = v }},
	{"Estate Attorney:", func(c *record.CaseDetail, v string) { c.AttorneyName = v }},
	{"Estate Closed:", func(c *record.CaseDetail, v string) { c.EstateClosed = v }},
	{"File Date:", func(c *record.CaseDetail, v string) { c.FileDate = v }},
	{"Disposed:", func(c *record.CaseDetail, v string) { c.DisposedDate = v }},
	{"Letters Issued:", func(c *record.CaseDetail, v string) { c.LettersIssuedDate = v }},
	{"Judge:", func(c *record.CaseDetail, v string) { c.JudgeName = v }},
}

// Section headings that end a label value.
const (
	sectionRelated   = "Related Files"
	sectionParties   = "Parties"
	sectionDocuments = "Documents"
)

var boundaryPattern = buildBoundaryPattern()

func buildBoundaryPattern() *regexp.Regexp {
	tokens := []string{sectionRelated, sectionParties, sectionDocuments}
	for _, l := range headerLabels {
		tokens = append(tokens, l.token)
	}
	// Longest first so that a label is never cut short by a shorter prefix.
	sort.SliceStable(tokens, func(i, j int) bool { return len(tokens[i]) > len(tokens[j]) })
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(strings.Join(quoted, "|"))
}

// CaseDetail extracts the case-detail bundle from a file history page.
// Listing-derived fields (file number, jurisdiction, detail URL) are left
// for the caller.
func CaseDetail(markup string) record.CaseDetail {
	var c record.CaseDetail

	doc := parse(markup)
	if doc == nil {
		return c
	}
	text := flatText(doc)

	for token, value := range scanLabels(text) {
		for _, l := range headerLabels {
			if l.token == token {
				l.set(&c, value)
			}
		}
	}

	c.Parties = extractParties(doc, text)
	c.Documents = extractDocuments(doc)
	c.RelatedFiles = relatedFiles(text)
	return c
}

// scanLabels finds each header label in text and returns the value that runs
// up to the next label or section heading, whitespace collapsed. The first
// occurrence with a non-empty value wins.
func scanLabels(text string) map[string]string {
	values := make(map[string]string)
	matches := boundaryPattern.FindAllStringIndex(text, -1)

	for i, m := range matches {
		token := text[m[0]:m[1]]
		if _, done := values[token]; done || !isHeaderLabel(token) {
			continue
		}
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if v := collapse(text[m[1]:end]); v != "" {
			values[token] = v
		}
	}
	return values
}

func isHeaderLabel(token string) bool {
	for _, l := range headerLabels {
		if l.token == token {
			return true
		}
	}
	return false
}

// section returns the text from heading up to the earliest of the given
// terminators, or to the end of text. ok is false when heading is absent.
func section(text, heading string, terminators ...string) (string, bool) {
	start := strings.Index(text, heading)
	if start < 0 {
		return "", false
	}
	rest := text[start:]
	end := len(rest)
	for _, t := range terminators {
		if i := strings.Index(rest[len(heading):], t); i >= 0 && i+len(heading) < end {
			end = i + len(heading)
		}
	}
	return rest[:end], true
}
