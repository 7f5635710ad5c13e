package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/surrogate/internal/record"
)

// partyStrategy is one way of reading the party list off a page.
// It returns nil when it finds nothing.
type partyStrategy func(doc *goquery.Document, text string) []record.Party

// partyStrategies are tried in order; the first non-empty result wins.
var partyStrategies = []partyStrategy{tableParties, textParties}

var partyHeaderTokens = map[string]bool{"party": true, "role": true, "name": true}

// Lines in the text block that are headings rather than parties.
var partyHeaderWords = map[string]bool{"Party": true, "Parties": true, "Name": true, "Role": true}

var columnGap = regexp.MustCompile(`\s{2,}`)

func extractParties(doc *goquery.Document, text string) []record.Party {
	for _, s := range partyStrategies {
		if parties := s(doc, text); len(parties) > 0 {
			return parties
		}
	}
	return nil
}

// tableParties reads the first table whose header row names a party, role
// or name column. Headers may be th cells or, failing that, the first row's
// td cells.
func tableParties(doc *goquery.Document, _ string) []record.Party {
	var parties []record.Party

	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		rows := ownRows(tbl)
		if rows.Length() == 0 {
			return true
		}
		first := rows.First()

		headers := cellTexts(tbl.Find("thead th").AddSelection(first.ChildrenFiltered("th")))
		if !hasPartyHeader(headers) {
			headers = cellTexts(first.ChildrenFiltered("td"))
		}
		if !hasPartyHeader(headers) {
			return true
		}

		rows.Each(func(i int, tr *goquery.Selection) {
			if i == 0 || tr.Parent().Is("thead") {
				return
			}
			vals := cellTexts(tr.ChildrenFiltered("td"))
			if len(vals) < 2 {
				return
			}
			parties = append(parties, partyFrom(vals))
		})
		return false
	})
	return parties
}

// ownRows returns the rows of tbl, excluding rows of nested tables.
func ownRows(tbl *goquery.Selection) *goquery.Selection {
	return tbl.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(tbl)
	})
}

func hasPartyHeader(headers []string) bool {
	for _, h := range headers {
		if partyHeaderTokens[strings.ToLower(h)] {
			return true
		}
	}
	return false
}

// textParties reads the "Parties" block of the flattened page text, splitting
// each line into columns on runs of two or more whitespace characters.
//
// This is a loose heuristic: unusual spacing can produce malformed entries,
// and its output is not checked against the table strategy.
func textParties(_ *goquery.Document, text string) []record.Party {
	block, ok := section(text, sectionParties, sectionDocuments, sectionRelated)
	if !ok {
		return nil
	}

	var parties []record.Party
	for _, line := range strings.Split(block, "\n") {
		var vals []string
		for _, p := range columnGap.Split(line, -1) {
			if p = strings.TrimSpace(p); p != "" {
				vals = append(vals, p)
			}
		}
		if len(vals) < 2 || partyHeaderWords[vals[0]] {
			continue
		}
		parties = append(parties, partyFrom(vals))
	}
	return parties
}

func partyFrom(vals []string) record.Party {
	return record.Party{
		Name:          at(vals, 0),
		Role:          at(vals, 1),
		DateOfDeath:   at(vals, 2),
		AppointedDate: at(vals, 3),
		Active:        at(vals, 4),
	}
}
