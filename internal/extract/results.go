package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/surrogate/internal/record"
)

const (
	resultsTableSelector = "#NameResultsTable"
	rowActionSelector    = "button[name='button'], button.ButtonAsLink"
)

// SearchRows extracts the rows of a search result listing in document order.
// A page without the results table yields no rows. Rows whose action control
// is missing are kept with an empty token; they cannot be followed.
// Jurisdiction is not part of the listing and is left for the caller.
func SearchRows(markup string) []record.SearchRow {
	doc := parse(markup)
	if doc == nil {
		return nil
	}

	table := doc.Find(resultsTableSelector).First()
	if table.Length() == 0 {
		return nil
	}

	var rows []record.SearchRow
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		vals := cellTexts(cells)

		token, _ := tr.Find(rowActionSelector).First().Attr("value")

		rows = append(rows, record.SearchRow{
			RowToken:       token,
			FileNumber:     at(vals, 0),
			FileDate:       at(vals, 1),
			FileName:       at(vals, 2),
			ProceedingType: at(vals, 3),
			DateOfDeath:    at(vals, 4),
		})
	})
	return rows
}

// Option is one entry of a select control.
type Option struct {
	Value string
	Label string
}

// SelectOptions returns the options of the select element with the given id
// that carry a non-empty value, in document order.
func SelectOptions(markup, selectID string) []Option {
	doc := parse(markup)
	if doc == nil {
		return nil
	}

	var opts []Option
	doc.Find("select#" + selectID + " option").Each(func(_ int, o *goquery.Selection) {
		val, _ := o.Attr("value")
		if val == "" {
			return
		}
		opts = append(opts, Option{Value: val, Label: strings.TrimSpace(o.Text())})
	})
	return opts
}
