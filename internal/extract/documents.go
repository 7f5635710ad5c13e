package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/surrogate/internal/record"
)

const (
	fileHistoryFormSelector = "#FHForm"
	documentButtonSelector  = "button[name='UUIDValue']"
	noRelatedMarker         = "No Related Files"
)

var fileNumberPattern = regexp.MustCompile(`\d{4}-\d+(?:/[A-Z])?`)

// extractDocuments reads the file-history document table. Rows with fewer
// than three cells are layout rows and are skipped.
func extractDocuments(doc *goquery.Document) []record.DocumentRef {
	form := doc.Find(fileHistoryFormSelector).First()
	if form.Length() == 0 {
		return nil
	}

	var docs []record.DocumentRef
	form.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 3 {
			return
		}
		vals := cellTexts(cells)

		d := record.NewDocumentRef()
		d.Label = at(vals, 0)
		d.Comment = at(vals, 1)
		d.Quantity = at(vals, 2)
		d.FiledDate = at(vals, 3)
		d.SignedDate = at(vals, 4)

		if btn := tr.Find(documentButtonSelector).First(); btn.Length() > 0 {
			d.HasLink = true
			d.DocumentID, _ = btn.Attr("value")
		}
		docs = append(docs, d)
	})
	return docs
}

// relatedFiles returns the distinct file numbers listed in the "Related Files"
// section, in order of appearance.
func relatedFiles(text string) []string {
	block, ok := section(text, sectionRelated, sectionDocuments, sectionParties)
	if !ok || strings.Contains(block, noRelatedMarker) {
		return nil
	}

	var files []string
	seen := make(map[string]bool)
	for _, m := range fileNumberPattern.FindAllString(block, -1) {
		if seen[m] {
			continue
		}
		seen[m] = true
		files = append(files, m)
	}
	return files
}
