package output

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/jmylchreest/surrogate/internal/record"
)

var searchColumns = []string{
	"court", "file_number", "file_date", "file_name", "proceeding", "dod",
}

var deepColumns = []string{
	"court", "file_number", "file_history_url", "file_date", "file_name",
	"proceeding", "dod", "estate_closed", "disposed", "letters",
	"letters_issued", "estate_attorney", "estate_attorney_firm", "judge",
	"parties", "documents", "document_count", "related_files",
}

// WriteSearchCSV writes one line per listing row. Row tokens are session
// bound and left out.
func WriteSearchCSV(w io.Writer, rows []record.SearchRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(searchColumns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Jurisdiction, r.FileNumber, r.FileDate, r.FileName, r.ProceedingType, r.DateOfDeath,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDeepCSV writes one line per case. Parties, documents and related
// files are embedded as JSON text.
func WriteDeepCSV(w io.Writer, cases []record.CaseDetail) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(deepColumns); err != nil {
		return err
	}
	for _, c := range cases {
		parties, err := jsonList(c.Parties)
		if err != nil {
			return err
		}
		documents, err := jsonList(c.Documents)
		if err != nil {
			return err
		}
		related, err := jsonList(c.RelatedFiles)
		if err != nil {
			return err
		}

		if err := cw.Write([]string{
			c.Jurisdiction, c.FileNumber, c.DetailPageURL, c.FileDate, c.FileName,
			c.ProceedingType, c.DateOfDeath, c.EstateClosed, c.DisposedDate, c.LettersStatus,
			c.LettersIssuedDate, c.AttorneyName, c.AttorneyFirm, c.JudgeName,
			parties, documents, strconv.Itoa(len(c.Documents)), related,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func jsonList[T any](items []T) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
