// Package record defines the typed records produced by the acquisition
// pipeline: listing rows, case details, parties and document references.
package record

import (
	"errors"
	"fmt"
)

// ErrOutcomeSet is returned when a document's retrieval outcome is resolved twice.
var ErrOutcomeSet = errors.New("retrieval outcome already set")

// SearchRow is one row of a search result listing.
// Identity is (Jurisdiction, FileNumber).
type SearchRow struct {
	RowToken       string `json:"row_token,omitempty" yaml:"row_token,omitempty"`
	FileNumber     string `json:"file_number,omitempty" yaml:"file_number,omitempty"`
	FileDate       string `json:"file_date,omitempty" yaml:"file_date,omitempty"`
	FileName       string `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	ProceedingType string `json:"proceeding,omitempty" yaml:"proceeding,omitempty"`
	DateOfDeath    string `json:"date_of_death,omitempty" yaml:"date_of_death,omitempty"`
	Jurisdiction   string `json:"jurisdiction,omitempty" yaml:"jurisdiction,omitempty"`
}

// Followable reports whether the row carries a token that can open its detail view.
func (r SearchRow) Followable() bool {
	return r.RowToken != ""
}

// Key returns the row identity.
func (r SearchRow) Key() string {
	return r.Jurisdiction + "/" + r.FileNumber
}

// Party is one entry of a case's party table, as rendered.
type Party struct {
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	Role          string `json:"role,omitempty" yaml:"role,omitempty"`
	DateOfDeath   string `json:"date_of_death,omitempty" yaml:"date_of_death,omitempty"`
	AppointedDate string `json:"appointed,omitempty" yaml:"appointed,omitempty"`
	Active        string `json:"active,omitempty" yaml:"active,omitempty"`
}

// Status is the retrieval state of a document.
type Status string

const (
	NotAttempted Status = "not_attempted"
	Downloaded   Status = "downloaded"
	Failed       Status = "failed"
)

// Outcome records what happened when a document was retrieved.
type Outcome struct {
	Status Status `json:"status" yaml:"status"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// DocumentRef is one entry of a case's file-history document table.
type DocumentRef struct {
	Label      string  `json:"label,omitempty" yaml:"label,omitempty"`
	Comment    string  `json:"comment,omitempty" yaml:"comment,omitempty"`
	Quantity   string  `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	FiledDate  string  `json:"filed,omitempty" yaml:"filed,omitempty"`
	SignedDate string  `json:"signed,omitempty" yaml:"signed,omitempty"`
	DocumentID string  `json:"document_id,omitempty" yaml:"document_id,omitempty"`
	HasLink    bool    `json:"has_link" yaml:"has_link"`
	ViewerURL  string  `json:"viewer_url,omitempty" yaml:"viewer_url,omitempty"`
	Retrieval  Outcome `json:"retrieval" yaml:"retrieval"`
}

// NewDocumentRef returns a document reference whose retrieval has not been attempted.
func NewDocumentRef() DocumentRef {
	return DocumentRef{Retrieval: Outcome{Status: NotAttempted}}
}

// Retrievable reports whether the document can be downloaded.
func (d DocumentRef) Retrievable() bool {
	return d.HasLink && d.DocumentID != ""
}

// MarkDownloaded records a successful retrieval saved at path.
func (d *DocumentRef) MarkDownloaded(path string) error {
	return d.resolve(Outcome{Status: Downloaded, Path: path})
}

// MarkFailed records a failed retrieval.
func (d *DocumentRef) MarkFailed(reason error) error {
	msg := "unknown"
	if reason != nil {
		msg = reason.Error()
	}
	return d.resolve(Outcome{Status: Failed, Reason: msg})
}

func (d *DocumentRef) resolve(o Outcome) error {
	if d.Retrieval.Status != "" && d.Retrieval.Status != NotAttempted {
		return fmt.Errorf("%w: document %q is %s", ErrOutcomeSet, d.DocumentID, d.Retrieval.Status)
	}
	d.Retrieval = o
	return nil
}

// CaseDetail is the full record of one case, built during deep harvest.
type CaseDetail struct {
	FileNumber        string        `json:"file_number,omitempty" yaml:"file_number,omitempty"`
	Jurisdiction      string        `json:"jurisdiction,omitempty" yaml:"jurisdiction,omitempty"`
	DetailPageURL     string        `json:"file_history_url,omitempty" yaml:"file_history_url,omitempty"`
	FileDate          string        `json:"file_date,omitempty" yaml:"file_date,omitempty"`
	FileName          string        `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	DateOfDeath       string        `json:"date_of_death,omitempty" yaml:"date_of_death,omitempty"`
	ProceedingType    string        `json:"proceeding,omitempty" yaml:"proceeding,omitempty"`
	LettersStatus     string        `json:"letters,omitempty" yaml:"letters,omitempty"`
	LettersIssuedDate string        `json:"letters_issued,omitempty" yaml:"letters_issued,omitempty"`
	EstateClosed      string        `json:"estate_closed,omitempty" yaml:"estate_closed,omitempty"`
	DisposedDate      string        `json:"disposed,omitempty" yaml:"disposed,omitempty"`
	AttorneyName      string        `json:"estate_attorney,omitempty" yaml:"estate_attorney,omitempty"`
	AttorneyFirm      string        `json:"estate_attorney_firm,omitempty" yaml:"estate_attorney_firm,omitempty"`
	JudgeName         string        `json:"judge,omitempty" yaml:"judge,omitempty"`
	Parties           []Party       `json:"parties,omitempty" yaml:"parties,omitempty"`
	Documents         []DocumentRef `json:"documents,omitempty" yaml:"documents,omitempty"`
	RelatedFiles      []string      `json:"related_files,omitempty" yaml:"related_files,omitempty"`
}

// DownloadedCount returns the number of documents saved locally.
func (c CaseDetail) DownloadedCount() int {
	n := 0
	for _, d := range c.Documents {
		if d.Retrieval.Status == Downloaded {
			n++
		}
	}
	return n
}

// MergeRow fills listing-derived fields from the row the case was reached from.
// The listing's proceeding type wins over the detail page label.
func (c *CaseDetail) MergeRow(row SearchRow) {
	c.FileNumber = row.FileNumber
	c.Jurisdiction = row.Jurisdiction
	c.FileName = row.FileName
	c.DateOfDeath = row.DateOfDeath
	if row.FileDate != "" {
		c.FileDate = row.FileDate
	}
	if row.ProceedingType != "" {
		c.ProceedingType = row.ProceedingType
	}
}
