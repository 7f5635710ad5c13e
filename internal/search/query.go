// Package search fills and submits the portal's search forms and turns the
// result listing into rows.
package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/surrogate/internal/portal"
)

// Precondition failures. They abort the single request that caused them.
var (
	ErrUnknownJurisdiction = errors.New("unknown jurisdiction")
	ErrInvalidQuery        = errors.New("invalid search query")
)

// Kind selects a search form and the fields it needs.
type Kind string

const (
	FileInfo   Kind = "file_info"
	FileNumber Kind = "file_number"
	NamePerson Kind = "name_person"
	NameOrg    Kind = "name_org"
)

// Kinds lists every supported search kind.
var Kinds = []Kind{FileInfo, FileNumber, NamePerson, NameOrg}

// Query is one search request against one jurisdiction. Dates are given
// as YYYY-MM-DD or MM/DD/YYYY.
type Query struct {
	Kind         Kind   `validate:"required,oneof=file_info file_number name_person name_org"`
	Jurisdiction string `validate:"required"`

	Proceeding string `validate:"required_if=Kind file_info"`
	FromDate   string `validate:"required_if=Kind file_info,formdate"`
	ToDate     string `validate:"omitempty,formdate"`

	FileNumber string `validate:"required_if=Kind file_number"`

	LastName      string `validate:"required_if=Kind name_person"`
	FirstName     string
	Organization  string `validate:"required_if=Kind name_org"`
	DeathFromDate string `validate:"omitempty,formdate"`
	DeathToDate   string `validate:"omitempty,formdate"`
	FileFromDate  string `validate:"omitempty,formdate"`
	FileToDate    string `validate:"omitempty,formdate"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("formdate", func(fl validator.FieldLevel) bool {
		_, err := FormDate(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the fields required by the query's kind and resolves the
// jurisdiction to its listed name and the code the form submits.
func (q Query) Validate() (court, code string, err error) {
	if err := validate.Struct(q); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	court, code, ok := portal.CourtCode(q.Jurisdiction)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownJurisdiction, q.Jurisdiction)
	}
	return court, code, nil
}

const (
	isoLayout  = "2006-01-02"
	formLayout = "01/02/2006"
)

// ParseDate accepts YYYY-MM-DD or MM/DD/YYYY.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(isoLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(formLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is neither YYYY-MM-DD nor MM/DD/YYYY", s)
	}
	return t, nil
}

// FormDate renders s in the MM/DD/YYYY form the portal expects. Empty
// input stays empty.
func FormDate(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(formLayout), nil
}
