// Package store keeps search results and cases in a SQLite database.
// Records are keyed by (jurisdiction, file number); saving a record again
// replaces it, so re-running a failed search or row leaves no duplicates.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jmylchreest/surrogate/internal/record"
)

//go:embed schema.sql
var schema string

// Store is an open database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

const upsertRow = `
INSERT INTO search_results (jurisdiction, file_number, file_date, file_name, proceeding, dod, run_id, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (jurisdiction, file_number) DO UPDATE SET
    file_date = excluded.file_date,
    file_name = excluded.file_name,
    proceeding = excluded.proceeding,
    dod = excluded.dod,
    run_id = excluded.run_id,
    updated_at = excluded.updated_at`

// SaveRows upserts listing rows in one transaction.
func (s *Store) SaveRows(ctx context.Context, runID string, rows []record.SearchRow) error {
	return s.inTx(ctx, upsertRow, func(stmt *sql.Stmt, ts string) error {
		for _, r := range rows {
			if _, err := stmt.ExecContext(ctx,
				r.Jurisdiction, r.FileNumber, r.FileDate, r.FileName, r.ProceedingType, r.DateOfDeath,
				runID, ts); err != nil {
				return fmt.Errorf("saving row %s: %w", r.Key(), err)
			}
		}
		return nil
	})
}

const upsertCase = `
INSERT INTO cases (
    jurisdiction, file_number, file_history_url, file_date, file_name, proceeding, dod,
    estate_closed, disposed, letters, letters_issued, estate_attorney, estate_attorney_firm, judge,
    parties, documents, related_files, run_id, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (jurisdiction, file_number) DO UPDATE SET
    file_history_url = excluded.file_history_url,
    file_date = excluded.file_date,
    file_name = excluded.file_name,
    proceeding = excluded.proceeding,
    dod = excluded.dod,
    estate_closed = excluded.estate_closed,
    disposed = excluded.disposed,
    letters = excluded.letters,
    letters_issued = excluded.letters_issued,
    estate_attorney = excluded.estate_attorney,
    estate_attorney_firm = excluded.estate_attorney_firm,
    judge = excluded.judge,
    parties = excluded.parties,
    documents = excluded.documents,
    related_files = excluded.related_files,
    run_id = excluded.run_id,
    updated_at = excluded.updated_at`

// SaveCases upserts cases in one transaction. Nested collections are
// stored as JSON text.
func (s *Store) SaveCases(ctx context.Context, runID string, cases []record.CaseDetail) error {
	return s.inTx(ctx, upsertCase, func(stmt *sql.Stmt, ts string) error {
		for _, c := range cases {
			parties, err := jsonText(c.Parties)
			if err != nil {
				return err
			}
			documents, err := jsonText(c.Documents)
			if err != nil {
				return err
			}
			related, err := jsonText(c.RelatedFiles)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx,
				c.Jurisdiction, c.FileNumber, c.DetailPageURL, c.FileDate, c.FileName, c.ProceedingType, c.DateOfDeath,
				c.EstateClosed, c.DisposedDate, c.LettersStatus, c.LettersIssuedDate, c.AttorneyName, c.AttorneyFirm, c.JudgeName,
				parties, documents, related, runID, ts); err != nil {
				return fmt.Errorf("saving case %s/%s: %w", c.Jurisdiction, c.FileNumber, err)
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, query string, fn func(*sql.Stmt, string) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	if err := fn(stmt, s.now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

// Case loads one case. ok is false if it was never saved.
func (s *Store) Case(ctx context.Context, jurisdiction, fileNumber string) (c record.CaseDetail, ok bool, err error) {
	var parties, documents, related string
	err = s.db.QueryRowContext(ctx, `
SELECT jurisdiction, file_number, file_history_url, file_date, file_name, proceeding, dod,
       estate_closed, disposed, letters, letters_issued, estate_attorney, estate_attorney_firm, judge,
       parties, documents, related_files
FROM cases WHERE jurisdiction = ? AND file_number = ?`, jurisdiction, fileNumber).Scan(
		&c.Jurisdiction, &c.FileNumber, &c.DetailPageURL, &c.FileDate, &c.FileName, &c.ProceedingType, &c.DateOfDeath,
		&c.EstateClosed, &c.DisposedDate, &c.LettersStatus, &c.LettersIssuedDate, &c.AttorneyName, &c.AttorneyFirm, &c.JudgeName,
		&parties, &documents, &related)
	if errors.Is(err, sql.ErrNoRows) {
		return record.CaseDetail{}, false, nil
	}
	if err != nil {
		return record.CaseDetail{}, false, err
	}

	for _, f := range []struct {
		text string
		dst  any
	}{{parties, &c.Parties}, {documents, &c.Documents}, {related, &c.RelatedFiles}} {
		if err := json.Unmarshal([]byte(f.text), f.dst); err != nil {
			return record.CaseDetail{}, false, fmt.Errorf("decoding case %s/%s: %w", jurisdiction, fileNumber, err)
		}
	}
	return c, true, nil
}

// Counts returns the number of stored rows and cases.
func (s *Store) Counts(ctx context.Context) (rows, cases int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM search_results), (SELECT COUNT(*) FROM cases)`).Scan(&rows, &cases)
	return rows, cases, err
}

func jsonText[T any](items []T) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
