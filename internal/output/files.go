package output

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Files names a run's output files: <Dir>/<Base>_search.csv,
// <Dir>/<Base>_deep.csv and <Dir>/<Base>.<format>.
type Files struct {
	Dir    string
	Base   string
	Format Format
}

// SearchCSV returns the search results path.
func (f Files) SearchCSV() string { return filepath.Join(f.Dir, f.Base+"_search.csv") }

// DeepCSV returns the case details path.
func (f Files) DeepCSV() string { return filepath.Join(f.Dir, f.Base+"_deep.csv") }

// DumpPath returns the consolidated dump path.
func (f Files) DumpPath() string { return filepath.Join(f.Dir, f.Base+"."+f.Format.Extension()) }

// Save writes d. The CSV files are only written when they have records;
// the dump is always written. It returns the paths written.
func (f Files) Save(fs afero.Fs, d Dump, opts ...WriterOption) ([]string, error) {
	if err := fs.MkdirAll(f.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string
	write := func(path string, encode func(*bytes.Buffer) error) error {
		var buf bytes.Buffer
		if err := encode(&buf); err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	if len(d.SearchResults) > 0 {
		if err := write(f.SearchCSV(), func(b *bytes.Buffer) error { return WriteSearchCSV(b, d.SearchResults) }); err != nil {
			return written, err
		}
	}
	if len(d.Cases) > 0 {
		if err := write(f.DeepCSV(), func(b *bytes.Buffer) error { return WriteDeepCSV(b, d.Cases) }); err != nil {
			return written, err
		}
	}
	err := write(f.DumpPath(), func(b *bytes.Buffer) error { return WriteDump(b, f.Format, d, opts...) })
	return written, err
}
