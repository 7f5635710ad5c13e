// Package output writes a run's records: tabular CSV files for search
// results and harvested cases, one consolidated dump, and a summary table.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/surrogate/internal/record"
)

// Format is a dump serialization.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Formats lists the supported dump formats.
var Formats = []Format{FormatJSON, FormatJSONL, FormatYAML}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

// Extension returns the dump file extension.
func (f Format) Extension() string {
	return string(f)
}

// RunInfo describes the run that produced a dump.
type RunInfo struct {
	ID            string    `json:"id" yaml:"id"`
	Version       string    `json:"version" yaml:"version"`
	Started       time.Time `json:"started" yaml:"started"`
	Finished      time.Time `json:"finished" yaml:"finished"`
	SearchKind    string    `json:"search_kind" yaml:"search_kind"`
	Jurisdictions []string  `json:"jurisdictions" yaml:"jurisdictions"`
	Deep          bool      `json:"deep" yaml:"deep"`
	Download      bool      `json:"download" yaml:"download"`
}

// Dump is the consolidated record of a run.
type Dump struct {
	Run           RunInfo             `json:"run" yaml:"run"`
	SearchResults []record.SearchRow  `json:"search_results" yaml:"search_results"`
	Cases         []record.CaseDetail `json:"cases" yaml:"cases"`
}

// WriterOption configures dump encoding.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
}

// WithPretty enables pretty-printing of JSON dumps.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the JSON indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// WriteDump encodes d to w in format. JSON and YAML write one document;
// JSONL writes the run, then each search result, then each case, one
// tagged object per line.
func WriteDump(w io.Writer, format Format, d Dump, opts ...WriterOption) error {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// Empty collections are written as empty lists, not null.
	if d.SearchResults == nil {
		d.SearchResults = []record.SearchRow{}
	}
	if d.Cases == nil {
		d.Cases = []record.CaseDetail{}
	}

	bw := bufio.NewWriter(w)
	var err error
	switch format {
	case FormatJSON:
		err = writeJSON(bw, d, cfg)
	case FormatJSONL:
		err = writeJSONL(bw, d)
	case FormatYAML:
		err = writeYAML(bw, d)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func writeJSON(w *bufio.Writer, d Dump, cfg *writerConfig) error {
	var out []byte
	var err error
	if cfg.pretty {
		out, err = json.MarshalIndent(d, "", cfg.indent)
	} else {
		out, err = json.Marshal(d)
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err = w.WriteString("\n")
	return err
}

// line is one JSONL record.
type line struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func writeJSONL(w *bufio.Writer, d Dump) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(line{Type: "run", Data: d.Run}); err != nil {
		return err
	}
	for _, row := range d.SearchResults {
		if err := enc.Encode(line{Type: "search_result", Data: row}); err != nil {
			return err
		}
	}
	for _, c := range d.Cases {
		if err := enc.Encode(line{Type: "case", Data: c}); err != nil {
			return err
		}
	}
	return nil
}

func writeYAML(w *bufio.Writer, d Dump) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(d); err != nil {
		return err
	}
	return encoder.Close()
}
