package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDataset reads a {trades, equity, benchmark} document.
// The format follows the extension: .json, .yaml/.yml, or .csv (trades only).
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var ds *Dataset
	switch ext {
	case ".json":
		ds, err = DecodeJSON(bytes.NewReader(data))
	case ".yaml", ".yml":
		ds, err = DecodeYAML(bytes.NewReader(data))
	case ".csv":
		ds = &Dataset{}
		ds.Trades, err = LoadTradesCSV(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Files names the CSV exports of one journal
type Files struct {
	Trades    string
	Equity    string // optional
	Benchmark string // optional
}

// LoadFiles reads a set of CSV exports
func LoadFiles(files Files) (*Dataset, error) {
	ds := &Dataset{}

	if err := readCSV(files.Trades, func(r io.Reader) (err error) {
		ds.Trades, err = LoadTradesCSV(r)
		return err
	}); err != nil {
		return nil, err
	}
	if files.Equity != "" {
		if err := readCSV(files.Equity, func(r io.Reader) (err error) {
			ds.Equity, err = LoadEquityCSV(r)
			return err
		}); err != nil {
			return nil, err
		}
	}
	if files.Benchmark != "" {
		if err := readCSV(files.Benchmark, func(r io.Reader) (err error) {
			ds.Benchmark, err = LoadBenchmarkCSV(r)
			return err
		}); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func readCSV(path string, fn func(io.Reader) error) error {
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	if err := fn(fh); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// DecodeJSON decodes a dataset document. Unknown fields are rejected.
func DecodeJSON(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// DecodeYAML decodes a dataset document. Unknown fields are rejected.
func DecodeYAML(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &ds, nil
}
