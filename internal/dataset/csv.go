// Package dataset loads and saves tabular snapshots for the CLI. The
// engine itself never touches files; it consumes already-parsed datasets.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/tabhound/internal/model"
)

// Load reads a CSV file into a dataset snapshot. The first record is the
// header; short records leave the remaining columns empty.
func Load(path string) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset is empty: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	ds := &model.Dataset{Columns: header}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(ds.Rows)+2, err)
		}
		row := make(model.Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

// Save writes a dataset as CSV, header first, rows in order.
func Save(path string, ds *model.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, col := range ds.Columns {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
