// Package reader provides positional CSV ingestion for the raw extracts.
//
// The upstream extracts carry no trusted header row; the schema is applied
// by position downstream. The reader therefore yields untyped field-sets in
// file order and nothing else.
package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"fleximart/internal/logger"
)

// Row is one raw record: an ordered sequence of string fields.
type Row []string

// Field returns the field at position i, or the empty string when the row
// is too short. Short rows are a normal condition in these extracts.
func (r Row) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}

	return r[i]
}

// Reader reads raw extract files.
type Reader struct {
	logger *logger.Logger
}

// NewReader creates a new reader instance.
func NewReader(log *logger.Logger) *Reader {
	return &Reader{logger: log}
}

// ReadFile reads every row of a comma-separated extract in file order.
func (r *Reader) ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open extract: %w", err)
	}
	defer f.Close()

	rows, err := r.readAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read extract %s: %w", path, err)
	}

	r.logger.Debug("extract read", "path", path, "rows", len(rows))

	return rows, nil
}

func (r *Reader) readAll(src io.Reader) ([]Row, error) {
	cr := csv.NewReader(src)
	// Rows may be ragged or carry stray quotes; the normalizers decide what
	// a missing field means.
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows []Row

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, err
		}

		rows = append(rows, Row(record))
	}

	return rows, nil
}
