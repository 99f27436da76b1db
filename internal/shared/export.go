package shared

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

// CSVStream writes a CSV download, flushing every few hundred rows.
type CSVStream struct {
	buf     *bufio.Writer
	csv     *csv.Writer
	pending int
}

// NewCSVStream sets download headers on w and writes header as the first
// row. The file is named "<name>-<date>.csv".
func NewCSVStream(w http.ResponseWriter, name string, header []string) (*CSVStream, error) {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	buf := bufio.NewWriterSize(w, csvBufferSize)
	s := &CSVStream{buf: buf, csv: csv.NewWriter(buf)}
	if err := s.Row(header...); err != nil {
		return nil, err
	}
	return s, nil
}

// Row appends one record.
func (s *CSVStream) Row(fields ...string) error {
	if err := s.csv.Write(fields); err != nil {
		return err
	}
	s.pending++
	if s.pending >= csvFlushEvery {
		return s.Flush()
	}
	return nil
}

// Flush pushes buffered rows to the client.
func (s *CSVStream) Flush() error {
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	s.pending = 0
	return s.buf.Flush()
}

// BulkDeleteInput lists the ids a bulk delete removes.
type BulkDeleteInput struct {
	IDs []int64 `json:"ids" validate:"required,min=1,max=100,dive,gt=0"`
}

// BulkDeleteResult reports how many rows were removed.
type BulkDeleteResult struct {
	Deleted int64 `json:"deleted"`
}
