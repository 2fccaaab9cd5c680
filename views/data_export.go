package views

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"trackview/models"
)

// CSVWriter is a buffered CSV file writer. Rows are encoded under a mutex
// so an export can be fed from more than one goroutine.
type CSVWriter struct {
	mu   sync.Mutex
	path string
	file *os.File
	buf  *bufio.Writer
	csv  *csv.Writer
	rows uint64
}

// NewCSVWriter creates path and optionally writes the header row.
func NewCSVWriter(path string, bufSizeBytes int, writeHeader bool, header []string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv create %s: %w", path, err)
	}

	if bufSizeBytes <= 0 {
		bufSizeBytes = 64 * 1024
	}

	bw := bufio.NewWriterSize(f, bufSizeBytes)
	cw := csv.NewWriter(bw)

	w := &CSVWriter{
		path: path,
		file: f,
		buf:  bw,
		csv:  cw,
	}

	if writeHeader && len(header) > 0 {
		if err := cw.Write(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("csv write header: %w", err)
		}
	}

	return w, nil
}

// WriteRow appends one row. Encoding errors surface on Flush.
func (w *CSVWriter) WriteRow(row []string) {
	w.mu.Lock()
	_ = w.csv.Write(row)
	w.rows++
	w.mu.Unlock()
}

// WriteRecords appends one row per record.
func (w *CSVWriter) WriteRecords(seq models.Sequence) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range seq {
		_ = w.csv.Write(seq[i].CSVRow())
		w.rows++
	}
}

// WritePoints appends one row per point.
func (w *CSVWriter) WritePoints(pts []models.Point) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range pts {
		_ = w.csv.Write(PointRow(p))
		w.rows++
	}
}

// Flush pushes buffered rows to the file and reports any write error seen
// since the last flush.
func (w *CSVWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("csv flush %s: %w", w.path, err)
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("csv flush %s: %w", w.path, err)
	}
	return nil
}

// Close flushes remaining rows and closes the file.
func (w *CSVWriter) Close() error {
	ferr := w.Flush()
	w.mu.Lock()
	cerr := w.file.Close()
	w.mu.Unlock()
	if ferr != nil {
		return ferr
	}
	if cerr != nil {
		return fmt.Errorf("csv close %s: %w", w.path, cerr)
	}
	return nil
}

// Rows returns the number of data rows written (excludes header).
func (w *CSVWriter) Rows() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

// Path returns the file being written.
func (w *CSVWriter) Path() string { return w.path }
