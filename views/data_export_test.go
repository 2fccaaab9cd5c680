package views

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"trackview/models"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return rows
}

func TestCSVWriter_Records(t *testing.T) {
	path := filepath.Join(t.TempDir(), "window.csv")
	w, err := NewCSVWriter(path, 0, true, RecordColumns())
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	w.WriteRecords(newTrack(11))
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if w.Rows() != 11 {
		t.Fatalf("rows = %d", w.Rows())
	}

	rows := readCSV(t, path)
	if len(rows) != 12 || rows[0][0] != "timestamp" {
		t.Fatalf("got %d rows, header %v", len(rows), rows[0])
	}
	// record 0 has no heart rate
	if rows[1][5] != "" || rows[2][5] == "" {
		t.Fatalf("heart rate cells = %q, %q", rows[1][5], rows[2][5])
	}
}

func TestCSVWriter_PointsNoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.csv")
	w, err := NewCSVWriter(path, 1024, false, nil)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	w.WritePoints([]models.Point{
		{X: models.Number(1.5), Y: models.Value{}},
		{X: models.Instant(trackStart), Y: models.Number(3)},
	})
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][0] != "1.5" || rows[0][1] != "" {
		t.Fatalf("row 0 = %v", rows[0])
	}
	if rows[1][0] != "2024-04-14T09:00:00Z" || rows[1][1] != "3" {
		t.Fatalf("row 1 = %v", rows[1])
	}
}

func TestPointColumns(t *testing.T) {
	spec := resolveSpec(Descriptor{Name: "v", X: "time", Y: "speed"})
	cols := PointColumns(spec)
	if cols[0] != "time" || cols[1] != "speed_kmh" {
		t.Fatalf("columns = %v", cols)
	}
	spec = resolveSpec(Descriptor{Name: "v", X: "distance", Y: "hr"})
	cols = PointColumns(spec)
	if cols[0] != "distance_m" || cols[1] != "heart-rate_bpm" {
		t.Fatalf("columns = %v", cols)
	}
}

func TestCSVWriter_BadPath(t *testing.T) {
	_, err := NewCSVWriter(filepath.Join(t.TempDir(), "missing", "x.csv"), 0, true, RecordColumns())
	if err == nil {
		t.Fatalf("expected error")
	}
}
