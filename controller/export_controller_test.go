package controller

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"trackview/models"
	"trackview/utils"
	"trackview/views"
)

func countRows(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return len(rows)
}

func TestExportWindow(t *testing.T) {
	wc, _ := newController(t, 100)
	_, _ = wc.Move(25, 50)
	ec := NewExportController(wc, utils.ExportConfig{WriteHeader: true})

	path := filepath.Join(t.TempDir(), "window.csv")
	n, err := ec.ExportWindow(path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 25 {
		t.Fatalf("rows = %d", n)
	}
	if got := countRows(t, path); got != 26 {
		t.Fatalf("file rows = %d, want header + 25", got)
	}
}

func TestExportWindow_NoTrack(t *testing.T) {
	wc := NewWindowController(views.NewEChartsRenderer(views.HTMLOptions{}), Options{})
	ec := NewExportController(wc, utils.ExportConfig{})
	_, err := ec.ExportWindow(filepath.Join(t.TempDir(), "x.csv"))
	if !errors.Is(err, models.ErrNoRecords) {
		t.Fatalf("err = %v", err)
	}
}

func TestExportPoints(t *testing.T) {
	wc, _ := newController(t, 40)
	_, _ = wc.Move(0, 50)
	ec := NewExportController(wc, utils.ExportConfig{WriteHeader: false})

	path := filepath.Join(t.TempDir(), "xy.csv")
	n, err := ec.ExportPoints("xy", path)
	if err != nil || n != 20 {
		t.Fatalf("export points: %d, %v", n, err)
	}
	if got := countRows(t, path); got != 20 {
		t.Fatalf("file rows = %d", got)
	}
	if _, err := ec.ExportPoints("nope", path); !errors.Is(err, models.ErrUnknownView) {
		t.Fatalf("err = %v", err)
	}
}

func TestExportSession(t *testing.T) {
	wc, _ := newController(t, 10)
	ec := NewExportController(wc, utils.ExportConfig{WriteHeader: true, Points: true})

	dir := filepath.Join(t.TempDir(), "session")
	files, err := ec.ExportSession(dir)
	if err != nil {
		t.Fatalf("export session: %v", err)
	}
	want := []string{"window.csv", "timeseries.points.csv", "xy.points.csv"}
	if len(files) != len(want) {
		t.Fatalf("files = %v", files)
	}
	for i, name := range want {
		if filepath.Base(files[i]) != name {
			t.Fatalf("file %d = %s want %s", i, files[i], name)
		}
	}
}
