package controller

import (
	"fmt"
	"os"
	"path/filepath"

	"trackview/models"
	"trackview/utils"
	"trackview/views"
)

// ExportController writes the visible window to CSV: the raw records, and
// optionally each view's projected points.
type ExportController struct {
	wc  *WindowController
	cfg utils.ExportConfig
}

// NewExportController returns an exporter reading from wc.
func NewExportController(wc *WindowController, cfg utils.ExportConfig) *ExportController {
	return &ExportController{wc: wc, cfg: cfg}
}

func (ec *ExportController) bufSize() int { return ec.cfg.BufferSizeKB * 1024 }

// ExportWindow writes the records inside the window to path and returns the
// number of rows written.
func (ec *ExportController) ExportWindow(path string) (uint64, error) {
	if ec.wc.Len() == 0 {
		return 0, models.ErrNoRecords
	}
	vis, err := ec.wc.Visible()
	if err != nil {
		return 0, fmt.Errorf("export window: %w", err)
	}
	w, err := views.NewCSVWriter(path, ec.bufSize(), ec.cfg.WriteHeader, views.RecordColumns())
	if err != nil {
		return 0, err
	}
	w.WriteRecords(vis)
	if err := w.Close(); err != nil {
		return 0, err
	}
	utils.L().Info("exported %d records %s to %s", w.Rows(), ec.wc.Bounds(), path)
	return w.Rows(), nil
}

// ExportPoints writes the named view's current chart buffer to path.
func (ec *ExportController) ExportPoints(name, path string) (uint64, error) {
	reg := ec.wc.Registry()
	spec, err := reg.Spec(name)
	if err != nil {
		return 0, err
	}
	pts, err := reg.Points(name)
	if err != nil {
		return 0, err
	}
	w, err := views.NewCSVWriter(path, ec.bufSize(), ec.cfg.WriteHeader, views.PointColumns(spec))
	if err != nil {
		return 0, err
	}
	w.WritePoints(pts)
	if err := w.Close(); err != nil {
		return 0, err
	}
	utils.L().Debug("exported %d %s points to %s", w.Rows(), spec.SeriesName(), path)
	return w.Rows(), nil
}

// ExportSession writes window.csv into dir, plus <view>.points.csv per view
// when point export is enabled. It returns the files written.
func (ec *ExportController) ExportSession(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	var files []string
	path := filepath.Join(dir, "window.csv")
	if _, err := ec.ExportWindow(path); err != nil {
		return files, err
	}
	files = append(files, path)

	if !ec.cfg.Points {
		return files, nil
	}
	for _, v := range ec.wc.Registry().Views() {
		if !v.Live {
			continue
		}
		path := filepath.Join(dir, v.Name+".points.csv")
		if _, err := ec.ExportPoints(v.Name, path); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}
