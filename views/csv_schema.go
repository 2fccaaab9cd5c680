package views

import (
	"strconv"
	"time"

	"trackview/models"
)

// ExportKind selects what an export writes.
type ExportKind int

const (
	ExportRecords ExportKind = iota // raw records in the window
	ExportPoints                    // one view's projected points
)

var exportNames = map[ExportKind]string{
	ExportRecords: "records",
	ExportPoints:  "points",
}

func (k ExportKind) String() string {
	if n, ok := exportNames[k]; ok {
		return n
	}
	return "unknown"
}

// RecordColumns is the header of a record export.
func RecordColumns() []string {
	return models.Record{}.CSVHeader()
}

// PointColumns is the header of a point export for spec, e.g.
// "time", "speed_kmh".
func PointColumns(spec ChartSpec) []string {
	return []string{columnName(spec.X), columnName(spec.Y)}
}

func columnName(a models.Axis) string {
	switch a.Unit {
	case "":
		return a.Name
	case "km/h":
		return a.Name + "_kmh"
	default:
		return a.Name + "_" + a.Unit
	}
}

// PointRow renders a point as CSV cells. Missing coordinates are empty.
func PointRow(p models.Point) []string {
	return []string{valueCell(p.X), valueCell(p.Y)}
}

func valueCell(v models.Value) string {
	switch {
	case !v.Valid:
		return ""
	case v.Temporal:
		return v.At.UTC().Format(time.RFC3339Nano)
	default:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
}
