package views

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"trackview/models"
)

// Kind is the chart style of a view.
type Kind int

const (
	KindLine Kind = iota
	KindScatter
)

func (k Kind) String() string {
	if k == KindScatter {
		return "scatter"
	}
	return "line"
}

// ParseKind maps a config string to a Kind. Empty means line.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "line", "linear", "timeseries":
		return KindLine, nil
	case "scatter", "xy":
		return KindScatter, nil
	}
	return KindLine, fmt.Errorf("unknown chart kind %q", s)
}

// ChartSpec is everything a renderer needs to materialise one chart.
type ChartSpec struct {
	Name   string
	Target string
	Kind   Kind
	X, Y   models.Axis
}

// SeriesName labels the plotted series as y=f(x).
func (s ChartSpec) SeriesName() string {
	return fmt.Sprintf("%s=f(%s)", s.Y.Name, s.X.Name)
}

var titleCaser = cases.Title(language.English)

// AxisLabel renders an axis name for display, e.g. "Heart Rate (bpm)".
func AxisLabel(a models.Axis) string {
	label := titleCaser.String(strings.ReplaceAll(a.Name, "-", " "))
	if a.Unit != "" {
		label += " (" + a.Unit + ")"
	}
	return label
}

// Renderer is the rendering collaborator. Create returns the handle the
// view keeps; the core never looks inside it.
type Renderer interface {
	Create(spec ChartSpec, seed []models.Point) (Chart, error)
}

// Chart is one live rendering object. Positional operations only: the
// window engine tells it where points go, never which points to find.
type Chart interface {
	InsertFront(pts []models.Point)
	AppendBack(pts []models.Point)
	TruncateFront(n int)
	TruncateBack(n int)
	Destroy()

	Len() int
	Points() []models.Point
}
