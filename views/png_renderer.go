package views

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	chart "github.com/wcharczuk/go-chart/v2"

	"trackview/models"
	"trackview/utils"
)

// PNGRenderer keeps the same positional buffers as the HTML renderer and
// rasterises them with go-chart on request.
type PNGRenderer struct {
	width  int
	height int
	set    chartSet[*pngChart]
}

// NewPNGRenderer returns a renderer producing width x height images.
func NewPNGRenderer(width, height int) *PNGRenderer {
	if width <= 0 {
		width = 900
	}
	if height <= 0 {
		height = 400
	}
	return &PNGRenderer{width: width, height: height}
}

// errTooFewPoints marks a chart go-chart cannot draw.
var errTooFewPoints = errors.New("fewer than two plottable points")

type pngChart struct {
	PointBuffer
	id    string
	spec  ChartSpec
	owner *PNGRenderer
}

// Create registers a new chart seeded with seed. Targets are not checked for
// uniqueness here; the registry keeps them distinct.
func (r *PNGRenderer) Create(spec ChartSpec, seed []models.Point) (Chart, error) {
	c := &pngChart{PointBuffer: newPointBuffer(seed), id: uuid.NewString(), spec: spec, owner: r}
	r.set.add(c.id, c)
	return c, nil
}

func (c *pngChart) Destroy() {
	if c.owner != nil {
		c.owner.set.remove(c.id)
		c.owner = nil
	}
	c.reset()
}

// Live returns the number of charts not yet destroyed.
func (r *PNGRenderer) Live() int { return len(r.set.ids) }

// WriteChart renders the chart for target as PNG.
func (r *PNGRenderer) WriteChart(target string, w io.Writer) error {
	live := r.set.live()
	for i := len(live) - 1; i >= 0; i-- {
		if live[i].spec.Target == target {
			return live[i].render(r.width, r.height, w)
		}
	}
	return fmt.Errorf("%w: no live chart for target %q", models.ErrUnknownView, target)
}

// WriteFiles writes one <target>.png per live chart into dir and returns the
// paths written. Charts with fewer than two plottable points are skipped with
// a warning. Other failures do not stop the remaining charts; the first one
// is returned.
func (r *PNGRenderer) WriteFiles(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	var (
		paths []string
		first error
	)
	for _, c := range r.set.live() {
		var buf bytes.Buffer
		err := c.render(r.width, r.height, &buf)
		if errors.Is(err, errTooFewPoints) {
			utils.L().Warn("skipping %s.png: %v", c.spec.Target, err)
			continue
		}
		path := filepath.Join(dir, c.spec.Target+".png")
		if err == nil {
			err = os.WriteFile(path, buf.Bytes(), 0o644)
		}
		if err != nil {
			utils.L().Error("write %s: %v", path, err)
			if first == nil {
				first = fmt.Errorf("write %s: %w", path, err)
			}
			continue
		}
		utils.L().Debug("wrote %s (%d points)", path, c.Len())
		paths = append(paths, path)
	}
	return paths, first
}

func (c *pngChart) render(width, height int, w io.Writer) error {
	series, ok := c.series()
	if !ok {
		return fmt.Errorf("render %s: %w", c.spec.Target, errTooFewPoints)
	}
	ch := chart.Chart{
		Title:      c.spec.SeriesName(),
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: AxisLabel(c.spec.X)},
		YAxis:      chart.YAxis{Name: AxisLabel(c.spec.Y)},
		Series:     []chart.Series{series},
	}
	if c.spec.X.Temporal {
		ch.XAxis.ValueFormatter = chart.TimeValueFormatterWithFormat(utils.LabelLayout)
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", c.spec.Target, err)
	}
	return nil
}

// series skips points with a missing coordinate; go-chart needs at least two.
func (c *pngChart) series() (chart.Series, bool) {
	style := chart.Style{StrokeWidth: 2}
	if c.spec.Kind == KindScatter {
		style = chart.Style{StrokeWidth: chart.Disabled, DotWidth: 3}
	}
	name := c.spec.SeriesName()

	if c.spec.X.Temporal {
		var xs []time.Time
		var ys []float64
		for _, p := range c.pts {
			if p.Valid() {
				xs = append(xs, p.X.At)
				ys = append(ys, p.Y.Float())
			}
		}
		if len(xs) < 2 {
			return nil, false
		}
		return chart.TimeSeries{Name: name, XValues: xs, YValues: ys, Style: style}, true
	}

	var xs, ys []float64
	for _, p := range c.pts {
		if p.Valid() {
			xs = append(xs, p.X.Float())
			ys = append(ys, p.Y.Float())
		}
	}
	if len(xs) < 2 {
		return nil, false
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: style}, true
}
