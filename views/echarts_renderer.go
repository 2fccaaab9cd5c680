package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"

	"trackview/models"
)

// HTMLOptions sizes and themes the echarts output.
type HTMLOptions struct {
	Width  int
	Height int
	Theme  string
}

// EChartsRenderer renders views as interactive echarts charts on one HTML
// page.
type EChartsRenderer struct {
	opts HTMLOptions
	set  chartSet[*echartsChart]
}

// NewEChartsRenderer returns a renderer with sizes defaulted to 900x400.
func NewEChartsRenderer(o HTMLOptions) *EChartsRenderer {
	if o.Width <= 0 {
		o.Width = 900
	}
	if o.Height <= 0 {
		o.Height = 400
	}
	if o.Theme == "" {
		o.Theme = "macarons"
	}
	return &EChartsRenderer{opts: o}
}

type echartsChart struct {
	PointBuffer
	id    string
	spec  ChartSpec
	owner *EChartsRenderer
}

// Create registers a new chart seeded with seed.
func (r *EChartsRenderer) Create(spec ChartSpec, seed []models.Point) (Chart, error) {
	c := &echartsChart{
		PointBuffer: newPointBuffer(seed),
		// chart ids double as JS identifiers in the page
		id:    "chart_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		spec:  spec,
		owner: r,
	}
	r.set.add(c.id, c)
	return c, nil
}

func (c *echartsChart) Destroy() {
	if c.owner != nil {
		c.owner.set.remove(c.id)
		c.owner = nil
	}
	c.reset()
}

// Live returns the number of charts not yet destroyed.
func (r *EChartsRenderer) Live() int { return len(r.set.ids) }

// WritePage renders every live chart onto one HTML page.
func (r *EChartsRenderer) WritePage(w io.Writer) error {
	page := components.NewPage()
	for _, c := range r.set.live() {
		page.AddCharts(c.build(r.opts))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// WriteChart renders the live chart whose target matches.
func (r *EChartsRenderer) WriteChart(target string, w io.Writer) error {
	for _, c := range r.set.live() {
		if c.spec.Target != target {
			continue
		}
		if err := c.build(r.opts).Render(w); err != nil {
			return fmt.Errorf("render chart %s: %w", target, err)
		}
		return nil
	}
	return fmt.Errorf("%w: no live chart for target %q", models.ErrUnknownView, target)
}

type echartsRenderable interface {
	components.Charter
	Render(w io.Writer) error
}

func (c *echartsChart) build(o HTMLOptions) echartsRenderable {
	xType := "value"
	if c.spec.X.Temporal {
		xType = "time"
	}
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: c.id,
			Theme:   o.Theme,
			Width:   fmt.Sprintf("%dpx", o.Width),
			Height:  fmt.Sprintf("%dpx", o.Height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    c.spec.SeriesName(),
			Subtitle: fmt.Sprintf("%d points", c.Len()),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: AxisLabel(c.spec.X), Type: xType}),
		charts.WithYAxisOpts(opts.YAxis{Name: AxisLabel(c.spec.Y), Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	}

	if c.spec.Kind == KindScatter {
		sc := charts.NewScatter()
		sc.SetGlobalOptions(global...)
		data := make([]opts.ScatterData, 0, len(c.pts))
		for _, p := range c.pts {
			data = append(data, opts.ScatterData{Value: []interface{}{echartsValue(p.X), echartsValue(p.Y)}})
		}
		sc.AddSeries(c.spec.SeriesName(), data)
		return sc
	}

	line := charts.NewLine()
	line.SetGlobalOptions(global...)
	data := make([]opts.LineData, 0, len(c.pts))
	for _, p := range c.pts {
		data = append(data, opts.LineData{Value: []interface{}{echartsValue(p.X), echartsValue(p.Y)}})
	}
	line.AddSeries(c.spec.SeriesName(), data)
	return line
}

// echartsValue maps a coordinate to its echarts form; "-" is echarts' gap
// marker.
func echartsValue(v models.Value) interface{} {
	switch {
	case !v.Valid:
		return "-"
	case v.Temporal:
		return v.At.UnixMilli()
	default:
		return v.Num
	}
}
