package views

import (
	"fmt"

	"trackview/models"
	"trackview/services/window"
	"trackview/utils"
)

// Viewport yields the records currently inside the shared window.
type Viewport interface {
	Visible() (models.Sequence, error)
}

// Descriptor asks for a view: a named projection of the window onto one
// chart. X and Y are axis names and are resolved on registration.
type Descriptor struct {
	Name   string
	X, Y   string
	Kind   Kind
	Target string
}

// ViewInfo is a read-only summary of a registered view.
type ViewInfo struct {
	Name   string `json:"name"`
	X      string `json:"x"`
	Y      string `json:"y"`
	Kind   string `json:"kind"`
	Target string `json:"target"`
	Points int    `json:"points"`
	Live   bool   `json:"live"`
}

type view struct {
	desc  Descriptor
	spec  ChartSpec
	chart Chart
}

// Registry owns every view and fans window deltas out to them. Like
// window.State it is driven from a single goroutine.
type Registry struct {
	renderer Renderer
	viewport Viewport
	order    []string
	views    map[string]*view
}

// NewRegistry returns an empty registry drawing through renderer.
func NewRegistry(renderer Renderer, viewport Viewport) *Registry {
	return &Registry{
		renderer: renderer,
		viewport: viewport,
		views:    make(map[string]*view),
	}
}

func resolveSpec(d Descriptor) ChartSpec {
	x, _ := models.ResolveAxis(d.X, models.AxisX)
	y, _ := models.ResolveAxis(d.Y, models.AxisY)
	target := d.Target
	if target == "" {
		target = d.Name
	}
	return ChartSpec{Name: d.Name, Target: target, Kind: d.Kind, X: x, Y: y}
}

// Register adds a view and creates its chart from the current window. A
// view already registered under the same name is replaced and keeps its
// place in the order. Nothing changes when the chart cannot be created or
// another view already draws to the same target.
func (g *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("register view: empty name")
	}
	spec := resolveSpec(d)
	for _, name := range g.order {
		if name != d.Name && g.views[name].spec.Target == spec.Target {
			return fmt.Errorf("register view %s: target %q already used by view %s", d.Name, spec.Target, name)
		}
	}
	c, err := g.newChart(spec)
	if err != nil {
		return fmt.Errorf("register view %s: %w", d.Name, err)
	}
	if v, exists := g.views[d.Name]; exists {
		v.destroy()
		v.desc, v.spec, v.chart = d, spec, c
	} else {
		g.views[d.Name] = &view{desc: d, spec: spec, chart: c}
		g.order = append(g.order, d.Name)
	}
	utils.L().Debug("view %s registered as %s (%s)", d.Name, spec.SeriesName(), spec.Kind)
	return nil
}

func (g *Registry) newChart(spec ChartSpec) (Chart, error) {
	recs, err := g.viewport.Visible()
	if err != nil {
		return nil, err
	}
	return g.renderer.Create(spec, models.Project(recs, spec.X, spec.Y))
}

func (v *view) destroy() {
	if v.chart != nil {
		v.chart.Destroy()
		v.chart = nil
	}
}

// ApplyDelta brings every live chart in line with a window move. Points for
// all views are projected before any chart is touched; each chart then sees
// front removals, back removals, front inserts and back appends in that
// order.
func (g *Registry) ApplyDelta(d window.Delta) {
	if d.Empty() {
		return
	}
	type batch struct {
		v           *view
		front, back []models.Point
	}
	batches := make([]batch, 0, len(g.order))
	for _, name := range g.order {
		v := g.views[name]
		if v.chart == nil {
			continue
		}
		batches = append(batches, batch{
			v:     v,
			front: models.Project(d.AddFront, v.spec.X, v.spec.Y),
			back:  models.Project(d.AddBack, v.spec.X, v.spec.Y),
		})
	}
	for _, b := range batches {
		c := b.v.chart
		c.TruncateFront(d.RemoveFront)
		c.TruncateBack(d.RemoveBack)
		c.InsertFront(b.front)
		c.AppendBack(b.back)
	}
}

// ChangeAxes re-points a view at a new axis pair and rebuilds its chart from
// the whole window. On failure the view keeps its old axes and chart.
func (g *Registry) ChangeAxes(name, x, y string) error {
	v, ok := g.views[name]
	if !ok {
		return fmt.Errorf("%w: %q", models.ErrUnknownView, name)
	}
	desc := v.desc
	desc.X, desc.Y = x, y
	spec := resolveSpec(desc)
	c, err := g.newChart(spec)
	if err != nil {
		return fmt.Errorf("change axes of %s: %w", name, err)
	}
	v.destroy()
	v.desc, v.spec, v.chart = desc, spec, c
	utils.L().Info("view %s now plots %s", name, v.spec.SeriesName())
	return nil
}

// DestroyAll releases every chart. Descriptors stay registered.
func (g *Registry) DestroyAll() {
	for _, name := range g.order {
		g.views[name].destroy()
	}
}

// Rebuild recreates every chart from the current window, typically after a
// new track was loaded. All views are attempted; the first error is
// returned.
func (g *Registry) Rebuild() error {
	var first error
	for _, name := range g.order {
		v := g.views[name]
		v.destroy()
		c, err := g.newChart(v.spec)
		if err != nil {
			utils.L().Error("rebuild view %s: %v", name, err)
			if first == nil {
				first = fmt.Errorf("rebuild view %s: %w", name, err)
			}
			continue
		}
		v.chart = c
	}
	return first
}

// Remove destroys and unregisters a view.
func (g *Registry) Remove(name string) error {
	v, ok := g.views[name]
	if !ok {
		return fmt.Errorf("%w: %q", models.ErrUnknownView, name)
	}
	v.destroy()
	delete(g.views, name)
	for i, n := range g.order {
		if n == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return nil
}

// Views summarises the registered views in registration order.
func (g *Registry) Views() []ViewInfo {
	out := make([]ViewInfo, 0, len(g.order))
	for _, name := range g.order {
		v := g.views[name]
		info := ViewInfo{
			Name:   name,
			X:      v.spec.X.Name,
			Y:      v.spec.Y.Name,
			Kind:   v.spec.Kind.String(),
			Target: v.spec.Target,
		}
		if v.chart != nil {
			info.Live = true
			info.Points = v.chart.Len()
		}
		out = append(out, info)
	}
	return out
}

// Points returns a copy of the named view's chart buffer.
func (g *Registry) Points(name string) ([]models.Point, error) {
	v, ok := g.views[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownView, name)
	}
	if v.chart == nil {
		return nil, nil
	}
	return v.chart.Points(), nil
}

// Spec returns the resolved chart spec of the named view.
func (g *Registry) Spec(name string) (ChartSpec, error) {
	v, ok := g.views[name]
	if !ok {
		return ChartSpec{}, fmt.Errorf("%w: %q", models.ErrUnknownView, name)
	}
	return v.spec, nil
}
