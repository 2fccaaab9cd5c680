package views

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trackview/models"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		err  bool
	}{
		{"", KindLine, false},
		{"line", KindLine, false},
		{" TimeSeries ", KindLine, false},
		{"scatter", KindScatter, false},
		{"xy", KindScatter, false},
		{"pie", KindLine, true},
	}
	for _, c := range cases {
		got, err := ParseKind(c.in)
		if (err != nil) != c.err || got != c.want {
			t.Fatalf("ParseKind(%q) = %v,%v", c.in, got, err)
		}
	}
}

func TestAxisLabel(t *testing.T) {
	hr, _ := models.ResolveAxis("hr", models.AxisY)
	if got := AxisLabel(hr); got != "Heart Rate (bpm)" {
		t.Fatalf("label = %q", got)
	}
	tm, _ := models.ResolveAxis("time", models.AxisX)
	if got := AxisLabel(tm); got != "Time" {
		t.Fatalf("label = %q", got)
	}
}

func TestChartSpec_SeriesName(t *testing.T) {
	spec := resolveSpec(Descriptor{Name: "v", X: "distance", Y: "altitude"})
	if got := spec.SeriesName(); got != "altitude=f(distance)" {
		t.Fatalf("series name = %q", got)
	}
	if spec.Target != "v" {
		t.Fatalf("target defaults to name, got %q", spec.Target)
	}
}

func TestPointBuffer(t *testing.T) {
	pts := make([]models.Point, 5)
	for i := range pts {
		pts[i] = models.Point{X: models.Number(float64(i)), Y: models.Number(1)}
	}
	b := newPointBuffer(pts[1:4])
	pts[1].X.Num = 99
	if b.Points()[0].X.Num != 1 {
		t.Fatalf("buffer aliases its seed")
	}

	b.InsertFront(pts[:1])
	b.AppendBack(pts[4:])
	if b.Len() != 5 || b.Points()[0].X.Num != 0 || b.Points()[4].X.Num != 4 {
		t.Fatalf("after inserts: %+v", b.Points())
	}
	b.TruncateFront(2)
	b.TruncateBack(1)
	if b.Len() != 2 || b.Points()[0].X.Num != 2 {
		t.Fatalf("after truncation: %+v", b.Points())
	}
	b.TruncateBack(10)
	if b.Len() != 0 {
		t.Fatalf("over-truncation left %d points", b.Len())
	}
}

func TestEChartsRenderer_PageHoldsLiveCharts(t *testing.T) {
	r := NewEChartsRenderer(HTMLOptions{})
	seq := newTrack(20)

	speed := resolveSpec(Descriptor{Name: "speed", X: "time", Y: "speed"})
	xy := resolveSpec(Descriptor{Name: "xy", X: "distance", Y: "heart-rate", Kind: KindScatter})
	a, err := r.Create(speed, models.Project(seq, speed.X, speed.Y))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, _ := r.Create(xy, models.Project(seq, xy.X, xy.Y))
	if r.Live() != 2 {
		t.Fatalf("live = %d", r.Live())
	}

	var buf bytes.Buffer
	if err := r.WritePage(&buf); err != nil {
		t.Fatalf("write page: %v", err)
	}
	html := buf.String()
	for _, c := range []Chart{a, b} {
		id := c.(*echartsChart).id
		if !strings.Contains(html, id) {
			t.Fatalf("page lacks chart %s", id)
		}
	}

	a.Destroy()
	a.Destroy()
	if r.Live() != 1 {
		t.Fatalf("live after destroy = %d", r.Live())
	}
	buf.Reset()
	_ = r.WritePage(&buf)
	if strings.Contains(buf.String(), a.(*echartsChart).id) {
		t.Fatalf("destroyed chart still rendered")
	}
}

func TestEChartsRenderer_WriteChartUnknownTarget(t *testing.T) {
	r := NewEChartsRenderer(HTMLOptions{Width: 300, Height: 200})
	err := r.WriteChart("missing", &bytes.Buffer{})
	if !errors.Is(err, models.ErrUnknownView) {
		t.Fatalf("err = %v", err)
	}
}

func TestEChartsValue(t *testing.T) {
	if v := echartsValue(models.Value{}); v != "-" {
		t.Fatalf("missing = %v", v)
	}
	if v := echartsValue(models.Number(2.5)); v != 2.5 {
		t.Fatalf("number = %v", v)
	}
	at := trackStart
	if v := echartsValue(models.Instant(at)); v != at.UnixMilli() {
		t.Fatalf("instant = %v", v)
	}
}

func TestPNGRenderer_WriteFiles(t *testing.T) {
	r := NewPNGRenderer(320, 200)
	seq := newTrack(30)

	line := resolveSpec(Descriptor{Name: "timeseries", X: "time", Y: "speed"})
	scatter := resolveSpec(Descriptor{Name: "xy", X: "distance", Y: "hr", Kind: KindScatter})
	if _, err := r.Create(line, models.Project(seq, line.X, line.Y)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := r.Create(scatter, models.Project(seq, scatter.X, scatter.Y)); err != nil {
		t.Fatalf("create: %v", err)
	}

	dir := t.TempDir()
	paths, err := r.WriteFiles(dir)
	if err != nil {
		t.Fatalf("write files: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	for _, name := range []string{"timeseries.png", "xy.png"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Fatalf("%s is not a PNG", name)
		}
	}
}

func TestPNGRenderer_WriteFilesSkipsUnplottable(t *testing.T) {
	r := NewPNGRenderer(320, 200)
	seq := newTrack(30)

	// newTrack has no altitude, so b_alt has nothing to draw.
	for _, d := range []Descriptor{
		{Name: "a_time", X: "time", Y: "speed"},
		{Name: "b_alt", X: "time", Y: "altitude"},
		{Name: "c_dist", X: "distance", Y: "speed"},
	} {
		spec := resolveSpec(d)
		if _, err := r.Create(spec, models.Project(seq, spec.X, spec.Y)); err != nil {
			t.Fatalf("create %s: %v", d.Name, err)
		}
	}

	dir := t.TempDir()
	paths, err := r.WriteFiles(dir)
	if err != nil {
		t.Fatalf("write files: %v", err)
	}
	want := []string{filepath.Join(dir, "a_time.png"), filepath.Join(dir, "c_dist.png")}
	if len(paths) != len(want) || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("paths = %v want %v", paths, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "b_alt.png")); !os.IsNotExist(err) {
		t.Fatalf("b_alt.png should not exist: %v", err)
	}
}

func TestPNGRenderer_ReplacedChartKeepsNewOne(t *testing.T) {
	r := NewPNGRenderer(320, 200)
	seq := newTrack(10)
	spec := resolveSpec(Descriptor{Name: "v", X: "time", Y: "speed"})

	old, _ := r.Create(spec, models.Project(seq, spec.X, spec.Y))
	if _, err := r.Create(spec, models.Project(seq, spec.X, spec.Y)); err != nil {
		t.Fatalf("create: %v", err)
	}
	old.Destroy()
	if r.Live() != 1 {
		t.Fatalf("live = %d", r.Live())
	}
	if err := r.WriteChart("v", &bytes.Buffer{}); err != nil {
		t.Fatalf("write chart: %v", err)
	}
}

func TestPNGRenderer_TooFewPoints(t *testing.T) {
	r := NewPNGRenderer(0, 0)
	spec := resolveSpec(Descriptor{Name: "one", X: "time", Y: "speed"})
	c, _ := r.Create(spec, models.Project(newTrack(1), spec.X, spec.Y))
	if err := r.WriteChart("one", &bytes.Buffer{}); !errors.Is(err, errTooFewPoints) {
		t.Fatalf("err for a single point = %v", err)
	}
	c.Destroy()
	if err := r.WriteChart("one", &bytes.Buffer{}); !errors.Is(err, models.ErrUnknownView) {
		t.Fatalf("err after destroy = %v", err)
	}
}
