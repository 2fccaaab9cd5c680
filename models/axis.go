package models

import (
	"math"
	"strings"
	"time"

	"trackview/utils"
)

// SpeedFactor converts source speed (m/s) to km/h.
const SpeedFactor = 3.6

// AxisRole says which side of a chart an axis feeds. It picks the default
// used for unrecognised axis names.
type AxisRole int

const (
	AxisX AxisRole = iota
	AxisY
)

func (r AxisRole) String() string {
	if r == AxisX {
		return "x"
	}
	return "y"
}

// Axis is a resolved axis selector: a pure projection from a Record to the
// value plotted on one side of a chart.
type Axis struct {
	Name     string // canonical name, e.g. "heart-rate"
	Unit     string
	Field    Field
	Temporal bool
	scale    float64
}

// Project applies the selector to one record. A record without the field
// yields a missing Value.
func (a Axis) Project(r Record) Value {
	if a.Temporal {
		t, ok := r.Time()
		if !ok {
			return Value{Temporal: true}
		}
		return Instant(t)
	}
	v, ok := r.Float(a.Field)
	if !ok {
		return Value{}
	}
	return Number(v * a.scale)
}

var axes = map[string]Axis{
	"time":       {Name: "time", Field: FieldTimestamp, Temporal: true},
	"speed":      {Name: "speed", Unit: "km/h", Field: FieldSpeed, scale: SpeedFactor},
	"altitude":   {Name: "altitude", Unit: "m", Field: FieldAltitude, scale: 1},
	"heart-rate": {Name: "heart-rate", Unit: "bpm", Field: FieldHeartRate, scale: 1},
	"distance":   {Name: "distance", Unit: "m", Field: FieldDistance, scale: 1},
}

// short spellings accepted in configs and URLs
var axisAliases = map[string]string{
	"hr":        "heart-rate",
	"heartrate": "heart-rate",
}

var defaultAxis = map[AxisRole]string{
	AxisX: "time",
	AxisY: "speed",
}

// AxisNames lists the closed axis vocabulary.
func AxisNames() []string {
	return []string{"time", "speed", "altitude", "heart-rate", "distance"}
}

// ResolveAxis maps an axis name to its selector. Unknown names fall back to
// time for X and speed for Y; ok is false in that case and a warning is
// logged.
func ResolveAxis(name string, role AxisRole) (Axis, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, found := axisAliases[key]; found {
		key = alias
	}
	if a, found := axes[key]; found {
		return a, true
	}
	fallback := defaultAxis[role]
	utils.L().Warn("unknown %s axis %q, using %q", role, name, fallback)
	return axes[fallback], false
}

// ─── values and points ──────────────────────────────────────────────────

// Value is one projected coordinate: a number, an instant, or missing.
type Value struct {
	Num      float64
	At       time.Time
	Temporal bool
	Valid    bool
}

// Number wraps a numeric coordinate.
func Number(v float64) Value { return Value{Num: v, Valid: true} }

// Instant wraps a temporal coordinate.
func Instant(t time.Time) Value { return Value{At: t, Temporal: true, Valid: true} }

// Float returns the coordinate as a float: instants as Unix milliseconds,
// missing values as NaN.
func (v Value) Float() float64 {
	switch {
	case !v.Valid:
		return math.NaN()
	case v.Temporal:
		return float64(v.At.UnixMilli())
	default:
		return v.Num
	}
}

// Point is one projected {x, y} pair. Points are recomputed on demand and
// never stored outside a chart buffer.
type Point struct {
	X, Y Value
}

// Valid reports whether both coordinates are present.
func (p Point) Valid() bool { return p.X.Valid && p.Y.Valid }

// Project maps every record through the x and y selectors.
func Project(records Sequence, x, y Axis) []Point {
	pts := make([]Point, len(records))
	for i, r := range records {
		pts[i] = Point{X: x.Project(r), Y: y.Project(r)}
	}
	return pts
}
