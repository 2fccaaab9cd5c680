package controller

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"trackview/models"
	"trackview/services/ingest"
	"trackview/services/store"
	"trackview/services/window"
	"trackview/utils"
	"trackview/views"
)

// WindowController turns range-selector percentages into window moves and
// keeps the view registry in step. It owns the store, the window and the
// registry; none of them lock, so every call must come from one goroutine
// (see Run).
type WindowController struct {
	store    *store.RecordStore
	win      *window.State
	registry *views.Registry
	format   string
	loc      *time.Location

	loading atomic.Bool

	moves     atomic.Uint64
	rejected  atomic.Uint64
	coalesced atomic.Uint64
}

// Options configures a WindowController.
type Options struct {
	Format   string         // default ingest format: auto, tcx or fit
	Location *time.Location // zone for boundary labels; nil means local
}

// NewWindowController wires an empty store, a window over it and a view
// registry drawing through renderer.
func NewWindowController(renderer views.Renderer, opts Options) *WindowController {
	st := store.New()
	win := window.New(st)
	return &WindowController{
		store:    st,
		win:      win,
		registry: views.NewRegistry(renderer, win),
		format:   opts.Format,
		loc:      opts.Location,
	}
}

// Registry exposes the view registry for registration and inspection.
func (wc *WindowController) Registry() *views.Registry { return wc.registry }

// Bounds returns the current window.
func (wc *WindowController) Bounds() window.Bounds { return wc.win.Bounds() }

// Len returns the number of records in the loaded track.
func (wc *WindowController) Len() int { return wc.store.Len() }

// Visible returns the records inside the window.
func (wc *WindowController) Visible() (models.Sequence, error) { return wc.win.Visible() }

// Register adds a view seeded from the current window.
func (wc *WindowController) Register(d views.Descriptor) error {
	return wc.registry.Register(d)
}

// Load installs seq as the current track. Charts are destroyed before the
// store swap and rebuilt from the full range afterwards; moves arriving in
// between fail with models.ErrLoadInProgress.
func (wc *WindowController) Load(seq models.Sequence) error {
	if !wc.loading.CompareAndSwap(false, true) {
		return models.ErrLoadInProgress
	}
	defer wc.loading.Store(false)

	wc.registry.DestroyAll()
	wc.store.Replace(seq)
	wc.win.Reset(wc.store.Len())
	if err := wc.registry.Rebuild(); err != nil {
		return fmt.Errorf("load track: %w", err)
	}
	utils.L().Info("track loaded: %d records, window %s", wc.store.Len(), wc.win.Bounds())
	return nil
}

// LoadFile parses path and loads the result. A file that fails to parse
// leaves the current track and charts untouched.
func (wc *WindowController) LoadFile(path, format string) error {
	if format == "" {
		format = wc.format
	}
	seq, err := ingest.ReadFile(path, format)
	if err != nil {
		return err
	}
	return wc.Load(seq)
}

// Move sets the window from two percentages in [0, 100]. Values outside
// that range are clamped; NaN or start > stop is rejected with
// *models.InvalidRangeError before anything changes. Indices are
// floor(pct/100 * length), giving a half-open window.
func (wc *WindowController) Move(startPct, stopPct float64) (window.Delta, error) {
	if wc.loading.Load() {
		wc.rejected.Add(1)
		return window.Delta{}, models.ErrLoadInProgress
	}
	if math.IsNaN(startPct) || math.IsNaN(stopPct) {
		wc.rejected.Add(1)
		return window.Delta{}, &models.InvalidRangeError{Start: startPct, End: stopPct, Reason: "not a number"}
	}
	startPct, stopPct = clampPct(startPct), clampPct(stopPct)
	if startPct > stopPct {
		wc.rejected.Add(1)
		return window.Delta{}, &models.InvalidRangeError{Start: startPct, End: stopPct, Reason: "start after stop"}
	}
	n := wc.win.Length()
	return wc.MoveIndex(pctIndex(startPct, n), pctIndex(stopPct, n))
}

// MoveIndex sets the window to [start, end) directly.
func (wc *WindowController) MoveIndex(start, end int) (window.Delta, error) {
	if wc.loading.Load() {
		wc.rejected.Add(1)
		return window.Delta{}, models.ErrLoadInProgress
	}
	d, err := wc.win.MoveTo(start, end)
	if err != nil {
		wc.rejected.Add(1)
		return window.Delta{}, err
	}
	wc.registry.ApplyDelta(d)
	wc.moves.Add(1)
	return d, nil
}

// ChangeAxes re-points a view and rebuilds it from the whole window.
func (wc *WindowController) ChangeAxes(name, x, y string) error {
	return wc.registry.ChangeAxes(name, x, y)
}

func clampPct(p float64) float64 {
	return math.Max(0, math.Min(100, p))
}

func pctIndex(pct float64, length int) int {
	return int(math.Floor(pct * float64(length) / 100))
}

// Labels describes the current window for display.
type Labels struct {
	First  string `json:"first"`
	Last   string `json:"last"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Length int    `json:"length"`
}

// Labels returns the first and last visible timestamps as time of day. An
// edge record without a timestamp gives an empty label.
func (wc *WindowController) Labels() Labels {
	b := wc.win.Bounds()
	l := Labels{Start: b.Start, End: b.End, Length: wc.win.Length()}
	vis, err := wc.win.Visible()
	if err != nil || len(vis) == 0 {
		return l
	}
	if t, ok := vis[0].Time(); ok {
		l.First = utils.FormatLabel(t, wc.loc)
	}
	if t, ok := vis[len(vis)-1].Time(); ok {
		l.Last = utils.FormatLabel(t, wc.loc)
	}
	return l
}

// Stats returns applied, rejected and coalesced move counts.
func (wc *WindowController) Stats() (moves, rejected, coalesced uint64) {
	return wc.moves.Load(), wc.rejected.Load(), wc.coalesced.Load()
}

// LogStats prints the move counters.
func (wc *WindowController) LogStats() {
	m, r, c := wc.Stats()
	utils.L().Info("  window %s  moves=%d  rejected=%d  coalesced=%d", wc.win.Bounds(), m, r, c)
}
