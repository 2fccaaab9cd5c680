package window

import (
	"errors"
	"math/rand"
	"testing"

	"trackview/models"
	"trackview/services/store"
)

// newTrack returns a window over n records whose distance equals their index.
func newTrack(t *testing.T, n int) (*State, *store.RecordStore) {
	t.Helper()
	seq := make(models.Sequence, n)
	for i := range seq {
		var b models.RecordBuilder
		_ = b.SetFloat(models.FieldDistance, float64(i))
		seq[i] = b.Build()
	}
	st := store.New()
	st.Replace(seq)
	return New(st), st
}

func indexOf(r models.Record) int {
	d, _ := r.Distance()
	return int(d)
}

// mirror applies a delta to a plain slice of indices, the way a chart
// buffer would: removals first, then additions, front before back.
func mirror(buf []int, d Delta) []int {
	buf = buf[d.RemoveFront:]
	buf = buf[:len(buf)-d.RemoveBack]
	front := make([]int, 0, len(d.AddFront)+len(buf))
	for _, r := range d.AddFront {
		front = append(front, indexOf(r))
	}
	buf = append(front, buf...)
	for _, r := range d.AddBack {
		buf = append(buf, indexOf(r))
	}
	return buf
}

func span(start, end int) []int {
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMoveTo_ShrinkLeft(t *testing.T) {
	w, _ := newTrack(t, 100)
	d, err := w.MoveTo(10, 100)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if d.RemoveFront != 10 || d.RemoveBack != 0 || len(d.AddFront) != 0 || len(d.AddBack) != 0 {
		t.Fatalf("delta = %s, want removeFront(10)", d)
	}
	got := mirror(span(0, 100), d)
	if !equalInts(got, span(10, 100)) {
		t.Fatalf("after apply got %d points starting %v", len(got), got[:1])
	}
}

func TestMoveTo_GrowLeft(t *testing.T) {
	w, _ := newTrack(t, 100)
	if _, err := w.MoveTo(10, 100); err != nil {
		t.Fatalf("move: %v", err)
	}
	d, err := w.MoveTo(0, 100)
	if err != nil {
		t.Fatalf("move back: %v", err)
	}
	if d.Removed() != 0 || len(d.AddBack) != 0 || len(d.AddFront) != 10 {
		t.Fatalf("delta = %s, want addFront(10)", d)
	}
	for i, r := range d.AddFront {
		if indexOf(r) != i {
			t.Fatalf("addFront[%d] is record %d", i, indexOf(r))
		}
	}
	got := mirror(span(10, 100), d)
	if !equalInts(got, span(0, 100)) {
		t.Fatalf("after apply got %v...", got[:3])
	}
}

func TestMoveTo_SlideRight(t *testing.T) {
	w, _ := newTrack(t, 200)
	if _, err := w.MoveTo(0, 100); err != nil {
		t.Fatalf("move: %v", err)
	}
	d, err := w.MoveTo(50, 150)
	if err != nil {
		t.Fatalf("slide: %v", err)
	}
	if d.RemoveFront != 50 || d.RemoveBack != 0 || len(d.AddFront) != 0 || len(d.AddBack) != 50 {
		t.Fatalf("delta = %s, want removeFront(50) addBack(50)", d)
	}
	if indexOf(d.AddBack[0]) != 100 || indexOf(d.AddBack[49]) != 149 {
		t.Fatalf("addBack covers %d..%d", indexOf(d.AddBack[0]), indexOf(d.AddBack[49]))
	}
	got := mirror(span(0, 100), d)
	if !equalInts(got, span(50, 150)) {
		t.Fatalf("visible range wrong: len=%d", len(got))
	}
	if b := w.Bounds(); b.Start != 50 || b.End != 150 {
		t.Fatalf("bounds = %s", b)
	}
}

func TestMoveTo_BothSidesSameCall(t *testing.T) {
	w, _ := newTrack(t, 100)
	if _, err := w.MoveTo(20, 60); err != nil {
		t.Fatalf("move: %v", err)
	}
	// narrow left, widen right
	d, err := w.MoveTo(30, 80)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if d.RemoveFront != 10 || len(d.AddBack) != 20 || d.RemoveBack != 0 || len(d.AddFront) != 0 {
		t.Fatalf("delta = %s", d)
	}
	// widen left, narrow right
	d, err = w.MoveTo(25, 70)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if len(d.AddFront) != 5 || d.RemoveBack != 10 || d.RemoveFront != 0 || len(d.AddBack) != 0 {
		t.Fatalf("delta = %s", d)
	}
}

func TestMoveTo_Idempotent(t *testing.T) {
	w, _ := newTrack(t, 50)
	if _, err := w.MoveTo(5, 40); err != nil {
		t.Fatalf("move: %v", err)
	}
	d, err := w.MoveTo(5, 40)
	if err != nil {
		t.Fatalf("repeat: %v", err)
	}
	if !d.Empty() {
		t.Fatalf("repeat move produced %s", d)
	}
}

func TestMoveTo_FullRangeAfterReset(t *testing.T) {
	w, _ := newTrack(t, 30)
	d, err := w.MoveTo(0, 30)
	if err != nil || !d.Empty() {
		t.Fatalf("full range after reset: %s err=%v", d, err)
	}
}

func TestMoveTo_CollapseToEmpty(t *testing.T) {
	w, _ := newTrack(t, 100)
	d, err := w.MoveTo(40, 40)
	if err != nil {
		t.Fatalf("collapse: %v", err)
	}
	if d.Added() != 0 {
		t.Fatalf("collapse must not add, got %s", d)
	}
	if d.Removed() != 100 {
		t.Fatalf("collapse removed %d, want 100", d.Removed())
	}
	if got := mirror(span(0, 100), d); len(got) != 0 {
		t.Fatalf("collapsed window still has %d points", len(got))
	}
}

func TestMoveTo_Disjoint(t *testing.T) {
	w, _ := newTrack(t, 100)
	if _, err := w.MoveTo(0, 10); err != nil {
		t.Fatalf("move: %v", err)
	}
	d, err := w.MoveTo(50, 60)
	if err != nil {
		t.Fatalf("jump: %v", err)
	}
	if got := mirror(span(0, 10), d); !equalInts(got, span(50, 60)) {
		t.Fatalf("jump right got %v", got)
	}
	d, err = w.MoveTo(5, 15)
	if err != nil {
		t.Fatalf("jump back: %v", err)
	}
	if got := mirror(span(50, 60), d); !equalInts(got, span(5, 15)) {
		t.Fatalf("jump left got %v", got)
	}
}

func TestMoveTo_FromEmptyWindow(t *testing.T) {
	w, _ := newTrack(t, 100)
	if _, err := w.MoveTo(10, 10); err != nil {
		t.Fatalf("collapse: %v", err)
	}
	d, err := w.MoveTo(0, 5)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := mirror(nil, d); !equalInts(got, span(0, 5)) {
		t.Fatalf("reopen got %v", got)
	}
}

func TestMoveTo_ClampsBounds(t *testing.T) {
	w, _ := newTrack(t, 20)
	d, err := w.MoveTo(-5, 500)
	if err != nil {
		t.Fatalf("clamped move: %v", err)
	}
	if !d.Empty() {
		t.Fatalf("clamped full range should be a no-op, got %s", d)
	}
	if b := w.Bounds(); b.Start != 0 || b.End != 20 {
		t.Fatalf("bounds = %s", b)
	}
}

func TestMoveTo_InvalidRangeLeavesStateAlone(t *testing.T) {
	w, _ := newTrack(t, 20)
	if _, err := w.MoveTo(5, 15); err != nil {
		t.Fatalf("move: %v", err)
	}
	_, err := w.MoveTo(12, 3)
	var ire *models.InvalidRangeError
	if !errors.As(err, &ire) {
		t.Fatalf("err = %v, want InvalidRangeError", err)
	}
	if b := w.Bounds(); b.Start != 5 || b.End != 15 {
		t.Fatalf("bounds changed to %s after rejected move", b)
	}
}

func TestMoveTo_RandomWalkKeepsMirrorInSync(t *testing.T) {
	const n = 300
	w, _ := newTrack(t, n)
	rng := rand.New(rand.NewSource(7))
	buf := span(0, n)
	for i := 0; i < 2000; i++ {
		a, b := rng.Intn(n+1), rng.Intn(n+1)
		if a > b {
			a, b = b, a
		}
		d, err := w.MoveTo(a, b)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		buf = mirror(buf, d)
		if len(buf) != b-a {
			t.Fatalf("step %d: %d points for window [%d,%d)", i, len(buf), a, b)
		}
		if !equalInts(buf, span(a, b)) {
			t.Fatalf("step %d: mirror diverged for [%d,%d)", i, a, b)
		}
	}
}

func TestMoveTo_ReturnTripRestores(t *testing.T) {
	const n = 120
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		w, _ := newTrack(t, n)
		s0, e0 := rng.Intn(n/2), n/2+rng.Intn(n/2+1)
		d, _ := w.MoveTo(s0, e0)
		orig := mirror(span(0, n), d)

		a, b := rng.Intn(n+1), rng.Intn(n+1)
		if a > b {
			a, b = b, a
		}
		d1, err := w.MoveTo(a, b)
		if err != nil {
			t.Fatalf("move out: %v", err)
		}
		d2, err := w.MoveTo(s0, e0)
		if err != nil {
			t.Fatalf("move back: %v", err)
		}
		got := mirror(mirror(orig, d1), d2)
		if !equalInts(got, orig) {
			t.Fatalf("[%d,%d) via [%d,%d) did not restore", s0, e0, a, b)
		}
	}
}

func TestReset(t *testing.T) {
	w, st := newTrack(t, 10)
	if _, err := w.MoveTo(3, 4); err != nil {
		t.Fatalf("move: %v", err)
	}
	st.Replace(make(models.Sequence, 4))
	w.Reset(st.Len())
	if b := w.Bounds(); b.Start != 0 || b.End != 4 {
		t.Fatalf("reset bounds = %s", b)
	}
	vis, err := w.Visible()
	if err != nil || len(vis) != 4 {
		t.Fatalf("visible after reset: len=%d err=%v", len(vis), err)
	}
}
