package window

import (
	"trackview/models"
	"trackview/utils"
)

// Source is the ordered record sequence a window ranges over.
type Source interface {
	Len() int
	Slice(start, end int) (models.Sequence, error)
}

// State is the active window over a Source. It is the single authority on
// what is visible; every view follows it. State is not safe for concurrent
// use; the controller serialises access.
type State struct {
	src    Source
	bounds Bounds
	length int
}

// New returns a window over src covering the whole sequence.
func New(src Source) *State {
	s := &State{src: src}
	s.Reset(src.Len())
	return s
}

// Reset sets the window to [0, length).
func (s *State) Reset(length int) {
	if length < 0 {
		length = 0
	}
	s.length = length
	s.bounds = Bounds{Start: 0, End: length}
}

// Bounds returns the current window.
func (s *State) Bounds() Bounds { return s.bounds }

// Length returns the sequence length the window was last reset to.
func (s *State) Length() int { return s.length }

// Visible returns the records currently inside the window.
func (s *State) Visible() (models.Sequence, error) {
	return s.src.Slice(s.bounds.Start, s.bounds.End)
}

// MoveTo computes the delta from the current window to [newStart, newEnd)
// and adopts the new bounds. Bounds are clamped to [0, length]; if
// newStart > newEnd after clamping an *models.InvalidRangeError is returned
// and the window is unchanged. All records for the delta are fetched before
// any state changes.
func (s *State) MoveTo(newStart, newEnd int) (Delta, error) {
	ns, ne := clamp(newStart, 0, s.length), clamp(newEnd, 0, s.length)
	if ns > ne {
		return Delta{}, &models.InvalidRangeError{
			Start:  float64(newStart),
			End:    float64(newEnd),
			Reason: "start after end",
		}
	}

	cur := s.bounds
	next := Bounds{Start: ns, End: ne}
	d := Delta{From: cur, To: next}

	if max(cur.Start, ns) >= min(cur.End, ne) {
		// No overlap: the old window (if any) goes, the new one arrives
		// whole. Treating the edges independently here would remove more
		// than is present or insert on the wrong side.
		d.RemoveFront = cur.Len()
		if next.Len() > 0 {
			recs, err := s.src.Slice(ns, ne)
			if err != nil {
				return Delta{}, err
			}
			d.AddBack = recs
		}
	} else {
		if ns > cur.Start {
			d.RemoveFront = ns - cur.Start
		} else if ns < cur.Start {
			recs, err := s.src.Slice(ns, cur.Start)
			if err != nil {
				return Delta{}, err
			}
			d.AddFront = recs
		}
		if ne < cur.End {
			d.RemoveBack = cur.End - ne
		} else if ne > cur.End {
			recs, err := s.src.Slice(cur.End, ne)
			if err != nil {
				return Delta{}, err
			}
			d.AddBack = recs
		}
	}

	s.bounds = next
	if !d.Empty() {
		utils.L().Debug("window move %s", d)
	}
	return d, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
