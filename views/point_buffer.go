package views

import "trackview/models"

// PointBuffer is the ordered point array behind a chart. Both renderers
// embed it and draw from it on demand.
type PointBuffer struct {
	pts []models.Point
}

func newPointBuffer(seed []models.Point) PointBuffer {
	pts := make([]models.Point, len(seed))
	copy(pts, seed)
	return PointBuffer{pts: pts}
}

// InsertFront prepends pts, keeping their order.
func (b *PointBuffer) InsertFront(pts []models.Point) {
	if len(pts) == 0 {
		return
	}
	out := make([]models.Point, 0, len(pts)+len(b.pts))
	out = append(out, pts...)
	b.pts = append(out, b.pts...)
}

// AppendBack appends pts.
func (b *PointBuffer) AppendBack(pts []models.Point) {
	b.pts = append(b.pts, pts...)
}

// TruncateFront drops the first n points. n past the end empties the buffer.
func (b *PointBuffer) TruncateFront(n int) {
	if n <= 0 {
		return
	}
	if n > len(b.pts) {
		n = len(b.pts)
	}
	b.pts = b.pts[n:]
}

// TruncateBack drops the last n points.
func (b *PointBuffer) TruncateBack(n int) {
	if n <= 0 {
		return
	}
	if n > len(b.pts) {
		n = len(b.pts)
	}
	b.pts = b.pts[:len(b.pts)-n]
}

func (b *PointBuffer) Len() int { return len(b.pts) }

// Points returns a copy of the buffer.
func (b *PointBuffer) Points() []models.Point {
	out := make([]models.Point, len(b.pts))
	copy(out, b.pts)
	return out
}

func (b *PointBuffer) reset() { b.pts = nil }

// chartSet keeps live charts in creation order so pages render stably.
type chartSet[C any] struct {
	ids    []string
	charts map[string]C
}

func (s *chartSet[C]) add(id string, c C) {
	if s.charts == nil {
		s.charts = make(map[string]C)
	}
	s.ids = append(s.ids, id)
	s.charts[id] = c
}

func (s *chartSet[C]) remove(id string) {
	if _, ok := s.charts[id]; !ok {
		return
	}
	delete(s.charts, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}

func (s *chartSet[C]) live() []C {
	out := make([]C, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.charts[id])
	}
	return out
}
