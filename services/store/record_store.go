package store

import (
	"sync/atomic"

	"trackview/models"
)

// RecordStore holds the current track. A new parse replaces the whole
// sequence in one atomic swap, so readers see either the old track or the
// new one and never a half-loaded mix.
type RecordStore struct {
	seq atomic.Pointer[models.Sequence]
}

// New returns an empty store.
func New() *RecordStore {
	s := &RecordStore{}
	empty := models.Sequence{}
	s.seq.Store(&empty)
	return s
}

func (s *RecordStore) load() models.Sequence {
	p := s.seq.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Replace discards the current track and installs seq. The store keeps its
// own copy of the slice header; records themselves are immutable.
func (s *RecordStore) Replace(seq models.Sequence) {
	own := make(models.Sequence, len(seq))
	copy(own, seq)
	s.seq.Store(&own)
}

// Len returns the number of records in the current track.
func (s *RecordStore) Len() int {
	return len(s.load())
}

// Slice returns the records in [start, end). The result shares storage with
// the store but has its capacity capped, so appending to it cannot clobber
// records past end.
func (s *RecordStore) Slice(start, end int) (models.Sequence, error) {
	seq := s.load()
	if start < 0 || end > len(seq) || start > end {
		return nil, &models.RangeError{Start: start, End: end, Length: len(seq)}
	}
	return seq[start:end:end], nil
}

// At returns the record at index i.
func (s *RecordStore) At(i int) (models.Record, error) {
	seq := s.load()
	if i < 0 || i >= len(seq) {
		return models.Record{}, &models.RangeError{Start: i, End: i + 1, Length: len(seq)}
	}
	return seq[i], nil
}
