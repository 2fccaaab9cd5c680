package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Field identifies one channel of a track sample.
type Field int

const (
	FieldTimestamp Field = iota
	FieldLatitude
	FieldLongitude
	FieldAltitude
	FieldDistance
	FieldHeartRate
	FieldSpeed
	numFields
)

var fieldNames = [numFields]string{
	"timestamp", "latitude", "longitude", "altitude",
	"distance", "heart_rate", "speed",
}

func (f Field) String() string {
	if f >= 0 && f < numFields {
		return fieldNames[f]
	}
	return "unknown"
}

// Record is one timestamped activity sample. Every field is optional: a
// track without a heart-rate strap simply has no heart-rate channel.
// Records are built with RecordBuilder and are immutable afterwards.
type Record struct {
	timestamp string
	at        time.Time
	values    [numFields]float64
	present   uint16
}

func (r Record) has(f Field) bool { return r.present&(1<<uint(f)) != 0 }

// Has reports whether the sample carries field f.
func (r Record) Has(f Field) bool { return r.has(f) }

// Timestamp returns the raw ISO-8601 timestamp text.
func (r Record) Timestamp() (string, bool) {
	return r.timestamp, r.has(FieldTimestamp)
}

// Time returns the parsed instant of the sample. ok is false when the
// timestamp is absent or could not be parsed.
func (r Record) Time() (time.Time, bool) {
	return r.at, r.has(FieldTimestamp) && !r.at.IsZero()
}

// Float returns a numeric channel. The timestamp is reported as Unix
// milliseconds.
func (r Record) Float(f Field) (float64, bool) {
	if !r.has(f) {
		return 0, false
	}
	if f == FieldTimestamp {
		if r.at.IsZero() {
			return 0, false
		}
		return float64(r.at.UnixMilli()), true
	}
	return r.values[f], true
}

func (r Record) Latitude() (float64, bool)  { return r.Float(FieldLatitude) }
func (r Record) Longitude() (float64, bool) { return r.Float(FieldLongitude) }
func (r Record) Altitude() (float64, bool)  { return r.Float(FieldAltitude) }
func (r Record) Distance() (float64, bool)  { return r.Float(FieldDistance) }
func (r Record) HeartRate() (float64, bool) { return r.Float(FieldHeartRate) }
func (r Record) Speed() (float64, bool)     { return r.Float(FieldSpeed) }

// CSVHeader returns the ordered column names for record exports.
func (Record) CSVHeader() []string {
	out := make([]string, numFields)
	copy(out, fieldNames[:])
	return out
}

// CSVRow returns one export row, with empty cells for absent fields.
func (r *Record) CSVRow() []string {
	row := make([]string, 0, numFields)
	if ts, ok := r.Timestamp(); ok {
		row = append(row, ts)
	} else {
		row = append(row, "")
	}
	for f := FieldLatitude; f < numFields; f++ {
		v, ok := r.Float(f)
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, ftoa(v, fieldPrecision[f]))
	}
	return row
}

var fieldPrecision = [numFields]int{
	FieldLatitude:  9,
	FieldLongitude: 9,
	FieldAltitude:  3,
	FieldDistance:  3,
	FieldHeartRate: 0,
	FieldSpeed:     4,
}

// ─── builder ────────────────────────────────────────────────────────────

// RecordBuilder collects fields for one sample. The zero value is ready to
// use.
type RecordBuilder struct {
	rec Record
}

// SetText parses raw source text into field f. Surrounding whitespace is
// trimmed. A value that does not parse leaves the field absent and returns
// an error so the caller can log it.
func (b *RecordBuilder) SetText(f Field, raw string) error {
	raw = strings.TrimSpace(raw)
	if f == FieldTimestamp {
		b.rec.timestamp = raw
		b.rec.present |= 1 << uint(FieldTimestamp)
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			b.rec.at = time.Time{}
			return fmt.Errorf("field %s: %w", f, err)
		}
		b.rec.at = t
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("field %s: %w", f, err)
	}
	return b.SetFloat(f, v)
}

// SetFloat stores a numeric channel.
func (b *RecordBuilder) SetFloat(f Field, v float64) error {
	if f <= FieldTimestamp || f >= numFields {
		return fmt.Errorf("field %s is not numeric", f)
	}
	b.rec.values[f] = v
	b.rec.present |= 1 << uint(f)
	return nil
}

// SetTime stores the sample instant and its RFC 3339 text.
func (b *RecordBuilder) SetTime(t time.Time) {
	b.rec.at = t
	b.rec.timestamp = t.Format(time.RFC3339Nano)
	b.rec.present |= 1 << uint(FieldTimestamp)
}

// Build returns the finished record and resets the builder.
func (b *RecordBuilder) Build() Record {
	r := b.rec
	b.rec = Record{}
	return r
}

// ─── sequence ───────────────────────────────────────────────────────────

// Sequence is an ordered list of records in source document order.
type Sequence []Record

// Len returns the number of records.
func (s Sequence) Len() int { return len(s) }
