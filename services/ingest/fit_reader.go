package ingest

import (
	"io"
	"math"
	"time"

	"github.com/tormoder/fit"

	"trackview/models"
)

// FIT timestamps count from this instant; anything at or before it is the
// invalid sentinel.
var fitEpoch = time.Date(1989, time.December, 31, 0, 0, 0, 0, time.UTC)

// FITReader decodes a binary FIT activity and emits one record per record
// message, in file order.
type FITReader struct{}

// Read parses r. Undecodable data, or a FIT file that is not an activity,
// yields a *models.ParseStructureError.
func (FITReader) Read(r io.Reader) (models.Sequence, error) {
	f, err := fit.Decode(r)
	if err != nil {
		return nil, &models.ParseStructureError{Format: "fit", Err: err}
	}
	act, err := f.Activity()
	if err != nil {
		return nil, &models.ParseStructureError{Format: "fit", Err: err}
	}

	seq := make(models.Sequence, 0, len(act.Records))
	for _, msg := range act.Records {
		if msg == nil {
			continue
		}
		seq = append(seq, recordFromFit(msg))
	}
	return seq, nil
}

// recordFromFit copies the valid channels of one FIT record message.
func recordFromFit(m *fit.RecordMsg) models.Record {
	var b models.RecordBuilder

	if m.Timestamp.After(fitEpoch) {
		b.SetTime(m.Timestamp.UTC())
	}
	if !m.PositionLat.Invalid() {
		_ = b.SetFloat(models.FieldLatitude, m.PositionLat.Degrees())
	}
	if !m.PositionLong.Invalid() {
		_ = b.SetFloat(models.FieldLongitude, m.PositionLong.Degrees())
	}
	if v := m.GetAltitudeScaled(); !math.IsNaN(v) {
		_ = b.SetFloat(models.FieldAltitude, v)
	}
	if v := m.GetDistanceScaled(); !math.IsNaN(v) {
		_ = b.SetFloat(models.FieldDistance, v)
	}
	if m.HeartRate != 0xFF {
		_ = b.SetFloat(models.FieldHeartRate, float64(m.HeartRate))
	}
	if v := m.GetSpeedScaled(); !math.IsNaN(v) {
		_ = b.SetFloat(models.FieldSpeed, v)
	}
	return b.Build()
}
