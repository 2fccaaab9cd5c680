package ingest

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"trackview/models"
	"trackview/utils"
)

// tcxFields maps TCX element local names to record fields. Speed lives in
// the TPX extension (usually prefixed ns3:), which encoding/xml reports by
// local name.
var tcxFields = map[string]models.Field{
	"Time":             models.FieldTimestamp,
	"LatitudeDegrees":  models.FieldLatitude,
	"LongitudeDegrees": models.FieldLongitude,
	"AltitudeMeters":   models.FieldAltitude,
	"DistanceMeters":   models.FieldDistance,
	"HeartRateBpm":     models.FieldHeartRate,
	"Speed":            models.FieldSpeed,
}

const tcxTrackpoint = "Trackpoint"

// TCXReader walks a Garmin Training Center document and emits one record
// per Trackpoint in document order. Elements it does not know are ignored.
type TCXReader struct{}

// tcxWalk is the explicit state of one document walk.
type tcxWalk struct {
	stack   []string // open element local names
	records models.Sequence

	inPoint    bool
	pointDepth int
	builder    models.RecordBuilder

	capturing    bool
	captureDepth int
	captureField models.Field
	text         strings.Builder

	badFields int
}

// Read parses r. Syntax errors yield a *models.ParseStructureError.
func (TCXReader) Read(r io.Reader) (models.Sequence, error) {
	dec := xml.NewDecoder(r)
	w := &tcxWalk{}
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &models.ParseStructureError{Format: "tcx", Offset: dec.InputOffset(), Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			sawRoot = true
			w.start(t.Name.Local)
		case xml.EndElement:
			w.end()
		case xml.CharData:
			if w.capturing {
				w.text.Write(t)
			}
		}
	}
	if !sawRoot {
		return nil, &models.ParseStructureError{Format: "tcx", Err: errors.New("no root element")}
	}
	if w.badFields > 0 {
		utils.L().Warn("tcx: %d field values could not be parsed and were left empty", w.badFields)
	}
	return w.records, nil
}

func (w *tcxWalk) start(name string) {
	w.stack = append(w.stack, name)
	depth := len(w.stack)

	if !w.inPoint {
		if name == tcxTrackpoint {
			w.inPoint = true
			w.pointDepth = depth
		}
		return
	}
	if w.capturing {
		return
	}
	if f, ok := tcxFields[name]; ok {
		w.capturing = true
		w.captureDepth = depth
		w.captureField = f
		w.text.Reset()
	}
}

func (w *tcxWalk) end() {
	depth := len(w.stack)
	if depth == 0 {
		return
	}

	if w.capturing && depth == w.captureDepth {
		if err := w.builder.SetText(w.captureField, w.text.String()); err != nil {
			w.badFields++
			utils.L().Debug("tcx: trackpoint #%d: %v", len(w.records), err)
		}
		w.capturing = false
	}
	if w.inPoint && depth == w.pointDepth {
		w.records = append(w.records, w.builder.Build())
		w.inPoint = false
	}

	w.stack = w.stack[:depth-1]
}
