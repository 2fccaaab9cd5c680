package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"trackview/models"
	"trackview/utils"
)

// Reader turns raw track bytes into an ordered record sequence.
type Reader interface {
	Read(r io.Reader) (models.Sequence, error)
}

// ReaderFor picks a reader by explicit format, or by file extension when
// format is "auto" or empty.
func ReaderFor(format, path string) (Reader, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" || format == "auto" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case "tcx", "xml":
		return TCXReader{}, nil
	case "fit":
		return FITReader{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedFormat, format)
	}
}

// ReadFile opens path and parses it with the reader for format.
func ReadFile(path, format string) (models.Sequence, error) {
	rd, err := ReaderFor(format, path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}
	defer f.Close()

	seq, err := rd.Read(f)
	if err != nil {
		return nil, fmt.Errorf("read track %s: %w", filepath.Base(path), err)
	}
	utils.L().Info("ingested %d records from %s", len(seq), filepath.Base(path))
	return seq, nil
}
