package stream

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/okian/gambit/internal/domain/model"
)

// RecordReader drains a feed reader line by line and decodes each non-empty
// line into a GameRecord. One malformed line aborts the whole pass: partial
// recovery would silently skew every aggregate built on top of the feed.
type RecordReader struct {
	split *LineSplitter
}

// NewRecordReader creates a reader over the raw feed stream.
func NewRecordReader(r io.Reader, opts ...Option) *RecordReader {
	return &RecordReader{split: NewLineSplitter(r, opts...)}
}

// Next returns the next decoded game record, skipping blank and
// whitespace-only lines. It returns io.EOF at end of stream, a transport
// error from the splitter unchanged, or an ErrDecode-wrapped error on a
// malformed line.
func (r *RecordReader) Next() (*model.GameRecord, error) {
	for {
		line, err := r.split.Next()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		return DecodeRecord(line)
	}
}

// DecodeRecord parses one trimmed, non-empty feed line.
func DecodeRecord(line string) (*model.GameRecord, error) {
	var g model.GameRecord
	if err := json.Unmarshal([]byte(line), &g); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &g, nil
}
