package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ukaji3/surveysheet-go/pkg/surveysheet/models"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncodings is the order in which record file encodings are tried.
var DefaultEncodings = []string{"utf-8-sig", "utf-8", "cp932", "shift_jis"}

// DefaultSkipLines is the number of leading CSV rows that precede the records.
const DefaultSkipLines = 4

var utf8BOM = []byte("\xef\xbb\xbf")

// aliases covers names the IANA index does not know or maps differently.
var aliases = map[string]encoding.Encoding{
	"cp932":       japanese.ShiftJIS,
	"ms932":       japanese.ShiftJIS,
	"windows-31j": japanese.ShiftJIS,
	"sjis":        japanese.ShiftJIS,
	"shift_jis":   japanese.ShiftJIS,
	"shift-jis":   japanese.ShiftJIS,
	"euc-jp":      japanese.EUCJP,
	"iso-2022-jp": japanese.ISO2022JP,
}

// textDecoder converts raw bytes to UTF-8 text. ok is false when the input
// is not valid in the encoding.
type textDecoder struct {
	name   string
	decode func([]byte) (string, bool)
}

func resolveDecoder(name string) (textDecoder, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "utf-8-sig", "utf8-sig":
		bom := unicode.UTF8BOM.NewDecoder()
		return textDecoder{name: key, decode: func(b []byte) (string, bool) {
			if !utf8.Valid(bytes.TrimPrefix(b, utf8BOM)) {
				return "", false
			}
			out, err := bom.Bytes(b)
			if err != nil {
				return "", false
			}
			return string(out), true
		}}, nil
	case "utf-8", "utf8":
		return textDecoder{name: key, decode: func(b []byte) (string, bool) {
			if !utf8.Valid(b) {
				return "", false
			}
			return string(b), true
		}}, nil
	}

	enc, ok := aliases[key]
	if !ok {
		var err error
		enc, err = ianaindex.IANA.Encoding(name)
		if err != nil {
			return textDecoder{}, fmt.Errorf("unknown encoding %q: %w", name, err)
		}
		if enc == nil {
			return textDecoder{}, fmt.Errorf("unsupported encoding %q", name)
		}
	}
	return textDecoder{name: key, decode: func(b []byte) (string, bool) {
		out, err := enc.NewDecoder().Bytes(b)
		// Decoders substitute U+FFFD for invalid sequences instead of failing.
		if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
			return "", false
		}
		return string(out), true
	}}, nil
}

// RecordReader reads response records from CSV exports.
type RecordReader struct {
	decoders  []textDecoder
	skipLines int
	logger    *zap.Logger
}

// NewRecordReader creates a reader that tries encodings in order and drops
// the first skipLines CSV rows of every file.
func NewRecordReader(encodings []string, skipLines int, logger *zap.Logger) (*RecordReader, error) {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}
	if skipLines < 0 {
		return nil, fmt.Errorf("skip lines must not be negative: %d", skipLines)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &RecordReader{skipLines: skipLines, logger: logger}
	for _, name := range encodings {
		d, err := resolveDecoder(name)
		if err != nil {
			return nil, err
		}
		r.decoders = append(r.decoders, d)
	}
	return r, nil
}

// ReadFile reads one record file. It returns ErrUndecodable when no
// configured encoding accepts the content.
func (r *RecordReader) ReadFile(path string) (models.Batch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Batch{Source: path}, err
	}

	for _, d := range r.decoders {
		text, ok := d.decode(raw)
		if !ok {
			continue
		}
		records, err := r.parse(text)
		if err != nil {
			return models.Batch{Source: path, Encoding: d.name}, fmt.Errorf("%s: %w", path, err)
		}
		r.logger.Debug("Read record file",
			zap.String("path", path),
			zap.String("encoding", d.name),
			zap.Int("records", len(records)))
		return models.Batch{Source: path, Encoding: d.name, Records: records}, nil
	}

	return models.Batch{Source: path}, fmt.Errorf("%s: %w", path, ErrUndecodable)
}

// ReadAll reads every file in order. Files that cannot be decoded or parsed
// contribute no records; only I/O failures are returned.
func (r *RecordReader) ReadAll(paths []string) ([]models.Batch, error) {
	batches := make([]models.Batch, 0, len(paths))
	for _, p := range paths {
		b, err := r.ReadFile(p)
		if err != nil {
			var perr *csv.ParseError
			if !errors.Is(err, ErrUndecodable) && !errors.As(err, &perr) {
				return nil, err
			}
			r.logger.Warn("Skipping unreadable record file",
				zap.String("path", p),
				zap.Error(err))
			b = models.Batch{Source: p}
		}
		batches = append(batches, b)
	}
	return batches, nil
}

// parse drops the first skipLines physical lines of text and reads the
// rest as CSV. Blank lines after the skip region become empty records.
func (r *RecordReader) parse(text string) ([]models.Record, error) {
	body := dropLines(text, r.skipLines)

	cr := csv.NewReader(strings.NewReader(body))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var records []models.Record
	// lines counts the newlines in body[:offset].
	lines, offset := 0, int64(0)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		// encoding/csv skips blank lines; recover them from the line gap.
		line, _ := cr.FieldPos(0)
		for blank := line - 1 - lines; blank > 0; blank-- {
			records = append(records, models.Record{})
		}
		next := cr.InputOffset()
		lines += strings.Count(body[offset:next], "\n")
		offset = next
		records = append(records, models.Record(row))
	}
	for n := strings.Count(body[offset:], "\n"); n > 0; n-- {
		records = append(records, models.Record{})
	}
	return records, nil
}

// dropLines returns text without its first n lines.
func dropLines(text string, n int) string {
	for i := 0; i < n; i++ {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			return ""
		}
		text = text[idx+1:]
	}
	return text
}
