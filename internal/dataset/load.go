package dataset

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
)

// MaxPayloadSize is the default maximum allowed encoded payload size (5MB).
// The check runs at the boundary, before any base64 decode is attempted.
var MaxPayloadSize int64 = 5 * 1024 * 1024

// Load decodes an uploaded data-URI payload ("<descriptor>,<base64>") into a
// Table. maxSize bounds the encoded body; pass 0 to use MaxPayloadSize.
//
// All failures are per-request conditions reported as wrapped sentinel
// errors (ErrMalformedUpload, ErrPayloadTooLarge, ErrParseFailure), never
// panics. Load has no side effects; the caller owns session state.
func Load(payload string, maxSize int64) (*Table, error) {
	if maxSize <= 0 {
		maxSize = MaxPayloadSize
	}

	_, body, ok := strings.Cut(payload, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing descriptor separator", ErrMalformedUpload)
	}

	if int64(len(body)) > maxSize {
		return nil, fmt.Errorf("%w: encoded payload is %d bytes (limit %d)", ErrPayloadTooLarge, len(body), maxSize)
	}

	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %v", ErrParseFailure, err)
	}

	return parseCSV(decoded)
}

// parseCSV parses raw CSV bytes into a Table, sanitizing any invalid UTF-8
// first so one bad byte does not reject the whole file.
func parseCSV(data []byte) (*Table, error) {
	data = sanitizeUTF8(data)

	header, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, df.Err)
	}
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("%w: no data rows after header", ErrParseFailure)
	}

	return &Table{df: df}, nil
}

// readHeader reads just the first record without materializing the file.
func readHeader(data []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.LazyQuotes = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: empty file", ErrParseFailure)
	}
	return header, nil
}

// checkHeader enforces the unique, non-empty column name invariant before
// handing the bytes to the dataframe parser.
func checkHeader(header []string) error {
	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("%w: empty column name in header", ErrParseFailure)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate column name %q", ErrParseFailure, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the replacement
// character so downstream parsing never sees broken encoding.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
