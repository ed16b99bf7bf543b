package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order against textual date columns.
// Android dumps carry RFC3339 after export; iPhone dumps carry the
// space-separated form without an offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReadDumpFile reads an SMS dump CSV from disk.
func ReadDumpFile(path string) ([]RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dump: %w", err)
	}
	defer func() { _ = f.Close() }()

	msgs, err := ReadDump(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return msgs, nil
}

// ReadDump parses an SMS dump CSV. The first row is a header naming at
// least the _id, address, date and body columns; extra columns (type,
// thread_id) are ignored. A row with an unparseable date yields a message
// with a zero timestamp rather than failing the whole dump.
func ReadDump(r io.Reader) ([]RawMessage, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // dumps from different devices vary in width

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := idx[colBody]; !ok {
		return nil, fmt.Errorf("dump has no %q column", colBody)
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var msgs []RawMessage
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		msgs = append(msgs, RawMessage{
			ID:        field(row, colID),
			Address:   field(row, colAddress),
			Timestamp: ParseTimestamp(field(row, colDate)),
			Body:      field(row, colBody),
		})
	}

	return msgs, nil
}

// ParseTimestamp normalizes a device-native instant to UTC. It accepts the
// textual layouts the export tools emit plus raw epoch milliseconds. An
// unrecognized value returns the zero time — an absent date, not an error.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}

	// Android content queries report epoch milliseconds.
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms).UTC()
	}

	return time.Time{}
}
