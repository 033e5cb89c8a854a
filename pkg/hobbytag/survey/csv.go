package survey

import (
	"bufio"
	"io"
	"strings"
)

// ParseCSV reads a whole CSV document into rows of raw cells.
//
// Quoting follows the RFC 4180 subset survey exports use: a doubled quote
// inside a quoted field is a literal quote, commas and newlines inside
// quotes are kept, a bare CR outside quotes is dropped and LF ends a row.
// A final row without a trailing newline is kept. A leading UTF-8 byte
// order mark is ignored.
func ParseCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && string(b) == "\xef\xbb\xbf" {
		_, _ = br.Discard(3)
	}

	var (
		rows     [][]string
		row      []string
		value    strings.Builder
		inQuotes bool
	)
	for {
		ch, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if inQuotes {
			if ch != '"' {
				value.WriteByte(ch)
				continue
			}
			next, err := br.Peek(1)
			if err == nil && next[0] == '"' {
				_, _ = br.Discard(1)
				value.WriteByte('"')
				continue
			}
			inQuotes = false
			continue
		}

		switch ch {
		case '"':
			inQuotes = true
		case ',':
			row = append(row, value.String())
			value.Reset()
		case '\n':
			row = append(row, value.String())
			rows = append(rows, row)
			row = nil
			value.Reset()
		case '\r':
		default:
			value.WriteByte(ch)
		}
	}

	if value.Len() > 0 || len(row) > 0 {
		row = append(row, value.String())
		rows = append(rows, row)
	}
	return rows, nil
}
