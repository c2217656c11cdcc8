package core

// tabular.go turns uploaded bytes into semicolon-separated rows.
//
// Uploads are classroom-sized spreadsheets exported from Excel or
// LibreOffice, so the whole file is buffered. The parser:
//   - strips a UTF-8 byte-order mark (Excel's "CSV UTF-8" adds one)
//   - rejects bytes that are not valid UTF-8 instead of guessing a codepage
//   - splits on ';' honouring quoted fields, allowing ragged rows
//   - drops rows whose cells are all blank
//
// Quoting is lenient: a quote only opens a quoted section at the start of a
// cell, and text after the closing quote is kept as-is. A stray quote never
// swallows the following lines.

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Delimiter is the only cell separator accepted by the importers.
const Delimiter = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one non-blank CSV record and its 1-based line in the source file.
type Row struct {
	Line  int
	Cells []string
}

// Cell returns the trimmed cell at i, or "" when the row is shorter.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return CleanCell(r.Cells[i])
}

// NonEmptyCount returns how many cells are non-blank after trimming.
func (r Row) NonEmptyCount() int {
	n := 0
	for _, c := range r.Cells {
		if CleanCell(c) != "" {
			n++
		}
	}
	return n
}

// ParseRows decodes data in the given encoding and returns its non-blank
// rows in source order. Only UTF-8 is supported; "", "utf-8", "utf8" and
// "utf-8-sig" all select it.
func ParseRows(data []byte, encoding string) ([]Row, error) {
	if !isUTF8Label(encoding) {
		return nil, fmt.Errorf("%w: unsupported charset %q", ErrDecode, encoding)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: file is not valid UTF-8", ErrDecode)
	}

	sc := recordScanner{src: string(data), line: 1}

	var rows []Row
	for {
		record, line, ok := sc.next()
		if !ok {
			break
		}
		if isEmptyRow(record) {
			continue
		}
		rows = append(rows, Row{Line: line, Cells: record})
	}

	return rows, nil
}

const (
	cellStart = iota
	inCell
	inQuotes
	quoteInQuotes
)

// recordScanner splits src into ';'-separated records. Line breaks inside a
// quoted section belong to the cell and are normalised to "\n".
type recordScanner struct {
	src  string
	pos  int
	line int
}

// next returns the following record and the line it starts on, or false at
// the end of input.
func (s *recordScanner) next() ([]string, int, bool) {
	if s.pos >= len(s.src) {
		return nil, 0, false
	}

	start := s.line
	var (
		record []string
		cell   strings.Builder
		state  = cellStart
	)
	endCell := func() {
		record = append(record, cell.String())
		cell.Reset()
		state = cellStart
	}

	for s.pos < len(s.src) {
		c := s.src[s.pos]
		s.pos++

		if c == '\r' || c == '\n' {
			if c == '\r' && s.pos < len(s.src) && s.src[s.pos] == '\n' {
				s.pos++
			}
			s.line++
			if state == inQuotes {
				cell.WriteByte('\n')
				continue
			}
			endCell()
			return record, start, true
		}

		switch state {
		case cellStart:
			switch c {
			case ' ', '\t':
			case '"':
				state = inQuotes
			case Delimiter:
				endCell()
			default:
				cell.WriteByte(c)
				state = inCell
			}
		case inCell:
			if c == Delimiter {
				endCell()
				continue
			}
			cell.WriteByte(c)
		case inQuotes:
			if c == '"' {
				state = quoteInQuotes
				continue
			}
			cell.WriteByte(c)
		case quoteInQuotes:
			switch c {
			case '"':
				cell.WriteByte('"')
				state = inQuotes
			case Delimiter:
				endCell()
			default:
				cell.WriteByte(c)
				state = inCell
			}
		}
	}

	endCell()
	return record, start, true
}

func isUTF8Label(encoding string) bool {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8", "utf-8-sig":
		return true
	default:
		return false
	}
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// CleanCell trims surrounding whitespace, including the non-breaking spaces
// spreadsheets like to leave behind (unicode.IsSpace covers U+00A0).
func CleanCell(s string) string {
	return strings.TrimSpace(s)
}
