// Package source reads baseline financial figures from key,value CSV files.
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/cfohelper/internal/model"
)

// Header column names.
const (
	ColumnKey   = "key"
	ColumnValue = "value"
)

var (
	errNoKeyColumn   = errors.New(`missing "key" column`)
	errNoValueColumn = errors.New(`missing "value" column`)
	utf8BOM          = []byte{0xEF, 0xBB, 0xBF}
)

// ParseFile reads a key,value CSV file into a Record.
//
// The header must contain "key" and "value" columns; other columns are
// ignored. Keys are trimmed. Values go through model.ParseValue. Rows with an
// empty key or an empty value are skipped, so a blank value behaves like a
// missing one. A file with no content at all yields an empty Record.
func ParseFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Op: "open", Err: err}
	}
	defer func() { _ = f.Close() }()

	id, err := identify(f, path)
	if err != nil {
		return nil, &ReadError{Path: path, Op: "stat", Err: err}
	}

	rec, err := Parse(f, path)
	if err != nil {
		return nil, err
	}
	rec.Identity = id
	return rec, nil
}

// Parse reads key,value CSV from r. name is only used in errors.
func Parse(r io.Reader, name string) (*Record, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Record{Identity: Identity{Path: name}}, nil
	}
	if err != nil {
		return nil, &ReadError{Path: name, Op: "header", Err: err}
	}

	keyIdx, valIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case ColumnKey:
			if keyIdx < 0 {
				keyIdx = i
			}
		case ColumnValue:
			if valIdx < 0 {
				valIdx = i
			}
		}
	}
	if keyIdx < 0 {
		return nil, &ReadError{Path: name, Op: "header", Err: errNoKeyColumn}
	}
	if valIdx < 0 {
		return nil, &ReadError{Path: name, Op: "header", Err: errNoValueColumn}
	}

	rec := &Record{Identity: Identity{Path: name}}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ReadError{Path: name, Op: "row", Err: err}
		}
		if len(row) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, &ReadError{
				Path: name,
				Op:   "row",
				Err:  fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(row)),
			}
		}

		key := strings.TrimSpace(cell(row, keyIdx))
		raw := cell(row, valIdx)
		if key == "" || strings.TrimSpace(raw) == "" {
			continue
		}
		rec.Fields = append(rec.Fields, Field{Key: key, Value: model.ParseValue(raw)})
	}

	return rec, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
