package tabular

import (
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"
)

// Format identifies an accepted upload encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned for file names that are neither .csv nor .xlsx.
var ErrUnsupportedFormat = crerr.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Row is one data line keyed by its header cell.
type Row map[string]string

// DecodeError reports a malformed document. Line is 1-based and zero when unknown.
type DecodeError struct {
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed input at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed input: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FormatFromName picks the decoder from a file extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(name))) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", crerr.Wrapf(ErrUnsupportedFormat, "file %q", name)
	}
}

// Decode dispatches to the decoder for format.
func Decode(format Format, payload []byte) ([]Row, error) {
	switch format {
	case FormatCSV:
		return DecodeCSV(payload)
	case FormatXLSX:
		return DecodeXLSX(payload)
	default:
		return nil, crerr.Wrapf(ErrUnsupportedFormat, "format %q", format)
	}
}

// DecodeCSV reads a comma separated document whose first line is the header.
// Empty lines are skipped and an empty payload yields no rows.
func DecodeCSV(payload []byte) ([]Row, error) {
	payload = bytes.TrimPrefix(payload, byteOrderMark)
	if len(bytes.TrimSpace(payload)) == 0 {
		return []Row{}, nil
	}

	reader := csv.NewReader(bytes.NewReader(payload))
	reader.Comma = ','
	reader.ReuseRecord = false

	header, err := reader.Read()
	if stderrors.Is(err, io.EOF) {
		return []Row{}, nil
	}
	if err != nil {
		return nil, csvDecodeError(err)
	}
	columns := normalizeHeader(header)

	rows := make([]Row, 0, 64)
	for {
		record, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvDecodeError(err)
		}
		rows = append(rows, buildRow(columns, record))
	}

	return rows, nil
}

// DecodeXLSX reads the first worksheet of a workbook. Rows whose cells are all
// blank are skipped; short rows are padded with empty values.
func DecodeXLSX(payload []byte) ([]Row, error) {
	if len(payload) == 0 {
		return []Row{}, nil
	}

	book, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, &DecodeError{Err: crerr.Wrap(err, "open xlsx workbook")}
	}
	defer func() { _ = book.Close() }()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return []Row{}, nil
	}

	records, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, &DecodeError{Err: crerr.Wrapf(err, "read sheet %q", sheets[0])}
	}

	var columns []string
	rows := make([]Row, 0, len(records))
	for line, record := range records {
		if blankRecord(record) {
			continue
		}
		if columns == nil {
			columns = normalizeHeader(record)
			continue
		}
		if len(record) > len(columns) {
			return nil, &DecodeError{
				Line: line + 1,
				Err:  crerr.Newf("record has %d cells, header has %d", len(record), len(columns)),
			}
		}
		rows = append(rows, buildRow(columns, record))
	}

	return rows, nil
}

func csvDecodeError(err error) error {
	var parseErr *csv.ParseError
	if stderrors.As(err, &parseErr) {
		return &DecodeError{Line: parseErr.Line, Err: parseErr.Err}
	}
	return &DecodeError{Err: crerr.Wrap(err, "read csv")}
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, cell := range header {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}

func buildRow(columns, record []string) Row {
	row := make(Row, len(columns))
	for i, column := range columns {
		if column == "" {
			continue
		}
		if i < len(record) {
			row[column] = record[i]
			continue
		}
		row[column] = ""
	}
	return row
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
