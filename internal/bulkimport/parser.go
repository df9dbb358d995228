package bulkimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dream-society/unity-nest/pkg/apperror"
	"github.com/xuri/excelize/v2"
)

// Record is one flat row produced by the parser, keyed by column name.
// All values are carried as strings; numeric coercion happens at insert
// time so that CSV, XLSX and JSON inputs behave identically.
type Record map[string]string

// Parse converts an uploaded file into an ordered list of records.
// The format is selected by file extension: .csv, .xlsx or .json.
func Parse(data []byte, filename string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(data)
	case ".xlsx":
		return parseXLSX(data)
	case ".json":
		return parseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", apperror.ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func parseCSV(data []byte) ([]Record, error) {
	br := stripUTF8BOM(bufio.NewReader(bytes.NewReader(data)))

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("%w: %v", apperror.ErrMalformedInput, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperror.ErrMalformedInput, err)
		}

		rec := rowToRecord(header, row)
		if rec.empty() {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseXLSX(data []byte) ([]Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrMalformedInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []Record{}, nil
	}

	// Only the first worksheet is read.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrMalformedInput, err)
	}
	if len(rows) == 0 {
		return []Record{}, nil
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []Record
	for _, row := range rows[1:] {
		rec := rowToRecord(header, row)
		if rec.empty() {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseJSON(data []byte) ([]Record, error) {
	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("%w: top-level JSON value must be an array of objects", apperror.ErrMalformedInput)
	}

	records := make([]Record, 0, len(objects))
	for _, obj := range objects {
		rec := make(Record, len(obj))
		for k, v := range obj {
			rec[k] = stringifyScalar(v)
		}
		records = append(records, rec)
	}

	return records, nil
}

func rowToRecord(header, row []string) Record {
	rec := make(Record, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		value := ""
		if i < len(row) {
			value = strings.TrimSpace(row[i])
		}
		rec[name] = value
	}
	return rec
}

func (r Record) empty() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}

func stringifyScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}
