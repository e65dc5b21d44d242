package ml

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var ErrMissingColumn = errors.New("missing required column")

// Cell values treated as missing, matching common dataframe NA defaults.
var naValues = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"-nan": {},
	"null": {},
	"NULL": {},
	"None": {},
	"#N/A": {},
	"<NA>": {},
}

// Row is one CSV record. A nil field means the cell was missing.
type Row struct {
	Line         int
	Temperature  *float64
	Humidity     *float64
	PHLevel      *float64
	HealthStatus *string
}

func (r *Row) Complete() bool {
	return r.Temperature != nil && r.Humidity != nil && r.PHLevel != nil && r.HealthStatus != nil
}

// LoadCSV reads training rows from path.
func LoadCSV(path string) ([]*Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV parses rows from r. The header must name every required column;
// extra columns are ignored. A leading UTF-8 BOM is dropped.
func ReadCSV(r io.Reader) ([]*Row, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("csv has no header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	for _, name := range RequiredColumns() {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	rows := make([]*Row, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) > len(header) {
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(record))
		}

		row := &Row{Line: line}
		if row.Temperature, err = numericCell(record, index[ColumnTemperature]); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColumnTemperature, err)
		}
		if row.Humidity, err = numericCell(record, index[ColumnHumidity]); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColumnHumidity, err)
		}
		if row.PHLevel, err = numericCell(record, index[ColumnPHLevel]); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColumnPHLevel, err)
		}
		row.HealthStatus = stringCell(record, index[ColumnHealthStatus])
		rows = append(rows, row)
	}
	return rows, nil
}

func rawCell(record []string, idx int) (string, bool) {
	// Short records leave trailing cells missing.
	if idx >= len(record) {
		return "", false
	}
	value := record[idx]
	if _, na := naValues[strings.TrimSpace(value)]; na {
		return "", false
	}
	return value, true
}

func numericCell(record []string, idx int) (*float64, error) {
	raw, ok := rawCell(record, idx)
	if !ok {
		return nil, nil
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, err
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return nil, fmt.Errorf("non-finite value %q", raw)
	}
	return &value, nil
}

func stringCell(record []string, idx int) *string {
	raw, ok := rawCell(record, idx)
	if !ok {
		return nil
	}
	return &raw
}
