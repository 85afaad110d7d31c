package evaluate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

// Column headers of labelled and prediction files.
const (
	ColumnQuery = "Query"
	ColumnURL   = "Assessment_url"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing column")

// Pair is one Query,Assessment_url row.
type Pair struct {
	Query string
	URL   string
}

// LabeledQuery is a query with all of its relevant urls.
type LabeledQuery struct {
	Query string
	URLs  []string
}

// ReadRows reads a CSV or XLSX table and returns its header and data rows.
// The format is detected from content, not the file name.
func ReadRows(path string) ([]string, [][]string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("detect %s: %w", path, err)
	}
	var rows [][]string
	if mt.Is(xlsxMIME) || (mt.Is("application/zip") && strings.EqualFold(filepath.Ext(path), ".xlsx")) {
		rows, err = readXLSX(path)
	} else {
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s: no header row", path)
	}
	return rows[0], rows[1:], nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV: %w", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadPairs reads Query,Assessment_url rows. Rows with a blank query or url are skipped.
func ReadPairs(path string) ([]Pair, error) {
	header, rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	qi, ui := columnIndex(header, ColumnQuery), columnIndex(header, ColumnURL)
	if qi < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnQuery)
	}
	if ui < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnURL)
	}
	pairs := make([]Pair, 0, len(rows))
	for _, row := range rows {
		q, u := cell(row, qi), cell(row, ui)
		if q == "" || u == "" {
			continue
		}
		pairs = append(pairs, Pair{Query: q, URL: u})
	}
	return pairs, nil
}

// ReadQueries reads the Query column, keeping blank entries so callers can report them.
func ReadQueries(path string) ([]string, error) {
	header, rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	qi := columnIndex(header, ColumnQuery)
	if qi < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnQuery)
	}
	queries := make([]string, len(rows))
	for i, row := range rows {
		queries[i] = cell(row, qi)
	}
	return queries, nil
}

// GroupByQuery collects the urls of each query, in first-seen query order.
func GroupByQuery(pairs []Pair) []LabeledQuery {
	index := make(map[string]int)
	var out []LabeledQuery
	for _, p := range pairs {
		i, ok := index[p.Query]
		if !ok {
			i = len(out)
			index[p.Query] = i
			out = append(out, LabeledQuery{Query: p.Query})
		}
		out[i].URLs = append(out[i].URLs, p.URL)
	}
	return out
}

// WritePairs writes pairs as a Query,Assessment_url CSV.
func WritePairs(w io.Writer, pairs []Pair) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnQuery, ColumnURL}); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := cw.Write([]string{p.Query, p.URL}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
