package colfmt

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadRows reads one column of values.
//
// path "" or "-" reads stdin, one value per line. ".csv" files
// select the column by header name or 1 based index; ".xlsx" files read the first
// sheet and select the column by header name, letter, or 1 based index. Any other
// file is read one value per line. column may be empty for line input and for
// single column CSV/XLSX data.
func ReadRows(path, column string, stdin io.Reader) ([]string, error) {
	if path == "" || path == "-" {
		if stdin == nil {
			return nil, errors.New("colfmt: no input reader")
		}
		return readLines(stdin)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("colfmt: open %s: %w", path, err)
		}
		defer f.Close()
		rows, err := readCSVColumn(f, column)
		if err != nil {
			return nil, fmt.Errorf("colfmt: read %s: %w", path, err)
		}
		return rows, nil
	case ".xlsx":
		rows, err := readXLSXColumn(path, column)
		if err != nil {
			return nil, fmt.Errorf("colfmt: read %s: %w", path, err)
		}
		return rows, nil
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("colfmt: open %s: %w", path, err)
		}
		defer f.Close()
		return readLines(f)
	}
}

func readLines(r io.Reader) ([]string, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		rows = append(rows, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("colfmt: read lines: %w", err)
	}
	return rows, nil
}

// readCSVColumn keeps blank lines after the first record as empty rows, so row
// numbers keep matching the data lines of the file. encoding/csv drops them.
func readCSVColumn(r io.Reader, column string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var records [][]string
	nextLine := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := reader.FieldPos(0)
		if len(records) > 0 {
			for ; nextLine < line; nextLine++ {
				records = append(records, nil)
			}
		}
		records = append(records, record)

		last := len(record) - 1
		endLine, _ := reader.FieldPos(last)
		nextLine = endLine + strings.Count(record[last], "\n") + 1
	}
	return selectColumn(records, column, parseIndexColumn)
}

func readXLSXColumn(path, column string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return selectColumn(records, column, parseSheetColumn)
}

// selectColumn picks one column out of records. Header names win over positions;
// a column resolved by name consumes the first record as a header.
func selectColumn(records [][]string, column string, byPosition func(string) (int, bool)) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	column = strings.TrimSpace(column)
	index := 0
	body := records

	switch {
	case column == "":
		if width := len(records[0]); width > 1 {
			return nil, fmt.Errorf("input has %d columns, select one with a column name or index", width)
		}
	default:
		if idx := headerIndex(records[0], column); idx >= 0 {
			index = idx
			body = records[1:]
			break
		}
		idx, ok := byPosition(column)
		if !ok {
			return nil, fmt.Errorf("column %q not found in header", column)
		}
		index = idx
	}

	rows := make([]string, 0, len(body))
	for _, record := range body {
		if index < len(record) {
			rows = append(rows, record[index])
			continue
		}
		rows = append(rows, "")
	}
	return rows, nil
}

func headerIndex(header []string, column string) int {
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), column) {
			return i
		}
	}
	return -1
}

func parseIndexColumn(column string) (int, bool) {
	n, err := strconv.Atoi(column)
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

// parseSheetColumn accepts a 1 based index or a column letter such as "B".
func parseSheetColumn(column string) (int, bool) {
	if idx, ok := parseIndexColumn(column); ok {
		return idx, true
	}
	if len(column) > 3 || strings.ToUpper(column) != column {
		return 0, false
	}
	n, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return 0, false
	}
	return n - 1, true
}

// WriteRows writes one value per line.
func WriteRows(w io.Writer, values []string) error {
	bw := bufio.NewWriter(w)
	for _, value := range values {
		if _, err := bw.WriteString(value); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteXLSX writes a single column workbook. An empty header skips the header row.
func WriteXLSX(path, header string, values []string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	row := 1
	if header != "" {
		if err := f.SetCellValue(sheet, "A1", header); err != nil {
			return fmt.Errorf("colfmt: write header: %w", err)
		}
		row++
	}

	for _, value := range values {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("colfmt: cell name: %w", err)
		}
		if err := f.SetCellStr(sheet, cell, value); err != nil {
			return fmt.Errorf("colfmt: write %s: %w", cell, err)
		}
		row++
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("colfmt: save %s: %w", path, err)
	}
	return nil
}
