package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Row is one data line of the first sheet. Line is the 1-based spreadsheet row.
type Row struct {
	Line   int
	Values map[string]string
}

// ReadRows parses the first sheet of an .xlsx stream. The first row is the header;
// columns no rule recognizes are ignored and blank lines are skipped.
func ReadRows(r io.Reader, rules HeaderRules) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("Excel file has no sheets")
	}

	// raw values: dates come back as serials instead of the cell's display format
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(raw) == 0 {
		return []Row{}, nil
	}

	cols := rules.Columns(raw[0])
	if len(cols) == 0 {
		return nil, fmt.Errorf("no recognized column in header row")
	}

	rows := make([]Row, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		values := make(map[string]string, len(cols))
		blank := true
		for idx, field := range cols {
			if idx >= len(raw[i]) {
				continue
			}
			v := strings.TrimSpace(raw[i][idx])
			if v != "" {
				blank = false
				values[field] = v
			}
		}
		if blank {
			continue
		}
		rows = append(rows, Row{Line: i + 1, Values: values})
	}
	return rows, nil
}

// maxSerial is 9999-12-31 in the 1900 date system.
const maxSerial = 2958466

// SerialDate converts a raw date cell ("45366" or "45366.5") to a time. Strings that
// are not a serial in the 1900 date system report false.
func SerialDate(s string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || serial < 1 || serial >= maxSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
