// internal/app/pipeline/importer/xlsx.go
package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads rows from the first sheet of a workbook. The header row
// supplies field names; rows shorter than the header are padded with
// empty cells, and fully empty rows are dropped.
func ReadXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(raw) < 2 {
		return nil, nil
	}

	header := raw[0]
	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(Row, len(header))
		empty := true
		for i, name := range header {
			if name == "" {
				continue
			}
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			row[name] = value
			if value != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
