package cost

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes the feature matrix to an xlsx workbook: one row per
// record, one column per feature name, for offline calibration analysis.
func ExportXLSX(records []FeatureRecord, path string) error {
	featureSet := map[string]struct{}{}
	for _, record := range records {
		for name := range record.Values {
			featureSet[name] = struct{}{}
		}
	}
	features := make([]string, 0, len(featureSet))
	for name := range featureSet {
		features = append(features, name)
	}
	sort.Strings(features)

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	header := append([]string{"query_id", "node_type"}, features...)
	for i, name := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for row, record := range records {
		values := []interface{}{record.QueryID, record.NodeType}
		for _, name := range features {
			if v, ok := record.Values[name]; ok {
				values = append(values, v)
			} else {
				values = append(values, nil)
			}
		}
		for col, value := range values {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
