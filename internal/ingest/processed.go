package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WriteSignedURLs rewrites the shipments workbook with the cards PDF
// URL filled in for matching order uuids inside the row window, saving
// the result to dstPath. This is the run's only durable spreadsheet
// side effect.
func WriteSignedURLs(srcPath, dstPath string, minRow, maxRow int, cardURLs map[string]string) error {
	f, err := excelize.OpenFile(srcPath)
	if err != nil {
		return fmt.Errorf("open shipments file: %w", err)
	}
	defer f.Close()

	for rowNum := minRow; rowNum <= maxRow; rowNum++ {
		last, err := cellValue(f, colLast, rowNum)
		if err != nil {
			return err
		}
		if last == "" {
			continue
		}
		uuid, err := cellValue(f, colUUID, rowNum)
		if err != nil {
			return err
		}
		url, ok := cardURLs[uuid]
		if !ok {
			continue
		}
		name, err := excelize.CoordinatesToCellName(colCardURL+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(OrdersSheet, name, url); err != nil {
			return fmt.Errorf("set url cell %s: %w", name, err)
		}
	}

	if dir := filepath.Dir(dstPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create processed dir: %w", err)
		}
	}
	if err := f.SaveAs(dstPath); err != nil {
		return fmt.Errorf("save processed file: %w", err)
	}
	return nil
}

func cellValue(f *excelize.File, col, rowNum int) (string, error) {
	name, err := excelize.CoordinatesToCellName(col+1, rowNum)
	if err != nil {
		return "", err
	}
	v, err := f.GetCellValue(OrdersSheet, name)
	if err != nil {
		return "", fmt.Errorf("read cell %s: %w", name, err)
	}
	return v, nil
}
