package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteSignedURLs(t *testing.T) {
	dir := t.TempDir()
	src := writeShipmentsWorkbook(t, dir)
	dst := filepath.Join(dir, "out", "shipments_processed.xlsx")

	urls := map[string]string{
		"uuid-5": "https://rebrand.ly/abc",
		"uuid-9": "https://rebrand.ly/should-not-appear",
	}
	require.NoError(t, WriteSignedURLs(src, dst, 5, 10, urls))

	f, err := excelize.OpenFile(dst)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue(OrdersSheet, "S5")
	require.NoError(t, err)
	assert.Equal(t, "https://rebrand.ly/abc", got)

	// row 9 has no last name, so its uuid match is ignored
	got, err = f.GetCellValue(OrdersSheet, "S9")
	require.NoError(t, err)
	assert.Empty(t, got)

	// row without a matching uuid stays untouched
	got, err = f.GetCellValue(OrdersSheet, "S8")
	require.NoError(t, err)
	assert.Empty(t, got)

	// the source workbook is not modified in place
	orig, err := excelize.OpenFile(src)
	require.NoError(t, err)
	defer orig.Close()
	got, err = orig.GetCellValue(OrdersSheet, "S5")
	require.NoError(t, err)
	assert.Empty(t, got)
}
