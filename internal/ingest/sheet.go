package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/zippz/fulfillment-service/internal/logging"
	"github.com/zippz/fulfillment-service/internal/models"
)

// OrdersSheet is the worksheet holding pending orders
const OrdersSheet = "Orders"

// Pending-orders sheet column positions (0-based). The layout is
// position-coupled to the upstream export and must not drift.
const (
	colFirst   = 0
	colLast    = 1
	colEmail   = 3
	colStreet1 = 4
	colStreet2 = 5
	colCity    = 6
	colState   = 7
	colZip     = 8
	colUUID    = 9
	colPack    = 10
	colSleep1  = 11
	colSleep2  = 12
	colCalm1   = 13
	colCalm2   = 14
	colOrderNo = 15
	colDate    = 16
	colCardURL = 18
)

// sheetDateLayouts are tried in order when parsing the order-date cell
var sheetDateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
	"2006-01-02",
}

// FromSheet reads the pending-orders window [minRow, maxRow] (1-based)
// and returns one canonical order per shippable row. Rows missing a
// last name or zip, or carrying an unparsable order date, are skipped
// with a log line; ingestion continues with the next candidate.
func FromSheet(path string, minRow, maxRow int) ([]models.CustomerOrder, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open shipments file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(OrdersSheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", OrdersSheet, err)
	}

	var orders []models.CustomerOrder
	for rowNum := minRow; rowNum <= maxRow && rowNum <= len(rows); rowNum++ {
		row := rows[rowNum-1]
		if cell(row, colLast) == "" || cell(row, colZip) == "" {
			continue
		}

		dateOrder, dateTitle, ok := parseSheetDate(cell(row, colDate))
		if !ok {
			logging.LogKV("warn", "skipping row with unparsable order date", map[string]interface{}{
				"row":  rowNum,
				"date": cell(row, colDate),
			})
			continue
		}

		orders = append(orders, models.CustomerOrder{
			First:       cell(row, colFirst),
			Last:        cell(row, colLast),
			Email:       cell(row, colEmail),
			Street1:     cell(row, colStreet1),
			Street2:     cell(row, colStreet2),
			City:        cell(row, colCity),
			State:       cell(row, colState),
			Zip:         cell(row, colZip),
			UUID:        cell(row, colUUID),
			Pack:        cell(row, colPack),
			Sleep1:      strings.ToLower(cell(row, colSleep1)),
			Sleep2:      strings.ToLower(cell(row, colSleep2)),
			Calm1:       strings.ToLower(cell(row, colCalm1)),
			Calm2:       strings.ToLower(cell(row, colCalm2)),
			OrderNumber: cell(row, colOrderNo),
			DateOrder:   dateOrder,
			DateTitle:   dateTitle,
		})
	}
	return orders, nil
}

// parseSheetDate derives both date renderings from the one source
// cell so they can never disagree. An empty cell yields empty strings.
func parseSheetDate(value string) (dateOrder, dateTitle string, ok bool) {
	if value == "" {
		return "", "", true
	}
	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("01/02/2006"), t.Format("January 2, 2006"), true
		}
	}
	return "", "", false
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
