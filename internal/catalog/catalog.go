package catalog

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/zippz/fulfillment-service/internal/models"
)

// Legend sheet geometry: product columns D..O, header on row 2,
// ingredient rows 3..35.
const (
	legendHeaderRow   = 2
	legendFirstRow    = 3
	legendLastRow     = 35
	legendColorCol    = 1 // column B
	legendNameCol     = 2 // column C
	legendFirstPrdCol = 3 // column D
	legendLastPrdCol  = 14 // column O
)

// benefits sheet geometry: product label in column B, data from row 4
const (
	benefitsLabelCol = 1
	benefitsFirstRow = 4
)

// AllKey is the synthetic legend bucket holding every ingredient
// regardless of product association.
const AllKey = "all"

// Catalog is the read-only reference data for a run: per-product
// benefit statements and per-product ingredient legends.
type Catalog struct {
	Benefits map[string]models.Benefits
	Legend   map[string][]models.LegendEntry
}

// Load reads the two reference workbooks and builds the catalog
// mappings. The reference data is assumed well-formed; a malformed
// legend row is a hard error rather than a silent skip.
func Load(benefitsPath, legendPath string) (*Catalog, error) {
	benefits, err := loadBenefits(benefitsPath)
	if err != nil {
		return nil, fmt.Errorf("load benefits: %w", err)
	}
	legend, err := loadLegend(legendPath)
	if err != nil {
		return nil, fmt.Errorf("load legend: %w", err)
	}
	return &Catalog{Benefits: benefits, Legend: legend}, nil
}

// NormalizeCode turns a reference-sheet product label ("Calm Z30",
// "Sleep Z12") into its canonical code: lowercase, no spaces, family
// marker "z" stripped.
func NormalizeCode(label string) string {
	code := strings.ToLower(label)
	code = strings.ReplaceAll(code, " ", "")
	return strings.ReplaceAll(code, "z", "")
}

func loadBenefits(path string) (map[string]models.Benefits, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	benefits := make(map[string]models.Benefits)
	// The two family sheets carry their benefit text in different
	// column positions.
	sheets := []struct {
		name     string
		firstCol int
	}{
		{"SleepZ", 4},
		{"CalmZ", 3},
	}
	for _, s := range sheets {
		rows, err := f.GetRows(s.name)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", s.name, err)
		}
		for i := benefitsFirstRow - 1; i < len(rows); i++ {
			label := cell(rows[i], benefitsLabelCol)
			if label == "" {
				// blank spacer row
				continue
			}
			benefits[NormalizeCode(label)] = models.Benefits{
				cell(rows[i], s.firstCol),
				cell(rows[i], s.firstCol+1),
				cell(rows[i], s.firstCol+2),
			}
		}
	}
	return benefits, nil
}

func loadLegend(path string) (map[string][]models.LegendEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(AllKey)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", AllKey, err)
	}
	if len(rows) < legendHeaderRow {
		return nil, fmt.Errorf("legend sheet has no header row")
	}

	// Header row maps column positions to product codes.
	colCodes := make(map[int]string)
	header := rows[legendHeaderRow-1]
	for col := legendFirstPrdCol; col <= legendLastPrdCol; col++ {
		colCodes[col] = cell(header, col)
	}

	legend := make(map[string][]models.LegendEntry)
	// Pre-seed every known code so a product with no marked
	// ingredients still resolves to an empty legend rather than a
	// missing key.
	for code := range Names {
		legend[code] = []models.LegendEntry{}
	}
	legend[AllKey] = []models.LegendEntry{}

	last := legendLastRow
	if len(rows) < last {
		last = len(rows)
	}
	for i := legendFirstRow - 1; i < last; i++ {
		row := rows[i]
		name := strings.ToLower(cell(row, legendNameCol))
		if name == "" {
			return nil, fmt.Errorf("legend row %d: missing ingredient name", i+1)
		}
		entry := models.LegendEntry{Color: cell(row, legendColorCol), Name: name}
		legend[AllKey] = append(legend[AllKey], entry)
		for col := legendFirstPrdCol; col <= legendLastPrdCol; col++ {
			if cell(row, col) == "" {
				continue
			}
			code := colCodes[col]
			legend[code] = append(legend[code], entry)
		}
	}
	return legend, nil
}

// cell returns the trimmed value at idx, tolerating the short rows
// excelize produces when trailing cells are empty.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
