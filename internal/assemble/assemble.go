package assemble

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zippz/fulfillment-service/internal/catalog"
	"github.com/zippz/fulfillment-service/internal/models"
)

// legendColumnCap is the print-layout capacity of the cards legend.
// Entries past this total are dropped after sorting, so the
// highest-priority ingredients always survive.
const legendColumnCap = 33

// placeholderPrefix marks a product assignment that exists in the
// source data but must not be fulfilled.
const placeholderPrefix = 'x'

// BuildCardData assembles the full template payload for one order: an
// issue per eligible pair plus the merged ingredient legend. A product
// code on the order that is missing from the catalog is a data
// integrity violation and fails the whole order.
func BuildCardData(order models.CustomerOrder, cat *catalog.Catalog) (models.CardData, error) {
	data := models.CardData{
		UUID:        order.UUID,
		OrderNumber: order.OrderNumber,
		Email:       order.Email,
		First:       order.First,
		Last:        order.Last,
		Street1:     order.Street1,
		Street2:     order.Street2,
		City:        order.City,
		State:       order.State,
		Zip:         order.Zip,
		DateTitle:   order.DateTitle,
		DateOrder:   order.DateOrder,
		Issues:      []models.Issue{},
	}

	var legend []models.LegendEntry

	if PairEligible(order.Calm1, order.Calm2) {
		issue, entries, err := buildIssue(models.FamilyCalm, order.Calm1, order.Calm2, cat)
		if err != nil {
			return models.CardData{}, err
		}
		data.Issues = append(data.Issues, issue)
		legend = append(legend, entries...)
	}

	if PairEligible(order.Sleep1, order.Sleep2) {
		issue, entries, err := buildIssue(models.FamilySleep, order.Sleep1, order.Sleep2, cat)
		if err != nil {
			return models.CardData{}, err
		}
		data.Issues = append(data.Issues, issue)
		legend = append(legend, entries...)
	}

	merged := MergeLegend(legend)
	data.LegendColumn1, data.LegendColumn2 = SplitLegendColumns(merged)
	return data, nil
}

// PairEligible reports whether a calm/sleep pair should be processed:
// both members present and neither carrying the placeholder prefix.
func PairEligible(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a[0] != placeholderPrefix && b[0] != placeholderPrefix
}

func buildIssue(family models.ProductFamily, a, b string, cat *catalog.Catalog) (models.Issue, []models.LegendEntry, error) {
	// Ascending string order decides first/second instruction roles,
	// regardless of the order the codes arrived in.
	ids := []string{strings.ToLower(a), strings.ToLower(b)}
	sort.Strings(ids)

	var entries []models.LegendEntry
	products := make([]models.IssueProduct, 2)
	for i, id := range ids {
		p, err := resolveProduct(id, cat)
		if err != nil {
			return models.Issue{}, nil, err
		}
		products[i] = p
		entries = append(entries, cat.Legend[id]...)
	}

	issue := models.Issue{
		Type:            family,
		Product1:        products[0],
		Product2:        products[1],
		Instructions:    Instructions(family, products[0].Name, products[1].Name),
		FAQInstructions: FAQInstructions(family),
	}
	return issue, entries, nil
}

func resolveProduct(id string, cat *catalog.Catalog) (models.IssueProduct, error) {
	name, ok := catalog.Names[id]
	if !ok {
		return models.IssueProduct{}, fmt.Errorf("product %q not in name table", id)
	}
	sku, ok := catalog.SKUs[id]
	if !ok {
		return models.IssueProduct{}, fmt.Errorf("product %q not in sku table", id)
	}
	benefits, ok := cat.Benefits[id]
	if !ok {
		return models.IssueProduct{}, fmt.Errorf("product %q not in benefits catalog", id)
	}
	if _, ok := cat.Legend[id]; !ok {
		return models.IssueProduct{}, fmt.Errorf("product %q not in legend catalog", id)
	}
	return models.IssueProduct{Name: name, ID: id, SKU: sku, Benefits: benefits}, nil
}

// Instructions builds the 4-step usage sequence for a pair. Calm pairs
// use daytime phrasing, sleep pairs nighttime phrasing.
func Instructions(family models.ProductFamily, product1, product2 string) []models.Instruction {
	switch family {
	case models.FamilyCalm:
		return []models.Instruction{
			{BoldText: fmt.Sprintf("Start with %s", product1), Text: "Take each day for 5 days."},
			{BoldText: fmt.Sprintf("Switch to %s", product2), Text: "Take each day for 5 days."},
			{BoldText: "Suggested Use", Text: "Take 2 softgels as needed. Best when taken with food. Allow 4-5 hours between doses."},
			{BoldText: "Track Your Progress", Text: "Use the rating card after each dose."},
		}
	case models.FamilySleep:
		return []models.Instruction{
			{BoldText: fmt.Sprintf("Start with %s", product1), Text: "Take each night for 5 nights."},
			{BoldText: fmt.Sprintf("Switch to %s", product2), Text: "Take each night for 5 nights."},
			{BoldText: "Suggested Use", Text: "Take 2 softgels 30-60 minutes before bedtime."},
			{BoldText: "Track Your Progress", Text: "Use the rating card after each dose."},
		}
	}
	return nil
}

// FAQInstructions returns the fixed FAQ notes for a pair type: two
// entries for calm, one for sleep.
func FAQInstructions(family models.ProductFamily) []string {
	switch family {
	case models.FamilyCalm:
		return []string{
			"It’s ok to skip some days, or not finish a bottle if it isn’t working for you.",
			"You can also take CalmZ multiple times per day.",
		}
	case models.FamilySleep:
		return []string{
			"It’s ok to skip some days, or not finish a bottle if it isn’t working for you.",
		}
	}
	return nil
}

// MergeLegend deduplicates entries by value equality and sorts them by
// the fixed ingredient priority: cbd, cbg, cbn, then everything else
// by name.
func MergeLegend(entries []models.LegendEntry) []models.LegendEntry {
	seen := make(map[models.LegendEntry]struct{}, len(entries))
	merged := make([]models.LegendEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		merged = append(merged, e)
	}
	sort.Slice(merged, func(i, j int) bool {
		return legendSortKey(merged[i]) < legendSortKey(merged[j])
	})
	return merged
}

func legendSortKey(e models.LegendEntry) string {
	switch e.Name {
	case "cbd":
		return "0"
	case "cbg":
		return "1"
	case "cbn":
		return "2"
	}
	return e.Name
}

// SplitLegendColumns splits a sorted legend into the two printed
// columns: column 1 takes the first ceil(n/2) entries, column 2 the
// remainder up to the layout cap.
func SplitLegendColumns(legend []models.LegendEntry) (col1, col2 []models.LegendEntry) {
	half := (len(legend) + 1) / 2
	end := len(legend)
	if end > legendColumnCap {
		end = legendColumnCap
	}
	col1 = legend[:half]
	if half < end {
		col2 = legend[half:end]
	} else {
		col2 = []models.LegendEntry{}
	}
	return col1, col2
}
