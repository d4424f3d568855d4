package assemble

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zippz/fulfillment-service/internal/catalog"
	"github.com/zippz/fulfillment-service/internal/models"
)

func testCatalog() *catalog.Catalog {
	benefits := make(map[string]models.Benefits)
	legend := make(map[string][]models.LegendEntry)
	for code := range catalog.Names {
		benefits[code] = models.Benefits{
			code + " benefit one",
			code + " benefit two",
			code + " benefit three",
		}
		legend[code] = []models.LegendEntry{
			{Color: "#8a2be2", Name: "cbd"},
			{Color: "#ffa500", Name: "ingredient-" + code},
		}
	}
	legend[catalog.AllKey] = nil
	return &catalog.Catalog{Benefits: benefits, Legend: legend}
}

func baseOrder() models.CustomerOrder {
	return models.CustomerOrder{
		First:       "Dana",
		Last:        "Reyes",
		Email:       "dana@example.com",
		Street1:     "12 Elm St",
		City:        "Austin",
		State:       "TX",
		Zip:         "78701",
		UUID:        "9001",
		OrderNumber: "9001",
		DateOrder:   "04/05/2023",
		DateTitle:   "April 5, 2023",
	}
}

func TestPairRolesFollowAscendingCodeOrder(t *testing.T) {
	cat := testCatalog()

	order := baseOrder()
	order.Calm1 = "calm34"
	order.Calm2 = "calm30"

	data, err := BuildCardData(order, cat)
	require.NoError(t, err)
	require.Len(t, data.Issues, 1)
	assert.Equal(t, "CalmZ C30", data.Issues[0].Product1.Name)
	assert.Equal(t, "CalmZ C34", data.Issues[0].Product2.Name)

	// swapping the input order must not change the roles
	order.Calm1, order.Calm2 = order.Calm2, order.Calm1
	swapped, err := BuildCardData(order, cat)
	require.NoError(t, err)
	assert.Equal(t, data.Issues[0].Product1, swapped.Issues[0].Product1)
	assert.Equal(t, data.Issues[0].Product2, swapped.Issues[0].Product2)
}

func TestCalmIssueContent(t *testing.T) {
	cat := testCatalog()

	order := baseOrder()
	order.Calm1 = "calm30"
	order.Calm2 = "calm34"

	data, err := BuildCardData(order, cat)
	require.NoError(t, err)
	require.Len(t, data.Issues, 1)

	issue := data.Issues[0]
	assert.Equal(t, models.FamilyCalm, issue.Type)
	assert.Equal(t, "30-CLM-SG-60", issue.Product1.SKU)
	assert.Equal(t, "34-CLM-SG-60", issue.Product2.SKU)

	require.Len(t, issue.Instructions, 4)
	assert.Equal(t, "Start with CalmZ C30", issue.Instructions[0].BoldText)
	assert.Equal(t, "Take each day for 5 days.", issue.Instructions[0].Text)
	assert.Equal(t, "Switch to CalmZ C34", issue.Instructions[1].BoldText)
	assert.Equal(t, "Take each day for 5 days.", issue.Instructions[1].Text)
	assert.Equal(t, "Suggested Use", issue.Instructions[2].BoldText)
	assert.Equal(t, "Take 2 softgels as needed. Best when taken with food. Allow 4-5 hours between doses.", issue.Instructions[2].Text)
	assert.Equal(t, "Track Your Progress", issue.Instructions[3].BoldText)
	assert.Equal(t, "Use the rating card after each dose.", issue.Instructions[3].Text)

	assert.Len(t, issue.FAQInstructions, 2)
}

func TestSleepIssueUsesNightPhrasing(t *testing.T) {
	cat := testCatalog()

	order := baseOrder()
	order.Sleep1 = "sleep12"
	order.Sleep2 = "sleep10"

	data, err := BuildCardData(order, cat)
	require.NoError(t, err)
	require.Len(t, data.Issues, 1)

	issue := data.Issues[0]
	assert.Equal(t, models.FamilySleep, issue.Type)
	assert.Equal(t, "Start with SleepZ S10", issue.Instructions[0].BoldText)
	assert.Equal(t, "Take each night for 5 nights.", issue.Instructions[0].Text)
	assert.Equal(t, "Take 2 softgels 30-60 minutes before bedtime.", issue.Instructions[2].Text)
	assert.Len(t, issue.FAQInstructions, 1)
}

func TestIneligiblePairsProduceNoIssue(t *testing.T) {
	cat := testCatalog()

	cases := []struct {
		name string
		a, b string
	}{
		{"missing second", "calm30", ""},
		{"missing first", "", "calm34"},
		{"placeholder first", "xcalm30", "calm34"},
		{"placeholder second", "calm30", "xcalm34"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := baseOrder()
			order.Calm1, order.Calm2 = tc.a, tc.b
			data, err := BuildCardData(order, cat)
			require.NoError(t, err)
			assert.Empty(t, data.Issues)
		})
	}
}

func TestBothPairsYieldTwoIssues(t *testing.T) {
	cat := testCatalog()

	order := baseOrder()
	order.Calm1, order.Calm2 = "calm30", "calm34"
	order.Sleep1, order.Sleep2 = "sleep10", "sleep12"

	data, err := BuildCardData(order, cat)
	require.NoError(t, err)
	require.Len(t, data.Issues, 2)
	assert.Equal(t, models.FamilyCalm, data.Issues[0].Type)
	assert.Equal(t, models.FamilySleep, data.Issues[1].Type)

	// shared "cbd" entry deduplicates across all four products
	total := len(data.LegendColumn1) + len(data.LegendColumn2)
	assert.Equal(t, 5, total)
	require.NotEmpty(t, data.LegendColumn1)
	assert.Equal(t, "cbd", data.LegendColumn1[0].Name)
}

func TestUnknownProductCodeFailsOrder(t *testing.T) {
	cat := testCatalog()

	order := baseOrder()
	order.Calm1, order.Calm2 = "calm30", "calm99"

	_, err := BuildCardData(order, cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calm99")
}

func TestMergeLegendDeduplicatesAndIsIdempotent(t *testing.T) {
	entry := models.LegendEntry{Color: "#fff", Name: "melatonin"}
	merged := MergeLegend([]models.LegendEntry{entry, entry})
	require.Len(t, merged, 1)

	again := MergeLegend(merged)
	assert.Equal(t, merged, again)
}

func TestLegendSortPriority(t *testing.T) {
	entries := []models.LegendEntry{
		{Name: "valerian"},
		{Name: "cbn"},
		{Name: "aloe"},
		{Name: "cbd"},
		{Name: "cbg"},
	}
	merged := MergeLegend(entries)

	names := make([]string, len(merged))
	for i, e := range merged {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"cbd", "cbg", "cbn", "aloe", "valerian"}, names)
}

func TestSplitLegendColumns(t *testing.T) {
	for _, total := range []int{0, 1, 2, 33, 40} {
		t.Run(fmt.Sprintf("total=%d", total), func(t *testing.T) {
			entries := make([]models.LegendEntry, total)
			for i := range entries {
				entries[i] = models.LegendEntry{Name: fmt.Sprintf("ing-%02d", i)}
			}

			col1, col2 := SplitLegendColumns(entries)
			assert.Equal(t, (total+1)/2, len(col1))

			capped := total
			if capped > 33 {
				capped = 33
			}
			combined := append(append([]models.LegendEntry{}, col1...), col2...)
			assert.Equal(t, entries[:capped], combined)
		})
	}
}
