package catalog

// Static product tables for the one supported catalog. Loaded-once
// reference data; never mutated after init.

// Names maps a normalized product code to its display name.
var Names = map[string]string{
	"sleep10": "SleepZ S10",
	"sleep12": "SleepZ S12",
	"sleep14": "SleepZ S14",
	"sleep16": "SleepZ S16",
	"sleep18": "SleepZ S18",
	"sleep20": "SleepZ S20",
	"calm30":  "CalmZ C30",
	"calm32":  "CalmZ C32",
	"calm34":  "CalmZ C34",
	"calm36":  "CalmZ C36",
	"calm38":  "CalmZ C38",
	"calm40":  "CalmZ C40",
}

// SKUs maps a normalized product code to its fulfillment SKU.
var SKUs = map[string]string{
	"calm30":  "30-CLM-SG-60",
	"calm32":  "32-CLM-SG-60",
	"calm34":  "34-CLM-SG-60",
	"calm36":  "36-CLM-SG-60",
	"calm38":  "38-CLM-SG-60",
	"calm40":  "40-CLM-SG-60",
	"sleep10": "10-SLP-SG-60",
	"sleep12": "12-SLP-SG-60",
	"sleep14": "14-SLP-SG-60",
	"sleep16": "16-SLP-SG-60",
	"sleep18": "18-SLP-SG-60",
	"sleep20": "20-SLP-SG-60",
}
