package models

// ProductFamily identifies which softgel line a product pair belongs to
type ProductFamily string

const (
	FamilyCalm  ProductFamily = "calmz"
	FamilySleep ProductFamily = "sleepz"
)

// IsValid checks if the product family is valid
func (f ProductFamily) IsValid() bool {
	return f == FamilyCalm || f == FamilySleep
}

// Benefits holds the three ordered benefit statements for a product code
type Benefits [3]string

// LegendEntry is a (color, ingredient) pair shown on the printed legend.
// Entries are deduplicated by full value equality when merged.
type LegendEntry struct {
	Color string `json:"color"`
	Name  string `json:"name"`
}

// CustomerOrder is the canonical unit of work produced by ingestion.
// Address subfields default to empty strings, never to a null, so the
// templates can always render them. Product codes are normalized
// ("calm30", "sleep12"); an absent assignment is the empty string.
type CustomerOrder struct {
	First       string `json:"first"`
	Last        string `json:"last"`
	Email       string `json:"email"`
	Street1     string `json:"street1"`
	Street2     string `json:"street2"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	Pack        string `json:"pack"`
	Sleep1      string `json:"sleep1"`
	Sleep2      string `json:"sleep2"`
	Calm1       string `json:"calm1"`
	Calm2       string `json:"calm2"`
	UUID        string `json:"uuid"`
	OrderNumber string `json:"order_number"`
	DateOrder   string `json:"date_order"` // MM/DD/YYYY
	DateTitle   string `json:"date_title"` // Month DD, YYYY
}

// IssueProduct is one resolved product inside an issue
type IssueProduct struct {
	Name     string   `json:"name"`
	ID       string   `json:"id"`
	SKU      string   `json:"sku"`
	Benefits Benefits `json:"benefits"`
}

// Instruction is one step of the usage sequence
type Instruction struct {
	BoldText string `json:"bold_text"`
	Text     string `json:"text"`
}

// Issue is the assembled content for one eligible product pair
type Issue struct {
	Type            ProductFamily `json:"type"`
	Product1        IssueProduct  `json:"product1"`
	Product2        IssueProduct  `json:"product2"`
	Instructions    []Instruction `json:"instructions"`
	FAQInstructions []string      `json:"faq_instructions"`
}

// CardData is the fully assembled template payload for one order
type CardData struct {
	UUID          string        `json:"uuid"`
	OrderNumber   string        `json:"order_number"`
	Email         string        `json:"email"`
	First         string        `json:"first"`
	Last          string        `json:"last"`
	Street1       string        `json:"street1"`
	Street2       string        `json:"street2"`
	City          string        `json:"city"`
	State         string        `json:"state"`
	Zip           string        `json:"zip"`
	DateTitle     string        `json:"date_title"`
	DateOrder     string        `json:"date_order"`
	Issues        []Issue       `json:"issues"`
	LegendColumn1 []LegendEntry `json:"legend_column1"`
	LegendColumn2 []LegendEntry `json:"legend_column2"`
}

// ShipStation payload types. Field names and shapes follow the
// ShipStation /orders/createorder schema; nullable fields are pointers
// so absent values serialize as JSON null.

// ShipStationAddress is a billTo/shipTo block
type ShipStationAddress struct {
	Name        string  `json:"name"`
	Company     *string `json:"company"`
	Street1     string  `json:"street1"`
	Street2     string  `json:"street2"`
	Street3     *string `json:"street3"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	PostalCode  string  `json:"postalCode"`
	Country     string  `json:"country"`
	Phone       *string `json:"phone"`
	Residential *bool   `json:"residential"`
}

// ShipStationItem is one order line item
type ShipStationItem struct {
	OrderItemID       int64    `json:"orderItemId"`
	LineItemKey       *string  `json:"lineItemKey"`
	SKU               string   `json:"sku"`
	Name              string   `json:"name"`
	ImageURL          *string  `json:"imageUrl"`
	Weight            *Weight  `json:"weight"`
	Quantity          int      `json:"quantity"`
	UnitPrice         string   `json:"unitPrice"`
	TaxAmount         *float64 `json:"taxAmount"`
	ShippingAmount    *float64 `json:"shippingAmount"`
	WarehouseLocation *string  `json:"warehouseLocation"`
	Options           []any    `json:"options"`
	ProductID         int64    `json:"productId"`
	FulfillmentSKU    *string  `json:"fulfillmentSku"`
	Adjustment        bool     `json:"adjustment"`
	UPC               *string  `json:"upc"`
	CreateDate        string   `json:"createDate"`
	ModifyDate        string   `json:"modifyDate"`
}

// Weight is a package weight declaration
type Weight struct {
	Value       float64 `json:"value"`
	Units       string  `json:"units"`
	WeightUnits int     `json:"WeightUnits"`
}

// Dimensions is a package size declaration
type Dimensions struct {
	Units  string  `json:"units"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// InsuranceOptions carries shipment insurance settings
type InsuranceOptions struct {
	Provider       *string `json:"provider"`
	InsureShipment bool    `json:"insureShipment"`
	InsuredValue   float64 `json:"insuredValue"`
}

// InternationalOptions carries customs settings
type InternationalOptions struct {
	Contents     *string `json:"contents"`
	CustomsItems *any    `json:"customsItems"`
}

// AdvancedOptions carries store routing and the custom metadata
// fields. CustomField1 is where the rendered-PDF link is attached.
type AdvancedOptions struct {
	WarehouseID       int     `json:"warehouseId"`
	NonMachinable     bool    `json:"nonMachinable"`
	SaturdayDelivery  bool    `json:"saturdayDelivery"`
	ContainsAlcohol   bool    `json:"containsAlcohol"`
	MergedOrSplit     bool    `json:"mergedOrSplit"`
	MergedIDs         []int64 `json:"mergedIds"`
	ParentID          *int64  `json:"parentId"`
	StoreID           int     `json:"storeId"`
	CustomField1      *string `json:"customField1"`
	CustomField2      *string `json:"customField2"`
	CustomField3      *string `json:"customField3"`
	Source            string  `json:"source"`
	BillToParty       *string `json:"billToParty"`
	BillToAccount     *string `json:"billToAccount"`
	BillToPostalCode  *string `json:"billToPostalCode"`
	BillToCountryCode *string `json:"billToCountryCode"`
}

// ShipStationOrder is the outbound fulfillment payload. Built once per
// CustomerOrder, mutated once to attach the PDF link, then submitted.
type ShipStationOrder struct {
	OrderNumber              string                `json:"orderNumber"`
	OrderKey                 string                `json:"orderKey"`
	OrderDate                string                `json:"orderDate"`
	PaymentDate              string                `json:"paymentDate"`
	ShipByDate               *string               `json:"shipByDate"`
	OrderStatus              string                `json:"orderStatus"`
	CustomerID               int64                 `json:"customerId"`
	CustomerUsername         *string               `json:"customerUsername"`
	CustomerEmail            *string               `json:"customerEmail"`
	BillTo                   ShipStationAddress    `json:"billTo"`
	ShipTo                   ShipStationAddress    `json:"shipTo"`
	Items                    []ShipStationItem     `json:"items"`
	AmountPaid               float64               `json:"amountPaid"`
	TaxAmount                float64               `json:"taxAmount"`
	ShippingAmount           float64               `json:"shippingAmount"`
	CustomerNotes            string                `json:"customerNotes"`
	InternalNotes            *string               `json:"internalNotes"`
	Gift                     bool                  `json:"gift"`
	GiftMessage              *string               `json:"giftMessage"`
	PaymentMethod            *string               `json:"paymentMethod"`
	RequestedShippingService *string               `json:"requestedShippingService"`
	CarrierCode              string                `json:"carrierCode"`
	ServiceCode              string                `json:"serviceCode"`
	PackageCode              string                `json:"packageCode"`
	Confirmation             string                `json:"confirmation"`
	ShipDate                 *string               `json:"shipDate"`
	Weight                   Weight                `json:"weight"`
	Dimensions               Dimensions            `json:"dimensions"`
	InsuranceOptions         InsuranceOptions      `json:"insuranceOptions"`
	InternationalOptions     InternationalOptions  `json:"internationalOptions"`
	AdvancedOptions          AdvancedOptions       `json:"advancedOptions"`
	TagIDs                   []int64               `json:"tagIds"`
	UserID                   string                `json:"userId"`
	ExternallyFulfilled      bool                  `json:"externallyFulfilled"`
	ExternallyFulfilledBy    *string               `json:"externallyFulfilledBy"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
